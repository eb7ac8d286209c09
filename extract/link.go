// Package extract parses downloaded HTML and CSS documents and
// extracts the resources they link to.
package extract

import "net/url"

// Link is a single reference found in a document.
type Link struct {
	// URL is the parsed, resolved target.
	URL *url.URL
	// Relative is set when the reference was written as a relative
	// path, e.g. "foo/bar.gif" but not "/foo.gif" or "http://...".
	Relative bool
	// Inline is set for page requisites: resources needed to display
	// the referring document (images, stylesheets, scripts, frames).
	Inline bool
	// ExpectHTML hints that the target is likely an HTML document.
	ExpectHTML bool
	// ExpectCSS hints that the target is likely a stylesheet.
	ExpectCSS bool
	// Ignore marks references that are recorded but must not be
	// downloaded, such as <base href> and form actions.
	Ignore bool
}
