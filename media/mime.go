// Package media provides methods to identify media type using HTTP
// Content-Type header.
package media

import (
	"mime"
	"strings"
)

type Type string

const (
	HTML    Type = "text/html"
	XML     Type = "text/xml"
	XHTML   Type = "application/xhtml+xml"
	PLAIN   Type = "text/plain"
	CSS     Type = "text/css"
	JS      Type = "application/javascript" // x-javascript
	JSON    Type = "application/json"
	UNKNOWN Type = "application/octet-stream"
)

func (t Type) Match(header string) bool {
	m, _, err := mime.ParseMediaType(header)
	return err == nil && m == string(t)
}

func IsHTML(header string) bool {
	return HTML.Match(header) || XHTML.Match(header)
}

func IsCSS(header string) bool {
	return CSS.Match(header)
}

// HasHTMLSuffix reports whether the file name carries an HTML-ish
// extension.
func HasHTMLSuffix(file string) bool {
	for _, suffix := range []string{".html", ".htm", ".xhtml"} {
		if len(file) > len(suffix) &&
			strings.EqualFold(file[len(file)-len(suffix):], suffix) {
			return true
		}
	}
	return false
}
