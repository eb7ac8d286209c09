package mirror

import (
	"net/url"

	"github.com/fanyang01/mirror/extract"
	"github.com/fanyang01/mirror/urlx"
)

// descendRedirect decides whether to keep descending after a fetch of
// orig at depth was redirected. The redirect target is walked through
// the admission filter as a synthetic child of orig. Because the
// destination was asserted by the server rather than discovered in a
// document, failures of the local inclusion rules (directory lists and
// the URL regex) are overridden to success; the target is registered
// in the seen-set whenever descent continues.
func (c *crawl) descendRedirect(redirected string, orig *url.URL, depth int) RejectReason {
	u, err := urlx.Parse(redirected, c.cw.normalize)
	if err != nil {
		c.logger.Debug("redirect target not usable",
			"url", redirected, "err", err)
		return NonHTTP
	}

	reason := c.downloadChild(&extract.Link{URL: u}, orig, depth)
	switch reason {
	case Success:
		c.seen.add(u.String())
	case List, Regex:
		c.logger.Debug("ignoring decision for redirect",
			"url", u.String(), "reason", reason.String())
		c.seen.add(u.String())
		reason = Success
	default:
		c.logger.Debug("redirection failed the test",
			"url", redirected, "reason", reason.String())
	}
	return reason
}
