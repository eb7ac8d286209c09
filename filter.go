package mirror

import (
	"net/url"
	"strings"

	"github.com/fanyang01/mirror/extract"
	"github.com/fanyang01/mirror/media"
	"github.com/fanyang01/mirror/urlx"
)

// child is the admission filter's view of one candidate URL.
type child struct {
	link   *extract.Link
	parent *url.URL
	depth  int
}

// The admission rules, in evaluation order. The order is part of the
// contract: cheap checks come first, and the robots rule runs last
// because it fetches robots.txt on first contact with a site and may
// add to the seen-set.
var childRules = []func(*crawl, *child) RejectReason{
	ruleBlacklist,
	ruleHTTPSOnly,
	ruleSchemeClass,
	ruleRelative,
	ruleDomain,
	ruleParent,
	ruleDirList,
	ruleURLRegex,
	ruleSuffix,
	ruleSpanHost,
	ruleRobots,
}

// downloadChild decides whether a child URL discovered under parent at
// depth is to be enqueued.
func (c *crawl) downloadChild(link *extract.Link, parent *url.URL, depth int) RejectReason {
	t := &child{link: link, parent: parent, depth: depth}
	c.logger.Debug("deciding whether to enqueue", "url", link.URL.String())
	for _, rule := range childRules {
		if reason := rule(c, t); reason != Success {
			c.logger.Debug("decided not to load", "url", link.URL.String(),
				"reason", reason.String())
			return reason
		}
	}
	c.logger.Debug("decided to load", "url", link.URL.String())
	return Success
}

func ruleBlacklist(c *crawl, t *child) RejectReason {
	u := t.link.URL
	if !c.seen.contains(u.String()) {
		return Success
	}
	if c.cw.opt.Spider {
		c.cw.ctx.visited(u.String(), urlx.MaskPassword(t.parent))
	}
	return Blacklisted
}

func ruleHTTPSOnly(c *crawl, t *child) RejectReason {
	if c.cw.opt.HTTPSOnly && t.link.URL.Scheme != "https" {
		return NotHTTPS
	}
	return Success
}

// Schemes other than HTTP are normally not recursed into.
func ruleSchemeClass(c *crawl, t *child) RejectReason {
	scheme := t.link.URL.Scheme
	if urlx.LikeHTTP(scheme) {
		return Success
	}
	if (scheme == "ftp" || scheme == "ftps") && c.cw.opt.FollowFTP {
		return Success
	}
	return NonHTTP
}

func ruleRelative(c *crawl, t *child) RejectReason {
	if urlx.LikeHTTP(t.link.URL.Scheme) &&
		c.cw.opt.RelativeOnly && !t.link.Relative {
		return Absolute
	}
	return Success
}

func ruleDomain(c *crawl, t *child) RejectReason {
	if !c.cw.domains.Match(t.link.URL.Hostname()) {
		return Domain
	}
	return Success
}

// The no-parent rule applies only when the child stays on the start
// URL's site: same scheme class, same host, and either the identical
// scheme or the identical port. Page requisites are exempt.
func ruleParent(c *crawl, t *child) RejectReason {
	u, start := t.link.URL, c.start
	if !c.cw.opt.NoParent ||
		!urlx.SimilarScheme(u.Scheme, start.Scheme) ||
		!strings.EqualFold(u.Hostname(), start.Hostname()) ||
		(u.Scheme != start.Scheme && urlx.Port(u) != urlx.Port(start)) ||
		(c.cw.opt.PageRequisites && t.link.Inline) {
		return Success
	}
	if !urlx.Subdir(urlx.Dir(start), urlx.Dir(u)) {
		return Parent
	}
	return Success
}

func ruleDirList(c *crawl, t *child) RejectReason {
	if !c.cw.dirs.Empty() && !c.cw.dirs.Match(urlx.Dir(t.link.URL)) {
		return List
	}
	return Success
}

func ruleURLRegex(c *crawl, t *child) RejectReason {
	if c.cw.acceptRe != nil && !c.cw.acceptRe.MatchString(t.link.URL.String()) {
		return Regex
	}
	return Success
}

// Suffix rules are skipped for directory-like URLs, which have no file
// name to match, and for non-leaf HTML: a page whose links can still
// be descended into must be loaded even if its own suffix is rejected.
// Page requisites imply non-leaf because the depth bound may be
// overstepped to collect them.
func ruleSuffix(c *crawl, t *child) RejectReason {
	file := urlx.File(t.link.URL)
	if file == "" {
		return Success
	}
	opt := c.cw.opt
	if media.HasHTMLSuffix(file) &&
		(opt.infinite() || t.depth < opt.MaxDepth-1 || opt.PageRequisites) {
		return Success
	}
	if !c.cw.files.Match(file) {
		return Rules
	}
	return Success
}

func ruleSpanHost(c *crawl, t *child) RejectReason {
	u := t.link.URL
	if urlx.SimilarScheme(u.Scheme, t.parent.Scheme) &&
		!c.cw.opt.SpanHosts &&
		!strings.EqualFold(t.parent.Hostname(), u.Hostname()) {
		return SpannedHost
	}
	return Success
}

// ruleRobots must stay last: it is the only rule that changes crawl
// state, populating the robots cache and, on disallow, the seen-set, so that
// rediscoveries of the same URL short-circuit on the blacklist rule.
func ruleRobots(c *crawl, t *child) RejectReason {
	u := t.link.URL
	if !c.cw.opt.UseRobots || !urlx.LikeHTTP(u.Scheme) {
		return Success
	}
	specs := c.specsFor(u)
	if !c.allowedByRobots(specs, u) {
		c.logger.Debug("forbidden by robots.txt", "url", u.String())
		c.seen.add(u.String())
		return Robots
	}
	return Success
}

// acceptableFile applies the suffix rules to a local file name, for
// the post-download cleanup decision.
func (cw *Crawler) acceptableFile(file string) bool {
	i := strings.LastIndexByte(file, '/')
	return cw.files.Match(file[i+1:])
}
