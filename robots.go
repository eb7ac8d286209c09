package mirror

import (
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/fanyang01/mirror/urlx"
	"github.com/temoto/robotstxt"
)

// emptySpecs allows everything. Installed when robots.txt cannot be
// retrieved, so the retrieval is not retried for the same site.
var emptySpecs *robotstxt.RobotsData

func init() {
	var err error
	if emptySpecs, err = robotstxt.FromString(""); err != nil {
		panic(err)
	}
}

// robotsCache memoizes parsed robots.txt specs per (host, port).
type robotsCache map[string]*robotstxt.RobotsData

func robotsKey(u *url.URL) string {
	return net.JoinHostPort(u.Hostname(), strconv.Itoa(urlx.Port(u)))
}

// specsFor returns the robots specs governing u, fetching and parsing
// robots.txt on first contact with u's host and port. A failed fetch
// installs permissive dummy specs so that retries are suppressed.
func (c *crawl) specsFor(u *url.URL) *robotstxt.RobotsData {
	key := robotsKey(u)
	if specs, ok := c.cw.robots[key]; ok {
		return specs
	}

	specs := emptySpecs
	ru := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}
	file, transient, err := c.cw.ctx.robotsFetch(ru)
	if err != nil {
		c.logger.Debug("robots.txt not retrieved", "url", ru.String(), "err", err)
	} else {
		if b, err := os.ReadFile(file); err != nil {
			c.logger.Warn("read robots file", "file", file, "err", err)
		} else if parsed, err := robotstxt.FromBytes(b); err != nil {
			c.logger.Debug("parse robots file", "file", file, "err", err)
		} else {
			specs = parsed
		}
		if c.cw.opt.DeleteAfter || c.cw.opt.Spider || transient {
			c.logger.Info("removing robots file", "file", file)
			if err := c.cw.ctx.unlink(file); err != nil {
				c.logger.Warn("unlink", "file", file, "err", err)
			}
		}
	}
	c.cw.robots[key] = specs
	return specs
}

// allowedByRobots tests u's path against the given specs.
func (c *crawl) allowedByRobots(specs *robotstxt.RobotsData, u *url.URL) bool {
	return specs.TestAgent(u.EscapedPath(), c.cw.opt.RobotsAgent)
}
