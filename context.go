package mirror

import (
	"errors"
	"net/url"
	"os"

	"github.com/fanyang01/mirror/extract"
)

// Extractor produces the child links of a downloaded document.
type Extractor interface {
	// HTML extracts links from an HTML file resolved against base,
	// also reporting whether the page asked not to be followed.
	HTML(file string, base *url.URL) (links []*extract.Link, nofollow bool, err error)
	// CSS extracts links from a stylesheet file.
	CSS(file string, base *url.URL) ([]*extract.Link, error)
}

// Context carries the crawl's external collaborators and shared state.
// It outlives a single RetrieveTree call; the queue and the seen-set
// do not.
type Context struct {
	Fetcher   Fetcher
	Extractor Extractor

	// FileMap maps already-downloaded URL strings to local files.
	// URLs found here are not fetched again.
	FileMap map[string]string
	// HTMLFiles and CSSFiles record which local files are known to
	// hold HTML or CSS. Consulted only for FileMap reuse.
	HTMLFiles map[string]bool
	CSSFiles  map[string]bool

	// Visited is called for every visited URL in spider mode.
	Visited func(url, referer string)
	// RegisterDelete is told about every file removed during cleanup.
	RegisterDelete func(path string)
	// Unlink removes a file; defaults to os.Remove.
	Unlink func(path string) error

	// RobotsFetch downloads a robots.txt URL to a local file and
	// reports whether that file is transient and should be removed
	// after parsing. Defaults to fetching through Fetcher.
	RobotsFetch func(u *url.URL) (file string, transient bool, err error)

	// Bytes reports the cumulative number of downloaded bytes, used
	// by the quota check. Defaults to the Fetcher's count when it is
	// a *StdFetcher, else to zero.
	Bytes func() int64
}

var errNoFetcher = errors.New("mirror: no fetcher configured")

func (c *Context) visited(url, referer string) {
	if c.Visited != nil {
		c.Visited(url, referer)
	}
}

func (c *Context) registerDelete(path string) {
	if c.RegisterDelete != nil {
		c.RegisterDelete(path)
	}
}

func (c *Context) unlink(path string) error {
	if c.Unlink != nil {
		return c.Unlink(path)
	}
	return os.Remove(path)
}

func (c *Context) bytes() int64 {
	if c.Bytes != nil {
		return c.Bytes()
	}
	if f, ok := c.Fetcher.(*StdFetcher); ok {
		return f.Bytes()
	}
	return 0
}

func (c *Context) robotsFetch(u *url.URL) (string, bool, error) {
	if c.RobotsFetch != nil {
		return c.RobotsFetch(u)
	}
	if c.Fetcher == nil {
		return "", false, errNoFetcher
	}
	res := c.Fetcher.Fetch(u, "")
	if res == nil || res.Status != RetrOK || res.Flags&RetrOKF == 0 || res.File == "" {
		return "", false, errors.New("mirror: robots.txt retrieval failed")
	}
	return res.File, false, nil
}
