package mirror

import (
	"net/url"
	"regexp"

	"github.com/fanyang01/mirror/extract"
	"github.com/fanyang01/mirror/pattern"
	"github.com/fanyang01/mirror/urlx"
	"github.com/inconshreveable/log15"
)

// Crawler retrieves a part of the web beginning with a start URL,
// walking the tree breadth-first: children discovered in a document
// are admitted by the rule chain and queued behind all previously
// discovered URLs.
type Crawler struct {
	opt       *Option
	ctx       *Context
	newSeen   func() (StringSet, error)
	logger    log15.Logger
	normalize func(*url.URL) error
	robots    robotsCache

	domains  *pattern.List
	dirs     *pattern.List
	files    *pattern.List
	acceptRe *regexp.Regexp
}

// New creates a crawler. The pattern lists of cfg.Option are compiled
// here; invalid rules are reported up front rather than during the
// crawl.
func New(cfg *Config) (*Crawler, error) {
	cfg = initConfig(cfg)
	logger := cfg.Logger
	if cfg.Option.Locale != "" {
		logger = logger.New("locale", cfg.Option.Locale)
	}
	cw := &Crawler{
		opt:       cfg.Option,
		ctx:       cfg.Context,
		newSeen:   cfg.NewSeen,
		logger:    logger,
		normalize: cfg.NormalizeURL,
		robots:    make(robotsCache),
	}
	var err error
	if cw.domains, err = pattern.Compile(
		pattern.Host, cw.opt.Domains, cw.opt.ExcludeDomains); err != nil {
		return nil, err
	}
	if cw.dirs, err = pattern.Compile(
		pattern.Dir, cw.opt.IncludeDirs, cw.opt.ExcludeDirs); err != nil {
		return nil, err
	}
	if cw.files, err = pattern.Compile(
		pattern.File, cw.opt.Accept, cw.opt.Reject); err != nil {
		return nil, err
	}
	if cw.opt.AcceptRegex != "" {
		if cw.acceptRe, err = regexp.Compile(cw.opt.AcceptRegex); err != nil {
			return nil, err
		}
	}
	return cw, nil
}

// Crawl parses and normalizes rawurl, then retrieves the tree rooted
// at it.
func (cw *Crawler) Crawl(rawurl string) (Status, error) {
	u, err := urlx.Parse(rawurl, cw.normalize)
	if err != nil {
		return RetrError, err
	}
	return cw.RetrieveTree(u), nil
}

// crawl is the state owned by a single RetrieveTree call.
type crawl struct {
	cw     *Crawler
	start  *url.URL
	queue  *urlQueue
	seen   *blacklist
	rlog   *rejectLog
	logger log15.Logger
}

// RetrieveTree performs the breadth-first retrieval rooted at
// startURL. It returns QuotaExceeded if the download quota was
// exhausted, WriteError if a fatal write error stopped the crawl,
// RetrError if the crawl could not start (no Fetcher configured, or the
// seen-set could not be created), and RetrOK otherwise. The original
// startURL is kept as the reference for
// admission decisions; the queue consumes a copy.
func (cw *Crawler) RetrieveTree(startURL *url.URL) Status {
	status := RetrOK
	opt, ctx := cw.opt, cw.ctx

	if ctx.Fetcher == nil {
		cw.logger.Error("no fetcher configured")
		return RetrError
	}
	set, err := cw.newSeen()
	if err != nil {
		cw.logger.Error("create seen-set", "err", err)
		return RetrError
	}
	c := &crawl{
		cw:     cw,
		start:  startURL,
		queue:  newQueue(cw.logger),
		seen:   &blacklist{set: set, logger: cw.logger},
		logger: cw.logger.New("start", startURL.String()),
	}

	dup := *startURL
	c.queue.enqueue(&dup, "", 0, true, false)
	c.seen.add(startURL.String())
	c.rlog = openRejectLog(opt.RejectedLog, cw.logger)

	for {
		if opt.Quota > 0 && ctx.bytes() > opt.Quota {
			break
		}
		if status == WriteError {
			break
		}
		it, ok := c.queue.dequeue()
		if !ok {
			break
		}

		descend, isCSS, leafHTML := false, false, false
		var file string

		// The download is unconditional apart from the FileMap reuse
		// below: the admission filter already guarantees no URL is
		// enqueued twice within one crawl, and a URL downloaded by an
		// earlier crawl may reappear here at a different depth, in
		// which case its children must be reconsidered.
		if f, ok := ctx.FileMap[it.url.String()]; ok {
			file = f
			c.logger.Debug("already downloaded, reusing",
				"url", it.url.String(), "file", file)
			cssFile := it.cssAllowed && ctx.CSSFiles[file]
			if cssFile || (it.htmlAllowed && ctx.HTMLFiles[file]) {
				descend = true
				isCSS = cssFile
			}
		} else {
			res := ctx.Fetcher.Fetch(it.url, it.referer)
			if res == nil {
				res = &FetchResult{Status: RetrError}
			}
			status = res.Status
			file = res.File

			if it.htmlAllowed && file != "" && res.Status == RetrOK &&
				res.Flags&RetrOKF != 0 && res.Flags&TextHTML != 0 {
				descend = true
				isCSS = false
			}
			// cssAllowed overrides the content type: plenty of
			// servers serve CSS as text/plain.
			if file != "" && res.Status == RetrOK && res.Flags&RetrOKF != 0 &&
				(res.Flags&TextCSS != 0 || it.cssAllowed) {
				descend = true
				isCSS = true
			}

			if res.NewURL != "" && descend {
				// We have been redirected, possibly to another host.
				// Check whether we really want to follow it.
				if r := c.descendRedirect(res.NewURL, it.url, it.depth); r == Success {
					// Make sure the old pre-redirect form gets
					// blacklisted.
					c.seen.add(it.url.String())
				} else {
					c.rlog.log(r, it.url, c.start)
					descend = false
				}
			}
		}

		if opt.Spider {
			ctx.visited(it.url.String(), it.referer)
		}

		if descend && !opt.infinite() && it.depth >= opt.MaxDepth {
			if opt.PageRequisites &&
				(it.depth == opt.MaxDepth || it.depth == opt.MaxDepth+1) {
				// Page requisites may exceed the maximum depth, but
				// only for inline links. The allowance is two levels,
				// not one, so that leaf pages containing frames load
				// correctly.
				leafHTML = true
			} else {
				c.logger.Debug("not descending further",
					"depth", it.depth, "max", opt.MaxDepth)
				descend = false
			}
		}

		if descend {
			c.walkChildren(it, file, isCSS, leafHTML)
		}

		if file != "" &&
			(opt.DeleteAfter || opt.Spider || !cw.acceptableFile(file)) {
			// Either --delete-after was requested, or this file was
			// loaded only to harvest its links.
			if opt.DeleteAfter || opt.Spider {
				c.logger.Info("removing", "file", file)
			} else {
				c.logger.Info("removing rejected file", "file", file)
			}
			if err := ctx.unlink(file); err != nil {
				c.logger.Warn("unlink", "file", file, "err", err)
			}
			ctx.registerDelete(file)
		}

		it.free()
	}

	c.rlog.close(cw.logger)

	// Free whatever is left of the queue after a premature exit.
	for {
		it, ok := c.queue.dequeue()
		if !ok {
			break
		}
		it.free()
	}
	c.seen.close()

	if opt.Quota > 0 && ctx.bytes() > opt.Quota {
		return QuotaExceeded
	}
	if status == WriteError {
		return WriteError
	}
	return RetrOK
}

// walkChildren extracts the links of a downloaded document and
// enqueues the admitted ones at the next depth.
func (c *crawl) walkChildren(it *item, file string, isCSS, leafHTML bool) {
	var (
		children []*extract.Link
		nofollow bool
		err      error
	)
	if isCSS {
		children, err = c.cw.ctx.Extractor.CSS(file, it.url)
	} else {
		children, nofollow, err = c.cw.ctx.Extractor.HTML(file, it.url)
	}
	if err != nil {
		c.logger.Warn("extract links", "file", file, "err", err)
		return
	}
	if c.cw.opt.UseRobots && nofollow {
		c.logger.Info("nofollow attribute found, not following any links",
			"file", file)
		return
	}

	referer := it.url.String()
	if it.url.User != nil {
		referer = urlx.StripAuth(it.url)
	}

	for _, child := range children {
		if child.URL == nil {
			continue
		}
		if child.Ignore {
			c.logger.Debug("not following due to ignore flag",
				"url", child.URL.String())
			continue
		}
		if leafHTML && !child.Inline {
			c.logger.Debug("not following non-inline link on leaf page",
				"url", child.URL.String())
			continue
		}
		if r := c.downloadChild(child, it.url, it.depth); r == Success {
			c.queue.enqueue(child.URL, referer, it.depth+1,
				child.ExpectHTML, child.ExpectCSS)
			// Blacklist the enqueued URL so it cannot be enqueued,
			// and hence downloaded, twice.
			c.seen.add(child.URL.String())
			// The queue owns the URL now.
			child.URL = nil
		} else {
			c.rlog.log(r, child.URL, it.url)
		}
	}
}
