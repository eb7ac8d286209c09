package mirror

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/fanyang01/mirror/urlx"
)

// stubPage describes one URL served by the stub fetcher.
type stubPage struct {
	body     string
	css      bool
	redirect string
	status   Status
	noFlags  bool
}

// stubFetcher serves canned pages from a temp directory and records
// the order of fetches.
type stubFetcher struct {
	t       *testing.T
	dir     string
	pages   map[string]stubPage
	fetched []string
	nbytes  int64
}

func newStubFetcher(t *testing.T, pages map[string]stubPage) *stubFetcher {
	return &stubFetcher{t: t, dir: t.TempDir(), pages: pages}
}

func (f *stubFetcher) Fetch(u *url.URL, referer string) *FetchResult {
	f.fetched = append(f.fetched, u.String())
	p, ok := f.pages[u.String()]
	if !ok {
		return &FetchResult{Status: RetrError}
	}
	if p.status != RetrOK {
		return &FetchResult{Status: p.status}
	}
	name := filepath.Join(f.dir, "file"+strconv.Itoa(len(f.fetched)))
	if err := os.WriteFile(name, []byte(p.body), 0644); err != nil {
		f.t.Fatal(err)
	}
	f.nbytes += int64(len(p.body))
	flags := RetrOKF | TextHTML
	if p.css {
		flags = RetrOKF | TextCSS
	}
	if p.noFlags {
		flags = RetrOKF
	}
	return &FetchResult{
		Status: RetrOK,
		File:   name,
		NewURL: p.redirect,
		Flags:  flags,
	}
}

// newTestCrawler builds a crawler over the stub fetcher.
func newTestCrawler(t *testing.T, opt *Option, ctx *Context, f Fetcher) *Crawler {
	t.Helper()
	if ctx == nil {
		ctx = &Context{}
	}
	ctx.Fetcher = f
	if sf, ok := f.(*stubFetcher); ok {
		ctx.Bytes = func() int64 { return sf.nbytes }
	}
	cw, err := New(&Config{Option: opt, Context: ctx})
	if err != nil {
		t.Fatal(err)
	}
	return cw
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := urlx.Parse(raw, urlx.Normalize)
	if err != nil {
		t.Fatal(err)
	}
	return u
}
