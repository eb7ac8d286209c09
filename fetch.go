package mirror

import (
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fanyang01/mirror/media"
	"github.com/fanyang01/mirror/ratelimit"
	"github.com/fanyang01/mirror/urlx"
	"github.com/inconshreveable/log15"
)

// Fetcher downloads a single URL to a local file. Implementations are
// called synchronously, one fetch at a time.
type Fetcher interface {
	Fetch(u *url.URL, referer string) *FetchResult
}

// FetchResult describes the outcome of one retrieval.
type FetchResult struct {
	// Status is RetrOK, RetrError, or the fatal WriteError.
	Status Status
	// File is the local path of the downloaded body, if any.
	File string
	// NewURL is the final URL after any redirect chain, empty when no
	// redirect happened.
	NewURL string
	// Flags carries RetrOKF and the content-type hints.
	Flags Flag
}

var defaultTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	TLSHandshakeTimeout: 5 * time.Second,
}

// StdFetcher is the reference Fetcher: plain HTTP GET with a cookie
// jar, saving bodies under Dir with a host/path layout.
type StdFetcher struct {
	Client    *http.Client
	Dir       string
	UserAgent string
	// Limit, when set, throttles requests per host.
	Limit *ratelimit.Limit

	logger log15.Logger
	nbytes atomic.Int64
}

// NewStdFetcher creates a fetcher that stores files under dir.
func NewStdFetcher(dir string, logger log15.Logger) *StdFetcher {
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}
	return &StdFetcher{
		Client: &http.Client{
			Transport: defaultTransport,
			Jar:       jar,
		},
		Dir:    dir,
		logger: logger,
	}
}

// Bytes reports the cumulative size of all downloaded bodies.
func (f *StdFetcher) Bytes() int64 { return f.nbytes.Load() }

// Fetch implements Fetcher.
func (f *StdFetcher) Fetch(u *url.URL, referer string) *FetchResult {
	if !urlx.LikeHTTP(u.Scheme) {
		// The reference fetcher speaks HTTP only.
		f.logger.Debug("unsupported scheme", "url", u.String())
		return &FetchResult{Status: RetrError}
	}
	if f.Limit != nil {
		if d := f.Limit.Reserve(u); d > 0 {
			time.Sleep(d)
		}
	}

	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return &FetchResult{Status: RetrError}
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		f.logger.Debug("fetch", "url", u.String(), "err", err)
		return &FetchResult{Status: RetrError}
	}
	defer resp.Body.Close()
	f.logger.Info("GET", "url", u.String(), "status", resp.Status)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &FetchResult{Status: RetrError}
	}

	flags := RetrOKF
	ct := resp.Header.Get("Content-Type")
	if media.IsHTML(ct) {
		flags |= TextHTML
	}
	if media.IsCSS(ct) {
		flags |= TextCSS
	}

	pth := filepath.Join(f.Dir, genPath(u))
	if err := os.MkdirAll(filepath.Dir(pth), 0755); err != nil {
		f.logger.Error("mkdir", "path", pth, "err", err)
		return &FetchResult{Status: WriteError}
	}
	out, err := os.Create(pth)
	if err != nil {
		f.logger.Error("create", "path", pth, "err", err)
		return &FetchResult{Status: WriteError}
	}
	n, err := io.Copy(out, resp.Body)
	f.nbytes.Add(n)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		f.logger.Error("write body", "path", pth, "err", err)
		os.Remove(pth)
		return &FetchResult{Status: WriteError}
	}

	newURL := ""
	if final := resp.Request.URL; final != nil && final.String() != u.String() {
		newURL = final.String()
	}
	return &FetchResult{Status: RetrOK, File: pth, NewURL: newURL, Flags: flags}
}

// genPath maps a URL to a relative file path under the target
// directory.
func genPath(u *url.URL) string {
	pth := u.EscapedPath()
	if strings.HasSuffix(pth, "/") {
		pth += "index.html"
	} else if path.Ext(pth) == "" {
		pth += ".html"
	}
	if u.RawQuery != "" {
		pth += ".query." + u.Query().Encode()
	}
	return filepath.Join(
		u.Host,
		filepath.FromSlash(path.Clean("/"+pth)),
	)
}
