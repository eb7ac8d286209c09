package mirror

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/fanyang01/mirror/ratelimit"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body><a href="/a">a</a></body></html>`)
	})
	mux.HandleFunc("/style.css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		fmt.Fprint(w, `body { color: red; }`)
	})
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/private", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusForbidden)
	})
	mux.HandleFunc("/echo-referer", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, r.Header.Get("Referer"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func fetchURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestStdFetcherHTML(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)
	f := NewStdFetcher(t.TempDir(), nil)

	res := f.Fetch(fetchURL(t, srv.URL+"/"), "")
	assert.Equal(RetrOK, res.Status)
	assert.NotZero(res.Flags&RetrOKF)
	assert.NotZero(res.Flags&TextHTML)
	assert.Zero(res.Flags&TextCSS)
	assert.Empty(res.NewURL)

	b, err := os.ReadFile(res.File)
	assert.NoError(err)
	assert.Contains(string(b), `<a href="/a">`)
	assert.Equal(int64(len(b)), f.Bytes())
}

func TestStdFetcherCSS(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)
	f := NewStdFetcher(t.TempDir(), nil)

	res := f.Fetch(fetchURL(t, srv.URL+"/style.css"), "")
	assert.Equal(RetrOK, res.Status)
	assert.NotZero(res.Flags&TextCSS)
	assert.Zero(res.Flags&TextHTML)
}

func TestStdFetcherRedirect(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)
	f := NewStdFetcher(t.TempDir(), nil)

	res := f.Fetch(fetchURL(t, srv.URL+"/old"), "")
	assert.Equal(RetrOK, res.Status)
	assert.Equal(srv.URL+"/", res.NewURL)
}

func TestStdFetcherError(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)
	f := NewStdFetcher(t.TempDir(), nil)

	res := f.Fetch(fetchURL(t, srv.URL+"/private"), "")
	assert.Equal(RetrError, res.Status)
	assert.Empty(res.File)

	res = f.Fetch(fetchURL(t, "ftp://example.com/pub"), "")
	assert.Equal(RetrError, res.Status)
}

func TestStdFetcherReferer(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)
	f := NewStdFetcher(t.TempDir(), nil)

	res := f.Fetch(fetchURL(t, srv.URL+"/echo-referer"), "http://h/parent")
	assert.Equal(RetrOK, res.Status)
	b, err := os.ReadFile(res.File)
	assert.NoError(err)
	assert.Equal("http://h/parent", string(b))
}

func TestStdFetcherRateLimit(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)
	f := NewStdFetcher(t.TempDir(), nil)
	f.Limit = ratelimit.Every(50 * time.Millisecond)

	start := time.Now()
	f.Fetch(fetchURL(t, srv.URL+"/"), "")
	f.Fetch(fetchURL(t, srv.URL+"/style.css"), "")
	assert.True(time.Since(start) >= 50*time.Millisecond)
}

func TestGenPath(t *testing.T) {
	assert := assert.New(t)
	for _, tc := range []struct {
		raw, want string
	}{
		{"http://h/", "h/index.html"},
		{"http://h/a/", "h/a/index.html"},
		{"http://h/a/b.html", "h/a/b.html"},
		{"http://h/about", "h/about.html"},
		{"http://h:8080/x.css", "h:8080/x.css"},
	} {
		assert.Equal(tc.want, genPath(fetchURL(t, tc.raw)), tc.raw)
	}
}
