package extract

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseAll(t *testing.T, base, doc string) ([]*Link, bool) {
	t.Helper()
	u, err := url.Parse(base)
	if err != nil {
		t.Fatal(err)
	}
	e := &Extractor{}
	links, nofollow, err := e.parseHTML(strings.NewReader(doc), u)
	assert.NoError(t, err)
	return links, nofollow
}

func urls(links []*Link) (s []string) {
	for _, l := range links {
		s = append(s, l.URL.String())
	}
	return
}

func TestAnchors(t *testing.T) {
	assert := assert.New(t)
	links, nofollow := parseAll(t, "http://example.com/dir/",
		`<html><body>
		<a href="a.html">a</a>
		<a href="/b.html">b</a>
		<a href="http://other.example.com/c">c</a>
		<a href="mailto:nobody@example.com">mail</a>
		</body></html>`)
	assert.False(nofollow)
	assert.Equal([]string{
		"http://example.com/dir/a.html",
		"http://example.com/b.html",
		"http://other.example.com/c",
	}, urls(links))
	assert.True(links[0].Relative)
	assert.False(links[1].Relative)
	assert.False(links[2].Relative)
	for _, l := range links {
		assert.True(l.ExpectHTML)
		assert.False(l.Inline)
	}
}

func TestRequisites(t *testing.T) {
	assert := assert.New(t)
	links, _ := parseAll(t, "http://example.com/",
		`<img src="logo.png">
		<script src="app.js"></script>
		<link rel="stylesheet" href="site.css">
		<link rel="icon" href="favicon.ico">
		<link rel="canonical" href="http://example.com/home">
		<iframe src="frame.html"></iframe>`)
	assert.Equal([]string{
		"http://example.com/logo.png",
		"http://example.com/app.js",
		"http://example.com/site.css",
		"http://example.com/favicon.ico",
		"http://example.com/home",
		"http://example.com/frame.html",
	}, urls(links))

	assert.True(links[0].Inline)
	assert.True(links[1].Inline)
	assert.True(links[2].Inline)
	assert.True(links[2].ExpectCSS)
	assert.True(links[3].Inline)
	assert.False(links[4].Inline)
	assert.True(links[5].Inline)
	assert.True(links[5].ExpectHTML)
}

func TestBase(t *testing.T) {
	assert := assert.New(t)
	links, _ := parseAll(t, "http://example.com/a/",
		`<base href="http://example.com/b/"><a href="x.html">x</a>`)
	assert.Equal([]string{
		"http://example.com/b/",
		"http://example.com/b/x.html",
	}, urls(links))
	assert.True(links[0].Ignore)
	assert.False(links[1].Ignore)
}

func TestMetaNofollow(t *testing.T) {
	_, nofollow := parseAll(t, "http://example.com/",
		`<meta name="ROBOTS" content="noindex, nofollow"><a href="x">x</a>`)
	assert.True(t, nofollow)
}

func TestMetaRefresh(t *testing.T) {
	assert := assert.New(t)
	links, _ := parseAll(t, "http://example.com/",
		`<meta http-equiv="refresh" content="5; url=/next.html">`)
	assert.Equal([]string{"http://example.com/next.html"}, urls(links))
	assert.True(links[0].ExpectHTML)
}

func TestFormIgnored(t *testing.T) {
	assert := assert.New(t)
	links, _ := parseAll(t, "http://example.com/",
		`<form action="/submit"></form>`)
	assert.Equal([]string{"http://example.com/submit"}, urls(links))
	assert.True(links[0].Ignore)
}

func TestStyleBlockAndAttr(t *testing.T) {
	assert := assert.New(t)
	links, _ := parseAll(t, "http://example.com/",
		`<style>
		@import "extra.css";
		body { background: url(bg.png); }
		</style>
		<div style="background-image: url('tile.gif')"></div>`)
	assert.Equal([]string{
		"http://example.com/extra.css",
		"http://example.com/bg.png",
		"http://example.com/tile.gif",
	}, urls(links))
	assert.True(links[0].ExpectCSS)
	assert.True(links[0].Inline)
	assert.False(links[1].ExpectCSS)
	assert.True(links[2].Inline)
}

func TestRelativeRef(t *testing.T) {
	assert := assert.New(t)
	assert.True(relativeRef("foo/bar.gif"))
	assert.True(relativeRef("../up.html"))
	assert.False(relativeRef("/abs.html"))
	assert.False(relativeRef("//example.com/x"))
	assert.False(relativeRef("http://example.com/x"))
}
