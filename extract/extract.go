package extract

import (
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/fanyang01/mirror/urlx"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Extractor extracts links from HTML and CSS files.
type Extractor struct {
	// Normalize is applied to each extracted URL; links it rejects
	// are dropped. Defaults to urlx.Normalize.
	Normalize func(*url.URL) error
}

type attrDesc struct {
	attr       string
	inline     bool
	expectHTML bool
	expectCSS  bool
	ignore     bool
}

// Which attributes of which tags carry URLs, and what kind of resource
// they point to.
var tagMap = map[string][]attrDesc{
	"a":       {{attr: "href", expectHTML: true}},
	"area":    {{attr: "href", expectHTML: true}},
	"applet":  {{attr: "code", inline: true}},
	"audio":   {{attr: "src", inline: true}},
	"bgsound": {{attr: "src", inline: true}},
	"body":    {{attr: "background", inline: true}},
	"embed":   {{attr: "src", inline: true}},
	"form":    {{attr: "action", ignore: true}},
	"frame":   {{attr: "src", inline: true, expectHTML: true}},
	"iframe":  {{attr: "src", inline: true, expectHTML: true}},
	"img":     {{attr: "src", inline: true}, {attr: "lowsrc", inline: true}},
	"input":   {{attr: "src", inline: true}},
	"object":  {{attr: "data", inline: true}},
	"script":  {{attr: "src", inline: true}},
	"source":  {{attr: "src", inline: true}},
	"table":   {{attr: "background", inline: true}},
	"td":      {{attr: "background", inline: true}},
	"th":      {{attr: "background", inline: true}},
	"track":   {{attr: "src", inline: true}},
	"video":   {{attr: "src", inline: true}},
}

// HTML extracts links from an HTML file, resolving them against base.
// The second return value reports whether a <meta name="robots"> tag
// asked that links on this page not be followed.
func (e *Extractor) HTML(file string, base *url.URL) (links []*Link, nofollow bool, err error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	r, err := charset.NewReader(f, "")
	if err != nil {
		return nil, false, err
	}
	return e.parseHTML(r, base)
}

func (e *Extractor) parseHTML(r io.Reader, base *url.URL) (links []*Link, nofollow bool, err error) {
	z := html.NewTokenizer(r)
	b := *base
	var inStyle bool
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return links, nofollow, err
			}
			return links, nofollow, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			token := z.Token()
			inStyle = tt == html.StartTagToken && token.Data == "style"
			switch token.Data {
			case "base":
				if v, ok := attrVal(&token, "href"); ok && v != "" {
					if l := e.resolve(&b, v); l != nil {
						b = *l.URL
						l.Ignore = true
						links = append(links, l)
					}
				}
			case "meta":
				name, _ := attrVal(&token, "name")
				if strings.EqualFold(name, "robots") {
					if c, ok := attrVal(&token, "content"); ok &&
						strings.Contains(strings.ToLower(c), "nofollow") {
						nofollow = true
					}
					break
				}
				equiv, _ := attrVal(&token, "http-equiv")
				if strings.EqualFold(equiv, "refresh") {
					if c, ok := attrVal(&token, "content"); ok {
						if target := refreshURL(c); target != "" {
							if l := e.resolve(&b, target); l != nil {
								l.ExpectHTML = true
								links = append(links, l)
							}
						}
					}
				}
			case "link":
				if v, ok := attrVal(&token, "href"); ok && v != "" {
					if l := e.resolve(&b, v); l != nil {
						rel, _ := attrVal(&token, "rel")
						rel = strings.ToLower(rel)
						switch {
						case strings.Contains(rel, "stylesheet"):
							l.Inline = true
							l.ExpectCSS = true
						case strings.Contains(rel, "icon"):
							l.Inline = true
						}
						links = append(links, l)
					}
				}
			default:
				for _, d := range tagMap[token.Data] {
					if v, ok := attrVal(&token, d.attr); ok && v != "" {
						if l := e.resolve(&b, v); l != nil {
							l.Inline = d.inline
							l.ExpectHTML = d.expectHTML
							l.ExpectCSS = d.expectCSS
							l.Ignore = d.ignore
							links = append(links, l)
						}
					}
				}
			}
			if v, ok := attrVal(&token, "style"); ok && v != "" {
				links = append(links, e.scanStyle(&b, v, false)...)
			}
		case html.TextToken:
			if inStyle {
				links = append(links, e.scanStyle(&b, z.Token().Data, true)...)
			}
		case html.EndTagToken:
			inStyle = false
		}
	}
}

// resolve parses ref against base, normalizes it and fills the
// Relative flag. It returns nil for references the crawler cannot use.
func (e *Extractor) resolve(base *url.URL, ref string) *Link {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	u, err := urlx.ParseRef(base, ref)
	if err != nil {
		return nil
	}
	normalize := e.Normalize
	if normalize == nil {
		normalize = urlx.Normalize
	}
	if err := normalize(u); err != nil {
		return nil
	}
	return &Link{URL: u, Relative: relativeRef(ref)}
}

// A reference is relative when it names neither a scheme, a host, nor
// an absolute path.
func relativeRef(ref string) bool {
	r, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return r.Scheme == "" && r.Host == "" && !strings.HasPrefix(r.Path, "/")
}

func attrVal(t *html.Token, attr string) (v string, ok bool) {
	for _, a := range t.Attr {
		if a.Key == attr {
			return a.Val, true
		}
	}
	return "", false
}

// refreshURL extracts the target of a meta refresh value such as
// "5; url=/next.html".
func refreshURL(content string) string {
	i := strings.Index(strings.ToLower(content), "url=")
	if i < 0 {
		return ""
	}
	target := strings.TrimSpace(content[i+len("url="):])
	target = strings.Trim(target, `'"`)
	return target
}
