package urlx

import (
	"net/url"
	"strconv"
	"strings"
)

// Parse parses a raw URL and applies each function in f to the result.
func Parse(s string, f ...func(*url.URL) error) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	for _, ff := range f {
		if err = ff(u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// ParseRef resolves a (possibly relative) reference against base and
// applies each function in f to the result.
func ParseRef(base *url.URL, s string, f ...func(*url.URL) error) (*url.URL, error) {
	u, err := base.Parse(s)
	if err != nil {
		return nil, err
	}
	for _, ff := range f {
		if err = ff(u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// LikeHTTP reports whether scheme is HTTP or HTTPS.
func LikeHTTP(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

// SimilarScheme reports whether two schemes belong to the same class:
// either identical, or both HTTP-like.
func SimilarScheme(a, b string) bool {
	return a == b || (LikeHTTP(a) && LikeHTTP(b))
}

// DefaultPort returns the well-known port of scheme, or 0 if the scheme
// is not supported.
func DefaultPort(scheme string) int {
	switch scheme {
	case "http":
		return 80
	case "https":
		return 443
	case "ftp", "ftps":
		return 21
	}
	return 0
}

// Port returns the port of u, falling back to the default port of its
// scheme.
func Port(u *url.URL) int {
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			return n
		}
	}
	return DefaultPort(u.Scheme)
}

// SplitPath splits an escaped URL path into directory, file and params
// components. Params are the part of the last segment following a
// semicolon. The directory keeps no trailing slash except for the root.
func SplitPath(pth string) (dir, file, params string) {
	i := strings.LastIndexByte(pth, '/')
	if i < 0 {
		file = pth
	} else {
		dir, file = pth[:i], pth[i+1:]
		if dir == "" {
			dir = "/"
		}
	}
	if j := strings.IndexByte(file, ';'); j >= 0 {
		file, params = file[:j], file[j+1:]
	}
	return dir, file, params
}

// Dir returns the directory component of u's path.
func Dir(u *url.URL) string {
	d, _, _ := SplitPath(u.EscapedPath())
	return d
}

// File returns the file component of u's path, which is empty for
// directory-like URLs.
func File(u *url.URL) string {
	_, f, _ := SplitPath(u.EscapedPath())
	return f
}

// Params returns the params component of u's path.
func Params(u *url.URL) string {
	_, _, p := SplitPath(u.EscapedPath())
	return p
}

// Subdir reports whether dir is child or the same directory as parent.
func Subdir(parent, child string) bool {
	parent = strings.TrimSuffix(parent, "/")
	if !strings.HasPrefix(child, parent) {
		return false
	}
	rest := child[len(parent):]
	return rest == "" || rest[0] == '/'
}

// StripAuth returns the string form of u with any userinfo removed.
func StripAuth(u *url.URL) string {
	if u.User == nil {
		return u.String()
	}
	uu := *u
	uu.User = nil
	return uu.String()
}

// MaskPassword returns the string form of u with the password, if any,
// removed from the userinfo.
func MaskPassword(u *url.URL) string {
	if u.User == nil {
		return u.String()
	}
	uu := *u
	uu.User = url.User(u.User.Username())
	return uu.String()
}

// Unescape decodes percent-escapes in s. Malformed escapes are left
// untouched instead of being reported as errors, so that every URL
// string has a canonical decoded form.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Escape percent-escapes the characters of s that cannot appear
// literally in a URL.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

func shouldEscape(c byte) bool {
	if c <= 0x20 || c >= 0x7f {
		return true
	}
	switch c {
	case '"', '<', '>', '[', '\\', ']', '^', '`', '{', '|', '}':
		return true
	}
	return false
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
