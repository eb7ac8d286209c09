// Package pattern compiles accept/reject rule lists for URLs, hosts,
// directories and file names.
package pattern

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// Kind selects the matching semantics of a rule list.
type Kind int

const (
	// URL rules match the full URL string.
	URL Kind = iota
	// Host rules match the host name; a plain rule matches the domain
	// and all of its subdomains.
	Host
	// Dir rules match the directory component; a plain rule matches
	// the directory and all of its subdirectories.
	Dir
	// File rules match the file component; a plain rule is a tail
	// (suffix) match.
	File
)

// General rules:
//
//   - An item is accepted only if it was not rejected by the rejection
//     rules and was accepted by the accepting rules.
//   - Rejection rules have higher priority than accepting rules.
//   - Rules in a rule list are matched in order and logic-ORed.
//   - A rule is either a plain string, a glob pattern (*.html), or a
//     regular expression surrounded by slashes (/regexp/).
//   - An empty accepting rule list accepts any item.
type List struct {
	accept []matcher
	reject []matcher
}

type matcher interface {
	match(string) bool
}

type regex regexp.Regexp

func (r *regex) match(s string) bool {
	return (*regexp.Regexp)(r).MatchString(s)
}

type globm struct{ glob.Glob }

func (g globm) match(s string) bool { return g.Match(s) }

type exact string

func (p exact) match(s string) bool { return string(p) == s }

type tail string

func (p tail) match(s string) bool { return strings.HasSuffix(s, string(p)) }

type domain string

func (p domain) match(s string) bool {
	return s == string(p) || strings.HasSuffix(s, "."+string(p))
}

type subtree string

func (p subtree) match(s string) bool {
	d := strings.TrimSuffix(string(p), "/")
	return s == d || strings.HasPrefix(s, d+"/")
}

// Compile compiles accept and reject rule lists of the given kind.
func Compile(kind Kind, accept, reject []string) (*List, error) {
	l := &List{}
	var err error
	if l.accept, err = compile(kind, accept); err != nil {
		return nil, err
	}
	if l.reject, err = compile(kind, reject); err != nil {
		return nil, err
	}
	return l, nil
}

// MustCompile is like Compile but panics on invalid rules.
func MustCompile(kind Kind, accept, reject []string) *List {
	l, err := Compile(kind, accept, reject)
	if err != nil {
		panic(err)
	}
	return l
}

func compile(kind Kind, rules []string) (result []matcher, err error) {
	result = make([]matcher, 0, len(rules))
	for _, s := range rules {
		if r, ok := isRegex(s); ok {
			re, err := regexp.Compile(r)
			if err != nil {
				return nil, err
			}
			result = append(result, (*regex)(re))
			continue
		}
		if strings.ContainsAny(s, `*?[{\`) {
			var g glob.Glob
			var err error
			switch kind {
			case Host:
				g, err = glob.Compile(s, '.')
			case URL, Dir:
				g, err = glob.Compile(s, '/')
			default:
				g, err = glob.Compile(s)
			}
			if err != nil {
				return nil, err
			}
			result = append(result, globm{g})
			continue
		}
		switch kind {
		case Host:
			result = append(result, domain(strings.ToLower(s)))
		case Dir:
			result = append(result, subtree(s))
		case File:
			result = append(result, tail(s))
		default:
			result = append(result, exact(s))
		}
	}
	return result, nil
}

// Empty reports whether the list has no rules at all.
func (l *List) Empty() bool {
	return l == nil || len(l.accept) == 0 && len(l.reject) == 0
}

// Match reports whether s passes the list.
func (l *List) Match(s string) bool {
	if l == nil {
		return true
	}
	for _, rule := range l.reject {
		if rule.match(s) {
			return false
		}
	}
	if len(l.accept) == 0 {
		return true
	}
	for _, rule := range l.accept {
		if rule.match(s) {
			return true
		}
	}
	return false
}

func isRegex(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		return strings.TrimPrefix(strings.TrimSuffix(s, "/"), "/"), true
	}
	return s, false
}
