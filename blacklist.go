package mirror

import (
	"github.com/fanyang01/mirror/urlx"
	"github.com/inconshreveable/log15"
)

// StringSet is the storage behind the seen-set. The in-memory
// implementation is the default; storage/boltstore provides a
// persistent one.
type StringSet interface {
	Add(s string) error
	Has(s string) (bool, error)
	Close() error
}

type memSet map[string]struct{}

// NewMemSet returns an in-memory StringSet.
func NewMemSet() StringSet {
	return make(memSet)
}

func (m memSet) Add(s string) error {
	m[s] = struct{}{}
	return nil
}

func (m memSet) Has(s string) (bool, error) {
	_, ok := m[s]
	return ok, nil
}

func (m memSet) Close() error { return nil }

// blacklist is the set of URLs that must not be enqueued again,
// either because they are already queued or because they were barred.
// Keys are URL strings after percent-decoding, so that different
// encodings of the same URL collapse to one entry. Case of scheme and
// host is left alone here; admission normalizes those.
type blacklist struct {
	set    StringSet
	logger log15.Logger
}

func (b *blacklist) add(url string) {
	if err := b.set.Add(urlx.Unescape(url)); err != nil {
		b.logger.Warn("blacklist add", "url", url, "err", err)
	}
}

func (b *blacklist) contains(url string) bool {
	ok, err := b.set.Has(urlx.Unescape(url))
	if err != nil {
		b.logger.Warn("blacklist lookup", "url", url, "err", err)
		return false
	}
	return ok
}

func (b *blacklist) close() {
	if err := b.set.Close(); err != nil {
		b.logger.Warn("blacklist close", "err", err)
	}
}
