package mirror

import (
	"net/url"
	"sync"

	"github.com/inconshreveable/log15"
)

// item is a single unit of pending work: a URL to download together
// with the context needed to process its body.
type item struct {
	url     *url.URL
	referer string
	depth   int
	// htmlAllowed and cssAllowed tell whether the body, once
	// downloaded, may be treated as HTML or CSS for link extraction.
	htmlAllowed bool
	cssAllowed  bool

	next *item
}

var itemFree = sync.Pool{
	New: func() interface{} { return new(item) },
}

func (it *item) free() {
	*it = item{}
	itemFree.Put(it)
}

// urlQueue is the strictly-FIFO queue of pending work. maxcount is a
// high-watermark kept for diagnostics only.
type urlQueue struct {
	head, tail      *item
	count, maxcount int
	logger          log15.Logger
}

func newQueue(logger log15.Logger) *urlQueue {
	return &urlQueue{logger: logger}
}

func (q *urlQueue) enqueue(u *url.URL, referer string, depth int, htmlAllowed, cssAllowed bool) {
	it := itemFree.Get().(*item)
	it.url = u
	it.referer = referer
	it.depth = depth
	it.htmlAllowed = htmlAllowed
	it.cssAllowed = cssAllowed
	it.next = nil

	q.count++
	if q.count > q.maxcount {
		q.maxcount = q.count
	}
	q.logger.Debug("enqueue",
		"url", u.String(), "depth", depth,
		"count", q.count, "maxcount", q.maxcount)

	if q.tail != nil {
		q.tail.next = it
	}
	q.tail = it
	if q.head == nil {
		q.head = q.tail
	}
}

func (q *urlQueue) dequeue() (*item, bool) {
	it := q.head
	if it == nil {
		return nil, false
	}
	q.head = it.next
	if q.head == nil {
		q.tail = nil
	}
	it.next = nil
	q.count--

	q.logger.Debug("dequeue",
		"url", it.url.String(), "depth", it.depth,
		"count", q.count, "maxcount", q.maxcount)
	return it, true
}
