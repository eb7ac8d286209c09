package mirror

import (
	"strconv"
	"testing"

	"github.com/inconshreveable/log15"
	"github.com/stretchr/testify/assert"
)

func discardLogger() log15.Logger {
	l := log15.New()
	l.SetHandler(log15.DiscardHandler())
	return l
}

func TestQueueFIFO(t *testing.T) {
	assert := assert.New(t)
	q := newQueue(discardLogger())

	_, ok := q.dequeue()
	assert.False(ok)

	for i := 0; i < 5; i++ {
		q.enqueue(mustParse(t, "http://example.com/"+strconv.Itoa(i)),
			"http://example.com/", i, true, false)
	}
	assert.Equal(5, q.count)
	assert.Equal(5, q.maxcount)

	for i := 0; i < 5; i++ {
		it, ok := q.dequeue()
		assert.True(ok)
		assert.Equal("http://example.com/"+strconv.Itoa(i), it.url.String())
		assert.Equal(i, it.depth)
		assert.True(it.htmlAllowed)
		assert.False(it.cssAllowed)
		it.free()
	}
	_, ok = q.dequeue()
	assert.False(ok)
	assert.Equal(0, q.count)
	assert.Equal(5, q.maxcount)
}

func TestQueueInterleaved(t *testing.T) {
	assert := assert.New(t)
	q := newQueue(discardLogger())

	q.enqueue(mustParse(t, "http://example.com/a"), "", 0, true, false)
	q.enqueue(mustParse(t, "http://example.com/b"), "", 0, true, false)
	it, _ := q.dequeue()
	assert.Equal("http://example.com/a", it.url.String())
	it.free()
	q.enqueue(mustParse(t, "http://example.com/c"), "", 1, false, true)
	it, _ = q.dequeue()
	assert.Equal("http://example.com/b", it.url.String())
	it.free()
	it, _ = q.dequeue()
	assert.Equal("http://example.com/c", it.url.String())
	assert.True(it.cssAllowed)
	it.free()
	assert.Equal(2, q.maxcount)
}
