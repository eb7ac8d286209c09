package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlacklistDecoding(t *testing.T) {
	assert := assert.New(t)
	b := &blacklist{set: NewMemSet(), logger: discardLogger()}

	b.add("http://example.com/x%2F")
	// Two encodings of the same URL collapse to one entry.
	assert.True(b.contains("http://example.com/x/"))
	assert.True(b.contains("http://example.com/x%2F"))
	assert.False(b.contains("http://example.com/x"))

	// Case is not normalized here; admission handles that.
	b.add("http://example.com/UP")
	assert.True(b.contains("http://example.com/UP"))
	assert.False(b.contains("http://example.com/up"))

	b.close()
}
