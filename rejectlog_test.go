package mirror

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRejectLog(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "rejected.log")
	l := openRejectLog(path, discardLogger())
	if l == nil {
		t.Fatal("openRejectLog returned nil")
	}

	u := mustParse(t, "https://example.com:8443/dir/file.html;v=1?q=1")
	p := mustParse(t, "http://example.com/")
	l.log(Robots, u, p)
	l.close(discardLogger())

	b, err := os.ReadFile(path)
	assert.NoError(err)
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if !assert.Len(lines, 2) {
		return
	}
	assert.Equal(rejectLogHeader, lines[0]+"\n")

	cols := strings.Split(lines[1], "\t")
	if !assert.Len(cols, 17) {
		return
	}
	assert.Equal("ROBOTS", cols[0])
	assert.Equal("https://example.com:8443/dir/file.html;v=1?q=1", cols[1])
	assert.Equal("SCHEME_HTTPS", cols[2])
	assert.Equal("example.com", cols[3])
	assert.Equal("8443", cols[4])
	assert.Equal("/dir/file.html", cols[5])
	assert.Equal("v=1", cols[6])
	assert.Equal("q=1", cols[7])
	assert.Equal("", cols[8])
	assert.Equal("http://example.com/", cols[9])
	assert.Equal("SCHEME_HTTP", cols[10])
	assert.Equal("80", cols[12])
}

func TestRejectLogOpenFailure(t *testing.T) {
	// The sink directory does not exist: no log, no panic, and the
	// header is never written anywhere.
	l := openRejectLog(filepath.Join(t.TempDir(), "no", "such", "dir", "x"), discardLogger())
	assert.Nil(t, l)
	l.log(Domain, mustParse(t, "http://example.com/"), mustParse(t, "http://example.com/"))
	l.close(discardLogger())
}

func TestRejectLogNoSink(t *testing.T) {
	assert.Nil(t, openRejectLog("", discardLogger()))
}
