package mirror

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/fanyang01/mirror/urlx"
	"github.com/inconshreveable/log15"
)

// rejectLog is a tab-separated audit trail of rejected children. log
// and close are safe on a nil receiver, which stands for "no sink".
type rejectLog struct {
	f *os.File
	w *bufio.Writer
}

const rejectLogHeader = "REASON\t" +
	"U_URL\tU_SCHEME\tU_HOST\tU_PORT\tU_PATH\tU_PARAMS\tU_QUERY\tU_FRAGMENT\t" +
	"P_URL\tP_SCHEME\tP_HOST\tP_PORT\tP_PATH\tP_PARAMS\tP_QUERY\tP_FRAGMENT\n"

// openRejectLog opens the audit file and writes the header. An open
// failure is reported as a diagnostic and yields a nil log: the crawl
// proceeds without rejection logging, and no header is emitted.
func openRejectLog(path string, logger log15.Logger) *rejectLog {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		logger.Error("open rejected log", "path", path, "err", err)
		return nil
	}
	l := &rejectLog{f: f, w: bufio.NewWriter(f)}
	l.w.WriteString(rejectLogHeader)
	return l
}

func (l *rejectLog) log(reason RejectReason, u, parent *url.URL) {
	if l == nil {
		return
	}
	l.w.WriteString(reason.String())
	l.w.WriteByte('\t')
	l.writeURL(u)
	l.w.WriteByte('\t')
	l.writeURL(parent)
	l.w.WriteByte('\n')
}

func (l *rejectLog) writeURL(u *url.URL) {
	dir, file, params := urlx.SplitPath(u.EscapedPath())
	pth := u.EscapedPath()
	if params != "" {
		pth = strings.TrimSuffix(dir, "/") + "/" + file
	}
	fmt.Fprintf(l.w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s",
		urlx.Escape(u.String()),
		schemeToken(u.Scheme),
		u.Hostname(),
		urlx.Port(u),
		pth,
		params,
		u.RawQuery,
		u.Fragment)
}

func (l *rejectLog) close(logger log15.Logger) {
	if l == nil {
		return
	}
	if err := l.w.Flush(); err != nil {
		logger.Warn("flush rejected log", "err", err)
	}
	if err := l.f.Close(); err != nil {
		logger.Warn("close rejected log", "err", err)
	}
}

func schemeToken(scheme string) string {
	switch scheme {
	case "http":
		return "SCHEME_HTTP"
	case "https":
		return "SCHEME_HTTPS"
	case "ftp":
		return "SCHEME_FTP"
	case "ftps":
		return "SCHEME_FTPS"
	}
	return "SCHEME_INVALID"
}
