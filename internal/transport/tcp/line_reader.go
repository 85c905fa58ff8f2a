package tcp

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/vovakirdan/roomrelay/internal/core"
)

// lineReader yields sanitised input lines, truncated to max bytes. A partial
// line survives a transient read error and is completed by the next call.
type lineReader struct {
	r       *bufio.Reader
	max     int
	pending []byte
}

func newLineReader(r io.Reader, max int) *lineReader {
	return &lineReader{r: bufio.NewReader(r), max: max}
}

// ReadLine returns the next line with escape sequences stripped and
// surrounding whitespace trimmed. Bytes past max are discarded.
func (lr *lineReader) ReadLine() (string, error) {
	for {
		chunk, err := lr.r.ReadSlice('\n')
		if room := lr.max - len(lr.pending); room > 0 {
			lr.pending = append(lr.pending, chunk[:min(len(chunk), room)]...)
		}

		switch {
		case err == nil:
			return lr.take(), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && len(lr.pending) > 0:
			return lr.take(), nil
		default:
			return "", err
		}
	}
}

func (lr *lineReader) take() string {
	line := strings.ToValidUTF8(string(lr.pending), "")
	lr.pending = lr.pending[:0]
	return strings.TrimSpace(core.StripANSI(line))
}

// isTransient reports read errors worth retrying after a short pause. Only
// deadline timeouts qualify; a conn without a read deadline never produces
// one, so on plain TCP sockets every read error ends the worker.
func isTransient(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
