package backend

import (
	"bufio"
	"io"
)

// lineReader is a specialized reader that ensures only entire newline-delimited lines are
// read at a time. This is useful when attempting to parse a file that is being actively
// written to as a CSV, as you don't actually attempt to parse any partial lines.
type lineReader struct {
	r *bufio.Reader
	// partial holds the start of a line whose newline has not arrived yet.
	partial []byte
	// ready holds the rest of a complete line that did not fit the caller's
	// buffer.
	ready []byte
}

var _ io.Reader = (*lineReader)(nil)

func NewLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r: bufio.NewReader(r),
	}
}

func (l *lineReader) Read(b []byte) (int, error) {
	if len(l.ready) == 0 {
		data, err := l.r.ReadBytes(byte('\n'))
		if err != nil {
			l.partial = append(l.partial, data...)
			return 0, io.EOF
		}
		l.ready = append(l.partial, data...)
		l.partial = nil
	}
	n := copy(b, l.ready)
	l.ready = l.ready[n:]
	return n, nil
}

// Pending reports how many bytes of an unterminated trailing line are held
// back.
func (l *lineReader) Pending() int {
	return len(l.partial)
}
