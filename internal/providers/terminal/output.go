package terminal

import "strings"

// OutputLog is an append-only text accumulator. Offsets are byte offsets into
// the accumulated text; an offset once returned stays valid for the lifetime
// of the log.
type OutputLog struct {
	guard
	buf strings.Builder
}

// NewOutputLog creates an empty log
func NewOutputLog() *OutputLog {
	return &OutputLog{}
}

// Append adds text to the end of the log
func (l *OutputLog) Append(text string) error {
	if text == "" {
		return nil
	}
	return l.do(func() error {
		l.buf.WriteString(text)
		return nil
	})
}

// ReadSince returns the text appended after offset and the new end offset.
// When offset is at or past the end it returns "" and offset unchanged.
func (l *OutputLog) ReadSince(offset int) (string, int, error) {
	if offset < 0 {
		offset = 0
	}

	var chunk string
	next := offset
	err := l.do(func() error {
		current := l.buf.String()
		if offset >= len(current) {
			return nil
		}
		// strings.Builder never rewrites bytes it has handed out, so the
		// substring stays valid after later appends.
		chunk = current[offset:]
		next = len(current)
		return nil
	})
	if err != nil {
		return "", offset, err
	}
	return chunk, next, nil
}

// Snapshot returns the full log content
func (l *OutputLog) Snapshot() (string, error) {
	var content string
	err := l.do(func() error {
		content = l.buf.String()
		return nil
	})
	return content, err
}

// Len returns the current length in bytes
func (l *OutputLog) Len() (int, error) {
	var n int
	err := l.do(func() error {
		n = l.buf.Len()
		return nil
	})
	return n, err
}
