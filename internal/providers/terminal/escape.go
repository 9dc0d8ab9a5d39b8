package terminal

import (
	"strings"
	"unicode/utf8"
)

const escapeChar = '\x1b'

type filterState int

const (
	stateNormal filterState = iota
	stateEscape
	stateCSI
)

// StripANSI removes CSI sequences (ESC '[' ... final byte in '@'..'~') from input.
//
// A lone ESC not followed by '[' is dropped and the next rune is kept. OSC,
// DCS and other escape families are not recognised: after their leading ESC
// is dropped the remainder passes through as text. The filter keeps no state
// between calls, so a sequence split across two calls leaks its tail.
func StripANSI(input string) string {
	if strings.IndexByte(input, escapeChar) < 0 {
		return input
	}

	var b strings.Builder
	b.Grow(len(input))

	state := stateNormal
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])

		switch state {
		case stateNormal:
			i += size
			if r == escapeChar {
				state = stateEscape
				continue
			}
			b.WriteString(input[i-size : i])

		case stateEscape:
			if r == '[' {
				i += size
				state = stateCSI
				continue
			}
			// Not a CSI: drop only the ESC and reprocess this rune.
			state = stateNormal

		case stateCSI:
			i += size
			if r >= '@' && r <= '~' {
				state = stateNormal
			}
		}
	}

	return b.String()
}
