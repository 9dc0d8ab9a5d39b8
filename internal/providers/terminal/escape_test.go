package terminal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "hello world", "hello world"},
		{"empty", "", ""},
		{"colour", "\x1b[31mred\x1b[0m", "red"},
		{"cursor movement", "a\x1b[2Kb\x1b[10;20Hc", "abc"},
		{"private mode", "\x1b[?25lhidden\x1b[?25h", "hidden"},
		{"trailing lone escape", "abc\x1b", "abc"},
		{"escape without bracket keeps next rune", "\x1bXhi", "Xhi"},
		{"osc leaks its body", "a\x1b]0;title\x07b", "a]0;title\x07b"},
		{"unterminated csi swallows rest", "x\x1b[12", "x"},
		{"double escape", "\x1b\x1b[mA", "A"},
		{"multi-byte text kept", "héllo\x1b[1m✓ done", "héllo✓ done"},
		{"carriage returns kept", "50%\r100%\r\n", "50%\r100%\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.input))
		})
	}
}

func TestStripANSIRemovesEveryEscape(t *testing.T) {
	inputs := []string{
		"\x1b[1;32m[ OK ]\x1b[0m Started",
		"\x1b\x1b\x1b",
		"\x1b[\x1b[m",
		"a\x1bb\x1b[c\x1b]d",
	}

	for _, input := range inputs {
		out := StripANSI(input)
		assert.NotContains(t, out, "\x1b", "input %q", input)
		assert.Equal(t, out, StripANSI(out), "filter must be idempotent for %q", input)
	}
}

func TestStripANSINoEscapeReturnsInput(t *testing.T) {
	input := strings.Repeat("line of output\n", 100)
	assert.Equal(t, input, StripANSI(input))
}
