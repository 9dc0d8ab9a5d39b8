package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkDecoderPassesValidText(t *testing.T) {
	d := newChunkDecoder()
	assert.Equal(t, "hello ✓", d.Decode([]byte("hello ✓"), false))
}

func TestChunkDecoderJoinsSplitSequence(t *testing.T) {
	d := newChunkDecoder()
	word := []byte("héllo")

	// é is 0xC3 0xA9; cut between the two bytes.
	first := d.Decode(word[:2], false)
	second := d.Decode(word[2:], false)

	assert.Equal(t, "h", first)
	assert.Equal(t, "éllo", second)
}

func TestChunkDecoderReplacesInvalidBytes(t *testing.T) {
	d := newChunkDecoder()
	assert.Equal(t, "a�b", d.Decode([]byte{'a', 0xFF, 'b'}, false))
}

func TestChunkDecoderFlushesAtEOF(t *testing.T) {
	d := newChunkDecoder()

	assert.Equal(t, "ok", d.Decode([]byte{'o', 'k', 0xC3}, false))
	assert.Equal(t, "�", d.Decode(nil, true))
	assert.Equal(t, "", d.Decode(nil, true))
}

func TestChunkDecoderEmptyInput(t *testing.T) {
	d := newChunkDecoder()
	assert.Equal(t, "", d.Decode(nil, false))
	assert.Equal(t, "", d.Decode([]byte{}, true))
}
