package terminal

import (
	"errors"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// chunkDecoder turns raw pty bytes into UTF-8 text. Invalid bytes become
// U+FFFD; a multi-byte sequence cut by a read boundary is held back and
// completed by the next chunk instead of being replaced.
type chunkDecoder struct {
	t       transform.Transformer
	pending []byte
	dst     []byte
}

func newChunkDecoder() *chunkDecoder {
	return &chunkDecoder{t: unicode.UTF8.NewDecoder()}
}

// Decode converts p. With atEOF set, any held-back bytes are flushed as
// replacement characters.
func (d *chunkDecoder) Decode(p []byte, atEOF bool) string {
	src := p
	if len(d.pending) > 0 {
		src = append(d.pending, p...)
	}
	d.pending = nil

	// Each invalid byte can expand to a 3-byte replacement character.
	if need := 3*len(src) + 16; cap(d.dst) < need {
		d.dst = make([]byte, need)
	}
	dst := d.dst[:cap(d.dst)]

	var out []byte
	for {
		nDst, nSrc, err := d.t.Transform(dst, src, atEOF)
		out = append(out, dst[:nDst]...)
		src = src[nSrc:]

		if errors.Is(err, transform.ErrShortDst) && (nDst > 0 || nSrc > 0) {
			continue
		}
		break
	}

	if len(src) > 0 && !atEOF {
		d.pending = append([]byte(nil), src...)
	}
	return string(out)
}
