package modular

import "github.com/ausocean/jxl/bits"

// bitWriter packs bits LSB-first into bytes, mirroring bits.Reader's and
// entropy's test fixtures, so tree/transform tests can hand-build encoded
// streams without computing byte layouts.
type bitWriter struct {
	buf    []byte
	bitPos uint
}

func (w *bitWriter) writeBits(v uint32, n int) {
	for i := 0; i < n; i++ {
		if w.bitPos%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		bit := byte((v >> uint(i)) & 1)
		w.buf[len(w.buf)-1] |= bit << (w.bitPos % 8)
		w.bitPos++
	}
}

func (w *bitWriter) writeBool(b bool) {
	if b {
		w.writeBits(1, 1)
	} else {
		w.writeBits(0, 1)
	}
}

func (w *bitWriter) reader() *bits.Reader {
	return bits.NewReader(w.buf)
}
