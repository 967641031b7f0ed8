package vardct

import "github.com/ausocean/jxl/bits"

// bitWriter packs bits LSB-first into bytes, duplicated locally per the
// teacher's convention of keeping test helpers scoped to the package
// under test (see modular/bitwriter_test.go, entropy/bitwriter_test.go).
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
