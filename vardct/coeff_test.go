package vardct

import (
	"testing"

	"github.com/ausocean/jxl/entropy"
)

// TestDecodeHfCoeffAllZeroNonZeros exercises the context-derivation
// arithmetic end to end with every context collapsed onto one two-symbol
// prefix distribution whose 0-bit codes symbol 0, so each channel's
// non_zeros token reads as 0 and every varblock decodes to an all-zero
// coefficient grid with no per-coefficient tokens read.
func TestDecodeHfCoeffAllZeroNonZeros(t *testing.T) {
	w := &bitWriter{}
	w.writeBool(false) // useANS
	w.writeBool(false) // hasLZ77
	w.writeBits(0, 2)  // clusterCountDist selector 0 -> numClusters = 1

	// single prefix distribution for every context: two symbols, both of
	// code length 1, so bit 0 decodes to symbol 0 (value 0).
	w.writeBits(5, 5)  // SplitExponent
	w.writeBits(0, 4)  // MSBInToken
	w.writeBits(0, 4)  // LSBInToken
	w.writeBool(false) // isSingle = false
	w.writeBits(1, 2)  // symbolCountDist selector 1 -> 2 + extra
	w.writeBits(0, 1)  // extra bit 0 -> numSymbols = 2
	w.writeBits(1, 5)  // code length of symbol 0
	w.writeBits(1, 5)  // code length of symbol 1

	// hf preset index: numHfPresets=1 -> hfpBits=0, nothing to read.
	w.writeBits(0, 3) // one non_zeros token per channel, each symbol 0

	br := w.reader()
	var dec entropy.Decoder
	const numContexts = 100000 // generous upper bound on ctx_offset + derived indices
	if err := dec.Begin(br, numContexts); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	bm := NewBlockMap(1, 1)
	if err := bm.Place(0, 0, Dct8, 1); err != nil {
		t.Fatalf("Place: %v", err)
	}

	hbc := &HfBlockContext{
		QfThresholds:     nil,
		LfThresholds:     [3][]int32{nil, nil, nil},
		BlockCtxMap:      make([]uint8, 64),
		NumBlockClusters: 1,
	}

	out, err := DecodeHfCoeff(br, &dec, bm, hbc, 1, 0, nil)
	if err != nil {
		t.Fatalf("DecodeHfCoeff: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	cd := out[coord{0, 0}]
	if cd == nil {
		t.Fatal("missing coeff data for (0,0)")
	}
	for c := 0; c < 3; c++ {
		for i, v := range cd.Coeff[c] {
			if v != 0 {
				t.Fatalf("channel %d coeff[%d] = %d, want 0", c, i, v)
			}
		}
	}
}

func TestOrderIDGroupsRectangularPairs(t *testing.T) {
	if orderID(Dct8x16) != orderID(Dct16x8) {
		t.Fatal("Dct8x16 and Dct16x8 should share an order id")
	}
	if orderID(Dct8) == orderID(Dct16) {
		t.Fatal("distinct transform families should not share an order id")
	}
}
