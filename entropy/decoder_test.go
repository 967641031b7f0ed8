package entropy

import "testing"

// TestDecoderSingleSymbolFastPath builds the smallest possible entropy
// stream header by hand: one cluster, prefix-coded (useANS=false), whose
// distribution is a single always-emitted symbol. This exercises Begin,
// SingleToken, and ReadVarintClustered together.
func TestDecoderSingleSymbolFastPath(t *testing.T) {
	w := &bitWriter{}
	w.writeBool(false) // useANS = false
	w.writeBool(false) // hasLZ77 = false
	w.writeBits(0, 2)  // clusterCountDist selector 0 -> numClusters = 1

	// distribution header for cluster 0:
	w.writeBits(4, 5) // SplitExponent = 4
	w.writeBits(0, 4) // MSBInToken = 0
	w.writeBits(0, 4) // LSBInToken = 0
	w.writeBool(true) // isSingle = true
	// symbolCountDist: selector 2 -> const 3, extra 4 bits; value 7 = 3+4
	w.writeBits(2, 2)
	w.writeBits(4, 4)

	br := w.reader()
	var d Decoder
	if err := d.Begin(br, 1); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if v, ok := d.SingleToken(0); !ok || v != 7 {
		t.Fatalf("SingleToken(0) = (%d, %v), want (7, true)", v, ok)
	}

	got, err := d.ReadVarintClustered(br, 0)
	if err != nil {
		t.Fatalf("ReadVarintClustered: %v", err)
	}
	if got != 7 {
		t.Fatalf("ReadVarintClustered = %d, want 7", got)
	}

	if err := d.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
}

// TestDecoderPrefixDistribution exercises the non-single-symbol prefix path:
// two symbols with length-1 codes (0 and 1).
func TestDecoderPrefixDistribution(t *testing.T) {
	w := &bitWriter{}
	w.writeBool(false) // useANS = false
	w.writeBool(false) // hasLZ77 = false
	w.writeBits(0, 2)  // numClusters = 1

	w.writeBits(4, 5)   // SplitExponent
	w.writeBits(0, 4)   // MSBInToken
	w.writeBits(0, 4)   // LSBInToken
	w.writeBool(false)  // isSingle = false
	w.writeBits(1, 2)   // symbolCountDist selector 1 -> const 2, extra 1 bit
	w.writeBits(0, 1)   // extra=0 -> numSymbols = 2
	w.writeBits(1, 5)   // length[0] = 1
	w.writeBits(1, 5)   // length[1] = 1

	// Now the code bits for the two prefix-coded symbols: canonical codes
	// for two length-1 symbols are 0 and 1, assigned by ascending symbol
	// index, so symbol 0 -> code "0", symbol 1 -> code "1".
	w.writeBits(0, 1) // decodes to symbol 0 -> token 0 -> literal 0
	w.writeBits(1, 1) // decodes to symbol 1 -> token 1 -> literal 1

	br := w.reader()
	var d Decoder
	if err := d.Begin(br, 1); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	v0, err := d.ReadVarintClustered(br, 0)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if v0 != 0 {
		t.Fatalf("first read = %d, want 0", v0)
	}

	v1, err := d.ReadVarintClustered(br, 0)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if v1 != 1 {
		t.Fatalf("second read = %d, want 1", v1)
	}

	if err := d.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
}
