package entropy

import "testing"

func TestUnpackSignedRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2, -2, 1000, -1000, 1 << 20, -(1 << 20)} {
		n := PackSigned(v)
		got := UnpackSigned(n)
		if got != v {
			t.Errorf("UnpackSigned(PackSigned(%d)) = %d, want %d", v, got, v)
		}
	}
}

func TestPackSignedOrdering(t *testing.T) {
	// Spec: even values count up from zero, odd values count down.
	cases := []struct {
		v    int32
		want uint32
	}{
		{0, 0},
		{1, 2},
		{-1, 1},
		{2, 4},
		{-2, 3},
	}
	for _, c := range cases {
		if got := PackSigned(c.v); got != c.want {
			t.Errorf("PackSigned(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestHybridUintConfigDecodeLiteral(t *testing.T) {
	cfg := HybridUintConfig{SplitExponent: 4, MSBInToken: 2, LSBInToken: 0}
	// Tokens below the split are literal, no bits consumed.
	br := newBitReaderFromBits(nil)
	for tok := uint32(0); tok < 1<<cfg.SplitExponent; tok++ {
		got, err := cfg.Decode(br, tok)
		if err != nil {
			t.Fatalf("Decode(%d): %v", tok, err)
		}
		if got != tok {
			t.Errorf("Decode(%d) = %d, want %d", tok, got, tok)
		}
	}
}
