package vardct

import "testing"

func TestIDCTIsForwardDCTInverse(t *testing.T) {
	spatial := []float32{
		1, 2, 3, 4, 5, 6, 7, 8,
		8, 7, 6, 5, 4, 3, 2, 1,
		0, 1, 0, 1, 0, 1, 0, 1,
		10, -10, 10, -10, 10, -10, 10, -10,
		1, 1, 1, 1, 1, 1, 1, 1,
		2, 4, 6, 8, 10, 12, 14, 16,
		-3, -3, -3, -3, -3, -3, -3, -3,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	freq := make([]float32, 64)
	ForwardDCT2D(spatial, 8, 8, freq)

	restored := make([]float32, 64)
	IDCT2D(freq, 8, 8, restored)

	for i := range spatial {
		diff := spatial[i] - restored[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > 1e-3 {
			t.Fatalf("round trip[%d] = %v, want %v (diff %v)", i, restored[i], spatial[i], diff)
		}
	}
}

func TestIDCTRectangular(t *testing.T) {
	spatial := make([]float32, 4*8)
	for i := range spatial {
		spatial[i] = float32(i%7) - 3
	}
	freq := make([]float32, len(spatial))
	ForwardDCT2D(spatial, 8, 4, freq)
	restored := make([]float32, len(spatial))
	IDCT2D(freq, 8, 4, restored)
	for i := range spatial {
		diff := spatial[i] - restored[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > 1e-3 {
			t.Fatalf("rectangular round trip[%d] = %v, want %v", i, restored[i], spatial[i])
		}
	}
}

func TestIDCTForSelectDC(t *testing.T) {
	coeffs := make([]float32, 64)
	coeffs[0] = 8 // DC only, orthonormal basis: constant output = DC/sqrt(n) per axis... just check constant.
	out := make([]float32, 64)
	IDCTForSelect(Dct8, coeffs, out)
	first := out[0]
	for i, v := range out {
		if v != first {
			t.Fatalf("DC-only IDCT should be constant, out[%d]=%v vs out[0]=%v", i, v, first)
		}
	}
}
