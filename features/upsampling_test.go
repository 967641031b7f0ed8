package features

import "testing"

func TestUpsampleNearestPow2ReplicatesSamples(t *testing.T) {
	src := []float32{1, 2, 3, 4}
	out := UpsampleNearestPow2(src, 2, 2, 2)
	if len(out) != 16 {
		t.Fatalf("len(out) = %d, want 16", len(out))
	}
	// Top-left 2x2 block of the 4x4 output should all equal src[0].
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if out[y*4+x] != 1 {
				t.Fatalf("out[%d][%d] = %v, want 1", y, x, out[y*4+x])
			}
		}
	}
	if out[3*4+3] != 4 {
		t.Fatalf("out[3][3] = %v, want 4", out[3*4+3])
	}
}

func TestUpsampleProducesCorrectDimensions(t *testing.T) {
	src := make([]float32, 4*4)
	w := DefaultUpsampleWeights(2)
	out := Upsample(src, 4, 4, w)
	if len(out) != 8*8 {
		t.Fatalf("len(out) = %d, want 64", len(out))
	}
}

func TestUpsampleConstantPlaneStaysConstant(t *testing.T) {
	src := make([]float32, 4*4)
	for i := range src {
		src[i] = 5
	}
	w := DefaultUpsampleWeights(2)
	out := Upsample(src, 4, 4, w)
	for i, v := range out {
		if diff := v - 5; diff > 1e-3 || diff < -1e-3 {
			t.Fatalf("out[%d] = %v, want ~5 (weights should sum to 1 and preserve a constant plane)", i, v)
		}
	}
}

func TestMirrorIndexReflectsAtBoundary(t *testing.T) {
	if got := mirrorIndex(-1, 5); got != 0 {
		t.Fatalf("mirrorIndex(-1,5) = %d, want 0", got)
	}
	if got := mirrorIndex(5, 5); got != 4 {
		t.Fatalf("mirrorIndex(5,5) = %d, want 4", got)
	}
}
