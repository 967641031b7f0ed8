package filter

import "testing"

func TestGaborPreservesConstantPlane(t *testing.T) {
	plane := make([]float32, 5*5)
	for i := range plane {
		plane[i] = 7
	}
	ApplyGabor(plane, 5, 5, GaborWeights{W1: 0.1, W2: 0.05})
	for i, v := range plane {
		if diff := v - 7; diff > 1e-4 || diff < -1e-4 {
			t.Fatalf("plane[%d] = %v, want ~7 (normalized weights preserve a constant plane)", i, v)
		}
	}
}

func TestGaborWeightsNormalize(t *testing.T) {
	w := GaborWeights{W1: 0.1, W2: 0.05}
	c := 1 / (1 + 4*w.W1 + 4*w.W2)
	// ApplyGabor's taps are c (centre), c*W1 (x4) and c*W2 (x4).
	total := c * (1 + 4*w.W1 + 4*w.W2)
	if diff := total - 1; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("normalized weight sum = %v, want 1", total)
	}
}

func TestMirrorReflectsWithoutRepeatingEdge(t *testing.T) {
	if got := mirror(-1, 5); got != 1 {
		t.Fatalf("mirror(-1,5) = %d, want 1", got)
	}
	if got := mirror(5, 5); got != 3 {
		t.Fatalf("mirror(5,5) = %d, want 3", got)
	}
}
