package vardct

import "testing"

func TestAdaptiveLFSmoothingAveragesFlatRegion(t *testing.T) {
	plane := make([]float32, 5*5)
	for i := range plane {
		plane[i] = 10
	}
	SmoothLF(plane, 5, 5, 1.0)
	for i, v := range plane {
		if v != 10 {
			t.Fatalf("flat plane[%d] = %v, want 10 (unchanged by smoothing a constant region)", i, v)
		}
	}
}

func TestAdaptiveLFSmoothingGatesLargeDiscontinuities(t *testing.T) {
	plane := make([]float32, 5*5)
	for i := range plane {
		plane[i] = 10
	}
	centre := 2*5 + 2
	plane[centre] = 1000 // sharp spike, difference from neighbourhood average far exceeds gate
	before := plane[centre]
	SmoothLF(plane, 5, 5, 1.0)
	if plane[centre] != before {
		t.Fatalf("spiked pixel = %v, want unchanged %v (should be gated, not averaged)", plane[centre], before)
	}
}

func TestAdaptiveLFSmoothingSkipsTooSmallPlane(t *testing.T) {
	plane := []float32{1, 2, 3, 4}
	SmoothLF(plane, 2, 2, 1.0)
	want := []float32{1, 2, 3, 4}
	for i := range plane {
		if plane[i] != want[i] {
			t.Fatalf("2x2 plane should be untouched, got %v", plane)
		}
	}
}
