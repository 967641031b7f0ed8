package features

import "testing"

func TestSplineDepositIsCenteredAndDecays(t *testing.T) {
	width, height := 20, 20
	x := make([]float32, width*height)
	y := make([]float32, width*height)
	b := make([]float32, width*height)

	s := Spline{
		Points:  []SplinePoint{{X: 10, Y: 10}, {X: 10, Y: 10}},
		ColourX: 1, ColourY: 1, ColourB: 1,
		Sigma: 1.0,
	}
	RenderSpline(x, y, b, width, height, s)

	centre := 10*width + 10
	far := 2*width + 2
	if y[centre] <= y[far] {
		t.Fatalf("y[centre]=%v should exceed y[far]=%v (Gaussian decay with distance)", y[centre], y[far])
	}
	if y[centre] <= 0 {
		t.Fatalf("y[centre] = %v, want positive deposit", y[centre])
	}
}

func TestSplineWithDegeneratePointsIsNoop(t *testing.T) {
	width, height := 4, 4
	x := make([]float32, width*height)
	y := make([]float32, width*height)
	b := make([]float32, width*height)
	s := Spline{Points: []SplinePoint{{X: 1, Y: 1}}, Sigma: 1}
	RenderSpline(x, y, b, width, height, s)
	for i, v := range y {
		if v != 0 {
			t.Fatalf("y[%d] = %v, want 0 (single-point spline should deposit nothing)", i, v)
		}
	}
}

func TestCatmullRomPassesThroughEndpoints(t *testing.T) {
	pts := []SplinePoint{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 0}}
	curve := catmullRom(pts, 8)
	if curve[0] != pts[0] {
		t.Fatalf("curve[0] = %+v, want start point %+v", curve[0], pts[0])
	}
	last := curve[len(curve)-1]
	if last != pts[len(pts)-1] {
		t.Fatalf("last curve point = %+v, want end point %+v", last, pts[len(pts)-1])
	}
}
