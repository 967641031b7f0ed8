package features

import "testing"

func TestRegionIntersectionOverlap(t *testing.T) {
	a := Region{Left: 0, Top: 0, Width: 10, Height: 10}
	b := Region{Left: 5, Top: 5, Width: 10, Height: 10}
	got := a.Intersection(b)
	want := Region{Left: 5, Top: 5, Width: 5, Height: 5}
	if got != want {
		t.Fatalf("Intersection = %+v, want %+v", got, want)
	}
}

func TestRegionIntersectionDisjointIsEmpty(t *testing.T) {
	a := Region{Left: 0, Top: 0, Width: 2, Height: 2}
	b := Region{Left: 10, Top: 10, Width: 2, Height: 2}
	got := a.Intersection(b)
	if got.Width != 0 || got.Height != 0 {
		t.Fatalf("disjoint intersection = %+v, want zero-sized", got)
	}
}

func TestApplyPatchReplace(t *testing.T) {
	dst := &Plane{Width: 4, Height: 4, Data: make([]float32, 16)}
	src := &Plane{Width: 2, Height: 2, Data: []float32{1, 2, 3, 4}}
	target := PatchTarget{X: 1, Y: 1, X0: 0, Y0: 0, Width: 2, Height: 2}
	ApplyPatch(dst, src, target, ChannelBlending{Mode: PatchBlendReplace}, nil)

	if dst.at(1, 1) != 1 || dst.at(2, 1) != 2 || dst.at(1, 2) != 3 || dst.at(2, 2) != 4 {
		t.Fatalf("replaced region = %v, want patch samples placed at offset (1,1)", dst.Data)
	}
	if dst.at(0, 0) != 0 {
		t.Fatalf("untouched region changed: dst.at(0,0) = %v", dst.at(0, 0))
	}
}

func TestApplyPatchAddAccumulates(t *testing.T) {
	dst := &Plane{Width: 2, Height: 2, Data: []float32{1, 1, 1, 1}}
	src := &Plane{Width: 2, Height: 2, Data: []float32{2, 2, 2, 2}}
	target := PatchTarget{X: 0, Y: 0, X0: 0, Y0: 0, Width: 2, Height: 2}
	ApplyPatch(dst, src, target, ChannelBlending{Mode: PatchBlendAdd}, nil)
	for i, v := range dst.Data {
		if v != 3 {
			t.Fatalf("dst.Data[%d] = %v, want 3", i, v)
		}
	}
}

func TestApplyPatchClampsToUnitRange(t *testing.T) {
	dst := &Plane{Width: 1, Height: 1, Data: []float32{0.9}}
	src := &Plane{Width: 1, Height: 1, Data: []float32{0.9}}
	target := PatchTarget{X: 0, Y: 0, X0: 0, Y0: 0, Width: 1, Height: 1}
	ApplyPatch(dst, src, target, ChannelBlending{Mode: PatchBlendAdd, Clamp: true}, nil)
	if dst.at(0, 0) != 1 {
		t.Fatalf("dst.at(0,0) = %v, want clamped to 1", dst.at(0, 0))
	}
}

func TestApplyPatchOutOfBoundsTargetIsNoop(t *testing.T) {
	dst := &Plane{Width: 2, Height: 2, Data: make([]float32, 4)}
	src := &Plane{Width: 2, Height: 2, Data: []float32{1, 1, 1, 1}}
	target := PatchTarget{X: 10, Y: 10, X0: 0, Y0: 0, Width: 2, Height: 2}
	ApplyPatch(dst, src, target, ChannelBlending{Mode: PatchBlendReplace}, nil)
	for i, v := range dst.Data {
		if v != 0 {
			t.Fatalf("dst.Data[%d] = %v, want untouched 0 (target wholly off-canvas)", i, v)
		}
	}
}
