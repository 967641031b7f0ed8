package modular

import "testing"

func channelsFromInts(vals ...[]int32) []*Grid {
	grids := make([]*Grid, len(vals))
	for i, v := range vals {
		g := NewGrid(len(v), 1, 0, 0)
		copy(g.Data, v)
		grids[i] = g
	}
	return grids
}

// TestRCTRoundTrip exercises every (permutation, type) combination named by
// spec.md's RCT invertibility property: forward then inverse must restore
// the original three channels exactly.
func TestRCTRoundTrip(t *testing.T) {
	samples := [][3]int32{
		{0, 0, 0},
		{10, 20, 30},
		{-5, 100, -100},
		{255, 0, 255},
		{1, 2, 3},
	}
	for perm := uint32(0); perm <= 5; perm++ {
		for ty := uint32(0); ty <= 6; ty++ {
			rctType := perm*7 + ty
			for _, s := range samples {
				img := &Image{Channels: channelsFromInts(
					[]int32{s[0]}, []int32{s[1]}, []int32{s[2]},
				)}
				r := RCT{BeginC: 0, RctType: rctType}
				if err := r.Apply(img); err != nil {
					t.Fatalf("perm=%d ty=%d Apply: %v", perm, ty, err)
				}
				if err := r.InverseRCT(img); err != nil {
					t.Fatalf("perm=%d ty=%d InverseRCT: %v", perm, ty, err)
				}
				got := [3]int32{img.Channels[0].Data[0], img.Channels[1].Data[0], img.Channels[2].Data[0]}
				if got != s {
					t.Fatalf("perm=%d ty=%d round trip = %v, want %v", perm, ty, got, s)
				}
			}
		}
	}
}

func TestRCTInvalidTypeSkipped(t *testing.T) {
	img := &Image{Channels: channelsFromInts([]int32{1}, []int32{2}, []int32{3})}
	// perm=5, ty valid range is 0..6; rct_type=5*7+6=41 is the max valid.
	// 42 decodes to perm=6 (out of range), which must be skipped, not erred.
	r := RCT{BeginC: 0, RctType: 42}
	if err := r.Apply(img); err != nil {
		t.Fatalf("Apply with invalid rct_type should be a no-op, not an error: %v", err)
	}
	got := [3]int32{img.Channels[0].Data[0], img.Channels[1].Data[0], img.Channels[2].Data[0]}
	want := [3]int32{1, 2, 3}
	if got != want {
		t.Fatalf("invalid rct_type mutated channels: got %v, want unchanged %v", got, want)
	}
}

func TestSqueezeHaarRoundTripEvenWidth(t *testing.T) {
	parent := []int32{10, 20, 30, 40}
	avg := make([]int32, 2)
	res := make([]int32, 2)
	squeezeHaarForward(avg, res, parent, 4)

	got := make([]int32, 4)
	squeezeHaarInverse(got, avg, res, 4)
	for i := range parent {
		if got[i] != parent[i] {
			t.Fatalf("round trip[%d] = %d, want %d", i, got[i], parent[i])
		}
	}
}

func TestSqueezeHaarRoundTripOddWidth(t *testing.T) {
	parent := []int32{10, 20, 30}
	avg := make([]int32, 2) // (3+1)/2 = 2
	res := make([]int32, 1) // 3/2 = 1
	squeezeHaarForward(avg, res, parent, 3)

	got := make([]int32, 3)
	squeezeHaarInverse(got, avg, res, 3)
	for i := range parent {
		if got[i] != parent[i] {
			t.Fatalf("round trip[%d] = %d, want %d", i, got[i], parent[i])
		}
	}
}

func TestSqueezeApplyInverseRoundTripHorizontal(t *testing.T) {
	img := &Image{Channels: []*Grid{NewGrid(5, 1, 0, 0)}}
	copy(img.Channels[0].Data, []int32{3, -7, 100, 0, 42})
	original := append([]int32{}, img.Channels[0].Data...)

	sp := SqueezeParams{Horizontal: true, InPlace: true, BeginC: 0, NumC: 1}
	if err := sp.ApplySqueeze(img); err != nil {
		t.Fatalf("ApplySqueeze: %v", err)
	}
	if len(img.Channels) != 2 {
		t.Fatalf("len(Channels) after squeeze = %d, want 2", len(img.Channels))
	}
	if err := sp.InverseSqueeze(img); err != nil {
		t.Fatalf("InverseSqueeze: %v", err)
	}
	if len(img.Channels) != 1 {
		t.Fatalf("len(Channels) after inverse = %d, want 1", len(img.Channels))
	}
	if img.Channels[0].Width != 5 {
		t.Fatalf("restored width = %d, want 5", img.Channels[0].Width)
	}
	for i, v := range img.Channels[0].Data {
		if v != original[i] {
			t.Fatalf("restored[%d] = %d, want %d", i, v, original[i])
		}
	}
}

func TestSqueezeApplyInverseRoundTripVertical(t *testing.T) {
	img := &Image{Channels: []*Grid{NewGrid(2, 5, 0, 0)}}
	copy(img.Channels[0].Data, []int32{
		1, 2,
		3, 4,
		5, 6,
		7, 8,
		9, 10,
	})
	original := append([]int32{}, img.Channels[0].Data...)

	sp := SqueezeParams{Horizontal: false, InPlace: false, BeginC: 0, NumC: 1}
	if err := sp.ApplySqueeze(img); err != nil {
		t.Fatalf("ApplySqueeze: %v", err)
	}
	if len(img.Channels) != 2 {
		t.Fatalf("len(Channels) after squeeze = %d, want 2", len(img.Channels))
	}
	if err := sp.InverseSqueeze(img); err != nil {
		t.Fatalf("InverseSqueeze: %v", err)
	}
	if len(img.Channels) != 1 {
		t.Fatalf("len(Channels) after inverse = %d, want 1", len(img.Channels))
	}
	if img.Channels[0].Height != 5 {
		t.Fatalf("restored height = %d, want 5", img.Channels[0].Height)
	}
	for i, v := range img.Channels[0].Data {
		if v != original[i] {
			t.Fatalf("restored[%d] = %d, want %d", i, v, original[i])
		}
	}
}

func TestPaletteRoundTrip(t *testing.T) {
	// Build a 2x2 index image (palette grid at slot 0, indices at slot 1)
	// referencing 2 in-range palette colours across 3 restored channels.
	// palette.At(x=index, y=channel) per Grid.At, so width=NbColours,
	// height=NumC.
	palette := NewGrid(2, 3, 0, 0)
	// colour 0 = (10, 20, 30), colour 1 = (40, 50, 60)
	palette.Set(0, 0, 10)
	palette.Set(1, 0, 40)
	palette.Set(0, 1, 20)
	palette.Set(1, 1, 50)
	palette.Set(0, 2, 30)
	palette.Set(1, 2, 60)

	indexGrid := NewGrid(2, 2, -1, 0)
	indexGrid.Set(0, 0, 0)
	indexGrid.Set(1, 0, 1)
	indexGrid.Set(0, 1, 1)
	indexGrid.Set(1, 1, 0)

	img := &Image{
		Channels:        []*Grid{palette, indexGrid},
		NumMetaChannels: 2,
	}

	p := Palette{BeginC: 0, NumC: 3, NbColours: 2, NbDeltas: 0, DPred: PredictorZero}
	if err := p.InversePalette(img, 8); err != nil {
		t.Fatalf("InversePalette: %v", err)
	}
	if len(img.Channels) != 3 {
		t.Fatalf("len(Channels) = %d, want 3", len(img.Channels))
	}
	want := [3][4]int32{
		{10, 40, 40, 10},
		{20, 50, 50, 20},
		{30, 60, 60, 30},
	}
	for c := 0; c < 3; c++ {
		for i, v := range img.Channels[c].Data {
			if v != want[c][i] {
				t.Fatalf("channel %d data[%d] = %d, want %d", c, i, v, want[c][i])
			}
		}
	}
}
