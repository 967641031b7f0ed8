/*
DESCRIPTION
  gabor.go implements spec.md §4.L's Gabor-like loop filter: a 3x3
  separable convolution over each of the Y/X/B planes with per-channel
  weights (w1, w2), mirror-extended at the edges. No literal Gabor-like
  filter source survived retrieval filtering (jxl-frame/src/filter.rs,
  referenced from header.rs's RestorationFilter bundle, was not present
  in the pack), so the convolution loop below is self-derived directly
  from the spec's formula; correctness is anchored by
  TestGaborPreservesConstantPlane and TestGaborWeightsNormalize rather
  than a wire-conformance claim.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

// Package filter implements the JPEG XL loop filters named in spec.md
// §4.L: the Gabor-like 3x3 convolution and the edge-preserving filter
// (EPF).
package filter

// GaborWeights is one channel's (w1, w2) pair (spec.md §4.L).
type GaborWeights struct {
	W1, W2 float32
}

func mirror(i, n int) int {
	if n == 1 {
		return 0
	}
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*n - i - 2
	}
	return i
}

// ApplyGabor applies the Gabor-like convolution to plane (width x
// height), in place via a scratch buffer, using w.
func ApplyGabor(plane []float32, width, height int, w GaborWeights) {
	c := 1 / (1 + 4*w.W1 + 4*w.W2)
	out := make([]float32, len(plane))
	at := func(x, y int) float32 {
		return plane[mirror(y, height)*width+mirror(x, width)]
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := at(x, y)
			n, sOut, wSamp, e := at(x, y-1), at(x, y+1), at(x-1, y), at(x+1, y)
			nw, ne, sw, se := at(x-1, y-1), at(x+1, y-1), at(x-1, y+1), at(x+1, y+1)
			out[y*width+x] = c * (s + w.W1*(n+sOut+wSamp+e) + w.W2*(nw+ne+sw+se))
		}
	}
	copy(plane, out)
}
