/*
DESCRIPTION
  idct.go implements spec.md §4.I's inverse transform family: a separable
  2-D IDCT of sizes 2..256 built from row/column 1-D IDCTs. The Hornuss,
  DCT2, DCT4 and AFV transform types named in the same section have no
  closed-form inverses here; they run through the same generic IDCT.
  original_source/crates/jxl-render/src/dct/generic.rs
  ships the reference's FFT-factored 1-D DCT/IDCT (cos_sin(4n) twiddle
  table, radix-2 butterfly reordering); this file takes its separable
  row-then-column structure (dct_2d/idct_2d) but evaluates each 1-D IDCT
  directly by the O(n^2) IDCT-III sum rather than porting the FFT
  factorization bit-for-bit, so it is flagged self-derived for the inner
  butterfly: correctness is pinned down by round-trip testing (forward
  DCT then inverse DCT restores the input, same discipline as the
  Modular RCT/squeeze round-trip tests) rather than claimed wire-for-wire
  equivalence with the reference's twiddle factors. gonum.org/v1/gonum/mat
  backs the 2-D separable application: each size's cosine basis is a
  Dense matrix and the row/column passes are mat.Mul.
AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package vardct

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// idctBasisCache memoizes the n x n orthonormal IDCT-III basis matrix for
// each size actually requested, since sizes repeat heavily across
// varblocks of the same transform type.
var (
	idctBasisMu    sync.Mutex
	idctBasisCache = map[int]*mat.Dense{}
)

// idctBasis returns the n x n matrix B such that spatial = B^T * freq
// implements the 1-D IDCT-III used by every transform size in spec.md
// §4.I (2, 4, 8, 16, 32, 64, 128, 256 and the rectangular combinations
// built from them).
func idctBasis(n int) *mat.Dense {
	idctBasisMu.Lock()
	defer idctBasisMu.Unlock()
	if b, ok := idctBasisCache[n]; ok {
		return b
	}
	b := mat.NewDense(n, n, nil)
	for k := 0; k < n; k++ {
		alpha := math.Sqrt(2.0 / float64(n))
		if k == 0 {
			alpha = math.Sqrt(1.0 / float64(n))
		}
		for x := 0; x < n; x++ {
			b.Set(k, x, alpha*math.Cos(math.Pi/float64(n)*(float64(x)+0.5)*float64(k)))
		}
	}
	idctBasisCache[n] = b
	return b
}

// IDCT2D performs the separable inverse DCT over a width x height
// coefficient grid (row-major, DC at [0][0]), writing width x height
// spatial samples into out. Mirrors dct/generic.rs's idct_2d row-then-
// column structure: first an inverse transform along each row, then
// along each column.
func IDCT2D(coeffs []float32, width, height int, out []float32) {
	freq := mat.NewDense(height, width, nil)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			freq.Set(y, x, float64(coeffs[y*width+x]))
		}
	}

	rowBasis := idctBasis(width)
	var afterRows mat.Dense
	afterRows.Mul(freq, rowBasis) // each row: spatial_row = freq_row * rowBasis

	colBasis := idctBasis(height)
	var spatial mat.Dense
	spatial.Mul(colBasis.T(), &afterRows)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out[y*width+x] = float32(spatial.At(y, x))
		}
	}
}

// IDCTForSelect runs the generic separable IDCT2D over t's CoeffSize for
// every transform type. The Hornuss, DCT2, DCT4 and AFV types get no
// closed-form inverse of their own, so their output is that of a plain
// DCT of the same size, not of the reference's family-specific
// transforms.
func IDCTForSelect(t TransformType, coeffs []float32, out []float32) {
	w, h := t.CoeffSize()
	IDCT2D(coeffs, w, h, out)
}

// ForwardDCT2D is the matching forward transform, used only by tests to
// verify IDCT2D is its exact (to floating-point tolerance) inverse.
func ForwardDCT2D(spatial []float32, width, height int, out []float32) {
	s := mat.NewDense(height, width, nil)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s.Set(y, x, float64(spatial[y*width+x]))
		}
	}
	rowBasis := idctBasis(width)
	var afterRows mat.Dense
	afterRows.Mul(s, rowBasis.T())

	colBasis := idctBasis(height)
	var freq mat.Dense
	freq.Mul(colBasis, &afterRows)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out[y*width+x] = float32(freq.At(y, x))
		}
	}
}
