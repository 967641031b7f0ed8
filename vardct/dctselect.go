/*
DESCRIPTION
  dctselect.go names the 27 rectangular and square transform shapes a
  VarDCT varblock can select (spec.md GLOSSARY "DCT select"; §3 "VarDCT
  block map"), and the geometry derived from each: its covered slot
  rectangle in 8x8 units, and the raw coefficient-grid size dequant
  matrices and the inverse transform are built for. Grounded on the
  TransformType variant set enumerated by
  original_source/crates/jxl-vardct/src/dequant.rs's
  DequantMatrixParamsEncoding::default_with match arms, which is the
  only place in the retrieval pack the full 27-way shape list survives.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

// Package vardct implements the JPEG XL VarDCT sub-decoder (spec.md §4.G-K):
// variable-block-size coefficient parsing, dequantization, the inverse DCT
// family, chroma-from-luma, and adaptive LF smoothing.
package vardct

// TransformType names one of the 27 VarDCT transform shapes.
type TransformType uint8

const (
	Dct8 TransformType = iota
	Hornuss
	Dct2
	Dct4
	Dct16
	Dct32
	Dct8x16
	Dct16x8
	Dct8x32
	Dct32x8
	Dct16x32
	Dct32x16
	Dct4x8
	Dct8x4
	Afv0
	Afv1
	Afv2
	Afv3
	Dct64
	Dct32x64
	Dct64x32
	Dct128
	Dct64x128
	Dct128x64
	Dct256
	Dct128x256
	Dct256x128
	numTransformTypes
)

// ParseTransformType validates a decoded dct_select id.
func ParseTransformType(v uint32) (TransformType, bool) {
	if v >= uint32(numTransformTypes) {
		return 0, false
	}
	return TransformType(v), true
}

// covers8 returns the (w8, h8) slot-rectangle a transform of this type
// occupies in the block map, in 8x8 units (spec.md §3's "Transforms ...
// have rectangular covers (w8,h8)").
func (t TransformType) covers8() (w8, h8 int) {
	switch t {
	case Dct8, Hornuss, Dct2, Dct4, Afv0, Afv1, Afv2, Afv3:
		return 1, 1
	case Dct16:
		return 2, 2
	case Dct32:
		return 4, 4
	case Dct8x16, Dct16x8:
		return map2(t, 1, 2)
	case Dct8x32, Dct32x8:
		return map2(t, 1, 4)
	case Dct16x32, Dct32x16:
		return map2(t, 2, 4)
	case Dct4x8, Dct8x4:
		return 1, 1
	case Dct64:
		return 8, 8
	case Dct32x64, Dct64x32:
		return map2(t, 4, 8)
	case Dct128:
		return 16, 16
	case Dct64x128, Dct128x64:
		return map2(t, 8, 16)
	case Dct256:
		return 32, 32
	case Dct128x256, Dct256x128:
		return map2(t, 16, 32)
	default:
		return 1, 1
	}
}

// map2 picks (a,b) or (b,a) depending on whether t is the "wide" or "tall"
// member of a rectangular pair: the first of the pair enumerated above
// (Dct8x16, Dct8x32, ...) gets (w8, h8) = (a, b), so with a < b it is tall
// (Dct8x16 is 8 wide and 16 high); the second gets (b, a).
func map2(t TransformType, a, b int) (int, int) {
	switch t {
	case Dct8x16, Dct8x32, Dct16x32, Dct32x64, Dct64x128, Dct128x256:
		return a, b
	default:
		return b, a
	}
}

// CoeffSize returns the raw coefficient-grid dimensions this transform's
// dequantization matrix and inverse DCT operate on (8x the block-map
// cover, per the VarDCT grid being 8 samples per slot).
func (t TransformType) CoeffSize() (width, height int) {
	w8, h8 := t.covers8()
	return w8 * 8, h8 * 8
}

// DequantMatrixSize mirrors dequant_matrix_size(): it returns CoeffSize
// for every transform, including the 4x4-class transforms (Dct4, Dct4x8,
// Dct8x4, Afv*), whose matrices are expressed over their 8x8 grid.
func (t TransformType) DequantMatrixSize() (width, height int) {
	return t.CoeffSize()
}
