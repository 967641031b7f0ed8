/*
DESCRIPTION
  dequant.go implements spec.md §4.H dequantization: the LF per-channel
  scale, and the 17 HF dequantization-matrix families synthesized from a
  parameterised recipe via the interpolate() band-expansion formula.
  Matrices are always synthesized from the default recipe; reading a raw
  Modular-coded integer matrix from the bitstream is not implemented.
  Parameter tables and
  the interpolate/dct_quant_weights/mult formulas are ported verbatim
  from DequantMatrixParamsEncoding::default_with and ::into_matrix in
  original_source/crates/jxl-vardct/src/dequant.rs, which is the literal
  source for this component. gonum.org/v1/gonum/mat backs the weight
  grids: interpolation, band expansion and the final pointwise divide
  are small dense-matrix operations. The LF/HF scales themselves are
  applied by plain per-sample loops (DequantHF reads the matrix with
  At), not by mat.Mul/Scale.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package vardct

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// interpolate implements the exact recipe named in spec.md §4.H:
// interpolate(pos, max, bands) = bands[i] * (bands[i+1]/bands[i])^frac.
// spec.md §8 names interpolate(0,max,bands)==bands[0] and
// interpolate(max,max,bands)==bands[last] as testable properties.
func interpolate(pos, max float32, bands []float32) float32 {
	if len(bands) == 1 {
		return bands[0]
	}
	scaledPos := pos * float32(len(bands)-1) / max
	idx := int(scaledPos)
	if idx >= len(bands)-1 {
		idx = len(bands) - 2
	}
	frac := scaledPos - float32(idx)
	a, b := bands[idx], bands[idx+1]
	return a * float32(math.Pow(float64(b/a), float64(frac)))
}

// mult is the band-expansion step used by dctQuantWeights: positive x
// scales up, non-positive x scales down via reciprocal.
func mult(x float32) float32 {
	if x > 0 {
		return 1 + x
	}
	return 1 / (1 - x)
}

// dctQuantWeights expands a per-band parameter vector into a width x
// height weight matrix by radial interpolation across the bands.
func dctQuantWeights(params []float32, width, height int) *mat.Dense {
	bands := make([]float32, len(params))
	bands[0] = params[0]
	for i := 1; i < len(params); i++ {
		bands[i] = bands[i-1] * mult(params[i])
	}
	m := mat.NewDense(height, width, nil)
	for y := 0; y < height; y++ {
		dy := float32(y) / float32(height-1)
		for x := 0; x < width; x++ {
			dx := float32(x) / float32(width-1)
			distance := float32(math.Sqrt(float64(dx*dx + dy*dy)))
			m.Set(y, x, float64(interpolate(distance, float32(math.Sqrt2)+1e-6, bands)))
		}
	}
	return m
}

// afvFreqs is the 16-entry FREQS table from spec.md §4.H's AFV special
// case, ported verbatim from dequant.rs's local FREQS constant.
var afvFreqs = [16]float32{
	0, 0, 0.8517779, 5.3777843, 0, 0, 4.734748, 5.4492455,
	1.659827, 4.0, 7.275749, 10.423227, 2.6629324, 7.6306577, 8.962389, 12.971662,
}

// seqA/seqB/seqC are the shared tail coefficients used by the common
// large-DCT recipe (Dct64/128/256 and their rectangular pairs).
var (
	seqA = []float32{-1.025, -0.78, -0.65012, -0.19041574, -0.20819396, -0.421064, -0.32733846}
	seqB = []float32{-0.30419582, 0.36330363, -0.3566038, -0.34430745, -0.33699593, -0.30180866, -0.27321684}
	seqC = []float32{-1.2, -1.2, -0.8, -0.7, -0.7, -0.4, -0.5}
)

func commonSeq(a, b, c float32) [3][]float32 {
	return [3][]float32{
		append([]float32{a}, seqA...),
		append([]float32{b}, seqB...),
		append([]float32{c}, seqC...),
	}
}

// dct4x8Params / dct4Params are the shared low-order-transform parameter
// tables reused by Dct4, Dct4x8/Dct8x4 and Afv*.
var dct4x8Params = [3][4]float32{
	{2198.0505, -0.96269625, -0.7619425, -0.65511405},
	{764.36554, -0.926302, -0.967523, -0.2784529},
	{527.10754, -1.4594386, -1.4500821, -1.5843723},
}
var dct4Params = [3][4]float32{
	{2200.0, 0, 0, 0},
	{392.0, 0, 0, 0},
	{112.0, -0.25, -0.25, -0.5},
}

// DefaultWeights synthesizes the 3-channel (Y,X,B order per spec.md
// §4.G's LF-DC bucket channel order) HF dequantization matrix for the
// given transform using the built-in default parameter recipe (spec.md
// §4.H's 17 matrix families). Matrices not read raw from the bitstream
// use this path.
func DefaultWeights(t TransformType) [3]*mat.Dense {
	switch t {
	case Hornuss:
		params := [3][3]float32{{280, 3160, 3160}, {60, 864, 864}, {18, 200, 200}}
		var out [3]*mat.Dense
		for c := 0; c < 3; c++ {
			m := mat.NewDense(8, 8, nil)
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					m.Set(y, x, float64(params[c][0]))
				}
			}
			m.Set(0, 0, 1)
			m.Set(0, 1, float64(params[c][1]))
			m.Set(1, 0, float64(params[c][1]))
			m.Set(1, 1, float64(params[c][2]))
			out[c] = m
		}
		return out
	case Dct2:
		params := [3][6]float32{
			{3840, 2560, 1280, 640, 480, 300},
			{960, 640, 320, 180, 140, 120},
			{640, 320, 128, 64, 32, 16},
		}
		var out [3]*mat.Dense
		for c := 0; c < 3; c++ {
			m := mat.NewDense(8, 8, nil)
			for idx, val := range params[c] {
				shift := idx / 2
				dim := 1 << shift
				if idx%2 == 0 {
					for y := 0; y < dim; y++ {
						for x := dim; x < 2*dim; x++ {
							m.Set(y, x, float64(val))
						}
					}
					for y := dim; y < 2*dim; y++ {
						for x := 0; x < dim; x++ {
							m.Set(y, x, float64(val))
						}
					}
				} else {
					for y := dim; y < 2*dim; y++ {
						for x := dim; x < 2*dim; x++ {
							m.Set(y, x, float64(val))
						}
					}
				}
			}
			out[c] = m
		}
		return out
	case Dct4:
		var out [3]*mat.Dense
		for c := 0; c < 3; c++ {
			mat4 := dctQuantWeights(dct4Params[c][:], 4, 4)
			m := mat.NewDense(8, 8, nil)
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					v := mat4.At(y, x)
					m.Set(2*y, 2*x, v)
					m.Set(2*y, 2*x+1, v)
					m.Set(2*y+1, 2*x, v)
					m.Set(2*y+1, 2*x+1, v)
				}
			}
			m.Set(0, 1, m.At(0, 1)/1)
			m.Set(1, 0, m.At(1, 0)/1)
			out[c] = m
		}
		return out
	case Dct4x8, Dct8x4:
		var out [3]*mat.Dense
		for c := 0; c < 3; c++ {
			w := dctQuantWeights(dct4x8Params[c][:], 8, 4)
			m := mat.NewDense(8, 8, nil)
			for y := 0; y < 4; y++ {
				for x := 0; x < 8; x++ {
					v := w.At(y, x)
					m.Set(2*y, x, v)
					m.Set(2*y+1, x, v)
				}
			}
			out[c] = m
		}
		return out
	case Afv0, Afv1, Afv2, Afv3:
		params := [3][9]float32{
			{3072, 3072, 256, 256, 256, 414, 0, 0, 0},
			{1024, 1024, 50, 50, 50, 58, 0, 0, 0},
			{384, 384, 12, 12, 12, 22, -0.25, -0.25, -0.25},
		}
		var out [3]*mat.Dense
		for c := 0; c < 3; c++ {
			w8 := dctQuantWeights(dct4x8Params[c][:], 8, 4)
			w4 := dctQuantWeights(dct4Params[c][:], 4, 4)
			bands := [4]float32{params[c][5], 0, 0, 0}
			prev := bands[0]
			tail := params[c][6:9]
			for i, p := range tail {
				bands[i+1] = prev * mult(p)
				prev = bands[i+1]
			}
			m := mat.NewDense(8, 8, nil)
			const freqLo = afvFreqs_2
			const freqHi = afvFreqs_15
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					var v float32
					switch {
					case x == 0 && y == 0:
						v = 1
					case x == 0 && y == 1:
						v = params[c][2]
					case x == 1 && y == 0:
						v = params[c][3]
					case x == 1 && y == 1:
						v = params[c][4]
					default:
						v = interpolate(afvFreqs[y*4+x]-freqLo, freqHi+freqLo+1e-6, bands[:])
					}
					m.Set(2*y, 2*x, float64(v))
				}
			}
			for y := 0; y < 4; y++ {
				for x := 0; x < 8; x++ {
					v := w8.At(y, x)
					if y == 0 && x == 0 {
						v = float64(params[c][0])
					}
					m.Set(2*y+1, x, v)
				}
			}
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					v := w4.At(y, x)
					if y == 0 && x == 0 {
						v = float64(params[c][1])
					}
					m.Set(2*y, 2*x+1, v)
				}
			}
			out[c] = m
		}
		return out
	default:
		w, h := t.DequantMatrixSize()
		params := dctParamsFor(t)
		var out [3]*mat.Dense
		for c := 0; c < 3; c++ {
			out[c] = dctQuantWeights(params[c], w, h)
		}
		return out
	}
}

const (
	afvFreqs_2  = 0.8517779
	afvFreqs_15 = 12.971662
)

// dctParamsFor returns the 3-channel parameter vectors for every
// transform synthesized by the generic dct_quant_weights path (the Dct
// encoding variant of dequant.rs).
func dctParamsFor(t TransformType) [3][]float32 {
	switch t {
	case Dct8:
		return [3][]float32{
			{3150.0, 0, -0.4, -0.4, -0.4, -2.0},
			{560.0, 0, -0.3, -0.3, -0.3, -0.3},
			{512.0, -2.0, -1.0, 0, -1.0, -2.0},
		}
	case Dct16:
		return [3][]float32{
			{8996.873, -1.3000778, -0.4942453, -0.43909377, -0.6350102, -0.9017726, -1.6162099},
			{3191.4836, -0.67424583, -0.80745816, -0.4492584, -0.3586544, -0.3132239, -0.37615025},
			{1157.504, -2.0531423, -1.4, -0.5068713, -0.4270873, -1.4856834, -4.920914},
		}
	case Dct32:
		return [3][]float32{
			{15718.408, -1.025, -0.98, -0.9012, -0.4, -0.48819396, -0.421064, -0.27},
			{7305.7637, -0.8041958, -0.76330364, -0.5566038, -0.49785304, -0.43699592, -0.40180868, -0.27321684},
			{3803.5317, -3.0607336, -2.041327, -2.023565, -0.54953897, -0.4, -0.4, -0.3},
		}
	case Dct8x16, Dct16x8:
		return [3][]float32{
			{7240.7734, -0.7, -0.7, -0.2, -0.2, -0.2, -0.5},
			{1448.1547, -0.5, -0.5, -0.5, -0.2, -0.2, -0.2},
			{506.85413, -1.4, -0.2, -0.5, -0.5, -1.5, -3.6},
		}
	case Dct8x32, Dct32x8:
		return [3][]float32{
			{16283.249, -1.7812846, -1.6309059, -1.0382179, -0.85, -0.7, -0.9, -1.2360638},
			{5089.1577, -0.3200494, -0.3536285, -0.3034, -0.61, -0.5, -0.5, -0.6},
			{3397.7761, -0.32132736, -0.3450762, -0.7034, -0.9, -1.0, -1.0, -1.1754606},
		}
	case Dct16x32, Dct32x16:
		return [3][]float32{
			{13844.971, -0.971138, -0.658, -0.42026, -0.22712, -0.2206, -0.226, -0.6},
			{4798.964, -0.6112531, -0.8377079, -0.7901486, -0.26927274, -0.38272768, -0.22924222, -0.20719099},
			{1807.2369, -1.2, -1.2, -0.7, -0.7, -0.7, -0.4, -0.5},
		}
	case Dct64:
		s := commonSeq(23966.166, 8380.191, 4493.024)
		return s
	case Dct32x64, Dct64x32:
		s := commonSeq(15358.898, 5597.3604, 2919.9617)
		return s
	case Dct128:
		s := commonSeq(47932.332, 16760.383, 8986.048)
		return s
	case Dct64x128, Dct128x64:
		s := commonSeq(30717.797, 11194.721, 5839.9233)
		return s
	case Dct256:
		s := commonSeq(95864.664, 33520.766, 17972.096)
		return s
	case Dct128x256, Dct256x128:
		s := commonSeq(61435.594, 24209.441, 12979.847)
		return s
	default:
		return [3][]float32{{1}, {1}, {1}}
	}
}

// LfUnscaled holds the three m_*_lf_unscaled factors from the LF
// dequantization bundle (spec.md §4.H "LF" stage), in Y,X,B order.
type LfUnscaled struct {
	Y, X, B float32
}

// DequantLF multiplies LF samples in place by the per-channel unscaled
// factor and global_scale/quant_lf, per spec.md §4.H.
func DequantLF(samples []int32, out []float32, unscaled float32, globalScale, quantLF int32) {
	factor := unscaled * float32(globalScale) / float32(quantLF)
	for i, s := range samples {
		out[i] = float32(s) * factor
	}
}

// DequantHF multiplies one varblock's raw coefficients pointwise by
// qm[y][x] / (global_scale * quant * hf_mul), per spec.md §4.H.
func DequantHF(coeffs []int32, out []float32, qm *mat.Dense, globalScale, quant, hfMul int32) {
	denom := float32(globalScale) * float32(quant) * float32(hfMul)
	r, c := qm.Dims()
	for y := 0; y < r; y++ {
		for x := 0; x < c; x++ {
			i := y*c + x
			out[i] = float32(coeffs[i]) * float32(qm.At(y, x)) / denom
		}
	}
}
