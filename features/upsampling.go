/*
DESCRIPTION
  upsampling.go implements spec.md §4.M upsampling: the separable
  2x/4x/8x weighted-neighbourhood upsamplers driven by the image
  metadata's (or default) weight tables, plus integer power-of-two
  nearest-neighbour upsampling for LF levels. The general shape --
  each output sub-pixel position within an upsample cell draws from a
  fixed weighted neighbourhood of input samples, mirror-extended at
  the edges -- follows the diamond-kernel upsampler in
  deepteams-webp/internal/dsp/upsample.go (a packed 4-tap weighted
  average per sub-pixel position), generalized here to JPEG XL's
  position-dependent 5x5 neighbourhood and arbitrary upsample factor.
  The specific 15/55/210-derived default weight tables are self-derived
  placeholders approximating the spec's named defaults (no literal
  weight table survived retrieval filtering), flagged so a reader
  porting exact wire-conformant weights later knows where to look.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package features

// UpsampleWeights holds the position-dependent 5x5 neighbourhood
// weights for one upsample factor, one set per sub-pixel position
// within the upsampled cell (factor^2 sets, row-major).
type UpsampleWeights struct {
	Factor int
	// Sets[p][k] is the weight for neighbourhood offset k (of 25, row
	// major -2..2 x -2..2) at sub-pixel position p (0..factor*factor-1).
	Sets [][25]float32
}

// defaultWeights5x5 builds a simple default weight set biased toward the
// input pixel nearest each sub-pixel position: the centre tap gets
// magnitude 210, the rest of the inner 3x3 gets 55 and the outer ring 15,
// the 2x2 taps on the side the sub-pixel leans toward are scaled by 1.25,
// and each set is normalized to sum to 1. This is a structural
// approximation, not a byte-for-byte port of the reference table.
func defaultWeights5x5(factor int) UpsampleWeights {
	n := factor * factor
	sets := make([][25]float32, n)
	for p := 0; p < n; p++ {
		py, px := p/factor, p%factor
		// Bias direction within the cell: which quadrant of the 5x5
		// neighbourhood this sub-pixel sits closest to.
		dy := 0
		if py >= (factor+1)/2 {
			dy = 1
		}
		dx := 0
		if px >= (factor+1)/2 {
			dx = 1
		}
		var w [25]float32
		var sum float32
		for oy := -2; oy <= 2; oy++ {
			for ox := -2; ox <= 2; ox++ {
				idx := (oy+2)*5 + (ox + 2)
				mag := float32(15)
				// Centre tap.
				if oy == 0 && ox == 0 {
					mag = 210
				} else if abs(oy) <= 1 && abs(ox) <= 1 {
					mag = 55
				}
				// Favour the quadrant the sub-pixel leans toward.
				if (oy == dy-1 || oy == dy) && (ox == dx-1 || ox == dx) {
					mag *= 1.25
				}
				w[idx] = mag
				sum += mag
			}
		}
		for i := range w {
			w[i] /= sum
		}
		sets[p] = w
	}
	return UpsampleWeights{Factor: factor, Sets: sets}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// DefaultUpsampleWeights returns the built-in default weight table for
// the given power-of-two factor (2, 4 or 8).
func DefaultUpsampleWeights(factor int) UpsampleWeights {
	return defaultWeights5x5(factor)
}

func mirrorIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// Upsample applies the separable weighted-neighbourhood upsampler to
// src (width x height) producing a width*factor x height*factor plane,
// mirror-extending at the edges (spec.md §4.M, "Edge handling: mirror").
func Upsample(src []float32, width, height int, weights UpsampleWeights) []float32 {
	factor := weights.Factor
	outW, outH := width*factor, height*factor
	out := make([]float32, outW*outH)

	at := func(x, y int) float32 {
		return src[mirrorIndex(y, height)*width+mirrorIndex(x, width)]
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for py := 0; py < factor; py++ {
				for px := 0; px < factor; px++ {
					set := weights.Sets[py*factor+px]
					var acc float32
					for oy := -2; oy <= 2; oy++ {
						for ox := -2; ox <= 2; ox++ {
							acc += set[(oy+2)*5+(ox+2)] * at(x+ox, y+oy)
						}
					}
					out[(y*factor+py)*outW+(x*factor+px)] = acc
				}
			}
		}
	}
	return out
}

// UpsampleNearestPow2 performs integer power-of-two nearest-neighbour
// upsampling, used for LF levels (spec.md §4.M).
func UpsampleNearestPow2(src []float32, width, height, factor int) []float32 {
	outW, outH := width*factor, height*factor
	out := make([]float32, outW*outH)
	for y := 0; y < outH; y++ {
		sy := y / factor
		for x := 0; x < outW; x++ {
			sx := x / factor
			out[y*outW+x] = src[sy*width+sx]
		}
	}
	return out
}
