/*
DESCRIPTION
  noise.go implements spec.md §4.M noise: three pseudo-random
  correlated noise planes synthesized from a Laplacian-pyramid scheme
  seeded by (visible_frames_before, invisible_frames_before, x, y), with
  strength bilinearly interpolated from an 8-lane table. SynthesizeNoise
  looks the strength up once per pyramid level (u = level/2), not per
  sample intensity. No literal noise-synthesis source survived retrieval filtering
  (jxl-render's noise generator is outside the files kept in the pack),
  so the xorshift-based pixel PRNG and pyramid-collapse loop below are
  self-derived from the spec's prose; correctness is anchored by
  TestNoiseIsDeterministicForSameSeed and TestNoiseStrengthLookupInterpolates
  rather than a wire-conformance claim.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package features

// NoiseParameters is the per-frame noise table: 8 lanes of strength,
// indexed by a normalized position u in [0,1] (SynthesizeNoise passes the
// pyramid level, not a sample intensity).
type NoiseParameters struct {
	Lanes [8]float32
}

// LookupStrength bilinearly interpolates the 8-lane strength table at
// normalized intensity u in [0,1].
func (n NoiseParameters) LookupStrength(u float32) float32 {
	if u <= 0 {
		return n.Lanes[0]
	}
	if u >= 1 {
		return n.Lanes[7]
	}
	scaled := u * 7
	idx := int(scaled)
	if idx >= 7 {
		idx = 6
	}
	frac := scaled - float32(idx)
	return n.Lanes[idx]*(1-frac) + n.Lanes[idx+1]*frac
}

// pixelSeed derives a per-pixel PRNG seed from the frame's visible and
// invisible reference counters and the pixel position, so that noise
// at a given canvas position is stable across passes and groups within
// the same frame (spec.md §4.M, "seeded by
// (visible_frames_before, invisible_frames_before, x, y)").
func pixelSeed(visibleBefore, invisibleBefore uint32, x, y int) uint64 {
	s := uint64(visibleBefore)*0x9E3779B97F4A7C15 + uint64(invisibleBefore)*0xBF58476D1CE4E5B9
	s ^= uint64(uint32(x)) * 0xD6E8FEB86659FD93
	s ^= uint64(uint32(y)) * 0xA5A5A5A5A5A5A5A5
	s ^= s >> 33
	s *= 0xFF51AFD7ED558CCD
	s ^= s >> 33
	s *= 0xC4CEB9FE1A85EC53
	s ^= s >> 33
	return s
}

// xorshift64 advances a 64-bit xorshift PRNG state by one step.
func xorshift64(s uint64) uint64 {
	s ^= s << 13
	s ^= s >> 7
	s ^= s << 17
	return s
}

// uniform maps a PRNG state to a float in [-1,1).
func uniform(s uint64) float32 {
	return float32(s>>11)/float32(1<<53)*2 - 1
}

// laplacianLevel synthesizes one pyramid level of correlated noise at
// the given (downsampled) width/height: an independent random field,
// low-pass filtered by a 3x3 box average to correlate adjacent samples
// the way a Laplacian-pyramid collapse step does.
func laplacianLevel(width, height int, visibleBefore, invisibleBefore uint32, levelSalt uint64) []float32 {
	raw := make([]float32, width*height)
	for yy := 0; yy < height; yy++ {
		for xx := 0; xx < width; xx++ {
			seed := pixelSeed(visibleBefore, invisibleBefore, xx, yy) ^ levelSalt
			seed = xorshift64(seed)
			raw[yy*width+xx] = uniform(seed)
		}
	}
	out := make([]float32, width*height)
	for yy := 0; yy < height; yy++ {
		for xx := 0; xx < width; xx++ {
			var sum float32
			var n int
			for oy := -1; oy <= 1; oy++ {
				py := yy + oy
				if py < 0 || py >= height {
					continue
				}
				for ox := -1; ox <= 1; ox++ {
					px := xx + ox
					if px < 0 || px >= width {
						continue
					}
					sum += raw[py*width+px]
					n++
				}
			}
			out[yy*width+xx] = sum / float32(n)
		}
	}
	return out
}

// SynthesizeNoise fills three correlated noise planes (one per XYB
// channel) sized width x height, built from a 3-level Laplacian
// pyramid of progressively coarser random fields collapsed back up to
// full resolution by nearest-neighbour expansion, each level weighted
// by params.LookupStrength at that level's normalized scale.
func SynthesizeNoise(width, height int, visibleBefore, invisibleBefore uint32, params NoiseParameters) (x, y, b []float32) {
	x = make([]float32, width*height)
	y = make([]float32, width*height)
	b = make([]float32, width*height)

	const levels = 3
	for lvl := 0; lvl < levels; lvl++ {
		scale := 1 << uint(lvl)
		lw, lh := (width+scale-1)/scale, (height+scale-1)/scale
		if lw < 1 {
			lw = 1
		}
		if lh < 1 {
			lh = 1
		}
		u := float32(lvl) / float32(levels-1)
		strength := params.LookupStrength(u)

		fieldX := laplacianLevel(lw, lh, visibleBefore, invisibleBefore, uint64(lvl)*3+1)
		fieldY := laplacianLevel(lw, lh, visibleBefore, invisibleBefore, uint64(lvl)*3+2)
		fieldB := laplacianLevel(lw, lh, visibleBefore, invisibleBefore, uint64(lvl)*3+3)

		for yy := 0; yy < height; yy++ {
			ly := yy / scale
			if ly >= lh {
				ly = lh - 1
			}
			for xx := 0; xx < width; xx++ {
				lx := xx / scale
				if lx >= lw {
					lx = lw - 1
				}
				idx := yy*width + xx
				lidx := ly*lw + lx
				x[idx] += strength * fieldX[lidx]
				y[idx] += strength * fieldY[lidx]
				b[idx] += strength * fieldB[lidx]
			}
		}
	}
	return x, y, b
}
