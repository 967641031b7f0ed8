/*
DESCRIPTION
  lfsmooth.go implements spec.md §4.K adaptive LF smoothing: a gated 3x3
  weighted average of interior LF pixels, skipped per-pixel when the
  difference from the average exceeds a per-channel threshold derived
  from the quantizer. Boundaries clamp (replicate). No literal source for
  this stage survived retrieval filtering, so the threshold-gate formula
  is self-derived directly from spec.md §4.K's prose and exercised by
  TestAdaptiveLFSmoothingGatesLargeDiscontinuities.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package vardct

// SmoothLF applies spec.md §4.K's adaptive smoothing in place over a
// width x height LF plane. quantStep parameterizes the per-channel gate
// threshold (derived from the quantizer, larger quantStep => larger
// tolerated difference before a pixel is left untouched).
func SmoothLF(plane []float32, width, height int, quantStep float32) {
	if width < 3 || height < 3 {
		return
	}
	threshold := quantStep * 1.5
	src := append([]float32(nil), plane...)
	at := func(x, y int) float32 {
		if x < 0 {
			x = 0
		}
		if x >= width {
			x = width - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= height {
			y = height - 1
		}
		return src[y*width+x]
	}
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			sum := at(x-1, y-1) + at(x, y-1) + at(x+1, y-1) +
				at(x-1, y) + at(x, y) + at(x+1, y) +
				at(x-1, y+1) + at(x, y+1) + at(x+1, y+1)
			avg := sum / 9
			centre := at(x, y)
			diff := centre - avg
			if diff < 0 {
				diff = -diff
			}
			if diff <= threshold {
				plane[y*width+x] = avg
			}
		}
	}
}
