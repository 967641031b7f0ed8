/*
DESCRIPTION
  cfl.go implements spec.md §4.J chroma-from-luma: the LF-level
  correction (x += colour_factor_x_recip * y_lf, symmetric for b) and the
  per-varblock HF correction sampled from the 64x64-tile correlation
  grid. No jxl-vardct chroma-from-luma source file survived retrieval
  pack filtering, so the fixed-point correction-grid reinterpretation
  (quantized integer -> signed 8.8) is self-derived from spec.md §4.J's
  prose; the two call sites (LF plane, per-varblock HF) mirror the
  two-stage application spec.md names explicitly.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package vardct

// CorrelationGrid holds the per-64x64-tile x_from_y / b_from_y correction
// samples, quantized to integers and reinterpreted as signed 8.8 fixed
// point (spec.md §4.J).
type CorrelationGrid struct {
	Width, Height int // in 64x64 tiles
	XFromY, BFromY []int32
}

// at returns the signed 8.8 fixed-point correction at tile (tx,ty),
// clamped to the grid edges.
func (g *CorrelationGrid) at(data []int32, tx, ty int) float32 {
	if tx < 0 {
		tx = 0
	}
	if ty < 0 {
		ty = 0
	}
	if tx >= g.Width {
		tx = g.Width - 1
	}
	if ty >= g.Height {
		ty = g.Height - 1
	}
	return float32(data[ty*g.Width+tx]) / 256.0
}

// ApplyLFCfL applies the LF-level chroma-from-luma correction in place:
// x[i] += (baseCorrelationX_recip + gridX) * y[i] and
// b[i] += (baseCorrelationB_recip + gridB) * y[i], where gridX/gridB are
// the correlation grid's corrections for sample i's 64x64 tile.
func ApplyLFCfL(y, x, b []float32, baseCorrelationXRecip, baseCorrelationBRecip float32, grid *CorrelationGrid, width int) {
	for i := range y {
		tx, ty := (i%width)/64, (i/width)/64
		xFactor := baseCorrelationXRecip + grid.at(grid.XFromY, tx, ty)
		bFactor := baseCorrelationBRecip + grid.at(grid.BFromY, tx, ty)
		x[i] += xFactor * y[i]
		b[i] += bFactor * y[i]
	}
}

// ApplyHFCfL applies the per-varblock HF chroma-from-luma correction:
// every HF coefficient of x and b is corrected by the factor sampled at
// the varblock's 64x64 tile position.
func ApplyHFCfL(yCoeff, xCoeff, bCoeff []float32, tileX, tileY int, grid *CorrelationGrid) {
	xFactor := grid.at(grid.XFromY, tileX, tileY)
	bFactor := grid.at(grid.BFromY, tileX, tileY)
	for i := range yCoeff {
		xCoeff[i] += xFactor * yCoeff[i]
		bCoeff[i] += bFactor * yCoeff[i]
	}
}
