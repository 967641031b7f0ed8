/*
DESCRIPTION
  splines.go implements spec.md §4.M splines: a variable number of
  control-point polylines, each carrying one XYB colour for the whole
  spline (colour does not vary per segment) and a Gaussian cross-section
  sigma, rasterized onto the pre-colour-transform
  canvas. No literal spline source survived retrieval filtering from
  original_source (jxl-render's spline renderer lives outside the
  files kept in the pack), so the Catmull-Rom upsampling of control
  points and the Gaussian-weighted deposit below are self-derived from
  the spec's prose; correctness is anchored by TestSplineDepositIsCenteredAndDecays
  rather than a wire-conformance claim.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package features

import "math"

// SplinePoint is one control point of a spline polyline, in canvas
// coordinates.
type SplinePoint struct {
	X, Y float32
}

// Spline is a control-point polyline with a per-spline XYB colour and
// Gaussian cross-section sigma (spec.md §4.M).
type Spline struct {
	Points       []SplinePoint
	ColourX      float32
	ColourY      float32
	ColourB      float32
	Sigma        float32
	SigmaToLenRatio float32
}

// catmullRom upsamples the control polyline into a denser set of
// points using a uniform Catmull-Rom spline through every
// consecutive 4-point window, so segments are rasterized as smooth
// curves rather than straight chords.
func catmullRom(pts []SplinePoint, samplesPerSegment int) []SplinePoint {
	if len(pts) < 2 {
		return pts
	}
	if len(pts) == 2 {
		out := make([]SplinePoint, 0, samplesPerSegment+1)
		for i := 0; i <= samplesPerSegment; i++ {
			t := float32(i) / float32(samplesPerSegment)
			out = append(out, SplinePoint{
				X: pts[0].X + t*(pts[1].X-pts[0].X),
				Y: pts[0].Y + t*(pts[1].Y-pts[0].Y),
			})
		}
		return out
	}

	get := func(i int) SplinePoint {
		if i < 0 {
			return pts[0]
		}
		if i >= len(pts) {
			return pts[len(pts)-1]
		}
		return pts[i]
	}

	var out []SplinePoint
	for seg := 0; seg < len(pts)-1; seg++ {
		p0, p1, p2, p3 := get(seg-1), get(seg), get(seg+1), get(seg+2)
		for i := 0; i <= samplesPerSegment; i++ {
			t := float32(i) / float32(samplesPerSegment)
			t2 := t * t
			t3 := t2 * t
			x := 0.5 * ((2 * p1.X) + (-p0.X+p2.X)*t + (2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 + (-p0.X+3*p1.X-3*p2.X+p3.X)*t3)
			y := 0.5 * ((2 * p1.Y) + (-p0.Y+p2.Y)*t + (2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 + (-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3)
			out = append(out, SplinePoint{X: x, Y: y})
		}
	}
	return out
}

// RenderSpline deposits a Gaussian cross-section along s's (upsampled)
// polyline into the x/y/b canvas planes, each width x height samples.
// Contribution at distance d from the curve is colour * exp(-d^2 /
// (2*sigma^2)); the sigma itself grows linearly along the curve when
// SigmaToLenRatio is non-zero, matching a spline that widens with arc
// length.
func RenderSpline(x, y, b []float32, width, height int, s Spline) {
	if len(s.Points) < 2 || s.Sigma <= 0 {
		return
	}
	curve := catmullRom(s.Points, 16)

	arcLen := float32(0)
	cumLen := make([]float32, len(curve))
	for i := 1; i < len(curve); i++ {
		dx := curve[i].X - curve[i-1].X
		dy := curve[i].Y - curve[i-1].Y
		arcLen += float32(math.Sqrt(float64(dx*dx + dy*dy)))
		cumLen[i] = arcLen
	}

	radius := int(math.Ceil(float64(s.Sigma) * 3))
	if radius < 1 {
		radius = 1
	}

	for i, p := range curve {
		sigma := s.Sigma + s.SigmaToLenRatio*cumLen[i]
		if sigma <= 0 {
			continue
		}
		cx, cy := int(p.X), int(p.Y)
		for oy := -radius; oy <= radius; oy++ {
			py := cy + oy
			if py < 0 || py >= height {
				continue
			}
			for ox := -radius; ox <= radius; ox++ {
				px := cx + ox
				if px < 0 || px >= width {
					continue
				}
				dx := float64(px) - float64(p.X)
				dy := float64(py) - float64(p.Y)
				d2 := dx*dx + dy*dy
				w := float32(math.Exp(-d2 / (2 * float64(sigma) * float64(sigma))))
				idx := py*width + px
				x[idx] += s.ColourX * w
				y[idx] += s.ColourY * w
				b[idx] += s.ColourB * w
			}
		}
	}
}
