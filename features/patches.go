/*
DESCRIPTION
  patches.go implements spec.md §4.M patches: blitting a referenced
  image's region into the current frame's region under a per-channel
  blend mode (Replace, Add, Mul, Blend{Above,Below}, MulAdd{Above,Below}),
  honouring clamp and an alpha-channel index, and silently skipping a
  patch whose source slot is empty (spec.md §4.M, "ignore if the source
  slot is empty"). The blend-mode set and the region-intersection /
  topleft-offset blit shape are ported from
  original_source/crates/jxl-render/src/blend.rs's BlendMode enum and
  patch() function, which is the literal reference for this component.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

// Package features implements the JPEG XL frame features named in
// spec.md §4.M: patches, splines, noise synthesis, and upsampling.
package features

// PatchBlendMode names one of the seven per-channel patch blend modes
// (spec.md §4.M).
type PatchBlendMode uint8

const (
	PatchBlendNone PatchBlendMode = iota
	PatchBlendReplace
	PatchBlendAdd
	PatchBlendMul
	PatchBlendBlendAbove
	PatchBlendBelow
	PatchBlendMulAddAbove
	PatchBlendMulAddBelow
)

// ChannelBlending is one channel's blend parameters within a patch
// target, ported from BlendingModeInformation.
type ChannelBlending struct {
	Mode         PatchBlendMode
	AlphaChannel int
	Clamp        bool
}

// Region is an axis-aligned rectangle in canvas coordinates.
type Region struct {
	Left, Top, Width, Height int
}

// Intersection returns the overlapping rectangle of r and o (possibly
// zero-sized), mirroring Region::intersection.
func (r Region) Intersection(o Region) Region {
	left := max(r.Left, o.Left)
	top := max(r.Top, o.Top)
	right := min(r.Left+r.Width, o.Left+o.Width)
	bottom := min(r.Top+r.Height, o.Top+o.Height)
	if right <= left || bottom <= top {
		return Region{Left: left, Top: top}
	}
	return Region{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Plane is one channel's float32 samples over a Region-sized buffer.
type Plane struct {
	Width, Height int
	Data          []float32
}

func (p *Plane) at(x, y int) float32 {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return 0
	}
	return p.Data[y*p.Width+x]
}

func (p *Plane) set(x, y int, v float32) {
	p.Data[y*p.Width+x] = v
}

// PatchTarget is one placement of a referenced patch onto the base
// canvas: the source rectangle (X0,Y0,Width,Height) within the
// reference image, the destination top-left (X,Y) on the base canvas,
// and the per-channel blend parameters.
type PatchTarget struct {
	X, Y                 int
	X0, Y0, Width, Height int
	Blending              []ChannelBlending
}

// ApplyPatch blits one channel of a patch target from src onto dst,
// applying the given blend mode. alpha, when non-nil, is the
// already-resolved alpha plane sampled at the same offsets as src
// (BlendAbove/BlendBelow/MulAdd* modes).
func ApplyPatch(dst *Plane, src *Plane, target PatchTarget, ch ChannelBlending, alpha *Plane) {
	baseRegion := Region{Width: dst.Width, Height: dst.Height}
	refRegion := Region{Width: src.Width, Height: src.Height}

	targetRegion := baseRegion.Intersection(Region{Left: target.X, Top: target.Y, Width: target.Width, Height: target.Height})
	if targetRegion.Width == 0 || targetRegion.Height == 0 {
		return
	}
	left := targetRegion.Left - target.X
	top := targetRegion.Top - target.Y

	refTargetRegion := refRegion.Intersection(Region{Left: target.X0 + left, Top: target.Y0 + top, Width: targetRegion.Width, Height: targetRegion.Height})
	w := min(targetRegion.Width, refTargetRegion.Width)
	h := min(targetRegion.Height, refTargetRegion.Height)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bx, by := targetRegion.Left+x, targetRegion.Top+y
			sx, sy := refTargetRegion.Left+x, refTargetRegion.Top+y

			base := dst.at(bx, by)
			sample := src.at(sx, sy)
			var a float32 = 1
			if alpha != nil {
				a = alpha.at(sx, sy)
			}

			var out float32
			switch ch.Mode {
			case PatchBlendNone:
				continue
			case PatchBlendReplace:
				out = sample
			case PatchBlendAdd:
				out = base + sample
			case PatchBlendMul:
				out = base * sample
			case PatchBlendBlendAbove:
				out = sample*a + base*(1-a)
			case PatchBlendBelow:
				out = base*a + sample*(1-a)
			case PatchBlendMulAddAbove:
				out = base + sample*a
			case PatchBlendMulAddBelow:
				out = base + sample*(1-a)
			}
			if ch.Clamp {
				if out < 0 {
					out = 0
				} else if out > 1 {
					out = 1
				}
			}
			dst.set(bx, by, out)
		}
	}
}
