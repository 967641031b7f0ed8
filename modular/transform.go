/*
DESCRIPTION
  transform.go implements the three Modular transform kinds from spec.md
  §4.F: RCT, Palette, Squeeze. The transform bundle shapes (field order,
  U32 codings) are ported from crates/jxl-modular/src/transform.rs in
  original_source (TransformInfo::parse, Rct, Squeeze/SqueezeParams,
  Palette::parse). original_source's rct.rs and squeeze.rs submodules --
  the files with the exact reversible-colour-transform and Haar-lifting
  integer formulas -- were not present in the retrieval pack, so the RCT
  forward/inverse pair and the squeeze merge/split arithmetic below are
  self-derived reversible integer transforms rather than ported line for
  line; each is built so forward-then-inverse is an exact round trip
  (spec.md §8's named testable property), which is verified in
  transform_test.go. The Palette delta-palette table and index-range
  fallback synthesis ARE ported verbatim from Palette::inverse_once, since
  that logic is fully present above.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package modular

import (
	"github.com/ausocean/jxl/bits"
	"github.com/pkg/errors"
)

// channelIndexDist mirrors the U32 coding used throughout transform.rs
// for begin_c-style channel indices.
var channelIndexDist = bits.U32Dist{
	Const: [4]uint32{0, 8, 72, 1096},
	Extra: [4]int{3, 6, 10, 13},
}

// RCT is the reversible-colour-transform bundle.
type RCT struct {
	BeginC  uint32
	RctType uint32
}

// ParseRCT reads an Rct bundle.
func ParseRCT(br *bits.Reader) (RCT, error) {
	beginC, err := br.ReadU32(channelIndexDist)
	if err != nil {
		return RCT{}, errors.Wrap(err, "rct: begin_c")
	}
	// field order per original_source: rct_type: U32(6, u(2), 2+u(4), 10+u(6))
	ty, err := br.ReadU32(bits.U32Dist{Const: [4]uint32{6, 0, 2, 10}, Extra: [4]int{0, 2, 4, 6}})
	if err != nil {
		return RCT{}, errors.Wrap(err, "rct: rct_type")
	}
	return RCT{BeginC: beginC, RctType: ty}, nil
}

// Apply performs the forward RCT (encoder direction) on three co-located
// channels of identical shape, used only by tests to build round-trip
// fixtures (the decoder only ever needs InverseRCT).
func (r RCT) Apply(img *Image) error {
	return r.transform(img, false)
}

// InverseRCT undoes a forward RCT, restoring the three original channels.
func (r RCT) InverseRCT(img *Image) error {
	return r.transform(img, true)
}

func (r RCT) transform(img *Image, inverse bool) error {
	begin := int(r.BeginC)
	if begin+3 > len(img.Channels) {
		return errors.New("modular: InvalidRctParams: begin_c+3 exceeds channel count")
	}
	a, b, c := img.Channels[begin], img.Channels[begin+1], img.Channels[begin+2]
	if a.Width != b.Width || a.Width != c.Width || a.Height != b.Height || a.Height != c.Height {
		return errors.New("modular: InvalidRctParams: channel shapes differ")
	}

	perm := r.RctType / 7
	ty := r.RctType % 7
	if perm > 5 || ty > 6 {
		// Mirrors the "invalid rct_type is skipped, not errored" decision
		// recorded for this open question: leave the three channels
		// untouched rather than failing the frame.
		return nil
	}

	n := a.Width * a.Height
	for i := 0; i < n; i++ {
		x0, x1, x2 := a.Data[i], b.Data[i], c.Data[i]
		p0, p1, p2 := permuteForward(perm, x0, x1, x2)
		var o0, o1, o2 int32
		if inverse {
			o0, o1, o2 = rctInverse(ty, p0, p1, p2)
		} else {
			o0, o1, o2 = rctForward(ty, p0, p1, p2)
		}
		x0, x1, x2 = permuteBackward(perm, o0, o1, o2)
		a.Data[i], b.Data[i], c.Data[i] = x0, x1, x2
	}
	return nil
}

// permuteForward/permuteBackward apply/undo one of the six 3-element
// permutations named by perm ∈ 0..5, in the same (identity, inverse
// pair) shape transform.rs's rct_type/7 selector expects.
func permuteForward(perm uint32, a, b, c int32) (int32, int32, int32) {
	switch perm {
	case 0:
		return a, b, c
	case 1:
		return a, c, b
	case 2:
		return b, a, c
	case 3:
		return b, c, a
	case 4:
		return c, a, b
	default: // 5
		return c, b, a
	}
}

func permuteBackward(perm uint32, a, b, c int32) (int32, int32, int32) {
	switch perm {
	case 0:
		return a, b, c
	case 1:
		return a, c, b
	case 2:
		return b, a, c
	case 3:
		return c, a, b
	case 4:
		return b, c, a
	default: // 5
		return c, b, a
	}
}

// rctForward/rctInverse implement the 7 reversible integer colour
// transforms selected by ty ∈ 0..6 (see the file doc comment for why these
// are self-derived rather than ported).
func rctForward(ty uint32, a, b, c int32) (int32, int32, int32) {
	switch ty {
	case 0:
		return a, b, c
	case 1:
		return a, b - a, c - a
	case 2:
		return a - b, b, c - b
	case 3:
		return a - c, b - c, c
	case 4:
		co := a - c
		tmp := c + (co >> 1)
		cg := b - tmp
		y := tmp + (cg >> 1)
		return y, co, cg
	case 5:
		co := a - b
		tmp := b + (co >> 1)
		cg := c - tmp
		y := tmp + (cg >> 1)
		return y, co, cg
	default: // 6
		co := b - c
		tmp := c + (co >> 1)
		cg := a - tmp
		y := tmp + (cg >> 1)
		return y, co, cg
	}
}

func rctInverse(ty uint32, o0, o1, o2 int32) (int32, int32, int32) {
	switch ty {
	case 0:
		return o0, o1, o2
	case 1:
		return o0, o1 + o0, o2 + o0
	case 2:
		return o0 + o1, o1, o2 + o1
	case 3:
		return o0 + o2, o1 + o2, o2
	case 4:
		y, co, cg := o0, o1, o2
		tmp := y - (cg >> 1)
		b := cg + tmp
		c := tmp - (co >> 1)
		a := co + c
		return a, b, c
	case 5:
		y, co, cg := o0, o1, o2
		tmp := y - (cg >> 1)
		c := cg + tmp
		b := tmp - (co >> 1)
		a := co + b
		return a, b, c
	default: // 6
		y, co, cg := o0, o1, o2
		tmp := y - (cg >> 1)
		a := cg + tmp
		c := tmp - (co >> 1)
		b := co + c
		return a, b, c
	}
}

// Palette is the palette transform bundle (spec.md §4.F "Palette").
type Palette struct {
	BeginC     uint32
	NumC       uint32
	NbColours  uint32
	NbDeltas   uint32
	DPred      Predictor
	WpHeader   *WpHeader
}

var paletteNumCDist = bits.U32Dist{Const: [4]uint32{1, 3, 4, 1}, Extra: [4]int{0, 0, 0, 13}}
var paletteNbColoursDist = bits.U32Dist{Const: [4]uint32{0, 256, 1280, 5376}, Extra: [4]int{8, 10, 12, 16}}
var paletteNbDeltasDist = bits.U32Dist{Const: [4]uint32{0, 1, 257, 1281}, Extra: [4]int{0, 8, 10, 16}}

// ParsePalette reads a Palette bundle; wp supplies the delta predictor's
// weighted-predictor parameters when d_pred selects SelfCorrecting.
func ParsePalette(br *bits.Reader, wp WpHeader) (Palette, error) {
	beginC, err := br.ReadU32(channelIndexDist)
	if err != nil {
		return Palette{}, errors.Wrap(err, "palette: begin_c")
	}
	numC, err := br.ReadU32(paletteNumCDist)
	if err != nil {
		return Palette{}, errors.Wrap(err, "palette: num_c")
	}
	nbColours, err := br.ReadU32(paletteNbColoursDist)
	if err != nil {
		return Palette{}, errors.Wrap(err, "palette: nb_colours")
	}
	nbDeltas, err := br.ReadU32(paletteNbDeltasDist)
	if err != nil {
		return Palette{}, errors.Wrap(err, "palette: nb_deltas")
	}
	predRaw, err := br.ReadBits(4)
	if err != nil {
		return Palette{}, errors.Wrap(err, "palette: d_pred")
	}
	pred, err := ParsePredictor(predRaw)
	if err != nil {
		return Palette{}, err
	}
	p := Palette{BeginC: beginC, NumC: numC, NbColours: nbColours, NbDeltas: nbDeltas, DPred: pred}
	if pred == PredictorSelfCorrecting {
		h := wp
		p.WpHeader = &h
	}
	return p, nil
}

// deltaPalette is Palette::DELTA_PALETTE, ported verbatim.
var deltaPalette = [72][3]int16{
	{0, 0, 0}, {4, 4, 4}, {11, 0, 0}, {0, 0, -13}, {0, -12, 0}, {-10, -10, -10},
	{-18, -18, -18}, {-27, -27, -27}, {-18, -18, 0}, {0, 0, -32}, {-32, 0, 0}, {-37, -37, -37},
	{0, -32, -32}, {24, 24, 45}, {50, 50, 50}, {-45, -24, -24}, {-24, -45, -45}, {0, -24, -24},
	{-34, -34, 0}, {-24, 0, -24}, {-45, -45, -24}, {64, 64, 64}, {-32, 0, -32}, {0, -32, 0},
	{-32, 0, 32}, {-24, -45, -24}, {45, 24, 45}, {24, -24, -45}, {-45, -24, 24}, {80, 80, 80},
	{64, 0, 0}, {0, 0, -64}, {0, -64, -64}, {-24, -24, 45}, {96, 96, 96}, {64, 64, 0},
	{45, -24, -24}, {34, -34, 0}, {112, 112, 112}, {24, -45, -45}, {45, 45, -24}, {0, -32, 32},
	{24, -24, 45}, {0, 96, 96}, {45, -24, 24}, {24, -45, -24}, {-24, -45, 24}, {0, -64, 0},
	{96, 0, 0}, {128, 128, 128}, {64, 0, 64}, {144, 144, 144}, {96, 96, 0}, {-36, -36, 36},
	{45, -24, -45}, {45, -45, -24}, {0, 0, -96}, {0, 128, 128}, {0, 96, 0}, {45, 24, -45},
	{-128, 0, 0}, {24, -45, 24}, {-45, 24, -45}, {64, 0, -64}, {64, -64, -64}, {96, 0, 96},
	{45, -45, 24}, {24, 45, -45}, {64, 64, -64}, {128, 128, 0}, {0, 0, -128}, {-24, 45, -45},
}

// InversePalette replaces the index channel and its palette meta-channel
// with NumC restored colour channels, per Palette::inverse/inverse_once.
// It assumes the palette meta-channel was inserted at slot 0 (spec.md §4.F
// "Palette": "replaces num_c consecutive channels with one index channel
// and one meta channel"), as TransformInfo::prepare_meta_channels does
// during forward transform preparation.
func (p Palette) InversePalette(img *Image, bitDepth uint32) error {
	if len(img.Channels) < 2 {
		return errors.New("modular: InvalidPaletteParams: missing index channel")
	}
	return p.inverse(img, img.Channels[0], bitDepth)
}

func (p Palette) inverse(img *Image, paletteGrid *Grid, bitDepth uint32) error {
	begin := int(p.BeginC) + 1 // +1 because palette grid occupies slot 0
	numC := int(p.NumC)
	if begin >= len(img.Channels) {
		return errors.New("modular: InvalidPaletteParams: begin_c out of range")
	}
	indexGrid := img.Channels[begin]

	restored := make([]*Grid, numC)
	restored[0] = indexGrid
	for i := 1; i < numC; i++ {
		restored[i] = NewGrid(indexGrid.Width, indexGrid.Height, indexGrid.HShift, indexGrid.VShift)
	}

	for c := 1; c < numC; c++ {
		p.inverseOnce(c, paletteGrid, indexGrid, restored[c], bitDepth)
	}
	p.inverseOnce(0, paletteGrid, nil, indexGrid, bitDepth)

	newChannels := make([]*Grid, 0, len(img.Channels)-1+numC-1)
	newChannels = append(newChannels, img.Channels[1:begin]...)
	newChannels = append(newChannels, restored...)
	newChannels = append(newChannels, img.Channels[begin+1:]...)
	img.Channels = newChannels
	if img.NumMetaChannels > 0 {
		img.NumMetaChannels--
	}
	return nil
}

func (p Palette) inverseOnce(c int, palette, indices, grid *Grid, bitDepth uint32) {
	nbDeltas := int32(p.NbDeltas)
	nbColours := int32(p.NbColours)

	var needDelta [][2]int
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			var index int32
			if indices != nil {
				index = indices.At(x, y)
			} else {
				index = grid.At(x, y)
			}
			if index < nbDeltas {
				needDelta = append(needDelta, [2]int{x, y})
			}
			switch {
			case index >= 0 && index < nbColours:
				grid.Set(x, y, palette.At(int(index), c))
			case index >= nbColours:
				value := index
				idx := index - nbColours
				if idx < 64 {
					shift := uint32(0)
					if bitDepth >= 3 {
						shift = bitDepth - 3
					}
					v := ((value >> uint(2*c)) % 4) * ((1 << bitDepth) - 1) / 4
					v += 1 << shift
					grid.Set(x, y, v)
				} else {
					idx2 := idx - 64
					for i := 0; i < c; i++ {
						idx2 /= 5
					}
					grid.Set(x, y, (idx2%5)*((1<<bitDepth)-1)/4)
				}
			case c < 3:
				dIdx := -(index + 1)
				dIdx = dIdx % 143
				tmp := int32(deltaPalette[(dIdx+1)>>1][c])
				if dIdx&1 == 0 {
					tmp = -tmp
				}
				if bitDepth > 8 {
					shift := bitDepth
					if shift > 24 {
						shift = 24
					}
					tmp <<= shift - 8
				}
				grid.Set(x, y, tmp)
			default:
				grid.Set(x, y, 0)
			}
		}
	}

	if len(needDelta) == 0 {
		return
	}

	var wp *WpHeader
	if p.DPred == PredictorSelfCorrecting {
		wp = p.WpHeader
	}
	st := &PredictorState{}
	st.Reset(uint32(grid.Width), nil, wp)

	idx := 0
outer:
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			props := st.NewProperties()
			sample := grid.At(x, y)
			if needDelta[idx][0] == x && needDelta[idx][1] == y {
				diff := props.Predict(p.DPred)
				sample = int32(int64(sample) + diff)
				grid.Set(x, y, sample)
				idx++
				if idx >= len(needDelta) {
					break outer
				}
			}
			props.Record(sample)
		}
	}
}

// Squeeze is the squeeze transform bundle: a sequence of per-step
// parameters (spec.md §4.F "Squeeze").
type Squeeze struct {
	Steps []SqueezeParams
}

// SqueezeParams is one squeeze step.
type SqueezeParams struct {
	Horizontal bool
	InPlace    bool
	BeginC     uint32
	NumC       uint32
}

var squeezeNumStepsDist = bits.U32Dist{Const: [4]uint32{0, 1, 9, 41}, Extra: [4]int{0, 4, 6, 8}}
var squeezeNumCDist = bits.U32Dist{Const: [4]uint32{1, 2, 3, 4}, Extra: [4]int{0, 0, 0, 4}}

// ParseSqueeze reads a Squeeze bundle.
func ParseSqueeze(br *bits.Reader) (Squeeze, error) {
	numSq, err := br.ReadU32(squeezeNumStepsDist)
	if err != nil {
		return Squeeze{}, errors.Wrap(err, "squeeze: num_sq")
	}
	steps := make([]SqueezeParams, numSq)
	for i := range steps {
		horiz, err := br.ReadBool()
		if err != nil {
			return Squeeze{}, errors.Wrapf(err, "squeeze: step %d horizontal", i)
		}
		inPlace, err := br.ReadBool()
		if err != nil {
			return Squeeze{}, errors.Wrapf(err, "squeeze: step %d in_place", i)
		}
		beginC, err := br.ReadU32(channelIndexDist)
		if err != nil {
			return Squeeze{}, errors.Wrapf(err, "squeeze: step %d begin_c", i)
		}
		numC, err := br.ReadU32(squeezeNumCDist)
		if err != nil {
			return Squeeze{}, errors.Wrapf(err, "squeeze: step %d num_c", i)
		}
		steps[i] = SqueezeParams{Horizontal: horiz, InPlace: inPlace, BeginC: beginC, NumC: numC}
	}
	return Squeeze{Steps: steps}, nil
}

// DefaultSqueezeParams synthesizes the implicit step sequence used when no
// steps were explicitly encoded (transform.rs's set_default_params),
// based on the first non-meta channel's dimensions.
func DefaultSqueezeParams(img *Image) []SqueezeParams {
	first := img.NumMetaChannels
	if first >= len(img.Channels) {
		return nil
	}
	w := img.Channels[first].Width
	h := img.Channels[first].Height

	var steps []SqueezeParams
	if len(img.Channels)-first >= 3 {
		next := img.Channels[first+1]
		if next.Width == w && next.Height == h {
			steps = append(steps,
				SqueezeParams{Horizontal: true, InPlace: false, BeginC: uint32(first + 1), NumC: 2},
				SqueezeParams{Horizontal: false, InPlace: false, BeginC: uint32(first + 1), NumC: 2},
			)
		}
	}

	base := SqueezeParams{BeginC: uint32(first), NumC: uint32(len(img.Channels) - first), InPlace: true}
	if h >= w && h > 8 {
		s := base
		s.Horizontal = false
		steps = append(steps, s)
		h = (h + 1) / 2
	}
	for w > 8 || h > 8 {
		if w > 8 {
			s := base
			s.Horizontal = true
			steps = append(steps, s)
			w = (w + 1) / 2
		}
		if h > 8 {
			s := base
			s.Horizontal = false
			steps = append(steps, s)
			h = (h + 1) / 2
		}
	}
	return steps
}

// squeezeHaarForward halves a channel along one axis into an average grid
// (the channel in place) and a residual grid, using the integer Haar-like
// lifting step transform.rs describes structurally (merge/split around an
// inverse_h/inverse_v kernel not present in the retrieval pack); the exact
// per-pixel recipe here is self-derived to be an exact inverse of
// squeezeHaarInverse (spec.md §8 round-trip expectations for reversible
// transforms).
func squeezeHaarForward(avg, residual []int32, parent []int32, n int) {
	avgLen := (n + 1) / 2
	for i := 0; i < avgLen; i++ {
		a := parent[2*i]
		if 2*i+1 >= n {
			// Odd leftover sample: carried into avg untouched, no residual
			// entry (residual has only n/2 slots).
			avg[i] = a
			continue
		}
		b := parent[2*i+1]
		sum := a + b
		diff := a - b
		avg[i] = (sum + 1) >> 1
		residual[i] = diff
	}
}

func squeezeHaarInverse(parent []int32, avg, residual []int32, n int) {
	avgLen := (n + 1) / 2
	for i := 0; i < avgLen; i++ {
		if 2*i+1 >= n {
			parent[2*i] = avg[i]
			continue
		}
		s := avg[i]
		d := residual[i]
		// Inverse of sum=a+b, avg=(sum+1)>>1, diff=a-b: recover sum from
		// avg and diff's parity, matching the forward rounding exactly.
		sum := 2*s - (d & 1)
		a := (sum + d) / 2
		b := sum - a
		parent[2*i] = a
		parent[2*i+1] = b
	}
}

// ApplySqueeze performs one forward squeeze step in place: channel begin_c
// is halved along the chosen axis and a new residual channel is appended
// (or inserted in place, per InPlace), mirroring
// SqueezeParams::transform_channel_info's channel bookkeeping.
func (sp SqueezeParams) ApplySqueeze(img *Image) error {
	begin := int(sp.BeginC)
	end := begin + int(sp.NumC)
	if end > len(img.Channels) {
		return errors.New("modular: InvalidSqueezeParams: begin_c+num_c exceeds channel count")
	}
	residuals := make([]*Grid, sp.NumC)
	for i := 0; i < int(sp.NumC); i++ {
		ch := img.Channels[begin+i]
		if ch.Width == 0 || ch.Height == 0 {
			return errors.New("modular: InvalidSqueezeParams: zero-sized channel")
		}
		if sp.Horizontal {
			halfW := (ch.Width + 1) / 2
			residW := ch.Width / 2
			hshift := ch.HShift
			if hshift >= 0 {
				hshift++
			}
			avg := NewGrid(halfW, ch.Height, hshift, ch.VShift)
			res := NewGrid(residW, ch.Height, hshift, ch.VShift)
			for y := 0; y < ch.Height; y++ {
				row := ch.Data[y*ch.Width : (y+1)*ch.Width]
				squeezeHaarForward(avg.Data[y*halfW:(y+1)*halfW], res.Data[y*residW:(y+1)*residW], row, ch.Width)
			}
			img.Channels[begin+i] = avg
			residuals[i] = res
		} else {
			halfH := (ch.Height + 1) / 2
			residH := ch.Height / 2
			vshift := ch.VShift
			if vshift >= 0 {
				vshift++
			}
			avg := NewGrid(ch.Width, halfH, ch.HShift, vshift)
			res := NewGrid(ch.Width, residH, ch.HShift, vshift)
			col := make([]int32, ch.Height)
			avgCol := make([]int32, halfH)
			resCol := make([]int32, residH)
			for x := 0; x < ch.Width; x++ {
				for y := 0; y < ch.Height; y++ {
					col[y] = ch.Data[y*ch.Width+x]
				}
				squeezeHaarForward(avgCol, resCol, col, ch.Height)
				for y := 0; y < halfH; y++ {
					avg.Data[y*ch.Width+x] = avgCol[y]
				}
				for y := 0; y < residH; y++ {
					res.Data[y*ch.Width+x] = resCol[y]
				}
			}
			img.Channels[begin+i] = avg
			residuals[i] = res
		}
	}

	if sp.InPlace {
		tail := append([]*Grid{}, img.Channels[end:]...)
		img.Channels = append(img.Channels[:end], residuals...)
		img.Channels = append(img.Channels, tail...)
	} else {
		img.Channels = append(img.Channels, residuals...)
	}
	return nil
}

// InverseSqueeze undoes one squeeze step: the residual channels
// (immediately following the averaged channels if in place, or trailing
// the channel vector otherwise) are merged back via squeezeHaarInverse.
func (sp SqueezeParams) InverseSqueeze(img *Image) error {
	begin := int(sp.BeginC)
	numC := int(sp.NumC)
	end := begin + numC

	var residuals []*Grid
	if sp.InPlace {
		if end+numC > len(img.Channels) {
			return errors.New("modular: InvalidSqueezeParams: missing residual channels")
		}
		residuals = append([]*Grid{}, img.Channels[end:end+numC]...)
		img.Channels = append(img.Channels[:end], img.Channels[end+numC:]...)
	} else {
		if len(img.Channels) < numC {
			return errors.New("modular: InvalidSqueezeParams: missing residual channels")
		}
		tailStart := len(img.Channels) - numC
		residuals = append([]*Grid{}, img.Channels[tailStart:]...)
		img.Channels = img.Channels[:tailStart]
	}

	for i := 0; i < numC; i++ {
		avg := img.Channels[begin+i]
		res := residuals[i]
		if sp.Horizontal {
			hshift := avg.HShift
			if hshift >= 1 {
				hshift--
			}
			fullW := avg.Width + res.Width
			full := NewGrid(fullW, avg.Height, hshift, avg.VShift)
			for y := 0; y < avg.Height; y++ {
				squeezeHaarInverse(
					full.Data[y*fullW:(y+1)*fullW],
					avg.Data[y*avg.Width:(y+1)*avg.Width],
					res.Data[y*res.Width:(y+1)*res.Width],
					fullW,
				)
			}
			img.Channels[begin+i] = full
		} else {
			vshift := avg.VShift
			if vshift >= 1 {
				vshift--
			}
			fullH := avg.Height + res.Height
			full := NewGrid(avg.Width, fullH, avg.HShift, vshift)
			col := make([]int32, fullH)
			avgCol := make([]int32, avg.Height)
			resCol := make([]int32, res.Height)
			for x := 0; x < avg.Width; x++ {
				for y := 0; y < avg.Height; y++ {
					avgCol[y] = avg.Data[y*avg.Width+x]
				}
				for y := 0; y < res.Height; y++ {
					resCol[y] = res.Data[y*res.Width+x]
				}
				squeezeHaarInverse(col, avgCol, resCol, fullH)
				for y := 0; y < fullH; y++ {
					full.Data[y*avg.Width+x] = col[y]
				}
			}
			img.Channels[begin+i] = full
		}
	}
	return nil
}
