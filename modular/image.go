/*
DESCRIPTION
  image.go is the Modular channel-lattice data model (spec.md §3 "Modular
  channel" / §9 "Channel storage"): an owned, explicit vector of typed
  grids rather than a pointer graph, so that palette (which removes
  channels) and squeeze (which appends residual channels) can mutate the
  vector in place. Grounded on the shape of
  crates/jxl-modular/src/image.rs in original_source, adapted from its
  Rust CutGrid borrowing scheme into owned Go slices.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package modular

import (
	"github.com/ausocean/jxl/bits"
	"github.com/ausocean/jxl/entropy"
)

// Grid is one Modular channel's sample storage: a dense width×height
// array of signed 32-bit values (the widest sample precision the format
// needs before dequantization).
type Grid struct {
	Width, Height int
	HShift, VShift int // negative marks a meta-channel (spec.md §3)
	Data           []int32
}

// NewGrid allocates a zeroed width×height grid.
func NewGrid(width, height, hshift, vshift int) *Grid {
	return &Grid{Width: width, Height: height, HShift: hshift, VShift: vshift, Data: make([]int32, width*height)}
}

// At implements the Channel interface consumed by the predictor.
func (g *Grid) At(x, y int) int32 {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	return g.Data[y*g.Width+x]
}

// Set stores a sample.
func (g *Grid) Set(x, y int, v int32) {
	g.Data[y*g.Width+x] = v
}

// IsMeta reports whether this channel is a meta-channel (palette index or
// squeeze residual), per spec.md §3.
func (g *Grid) IsMeta() bool {
	return g.HShift < 0 || g.VShift < 0
}

// Image is an ordered sequence of channels; the first NumMetaChannels are
// meta-channels (spec.md §3, "A Modular image is an ordered sequence of
// channels; the first nb_meta_channels are meta").
type Image struct {
	Channels        []*Grid
	NumMetaChannels int
}

// DecodeChannel runs the per-sample predict/read/record loop for one
// channel using the given MA tree and entropy stream, filling grid
// in raster order. prevChannelsRev lists already-decoded same-shape
// channels (closest first) for cross-channel MA properties.
func DecodeChannel(br *bits.Reader, grid *Grid, tree *Tree, dec *entropy.Decoder, prevChannelsRev []Channel) error {
	var wp *WpHeader
	if usesSelfCorrecting(tree) {
		h := DefaultWpHeader
		wp = &h
	}

	st := &PredictorState{}
	st.Reset(uint32(grid.Width), prevChannelsRev, wp)

	// Hyper-fast path (spec.md §4.E path 1): single leaf, Zero predictor,
	// single-symbol cluster -- every sample is the same constant.
	if leaf, ok := tree.IsTrivial(); ok && leaf.predictor == PredictorZero && leaf.offset == 0 && leaf.multiplier == 1 {
		if v, single := dec.SingleToken(int(leaf.ctxID)); single {
			lit := entropy.UnpackSigned(v)
			for i := range grid.Data {
				grid.Data[i] = lit
			}
			return nil
		}
	}

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			props := st.NewProperties()
			n := tree.Lookup(props)
			pred := props.Predict(n.predictor)

			tok, err := dec.ReadVarintClustered(br, int(n.ctxID))
			if err != nil {
				return err
			}
			residual := entropy.UnpackSigned(tok)
			sample := int32(int64(residual)*int64(n.multiplier) + int64(n.offset) + pred)
			props.Record(sample)
			grid.Set(x, y, sample)
		}
	}
	return nil
}

// usesSelfCorrecting reports whether any leaf of tree selects predictor 6,
// in which case the self-correcting error memory must be maintained even
// though other leaves may be visited too.
func usesSelfCorrecting(tree *Tree) bool {
	for _, n := range tree.nodes {
		if n.kind == maKindLeaf && n.predictor == PredictorSelfCorrecting {
			return true
		}
	}
	return false
}
