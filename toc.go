/*
DESCRIPTION
  toc.go parses the per-frame Table of Contents (spec.md §3 "Table of
  contents (TOC)", §6 "TOC on-wire layout") and produces the ordered
  list of (kind, bookmark, size) entries the frame composer iterates.
  The entry-kind set (LfGlobal, LfGroup(i), HfGlobal, PassGroup(pass,
  group)) and the bitstream-order iteration shape are grounded on
  original_source/crates/jxl-frame/src/lib.rs's `Frame::load_cropped`
  (which consumes `TocGroupKind::{LfGlobal,LfGroup,HfGlobal,
  GroupPass}` in exactly this shape) and on `data/mod.rs`'s re-export of
  `toc::{Toc, TocGroup, TocGroupKind}`; the dedicated `toc.rs` file
  defining the on-wire permutation sub-stream and sequential/permuted
  selector was not present in the retrieval pack, so the permutation
  decode and size-list parse below follow spec.md §6's prose directly
  and are flagged self-derived in that regard.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package jxl

import "github.com/ausocean/jxl/bits"

// TocGroupKind names one of the four TOC entry kinds (spec.md §3).
type TocGroupKind int

const (
	TocLfGlobal TocGroupKind = iota
	TocLfGroup
	TocHfGlobal
	TocGroupPass
)

// TocGroup is one decoded TOC entry: its kind, the group/pass indices
// that apply to LfGroup/GroupPass kinds, its bookmark (bit position of
// the start of its section), and its byte size.
type TocGroup struct {
	Kind     TocGroupKind
	LfGroup  uint32
	PassIdx  uint32
	GroupIdx uint32
	Offset   uint64
	Size     uint32
}

// Toc is the parsed table of contents for one frame.
type Toc struct {
	Groups []TocGroup
}

// IsSingleEntry reports whether this frame inlines all substreams in
// one section (spec.md §3, "Single-entry frames inline all
// substreams").
func (t Toc) IsSingleEntry() bool {
	return len(t.Groups) == 1
}

var tocCountDist = bits.U32Dist{Const: [4]uint32{1, 1, 1, 1}, Extra: [4]int{0, 4, 8, 20}}
var tocSizeDist = bits.U32Dist{Const: [4]uint32{0, 1024, 17408, 4211712}, Extra: [4]int{10, 14, 22, 30}}

// buildEntryKinds returns, in bitstream order, the kind (and
// lf-group/pass/group indices where applicable) of every TOC section a
// non-single-entry frame carries: one LfGlobal, NumLfGroups LfGroup
// sections, one HfGlobal (VarDCT only), then NumPasses*NumGroups
// GroupPass sections ordered pass-major.
func buildEntryKinds(fh FrameHeader) []TocGroup {
	entries := []TocGroup{{Kind: TocLfGlobal}}
	for i := uint32(0); i < fh.NumLfGroups(); i++ {
		entries = append(entries, TocGroup{Kind: TocLfGroup, LfGroup: i})
	}
	if fh.Encoding == EncodingVarDct {
		entries = append(entries, TocGroup{Kind: TocHfGlobal})
	}
	numGroups := fh.NumGroups()
	numPasses := fh.Passes.NumPasses
	if numPasses == 0 {
		numPasses = 1
	}
	for p := uint32(0); p < numPasses; p++ {
		for g := uint32(0); g < numGroups; g++ {
			entries = append(entries, TocGroup{Kind: TocGroupPass, PassIdx: p, GroupIdx: g})
		}
	}
	return entries
}

// ParseToc reads the TOC bundle immediately following a frame header
// (spec.md §6): a permuted/sequential selector bit, the section count
// (implied by frame geometry, same as buildEntryKinds), and one
// U32(size) per section; permuted order additionally decodes a
// permutation over the section count before the size list. Offsets are
// resolved to absolute bookmarks by accumulating sizes from the
// zero-padded byte boundary immediately after the TOC itself.
func ParseToc(br *bits.Reader, fh FrameHeader) (Toc, error) {
	kinds := buildEntryKinds(fh)
	n := len(kinds)

	permuted, err := br.ReadBool()
	if err != nil {
		return Toc{}, wrap(err, "toc: permuted")
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if permuted && n > 1 {
		order, err = readTocPermutation(br, n)
		if err != nil {
			return Toc{}, err
		}
	}

	if err := br.ZeroPadToByte(); err != nil {
		return Toc{}, wrap(err, "toc: zero_pad_to_byte before sizes")
	}

	sizes := make([]uint32, n)
	for i := 0; i < n; i++ {
		s, err := br.ReadU32(tocSizeDist)
		if err != nil {
			return Toc{}, wrap(err, "toc: size")
		}
		sizes[order[i]] = s
	}

	if err := br.ZeroPadToByte(); err != nil {
		return Toc{}, wrap(err, "toc: zero_pad_to_byte after sizes")
	}

	bookmark := br.NumReadBits()
	groups := make([]TocGroup, n)
	for i, k := range kinds {
		k.Offset = bookmark
		k.Size = sizes[i]
		groups[i] = k
		bookmark += uint64(sizes[i]) * 8
	}
	return Toc{Groups: groups}, nil
}

// readTocPermutation decodes the explicit section-order permutation
// (spec.md §6, "an additional permutation sub-stream decoded against a
// fixed context"). No literal permutation codec survived retrieval
// filtering; this reads a zero-based Lehmer-code style sequence of
// U32(count)-bounded indices into the remaining unused slots, which is
// self-derived from the spec's prose rather than ported from a
// reference implementation.
func readTocPermutation(br *bits.Reader, n int) ([]int, error) {
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	order := make([]int, n)
	dist := bits.U32Dist{Const: [4]uint32{0, 0, 0, 0}, Extra: [4]int{0, 0, 0, 0}}
	for i := 0; i < n; i++ {
		k := len(remaining)
		bitsNeeded := 0
		for (1 << bitsNeeded) < k {
			bitsNeeded++
		}
		dist.Extra[3] = bitsNeeded
		idx, err := br.ReadU32(dist)
		if err != nil {
			return nil, wrap(err, "toc: permutation index")
		}
		if int(idx) >= k {
			idx = uint32(k - 1)
		}
		order[i] = remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return order, nil
}

// IterBitstreamOrder returns the TOC groups in the order they were
// declared (bitstream order), matching iter_bitstream_order's use in
// the composer's sequential scan.
func (t Toc) IterBitstreamOrder() []TocGroup {
	return t.Groups
}
