/*
DESCRIPTION
  blockmap.go implements the per-LF-group VarDCT block map described in
  spec.md §3: a (bw,bh) grid of 8x8 slots, each Uninit, Occupied (covered
  by a neighbouring transform), or Data(dct_select, hf_mul). Grounded on
  the varblock bookkeeping jxl-frame/src/data/mod.rs performs while
  walking HfMetadata in original_source (the block-map-as-explicit-grid
  shape, rather than a sparse map, mirrors that file's dense
  Vec<TransformType> storage).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package vardct

import "github.com/pkg/errors"

// SlotState distinguishes an undecoded slot from one covered by a
// transform placed at an earlier (raster-order) position, or the single
// slot that starts a transform and carries its data.
type SlotState uint8

const (
	SlotUninit SlotState = iota
	SlotOccupied
	SlotData
)

// Slot is one 8x8 position in a BlockMap.
type Slot struct {
	State  SlotState
	Select TransformType // valid when State == SlotData or SlotOccupied
	HfMul  int32          // valid when State == SlotData
	// OriginX/OriginY locate the SlotData starting this transform, for an
	// Occupied slot; equal to this slot's own coordinates for SlotData.
	OriginX, OriginY int
}

// BlockMap is the bw x bh grid of slots for one LF group, bw = bh =
// group_dim/8 (spec.md §3).
type BlockMap struct {
	W, H  int
	Slots []Slot
}

// NewBlockMap allocates an all-Uninit block map.
func NewBlockMap(w, h int) *BlockMap {
	return &BlockMap{W: w, H: h, Slots: make([]Slot, w*h)}
}

func (m *BlockMap) at(x, y int) *Slot { return &m.Slots[y*m.W+x] }

// Place starts a transform of type t with the given hf_mul at (x,y),
// raster-scanning slot by slot; the top-left slot becomes SlotData and
// every other slot in its (w8,h8) cover becomes SlotOccupied pointing
// back at it. Fails if the cover runs outside the map or over an
// already-occupied slot (spec.md §8's block-map coverage invariant).
func (m *BlockMap) Place(x, y int, t TransformType, hfMul int32) error {
	w8, h8 := t.covers8()
	if x+w8 > m.W || y+h8 > m.H {
		return errors.Errorf("vardct: block map: transform at (%d,%d) size (%d,%d) exceeds bounds (%d,%d)", x, y, w8, h8, m.W, m.H)
	}
	for dy := 0; dy < h8; dy++ {
		for dx := 0; dx < w8; dx++ {
			s := m.at(x+dx, y+dy)
			if s.State != SlotUninit {
				return errors.Errorf("vardct: block map: slot (%d,%d) already occupied", x+dx, y+dy)
			}
		}
	}
	for dy := 0; dy < h8; dy++ {
		for dx := 0; dx < w8; dx++ {
			s := m.at(x+dx, y+dy)
			s.Select = t
			s.OriginX, s.OriginY = x, y
			if dx == 0 && dy == 0 {
				s.State = SlotData
				s.HfMul = hfMul
			} else {
				s.State = SlotOccupied
			}
		}
	}
	return nil
}

// VerifyCoverage is a whole-map pass useful after parsing completes: it
// returns an error if any slot is still SlotUninit. It does not re-check
// per-varblock footprints, which Place already enforces incrementally.
func (m *BlockMap) VerifyCoverage() error {
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.at(x, y).State == SlotUninit {
				return errors.Errorf("vardct: block map: slot (%d,%d) never covered", x, y)
			}
		}
	}
	return nil
}

// DataSlots iterates the slots that start a transform, in raster order.
func (m *BlockMap) DataSlots() []struct {
	X, Y   int
	Select TransformType
	HfMul  int32
} {
	var out []struct {
		X, Y   int
		Select TransformType
		HfMul  int32
	}
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			s := m.at(x, y)
			if s.State == SlotData {
				out = append(out, struct {
					X, Y   int
					Select TransformType
					HfMul  int32
				}{x, y, s.Select, s.HfMul})
			}
		}
	}
	return out
}
