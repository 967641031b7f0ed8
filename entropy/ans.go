/*
DESCRIPTION
  ans.go implements the asymmetric-numeral-system table decoder half of the
  prefix/ANS entropy hybrid described in spec.md §4.C. The table uses
  12-bit precision (4096 slots), matching the codestream's declared
  precision; symbols are laid out contiguously per slot range so that a
  slot index alone identifies its owning symbol.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package entropy

import (
	"github.com/ausocean/jxl/bits"
	"github.com/pkg/errors"
)

const (
	ansTableBits = 12
	ansTableSize = 1 << ansTableBits

	// ansLowerBound is both the renormalization floor and the canonical
	// state finalize() checks for: a correctly terminated ANS stream
	// returns to exactly this value once every symbol has been read.
	ansLowerBound uint32 = 1 << 16
)

// ansTable is the decode-side representation of one cluster's frequency
// distribution: a 4096-entry slot-to-symbol map plus each symbol's
// frequency and cumulative start offset.
type ansTable struct {
	slotSymbol []uint16
	freq       []int32
	start      []int32
}

// newAnsTable builds a table from per-symbol frequencies, which must sum to
// exactly ansTableSize.
func newAnsTable(freqs []uint32) (*ansTable, error) {
	var sum uint32
	for _, f := range freqs {
		sum += f
	}
	if sum != ansTableSize {
		return nil, errors.Errorf("ans: frequencies sum to %d, want %d", sum, ansTableSize)
	}
	t := &ansTable{
		slotSymbol: make([]uint16, ansTableSize),
		freq:       make([]int32, len(freqs)),
		start:      make([]int32, len(freqs)),
	}
	var cum int32
	for sym, f := range freqs {
		t.freq[sym] = int32(f)
		t.start[sym] = cum
		for i := int32(0); i < int32(f); i++ {
			t.slotSymbol[cum+i] = uint16(sym)
		}
		cum += int32(f)
	}
	return t, nil
}

// ansState is the shared 32-bit decode state threaded across every cluster
// read in a single entropy stream (all clusters of a stream share one
// state, per spec.md §4.C).
type ansState struct {
	state uint32
}

func (s *ansState) begin(br *bits.Reader) error {
	v, err := br.ReadBits(32)
	if err != nil {
		return errors.Wrap(err, "ans: reading initial state")
	}
	s.state = v
	return nil
}

// readSymbol performs one rANS decode step against t, renormalizing from br
// as needed.
func (s *ansState) readSymbol(br *bits.Reader, t *ansTable) (uint32, error) {
	slot := s.state & (ansTableSize - 1)
	sym := t.slotSymbol[slot]
	freq := t.freq[sym]
	start := t.start[sym]
	s.state = uint32(freq)*(s.state>>ansTableBits) + slot - uint32(start)
	for s.state < ansLowerBound {
		b, err := br.ReadBits(8)
		if err != nil {
			return 0, errors.Wrap(err, "ans: renormalization read")
		}
		s.state = s.state<<8 | b
	}
	return uint32(sym), nil
}

// finalize verifies the ANS state returned to its canonical value, per
// spec.md §4.C ("finalize(): verify ANS final state equals the canonical
// initial value").
func (s *ansState) finalize() error {
	if s.state != ansLowerBound {
		return errors.Errorf("ans: final state 0x%x does not match canonical 0x%x", s.state, ansLowerBound)
	}
	return nil
}
