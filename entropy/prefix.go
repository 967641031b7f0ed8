/*
DESCRIPTION
  prefix.go implements canonical-prefix (Huffman) decoding, the other half
  of the entropy hybrid. The decode tree shape is grounded on the Huffman
  node tree built by github.com/jrm-1535/jpeg's buildTree (segment.go):
  a binary tree of hcnode-style nodes walked one bit at a time, rather than
  a bit-parallel lookup table, since code lengths here are bounded but
  table size is not known up front.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package entropy

import (
	"sort"

	"github.com/ausocean/jxl/bits"
	"github.com/pkg/errors"
)

// prefixNode is one node of a canonical-prefix decode tree; leaves carry a
// symbol, internal nodes carry left (bit 0) and right (bit 1) children.
type prefixNode struct {
	left, right *prefixNode
	symbol      uint16
	leaf        bool
}

// prefixTable is a decode-ready canonical prefix code.
type prefixTable struct {
	root *prefixNode
}

// newPrefixTable builds a canonical-prefix decode tree from per-symbol code
// lengths (0 meaning the symbol is unused), assigning codes in order of
// increasing length then increasing symbol index, per the standard
// canonical-Huffman construction.
func newPrefixTable(lengths []uint8) (*prefixTable, error) {
	type entry struct {
		symbol int
		length uint8
	}
	var entries []entry
	for sym, l := range lengths {
		if l > 0 {
			entries = append(entries, entry{sym, l})
		}
	}
	if len(entries) == 0 {
		return nil, errors.New("prefix: no symbols with non-zero code length")
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].length != entries[j].length {
			return entries[i].length < entries[j].length
		}
		return entries[i].symbol < entries[j].symbol
	})

	root := &prefixNode{}
	code := 0
	prevLen := entries[0].length
	for _, e := range entries {
		code <<= uint(e.length - prevLen)
		prevLen = e.length
		n := root
		for b := int(e.length) - 1; b >= 0; b-- {
			bit := (code >> uint(b)) & 1
			var next **prefixNode
			if bit == 0 {
				next = &n.left
			} else {
				next = &n.right
			}
			if *next == nil {
				*next = &prefixNode{}
			}
			n = *next
		}
		if n.leaf {
			return nil, errors.Errorf("prefix: duplicate code for symbol %d", e.symbol)
		}
		n.leaf = true
		n.symbol = uint16(e.symbol)
		code++
	}
	return &prefixTable{root: root}, nil
}

// readSymbol walks the tree one LSB-first bit at a time, matching the
// bitstream's LSB-first convention (bits.Reader.ReadBits(1) per step).
func (t *prefixTable) readSymbol(br *bits.Reader) (uint32, error) {
	n := t.root
	if n.leaf {
		return uint32(n.symbol), nil
	}
	for {
		b, err := br.ReadBits(1)
		if err != nil {
			return 0, errors.Wrap(err, "prefix: reading code bit")
		}
		if b == 0 {
			n = n.left
		} else {
			n = n.right
		}
		if n == nil {
			return 0, errors.New("prefix: invalid code, fell off tree")
		}
		if n.leaf {
			return uint32(n.symbol), nil
		}
	}
}
