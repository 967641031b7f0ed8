package modular

import (
	"testing"

	"github.com/ausocean/jxl/entropy"
)

func TestDecodeChannelHyperFastPath(t *testing.T) {
	w := &bitWriter{}
	w.writeBool(false) // useANS
	w.writeBool(false) // hasLZ77
	w.writeBits(0, 2)  // clusterCountDist selector 0 -> numClusters = 1

	w.writeBits(5, 5)  // SplitExponent
	w.writeBits(0, 4)  // MSBInToken
	w.writeBits(0, 4)  // LSBInToken
	w.writeBool(true)  // isSingle
	// symbolCountDist selector 2 -> const 3, extra 4 bits; want literal 6.
	w.writeBits(2, 2)
	w.writeBits(3, 4)

	br := w.reader()
	var dec entropy.Decoder
	if err := dec.Begin(br, 1); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	tree := &Tree{nodes: []MaNode{{
		kind:       maKindLeaf,
		ctxID:      0,
		predictor:  PredictorZero,
		offset:     0,
		multiplier: 1,
	}}}

	grid := NewGrid(3, 2, 0, 0)
	if err := DecodeChannel(br, grid, tree, &dec, nil); err != nil {
		t.Fatalf("DecodeChannel: %v", err)
	}
	want := entropy.UnpackSigned(6) // literal 6 is even -> 3
	for i, v := range grid.Data {
		if v != want {
			t.Fatalf("grid.Data[%d] = %d, want %d", i, v, want)
		}
	}
}

func TestDecodeChannelGenericLoopWithWestPredictor(t *testing.T) {
	w := &bitWriter{}
	w.writeBool(false) // useANS
	w.writeBool(false) // hasLZ77
	w.writeBits(0, 2)  // numClusters = 1

	w.writeBits(4, 5)  // SplitExponent
	w.writeBits(0, 4)  // MSBInToken
	w.writeBits(0, 4)  // LSBInToken
	w.writeBool(false) // isSingle = false
	// symbolCountDist selector 2 -> const 3, extra 4 bits; want numSymbols=3.
	w.writeBits(2, 2)
	w.writeBits(0, 4)
	w.writeBits(1, 5) // length[0] = 1
	w.writeBits(2, 5) // length[1] = 2
	w.writeBits(2, 5) // length[2] = 2

	// Per-pixel residual tokens via canonical codes 0,10,11 for symbols 0,1,2:
	// token 2 (code 11), token 1 (code 10), token 2 (code 11).
	w.writeBits(1, 1)
	w.writeBits(1, 1)
	w.writeBits(1, 1)
	w.writeBits(0, 1)
	w.writeBits(1, 1)
	w.writeBits(1, 1)

	br := w.reader()
	var dec entropy.Decoder
	if err := dec.Begin(br, 1); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	tree := &Tree{nodes: []MaNode{{
		kind:       maKindLeaf,
		ctxID:      0,
		predictor:  PredictorWest,
		offset:     0,
		multiplier: 1,
	}}}

	grid := NewGrid(3, 1, 0, 0)
	if err := DecodeChannel(br, grid, tree, &dec, nil); err != nil {
		t.Fatalf("DecodeChannel: %v", err)
	}

	// residual0=UnpackSigned(2)=1 -> sample0 = 1 (west starts at 0)
	// residual1=UnpackSigned(1)=-1 -> sample1 = sample0 + (-1) = 0
	// residual2=UnpackSigned(2)=1 -> sample2 = sample1 + 1 = 1
	want := []int32{1, 0, 1}
	for i, v := range grid.Data {
		if v != want[i] {
			t.Fatalf("grid.Data[%d] = %d, want %d", i, v, want[i])
		}
	}
}
