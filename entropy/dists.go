/*
DESCRIPTION
  dists.go collects the fixed U32Dist shapes used to read the small
  integers embedded in the entropy stream header itself (cluster count,
  LZ77 parameters, symbol counts, ANS frequencies). These precede any
  per-cluster distribution and so cannot themselves be entropy coded; they
  use the same direct/extra-bits U32 coding as every other header field in
  the codestream (spec.md §4.A).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package entropy

import "github.com/ausocean/jxl/bits"

// clusterCountDist bounds the cluster count to maxClusters without wasting
// bits on the common case of a single shared cluster.
var clusterCountDist = bits.U32Dist{
	Const: [4]uint32{1, 2, 3, 4},
	Extra: [4]int{0, 0, 2, 6},
}

// symbolCountDist covers alphabets from a single symbol up to the maximum
// useful prefix/ANS alphabet size.
var symbolCountDist = bits.U32Dist{
	Const: [4]uint32{1, 2, 3, 4},
	Extra: [4]int{0, 1, 4, 12},
}

// ansFreqDist reads one ANS slot-frequency value; frequencies are bounded by
// ansTableSize.
var ansFreqDist = bits.U32Dist{
	Const: [4]uint32{0, 1, 2, 4},
	Extra: [4]int{0, 0, 2, 12},
}

var lz77MinSymbolDist = bits.U32Dist{
	Const: [4]uint32{224, 512, 4096, 8},
	Extra: [4]int{0, 0, 0, 15},
}

var lz77LengthBaseDist = bits.U32Dist{
	Const: [4]uint32{3, 4, 5, 9},
	Extra: [4]int{0, 0, 2, 8},
}

var lz77DistMultiplierDist = bits.U32Dist{
	Const: [4]uint32{0, 1, 2, 4},
	Extra: [4]int{0, 0, 2, 20},
}

// newAnsErr returns a low-level ans.go error unchanged and without a Kind;
// nothing in this module attaches errors.go's KindInvalidAnsStream to it
// (mirrors how h264dec/parse.go lets its field readers return plain
// errors).
func newAnsErr(err error) error {
	return err
}
