package modular

import (
	"testing"

	"github.com/ausocean/jxl/entropy"
)

// singleLiteralDistHeader writes one cluster's distribution header as a
// single-symbol (zero-bitstream-cost) distribution whose literal value is
// always 1, using a SplitExponent generous enough that the value is never
// treated as needing extra bits.
func singleLiteralDistHeader(w *bitWriter) {
	w.writeBits(5, 5) // SplitExponent
	w.writeBits(0, 4) // MSBInToken
	w.writeBits(0, 4) // LSBInToken
	w.writeBool(true) // isSingle
	// symbolCountDist selector 0 -> const 1, no extra bits: literal = 1.
	w.writeBits(0, 2)
}

// buildTreeFixture constructs the entropy-coded stream for a 3-node MA
// tree: a root branch (property=1, threshold=UnpackSigned(1)=-1) with two
// identical leaves (ctxID=1, predictor=West, offset=-1, multiplier=2).
// Every context but ctxTreeKind is wired to a single-literal distribution
// so only the kind reads consume stream bits.
func buildTreeFixture() *bitWriter {
	w := &bitWriter{}
	w.writeBool(false) // useANS
	w.writeBool(false) // hasLZ77

	// clusterCountDist: selector 3 -> const 4, extra 6 bits; want 5.
	w.writeBits(3, 2)
	w.writeBits(1, 6)

	// cluster map: identity, context i -> cluster i, for 5 contexts.
	for i := uint32(0); i < numTreeContexts; i++ {
		w.writeBits(i, 8)
	}

	// dist 0 (ctxTreeKind): two-symbol prefix distribution, lengths [1,1].
	w.writeBits(4, 5) // SplitExponent
	w.writeBits(0, 4) // MSBInToken
	w.writeBits(0, 4) // LSBInToken
	w.writeBool(false) // isSingle = false
	// symbolCountDist selector 1 -> const 2, extra 1 bit; want 2 -> extra 0.
	w.writeBits(1, 2)
	w.writeBits(0, 1)
	w.writeBits(1, 5) // length[0] = 1
	w.writeBits(1, 5) // length[1] = 1

	// dists 1-4: property, value, predictor, offset/multiplier.
	for i := 0; i < 4; i++ {
		singleLiteralDistHeader(w)
	}

	// Tree body: root branch (bit 0), then two leaves (bit 1, bit 1).
	w.writeBits(0, 1)
	w.writeBits(1, 1)
	w.writeBits(1, 1)

	return w
}

func TestDecodeTreeThreeNodeShape(t *testing.T) {
	w := buildTreeFixture()
	br := w.reader()

	var dec entropy.Decoder
	if err := dec.Begin(br, numTreeContexts); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	tree, err := DecodeTree(br, &dec)
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	if len(tree.nodes) != 3 {
		t.Fatalf("len(nodes) = %d, want 3", len(tree.nodes))
	}
	if _, trivial := tree.IsTrivial(); trivial {
		t.Fatal("IsTrivial = true for a 3-node tree")
	}

	root := tree.nodes[0]
	if root.kind != maKindBranch {
		t.Fatalf("root.kind = %v, want branch", root.kind)
	}
	if root.property != 1 || root.threshold != -1 {
		t.Fatalf("root = {property:%d threshold:%d}, want {1,-1}", root.property, root.threshold)
	}
	if root.leftIdx != 1 || root.rightIdx != 2 {
		t.Fatalf("root links = {left:%d right:%d}, want {1,2}", root.leftIdx, root.rightIdx)
	}

	for _, idx := range []int32{1, 2} {
		leaf := tree.nodes[idx]
		if leaf.kind != maKindLeaf {
			t.Fatalf("node %d kind = %v, want leaf", idx, leaf.kind)
		}
		if leaf.ctxID != 1 || leaf.predictor != PredictorWest || leaf.offset != -1 || leaf.multiplier != 2 {
			t.Fatalf("leaf %d = %+v, want ctxID=1 predictor=West offset=-1 multiplier=2", idx, leaf)
		}
	}
}

func TestTreeLookupRoutesOnThreshold(t *testing.T) {
	w := buildTreeFixture()
	br := w.reader()
	var dec entropy.Decoder
	if err := dec.Begin(br, numTreeContexts); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	tree, err := DecodeTree(br, &dec)
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}

	st := &PredictorState{}
	st.Reset(4, nil, nil)
	props := st.NewProperties()

	// property 1 is 0 in a freshly reset state, and 0 > threshold (-1),
	// so the lookup routes left (leftIdx).
	got := tree.Lookup(props)
	want := tree.nodes[tree.nodes[0].leftIdx]
	if got != want {
		t.Fatalf("Lookup = %+v, want left leaf %+v", got, want)
	}
}

func TestTreeIsTrivialSingleLeaf(t *testing.T) {
	tree := &Tree{nodes: []MaNode{{
		kind:       maKindLeaf,
		ctxID:      2,
		predictor:  PredictorZero,
		offset:     0,
		multiplier: 1,
	}}}
	leaf, ok := tree.IsTrivial()
	if !ok {
		t.Fatal("IsTrivial = false for single-leaf tree")
	}
	if leaf.ctxID != 2 {
		t.Fatalf("leaf.ctxID = %d, want 2", leaf.ctxID)
	}
}
