/*
DESCRIPTION
  matree.go implements the Meta-Adaptive (MA) tree: the per-stream binary
  decision tree described in spec.md §4.D that routes each sample's
  property vector to a leaf naming its predictor, context cluster, offset
  and multiplier. No reference source for this component was available in
  original_source (the retrieval pack's jxl-modular crate only ships
  predictor.rs, image.rs, transform.rs), so the tree's serialized shape is
  derived directly from spec.md §4.D's prose and decoded with the same
  entropy.Decoder + sticky-error field-reading idiom used by the rest of
  this package (mirrors github.com/ausocean/av/codec/h264/h264dec/parse.go
  fieldReader's accumulate-then-check-once style).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package modular

import (
	"github.com/ausocean/jxl/bits"
	"github.com/ausocean/jxl/entropy"
	"github.com/pkg/errors"
)

// maNodeKind distinguishes an internal decision node from a leaf.
type maNodeKind uint8

const (
	maKindBranch maNodeKind = iota
	maKindLeaf
)

// MaNode is one node of the flattened preorder MA tree.
type MaNode struct {
	kind maNodeKind

	// Branch fields.
	property  int32
	threshold int32
	leftIdx   int32 // property[property] > threshold
	rightIdx  int32 // otherwise

	// Leaf fields.
	ctxID      int32
	predictor  Predictor
	offset     int32
	multiplier int32
}

// Tree is a decoded, flattened MA tree ready for per-sample lookup.
type Tree struct {
	nodes []MaNode
}

// the five fixed contexts the preorder tree stream is entropy coded
// under: ctxTreeKind for each node's kind, ctxTreeProperty for a branch's
// property, ctxTreeValue for a branch's threshold, ctxTreePredictor for a
// leaf's context id and predictor, and ctxTreeOffsetMul for a leaf's
// offset and multiplier.
const (
	ctxTreeKind = iota
	ctxTreeProperty
	ctxTreeValue
	ctxTreePredictor
	ctxTreeOffsetMul
	numTreeContexts
)

// DecodeTree parses the preorder node sequence, entropy-coded under
// numTreeContexts fixed clusters, until every opened branch has both
// children or the implicit node budget (1 root + every branch contributes
// two further slots) is exhausted.
func DecodeTree(br *bits.Reader, dec *entropy.Decoder) (*Tree, error) {
	t := &Tree{}
	// toVisit counts nodes still owed by already-emitted branches; the
	// tree always has exactly one root to begin with.
	toVisit := 1
	for toVisit > 0 {
		isLeaf, err := dec.ReadVarintClustered(br, ctxTreeKind)
		if err != nil {
			return nil, errors.Wrap(err, "ma_tree: reading node kind")
		}
		toVisit--
		if isLeaf != 0 {
			ctxRaw, err := dec.ReadVarintClustered(br, ctxTreePredictor)
			if err != nil {
				return nil, errors.Wrap(err, "ma_tree: reading leaf context id")
			}
			predRaw, err := dec.ReadVarintClustered(br, ctxTreePredictor)
			if err != nil {
				return nil, errors.Wrap(err, "ma_tree: reading leaf predictor")
			}
			pred, err := ParsePredictor(predRaw)
			if err != nil {
				return nil, err
			}
			offRaw, err := dec.ReadVarintClustered(br, ctxTreeOffsetMul)
			if err != nil {
				return nil, errors.Wrap(err, "ma_tree: reading leaf offset")
			}
			mulRaw, err := dec.ReadVarintClustered(br, ctxTreeOffsetMul)
			if err != nil {
				return nil, errors.Wrap(err, "ma_tree: reading leaf multiplier")
			}
			t.nodes = append(t.nodes, MaNode{
				kind:       maKindLeaf,
				ctxID:      int32(ctxRaw),
				predictor:  pred,
				offset:     entropy.UnpackSigned(offRaw),
				multiplier: int32(mulRaw) + 1,
			})
			continue
		}

		propRaw, err := dec.ReadVarintClustered(br, ctxTreeProperty)
		if err != nil {
			return nil, errors.Wrap(err, "ma_tree: reading branch property")
		}
		threshRaw, err := dec.ReadVarintClustered(br, ctxTreeValue)
		if err != nil {
			return nil, errors.Wrap(err, "ma_tree: reading branch threshold")
		}
		t.nodes = append(t.nodes, MaNode{
			kind:      maKindBranch,
			property:  int32(propRaw),
			threshold: entropy.UnpackSigned(threshRaw),
			leftIdx:   -1,
			rightIdx:  -1,
		})
		toVisit += 2
	}
	t.link()
	return t, nil
}

// link resolves each branch's left/right child indices from the preorder
// emission order: a branch's left (property > threshold) subtree starts
// immediately after it; its right subtree starts after the entire left
// subtree.
func (t *Tree) link() {
	var assign func(pos int) int
	assign = func(pos int) int {
		n := &t.nodes[pos]
		if n.kind == maKindLeaf {
			return pos + 1
		}
		left := pos + 1
		n.leftIdx = int32(left)
		afterLeft := assign(left)
		n.rightIdx = int32(afterLeft)
		return assign(afterLeft)
	}
	if len(t.nodes) > 0 {
		assign(0)
	}
}

// IsTrivial reports whether the tree is a single leaf, enabling the §4.E
// fast paths (hyper-fast / fast / gradient-fast).
func (t *Tree) IsTrivial() (MaNode, bool) {
	if len(t.nodes) == 1 && t.nodes[0].kind == maKindLeaf {
		return t.nodes[0], true
	}
	return MaNode{}, false
}

// Lookup walks the tree for the given property vector and returns the
// matching leaf.
func (t *Tree) Lookup(props *Properties) MaNode {
	idx := 0
	for {
		n := t.nodes[idx]
		if n.kind == maKindLeaf {
			return n
		}
		if props.Get(int(n.property)) > n.threshold {
			idx = int(n.leftIdx)
		} else {
			idx = int(n.rightIdx)
		}
	}
}
