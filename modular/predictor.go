/*
DESCRIPTION
  predictor.go implements the Modular sub-codec's per-sample predictor
  engine: the 14 predictor ids, one of which is the self-correcting
  ("weighted") predictor, and the property vector, as described in
  spec.md §4.E. The
  self-correcting predictor's arithmetic (sub-predictor formulas, the
  24-bit DIV_LOOKUP reciprocal table, the error-memory bookkeeping) is
  ported exactly from crates/jxl-modular/src/predictor.rs in
  original_source, translated from Rust idiom (owned grids, Option types)
  into Go's explicit-zero-value and error-return idiom, in the manner of
  the bundle/field-reader style used by
  github.com/ausocean/av/codec/h264/h264dec/parse.go.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

// Package modular implements the JPEG XL Modular sub-codec: the
// meta-adaptive decision tree, the fixed and self-correcting predictors,
// and the channel-lattice image with its RCT/palette/squeeze transforms.
package modular

import (
	"github.com/ausocean/jxl/bits"
	"github.com/pkg/errors"
)

// Predictor names one of the 14 fixed predictor ids from spec.md §4.E.
type Predictor uint8

const (
	PredictorZero Predictor = iota
	PredictorWest
	PredictorNorth
	PredictorAvgWestAndNorth
	PredictorSelect
	PredictorGradient
	PredictorSelfCorrecting
	PredictorNorthEast
	PredictorNorthWest
	PredictorWestWest
	PredictorAvgWestAndNorthWest
	PredictorAvgNorthAndNorthWest
	PredictorAvgNorthAndNorthEast
	PredictorAvgAll
	numPredictors
)

// ParsePredictor validates a decoded predictor id.
func ParsePredictor(v uint32) (Predictor, error) {
	if v >= uint32(numPredictors) {
		return 0, errors.Errorf("modular: invalid predictor id %d", v)
	}
	return Predictor(v), nil
}

// WpHeader parameterizes the self-correcting predictor's sub-predictor
// mixing weights.
type WpHeader struct {
	P1, P2, P3a, P3b, P3c, P3d, P3e uint32
	W0, W1, W2, W3                  uint32
}

// DefaultWpHeader is used when the bitstream declares default_wp=true.
var DefaultWpHeader = WpHeader{
	P1: 16, P2: 10, P3a: 7, P3b: 7, P3c: 7, P3d: 0, P3e: 0,
	W0: 13, W1: 12, W2: 12, W3: 12,
}

// ParseWpHeader reads the WpHeader bundle: a default flag, then (if false)
// seven 5-bit p-coefficients and four 4-bit w-coefficients.
func ParseWpHeader(br *bits.Reader) (WpHeader, error) {
	useDefault, err := br.ReadBool()
	if err != nil {
		return WpHeader{}, errors.Wrap(err, "wp_header: default_wp")
	}
	if useDefault {
		return DefaultWpHeader, nil
	}
	var h WpHeader
	fields := []*uint32{&h.P1, &h.P2, &h.P3a, &h.P3b, &h.P3c, &h.P3d, &h.P3e}
	for i, f := range fields {
		v, err := br.ReadBits(5)
		if err != nil {
			return WpHeader{}, errors.Wrapf(err, "wp_header: p%d", i+1)
		}
		*f = v
	}
	wfields := []*uint32{&h.W0, &h.W1, &h.W2, &h.W3}
	for i, f := range wfields {
		v, err := br.ReadBits(4)
		if err != nil {
			return WpHeader{}, errors.Wrapf(err, "wp_header: w%d", i)
		}
		*f = v
	}
	return h, nil
}

// divLookup24 is DIV_LOOKUP: divLookup24[i] = (1<<24)/i for i in 1..=64,
// precomputed with exact integer division so every implementation agrees
// bit-for-bit (spec.md §9, "Self-correcting predictor precision").
var divLookup24 [65]uint32

func init() {
	for i := 1; i <= 64; i++ {
		divLookup24[i] = uint32((1 << 24) / i)
	}
}

// ilog2 returns floor(log2(v)), or 0 for v == 0 (matching Rust's
// checked_ilog2().unwrap_or(0) and the plain ilog2 used on sum_weights,
// which is always > 0 there).
func ilog2(v uint64) uint {
	if v == 0 {
		return 0
	}
	n := uint(0)
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}

// predictionResult is the self-correcting predictor's per-sample output:
// the 3-bit-scaled prediction, the signed max error across the N/NW/NE/W
// true-error memory (used as property 15), and the four sub-predictor
// values (needed afterwards to update error memory).
type predictionResult struct {
	prediction int64
	maxError   int32
	subpred    [4]int64
}

// selfCorrectingState is the weighted predictor's error memory: one row of
// true errors and per-sub-predictor absolute errors, plus the W/NW/N/NE
// true errors and sub-predictor error sums feeding the next sample.
type selfCorrectingState struct {
	width        uint32
	x, y         uint32
	trueErrRow   []int32
	subpredErr   [][4]uint32
	wp           WpHeader
	trueErrW     int32
	trueErrNW    int32
	trueErrN     int32
	trueErrNE    int32
	subpredNwWw  [4]uint32
	subpredNW    [4]uint32
	subpredNE    [4]uint32
}

func newSelfCorrectingState(width uint32, wp WpHeader) *selfCorrectingState {
	return &selfCorrectingState{
		width:      width,
		trueErrRow: make([]int32, width),
		subpredErr: make([][4]uint32, width),
		wp:         wp,
	}
}

// Channel is the read-only neighbour-sample source a predictor needs from
// an already-decoded channel: either the channel currently being decoded
// (via PredictorState's own row buffers) or an earlier channel in the same
// image with matching shape (property indices 16+).
type Channel interface {
	At(x, y int) int32
}

// PredictorState tracks the running per-channel prediction context: the
// previous two rows, the earlier same-shape channels available for
// cross-channel properties, and (if this channel uses predictor 6) the
// self-correcting error memory.
type PredictorState struct {
	width           uint32
	prevRow         []int32
	currRow         []int32
	prevChannelsRev []Channel
	sc              *selfCorrectingState
	y, x            uint32
	w, n, nw        int32
	prevGrad        int32
}

// Reset begins decoding a new channel of the given width, with
// prevChannelsRev listing already-decoded same-shape channels in reverse
// declaration order (closest first), and wp non-nil iff this channel uses
// the self-correcting predictor.
func (p *PredictorState) Reset(width uint32, prevChannelsRev []Channel, wp *WpHeader) {
	*p = PredictorState{width: width, prevChannelsRev: prevChannelsRev}
	p.prevRow = make([]int32, 0, width)
	p.currRow = make([]int32, 0, width)
	if wp != nil {
		p.sc = newSelfCorrectingState(width, *wp)
	}
}

func (p *PredictorState) nn() int32 {
	if int(p.x) < len(p.currRow) {
		return p.currRow[p.x]
	}
	return p.n
}

func (p *PredictorState) ne() int32 {
	if len(p.prevRow) == 0 || p.x+1 >= p.width {
		return p.n
	}
	return p.prevRow[p.x+1]
}

func (p *PredictorState) nee() int32 {
	if len(p.prevRow) == 0 || p.x+2 >= p.width {
		return p.ne()
	}
	return p.prevRow[p.x+2]
}

func (p *PredictorState) ww() int32 {
	if p.x < 2 {
		return p.w
	}
	return p.currRow[p.x-2]
}

// scPredict computes the self-correcting predictor's prediction and max
// error for the current position, or returns ok=false if this channel
// isn't using predictor 6.
func (p *PredictorState) scPredict() (predictionResult, bool) {
	sc := p.sc
	if sc == nil {
		return predictionResult{}, false
	}
	trueErrW := int64(sc.trueErrW)
	trueErrNW := int64(sc.trueErrNW)
	trueErrN := int64(sc.trueErrN)
	trueErrNE := int64(sc.trueErrNE)

	n3 := int64(p.n) << 3
	nw3 := int64(p.nw) << 3
	ne3 := int64(p.ne()) << 3
	w3 := int64(p.w) << 3
	nn3 := int64(p.nn()) << 3

	subpred := [4]int64{
		w3 + ne3 - n3,
		n3 - (((trueErrW + trueErrN + trueErrNE) * int64(sc.wp.P1)) >> 5),
		w3 - (((trueErrW + trueErrN + trueErrNW) * int64(sc.wp.P2)) >> 5),
		n3 - ((trueErrNW*int64(sc.wp.P3a) +
			trueErrN*int64(sc.wp.P3b) +
			trueErrNE*int64(sc.wp.P3c) +
			(nn3-n3)*int64(sc.wp.P3d) +
			(nw3-w3)*int64(sc.wp.P3e)) >> 5),
	}

	var subpredErrSum [4]uint32
	for i := range subpredErrSum {
		subpredErrSum[i] = sc.subpredNwWw[i] + sc.subpredNW[i] + sc.subpredNE[i]
	}

	wpWeights := [4]uint32{sc.wp.W0, sc.wp.W1, sc.wp.W2, sc.wp.W3}
	var weight [4]uint32
	for i := range weight {
		errSum := subpredErrSum[i]
		shift := ilog2((uint64(errSum) + 1) >> 5)
		weight[i] = 4 + ((wpWeights[i] * divLookup24[(errSum>>shift)+1]) >> shift)
	}

	var sumWeights uint32
	for _, w := range weight {
		sumWeights += w
	}
	logWeight := ilog2(uint64(sumWeights) >> 4)
	for i := range weight {
		weight[i] >>= logWeight
	}
	sumWeights = 0
	for _, w := range weight {
		sumWeights += w
	}

	s := (int64(sumWeights) >> 1) - 1
	for i, sp := range subpred {
		s += sp * int64(weight[i])
	}
	prediction := (s * int64(divLookup24[sumWeights])) >> 24

	if (trueErrN^trueErrW)|(trueErrN^trueErrNW) <= 0 {
		min := n3
		if w3 < min {
			min = w3
		}
		if ne3 < min {
			min = ne3
		}
		max := n3
		if w3 > max {
			max = w3
		}
		if ne3 > max {
			max = ne3
		}
		if prediction < min {
			prediction = min
		} else if prediction > max {
			prediction = max
		}
	}

	maxError := trueErrW
	for _, e := range []int64{trueErrN, trueErrNW, trueErrNE} {
		if abs64(e) > abs64(maxError) {
			maxError = e
		}
	}

	return predictionResult{prediction: prediction, maxError: int32(maxError), subpred: subpred}, true
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// record folds a just-decoded sample into the self-correcting error memory
// and advances the row cursor, mirroring SelfCorrectingPredictor::record.
func (sc *selfCorrectingState) record(pred predictionResult, sample int32) {
	s := int64(sample)
	trueErr := pred.prediction - (s << 3)
	var subpredErr [4]uint32
	for i, sp := range pred.subpred {
		subpredErr[i] = uint32((absDiff64(sp, s<<3) + 3) >> 3)
	}

	sc.trueErrRow[sc.x] = int32(trueErr)
	sc.subpredErr[sc.x] = subpredErr
	sc.x++

	if sc.x >= sc.width {
		sc.y++
		sc.x = 0
		sc.trueErrW = 0
		sc.trueErrN = sc.trueErrRow[0]
		sc.trueErrNW = sc.trueErrN
		sc.subpredNW = sc.subpredErr[0]
		sc.subpredNwWw = sc.subpredNW
		if sc.width <= 1 {
			sc.trueErrNE = sc.trueErrN
			sc.subpredNE = sc.subpredNW
		} else {
			sc.trueErrNE = sc.trueErrRow[1]
			sc.subpredNE = sc.subpredErr[1]
		}
		return
	}

	sc.trueErrW = int32(trueErr)
	sc.trueErrNW = sc.trueErrN
	sc.trueErrN = sc.trueErrNE
	sc.subpredNwWw = sc.subpredNW
	sc.subpredNW = sc.subpredNE
	for i := range sc.subpredNW {
		sc.subpredNW[i] += subpredErr[i]
	}

	if sc.x+1 >= sc.width {
		sc.trueErrNE = sc.trueErrN
		sc.subpredNE = sc.subpredNW
	} else if sc.y != 0 {
		sc.trueErrNE = sc.trueErrRow[sc.x+1]
		sc.subpredNE = sc.subpredErr[sc.x+1]
	}
}

func absDiff64(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}

// Properties is the per-sample property vector plus the predictor state
// needed to apply a fixed predictor or finish a self-correcting one.
type Properties struct {
	state      *PredictorState
	scResult   predictionResult
	haveSc     bool
	propCache  [16]int32
}

// NewProperties computes the self-correcting prediction (if applicable)
// and the property cache for the predictor's current position.
func (p *PredictorState) NewProperties() *Properties {
	scResult, ok := p.scPredict()
	props := &Properties{state: p, scResult: scResult, haveSc: ok}
	maxErr := int32(0)
	if ok {
		maxErr = scResult.maxError
	}
	props.propCache = [16]int32{
		0, 0,
		int32(p.y), int32(p.x),
		absInt32(p.n), absInt32(p.w),
		p.n, p.w,
		p.w - p.prevGrad,
		int32(int64(p.w) + int64(p.n) - int64(p.nw)),
		p.w - p.nw,
		p.nw - p.n,
		p.n - p.ne(),
		p.n - p.nn(),
		p.w - p.ww(),
		maxErr,
	}
	return props
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Predict evaluates the given fixed or self-correcting predictor against
// the current property vector.
func (props *Properties) Predict(pr Predictor) int64 {
	st := props.state
	switch pr {
	case PredictorZero:
		return 0
	case PredictorWest:
		return int64(st.w)
	case PredictorNorth:
		return int64(st.n)
	case PredictorAvgWestAndNorth:
		return (int64(st.w) + int64(st.n)) / 2
	case PredictorSelect:
		n, w, nw := st.n, st.w, st.nw
		if absDiff32(n, nw) < absDiff32(w, nw) {
			return int64(w)
		}
		return int64(n)
	case PredictorGradient:
		n, w, nw := int64(st.n), int64(st.w), int64(st.nw)
		g := n + w - nw
		lo, hi := w, n
		if lo > hi {
			lo, hi = hi, lo
		}
		if g < lo {
			return lo
		}
		if g > hi {
			return hi
		}
		return g
	case PredictorSelfCorrecting:
		if !props.haveSc {
			return 0
		}
		return (props.scResult.prediction + 3) >> 3
	case PredictorNorthEast:
		return int64(st.ne())
	case PredictorNorthWest:
		return int64(st.nw)
	case PredictorWestWest:
		return int64(st.ww())
	case PredictorAvgWestAndNorthWest:
		return (int64(st.w) + int64(st.nw)) / 2
	case PredictorAvgNorthAndNorthWest:
		return (int64(st.n) + int64(st.nw)) / 2
	case PredictorAvgNorthAndNorthEast:
		return (int64(st.n) + int64(st.ne())) / 2
	case PredictorAvgAll:
		n, w := int64(st.n), int64(st.w)
		nn, ww := int64(st.nn()), int64(st.ww())
		nee, ne := int64(st.nee()), int64(st.ne())
		return (6*n - 2*nn + 7*w + ww + nee + 3*ne + 8) / 16
	default:
		return 0
	}
}

func absDiff32(a, b int32) int32 {
	if a > b {
		return a - b
	}
	return b - a
}

// Get returns property index (0..15 cached directly, 16+i·4.. derived from
// previously decoded channel i).
func (props *Properties) Get(property int) int32 {
	if property < 16 {
		return props.propCache[property]
	}
	return props.getExtra(property - 16)
}

func (props *Properties) getExtra(propExtra int) int32 {
	chIdx := propExtra / 4
	propIdx := propExtra % 4
	st := props.state
	if chIdx >= len(st.prevChannelsRev) {
		return 0
	}
	ch := st.prevChannelsRev[chIdx]
	x, y := int(st.x), int(st.y)
	c := ch.At(x, y)
	if propIdx == 0 {
		return absInt32(c)
	}
	if propIdx == 1 {
		return c
	}
	var w, n, nw int64
	switch {
	case x > 0 && y > 0:
		w = int64(ch.At(x-1, y))
		n = int64(ch.At(x, y-1))
		nw = int64(ch.At(x-1, y-1))
	case x > 0:
		w = int64(ch.At(x-1, y))
		n, nw = w, w
	case y > 0:
		n = int64(ch.At(x, y-1))
		w, nw = n, n
	}
	lo, hi := w, n
	if lo > hi {
		lo, hi = hi, lo
	}
	g := n + w - nw
	if g < lo {
		g = lo
	} else if g > hi {
		g = hi
	}
	g32 := int32(g)
	if propIdx == 2 {
		return absDiff32(c, g32)
	}
	return c - g32
}

// Record stores the just-decoded sample and advances the predictor state
// to the next position, updating the self-correcting error memory and row
// buffers.
func (props *Properties) Record(sample int32) {
	st := props.state
	if st.sc != nil && props.haveSc {
		st.sc.record(props.scResult, sample)
	}

	if int(st.x) < len(st.currRow) {
		st.currRow[st.x] = sample
	} else {
		st.currRow = append(st.currRow, sample)
	}
	st.x++

	if st.x >= st.width {
		st.y++
		st.x = 0
		st.prevRow, st.currRow = st.currRow, st.prevRow[:0]
		st.prevGrad = 0
		n := st.prevRow[0]
		st.n, st.w, st.nw = n, n, n
		return
	}

	st.prevGrad = props.propCache[9]
	st.w = sample
	if len(st.prevRow) == 0 {
		st.nw, st.n = sample, sample
	} else {
		st.nw = st.n
		st.n = st.prevRow[st.x]
	}
}
