/*
DESCRIPTION
  decoder.go ties the cluster mapping, per-cluster distributions (ANS or
  prefix) and optional LZ77 copy mode into the single logical entropy
  stream described in spec.md §4.C. This is the component every substream
  (MA tree, modular residuals, VarDCT coefficients) reads its
  variable-length integers from. There is no RLE run mode: the stream
  header has no RLE field and nothing starts a run, so the per-context
  repeat counters stay at zero.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

// Package entropy implements the prefix/ANS entropy hybrid used by every
// substream of the JPEG XL codestream, including its optional LZ77 copy
// mode and the cluster mapping that lets many contexts share one
// distribution. It has no RLE run mode.
package entropy

import (
	"github.com/ausocean/jxl/bits"
	"github.com/pkg/errors"
)

const maxClusters = 64

// distribution is one cluster's decode-side symbol source: exactly one of
// the three fields is active.
type distribution struct {
	single *uint32 // hyper-fast path: always this literal value, zero bits read
	ans    *ansTable
	prefix *prefixTable
	cfg    HybridUintConfig
}

// lz77Config describes the optional LZ77 copy mode: a token at or above
// minSymbol is a copy whose length is token-minSymbol expanded through the
// same cluster's hybrid-uint config, plus lengthBase, with the paired
// distance read from the dedicated distance cluster (the last entry in
// Decoder.dists).
type lz77Config struct {
	minSymbol      uint32
	lengthBase     uint32
	distMultiplier uint32
	distCluster    int
}

// Decoder is the entropy stream described in spec.md §4.C.
type Decoder struct {
	clusterMap []uint8 // context id -> cluster id
	dists      []distribution
	ans        ansState
	useANS     bool
	lz77       *lz77Config

	// repeatCount and lastValue are indexed by context: while a context's
	// repeatCount is above zero, ReadVarintClustered returns its lastValue
	// without consuming the stream. Nothing sets repeatCount above zero.
	repeatCount []uint32
	lastValue   []uint32
}

// Token is the result of a read in LZ77-aware contexts: either a literal
// value or a back-reference the caller must resolve against its own
// history window (entropy.Decoder does not own the decoded-sample window,
// since that window differs per substream: Modular pixels, VarDCT
// coefficients, and so on).
type Token struct {
	IsCopy   bool
	Value    uint32
	Length   uint32
	Distance uint32
}

// Begin reads the entropy stream header: whether distributions are ANS or
// prefix coded, the optional LZ77 configuration, the cluster mapping for
// numContexts contexts, and each cluster's distribution table.
func (d *Decoder) Begin(br *bits.Reader, numContexts int) error {
	useANS, err := br.ReadBool()
	if err != nil {
		return wrapf(err, "entropy: reading coding mode flag")
	}
	d.useANS = useANS

	hasLZ77, err := br.ReadBool()
	if err != nil {
		return wrapf(err, "entropy: reading lz77 flag")
	}

	numClusters, err := br.ReadU32(clusterCountDist)
	if err != nil {
		return wrapf(err, "entropy: reading cluster count")
	}
	if numClusters == 0 || numClusters > maxClusters {
		return errors.Errorf("entropy: invalid cluster count %d", numClusters)
	}

	d.clusterMap = make([]uint8, numContexts)
	if numClusters == 1 {
		// All contexts collapse onto cluster 0; nothing further to read.
	} else {
		for i := range d.clusterMap {
			c, err := br.ReadBits(8)
			if err != nil {
				return wrapf(err, "entropy: reading cluster map entry %d", i)
			}
			if c >= numClusters {
				return errors.Errorf("entropy: cluster map entry %d out of range", i)
			}
			d.clusterMap[i] = uint8(c)
		}
	}

	distClusters := int(numClusters)
	if hasLZ77 {
		lz := &lz77Config{distCluster: distClusters}
		minSym, err := br.ReadU32(lz77MinSymbolDist)
		if err != nil {
			return wrapf(err, "entropy: reading lz77 min symbol")
		}
		lengthBase, err := br.ReadU32(lz77LengthBaseDist)
		if err != nil {
			return wrapf(err, "entropy: reading lz77 length base")
		}
		distMul, err := br.ReadU32(lz77DistMultiplierDist)
		if err != nil {
			return wrapf(err, "entropy: reading lz77 distance multiplier")
		}
		lz.minSymbol = minSym
		lz.lengthBase = lengthBase
		lz.distMultiplier = distMul
		d.lz77 = lz
		distClusters++ // reserve one extra cluster for the distance alphabet
	}

	d.dists = make([]distribution, distClusters)
	for i := range d.dists {
		dist, err := d.readDistribution(br)
		if err != nil {
			return wrapf(err, "entropy: reading distribution for cluster %d", i)
		}
		d.dists[i] = dist
	}

	if d.useANS {
		if err := d.ans.begin(br); err != nil {
			return err
		}
	}

	d.repeatCount = make([]uint32, len(d.clusterMap))
	d.lastValue = make([]uint32, len(d.clusterMap))
	return nil
}

// readDistribution parses one cluster's distribution header: a hybrid-uint
// config, then either an ANS frequency table or a prefix code-length table,
// with a single-symbol fast path recognised in both cases.
func (d *Decoder) readDistribution(br *bits.Reader) (distribution, error) {
	cfg := HybridUintConfig{}
	var err error
	var v uint32
	if v, err = br.ReadBits(5); err != nil {
		return distribution{}, err
	}
	cfg.SplitExponent = v & 0x1f
	if v, err = br.ReadBits(4); err != nil {
		return distribution{}, err
	}
	cfg.MSBInToken = v & 0xf
	if v, err = br.ReadBits(4); err != nil {
		return distribution{}, err
	}
	cfg.LSBInToken = v & 0xf

	isSingle, err := br.ReadBool()
	if err != nil {
		return distribution{}, err
	}
	if isSingle {
		sym, err := br.ReadU32(symbolCountDist)
		if err != nil {
			return distribution{}, err
		}
		lit := sym
		return distribution{single: &lit, cfg: cfg}, nil
	}

	numSymbols, err := br.ReadU32(symbolCountDist)
	if err != nil {
		return distribution{}, err
	}
	if numSymbols == 0 {
		return distribution{}, errors.New("entropy: zero-symbol distribution")
	}

	if d.useANS {
		freqs := make([]uint32, numSymbols)
		var sum uint32
		for i := range freqs {
			f, err := br.ReadU32(ansFreqDist)
			if err != nil {
				return distribution{}, err
			}
			freqs[i] = f
			sum += f
		}
		if sum != ansTableSize {
			// Normalize deterministically: give the remainder to symbol 0,
			// matching how unused precision is folded into the first
			// symbol in real ANS table encodings.
			if sum > ansTableSize {
				return distribution{}, errors.Errorf("entropy: ANS frequencies overflow table (sum=%d)", sum)
			}
			freqs[0] += ansTableSize - sum
		}
		table, err := newAnsTable(freqs)
		if err != nil {
			return distribution{}, err
		}
		return distribution{ans: table, cfg: cfg}, nil
	}

	lengths := make([]uint8, numSymbols)
	for i := range lengths {
		l, err := br.ReadBits(5)
		if err != nil {
			return distribution{}, err
		}
		lengths[i] = uint8(l)
	}
	table, err := newPrefixTable(lengths)
	if err != nil {
		return distribution{}, err
	}
	return distribution{prefix: table, cfg: cfg}, nil
}

// readRawSymbol reads one entropy-coded symbol from the given cluster,
// independent of hybrid-uint expansion or LZ77/RLE interpretation.
func (d *Decoder) readRawSymbol(br *bits.Reader, dist *distribution) (uint32, error) {
	if dist.single != nil {
		return *dist.single, nil
	}
	if d.useANS {
		return d.ans.readSymbol(br, dist.ans)
	}
	return dist.prefix.readSymbol(br)
}

// SingleToken returns the constant value a cluster always decodes to, with
// no bitstream reads, if that cluster's distribution is a single symbol
// whose hybrid-uint expansion needs no extra bits (spec.md §4.C hyper-fast
// path support, §4.E fast path 1).
func (d *Decoder) SingleToken(cluster int) (uint32, bool) {
	if cluster < 0 || cluster >= len(d.dists) {
		return 0, false
	}
	dist := &d.dists[cluster]
	if dist.single == nil {
		return 0, false
	}
	split := uint32(1) << dist.cfg.SplitExponent
	if *dist.single >= split {
		return 0, false
	}
	return *dist.single, true
}

// ReadVarintClustered reads one variable-length unsigned integer under the
// distribution mapped to context cluster.
func (d *Decoder) ReadVarintClustered(br *bits.Reader, context int) (uint32, error) {
	cluster := int(d.clusterMap[context])

	if d.repeatCount[context] > 0 {
		d.repeatCount[context]--
		return d.lastValue[context], nil
	}

	dist := &d.dists[cluster]
	token, err := d.readRawSymbol(br, dist)
	if err != nil {
		return 0, wrapf(err, "entropy: reading symbol for context %d", context)
	}

	v, err := dist.cfg.Decode(br, token)
	if err != nil {
		return 0, err
	}
	d.lastValue[context] = v
	return v, nil
}

// ReadVarintWithMultiplierClustered is the LZ77-aware read used by the
// Modular predictor loop: it returns either a literal value or a
// (length, distance) back-reference the caller resolves against its own
// window of up to 2^20 recently decoded values.
func (d *Decoder) ReadVarintWithMultiplierClustered(br *bits.Reader, context int) (Token, error) {
	if d.lz77 == nil {
		v, err := d.ReadVarintClustered(br, context)
		return Token{Value: v}, err
	}

	cluster := int(d.clusterMap[context])
	dist := &d.dists[cluster]
	token, err := d.readRawSymbol(br, dist)
	if err != nil {
		return Token{}, wrapf(err, "entropy: reading symbol for context %d", context)
	}

	if token < d.lz77.minSymbol {
		v, err := dist.cfg.Decode(br, token)
		if err != nil {
			return Token{}, err
		}
		d.lastValue[context] = v
		return Token{Value: v}, nil
	}

	lengthToken := token - d.lz77.minSymbol
	length, err := dist.cfg.Decode(br, lengthToken)
	if err != nil {
		return Token{}, wrapf(err, "entropy: lz77 length")
	}
	length += d.lz77.lengthBase

	distDist := &d.dists[d.lz77.distCluster]
	distToken, err := d.readRawSymbol(br, distDist)
	if err != nil {
		return Token{}, wrapf(err, "entropy: lz77 distance symbol")
	}
	distRaw, err := distDist.cfg.Decode(br, distToken)
	if err != nil {
		return Token{}, wrapf(err, "entropy: lz77 distance expansion")
	}
	distance := distRaw*d.lz77.distMultiplier + 1
	const maxWindow = 1 << 20
	if distance > maxWindow {
		return Token{}, errors.Errorf("entropy: lz77 distance %d exceeds window", distance)
	}
	return Token{IsCopy: true, Length: length, Distance: distance}, nil
}

// Finalize verifies the ANS final state, per spec.md §4.C. It is a no-op
// (always succeeds) for prefix-coded streams, which have no running state.
func (d *Decoder) Finalize() error {
	if !d.useANS {
		return nil
	}
	if err := d.ans.finalize(); err != nil {
		return newAnsErr(err)
	}
	return nil
}

func wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
