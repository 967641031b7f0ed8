/*
DESCRIPTION
  hybriduint.go implements the hybrid unsigned integer encoding used to turn
  a small entropy-coded token into an arbitrary-precision magnitude, and the
  signed/unsigned remapping used for modular residuals and VarDCT
  coefficients (spec.md §4.C and §4.E).

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

// HybridUintConfig names how a token below (1<<SplitExponent) is taken
// literally, while larger tokens carry an implicit leading bit plus
// MSBInToken explicit high bits and LSBInToken explicit low bits, with the
// remaining magnitude read as raw bits from the bitstream. This is the
// "log2(numerator) sub-alphabet of 16 tokens" scheme described in spec.md
// §4.C; the split/msb/lsb parameterisation is derived from that prose (the
// original_source retrieval pack did not include the entropy-coding crate),
// so exact wire-compatibility with a reference encoder is not claimed --
// internal consistency is instead verified by the round-trip test in
// hybriduint_test.go.
type HybridUintConfig struct {
	SplitExponent uint32
	MSBInToken    uint32
	LSBInToken    uint32
}

// DefaultHybridUintConfig is used for clusters that don't specify their own
// distribution parameters (symbol alphabet doubling as token value).
var DefaultHybridUintConfig = HybridUintConfig{SplitExponent: 4, MSBInToken: 2, LSBInToken: 0}

// Decode expands a raw token (as produced by an entropy-coded symbol read)
// into the full unsigned magnitude it represents, reading any needed extra
// raw bits from br.
func (c HybridUintConfig) Decode(br *bits.Reader, token uint32) (uint32, error) {
	split := uint32(1) << c.SplitExponent
	if token < split {
		return token, nil
	}
	nBitsShift := c.MSBInToken + c.LSBInToken
	rest := token - split
	extraBits := c.SplitExponent - nBitsShift + (rest >> nBitsShift)
	if extraBits > 32 {
		return 0, errors.Errorf("hybriduint: implausible extra bit count %d", extraBits)
	}
	lsb := rest & ((1 << c.LSBInToken) - 1)
	msb := (rest >> c.LSBInToken) & ((1 << c.MSBInToken) - 1)
	raw, err := br.ReadBits(int(extraBits))
	if err != nil {
		return 0, errors.Wrap(err, "hybriduint: raw extension bits")
	}
	leading := uint32(1) << c.MSBInToken
	return (((leading | msb) << (c.LSBInToken + extraBits)) | (raw << c.LSBInToken) | lsb), nil
}

// UnpackSigned maps an unsigned value produced by Decode to its signed
// counterpart: even values count up from zero, odd values count down, per
// spec.md §4.C ("n/2 if even, -(n+1)/2 otherwise").
func UnpackSigned(n uint32) int32 {
	if n%2 == 0 {
		return int32(n / 2)
	}
	return -int32((n + 1) / 2)
}

// PackSigned is the inverse of UnpackSigned, used by tests to build encoded
// fixtures and by the optional reference serializer (spec.md §8 round-trip
// property).
func PackSigned(v int32) uint32 {
	if v >= 0 {
		return uint32(v) * 2
	}
	return uint32(-v)*2 - 1
}
