/*
DESCRIPTION
  lfglobal.go parses the LfGlobal and HfGlobal sub-bundles spec.md
  §4.N step 1 and step 3 name: the restoration-filter/noise/patches/
  splines toggles, LF channel dequantization factors, num_hf_presets
  (the HF block context map itself is supplied by the caller), and the
  CfL base correlations. Field
  presence and the broad shape (a patches/splines/noise enable flag
  each followed by a decoded reference list, then the LF dequantization
  triple, then the quantizer/HF block-context bundle) follow spec.md
  §3's "LfGlobal"/"HfGlobal" prose and the field groupings visible in
  original_source/crates/jxl-frame/src/data/mod.rs's LfGlobal/HfGlobal
  parse bodies; the exact bit-level sub-encoding of the many nested
  enum/array fields those bundles carry (full patch reference geometry,
  raw dequant matrix streams, per-cluster HF preset tables) was not
  reconstructable from the retrieval pack at the fidelity of a
  byte-exact bundle parser, so this file implements a deliberately
  reduced field set sufficient to drive the composer's VarDCT and
  Modular pipelines end to end, flagged here and in DESIGN.md as a
  scope simplification rather than a full wire-conformant parse.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package jxl

import (
	"github.com/ausocean/jxl/bits"
	"github.com/ausocean/jxl/vardct"
)

// LfGlobal is the per-frame data parsed once, before any LF group (spec.md
// §3, §4.N step 1).
type LfGlobal struct {
	PatchesEnabled bool
	SplinesEnabled bool
	NoiseEnabled   bool

	LfUnscaled  vardct.LfUnscaled
	GlobalScale int32
	QuantLF     int32

	BaseCorrelationXRecip float32
	BaseCorrelationBRecip float32
}

var lfUnscaledDist = bits.U32Dist{Const: [4]uint32{0, 0, 0, 0}, Extra: [4]int{16, 16, 16, 16}}
var globalScaleDist = bits.U32Dist{Const: [4]uint32{1, 1, 1, 1}, Extra: [4]int{11, 11, 11, 11}}

// ParseLfGlobal reads the LfGlobal sub-bundle.
func ParseLfGlobal(br *bits.Reader, fh FrameHeader) (LfGlobal, error) {
	var lg LfGlobal
	if fh.Flags.Patches {
		v, err := br.ReadBool()
		if err != nil {
			return lg, wrap(err, "lf_global: patches_enabled")
		}
		lg.PatchesEnabled = v
	}
	if fh.Flags.Splines {
		v, err := br.ReadBool()
		if err != nil {
			return lg, wrap(err, "lf_global: splines_enabled")
		}
		lg.SplinesEnabled = v
	}
	if fh.Flags.Noise {
		v, err := br.ReadBool()
		if err != nil {
			return lg, wrap(err, "lf_global: noise_enabled")
		}
		lg.NoiseEnabled = v
	}

	if fh.Encoding != EncodingVarDct {
		return lg, nil
	}

	yRaw, err := br.ReadU32(lfUnscaledDist)
	if err != nil {
		return lg, wrap(err, "lf_global: m_y_lf_unscaled")
	}
	lg.LfUnscaled.Y = fixed16ToFloat(yRaw)
	xRaw, err := br.ReadU32(lfUnscaledDist)
	if err != nil {
		return lg, wrap(err, "lf_global: m_x_lf_unscaled")
	}
	lg.LfUnscaled.X = fixed16ToFloat(xRaw)
	bRaw, err := br.ReadU32(lfUnscaledDist)
	if err != nil {
		return lg, wrap(err, "lf_global: m_b_lf_unscaled")
	}
	lg.LfUnscaled.B = fixed16ToFloat(bRaw)

	gs, err := br.ReadU32(globalScaleDist)
	if err != nil {
		return lg, wrap(err, "lf_global: global_scale")
	}
	lg.GlobalScale = int32(gs)
	ql, err := br.ReadU32(globalScaleDist)
	if err != nil {
		return lg, wrap(err, "lf_global: quant_lf")
	}
	lg.QuantLF = int32(ql)

	xCorr, err := br.ReadBits(16)
	if err != nil {
		return lg, wrap(err, "lf_global: base_correlation_x")
	}
	lg.BaseCorrelationXRecip = fixed16ToFloat(xCorr)
	bCorr, err := br.ReadBits(16)
	if err != nil {
		return lg, wrap(err, "lf_global: base_correlation_b")
	}
	lg.BaseCorrelationBRecip = fixed16ToFloat(bCorr)

	return lg, nil
}

// fixed16ToFloat reinterprets a 16-bit unsigned field as a signed Q8.8
// fixed-point value, the reduced-precision stand-in this file uses for
// the LF dequantization and CfL base-correlation fields.
func fixed16ToFloat(v uint32) float32 {
	signed := int32(int16(v))
	return float32(signed) / 256
}

// HfGlobal is the per-frame VarDCT quantizer/block-context data parsed
// once before any HF pass group (spec.md §3, §4.N step 3).
type HfGlobal struct {
	NumHfPresets uint32
	BlockContext vardct.HfBlockContext
}

var numHfPresetsDist = bits.U32Dist{Const: [4]uint32{1, 0, 0, 0}, Extra: [4]int{0, 4, 8, 12}}

// ParseHfGlobal reads the HfGlobal sub-bundle. numBlockClusters and
// blockCtxMap are supplied by the caller from a previously-decoded
// cluster-map sub-stream (this reduced parser treats the block context
// map as already resolved rather than re-deriving it from its own
// entropy-coded cluster map, a simplification noted in this file's
// DESCRIPTION).
func ParseHfGlobal(br *bits.Reader, numBlockClusters uint32, blockCtxMap []uint8) (HfGlobal, error) {
	var hg HfGlobal
	presets, err := br.ReadU32(numHfPresetsDist)
	if err != nil {
		return hg, wrap(err, "hf_global: num_hf_presets")
	}
	hg.NumHfPresets = presets
	hg.BlockContext = vardct.HfBlockContext{
		BlockCtxMap:      blockCtxMap,
		NumBlockClusters: numBlockClusters,
	}
	return hg, nil
}
