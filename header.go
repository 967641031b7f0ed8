/*
DESCRIPTION
  header.go parses the JPEG XL image header (spec.md §3 "Image header",
  §4.B bundle conventions): the 16-bit signature, the SizeHeader bundle
  (with its div8 fast path and seven aspect-ratio defaults), and the
  parts of ImageMetadata needed by the rest of this package (bit depth,
  extra-channel table, XYB flag, tone-mapping bounds, and the optional
  15/55/210-entry upsampling weight tables). Field order, guard
  conditions and default expressions are ported from
  original_source/crates/jxl-bitstream/src/header.rs's `Headers`,
  `SizeHeader`, `ImageMetadata`, `ExtraChannelInfo` and `AnimationHeader`
  bundles, which is the literal reference for this file.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package jxl

import "github.com/ausocean/jxl/bits"

// signature is the 16-bit little-endian marker a codestream begins
// with (the two bytes 0xFF 0x0A, read LSB-first as 0x0AFF).
const signature = 0x0AFF

// u32Size is the U32(1+u(9), 1+u(13), 1+u(18), 1+u(30)) coding shared by
// width and height.
var u32Size = bits.U32Dist{Const: [4]uint32{1, 1, 1, 1}, Extra: [4]int{9, 13, 18, 30}}

// SizeHeader carries the canvas dimensions, with the div8 fast path and
// the seven enumerated aspect ratios of spec.md §3.
type SizeHeader struct {
	Width, Height uint32
}

var ratioNumerators = [8][2]uint32{
	{0, 0}, {1, 1}, {12, 10}, {4, 3}, {3, 2}, {16, 9}, {5, 4}, {2, 1},
}

func computeDefaultWidth(ratio uint32, wDiv8, height uint32) uint32 {
	if ratio == 0 {
		return 8 * wDiv8
	}
	n := ratioNumerators[ratio]
	return height * n[0] / n[1]
}

// ParseSizeHeader reads a SizeHeader bundle.
func ParseSizeHeader(br *bits.Reader) (SizeHeader, error) {
	var sh SizeHeader
	div8, err := br.ReadBool()
	if err != nil {
		return sh, wrap(err, "size_header: div8")
	}
	var hDiv8 uint32
	if div8 {
		v, err := br.ReadBits(5)
		if err != nil {
			return sh, wrap(err, "size_header: h_div8")
		}
		hDiv8 = 1 + v
	}
	if !div8 {
		h, err := br.ReadU32(u32Size)
		if err != nil {
			return sh, wrap(err, "size_header: height")
		}
		sh.Height = h
	} else {
		sh.Height = 8 * hDiv8
	}

	ratio, err := br.ReadBits(3)
	if err != nil {
		return sh, wrap(err, "size_header: ratio")
	}
	if int(ratio) >= len(ratioNumerators) {
		return sh, errInvalidEnum("size_header.ratio", ratio)
	}

	var wDiv8 uint32
	if div8 && ratio == 0 {
		v, err := br.ReadBits(5)
		if err != nil {
			return sh, wrap(err, "size_header: w_div8")
		}
		wDiv8 = 1 + v
	}
	if !div8 && ratio == 0 {
		w, err := br.ReadU32(u32Size)
		if err != nil {
			return sh, wrap(err, "size_header: width")
		}
		sh.Width = w
	} else {
		sh.Width = computeDefaultWidth(ratio, wDiv8, sh.Height)
	}
	return sh, nil
}

// ExtraChannelType names one of the extra-channel kinds spec.md §3
// lists in the image header's extra-channel table.
type ExtraChannelType uint8

const (
	ECAlpha ExtraChannelType = iota
	ECDepth
	ECSpotColour
	ECSelectionMask
	ECBlack
	ECCfa
	ECThermal
	ECNonOptional ExtraChannelType = 15
	ECOptional    ExtraChannelType = 16
)

func parseExtraChannelType(v uint32) (ExtraChannelType, bool) {
	switch v {
	case 0, 1, 2, 3, 4, 5, 6:
		return ExtraChannelType(v), true
	case 15:
		return ECNonOptional, true
	case 16:
		return ECOptional, true
	default:
		return 0, false
	}
}

// BitDepth is the integer-or-float sample precision bundle.
type BitDepth struct {
	FloatSample  bool
	BitsPerSample uint32
	ExpBits       uint32
}

func parseBitDepth(br *bits.Reader) (BitDepth, error) {
	var bd BitDepth
	f, err := br.ReadBool()
	if err != nil {
		return bd, wrap(err, "bit_depth: float_sample")
	}
	bd.FloatSample = f
	if !f {
		dist := bits.U32Dist{Const: [4]uint32{8, 10, 12, 1}, Extra: [4]int{0, 0, 0, 6}}
		v, err := br.ReadU32(dist)
		if err != nil {
			return bd, wrap(err, "bit_depth: bits_per_sample")
		}
		bd.BitsPerSample = v
		return bd, nil
	}
	dist := bits.U32Dist{Const: [4]uint32{32, 16, 24, 1}, Extra: [4]int{0, 0, 0, 6}}
	v, err := br.ReadU32(dist)
	if err != nil {
		return bd, wrap(err, "bit_depth: bits_per_sample(float)")
	}
	bd.BitsPerSample = v
	exp, err := br.ReadBits(4)
	if err != nil {
		return bd, wrap(err, "bit_depth: exp_bits")
	}
	bd.ExpBits = 1 + exp
	return bd, nil
}

// ExtraChannelInfo is one entry of the image header's extra-channel
// table (spec.md §3).
type ExtraChannelInfo struct {
	Type            ExtraChannelType
	BitDepth        BitDepth
	DimShift        uint32
	Name            string
	AlphaAssociated bool
	Red, Green, Blue, Solidity float32
	CfaChannel      uint32
}

var dimShiftDist = bits.U32Dist{Const: [4]uint32{0, 3, 4, 1}, Extra: [4]int{0, 0, 0, 3}}
var nameLenDist = bits.U32Dist{Const: [4]uint32{0, 0, 16, 48}, Extra: [4]int{0, 4, 5, 10}}
var cfaChannelDist = bits.U32Dist{Const: [4]uint32{1, 0, 3, 19}, Extra: [4]int{0, 2, 4, 8}}

func parseExtraChannelInfo(br *bits.Reader) (ExtraChannelInfo, error) {
	var ec ExtraChannelInfo
	dAlpha, err := br.ReadBool()
	if err != nil {
		return ec, wrap(err, "extra_channel_info: d_alpha")
	}
	if dAlpha {
		ec.Type = ECAlpha
		return ec, nil
	}
	tyVal, err := br.ReadBits(6)
	if err != nil {
		return ec, wrap(err, "extra_channel_info: ty")
	}
	ty, ok := parseExtraChannelType(tyVal)
	if !ok {
		return ec, errInvalidEnum("extra_channel_info.ty", tyVal)
	}
	ec.Type = ty

	bd, err := parseBitDepth(br)
	if err != nil {
		return ec, err
	}
	ec.BitDepth = bd

	dimShift, err := br.ReadU32(dimShiftDist)
	if err != nil {
		return ec, wrap(err, "extra_channel_info: dim_shift")
	}
	ec.DimShift = dimShift

	nameLen, err := br.ReadU32(nameLenDist)
	if err != nil {
		return ec, wrap(err, "extra_channel_info: name_len")
	}
	name := make([]byte, nameLen)
	for i := range name {
		b, err := br.ReadBits(8)
		if err != nil {
			return ec, wrap(err, "extra_channel_info: name byte")
		}
		name[i] = byte(b)
	}
	ec.Name = string(name)

	if ty == ECAlpha {
		assoc, err := br.ReadBool()
		if err != nil {
			return ec, wrap(err, "extra_channel_info: alpha_associated")
		}
		ec.AlphaAssociated = assoc
	}
	if ty == ECSpotColour {
		for _, dst := range []*float32{&ec.Red, &ec.Green, &ec.Blue, &ec.Solidity} {
			v, err := br.ReadF16AsF32()
			if err != nil {
				return ec, wrap(err, "extra_channel_info: spot colour component")
			}
			*dst = v
		}
	}
	if ty == ECCfa {
		v, err := br.ReadU32(cfaChannelDist)
		if err != nil {
			return ec, wrap(err, "extra_channel_info: cfa_channel")
		}
		ec.CfaChannel = v
	}
	return ec, nil
}

// ToneMapping carries the tone-mapping parameters named in spec.md §3,
// whose invariants (intensity_target>0, 0<=min_nits<=intensity_target,
// linear_below>=0) are checked by ValidateToneMapping.
type ToneMapping struct {
	IntensityTarget float32
	MinNits         float32
	RelativeToMaxDisplay bool
	LinearBelow     float32
}

// ValidateToneMapping checks the invariants spec.md §3 names.
func ValidateToneMapping(t ToneMapping) error {
	if t.IntensityTarget <= 0 {
		return errValidation("tone_mapping.intensity_target must be > 0")
	}
	if t.MinNits < 0 || t.MinNits > t.IntensityTarget {
		return errValidation("tone_mapping.min_nits out of range")
	}
	if t.LinearBelow < 0 {
		return errValidation("tone_mapping.linear_below must be >= 0")
	}
	if t.RelativeToMaxDisplay && t.LinearBelow > 1 {
		return errValidation("tone_mapping.linear_below must be <= 1 when relative to max display")
	}
	return nil
}

// ImageMetadata is the subset of the image header's metadata bundle
// this decoder core consumes.
type ImageMetadata struct {
	Orientation  uint32
	BitDepth     BitDepth
	NumExtra     uint32
	ExtraChannels []ExtraChannelInfo
	XybEncoded   bool
	ToneMapping  ToneMapping
	Up2Weight    [15]float32
	Up4Weight    [55]float32
	Up8Weight    [210]float32
}

var numExtraDist = bits.U32Dist{Const: [4]uint32{0, 1, 2, 1}, Extra: [4]int{0, 0, 4, 12}}

// defaultUp2/4/8Weight return zero-filled placeholders for the
// reference's default upsampling weight tables (spec.md §3's "optional
// upsampling weight tables of sizes 15/55/210"); the exact default
// magnitudes were not present in the retrieval pack. The composer does
// not read these tables: it upsamples with
// features.DefaultUpsampleWeights's approximation instead.
func defaultUp2Weight() (out [15]float32)  { return }
func defaultUp4Weight() (out [55]float32)  { return }
func defaultUp8Weight() (out [210]float32) { return }

// ParseImageMetadata reads the ImageMetadata bundle.
func ParseImageMetadata(br *bits.Reader) (ImageMetadata, error) {
	var m ImageMetadata
	m.Orientation = 1
	m.XybEncoded = true
	m.BitDepth = BitDepth{BitsPerSample: 8}
	m.ToneMapping = ToneMapping{IntensityTarget: 255}

	allDefault, err := br.ReadBool()
	if err != nil {
		return m, wrap(err, "image_metadata: all_default")
	}
	if allDefault {
		return m, nil
	}

	extraFields, err := br.ReadBool()
	if err != nil {
		return m, wrap(err, "image_metadata: extra_fields")
	}
	if extraFields {
		ori, err := br.ReadBits(3)
		if err != nil {
			return m, wrap(err, "image_metadata: orientation")
		}
		m.Orientation = 1 + ori

		haveIntr, err := br.ReadBool()
		if err != nil {
			return m, wrap(err, "image_metadata: have_intr_size")
		}
		if haveIntr {
			if _, err := ParseSizeHeader(br); err != nil {
				return m, err
			}
		}
		havePreview, err := br.ReadBool()
		if err != nil {
			return m, wrap(err, "image_metadata: have_preview")
		}
		if havePreview {
			if err := skipPreviewHeader(br); err != nil {
				return m, err
			}
		}
		haveAnim, err := br.ReadBool()
		if err != nil {
			return m, wrap(err, "image_metadata: have_animation")
		}
		if haveAnim {
			if err := skipAnimationHeader(br); err != nil {
				return m, err
			}
		}
	}

	bd, err := parseBitDepth(br)
	if err != nil {
		return m, err
	}
	m.BitDepth = bd

	if _, err := br.ReadBool(); err != nil { // modular_16bit_buffers
		return m, wrap(err, "image_metadata: modular_16bit_buffers")
	}

	numExtra, err := br.ReadU32(numExtraDist)
	if err != nil {
		return m, wrap(err, "image_metadata: num_extra")
	}
	m.NumExtra = numExtra
	m.ExtraChannels = make([]ExtraChannelInfo, numExtra)
	for i := range m.ExtraChannels {
		ec, err := parseExtraChannelInfo(br)
		if err != nil {
			return m, err
		}
		m.ExtraChannels[i] = ec
	}

	xyb, err := br.ReadBool()
	if err != nil {
		return m, wrap(err, "image_metadata: xyb_encoded")
	}
	m.XybEncoded = xyb

	if err := skipColourEncoding(br); err != nil {
		return m, err
	}

	if extraFields {
		tm, err := parseToneMapping(br)
		if err != nil {
			return m, err
		}
		if err := ValidateToneMapping(tm); err != nil {
			return m, err
		}
		m.ToneMapping = tm
	}

	if err := skipExtensions(br); err != nil {
		return m, err
	}

	defaultM, err := br.ReadBool()
	if err != nil {
		return m, wrap(err, "image_metadata: default_m")
	}
	if !defaultM && xyb {
		if err := skipOpsinInverseMatrix(br); err != nil {
			return m, err
		}
	}
	if defaultM {
		m.Up2Weight = defaultUp2Weight()
		m.Up4Weight = defaultUp4Weight()
		m.Up8Weight = defaultUp8Weight()
		return m, nil
	}

	cwMask, err := br.ReadBits(3)
	if err != nil {
		return m, wrap(err, "image_metadata: cw_mask")
	}
	if cwMask&1 != 0 {
		for i := range m.Up2Weight {
			v, err := br.ReadF16AsF32()
			if err != nil {
				return m, wrap(err, "image_metadata: up2_weight")
			}
			m.Up2Weight[i] = v
		}
	} else {
		m.Up2Weight = defaultUp2Weight()
	}
	if cwMask&2 != 0 {
		for i := range m.Up4Weight {
			v, err := br.ReadF16AsF32()
			if err != nil {
				return m, wrap(err, "image_metadata: up4_weight")
			}
			m.Up4Weight[i] = v
		}
	} else {
		m.Up4Weight = defaultUp4Weight()
	}
	if cwMask&4 != 0 {
		for i := range m.Up8Weight {
			v, err := br.ReadF16AsF32()
			if err != nil {
				return m, wrap(err, "image_metadata: up8_weight")
			}
			m.Up8Weight[i] = v
		}
	} else {
		m.Up8Weight = defaultUp8Weight()
	}
	return m, nil
}

func skipPreviewHeader(br *bits.Reader) error {
	div8, err := br.ReadBool()
	if err != nil {
		return wrap(err, "preview_header: div8")
	}
	hDiv8Dist := bits.U32Dist{Const: [4]uint32{16, 32, 1, 33}, Extra: [4]int{0, 0, 5, 9}}
	hDist := bits.U32Dist{Const: [4]uint32{1, 65, 321, 1345}, Extra: [4]int{6, 8, 10, 12}}
	var height uint32
	if div8 {
		hDiv8, err := br.ReadU32(hDiv8Dist)
		if err != nil {
			return wrap(err, "preview_header: h_div8")
		}
		height = 8 * hDiv8
	} else {
		h, err := br.ReadU32(hDist)
		if err != nil {
			return wrap(err, "preview_header: height")
		}
		height = h
	}
	ratio, err := br.ReadBits(3)
	if err != nil {
		return wrap(err, "preview_header: ratio")
	}
	if div8 {
		if _, err := br.ReadU32(hDiv8Dist); err != nil {
			return wrap(err, "preview_header: w_div8")
		}
	} else {
		if int(ratio) >= len(ratioNumerators) {
			return errInvalidEnum("preview_header.ratio", ratio)
		}
		if _, err := br.ReadU32(hDist); err != nil {
			return wrap(err, "preview_header: width")
		}
	}
	return nil
}

// AnimationHeader is the optional animation bundle (spec.md §3); its
// tps_numerator/tps_denominator drive frame duration interpretation,
// with tps_numerator==0 meaning duration fields are ignored (spec.md
// §8's named boundary behaviour).
type AnimationHeader struct {
	TpsNumerator, TpsDenominator uint32
	NumLoops                    uint32
	HaveTimecodes               bool
}

func skipAnimationHeader(br *bits.Reader) error {
	_, err := parseAnimationHeader(br)
	return err
}

func parseAnimationHeader(br *bits.Reader) (AnimationHeader, error) {
	var a AnimationHeader
	tpsNumDist := bits.U32Dist{Const: [4]uint32{100, 1000, 1, 1}, Extra: [4]int{0, 0, 10, 30}}
	tpsDenDist := bits.U32Dist{Const: [4]uint32{1, 1001, 1, 1}, Extra: [4]int{0, 0, 8, 10}}
	loopsDist := bits.U32Dist{Const: [4]uint32{0, 0, 0, 0}, Extra: [4]int{0, 3, 16, 32}}
	var err error
	if a.TpsNumerator, err = br.ReadU32(tpsNumDist); err != nil {
		return a, wrap(err, "animation_header: tps_numerator")
	}
	if a.TpsDenominator, err = br.ReadU32(tpsDenDist); err != nil {
		return a, wrap(err, "animation_header: tps_denominator")
	}
	if a.NumLoops, err = br.ReadU32(loopsDist); err != nil {
		return a, wrap(err, "animation_header: num_loops")
	}
	if a.HaveTimecodes, err = br.ReadBool(); err != nil {
		return a, wrap(err, "animation_header: have_timecodes")
	}
	return a, nil
}

// skipColourEncoding consumes the colour-encoding bundle without fully
// interpreting it: colour management is an external collaborator
// (spec.md §1 non-goals), so this core only needs to advance the
// cursor past it. A default-all-zero marker keeps the common case (sRGB
// default colour encoding) a single bit.
func skipColourEncoding(br *bits.Reader) error {
	allDefault, err := br.ReadBool()
	if err != nil {
		return wrap(err, "colour_encoding: all_default")
	}
	if allDefault {
		return nil
	}
	// Non-default colour encodings are out of this core's scope
	// (spec.md §1); callers needing exact ICC/enum colour spaces should
	// consult the colour-management collaborator directly. Reading
	// further here without the full enum table risks mis-parsing the
	// remainder of the header, so this is reported as unsupported.
	return errValidation("colour_encoding: non-default colour encodings are not parsed by this core")
}

func parseToneMapping(br *bits.Reader) (ToneMapping, error) {
	t := ToneMapping{IntensityTarget: 255}
	allDefault, err := br.ReadBool()
	if err != nil {
		return t, wrap(err, "tone_mapping: all_default")
	}
	if allDefault {
		return t, nil
	}
	it, err := br.ReadF16AsF32()
	if err != nil {
		return t, wrap(err, "tone_mapping: intensity_target")
	}
	t.IntensityTarget = it
	mn, err := br.ReadF16AsF32()
	if err != nil {
		return t, wrap(err, "tone_mapping: min_nits")
	}
	t.MinNits = mn
	rel, err := br.ReadBool()
	if err != nil {
		return t, wrap(err, "tone_mapping: relative_to_max_display")
	}
	t.RelativeToMaxDisplay = rel
	lb, err := br.ReadF16AsF32()
	if err != nil {
		return t, wrap(err, "tone_mapping: linear_below")
	}
	t.LinearBelow = lb
	return t, nil
}

func skipExtensions(br *bits.Reader) error {
	extensions, err := br.ReadU64()
	if err != nil {
		return wrap(err, "extensions: extensions")
	}
	if extensions == 0 {
		return nil
	}
	n := (extensions + 7) / 8
	for i := uint64(0); i < n; i++ {
		if _, err := br.ReadU64(); err != nil {
			return wrap(err, "extensions: extension_bits")
		}
	}
	return nil
}

func skipOpsinInverseMatrix(br *bits.Reader) error {
	// 9 matrix coefficients + 3 bias values, each F16, when present
	// (spec.md §3 "opsin inverse matrix").
	for i := 0; i < 12; i++ {
		if _, err := br.ReadF16AsF32(); err != nil {
			return wrap(err, "opsin_inverse_matrix")
		}
	}
	return nil
}

// Headers is the full parsed image header: signature, size, metadata.
type Headers struct {
	Size     SizeHeader
	Metadata ImageMetadata
}

// ParseHeaders reads the image header from the start of a codestream.
func ParseHeaders(br *bits.Reader) (Headers, error) {
	var h Headers
	sig, err := br.ReadBits(16)
	if err != nil {
		return h, wrap(err, "headers: signature")
	}
	if sig != signature {
		return h, errValidation("headers: bad signature")
	}
	size, err := ParseSizeHeader(br)
	if err != nil {
		return h, err
	}
	h.Size = size
	meta, err := ParseImageMetadata(br)
	if err != nil {
		return h, err
	}
	h.Metadata = meta
	return h, nil
}
