package jxl

import "testing"

func defaultHeaders() Headers {
	return Headers{
		Size:     SizeHeader{Width: 64, Height: 64},
		Metadata: ImageMetadata{XybEncoded: true},
	}
}

func TestParseFrameHeaderAllDefault(t *testing.T) {
	w := &bitWriter{}
	w.writeBool(true) // all_default

	fh, err := ParseFrameHeader(w.reader(), defaultHeaders())
	if err != nil {
		t.Fatalf("ParseFrameHeader: %v", err)
	}
	if fh.FrameType != FrameRegular {
		t.Fatalf("frame_type = %v, want FrameRegular", fh.FrameType)
	}
	if fh.Encoding != EncodingVarDct {
		t.Fatalf("encoding = %v, want EncodingVarDct", fh.Encoding)
	}
	if fh.Upsampling != 1 {
		t.Fatalf("upsampling = %d, want 1", fh.Upsampling)
	}
	if !fh.IsLast {
		t.Fatal("is_last = false, want true (default)")
	}
	if fh.Width != 64 || fh.Height != 64 {
		t.Fatalf("size = %dx%d, want 64x64 (copied from image header)", fh.Width, fh.Height)
	}
	if !fh.ResetsCanvas {
		t.Fatal("resets_canvas = false, want true for an uncropped replace-mode default frame")
	}
}

func TestParseFrameHeaderMinimalRegularFrame(t *testing.T) {
	w := &bitWriter{}
	w.writeBool(false)  // all_default = false
	w.writeBits(0, 2)   // frame_type = Regular
	w.writeBits(0, 1)   // encoding = VarDct
	w.writeBool(true)   // frame_flags all_default
	w.writeBits(0, 2)   // upsampling selector -> 1
	w.writeBits(0, 3)   // x_qm_scale
	w.writeBits(0, 3)   // b_qm_scale
	w.writeBits(0, 2)   // passes.num_passes selector -> 1
	w.writeBool(false)  // have_crop
	w.writeBits(0, 2)   // blending_info.mode = Replace
	w.writeBits(0, 2)   // duration selector -> 0
	w.writeBool(true)   // is_last
	w.writeBits(0, 2)   // name_len selector -> 0
	w.writeBool(true)   // restoration_filter all_default
	w.writeBits(0, 2)   // extensions selector -> 0

	fh, err := ParseFrameHeader(w.reader(), defaultHeaders())
	if err != nil {
		t.Fatalf("ParseFrameHeader: %v", err)
	}
	if fh.FrameType != FrameRegular {
		t.Fatalf("frame_type = %v, want FrameRegular", fh.FrameType)
	}
	if fh.Upsampling != 1 {
		t.Fatalf("upsampling = %d, want 1", fh.Upsampling)
	}
	if fh.Passes.NumPasses != 1 {
		t.Fatalf("num_passes = %d, want 1", fh.Passes.NumPasses)
	}
	if fh.HaveCrop {
		t.Fatal("have_crop = true, want false")
	}
	if fh.BlendingInfo.Mode != BlendReplace {
		t.Fatalf("blending mode = %v, want BlendReplace", fh.BlendingInfo.Mode)
	}
	if !fh.IsLast {
		t.Fatal("is_last = false, want true")
	}
	if fh.Name != "" {
		t.Fatalf("name = %q, want empty", fh.Name)
	}
	if !fh.ResetsCanvas {
		t.Fatal("resets_canvas = false, want true")
	}
	if fh.SaveBeforeCt {
		t.Fatal("save_before_ct = true, want false for a last, replace-mode regular frame")
	}
}

func TestFrameHeaderGroupGeometry(t *testing.T) {
	fh := FrameHeader{
		Upsampling:     1,
		GroupSizeShift: 1,
		Width:          300,
		Height:         300,
	}
	if got := fh.GroupDim(); got != 256 {
		t.Fatalf("GroupDim() = %d, want 256", got)
	}
	if got := fh.NumGroups(); got != 4 {
		t.Fatalf("NumGroups() = %d, want 4 (a 300x300 canvas needs a 2x2 tiling of 256-sized groups)", got)
	}
	if got := fh.GroupsPerRow(); got != 2 {
		t.Fatalf("GroupsPerRow() = %d, want 2", got)
	}
}

func TestFrameHeaderSampleSizeAppliesUpsampling(t *testing.T) {
	fh := FrameHeader{Upsampling: 2, Width: 100, Height: 50}
	if got := fh.SampleWidth(); got != 50 {
		t.Fatalf("SampleWidth() = %d, want 50", got)
	}
	if got := fh.SampleHeight(); got != 25 {
		t.Fatalf("SampleHeight() = %d, want 25", got)
	}
}
