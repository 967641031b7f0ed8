package jxl

import "testing"

func tinyModularFrameHeader() FrameHeader {
	return FrameHeader{
		Encoding:       EncodingModular,
		Upsampling:     1,
		GroupSizeShift: 1,
		Width:          8,
		Height:         8,
		Passes:         Passes{NumPasses: 1},
	}
}

func TestBuildEntryKindsModularSingleGroup(t *testing.T) {
	entries := buildEntryKinds(tinyModularFrameHeader())
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3 (LfGlobal + 1 LfGroup + 1 GroupPass, no HfGlobal for Modular)", len(entries))
	}
	if entries[0].Kind != TocLfGlobal {
		t.Fatalf("entries[0].Kind = %v, want TocLfGlobal", entries[0].Kind)
	}
	if entries[1].Kind != TocLfGroup {
		t.Fatalf("entries[1].Kind = %v, want TocLfGroup", entries[1].Kind)
	}
	if entries[2].Kind != TocGroupPass {
		t.Fatalf("entries[2].Kind = %v, want TocGroupPass", entries[2].Kind)
	}
}

func TestBuildEntryKindsVarDctIncludesHfGlobal(t *testing.T) {
	fh := tinyModularFrameHeader()
	fh.Encoding = EncodingVarDct
	entries := buildEntryKinds(fh)
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4 (LfGlobal + LfGroup + HfGlobal + GroupPass)", len(entries))
	}
	if entries[2].Kind != TocHfGlobal {
		t.Fatalf("entries[2].Kind = %v, want TocHfGlobal", entries[2].Kind)
	}
}

func TestParseTocSequentialThreeSections(t *testing.T) {
	fh := tinyModularFrameHeader()
	w := &bitWriter{}
	w.writeBool(false) // permuted = false
	w.writeBits(0, 7)  // zero padding to the byte boundary before the sizes
	// three sizes, each sel=0 (10 extra bits)
	w.writeBits(0, 2)
	w.writeBits(5, 10)
	w.writeBits(0, 2)
	w.writeBits(7, 10)
	w.writeBits(0, 2)
	w.writeBits(9, 10)

	toc, err := ParseToc(w.reader(), fh)
	if err != nil {
		t.Fatalf("ParseToc: %v", err)
	}
	if len(toc.Groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(toc.Groups))
	}
	wantSizes := []uint32{5, 7, 9}
	for i, g := range toc.Groups {
		if g.Size != wantSizes[i] {
			t.Fatalf("groups[%d].Size = %d, want %d", i, g.Size, wantSizes[i])
		}
	}
	if toc.Groups[1].Offset != toc.Groups[0].Offset+uint64(toc.Groups[0].Size)*8 {
		t.Fatalf("groups[1].Offset = %d, want %d", toc.Groups[1].Offset, toc.Groups[0].Offset+uint64(toc.Groups[0].Size)*8)
	}
}

func TestTocIsSingleEntry(t *testing.T) {
	toc := Toc{Groups: []TocGroup{{Kind: TocLfGlobal}}}
	if !toc.IsSingleEntry() {
		t.Fatal("expected a one-group TOC to report IsSingleEntry")
	}
	toc.Groups = append(toc.Groups, TocGroup{Kind: TocLfGroup})
	if toc.IsSingleEntry() {
		t.Fatal("expected a two-group TOC to not report IsSingleEntry")
	}
}
