package bits

import "testing"

func TestReadBitsLSBFirst(t *testing.T) {
	// 0x8f, 0xe3 = 1000 1111, 1110 0011 ; LSB-first consumption.
	r := NewReader([]byte{0x8f, 0xe3})

	got, err := r.ReadBits(4)
	if err != nil || got != 0xf {
		t.Fatalf("first nibble: got %x, err %v, want 0xf", got, err)
	}
	got, err = r.ReadBits(4)
	if err != nil || got != 0x8 {
		t.Fatalf("second nibble: got %x, err %v, want 0x8", got, err)
	}
	got, err = r.ReadBits(8)
	if err != nil || got != 0xe3 {
		t.Fatalf("third byte: got %x, err %v, want 0xe3", got, err)
	}
}

func TestZeroPadToByte(t *testing.T) {
	// 0x00 has 8 zero bits; reading 4 bits leaves 4 zero bits to pad.
	r := NewReader([]byte{0x00})
	if _, err := r.ReadBits(4); err != nil {
		t.Fatal(err)
	}
	if err := r.ZeroPadToByte(); err != nil {
		t.Fatalf("ZeroPadToByte on zero padding: %v", err)
	}
	if !r.ByteAligned() {
		t.Fatal("expected byte aligned after pad")
	}

	// 0xf0 has non-zero bits in its high nibble; after reading the low four
	// bits, padding over them must fail.
	r2 := NewReader([]byte{0xf0})
	if _, err := r2.ReadBits(4); err != nil {
		t.Fatal(err)
	}
	if err := r2.ZeroPadToByte(); err == nil {
		t.Fatal("expected error padding over non-zero bits")
	}
}

func TestSkipToBookmark(t *testing.T) {
	r := NewReader([]byte{0xff, 0xff})
	if _, err := r.ReadBits(9); err != nil {
		t.Fatal(err)
	}
	if err := r.SkipToBookmark(3); err != nil {
		t.Fatal(err)
	}
	if r.NumReadBits() != 3 {
		t.Fatalf("got %d, want 3", r.NumReadBits())
	}
	if err := r.SkipToBookmark(100); err == nil {
		t.Fatal("expected error skipping beyond buffer")
	}
}

func TestReadU64Chain(t *testing.T) {
	// selector=3 (11), base 12 bits all 1 (0xfff), continuation flag 0 -> stop.
	// Bits consumed LSB-first: selector bits 1,1 then 12 base bits then a 0 flag bit.
	r := NewReader([]byte{0xff, 0x3f})
	v, err := r.ReadU64()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xfff {
		t.Fatalf("got %d, want %d", v, 0xfff)
	}
}

func TestReadF16AsF32Zero(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00})
	v, err := r.ReadF16AsF32()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Fatalf("got %v, want 0", v)
	}
}
