package entropy

import "testing"

// TestAnsTableUniformRoundTrip builds a table whose single symbol owns all
// 4096 slots and checks that reading one symbol
// then finalizing succeeds when the stream is exactly long enough: this is
// the ANS-finalize testable property from spec.md §8 ("a correctly
// terminated stream's state returns to canonical value").
func TestAnsTableUniformRoundTrip(t *testing.T) {
	// A single symbol owning every slot: reading it from an initial state
	// of exactly ansLowerBound reproduces ansLowerBound with no
	// renormalization read, so finalize should succeed needing no further
	// input bytes.
	freqs := []uint32{ansTableSize}
	table, err := newAnsTable(freqs)
	if err != nil {
		t.Fatalf("newAnsTable: %v", err)
	}

	w := &bitWriter{}
	w.writeBits(ansLowerBound, 32)
	br := w.reader()

	var s ansState
	if err := s.begin(br); err != nil {
		t.Fatalf("begin: %v", err)
	}
	sym, err := s.readSymbol(br, table)
	if err != nil {
		t.Fatalf("readSymbol: %v", err)
	}
	if sym != 0 {
		t.Fatalf("readSymbol = %d, want 0 (slot 0 belongs to the first symbol)", sym)
	}
	if err := s.finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
}

func TestAnsTableRejectsBadSum(t *testing.T) {
	if _, err := newAnsTable([]uint32{1, 2, 3}); err == nil {
		t.Fatal("newAnsTable: expected error for frequencies not summing to table size")
	}
}
