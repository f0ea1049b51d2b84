package core

import "testing"

func TestRNGReplaysAfterReset(t *testing.T) {
	r := NewRNG(42)
	first := make([]int, 16)
	for i := range first {
		first[i] = r.IntN(100)
	}
	r.Reset()
	for i, want := range first {
		if got := r.IntN(100); got != want {
			t.Fatalf("draw %d after reset = %d, want %d", i, got, want)
		}
	}
	if r.IntN(0) != 0 || r.IntN(-3) != 0 {
		t.Fatal("non-positive bounds should yield 0")
	}
}
