package glulx

import "testing"

func TestHeapAllocFreeCoalesce(t *testing.T) {
	grow := func(newEnd uint32) bool { return true }
	h := NewHeap(0x1000, 0x10000, grow)

	a := h.Alloc(16)
	b := h.Alloc(16)
	c := h.Alloc(16)
	if a == 0 || b == 0 || c == 0 {
		t.Fatalf("allocs failed: a=%d b=%d c=%d", a, b, c)
	}
	if b != a+16 || c != b+16 {
		t.Fatalf("allocs not contiguous: a=%d b=%d c=%d", a, b, c)
	}

	if !h.Free(b) {
		t.Fatalf("Free(b) failed")
	}
	if !h.Free(a) {
		t.Fatalf("Free(a) failed")
	}

	beforeExtent := h.Extent()
	d := h.Alloc(32)
	if d != a {
		t.Errorf("Alloc(32) = %d, want %d (coalesced a+b)", d, a)
	}
	if h.Extent() != beforeExtent {
		t.Errorf("Extent grew on a reused alloc: %d -> %d", beforeExtent, h.Extent())
	}
}

func TestHeapFreeAllShrinksToZero(t *testing.T) {
	grow := func(newEnd uint32) bool { return true }
	h := NewHeap(0x2000, 0x10000, grow)
	a := h.Alloc(64)
	if !h.Free(a) {
		t.Fatalf("Free(a) failed")
	}
	if h.Extent() != 0 {
		t.Errorf("Extent = %d, want 0 after freeing everything", h.Extent())
	}
}

func TestHeapAllocFailsPastMaxSize(t *testing.T) {
	grow := func(newEnd uint32) bool { return true }
	h := NewHeap(0, 32, grow)
	if got := h.Alloc(40); got != 0 {
		t.Errorf("Alloc(40) = %d, want 0 (exceeds maxSize)", got)
	}
}

func TestHeapAllocZeroSizeFails(t *testing.T) {
	grow := func(newEnd uint32) bool { return true }
	h := NewHeap(0, 0x10000, grow)
	if got := h.Alloc(0); got != 0 {
		t.Errorf("Alloc(0) = %d, want 0", got)
	}
}

func TestHeapSaveLoadRoundTrip(t *testing.T) {
	grow := func(newEnd uint32) bool { return true }
	h := NewHeap(0x1000, 0x10000, grow)
	h.Alloc(16) // a
	b := h.Alloc(16)
	h.Alloc(16) // c
	if !h.Free(b) {
		t.Fatalf("Free(b) failed")
	}

	saved := h.Save()
	loaded, err := LoadHeap(saved, 0x10000, grow)
	if err != nil {
		t.Fatalf("LoadHeap: %v", err)
	}
	if loaded.HeapStart() != h.HeapStart() || loaded.Extent() != h.Extent() {
		t.Errorf("loaded heap = {start:%d extent:%d}, want {start:%d extent:%d}",
			loaded.HeapStart(), loaded.Extent(), h.HeapStart(), h.Extent())
	}
	// The gap left by freeing b should reopen as free space on the
	// reconstructed heap, reused by the next allocation of the same size.
	if got := loaded.Alloc(16); got != b {
		t.Errorf("Alloc after load = %d, want reused gap at %d", got, b)
	}
}

func TestHeapShrinkToFitPullsBackEndMem(t *testing.T) {
	var curEnd uint32
	grow := func(newEnd uint32) bool { curEnd = newEnd; return true }
	h := NewHeap(0, 0x10000, grow)
	h.Alloc(100)
	b := h.Alloc(100)
	h.Free(b) // trailing block: extent shrinks back to 100, but curEnd stays 200
	before := curEnd

	h.ShrinkToFit(before)
	if curEnd >= before {
		t.Errorf("ShrinkToFit left curEnd = %d, want < %d", curEnd, before)
	}
	if curEnd != h.HeapStart()+h.Extent() {
		t.Errorf("curEnd = %d, want to match heap top %d", curEnd, h.HeapStart()+h.Extent())
	}
}
