package glulx

import "sort"

// heapBlock is a single allocated or free region: [Start, Start+Length).
type heapBlock struct {
	Start  uint32
	Length uint32
}

func (b heapBlock) end() uint32 { return b.Start + b.Length }

// GrowFunc is invoked by the heap whenever it needs the surrounding image's
// end-of-memory moved, in either direction. It reports whether the request
// succeeded; a growth failure must not mutate heap state.
type GrowFunc func(newEndMem uint32) bool

// Heap is a first-fit allocator for the dynamic memory region above an
// image's static RAM. It maintains two address-sorted, non-overlapping
// lists — allocated and free — and never lets a free block touch the heap's
// upper boundary: trailing free space is trimmed by lowering the extent.
// end_mem itself is moved back through GrowFunc only by ShrinkToFit or when
// the heap becomes empty.
type Heap struct {
	heapStart uint32
	extent    uint32 // current heap size; heapStart+extent is the top
	maxSize   uint32
	allocated []heapBlock
	free      []heapBlock
	grow      GrowFunc
}

// NewHeap creates an empty heap starting at heapStart, capped at maxSize
// total bytes, using grow to request end-of-memory changes from the image.
func NewHeap(heapStart, maxSize uint32, grow GrowFunc) *Heap {
	return &Heap{heapStart: heapStart, maxSize: maxSize, grow: grow}
}

// HeapStart returns the heap's base address.
func (h *Heap) HeapStart() uint32 { return h.heapStart }

// Extent returns the heap's current size in bytes.
func (h *Heap) Extent() uint32 { return h.extent }

// Alloc reserves size bytes and returns their address, or 0 on failure
// (including a size of zero).
func (h *Heap) Alloc(size uint32) uint32 {
	if size == 0 {
		return 0
	}

	for i, b := range h.free {
		if b.Length >= size {
			addr := b.Start
			if b.Length == size {
				h.free = append(h.free[:i], h.free[i+1:]...)
			} else {
				h.free[i] = heapBlock{Start: b.Start + size, Length: b.Length - size}
			}
			h.insertAllocated(heapBlock{Start: addr, Length: size})
			return addr
		}
	}

	needed := h.extent + size
	if needed > h.maxSize {
		return 0
	}
	growTo := h.extent + h.extent/4
	if growTo < needed {
		growTo = needed
	}
	if growTo > h.maxSize {
		growTo = h.maxSize
	}
	if !h.grow(h.heapStart + growTo) {
		return 0
	}

	addr := h.heapStart + h.extent
	h.extent = growTo
	h.insertAllocated(heapBlock{Start: addr, Length: size})
	return addr
}

// Free releases the block at addr, coalescing it with adjacent free
// neighbors and shrinking the heap when it becomes mostly idle. It returns
// false if addr does not name a live allocation.
func (h *Heap) Free(addr uint32) bool {
	idx := sort.Search(len(h.allocated), func(i int) bool { return h.allocated[i].Start >= addr })
	if idx >= len(h.allocated) || h.allocated[idx].Start != addr {
		return false
	}
	block := h.allocated[idx]
	h.allocated = append(h.allocated[:idx], h.allocated[idx+1:]...)

	h.insertFree(block)
	h.trimTrailingFree()
	h.shrinkIfIdle()
	return true
}

// Save serializes the allocated-block list, sufficient to reconstruct the
// free list on Load by inferring the gaps between allocated blocks.
func (h *Heap) Save() []byte {
	out := make([]byte, 8+8*len(h.allocated))
	putBeU32(out[0:], h.heapStart)
	putBeU32(out[4:], uint32(len(h.allocated)))
	off := 8
	for _, b := range h.allocated {
		putBeU32(out[off:], b.Start)
		putBeU32(out[off+4:], b.Length)
		off += 8
	}
	return out
}

// LoadHeap reconstructs a Heap from Save's byte sequence.
func LoadHeap(data []byte, maxSize uint32, grow GrowFunc) (*Heap, error) {
	if len(data) < 8 {
		return nil, ErrBadSaveFile
	}
	heapStart := beU32(data[0:])
	count := beU32(data[4:])
	if uint64(8)+uint64(count)*8 > uint64(len(data)) {
		return nil, ErrBadSaveFile
	}
	h := &Heap{heapStart: heapStart, maxSize: maxSize, grow: grow}
	off := 8
	cursor := heapStart
	for i := uint32(0); i < count; i++ {
		start := beU32(data[off:])
		length := beU32(data[off+4:])
		off += 8
		if start > cursor {
			h.free = append(h.free, heapBlock{Start: cursor, Length: start - cursor})
		}
		h.allocated = append(h.allocated, heapBlock{Start: start, Length: length})
		cursor = start + length
	}
	h.extent = cursor - heapStart
	return h, nil
}

func (h *Heap) insertAllocated(b heapBlock) {
	idx := sort.Search(len(h.allocated), func(i int) bool { return h.allocated[i].Start >= b.Start })
	h.allocated = append(h.allocated, heapBlock{})
	copy(h.allocated[idx+1:], h.allocated[idx:])
	h.allocated[idx] = b
}

func (h *Heap) insertFree(b heapBlock) {
	idx := sort.Search(len(h.free), func(i int) bool { return h.free[i].Start >= b.Start })

	// Coalesce with left neighbor.
	if idx > 0 && h.free[idx-1].end() == b.Start {
		idx--
		b.Start = h.free[idx].Start
		b.Length += h.free[idx].Length
		h.free = append(h.free[:idx], h.free[idx+1:]...)
	}
	// Coalesce with right neighbor.
	if idx < len(h.free) && b.end() == h.free[idx].Start {
		b.Length += h.free[idx].Length
		h.free = append(h.free[:idx], h.free[idx+1:]...)
	}

	h.free = append(h.free, heapBlock{})
	copy(h.free[idx+1:], h.free[idx:])
	h.free[idx] = b
}

// trimTrailingFree removes any free block touching the heap's top edge,
// shrinking extent so the invariant "no free block touches heapStart+extent"
// always holds.
func (h *Heap) trimTrailingFree() {
	for len(h.free) > 0 {
		last := h.free[len(h.free)-1]
		if last.end() != h.heapStart+h.extent {
			return
		}
		h.free = h.free[:len(h.free)-1]
		h.extent = last.Start - h.heapStart
	}
}

// shrinkIfIdle tears the heap down entirely once empty, moving end_mem back
// to heapStart. The "at most half idle" rule is applied by ShrinkToFit.
func (h *Heap) shrinkIfIdle() {
	if len(h.allocated) == 0 && len(h.free) == 0 {
		h.extent = 0
		h.grow(h.heapStart)
		return
	}
}

// ShrinkToFit is invoked by the engine after any free() opcode with the
// image's current end_mem, applying the "at most half idle" rule from the
// spec. It is separate from shrinkIfIdle so the engine can supply the live
// end_mem without the heap needing an Image reference of its own.
func (h *Heap) ShrinkToFit(currentEndMem uint32) {
	if h.extent == 0 {
		return
	}
	span := currentEndMem - h.heapStart
	if h.extent*2 > span {
		return
	}
	newEnd := h.heapStart + h.extent
	if !h.grow(newEnd) {
		return
	}
	filtered := h.free[:0]
	for _, b := range h.free {
		if b.Start < newEnd {
			filtered = append(filtered, b)
		}
	}
	h.free = filtered
}
