package glulx

import "testing"

func TestLinearSearchFindsMatch(t *testing.T) {
	var structs []byte
	for _, kv := range [][2]uint32{{10, 100}, {20, 200}, {30, 300}} {
		b := make([]byte, 8)
		putBeU32(b[0:], kv[0])
		putBeU32(b[4:], kv[1])
		structs = append(structs, b...)
	}
	img := buildImage(t, structs, uint32(hdrMinLength+len(structs)), uint32(hdrMinLength+len(structs))+64)
	e := &Engine{image: img, stack: make([]byte, 64)}

	loads := []uint32{20, 4, hdrMinLength, 8, 3, 0, 0}
	if err := e.linearSearch(loads, storeRef{kind: sStack}, false); err != nil {
		t.Fatalf("linearSearch: %v", err)
	}
	got, _ := e.popStack()
	want := uint32(hdrMinLength) + 8
	if got != want {
		t.Errorf("result = %#x, want %#x", got, want)
	}
}

func TestLinearSearchReturnIndexOption(t *testing.T) {
	var structs []byte
	for _, kv := range [][2]uint32{{10, 100}, {20, 200}} {
		b := make([]byte, 8)
		putBeU32(b[0:], kv[0])
		putBeU32(b[4:], kv[1])
		structs = append(structs, b...)
	}
	img := buildImage(t, structs, uint32(hdrMinLength+len(structs)), uint32(hdrMinLength+len(structs))+64)
	e := &Engine{image: img, stack: make([]byte, 64)}

	loads := []uint32{20, 4, hdrMinLength, 8, 2, 0, searchReturnIndex}
	if err := e.linearSearch(loads, storeRef{kind: sStack}, false); err != nil {
		t.Fatalf("linearSearch: %v", err)
	}
	got, _ := e.popStack()
	if got != 1 {
		t.Errorf("index result = %d, want 1", got)
	}
}

func TestLinearSearchNotFoundReturnIndexSentinel(t *testing.T) {
	img := buildImage(t, nil, hdrMinLength, hdrMinLength+64)
	e := &Engine{image: img, stack: make([]byte, 64)}
	loads := []uint32{99, 4, hdrMinLength, 8, 0, 0, searchReturnIndex}
	if err := e.linearSearch(loads, storeRef{kind: sStack}, false); err != nil {
		t.Fatalf("linearSearch: %v", err)
	}
	got, _ := e.popStack()
	if got != 0xFFFFFFFF {
		t.Errorf("result = %#x, want 0xFFFFFFFF", got)
	}
}

func TestBinarySearchRejectsZeroKeyTerminates(t *testing.T) {
	img := buildImage(t, nil, hdrMinLength, hdrMinLength+64)
	e := &Engine{image: img, stack: make([]byte, 64)}
	loads := []uint32{0, 4, hdrMinLength, 8, 0, 0, searchZeroKeyTerminates}
	if err := e.linearSearch(loads, storeRef{kind: sStack}, true); err != ErrBadSearchOptions {
		t.Errorf("err = %v, want ErrBadSearchOptions", err)
	}
}

func TestLinkedSearchRejectsReturnIndex(t *testing.T) {
	img := buildImage(t, nil, hdrMinLength, hdrMinLength+64)
	e := &Engine{image: img, stack: make([]byte, 64)}
	loads := []uint32{0, 4, hdrMinLength, 0, 4, searchReturnIndex}
	if err := e.linkedSearch(loads, storeRef{kind: sStack}); err != ErrBadSearchOptions {
		t.Errorf("err = %v, want ErrBadSearchOptions", err)
	}
}

func TestLinkedSearchFollowsChain(t *testing.T) {
	aAddr := uint32(hdrMinLength)
	bAddr := aAddr + 12
	a := make([]byte, 12)
	putBeU32(a[0:], 10)
	putBeU32(a[4:], 100)
	putBeU32(a[8:], bAddr)
	b := make([]byte, 12)
	putBeU32(b[0:], 20)
	putBeU32(b[4:], 200)
	putBeU32(b[8:], 0)
	data := append(a, b...)

	img := buildImage(t, data, bAddr+12, bAddr+12+64)
	e := &Engine{image: img, stack: make([]byte, 64)}

	loads := []uint32{20, 4, aAddr, 0, 8, 0}
	if err := e.linkedSearch(loads, storeRef{kind: sStack}); err != nil {
		t.Fatalf("linkedSearch: %v", err)
	}
	got, _ := e.popStack()
	if got != bAddr {
		t.Errorf("result = %#x, want %#x", got, bAddr)
	}
}
