package glulx

import "testing"

type captureSink struct{ out []rune }

func (s *captureSink) PutChar(r rune) { s.out = append(s.out, r) }

func TestDecodeCStringStopsAtNUL(t *testing.T) {
	rom := append([]byte("hi"), 0, 'x')
	img := buildImage(t, rom, hdrMinLength+uint32(len(rom)), hdrMinLength+uint32(len(rom))+64)
	sink := &captureSink{}
	if err := decodeCString(img, hdrMinLength, sink); err != nil {
		t.Fatalf("decodeCString: %v", err)
	}
	if got := string(sink.out); got != "hi" {
		t.Errorf("decoded = %q, want %q", got, "hi")
	}
}

func TestDecodeUnicodeStringStopsAtZeroWord(t *testing.T) {
	var rom []byte
	for _, r := range []uint32{'h', 'i', 0, 'x'} {
		var buf [4]byte
		putBeU32(buf[:], r)
		rom = append(rom, buf[:]...)
	}
	img := buildImage(t, rom, hdrMinLength+uint32(len(rom)), hdrMinLength+uint32(len(rom))+64)
	sink := &captureSink{}
	if err := decodeUnicodeString(img, hdrMinLength, sink); err != nil {
		t.Fatalf("decodeUnicodeString: %v", err)
	}
	if got := string(sink.out); got != "hi" {
		t.Errorf("decoded = %q, want %q", got, "hi")
	}
}

func TestReadStringNodeIndirectArgs(t *testing.T) {
	target := uint32(0x5000)
	rom := []byte{nodeIndirectArgs}
	var buf [4]byte
	putBeU32(buf[:], target)
	rom = append(rom, buf[:]...)
	rom = append(rom, 2) // argc
	var a0, a1 [4]byte
	putBeU32(a0[:], 111)
	putBeU32(a1[:], 222)
	rom = append(rom, a0[:]...)
	rom = append(rom, a1[:]...)

	img := buildImage(t, rom, hdrMinLength+uint32(len(rom)), hdrMinLength+uint32(len(rom))+64)
	n, err := readStringNode(img, hdrMinLength)
	if err != nil {
		t.Fatalf("readStringNode: %v", err)
	}
	if n.tag != nodeIndirectArgs || n.addr != target {
		t.Errorf("node = %+v, want tag=%d addr=%#x", n, nodeIndirectArgs, target)
	}
	if len(n.args) != 2 || n.args[0] != 111 || n.args[1] != 222 {
		t.Errorf("args = %v, want [111 222]", n.args)
	}
}

func TestReadStringNodeDoubleIndirectArgsZeroArgs(t *testing.T) {
	target := uint32(0x1234)
	rom := []byte{nodeDoubleIndirectArgs}
	var buf [4]byte
	putBeU32(buf[:], target)
	rom = append(rom, buf[:]...)
	rom = append(rom, 0) // argc = 0

	img := buildImage(t, rom, hdrMinLength+uint32(len(rom)), hdrMinLength+uint32(len(rom))+64)
	n, err := readStringNode(img, hdrMinLength)
	if err != nil {
		t.Fatalf("readStringNode: %v", err)
	}
	if n.tag != nodeDoubleIndirectArgs || n.addr != target || len(n.args) != 0 {
		t.Errorf("node = %+v, want tag=%d addr=%#x args=[]", n, nodeDoubleIndirectArgs, target)
	}
}

// TestDecodeCompressedStringWalksTree builds a two-level decoding tree
// (root branch -> sub branch -> char leaves, with the root's other arm a
// terminator) and confirms the bit-addressed walk produces the right
// character sequence.
func TestDecodeCompressedStringWalksTree(t *testing.T) {
	base := uint32(hdrMinLength)
	termAddr := base + 0
	charHAddr := base + 1
	charIAddr := base + 3
	sAddr := base + 5
	rootAddr := base + 14
	headerAddr := base + 23
	strAddr := base + 35

	rom := make([]byte, 36)
	rom[0] = nodeStringTerminator
	rom[1], rom[2] = nodeChar, 'H'
	rom[3], rom[4] = nodeChar, 'I'
	rom[5] = nodeBranch
	putBeU32(rom[6:], charHAddr)
	putBeU32(rom[10:], charIAddr)
	rom[14] = nodeBranch
	putBeU32(rom[15:], sAddr)
	putBeU32(rom[19:], termAddr)
	putBeU32(rom[23:], 13) // table size: header region only, entirely below ramStart
	putBeU32(rom[27:], 0)
	putBeU32(rom[31:], rootAddr)
	rom[35] = 0x18 // bits (LSB first): 0,0,0,1,1

	img := buildImage(t, rom, base+36, base+36+64)
	dt, err := LoadDecodingTable(img, headerAddr)
	if err != nil {
		t.Fatalf("LoadDecodingTable: %v", err)
	}
	e := &Engine{image: img, decoding: dt}
	sink := &captureSink{}
	if err := e.decodeCompressedString(strAddr, sink); err != nil {
		t.Fatalf("decodeCompressedString: %v", err)
	}
	if got := string(sink.out); got != "HI" {
		t.Errorf("decoded = %q, want %q", got, "HI")
	}
}

// TestCompressedStringIndirectSuspendsAndResumesThroughCall builds a tree
// whose root chooses between an indirect node (addressing a real function)
// and a terminator. Decoding it must suspend the walk into e.printStack,
// run the function to completion as an ordinary call, and resume decoding
// (restoring e.pc to the instruction after the original print) once the
// function returns.
func TestCompressedStringIndirectSuspendsAndResumesThroughCall(t *testing.T) {
	base := uint32(hdrMinLength)
	termAddr := base + 0
	indirectAddr := base + 1
	funcAddr := base + 6
	rootAddr := base + 11
	headerAddr := base + 20
	strAddr := base + 32

	rom := make([]byte, 33)
	rom[0] = nodeStringTerminator
	rom[1] = nodeIndirect
	putBeU32(rom[2:], funcAddr)
	// function: tag 0xC0 (stack args), no locals, body "return 0"
	rom[6] = 0xC0
	rom[7], rom[8] = 0, 0
	rom[9] = opReturn
	rom[10] = 0x00 // operand type: lZero
	rom[11] = nodeBranch
	putBeU32(rom[12:], indirectAddr)
	putBeU32(rom[16:], termAddr)
	putBeU32(rom[20:], 13)
	putBeU32(rom[24:], 0)
	putBeU32(rom[28:], rootAddr)
	rom[32] = 0x02 // bits: 0 (root->indirect), 1 (root->terminator)

	img := buildImage(t, rom, base+33, base+33+64)
	dt, err := LoadDecodingTable(img, headerAddr)
	if err != nil {
		t.Fatalf("LoadDecodingTable: %v", err)
	}

	outerLayout := &funcLayout{frameLen: 12, localsPos: 8}
	outerPC := uint32(0xABCD)
	e := &Engine{
		image:    img,
		decoding: dt,
		stack:    make([]byte, 64),
		running:  true,
		frames:   []frameRecord{{fp: 0, layout: outerLayout, catchBase: 0}},
		fp:       0,
		sp:       12,
		pc:       outerPC,
	}

	sink := &captureSink{}
	if err := e.decodeCompressedString(strAddr, sink); err != nil {
		t.Fatalf("decodeCompressedString: %v", err)
	}
	if len(e.printStack) != 1 {
		t.Fatalf("printStack depth = %d, want 1 (suspended into the function call)", len(e.printStack))
	}
	if len(e.frames) != 2 {
		t.Fatalf("frames = %d, want 2 (outer + the called function)", len(e.frames))
	}

	// Run the called function's "return 0", which should pop its frame and
	// resume the suspended print.
	if err := e.Step(); err != nil {
		t.Fatalf("Step (function return): %v", err)
	}
	if len(e.printStack) != 0 {
		t.Errorf("printStack depth = %d, want 0 after the walk finishes", len(e.printStack))
	}
	if len(e.frames) != 1 {
		t.Errorf("frames = %d, want 1 (back to just the outer frame)", len(e.frames))
	}
	if e.pc != outerPC {
		t.Errorf("pc = %#x, want %#x (resumed after the original print)", e.pc, outerPC)
	}
	if !e.running {
		t.Error("running should remain true: the outer frame never returned")
	}
}
