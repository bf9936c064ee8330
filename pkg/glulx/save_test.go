package glulx

import (
	"bytes"
	"testing"
)

func TestIFFRoundTrip(t *testing.T) {
	chunks := []iffChunk{
		{id: chunkIFhd, data: []byte{1, 2, 3, 4}},
		{id: chunkCMem, data: []byte{0xAA, 0xBB, 0xCC}},
	}
	encoded := writeIFF("IFZS", chunks)

	formType, got, err := readIFF(encoded)
	if err != nil {
		t.Fatalf("readIFF: %v", err)
	}
	if formType != "IFZS" {
		t.Errorf("formType = %q, want IFZS", formType)
	}
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if got[0].id != chunkIFhd || !bytes.Equal(got[0].data, chunks[0].data) {
		t.Errorf("chunk 0 = %+v", got[0])
	}
	if got[1].id != chunkCMem || !bytes.Equal(got[1].data, chunks[1].data) {
		t.Errorf("chunk 1 = %+v", got[1])
	}
}

func TestReadIFFRejectsBadMagic(t *testing.T) {
	if _, _, err := readIFF([]byte("not an iff file at all")); err != ErrBadSaveFile {
		t.Errorf("readIFF = %v, want ErrBadSaveFile", err)
	}
}

func TestRLEEncodeDecodeXOR(t *testing.T) {
	original := bytes.Repeat([]byte{0}, 64)
	current := make([]byte, 64)
	copy(current, original)
	current[10] = 0x7F
	current[11] = 0x7F
	current[40] = 0x01

	encoded := rleEncodeXOR(original, current)
	decoded, err := rleDecodeXOR(original, encoded)
	if err != nil {
		t.Fatalf("rleDecodeXOR: %v", err)
	}
	if !bytes.Equal(decoded, current) {
		t.Errorf("round trip mismatch:\ngot  %v\nwant %v", decoded, current)
	}
}

func TestRLEDecodeXORTruncated(t *testing.T) {
	if _, err := rleDecodeXOR(nil, []byte{0x00}); err != ErrBadSaveFile {
		t.Errorf("rleDecodeXOR on truncated run = %v, want ErrBadSaveFile", err)
	}
}

func TestSerializeDeserializeStacksRoundTrip(t *testing.T) {
	layout := &funcLayout{
		groups:     []localGroup{{Size: 4, Count: 2}},
		localsPos:  8,
		localsLen:  8,
		frameLen:   24,
		slotOffset: []uint32{0, 4},
		slotSize:   []uint8{4, 4},
	}
	frameStub := callStub{DestType: destLocal, DestAddr: 4, ResumePC: 0x999, SavedFP: 0x10}
	e := &Engine{
		stack:  make([]byte, 64),
		frames: []frameRecord{{fp: 0, layout: layout, stub: frameStub}},
	}
	putBeU32(e.stack[8:], 111)
	putBeU32(e.stack[12:], 222)
	e.sp = 28
	putBeU32(e.stack[24:], 333)

	resumeStub := callStub{DestType: destMemory, DestAddr: 0x4000, ResumePC: 0x1234, SavedFP: 0x20}
	encoded := e.serializeStacks(resumeStub)
	resume, frames, stack, sp, fp, err := deserializeStacks(encoded)
	if err != nil {
		t.Fatalf("deserializeStacks: %v", err)
	}
	if resume != resumeStub {
		t.Errorf("resume stub = %+v, want %+v", resume, resumeStub)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if frames[0].layout.frameLen != 24 || frames[0].layout.localsPos != 8 {
		t.Errorf("layout mismatch: %+v", frames[0].layout)
	}
	if frames[0].stub != frameStub {
		t.Errorf("frame stub = %+v, want %+v", frames[0].stub, frameStub)
	}
	if beU32(stack[8:]) != 111 || beU32(stack[12:]) != 222 {
		t.Errorf("locals mismatch: %v", stack)
	}
	if beU32(stack[24:]) != 333 {
		t.Errorf("value stack mismatch: %v", stack)
	}
	if sp != uint32(len(stack)) {
		t.Errorf("sp = %d, want %d", sp, len(stack))
	}
	if fp != frames[0].fp {
		t.Errorf("fp = %d, want %d", fp, frames[0].fp)
	}
}
