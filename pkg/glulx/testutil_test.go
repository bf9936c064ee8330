package glulx

import "testing"

// buildImage constructs a minimal valid Image for tests: a header followed
// by romExtra at hdrMinLength, with the given ramStart/endMem and a correct
// checksum so LoadImage accepts it.
func buildImage(t *testing.T, romExtra []byte, ramStart, endMem uint32) *Image {
	t.Helper()
	size := hdrMinLength + len(romExtra)
	if uint32(size) < ramStart {
		size = int(ramStart)
	}
	raw := make([]byte, size)
	copy(raw[hdrMagic:], glulxMagic[:])
	putBeU32(raw[hdrVersion:], 0x00030102)
	putBeU32(raw[hdrRAMStart:], ramStart)
	putBeU32(raw[hdrExtStart:], ramStart)
	putBeU32(raw[hdrEndMem:], endMem)
	putBeU32(raw[hdrStackSize:], 4096)
	putBeU32(raw[hdrStartFunc:], hdrMinLength)
	putBeU32(raw[hdrDecodingTable:], 0)
	copy(raw[hdrMinLength:], romExtra)
	putBeU32(raw[hdrChecksum:], checksumOf(raw))

	img, err := LoadImage(raw)
	if err != nil {
		t.Fatalf("buildImage: LoadImage: %v", err)
	}
	return img
}
