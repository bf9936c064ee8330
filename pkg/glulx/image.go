package glulx

// Header field offsets, all big-endian 32-bit words.
const (
	hdrMagic         = 0
	hdrVersion       = 4
	hdrRAMStart      = 8
	hdrExtStart      = 12
	hdrEndMem        = 16
	hdrStackSize     = 20
	hdrStartFunc     = 24
	hdrDecodingTable = 28
	hdrChecksum      = 32
	hdrMinLength     = 36
)

var glulxMagic = [4]byte{'G', 'l', 'u', 'l'}

// Image is a flat, resizable byte buffer with a ROM/RAM boundary. Writes
// below RAMStart fail; reads and writes at or beyond the current end of
// memory fail. It owns a copy of the original header and initial RAM for
// restart/restore and save-delta computation.
type Image struct {
	data     []byte
	ramStart uint32
	endMem   uint32

	originalROM []byte // bytes [0, ramStart) of the loaded file, read-only
	originalRAM []byte // bytes [ramStart, origEndMem) of the loaded file
	origEndMem  uint32
}

// LoadImage validates and constructs an Image from a raw Glulx file.
func LoadImage(raw []byte) (*Image, error) {
	if len(raw) < hdrMinLength {
		return nil, ErrImageTooSmall
	}
	if raw[0] != glulxMagic[0] || raw[1] != glulxMagic[1] || raw[2] != glulxMagic[2] || raw[3] != glulxMagic[3] {
		return nil, ErrBadMagic
	}
	version := beU32(raw[hdrVersion:])
	if version < 0x00020000 || version > 0x00030102 {
		return nil, ErrBadVersion
	}
	ramStart := beU32(raw[hdrRAMStart:])
	endMem := beU32(raw[hdrEndMem:])
	if ramStart > uint32(len(raw)) || endMem < ramStart {
		return nil, ErrImageTooSmall
	}
	wantChecksum := beU32(raw[hdrChecksum:])
	if checksumOf(raw) != wantChecksum {
		return nil, ErrBadChecksum
	}

	img := &Image{
		ramStart:   ramStart,
		endMem:     roundUp256(endMem),
		origEndMem: endMem,
	}
	img.data = make([]byte, img.endMem)
	copy(img.data, raw)

	img.originalROM = make([]byte, ramStart)
	copy(img.originalROM, raw[:ramStart])

	ramLen := endMem - ramStart
	img.originalRAM = make([]byte, ramLen)
	if ramStart < uint32(len(raw)) {
		avail := uint32(len(raw)) - ramStart
		if avail > ramLen {
			avail = ramLen
		}
		copy(img.originalRAM, raw[ramStart:ramStart+avail])
	}

	return img, nil
}

// checksumOf computes the Glulx header checksum: the sum (mod 2^32) of all
// 32-bit big-endian words in raw, with the checksum word itself read as zero.
func checksumOf(raw []byte) uint32 {
	var sum uint32
	n := len(raw) &^ 3
	for off := 0; off < n; off += 4 {
		if off == hdrChecksum {
			continue
		}
		sum += beU32(raw[off:])
	}
	return sum
}

// RAMStart returns the ROM/RAM boundary address.
func (img *Image) RAMStart() uint32 { return img.ramStart }

// EndMem returns the current total addressable size.
func (img *Image) EndMem() uint32 { return img.endMem }

func (img *Image) checkRead(off, size uint32) error {
	if size > img.endMem || off > img.endMem-size {
		return ErrOutOfRange
	}
	return nil
}

func (img *Image) checkWrite(off, size uint32) error {
	if off < img.ramStart {
		return ErrROMWrite
	}
	return img.checkRead(off, size)
}

// ReadU8 reads one byte at off.
func (img *Image) ReadU8(off uint32) (uint8, error) {
	if err := img.checkRead(off, 1); err != nil {
		return 0, err
	}
	return img.data[off], nil
}

// ReadU16 reads a big-endian 16-bit value at off.
func (img *Image) ReadU16(off uint32) (uint16, error) {
	if err := img.checkRead(off, 2); err != nil {
		return 0, err
	}
	return beU16(img.data[off:]), nil
}

// ReadU32 reads a big-endian 32-bit value at off.
func (img *Image) ReadU32(off uint32) (uint32, error) {
	if err := img.checkRead(off, 4); err != nil {
		return 0, err
	}
	return beU32(img.data[off:]), nil
}

// WriteU8 writes one byte at off.
func (img *Image) WriteU8(off uint32, v uint8) error {
	if err := img.checkWrite(off, 1); err != nil {
		return err
	}
	img.data[off] = v
	return nil
}

// WriteU16 writes a big-endian 16-bit value at off.
func (img *Image) WriteU16(off uint32, v uint16) error {
	if err := img.checkWrite(off, 2); err != nil {
		return err
	}
	putBeU16(img.data[off:], v)
	return nil
}

// WriteU32 writes a big-endian 32-bit value at off.
func (img *Image) WriteU32(off uint32, v uint32) error {
	if err := img.checkWrite(off, 4); err != nil {
		return err
	}
	putBeU32(img.data[off:], v)
	return nil
}

// SetEndMem grows or shrinks addressable memory to v, rounded up to the next
// 256-byte boundary. Existing bytes are preserved; growth is zero-filled.
func (img *Image) SetEndMem(v uint32) {
	v = roundUp256(v)
	if v == img.endMem {
		return
	}
	grown := make([]byte, v)
	n := v
	if uint32(len(img.data)) < n {
		n = uint32(len(img.data))
	}
	copy(grown, img.data[:n])
	img.data = grown
	img.endMem = v
}

// Revert restores memory to the original header+ROM+initial-RAM image,
// discarding all runtime mutations. Used by restart.
func (img *Image) Revert() {
	img.endMem = roundUp256(img.origEndMem)
	img.data = make([]byte, img.endMem)
	copy(img.data, img.originalROM)
	copy(img.data[img.ramStart:], img.originalRAM)
}

// GetOriginalHeader returns the first bytes of the original image, up to
// the header's fixed minimum length.
func (img *Image) GetOriginalHeader() []byte {
	n := hdrMinLength
	if int(img.ramStart) < n {
		n = int(img.ramStart)
	}
	out := make([]byte, n)
	copy(out, img.originalROM[:n])
	return out
}

// GetOriginalRAM returns the bytes from RAMStart to the original EndMem.
func (img *Image) GetOriginalRAM() []byte {
	out := make([]byte, len(img.originalRAM))
	copy(out, img.originalRAM)
	return out
}

// ReadRAM returns length bytes starting at RAMStart+off.
func (img *Image) ReadRAM(off, length uint32) ([]byte, error) {
	addr := img.ramStart + off
	if err := img.checkRead(addr, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, img.data[addr:addr+length])
	return out, nil
}

// WriteRAM writes b starting at RAMStart+off, growing memory first if needed.
func (img *Image) WriteRAM(off uint32, b []byte) error {
	addr := img.ramStart + off
	need := addr + uint32(len(b))
	if need > img.endMem {
		img.SetEndMem(need)
	}
	copy(img.data[addr:], b)
	return nil
}

// SetRAM replaces all RAM contents (everything from RAMStart onward) with
// ram, which is zero-padded up to embeddedLength if shorter. Used by restore
// to install the decompressed CMem/UMem payload, whose stored length may
// exceed the image's original RAM size.
func (img *Image) SetRAM(ram []byte, embeddedLength uint32) {
	if uint32(len(ram)) < embeddedLength {
		padded := make([]byte, embeddedLength)
		copy(padded, ram)
		ram = padded
	}
	img.SetEndMem(img.ramStart + embeddedLength)
	copy(img.data[img.ramStart:], ram[:embeddedLength])
}

// Snapshot returns a copy of the full memory buffer (header+ROM+RAM), used
// by undo to keep an in-memory rollback point.
func (img *Image) Snapshot() []byte {
	out := make([]byte, len(img.data))
	copy(out, img.data)
	return out
}

// Restore replaces the whole memory buffer from a prior Snapshot.
func (img *Image) Restore(snap []byte) {
	img.data = make([]byte, len(snap))
	copy(img.data, snap)
	img.endMem = uint32(len(snap))
}

// Raw exposes the backing buffer for callers (the engine, veneer, string
// decoder) that need direct byte access without the per-call bounds-check
// overhead. Callers must not retain slices across a SetEndMem/Restore call.
func (img *Image) Raw() []byte { return img.data }
