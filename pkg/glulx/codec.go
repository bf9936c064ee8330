// Package glulx implements a Glulx virtual machine: the fetch/decode/dispatch
// loop, stack and call-frame model, heap allocator, string decoders, veneer,
// and save/restore codec for Inform 7's bytecode format (spec range 2.0-3.1).
package glulx

import "encoding/binary"

// beU16 reads a big-endian 16-bit value from b.
func beU16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// beU32 reads a big-endian 32-bit value from b.
func beU32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// putBeU16 writes a big-endian 16-bit value into b.
func putBeU16(b []byte, v uint16) {
	binary.BigEndian.PutUint16(b, v)
}

// putBeU32 writes a big-endian 32-bit value into b.
func putBeU32(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}

// roundUp256 rounds n up to the next multiple of 256.
func roundUp256(n uint32) uint32 {
	return (n + 255) &^ 255
}
