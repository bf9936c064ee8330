package glulx

import "bytes"

const (
	searchKeyIndirect       = 1 << 0
	searchZeroKeyTerminates = 1 << 1
	searchReturnIndex       = 1 << 2
)

func (e *Engine) keyBytes(key, keysize, options uint32) ([]byte, error) {
	if options&searchKeyIndirect != 0 {
		out := make([]byte, keysize)
		for i := uint32(0); i < keysize; i++ {
			b, err := e.image.ReadU8(key + i)
			if err != nil {
				return nil, err
			}
			out[i] = b
		}
		return out, nil
	}
	if keysize > 4 {
		return nil, ErrBadSearchOptions
	}
	full := make([]byte, 4)
	putBeU32(full, key)
	return full[4-keysize:], nil
}

func (e *Engine) structKeyBytes(structAddr, keysize uint32) ([]byte, error) {
	out := make([]byte, keysize)
	for i := uint32(0); i < keysize; i++ {
		b, err := e.image.ReadU8(structAddr + i)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func (e *Engine) execSearch(op uint32, loads []uint32, stores []storeRef) error {
	switch op {
	case opLinearSearch:
		return e.linearSearch(loads, stores[0], false)
	case opBinarySearch:
		return e.linearSearch(loads, stores[0], true)
	case opLinkedSearch:
		return e.linkedSearch(loads, stores[0])
	}
	return ErrBadOpcode
}

// linearSearch implements both linearsearch and binarysearch; the two
// opcodes share an operand layout and only differ in traversal strategy,
// which matters for performance, not the result, against well-formed input.
func (e *Engine) linearSearch(loads []uint32, dest storeRef, sorted bool) error {
	key, keysize, start, structsize, numstructs, keyoffset, options := loads[0], loads[1], loads[2], loads[3], loads[4], loads[5], loads[6]
	want, err := e.keyBytes(key, keysize, options)
	if err != nil {
		return err
	}

	notFound := uint32(0)
	if options&searchReturnIndex != 0 {
		notFound = 0xFFFFFFFF
	}

	find := func(i uint32) (bool, bool, error) {
		addr := start + i*structsize
		got, err := e.structKeyBytes(addr+keyoffset, keysize)
		if err != nil {
			return false, false, err
		}
		isZero := true
		for _, b := range got {
			if b != 0 {
				isZero = false
				break
			}
		}
		return bytes.Equal(got, want), isZero, nil
	}

	if sorted {
		if options&searchZeroKeyTerminates != 0 {
			return ErrBadSearchOptions
		}
		lo, hi := int64(0), int64(numstructs)-1
		for lo <= hi {
			mid := (lo + hi) / 2
			got, err := e.structKeyBytes(start+uint32(mid)*structsize+keyoffset, keysize)
			if err != nil {
				return err
			}
			c := bytes.Compare(got, want)
			switch {
			case c == 0:
				return e.store(dest, foundResult(start, uint32(mid), structsize, options), 4)
			case c < 0:
				lo = mid + 1
			default:
				hi = mid - 1
			}
		}
		return e.store(dest, notFound, 4)
	}

	for i := uint32(0); numstructs == 0xFFFFFFFF || i < numstructs; i++ {
		match, isZero, err := find(i)
		if err != nil {
			return err
		}
		if match {
			return e.store(dest, foundResult(start, i, structsize, options), 4)
		}
		if isZero && options&searchZeroKeyTerminates != 0 {
			break
		}
	}
	return e.store(dest, notFound, 4)
}

func foundResult(start, index, structsize, options uint32) uint32 {
	if options&searchReturnIndex != 0 {
		return index
	}
	return start + index*structsize
}

func (e *Engine) linkedSearch(loads []uint32, dest storeRef) error {
	key, keysize, start, keyoffset, nextoffset, options := loads[0], loads[1], loads[2], loads[3], loads[4], loads[5]
	if options&searchReturnIndex != 0 {
		return ErrBadSearchOptions
	}
	want, err := e.keyBytes(key, keysize, options)
	if err != nil {
		return err
	}
	addr := start
	for addr != 0 {
		got, err := e.structKeyBytes(addr+keyoffset, keysize)
		if err != nil {
			return err
		}
		if bytes.Equal(got, want) {
			return e.store(dest, addr, 4)
		}
		next, err := e.image.ReadU32(addr + nextoffset)
		if err != nil {
			return err
		}
		addr = next
	}
	return e.store(dest, 0, 4)
}
