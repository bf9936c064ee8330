package glulx

func (e *Engine) execData(op uint32, loads []uint32, stores []storeRef, memWidth int) error {
	switch op {
	case opCopy, opCopyS, opCopyB:
		return e.store(stores[0], loads[0], memWidth)
	case opSexS:
		return e.store(stores[0], uint32(int32(int16(loads[0]))), 4)
	case opSexB:
		return e.store(stores[0], uint32(int32(int8(loads[0]))), 4)

	case opALoad:
		v, err := e.image.ReadU32(loads[0] + loads[1]*4)
		if err != nil {
			return err
		}
		return e.store(stores[0], v, 4)
	case opALoadS:
		v, err := e.image.ReadU16(loads[0] + loads[1]*2)
		if err != nil {
			return err
		}
		return e.store(stores[0], uint32(v), 4)
	case opALoadB:
		v, err := e.image.ReadU8(loads[0] + loads[1])
		if err != nil {
			return err
		}
		return e.store(stores[0], uint32(v), 4)
	case opALoadBit:
		addr, mask := bitAddr(loads[0], int32(loads[1]))
		b, err := e.image.ReadU8(addr)
		if err != nil {
			return err
		}
		if b&mask != 0 {
			return e.store(stores[0], 1, 4)
		}
		return e.store(stores[0], 0, 4)

	case opAStore:
		return e.image.WriteU32(loads[0]+loads[1]*4, loads[2])
	case opAStoreS:
		return e.image.WriteU16(loads[0]+loads[1]*2, uint16(loads[2]))
	case opAStoreB:
		return e.image.WriteU8(loads[0]+loads[1], uint8(loads[2]))
	case opAStoreBit:
		addr, mask := bitAddr(loads[0], int32(loads[1]))
		b, err := e.image.ReadU8(addr)
		if err != nil {
			return err
		}
		if loads[2] != 0 {
			b |= mask
		} else {
			b &^= mask
		}
		return e.image.WriteU8(addr, b)
	}
	return ErrBadOpcode
}

// bitAddr resolves a bit-indexed access: index may be negative, addressing
// bits below base.
func bitAddr(base uint32, index int32) (addr uint32, mask uint8) {
	byteOff := index >> 3
	bit := uint8(index & 7)
	return uint32(int64(base) + int64(byteOff)), 1 << bit
}
