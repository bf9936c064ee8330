package glulx

func (e *Engine) execMemoryOp(op uint32, loads []uint32, stores []storeRef) error {
	switch op {
	case opMZero:
		addr, length := loads[0], loads[1]
		for i := uint32(0); i < length; i++ {
			if err := e.image.WriteU8(addr+i, 0); err != nil {
				return err
			}
		}
		return nil
	case opMCopy:
		src, dst, length := loads[0], loads[1], loads[2]
		buf := make([]byte, length)
		for i := uint32(0); i < length; i++ {
			b, err := e.image.ReadU8(src + i)
			if err != nil {
				return err
			}
			buf[i] = b
		}
		for i := uint32(0); i < length; i++ {
			if err := e.image.WriteU8(dst+i, buf[i]); err != nil {
				return err
			}
		}
		return nil
	case opMAlloc:
		if e.heap.Extent() == 0 && e.heap.HeapStart() != e.image.EndMem() {
			e.heap = NewHeap(e.image.EndMem(), 0xFFFFFFFF, e.heap.grow)
		}
		addr := e.heap.Alloc(loads[0])
		return e.store(stores[0], addr, 4)
	case opMFree:
		e.heap.Free(loads[0])
		e.heap.ShrinkToFit(e.image.EndMem())
		return nil
	case opGetMemSize:
		return e.store(stores[0], e.image.EndMem(), 4)
	case opSetMemSize:
		if e.heap.Extent() != 0 {
			return e.store(stores[0], 1, 4)
		}
		e.image.SetEndMem(loads[0])
		return e.store(stores[0], 0, 4)
	case opProtect:
		e.protectionStart = loads[0]
		e.protectionLength = loads[1]
		return nil
	}
	return ErrBadOpcode
}
