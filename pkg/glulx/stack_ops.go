package glulx

func (e *Engine) execStackOp(op uint32, loads []uint32, stores []storeRef) error {
	floor := e.fp
	if f := e.curFrame(); f != nil {
		floor = f.fp + f.layout.frameLen
	}

	switch op {
	case opStkCount:
		return e.store(stores[0], e.stackDepthWords(), 4)

	case opStkPeek:
		idx := loads[0]
		addr := e.sp - 4 - idx*4
		if addr < floor || addr+4 > e.sp {
			return ErrStackUnderflow
		}
		return e.store(stores[0], beU32(e.stack[addr:]), 4)

	case opStkSwap:
		if e.sp < floor+8 {
			return ErrStackUnderflow
		}
		a := e.sp - 4
		b := e.sp - 8
		va, vb := beU32(e.stack[a:]), beU32(e.stack[b:])
		putBeU32(e.stack[a:], vb)
		putBeU32(e.stack[b:], va)
		return nil

	case opStkRoll:
		count := loads[0]
		amount := int32(loads[1])
		if count == 0 {
			return nil
		}
		if e.sp < floor+count*4 {
			return ErrStackUnderflow
		}
		base := e.sp - count*4
		words := make([]uint32, count)
		for i := uint32(0); i < count; i++ {
			words[i] = beU32(e.stack[base+i*4:])
		}
		shift := ((amount % int32(count)) + int32(count)) % int32(count)
		rotated := make([]uint32, count)
		for i := uint32(0); i < count; i++ {
			rotated[(i+uint32(shift))%count] = words[i]
		}
		for i := uint32(0); i < count; i++ {
			putBeU32(e.stack[base+i*4:], rotated[i])
		}
		return nil

	case opStkCopy:
		count := loads[0]
		if count == 0 {
			return nil
		}
		if e.sp < floor+count*4 {
			return ErrStackUnderflow
		}
		base := e.sp - count*4
		for i := uint32(0); i < count; i++ {
			if err := e.pushStack(beU32(e.stack[base+i*4:])); err != nil {
				return err
			}
		}
		return nil
	}
	return ErrBadOpcode
}
