package glulx

// popArgs pops n values off the current stack and returns them in call
// order (the first argument first), since the compiler pushes arguments
// left to right and the last one pushed sits on top.
func (e *Engine) popArgs(n uint32) ([]uint32, error) {
	args := make([]uint32, n)
	for i := int(n) - 1; i >= 0; i-- {
		v, err := e.popStack()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (e *Engine) execCall(addr, argc uint32, dest storeRef) error {
	args, err := e.popArgs(argc)
	if err != nil {
		return err
	}
	destType, destAddr := e.storeRefForOperand(dest)
	stub := callStub{DestType: destType, DestAddr: destAddr, ResumePC: e.pc, SavedFP: e.fp}
	if v, ok := e.veneer.Lookup(addr); ok {
		result, err := execVeneer(e, v, args)
		if err == nil {
			return e.deliverStub(stub, result)
		}
		if err != ErrBadVeneerSlot {
			return err
		}
	}
	return e.enterFunction(addr, args, stub, -1)
}

func (e *Engine) execCallFixed(addr uint32, args []uint32, dest storeRef) error {
	destType, destAddr := e.storeRefForOperand(dest)
	stub := callStub{DestType: destType, DestAddr: destAddr, ResumePC: e.pc, SavedFP: e.fp}
	if v, ok := e.veneer.Lookup(addr); ok {
		result, err := execVeneer(e, v, args)
		if err == nil {
			return e.deliverStub(stub, result)
		}
		if err != ErrBadVeneerSlot {
			return err
		}
	}
	return e.enterFunction(addr, args, stub, -1)
}

// deliverStub stores a veneer's immediate result as though the current
// instruction's call had returned it, without pushing a frame.
func (e *Engine) deliverStub(stub callStub, value uint32) error {
	switch stub.DestType {
	case destDiscard:
		return nil
	case destStack:
		return e.pushStack(value)
	default:
		var kind uint8 = sMem32
		if stub.DestType == destLocal {
			kind = sLocal32
		}
		return e.store(storeRef{kind: kind, raw: stub.DestAddr}, value, 4)
	}
}

func (e *Engine) execTailCall(addr, argc uint32) error {
	args, err := e.popArgs(argc)
	if err != nil {
		return err
	}
	if len(e.frames) == 0 {
		return ErrStackUnderflow
	}
	cur := e.frames[len(e.frames)-1]
	e.frames = e.frames[:len(e.frames)-1]
	e.sp = cur.fp
	if len(e.frames) > 0 {
		e.fp = e.frames[len(e.frames)-1].fp
	}
	return e.enterFunction(addr, args, cur.stub, cur.catchBase)
}

func (e *Engine) execReturn(value uint32) error {
	_, err := e.leaveFunction(value)
	return err
}

func (e *Engine) execCatch(dest storeRef, branchOffset uint32) error {
	f := e.curFrame()
	if f == nil {
		return ErrStackUnderflow
	}
	destType, destAddr := e.storeRefForOperand(dest)
	token := e.sp
	cp := catchPoint{
		token:      token,
		resumePC:   e.pc,
		fp:         e.fp,
		layout:     f.layout,
		frameDepth: len(e.frames),
		destType:   destType,
		destAddr:   destAddr,
	}
	e.catches = append(e.catches, cp)
	if err := e.store(dest, token, 4); err != nil {
		return err
	}
	return e.doBranch(int32(branchOffset))
}

func (e *Engine) execThrow(value, token uint32) error {
	for i := len(e.catches) - 1; i >= 0; i-- {
		if e.catches[i].token != token {
			continue
		}
		cp := e.catches[i]
		e.catches = e.catches[:i]
		e.frames = e.frames[:cp.frameDepth]
		e.fp = cp.fp
		e.sp = cp.token
		e.pc = cp.resumePC
		switch cp.destType {
		case destDiscard:
		case destStack:
			return e.pushStack(value)
		default:
			kind := uint8(sMem32)
			if cp.destType == destLocal {
				kind = sLocal32
			}
			return e.store(storeRef{kind: kind, raw: cp.destAddr}, value, 4)
		}
		return nil
	}
	return ErrBadCatchToken
}

// doBranch implements spec.md §4.2's branch-offset rule: 0 returns false,
// 1 returns true, anything else adds (offset-2) to the address of the
// instruction following the branch.
func (e *Engine) doBranch(offset int32) error {
	switch offset {
	case 0:
		return e.execReturn(0)
	case 1:
		return e.execReturn(1)
	default:
		e.pc = uint32(int64(e.pc) + int64(offset) - 2)
		return nil
	}
}
