package glulx

// dispatch executes the semantics of a decoded instruction: loads holds
// already-evaluated load-operand values in declaration order; stores holds
// undischarged store operands in declaration order.
func (e *Engine) dispatch(op uint32, loads []uint32, stores []storeRef, memWidth int) error {
	switch {
	case op == opNop:
		return nil
	case isArithmetic(op):
		return e.execArithmetic(op, loads, stores)
	case isBranch(op):
		return e.execBranch(op, loads)
	case op == opCall:
		return e.execCall(loads[0], loads[1], stores[0])
	case op == opCallF:
		return e.execCallFixed(loads[0], nil, stores[0])
	case op == opCallFI:
		return e.execCallFixed(loads[0], loads[1:2], stores[0])
	case op == opCallFII:
		return e.execCallFixed(loads[0], loads[1:3], stores[0])
	case op == opCallFIII:
		return e.execCallFixed(loads[0], loads[1:4], stores[0])
	case op == opTailCall:
		return e.execTailCall(loads[0], loads[1])
	case op == opReturn:
		return e.execReturn(loads[0])
	case op == opCatch:
		return e.execCatch(stores[0], loads[0])
	case op == opThrow:
		return e.execThrow(loads[0], loads[1])
	case isDataOp(op):
		return e.execData(op, loads, stores, memWidth)
	case isStackOp(op):
		return e.execStackOp(op, loads, stores)
	case isStreamOp(op):
		return e.execStream(op, loads[0])
	case isMemoryOp(op):
		return e.execMemoryOp(op, loads, stores)
	case isSearchOp(op):
		return e.execSearch(op, loads, stores)
	case isGameStateOp(op):
		return e.execGameState(op, loads, stores)
	case op == opGestalt:
		return e.execGestalt(loads[0], loads[1], stores[0])
	case op == opDebugTrap:
		return nil // no attached debugger; a no-op is a valid response
	case op == opRandom:
		return e.store(stores[0], e.execRandom(loads[0]), 4)
	case op == opSetRandom:
		e.seedRandom(loads[0])
		return nil
	case op == opGlk:
		return e.execGlk(loads[0], loads[1], stores[0])
	case op == opGetStringTbl:
		addr := uint32(0)
		if e.decoding != nil {
			addr = e.decoding.addr
		}
		return e.store(stores[0], addr, 4)
	case op == opSetStringTbl:
		dt, err := LoadDecodingTable(e.image, loads[0])
		if err != nil {
			return err
		}
		e.decoding = dt
		return nil
	case op == opGetIOSys:
		if err := e.store(stores[0], e.outputSystem, 4); err != nil {
			return err
		}
		return e.store(stores[1], e.filterAddress, 4)
	case op == opSetIOSys:
		e.outputSystem = loads[0]
		e.filterAddress = loads[1]
		return nil
	case op == opAccelFunc:
		if loads[1] == 0 {
			delete(e.accelFuncs, loads[0])
		} else {
			e.accelFuncs[loads[0]] = loads[1]
		}
		return nil
	case op == opAccelParam:
		if loads[0] < uint32(len(e.accelParams)) {
			e.accelParams[loads[0]] = loads[1]
		}
		return nil
	case isFloatOp(op):
		return e.execFloat(op, loads, stores)
	default:
		return ErrBadOpcode
	}
}

func isArithmetic(op uint32) bool {
	switch op {
	case opAdd, opSub, opMul, opDiv, opMod, opNeg,
		opBitAnd, opBitOr, opBitXor, opBitNot, opShiftL, opSShiftR, opUShiftR:
		return true
	}
	return false
}

func isBranch(op uint32) bool {
	switch op {
	case opJump, opJZ, opJNZ, opJEq, opJNe, opJLt, opJGe, opJGt, opJLe,
		opJLtU, opJGeU, opJGtU, opJLeU, opJumpAbs:
		return true
	}
	return false
}

func isDataOp(op uint32) bool {
	switch op {
	case opCopy, opCopyS, opCopyB, opSexS, opSexB,
		opALoad, opALoadS, opALoadB, opALoadBit,
		opAStore, opAStoreS, opAStoreB, opAStoreBit:
		return true
	}
	return false
}

func isStackOp(op uint32) bool {
	switch op {
	case opStkCount, opStkPeek, opStkSwap, opStkRoll, opStkCopy:
		return true
	}
	return false
}

func isStreamOp(op uint32) bool {
	switch op {
	case opStreamChar, opStreamNum, opStreamStr, opStreamUnichar:
		return true
	}
	return false
}

func isMemoryOp(op uint32) bool {
	switch op {
	case opMZero, opMCopy, opMAlloc, opMFree, opGetMemSize, opSetMemSize, opProtect:
		return true
	}
	return false
}

func isSearchOp(op uint32) bool {
	switch op {
	case opLinearSearch, opBinarySearch, opLinkedSearch:
		return true
	}
	return false
}

func isGameStateOp(op uint32) bool {
	switch op {
	case opQuit, opVerify, opRestart, opSave, opRestore, opSaveUndo, opRestoreUndo:
		return true
	}
	return false
}

func isFloatOp(op uint32) bool {
	switch op {
	case opNumToF, opFToNumZ, opFToNumN, opCeil, opFloor,
		opFAdd, opFSub, opFMul, opFDiv, opFMod,
		opSqrt, opExp, opLog, opPow,
		opSin, opCos, opTan, opASin, opACos, opATan, opATan2,
		opJFEq, opJFNe, opJFLt, opJFLe, opJFGt, opJFGe, opJIsNaN, opJIsInf:
		return true
	}
	return false
}
