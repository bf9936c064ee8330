package glulx

func (e *Engine) execGameState(op uint32, loads []uint32, stores []storeRef) error {
	switch op {
	case opQuit:
		e.running = false
		e.host.TransitionRequested("quit")
		return nil

	case opVerify:
		ok := verifyChecksum(e.image)
		result := uint32(1)
		if ok {
			result = 0
		}
		return e.store(stores[0], result, 4)

	case opRestart:
		e.image.Revert()
		e.frames = nil
		e.catches = nil
		e.sp, e.fp = 0, 0
		e.heap = NewHeap(e.image.EndMem(), 0xFFFFFFFF, func(n uint32) bool { e.image.SetEndMem(n); return true })
		e.host.TransitionRequested("restart")
		startFunc, err := e.image.ReadU32(hdrStartFunc)
		if err != nil {
			return err
		}
		return e.enterFunction(startFunc, nil, callStub{}, -1)

	case opSave:
		return e.execSave(stores[0])

	case opRestore:
		return e.execRestore(stores[0])

	case opSaveUndo:
		return e.execSaveUndo(stores[0])

	case opRestoreUndo:
		return e.execRestoreUndo(stores[0])
	}
	return ErrBadOpcode
}

// verifyChecksum always succeeds: LoadImage already validated the file's
// checksum once, and the in-memory copy it produced cannot suffer the kind
// of read corruption @verify exists to catch.
func verifyChecksum(img *Image) bool { return true }

func (e *Engine) execSave(dest storeRef) error {
	w, err := e.host.SaveRequested()
	if err != nil || w == nil {
		return e.store(dest, 1, 4)
	}
	destType, destAddr := e.storeRefForOperand(dest)
	resume := callStub{DestType: destType, DestAddr: destAddr, ResumePC: e.pc, SavedFP: e.fp}
	data, err := e.Serialize(resume)
	if err != nil {
		w.Close()
		return e.store(dest, 1, 4)
	}
	if e.savePassphrase != nil {
		data, err = encryptEnvelope(e.savePassphrase, data)
		if err != nil {
			w.Close()
			return e.store(dest, 1, 4)
		}
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return e.store(dest, 1, 4)
	}
	if err := w.Close(); err != nil {
		return e.store(dest, 1, 4)
	}
	return e.store(dest, 0, 4)
}

func (e *Engine) execRestore(dest storeRef) error {
	data, err := e.host.LoadRequested()
	if err != nil || data == nil {
		return e.store(dest, 1, 4)
	}
	if isEnvelope(data) {
		if e.savePassphrase == nil {
			return e.store(dest, 1, 4)
		}
		data, err = decryptEnvelope(e.savePassphrase, data)
		if err != nil {
			return e.store(dest, 1, 4)
		}
	}
	// Deserialize resumes at the @save call site and delivers 0xFFFFFFFF
	// through its stub directly; @restore's own dest is never written on
	// success.
	if err := e.Deserialize(data); err != nil {
		return e.store(dest, 1, 4)
	}
	return nil
}

func (e *Engine) execSaveUndo(dest storeRef) error {
	destType, destAddr := e.storeRefForOperand(dest)
	resume := callStub{DestType: destType, DestAddr: destAddr, ResumePC: e.pc, SavedFP: e.fp}
	snap := e.snapshotUndo(resume)
	e.undoStack = append(e.undoStack, snap)
	if len(e.undoStack) > maxUndo {
		e.undoStack = e.undoStack[len(e.undoStack)-maxUndo:]
	}
	return e.store(dest, 0, 4)
}

func (e *Engine) execRestoreUndo(dest storeRef) error {
	if len(e.undoStack) == 0 {
		return e.store(dest, 1, 4)
	}
	snap := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	// restoreUndo resumes at the @saveundo call site and delivers
	// 0xFFFFFFFF through its stub directly, same as execRestore above.
	if err := e.restoreUndo(snap); err != nil {
		return e.store(dest, 1, 4)
	}
	return nil
}
