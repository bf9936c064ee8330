package glulx

func (e *Engine) execBranch(op uint32, loads []uint32) error {
	switch op {
	case opJump:
		return e.doBranch(int32(loads[0]))
	case opJumpAbs:
		e.pc = loads[0]
		return nil
	case opJZ:
		if loads[0] == 0 {
			return e.doBranch(int32(loads[1]))
		}
		return nil
	case opJNZ:
		if loads[0] != 0 {
			return e.doBranch(int32(loads[1]))
		}
		return nil
	case opJEq:
		if loads[0] == loads[1] {
			return e.doBranch(int32(loads[2]))
		}
		return nil
	case opJNe:
		if loads[0] != loads[1] {
			return e.doBranch(int32(loads[2]))
		}
		return nil
	case opJLt:
		if int32(loads[0]) < int32(loads[1]) {
			return e.doBranch(int32(loads[2]))
		}
		return nil
	case opJGe:
		if int32(loads[0]) >= int32(loads[1]) {
			return e.doBranch(int32(loads[2]))
		}
		return nil
	case opJGt:
		if int32(loads[0]) > int32(loads[1]) {
			return e.doBranch(int32(loads[2]))
		}
		return nil
	case opJLe:
		if int32(loads[0]) <= int32(loads[1]) {
			return e.doBranch(int32(loads[2]))
		}
		return nil
	case opJLtU:
		if loads[0] < loads[1] {
			return e.doBranch(int32(loads[2]))
		}
		return nil
	case opJGeU:
		if loads[0] >= loads[1] {
			return e.doBranch(int32(loads[2]))
		}
		return nil
	case opJGtU:
		if loads[0] > loads[1] {
			return e.doBranch(int32(loads[2]))
		}
		return nil
	case opJLeU:
		if loads[0] <= loads[1] {
			return e.doBranch(int32(loads[2]))
		}
		return nil
	}
	return ErrBadOpcode
}
