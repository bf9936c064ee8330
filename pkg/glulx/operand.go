package glulx

// Load operand type nibbles (spec.md §4.2).
const (
	lZero        = 0x0
	lConst8      = 0x1
	lConst16     = 0x2
	lConst32     = 0x3
	lMem8        = 0x5
	lMem16       = 0x6
	lMem32       = 0x7
	lStack       = 0x8
	lLocal8      = 0x9
	lLocal16     = 0xA
	lLocal32     = 0xB
	lRAM8        = 0xD
	lRAM16       = 0xE
	lRAM32       = 0xF
)

// Store operand type nibbles.
const (
	sDiscard = 0x0
	sMem8    = 0x5
	sMem16   = 0x6
	sMem32   = 0x7
	sStack   = 0x8
	sLocal8  = 0x9
	sLocal16 = 0xA
	sLocal32 = 0xB
	sRAM8    = 0xD
	sRAM16   = 0xE
	sRAM32   = 0xF
)

// operandFieldWidth reports the byte width of the raw addr/constant field
// that follows a load or store type nibble: 0 for zero/discard/stack, 1/2/4
// for the 1-, 2- and 4-byte forms of each group, and -1 for an invalid type.
func operandFieldWidth(kind uint8) int {
	switch kind {
	case lZero, lStack:
		return 0
	case lConst8, lMem8, lLocal8, lRAM8:
		return 1
	case lConst16, lMem16, lLocal16, lRAM16:
		return 2
	case lConst32, lMem32, lLocal32, lRAM32:
		return 4
	default:
		return -1
	}
}

func signExtend(v uint32, width int) uint32 {
	switch width {
	case 1:
		return uint32(int32(int8(v)))
	case 2:
		return uint32(int32(int16(v)))
	default:
		return v
	}
}

// fetchOperandField reads the width-byte field for a load/store operand at
// pc, advancing pc, per its type's encoding width.
func (e *Engine) fetchOperandField(kind uint8) (uint32, error) {
	width := operandFieldWidth(kind)
	if width < 0 {
		return 0, ErrBadOperand
	}
	switch width {
	case 0:
		return 0, nil
	case 1:
		v, err := e.image.ReadU8(e.pc)
		e.pc++
		return uint32(v), err
	case 2:
		v, err := e.image.ReadU16(e.pc)
		e.pc += 2
		return uint32(v), err
	default:
		v, err := e.image.ReadU32(e.pc)
		e.pc += 4
		return v, err
	}
}

// loadValue evaluates a load operand of the given type nibble and raw field
// value to a 32-bit word. memWidth (1, 2, or 4) governs the width of a
// main-memory or RAM-relative access; it is 4 for every opcode except copyb
// (1) and copys (2).
func (e *Engine) loadValue(kind uint8, raw uint32, memWidth int) (uint32, error) {
	switch kind {
	case lZero:
		return 0, nil
	case lConst8:
		return signExtend(raw, 1), nil
	case lConst16:
		return signExtend(raw, 2), nil
	case lConst32:
		return raw, nil
	case lStack:
		return e.popStack()
	case lLocal8, lLocal16, lLocal32:
		return e.readLocal(raw)
	case lMem8, lRAM8:
		addr := raw
		if kind == lRAM8 {
			addr += e.image.RAMStart()
		}
		return e.readMemWidth(addr, memWidth)
	case lMem16, lRAM16:
		addr := raw
		if kind == lRAM16 {
			addr += e.image.RAMStart()
		}
		return e.readMemWidth(addr, memWidth)
	case lMem32, lRAM32:
		addr := raw
		if kind == lRAM32 {
			addr += e.image.RAMStart()
		}
		return e.readMemWidth(addr, memWidth)
	default:
		return 0, ErrBadOperand
	}
}

func (e *Engine) readMemWidth(addr uint32, width int) (uint32, error) {
	switch width {
	case 1:
		v, err := e.image.ReadU8(addr)
		return uint32(v), err
	case 2:
		v, err := e.image.ReadU16(addr)
		return uint32(v), err
	default:
		return e.image.ReadU32(addr)
	}
}

func (e *Engine) writeMemWidth(addr uint32, v uint32, width int) error {
	switch width {
	case 1:
		return e.image.WriteU8(addr, uint8(v))
	case 2:
		return e.image.WriteU16(addr, uint16(v))
	default:
		return e.image.WriteU32(addr, v)
	}
}

// storeValue writes v to a store operand of the given type nibble and raw
// field, with the same memWidth convention as loadValue.
func (e *Engine) storeValue(kind uint8, raw uint32, v uint32, memWidth int) error {
	switch kind {
	case sDiscard:
		return nil
	case sStack:
		return e.pushStack(v)
	case sLocal8, sLocal16, sLocal32:
		return e.writeLocal(raw, v)
	case sMem8, sRAM8:
		addr := raw
		if kind == sRAM8 {
			addr += e.image.RAMStart()
		}
		return e.writeMemWidth(addr, v, memWidth)
	case sMem16, sRAM16:
		addr := raw
		if kind == sRAM16 {
			addr += e.image.RAMStart()
		}
		return e.writeMemWidth(addr, v, memWidth)
	case sMem32, sRAM32:
		addr := raw
		if kind == sRAM32 {
			addr += e.image.RAMStart()
		}
		return e.writeMemWidth(addr, v, memWidth)
	default:
		return ErrBadOperand
	}
}
