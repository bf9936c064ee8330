package glulx

// Component C6: the veneer. Inform's standard library compiles a handful of
// small, extremely hot routines (class dispatch, property lookup, checked
// array access) whose native equivalents are far faster than byte-by-byte
// execution. A slot is bound to an address when the game names both through
// the "set veneer" fyrecall request; calls to a bound address then run a Go
// function in place of interpretation. The engine does not inspect code
// bytes to recognize these routines, so calls to an address that was never
// bound run as ordinary bytecode.

// VeneerSlot names one recognized native override.
type VeneerSlot int

const (
	VeneerZRegion VeneerSlot = iota
	VeneerCPTab
	VeneerOCCl
	VeneerRAPr
	VeneerRLPr
	VeneerRVPr
	VeneerOPPr
	VeneerRTChLDW
	VeneerRTChSTW
	VeneerRTChLDB
	VeneerMetaClass
	VeneerUnsignedCompare
	veneerSlotCount
)

var veneerNames = map[VeneerSlot]string{
	VeneerZRegion:         "Z__Region",
	VeneerCPTab:           "CP__Tab",
	VeneerOCCl:            "OC__Cl",
	VeneerRAPr:            "RA__Pr",
	VeneerRLPr:            "RL__Pr",
	VeneerRVPr:            "RV__Pr",
	VeneerOPPr:            "OP__Pr",
	VeneerRTChLDW:         "RT__ChLDW",
	VeneerRTChSTW:         "RT__ChSTW",
	VeneerRTChLDB:         "RT__ChLDB",
	VeneerMetaClass:       "Meta__class",
	VeneerUnsignedCompare: "Unsigned__Compare",
}

// Name returns the veneer routine's canonical library name.
func (s VeneerSlot) Name() string { return veneerNames[s] }

// VeneerRegistry maps resolved function addresses to the slot they
// implement. Slots are bound only explicitly, by the game calling the
// "set veneer" fyrecall request with a selector and address; nothing binds a
// slot by matching a function's code bytes.
type VeneerRegistry struct {
	bySlot map[VeneerSlot]uint32
	byAddr map[uint32]VeneerSlot
}

// NewVeneerRegistry returns an empty registry.
func NewVeneerRegistry() *VeneerRegistry {
	return &VeneerRegistry{
		bySlot: make(map[VeneerSlot]uint32),
		byAddr: make(map[uint32]VeneerSlot),
	}
}

// Bind registers addr as the native implementation of slot.
func (v *VeneerRegistry) Bind(slot VeneerSlot, addr uint32) {
	v.bySlot[slot] = addr
	v.byAddr[addr] = slot
}

// Lookup reports whether addr has a bound veneer slot.
func (v *VeneerRegistry) Lookup(addr uint32) (VeneerSlot, bool) {
	s, ok := v.byAddr[addr]
	return s, ok
}

// AddressOf returns the function address bound to slot, or 0 if unbound.
func (v *VeneerRegistry) AddressOf(slot VeneerSlot) uint32 { return v.bySlot[slot] }

// classMeta mirrors Inform's object-class layout enough to answer the
// handful of questions the veneer routines need. The engine's object model
// is otherwise entirely bytecode-resident; the veneer only needs to walk a
// few well-known header words of it.
const (
	classMetaclassID = 2 // Inform's fixed "Class" metaclass object number
)

// execVeneer runs the native implementation of slot against eng's current
// register and memory state, consuming args (already evaluated per the
// callee's normal calling convention) and returning its single result.
// Unimplemented slots report ErrBadVeneerSlot so the caller can fall back to
// interpreting the bytecode instead.
func execVeneer(eng *Engine, slot VeneerSlot, args []uint32) (uint32, error) {
	switch slot {
	case VeneerUnsignedCompare:
		if len(args) < 2 {
			return 0, ErrBadOperand
		}
		a, b := args[0], args[1]
		switch {
		case a < b:
			return ^uint32(0), nil // -1
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}

	case VeneerZRegion:
		if len(args) < 1 {
			return 0, ErrBadOperand
		}
		return zRegion(eng, args[0]), nil

	case VeneerRTChLDB:
		if len(args) < 2 {
			return 0, ErrBadOperand
		}
		v, err := eng.image.ReadU8(args[0] + args[1])
		if err != nil {
			return 0, err
		}
		return uint32(v), nil

	case VeneerRTChLDW:
		if len(args) < 2 {
			return 0, ErrBadOperand
		}
		v, err := eng.image.ReadU32(args[0] + args[1]*4)
		if err != nil {
			return 0, err
		}
		return v, nil

	case VeneerRTChSTW:
		if len(args) < 3 {
			return 0, ErrBadOperand
		}
		if err := eng.image.WriteU32(args[0]+args[1]*4, args[2]); err != nil {
			return 0, err
		}
		return 0, nil

	default:
		// CP__Tab, OC__Cl, RA__Pr, RL__Pr, RV__Pr, OP__Pr, Meta__class
		// involve walking Inform's property-table layout, which is a
		// library-version-dependent object format the interpreter does
		// not otherwise need to understand. Calls to these fall back to
		// ordinary bytecode execution; binding them still lets a future
		// revision add the fast path without touching call sites.
		return 0, ErrBadVeneerSlot
	}
}

// zRegion classifies an address the way Inform's Z__Region routine does:
// 0 outside any region, 1 inside a string, 2 inside a routine, 3 an object
// number. Strings and routines are distinguished by the 0xE0/0xE1/0xE2/0xC0/
// 0xC1 tag byte at addr; anything else small enough to be an object number
// is classified as one.
func zRegion(eng *Engine, addr uint32) uint32 {
	if addr == 0 {
		return 0
	}
	if addr < eng.image.EndMem() {
		b, err := eng.image.ReadU8(addr)
		if err == nil {
			switch b {
			case 0xE0, 0xE1, 0xE2:
				return 1
			case 0xC0, 0xC1:
				return 2
			}
		}
	}
	if addr < 0x10000 {
		return 3
	}
	return 0
}
