package glulx

// Gestalt selectors, spec.md §4.5.
const (
	gestaltGlulxVersion = 0
	gestaltTerpVersion  = 1
	gestaltResizeMem    = 2
	gestaltUndo         = 3
	gestaltIOSystem     = 4
	gestaltUnicode      = 5
	gestaltMemCopy      = 6
	gestaltMAlloc       = 7
	gestaltMAllocHeap   = 8
	gestaltAcceleration = 9
	gestaltAccelFunc    = 10
	gestaltFloat        = 11
)

func (e *Engine) execGestalt(selector, arg uint32, dest storeRef) error {
	var result uint32
	switch selector {
	case gestaltGlulxVersion:
		result = 0x00030102
	case gestaltTerpVersion:
		result = 0x00010000
	case gestaltResizeMem, gestaltUndo, gestaltMemCopy, gestaltMAlloc, gestaltAcceleration, gestaltFloat:
		result = 1
	case gestaltIOSystem:
		switch arg {
		case 0, 1, 2, 20:
			result = 1
		}
	case gestaltUnicode:
		result = 1
	case gestaltMAllocHeap:
		result = e.heap.HeapStart()
	case gestaltAccelFunc:
		if _, ok := e.accelFuncs[arg]; ok {
			result = 1
		}
	default:
		return ErrBadGestalt
	}
	return e.store(dest, result, 4)
}

func (e *Engine) execRandom(n uint32) uint32 {
	switch s := int32(n); {
	case s > 0:
		return uint32(e.rng.Int63n(int64(s)))
	case s < 0:
		return uint32(-int32(e.rng.Int63n(-int64(s))))
	default:
		return e.rng.Uint32()
	}
}

func (e *Engine) seedRandom(n uint32) {
	if n == 0 {
		e.rng = randFromTime()
		return
	}
	e.rng = randFromSeed(int64(int32(n)))
}
