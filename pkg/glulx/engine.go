package glulx

import (
	"context"
	"math/rand"
)

// frameRecord is one live call frame on the value stack.
type frameRecord struct {
	fp        uint32
	layout    *funcLayout
	stub      callStub
	catchBase int // len(Engine.catches) at the time this frame was entered
}

// catchPoint is a pending catch target, valid until a matching throw or
// until its enclosing frame returns.
type catchPoint struct {
	token      uint32
	resumePC   uint32
	fp         uint32
	layout     *funcLayout
	frameDepth int
	destType   uint32
	destAddr   uint32
}

// Engine is a single Glulx program in execution: an Image, its stack, heap,
// output channels, and the handful of global registers spec.md §3
// describes. It runs synchronously; a blocking "line wanted"/"key wanted"
// request is satisfied by the Host before Step returns to the caller.
type Engine struct {
	image    *Image
	heap     *Heap
	channels *Channels
	decoding *DecodingTable
	veneer   *VeneerRegistry
	host     Host
	rng      *rand.Rand

	stack []byte
	sp    uint32
	fp    uint32
	frames []frameRecord
	catches []catchPoint

	pc      uint32
	running bool

	outputSystem  uint32 // 0 null, 1 filter, 2 glk/library, 20 channels
	filterAddress uint32

	protectionStart  uint32
	protectionLength uint32

	accelFuncs  map[uint32]uint32 // index -> function address
	accelParams [8]uint32

	undoStack [][]byte // FIFO of up to 3 full-state snapshots

	// printStack holds suspended compressed-string decode walks, one per
	// indirect-node target currently executing as a nested function call.
	// It is a stack because such suspensions nest exactly as deep as the
	// indirect calls do.
	printStack []printState

	instructions uint64

	// savePassphrase, when non-nil, wraps save files written by execSave
	// (and expected by execRestore) in the GSZ1 encryption envelope. It
	// never applies to undoStack, which stays in process memory only.
	savePassphrase []byte
}

const maxUndo = 3

// NewEngine constructs an Engine ready to run from img's start function.
func NewEngine(img *Image, host Host) (*Engine, error) {
	stackSize, err := img.ReadU32(hdrStackSize)
	if err != nil {
		return nil, err
	}
	startFunc, err := img.ReadU32(hdrStartFunc)
	if err != nil {
		return nil, err
	}
	decodeAddr, err := img.ReadU32(hdrDecodingTable)
	if err != nil {
		return nil, err
	}
	dt, err := LoadDecodingTable(img, decodeAddr)
	if err != nil {
		return nil, err
	}

	eng := &Engine{
		image:    img,
		channels: NewChannels(),
		decoding: dt,
		veneer:   NewVeneerRegistry(),
		host:     host,
		rng:      rand.New(rand.NewSource(1)),
		stack:    make([]byte, stackSize),
		accelFuncs: make(map[uint32]uint32),
		running:  true,
	}
	eng.heap = NewHeap(img.EndMem(), 0xFFFFFFFF, func(newEnd uint32) bool {
		img.SetEndMem(newEnd)
		return true
	})

	if err := eng.enterFunction(startFunc, nil, callStub{}, -1); err != nil {
		return nil, err
	}
	return eng, nil
}

// Running reports whether the program has not yet quit or returned from its
// outermost frame.
func (e *Engine) Running() bool { return e.running }

// Run steps the engine until it halts, a Step returns an error, or ctx is
// canceled (checked between instructions). Host input callbacks block inside
// Step, so Run does not return while one is waiting for input.
func (e *Engine) Run(ctx context.Context) error {
	for e.running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step decodes and executes a single instruction.
func (e *Engine) Step() error {
	e.instructions++
	opNum, err := e.fetchOpcodeNumber()
	if err != nil {
		return err
	}
	schema, ok := opSchema[opNum]
	if !ok {
		return ErrBadOpcode
	}

	kinds := make([]uint8, len(schema))
	for i := 0; i < len(schema); i += 2 {
		b, err := e.image.ReadU8(e.pc)
		if err != nil {
			return err
		}
		e.pc++
		kinds[i] = b & 0x0F
		if i+1 < len(schema) {
			kinds[i+1] = (b >> 4) & 0x0F
		}
	}

	memWidth := memWidthOf(opNum)
	var loads []uint32
	var stores []storeRef
	for i, tag := range schema {
		kind := kinds[i]
		raw, err := e.fetchOperandField(kind)
		if err != nil {
			return err
		}
		if tag == opdLoad {
			v, err := e.loadValue(kind, raw, memWidth)
			if err != nil {
				return err
			}
			loads = append(loads, v)
		} else {
			stores = append(stores, storeRef{kind: kind, raw: raw})
		}
	}

	return e.dispatch(opNum, loads, stores, memWidth)
}

// storeRef is an undischarged store operand: its addressing mode is known,
// but the value to write is produced by the opcode's own logic.
type storeRef struct {
	kind uint8
	raw  uint32
}

func (e *Engine) store(ref storeRef, v uint32, memWidth int) error {
	return e.storeValue(ref.kind, ref.raw, v, memWidth)
}

// fetchOpcodeNumber reads a variable-length opcode number per spec.md §4.2.
func (e *Engine) fetchOpcodeNumber() (uint32, error) {
	b0, err := e.image.ReadU8(e.pc)
	if err != nil {
		return 0, err
	}
	switch {
	case b0&0x80 == 0:
		e.pc++
		return uint32(b0), nil
	case b0&0xC0 == 0x80:
		b1, err := e.image.ReadU8(e.pc + 1)
		if err != nil {
			return 0, err
		}
		e.pc += 2
		return (uint32(b0&0x3F) << 8) | uint32(b1), nil
	default:
		b1, err := e.image.ReadU8(e.pc + 1)
		if err != nil {
			return 0, err
		}
		b2, err := e.image.ReadU8(e.pc + 2)
		if err != nil {
			return 0, err
		}
		b3, err := e.image.ReadU8(e.pc + 3)
		if err != nil {
			return 0, err
		}
		e.pc += 4
		return (uint32(b0&0x3F) << 24) | (uint32(b1) << 16) | (uint32(b2) << 8) | uint32(b3), nil
	}
}

// --- stack and local-variable primitives ---

func (e *Engine) curFrame() *frameRecord {
	if len(e.frames) == 0 {
		return nil
	}
	return &e.frames[len(e.frames)-1]
}

func (e *Engine) pushStack(v uint32) error {
	if e.sp+4 > uint32(len(e.stack)) {
		return ErrStackOverflow
	}
	putBeU32(e.stack[e.sp:], v)
	e.sp += 4
	return nil
}

func (e *Engine) popStack() (uint32, error) {
	floor := e.fp
	if f := e.curFrame(); f != nil {
		floor = f.fp + f.layout.frameLen
	}
	if e.sp < floor+4 {
		return 0, ErrStackUnderflow
	}
	e.sp -= 4
	return beU32(e.stack[e.sp:]), nil
}

func (e *Engine) stackDepthWords() uint32 {
	floor := e.fp
	if f := e.curFrame(); f != nil {
		floor = f.fp + f.layout.frameLen
	}
	return (e.sp - floor) / 4
}

func (e *Engine) readLocal(offset uint32) (uint32, error) {
	f := e.curFrame()
	if f == nil {
		return 0, ErrStackUnderflow
	}
	size, base, err := localSlot(f.layout, offset)
	if err != nil {
		return 0, err
	}
	return e.readMemWidth(f.fp+f.layout.localsPos+base, int(size))
}

func (e *Engine) writeLocal(offset, v uint32) error {
	f := e.curFrame()
	if f == nil {
		return ErrStackUnderflow
	}
	size, base, err := localSlot(f.layout, offset)
	if err != nil {
		return err
	}
	return e.writeMemWidth(f.fp+f.layout.localsPos+base, v, int(size))
}

func localSlot(fl *funcLayout, offset uint32) (size uint8, base uint32, err error) {
	for i, off := range fl.slotOffset {
		if off == offset {
			return fl.slotSize[i], off, nil
		}
	}
	return 0, 0, ErrOutOfRange
}

// --- frame construction ---

// enterFunction builds a new top-of-stack frame for the function at addr,
// passing args per its declared locals-format, and links stub as its
// return continuation. parentCatchBase is the catch-stack depth to restore
// to when this frame returns; -1 means the current catch-stack depth.
func (e *Engine) enterFunction(addr uint32, args []uint32, stub callStub, parentCatchBase int) error {
	layout, err := readFuncLayout(e.image, addr)
	if err != nil {
		return err
	}
	if parentCatchBase < 0 {
		parentCatchBase = len(e.catches)
	}

	newFP := e.sp
	if newFP+layout.frameLen > uint32(len(e.stack)) {
		return ErrStackOverflow
	}
	for i := uint32(0); i < layout.frameLen; i++ {
		e.stack[newFP+i] = 0
	}
	e.sp = newFP + layout.frameLen
	e.fp = newFP

	e.frames = append(e.frames, frameRecord{fp: newFP, layout: layout, stub: stub, catchBase: parentCatchBase})

	if layout.stackArgs {
		for i := len(args) - 1; i >= 0; i-- {
			if err := e.pushStack(args[i]); err != nil {
				return err
			}
		}
		if err := e.pushStack(uint32(len(args))); err != nil {
			return err
		}
	} else {
		for i, off := range layout.slotOffset {
			if i >= len(args) {
				break
			}
			if err := e.writeMemWidth(newFP+layout.localsPos+off, args[i], int(layout.slotSize[i])); err != nil {
				return err
			}
		}
	}

	e.pc = layout.codeStart
	return nil
}

// leaveFunction pops the current frame, restores the caller's context, and
// delivers value to the stub's destination. Returns false when the popped
// frame was the outermost one (the program has ended).
func (e *Engine) leaveFunction(value uint32) (bool, error) {
	if len(e.frames) == 0 {
		return false, ErrStackUnderflow
	}
	f := e.frames[len(e.frames)-1]
	e.frames = e.frames[:len(e.frames)-1]
	if len(e.catches) > f.catchBase {
		e.catches = e.catches[:f.catchBase]
	}

	e.sp = f.fp
	if len(e.frames) == 0 {
		e.running = false
		return false, nil
	}
	e.fp = e.frames[len(e.frames)-1].fp

	if f.stub.DestType == destResumeCompressed {
		return true, e.resumeCompressedPrint()
	}

	ref := storeRef{kind: destKindToOperandKind(f.stub.DestType), raw: f.stub.DestAddr}
	e.pc = f.stub.ResumePC
	switch f.stub.DestType {
	case destDiscard:
	case destStack:
		if err := e.pushStack(value); err != nil {
			return false, err
		}
	default:
		if err := e.store(ref, value, 4); err != nil {
			return false, err
		}
	}
	return true, nil
}

// destKindToOperandKind maps a callStub destination type back to the store
// operand kind needed by storeValue for memory/local destinations.
func destKindToOperandKind(dt uint32) uint8 {
	switch dt {
	case destMemory:
		return sMem32
	case destLocal:
		return sLocal32
	default:
		return sDiscard
	}
}

// storeRefForOperand converts a decoded store operand into a callStub
// destination, resolving RAM-relative addresses to absolute ones so the
// stub only ever needs to distinguish memory/local/stack/discard.
func (e *Engine) storeRefForOperand(ref storeRef) (destType, destAddr uint32) {
	switch ref.kind {
	case sDiscard:
		return destDiscard, 0
	case sStack:
		return destStack, 0
	case sLocal8, sLocal16, sLocal32:
		return destLocal, ref.raw
	case sRAM8, sRAM16, sRAM32:
		return destMemory, e.image.RAMStart() + ref.raw
	default:
		return destMemory, ref.raw
	}
}
