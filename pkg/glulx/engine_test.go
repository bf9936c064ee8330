package glulx

import "testing"

func TestFetchOpcodeNumberVariableLength(t *testing.T) {
	tests := []struct {
		name   string
		bytes  []byte
		want   uint32
		wantPC uint32
	}{
		{"single byte", []byte{0x10}, 0x10, 1},
		{"two byte", []byte{0x81, 0x23}, 0x123, 2},
		{"four byte", []byte{0xC0, 0x00, 0x01, 0x00}, 0x100, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img := buildImage(t, tc.bytes, uint32(hdrMinLength+len(tc.bytes)), uint32(hdrMinLength+len(tc.bytes))+64)
			e := &Engine{image: img, pc: hdrMinLength}
			got, err := e.fetchOpcodeNumber()
			if err != nil {
				t.Fatalf("fetchOpcodeNumber: %v", err)
			}
			if got != tc.want {
				t.Errorf("opcode = %#x, want %#x", got, tc.want)
			}
			if want := uint32(hdrMinLength) + tc.wantPC; e.pc != want {
				t.Errorf("pc = %d, want %d", e.pc, want)
			}
		})
	}
}

func TestStepAddStoresToStack(t *testing.T) {
	// opAdd(lConst8=7, lConst8=5, sStack)
	instr := []byte{opAdd, 0x11, 0x08, 7, 5}
	img := buildImage(t, instr, uint32(hdrMinLength+len(instr)), uint32(hdrMinLength+len(instr))+64)
	e := &Engine{image: img, pc: hdrMinLength, stack: make([]byte, 64)}
	if err := e.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if e.sp != 4 {
		t.Fatalf("sp = %d, want 4", e.sp)
	}
	if got := beU32(e.stack[0:]); got != 12 {
		t.Errorf("stack[0] = %d, want 12", got)
	}
}

func TestStepUnknownOpcodeFails(t *testing.T) {
	instr := []byte{0x7F} // not in opSchema
	img := buildImage(t, instr, uint32(hdrMinLength+len(instr)), uint32(hdrMinLength+len(instr))+64)
	e := &Engine{image: img, pc: hdrMinLength, stack: make([]byte, 64)}
	if err := e.Step(); err != ErrBadOpcode {
		t.Errorf("Step = %v, want ErrBadOpcode", err)
	}
}

// minimalFunc lays out a 0xC0 (stack-args), no-locals function whose body is
// the given bytecode.
func minimalFunc(body ...byte) []byte {
	return append([]byte{0xC0, 0, 0}, body...)
}

func TestEnterAndLeaveOutermostFunctionHalts(t *testing.T) {
	// Function body: return 99 -> opReturn(lConst8=99)
	body := minimalFunc(opReturn, 0x01, 99)
	base := uint32(hdrMinLength)
	img := buildImage(t, body, base+uint32(len(body)), base+uint32(len(body))+64)
	e := &Engine{image: img, stack: make([]byte, 64), running: true}

	stub := callStub{DestType: destStack}
	if err := e.enterFunction(base, nil, stub, -1); err != nil {
		t.Fatalf("enterFunction: %v", err)
	}
	if len(e.frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(e.frames))
	}

	if err := e.Step(); err != nil {
		t.Fatalf("Step (return): %v", err)
	}
	if e.running {
		t.Error("running should be false after the outermost frame returns")
	}
	if len(e.frames) != 0 {
		t.Errorf("frames = %d, want 0 after return", len(e.frames))
	}
}

func TestCatchAndThrowUnwindsToToken(t *testing.T) {
	layout := &funcLayout{frameLen: 8, localsPos: 8}
	e := &Engine{
		stack:  make([]byte, 64),
		frames: []frameRecord{{fp: 0, layout: layout, catchBase: 0}},
		fp:     0,
		sp:     8,
		pc:     0x50,
	}
	dest := storeRef{kind: sStack}
	// A branch offset of 2 resolves to "jump to right after this
	// instruction" (doBranch: pc += offset-2), leaving pc unchanged here.
	if err := e.execCatch(dest, 2); err != nil {
		t.Fatalf("execCatch: %v", err)
	}
	token, err := e.popStack()
	if err != nil {
		t.Fatalf("popStack: %v", err)
	}
	if len(e.catches) != 1 || e.catches[0].token != token {
		t.Fatalf("catch point not recorded: %+v", e.catches)
	}

	// Simulate having pushed more stack/state since the catch, then throw
	// back to it with a result value.
	if err := e.pushStack(0xDEAD); err != nil {
		t.Fatalf("pushStack: %v", err)
	}
	if err := e.execThrow(77, token); err != nil {
		t.Fatalf("execThrow: %v", err)
	}
	if len(e.catches) != 0 {
		t.Errorf("catches = %d, want 0 after throw unwinds past it", len(e.catches))
	}
	if e.sp != token+4 {
		t.Errorf("sp = %d, want %d (token slot plus the delivered value)", e.sp, token+4)
	}
	got, _ := e.popStack()
	if got != 77 {
		t.Errorf("thrown value = %d, want 77", got)
	}
}

func TestThrowUnknownTokenFails(t *testing.T) {
	e := &Engine{stack: make([]byte, 64)}
	if err := e.execThrow(1, 0xBAD); err != ErrBadCatchToken {
		t.Errorf("execThrow = %v, want ErrBadCatchToken", err)
	}
}
