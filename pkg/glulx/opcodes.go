package glulx

// Opcode numbers, spec.md §4.2 "Instruction set". Values follow the public
// Glulx 3.1.2 specification's assigned numbers.
const (
	opNop = 0x00

	opAdd     = 0x10
	opSub     = 0x11
	opMul     = 0x12
	opDiv     = 0x13
	opMod     = 0x14
	opNeg     = 0x15
	opBitAnd  = 0x18
	opBitOr   = 0x19
	opBitXor  = 0x1A
	opBitNot  = 0x1B
	opShiftL  = 0x1C
	opSShiftR = 0x1D
	opUShiftR = 0x1E

	opJump    = 0x20
	opJZ      = 0x22
	opJNZ     = 0x23
	opJEq     = 0x24
	opJNe     = 0x25
	opJLt     = 0x26
	opJGe     = 0x27
	opJGt     = 0x28
	opJLe     = 0x29
	opJLtU    = 0x2A
	opJGeU    = 0x2B
	opJGtU    = 0x2C
	opJLeU    = 0x2D
	opJumpAbs = 0x104

	opCall     = 0x30
	opReturn   = 0x31
	opCatch    = 0x32
	opThrow    = 0x33
	opTailCall = 0x34

	opCopy  = 0x40
	opCopyS = 0x41
	opCopyB = 0x42
	opSexS  = 0x44
	opSexB  = 0x45

	opALoad     = 0x48
	opALoadS    = 0x49
	opALoadB    = 0x4A
	opALoadBit  = 0x4B
	opAStore    = 0x4C
	opAStoreS   = 0x4D
	opAStoreB   = 0x4E
	opAStoreBit = 0x4F

	opStkCount = 0x50
	opStkPeek  = 0x51
	opStkSwap  = 0x52
	opStkRoll  = 0x53
	opStkCopy  = 0x54

	opStreamChar    = 0x70
	opStreamNum     = 0x71
	opStreamStr     = 0x72
	opStreamUnichar = 0x73

	opGestalt     = 0x100
	opDebugTrap   = 0x101
	opGetMemSize  = 0x102
	opSetMemSize  = 0x103
	opRandom      = 0x110
	opSetRandom   = 0x111
	opQuit        = 0x120
	opVerify      = 0x121
	opRestart     = 0x122
	opSave        = 0x123
	opRestore     = 0x124
	opSaveUndo    = 0x125
	opRestoreUndo = 0x126
	opProtect     = 0x127

	opGlk           = 0x130
	opGetStringTbl  = 0x140
	opSetStringTbl  = 0x141
	opGetIOSys      = 0x148
	opSetIOSys      = 0x149
	opLinearSearch  = 0x150
	opBinarySearch  = 0x151
	opLinkedSearch  = 0x152

	opCallF   = 0x160
	opCallFI  = 0x161
	opCallFII = 0x162
	opCallFIII = 0x163

	opMZero = 0x170
	opMCopy = 0x171
	opMAlloc = 0x178
	opMFree  = 0x179

	opAccelFunc  = 0x180
	opAccelParam = 0x181

	opNumToF  = 0x190
	opFToNumZ = 0x191
	opFToNumN = 0x192
	opCeil    = 0x198
	opFloor   = 0x199

	opFAdd = 0x1A0
	opFSub = 0x1A1
	opFMul = 0x1A2
	opFDiv = 0x1A3
	opFMod = 0x1A4
	opSqrt = 0x1A8
	opExp  = 0x1A9
	opLog  = 0x1AA
	opPow  = 0x1AB

	opSin   = 0x1B0
	opCos   = 0x1B1
	opTan   = 0x1B2
	opASin  = 0x1B3
	opACos  = 0x1B4
	opATan  = 0x1B5
	opATan2 = 0x1B6

	opJFEq   = 0x1C0
	opJFNe   = 0x1C1
	opJFLt   = 0x1C2
	opJFLe   = 0x1C3
	opJFGt   = 0x1C4
	opJFGe   = 0x1C5
	opJIsNaN = 0x1C8
	opJIsInf = 0x1C9
)

// operand-order markers.
const (
	opdLoad  = 'L'
	opdStore = 'S'
)

// opSchema gives the ordered list of load/store operands for each opcode,
// exactly as they are declared (loads and stores may interleave, e.g. catch
// stores its token before loading its branch offset).
var opSchema = map[uint32][]byte{
	opNop: {},

	opAdd: {opdLoad, opdLoad, opdStore}, opSub: {opdLoad, opdLoad, opdStore},
	opMul: {opdLoad, opdLoad, opdStore}, opDiv: {opdLoad, opdLoad, opdStore},
	opMod: {opdLoad, opdLoad, opdStore}, opNeg: {opdLoad, opdStore},
	opBitAnd: {opdLoad, opdLoad, opdStore}, opBitOr: {opdLoad, opdLoad, opdStore},
	opBitXor: {opdLoad, opdLoad, opdStore}, opBitNot: {opdLoad, opdStore},
	opShiftL: {opdLoad, opdLoad, opdStore}, opSShiftR: {opdLoad, opdLoad, opdStore},
	opUShiftR: {opdLoad, opdLoad, opdStore},

	opJump: {opdLoad}, opJZ: {opdLoad, opdLoad}, opJNZ: {opdLoad, opdLoad},
	opJEq: {opdLoad, opdLoad, opdLoad}, opJNe: {opdLoad, opdLoad, opdLoad},
	opJLt: {opdLoad, opdLoad, opdLoad}, opJGe: {opdLoad, opdLoad, opdLoad},
	opJGt: {opdLoad, opdLoad, opdLoad}, opJLe: {opdLoad, opdLoad, opdLoad},
	opJLtU: {opdLoad, opdLoad, opdLoad}, opJGeU: {opdLoad, opdLoad, opdLoad},
	opJGtU: {opdLoad, opdLoad, opdLoad}, opJLeU: {opdLoad, opdLoad, opdLoad},
	opJumpAbs: {opdLoad},

	opCall: {opdLoad, opdLoad, opdStore},
	opReturn: {opdLoad},
	opCatch: {opdStore, opdLoad},
	opThrow: {opdLoad, opdLoad},
	opTailCall: {opdLoad, opdLoad},

	opCopy: {opdLoad, opdStore}, opCopyS: {opdLoad, opdStore}, opCopyB: {opdLoad, opdStore},
	opSexS: {opdLoad, opdStore}, opSexB: {opdLoad, opdStore},

	opALoad: {opdLoad, opdLoad, opdStore}, opALoadS: {opdLoad, opdLoad, opdStore},
	opALoadB: {opdLoad, opdLoad, opdStore}, opALoadBit: {opdLoad, opdLoad, opdStore},
	opAStore: {opdLoad, opdLoad, opdLoad}, opAStoreS: {opdLoad, opdLoad, opdLoad},
	opAStoreB: {opdLoad, opdLoad, opdLoad}, opAStoreBit: {opdLoad, opdLoad, opdLoad},

	opStkCount: {opdStore}, opStkPeek: {opdLoad, opdStore}, opStkSwap: {},
	opStkRoll: {opdLoad, opdLoad}, opStkCopy: {opdLoad},

	opStreamChar: {opdLoad}, opStreamNum: {opdLoad}, opStreamStr: {opdLoad},
	opStreamUnichar: {opdLoad},

	opGestalt: {opdLoad, opdLoad, opdStore}, opDebugTrap: {opdLoad},
	opGetMemSize: {opdStore}, opSetMemSize: {opdLoad, opdStore},
	opRandom: {opdLoad, opdStore}, opSetRandom: {opdLoad},
	opQuit: {}, opVerify: {opdStore}, opRestart: {},
	opSave: {opdLoad, opdStore}, opRestore: {opdLoad, opdStore},
	opSaveUndo: {opdStore}, opRestoreUndo: {opdStore},
	opProtect: {opdLoad, opdLoad},

	opGlk: {opdLoad, opdLoad, opdStore},
	opGetStringTbl: {opdStore}, opSetStringTbl: {opdLoad},
	opGetIOSys: {opdStore, opdStore}, opSetIOSys: {opdLoad, opdLoad},
	opLinearSearch: {opdLoad, opdLoad, opdLoad, opdLoad, opdLoad, opdLoad, opdLoad, opdStore},
	opBinarySearch: {opdLoad, opdLoad, opdLoad, opdLoad, opdLoad, opdLoad, opdLoad, opdStore},
	opLinkedSearch: {opdLoad, opdLoad, opdLoad, opdLoad, opdLoad, opdLoad, opdStore},

	opCallF: {opdLoad, opdStore},
	opCallFI: {opdLoad, opdLoad, opdStore},
	opCallFII: {opdLoad, opdLoad, opdLoad, opdStore},
	opCallFIII: {opdLoad, opdLoad, opdLoad, opdLoad, opdStore},

	opMZero: {opdLoad, opdLoad}, opMCopy: {opdLoad, opdLoad, opdLoad},
	opMAlloc: {opdLoad, opdStore}, opMFree: {opdLoad},

	opAccelFunc: {opdLoad, opdLoad}, opAccelParam: {opdLoad, opdLoad},

	opNumToF: {opdLoad, opdStore}, opFToNumZ: {opdLoad, opdStore}, opFToNumN: {opdLoad, opdStore},
	opCeil: {opdLoad, opdStore}, opFloor: {opdLoad, opdStore},

	opFAdd: {opdLoad, opdLoad, opdStore}, opFSub: {opdLoad, opdLoad, opdStore},
	opFMul: {opdLoad, opdLoad, opdStore}, opFDiv: {opdLoad, opdLoad, opdStore},
	opFMod: {opdLoad, opdLoad, opdStore, opdStore},
	opSqrt: {opdLoad, opdStore}, opExp: {opdLoad, opdStore}, opLog: {opdLoad, opdStore},
	opPow: {opdLoad, opdLoad, opdStore},

	opSin: {opdLoad, opdStore}, opCos: {opdLoad, opdStore}, opTan: {opdLoad, opdStore},
	opASin: {opdLoad, opdStore}, opACos: {opdLoad, opdStore}, opATan: {opdLoad, opdStore},
	opATan2: {opdLoad, opdLoad, opdStore},

	opJFEq: {opdLoad, opdLoad, opdLoad, opdLoad}, opJFNe: {opdLoad, opdLoad, opdLoad, opdLoad},
	opJFLt: {opdLoad, opdLoad, opdLoad}, opJFLe: {opdLoad, opdLoad, opdLoad},
	opJFGt: {opdLoad, opdLoad, opdLoad}, opJFGe: {opdLoad, opdLoad, opdLoad},
	opJIsNaN: {opdLoad, opdLoad}, opJIsInf: {opdLoad, opdLoad},
}

// memWidthOf reports the main-memory/RAM-relative access width for an
// opcode's operands: 1 for copyb, 2 for copys, 4 for everything else.
func memWidthOf(op uint32) int {
	switch op {
	case opCopyB:
		return 1
	case opCopyS:
		return 2
	default:
		return 4
	}
}
