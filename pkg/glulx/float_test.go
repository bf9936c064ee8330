package glulx

import (
	"math"
	"testing"
)

func TestFloatNearlyEqualSameSignInfinity(t *testing.T) {
	posInf := float32(math.Inf(1))
	negInf := float32(math.Inf(-1))
	if !floatNearlyEqual(posInf, posInf, 0) {
		t.Error("+Inf should nearly-equal +Inf")
	}
	if !floatNearlyEqual(negInf, negInf, 0) {
		t.Error("-Inf should nearly-equal -Inf")
	}
	if floatNearlyEqual(posInf, negInf, 1000) {
		t.Error("+Inf should never nearly-equal -Inf with a finite tolerance")
	}
}

func TestFloatNearlyEqualWithinTolerance(t *testing.T) {
	if !floatNearlyEqual(1.0, 1.05, 0.1) {
		t.Error("1.0 and 1.05 should be nearly equal within tolerance 0.1")
	}
	if floatNearlyEqual(1.0, 2.0, 0.1) {
		t.Error("1.0 and 2.0 should not be nearly equal within tolerance 0.1")
	}
}

func TestFloatNearlyEqualNegativeToleranceIsAbsolute(t *testing.T) {
	if !floatNearlyEqual(1.0, 1.05, -0.1) {
		t.Error("a negative tolerance should behave as its absolute value")
	}
}

func TestFloatToIntSaturatesAndHandlesNaN(t *testing.T) {
	if got := floatToInt(float32(math.NaN()), false); got != 0x80000000 {
		t.Errorf("floatToInt(NaN) = %#x, want 0x80000000", got)
	}
	if got := floatToInt(float32(math.Inf(1)), false); got != 0x7FFFFFFF {
		t.Errorf("floatToInt(+Inf) = %#x, want 0x7FFFFFFF", got)
	}
	if got := floatToInt(float32(math.Inf(-1)), false); got != 0x80000000 {
		t.Errorf("floatToInt(-Inf) = %#x, want 0x80000000", got)
	}
	if got := floatToInt(2.7, true); got != 3 {
		t.Errorf("floatToInt(2.7, round) = %d, want 3", got)
	}
	if got := floatToInt(2.7, false); got != 2 {
		t.Errorf("floatToInt(2.7, truncate) = %d, want 2", got)
	}
}

func TestExecFloatJFEqInfinityBranches(t *testing.T) {
	e := &Engine{pc: 100}
	posInf := u32f(float32(math.Inf(1)))
	loads := []uint32{posInf, posInf, 0, 4} // a, b, tolerance, branch offset
	if err := e.execFloat(opJFEq, loads, nil); err != nil {
		t.Fatalf("execFloat(opJFEq): %v", err)
	}
	if e.pc != 102 { // doBranch: pc = pc + offset - 2
		t.Errorf("pc = %d, want 102 (branch taken on +Inf == +Inf)", e.pc)
	}
}

func TestExecFloatJFNeInfinityDoesNotBranch(t *testing.T) {
	e := &Engine{pc: 100}
	posInf := u32f(float32(math.Inf(1)))
	loads := []uint32{posInf, posInf, 0, 4}
	if err := e.execFloat(opJFNe, loads, nil); err != nil {
		t.Fatalf("execFloat(opJFNe): %v", err)
	}
	if e.pc != 100 {
		t.Errorf("pc = %d, want 100 (no branch: +Inf equals +Inf, so jfne is false)", e.pc)
	}
}
