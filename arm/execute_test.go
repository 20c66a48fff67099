// This file is part of CortexM.
//
// CortexM is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// CortexM is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with CortexM.  If not, see <https://www.gnu.org/licenses/>.

package arm_test

import (
	"testing"

	"github.com/jetsetilly/cortexm/test"
)

func TestAddWithCarryChain(t *testing.T) {
	core, prg := prepareTestARM()

	// multi-precision addition: the carry of the low word feeds the high
	// word

	// ADDS R0, R0, #1 (low word wraps, carry out)
	prg.add16(t, 0x3001)
	// ADCS R1, R2
	prg.add16(t, 0x4151)

	core.WriteRegister(0, 0xffffffff)
	core.WriteRegister(1, 0x00000010)
	core.WriteRegister(2, 0x00000001)
	step(t, core, 2)

	test.ExpectEquality(t, core.ReadRegister(0), uint32(0))
	test.ExpectEquality(t, core.ReadRegister(1), uint32(0x12))
}

func TestSubtractWithBorrow(t *testing.T) {
	core, prg := prepareTestARM()

	// SUBS R0, R0, #1 (no borrow: carry stays set)
	prg.add16(t, 0x3801)
	// SBCS R1, R1, R2
	prg.add16(t, 0x4191)

	core.WriteRegister(0, 5)
	core.WriteRegister(1, 10)
	core.WriteRegister(2, 3)
	step(t, core, 2)

	// with carry set SBC is a plain subtract
	test.ExpectEquality(t, core.ReadRegister(0), uint32(4))
	test.ExpectEquality(t, core.ReadRegister(1), uint32(7))
}

func TestLogicalFlagBehaviour(t *testing.T) {
	core, prg := prepareTestARM()

	// ADDS R0, R0, #1 to set V as a sentinel
	prg.add16(t, 0x3001)
	// ANDS R1, R2
	prg.add16(t, 0x4011)

	core.WriteRegister(0, 0x7fffffff)
	core.WriteRegister(1, 0xf000000f)
	core.WriteRegister(2, 0x8000000f)
	step(t, core, 2)

	// the AND result is negative and non-zero. V is preserved from the
	// preceding overflow
	test.ExpectEquality(t, core.ReadRegister(1), uint32(0x8000000f))
	test.ExpectEquality(t, core.Status().String()[:4], "NzcV")
}

func TestBitwiseOperations(t *testing.T) {
	core, prg := prepareTestARM()

	// ORRS R0, R1
	prg.add16(t, 0x4308)
	// EORS R2, R3
	prg.add16(t, 0x405a)
	// BICS R4, R5
	prg.add16(t, 0x43ac)
	// MVNS R6, R7
	prg.add16(t, 0x43fe)

	core.WriteRegister(0, 0x000000f0)
	core.WriteRegister(1, 0x0000000f)
	core.WriteRegister(2, 0x0000ffff)
	core.WriteRegister(3, 0x000000ff)
	core.WriteRegister(4, 0x000000ff)
	core.WriteRegister(5, 0x0000000f)
	core.WriteRegister(7, 0xfffffff0)
	step(t, core, 4)

	test.ExpectEquality(t, core.ReadRegister(0), uint32(0x000000ff))
	test.ExpectEquality(t, core.ReadRegister(2), uint32(0x0000ff00))
	test.ExpectEquality(t, core.ReadRegister(4), uint32(0x000000f0))
	test.ExpectEquality(t, core.ReadRegister(6), uint32(0x0000000f))
}

func TestRegisterShifts(t *testing.T) {
	core, prg := prepareTestARM()

	// LSLS R0, R1
	prg.add16(t, 0x4088)
	// LSRS R2, R3
	prg.add16(t, 0x40da)
	// ASRS R4, R5
	prg.add16(t, 0x412c)
	// RORS R6, R7
	prg.add16(t, 0x41fe)

	core.WriteRegister(0, 0x00000001)
	core.WriteRegister(1, 4)
	core.WriteRegister(2, 0x80000000)
	core.WriteRegister(3, 4)
	core.WriteRegister(4, 0x80000000)
	core.WriteRegister(5, 4)
	core.WriteRegister(6, 0x0000000f)
	core.WriteRegister(7, 4)
	step(t, core, 4)

	test.ExpectEquality(t, core.ReadRegister(0), uint32(0x00000010))
	test.ExpectEquality(t, core.ReadRegister(2), uint32(0x08000000))
	test.ExpectEquality(t, core.ReadRegister(4), uint32(0xf8000000))
	test.ExpectEquality(t, core.ReadRegister(6), uint32(0xf0000000))
}

func TestShiftByMoreThan32(t *testing.T) {
	core, prg := prepareTestARM()

	// LSLS R0, R1 with a shift amount of 33
	prg.add16(t, 0x4088)

	core.WriteRegister(0, 0xffffffff)
	core.WriteRegister(1, 33)
	step(t, core, 1)

	// the register empties and the carry is clear
	test.ExpectEquality(t, core.ReadRegister(0), uint32(0))
	test.ExpectEquality(t, core.Status().String()[:4], "nZcv")
}

func TestExtendOperations(t *testing.T) {
	core, prg := prepareTestARM()

	// SXTH R0, R1
	prg.add16(t, 0xb208)
	// SXTB R2, R3
	prg.add16(t, 0xb25a)
	// UXTH R4, R5
	prg.add16(t, 0xb2ac)
	// UXTB R6, R7
	prg.add16(t, 0xb2fe)

	core.WriteRegister(1, 0x12348765)
	core.WriteRegister(3, 0x123456f8)
	core.WriteRegister(5, 0x12348765)
	core.WriteRegister(7, 0x123456f8)
	step(t, core, 4)

	test.ExpectEquality(t, core.ReadRegister(0), uint32(0xffff8765))
	test.ExpectEquality(t, core.ReadRegister(2), uint32(0xfffffff8))
	test.ExpectEquality(t, core.ReadRegister(4), uint32(0x00008765))
	test.ExpectEquality(t, core.ReadRegister(6), uint32(0x000000f8))
}

func TestReverseBytes(t *testing.T) {
	core, prg := prepareTestARM()

	// REV R0, R1
	prg.add16(t, 0xba08)
	// REV16 R2, R3
	prg.add16(t, 0xba5a)
	// REVSH R4, R5
	prg.add16(t, 0xbaec)

	core.WriteRegister(1, 0x11223344)
	core.WriteRegister(3, 0x11223344)
	core.WriteRegister(5, 0x00001280)
	step(t, core, 3)

	test.ExpectEquality(t, core.ReadRegister(0), uint32(0x44332211))
	test.ExpectEquality(t, core.ReadRegister(2), uint32(0x22114433))
	test.ExpectEquality(t, core.ReadRegister(4), uint32(0xffff8012))
}

func TestCountLeadingZerosInstr(t *testing.T) {
	core, prg := prepareTestARM()

	// CLZ R0, R1
	prg.add32(t, 0xfab1, 0xf081)

	core.WriteRegister(1, 0x00010000)
	step(t, core, 1)
	test.ExpectEquality(t, core.ReadRegister(0), uint32(15))
}

func TestLongMultiply(t *testing.T) {
	core, prg := prepareTestARM()

	// UMULL R0, R1, R2, R3
	prg.add32(t, 0xfba2, 0x0103)
	// SMULL R4, R5, R6, R7
	prg.add32(t, 0xfb86, 0x4507)

	core.WriteRegister(2, 0xffffffff)
	core.WriteRegister(3, 0xffffffff)
	core.WriteRegister(6, 0xffffffff) // -1
	core.WriteRegister(7, 0x00000002)
	step(t, core, 2)

	// 0xffffffff^2 = 0xfffffffe00000001
	test.ExpectEquality(t, core.ReadRegister(0), uint32(0x00000001))
	test.ExpectEquality(t, core.ReadRegister(1), uint32(0xfffffffe))

	// -1 * 2 = -2
	test.ExpectEquality(t, core.ReadRegister(4), uint32(0xfffffffe))
	test.ExpectEquality(t, core.ReadRegister(5), uint32(0xffffffff))
}

func TestMultiplyAccumulate(t *testing.T) {
	core, prg := prepareTestARM()

	// MLA R0, R1, R2, R3
	prg.add32(t, 0xfb01, 0x3002)
	// MLS R4, R1, R2, R3
	prg.add32(t, 0xfb01, 0x3412)
	// UMLAL R5, R6, R1, R2
	prg.add32(t, 0xfbe1, 0x5602)

	core.WriteRegister(1, 6)
	core.WriteRegister(2, 7)
	core.WriteRegister(3, 100)
	core.WriteRegister(5, 0xffffffff)
	core.WriteRegister(6, 0)
	step(t, core, 3)

	test.ExpectEquality(t, core.ReadRegister(0), uint32(142))
	test.ExpectEquality(t, core.ReadRegister(4), uint32(58))

	// 0x00000000ffffffff + 42 overflows into the high word
	test.ExpectEquality(t, core.ReadRegister(5), uint32(41))
	test.ExpectEquality(t, core.ReadRegister(6), uint32(1))
}

func TestSignedDivide(t *testing.T) {
	core, prg := prepareTestARM()

	// SDIV R2, R0, R1
	prg.add32(t, 0xfb90, 0xf2f1)

	core.WriteRegister(0, 0xffffffba) // -70
	core.WriteRegister(1, 7)
	step(t, core, 1)
	test.ExpectEquality(t, core.ReadRegister(2), uint32(0xfffffff6)) // -10
}

func TestSignedDivideOverflow(t *testing.T) {
	core, prg := prepareTestARM()

	// SDIV R2, R0, R1 of MinInt32 by -1
	prg.add32(t, 0xfb90, 0xf2f1)

	core.WriteRegister(0, 0x80000000)
	core.WriteRegister(1, 0xffffffff)
	step(t, core, 1)
	test.ExpectEquality(t, core.ReadRegister(2), uint32(0x80000000))
}

func TestBitfieldInsertAndClear(t *testing.T) {
	core, prg := prepareTestARM()

	// BFI R4, R5, #8, #4
	prg.add32(t, 0xf365, 0x240b)
	// BFC R6, #8, #4 (BFI with a PC source)
	prg.add32(t, 0xf36f, 0x260b)

	core.WriteRegister(4, 0xffffffff)
	core.WriteRegister(5, 0x00000005)
	core.WriteRegister(6, 0xffffffff)
	step(t, core, 2)

	test.ExpectEquality(t, core.ReadRegister(4), uint32(0xfffff5ff))
	test.ExpectEquality(t, core.ReadRegister(6), uint32(0xfffff0ff))
}

func TestBitfieldExtract(t *testing.T) {
	core, prg := prepareTestARM()

	// UBFX R4, R5, #8, #4
	prg.add32(t, 0xf3c5, 0x2403)

	core.WriteRegister(5, 0x0000a5ff)
	step(t, core, 1)
	test.ExpectEquality(t, core.ReadRegister(4), uint32(0x5))
}

func TestMovwMovtPair(t *testing.T) {
	core, prg := prepareTestARM()

	// MOVW R0, #0x1234
	prg.add32(t, 0xf241, 0x2034)
	// MOVT R0, #0x5678
	prg.add32(t, 0xf2c5, 0x6078)

	step(t, core, 2)
	test.ExpectEquality(t, core.ReadRegister(0), uint32(0x56781234))
}

func TestRRXThroughCarry(t *testing.T) {
	core, prg := prepareTestARM()

	// ADDS R2, R2, #1 to set the carry (0xffffffff + 1)
	prg.add16(t, 0x3201)
	// RRX R0, R1
	prg.add32(t, 0xea4f, 0x0031)

	core.WriteRegister(1, 0x00000002)
	core.WriteRegister(2, 0xffffffff)
	step(t, core, 2)

	// the carry rotates into bit 31
	test.ExpectEquality(t, core.ReadRegister(0), uint32(0x80000001))
}

func TestNegate(t *testing.T) {
	core, prg := prepareTestARM()

	// RSBS R0, R3, #0
	prg.add16(t, 0x4258)

	core.WriteRegister(3, 5)
	step(t, core, 1)
	test.ExpectEquality(t, core.ReadRegister(0), uint32(0xfffffffb))
	test.ExpectEquality(t, core.Status().String()[:4], "Nzcv")
}

func TestAdr(t *testing.T) {
	core, prg := prepareTestARM()

	// ADR R0, +8 (the base is the word-aligned PC)
	prg.add16(t, 0xa002)

	step(t, core, 1)
	test.ExpectEquality(t, core.ReadRegister(0), uint32(0+4+8))
}

func TestStackPointerArithmetic(t *testing.T) {
	core, prg := prepareTestARM()

	// SUB SP, SP, #24
	prg.add16(t, 0xb086)
	// ADD R0, SP, #8
	prg.add16(t, 0xa802)
	// ADD SP, SP, #24
	prg.add16(t, 0xb006)

	step(t, core, 1)
	test.ExpectEquality(t, core.ReadRegister(13), uint32(0x20000fe8))

	step(t, core, 1)
	test.ExpectEquality(t, core.ReadRegister(0), uint32(0x20000ff0))

	step(t, core, 1)
	test.ExpectEquality(t, core.ReadRegister(13), uint32(0x20001000))
}
