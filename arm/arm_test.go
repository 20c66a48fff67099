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

	"github.com/jetsetilly/cortexm/arm"
	"github.com/jetsetilly/cortexm/arm/bus"
	"github.com/jetsetilly/cortexm/arm/fault"
	"github.com/jetsetilly/cortexm/test"
)

// testProgram assembles opcodes into the code region of the test bus.
type testProgram struct {
	mem  *bus.Bus
	next uint32
}

func (p *testProgram) add16(t *testing.T, opcode uint16) {
	t.Helper()
	test.ExpectSuccess(t, p.mem.Write16(p.next, opcode))
	p.next += 2
}

func (p *testProgram) add32(t *testing.T, hi uint16, lo uint16) {
	t.Helper()
	p.add16(t, hi)
	p.add16(t, lo)
}

// prepareTestARM builds a processor over a small memory map: code at the
// bottom of the address space and data RAM at the conventional SRAM
// origin. the stack pointer starts at 0x20001000.
func prepareTestARM() (*arm.ARM, *testProgram) {
	code := bus.NewRegion("code", 0x00000000, 0x1000, true)
	ram := bus.NewRegion("ram", 0x20000000, 0x2000, true)
	mem := bus.NewBus(code, ram)

	core := arm.NewARM(mem)
	core.Reset(0x20001000, 0x00000001)

	return core, &testProgram{mem: mem}
}

// step the core over a known number of instructions.
func step(t *testing.T, core *arm.ARM, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := core.Step()
		test.ExpectSuccess(t, err)
	}
}

func TestAddImmediateFlagUpdate(t *testing.T) {
	core, prg := prepareTestARM()

	// ADDS R0, R0, #1
	prg.add16(t, 0x3001)

	core.WriteRegister(0, 0xffffffff)
	step(t, core, 1)

	test.ExpectEquality(t, core.ReadRegister(0), uint32(0))
	test.ExpectEquality(t, core.Status().String(), "nZCv   itState: 00000000")
}

func TestSignedOverflow(t *testing.T) {
	core, prg := prepareTestARM()

	// ADDS R2, R1, #1
	prg.add16(t, 0x1c4a)

	core.WriteRegister(1, 0x7fffffff)
	step(t, core, 1)

	test.ExpectEquality(t, core.ReadRegister(2), uint32(0x80000000))
	test.ExpectEquality(t, core.Status().String(), "NzcV   itState: 00000000")
}

func TestITBlockGating(t *testing.T) {
	core, prg := prepareTestARM()

	// CMP R0, R1
	prg.add16(t, 0x4288)
	// ITE GT
	prg.add16(t, 0xbfcc)
	// MOVGT R2, #1
	prg.add16(t, 0x2201)
	// MOVLE R2, #2
	prg.add16(t, 0x2202)

	core.WriteRegister(0, 5)
	core.WriteRegister(1, 3)
	step(t, core, 4)

	test.ExpectEquality(t, core.ReadRegister(2), uint32(1))

	// the IT block has ended
	test.ExpectEquality(t, core.ISTATE(), uint8(0))
}

func TestPushPopRoundTrip(t *testing.T) {
	core, prg := prepareTestARM()

	// PUSH {R4, R5}
	prg.add16(t, 0xb430)
	// MOV R4, #0
	prg.add16(t, 0x2400)
	// MOV R5, #0
	prg.add16(t, 0x2500)
	// POP {R4, R5}
	prg.add16(t, 0xbc30)

	core.WriteRegister(4, 0xa)
	core.WriteRegister(5, 0xb)

	step(t, core, 1)
	test.ExpectEquality(t, core.ReadRegister(13), uint32(0x20000ff8))

	// stack memory has the pushed values in ascending register order
	v, err := core.Mem().Read32(0x20000ff8)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint32(0xa))
	v, err = core.Mem().Read32(0x20000ffc)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint32(0xb))

	step(t, core, 3)
	test.ExpectEquality(t, core.ReadRegister(4), uint32(0xa))
	test.ExpectEquality(t, core.ReadRegister(5), uint32(0xb))
	test.ExpectEquality(t, core.ReadRegister(13), uint32(0x20001000))
}

func TestTableBranchByte(t *testing.T) {
	core, prg := prepareTestARM()

	// TBB [R0, R1]
	prg.add32(t, 0xe8d0, 0xf001)

	// branch table of byte entries at 0x20000100
	test.ExpectSuccess(t, core.Mem().Write8(0x20000100, 2))
	test.ExpectSuccess(t, core.Mem().Write8(0x20000101, 4))
	test.ExpectSuccess(t, core.Mem().Write8(0x20000102, 6))

	core.WriteRegister(0, 0x20000100)
	core.WriteRegister(1, 1)
	step(t, core, 1)

	// target is the PC of the table branch plus four, plus twice the
	// table entry
	test.ExpectEquality(t, core.PC(), uint32(0+4+2*4))
}

func TestDivideByZeroTrap(t *testing.T) {
	core, prg := prepareTestARM()

	// UDIV R2, R0, R1
	prg.add32(t, 0xfbb0, 0xf2f1)

	core.SetCCR(core.CCR() | arm.CCRDiv0Trp)
	core.WriteRegister(0, 42)
	core.WriteRegister(1, 0)
	core.WriteRegister(2, 99)

	step(t, core, 1)

	test.ExpectEquality(t, core.ReadRegister(2), uint32(0))
	test.ExpectSuccess(t, core.Trigger().Pending(fault.UsageFault))
	test.ExpectEquality(t, core.CFSR()&fault.DivByZero, fault.DivByZero)

	// the latched fault terminates the run on the next step
	_, err := core.Step()
	test.ExpectFailure(t, err)
}

func TestDivideByZeroWithoutTrap(t *testing.T) {
	core, prg := prepareTestARM()

	// UDIV R2, R0, R1
	prg.add32(t, 0xfbb0, 0xf2f1)

	core.WriteRegister(0, 42)
	core.WriteRegister(1, 0)
	core.WriteRegister(2, 99)

	step(t, core, 1)

	test.ExpectEquality(t, core.ReadRegister(2), uint32(0))
	test.ExpectFailure(t, core.Trigger().Pending(fault.UsageFault))
}

func TestBranchAndLink(t *testing.T) {
	core, prg := prepareTestARM()

	// BL +4
	prg.add32(t, 0xf000, 0xf802)

	step(t, core, 1)

	test.ExpectEquality(t, core.PC(), uint32(8))
	test.ExpectEquality(t, core.ReadRegister(14), uint32(0x5))
}

func TestBranchExchange(t *testing.T) {
	core, prg := prepareTestARM()

	// BX LR
	prg.add16(t, 0x4770)

	core.WriteRegister(14, 0x101)
	step(t, core, 1)

	test.ExpectEquality(t, core.PC(), uint32(0x100))
}

func TestBranchExchangeLeavingThumb(t *testing.T) {
	core, prg := prepareTestARM()

	// BX LR with bit 0 clear: attempting to leave the Thumb instruction
	// set latches UsageFault[INVSTATE]
	prg.add16(t, 0x4770)

	core.WriteRegister(14, 0x100)
	step(t, core, 1)

	test.ExpectSuccess(t, core.Trigger().Pending(fault.UsageFault))
	test.ExpectEquality(t, core.CFSR()&fault.InvState, fault.InvState)

	_, err := core.Step()
	test.ExpectFailure(t, err)
}

func TestCompareAndBranch(t *testing.T) {
	core, prg := prepareTestARM()

	// CBZ R3, +0 (i=0, imm5=0)
	prg.add16(t, 0xb103)
	// MOV R0, #1 (skipped)
	prg.add16(t, 0x2001)
	// MOV R0, #2 (branch target)
	prg.add16(t, 0x2002)

	core.WriteRegister(3, 0)
	step(t, core, 2)

	test.ExpectEquality(t, core.ReadRegister(0), uint32(2))
}

func TestCompareAndBranchNotTaken(t *testing.T) {
	core, prg := prepareTestARM()

	// CBZ R3, +4
	prg.add16(t, 0xb113)
	// MOV R0, #1
	prg.add16(t, 0x2001)

	core.WriteRegister(3, 7)
	step(t, core, 2)

	test.ExpectEquality(t, core.ReadRegister(0), uint32(1))
}

// exitHandler is a minimal BkptHandler for run-loop tests.
type exitHandler struct {
	status uint32
	errEx  bool
}

func (h *exitHandler) Bkpt(imm8 uint8) (arm.BkptFlags, error) {
	if imm8 != 0xab {
		return 0, nil
	}
	if h.errEx {
		return arm.BkptOmitException | arm.BkptReqErrorExit, nil
	}
	return arm.BkptOmitException | arm.BkptReqExit, nil
}

func (h *exitHandler) ExitStatus() uint32 {
	return h.status
}

func TestRunUntilExit(t *testing.T) {
	core, prg := prepareTestARM()

	// MOV R0, #18
	prg.add16(t, 0x2012)
	// BKPT #0xab
	prg.add16(t, 0xbeab)

	core.Attach(&exitHandler{status: 18})

	status, err := core.Run(0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, status, uint32(18))
	test.ExpectEquality(t, core.Steps(), uint64(2))
}

func TestRunErrorExit(t *testing.T) {
	core, prg := prepareTestARM()

	// BKPT #0xab
	prg.add16(t, 0xbeab)

	core.Attach(&exitHandler{status: 3, errEx: true})

	status, err := core.Run(0)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, status, uint32(3))
}

func TestRunStepLimit(t *testing.T) {
	core, prg := prepareTestARM()

	// B -4 (branch to self)
	prg.add16(t, 0xe7fe)

	_, err := core.Run(10)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, core.Steps(), uint64(10))
}

func TestUnclaimedBreakpoint(t *testing.T) {
	core, prg := prepareTestARM()

	// BKPT #0 with no handler attached
	prg.add16(t, 0xbe00)

	step(t, core, 1)
	test.ExpectSuccess(t, core.Trigger().Pending(fault.UsageFault))
}

func TestUndefinedInstruction(t *testing.T) {
	core, prg := prepareTestARM()

	// UDF #0
	prg.add16(t, 0xde00)

	_, err := core.Step()
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, core.Trigger().Pending(fault.UsageFault))
	test.ExpectEquality(t, core.CFSR()&fault.UndefInstr, fault.UndefInstr)
}

func TestFetchFault(t *testing.T) {
	core, _ := prepareTestARM()

	// branch the PC out of the memory map
	core.Reset(0x20001000, 0x40000001)

	_, err := core.Step()
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, core.Trigger().Pending(fault.BusFault))
	test.ExpectEquality(t, core.CFSR()&fault.IBusErr, fault.IBusErr)
}
