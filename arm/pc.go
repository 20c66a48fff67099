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

package arm

import (
	"github.com/jetsetilly/cortexm/arm/fault"
	"github.com/jetsetilly/cortexm/curated"
)

// the branch-write rules of "B1.4.7 The Special-purpose program status
// registers" and "A2.3.1 Arm core registers" of "ARMv7-M". every write to
// the PC goes through one of these functions; nothing else in the package
// assigns to registers[rPC] except advanceInstr() and Reset()

// branchWritePC clears bit 0 and assigns the PC.
func (arm *ARM) branchWritePC(addr uint32) {
	arm.state.registers[rPC] = addr & 0xfffffffe
}

// aluWritePC is the branch rule for data-processing writes to the PC.
func (arm *ARM) aluWritePC(addr uint32) {
	arm.branchWritePC(addr)
}

// bxWritePC is the interworking branch rule. bit 0 of the target selects
// the instruction set: this core is Thumb-only, so a clear bit 0 latches
// UsageFault[INVSTATE]. a target with the 0xF prefix in a handler context
// is the exception-return sequence, which is outside the scope of this
// emulation.
func (arm *ARM) bxWritePC(addr uint32) error {
	if arm.state.IsHandlerMode() && addr&0xf0000000 == 0xf0000000 {
		return curated.Errorf(NotImplemented, "exception return")
	}

	if addr&0x00000001 != 0x00000001 {
		// attempting to leave the Thumb instruction set. the branch still
		// happens but the next instruction will not execute
		arm.state.tbit = false
		arm.trigger.PendUsageFault(fault.InvState)
	}

	arm.state.registers[rPC] = addr & 0xfffffffe
	return nil
}

// loadWritePC is the branch rule for a PC value arriving from memory. the
// same interworking rules as bxWritePC apply.
func (arm *ARM) loadWritePC(addr uint32) error {
	return arm.bxWritePC(addr)
}

// blxWritePC stashes the return address, with bit 0 set, in the link
// register before performing an interworking branch.
func (arm *ARM) blxWritePC(addr uint32, returnAddr uint32) error {
	arm.state.registers[rLR] = returnAddr | 0x00000001
	return arm.bxWritePC(addr)
}

// advanceInstr moves the PC over the instruction that has just been
// executed.
func (arm *ARM) advanceInstr(ins Instr) {
	if ins.Is32bit() {
		arm.state.registers[rPC] += 4
	} else {
		arm.state.registers[rPC] += 2
	}
}

// conditionPassed decides whether the instruction executes. a conditional
// branch carries its own condition field; any other instruction takes its
// condition from the IT block, if one is active.
func (arm *ARM) conditionPassed(ins Instr) (bool, error) {
	if ins.ID == B && ins.Cond != condAlways {
		return arm.state.status.condition(ins.Cond)
	}
	if arm.state.status.inITBlock() {
		return arm.state.status.condition(arm.state.status.itCond)
	}
	return true, nil
}
