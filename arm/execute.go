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
	"github.com/jetsetilly/cortexm/curated"
)

// exitRequest is how an executed instruction asks the run loop to stop.
type exitRequest int

const (
	exitNone exitRequest = iota
	exitClean
	exitError
)

// execute applies a decoded instruction to the processor state.
//
// every instruction follows the same protocol: evaluate the condition; if
// it fails the only effects are the IT advance and the PC advance. if it
// passes, the operation runs, the IT state advances and the PC advances
// unless the operation branched.
func (arm *ARM) execute(ins Instr) (exitRequest, error) {
	// the IT instruction itself is not subject to a condition check and
	// must not advance the state machine it has just loaded
	if ins.ID == IT {
		return exitNone, arm.executeIT(ins)
	}

	passed, err := arm.conditionPassed(ins)
	if err != nil {
		return exitNone, err
	}
	if !passed {
		arm.state.status.itAdvance()
		arm.advanceInstr(ins)
		return exitNone, nil
	}

	var branched bool
	var req exitRequest

	switch ins.ID {
	case ADCimm, ADDimm, ADR, ANDimm, BICimm, CMNimm, CMPimm, EORimm,
		MOVimm, MOVT, MVNimm, ORRimm, RSBimm, SBCimm, SUBimm, TEQimm, TSTimm:
		branched, err = arm.executeDataImm(ins)

	case ADCreg, ADDreg, ANDreg, BICreg, CMNreg, CMPreg, EORreg, MOVreg,
		MVNreg, ORRreg, RSBreg, SBCreg, SUBreg, TEQreg, TSTreg, RRX:
		branched, err = arm.executeDataReg(ins)

	case ASRimm, ASRreg, LSLimm, LSLreg, LSRimm, LSRreg, RORimm, RORreg:
		err = arm.executeShift(ins)

	case MUL, MLA, MLS, SDIV, UDIV, SMULL, UMULL, UMLAL:
		err = arm.executeMultiply(ins)

	case BFI, UBFX, CLZ, REV, REV16, REVSH, SXTB, SXTH, UXTB, UXTH:
		err = arm.executeBitfield(ins)

	case LDRimm, LDRlit, LDRreg, LDRBimm, LDRBreg, LDRHimm, LDRHreg,
		LDRSBimm, LDRSBreg, LDRSHimm, LDRSHreg,
		STRimm, STRreg, STRBimm, STRBreg, STRHimm, STRHreg:
		branched, err = arm.executeLoadStore(ins)

	case LDM, LDMDB, STM, STMDB, PUSH, POP:
		branched, err = arm.executeLoadStoreMultiple(ins)

	case B, BL, BLX, BX, CBZ, TB:
		branched, err = arm.executeBranch(ins)

	case BKPT, CPS, DMB, DSB, ISB, MRS, MSR, NOP, SVC, UDF:
		req, err = arm.executeSystem(ins)

	default:
		err = curated.Errorf(ExecutorUndefined, ins.ID.String())
	}

	if err != nil {
		return req, err
	}

	arm.state.status.itAdvance()
	if !branched {
		arm.advanceInstr(ins)
	}

	return req, nil
}

// executeIT loads the IT state machine.
func (arm *ARM) executeIT(ins Instr) error {
	if arm.state.status.inITBlock() {
		return curated.Errorf(ExecutorUnpredictable, "IT inside IT block")
	}

	arm.state.status.itCond = ins.Cond
	arm.state.status.itMask = ins.Mask
	arm.advanceInstr(ins)

	return nil
}

// effectiveSetFlags decides whether a data-processing instruction updates
// the condition flags. the 16 bit encodings are marked FlagSetFlags by the
// decoder but only update the flags outside an IT block.
//
// "A7.3.2 Conditional execution of undefined instructions" and the
// individual instruction pages of "ARMv7-M"
func (arm *ARM) effectiveSetFlags(ins Instr) bool {
	if !ins.SetFlags() {
		return false
	}
	if !ins.Is32bit() && arm.state.status.inITBlock() {
		return false
	}
	return true
}

// postArith writes the result of an addition-family operation and updates
// all four condition flags when required. returns true if the write
// branched (destination was the PC).
func (arm *ARM) postArith(ins Instr, result uint32, carry bool, overflow bool) bool {
	branched := false
	if ins.Rd == rPC {
		arm.aluWritePC(result)
		branched = true
	} else {
		arm.WriteRegister(ins.Rd, result)
	}
	if arm.effectiveSetFlags(ins) {
		arm.state.status.setNZ(result)
		arm.state.status.setCarry(carry)
		arm.state.status.setOverflow(overflow)
	}
	return branched
}

// postLogic writes the result of a logical operation and updates the N, Z
// and C flags when required. the overflow flag is always preserved.
// returns true if the write branched.
func (arm *ARM) postLogic(ins Instr, result uint32, carry bool) bool {
	branched := false
	if ins.Rd == rPC {
		arm.aluWritePC(result)
		branched = true
	} else {
		arm.WriteRegister(ins.Rd, result)
	}
	if arm.effectiveSetFlags(ins) {
		arm.state.status.setNZ(result)
		arm.state.status.setCarry(carry)
	}
	return branched
}

// compareArith updates the flags of a CMP/CMN. compares have no
// destination and always update the flags, IT block or not.
func (arm *ARM) compareArith(result uint32, carry bool, overflow bool) {
	arm.state.status.setNZ(result)
	arm.state.status.setCarry(carry)
	arm.state.status.setOverflow(overflow)
}

// compareLogic updates the flags of a TST/TEQ.
func (arm *ARM) compareLogic(result uint32, carry bool) {
	arm.state.status.setNZ(result)
	arm.state.status.setCarry(carry)
}
