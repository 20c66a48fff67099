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
	"github.com/jetsetilly/cortexm/arm/alu"
	"github.com/jetsetilly/cortexm/arm/fault"
	"github.com/jetsetilly/cortexm/curated"
)

// immCarry is the carry input for a flag-setting logical operation with a
// modified immediate: the carry out of the immediate expansion when the
// expansion produced one, the current carry flag otherwise.
func (arm *ARM) immCarry(ins Instr) bool {
	if ins.CarryValid {
		return ins.CarryOut
	}
	return arm.state.status.carry
}

// executeDataImm is the immediate-operand data processing group.
func (arm *ARM) executeDataImm(ins Instr) (bool, error) {
	op1 := arm.ReadRegister(ins.Rn)
	imm := ins.Imm32
	carryIn := arm.state.status.carry

	switch ins.ID {
	case ADDimm:
		result, carry, overflow := alu.AddWithCarry(op1, imm, false)
		return arm.postArith(ins, result, carry, overflow), nil

	case ADCimm:
		result, carry, overflow := alu.AddWithCarry(op1, imm, carryIn)
		return arm.postArith(ins, result, carry, overflow), nil

	case SUBimm:
		result, carry, overflow := alu.AddWithCarry(op1, ^imm, true)
		return arm.postArith(ins, result, carry, overflow), nil

	case SBCimm:
		result, carry, overflow := alu.AddWithCarry(op1, ^imm, carryIn)
		return arm.postArith(ins, result, carry, overflow), nil

	case RSBimm:
		result, carry, overflow := alu.AddWithCarry(^op1, imm, true)
		return arm.postArith(ins, result, carry, overflow), nil

	case CMPimm:
		result, carry, overflow := alu.AddWithCarry(op1, ^imm, true)
		arm.compareArith(result, carry, overflow)
		return false, nil

	case CMNimm:
		result, carry, overflow := alu.AddWithCarry(op1, imm, false)
		arm.compareArith(result, carry, overflow)
		return false, nil

	case ANDimm:
		return arm.postLogic(ins, op1&imm, arm.immCarry(ins)), nil

	case BICimm:
		return arm.postLogic(ins, op1&^imm, arm.immCarry(ins)), nil

	case ORRimm:
		return arm.postLogic(ins, op1|imm, arm.immCarry(ins)), nil

	case EORimm:
		return arm.postLogic(ins, op1^imm, arm.immCarry(ins)), nil

	case TSTimm:
		arm.compareLogic(op1&imm, arm.immCarry(ins))
		return false, nil

	case TEQimm:
		arm.compareLogic(op1^imm, arm.immCarry(ins))
		return false, nil

	case MOVimm:
		return arm.postLogic(ins, imm, arm.immCarry(ins)), nil

	case MVNimm:
		return arm.postLogic(ins, ^imm, arm.immCarry(ins)), nil

	case MOVT:
		result := (arm.ReadRegister(ins.Rd) & 0x0000ffff) | (imm << 16)
		arm.WriteRegister(ins.Rd, result)
		return false, nil

	case ADR:
		// the base is the PC aligned down to a word boundary
		base := arm.ReadRegister(rPC) & 0xfffffffc
		if ins.Add() {
			arm.WriteRegister(ins.Rd, base+imm)
		} else {
			arm.WriteRegister(ins.Rd, base-imm)
		}
		return false, nil
	}

	return false, curated.Errorf(ExecutorUndefined, ins.ID.String())
}

// executeDataReg is the register-operand data processing group. the second
// operand passes through the constant shift of the encoding before the
// operation proper.
func (arm *ARM) executeDataReg(ins Instr) (bool, error) {
	op1 := arm.ReadRegister(ins.Rn)
	carryIn := arm.state.status.carry
	shifted, shiftCarry := alu.ShiftC(arm.ReadRegister(ins.Rm), ins.ShiftType, ins.ShiftAmount, carryIn)

	switch ins.ID {
	case ADDreg:
		result, carry, overflow := alu.AddWithCarry(op1, shifted, false)
		return arm.postArith(ins, result, carry, overflow), nil

	case ADCreg:
		result, carry, overflow := alu.AddWithCarry(op1, shifted, carryIn)
		return arm.postArith(ins, result, carry, overflow), nil

	case SUBreg:
		result, carry, overflow := alu.AddWithCarry(op1, ^shifted, true)
		return arm.postArith(ins, result, carry, overflow), nil

	case SBCreg:
		result, carry, overflow := alu.AddWithCarry(op1, ^shifted, carryIn)
		return arm.postArith(ins, result, carry, overflow), nil

	case RSBreg:
		result, carry, overflow := alu.AddWithCarry(^op1, shifted, true)
		return arm.postArith(ins, result, carry, overflow), nil

	case CMPreg:
		result, carry, overflow := alu.AddWithCarry(op1, ^shifted, true)
		arm.compareArith(result, carry, overflow)
		return false, nil

	case CMNreg:
		result, carry, overflow := alu.AddWithCarry(op1, shifted, false)
		arm.compareArith(result, carry, overflow)
		return false, nil

	case ANDreg:
		return arm.postLogic(ins, op1&shifted, shiftCarry), nil

	case BICreg:
		return arm.postLogic(ins, op1&^shifted, shiftCarry), nil

	case ORRreg:
		return arm.postLogic(ins, op1|shifted, shiftCarry), nil

	case EORreg:
		return arm.postLogic(ins, op1^shifted, shiftCarry), nil

	case TSTreg:
		arm.compareLogic(op1&shifted, shiftCarry)
		return false, nil

	case TEQreg:
		arm.compareLogic(op1^shifted, shiftCarry)
		return false, nil

	case MOVreg:
		return arm.postLogic(ins, arm.ReadRegister(ins.Rm), arm.state.status.carry), nil

	case MVNreg:
		return arm.postLogic(ins, ^shifted, shiftCarry), nil

	case RRX:
		result, carry := alu.ShiftC(arm.ReadRegister(ins.Rm), alu.RRX, 1, carryIn)
		return arm.postLogic(ins, result, carry), nil
	}

	return false, curated.Errorf(ExecutorUndefined, ins.ID.String())
}

// executeShift is the shift instruction group. the immediate forms take
// their amount from the decoded shift descriptor; the register forms take
// the low byte of Rm.
func (arm *ARM) executeShift(ins Instr) error {
	carryIn := arm.state.status.carry

	var typ alu.ShiftType
	switch ins.ID {
	case LSLimm, LSLreg:
		typ = alu.LSL
	case LSRimm, LSRreg:
		typ = alu.LSR
	case ASRimm, ASRreg:
		typ = alu.ASR
	case RORimm, RORreg:
		typ = alu.ROR
	}

	var result uint32
	var carry bool

	switch ins.ID {
	case LSLimm, LSRimm, ASRimm, RORimm:
		result, carry = alu.ShiftC(arm.ReadRegister(ins.Rm), ins.ShiftType, ins.ShiftAmount, carryIn)
	default:
		amount := arm.ReadRegister(ins.Rm) & 0x000000ff
		result, carry = alu.ShiftC(arm.ReadRegister(ins.Rn), typ, amount, carryIn)
	}

	arm.WriteRegister(ins.Rd, result)
	if arm.effectiveSetFlags(ins) {
		arm.state.status.setNZ(result)
		arm.state.status.setCarry(carry)
	}

	return nil
}

// executeMultiply is the multiply and divide group.
func (arm *ARM) executeMultiply(ins Instr) error {
	op1 := arm.ReadRegister(ins.Rn)
	op2 := arm.ReadRegister(ins.Rm)

	switch ins.ID {
	case MUL:
		result := op1 * op2
		arm.WriteRegister(ins.Rd, result)
		if arm.effectiveSetFlags(ins) {
			arm.state.status.setNZ(result)
		}

	case MLA:
		arm.WriteRegister(ins.Rd, arm.ReadRegister(ins.Ra)+op1*op2)

	case MLS:
		arm.WriteRegister(ins.Rd, arm.ReadRegister(ins.Ra)-op1*op2)

	case SMULL:
		result := int64(int32(op1)) * int64(int32(op2))
		arm.WriteRegister(ins.RdLo, uint32(result))
		arm.WriteRegister(ins.RdHi, uint32(uint64(result)>>32))

	case UMULL:
		result := uint64(op1) * uint64(op2)
		arm.WriteRegister(ins.RdLo, uint32(result))
		arm.WriteRegister(ins.RdHi, uint32(result>>32))

	case UMLAL:
		acc := (uint64(arm.ReadRegister(ins.RdHi)) << 32) | uint64(arm.ReadRegister(ins.RdLo))
		result := acc + uint64(op1)*uint64(op2)
		arm.WriteRegister(ins.RdLo, uint32(result))
		arm.WriteRegister(ins.RdHi, uint32(result>>32))

	case UDIV:
		var result uint32
		if op2 == 0 {
			arm.divideByZero()
		} else {
			result = op1 / op2
		}
		arm.WriteRegister(ins.Rd, result)

	case SDIV:
		var result uint32
		if op2 == 0 {
			arm.divideByZero()
		} else if op1 == 0x80000000 && op2 == 0xffffffff {
			// the one signed quotient that does not fit
			result = 0x80000000
		} else {
			result = uint32(int32(op1) / int32(op2))
		}
		arm.WriteRegister(ins.Rd, result)

	default:
		return curated.Errorf(ExecutorUndefined, ins.ID.String())
	}

	return nil
}

// divideByZero applies the configurable divide-by-zero behaviour: the
// quotient is zero and, when CCR.DIV_0_TRP is set, a UsageFault is
// latched.
func (arm *ARM) divideByZero() {
	if arm.state.ccr&CCRDiv0Trp == CCRDiv0Trp {
		arm.trigger.PendUsageFault(fault.DivByZero)
	}
}

// executeBitfield is the bitfield, extension and bit-twiddling group.
func (arm *ARM) executeBitfield(ins Instr) error {
	switch ins.ID {
	case BFI:
		mask := uint32(1)<<ins.Width - 1
		result := arm.ReadRegister(ins.Rd) &^ (mask << ins.Lsb)
		if ins.Rn != rPC {
			// with a PC source the encoding is BFC and the field is only
			// cleared
			result |= (arm.ReadRegister(ins.Rn) & mask) << ins.Lsb
		}
		arm.WriteRegister(ins.Rd, result)

	case UBFX:
		mask := uint32(1)<<ins.Width - 1
		arm.WriteRegister(ins.Rd, (arm.ReadRegister(ins.Rn)>>ins.Lsb)&mask)

	case CLZ:
		arm.WriteRegister(ins.Rd, alu.CountLeadingZeros(arm.ReadRegister(ins.Rm)))

	case REV:
		v := arm.ReadRegister(ins.Rm)
		arm.WriteRegister(ins.Rd, v<<24|(v&0x0000ff00)<<8|(v&0x00ff0000)>>8|v>>24)

	case REV16:
		v := arm.ReadRegister(ins.Rm)
		arm.WriteRegister(ins.Rd, (v&0x00ff00ff)<<8|(v&0xff00ff00)>>8)

	case REVSH:
		v := arm.ReadRegister(ins.Rm)
		arm.WriteRegister(ins.Rd, alu.SignExtend16((v&0x000000ff)<<8|(v&0x0000ff00)>>8))

	case SXTB:
		v := alu.Shift(arm.ReadRegister(ins.Rm), ins.ShiftType, ins.ShiftAmount, arm.state.status.carry)
		arm.WriteRegister(ins.Rd, alu.SignExtend8(v))

	case SXTH:
		v := alu.Shift(arm.ReadRegister(ins.Rm), ins.ShiftType, ins.ShiftAmount, arm.state.status.carry)
		arm.WriteRegister(ins.Rd, alu.SignExtend16(v))

	case UXTB:
		v := alu.Shift(arm.ReadRegister(ins.Rm), ins.ShiftType, ins.ShiftAmount, arm.state.status.carry)
		arm.WriteRegister(ins.Rd, alu.ZeroExtend8(v))

	case UXTH:
		v := alu.Shift(arm.ReadRegister(ins.Rm), ins.ShiftType, ins.ShiftAmount, arm.state.status.carry)
		arm.WriteRegister(ins.Rd, alu.ZeroExtend16(v))

	default:
		return curated.Errorf(ExecutorUndefined, ins.ID.String())
	}

	return nil
}
