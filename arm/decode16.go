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
	"fmt"

	"github.com/jetsetilly/cortexm/arm/alu"
	"github.com/jetsetilly/cortexm/curated"
)

// Decode is a pure function from a fetched instruction to a typed Instr
// record. It never touches processor state.
func Decode(raw RawInstr) (Instr, error) {
	var ins Instr
	var err error

	if raw.Is32 {
		ins, err = decode32(raw.Hi, raw.Lo)
	} else {
		ins, err = decode16(raw.Hi)
	}
	if err != nil {
		return ins, err
	}

	ins.RawHi = raw.Hi
	ins.RawLo = raw.Lo
	if raw.Is32 {
		ins.Flags |= Flag32bit
	}

	return ins, nil
}

// decode16 maps one halfword to an Instr.
//
// the condition tree follows the table in "A5.2 16-bit Thumb instruction
// encoding" of "ARMv7-M". the setflags state of the plain data-processing
// encodings depends on whether the instruction executes inside an IT
// block; the decoder marks them FlagSetFlags and the executor suppresses
// the update when gated.
func decode16(opcode uint16) (Instr, error) {
	if opcode&0xc000 == 0x0000 {
		// shift (immediate), add, subtract, move and compare
		return decode16ShiftAddSubMovCmp(opcode)
	} else if opcode&0xfc00 == 0x4000 {
		// data processing
		return decode16DataProcessing(opcode)
	} else if opcode&0xfc00 == 0x4400 {
		// special data instructions and branch and exchange
		return decode16SpecialData(opcode)
	} else if opcode&0xf800 == 0x4800 {
		// load from literal pool
		return Instr{
			ID:    LDRlit,
			Flags: FlagIndex | FlagAdd,
			Rt:    int((opcode & 0x0700) >> 8),
			Rn:    rPC,
			Imm32: uint32(opcode&0x00ff) << 2,
		}, nil
	} else if opcode&0xf000 == 0x5000 || opcode&0xe000 == 0x6000 || opcode&0xe000 == 0x8000 {
		// load/store single data item
		return decode16LoadStoreSingle(opcode)
	} else if opcode&0xf800 == 0xa000 {
		// generate PC-relative address (ADR)
		return Instr{
			ID:    ADR,
			Flags: FlagAdd,
			Rd:    int((opcode & 0x0700) >> 8),
			Imm32: uint32(opcode&0x00ff) << 2,
		}, nil
	} else if opcode&0xf800 == 0xa800 {
		// generate SP-relative address (ADD Rd, SP, #imm)
		return Instr{
			ID:    ADDimm,
			Rd:    int((opcode & 0x0700) >> 8),
			Rn:    rSP,
			Imm32: uint32(opcode&0x00ff) << 2,
		}, nil
	} else if opcode&0xf000 == 0xb000 {
		// miscellaneous 16-bit instructions
		return decode16Miscellaneous(opcode)
	} else if opcode&0xf800 == 0xc000 {
		// store multiple registers
		return Instr{
			ID:      STM,
			Flags:   FlagWBack,
			Rn:      int((opcode & 0x0700) >> 8),
			RegList: opcode & 0x00ff,
		}, nil
	} else if opcode&0xf800 == 0xc800 {
		// load multiple registers. writeback is suppressed when the base
		// register is in the list
		ins := Instr{
			ID:      LDM,
			Rn:      int((opcode & 0x0700) >> 8),
			RegList: opcode & 0x00ff,
		}
		if ins.RegList&(1<<ins.Rn) == 0 {
			ins.Flags |= FlagWBack
		}
		return ins, nil
	} else if opcode&0xf000 == 0xd000 {
		// conditional branch and supervisor call
		cond := uint8((opcode & 0x0f00) >> 8)
		switch cond {
		case 0b1110:
			// permanently undefined
			return Instr{ID: UDF, Imm32: uint32(opcode & 0x00ff)}, nil
		case 0b1111:
			return Instr{ID: SVC, Imm32: uint32(opcode & 0x00ff)}, nil
		}
		return Instr{
			ID:    B,
			Cond:  cond,
			Imm32: uint32(int32(int8(opcode&0x00ff))) << 1,
		}, nil
	} else if opcode&0xf800 == 0xe000 {
		// unconditional branch
		imm32 := uint32(opcode&0x07ff) << 1
		if imm32&0x0800 == 0x0800 {
			// sign extend the 12 bit offset
			imm32 |= 0xfffff000
		}
		return Instr{
			ID:    B,
			Cond:  condAlways,
			Imm32: imm32,
		}, nil
	}

	return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x", opcode))
}

// "A5.2.1 Shift (immediate), add, subtract, move, and compare" of "ARMv7-M"
func decode16ShiftAddSubMovCmp(opcode uint16) (Instr, error) {
	op := (opcode & 0x3800) >> 11

	switch op {
	case 0b000, 0b001, 0b010:
		// LSL/LSR/ASR (immediate). LSL with a zero immediate is MOV
		// (register)
		imm5 := uint32((opcode & 0x07c0) >> 6)
		ins := Instr{
			Flags: FlagSetFlags,
			Rd:    int(opcode & 0x0007),
			Rm:    int((opcode & 0x0038) >> 3),
		}
		if op == 0b000 && imm5 == 0 {
			ins.ID = MOVreg
			return ins, nil
		}
		switch op {
		case 0b000:
			ins.ID = LSLimm
		case 0b001:
			ins.ID = LSRimm
		case 0b010:
			ins.ID = ASRimm
		}
		ins.ShiftType, ins.ShiftAmount = alu.DecodeImmShift(uint32(op), imm5)
		return ins, nil

	case 0b011:
		// add/subtract with register or 3 bit immediate
		ins := Instr{
			Flags: FlagSetFlags,
			Rd:    int(opcode & 0x0007),
			Rn:    int((opcode & 0x0038) >> 3),
		}
		switch (opcode & 0x0600) >> 9 {
		case 0b00:
			ins.ID = ADDreg
			ins.Rm = int((opcode & 0x01c0) >> 6)
		case 0b01:
			ins.ID = SUBreg
			ins.Rm = int((opcode & 0x01c0) >> 6)
		case 0b10:
			ins.ID = ADDimm
			ins.Imm32 = uint32((opcode & 0x01c0) >> 6)
		case 0b11:
			ins.ID = SUBimm
			ins.Imm32 = uint32((opcode & 0x01c0) >> 6)
		}
		return ins, nil
	}

	// move/compare/add/subtract with 8 bit immediate
	ins := Instr{
		Flags: FlagSetFlags,
		Imm32: uint32(opcode & 0x00ff),
	}
	reg := int((opcode & 0x0700) >> 8)
	switch op {
	case 0b100:
		ins.ID = MOVimm
		ins.Rd = reg
	case 0b101:
		ins.ID = CMPimm
		ins.Rn = reg
	case 0b110:
		ins.ID = ADDimm
		ins.Rd = reg
		ins.Rn = reg
	case 0b111:
		ins.ID = SUBimm
		ins.Rd = reg
		ins.Rn = reg
	}
	return ins, nil
}

// "A5.2.2 Data processing" of "ARMv7-M"
func decode16DataProcessing(opcode uint16) (Instr, error) {
	rdn := int(opcode & 0x0007)
	rm := int((opcode & 0x0038) >> 3)

	ins := Instr{
		Flags: FlagSetFlags,
		Rd:    rdn,
		Rn:    rdn,
		Rm:    rm,
	}

	switch (opcode & 0x03c0) >> 6 {
	case 0b0000:
		ins.ID = ANDreg
	case 0b0001:
		ins.ID = EORreg
	case 0b0010:
		ins.ID = LSLreg
	case 0b0011:
		ins.ID = LSRreg
	case 0b0100:
		ins.ID = ASRreg
	case 0b0101:
		ins.ID = ADCreg
	case 0b0110:
		ins.ID = SBCreg
	case 0b0111:
		ins.ID = RORreg
	case 0b1000:
		ins.ID = TSTreg
	case 0b1001:
		// RSB Rd, Rm, #0 (NEG)
		ins.ID = RSBimm
		ins.Rn = rm
		ins.Rm = 0
		ins.Imm32 = 0
	case 0b1010:
		ins.ID = CMPreg
		ins.Rn = rdn
	case 0b1011:
		ins.ID = CMNreg
		ins.Rn = rdn
	case 0b1100:
		ins.ID = ORRreg
	case 0b1101:
		ins.ID = MUL
		ins.Rn = rm
		ins.Rm = rdn
	case 0b1110:
		ins.ID = BICreg
	case 0b1111:
		ins.ID = MVNreg
	}

	return ins, nil
}

// "A5.2.3 Special data instructions and branch and exchange" of "ARMv7-M"
func decode16SpecialData(opcode uint16) (Instr, error) {
	// D:Rdn gives the full four bit register number
	rdn := int(opcode&0x0007) | int((opcode&0x0080)>>4)
	rm := int((opcode & 0x0078) >> 3)

	switch (opcode & 0x0300) >> 8 {
	case 0b00:
		return Instr{
			ID: ADDreg,
			Rd: rdn,
			Rn: rdn,
			Rm: rm,
		}, nil
	case 0b01:
		if rdn < 8 && rm < 8 {
			return Instr{}, curated.Errorf(DecoderUnpredictable, "CMP (register)", "low registers in T2 encoding")
		}
		return Instr{
			ID:    CMPreg,
			Flags: FlagSetFlags,
			Rn:    rdn,
			Rm:    rm,
		}, nil
	case 0b10:
		return Instr{
			ID: MOVreg,
			Rd: rdn,
			Rm: rm,
		}, nil
	}

	// branch and exchange. bit 7 distinguishes BX from BLX
	if opcode&0x0080 == 0x0080 {
		if rm == rPC {
			return Instr{}, curated.Errorf(DecoderUnpredictable, "BLX (register)", "PC as target")
		}
		return Instr{ID: BLX, Rm: rm}, nil
	}
	return Instr{ID: BX, Rm: rm}, nil
}

// "A5.2.4 Load/store single data item" of "ARMv7-M" (the 16 bit encodings)
func decode16LoadStoreSingle(opcode uint16) (Instr, error) {
	if opcode&0xf000 == 0x5000 {
		// register offset forms
		ins := Instr{
			Flags: FlagIndex | FlagAdd,
			Rt:    int(opcode & 0x0007),
			Rn:    int((opcode & 0x0038) >> 3),
			Rm:    int((opcode & 0x01c0) >> 6),
		}
		switch (opcode & 0x0e00) >> 9 {
		case 0b000:
			ins.ID = STRreg
		case 0b001:
			ins.ID = STRHreg
		case 0b010:
			ins.ID = STRBreg
		case 0b011:
			ins.ID = LDRSBreg
		case 0b100:
			ins.ID = LDRreg
		case 0b101:
			ins.ID = LDRHreg
		case 0b110:
			ins.ID = LDRBreg
		case 0b111:
			ins.ID = LDRSHreg
		}
		return ins, nil
	}

	if opcode&0xf000 == 0x9000 {
		// SP-relative word forms
		ins := Instr{
			Flags: FlagIndex | FlagAdd,
			Rt:    int((opcode & 0x0700) >> 8),
			Rn:    rSP,
			Imm32: uint32(opcode&0x00ff) << 2,
		}
		if opcode&0x0800 == 0x0800 {
			ins.ID = LDRimm
		} else {
			ins.ID = STRimm
		}
		return ins, nil
	}

	// immediate offset forms
	ins := Instr{
		Flags: FlagIndex | FlagAdd,
		Rt:    int(opcode & 0x0007),
		Rn:    int((opcode & 0x0038) >> 3),
	}
	imm5 := uint32((opcode & 0x07c0) >> 6)
	load := opcode&0x0800 == 0x0800

	switch {
	case opcode&0xf000 == 0x6000:
		// word, immediate scaled by four
		ins.Imm32 = imm5 << 2
		if load {
			ins.ID = LDRimm
		} else {
			ins.ID = STRimm
		}
	case opcode&0xf000 == 0x7000:
		// byte
		ins.Imm32 = imm5
		if load {
			ins.ID = LDRBimm
		} else {
			ins.ID = STRBimm
		}
	default:
		// halfword, immediate scaled by two
		ins.Imm32 = imm5 << 1
		if load {
			ins.ID = LDRHimm
		} else {
			ins.ID = STRHimm
		}
	}
	return ins, nil
}

// "A5.2.5 Miscellaneous 16-bit instructions" of "ARMv7-M"
func decode16Miscellaneous(opcode uint16) (Instr, error) {
	if opcode&0xff00 == 0xbf00 {
		if opcode&0x000f == 0x0000 {
			// nop-compatible hints: NOP, YIELD, WFE, WFI, SEV. with no
			// event or power model they all retire as NOP
			return Instr{ID: NOP}, nil
		}

		// if-then
		firstcond := uint8((opcode & 0x00f0) >> 4)
		mask := uint8(opcode & 0x000f)
		switch firstcond {
		case 0b1111:
			return Instr{}, curated.Errorf(DecoderUnpredictable, "IT", "first condition is 1111")
		case 0b1110:
			// it is not valid to specify an "else" for the "al" condition
			// because it is not possible to negate
			if !(mask == 0x1 || mask == 0x2 || mask == 0x4 || mask == 0x8) {
				return Instr{}, curated.Errorf(DecoderUnpredictable, "IT", "else with 'al' condition")
			}
		}
		return Instr{ID: IT, Cond: firstcond, Mask: mask}, nil
	}

	switch {
	case opcode&0xff80 == 0xb000:
		// ADD SP, SP, #imm7*4
		return Instr{
			ID:    ADDimm,
			Rd:    rSP,
			Rn:    rSP,
			Imm32: uint32(opcode&0x007f) << 2,
		}, nil

	case opcode&0xff80 == 0xb080:
		// SUB SP, SP, #imm7*4
		return Instr{
			ID:    SUBimm,
			Rd:    rSP,
			Rn:    rSP,
			Imm32: uint32(opcode&0x007f) << 2,
		}, nil

	case opcode&0xf500 == 0xb100:
		// compare and branch on (non-)zero
		ins := Instr{
			ID:    CBZ,
			Rn:    int(opcode & 0x0007),
			Imm32: (uint32(opcode&0x0200) >> 3) | (uint32(opcode&0x00f8) >> 2),
		}
		if opcode&0x0800 == 0x0800 {
			ins.Flags |= FlagNonZero
		}
		return ins, nil

	case opcode&0xff00 == 0xb200:
		// sign/zero extend
		ins := Instr{
			Rd: int(opcode & 0x0007),
			Rm: int((opcode & 0x0038) >> 3),
		}
		switch (opcode & 0x00c0) >> 6 {
		case 0b00:
			ins.ID = SXTH
		case 0b01:
			ins.ID = SXTB
		case 0b10:
			ins.ID = UXTH
		case 0b11:
			ins.ID = UXTB
		}
		return ins, nil

	case opcode&0xfe00 == 0xb400:
		// push registers. the M bit adds LR to the list
		regList := opcode & 0x00ff
		if opcode&0x0100 == 0x0100 {
			regList |= 1 << rLR
		}
		return Instr{ID: PUSH, Flags: FlagWBack, Rn: rSP, RegList: regList}, nil

	case opcode&0xffe8 == 0xb660:
		// change processor state. only the PRIMASK (I) effect is modelled
		ins := Instr{ID: CPS, Mask: uint8(opcode & 0x0003)}
		if opcode&0x0010 == 0x0010 {
			ins.Imm32 = 1 // interrupts disabled
		}
		return ins, nil

	case opcode&0xff00 == 0xba00:
		// reverse bytes
		ins := Instr{
			Rd: int(opcode & 0x0007),
			Rm: int((opcode & 0x0038) >> 3),
		}
		switch (opcode & 0x00c0) >> 6 {
		case 0b00:
			ins.ID = REV
		case 0b01:
			ins.ID = REV16
		case 0b11:
			ins.ID = REVSH
		default:
			return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x", opcode))
		}
		return ins, nil

	case opcode&0xfe00 == 0xbc00:
		// pop registers. the P bit adds PC to the list
		regList := opcode & 0x00ff
		if opcode&0x0100 == 0x0100 {
			regList |= 1 << rPC
		}
		return Instr{ID: POP, Flags: FlagWBack, Rn: rSP, RegList: regList}, nil

	case opcode&0xff00 == 0xbe00:
		// software breakpoint
		return Instr{ID: BKPT, Imm32: uint32(opcode & 0x00ff)}, nil
	}

	return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x", opcode))
}
