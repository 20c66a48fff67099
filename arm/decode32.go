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

// decode32 maps a pair of halfwords to an Instr.
//
// the condition tree follows "A5.3 32-bit Thumb instruction encoding" of
// "ARMv7-M". hi is the first halfword of the pair, lo the second.
func decode32(hi uint16, lo uint16) (Instr, error) {
	if hi&0xec00 == 0xec00 {
		// coprocessor instructions. no coprocessor in this core
		return Instr{}, curated.Errorf(DecoderUndefined, fmt.Sprintf("coprocessor instruction (%04x %04x)", hi, lo))
	} else if hi&0xf800 == 0xf000 {
		if lo&0x8000 == 0x8000 {
			// branches and miscellaneous control
			return decode32BranchesMiscControl(hi, lo)
		}
		if hi&0x0200 == 0x0000 {
			// data processing, modified immediate
			return decode32DataProcessingModifiedImm(hi, lo)
		}
		// data processing, plain binary immediate
		return decode32DataProcessingPlainImm(hi, lo)
	} else if hi&0xfe40 == 0xe800 {
		// load/store multiple
		return decode32LoadStoreMultiple(hi, lo)
	} else if hi&0xfe40 == 0xe840 {
		// load/store dual or exclusive, table branch
		return decode32LoadStoreDualTableBranch(hi, lo)
	} else if hi&0xfe00 == 0xea00 {
		// data processing, shifted register
		return decode32DataProcessingShiftedReg(hi, lo)
	} else if hi&0xfe00 == 0xf800 {
		// load/store single data item
		return decode32LoadStoreSingle(hi, lo)
	} else if hi&0xff00 == 0xfa00 {
		// data processing, register
		return decode32DataProcessingReg(hi, lo)
	} else if hi&0xff80 == 0xfb00 {
		// multiply and multiply accumulate
		return decode32Multiply(hi, lo)
	} else if hi&0xff80 == 0xfb80 {
		// long multiply and divide
		return decode32LongMultiplyDivide(hi, lo)
	}

	return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
}

// "A5.3.1 Data processing (modified immediate)" of "ARMv7-M"
func decode32DataProcessingModifiedImm(hi uint16, lo uint16) (Instr, error) {
	op := (hi & 0x01e0) >> 5
	setflags := hi&0x0010 == 0x0010
	rn := int(hi & 0x000f)
	rd := int((lo & 0x0f00) >> 8)

	// imm12 = i:imm3:imm8
	imm12 := (uint32(hi&0x0400) << 1) | (uint32(lo&0x7000) >> 4) | uint32(lo&0x00ff)

	ins := Instr{
		Rd: rd,
		Rn: rn,
	}
	if setflags {
		ins.Flags |= FlagSetFlags
	}

	// the expanded value never depends on the carry in, which is what
	// allows the expansion to happen here rather than at execution
	ins.Imm32, ins.CarryOut = alu.ThumbExpandImmC(imm12, false)
	ins.CarryValid = alu.ThumbExpandImmAffectsCarry(imm12)

	switch op {
	case 0b0000:
		if rd == rPC && setflags {
			ins.ID = TSTimm
		} else {
			ins.ID = ANDimm
		}
	case 0b0001:
		ins.ID = BICimm
	case 0b0010:
		if rn == rPC {
			ins.ID = MOVimm
		} else {
			ins.ID = ORRimm
		}
	case 0b0011:
		if rn == rPC {
			ins.ID = MVNimm
		} else {
			// ORN (register complement or) is not part of this emulation
			return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("ORN (%04x %04x)", hi, lo))
		}
	case 0b0100:
		if rd == rPC && setflags {
			ins.ID = TEQimm
		} else {
			ins.ID = EORimm
		}
	case 0b1000:
		if rd == rPC && setflags {
			ins.ID = CMNimm
		} else {
			ins.ID = ADDimm
		}
	case 0b1010:
		ins.ID = ADCimm
	case 0b1011:
		ins.ID = SBCimm
	case 0b1101:
		if rd == rPC && setflags {
			ins.ID = CMPimm
		} else {
			ins.ID = SUBimm
		}
	case 0b1110:
		ins.ID = RSBimm
	default:
		return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
	}

	return ins, nil
}

// "A5.3.3 Data processing (plain binary immediate)" of "ARMv7-M"
func decode32DataProcessingPlainImm(hi uint16, lo uint16) (Instr, error) {
	op := (hi & 0x01f0) >> 4
	rn := int(hi & 0x000f)
	rd := int((lo & 0x0f00) >> 8)

	// imm12 = i:imm3:imm8, this time without expansion
	imm12 := (uint32(hi&0x0400) << 1) | (uint32(lo&0x7000) >> 4) | uint32(lo&0x00ff)

	switch op {
	case 0b00000:
		// ADDW; or ADR when the base is the PC
		if rn == rPC {
			return Instr{ID: ADR, Flags: FlagAdd, Rd: rd, Imm32: imm12}, nil
		}
		return Instr{ID: ADDimm, Rd: rd, Rn: rn, Imm32: imm12}, nil

	case 0b00100:
		// MOVW: imm16 = imm4:i:imm3:imm8
		imm16 := (uint32(hi&0x000f) << 12) | imm12
		return Instr{ID: MOVimm, Rd: rd, Imm32: imm16}, nil

	case 0b01010:
		// SUBW; or ADR (subtracting form) when the base is the PC
		if rn == rPC {
			return Instr{ID: ADR, Rd: rd, Imm32: imm12}, nil
		}
		return Instr{ID: SUBimm, Rd: rd, Rn: rn, Imm32: imm12}, nil

	case 0b01100:
		// MOVT: imm16 into the top halfword
		imm16 := (uint32(hi&0x000f) << 12) | imm12
		return Instr{ID: MOVT, Rd: rd, Imm32: imm16}, nil

	case 0b10110:
		// BFI; or BFC when Rn is PC. the executor keys the clearing form
		// off the PC in the Rn field
		lsb := (uint32(lo&0x7000) >> 10) | (uint32(lo&0x00c0) >> 6)
		msb := uint32(lo & 0x001f)
		if msb < lsb {
			return Instr{}, curated.Errorf(DecoderUnpredictable, "BFI", "msb less than lsb")
		}
		return Instr{ID: BFI, Rd: rd, Rn: rn, Lsb: lsb, Width: msb - lsb + 1}, nil

	case 0b11100:
		// UBFX
		lsb := (uint32(lo&0x7000) >> 10) | (uint32(lo&0x00c0) >> 6)
		width := uint32(lo&0x001f) + 1
		if lsb+width > 32 {
			return Instr{}, curated.Errorf(DecoderUnpredictable, "UBFX", "bitfield extends past bit 31")
		}
		return Instr{ID: UBFX, Rd: rd, Rn: rn, Lsb: lsb, Width: width}, nil
	}

	return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
}

// "A5.3.4 Branches and miscellaneous control" of "ARMv7-M"
func decode32BranchesMiscControl(hi uint16, lo uint16) (Instr, error) {
	switch {
	case lo&0xd000 == 0x9000:
		// B encoding T4
		return Instr{ID: B, Cond: condAlways, Imm32: branchT4Offset(hi, lo)}, nil

	case lo&0xd000 == 0xd000:
		// BL
		return Instr{ID: BL, Imm32: branchT4Offset(hi, lo)}, nil

	case lo&0xd000 == 0x8000:
		cond := uint8((hi & 0x03c0) >> 6)
		if cond&0b1110 != 0b1110 {
			// B encoding T3: imm32 = S:J2:J1:imm6:imm11:'0' sign extended
			imm32 := (uint32(hi&0x0400) << 10) | // S -> bit 20
				(uint32(lo&0x0800) << 8) | // J2 -> bit 19
				(uint32(lo&0x2000) << 5) | // J1 -> bit 18
				(uint32(hi&0x003f) << 12) | // imm6
				(uint32(lo&0x07ff) << 1) // imm11
			if imm32&0x00100000 == 0x00100000 {
				imm32 |= 0xffe00000
			}
			return Instr{ID: B, Cond: cond, Imm32: imm32}, nil
		}

		// miscellaneous control space
		switch {
		case hi&0xffe0 == 0xf380:
			// MSR (register)
			return Instr{
				ID:   MSR,
				Rn:   int(hi & 0x000f),
				SYSm: uint8(lo & 0x00ff),
				Mask: uint8((lo & 0x0c00) >> 10),
			}, nil

		case hi&0xffe0 == 0xf3e0:
			// MRS
			return Instr{
				ID:   MRS,
				Rd:   int((lo & 0x0f00) >> 8),
				SYSm: uint8(lo & 0x00ff),
			}, nil

		case hi == 0xf3bf:
			// barriers
			switch {
			case lo&0xfff0 == 0x8f40:
				return Instr{ID: DSB, Imm32: uint32(lo & 0x000f)}, nil
			case lo&0xfff0 == 0x8f50:
				return Instr{ID: DMB, Imm32: uint32(lo & 0x000f)}, nil
			case lo&0xfff0 == 0x8f60:
				return Instr{ID: ISB, Imm32: uint32(lo & 0x000f)}, nil
			}

		case hi == 0xf3af && lo&0xff00 == 0x8000:
			// NOP.W and the other nop-compatible hints
			return Instr{ID: NOP}, nil

		case hi&0xfff0 == 0xf7f0 && lo&0xf000 == 0xa000:
			// permanently undefined
			imm16 := (uint32(hi&0x000f) << 12) | uint32(lo&0x0fff)
			return Instr{ID: UDF, Imm32: imm16}, nil
		}
	}

	return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
}

// branchT4Offset assembles the 25 bit branch offset of the T4 encodings.
//
// "A7.7.12 B" of "ARMv7-M": imm32 = S:I1:I2:imm10:imm11:'0' where
// I1 = NOT(J1 EOR S) and I2 = NOT(J2 EOR S), sign extended from bit 24.
func branchT4Offset(hi uint16, lo uint16) uint32 {
	s := uint32(hi&0x0400) >> 10
	j1 := uint32(lo&0x2000) >> 13
	j2 := uint32(lo&0x0800) >> 11
	i1 := ^(j1 ^ s) & 0x1
	i2 := ^(j2 ^ s) & 0x1

	imm32 := (s << 24) | (i1 << 23) | (i2 << 22) |
		(uint32(hi&0x03ff) << 12) | (uint32(lo&0x07ff) << 1)
	if imm32&0x01000000 == 0x01000000 {
		imm32 |= 0xfe000000
	}
	return imm32
}

// "A5.3.5 Load Multiple and Store Multiple" of "ARMv7-M"
func decode32LoadStoreMultiple(hi uint16, lo uint16) (Instr, error) {
	op := (hi & 0x0180) >> 7
	load := hi&0x0010 == 0x0010
	wback := hi&0x0020 == 0x0020
	rn := int(hi & 0x000f)

	ins := Instr{
		Rn:      rn,
		RegList: lo,
	}
	if wback {
		ins.Flags |= FlagWBack
	}

	switch op {
	case 0b01:
		if load {
			ins.ID = LDM
			// writeback with the base in the list is suppressed
			if ins.RegList&(1<<rn) != 0 {
				ins.Flags &^= FlagWBack
			}
		} else {
			ins.ID = STM
		}
	case 0b10:
		if load {
			ins.ID = LDMDB
		} else {
			ins.ID = STMDB
		}
	default:
		// RFE and SRS do not exist in ARMv7-M
		return Instr{}, curated.Errorf(DecoderUndefined, fmt.Sprintf("%04x %04x", hi, lo))
	}

	if load && lo&0x8000 != 0 && lo&0x4000 != 0 {
		return Instr{}, curated.Errorf(DecoderUnpredictable, ins.ID.String(), "both PC and LR in register list")
	}
	if !load && lo&0xa000 != 0 {
		return Instr{}, curated.Errorf(DecoderUnpredictable, ins.ID.String(), "PC or SP in store list")
	}

	return ins, nil
}

// "A5.3.6 Load/store dual or exclusive, table branch" of "ARMv7-M".
// only the table branch entries exist in this emulation
func decode32LoadStoreDualTableBranch(hi uint16, lo uint16) (Instr, error) {
	if hi&0xfff0 == 0xe8d0 && lo&0xffe0 == 0xf000 {
		ins := Instr{
			ID: TB,
			Rn: int(hi & 0x000f),
			Rm: int(lo & 0x000f),
		}
		if lo&0x0010 == 0x0010 {
			ins.Flags |= FlagTbh
		}
		return ins, nil
	}

	return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("load/store dual or exclusive (%04x %04x)", hi, lo))
}

// "A5.3.11 Data processing (shifted register)" of "ARMv7-M"
func decode32DataProcessingShiftedReg(hi uint16, lo uint16) (Instr, error) {
	op := (hi & 0x01e0) >> 5
	setflags := hi&0x0010 == 0x0010
	rn := int(hi & 0x000f)
	rd := int((lo & 0x0f00) >> 8)
	rm := int(lo & 0x000f)

	// imm5 = imm3:imm2, with the two bit type field
	imm5 := (uint32(lo&0x7000) >> 10) | (uint32(lo&0x00c0) >> 6)
	typ := (uint32(lo) & 0x0030) >> 4

	ins := Instr{
		Rd: rd,
		Rn: rn,
		Rm: rm,
	}
	if setflags {
		ins.Flags |= FlagSetFlags
	}
	ins.ShiftType, ins.ShiftAmount = alu.DecodeImmShift(typ, imm5)

	switch op {
	case 0b0000:
		if rd == rPC && setflags {
			ins.ID = TSTreg
		} else {
			ins.ID = ANDreg
		}
	case 0b0001:
		ins.ID = BICreg
	case 0b0010:
		if rn != rPC {
			ins.ID = ORRreg
			break
		}
		// with a PC base this space holds the move and shift instructions
		switch ins.ShiftType {
		case alu.LSL:
			if ins.ShiftAmount == 0 {
				ins.ID = MOVreg
			} else {
				ins.ID = LSLimm
			}
		case alu.LSR:
			ins.ID = LSRimm
		case alu.ASR:
			ins.ID = ASRimm
		case alu.ROR:
			ins.ID = RORimm
		case alu.RRX:
			ins.ID = RRX
		}
	case 0b0011:
		if rn == rPC {
			ins.ID = MVNreg
		} else {
			return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("ORN (%04x %04x)", hi, lo))
		}
	case 0b0100:
		if rd == rPC && setflags {
			ins.ID = TEQreg
		} else {
			ins.ID = EORreg
		}
	case 0b1000:
		if rd == rPC && setflags {
			ins.ID = CMNreg
		} else {
			ins.ID = ADDreg
		}
	case 0b1010:
		ins.ID = ADCreg
	case 0b1011:
		ins.ID = SBCreg
	case 0b1101:
		if rd == rPC && setflags {
			ins.ID = CMPreg
		} else {
			ins.ID = SUBreg
		}
	case 0b1110:
		ins.ID = RSBreg
	default:
		return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
	}

	return ins, nil
}

// "A5.3.12 Data processing (register)" of "ARMv7-M"
func decode32DataProcessingReg(hi uint16, lo uint16) (Instr, error) {
	rd := int((lo & 0x0f00) >> 8)
	rn := int(hi & 0x000f)
	rm := int(lo & 0x000f)

	if lo&0xf0f0 == 0xf000 {
		// register controlled shifts
		ins := Instr{
			Rd: rd,
			Rn: rn,
			Rm: rm,
		}
		if hi&0x0010 == 0x0010 {
			ins.Flags |= FlagSetFlags
		}
		switch (hi & 0x0060) >> 5 {
		case 0b00:
			ins.ID = LSLreg
		case 0b01:
			ins.ID = LSRreg
		case 0b10:
			ins.ID = ASRreg
		case 0b11:
			ins.ID = RORreg
		}
		return ins, nil
	}

	if lo&0x0080 == 0x0080 && hi&0x000f == 0x000f {
		// sign and zero extension with optional rotation. the extend-and-
		// add forms (Rn != PC) are not part of this emulation
		ins := Instr{
			Rd:          rd,
			Rm:          rm,
			ShiftType:   alu.ROR,
			ShiftAmount: (uint32(lo&0x0030) >> 4) << 3,
		}
		switch (hi & 0x00f0) >> 4 {
		case 0b0000:
			ins.ID = SXTH
		case 0b0001:
			ins.ID = UXTH
		case 0b0100:
			ins.ID = SXTB
		case 0b0101:
			ins.ID = UXTB
		default:
			return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
		}
		return ins, nil
	}

	if hi&0xfff0 == 0xfa90 && lo&0x00f0 == 0x0080 {
		return Instr{ID: REV, Rd: rd, Rm: rm}, nil
	}
	if hi&0xfff0 == 0xfa90 && lo&0x00f0 == 0x0090 {
		return Instr{ID: REV16, Rd: rd, Rm: rm}, nil
	}
	if hi&0xfff0 == 0xfa90 && lo&0x00f0 == 0x00b0 {
		return Instr{ID: REVSH, Rd: rd, Rm: rm}, nil
	}
	if hi&0xfff0 == 0xfab0 && lo&0x00f0 == 0x0080 {
		// CLZ. Rm appears in both halfwords
		return Instr{ID: CLZ, Rd: rd, Rm: rm}, nil
	}

	return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
}

// "A5.3.13 Multiply, multiply accumulate, and absolute difference" of
// "ARMv7-M"
func decode32Multiply(hi uint16, lo uint16) (Instr, error) {
	if hi&0xfff0 != 0xfb00 {
		return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
	}

	rn := int(hi & 0x000f)
	ra := int((lo & 0xf000) >> 12)
	rd := int((lo & 0x0f00) >> 8)
	rm := int(lo & 0x000f)

	switch lo & 0x00f0 {
	case 0x0000:
		if ra == rPC {
			return Instr{ID: MUL, Rd: rd, Rn: rn, Rm: rm}, nil
		}
		return Instr{ID: MLA, Rd: rd, Rn: rn, Rm: rm, Ra: ra}, nil
	case 0x0010:
		return Instr{ID: MLS, Rd: rd, Rn: rn, Rm: rm, Ra: ra}, nil
	}

	return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
}

// "A5.3.14 Long multiply, long multiply accumulate, and divide" of
// "ARMv7-M"
func decode32LongMultiplyDivide(hi uint16, lo uint16) (Instr, error) {
	op := (hi & 0x0070) >> 4
	rn := int(hi & 0x000f)
	rdLo := int((lo & 0xf000) >> 12)
	rdHi := int((lo & 0x0f00) >> 8)
	rm := int(lo & 0x000f)

	switch op {
	case 0b000:
		if lo&0x00f0 != 0x0000 {
			break
		}
		return Instr{ID: SMULL, RdLo: rdLo, RdHi: rdHi, Rn: rn, Rm: rm}, nil
	case 0b001:
		if lo&0x00f0 != 0x00f0 || rdLo != rPC {
			break
		}
		return Instr{ID: SDIV, Rd: rdHi, Rn: rn, Rm: rm}, nil
	case 0b010:
		if lo&0x00f0 != 0x0000 {
			break
		}
		return Instr{ID: UMULL, RdLo: rdLo, RdHi: rdHi, Rn: rn, Rm: rm}, nil
	case 0b011:
		if lo&0x00f0 != 0x00f0 || rdLo != rPC {
			break
		}
		return Instr{ID: UDIV, Rd: rdHi, Rn: rn, Rm: rm}, nil
	case 0b110:
		if lo&0x00f0 != 0x0000 {
			break
		}
		return Instr{ID: UMLAL, RdLo: rdLo, RdHi: rdHi, Rn: rn, Rm: rm}, nil
	}

	return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
}

// "A5.3.7 to A5.3.10 Load/store single data item" of "ARMv7-M"
func decode32LoadStoreSingle(hi uint16, lo uint16) (Instr, error) {
	if hi&0xfe00 != 0xf800 {
		return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
	}

	signed := hi&0x0100 == 0x0100
	imm12Form := hi&0x0080 == 0x0080
	size := (hi & 0x0060) >> 5
	load := hi&0x0010 == 0x0010
	rn := int(hi & 0x000f)
	rt := int((lo & 0xf000) >> 12)

	if size == 0b11 {
		return Instr{}, curated.Errorf(DecoderUndefined, fmt.Sprintf("%04x %04x", hi, lo))
	}
	if signed && !load {
		return Instr{}, curated.Errorf(DecoderUndefined, fmt.Sprintf("%04x %04x", hi, lo))
	}

	ins := Instr{
		Rt: rt,
		Rn: rn,
	}

	// select the ID from the size, direction and signedness
	var immID, regID InstrID
	switch size {
	case 0b00:
		if load {
			if signed {
				immID, regID = LDRSBimm, LDRSBreg
			} else {
				immID, regID = LDRBimm, LDRBreg
			}
		} else {
			immID, regID = STRBimm, STRBreg
		}
	case 0b01:
		if load {
			if signed {
				immID, regID = LDRSHimm, LDRSHreg
			} else {
				immID, regID = LDRHimm, LDRHreg
			}
		} else {
			immID, regID = STRHimm, STRHreg
		}
	case 0b10:
		if load {
			immID, regID = LDRimm, LDRreg
		} else {
			immID, regID = STRimm, STRreg
		}
	}

	if rn == rPC {
		// literal forms. the U bit is in the imm12Form position
		if !load {
			return Instr{}, curated.Errorf(DecoderUndefined, fmt.Sprintf("store with PC base (%04x %04x)", hi, lo))
		}
		ins.ID = LDRlit
		ins.Imm32 = uint32(lo & 0x0fff)
		ins.Flags |= FlagIndex
		if imm12Form {
			ins.Flags |= FlagAdd
		}
		// the loaded width of a literal form follows the size field
		switch size {
		case 0b00:
			if signed {
				ins.ID = LDRSBimm
			} else {
				ins.ID = LDRBimm
			}
		case 0b01:
			if signed {
				ins.ID = LDRSHimm
			} else {
				ins.ID = LDRHimm
			}
		}
		return ins, nil
	}

	if imm12Form {
		// immediate offset with a 12 bit positive offset
		ins.ID = immID
		ins.Flags |= FlagIndex | FlagAdd
		ins.Imm32 = uint32(lo & 0x0fff)
		return ins, nil
	}

	if lo&0x0800 == 0x0800 {
		// 8 bit immediate with explicit P, U and W bits
		ins.ID = immID
		ins.Imm32 = uint32(lo & 0x00ff)
		if lo&0x0400 == 0x0400 {
			ins.Flags |= FlagIndex
		}
		if lo&0x0200 == 0x0200 {
			ins.Flags |= FlagAdd
		}
		if lo&0x0100 == 0x0100 {
			ins.Flags |= FlagWBack
		}
		if !ins.Index() && !ins.WBack() {
			return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
		}
		if ins.WBack() && rn == ins.Rt && load {
			return Instr{}, curated.Errorf(DecoderUnpredictable, ins.ID.String(), "writeback to transfer register")
		}
		return ins, nil
	}

	if lo&0x0fc0 == 0x0000 {
		// register offset with a two bit left shift
		ins.ID = regID
		ins.Flags |= FlagIndex | FlagAdd
		ins.Rm = int(lo & 0x000f)
		ins.ShiftType = alu.LSL
		ins.ShiftAmount = uint32(lo&0x0030) >> 4
		return ins, nil
	}

	return Instr{}, curated.Errorf(DecoderUnknownOpCode, fmt.Sprintf("%04x %04x", hi, lo))
}
