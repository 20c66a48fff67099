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

import "github.com/jetsetilly/cortexm/arm/alu"

// InstrID identifies the operation of a decoded instruction. The decoder
// collapses the many encodings of the instruction set onto this single
// enumeration; T1/T2/T3 encodings of the same operation share an ID and
// differ only in the decoded payload.
type InstrID int

// List of valid InstrID values.
const (
	// data processing, modified immediate or plain immediate
	ADCimm InstrID = iota
	ADDimm
	ADR
	ANDimm
	BICimm
	CMNimm
	CMPimm
	EORimm
	MOVimm
	MOVT
	MVNimm
	ORRimm
	RSBimm
	SBCimm
	SUBimm
	TEQimm
	TSTimm

	// data processing, register with optional constant shift
	ADCreg
	ADDreg
	ANDreg
	BICreg
	CMNreg
	CMPreg
	EORreg
	MOVreg
	MVNreg
	ORRreg
	RSBreg
	SBCreg
	SUBreg
	TEQreg
	TSTreg
	RRX

	// shift instructions. the immediate forms are MOV (shifted register) in
	// the architecture but decode cleanly as their assembler mnemonics
	ASRimm
	ASRreg
	LSLimm
	LSLreg
	LSRimm
	LSRreg
	RORimm
	RORreg

	// multiply and divide
	MUL
	MLA
	MLS
	SDIV
	UDIV
	SMULL
	UMULL
	UMLAL

	// bitfield, extension and bit-twiddling
	BFI
	UBFX
	CLZ
	REV
	REV16
	REVSH
	SXTB
	SXTH
	UXTB
	UXTH

	// load and store single
	LDRimm
	LDRlit
	LDRreg
	LDRBimm
	LDRBreg
	LDRHimm
	LDRHreg
	LDRSBimm
	LDRSBreg
	LDRSHimm
	LDRSHreg
	STRimm
	STRreg
	STRBimm
	STRBreg
	STRHimm
	STRHreg

	// load and store multiple
	LDM
	LDMDB
	STM
	STMDB
	PUSH
	POP

	// branch and control. CBZ covers CBNZ through FlagNonZero; TB covers
	// TBB and TBH through FlagTbh
	B
	BL
	BLX
	BX
	CBZ
	IT
	TB

	// system
	BKPT
	CPS
	DMB
	DSB
	ISB
	MRS
	MSR
	NOP
	SVC
	UDF
)

// InstrFlags qualifies a decoded instruction.
type InstrFlags uint8

// List of valid InstrFlags values.
const (
	// the instruction occupies two halfwords
	Flag32bit InstrFlags = 1 << iota

	// the instruction updates the APSR condition flags (the S suffix)
	FlagSetFlags

	// load/store offset is added rather than subtracted (the U bit)
	FlagAdd

	// load/store offset is applied before the access (the P bit)
	FlagIndex

	// load/store base register is written back (the W bit)
	FlagWBack

	// TB is the halfword form (TBH rather than TBB)
	FlagTbh

	// CBZ is the non-zero form (CBNZ rather than CBZ)
	FlagNonZero
)

// condition code of an unconditional instruction.
const condAlways = 0b1110

// Instr is a single decoded instruction: the output of the decoder and the
// input to the executor. It is created on every step and discarded after
// execution.
//
// Only the fields relevant to the ID are meaningful; the decoder leaves the
// rest at their zero values.
type Instr struct {
	ID    InstrID
	Flags InstrFlags

	// condition field of a conditional branch, or the firstcond field of
	// an IT instruction. condAlways otherwise
	Cond uint8

	// register indices
	Rd   int // destination
	Rn   int // first operand / base
	Rm   int // second operand / offset
	Rt   int // transfer register of a load/store
	Rt2  int // second transfer register (LDRD/STRD forms)
	Ra   int // accumulator (MLA/MLS)
	RdLo int // low word destination of a long multiply
	RdHi int // high word destination of a long multiply

	// expanded immediate. for the modified-immediate encodings CarryValid
	// reports whether the expansion produced a carry (CarryOut); when
	// false the carry flag is preserved by a flag-setting logical op
	Imm32      uint32
	CarryValid bool
	CarryOut   bool

	// shift descriptor for shifted-register operands
	ShiftType   alu.ShiftType
	ShiftAmount uint32

	// register bitmap for LDM/STM/PUSH/POP
	RegList uint16

	// IT mask, or the MSR/MRS mask field
	Mask uint8

	// special register selector for MSR/MRS
	SYSm uint8

	// bitfield geometry for BFI/UBFX
	Lsb   uint32
	Width uint32

	// the raw halfword(s) the instruction was decoded from. Lo is unused
	// by 16 bit instructions
	RawHi uint16
	RawLo uint16
}

// Is32bit returns true if the instruction occupies two halfwords.
func (ins Instr) Is32bit() bool {
	return ins.Flags&Flag32bit == Flag32bit
}

// SetFlags returns true if the instruction updates the APSR flags.
func (ins Instr) SetFlags() bool {
	return ins.Flags&FlagSetFlags == FlagSetFlags
}

// Add returns the state of the U bit of a load/store encoding.
func (ins Instr) Add() bool {
	return ins.Flags&FlagAdd == FlagAdd
}

// Index returns the state of the P bit of a load/store encoding.
func (ins Instr) Index() bool {
	return ins.Flags&FlagIndex == FlagIndex
}

// WBack returns the state of the W bit of a load/store encoding.
func (ins Instr) WBack() bool {
	return ins.Flags&FlagWBack == FlagWBack
}

// Tbh returns true for the halfword form of the table branch.
func (ins Instr) Tbh() bool {
	return ins.Flags&FlagTbh == FlagTbh
}

// NonZero returns true for the CBNZ form of the compare-and-branch.
func (ins Instr) NonZero() bool {
	return ins.Flags&FlagNonZero == FlagNonZero
}
