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
	"math/bits"

	"github.com/jetsetilly/cortexm/arm/alu"
	"github.com/jetsetilly/cortexm/curated"
)

// loadStoreAddress resolves the access address of a load/store single,
// combining the index, add and writeback flags.
//
//	P=1 W=0   offset addressing, no writeback
//	P=0 W=1   post-indexed: access at the base, then update the base
//	P=1 W=1   pre-indexed: access at base +/- offset and update the base
//
// the returned function performs the writeback and must be called after
// the access has succeeded.
func (arm *ARM) loadStoreAddress(ins Instr) (uint32, func()) {
	var base uint32
	if ins.Rn == rPC {
		// literal addressing uses the word-aligned PC
		base = arm.ReadRegister(rPC) & 0xfffffffc
	} else {
		base = arm.ReadRegister(ins.Rn)
	}

	var offset uint32
	switch ins.ID {
	case LDRreg, LDRBreg, LDRHreg, LDRSBreg, LDRSHreg, STRreg, STRBreg, STRHreg:
		offset = alu.Shift(arm.ReadRegister(ins.Rm), ins.ShiftType, ins.ShiftAmount, arm.state.status.carry)
	default:
		offset = ins.Imm32
	}

	offsetAddr := base + offset
	if !ins.Add() {
		offsetAddr = base - offset
	}

	addr := base
	if ins.Index() {
		addr = offsetAddr
	}

	writeback := func() {}
	if ins.WBack() {
		writeback = func() { arm.WriteRegister(ins.Rn, offsetAddr) }
	}

	return addr, writeback
}

// executeLoadStore is the load/store single data item group.
func (arm *ARM) executeLoadStore(ins Instr) (bool, error) {
	addr, writeback := arm.loadStoreAddress(ins)

	switch ins.ID {
	case LDRimm, LDRreg, LDRlit:
		v, err := arm.readOrRaise32(addr)
		if err != nil {
			return false, err
		}
		writeback()
		if ins.Rt == rPC {
			// an aligned load into the PC is an interworking branch
			if addr&0x03 != 0x00 {
				return false, curated.Errorf(ExecutorUnpredictable, "load to PC from unaligned address")
			}
			return true, arm.loadWritePC(v)
		}
		arm.WriteRegister(ins.Rt, v)

	case LDRBimm, LDRBreg:
		v, err := arm.readOrRaise8(addr)
		if err != nil {
			return false, err
		}
		writeback()
		arm.WriteRegister(ins.Rt, uint32(v))

	case LDRHimm, LDRHreg:
		v, err := arm.readOrRaise16(addr)
		if err != nil {
			return false, err
		}
		writeback()
		arm.WriteRegister(ins.Rt, uint32(v))

	case LDRSBimm, LDRSBreg:
		v, err := arm.readOrRaise8(addr)
		if err != nil {
			return false, err
		}
		writeback()
		arm.WriteRegister(ins.Rt, alu.SignExtend8(uint32(v)))

	case LDRSHimm, LDRSHreg:
		v, err := arm.readOrRaise16(addr)
		if err != nil {
			return false, err
		}
		writeback()
		arm.WriteRegister(ins.Rt, alu.SignExtend16(uint32(v)))

	case STRimm, STRreg:
		if err := arm.writeOrRaise32(addr, arm.ReadRegister(ins.Rt)); err != nil {
			return false, err
		}
		writeback()

	case STRBimm, STRBreg:
		if err := arm.writeOrRaise8(addr, uint8(arm.ReadRegister(ins.Rt))); err != nil {
			return false, err
		}
		writeback()

	case STRHimm, STRHreg:
		if err := arm.writeOrRaise16(addr, uint16(arm.ReadRegister(ins.Rt))); err != nil {
			return false, err
		}
		writeback()

	default:
		return false, curated.Errorf(ExecutorUndefined, ins.ID.String())
	}

	return false, nil
}

// executeLoadStoreMultiple is the LDM/STM/PUSH/POP group. memory access
// order is always ascending by register index; the word count is the
// population count of the register bitmap.
func (arm *ARM) executeLoadStoreMultiple(ins Instr) (bool, error) {
	count := uint32(bits.OnesCount16(ins.RegList))
	if count == 0 {
		return false, curated.Errorf(ExecutorUnpredictable, "empty register list")
	}

	base := arm.ReadRegister(ins.Rn)

	// the descending forms access the same ascending sequence from a
	// lowered base
	var start, wbValue uint32
	switch ins.ID {
	case LDM, POP:
		start = base
		wbValue = base + count*4
	case STM:
		start = base
		wbValue = base + count*4
	case LDMDB, STMDB, PUSH:
		start = base - count*4
		wbValue = base - count*4
	}

	load := false
	switch ins.ID {
	case LDM, LDMDB, POP:
		load = true
	case STM, STMDB, PUSH:
		// a store of the base register is only defined when the base is
		// the lowest register in the list
		if ins.WBack() && ins.RegList&(1<<ins.Rn) != 0 {
			if uint16(1<<ins.Rn) != ins.RegList&-ins.RegList {
				return false, curated.Errorf(ExecutorUndefined, "store multiple with base register in list")
			}
		}
	}

	branched := false
	addr := start

	for i := 0; i < 16; i++ {
		if ins.RegList&(1<<i) == 0 {
			continue
		}

		if load {
			v, err := arm.readOrRaise32(addr)
			if err != nil {
				return false, err
			}
			if i == rPC {
				// bit 15 means return through an interworking branch. the
				// PC is always the last word of the sequence
				if err := arm.loadWritePC(v); err != nil {
					return false, err
				}
				branched = true
			} else {
				arm.WriteRegister(i, v)
			}
		} else {
			if err := arm.writeOrRaise32(addr, arm.ReadRegister(i)); err != nil {
				return false, err
			}
		}

		addr += 4
	}

	if ins.WBack() {
		// a load that included the base register wins over the writeback;
		// the decoder has already cleared the flag in that case
		arm.WriteRegister(ins.Rn, wbValue)
	}

	return branched, nil
}
