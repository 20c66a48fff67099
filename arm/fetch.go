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

import "github.com/jetsetilly/cortexm/arm/fault"

// RawInstr is one fetched instruction before decoding: one halfword, or
// two for the 32 bit Thumb-2 encodings.
type RawInstr struct {
	// address the instruction was fetched from
	Addr uint32

	// first and second halfword. Lo is only meaningful when Is32 is true
	Hi uint16
	Lo uint16

	// the instruction occupies two halfwords
	Is32 bool
}

// is32BitThumb2 returns true if the halfword is the first half of a 32 bit
// instruction.
//
// "A5.1 Thumb instruction set encoding" of "ARMv7-M": halfwords with the
// top five bits 11101, 11110 or 11111 introduce a 32 bit encoding.
func is32BitThumb2(opcode uint16) bool {
	return opcode&0xf800 == 0xe800 || opcode&0xf000 == 0xf000
}

// fetch reads the instruction at the current PC. A bus error during fetch
// latches a precise instruction-bus fault before being returned.
func (arm *ARM) fetch() (RawInstr, error) {
	pc := arm.state.registers[rPC]

	hi, err := arm.mem.Read16(pc)
	if err != nil {
		arm.trigger.PendBusFault(fault.IBusErr, pc, false)
		return RawInstr{}, err
	}

	raw := RawInstr{
		Addr: pc,
		Hi:   hi,
	}

	if is32BitThumb2(hi) {
		lo, err := arm.mem.Read16(pc + 2)
		if err != nil {
			arm.trigger.PendBusFault(fault.IBusErr, pc+2, false)
			return RawInstr{}, err
		}
		raw.Lo = lo
		raw.Is32 = true
	}

	return raw, nil
}
