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
	"github.com/jetsetilly/cortexm/arm/bus"
	"github.com/jetsetilly/cortexm/arm/fault"
	"github.com/jetsetilly/cortexm/curated"
)

// the readOrRaise/writeOrRaise group wraps the typed bus accesses of a
// load/store instruction. a failed access is translated into the
// appropriate precise fault before the error is handed back to the
// executor: an unmapped address latches a BusFault with BFAR valid; a
// write to a read-only region latches a MemManage data access violation
// with MMFAR valid.
//
// alignment below the access width latches UsageFault[UNALIGNED] when
// CCR.UNALIGN_TRP is set. otherwise the bus performs the access naturally,
// split across bytes as required.

func (arm *ARM) checkAlignment(addr uint32, width uint32) error {
	if arm.state.ccr&CCRUnalignTrp != CCRUnalignTrp {
		return nil
	}
	if addr&(width-1) == 0 {
		return nil
	}
	arm.trigger.PendUsageFault(fault.Unaligned)
	return curated.Errorf(MemUnaligned, width*8, addr)
}

// raise classifies a bus error and latches the corresponding fault.
func (arm *ARM) raise(err error, addr uint32) error {
	if curated.Is(err, bus.MemWriteNotAllowed) {
		arm.trigger.PendMemManage(fault.DAccViol, addr, true)
	} else {
		arm.trigger.PendBusFault(fault.PreciseErr, addr, true)
	}
	return err
}

func (arm *ARM) readOrRaise8(addr uint32) (uint8, error) {
	v, err := arm.mem.Read8(addr)
	if err != nil {
		return 0, arm.raise(err, addr)
	}
	return v, nil
}

func (arm *ARM) readOrRaise16(addr uint32) (uint16, error) {
	if err := arm.checkAlignment(addr, 2); err != nil {
		return 0, err
	}
	v, err := arm.mem.Read16(addr)
	if err != nil {
		return 0, arm.raise(err, addr)
	}
	return v, nil
}

func (arm *ARM) readOrRaise32(addr uint32) (uint32, error) {
	if err := arm.checkAlignment(addr, 4); err != nil {
		return 0, err
	}
	v, err := arm.mem.Read32(addr)
	if err != nil {
		return 0, arm.raise(err, addr)
	}
	return v, nil
}

func (arm *ARM) writeOrRaise8(addr uint32, val uint8) error {
	if err := arm.mem.Write8(addr, val); err != nil {
		return arm.raise(err, addr)
	}
	return nil
}

func (arm *ARM) writeOrRaise16(addr uint32, val uint16) error {
	if err := arm.checkAlignment(addr, 2); err != nil {
		return err
	}
	if err := arm.mem.Write16(addr, val); err != nil {
		return arm.raise(err, addr)
	}
	return nil
}

func (arm *ARM) writeOrRaise32(addr uint32, val uint32) error {
	if err := arm.checkAlignment(addr, 4); err != nil {
		return err
	}
	if err := arm.mem.Write32(addr, val); err != nil {
		return arm.raise(err, addr)
	}
	return nil
}
