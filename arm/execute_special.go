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
	"github.com/jetsetilly/cortexm/logger"
)

// special register numbers used by MSR and MRS.
//
// "B5.1.1 MRS" and "B5.1.2 MSR" of "ARMv7-M"
const (
	sysmAPSR       = 0
	sysmIAPSR      = 1
	sysmEAPSR      = 2
	sysmXPSR       = 3
	sysmIPSR       = 5
	sysmEPSR       = 6
	sysmIEPSR      = 7
	sysmMSP        = 8
	sysmPSP        = 9
	sysmPRIMASK    = 16
	sysmBASEPRI    = 17
	sysmBASEPRIMAX = 18
	sysmFAULTMASK  = 19
	sysmCONTROL    = 20
)

// executeBranch is the branch and table-branch group.
func (arm *ARM) executeBranch(ins Instr) (bool, error) {
	switch ins.ID {
	case B:
		arm.branchWritePC(arm.ReadRegister(rPC) + ins.Imm32)
		return true, nil

	case BL:
		// the return address is the instruction following this one, with
		// bit 0 flagging Thumb state
		arm.WriteRegister(rLR, (arm.state.instructionPC+4)|0x00000001)
		arm.branchWritePC(arm.ReadRegister(rPC) + ins.Imm32)
		return true, nil

	case BLX:
		target := arm.ReadRegister(ins.Rm)
		return true, arm.blxWritePC(target, arm.state.instructionPC+2)

	case BX:
		return true, arm.bxWritePC(arm.ReadRegister(ins.Rm))

	case CBZ:
		v := arm.ReadRegister(ins.Rn)
		if (v == 0) != ins.NonZero() {
			arm.branchWritePC(arm.ReadRegister(rPC) + ins.Imm32)
			return true, nil
		}
		return false, nil

	case TB:
		base := arm.ReadRegister(ins.Rn)
		idx := arm.ReadRegister(ins.Rm)

		var halfwords uint32
		if ins.Tbh() {
			v, err := arm.readOrRaise16(base + (idx << 1))
			if err != nil {
				return false, err
			}
			halfwords = uint32(v)
		} else {
			v, err := arm.readOrRaise8(base + idx)
			if err != nil {
				return false, err
			}
			halfwords = uint32(v)
		}

		arm.branchWritePC(arm.ReadRegister(rPC) + (halfwords << 1))
		return true, nil
	}

	return false, curated.Errorf(ExecutorUndefined, ins.ID.String())
}

// executeSystem is the system instruction group.
func (arm *ARM) executeSystem(ins Instr) (exitRequest, error) {
	switch ins.ID {
	case NOP:
		// nothing. this includes the nop-compatible hints

	case DMB, DSB, ISB:
		// single-threaded cooperative model: every access is already
		// complete and in order by the time the next instruction runs

	case BKPT:
		return arm.executeBKPT(ins)

	case SVC:
		return arm.executeSVC(ins)

	case CPS:
		if arm.state.IsPrivileged() && ins.Mask&0b10 == 0b10 {
			arm.state.primask = ins.Imm32 == 1
		}

	case MRS:
		arm.WriteRegister(ins.Rd, arm.readSpecial(ins.SYSm))

	case MSR:
		arm.writeSpecial(ins.SYSm, ins.Mask, arm.ReadRegister(ins.Rn))

	case UDF:
		arm.trigger.PendUsageFault(fault.UndefInstr)
		return exitNone, curated.Errorf(ExecutorUndefined, "permanently undefined (UDF)")

	default:
		return exitNone, curated.Errorf(ExecutorUndefined, ins.ID.String())
	}

	return exitNone, nil
}

// executeBKPT hands the breakpoint to the attached handler. an unclaimed
// breakpoint latches a UsageFault.
func (arm *ARM) executeBKPT(ins Instr) (exitRequest, error) {
	if arm.bkpt != nil {
		flags, err := arm.bkpt.Bkpt(uint8(ins.Imm32))
		if err != nil {
			return exitNone, err
		}
		if flags&BkptReqExit == BkptReqExit {
			return exitClean, nil
		}
		if flags&BkptReqErrorExit == BkptReqErrorExit {
			return exitError, nil
		}
		if flags&BkptOmitException == BkptOmitException {
			return exitNone, nil
		}
	}

	arm.trigger.PendUsageFault(fault.UndefInstr)
	return exitNone, nil
}

// executeSVC hands the supervisor call to the attached handler. with no
// handler the call is latched as a pending SVCall exception.
func (arm *ARM) executeSVC(ins Instr) (exitRequest, error) {
	if arm.svc != nil {
		flags, err := arm.svc.Svc(uint8(ins.Imm32))
		if err != nil {
			return exitNone, err
		}
		if flags&SvcReqExit == SvcReqExit {
			return exitClean, nil
		}
		if flags&SvcReqErrorExit == SvcReqErrorExit {
			return exitError, nil
		}
		if flags&SvcOmitException == SvcOmitException {
			return exitNone, nil
		}
	}

	arm.trigger.SetPending(fault.SVCall)
	return exitNone, nil
}

// readSpecial implements MRS.
//
// the EPSR reads as zero through MRS, so EAPSR and IEPSR reduce to their
// other half. unprivileged reads of the restricted registers return zero.
func (arm *ARM) readSpecial(sysm uint8) uint32 {
	switch sysm {
	case sysmAPSR, sysmEAPSR:
		return arm.APSR()
	case sysmIAPSR, sysmXPSR:
		return arm.APSR() | arm.IPSR()
	case sysmEPSR:
		return 0
	case sysmIPSR, sysmIEPSR:
		if !arm.state.IsPrivileged() {
			return 0
		}
		return arm.IPSR()
	case sysmMSP:
		if !arm.state.IsPrivileged() {
			return 0
		}
		return arm.MSP()
	case sysmPSP:
		if !arm.state.IsPrivileged() {
			return 0
		}
		return arm.PSP()
	case sysmPRIMASK:
		if !arm.state.IsPrivileged() {
			return 0
		}
		return arm.PRIMASK()
	case sysmBASEPRI, sysmBASEPRIMAX:
		if !arm.state.IsPrivileged() {
			return 0
		}
		return uint32(arm.state.basepri)
	case sysmFAULTMASK:
		if !arm.state.IsPrivileged() {
			return 0
		}
		if arm.state.faultmask {
			return 1
		}
		return 0
	case sysmCONTROL:
		return arm.CONTROL()
	}

	logger.Logf(logger.Allow, "ARM", "MRS of unimplemented special register (SYSm %d)", sysm)
	return 0
}

// writeSpecial implements MSR. the mask argument qualifies the APSR
// writes: bit 1 selects the condition flags, bit 0 the GE field.
func (arm *ARM) writeSpecial(sysm uint8, mask uint8, value uint32) {
	switch sysm {
	case sysmAPSR, sysmIAPSR, sysmEAPSR, sysmXPSR:
		// unselected fields are unchanged
		v := arm.APSR()
		if mask&0b10 == 0b10 {
			v = (v & ^uint32(0xf8000000)) | (value & 0xf8000000)
		}
		if mask&0b01 == 0b01 {
			v = (v & ^uint32(0x000f0000)) | (value & 0x000f0000)
		}
		arm.SetAPSR(v)
		return
	}

	if !arm.state.IsPrivileged() {
		return
	}

	switch sysm {
	case sysmMSP:
		arm.SetMSP(value)
	case sysmPSP:
		arm.SetPSP(value)
	case sysmPRIMASK:
		arm.SetPRIMASK(value)
	case sysmBASEPRI, sysmBASEPRIMAX:
		// BASEPRI is latched but has no effect: exception prioritisation
		// is outside the core scope
		arm.state.basepri = uint8(value)
	case sysmFAULTMASK:
		arm.state.faultmask = value&0x01 == 0x01
	case sysmCONTROL:
		arm.SetCONTROL(value)
	default:
		logger.Logf(logger.Allow, "ARM", "MSR of unimplemented special register (SYSm %d)", sysm)
	}
}
