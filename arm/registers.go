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
	"strings"
)

// register names.
const (
	rSB = 9 + iota // static base
	rSL            // stack limit
	rFP            // frame pointer
	rIP            // intra-procedure-call scratch register
	rSP
	rLR
	rPC
	NumRegisters
)

// CCR bit positions.
//
// "B3.2.8 Configuration and Control Register" of "ARMv7-M"
const (
	CCRUnalignTrp uint32 = 0x00000008 // trap unaligned accesses
	CCRDiv0Trp    uint32 = 0x00000010 // trap divide by zero
	CCRStkAlign   uint32 = 0x00000200 // 8-byte stack alignment on exception entry
)

// the EPSR T bit. this core is Thumb-only so the bit is set for the whole
// of a normal execution; an instruction that tries to clear it raises
// UsageFault[INVSTATE]
const epsrTbit uint32 = 0x01000000

// ARMState is the architectural state of the processor. saveable and
// restorable as a unit.
type ARMState struct {
	// general registers. the rSP entry always holds the stack pointer
	// currently selected by CONTROL.SPSEL and the execution mode; the
	// banked copies below shadow it
	registers [NumRegisters]uint32

	// banked stack pointers. the one currently selected is kept equal to
	// registers[rSP] at all times
	msp uint32
	psp uint32

	// APSR flags and IT state
	status Status

	// EPSR T bit. must be set while executing
	tbit bool

	// IPSR exception number. zero in thread mode
	ipsr uint8

	// CONTROL register fields
	npriv bool // nPRIV: thread mode is unprivileged
	spsel bool // SPSEL: thread mode uses PSP
	fpca  bool // FPCA: always false, no FP extension

	// PRIMASK/BASEPRI/FAULTMASK. latched but not acted on: exception
	// prioritisation is outside the core scope
	primask   bool
	basepri   uint8
	faultmask bool

	// fault status registers
	cfsr  uint32
	bfar  uint32
	mmfar uint32

	// configuration and control
	ccr uint32

	// the PC of the instruction currently being executed. registers[rPC]
	// holds the same value between instructions; during execution of a
	// branch registers[rPC] is updated first
	instructionPC uint32
}

// Snapshot makes a copy of the ARMState.
func (s *ARMState) Snapshot() *ARMState {
	n := *s
	return &n
}

func (s *ARMState) String() string {
	b := strings.Builder{}
	for i, r := range s.registers {
		if i > 0 {
			if i%4 == 0 {
				b.WriteString("\n")
			} else {
				b.WriteString("\t\t")
			}
		}
		b.WriteString(fmt.Sprintf("R%-2d: %08x", i, r))
	}
	b.WriteString(fmt.Sprintf("\n%s", s.status.String()))
	return b.String()
}

// IsHandlerMode is true while the processor is servicing an exception.
//
// "B1.3.2 Operating modes" of "ARMv7-M": the processor is in handler mode
// exactly when the IPSR holds a non-zero exception number.
func (s *ARMState) IsHandlerMode() bool {
	return s.ipsr != 0
}

// IsThreadMode is true during normal program execution.
func (s *ARMState) IsThreadMode() bool {
	return !s.IsHandlerMode()
}

// IsPrivileged is true when the current execution can access the
// restricted system registers.
func (s *ARMState) IsPrivileged() bool {
	return s.IsHandlerMode() || !s.npriv
}

// useMainStack returns the effective stack pointer selection. handler mode
// always uses the main stack regardless of CONTROL.SPSEL.
func (s *ARMState) useMainStack() bool {
	return s.IsHandlerMode() || !s.spsel
}

// setSPSel changes the CONTROL.SPSEL field, swapping the visible stack
// pointer between the banked copies. ignored in handler mode.
func (s *ARMState) setSPSel(sel bool) {
	if s.IsHandlerMode() {
		return
	}
	if s.spsel == sel {
		return
	}

	// save the outgoing selection before switching
	if s.useMainStack() {
		s.msp = s.registers[rSP]
	} else {
		s.psp = s.registers[rSP]
	}

	s.spsel = sel

	if s.useMainStack() {
		s.registers[rSP] = s.msp
	} else {
		s.registers[rSP] = s.psp
	}
}

// ReadRegister returns the value of a general register. Reading the PC
// returns the address of the executing instruction plus four, which is the
// architecturally visible PC during execution.
func (arm *ARM) ReadRegister(reg int) uint32 {
	if reg == rPC {
		return arm.state.instructionPC + 4
	}
	return arm.state.registers[reg]
}

// WriteRegister sets the value of a general register. Writing the PC this
// way is reserved for the branch helpers; use of those helpers keeps the
// branch-write rules of the architecture in one place.
func (arm *ARM) WriteRegister(reg int, value uint32) {
	arm.state.registers[reg] = value
	if reg == rSP {
		if arm.state.useMainStack() {
			arm.state.msp = value
		} else {
			arm.state.psp = value
		}
	}
}

// Registers returns a copy of the current values in the general registers.
func (arm *ARM) Registers() [NumRegisters]uint32 {
	return arm.state.registers
}

// Status returns a copy of the current status register.
func (arm *ARM) Status() Status {
	return arm.state.status
}

// APSR returns the application program status register.
func (arm *ARM) APSR() uint32 {
	return arm.state.status.apsr()
}

// SetAPSR writes the application program status register. reserved bits
// are masked out.
func (arm *ARM) SetAPSR(value uint32) {
	arm.state.status.setAPSR(value)
}

// IPSR returns the interrupt program status register: the number of the
// exception currently being serviced, or zero in thread mode.
func (arm *ARM) IPSR() uint32 {
	return uint32(arm.state.ipsr)
}

// SetIPSR writes the interrupt program status register. the exception
// number field is 8 bits; excess bits are discarded.
func (arm *ARM) SetIPSR(value uint32) {
	arm.state.ipsr = uint8(value)
}

// EPSR returns the execution program status register: the T bit and the
// ITSTATE bits in their architectural positions.
//
// "B1.4.2 The special-purpose program status registers" of "ARMv7-M": IT
// bits 7:2 live at positions 15:10 and bits 1:0 at positions 26:25.
func (arm *ARM) EPSR() uint32 {
	var v uint32
	if arm.state.tbit {
		v |= epsrTbit
	}
	it := uint32(arm.state.status.itState())
	v |= (it & 0b11) << 25
	v |= ((it >> 2) & 0b111111) << 10
	return v
}

// IEPSR returns the composition of IPSR and EPSR.
func (arm *ARM) IEPSR() uint32 {
	return arm.IPSR() | arm.EPSR()
}

// XPSR returns the composition of APSR, IPSR and EPSR.
func (arm *ARM) XPSR() uint32 {
	return arm.APSR() | arm.IPSR() | arm.EPSR()
}

// ISTATE returns the 8 bit IT execution state.
func (arm *ARM) ISTATE() uint8 {
	return arm.state.status.itState()
}

// MSP returns the banked main stack pointer.
func (arm *ARM) MSP() uint32 {
	if arm.state.useMainStack() {
		return arm.state.registers[rSP]
	}
	return arm.state.msp
}

// SetMSP writes the banked main stack pointer.
func (arm *ARM) SetMSP(value uint32) {
	arm.state.msp = value
	if arm.state.useMainStack() {
		arm.state.registers[rSP] = value
	}
}

// PSP returns the banked process stack pointer.
func (arm *ARM) PSP() uint32 {
	if !arm.state.useMainStack() {
		return arm.state.registers[rSP]
	}
	return arm.state.psp
}

// SetPSP writes the banked process stack pointer.
func (arm *ARM) SetPSP(value uint32) {
	arm.state.psp = value
	if !arm.state.useMainStack() {
		arm.state.registers[rSP] = value
	}
}

// CONTROL returns the control register composition.
func (arm *ARM) CONTROL() uint32 {
	var v uint32
	if arm.state.npriv {
		v |= 0b001
	}
	if arm.state.spsel {
		v |= 0b010
	}
	if arm.state.fpca {
		v |= 0b100
	}
	return v
}

// SetCONTROL writes the control register. The SPSEL field is ignored in
// handler mode; FPCA is ignored always (no FP extension).
func (arm *ARM) SetCONTROL(value uint32) {
	arm.state.npriv = value&0b001 == 0b001
	arm.state.setSPSel(value&0b010 == 0b010)
}

// PRIMASK returns the exception mask register.
func (arm *ARM) PRIMASK() uint32 {
	if arm.state.primask {
		return 1
	}
	return 0
}

// SetPRIMASK writes the exception mask register.
func (arm *ARM) SetPRIMASK(value uint32) {
	arm.state.primask = value&0x01 == 0x01
}

// CCR returns the configuration and control register.
func (arm *ARM) CCR() uint32 {
	return arm.state.ccr
}

// SetCCR writes the configuration and control register.
func (arm *ARM) SetCCR(value uint32) {
	arm.state.ccr = value
}

// SYSCTRL is a synthetic composition of the execution state for the
// benefit of debugging tools: the T bit, the mode and mirrors of CONTROL.
func (arm *ARM) SYSCTRL() uint32 {
	var v uint32
	if arm.state.tbit {
		v |= 0b0001
	}
	if arm.state.IsHandlerMode() {
		v |= 0b0010
	}
	v |= arm.CONTROL() << 2
	return v
}

// CFSR implements the fault.Bank interface.
func (arm *ARM) CFSR() uint32 {
	return arm.state.cfsr
}

// SetCFSR implements the fault.Bank interface.
func (arm *ARM) SetCFSR(value uint32) {
	arm.state.cfsr = value
}

// SetBFAR implements the fault.Bank interface.
func (arm *ARM) SetBFAR(addr uint32) {
	arm.state.bfar = addr
}

// SetMMFAR implements the fault.Bank interface.
func (arm *ARM) SetMMFAR(addr uint32) {
	arm.state.mmfar = addr
}

// BFAR returns the bus fault address register.
func (arm *ARM) BFAR() uint32 {
	return arm.state.bfar
}

// MMFAR returns the memory management fault address register.
func (arm *ARM) MMFAR() uint32 {
	return arm.state.mmfar
}
