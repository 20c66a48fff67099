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
	"io"

	"github.com/jetsetilly/cortexm/arm/bus"
	"github.com/jetsetilly/cortexm/arm/fault"
	"github.com/jetsetilly/cortexm/curated"
	"github.com/jetsetilly/cortexm/logger"
)

// Hook functions are called around every instruction step.
type Hook func(*ARM)

// ARM implements an ARMv7-M profile processor.
type ARM struct {
	mem     *bus.Bus
	state   *ARMState
	trigger *fault.Trigger

	// host delegates for BKPT and SVC
	bkpt BkptHandler
	svc  SvcHandler

	// optional hooks around every step
	preExec  Hook
	postExec Hook

	// optional writer for the per-step trace
	trace io.Writer

	// the exit request of the most recent step
	lastExit exitRequest

	// number of instructions retired since the last Reset()
	steps uint64
}

// NewARM is the preferred method of initialisation for the ARM type. The
// bus carries the memory map the processor executes against.
func NewARM(mem *bus.Bus) *ARM {
	arm := &ARM{
		mem:   mem,
		state: &ARMState{},
	}
	arm.trigger = fault.NewTrigger(arm)
	arm.Reset(0, 0)
	return arm
}

// Reset places the processor in its boot state: thread mode, main stack,
// privileged, flags clear. The sp argument initialises the main stack
// pointer and entry the PC. Bit 0 of the entry address carries the Thumb
// bit, exactly as in an ELF entry point or a vector table entry.
func (arm *ARM) Reset(sp uint32, entry uint32) {
	state := arm.state

	state.status.reset()
	for i := range state.registers {
		state.registers[i] = 0x00000000
	}

	state.msp = sp
	state.psp = 0
	state.registers[rSP] = sp
	state.registers[rLR] = 0xffffffff
	state.registers[rPC] = entry & 0xfffffffe
	state.instructionPC = state.registers[rPC]

	state.tbit = entry&0x00000001 == 0x00000001
	state.ipsr = 0
	state.npriv = false
	state.spsel = false
	state.fpca = false
	state.primask = false
	state.basepri = 0
	state.faultmask = false

	// STKALIGN is the only CCR bit set out of reset
	state.ccr = CCRStkAlign

	state.cfsr = 0
	state.bfar = 0
	state.mmfar = 0

	arm.trigger.Reset()
	arm.lastExit = exitNone
	arm.steps = 0
}

// Plumb a previously snapshotted state back into the processor.
func (arm *ARM) Plumb(state *ARMState) {
	if state != nil {
		arm.state = state
	}
}

// Snapshot makes a copy of the processor state.
func (arm *ARM) Snapshot() *ARMState {
	return arm.state.Snapshot()
}

// Attach the handler that services BKPT instructions.
func (arm *ARM) Attach(bkpt BkptHandler) {
	arm.bkpt = bkpt
}

// AttachSVC attaches the handler that services SVC instructions.
func (arm *ARM) AttachSVC(svc SvcHandler) {
	arm.svc = svc
}

// SetPreExec registers a hook to run before every instruction.
func (arm *ARM) SetPreExec(hook Hook) {
	arm.preExec = hook
}

// SetPostExec registers a hook to run after every instruction.
func (arm *ARM) SetPostExec(hook Hook) {
	arm.postExec = hook
}

// SetTrace attaches a writer that receives one line per retired
// instruction. A nil writer stops the tracing.
func (arm *ARM) SetTrace(w io.Writer) {
	arm.trace = w
}

// PC returns the address of the next instruction to be executed.
func (arm *ARM) PC() uint32 {
	return arm.state.registers[rPC]
}

// Steps returns the number of instructions retired since the last Reset.
func (arm *ARM) Steps() uint64 {
	return arm.steps
}

// Trigger exposes the pending-exception latch.
func (arm *ARM) Trigger() *fault.Trigger {
	return arm.trigger
}

// Mem exposes the bus the processor was created with.
func (arm *ARM) Mem() *bus.Bus {
	return arm.mem
}

func (arm *ARM) String() string {
	return arm.state.String()
}

// ExitStatus returns the status value supplied by the program through the
// semihosting channel. zero if the program never supplied one.
func (arm *ARM) ExitStatus() uint32 {
	if arm.bkpt == nil {
		return 0
	}
	return arm.bkpt.ExitStatus()
}

// unrecoverable returns the first latched fault that the core cannot
// continue past. with no exception entry modelling, every latched fault is
// final.
func (arm *ARM) unrecoverable() (fault.Kind, bool) {
	for _, k := range []fault.Kind{fault.HardFault, fault.MemManage, fault.BusFault, fault.UsageFault} {
		if arm.trigger.Pending(k) {
			return k, true
		}
	}
	return 0, false
}

// Step executes a single instruction. The returned boolean is true when
// the program has requested an exit and the run should stop.
func (arm *ARM) Step() (bool, error) {
	if arm.preExec != nil {
		arm.preExec(arm)
	}

	// serve pending exceptions. latched faults are unrecoverable in the
	// core scope and terminate the run
	if kind, bad := arm.unrecoverable(); bad {
		return true, curated.Errorf(UnrecoverableFault, kind.String(), arm.state.cfsr)
	}

	// executing with the T bit clear is not a state this core can be in
	if !arm.state.tbit {
		arm.trigger.PendUsageFault(fault.InvState)
		return true, curated.Errorf(UnrecoverableFault, fault.UsageFault.String(), arm.state.cfsr)
	}

	raw, err := arm.fetch()
	if err != nil {
		return true, err
	}
	arm.state.instructionPC = raw.Addr

	ins, err := Decode(raw)
	if err != nil {
		return true, err
	}

	req, err := arm.execute(ins)
	if err != nil {
		return true, err
	}

	arm.steps++

	if arm.trace != nil {
		if raw.Is32 {
			fmt.Fprintf(arm.trace, "%08x  %04x %04x  %s\n", raw.Addr, raw.Hi, raw.Lo, ins.String())
		} else {
			fmt.Fprintf(arm.trace, "%08x  %04x       %s\n", raw.Addr, raw.Hi, ins.String())
		}
	}

	if arm.postExec != nil {
		arm.postExec(arm)
	}

	arm.lastExit = req
	return req != exitNone, nil
}

// Run drives the processor until the program exits, a fault terminates the
// run, or the step budget is exhausted. A limit of zero or less means no
// budget. The return values are the program's exit status and the reason
// for stopping; a clean exit returns a nil error.
func (arm *ARM) Run(limit int) (uint32, error) {
	for n := 0; ; n++ {
		if limit > 0 && n >= limit {
			return 0, curated.Errorf(StepLimit, limit)
		}

		done, err := arm.Step()
		if err != nil {
			logger.Logf(logger.Allow, "ARM", "run ended: %v", err)
			return 0, err
		}
		if !done {
			continue
		}

		status := arm.ExitStatus()
		if arm.lastExit == exitError {
			return status, curated.Errorf(ExitWithError, status)
		}
		return status, nil
	}
}
