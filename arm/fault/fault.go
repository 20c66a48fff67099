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

package fault

// Kind enumerates the exception types the core can latch.
type Kind int

// List of valid Kind values.
const (
	HardFault Kind = iota
	MemManage
	BusFault
	UsageFault
	SVCall
	PendSV
	SysTick
	numKinds
)

func (k Kind) String() string {
	switch k {
	case HardFault:
		return "HardFault"
	case MemManage:
		return "MemManage"
	case BusFault:
		return "BusFault"
	case UsageFault:
		return "UsageFault"
	case SVCall:
		return "SVCall"
	case PendSV:
		return "PendSV"
	case SysTick:
		return "SysTick"
	}
	return "???"
}

// UFSR bits. absolute positions within the CFSR word (subfield base is bit
// 16).
const (
	UndefInstr uint32 = 0x00010000 // undefined instruction
	InvState   uint32 = 0x00020000 // invalid EPSR.T state
	InvPC      uint32 = 0x00040000 // invalid PC load
	NoCP       uint32 = 0x00080000 // no coprocessor
	Unaligned  uint32 = 0x01000000 // unaligned access with trapping enabled
	DivByZero  uint32 = 0x02000000 // divide by zero with trapping enabled
)

// BFSR bits. absolute positions within the CFSR word (subfield base is bit
// 8).
const (
	IBusErr     uint32 = 0x00000100 // instruction fetch error
	PreciseErr  uint32 = 0x00000200 // precise data access error
	ImpreciseEr uint32 = 0x00000400 // imprecise data access error
	UnstkErr    uint32 = 0x00000800 // fault on exception return unstacking
	StkErr      uint32 = 0x00001000 // fault on exception entry stacking
	LSPErr      uint32 = 0x00002000 // fault during lazy FP state preservation
	BFARValid   uint32 = 0x00008000 // BFAR holds the faulting address
)

// MMFSR bits. absolute positions within the CFSR word (subfield base is bit
// 0).
const (
	IAccViol  uint32 = 0x00000001 // instruction access violation
	DAccViol  uint32 = 0x00000002 // data access violation
	MUnstkErr uint32 = 0x00000008 // fault on exception return unstacking
	MStkErr   uint32 = 0x00000010 // fault on exception entry stacking
	MLSPErr   uint32 = 0x00000020 // fault during lazy FP state preservation
	MMARValid uint32 = 0x00000080 // MMFAR holds the faulting address
)

// Bank is the subset of the special register file the trigger writes to.
// Implemented by the core's register bank.
type Bank interface {
	CFSR() uint32
	SetCFSR(value uint32)
	SetBFAR(addr uint32)
	SetMMFAR(addr uint32)
}

// Trigger latches pending exceptions and records fault status.
type Trigger struct {
	bank    Bank
	pending [numKinds]bool
}

// NewTrigger is the preferred method of initialisation for the Trigger
// type.
func NewTrigger(bank Bank) *Trigger {
	return &Trigger{bank: bank}
}

// SetPending latches the exception kind without touching fault status. For
// the faulting kinds prefer the PendUsageFault / PendBusFault /
// PendMemManage functions, which record status as well.
func (t *Trigger) SetPending(kind Kind) {
	t.pending[kind] = true
}

// Pending returns true if the exception kind is latched.
func (t *Trigger) Pending(kind Kind) bool {
	return t.pending[kind]
}

// Clear unlatches the exception kind.
func (t *Trigger) Clear(kind Kind) {
	t.pending[kind] = false
}

// Any returns true if any exception is latched.
func (t *Trigger) Any() bool {
	for _, p := range t.pending {
		if p {
			return true
		}
	}
	return false
}

// Reset unlatches every exception and clears the CFSR.
func (t *Trigger) Reset() {
	t.pending = [numKinds]bool{}
	t.bank.SetCFSR(0)
}

// PendUsageFault latches a UsageFault and merges the UFSR bits into the
// CFSR.
func (t *Trigger) PendUsageFault(bits uint32) {
	t.pending[UsageFault] = true
	t.bank.SetCFSR(t.bank.CFSR() | bits)
}

// PendBusFault latches a BusFault and merges the BFSR bits into the CFSR.
// When addrValid is true the faulting address is recorded in BFAR and the
// BFARVALID bit is set.
func (t *Trigger) PendBusFault(bits uint32, addr uint32, addrValid bool) {
	t.pending[BusFault] = true
	if addrValid {
		bits |= BFARValid
		t.bank.SetBFAR(addr)
	}
	t.bank.SetCFSR(t.bank.CFSR() | bits)
}

// PendMemManage latches a MemManage fault and merges the MMFSR bits into
// the CFSR. When addrValid is true the faulting address is recorded in
// MMFAR and the MMARVALID bit is set.
func (t *Trigger) PendMemManage(bits uint32, addr uint32, addrValid bool) {
	t.pending[MemManage] = true
	if addrValid {
		bits |= MMARValid
		t.bank.SetMMFAR(addr)
	}
	t.bank.SetCFSR(t.bank.CFSR() | bits)
}
