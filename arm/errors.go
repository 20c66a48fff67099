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

// Error patterns raised by the decoder. Decoder errors are fatal to the
// step and are surfaced to the caller of Run() or Step().
const (
	// no decode table entry matches the opcode
	DecoderUnknownOpCode = "decoder: unknown opcode: %s"

	// a field constraint of the encoding is violated (for example, PC used
	// as a destination where the architecture disallows it)
	DecoderUnpredictable = "decoder: unpredictable: %s: %s"

	// the encoding is architecturally UNDEFINED
	DecoderUndefined = "decoder: undefined: %s"
)

// Error patterns raised by the executor.
const (
	ExecutorUnpredictable = "executor: unpredictable: %s"
	ExecutorUndefined     = "executor: undefined: %s"
)

// Error pattern raised by a load/store whose address alignment is below
// the access width while CCR.UNALIGN_TRP is set.
const MemUnaligned = "memory: unaligned %d bit access of %08x"

// Error patterns raised by the run loop.
const (
	// an unrecoverable fault was latched. the detail names the fault kind
	// and the CFSR value at the time
	UnrecoverableFault = "emulator: unrecoverable fault: %s (CFSR %08x)"

	// the program requested an error exit through the semihosting channel
	ExitWithError = "emulator: exit with error: status %d"

	// the step budget given to Run() was exhausted
	StepLimit = "emulator: step limit of %d reached"

	// a behaviour referenced by the program is recognised but not part of
	// this emulation (exception return, for example)
	NotImplemented = "emulator: not implemented: %s"
)
