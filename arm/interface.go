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

// BkptFlags is the set of requests a BkptHandler can make of the run loop.
type BkptFlags uint8

// List of valid BkptFlags values.
const (
	// the handler recognised the breakpoint and no UsageFault should be
	// raised for it
	BkptOmitException BkptFlags = 1 << iota

	// the program asked to stop cleanly
	BkptReqExit

	// the program asked to stop with an error status
	BkptReqErrorExit
)

// BkptHandler instances are given the chance to service a BKPT instruction
// before it is treated as an unhandled breakpoint. The semihosting package
// provides the usual implementation.
type BkptHandler interface {
	// Bkpt is called with the immediate field of the BKPT instruction. A
	// handler that does not recognise the immediate returns a zero
	// BkptFlags value and the executor latches a UsageFault
	Bkpt(imm8 uint8) (BkptFlags, error)

	// ExitStatus returns the status value supplied by the program with the
	// exit request, if there was one
	ExitStatus() uint32
}

// SvcFlags is the set of requests an SvcHandler can make of the run loop.
type SvcFlags uint8

// List of valid SvcFlags values.
const (
	SvcOmitException SvcFlags = 1 << iota
	SvcReqExit
	SvcReqErrorExit
)

// SvcHandler instances are given the chance to service an SVC instruction.
// With no handler attached, SVCall is latched as a pending exception and
// execution continues.
type SvcHandler interface {
	Svc(imm8 uint8) (SvcFlags, error)
}
