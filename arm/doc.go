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

// Package arm implements the processor core of an ARMv7-M (Cortex-M3 class)
// emulation. The core executes the Thumb and Thumb-2 instruction encodings
// exclusively; there is no ARM (A32) state in this profile.
//
// The pipeline is the classic fetch, decode, execute arrangement:
//
//	fetcher   reads one or two halfwords at the PC and presents a raw
//	          16 bit or 32 bit instruction
//	decoder   a pure function from the raw instruction to a typed Instr
//	          record. the decoder never touches processor state
//	executor  applies the Instr to the processor state, using the alu
//	          package for arithmetic, the bus package for memory and the
//	          fault package for exception latching
//
// The ARM type owns the processor state and drives the pipeline through its
// Run() and Step() functions. Host services (semihosting) are reached
// through the BkptHandler and SvcHandler interfaces.
//
// The "ARMv7-M Architecture Reference Manual" referenced throughout the
// package ("ARMv7-M" for brevity) can be found at:
//
// https://documentation-service.arm.com/static/606dc36485368c4c2b1bf62f
package arm
