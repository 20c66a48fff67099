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

// Package fault latches pending exceptions for the emulated core and keeps
// the Configurable Fault Status Register up to date. The package stops at
// latching: exception prioritisation, preemption and the stacking sequence
// of exception entry are not modelled. The run loop consumes the pending
// set between instructions and decides whether execution can continue.
//
// The CFSR is a single word composed of three subfields:
//
//	bits 7:0    MMFSR (MemManage)
//	bits 15:8   BFSR  (BusFault)
//	bits 31:16  UFSR  (UsageFault)
//
// The bit position constants in this package are absolute positions within
// the composed word, as given in "B3.2.15 Configurable Fault Status
// Register" of "ARMv7-M".
package fault
