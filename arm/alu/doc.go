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

// Package alu implements the integer primitives shared by every instruction
// in the emulated core: addition with carry, the five shift forms, the Thumb
// modified-immediate expansion, leading-zero count and the narrow-width
// extensions.
//
// All functions are pure and stateless. Where a function implements a
// pseudocode operation from the "ARMv7-M Architecture Reference Manual" the
// pseudocode is quoted alongside the implementation.
package alu
