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

// Package elf turns a firmware image into the inputs the processor core
// needs: an entry point, an initial main stack pointer and a set of memory
// regions. Only little-endian ELF32 images for the ARM machine type are
// accepted.
//
// Each PT_LOAD segment becomes one region, writable according to the
// segment flags and zero-padded to its full memory size (which is how
// .bss arrives cleared). Images that carry no writable segment at all are
// given a conventional RAM region so that the stack has somewhere to live.
package elf
