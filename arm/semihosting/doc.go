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

// Package semihosting implements the host side of the ARM semihosting
// convention: firmware executes BKPT #0xAB with an operation selector in
// r0 and a parameter block pointer in r1, and the host performs the I/O on
// its behalf.
//
// The package implements the subset of operations a newlib/libgloss image
// needs to reach stdout and exit: OPEN/CLOSE/WRITE/ISTTY/ISERROR/FLEN/
// ERRNO on the ":tt" console handles, CLOCK, HEAPINFO, GETCMDLINE, and the
// EXIT pair. Opening ":semihosting-features" exposes the feature magic
// advertising EXIT_EXTENDED and the split stdout/stderr streams; READ and
// SEEK serve only that feature stream.
//
// Reference: "Semihosting for AArch32 and AArch64", ARM DUI0471 and the
// semihosting chapter of the ARM Compiler toolchain documentation.
package semihosting
