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

// Package bus routes memory accesses from the emulated core to the memory
// regions of the address map. A Bus is an ordered collection of disjoint
// Regions, each of which is a span of byte-backed memory that is either
// writable or read-only.
//
// Access is little-endian and sized 8, 16 or 32 bits. An access that does
// not resolve to a region returns an error with the MemInaccessible
// pattern; a write to a read-only region returns MemWriteNotAllowed. How
// those errors translate into processor faults is the concern of the core,
// not of this package.
package bus
