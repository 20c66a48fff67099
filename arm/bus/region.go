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

package bus

import "fmt"

// Region is a single span of memory in the address map.
type Region struct {
	name     string
	origin   uint32
	memtop   uint32
	data     []uint8
	writable bool
}

// NewRegion creates a region of the given size with zeroed backing memory.
func NewRegion(name string, origin uint32, size uint32, writable bool) *Region {
	return &Region{
		name:     name,
		origin:   origin,
		memtop:   origin + size - 1,
		data:     make([]uint8, size),
		writable: writable,
	}
}

// NewRegionFromData creates a region backed by the supplied bytes. The
// region takes ownership of the slice for the lifetime of the emulator
// session.
func NewRegionFromData(name string, origin uint32, data []uint8, writable bool) *Region {
	return &Region{
		name:     name,
		origin:   origin,
		memtop:   origin + uint32(len(data)) - 1,
		data:     data,
		writable: writable,
	}
}

func (r *Region) String() string {
	p := "r-"
	if r.writable {
		p = "rw"
	}
	return fmt.Sprintf("%s: %08x to %08x (%s)", r.name, r.origin, r.memtop, p)
}

// Name of the region.
func (r *Region) Name() string {
	return r.name
}

// Origin is the lowest address contained by the region.
func (r *Region) Origin() uint32 {
	return r.origin
}

// Memtop is the highest address contained by the region.
func (r *Region) Memtop() uint32 {
	return r.memtop
}

// Writable returns false for read-only regions.
func (r *Region) Writable() bool {
	return r.writable
}

// Data exposes the backing bytes of the region. Used by collaborators that
// fill a region at load time and by visualisation tools.
func (r *Region) Data() []uint8 {
	return r.data
}

// contains is true if the whole of the access [addr, addr+width) falls
// inside the region.
func (r *Region) contains(addr uint32, width uint32) bool {
	return addr >= r.origin && addr+width-1 <= r.memtop
}
