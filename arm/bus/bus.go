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

import (
	"encoding/binary"
	"strings"

	"github.com/jetsetilly/cortexm/curated"
)

// Error patterns raised by bus accesses.
const (
	// no region contains the access
	MemInaccessible = "bus: %s: address %08x not in any region"

	// the region containing the address is read-only
	MemWriteNotAllowed = "bus: %s: address %08x is read-only"
)

// Bus is an ordered set of disjoint memory regions. Lookup is linear;
// region counts are always small.
type Bus struct {
	regions []*Region

	// the binary interface used on the backing bytes. the core is
	// little-endian only
	byteOrder binary.ByteOrder
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus(regions ...*Region) *Bus {
	return &Bus{
		regions:   regions,
		byteOrder: binary.LittleEndian,
	}
}

// Attach adds a region to the bus. Regions must not overlap; this is the
// caller's responsibility.
func (b *Bus) Attach(r *Region) {
	b.regions = append(b.regions, r)
}

// Regions returns the regions currently attached to the bus.
func (b *Bus) Regions() []*Region {
	return b.regions
}

func (b *Bus) String() string {
	s := strings.Builder{}
	for _, r := range b.regions {
		s.WriteString(r.String())
		s.WriteString("\n")
	}
	return s.String()
}

// region resolves an access to the single region that contains it.
func (b *Bus) region(event string, addr uint32, width uint32, write bool) (*Region, error) {
	for _, r := range b.regions {
		if r.contains(addr, width) {
			if write && !r.writable {
				return nil, curated.Errorf(MemWriteNotAllowed, event, addr)
			}
			return r, nil
		}
	}
	return nil, curated.Errorf(MemInaccessible, event, addr)
}

// Read8 returns the byte at addr.
func (b *Bus) Read8(addr uint32) (uint8, error) {
	r, err := b.region("read 8bit", addr, 1, false)
	if err != nil {
		return 0, err
	}
	return r.data[addr-r.origin], nil
}

// Read16 returns the halfword at addr.
func (b *Bus) Read16(addr uint32) (uint16, error) {
	r, err := b.region("read 16bit", addr, 2, false)
	if err != nil {
		return 0, err
	}
	return b.byteOrder.Uint16(r.data[addr-r.origin:]), nil
}

// Read32 returns the word at addr.
func (b *Bus) Read32(addr uint32) (uint32, error) {
	r, err := b.region("read 32bit", addr, 4, false)
	if err != nil {
		return 0, err
	}
	return b.byteOrder.Uint32(r.data[addr-r.origin:]), nil
}

// Write8 stores a byte at addr.
func (b *Bus) Write8(addr uint32, val uint8) error {
	r, err := b.region("write 8bit", addr, 1, true)
	if err != nil {
		return err
	}
	r.data[addr-r.origin] = val
	return nil
}

// Write16 stores a halfword at addr.
func (b *Bus) Write16(addr uint32, val uint16) error {
	r, err := b.region("write 16bit", addr, 2, true)
	if err != nil {
		return err
	}
	b.byteOrder.PutUint16(r.data[addr-r.origin:], val)
	return nil
}

// Write32 stores a word at addr.
func (b *Bus) Write32(addr uint32, val uint32) error {
	r, err := b.region("write 32bit", addr, 4, true)
	if err != nil {
		return err
	}
	b.byteOrder.PutUint32(r.data[addr-r.origin:], val)
	return nil
}

// Peek32 returns the word at addr without any permission consequence. For
// use by debugging tools; never by the emulated core.
func (b *Bus) Peek32(addr uint32) (uint32, bool) {
	r, err := b.region("peek", addr, 4, false)
	if err != nil {
		return 0, false
	}
	return b.byteOrder.Uint32(r.data[addr-r.origin:]), true
}
