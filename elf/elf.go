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

package elf

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jetsetilly/cortexm/arm/bus"
	"github.com/jetsetilly/cortexm/curated"
	"github.com/jetsetilly/cortexm/logger"
)

// Error patterns raised when loading an image.
const (
	NotValid    = "elf: %s: not a valid ELF file"
	WrongHeader = "elf: %s: not a little-endian ELF32 executable for ARM"
)

// the conventional RAM region supplied when the image carries no writable
// segment of its own.
const (
	defaultRAMOrigin = 0x20000000
	defaultRAMSize   = 0x00100000
)

// Image is a loaded firmware image, ready to attach to a bus.
type Image struct {
	// execution begins here. bit 0 carries the Thumb bit
	Entry uint32

	// initial main stack pointer. taken from the first word of the vector
	// table when the image has one, or the top of RAM otherwise
	StackPointer uint32

	// one region per PT_LOAD segment, plus the conventional RAM region if
	// the image is code-only
	Regions []*bus.Region
}

// Load reads a firmware image from disk.
func Load(filename string) (*Image, error) {
	f, err := elf.Open(filename)
	if err != nil {
		return nil, curated.Errorf(NotValid, filename)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 || f.Data != elf.ELFDATA2LSB || f.Machine != elf.EM_ARM {
		return nil, curated.Errorf(WrongHeader, filename)
	}

	img := &Image{
		Entry: uint32(f.Entry),
	}

	var lowestOrigin uint32 = 0xffffffff
	var lowestData []uint8
	var ramTop uint32

	for i, p := range f.Progs {
		if p.Type != elf.PT_LOAD || p.Memsz == 0 {
			continue
		}

		// the region covers the full memory size; the file supplies the
		// initial bytes and the remainder stays zero (.bss)
		data := make([]uint8, p.Memsz)
		if p.Filesz > 0 {
			if _, err := io.ReadFull(p.Open(), data[:p.Filesz]); err != nil {
				return nil, curated.Errorf(NotValid, filename)
			}
		}

		writable := p.Flags&elf.PF_W == elf.PF_W
		name := fmt.Sprintf("load%d", i)
		if writable {
			name = fmt.Sprintf("ram%d", i)
		} else if p.Flags&elf.PF_X == elf.PF_X {
			name = fmt.Sprintf("flash%d", i)
		}

		origin := uint32(p.Vaddr)
		region := bus.NewRegionFromData(name, origin, data, writable)
		img.Regions = append(img.Regions, region)

		if origin < lowestOrigin {
			lowestOrigin = origin
			lowestData = data
		}
		if writable && region.Memtop() > ramTop {
			ramTop = region.Memtop()
		}

		logger.Logf(logger.Allow, "elf", "%s", region.String())
	}

	if len(img.Regions) == 0 {
		return nil, curated.Errorf(NotValid, filename)
	}

	if ramTop == 0 {
		// a code-only image still needs somewhere for the stack
		ram := bus.NewRegion("ram", defaultRAMOrigin, defaultRAMSize, true)
		img.Regions = append(img.Regions, ram)
		ramTop = ram.Memtop()
		logger.Logf(logger.Allow, "elf", "image has no writable segment, adding %s", ram.String())
	}

	// the first word of the vector table is the initial main stack
	// pointer. fall back to the top of RAM when the image doesn't lead
	// with a plausible table
	if len(lowestData) >= 4 {
		sp := binary.LittleEndian.Uint32(lowestData)
		if sp != 0 {
			img.StackPointer = sp
		}
	}
	if img.StackPointer == 0 {
		img.StackPointer = (ramTop + 1) &^ 0x7
	}

	return img, nil
}
