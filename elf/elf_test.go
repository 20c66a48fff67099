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

package elf_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/cortexm/curated"
	"github.com/jetsetilly/cortexm/elf"
	"github.com/jetsetilly/cortexm/test"
)

// buildTestImage writes a minimal ELF32 little-endian ARM executable with
// two PT_LOAD segments: a read-only text segment leading with a vector
// table and a writable data segment with trailing bss.
func buildTestImage(t *testing.T) string {
	t.Helper()

	const (
		ehsize    = 52
		phentsize = 32
		phnum     = 2
		dataoff   = ehsize + phnum*phentsize
	)

	// text segment: vector table (initial SP, reset vector) and padding
	text := &bytes.Buffer{}
	binary.Write(text, binary.LittleEndian, uint32(0x20004000)) // initial SP
	binary.Write(text, binary.LittleEndian, uint32(0x080000c1)) // reset vector
	binary.Write(text, binary.LittleEndian, uint32(0xbf00bf00))

	// data segment: four initialised bytes, twelve of bss
	data := []byte{0x11, 0x22, 0x33, 0x44}

	b := &bytes.Buffer{}

	// ELF header
	b.Write([]byte{0x7f, 'E', 'L', 'F', 1, 1, 1, 0}) // class 32, little-endian
	b.Write(make([]byte, 8))
	binary.Write(b, binary.LittleEndian, uint16(2))          // ET_EXEC
	binary.Write(b, binary.LittleEndian, uint16(40))         // EM_ARM
	binary.Write(b, binary.LittleEndian, uint32(1))          // version
	binary.Write(b, binary.LittleEndian, uint32(0x080000c1)) // entry
	binary.Write(b, binary.LittleEndian, uint32(ehsize))     // phoff
	binary.Write(b, binary.LittleEndian, uint32(0))          // shoff
	binary.Write(b, binary.LittleEndian, uint32(0))          // flags
	binary.Write(b, binary.LittleEndian, uint16(ehsize))
	binary.Write(b, binary.LittleEndian, uint16(phentsize))
	binary.Write(b, binary.LittleEndian, uint16(phnum))
	binary.Write(b, binary.LittleEndian, uint16(0)) // shentsize
	binary.Write(b, binary.LittleEndian, uint16(0)) // shnum
	binary.Write(b, binary.LittleEndian, uint16(0)) // shstrndx

	// program header: text
	binary.Write(b, binary.LittleEndian, uint32(1))                // PT_LOAD
	binary.Write(b, binary.LittleEndian, uint32(dataoff))          // offset
	binary.Write(b, binary.LittleEndian, uint32(0x08000000))       // vaddr
	binary.Write(b, binary.LittleEndian, uint32(0x08000000))       // paddr
	binary.Write(b, binary.LittleEndian, uint32(text.Len()))       // filesz
	binary.Write(b, binary.LittleEndian, uint32(text.Len()))       // memsz
	binary.Write(b, binary.LittleEndian, uint32(5))                // PF_R|PF_X
	binary.Write(b, binary.LittleEndian, uint32(4))                // align

	// program header: data with bss
	binary.Write(b, binary.LittleEndian, uint32(1))                  // PT_LOAD
	binary.Write(b, binary.LittleEndian, uint32(dataoff+text.Len())) // offset
	binary.Write(b, binary.LittleEndian, uint32(0x20000000))         // vaddr
	binary.Write(b, binary.LittleEndian, uint32(0x20000000))         // paddr
	binary.Write(b, binary.LittleEndian, uint32(len(data)))          // filesz
	binary.Write(b, binary.LittleEndian, uint32(16))                 // memsz
	binary.Write(b, binary.LittleEndian, uint32(6))                  // PF_R|PF_W
	binary.Write(b, binary.LittleEndian, uint32(4))                  // align

	b.Write(text.Bytes())
	b.Write(data)

	filename := filepath.Join(t.TempDir(), "firmware.elf")
	if err := os.WriteFile(filename, b.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestLoad(t *testing.T) {
	img, err := elf.Load(buildTestImage(t))
	test.ExpectSuccess(t, err)

	test.ExpectEquality(t, img.Entry, uint32(0x080000c1))
	test.ExpectEquality(t, img.StackPointer, uint32(0x20004000))
	test.ExpectEquality(t, len(img.Regions), 2)

	// text region is read-only and carries the vector table
	text := img.Regions[0]
	test.ExpectEquality(t, text.Origin(), uint32(0x08000000))
	test.ExpectFailure(t, text.Writable())
	test.ExpectEquality(t, binary.LittleEndian.Uint32(text.Data()), uint32(0x20004000))

	// data region is writable, with the bss tail zeroed
	data := img.Regions[1]
	test.ExpectEquality(t, data.Origin(), uint32(0x20000000))
	test.ExpectSuccess(t, data.Writable())
	test.ExpectEquality(t, uint32(len(data.Data())), uint32(16))
	test.ExpectEquality(t, data.Data()[0], uint8(0x11))
	test.ExpectEquality(t, data.Data()[4], uint8(0x00))
}

func TestLoadErrors(t *testing.T) {
	// not an ELF file at all
	filename := filepath.Join(t.TempDir(), "garbage")
	if err := os.WriteFile(filename, []byte("not an elf"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := elf.Load(filename)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, elf.NotValid))

	// missing file
	_, err = elf.Load(filepath.Join(t.TempDir(), "missing.elf"))
	test.ExpectFailure(t, err)
}
