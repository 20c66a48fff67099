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

package arm_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/cortexm/arm/semihosting"
	"github.com/jetsetilly/cortexm/test"
)

// drive a semihosted program end to end: write a string to the host
// console and exit with a status through EXIT_EXTENDED.
func TestSemihostedProgram(t *testing.T) {
	core, prg := prepareTestARM()

	host := semihosting.NewHost(core, core.Mem())
	stdout := &strings.Builder{}
	stderr := &strings.Builder{}
	host.SetOutput(stdout, stderr)
	core.Attach(host)

	// SYS_WRITE parameter block: stdout handle, buffer, length
	test.ExpectSuccess(t, core.Mem().Write32(0x20000100, 2))
	test.ExpectSuccess(t, core.Mem().Write32(0x20000104, 0x20000200))
	test.ExpectSuccess(t, core.Mem().Write32(0x20000108, 6))
	for i, c := range []byte("hello\n") {
		test.ExpectSuccess(t, core.Mem().Write8(0x20000200+uint32(i), c))
	}

	// SYS_EXIT_EXTENDED parameter block: clean exit, status 42
	test.ExpectSuccess(t, core.Mem().Write32(0x20000110, 0x20026))
	test.ExpectSuccess(t, core.Mem().Write32(0x20000114, 42))

	// the program is two semihosting calls
	prg.add16(t, 0xbeab)
	prg.add16(t, 0xbeab)

	// first call: SYS_WRITE
	core.WriteRegister(0, 0x05)
	core.WriteRegister(1, 0x20000100)
	step(t, core, 1)
	test.ExpectEquality(t, stdout.String(), "hello\n")
	test.ExpectEquality(t, core.ReadRegister(0), uint32(0))

	// second call: SYS_EXIT_EXTENDED
	core.WriteRegister(0, 0x20)
	core.WriteRegister(1, 0x20000110)
	done, err := core.Step()
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, done)
	test.ExpectEquality(t, core.ExitStatus(), uint32(42))
}

// the feature query sequence a libgloss image performs at startup.
func TestSemihostedFeatureQuery(t *testing.T) {
	core, prg := prepareTestARM()

	host := semihosting.NewHost(core, core.Mem())
	host.SetOutput(&strings.Builder{}, &strings.Builder{})
	core.Attach(host)

	// SYS_OPEN ":semihosting-features"
	path := ":semihosting-features"
	for i := 0; i < len(path); i++ {
		test.ExpectSuccess(t, core.Mem().Write8(0x20000200+uint32(i), path[i]))
	}
	test.ExpectSuccess(t, core.Mem().Write32(0x20000100, 0x20000200))
	test.ExpectSuccess(t, core.Mem().Write32(0x20000104, 0))
	test.ExpectSuccess(t, core.Mem().Write32(0x20000108, uint32(len(path))))

	prg.add16(t, 0xbeab)
	prg.add16(t, 0xbeab)

	core.WriteRegister(0, 0x01)
	core.WriteRegister(1, 0x20000100)
	step(t, core, 1)
	test.ExpectEquality(t, core.ReadRegister(0), uint32(4))

	// SYS_READ of the feature bytes through the returned handle
	test.ExpectSuccess(t, core.Mem().Write32(0x20000100, core.ReadRegister(0)))
	test.ExpectSuccess(t, core.Mem().Write32(0x20000104, 0x20000300))
	test.ExpectSuccess(t, core.Mem().Write32(0x20000108, 5))

	core.WriteRegister(0, 0x06)
	core.WriteRegister(1, 0x20000100)
	step(t, core, 1)
	test.ExpectEquality(t, core.ReadRegister(0), uint32(0))

	v, err := core.Mem().Read32(0x20000300)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint32(0x42464853)) // "SHFB"
	b, err := core.Mem().Read8(0x20000304)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, b, uint8(0x03))
}
