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

// Package easyterm is a wrapper for "github.com/pkg/term/termios". it
// wraps termios attribute handling in functions with friendlier names and
// keeps copies of the attribute sets the debugger switches between.
package easyterm

import (
	"fmt"
	"os"
	"syscall"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// EasyTerm is the main container for posix terminals. usually embedded in
// other struct types.
type EasyTerm struct {
	input  *os.File
	output *os.File

	canAttr    unix.Termios
	rawAttr    unix.Termios
	cbreakAttr unix.Termios
}

// Initialise the fields in the EasyTerm struct.
func (et *EasyTerm) Initialise(inputFile *os.File, outputFile *os.File) error {
	if inputFile == nil {
		return fmt.Errorf("easyterm requires an input file")
	}
	if outputFile == nil {
		return fmt.Errorf("easyterm requires an output file")
	}
	et.input = inputFile
	et.output = outputFile

	// store the current terminal attributes as the canonical set
	if err := termios.Tcgetattr(et.input.Fd(), &et.canAttr); err != nil {
		return err
	}

	// raw: no line discipline at all
	et.rawAttr = et.canAttr
	termios.Cfmakeraw(&et.rawAttr)

	// cbreak: keys arrive immediately but output processing and signals
	// are left alone
	et.cbreakAttr = et.canAttr
	et.cbreakAttr.Lflag &^= syscall.ICANON | syscall.ECHO
	et.cbreakAttr.Cc[syscall.VMIN] = 1
	et.cbreakAttr.Cc[syscall.VTIME] = 0

	return nil
}

// CanonicalMode puts terminal into normal, everyday canonical mode.
func (et *EasyTerm) CanonicalMode() error {
	return termios.Tcsetattr(et.input.Fd(), termios.TCIFLUSH, &et.canAttr)
}

// RawMode puts terminal into raw mode.
func (et *EasyTerm) RawMode() error {
	return termios.Tcsetattr(et.input.Fd(), termios.TCIFLUSH, &et.rawAttr)
}

// CBreakMode puts terminal into cbreak mode: one key at a time, no echo.
func (et *EasyTerm) CBreakMode() error {
	return termios.Tcsetattr(et.input.Fd(), termios.TCIFLUSH, &et.cbreakAttr)
}

// ReadKey returns the next key from the input file. only meaningful in
// cbreak or raw mode.
func (et *EasyTerm) ReadKey() (byte, error) {
	b := make([]byte, 1)
	if _, err := et.input.Read(b); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Print to the output file.
func (et *EasyTerm) Print(format string, args ...interface{}) {
	fmt.Fprintf(et.output, format, args...)
}
