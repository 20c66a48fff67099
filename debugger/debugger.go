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

// Package debugger is a small interactive stepper for the emulated
// processor. It drives the terminal in cbreak mode so that single
// keystrokes control the emulation:
//
//	s or space   step one instruction
//	r            run until exit, fault or breakpoint
//	b            set or clear a PC breakpoint
//	g            show the general registers and status
//	f            show the fault status registers
//	m            inspect a word of memory
//	d            dump the emulator state graph to a dot file
//	q            quit
package debugger

import (
	"fmt"
	"os"

	"github.com/jetsetilly/cortexm/arm"
	"github.com/jetsetilly/cortexm/debugger/easyterm"
	"github.com/jetsetilly/cortexm/performance"
)

// Debugger is an interactive session around a processor.
type Debugger struct {
	arm  *arm.ARM
	term easyterm.EasyTerm

	// addresses the run command stops at
	breakpoints map[uint32]bool

	// the run has ended; stepping is no longer possible
	ended bool
}

// NewDebugger is the preferred method of initialisation for the Debugger
// type.
func NewDebugger(core *arm.ARM) *Debugger {
	return &Debugger{
		arm:         core,
		breakpoints: make(map[uint32]bool),
	}
}

// Run starts the interactive session and blocks until the user quits or
// the emulated program ends.
func (dbg *Debugger) Run() error {
	if err := dbg.term.Initialise(os.Stdin, os.Stdout); err != nil {
		return err
	}
	defer dbg.term.CanonicalMode()

	if err := dbg.term.CBreakMode(); err != nil {
		return err
	}

	dbg.term.Print("cortexm debugger. s)tep r)un b)reak g)registers f)aults m)emory d)ump q)uit\n")

	for {
		dbg.term.Print("[%08x] > ", dbg.arm.PC())

		key, err := dbg.term.ReadKey()
		if err != nil {
			return err
		}
		dbg.term.Print("\n")

		switch key {
		case 's', ' ':
			dbg.step()

		case 'r':
			dbg.runToBreak()

		case 'b':
			dbg.toggleBreakpoint()

		case 'g':
			dbg.term.Print("%s\n", dbg.arm.String())

		case 'f':
			dbg.term.Print("CFSR: %08x  BFAR: %08x  MMFAR: %08x\n",
				dbg.arm.CFSR(), dbg.arm.BFAR(), dbg.arm.MMFAR())

		case 'm':
			dbg.inspect()

		case 'd':
			if err := performance.StateGraphFile("cortexm-state.dot", dbg.arm.Snapshot()); err != nil {
				dbg.term.Print("state graph: %v\n", err)
			} else {
				dbg.term.Print("state graph written to cortexm-state.dot\n")
			}

		case 'q':
			return nil
		}
	}
}

func (dbg *Debugger) step() {
	if dbg.ended {
		dbg.term.Print("program has ended\n")
		return
	}

	done, err := dbg.arm.Step()
	if err != nil {
		dbg.term.Print("%v\n", err)
		dbg.ended = true
		return
	}
	if done {
		dbg.term.Print("program exited with status %d\n", dbg.arm.ExitStatus())
		dbg.ended = true
	}
}

func (dbg *Debugger) runToBreak() {
	for !dbg.ended {
		dbg.step()
		if dbg.breakpoints[dbg.arm.PC()] {
			dbg.term.Print("breakpoint at %08x\n", dbg.arm.PC())
			return
		}
	}
}

// readLine briefly returns the terminal to canonical mode for a line of
// input.
func (dbg *Debugger) readLine(prompt string) (uint32, bool) {
	dbg.term.Print("%s", prompt)
	dbg.term.CanonicalMode()
	defer dbg.term.CBreakMode()

	var v uint32
	if _, err := fmt.Fscanf(os.Stdin, "%x\n", &v); err != nil {
		dbg.term.Print("expected a hexadecimal address\n")
		return 0, false
	}
	return v, true
}

func (dbg *Debugger) toggleBreakpoint() {
	addr, ok := dbg.readLine("break at (hex): ")
	if !ok {
		return
	}
	if dbg.breakpoints[addr] {
		delete(dbg.breakpoints, addr)
		dbg.term.Print("breakpoint cleared at %08x\n", addr)
	} else {
		dbg.breakpoints[addr] = true
		dbg.term.Print("breakpoint set at %08x\n", addr)
	}
}

func (dbg *Debugger) inspect() {
	addr, ok := dbg.readLine("address (hex): ")
	if !ok {
		return
	}
	if v, ok := dbg.arm.Mem().Peek32(addr); ok {
		dbg.term.Print("%08x: %08x\n", addr, v)
	} else {
		dbg.term.Print("%08x: not mapped\n", addr)
	}
}
