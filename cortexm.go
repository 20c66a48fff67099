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

// CortexM is an instruction-set emulator for the ARMv7-M Thumb-2 profile.
// It loads an ELF firmware image, executes it against a flat memory map
// and services the program's semihosting calls, so that a firmware build
// can be run, traced and debugged on the host.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jetsetilly/cortexm/arm"
	"github.com/jetsetilly/cortexm/arm/bus"
	"github.com/jetsetilly/cortexm/arm/semihosting"
	"github.com/jetsetilly/cortexm/curated"
	"github.com/jetsetilly/cortexm/debugger"
	"github.com/jetsetilly/cortexm/elf"
	"github.com/jetsetilly/cortexm/logger"
	"github.com/jetsetilly/cortexm/performance"
)

func main() {
	os.Exit(launch(os.Args[1:]))
}

func launch(args []string) int {
	flgs := flag.NewFlagSet("cortexm", flag.ExitOnError)

	debug := flgs.Bool("debug", false, "start the interactive debugger instead of running")
	trace := flgs.Bool("trace", false, "print one line per retired instruction")
	log := flgs.Bool("log", false, "write the emulator log to stderr on termination")
	limit := flgs.Int("limit", 0, "stop after this many instructions (0 = no limit)")
	statsview := flgs.String("statsview", "", "serve live runtime statistics on this address")
	stategraph := flgs.String("stategraph", "", "write the final emulator state graph to this dot file")
	entry := flgs.Uint64("entry", 0, "override the entry point from the image")

	flgs.Parse(args)

	if flgs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: cortexm [options] <image.elf>\n")
		flgs.PrintDefaults()
		return 2
	}

	if *log {
		defer logger.Write(os.Stderr)
	}

	img, err := elf.Load(flgs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cortexm: %v\n", err)
		return 2
	}

	mem := bus.NewBus(img.Regions...)
	core := arm.NewARM(mem)

	start := img.Entry
	if *entry != 0 {
		start = uint32(*entry)
	}
	core.Reset(img.StackPointer, start|0x01)

	host := semihosting.NewHost(core, mem)
	core.Attach(host)

	if *trace {
		core.SetTrace(os.Stdout)
	}

	if *statsview != "" {
		stop := performance.StatsView(*statsview)
		defer stop()
	}

	if *stategraph != "" {
		defer func() {
			if err := performance.StateGraphFile(*stategraph, core.Snapshot()); err != nil {
				fmt.Fprintf(os.Stderr, "cortexm: %v\n", err)
			}
		}()
	}

	if *debug {
		if err := debugger.NewDebugger(core).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "cortexm: %v\n", err)
			return 2
		}
		return int(core.ExitStatus())
	}

	status, err := core.Run(*limit)
	if err != nil {
		if curated.Is(err, arm.ExitWithError) {
			// the program chose its own error status
			if status == 0 {
				return 1
			}
			return int(status)
		}
		fmt.Fprintf(os.Stderr, "cortexm: %v\n", err)
		return 2
	}

	return int(status)
}
