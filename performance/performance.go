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

// Package performance gathers the profiling and inspection tools that can
// be attached to a running emulation: a live statistics server for the
// emulator process and a dump of the emulator's object graph for
// debugging.
package performance

import (
	"io"
	"os"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/jetsetilly/cortexm/logger"
)

// StatsView serves live runtime statistics of the emulator process (heap,
// GC, goroutines) over HTTP for the duration of the emulation. The
// returned function stops the server.
func StatsView(addr string) func() {
	viewer.SetConfiguration(
		viewer.WithAddr(addr),
		viewer.WithTimePeriod(time.Second),
	)

	mgr := statsview.New()
	go func() {
		// Start() blocks until Stop() is called
		mgr.Start()
	}()

	logger.Logf(logger.Allow, "performance", "statsview listening on %s", addr)

	return func() {
		mgr.Stop()
	}
}

// StateGraph writes a graphviz rendering of the supplied values, usually
// the processor and its bus, to the io.Writer.
func StateGraph(w io.Writer, values ...interface{}) {
	memviz.Map(w, values...)
}

// StateGraphFile writes the graphviz rendering to a named file.
func StateGraphFile(filename string, values ...interface{}) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	StateGraph(f, values...)
	logger.Logf(logger.Allow, "performance", "state graph written to %s", filename)

	return nil
}
