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

package semihosting

import (
	"io"
	"os"
	"time"

	"github.com/jetsetilly/cortexm/arm"
	"github.com/jetsetilly/cortexm/curated"
	"github.com/jetsetilly/cortexm/logger"
)

// Error patterns raised by the semihosting host.
const (
	Unsupported    = "semihosting: operation %02x: unsupported: %s"
	Unexpected     = "semihosting: operation %02x: unexpected argument: %s"
	OutOfRange     = "semihosting: operation %02x: out of range: %d"
	OpenFileFailed = "semihosting: open of '%s' failed"
)

// semihosting operation selectors.
const (
	sysOpen         = 0x01
	sysClose        = 0x02
	sysWriteC       = 0x03
	sysWrite0       = 0x04
	sysWrite        = 0x05
	sysRead         = 0x06
	sysIsError      = 0x08
	sysIsTTY        = 0x09
	sysSeek         = 0x0a
	sysFLen         = 0x0c
	sysClock        = 0x10
	sysErrNo        = 0x13
	sysGetCmdLine   = 0x15
	sysHeapInfo     = 0x16
	sysExit         = 0x18
	sysExitExtended = 0x20
)

// the reason code reported by a program that stopped of its own accord.
// any other reason on EXIT/EXIT_EXTENDED is an error exit.
const adpStoppedApplicationExit = 0x20026

// well known file handles. the console handles follow the open mode of
// the ":tt" path; handle 4 is the feature query stream.
const (
	handleStdin    = 1
	handleStdout   = 2
	handleStderr   = 3
	handleFeatures = 4
)

// the feature stream: "SHFB" magic plus one feature byte advertising
// EXIT_EXTENDED and the separate stdout/stderr handles.
var featureData = []uint8{0x53, 0x48, 0x46, 0x42, 0x03}

// the BKPT immediate that selects semihosting.
const bkptImm = 0xab

// Processor is the register access the host needs: the operation selector
// and parameter block arrive in r0 and r1, the result leaves in r0.
type Processor interface {
	ReadRegister(reg int) uint32
	WriteRegister(reg int, value uint32)
}

// Memory is the bus access the host needs to read parameter blocks and
// transfer buffers.
type Memory interface {
	Read8(addr uint32) (uint8, error)
	Write8(addr uint32, val uint8) error
	Read32(addr uint32) (uint32, error)
}

// Host services semihosting calls on behalf of the emulated program.
// Implements the arm.BkptHandler interface.
type Host struct {
	proc Processor
	mem  Memory

	stdout io.Writer
	stderr io.Writer

	// read cursor into the feature stream
	featurePos uint32

	// status supplied by EXIT_EXTENDED. zero until then
	exitStatus uint32

	// reference point for SYS_CLOCK
	start time.Time
}

// NewHost is the preferred method of initialisation for the Host type.
func NewHost(proc Processor, mem Memory) *Host {
	return &Host{
		proc:   proc,
		mem:    mem,
		stdout: os.Stdout,
		stderr: os.Stderr,
		start:  time.Now(),
	}
}

// SetOutput redirects the console handles. useful in testing.
func (h *Host) SetOutput(stdout io.Writer, stderr io.Writer) {
	h.stdout = stdout
	h.stderr = stderr
}

// ExitStatus implements the arm.BkptHandler interface.
func (h *Host) ExitStatus() uint32 {
	return h.exitStatus
}

// Bkpt implements the arm.BkptHandler interface. Breakpoints other than
// the semihosting immediate are not claimed.
func (h *Host) Bkpt(imm8 uint8) (arm.BkptFlags, error) {
	if imm8 != bkptImm {
		return 0, nil
	}

	op := h.proc.ReadRegister(0)
	flags := arm.BkptOmitException

	ret, exit, err := h.call(op)
	if err != nil {
		return 0, err
	}
	flags |= exit

	h.proc.WriteRegister(0, ret)
	return flags, nil
}

// params reads n consecutive words of the parameter block pointed to by
// r1.
func (h *Host) params(n int) ([]uint32, error) {
	r1 := h.proc.ReadRegister(1)
	w := make([]uint32, n)
	for i := range w {
		var err error
		w[i], err = h.mem.Read32(r1 + uint32(i*4))
		if err != nil {
			return nil, err
		}
	}
	return w, nil
}

// readString copies a byte string of known length out of emulated memory.
func (h *Host) readString(ptr uint32, length uint32) (string, error) {
	b := make([]uint8, length)
	for i := range b {
		var err error
		b[i], err = h.mem.Read8(ptr + uint32(i))
		if err != nil {
			return "", err
		}
	}
	return string(b), nil
}

// call dispatches one semihosting operation. the returned word is the new
// value for r0.
func (h *Host) call(op uint32) (uint32, arm.BkptFlags, error) {
	switch op {
	case sysOpen:
		w, err := h.params(3)
		if err != nil {
			return 0, 0, err
		}
		path, err := h.readString(w[0], w[2])
		if err != nil {
			return 0, 0, err
		}
		mode := w[1]

		logger.Logf(logger.Allow, "semihosting", "SYS_OPEN '%s' mode %d", path, mode)

		switch path {
		case ":tt":
			switch {
			case mode <= 3:
				return handleStdin, 0, nil
			case mode <= 7:
				return handleStdout, 0, nil
			case mode <= 11:
				return handleStderr, 0, nil
			}
			return 0, 0, curated.Errorf(OutOfRange, op, int(mode))
		case ":semihosting-features":
			return handleFeatures, 0, nil
		}
		return 0, 0, curated.Errorf(OpenFileFailed, path)

	case sysClose:
		w, err := h.params(1)
		if err != nil {
			return 0, 0, err
		}
		if w[0] < handleStdin || w[0] > handleFeatures {
			return 0, 0, curated.Errorf(Unexpected, op, "unknown handle")
		}
		return 0, 0, nil

	case sysWriteC:
		c, err := h.mem.Read8(h.proc.ReadRegister(1))
		if err != nil {
			return 0, 0, err
		}
		h.stdout.Write([]byte{c})
		return 0, 0, nil

	case sysWrite0:
		ptr := h.proc.ReadRegister(1)
		for {
			c, err := h.mem.Read8(ptr)
			if err != nil {
				return 0, 0, err
			}
			if c == 0 {
				break
			}
			h.stdout.Write([]byte{c})
			ptr++
		}
		return 0, 0, nil

	case sysWrite:
		w, err := h.params(3)
		if err != nil {
			return 0, 0, err
		}
		handle := w[0]
		s, err := h.readString(w[1], w[2])
		if err != nil {
			return 0, 0, err
		}

		switch handle {
		case handleStdout:
			io.WriteString(h.stdout, s)
		case handleStderr:
			io.WriteString(h.stderr, s)
		default:
			return 0, 0, curated.Errorf(Unsupported, op, "write to handle other than stdout/stderr")
		}

		// zero means the whole buffer was written
		return 0, 0, nil

	case sysRead:
		w, err := h.params(3)
		if err != nil {
			return 0, 0, err
		}
		handle := w[0]
		ptr := w[1]
		length := w[2]

		if handle != handleFeatures {
			return 0, 0, curated.Errorf(Unsupported, op, "read from handle other than the feature stream")
		}

		var n uint32
		for n < length && h.featurePos < uint32(len(featureData)) {
			if err := h.mem.Write8(ptr+n, featureData[h.featurePos]); err != nil {
				return 0, 0, err
			}
			n++
			h.featurePos++
		}

		// the result is the number of bytes not read
		return length - n, 0, nil

	case sysIsError:
		w, err := h.params(1)
		if err != nil {
			return 0, 0, err
		}
		if int32(w[0]) < 0 {
			return 1, 0, nil
		}
		return 0, 0, nil

	case sysIsTTY:
		w, err := h.params(1)
		if err != nil {
			return 0, 0, err
		}
		switch w[0] {
		case handleStdin, handleStdout, handleStderr:
			return 1, 0, nil
		case handleFeatures:
			return 0, 0, nil
		}
		return 0, 0, curated.Errorf(Unexpected, op, "unknown handle")

	case sysSeek:
		w, err := h.params(2)
		if err != nil {
			return 0, 0, err
		}
		if w[0] != handleFeatures {
			return 0, 0, curated.Errorf(Unexpected, op, "seek on handle other than the feature stream")
		}
		if w[1] >= uint32(len(featureData)) {
			return 0, 0, curated.Errorf(OutOfRange, op, int(w[1]))
		}
		h.featurePos = w[1]
		return 0, 0, nil

	case sysFLen:
		w, err := h.params(1)
		if err != nil {
			return 0, 0, err
		}
		switch w[0] {
		case handleStdin, handleStdout, handleStderr:
			return 0, 0, nil
		case handleFeatures:
			return uint32(len(featureData)), 0, nil
		}
		return 0, 0, curated.Errorf(Unexpected, op, "unknown handle")

	case sysClock:
		centiseconds := time.Since(h.start) / (10 * time.Millisecond)
		return uint32(centiseconds), 0, nil

	case sysErrNo:
		return 0, 0, nil

	case sysGetCmdLine:
		// accepted but not supported
		return 0xffffffff, 0, nil

	case sysHeapInfo:
		// the heap layout is the program's own concern. r0 is returned
		// unchanged
		return op, 0, nil

	case sysExit:
		reason := h.proc.ReadRegister(1)
		logger.Logf(logger.Allow, "semihosting", "SYS_EXIT reason %08x", reason)
		if reason == adpStoppedApplicationExit {
			return 0, arm.BkptReqExit, nil
		}
		return 0, arm.BkptReqErrorExit, nil

	case sysExitExtended:
		w, err := h.params(2)
		if err != nil {
			return 0, 0, err
		}
		reason := w[0]
		h.exitStatus = w[1]
		logger.Logf(logger.Allow, "semihosting", "SYS_EXIT_EXTENDED reason %08x status %d", reason, h.exitStatus)
		if reason == adpStoppedApplicationExit {
			return 0, arm.BkptReqExit, nil
		}
		return 0, arm.BkptReqErrorExit, nil
	}

	return 0, 0, curated.Errorf(Unsupported, op, "unknown operation")
}
