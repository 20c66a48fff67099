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

package logger

import (
	"fmt"
	"io"
	"strings"
)

// Permission implementations control whether a Log() or Logf() request
// should be allowed.
type Permission interface {
	AllowLogging() bool
}

// allow is the Permission type for the Allow value.
type allow struct{}

// AllowLogging implements the Permission interface.
func (_ allow) AllowLogging() bool {
	return true
}

// Allow can be used in calls to Log() and Logf() when logging should
// happen unconditionally.
var Allow allow

// entry is a single line in the log.
type entry struct {
	tag    string
	detail string
}

func (e entry) String() string {
	return fmt.Sprintf("%s: %s", e.tag, e.detail)
}

// Logger is a capped collection of log entries.
type Logger struct {
	entries    []entry
	maxEntries int

	// the echo writer receives every entry as it arrives. may be nil
	echo io.Writer
}

// NewLogger is the preferred method of initialisation for the Logger type.
// The maxEntries argument limits how many entries are kept; the oldest
// entries are discarded first.
func NewLogger(maxEntries int) *Logger {
	return &Logger{
		entries:    make([]entry, 0, maxEntries),
		maxEntries: maxEntries,
	}
}

// Log adds a new entry to the logger. The detail argument can be a string,
// an error or a fmt.Stringer. Any other type is formatted with the %v verb.
func (l *Logger) Log(perm Permission, tag string, detail any) {
	if !perm.AllowLogging() {
		return
	}

	var s string
	switch d := detail.(type) {
	case string:
		s = d
	case error:
		s = d.Error()
	case fmt.Stringer:
		s = d.String()
	default:
		s = fmt.Sprintf("%v", detail)
	}

	// a multi-line detail becomes multiple entries with the same tag
	for _, m := range strings.Split(s, "\n") {
		e := entry{tag: tag, detail: m}
		l.entries = append(l.entries, e)
		if l.echo != nil {
			io.WriteString(l.echo, e.String())
			io.WriteString(l.echo, "\n")
		}
	}

	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}
}

// Logf adds a new formatted entry to the logger.
func (l *Logger) Logf(perm Permission, tag string, format string, args ...any) {
	l.Log(perm, tag, fmt.Sprintf(format, args...))
}

// Clear all entries from the logger.
func (l *Logger) Clear() {
	l.entries = l.entries[:0]
}

// Write contents of the log to the io.Writer.
func (l *Logger) Write(output io.Writer) {
	for _, e := range l.entries {
		io.WriteString(output, e.String())
		io.WriteString(output, "\n")
	}
}

// Tail writes the last number of entries to the io.Writer. A number value
// of larger than the current number of entries is not an error.
func (l *Logger) Tail(output io.Writer, number int) {
	if number > len(l.entries) {
		number = len(l.entries)
	}
	for _, e := range l.entries[len(l.entries)-number:] {
		io.WriteString(output, e.String())
		io.WriteString(output, "\n")
	}
}

// SetEcho forwards every future entry to the io.Writer as it arrives. A nil
// writer stops the echoing.
func (l *Logger) SetEcho(output io.Writer) {
	l.echo = output
}
