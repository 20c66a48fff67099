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

// Package logger is the central log repository for the project. Logging with
// this package is preferable to writing to stdout or stderr directly because
// entries are kept and can be written out or inspected at an opportune time,
// rather than interleaving with the emulation's own output.
//
// Entries are logged against a tag, usually the name of the package or
// subsystem doing the logging. The emulator core logs under tags of the
// "ARM" family.
//
// The first argument to Log() and Logf() is a Permission. Types that embed
// or reference a logger can control whether logging is currently allowed by
// implementing AllowLogging(). When there is no such requirement the Allow
// value can be used.
package logger
