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

// Package curated is how the project creates and tests errors. Errors are
// created with the Errorf() function, which is used in the same way as
// Errorf() from the fmt package, except that the format string is kept with
// the error and can be tested for later.
//
// The format string acts as a pattern and allows us to answer the question
// of what an error is, as opposed to merely what it says. For example, the
// bus package declares:
//
//	const MemInaccessible = "bus: %s: address %08x not in any region"
//
// and raises it with:
//
//	return curated.Errorf(bus.MemInaccessible, "read 32bit", addr)
//
// A caller that cares whether an access failed because the address was
// unmapped, as opposed to being write-protected, tests with:
//
//	if curated.Is(err, bus.MemInaccessible) {
//
// The Has() function digs through chains of curated errors, for when a
// pattern has been wrapped by an intermediate layer.
//
// Patterns for each package are declared alongside the code that raises
// them. The set of patterns forms the error taxonomy of the project and
// nothing is ever matched by string comparison of the formatted message.
package curated
