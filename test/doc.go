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

// Package test contains the assertion functions used by the project's unit
// tests. They exist so that test intention reads clearly at the call site:
//
//	test.ExpectEquality(t, got, expected)
//	test.ExpectSuccess(t, err)
//
// rather than an if statement and an Errorf call at every comparison.
package test
