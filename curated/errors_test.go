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

package curated_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/cortexm/curated"
	"github.com/jetsetilly/cortexm/test"
)

const testPattern = "test error: %s"
const wrappingPattern = "wrapping error: %v"

func TestIs(t *testing.T) {
	e := curated.Errorf(testPattern, "detail")
	test.ExpectEquality(t, e.Error(), "test error: detail")

	test.ExpectSuccess(t, curated.IsAny(e))
	test.ExpectSuccess(t, curated.Is(e, testPattern))
	test.ExpectFailure(t, curated.Is(e, wrappingPattern))

	// plain errors are not curated errors
	p := errors.New("plain error")
	test.ExpectFailure(t, curated.IsAny(p))
	test.ExpectFailure(t, curated.Is(p, testPattern))

	// nil never matches
	test.ExpectFailure(t, curated.IsAny(nil))
	test.ExpectFailure(t, curated.Is(nil, testPattern))
}

func TestHas(t *testing.T) {
	e := curated.Errorf(testPattern, "detail")
	w := curated.Errorf(wrappingPattern, e)

	// Is() only matches the outermost pattern but Has() digs deeper
	test.ExpectFailure(t, curated.Is(w, testPattern))
	test.ExpectSuccess(t, curated.Has(w, wrappingPattern))
	test.ExpectSuccess(t, curated.Has(w, testPattern))
}

func TestDeduplication(t *testing.T) {
	// adjacent duplicate message parts are removed when the error message
	// is built
	e := curated.Errorf("emulator: %v", curated.Errorf("emulator: %s", "bad day"))
	test.ExpectEquality(t, e.Error(), "emulator: bad day")
}
