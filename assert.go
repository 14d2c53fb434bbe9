package geocell

import "github.com/cockroachdb/errors"

// assertf panics with an assertion failure. Reaching it means the cell map
// and the tuple map disagree; the index must not be used afterwards.
func assertf(format string, args ...any) {
	panic(errors.AssertionFailedf(format, args...))
}
