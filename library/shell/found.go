package shell

import (
	"errors"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// Found turns circulation.ErrNotFound of a single-row load into found=false,
// so Decide functions can report the matching business error.
func Found[T any](value T, err error) (T, bool, error) {
	switch {
	case errors.Is(err, circulation.ErrNotFound):
		return value, false, nil
	case err != nil:
		return value, false, err
	default:
		return value, true, nil
	}
}
