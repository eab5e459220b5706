package configs

import (
	"errors"
)

// First returns the first value at path, or the zero value when no file sets it.
// Any other load or decode error is a broken installation and panics.
func First[T any](loader Loader, path string) (ret T) {
	err := loader.AssignFirst(path, &ret)
	if errors.Is(err, ErrValueNotFound) {
		var zero T
		return zero
	}
	if err != nil {
		panic(err)
	}
	return
}
