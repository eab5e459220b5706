package compiles

import "errors"

var (
	ErrSyntax      = errors.New("malformed form")
	ErrUnbound     = errors.New("unbound name")
	ErrNotCallable = errors.New("not callable")
)
