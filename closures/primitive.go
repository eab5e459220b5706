package closures

import (
	"fmt"

	"github.com/reusee/cellnet/versions"
)

// Primitive is a built-in operation. A call site passes the inputs followed
// by exactly one output operand.
type Primitive struct {
	Name string
	// Inputs is the input count, or -1 when variadic with at least MinInputs.
	Inputs    int
	MinInputs int
	Apply     func(args []any) (any, error)
}

func (p *Primitive) CheckArity(operands int) error {
	inputs := operands - 1
	if p.Inputs >= 0 {
		if inputs != p.Inputs {
			return fmt.Errorf("%w: %s takes %d inputs and 1 output, got %d operands",
				ErrArity, p.Name, p.Inputs, operands)
		}
		return nil
	}
	if inputs < p.MinInputs {
		return fmt.Errorf("%w: %s takes at least %d inputs and 1 output, got %d operands",
			ErrArity, p.Name, p.MinInputs, operands)
	}
	return nil
}

func (p *Primitive) String() string {
	return "#<primitive " + p.Name + ">"
}

func IsPrimitive(v any) bool {
	v, _ = versions.Unwrap(v)
	p, ok := v.(*Primitive)
	return ok && p != nil && p.Apply != nil
}

// Callable is the closed set of values that can occupy operator position.
type Callable interface {
	callable()
}

var (
	_ Callable = new(Template)
	_ Callable = new(Primitive)
)

func (*Template) callable()  {}
func (*Primitive) callable() {}

// AsCallable unwraps v and reports whether it can be applied.
func AsCallable(v any) (Callable, versions.Clock, bool) {
	v, clock := versions.Unwrap(v)
	c, ok := v.(Callable)
	return c, clock, ok
}
