package cells

import (
	"fmt"
	"reflect"

	"github.com/reusee/cellnet/versions"
)

type nothing struct{}

func (nothing) String() string {
	return "nothing"
}

// Nothing is the content of a cell that has received no value yet.
var Nothing any = nothing{}

func IsNothing(v any) bool {
	_, ok := v.(nothing)
	return ok || v == nil
}

// Contradiction is the merge of incompatible values. It flows through the
// network as an ordinary value.
type Contradiction struct {
	Values []any
	Clock  versions.Clock
}

func (c *Contradiction) String() string {
	return fmt.Sprintf("contradiction%v@%v", c.Values, c.Clock)
}

// Members returns the disagreeing values with their versions.
func (c *Contradiction) Members() []versions.Versioned {
	ret := make([]versions.Versioned, 0, len(c.Values))
	for _, v := range c.Values {
		value, clock := versions.Unwrap(v)
		ret = append(ret, versions.Versioned{
			Value: value,
			Clock: clock,
		})
	}
	return ret
}

func IsContradiction(v any) bool {
	if versioned, ok := v.(versions.Versioned); ok {
		v = versioned.Value
	}
	_, ok := v.(*Contradiction)
	return ok
}

// Disposer is implemented by cell contents that own resources.
// Disposing a cell disposes its content.
type Disposer interface {
	Dispose()
}

// Equal compares cell contents without panicking on uncomparable values.
func Equal(a, b any) bool {
	switch a := a.(type) {
	case versions.Versioned:
		b, ok := b.(versions.Versioned)
		if !ok {
			return false
		}
		return Equal(a.Value, b.Value) && a.Clock.Compare(b.Clock) == versions.Equal
	case *Contradiction:
		b, ok := b.(*Contradiction)
		if !ok {
			return false
		}
		if a == b {
			return true
		}
		if len(a.Values) != len(b.Values) || a.Clock.Compare(b.Clock) != versions.Equal {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
