package versions

import "fmt"

// Versioned attaches a clock to a value so that two deliveries of the
// same cell can be ordered even when they arrive out of order.
type Versioned struct {
	Value any
	Clock Clock
}

func Tag(value any, source string, timestamp uint64) Versioned {
	return Versioned{
		Value: value,
		Clock: Stamp(source, timestamp),
	}
}

func (v Versioned) String() string {
	return fmt.Sprintf("%v@%v", v.Value, v.Clock)
}

// Unwrap returns the bare value and its clock. Unversioned values get a nil clock.
func Unwrap(v any) (any, Clock) {
	if versioned, ok := v.(Versioned); ok {
		return versioned.Value, versioned.Clock
	}
	return v, nil
}

// StalerThan reports whether a is known to precede b.
func StalerThan(a, b Clock) bool {
	return a.Compare(b) == Before
}
