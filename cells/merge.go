package cells

import (
	"github.com/reusee/cellnet/generics"
	"github.com/reusee/cellnet/versions"
)

// Merge combines the current content of a cell with an incoming value.
type Merge func(current, incoming any) (any, error)

// MergeReplace lets the latest write win. For cells with a single writer.
func MergeReplace(current, incoming any) (any, error) {
	if IsNothing(incoming) {
		return current, nil
	}
	return incoming, nil
}

// MergeVersioned keeps the newest value by clock. Values that cannot be
// ordered and disagree become a Contradiction. At equal clocks the incoming
// value wins: it is a recomputation within the same edit.
func MergeVersioned(current, incoming any) (any, error) {
	if IsNothing(incoming) {
		return current, nil
	}
	if IsNothing(current) {
		return incoming, nil
	}

	curValue, curClock := unwrap(current)
	inValue, inClock := unwrap(incoming)

	switch curClock.Compare(inClock) {

	case versions.Before:
		return incoming, nil

	case versions.After:
		return current, nil

	case versions.Equal:
		if Equal(curValue, inValue) {
			return current, nil
		}
		return incoming, nil

	default:
		joined := curClock.Join(inClock)
		if Equal(curValue, inValue) {
			return versions.Versioned{
				Value: curValue,
				Clock: joined,
			}, nil
		}
		return contradict(current, incoming, joined), nil

	}
}

func unwrap(v any) (any, versions.Clock) {
	if c, ok := v.(*Contradiction); ok {
		return c, c.Clock
	}
	value, clock := versions.Unwrap(v)
	if c, ok := value.(*Contradiction); ok {
		return c, c.Clock.Join(clock)
	}
	return value, clock
}

// contradict collects the disagreeing values, each keeping its own version.
func contradict(a, b any, clock versions.Clock) *Contradiction {
	var values []any
	var add func(v any)
	add = func(v any) {
		if versioned, ok := v.(versions.Versioned); ok {
			if c, ok := versioned.Value.(*Contradiction); ok {
				v = c
			}
		}
		if c, ok := v.(*Contradiction); ok {
			for _, value := range c.Values {
				add(value)
			}
			return
		}
		for _, existing := range values {
			if Equal(existing, v) {
				return
			}
		}
		values = append(values, v)
	}
	add(a)
	add(b)
	return &Contradiction{
		Values: values,
		Clock:  clock,
	}
}

func newMergeGeneric() *generics.Generic {
	return generics.New("merge", func(args ...any) (any, error) {
		return MergeVersioned(args[0], args[1])
	})
}
