package versions

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Clock holds one logical counter per source.
// A nil Clock is the zero clock and precedes every non-empty clock.
type Clock map[string]uint64

type Order uint8

const (
	Equal Order = iota
	Before
	After
	Concurrent
)

func (o Order) String() string {
	switch o {
	case Equal:
		return "equal"
	case Before:
		return "before"
	case After:
		return "after"
	case Concurrent:
		return "concurrent"
	}
	return "unknown"
}

func Stamp(source string, timestamp uint64) Clock {
	return Clock{
		source: timestamp,
	}
}

// Compare orders c against other.
func (c Clock) Compare(other Clock) Order {
	less, greater := false, false
	for source, n := range c {
		m := other[source]
		if n < m {
			less = true
		} else if n > m {
			greater = true
		}
	}
	for source, m := range other {
		if _, ok := c[source]; ok {
			continue
		}
		if m > 0 {
			less = true
		}
	}
	switch {
	case less && greater:
		return Concurrent
	case less:
		return Before
	case greater:
		return After
	}
	return Equal
}

// Join returns the pointwise maximum. Neither argument is modified.
func (c Clock) Join(other Clock) Clock {
	if len(other) == 0 {
		return c
	}
	if len(c) == 0 {
		return other
	}
	ret := maps.Clone(c)
	for source, n := range other {
		if n > ret[source] {
			ret[source] = n
		}
	}
	return ret
}

func Join(clocks ...Clock) (ret Clock) {
	for _, c := range clocks {
		ret = ret.Join(c)
	}
	return
}

func (c Clock) Canonical() any {
	ret := make(map[string]any, len(c))
	for source, n := range c {
		ret[source] = n
	}
	return ret
}

func (c Clock) String() string {
	sources := slices.Sorted(maps.Keys(c))
	var sb strings.Builder
	sb.WriteString("{")
	for i, source := range sources {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(source)
		sb.WriteString(":")
		sb.WriteString(strconv.FormatUint(c[source], 10))
	}
	sb.WriteString("}")
	return sb.String()
}
