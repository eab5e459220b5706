package envs

import (
	"slices"
	"strings"
)

// Snapshot is a read-only copy of the bindings visible from an environment
// at the time it was taken.
type Snapshot struct {
	env      uint64
	bindings map[string]Binding
}

func Snap(env *Env) (*Snapshot, error) {
	s := &Snapshot{
		env:      env.ID,
		bindings: make(map[string]Binding),
	}
	for e := env; e != nil; e = e.parent {
		frame, err := e.Frame()
		if err != nil {
			return nil, err
		}
		for _, b := range frame.Bindings() {
			if b.Name == parentKey {
				continue
			}
			if _, ok := s.bindings[b.Name]; ok {
				continue
			}
			s.bindings[b.Name] = b
		}
	}
	return s, nil
}

func (s *Snapshot) Get(name string) (Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s *Snapshot) Len() int {
	return len(s.bindings)
}

// Equal reports whether both snapshots bind the same names to the same cells.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if other == nil || s.env != other.env || len(s.bindings) != len(other.bindings) {
		return false
	}
	for name, b := range s.bindings {
		if o, ok := other.bindings[name]; !ok || o.Cell != b.Cell {
			return false
		}
	}
	return true
}

func (s *Snapshot) String() string {
	return "#<env " + strings.Join(s.Names(), " ") + ">"
}
