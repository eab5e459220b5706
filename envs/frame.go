package envs

import (
	"github.com/reusee/cellnet/cells"
)

type Binding struct {
	Name string
	Cell *cells.Cell
}

// Frame is an immutable association list node. Bind returns a new frame
// sharing the old one as its tail, so a frame read earlier never changes.
type Frame struct {
	binding Binding
	next    *Frame
	size    int
}

func NewFrame(bindings ...Binding) *Frame {
	var f *Frame
	for _, b := range bindings {
		f = f.Bind(b.Name, b.Cell)
	}
	return f
}

func (f *Frame) Bind(name string, cell *cells.Cell) *Frame {
	size := 1
	if f != nil {
		size = f.size + 1
	}
	return &Frame{
		binding: Binding{
			Name: name,
			Cell: cell,
		},
		next: f,
		size: size,
	}
}

func (f *Frame) Get(name string) (*cells.Cell, bool) {
	for node := f; node != nil; node = node.next {
		if node.binding.Name == name {
			return node.binding.Cell, true
		}
	}
	return nil, false
}

func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return f.size
}

// Bindings returns the visible bindings, most recent first.
func (f *Frame) Bindings() []Binding {
	var ret []Binding
	seen := make(map[string]bool)
	for node := f; node != nil; node = node.next {
		if seen[node.binding.Name] {
			continue
		}
		seen[node.binding.Name] = true
		ret = append(ret, node.binding)
	}
	return ret
}
