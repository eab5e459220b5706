package cells

import "slices"

// Group records the cells and propagators created while it is current,
// so a compiled sub-network can be released as a unit.
type Group struct {
	Name string

	cells       []*Cell
	propagators []*Propagator
	children    []*Group
	parent      *Group
	disposed    bool
}

func (g *Group) Disposed() bool {
	return g.disposed
}

func (g *Group) Len() int {
	return len(g.cells) + len(g.propagators)
}

// Dispose releases propagators first so no activation can observe a released cell,
// then cells, then child groups. Safe to call more than once.
func (g *Group) Dispose() {
	if g == nil || g.disposed {
		return
	}
	g.disposed = true

	propagators, cells, children := g.propagators, g.cells, g.children
	g.propagators, g.cells, g.children = nil, nil, nil

	for i := len(propagators) - 1; i >= 0; i-- {
		propagators[i].Dispose()
	}
	for i := len(cells) - 1; i >= 0; i-- {
		cells[i].Dispose()
	}
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	if g.parent != nil && !g.parent.disposed {
		g.parent.children = slices.DeleteFunc(g.parent.children, func(c *Group) bool {
			return c == g
		})
	}
}
