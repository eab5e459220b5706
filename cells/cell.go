package cells

import (
	"slices"

	"github.com/reusee/cellnet/versions"
)

type Cell struct {
	ID   uint64
	Name string

	net       *Network
	group     *Group
	content   any
	merge     Merge
	neighbors []*Propagator
	disposed  bool
}

// Strongest returns the merged content, or Nothing.
func (c *Cell) Strongest() any {
	if c.content == nil {
		return Nothing
	}
	return c.content
}

// Value returns the strongest content without its version.
func (c *Cell) Value() any {
	v, _ := versions.Unwrap(c.Strongest())
	return v
}

func (c *Cell) HasValue() bool {
	return !IsNothing(c.content)
}

func (c *Cell) Disposed() bool {
	return c.disposed
}

// Add merges v into the cell and schedules its neighbors when the content changes.
// Writes to a disposed cell are dropped.
func (c *Cell) Add(v any) error {
	if c.disposed {
		return nil
	}
	current := c.Strongest()
	merged, err := c.mergeFunc()(current, v)
	if err != nil {
		return err
	}
	if Equal(current, merged) {
		return nil
	}
	c.content = merged
	for _, p := range c.neighbors {
		c.net.schedule(p)
	}
	return nil
}

func (c *Cell) mergeFunc() Merge {
	if c.merge != nil {
		return c.merge
	}
	return c.net.merge
}

func (c *Cell) addNeighbor(p *Propagator) {
	if c.disposed {
		return
	}
	if slices.Contains(c.neighbors, p) {
		return
	}
	c.neighbors = append(c.neighbors, p)
}

func (c *Cell) removeNeighbor(p *Propagator) {
	c.neighbors = slices.DeleteFunc(c.neighbors, func(n *Propagator) bool {
		return n == p
	})
}

// Dispose drops the content and the neighbor list. Content implementing
// Disposer is disposed too. Safe to call more than once.
func (c *Cell) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	content := c.content
	c.content = Nothing
	c.neighbors = nil
	c.net.cellCount--
	if disposer, ok := content.(Disposer); ok {
		disposer.Dispose()
	}
}

func (c *Cell) String() string {
	return c.Name
}
