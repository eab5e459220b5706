package cells

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/reusee/cellnet/generics"
)

var ErrDrainLimit = errors.New("drain step limit exceeded")

// Network is the single-threaded scheduler that owns cells and propagators.
type Network struct {
	// Merges is the generic merge operation used by cells created without
	// an explicit merge. The fallback is MergeVersioned.
	Merges *generics.Generic

	logger   *slog.Logger
	maxSteps int

	nextID uint64
	queue  []*Propagator
	queued map[*Propagator]bool
	group  *Group

	cellCount       int
	propagatorCount int
	activations     int
}

func NewNetwork(logger *slog.Logger, maxSteps int) *Network {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Network{
		Merges:   newMergeGeneric(),
		logger:   logger,
		maxSteps: maxSteps,
		queued:   make(map[*Propagator]bool),
	}
}

func (n *Network) merge(current, incoming any) (any, error) {
	return n.Merges.Call(current, incoming)
}

func (n *Network) newID() uint64 {
	n.nextID++
	return n.nextID
}

// NewCell creates a cell in the current group. A nil merge selects the generic merge.
func (n *Network) NewCell(name string, merge Merge) *Cell {
	cell := &Cell{
		ID:      n.newID(),
		Name:    name,
		net:     n,
		group:   n.group,
		content: Nothing,
		merge:   merge,
	}
	if n.group != nil {
		n.group.cells = append(n.group.cells, cell)
	}
	n.cellCount++
	return cell
}

// Constant creates a cell holding v.
func (n *Network) Constant(name string, v any) *Cell {
	cell := n.NewCell(name, nil)
	cell.content = v
	return cell
}

// Primitive installs a propagator that runs fn whenever an input changes.
// It is scheduled once on creation.
func (n *Network) Primitive(name string, inputs, outputs []*Cell, fn func() error) *Propagator {
	p := &Propagator{
		ID:       n.newID(),
		Name:     name,
		Inputs:   inputs,
		Outputs:  outputs,
		net:      n,
		group:    n.group,
		activate: fn,
	}
	if n.group != nil {
		n.group.propagators = append(n.group.propagators, p)
	}
	n.propagatorCount++
	for _, input := range inputs {
		input.addNeighbor(p)
	}
	n.schedule(p)
	return p
}

// Compound installs a propagator whose build runs exactly once, on the first
// activation where some input holds a value (or at once when there are no inputs).
// Everything build creates joins the propagator's group.
func (n *Network) Compound(name string, inputs, outputs []*Cell, build func() error) *Propagator {
	var p *Propagator
	p = n.Primitive(name, inputs, outputs, func() error {
		if p.expanded {
			return nil
		}
		if len(inputs) > 0 && !anyValue(inputs) {
			return nil
		}
		p.expanded = true
		return build()
	})
	p.compound = true
	return p
}

func anyValue(cells []*Cell) bool {
	for _, c := range cells {
		if c.HasValue() {
			return true
		}
	}
	return false
}

func (n *Network) schedule(p *Propagator) {
	if p.disposed || n.queued[p] {
		return
	}
	n.queued[p] = true
	n.queue = append(n.queue, p)
}

// Pending reports the number of scheduled activations.
func (n *Network) Pending() int {
	return len(n.queue)
}

// Drain runs scheduled activations until none remain.
func (n *Network) Drain(ctx context.Context) error {
	steps := 0
	for len(n.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if n.maxSteps > 0 && steps >= n.maxSteps {
			return fmt.Errorf("%w: %d", ErrDrainLimit, n.maxSteps)
		}
		steps++

		p := n.queue[0]
		n.queue[0] = nil
		n.queue = n.queue[1:]
		delete(n.queued, p)

		var err error
		n.Within(p.group, func() {
			err = p.run()
		})
		if err != nil {
			return fmt.Errorf("propagator %s: %w", p.Name, err)
		}
	}
	n.logger.Debug("drained", "steps", steps)
	return nil
}

// NewGroup creates a group nested in the current one.
func (n *Network) NewGroup(name string) *Group {
	g := &Group{
		Name:   name,
		parent: n.group,
	}
	if n.group != nil {
		n.group.children = append(n.group.children, g)
	}
	return g
}

// Within runs fn with g as the current group.
func (n *Network) Within(g *Group, fn func()) {
	saved := n.group
	n.group = g
	defer func() {
		n.group = saved
	}()
	fn()
}

// Detached runs fn outside of any group. What fn creates is owned by the caller.
func (n *Network) Detached(fn func()) {
	n.Within(nil, fn)
}

type Stats struct {
	Cells       int
	Propagators int
	Activations int
}

func (n *Network) Stats() Stats {
	return Stats{
		Cells:       n.cellCount,
		Propagators: n.propagatorCount,
		Activations: n.activations,
	}
}
