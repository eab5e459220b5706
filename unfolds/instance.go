package unfolds

import (
	"fmt"

	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/closures"
	"github.com/reusee/cellnet/envs"
	"github.com/reusee/cellnet/hashes"
	"github.com/reusee/cellnet/versions"
)

// Instance is one live unfolding of a closure template.
type Instance struct {
	Template *closures.Template
	// Clock is the version of the closure value the instance was built from.
	Clock versions.Clock
	Env   *envs.Env
	// Inputs are owned by the instance, Outputs by the caller.
	Inputs  []*cells.Cell
	Outputs []*cells.Cell

	unfolder *Unfolder
	group    *cells.Group
	disposed bool
}

// Dispatch pushes values into the input cells. The clock of the closure
// value is joined into each input, so an instance built from a newer
// definition produces newer outputs.
func (i *Instance) Dispatch(values []any, clock versions.Clock) error {
	if i.disposed {
		return nil
	}
	if len(values) != len(i.Inputs) {
		return fmt.Errorf("%w: %s takes %d inputs, got %d",
			closures.ErrArity, i.Template.Name, len(i.Inputs), len(values))
	}
	for idx, v := range values {
		if cells.IsNothing(v) {
			continue
		}
		value, vclock := versions.Unwrap(v)
		if err := i.Inputs[idx].Add(versions.Versioned{
			Value: value,
			Clock: vclock.Join(clock),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (i *Instance) Disposed() bool {
	return i.disposed
}

// Dispose tears the instance down in order: input cells, the scope and its
// accessors, the body sub-network, then the hash store entry.
// Caller output cells are left alone. Idempotent, and safe on partially built instances.
func (i *Instance) Dispose() {
	if i.disposed {
		return
	}
	i.disposed = true
	for _, input := range i.Inputs {
		input.Dispose()
	}
	if i.Env != nil {
		i.Env.Dispose()
	}
	i.group.Dispose()
	hashes.Delete(i.unfolder.store, i)
	i.unfolder.live--
	i.unfolder.logger.Debug("disposed", "closure", i.Template.Name)
}

// Canonical identifies the instance by template and output cells.
func (i *Instance) Canonical() any {
	return map[string]any{
		"template": hashes.Get(i.unfolder.store, i.Template),
		"outputs":  closures.CellsHash(i.Outputs),
	}
}

func (i *Instance) String() string {
	return "#<instance " + i.Template.Name + ">"
}
