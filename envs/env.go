package envs

import (
	"errors"
	"fmt"

	"github.com/reusee/cellnet/cells"
)

var ErrMalformedEnv = errors.New("malformed environment cell")

// Env is one scope of the lexical chain. Its bindings live as a *Frame in a
// reactive cell, so lookups observe definitions made after they were built.
type Env struct {
	ID uint64

	net     *cells.Network
	lookups *Lookups
	cell    *cells.Cell
	parent  *Env

	owned    []func()
	disposed bool
}

// NewRoot creates a sentinel root environment with no parent.
func NewRoot(net *cells.Network) *Env {
	env := &Env{
		net: net,
	}
	env.lookups = newLookups(net)
	net.Detached(func() {
		env.cell = net.NewCell("env:root", cells.MergeReplace)
	})
	env.ID = env.cell.ID
	env.cell.Add((*Frame)(nil).Bind(parentKey, nil))
	return env
}

// parentKey is the entry every frame carries. It is bound to nil in the root.
const parentKey = "parent"

// Extend creates a child environment holding bindings. The receiver is not modified.
func (e *Env) Extend(name string, bindings ...Binding) *Env {
	child := &Env{
		net:     e.net,
		lookups: e.lookups,
		parent:  e,
	}
	child.cell = e.net.NewCell("env:"+name, cells.MergeReplace)
	child.ID = child.cell.ID
	frame := (*Frame)(nil).Bind(parentKey, e.cell)
	for _, b := range bindings {
		frame = frame.Bind(b.Name, b.Cell)
	}
	child.cell.Add(frame)
	return child
}

func (e *Env) Parent() *Env {
	return e.parent
}

func (e *Env) Cell() *cells.Cell {
	return e.cell
}

func (e *Env) Lookups() *Lookups {
	return e.lookups
}

func (e *Env) Network() *cells.Network {
	return e.net
}

func (e *Env) Disposed() bool {
	return e.disposed
}

// Frame returns the current frame.
func (e *Env) Frame() (*Frame, error) {
	if e.disposed {
		return nil, nil
	}
	frame, ok := e.cell.Strongest().(*Frame)
	if !ok {
		return nil, fmt.Errorf("%w: env %d holds %T", ErrMalformedEnv, e.ID, e.cell.Strongest())
	}
	if _, ok := frame.Get(parentKey); !ok {
		return nil, fmt.Errorf("%w: env %d has no parent entry", ErrMalformedEnv, e.ID)
	}
	return frame, nil
}

// Define binds name to cell in this environment by installing a new frame.
// Frames read before the call keep their bindings.
func (e *Env) Define(name string, cell *cells.Cell) error {
	if e.disposed {
		return nil
	}
	if name == parentKey || name == SelfKey {
		return fmt.Errorf("%w: cannot bind reserved name %q", ErrMalformedEnv, name)
	}
	frame, err := e.Frame()
	if err != nil {
		return err
	}
	return e.cell.Add(frame.Bind(name, cell))
}

// Local returns the cell bound to name in this environment only.
func (e *Env) Local(name string) (*cells.Cell, bool, error) {
	frame, err := e.Frame()
	if err != nil || frame == nil {
		return nil, false, err
	}
	cell, ok := frame.Get(name)
	return cell, ok, nil
}

// Resolve walks the chain now and returns the innermost binding of name.
// Unlike Lookup it is not reactive; it is for write targets.
func (e *Env) Resolve(name string) (*cells.Cell, *Env, error) {
	for env := e; env != nil; env = env.parent {
		cell, ok, err := env.Local(name)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			return cell, env, nil
		}
	}
	return nil, nil, nil
}

// Lookup returns the memoized accessor of name as seen from this environment.
func (e *Env) Lookup(name string) (*cells.Cell, error) {
	return e.lookups.Lookup(name, e)
}

func (e *Env) own(fn func()) {
	e.owned = append(e.owned, fn)
}

// OnDispose registers fn to run when the environment is disposed.
// It runs at once if the environment is already gone.
func (e *Env) OnDispose(fn func()) {
	if e.disposed {
		fn()
		return
	}
	e.own(fn)
}

// Dispose releases the accessors keyed on this environment, then its cell.
// Idempotent.
func (e *Env) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	owned := e.owned
	e.owned = nil
	for i := len(owned) - 1; i >= 0; i-- {
		owned[i]()
	}
	e.cell.Dispose()
}
