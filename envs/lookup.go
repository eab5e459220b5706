package envs

import (
	"github.com/reusee/cellnet/cells"
)

// SelfKey is the name under which an environment exposes a snapshot of itself.
const SelfKey = "env"

type lookupKey struct {
	name string
	env  uint64
}

// Lookups memoizes lexical accessors per (name, environment).
// Accessors are created outside of any group and released with the environment they are keyed on.
type Lookups struct {
	net  *cells.Network
	memo map[lookupKey]*cells.Cell

	built int
}

func newLookups(net *cells.Network) *Lookups {
	return &Lookups{
		net:  net,
		memo: make(map[lookupKey]*cells.Cell),
	}
}

// Len reports the number of live memoized accessors.
func (l *Lookups) Len() int {
	return len(l.memo)
}

// Built reports how many accessors were ever constructed.
func (l *Lookups) Built() int {
	return l.built
}

// Lookup returns the accessor cell of name in env, building it on first request.
// The accessor holds the value of the innermost binding that currently has a value.
func (l *Lookups) Lookup(name string, env *Env) (*cells.Cell, error) {
	key := lookupKey{
		name: name,
		env:  env.ID,
	}
	if cell, ok := l.memo[key]; ok {
		return cell, nil
	}
	if _, err := env.Frame(); err != nil {
		return nil, err
	}

	var ancestor *cells.Cell
	if env.parent != nil && name != SelfKey {
		var err error
		ancestor, err = l.Lookup(name, env.parent)
		if err != nil {
			return nil, err
		}
	}

	var (
		ret   *cells.Cell
		group *cells.Group
	)
	l.net.Detached(func() {
		group = l.net.NewGroup("lookup:" + name)
	})
	l.net.Within(group, func() {
		if name == SelfKey {
			ret = l.snapshotAccessor(env)
			return
		}
		local := l.localAccessor(name, env)
		if ancestor == nil {
			ret = local
			return
		}
		ret = l.net.NewCell(name, cells.MergeReplace)
		prioritizeLeftmost(l.net, name, []*cells.Cell{local, ancestor}, ret)
	})

	l.memo[key] = ret
	l.built++
	env.own(func() {
		delete(l.memo, key)
		group.Dispose()
	})
	return ret, nil
}

// localAccessor mirrors the value bound to name in env's own frame.
// It rewires whenever a new frame changes what name is bound to.
func (l *Lookups) localAccessor(name string, env *Env) *cells.Cell {
	out := l.net.NewCell(name+"@"+env.cell.Name, cells.MergeReplace)
	var (
		wired     *cells.Cell
		forwarder *cells.Propagator
	)
	l.net.Primitive("watch:"+name, []*cells.Cell{env.cell}, []*cells.Cell{out}, func() error {
		frame, err := env.Frame()
		if err != nil {
			return err
		}
		bound, ok := frame.Get(name)
		if !ok || bound == wired {
			return nil
		}
		if forwarder != nil {
			forwarder.Dispose()
		}
		wired = bound
		forwarder = l.net.Primitive("forward:"+name, []*cells.Cell{bound}, []*cells.Cell{out}, func() error {
			v := bound.Strongest()
			if cells.IsNothing(v) {
				return nil
			}
			return out.Add(v)
		})
		return nil
	})
	return out
}

// prioritizeLeftmost writes into out the content of the first candidate holding a value.
func prioritizeLeftmost(net *cells.Network, name string, candidates []*cells.Cell, out *cells.Cell) *cells.Propagator {
	return net.Primitive("prioritize:"+name, candidates, []*cells.Cell{out}, func() error {
		for _, c := range candidates {
			v := c.Strongest()
			if cells.IsNothing(v) {
				continue
			}
			return out.Add(v)
		}
		return nil
	})
}

// snapshotAccessor publishes an immutable copy of the bindings visible from env,
// refreshed whenever any environment of the chain installs a new frame.
func (l *Lookups) snapshotAccessor(env *Env) *cells.Cell {
	out := l.net.NewCell(SelfKey+"@"+env.cell.Name, cells.MergeReplace)
	var chain []*cells.Cell
	for e := env; e != nil; e = e.parent {
		chain = append(chain, e.cell)
	}
	l.net.Primitive("snapshot", chain, []*cells.Cell{out}, func() error {
		snapshot, err := Snap(env)
		if err != nil {
			return err
		}
		if current, ok := out.Strongest().(*Snapshot); ok && current.Equal(snapshot) {
			return nil
		}
		return out.Add(snapshot)
	})
	return out
}
