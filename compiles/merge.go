package compiles

import (
	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/closures"
	"github.com/reusee/cellnet/generics"
	"github.com/reusee/cellnet/versions"
)

// installTemplateMerge makes binding cells compare templates structurally,
// so recompiling an unchanged definition is not a conflict.
func (c *Compiler) installTemplateMerge(merges *generics.Generic) {
	merges.Define(func(args ...any) (any, error) {
		current, incoming := args[0], args[1]
		cur, curClock := versions.Unwrap(current)
		in, inClock := versions.Unwrap(incoming)
		if c.policy.TemplateHash(c.store, cur.(*closures.Template)) !=
			c.policy.TemplateHash(c.store, in.(*closures.Template)) {
			return cells.MergeVersioned(current, incoming)
		}
		switch curClock.Compare(inClock) {
		case versions.Before:
			return incoming, nil
		case versions.Concurrent:
			return versions.Versioned{
				Value: cur,
				Clock: curClock.Join(inClock),
			}, nil
		}
		return current, nil
	}, closures.IsClosure, closures.IsClosure)
}
