package compiles

import (
	"github.com/reusee/cellnet/cellconfigs"
	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/closures"
	"github.com/reusee/cellnet/hashes"
	"github.com/reusee/cellnet/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Cells  cells.Module
	Hashes hashes.Module
}

func (Module) IdentityPolicy(
	identity cellconfigs.ClosureIdentity,
	logger logs.Logger,
) closures.IdentityPolicy {
	policy, err := closures.ParseIdentityPolicy(string(identity))
	if err != nil {
		logger.Warn("bad closure identity, using structural",
			"identity", identity,
		)
		return closures.IdentityStructural
	}
	return policy
}

func (Module) Compiler(
	net *cells.Network,
	store *hashes.Store,
	policy closures.IdentityPolicy,
	source cellconfigs.DefaultSource,
	logger logs.Logger,
	newSpan logs.NewSpan,
) *Compiler {
	c := New(
		net,
		store,
		policy,
		string(source),
		logger.With("component", "compiles"),
	)
	c.NewSpan = newSpan
	return c
}
