package cellconfigs

import (
	"github.com/reusee/cellnet/cmds"
	"github.com/reusee/cellnet/configs"
	"github.com/reusee/cellnet/vars"
)

// ClosureIdentity names the policy call sites use to decide that two
// templates are the same computation: "structural" or "named".
type ClosureIdentity string

var closureIdentityFlag = cmds.Var[string]("-closure-identity")

func (Module) ClosureIdentity(
	loader configs.Loader,
) ClosureIdentity {
	return ClosureIdentity(vars.FirstNonZero(
		*closureIdentityFlag,
		configs.First[string](loader, "closure_identity"),
		"structural",
	))
}
