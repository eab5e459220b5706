package cellconfigs

import (
	"github.com/google/uuid"
	"github.com/reusee/cellnet/cmds"
	"github.com/reusee/cellnet/configs"
	"github.com/reusee/cellnet/vars"
)

// DefaultSource is the source identity of edits that do not carry one.
type DefaultSource string

var sourceFlag = cmds.Var[string]("-source")

func (Module) DefaultSource(
	loader configs.Loader,
) DefaultSource {
	return DefaultSource(vars.FirstNonZero(
		*sourceFlag,
		configs.First[string](loader, "source"),
		"session-"+uuid.NewString(),
	))
}
