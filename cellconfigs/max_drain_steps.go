package cellconfigs

import (
	"github.com/reusee/cellnet/cmds"
	"github.com/reusee/cellnet/configs"
	"github.com/reusee/cellnet/modes"
	"github.com/reusee/cellnet/vars"
)

type MaxDrainSteps int

var maxDrainStepsFlag = cmds.Var[int]("-max-drain-steps")

func (Module) MaxDrainSteps(
	loader configs.Loader,
	mode modes.Mode,
) MaxDrainSteps {
	def := 1 << 20
	if mode == modes.ModeDevelopment {
		// runaway feedback loops should fail fast in tests
		def = 1 << 14
	}
	return MaxDrainSteps(vars.FirstNonZero(
		*maxDrainStepsFlag,
		configs.First[int](loader, "max_drain_steps"),
		def,
	))
}
