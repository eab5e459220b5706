package cells

import (
	"github.com/reusee/cellnet/cellconfigs"
	"github.com/reusee/cellnet/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs cellconfigs.Module
	Logs    logs.Module
}

func (Module) Network(
	logger logs.Logger,
	maxSteps cellconfigs.MaxDrainSteps,
) *Network {
	return NewNetwork(
		logger.With("component", "cells"),
		int(maxSteps),
	)
}
