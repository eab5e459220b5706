package main

import (
	"github.com/reusee/cellnet/compiles"
	"github.com/reusee/cellnet/debugs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Compiles compiles.Module
	Debugs   debugs.Module
}
