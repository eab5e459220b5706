package debugs

import (
	"github.com/reusee/cellnet/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
