package main

import (
	"context"
	"os"

	"github.com/reusee/cellnet/cmds"
	"github.com/reusee/cellnet/compiles"
	"github.com/reusee/cellnet/debugs"
	"github.com/reusee/cellnet/logs"
	"github.com/reusee/cellnet/modes"
	"github.com/reusee/dscope"
)

var (
	loadFiles = cmds.Collect[string]("load")
	doRepl    = cmds.Switch("repl")
)

func main() {
	cmds.Execute(os.Args[1:])
	ctx := context.Background()

	dscope.New(
		new(Module),
		modes.ForProduction(),
	).Call(func(
		c *compiles.Compiler,
		tap debugs.Tap,
		logger logs.Logger,
	) {

		for _, path := range *loadFiles {
			if err := load(ctx, c, path); err != nil {
				logger.Error("load failed", "path", path, "err", err)
				os.Exit(-1)
			}
		}

		if len(*loadFiles) == 0 || *doRepl {
			runREPL(ctx, c, tap, logger)
		}

	})
}

func load(ctx context.Context, c *compiles.Compiler, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// every file is its own source of edits
	if _, err := c.CompileString(ctx, string(content), path, c.Tick(path)); err != nil {
		return err
	}
	return c.Drain(ctx)
}
