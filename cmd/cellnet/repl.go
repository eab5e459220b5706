package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/reusee/cellnet/compiles"
	"github.com/reusee/cellnet/debugs"
	"github.com/reusee/cellnet/envs"
	"github.com/reusee/cellnet/logs"
)

func historyPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cellnet", "history"), nil
}

func runREPL(ctx context.Context, c *compiles.Compiler, tap debugs.Tap, logger logs.Logger) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)

	path, err := historyPath()
	if err != nil {
		logger.Warn("get history path error", "err", err)
	} else if f, err := os.Open(path); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if path == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			logger.Warn("create history dir error", "err", err)
			return
		}
		f, err := os.Create(path)
		if err != nil {
			logger.Warn("create history file error", "err", err)
			return
		}
		line.WriteHistory(f)
		f.Close()
	}()

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			switch err {
			case io.EOF, liner.ErrPromptAborted:
				return
			}
			logger.Error("prompt error", "err", err)
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {

		case ":quit", ":exit":
			return

		case ":stats":
			fmt.Printf("%+v\n", c.Stats())
			continue

		case ":tap":
			snapshot, err := envs.Snap(c.Root())
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			tap(ctx, "repl", map[string]any{
				"env":   snapshot,
				"read":  c.Read,
				"stats": c.Stats,
			})
			continue

		}

		source := c.Source()
		ret, err := c.CompileString(ctx, input, source, c.Tick(source))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if err := c.Drain(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(ret.Value())
	}
}
