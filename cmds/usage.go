package cmds

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	p.WriteUsage(os.Stdout)
}

func (p *Executor) WriteUsage(w io.Writer) {
	printed := make(map[*Command]bool)
	names := make([]string, 0, len(p.commands))
	for name := range p.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		cmd := p.commands[name]
		if printed[cmd] || slices.Contains(cmd.Aliases, name) {
			continue
		}
		printed[cmd] = true
		writeCommand(w, name, cmd)
	}
}

func writeCommand(w io.Writer, name string, cmd *Command) {
	line := name
	if len(cmd.Aliases) > 0 {
		line += " (" + strings.Join(cmd.Aliases, ", ") + ")"
	}
	if cmd.Description != "" {
		line += "\t" + cmd.Description
	}
	fmt.Fprintln(w, line)
}
