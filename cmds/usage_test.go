package cmds

import (
	"bytes"
	"strings"
	"testing"
)

func TestUsage(t *testing.T) {
	executor := NewExecutor()
	executor.Define("load", Func(func(string) {}).Desc("compile a file"))
	executor.Define("repl", Func(func() {}).Desc("start the REPL").Alias("-i"))
	buf := new(bytes.Buffer)
	executor.WriteUsage(buf)
	for _, want := range []string{
		"load\tcompile a file",
		"repl (-i)\tstart the REPL",
		"-h (help, -help, --help)",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("missing %q in %s", want, buf.String())
		}
	}
	if strings.Count(buf.String(), "print this usage") != 1 {
		t.Fatalf("got %s", buf.String())
	}
}
