package cmds

import (
	"fmt"
	"testing"
)

func TestVar(t *testing.T) {
	steps := Var[int]("TestVar-steps")
	source := Var[string]("TestVar-source")
	GlobalExecutor.MustExecute([]string{
		"TestVar-steps", "42",
		"TestVar-source", "editor",
	})
	if *steps != 42 || *source != "editor" {
		t.Fatalf("got %v %v", *steps, *source)
	}
	GlobalExecutor.MustExecute([]string{
		"TestVar-steps.",
	})
	if *steps != 0 {
		t.Fatalf("got %v", *steps)
	}
}

func TestSwitch(t *testing.T) {
	repl := Switch("TestSwitch")
	GlobalExecutor.MustExecute([]string{
		"TestSwitch",
	})
	if !*repl {
		t.Fatal()
	}
	GlobalExecutor.MustExecute([]string{
		"!TestSwitch",
	})
	if *repl {
		t.Fatal()
	}
}

func TestCollect(t *testing.T) {
	files := Collect[string]("TestCollect")
	GlobalExecutor.MustExecute([]string{
		"TestCollect", "a.cell",
		"TestCollect", "b.cell",
	})
	if str := fmt.Sprintf("%v", *files); str != "[a.cell b.cell]" {
		t.Fatalf("got %s", str)
	}
}

func TestTypedVar(t *testing.T) {
	type Identity string
	v := Var[Identity]("TestTypedVar")
	GlobalExecutor.MustExecute([]string{
		"TestTypedVar", "named",
	})
	if *v != "named" {
		t.Fatalf("got %v", *v)
	}
}
