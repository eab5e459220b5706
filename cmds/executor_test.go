package cmds

import (
	"errors"
	"strings"
	"testing"
)

func TestExecutor(t *testing.T) {
	executor := NewExecutor()

	var a int
	executor.Define("+a", Func(func() {
		a = 42
	}))
	executor.Define("a", Func(func(i int) {
		a = i
	}))

	if err := executor.Execute([]string{
		"+a",
	}); err != nil {
		t.Fatal(err)
	}
	if a != 42 {
		t.Fatal()
	}

	if err := executor.Execute([]string{
		"a", "1",
	}); err != nil {
		t.Fatal(err)
	}
	if a != 1 {
		t.Fatal()
	}

	err := executor.Execute([]string{
		"foo",
	})
	if !strings.Contains(err.Error(), "unknown command: foo") {
		t.Fatalf("got %v", err)
	}

}

func TestCommandLine(t *testing.T) {
	executor := NewExecutor()
	var files []string
	var repl bool
	var steps int
	executor.Define("load", Func(func(path string) {
		files = append(files, path)
	}))
	executor.Define("repl", Func(func() {
		repl = true
	}))
	executor.Define("-max-drain-steps", Func(func(n int) {
		steps = n
	}))

	if err := executor.Execute([]string{
		"load", "a.cell",
		"-max-drain-steps", "100",
		"load", "b.cell",
		"repl",
	}); err != nil {
		t.Fatal(err)
	}
	if str := strings.Join(files, ","); str != "a.cell,b.cell" {
		t.Fatalf("got %s", str)
	}
	if !repl || steps != 100 {
		t.Fatalf("got %v %v", repl, steps)
	}

	err := executor.Execute([]string{"-max-drain-steps", "many"})
	if err == nil || !strings.Contains(err.Error(), "-max-drain-steps: convert many to int") {
		t.Fatalf("got %v", err)
	}
}

func TestCommandError(t *testing.T) {
	executor := NewExecutor()
	errBad := errors.New("bad")
	executor.Define("fail", Func(func() error {
		return errBad
	}))
	executor.Define("ok", Func(func() error {
		return nil
	}))
	if err := executor.Execute([]string{"ok"}); err != nil {
		t.Fatal(err)
	}
	if err := executor.Execute([]string{"ok", "fail"}); !errors.Is(err, errBad) {
		t.Fatalf("got %v", err)
	}
}

func TestDuplicatedCommand(t *testing.T) {
	executor := NewExecutor()
	executor.Define("foo", Func(func() {}))
	defer func() {
		if recover() == nil {
			t.Fatal("should panic")
		}
	}()
	executor.Define("bar", Func(func() {}).Alias("foo"))
}

func TestOptionalArgument(t *testing.T) {
	executor := NewExecutor()
	var n int
	var s string
	executor.Define("foo", Func(func(arg *int, arg2 *string) {
		n = *arg
		s = *arg2
	}))

	err := executor.Execute([]string{"foo", "42", "foo"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 42 {
		t.Fatal()
	}
	if s != "foo" {
		t.Fatal()
	}

	err = executor.Execute([]string{"foo", "99"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 99 {
		t.Fatal()
	}
	if s != "" {
		t.Fatal()
	}

	err = executor.Execute([]string{"foo"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal()
	}
	if s != "" {
		t.Fatal()
	}

}
