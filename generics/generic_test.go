package generics

import (
	"errors"
	"testing"
)

func TestGeneric(t *testing.T) {
	g := New("describe", nil)
	g.Define(func(args ...any) (any, error) {
		return "int", nil
	}, Is[int])
	g.Define(func(args ...any) (any, error) {
		return "any string", nil
	}, Is[string], Any)
	g.Define(func(args ...any) (any, error) {
		return "string int", nil
	}, Is[string], Is[int])

	cases := []struct {
		args     []any
		expected string
	}{
		{[]any{1}, "int"},
		{[]any{"a", 1}, "string int"},
		{[]any{"a", "b"}, "any string"},
	}
	for _, c := range cases {
		ret, err := g.Call(c.args...)
		if err != nil {
			t.Fatal(err)
		}
		if ret != c.expected {
			t.Fatalf("%v: got %v", c.args, ret)
		}
	}

	_, err := g.Call(1.5)
	if !errors.Is(err, ErrNoHandler) {
		t.Fatalf("got %v", err)
	}
}

func TestFallback(t *testing.T) {
	g := New("merge", func(args ...any) (any, error) {
		return args[len(args)-1], nil
	})
	ret, err := g.Call(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if ret != 2 {
		t.Fatalf("got %v", ret)
	}
}
