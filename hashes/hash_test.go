package hashes

import (
	"testing"
)

func TestHashDeterminism(t *testing.T) {
	a := Of(map[string]any{"a": 1, "b": 2})
	b := Of(map[string]any{"b": 2, "a": 1})
	if a != b {
		t.Fatalf("got %v %v", a, b)
	}

	nested1 := map[string]any{
		"x": []any{map[string]any{"q": 1, "p": "s"}, 2},
		"y": true,
	}
	nested2 := map[string]any{
		"y": true,
		"x": []any{map[string]any{"p": "s", "q": 1}, 2},
	}
	if Of(nested1) != Of(nested2) {
		t.Fatal()
	}
}

func TestHashDistinguishes(t *testing.T) {
	bodies := [][2]any{
		{[]any{"+", "x", 1, "y"}, []any{"-", "x", 1, "y"}},
		{[]any{"*", "x", 2}, []any{"*", "x", 3}},
		{map[string]any{"a": 1}, map[string]any{"a": "1"}},
		{[]any{1, 2}, []any{2, 1}},
		{[]any{[]any{1}, 2}, []any{1, []any{2}}},
	}
	for _, pair := range bodies {
		if Of(pair[0]) == Of(pair[1]) {
			t.Fatalf("collision: %v %v", pair[0], pair[1])
		}
	}
}

type point struct {
	X, Y int
	tag  string
}

type canon struct {
	name string
}

func (c canon) Canonical() any {
	return map[string]any{"name": c.name}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		input    any
		expected string
	}{
		{nil, "null"},
		{"a\"b", `"a\"b"`},
		{[]any{1, "x", false}, `[1,"x",false]`},
		{map[string]any{"b": 1, "a": []any{}}, `{"a":[],"b":1}`},
		{point{X: 1, Y: 2, tag: "ignored"}, `{"X":1,"Y":2}`},
		{&point{X: 3}, `{"X":3,"Y":0}`},
		{[]string{"a", "b"}, `["a","b"]`},
		{canon{name: "n"}, `{"name":"n"}`},
		{map[int]string{2: "b", 1: "a"}, `{"1":"a","2":"b"}`},
	}
	for _, c := range cases {
		if got := Stringify(c.input); got != c.expected {
			t.Fatalf("%#v: got %s, expected %s", c.input, got, c.expected)
		}
	}
}
