package configs

import (
	"errors"
	"fmt"
	"testing"
)

var testSchema = `
max_drain_steps?: int & >0
closure_identity?: "structural" | "named"
sources?: [...string]
`

func TestLoaderAssignFirst(t *testing.T) {
	loader := NewLoader([]string{"testdata/test.cue"}, testSchema)

	var steps int
	err := loader.AssignFirst("max_drain_steps", &steps)
	if err != nil {
		t.Fatal(err)
	}
	if steps != 1000 {
		t.Fatalf("got %v", steps)
	}

	var sources []string
	err = loader.AssignFirst("sources", &sources)
	if err != nil {
		t.Fatal(err)
	}
	if str := fmt.Sprintf("%v", sources); str != "[editor repl]" {
		t.Fatalf("got %s", str)
	}

	err = loader.AssignFirst("not", &sources)
	if !errors.Is(err, ErrValueNotFound) {
		t.Fatalf("got %v", err)
	}

}

func TestLoaderIterCueValues(t *testing.T) {
	loader := NewLoader([]string{
		"testdata/test.cue",
		"testdata/test2.cue",
	}, testSchema)

	var policies []string
	for value, err := range loader.IterCueValues("closure_identity") {
		if err != nil {
			t.Fatal(err)
		}
		var s string
		if err := value.Decode(&s); err != nil {
			t.Fatal(err)
		}
		policies = append(policies, s)
	}
	if str := fmt.Sprintf("%v", policies); str != "[structural named]" {
		t.Fatalf("got %q", str)
	}

	var steps []int
	for n := range All[int](loader, "max_drain_steps") {
		steps = append(steps, n)
	}
	if str := fmt.Sprintf("%v", steps); str != "[1000 50]" {
		t.Fatalf("got %q", str)
	}

}

func TestUnknownField(t *testing.T) {
	loader := NewLoader([]string{
		"testdata/bad.cue",
	}, testSchema)
	var str string
	err := loader.AssignFirst("unknown_field", &str)
	if err == nil {
		t.Fatal("should error")
	}
}

func TestSchemaViolation(t *testing.T) {
	loader := NewLoader([]string{
		"testdata/test.cue",
	}, `max_drain_steps?: int & <10`)
	var n int
	if err := loader.AssignFirst("max_drain_steps", &n); err == nil {
		t.Fatal("should error")
	}
}
