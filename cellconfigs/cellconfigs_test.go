package cellconfigs

import (
	"strings"
	"testing"

	"github.com/reusee/cellnet/configs"
	"github.com/reusee/cellnet/modes"
	"github.com/reusee/dscope"
)

func TestDefaults(t *testing.T) {
	loader := configs.NewLoader([]string{}, schema)
	dscope.New(
		new(Module),
		modes.ForTest(t),
	).Fork(
		func() configs.Loader {
			return loader
		},
	).Call(func(
		steps MaxDrainSteps,
		policy ClosureIdentity,
		source DefaultSource,
	) {
		if steps != 1<<14 {
			t.Fatalf("got %v", steps)
		}
		if policy != "structural" {
			t.Fatalf("got %v", policy)
		}
		if !strings.HasPrefix(string(source), "session-") {
			t.Fatalf("got %v", source)
		}
	})
}

func TestFromFile(t *testing.T) {
	loader := configs.NewLoader([]string{"testdata/cellnet.cue"}, schema)
	dscope.New(
		new(Module),
		modes.ForProduction(),
	).Fork(
		func() configs.Loader {
			return loader
		},
	).Call(func(
		steps MaxDrainSteps,
		policy ClosureIdentity,
		source DefaultSource,
	) {
		if steps != 500 {
			t.Fatalf("got %v", steps)
		}
		if policy != "named" {
			t.Fatalf("got %v", policy)
		}
		if source != "editor" {
			t.Fatalf("got %v", source)
		}
	})
}
