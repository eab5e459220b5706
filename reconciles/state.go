package reconciles

import (
	"fmt"
	"strings"

	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/closures"
	"github.com/reusee/cellnet/envs"
	"github.com/reusee/cellnet/unfolds"
	"github.com/reusee/cellnet/versions"
)

// Application is one delivery of a closure to a call site. Never mutated.
type Application struct {
	Template  *closures.Template
	Clock     versions.Clock
	Inputs    []*cells.Cell
	Outputs   []*cells.Cell
	ParentEnv *envs.Env
}

// Values reads the current input values.
func (a *Application) Values() []any {
	ret := make([]any, len(a.Inputs))
	for i, input := range a.Inputs {
		ret[i] = input.Strongest()
	}
	return ret
}

func (a *Application) String() string {
	return fmt.Sprintf("apply %s@%v", a.Template.Name, a.Clock)
}

// Fork delivers applications whose versions could not be ordered.
type Fork struct {
	Applications []*Application
}

// State is the content of a call site cell.
type State interface {
	cells.Disposer
	state()
}

type Empty struct{}

// Member is one running instance and the delivery that built it.
type Member struct {
	Application *Application
	Instance    *unfolds.Instance
	Identity    closures.Identity
	// Clock joins the clocks of every delivery redelivered to the instance.
	Clock versions.Clock
}

type Single struct {
	*Member
}

type Forked struct {
	Members []*Member
}

var (
	_ State = Empty{}
	_ State = new(Single)
	_ State = new(Forked)
)

func (Empty) state()   {}
func (*Single) state() {}
func (*Forked) state() {}

func (Empty) Dispose() {}

func (s *Single) Dispose() {
	s.Instance.Dispose()
}

func (f *Forked) Dispose() {
	for _, m := range f.Members {
		m.Instance.Dispose()
	}
}

func (Empty) String() string {
	return "empty"
}

func (s *Single) String() string {
	return "single(" + s.Application.Template.Name + ")"
}

func (f *Forked) String() string {
	names := make([]string, 0, len(f.Members))
	for _, m := range f.Members {
		names = append(names, fmt.Sprintf("%s@%v", m.Application.Template.Name, m.Clock))
	}
	return "forked(" + strings.Join(names, " ") + ")"
}

// AsState treats a fresh call site cell as Empty.
func AsState(v any) (State, bool) {
	if cells.IsNothing(v) {
		return Empty{}, true
	}
	s, ok := v.(State)
	return s, ok
}

func isState(v any) bool {
	_, ok := AsState(v)
	return ok
}
