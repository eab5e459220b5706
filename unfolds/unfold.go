package unfolds

import (
	"fmt"
	"log/slog"

	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/closures"
	"github.com/reusee/cellnet/envs"
	"github.com/reusee/cellnet/hashes"
	"github.com/reusee/cellnet/sexprs"
	"github.com/reusee/cellnet/versions"
)

// Compile compiles one body expression in env. Constants in the body are
// tagged with clock, the version of the closure value being unfolded.
type Compile func(env *envs.Env, expr sexprs.Expr, clock versions.Clock) error

// Unfolder builds live sub-networks from closure templates.
type Unfolder struct {
	net     *cells.Network
	store   *hashes.Store
	compile Compile
	logger  *slog.Logger

	live  int
	built int
}

func New(net *cells.Network, store *hashes.Store, logger *slog.Logger, compile Compile) *Unfolder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Unfolder{
		net:     net,
		store:   store,
		compile: compile,
		logger:  logger,
	}
}

// Live reports the number of undisposed instances.
func (u *Unfolder) Live() int {
	return u.live
}

// Built reports the number of instances ever built.
func (u *Unfolder) Built() int {
	return u.built
}

// Unfold builds an instance of tmpl. Inputs are fresh cells fed by Dispatch;
// outputs are the caller's cells, bound under the template's output names.
// The child scope extends the template's defining environment, or parent when the template has none.
func (u *Unfolder) Unfold(
	tmpl *closures.Template,
	parent *envs.Env,
	outputs []*cells.Cell,
	clock versions.Clock,
) (_ *Instance, err error) {
	if len(outputs) != len(tmpl.Outputs) {
		return nil, fmt.Errorf("%w: %s takes %d outputs, got %d",
			closures.ErrArity, tmpl.Name, len(tmpl.Outputs), len(outputs))
	}
	scope := tmpl.Env
	if scope == nil {
		scope = parent
	}
	if scope == nil {
		return nil, fmt.Errorf("%w: no environment to unfold %s in", envs.ErrMalformedEnv, tmpl.Name)
	}

	inst := &Instance{
		Template: tmpl,
		Clock:    clock,
		Outputs:  outputs,
		unfolder: u,
	}
	inst.group = u.net.NewGroup("closure:" + tmpl.Name)
	defer func() {
		if err != nil {
			inst.Dispose()
		}
	}()

	u.live++
	u.built++

	// objects built here are still being wired, so they must not enter the hash store
	u.store.Suspend(func() {
		u.net.Within(inst.group, func() {
			bindings := make([]envs.Binding, 0, len(tmpl.Inputs)+len(tmpl.Outputs))
			for _, name := range tmpl.Inputs {
				cell := u.net.NewCell(tmpl.Name+"."+name, nil)
				inst.Inputs = append(inst.Inputs, cell)
				bindings = append(bindings, envs.Binding{
					Name: name,
					Cell: cell,
				})
			}
			for i, name := range tmpl.Outputs {
				bindings = append(bindings, envs.Binding{
					Name: name,
					Cell: outputs[i],
				})
			}
			inst.Env = scope.Extend(tmpl.Name, bindings...)

			for _, expr := range tmpl.Body {
				if err = u.compile(inst.Env, expr, clock); err != nil {
					err = fmt.Errorf("closure %s: %w", tmpl.Name, err)
					return
				}
			}
		})
	})
	if err != nil {
		return nil, err
	}
	hashes.Get(u.store, inst)

	u.logger.Debug("unfolded",
		"closure", tmpl.Name,
		"inputs", len(inst.Inputs),
		"outputs", len(outputs),
	)
	return inst, nil
}
