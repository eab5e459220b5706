package reconciles

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/reusee/cellnet/closures"
	"github.com/reusee/cellnet/generics"
	"github.com/reusee/cellnet/hashes"
	"github.com/reusee/cellnet/unfolds"
	"github.com/reusee/cellnet/versions"
)

type Stats struct {
	Unfolds      int
	Redeliveries int
	Rebuilds     int
	Forks        int
	Stale        int
	Disposals    int
}

// Reconciler decides, for each delivery to a call site, whether it is the
// running computation or a new one, and swaps instances accordingly.
type Reconciler struct {
	unfolder *unfolds.Unfolder
	store    *hashes.Store
	policy   closures.IdentityPolicy
	logger   *slog.Logger
	stats    Stats
}

func New(
	unfolder *unfolds.Unfolder,
	store *hashes.Store,
	policy closures.IdentityPolicy,
	logger *slog.Logger,
) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{
		unfolder: unfolder,
		store:    store,
		policy:   policy,
		logger:   logger,
	}
}

func (r *Reconciler) Stats() Stats {
	return r.stats
}

// Install registers the reconciler as the merge of call site cells.
func (r *Reconciler) Install(merges *generics.Generic) {
	merges.Define(func(args ...any) (any, error) {
		state, _ := AsState(args[0])
		return r.Merge(state, args[1].(*Application))
	}, isState, generics.Is[*Application])
	merges.Define(func(args ...any) (any, error) {
		state, _ := AsState(args[0])
		return r.MergeFork(state, args[1].(*Fork))
	}, isState, generics.Is[*Fork])
}

// Merge reconciles one application into the current state.
func (r *Reconciler) Merge(current State, app *Application) (State, error) {
	switch state := live(current).(type) {

	case Empty:
		member, err := r.unfold(app)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("install", "closure", app.Template.Name)
		return &Single{member}, nil

	case *Single:
		identity := r.identify(app)
		if identity == state.Identity {
			if err := r.redeliver(state.Member, app); err != nil {
				return nil, err
			}
			return state, nil
		}

		switch state.Clock.Compare(app.Clock) {

		case versions.After:
			r.stats.Stale++
			r.logger.Debug("stale delivery", "closure", app.Template.Name, "clock", app.Clock)
			return state, nil

		case versions.Concurrent:
			member, err := r.unfold(app)
			if err != nil {
				return nil, err
			}
			r.stats.Forks++
			r.logger.Info("fork",
				"closure", app.Template.Name,
				"installed", state.Clock,
				"incoming", app.Clock,
			)
			return &Forked{
				Members: []*Member{state.Member, member},
			}, nil

		default:
			// newer, or a rewiring at the same version
			r.dispose(state.Member)
			member, err := r.unfold(app)
			if err != nil {
				return nil, err
			}
			r.stats.Rebuilds++
			r.logger.Info("rebuild", "closure", app.Template.Name, "clock", app.Clock)
			return &Single{member}, nil

		}

	case *Forked:
		return r.admit(state, app)

	}
	return nil, fmt.Errorf("unknown call site state: %T", current)
}

// MergeFork reconciles applications that the versioning could not order.
func (r *Reconciler) MergeFork(current State, fork *Fork) (State, error) {
	current = live(current)
	state := current
	for _, app := range fork.Applications {
		var forked *Forked
		switch s := state.(type) {
		case Empty:
			forked = &Forked{}
		case *Single:
			forked = &Forked{
				Members: []*Member{s.Member},
			}
		case *Forked:
			forked = s
		default:
			return nil, fmt.Errorf("unknown call site state: %T", state)
		}
		next, err := r.admit(forked, app)
		if err != nil {
			return nil, err
		}
		state = next
	}
	if forked, ok := state.(*Forked); ok && len(forked.Members) == 1 {
		if single, ok := current.(*Single); ok && single.Member == forked.Members[0] {
			return current, nil
		}
		state = &Single{forked.Members[0]}
	}
	return state, nil
}

func (r *Reconciler) admit(state *Forked, app *Application) (State, error) {
	identity := r.identify(app)

	// the same delivery again
	if same, ok := lo.Find(state.Members, func(m *Member) bool {
		return m.Identity == identity && m.Application.Clock.Compare(app.Clock) == versions.Equal
	}); ok {
		if err := r.redeliver(same, app); err != nil {
			return nil, err
		}
		return state, nil
	}

	if lo.ContainsBy(state.Members, func(m *Member) bool {
		return m.Identity == identity
	}) {
		// matches a member that is not yet resolved by the versions: accumulate
		return r.accumulate(state, app)
	}

	if len(state.Members) > 0 && lo.EveryBy(state.Members, func(m *Member) bool {
		return m.Clock.Compare(app.Clock) == versions.Before
	}) {
		// newer than every member resolves the fork
		for _, m := range state.Members {
			r.dispose(m)
		}
		member, err := r.unfold(app)
		if err != nil {
			return nil, err
		}
		r.stats.Rebuilds++
		r.logger.Info("fork resolved", "closure", app.Template.Name, "clock", app.Clock)
		return &Single{member}, nil
	}

	if lo.SomeBy(state.Members, func(m *Member) bool {
		return m.Clock.Compare(app.Clock) == versions.After
	}) {
		r.stats.Stale++
		return state, nil
	}

	return r.accumulate(state, app)
}

func (r *Reconciler) accumulate(state *Forked, app *Application) (State, error) {
	member, err := r.unfold(app)
	if err != nil {
		return nil, err
	}
	if len(state.Members) > 0 {
		r.stats.Forks++
		r.logger.Info("fork", "closure", app.Template.Name, "members", len(state.Members)+1)
	}
	return &Forked{
		Members: append(append([]*Member(nil), state.Members...), member),
	}, nil
}

// live drops members whose instance is gone. A rebuild that failed after
// disposing the installed instance leaves such a state behind.
func live(state State) State {
	switch s := state.(type) {
	case *Single:
		if s.Instance.Disposed() {
			return Empty{}
		}
	case *Forked:
		members := lo.Filter(s.Members, func(m *Member, _ int) bool {
			return !m.Instance.Disposed()
		})
		switch len(members) {
		case 0:
			return Empty{}
		case len(s.Members):
			return s
		}
		return &Forked{
			Members: members,
		}
	}
	return state
}

func (r *Reconciler) identify(app *Application) closures.Identity {
	return r.policy.Identify(r.store, app.Template, app.Inputs, app.Outputs)
}

func (r *Reconciler) unfold(app *Application) (*Member, error) {
	if err := app.Template.CheckArity(len(app.Inputs), len(app.Outputs)); err != nil {
		return nil, err
	}
	inst, err := r.unfolder.Unfold(app.Template, app.ParentEnv, app.Outputs, app.Clock)
	if err != nil {
		return nil, err
	}
	r.stats.Unfolds++
	member := &Member{
		Application: app,
		Instance:    inst,
		Identity:    r.identify(app),
		Clock:       app.Clock,
	}
	if err := inst.Dispatch(app.Values(), member.Clock); err != nil {
		inst.Dispose()
		return nil, err
	}
	return member, nil
}

// redeliver feeds the running instance without rebuilding it.
func (r *Reconciler) redeliver(member *Member, app *Application) error {
	member.Clock = member.Clock.Join(app.Clock)
	r.stats.Redeliveries++
	return member.Instance.Dispatch(app.Values(), member.Clock)
}

func (r *Reconciler) dispose(member *Member) {
	member.Instance.Dispose()
	r.stats.Disposals++
	r.logger.Debug("dispose", "closure", member.Application.Template.Name)
}
