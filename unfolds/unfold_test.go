package unfolds

import (
	"context"
	"errors"
	"testing"

	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/closures"
	"github.com/reusee/cellnet/envs"
	"github.com/reusee/cellnet/hashes"
	"github.com/reusee/cellnet/sexprs"
	"github.com/reusee/cellnet/versions"
)

// compileCopy understands only (copy from to).
func compileCopy(net *cells.Network) Compile {
	return func(env *envs.Env, expr sexprs.Expr, _ versions.Clock) error {
		list := expr.(sexprs.List)
		from, err := env.Lookup(list.Elems[1].(sexprs.Symbol).Name)
		if err != nil {
			return err
		}
		to, _, err := env.Resolve(list.Elems[2].(sexprs.Symbol).Name)
		if err != nil {
			return err
		}
		if to == nil {
			return errors.New("unbound")
		}
		net.Primitive("copy", []*cells.Cell{from}, []*cells.Cell{to}, func() error {
			v := from.Strongest()
			if cells.IsNothing(v) {
				return nil
			}
			return to.Add(v)
		})
		return nil
	}
}

func setup(t *testing.T) (*cells.Network, *envs.Env, *Unfolder, *hashes.Store) {
	net := cells.NewNetwork(nil, 0)
	root := envs.NewRoot(net)
	store := hashes.NewStore()
	return net, root, New(net, store, nil, compileCopy(net)), store
}

func drain(t *testing.T, net *cells.Network) {
	t.Helper()
	if err := net.Drain(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestUnfoldDispatch(t *testing.T) {
	net, root, unfolder, _ := setup(t)
	tmpl, err := closures.FromSource(root, "id", []string{"x"}, []string{"y"}, "(copy x y)")
	if err != nil {
		t.Fatal(err)
	}
	out := net.NewCell("out", nil)
	inst, err := unfolder.Unfold(tmpl, root, []*cells.Cell{out}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if unfolder.Live() != 1 {
		t.Fatalf("got %d", unfolder.Live())
	}
	if err := inst.Dispatch([]any{versions.Tag(5, "repl", 1)}, versions.Clock{"editor": 1}); err != nil {
		t.Fatal(err)
	}
	drain(t, net)
	if out.Value() != 5 {
		t.Fatalf("got %v", out.Value())
	}
	_, clock := versions.Unwrap(out.Strongest())
	if clock["editor"] != 1 || clock["repl"] != 1 {
		t.Fatalf("got %v", clock)
	}
}

func TestUnfoldDispose(t *testing.T) {
	net, root, unfolder, store := setup(t)
	tmpl, err := closures.FromSource(root, "id", []string{"x"}, []string{"y"}, "(copy x y)")
	if err != nil {
		t.Fatal(err)
	}
	out := net.NewCell("out", nil)
	inst, err := unfolder.Unfold(tmpl, root, []*cells.Cell{out}, nil)
	if err != nil {
		t.Fatal(err)
	}
	input := inst.Inputs[0]
	if !hashes.Registered(store, inst) {
		t.Fatal("instance should be registered")
	}
	inst.Dispose()
	inst.Dispose()
	if unfolder.Live() != 0 {
		t.Fatalf("got %d", unfolder.Live())
	}
	if !input.Disposed() || !inst.Env.Disposed() {
		t.Fatal("should be disposed")
	}
	if out.Disposed() {
		t.Fatal("caller cells are not owned by the instance")
	}
	if hashes.Registered(store, inst) {
		t.Fatal("instance should be evicted")
	}
	if err := inst.Dispatch([]any{1}, nil); err != nil {
		t.Fatal(err)
	}
	drain(t, net)
	if out.HasValue() {
		t.Fatal("should be nothing")
	}
}

func TestUnfoldArity(t *testing.T) {
	net, root, unfolder, _ := setup(t)
	tmpl, err := closures.FromSource(root, "id", []string{"x"}, []string{"y"}, "(copy x y)")
	if err != nil {
		t.Fatal(err)
	}
	_, err = unfolder.Unfold(tmpl, root, nil, nil)
	if !errors.Is(err, closures.ErrArity) {
		t.Fatalf("got %v", err)
	}
	out := net.NewCell("out", nil)
	inst, err := unfolder.Unfold(tmpl, root, []*cells.Cell{out}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := inst.Dispatch(nil, nil); !errors.Is(err, closures.ErrArity) {
		t.Fatalf("got %v", err)
	}
}

func TestUnfoldCompileError(t *testing.T) {
	_, root, unfolder, _ := setup(t)
	tmpl, err := closures.FromSource(root, "bad", []string{"x"}, nil, "(copy x nowhere)")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := unfolder.Unfold(tmpl, root, nil, nil); err == nil {
		t.Fatal("should fail")
	}
	if unfolder.Live() != 0 {
		t.Fatalf("got %d", unfolder.Live())
	}
}

func TestUnfoldSuspendsHashStore(t *testing.T) {
	net := cells.NewNetwork(nil, 0)
	root := envs.NewRoot(net)
	store := hashes.NewStore()
	var inner *closures.Template
	unfolder := New(net, store, nil, func(env *envs.Env, expr sexprs.Expr, _ versions.Clock) error {
		inner = closures.New(env, "inner", nil, nil, nil)
		hashes.Get(store, inner)
		return nil
	})
	tmpl := closures.New(root, "outer", nil, nil, []sexprs.Expr{sexprs.Symbol{Name: "x"}})
	if _, err := unfolder.Unfold(tmpl, root, nil, nil); err != nil {
		t.Fatal(err)
	}
	if hashes.Registered(store, inner) {
		t.Fatal("should not register during construction")
	}
}
