package cells

import (
	"context"
	"errors"
	"testing"

	"github.com/reusee/cellnet/versions"
)

func adder(n *Network, a, b, out *Cell) *Propagator {
	return n.Primitive("add", []*Cell{a, b}, []*Cell{out}, func() error {
		values, ok := Reads([]*Cell{a, b})
		if !ok {
			return nil
		}
		x, cx := versions.Unwrap(values[0])
		y, cy := versions.Unwrap(values[1])
		return out.Add(versions.Versioned{
			Value: x.(int) + y.(int),
			Clock: versions.Join(cx, cy),
		})
	})
}

func TestPropagation(t *testing.T) {
	ctx := context.Background()
	n := NewNetwork(nil, 0)
	a := n.NewCell("a", nil)
	b := n.NewCell("b", nil)
	out := n.NewCell("out", nil)
	adder(n, a, b, out)

	if err := n.Drain(ctx); err != nil {
		t.Fatal(err)
	}
	if out.HasValue() {
		t.Fatal("should be nothing")
	}

	a.Add(versions.Tag(1, "src", 1))
	b.Add(versions.Tag(2, "src", 1))
	if err := n.Drain(ctx); err != nil {
		t.Fatal(err)
	}
	if out.Value() != 3 {
		t.Fatalf("got %v", out.Value())
	}

	a.Add(versions.Tag(10, "src", 2))
	if err := n.Drain(ctx); err != nil {
		t.Fatal(err)
	}
	if out.Value() != 12 {
		t.Fatalf("got %v", out.Value())
	}
}

func TestGroupDispose(t *testing.T) {
	ctx := context.Background()
	n := NewNetwork(nil, 0)
	a := n.NewCell("a", nil)
	out := n.NewCell("out", MergeReplace)

	g := n.NewGroup("sub")
	var p *Propagator
	n.Within(g, func() {
		b := n.Constant("b", versions.Tag(1, "src", 1))
		p = adder(n, a, b, out)
	})
	if g.Len() != 2 {
		t.Fatalf("got %v", g.Len())
	}

	a.Add(versions.Tag(1, "src", 1))
	if err := n.Drain(ctx); err != nil {
		t.Fatal(err)
	}
	if out.Value() != 2 {
		t.Fatalf("got %v", out.Value())
	}

	g.Dispose()
	g.Dispose()
	if !p.Disposed() {
		t.Fatal()
	}
	if len(a.neighbors) != 0 {
		t.Fatalf("got %v", a.neighbors)
	}

	a.Add(versions.Tag(5, "src", 2))
	if err := n.Drain(ctx); err != nil {
		t.Fatal(err)
	}
	if out.Value() != 2 {
		t.Fatalf("got %v", out.Value())
	}
}

func TestDisposedPendingActivation(t *testing.T) {
	n := NewNetwork(nil, 0)
	ran := false
	p := n.Primitive("p", nil, nil, func() error {
		ran = true
		return nil
	})
	p.Dispose()
	if err := n.Drain(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ran {
		t.Fatal("disposed propagator ran")
	}
}

func TestCompoundExpandsOnce(t *testing.T) {
	ctx := context.Background()
	n := NewNetwork(nil, 0)
	in := n.NewCell("in", nil)
	builds := 0
	n.Compound("compound", []*Cell{in}, nil, func() error {
		builds++
		return nil
	})
	if err := n.Drain(ctx); err != nil {
		t.Fatal(err)
	}
	if builds != 0 {
		t.Fatalf("expanded before input: %d", builds)
	}
	in.Add(versions.Tag(1, "s", 1))
	n.Drain(ctx)
	in.Add(versions.Tag(2, "s", 2))
	n.Drain(ctx)
	if builds != 1 {
		t.Fatalf("got %d", builds)
	}
}

func TestDrainLimit(t *testing.T) {
	n := NewNetwork(nil, 10)
	c := n.NewCell("loop", MergeReplace)
	i := 0
	n.Primitive("loop", []*Cell{c}, []*Cell{c}, func() error {
		i++
		return c.Add(i)
	})
	err := n.Drain(context.Background())
	if !errors.Is(err, ErrDrainLimit) {
		t.Fatalf("got %v", err)
	}
}

func TestDrainError(t *testing.T) {
	n := NewNetwork(nil, 0)
	bad := errors.New("bad")
	n.Primitive("bad", nil, nil, func() error {
		return bad
	})
	if err := n.Drain(context.Background()); !errors.Is(err, bad) {
		t.Fatalf("got %v", err)
	}
}

type disposable struct {
	disposed int
}

func (d *disposable) Dispose() {
	d.disposed++
}

func TestCellDisposesContent(t *testing.T) {
	n := NewNetwork(nil, 0)
	d := new(disposable)
	c := n.NewCell("c", MergeReplace)
	c.Add(d)
	c.Dispose()
	c.Dispose()
	if d.disposed != 1 {
		t.Fatalf("got %d", d.disposed)
	}
	if err := c.Add(1); err != nil {
		t.Fatal(err)
	}
	if c.HasValue() {
		t.Fatal()
	}
}

func TestGenericMerge(t *testing.T) {
	n := NewNetwork(nil, 0)
	n.Merges.Define(func(args ...any) (any, error) {
		return args[0].(int) + args[1].(int), nil
	}, isInt, isInt)
	c := n.NewCell("sum", nil)
	c.Add(1)
	c.Add(2)
	if c.Strongest() != 3 {
		t.Fatalf("got %v", c.Strongest())
	}
}

func isInt(v any) bool {
	_, ok := v.(int)
	return ok
}
