package closures

import (
	"errors"
	"testing"

	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/envs"
	"github.com/reusee/cellnet/hashes"
	"github.com/reusee/cellnet/versions"
)

func TestFromSource(t *testing.T) {
	tmpl, err := FromSource(nil, "add1", []string{"x"}, []string{"y"}, "(+ x 1 y)")
	if err != nil {
		t.Fatal(err)
	}
	if len(tmpl.Body) != 1 {
		t.Fatalf("got %v", tmpl.Body)
	}
	if tmpl.Body[0].String() != "(+ x 1 y)" {
		t.Fatalf("got %v", tmpl.Body[0])
	}
	if tmpl.Arity() != 2 {
		t.Fatalf("got %d", tmpl.Arity())
	}
	if tmpl.String() != "#<closure add1 (x) (y)>" {
		t.Fatalf("got %s", tmpl)
	}

	if _, err := FromSource(nil, "bad", nil, nil, "(+ x"); err == nil {
		t.Fatal("should fail")
	}
}

func TestStructuralIdentity(t *testing.T) {
	store := hashes.NewStore()
	net := cells.NewNetwork(nil, 0)
	root := envs.NewRoot(net)
	child := root.Extend("child")

	a, err := FromSource(root, "a", []string{"x"}, []string{"y"}, "(+ x 1 y)")
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromSource(child, "b", []string{"x"}, []string{"y"}, "  (+ x\n1 y) ")
	if err != nil {
		t.Fatal(err)
	}
	c, err := FromSource(root, "a", []string{"x"}, []string{"y"}, "(+ x 2 y)")
	if err != nil {
		t.Fatal(err)
	}

	if IdentityStructural.TemplateHash(store, a) != IdentityStructural.TemplateHash(store, b) {
		t.Fatal("should ignore name, env and positions")
	}
	if IdentityStructural.TemplateHash(store, a) == IdentityStructural.TemplateHash(store, c) {
		t.Fatal("should differ by body")
	}
	if IdentityNamed.TemplateHash(store, a) == IdentityNamed.TemplateHash(store, b) {
		t.Fatal("should differ by name and env")
	}

	d := New(root, "a", []string{"z"}, []string{"y"}, a.Body)
	if IdentityStructural.TemplateHash(store, a) == IdentityStructural.TemplateHash(store, d) {
		t.Fatal("should differ by formals")
	}
}

func TestIdentify(t *testing.T) {
	store := hashes.NewStore()
	net := cells.NewNetwork(nil, 0)
	tmpl, err := FromSource(nil, "f", []string{"x"}, []string{"y"}, "(+ x 1 y)")
	if err != nil {
		t.Fatal(err)
	}
	in := net.NewCell("in", nil)
	out := net.NewCell("out", nil)
	other := net.NewCell("other", nil)

	a := IdentityStructural.Identify(store, tmpl, []*cells.Cell{in}, []*cells.Cell{out})
	b := IdentityStructural.Identify(store, tmpl, []*cells.Cell{in}, []*cells.Cell{out})
	if a != b {
		t.Fatal("should equal")
	}
	c := IdentityStructural.Identify(store, tmpl, []*cells.Cell{in}, []*cells.Cell{other})
	if a == c {
		t.Fatal("should differ by output cells")
	}
	if !hashes.Registered(store, tmpl) {
		t.Fatal("template should be registered")
	}
}

func TestArity(t *testing.T) {
	tmpl := New(nil, "f", []string{"a", "b"}, []string{"c"}, nil)
	if err := tmpl.CheckArity(2, 1); err != nil {
		t.Fatal(err)
	}
	if err := tmpl.CheckArity(1, 1); !errors.Is(err, ErrArity) {
		t.Fatalf("got %v", err)
	}

	plus := &Primitive{
		Name:      "+",
		Inputs:    -1,
		MinInputs: 1,
	}
	if err := plus.CheckArity(3); err != nil {
		t.Fatal(err)
	}
	if err := plus.CheckArity(1); !errors.Is(err, ErrArity) {
		t.Fatalf("got %v", err)
	}
	not := &Primitive{
		Name:   "not",
		Inputs: 1,
	}
	if err := not.CheckArity(3); !errors.Is(err, ErrArity) {
		t.Fatalf("got %v", err)
	}
}

func TestPredicates(t *testing.T) {
	net := cells.NewNetwork(nil, 0)
	root := envs.NewRoot(net)
	tmpl := New(root, "f", nil, nil, nil)
	prim := &Primitive{
		Name: "p",
		Apply: func(args []any) (any, error) {
			return nil, nil
		},
	}
	if !IsClosure(tmpl) || IsClosure(prim) || IsClosure(42) {
		t.Fatal("bad IsClosure")
	}
	if !IsClosure(versions.Tag(tmpl, "editor", 1)) {
		t.Fatal("versioned template is a closure")
	}
	if IsClosure(New(nil, "f", nil, nil, nil)) {
		t.Fatal("template without env")
	}
	if IsClosure(&Template{Env: root, Name: "f"}) {
		t.Fatal("template without formals")
	}
	if !IsPrimitive(prim) || IsPrimitive(tmpl) {
		t.Fatal("bad IsPrimitive")
	}
	if _, _, ok := AsCallable("foo"); ok {
		t.Fatal("string is not callable")
	}
	c, clock, ok := AsCallable(versions.Tag(tmpl, "editor", 3))
	if !ok || c != Callable(tmpl) || clock["editor"] != 3 {
		t.Fatal("template is callable")
	}
}

func TestParseIdentityPolicy(t *testing.T) {
	p, err := ParseIdentityPolicy("named")
	if err != nil {
		t.Fatal(err)
	}
	if p != IdentityNamed {
		t.Fatalf("got %v", p)
	}
	if _, err := ParseIdentityPolicy("foo"); err == nil {
		t.Fatal("should fail")
	}
}
