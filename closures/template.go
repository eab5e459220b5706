package closures

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reusee/cellnet/envs"
	"github.com/reusee/cellnet/sexprs"
	"github.com/reusee/cellnet/versions"
)

var ErrArity = errors.New("arity mismatch")

// Template is a closure value: formal input and output names, a body, and
// the environment it was defined in. Templates are immutable once built.
type Template struct {
	Env     *envs.Env
	Name    string
	Inputs  []string
	Outputs []string
	Body    []sexprs.Expr
}

func New(env *envs.Env, name string, inputs, outputs []string, body []sexprs.Expr) *Template {
	return &Template{
		Env:     env,
		Name:    name,
		Inputs:  append([]string{}, inputs...),
		Outputs: append([]string{}, outputs...),
		Body:    append([]sexprs.Expr{}, body...),
	}
}

// FromSource parses body and builds a template from it.
func FromSource(env *envs.Env, name string, inputs, outputs []string, body string) (*Template, error) {
	exprs, err := sexprs.ParseString(name, body)
	if err != nil {
		return nil, err
	}
	return New(env, name, inputs, outputs, exprs), nil
}

// Canonical renders the formals and body. The name and environment are
// left out, so structurally equal closures hash equal.
func (t *Template) Canonical() any {
	body := make([]any, 0, len(t.Body))
	for _, expr := range t.Body {
		body = append(body, expr.Canonical())
	}
	return map[string]any{
		"inputs":  toAnys(t.Inputs),
		"outputs": toAnys(t.Outputs),
		"body":    body,
	}
}

func toAnys(strs []string) []any {
	ret := make([]any, len(strs))
	for i, s := range strs {
		ret[i] = s
	}
	return ret
}

// CheckArity validates the operand counts of a call site.
func (t *Template) CheckArity(inputs, outputs int) error {
	if inputs != len(t.Inputs) || outputs != len(t.Outputs) {
		return fmt.Errorf("%w: %s takes %d inputs and %d outputs, got %d and %d",
			ErrArity, t.Name, len(t.Inputs), len(t.Outputs), inputs, outputs)
	}
	return nil
}

// Arity is the number of operands a call site passes.
func (t *Template) Arity() int {
	return len(t.Inputs) + len(t.Outputs)
}

func (t *Template) String() string {
	return fmt.Sprintf("#<closure %s (%s) (%s)>",
		t.Name,
		strings.Join(t.Inputs, " "),
		strings.Join(t.Outputs, " "),
	)
}

// IsClosure reports whether v, possibly versioned, is a complete template.
func IsClosure(v any) bool {
	v, _ = versions.Unwrap(v)
	t, ok := v.(*Template)
	return ok &&
		t != nil &&
		t.Env != nil &&
		t.Name != "" &&
		t.Inputs != nil &&
		t.Outputs != nil &&
		t.Body != nil
}
