package compiles

import (
	"fmt"

	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/closures"
	"github.com/reusee/cellnet/envs"
	"github.com/reusee/cellnet/sexprs"
	"github.com/reusee/cellnet/versions"
)

const (
	formOutput  = "->"
	formNetwork = "network"
	formInputs  = ">::"
	formOutputs = "::>"
)

func (c *Compiler) compile(env *envs.Env, expr sexprs.Expr, e edit) (Result, error) {
	switch expr := expr.(type) {

	case sexprs.Number, sexprs.String, sexprs.Bool:
		return Result{
			Cell: c.constant(expr, e),
		}, nil

	case sexprs.Symbol:
		cell, err := env.Lookup(expr.Name)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Cell: cell,
		}, nil

	case sexprs.List:
		head, _ := expr.Head()
		switch head {
		case formOutput:
			return c.compileOutput(env, expr, e)
		case formNetwork:
			return c.compileNetwork(env, expr, e)
		case formInputs:
			return c.compileWrite(env, expr, e)
		}
		if len(expr.Elems) == 0 {
			return Result{}, syntaxError(expr, "empty application")
		}
		return c.compileApplication(env, expr, e)

	}
	return Result{}, syntaxError(expr, fmt.Sprintf("unexpected %T", expr))
}

func syntaxError(expr sexprs.Expr, msg string) error {
	return sexprs.WithPos(fmt.Errorf("%w: %s: %s", ErrSyntax, msg, expr), expr.Position())
}

// constant tags a literal with the version of the edit that produced it.
func (c *Compiler) constant(expr sexprs.Expr, e edit) *cells.Cell {
	var value any
	switch expr := expr.(type) {
	case sexprs.Number:
		switch v := expr.Value.(type) {
		case int64:
			value = int(v)
		default:
			value = v
		}
	case sexprs.String:
		value = expr.Value
	case sexprs.Bool:
		value = expr.Value
	}
	return c.net.Constant(expr.String(), versions.Versioned{
		Value: value,
		Clock: e.clock,
	})
}

// compileOutput handles (-> X). A bare symbol is bound to a fresh cell.
func (c *Compiler) compileOutput(env *envs.Env, list sexprs.List, e edit) (Result, error) {
	if len(list.Elems) != 2 {
		return Result{}, syntaxError(list, "output position takes one operand")
	}
	sym, ok := list.Elems[1].(sexprs.Symbol)
	if !ok {
		return c.compile(env, list.Elems[1], e)
	}
	cell := c.net.NewCell(sym.Name, nil)
	if err := env.Define(sym.Name, cell); err != nil {
		return Result{}, err
	}
	return Result{
		Cell: cell,
	}, nil
}

// compileNetwork handles (network name (>:: inputs...) (::> outputs...) body...).
// The versioned template is written into name's binding in env; every call
// site referencing name observes the write.
func (c *Compiler) compileNetwork(env *envs.Env, list sexprs.List, e edit) (Result, error) {
	if len(list.Elems) < 4 {
		return Result{}, syntaxError(list, "network takes a name, inputs and outputs")
	}
	name, ok := list.Elems[1].(sexprs.Symbol)
	if !ok {
		return Result{}, syntaxError(list.Elems[1], "network name must be a symbol")
	}
	inputs, err := formals(list.Elems[2], formInputs)
	if err != nil {
		return Result{}, err
	}
	outputs, err := formals(list.Elems[3], formOutputs)
	if err != nil {
		return Result{}, err
	}

	tmpl := closures.New(env, name.Name, inputs, outputs, list.Elems[4:])

	cell, ok, err := env.Local(name.Name)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		cell = c.net.NewCell(name.Name, nil)
		if err := env.Define(name.Name, cell); err != nil {
			return Result{}, err
		}
	}
	if err := cell.Add(versions.Versioned{
		Value: tmpl,
		Clock: e.clock,
	}); err != nil {
		return Result{}, err
	}
	c.logger.Debug("define",
		"closure", name.Name,
		"clock", e.clock,
	)

	return Result{
		Cell:     cell,
		Template: tmpl,
	}, nil
}

func formals(expr sexprs.Expr, marker string) ([]string, error) {
	list, ok := expr.(sexprs.List)
	if !ok {
		return nil, syntaxError(expr, "expecting ("+marker+" ...)")
	}
	if head, _ := list.Head(); head != marker {
		return nil, syntaxError(expr, "expecting ("+marker+" ...)")
	}
	names := make([]string, 0, len(list.Elems)-1)
	seen := make(map[string]bool)
	for _, elem := range list.Elems[1:] {
		sym, ok := elem.(sexprs.Symbol)
		if !ok {
			return nil, syntaxError(elem, "formal must be a symbol")
		}
		if seen[sym.Name] {
			return nil, syntaxError(elem, "duplicated formal "+sym.Name)
		}
		seen[sym.Name] = true
		names = append(names, sym.Name)
	}
	return names, nil
}

// target resolves a symbol to the cell it is bound to, binding a fresh cell
// in env when it is unbound. Other expressions compile normally.
func (c *Compiler) target(env *envs.Env, expr sexprs.Expr, e edit) (*cells.Cell, error) {
	sym, ok := expr.(sexprs.Symbol)
	if !ok || sym.Name == envs.SelfKey {
		ret, err := c.compile(env, expr, e)
		if err != nil {
			return nil, err
		}
		return ret.Cell, nil
	}
	cell, _, err := env.Resolve(sym.Name)
	if err != nil {
		return nil, err
	}
	if cell != nil {
		return cell, nil
	}
	cell = c.net.NewCell(sym.Name, nil)
	if err := env.Define(sym.Name, cell); err != nil {
		return nil, err
	}
	return cell, nil
}
