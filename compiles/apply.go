package compiles

import (
	"fmt"

	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/closures"
	"github.com/reusee/cellnet/envs"
	"github.com/reusee/cellnet/generics"
	"github.com/reusee/cellnet/hashes"
	"github.com/reusee/cellnet/reconciles"
	"github.com/reusee/cellnet/sexprs"
	"github.com/reusee/cellnet/versions"
)

// operand is one argument of a call site: the cell reads go through and
// the cell writes go to. They differ for symbols, which are read through the
// lexical accessor and written into the bound cell.
type operand struct {
	read  *cells.Cell
	write *cells.Cell
}

// siteKey identifies a call site: the same form compiled in the same
// environment is the same running computation.
type siteKey struct {
	env  uint64
	form hashes.Hash
}

type callSite struct {
	compiler   *Compiler
	name       string
	env        *envs.Env
	operator   *cells.Cell
	operands   []operand
	propagator *cells.Propagator
	result     Result

	// reconciler state, while the operator is a closure
	state *cells.Cell
	// installed primitive and the group holding its propagators
	primitive *closures.Primitive
	group     *cells.Group
}

func (c *Compiler) compileApplication(env *envs.Env, list sexprs.List, e edit) (Result, error) {
	key := siteKey{
		env:  env.ID,
		form: hashes.Of(list),
	}
	if site, ok := c.sites[key]; ok && !site.propagator.Disposed() {
		c.logger.Debug("call site reused", "site", site.name)
		return site.result, nil
	}

	op, err := c.compile(env, list.Elems[0], e)
	if err != nil {
		return Result{}, err
	}
	site := &callSite{
		compiler: c,
		name:     list.Elems[0].String(),
		env:      env,
		operator: op.Cell,
	}

	for _, expr := range list.Elems[1:] {
		var o operand
		switch expr := expr.(type) {
		case sexprs.Symbol:
			o.write, err = c.target(env, expr, e)
			if err != nil {
				return Result{}, err
			}
			o.read, err = env.Lookup(expr.Name)
			if err != nil {
				return Result{}, err
			}
		default:
			ret, err := c.compile(env, expr, e)
			if err != nil {
				return Result{}, err
			}
			o.read = ret.Cell
			o.write = ret.Cell
		}
		site.operands = append(site.operands, o)
	}

	inputs := []*cells.Cell{op.Cell}
	var outputs []*cells.Cell
	for _, o := range site.operands {
		inputs = append(inputs, o.read)
		outputs = append(outputs, o.write)
	}
	site.propagator = c.net.Primitive("apply:"+site.name, inputs, outputs, site.activate)

	site.result = Result{
		Cell: op.Cell,
	}
	if len(site.operands) > 0 {
		site.result.Cell = site.operands[len(site.operands)-1].write
	}
	c.sites[key] = site
	env.OnDispose(func() {
		if c.sites[key] == site {
			delete(c.sites, key)
		}
	})
	return site.result, nil
}

func (s *callSite) activate() error {
	v := s.operator.Strongest()
	if cells.IsNothing(v) {
		return nil
	}
	_, err := s.compiler.apply.Call(v, s)
	return err
}

func (s *callSite) reads(from, to int) []*cells.Cell {
	ret := make([]*cells.Cell, 0, to-from)
	for _, o := range s.operands[from:to] {
		ret = append(ret, o.read)
	}
	return ret
}

func (s *callSite) writes(from, to int) []*cells.Cell {
	ret := make([]*cells.Cell, 0, to-from)
	for _, o := range s.operands[from:to] {
		ret = append(ret, o.write)
	}
	return ret
}

func isCallable(v any) bool {
	return closures.IsClosure(v) || closures.IsPrimitive(v)
}

// isClosureFork reports a contradiction whose every member is a closure.
func isClosureFork(v any) bool {
	v, _ = versions.Unwrap(v)
	c, ok := v.(*cells.Contradiction)
	if !ok || len(c.Values) == 0 {
		return false
	}
	for _, member := range c.Values {
		if !closures.IsClosure(member) {
			return false
		}
	}
	return true
}

// newApply builds the operation routing an operator value to closure or
// primitive application.
func (c *Compiler) newApply() *generics.Generic {
	g := generics.New("apply", func(args ...any) (any, error) {
		v, site := args[0], args[1].(*callSite)
		if cells.IsContradiction(v) {
			c.logger.Warn("contradicting operator", "site", site.name, "value", v)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s is %v", ErrNotCallable, site.name, v)
	})
	g.Define(func(args ...any) (any, error) {
		callable, clock, _ := closures.AsCallable(args[0])
		return nil, args[1].(*callSite).invoke(callable, clock)
	}, isCallable, generics.Any)
	g.Define(func(args ...any) (any, error) {
		v, _ := versions.Unwrap(args[0])
		return nil, args[1].(*callSite).fork(v.(*cells.Contradiction))
	}, isClosureFork, generics.Any)
	return g
}

func (s *callSite) invoke(callable closures.Callable, clock versions.Clock) error {
	switch fn := callable.(type) {
	case *closures.Template:
		app, err := s.application(fn, clock)
		if err != nil {
			return err
		}
		return s.deliver(app)
	case *closures.Primitive:
		return s.installPrimitive(fn)
	}
	return fmt.Errorf("%w: %T", ErrNotCallable, callable)
}

func (s *callSite) application(tmpl *closures.Template, clock versions.Clock) (*reconciles.Application, error) {
	n := min(len(tmpl.Inputs), len(s.operands))
	if err := tmpl.CheckArity(n, len(s.operands)-n); err != nil {
		return nil, err
	}
	return &reconciles.Application{
		Template:  tmpl,
		Clock:     clock,
		Inputs:    s.reads(0, n),
		Outputs:   s.writes(n, len(s.operands)),
		ParentEnv: s.env,
	}, nil
}

// fork delivers templates whose versions could not be ordered.
func (s *callSite) fork(c *cells.Contradiction) error {
	fork := new(reconciles.Fork)
	for _, member := range c.Members() {
		app, err := s.application(member.Value.(*closures.Template), member.Clock)
		if err != nil {
			return err
		}
		fork.Applications = append(fork.Applications, app)
	}
	return s.deliver(fork)
}

// deliver hands the application to the reconciler through the call site cell.
func (s *callSite) deliver(v any) error {
	if s.primitive != nil {
		s.group.Dispose()
		s.primitive = nil
		s.group = nil
	}
	if s.state == nil {
		s.state = s.compiler.net.NewCell("site:"+s.name, nil)
	}
	return s.state.Add(v)
}

// installPrimitive expands, once per operator value, into a propagator computing the primitive.
func (s *callSite) installPrimitive(prim *closures.Primitive) error {
	if err := prim.CheckArity(len(s.operands)); err != nil {
		return err
	}
	if s.primitive == prim {
		return nil
	}
	if s.state != nil {
		s.state.Dispose()
		s.state = nil
	}
	if s.group != nil {
		s.group.Dispose()
	}

	c := s.compiler
	n := len(s.operands) - 1
	inputs := s.reads(0, n)
	output := s.operands[n].write
	s.primitive = prim
	s.group = c.net.NewGroup("primitive:" + prim.Name)
	c.net.Within(s.group, func() {
		c.net.Compound(prim.Name, inputs, []*cells.Cell{output}, func() error {
			c.net.Primitive(prim.Name, inputs, []*cells.Cell{output}, func() error {
				return c.runPrimitive(prim, inputs, output)
			})
			return nil
		})
	})
	return nil
}

func (c *Compiler) runPrimitive(prim *closures.Primitive, inputs []*cells.Cell, output *cells.Cell) error {
	values, ok := cells.Reads(inputs)
	if !ok {
		return nil
	}
	args := make([]any, len(values))
	var clock versions.Clock
	for i, v := range values {
		value, vclock := versions.Unwrap(v)
		if contradiction, ok := value.(*cells.Contradiction); ok {
			// contradictions flow on as values
			return output.Add(contradiction)
		}
		args[i] = value
		clock = clock.Join(vclock)
	}
	result, err := prim.Apply(args)
	if err != nil {
		c.logger.Warn("primitive failed",
			"primitive", prim.Name,
			"args", args,
			"error", err,
		)
		return nil
	}
	if cells.IsNothing(result) {
		return nil
	}
	return output.Add(versions.Versioned{
		Value: result,
		Clock: clock,
	})
}
