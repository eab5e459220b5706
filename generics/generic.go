package generics

import (
	"errors"
	"fmt"
)

var ErrNoHandler = errors.New("no applicable handler")

type Predicate func(arg any) bool

type Handler func(args ...any) (any, error)

type rule struct {
	predicates []Predicate
	handler    Handler
}

// Generic is a named operation whose handler is picked by predicates over
// its arguments. Later definitions take precedence over earlier ones.
type Generic struct {
	Name     string
	rules    []rule
	fallback Handler
}

func New(name string, fallback Handler) *Generic {
	return &Generic{
		Name:     name,
		fallback: fallback,
	}
}

func (g *Generic) Define(handler Handler, predicates ...Predicate) {
	g.rules = append(g.rules, rule{
		predicates: predicates,
		handler:    handler,
	})
}

func (g *Generic) Lookup(args ...any) (Handler, bool) {
loop:
	for i := len(g.rules) - 1; i >= 0; i-- {
		r := g.rules[i]
		if len(r.predicates) != len(args) {
			continue
		}
		for j, pred := range r.predicates {
			if !pred(args[j]) {
				continue loop
			}
		}
		return r.handler, true
	}
	if g.fallback != nil {
		return g.fallback, true
	}
	return nil, false
}

func (g *Generic) Call(args ...any) (any, error) {
	handler, ok := g.Lookup(args...)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %v", g.Name, ErrNoHandler, args)
	}
	return handler(args...)
}

func Any(any) bool {
	return true
}

func Is[T any](arg any) bool {
	_, ok := arg.(T)
	return ok
}
