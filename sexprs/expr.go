package sexprs

import (
	"strconv"
	"strings"
)

// Expr is one node of the element tree.
type Expr interface {
	Position() Pos
	// Canonical renders the node without positions, for structural hashing.
	Canonical() any
	String() string
	sealed()
}

type Symbol struct {
	Name string
	Pos  Pos
}

type Number struct {
	// int64 or float64
	Value any
	Pos   Pos
}

type String struct {
	Value string
	Pos   Pos
}

type Bool struct {
	Value bool
	Pos   Pos
}

type List struct {
	Elems []Expr
	Pos   Pos
}

var (
	_ Expr = Symbol{}
	_ Expr = Number{}
	_ Expr = String{}
	_ Expr = Bool{}
	_ Expr = List{}
)

func (s Symbol) Position() Pos { return s.Pos }
func (n Number) Position() Pos { return n.Pos }
func (s String) Position() Pos { return s.Pos }
func (b Bool) Position() Pos   { return b.Pos }
func (l List) Position() Pos   { return l.Pos }

func (Symbol) sealed() {}
func (Number) sealed() {}
func (String) sealed() {}
func (Bool) sealed()   {}
func (List) sealed()   {}

func (s Symbol) Canonical() any {
	return map[string]any{"sym": s.Name}
}

func (n Number) Canonical() any {
	return n.Value
}

func (s String) Canonical() any {
	return map[string]any{"str": s.Value}
}

func (b Bool) Canonical() any {
	return b.Value
}

func (l List) Canonical() any {
	ret := make([]any, 0, len(l.Elems))
	for _, elem := range l.Elems {
		ret = append(ret, elem.Canonical())
	}
	return ret
}

func (s Symbol) String() string {
	return s.Name
}

func (n Number) String() string {
	switch v := n.Value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "?"
}

func (s String) String() string {
	return strconv.Quote(s.Value)
}

func (b Bool) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

func (l List) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, elem := range l.Elems {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(elem.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Head returns the operator symbol name of a list form.
func (l List) Head() (string, bool) {
	if len(l.Elems) == 0 {
		return "", false
	}
	sym, ok := l.Elems[0].(Symbol)
	if !ok {
		return "", false
	}
	return sym.Name, true
}

// IsSelfEvaluating reports whether expr compiles to a constant.
func IsSelfEvaluating(expr Expr) bool {
	switch expr.(type) {
	case Number, String, Bool:
		return true
	}
	return false
}
