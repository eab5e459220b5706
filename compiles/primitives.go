package compiles

import (
	"errors"
	"fmt"

	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/closures"
)

var errDivideByZero = errors.New("divide by zero")

func (c *Compiler) primitives() []*closures.Primitive {
	return []*closures.Primitive{
		arith("+", 1, func(a, b int) int { return a + b }, func(a, b float64) float64 { return a + b }),
		arith("-", 1, func(a, b int) int { return a - b }, func(a, b float64) float64 { return a - b }),
		arith("*", 1, func(a, b int) int { return a * b }, func(a, b float64) float64 { return a * b }),
		{
			Name:      "/",
			Inputs:    -1,
			MinInputs: 2,
			Apply: func(args []any) (any, error) {
				for _, arg := range args[1:] {
					if f, ok := toFloat(arg); ok && f == 0 {
						return nil, errDivideByZero
					}
				}
				return fold(args, func(a, b int) int { return a / b }, func(a, b float64) float64 { return a / b })
			},
		},
		compare("=", func(a, b float64) bool { return a == b }),
		compare("<", func(a, b float64) bool { return a < b }),
		compare(">", func(a, b float64) bool { return a > b }),
		{
			Name:   "id",
			Inputs: 1,
			Apply: func(args []any) (any, error) {
				return args[0], nil
			},
		},
		{
			Name:   "print",
			Inputs: 1,
			Apply: func(args []any) (any, error) {
				if _, err := fmt.Fprintln(c.Output, args[0]); err != nil {
					return nil, err
				}
				return args[0], nil
			},
		},
	}
}

func arith(name string, minInputs int, ints func(a, b int) int, floats func(a, b float64) float64) *closures.Primitive {
	return &closures.Primitive{
		Name:      name,
		Inputs:    -1,
		MinInputs: minInputs,
		Apply: func(args []any) (any, error) {
			if len(args) == 1 && name == "-" {
				return fold([]any{0, args[0]}, ints, floats)
			}
			return fold(args, ints, floats)
		},
	}
}

// fold applies the operation left to right, in floats once any argument is a float.
func fold(args []any, ints func(a, b int) int, floats func(a, b float64) float64) (any, error) {
	allInts := true
	for _, arg := range args {
		switch arg.(type) {
		case int:
		case float64:
			allInts = false
		default:
			return nil, fmt.Errorf("not a number: %v", arg)
		}
	}
	if allInts {
		acc := args[0].(int)
		for _, arg := range args[1:] {
			acc = ints(acc, arg.(int))
		}
		return acc, nil
	}
	acc, _ := toFloat(args[0])
	for _, arg := range args[1:] {
		f, _ := toFloat(arg)
		acc = floats(acc, f)
	}
	return acc, nil
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func compare(name string, fn func(a, b float64) bool) *closures.Primitive {
	return &closures.Primitive{
		Name:   name,
		Inputs: 2,
		Apply: func(args []any) (any, error) {
			if name == "=" {
				if _, ok := toFloat(args[0]); !ok {
					return cells.Equal(args[0], args[1]), nil
				}
			}
			a, ok := toFloat(args[0])
			if !ok {
				return nil, fmt.Errorf("not a number: %v", args[0])
			}
			b, ok := toFloat(args[1])
			if !ok {
				return nil, fmt.Errorf("not a number: %v", args[1])
			}
			return fn(a, b), nil
		},
	}
}
