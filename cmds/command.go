package cmds

import (
	"fmt"
	"reflect"
)

// Command is a named action on the command line. Its arguments are the
// words following the name, converted to the parameter types of Func.
type Command struct {
	Func        reflect.Value
	Description string
	Aliases     []string
}

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

func Func(fn any) *Command {
	fnValue := reflect.ValueOf(fn)

	if fnValue.Kind() != reflect.Func {
		panic(fmt.Errorf("must be function, got %T", fn))
	}

	typ := fnValue.Type()
	switch {
	case typ.NumOut() > 1:
		panic(fmt.Errorf("must return 0 or 1 value"))
	case typ.NumOut() == 1 && typ.Out(0) != errorType:
		panic(fmt.Errorf("must return error"))
	}

	return &Command{
		Func: fnValue,
	}
}
