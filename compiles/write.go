package compiles

import (
	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/envs"
	"github.com/reusee/cellnet/sexprs"
)

type channelKey struct {
	source string
	cell   uint64
}

// channel is the standing link from one source to one cell. Writes from the
// source merge in port before reaching the cell. Only the latest write form
// of the source stays installed, in writer.
type channel struct {
	port    *cells.Cell
	forward *cells.Propagator
	writer  *cells.Group
}

// compileWrite handles (>:: cell value).
func (c *Compiler) compileWrite(env *envs.Env, list sexprs.List, e edit) (Result, error) {
	if len(list.Elems) != 3 {
		return Result{}, syntaxError(list, "write takes a cell and a value")
	}
	target, err := c.target(env, list.Elems[1], e)
	if err != nil {
		return Result{}, err
	}
	ch := c.channel(e.source, target)
	ch.writer.Dispose()
	ch.writer = c.net.NewGroup(">::" + e.source)
	c.net.Within(ch.writer, func() {
		var value Result
		value, err = c.compile(env, list.Elems[2], e)
		if err != nil {
			return
		}
		c.net.Primitive(">::", []*cells.Cell{value.Cell}, []*cells.Cell{ch.port}, func() error {
			v := value.Cell.Strongest()
			if cells.IsNothing(v) {
				return nil
			}
			return ch.port.Add(v)
		})
	})
	if err != nil {
		ch.writer.Dispose()
		return Result{}, err
	}
	return Result{
		Cell: target,
	}, nil
}

// channel returns the link from source to target, creating it on first use.
func (c *Compiler) channel(source string, target *cells.Cell) *channel {
	key := channelKey{
		source: source,
		cell:   target.ID,
	}
	if ch, ok := c.channels[key]; ok && !ch.forward.Disposed() {
		return ch
	}
	ch := new(channel)
	c.net.Detached(func() {
		ch.port = c.net.NewCell(">::"+source, nil)
		ch.forward = c.net.Primitive("channel:"+source, []*cells.Cell{ch.port}, []*cells.Cell{target}, func() error {
			if target.Disposed() {
				ch.writer.Dispose()
				ch.port.Dispose()
				ch.forward.Dispose()
				delete(c.channels, key)
				return nil
			}
			v := ch.port.Strongest()
			if cells.IsNothing(v) {
				return nil
			}
			return target.Add(v)
		})
	})
	c.channels[key] = ch
	c.logger.Debug("channel",
		"source", source,
		"cell", target.Name,
	)
	return ch
}
