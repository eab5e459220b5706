package compiles

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/reusee/cellnet/cells"
	"github.com/reusee/cellnet/closures"
	"github.com/reusee/cellnet/envs"
	"github.com/reusee/cellnet/generics"
	"github.com/reusee/cellnet/hashes"
	"github.com/reusee/cellnet/logs"
	"github.com/reusee/cellnet/reconciles"
	"github.com/reusee/cellnet/sexprs"
	"github.com/reusee/cellnet/unfolds"
	"github.com/reusee/cellnet/versions"
)

// Compiler turns parsed forms into cells and propagators of one network.
type Compiler struct {
	// Output receives what the print primitive writes.
	Output io.Writer
	// NewSpan, when set, starts a logging span for every compile and drain.
	NewSpan logs.NewSpan

	net        *cells.Network
	store      *hashes.Store
	policy     closures.IdentityPolicy
	logger     *slog.Logger
	root       *envs.Env
	unfolder   *unfolds.Unfolder
	reconciler *reconciles.Reconciler
	apply      *generics.Generic

	source   string
	clocks   map[string]uint64
	channels map[channelKey]*channel
	sites    map[siteKey]*callSite
}

// edit is the origin of the form being compiled.
type edit struct {
	source string
	clock  versions.Clock
}

func New(
	net *cells.Network,
	store *hashes.Store,
	policy closures.IdentityPolicy,
	source string,
	logger *slog.Logger,
) *Compiler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Compiler{
		Output:   os.Stdout,
		net:      net,
		store:    store,
		policy:   policy,
		logger:   logger,
		source:   source,
		clocks:   make(map[string]uint64),
		channels: make(map[channelKey]*channel),
		sites:    make(map[siteKey]*callSite),
	}

	c.root = envs.NewRoot(net)
	c.unfolder = unfolds.New(net, store, logger, func(env *envs.Env, expr sexprs.Expr, clock versions.Clock) error {
		_, err := c.compile(env, expr, edit{
			source: c.source,
			clock:  clock,
		})
		return err
	})
	c.reconciler = reconciles.New(c.unfolder, store, policy, logger)
	c.reconciler.Install(net.Merges)
	c.installTemplateMerge(net.Merges)
	c.apply = c.newApply()

	net.Detached(func() {
		for _, prim := range c.primitives() {
			if err := c.root.Define(prim.Name, net.Constant(prim.Name, prim)); err != nil {
				panic(err)
			}
		}
	})

	return c
}

func (c *Compiler) Root() *envs.Env {
	return c.root
}

func (c *Compiler) Network() *cells.Network {
	return c.net
}

func (c *Compiler) Source() string {
	return c.source
}

// Tick returns the next timestamp of source.
func (c *Compiler) Tick(source string) uint64 {
	c.clocks[source]++
	return c.clocks[source]
}

// Result is what a form compiles to: a cell, and for definitions the template written into it.
type Result struct {
	Cell     *cells.Cell
	Template *closures.Template
}

// Value returns the template of a definition, or the current value of the cell.
func (r Result) Value() any {
	if r.Template != nil {
		return r.Template
	}
	if r.Cell == nil {
		return cells.Nothing
	}
	return r.Cell.Value()
}

// Compile compiles expr in env, tagging its constants with (source, timestamp).
// A nil env is the root environment.
func (c *Compiler) Compile(
	ctx context.Context,
	expr sexprs.Expr,
	env *envs.Env,
	source string,
	timestamp uint64,
) (Result, error) {
	return c.CompileVersioned(ctx, expr, env, source, versions.Stamp(source, timestamp))
}

// CompileVersioned is Compile with an explicit clock, for edits that have
// observed the versions of other sources.
func (c *Compiler) CompileVersioned(
	ctx context.Context,
	expr sexprs.Expr,
	env *envs.Env,
	source string,
	clock versions.Clock,
) (Result, error) {
	if env == nil {
		env = c.root
	}
	if source == "" {
		source = c.source
	}
	if n := clock[source]; n > c.clocks[source] {
		c.clocks[source] = n
	}
	if c.NewSpan != nil {
		ctx, _ = c.NewSpan(ctx, source)
	}
	c.logger.DebugContext(ctx, "compile",
		"expr", expr.String(),
		"source", source,
		"clock", clock,
	)
	ret, err := c.compile(env, expr, edit{
		source: source,
		clock:  clock,
	})
	if err != nil {
		return Result{}, logs.WrapSpan(ctx, err)
	}
	return ret, nil
}

// CompileString parses text and compiles every form in the root environment.
// It returns the result of the last form.
func (c *Compiler) CompileString(
	ctx context.Context,
	text string,
	source string,
	timestamp uint64,
) (ret Result, err error) {
	if source == "" {
		source = c.source
	}
	exprs, err := sexprs.ParseString(source, text)
	if err != nil {
		return Result{}, err
	}
	for _, expr := range exprs {
		ret, err = c.Compile(ctx, expr, nil, source, timestamp)
		if err != nil {
			return Result{}, err
		}
	}
	return ret, nil
}

// Drain runs pending activations.
func (c *Compiler) Drain(ctx context.Context) error {
	if c.NewSpan != nil {
		ctx, _ = c.NewSpan(ctx, "drain")
	}
	if err := c.net.Drain(ctx); err != nil {
		return logs.WrapSpan(ctx, err)
	}
	return nil
}

// Cell returns the cell bound to name in the root environment.
func (c *Compiler) Cell(name string) (*cells.Cell, error) {
	cell, _, err := c.root.Resolve(name)
	if err != nil {
		return nil, err
	}
	if cell == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnbound, name)
	}
	return cell, nil
}

// Read returns the current value bound to name in the root environment.
func (c *Compiler) Read(name string) (any, error) {
	cell, err := c.Cell(name)
	if err != nil {
		return nil, err
	}
	return cell.Value(), nil
}

type Stats struct {
	Network     cells.Stats
	Reconciler  reconciles.Stats
	Instances   int
	Lookups     int
	Channels    int
	Sites       int
	HashEntries int
}

func (c *Compiler) Stats() Stats {
	return Stats{
		Network:     c.net.Stats(),
		Reconciler:  c.reconciler.Stats(),
		Instances:   c.unfolder.Live(),
		Lookups:     c.root.Lookups().Len(),
		Channels:    len(c.channels),
		Sites:       len(c.sites),
		HashEntries: c.store.Len(),
	}
}
