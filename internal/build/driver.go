package build

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/wncli/wn/internal/transform"
)

// Driver compiles the modules of a dependency graph, each one after all of
// the modules it imports.
type Driver struct {
	parser      Parser
	transformer Transformer
	sink        Sink
	styles      StyleSource
}

// Option configures a Driver.
type Option func(*Driver)

// WithSink delivers every assembled output to s.
func WithSink(s Sink) Option {
	return func(d *Driver) { d.sink = s }
}

// WithStyleSource reads sibling stylesheets from s.
func WithStyleSource(s StyleSource) Option {
	return func(d *Driver) { d.styles = s }
}

// NewDriver creates a Driver.
func NewDriver(p Parser, t Transformer, opts ...Option) *Driver {
	d := &Driver{parser: p, transformer: t}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run compiles entry and everything it depends on.
//
// Missing graph entries and dependency cycles abort the build and are
// returned as errors. Failures local to one module are recorded in
// Result.Failed; modules importing a failed module are still compiled,
// without its output.
func (d *Driver) Run(ctx context.Context, g *Graph, entry string) (*Result, error) {
	w := d.newWalk(ctx, g)
	if err := w.compile(entry, ""); err != nil {
		return w.result, err
	}
	return w.result, nil
}

// RunAll compiles every module of the graph in id order.
func (d *Driver) RunAll(ctx context.Context, g *Graph) (*Result, error) {
	w := d.newWalk(ctx, g)
	for _, id := range g.IDs() {
		if err := w.compile(id, ""); err != nil {
			return w.result, err
		}
	}
	return w.result, nil
}

// walk is the state of one driver run.
type walk struct {
	*Driver
	ctx    context.Context
	logger *log.Logger
	graph  *Graph
	result *Result

	// stack holds the ids currently being compiled, outermost first.
	stack []string
}

func (d *Driver) newWalk(ctx context.Context, g *Graph) *walk {
	return &walk{
		Driver: d,
		ctx:    ctx,
		logger: log.FromContext(ctx),
		graph:  g,
		result: newResult(),
	}
}

func (w *walk) done(id string) bool {
	if _, ok := w.result.Outputs[id]; ok {
		return true
	}
	_, ok := w.result.Failed[id]
	return ok
}

func (w *walk) compile(id, referrer string) error {
	if w.done(id) {
		return nil
	}
	for i, open := range w.stack {
		if open == id {
			path := append(append([]string(nil), w.stack[i:]...), id)
			return &CycleError{Path: path}
		}
	}
	mod, ok := w.graph.Modules[id]
	if !ok {
		return &MissingModuleError{ID: id, Referrer: referrer}
	}
	if err := w.ctx.Err(); err != nil {
		return err
	}

	w.stack = append(w.stack, id)
	for _, dep := range mod.Depended {
		if err := w.compile(dep, id); err != nil {
			return err
		}
	}
	w.stack = w.stack[:len(w.stack)-1]

	out, err := w.assemble(id, mod)
	if err != nil {
		w.logger.Error("module failed", "module", id, "err", err)
		w.result.Failed[id] = &ModuleError{ID: id, Cause: err}
		return nil
	}
	w.result.Outputs[id] = out
	w.result.Order = append(w.result.Order, id)
	return nil
}

// assemble parses, transforms and delivers one module whose dependencies
// are all settled.
func (w *walk) assemble(id string, mod Module) (*transform.Output, error) {
	prog, err := w.parser.Parse(id, mod.Code)
	if err != nil {
		return nil, err
	}

	deps := make(map[string]*transform.Output, len(mod.Depended))
	for _, dep := range mod.Depended {
		if out, ok := w.result.Outputs[dep]; ok {
			deps[dep] = out
		}
	}
	in := transform.Input{
		ID:           id,
		Program:      prog,
		Deps:         deps,
		ReferencedBy: w.graph.Referenced[id],
		SourceRoot:   ".",
	}
	if w.styles != nil {
		if css, ok := w.styles.Stylesheet(id); ok {
			in.Stylesheet = css
		}
	}

	out, err := w.transformer.Transform(in)
	if err != nil {
		return nil, err
	}
	for _, warning := range out.Warnings {
		w.logger.Warn(warning.Message, "module", id, "subject", warning.Subject)
	}
	w.logger.Debug("compiled module", "module", id, "role", out.Role)

	if w.sink != nil {
		if err := w.sink.Write(w.ctx, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// IsFatal reports whether err aborts a whole build rather than one module.
func IsFatal(err error) bool {
	var cycle *CycleError
	var missing *MissingModuleError
	return errors.As(err, &cycle) || errors.As(err, &missing) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
