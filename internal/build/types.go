// Package build provides the dependency-ordered compile driver and the
// graph types shared between the scanner, the driver and the emitter.
package build

import (
	"context"
	"sort"

	"github.com/wncli/wn/internal/jsast"
	"github.com/wncli/wn/internal/transform"
)

// Module is one source module of the dependency graph.
type Module struct {
	// Depended lists the ids of local modules this module imports, in
	// import order.
	Depended []string

	// Code is the module source text.
	Code []byte
}

// Graph is the dependency graph of one build. Module ids are source-root
// relative paths with forward slashes.
type Graph struct {
	Modules map[string]Module

	// Referenced maps a module id to the ids of the modules importing it.
	Referenced map[string][]string
}

// IDs returns the module ids in lexical order.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.Modules))
	for id := range g.Modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Parser turns module source into a tree.
type Parser interface {
	Parse(id string, src []byte) (*jsast.Program, error)
}

// Transformer compiles one parsed module.
type Transformer interface {
	Transform(in transform.Input) (*transform.Output, error)
}

// Sink receives each output as soon as its module is assembled.
// A Sink error fails that module.
type Sink interface {
	Write(ctx context.Context, out *transform.Output) error
}

// StyleSource supplies the sibling stylesheet of a module, if any.
type StyleSource interface {
	Stylesheet(id string) (string, bool)
}

// Result is the outcome of a driver run.
type Result struct {
	// Outputs holds the assembled outputs keyed by module id.
	Outputs map[string]*transform.Output

	// Order lists the compiled module ids, dependencies first.
	Order []string

	// Failed holds module-local failures keyed by module id. A failed
	// module has no entry in Outputs.
	Failed map[string]error
}

func newResult() *Result {
	return &Result{
		Outputs: make(map[string]*transform.Output),
		Failed:  make(map[string]error),
	}
}

// HasErrors returns true if any module failed.
func (r *Result) HasErrors() bool {
	return len(r.Failed) > 0
}

// Errors returns the module failures ordered by module id.
func (r *Result) Errors() []error {
	ids := make([]string, 0, len(r.Failed))
	for id := range r.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	errs := make([]error, len(ids))
	for i, id := range ids {
		errs[i] = r.Failed[id]
	}
	return errs
}

// WarningCount returns the number of authoring warnings across outputs.
func (r *Result) WarningCount() int {
	n := 0
	for _, out := range r.Outputs {
		n += len(out.Warnings)
	}
	return n
}

// Roles counts compiled modules per role.
func (r *Result) Roles() map[transform.Role]int {
	counts := make(map[transform.Role]int)
	for _, out := range r.Outputs {
		counts[out.Role]++
	}
	return counts
}
