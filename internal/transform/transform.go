// Package transform compiles one parsed module of the authoring dialect
// into the artifacts of a mini-program module: a behavior script, a JSON
// configuration, markup and stylesheet text.
//
// A module's transform depends only on its own tree and the outputs of
// the modules it imports, which the caller supplies already transformed.
package transform

import (
	"strings"

	"github.com/wncli/wn/internal/jsast"
	"github.com/wncli/wn/internal/jsprint"
)

// Options configures how imports are resolved.
type Options struct {
	// CompatModule is the specifier of the compile-time compatibility
	// layer, whose role bindings are dropped.
	CompatModule string

	// ModulesDir is the directory under the source root that holds
	// vendored packages.
	ModulesDir string

	// PagesDir is the path segment that marks page modules. Component
	// relations to pages are not emitted.
	PagesDir string
}

// DefaultOptions returns the stock resolution settings.
func DefaultOptions() Options {
	return Options{
		CompatModule: "wn",
		ModulesDir:   "modules",
		PagesDir:     "pages",
	}
}

// Input is one module to transform.
type Input struct {
	// ID identifies the module, normally its path relative to SourceRoot
	// with forward slashes.
	ID string

	// Program is the parsed module. It is not modified.
	Program *jsast.Program

	// Deps holds the outputs of already transformed dependencies, keyed
	// by module id.
	Deps map[string]*Output

	// ReferencedBy lists the ids of modules that import this one.
	ReferencedBy []string

	// SourceRoot is the directory module ids are resolved against.
	SourceRoot string

	// Stylesheet is the content of a sibling stylesheet file, if any.
	Stylesheet string
}

// Output is the result of transforming one module.
type Output struct {
	ID   string
	Role Role

	// Name is the template name; set only for templates.
	Name string

	// Behavior is the behavior script. Empty for templates.
	Behavior string

	// Config is the JSON configuration, nil when there is none.
	Config *Object

	// Markup is the markup text, empty when the module renders nothing.
	Markup string

	// Style and CSS hold embedded WXSS and CSS blocks.
	Style string
	CSS   string

	// RawStylesheet is the sibling stylesheet passed through unchanged.
	RawStylesheet string

	Warnings []*AuthoringWarning
}

// ConfigJSON returns the configuration as compact JSON, or "" when the
// module has no configuration.
func (o *Output) ConfigJSON() string {
	if o.Config.Len() == 0 {
		return ""
	}
	b, err := o.Config.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// Stylesheet returns the stylesheet text written for the module.
func (o *Output) Stylesheet() string {
	var parts []string
	for _, s := range []string{o.RawStylesheet, o.CSS, o.Style} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// Transformer compiles modules.
type Transformer struct {
	opts Options
}

// New creates a Transformer. Empty option fields take their defaults.
func New(opts Options) *Transformer {
	def := DefaultOptions()
	if opts.CompatModule == "" {
		opts.CompatModule = def.CompatModule
	}
	if opts.ModulesDir == "" {
		opts.ModulesDir = def.ModulesDir
	}
	if opts.PagesDir == "" {
		opts.PagesDir = def.PagesDir
	}
	return &Transformer{opts: opts}
}

// Transform compiles one module. Authoring problems are reported in
// Output.Warnings; an error means no output was produced.
func (t *Transformer) Transform(in Input) (*Output, error) {
	exp := classify(in.Program)
	warn := &warnings{module: in.ID}
	out := &Output{ID: in.ID, Role: exp.role, RawStylesheet: in.Stylesheet}

	var exportStmt jsast.Stmt
	if exp.stmt >= 0 {
		exportStmt = in.Program.Body[exp.stmt]
	}

	body := extractStyles(in.Program.Body, out, warn)
	r := &resolver{id: in.ID, role: exp.role, deps: in.Deps, root: in.SourceRoot, opts: t.opts}
	res := r.resolve(body)

	var cfg *Object
	switch exp.role {
	case RoleTemplate:
		if exp.name == "" {
			return nil, &TemplateNameError{Module: in.ID}
		}
		out.Name = exp.name
		out.Markup = renderTemplate(exp.name, exp.markup, res.templates, warn)

	case RoleApp, RolePage, RoleComponent, RoleGame:
		class := rewriteSetState(exp.class)
		members := interpretMembers(exp.role, class, warn)
		if members.render != nil {
			if el := returnedMarkup(members.render.Body); el != nil {
				out.Markup = renderMarkup(el, res.templates, warn)
			}
		}
		props := members.attrs
		if exp.role == RoleComponent {
			r.parentRelations(in.ReferencedBy, res.relations)
			if rel := relationProps(res.relations, t.opts.PagesDir); len(rel) > 0 {
				props = append(props, property("relations", &jsast.Object{Props: rel}))
			}
		}
		if len(members.methods) > 0 {
			props = append(props, property("methods", &jsast.Object{Props: members.methods}))
		}
		if len(members.properties) > 0 {
			props = append(props, property("properties", &jsast.Object{Props: descriptorProps(members.properties)}))
		}
		call := &jsast.ExprStmt{X: &jsast.Call{
			Callee: &jsast.Ident{Name: exp.role.Constructor()},
			Args:   []jsast.Expr{&jsast.Object{Props: props}},
		}}
		res.body = replaceStmt(res.body, exportStmt, call)
		cfg = members.config
	}

	if out.Markup != "" && len(res.templatePaths) > 0 {
		out.Markup = importLines(res.templatePaths) + out.Markup
	}
	out.Config = assembleConfig(exp.role, res, cfg)

	if exp.role != RoleTemplate {
		out.Behavior = behaviorText(res.body)
	}
	out.Warnings = warn.list
	return out, nil
}

// behaviorText prints the module in CommonJS form, with require
// statements as a header block.
func behaviorText(body []jsast.Stmt) string {
	requires, rest := toCommonJS(body)
	opts := jsprint.Options{}
	switch {
	case len(requires) == 0:
		return jsprint.Stmts(rest, opts)
	case len(rest) == 0:
		return jsprint.Stmts(requires, opts)
	}
	return jsprint.Stmts(requires, opts) + "\n\n" + jsprint.Stmts(rest, opts)
}

// assembleConfig shapes the JSON configuration for a role. It returns nil
// when there is nothing to write.
func assembleConfig(role Role, res resolution, bucket *Object) *Object {
	cfg := NewObject()
	switch role {
	case RoleApp, RoleGame:
		if len(res.pages) > 0 {
			pages := make([]any, len(res.pages))
			for i, p := range res.pages {
				pages[i] = p
			}
			cfg.Set("pages", pages)
		}
		mergeConfig(cfg, bucket)
	case RoleComponent:
		cfg.Set("component", true)
		if res.components.Len() > 0 {
			cfg.Set("usingComponents", res.components)
		}
	case RolePage:
		if res.components.Len() > 0 {
			cfg.Set("usingComponents", res.components)
		}
		mergeConfig(cfg, bucket)
	}
	if cfg.Len() == 0 {
		return nil
	}
	return cfg
}

func mergeConfig(dst, src *Object) {
	if src == nil {
		return
	}
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		dst.Set(k, v)
	}
}

// relationProps renders relation edges, skipping partners under the pages
// directory.
func relationProps(relations *Object, pagesDir string) []jsast.Expr {
	var props []jsast.Expr
	for _, key := range relations.Keys() {
		if hasSegment(key, pagesDir) {
			continue
		}
		kind, _ := relations.Get(key)
		kindText, _ := kind.(string)
		props = append(props, &jsast.Property{
			Key: &jsast.String{Value: key},
			Value: &jsast.Object{Props: []jsast.Expr{
				property("type", &jsast.String{Value: kindText}),
			}},
		})
	}
	return props
}

// extractStyles removes top-level WXSS and CSS blocks from the body and
// stores their text on out.
func extractStyles(body []jsast.Stmt, out *Output, warn *warnings) []jsast.Stmt {
	kept := make([]jsast.Stmt, 0, len(body))
	for _, s := range body {
		es, ok := s.(*jsast.ExprStmt)
		if !ok {
			kept = append(kept, s)
			continue
		}
		tt, ok := es.X.(*jsast.TaggedTemplate)
		if !ok {
			kept = append(kept, s)
			continue
		}
		tag, ok := tt.Tag.(*jsast.Ident)
		if !ok || !styleTags[tag.Name] {
			kept = append(kept, s)
			continue
		}
		if len(tt.Quasi.Exprs) > 0 {
			warn.add(tag.Name, "interpolations in stylesheet blocks are dropped")
		}
		text := strings.Join(tt.Quasi.Quasis, "")
		if tag.Name == "CSS" {
			out.CSS += text
		} else {
			out.Style += text
		}
	}
	return kept
}

func replaceStmt(body []jsast.Stmt, old, repl jsast.Stmt) []jsast.Stmt {
	out := make([]jsast.Stmt, len(body))
	for i, s := range body {
		if s == old {
			s = repl
		}
		out[i] = s
	}
	return out
}

// property builds `name: value` with an identifier key when possible.
func property(name string, value jsast.Expr) *jsast.Property {
	return &jsast.Property{Key: keyExpr(name), Value: value}
}

// keyExpr returns an identifier for valid identifier names and a string
// literal otherwise.
func keyExpr(name string) jsast.Expr {
	if isIdentifier(name) {
		return &jsast.Ident{Name: name}
	}
	return &jsast.String{Value: name}
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '$' || c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c > 0x7f:
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
