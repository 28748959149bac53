package transform

import (
	"path"
	"strconv"
	"strings"

	"github.com/wncli/wn/internal/jsast"
)

// toCommonJS replaces module syntax with require calls and exports
// assignments, the loading convention of the target platform. It returns
// the require statements separately so the caller can lay them out as a
// header.
func toCommonJS(body []jsast.Stmt) (requires, rest []jsast.Stmt) {
	c := &commonJS{
		used:     usedNames(body),
		modules:  make(map[string]string),
		bindings: make(map[string]jsast.Expr),
	}
	for _, s := range body {
		rest = append(rest, c.stmt(s)...)
	}
	sub := &substituter{bindings: c.bindings, replaced: make(map[jsast.Expr]bool)}
	r := &jsast.Rewriter{Enter: sub.enter, Leave: sub.leave}
	out := r.Program(&jsast.Program{Body: rest})
	return c.requires, out.Body
}

type commonJS struct {
	used     map[string]bool
	modules  map[string]string
	bindings map[string]jsast.Expr
	requires []jsast.Stmt
}

func (c *commonJS) stmt(s jsast.Stmt) []jsast.Stmt {
	switch n := s.(type) {
	case *jsast.Import:
		if len(n.Locals()) == 0 {
			if _, ok := c.modules[n.Source.Value]; !ok {
				c.modules[n.Source.Value] = ""
				c.requires = append(c.requires, &jsast.ExprStmt{X: requireCall(n.Source.Value)})
			}
			return nil
		}
		mod := c.require(n.Source.Value)
		if n.Default != "" {
			c.bindings[n.Default] = member(mod, "default")
		}
		if n.Namespace != "" {
			c.bindings[n.Namespace] = &jsast.Ident{Name: mod}
		}
		for _, spec := range n.Named {
			c.bindings[spec.Local] = member(mod, spec.Imported)
		}
		return nil

	case *jsast.ExportDefault:
		switch x := n.X.(type) {
		case *jsast.Function:
			if x.Name != "" {
				return []jsast.Stmt{&jsast.FuncDecl{Func: x}, exportAssign("default", &jsast.Ident{Name: x.Name})}
			}
		case *jsast.Class:
			if x.Name != "" {
				return []jsast.Stmt{&jsast.ClassDecl{Class: x}, exportAssign("default", &jsast.Ident{Name: x.Name})}
			}
		}
		return []jsast.Stmt{exportAssign("default", n.X)}

	case *jsast.ExportDecl:
		out := []jsast.Stmt{n.Decl}
		for _, name := range declNames(n.Decl) {
			out = append(out, exportAssign(name, &jsast.Ident{Name: name}))
		}
		return out

	case *jsast.ExportList:
		var out []jsast.Stmt
		mod := ""
		if n.Source != nil {
			mod = c.require(n.Source.Value)
		}
		for _, spec := range n.Specs {
			var value jsast.Expr = &jsast.Ident{Name: spec.Local}
			if mod != "" {
				value = member(mod, spec.Local)
			}
			out = append(out, exportAssign(spec.Exported, value))
		}
		return out

	case *jsast.ExportAll:
		mod := c.require(n.Source.Value)
		if n.As != "" {
			return []jsast.Stmt{exportAssign(n.As, &jsast.Ident{Name: mod})}
		}
		return []jsast.Stmt{reexportAll(mod)}
	}
	return []jsast.Stmt{s}
}

// require returns the binding holding the module loaded from source,
// declaring it on first use.
func (c *commonJS) require(source string) string {
	if name := c.modules[source]; name != "" {
		return name
	}
	name := c.uid(source)
	c.modules[source] = name
	c.requires = append(c.requires, &jsast.VarDecl{
		Kind:  "var",
		Decls: []*jsast.Declarator{{Target: &jsast.Ident{Name: name}, Init: requireCall(source)}},
	})
	return name
}

// uid derives an unused binding name from a module path: `_` followed by
// the camel-cased basename, numbered on collision.
func (c *commonJS) uid(source string) string {
	base := path.Base(source)
	base = strings.TrimSuffix(base, path.Ext(base))
	id := strings.TrimLeft(toIdentifier(base), "_")
	id = strings.TrimRight(id, "0123456789")
	name := "_" + id
	for i := 2; c.used[name]; i++ {
		name = "_" + id + strconv.Itoa(i)
	}
	c.used[name] = true
	return name
}

// toIdentifier turns a file name into a camel-cased identifier.
func toIdentifier(name string) string {
	var b strings.Builder
	upper := false
	for _, r := range name {
		valid := r == '$' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
		switch {
		case !valid:
			upper = b.Len() > 0
		case b.Len() == 0 && r >= '0' && r <= '9':
		case upper:
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func requireCall(source string) *jsast.Call {
	return &jsast.Call{
		Callee: &jsast.Ident{Name: "require"},
		Args:   []jsast.Expr{&jsast.String{Value: source}},
	}
}

func member(object, name string) *jsast.Member {
	return &jsast.Member{X: &jsast.Ident{Name: object}, Name: name}
}

func exportAssign(name string, value jsast.Expr) *jsast.ExprStmt {
	return &jsast.ExprStmt{X: &jsast.Assign{
		Op:     "=",
		Target: member("exports", name),
		Value:  value,
	}}
}

// reexportAll copies every named export of mod onto exports.
func reexportAll(mod string) jsast.Stmt {
	key := func() *jsast.Ident { return &jsast.Ident{Name: "key"} }
	skip := &jsast.If{
		Test: &jsast.Binary{
			Op: "||",
			L:  &jsast.Binary{Op: "===", L: key(), R: &jsast.String{Value: "default"}},
			R:  &jsast.Binary{Op: "===", L: key(), R: &jsast.String{Value: "__esModule"}},
		},
		Cons: &jsast.Return{},
	}
	assign := &jsast.ExprStmt{X: &jsast.Assign{
		Op:     "=",
		Target: &jsast.Index{X: &jsast.Ident{Name: "exports"}, Index: key()},
		Value:  &jsast.Index{X: &jsast.Ident{Name: mod}, Index: key()},
	}}
	keys := &jsast.Call{
		Callee: member("Object", "keys"),
		Args:   []jsast.Expr{&jsast.Ident{Name: mod}},
	}
	return &jsast.ExprStmt{X: &jsast.Call{
		Callee: &jsast.Member{X: keys, Name: "forEach"},
		Args: []jsast.Expr{&jsast.Function{
			Params: []jsast.Expr{key()},
			Body:   &jsast.Block{Body: []jsast.Stmt{skip, assign}},
		}},
	}}
}

// substituter replaces references to imported bindings. Nested functions,
// blocks, loops, catch clauses and classes open scopes whose declarations
// shadow the imports.
type substituter struct {
	bindings map[string]jsast.Expr
	scopes   []map[string]bool
	replaced map[jsast.Expr]bool
}

func (s *substituter) enter(n jsast.Node) bool {
	switch v := n.(type) {
	case *jsast.Function:
		scope := functionScope(v.Params, v.Body)
		if v.Name != "" {
			scope[v.Name] = true
		}
		s.scopes = append(s.scopes, scope)
	case *jsast.Arrow:
		s.scopes = append(s.scopes, functionScope(v.Params, v.Block))
	case *jsast.For:
		s.scopes = append(s.scopes, setOf(declNames(v.Init)))
	case *jsast.ForIn:
		s.scopes = append(s.scopes, setOf(declNames(v.Left)))
	case *jsast.Try:
		s.scopes = append(s.scopes, setOf(patternNames(v.Param, nil)))
	case *jsast.Class:
		s.scopes = append(s.scopes, map[string]bool{v.Name: v.Name != ""})
	case *jsast.Block:
		var names []string
		for _, b := range v.Body {
			names = append(names, lexicalNames(b)...)
		}
		s.scopes = append(s.scopes, setOf(names))
	case *jsast.Switch:
		var names []string
		for _, c := range v.Cases {
			for _, b := range c.Body {
				names = append(names, lexicalNames(b)...)
			}
		}
		s.scopes = append(s.scopes, setOf(names))
	}
	return true
}

func (s *substituter) leave(n jsast.Node) jsast.Node {
	switch v := n.(type) {
	case *jsast.Function, *jsast.Arrow, *jsast.For, *jsast.ForIn, *jsast.Try, *jsast.Class, *jsast.Block, *jsast.Switch:
		s.scopes = s.scopes[:len(s.scopes)-1]
	case *jsast.Ident:
		repl, ok := s.bindings[v.Name]
		if !ok || s.shadowed(v.Name) {
			return n
		}
		x := cloneRef(repl)
		s.replaced[x] = true
		return x
	case *jsast.Call:
		if s.isReplacedMember(v.Callee) {
			c := *v
			c.Callee = indirect(v.Callee)
			return &c
		}
	case *jsast.TaggedTemplate:
		if s.isReplacedMember(v.Tag) {
			c := *v
			c.Tag = indirect(v.Tag)
			return &c
		}
	}
	return n
}

func (s *substituter) shadowed(name string) bool {
	for _, scope := range s.scopes {
		if scope[name] {
			return true
		}
	}
	return false
}

func (s *substituter) isReplacedMember(x jsast.Expr) bool {
	_, ok := x.(*jsast.Member)
	return ok && s.replaced[x]
}

// indirect wraps a callee as `(0, callee)` so it is called without a
// receiver.
func indirect(x jsast.Expr) jsast.Expr {
	return &jsast.Seq{Exprs: []jsast.Expr{&jsast.Number{Raw: "0"}, x}}
}

func cloneRef(x jsast.Expr) jsast.Expr {
	switch v := x.(type) {
	case *jsast.Ident:
		return &jsast.Ident{Name: v.Name}
	case *jsast.Member:
		return &jsast.Member{X: cloneRef(v.X), Name: v.Name}
	}
	return x
}

func setOf(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// functionScope collects parameter names and the var and function
// declarations of a function body, without entering nested functions.
// Block-scoped declarations belong to the scope of their enclosing block.
func functionScope(params []jsast.Expr, body *jsast.Block) map[string]bool {
	var names []string
	for _, p := range params {
		names = patternNames(p, names)
	}
	if body != nil {
		for _, s := range body.Body {
			names = append(names, hoisted(s)...)
		}
	}
	return setOf(names)
}

// hoisted returns the var and function names declared by s and by
// statements nested in it.
func hoisted(s jsast.Stmt) []string {
	var names []string
	switch n := s.(type) {
	case *jsast.VarDecl:
		if n.Kind == "var" {
			names = declNames(n)
		}
	case *jsast.FuncDecl:
		names = declNames(n)
	case *jsast.ExportDecl:
		return hoisted(n.Decl)
	}
	switch n := s.(type) {
	case *jsast.Block:
		for _, b := range n.Body {
			names = append(names, hoisted(b)...)
		}
	case *jsast.If:
		names = append(names, hoisted(n.Cons)...)
		if n.Alt != nil {
			names = append(names, hoisted(n.Alt)...)
		}
	case *jsast.For:
		names = append(names, hoisted(n.Body)...)
	case *jsast.ForIn:
		names = append(names, hoisted(n.Body)...)
	case *jsast.While:
		names = append(names, hoisted(n.Body)...)
	case *jsast.DoWhile:
		names = append(names, hoisted(n.Body)...)
	case *jsast.Labeled:
		names = append(names, hoisted(n.Body)...)
	case *jsast.Try:
		names = append(names, hoisted(n.Block)...)
		if n.Handler != nil {
			names = append(names, hoisted(n.Handler)...)
		}
		if n.Finalizer != nil {
			names = append(names, hoisted(n.Finalizer)...)
		}
	case *jsast.Switch:
		for _, c := range n.Cases {
			for _, b := range c.Body {
				names = append(names, hoisted(b)...)
			}
		}
	}
	return names
}

// lexicalNames returns the let, const and class names declared directly by s.
func lexicalNames(s jsast.Stmt) []string {
	switch n := s.(type) {
	case *jsast.VarDecl:
		if n.Kind != "var" {
			return declNames(n)
		}
	case *jsast.ClassDecl:
		return declNames(n)
	case *jsast.ExportDecl:
		return lexicalNames(n.Decl)
	}
	return nil
}

// declNames returns the names bound directly by a declaration statement.
func declNames(s jsast.Stmt) []string {
	switch n := s.(type) {
	case *jsast.VarDecl:
		var names []string
		for _, d := range n.Decls {
			names = patternNames(d.Target, names)
		}
		return names
	case *jsast.FuncDecl:
		return []string{n.Func.Name}
	case *jsast.ClassDecl:
		return []string{n.Class.Name}
	case *jsast.ExportDecl:
		return declNames(n.Decl)
	}
	return nil
}

// patternNames appends the identifiers bound by a binding pattern.
func patternNames(p jsast.Expr, names []string) []string {
	switch n := p.(type) {
	case *jsast.Ident:
		return append(names, n.Name)
	case *jsast.Array:
		for _, el := range n.Elems {
			names = patternNames(el, names)
		}
	case *jsast.Object:
		for _, prop := range n.Props {
			names = patternNames(prop, names)
		}
	case *jsast.Property:
		return patternNames(n.Value, names)
	case *jsast.Assign:
		return patternNames(n.Target, names)
	case *jsast.Spread:
		return patternNames(n.X, names)
	}
	return names
}

// usedNames collects every identifier and import binding in the program.
func usedNames(body []jsast.Stmt) map[string]bool {
	used := map[string]bool{"exports": true, "require": true, "module": true}
	for _, s := range body {
		if imp, ok := s.(*jsast.Import); ok {
			for _, name := range imp.Locals() {
				used[name] = true
			}
		}
		jsast.Inspect(s, func(n jsast.Node) bool {
			if id, ok := n.(*jsast.Ident); ok {
				used[id.Name] = true
			}
			return true
		})
	}
	return used
}
