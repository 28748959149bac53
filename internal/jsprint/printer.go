// Package jsprint generates source text from jsast trees.
//
// The default layout matches the output conventions of the target
// platform's tooling: two-space indentation, one property per line for
// non-empty object literals, inline arrays and `function ()` for anonymous
// functions.
package jsprint

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wncli/wn/internal/jsast"
)

// Options control the output layout.
type Options struct {
	// Concise prints everything on one line, with objects as `{ a: 1 }`.
	Concise bool

	// JSON prints strings with double quotes and quotes every object key.
	JSON bool
}

// Program prints a whole module.
func Program(prog *jsast.Program, opts Options) string {
	p := &printer{opts: opts}
	for i, s := range prog.Body {
		if i > 0 {
			p.newline()
		}
		p.stmt(s)
	}
	return p.b.String()
}

// Stmts prints a statement list one statement per line.
func Stmts(list []jsast.Stmt, opts Options) string {
	return Program(&jsast.Program{Body: list}, opts)
}

// Stmt prints one statement.
func Stmt(s jsast.Stmt, opts Options) string {
	p := &printer{opts: opts}
	p.stmt(s)
	return p.b.String()
}

// Expr prints one expression.
func Expr(e jsast.Expr, opts Options) string {
	p := &printer{opts: opts}
	p.expr(e, lLowest, 0)
	return p.b.String()
}

// Quote returns s as a double-quoted string literal.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			if r < 0x20 || r == utf8.RuneError {
				b.WriteString(`\u`)
				h := strconv.FormatInt(int64(r), 16)
				b.WriteString(strings.Repeat("0", 4-len(h)) + h)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

type level int

const (
	lLowest level = iota
	lComma
	lSpread
	lYield
	lAssign
	lConditional
	lNullish
	lLogicalOr
	lLogicalAnd
	lBitwiseOr
	lBitwiseXor
	lBitwiseAnd
	lEquals
	lCompare
	lShift
	lAdd
	lMultiply
	lExponent
	lPrefix
	lPostfix
	lNew
	lCall
	lMember
)

type flags int

const (
	// fStmtStart marks the leftmost expression of an expression statement.
	fStmtStart flags = 1 << iota
	// fArrowStart marks the leftmost expression of an arrow body.
	fArrowStart
	// fForbidCall marks the callee of a new expression.
	fForbidCall
	// fForbidIn marks expressions inside a for-loop initializer.
	fForbidIn
)

var binaryLevels = map[string]level{
	"??": lNullish,
	"||": lLogicalOr, "&&": lLogicalAnd,
	"|": lBitwiseOr, "^": lBitwiseXor, "&": lBitwiseAnd,
	"==": lEquals, "!=": lEquals, "===": lEquals, "!==": lEquals,
	"<": lCompare, ">": lCompare, "<=": lCompare, ">=": lCompare,
	"instanceof": lCompare, "in": lCompare,
	"<<": lShift, ">>": lShift, ">>>": lShift,
	"+": lAdd, "-": lAdd,
	"*": lMultiply, "/": lMultiply, "%": lMultiply,
	"**": lExponent,
}

type printer struct {
	b      strings.Builder
	indent int
	opts   Options
}

func (p *printer) print(s string) {
	p.b.WriteString(s)
}

func (p *printer) newline() {
	if p.opts.Concise {
		p.b.WriteByte(' ')
		return
	}
	p.b.WriteByte('\n')
	p.b.WriteString(strings.Repeat("  ", p.indent))
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (p *printer) stmt(s jsast.Stmt) {
	switch n := s.(type) {
	case *jsast.Import:
		p.importDecl(n)
	case *jsast.ExportDefault:
		p.print("export default ")
		switch x := n.X.(type) {
		case *jsast.Function:
			p.function(x)
		case *jsast.Class:
			p.class(x)
		default:
			p.expr(n.X, lComma, 0)
			p.print(";")
		}
	case *jsast.ExportDecl:
		p.print("export ")
		p.stmt(n.Decl)
	case *jsast.ExportList:
		p.print("export {")
		for i, spec := range n.Specs {
			if i > 0 {
				p.print(",")
			}
			p.print(" ")
			p.print(spec.Local)
			if spec.Exported != spec.Local {
				p.print(" as ")
				p.print(spec.Exported)
			}
		}
		if len(n.Specs) > 0 {
			p.print(" ")
		}
		p.print("}")
		if n.Source != nil {
			p.print(" from ")
			p.string(n.Source)
		}
		p.print(";")
	case *jsast.ExportAll:
		p.print("export *")
		if n.As != "" {
			p.print(" as ")
			p.print(n.As)
		}
		p.print(" from ")
		p.string(n.Source)
		p.print(";")
	case *jsast.VarDecl:
		p.varDecl(n, 0)
		p.print(";")
	case *jsast.FuncDecl:
		p.function(n.Func)
	case *jsast.ClassDecl:
		p.class(n.Class)
	case *jsast.ExprStmt:
		p.expr(n.X, lLowest, fStmtStart)
		p.print(";")
	case *jsast.Return:
		p.print("return")
		if n.X != nil {
			p.print(" ")
			p.expr(n.X, lLowest, 0)
		}
		p.print(";")
	case *jsast.If:
		p.ifStmt(n)
	case *jsast.For:
		p.print("for (")
		switch init := n.Init.(type) {
		case *jsast.VarDecl:
			p.varDecl(init, fForbidIn)
		case *jsast.ExprStmt:
			p.expr(init.X, lLowest, fForbidIn)
		}
		p.print(";")
		if n.Test != nil {
			p.print(" ")
			p.expr(n.Test, lLowest, 0)
		}
		p.print(";")
		if n.Update != nil {
			p.print(" ")
			p.expr(n.Update, lLowest, 0)
		}
		p.print(")")
		p.body(n.Body)
	case *jsast.ForIn:
		p.print("for ")
		if n.Await {
			p.print("await ")
		}
		p.print("(")
		switch left := n.Left.(type) {
		case *jsast.VarDecl:
			p.varDecl(left, fForbidIn)
		case *jsast.ExprStmt:
			p.expr(left.X, lLowest, fForbidIn)
		}
		if n.Of {
			p.print(" of ")
			p.expr(n.Right, lComma, 0)
		} else {
			p.print(" in ")
			p.expr(n.Right, lLowest, 0)
		}
		p.print(")")
		p.body(n.Body)
	case *jsast.While:
		p.print("while (")
		p.expr(n.Test, lLowest, 0)
		p.print(")")
		p.body(n.Body)
	case *jsast.DoWhile:
		p.print("do")
		p.body(n.Body)
		if _, ok := n.Body.(*jsast.Block); ok {
			p.print(" ")
		} else {
			p.newline()
		}
		p.print("while (")
		p.expr(n.Test, lLowest, 0)
		p.print(");")
	case *jsast.Block:
		p.block(n)
	case *jsast.Break:
		p.print("break")
		if n.Label != "" {
			p.print(" " + n.Label)
		}
		p.print(";")
	case *jsast.Continue:
		p.print("continue")
		if n.Label != "" {
			p.print(" " + n.Label)
		}
		p.print(";")
	case *jsast.Throw:
		p.print("throw ")
		p.expr(n.X, lLowest, 0)
		p.print(";")
	case *jsast.Try:
		p.print("try ")
		p.block(n.Block)
		if n.Handler != nil {
			p.print(" catch ")
			if n.Param != nil {
				p.print("(")
				p.expr(n.Param, lLowest, 0)
				p.print(") ")
			}
			p.block(n.Handler)
		}
		if n.Finalizer != nil {
			p.print(" finally ")
			p.block(n.Finalizer)
		}
	case *jsast.Switch:
		p.print("switch (")
		p.expr(n.Disc, lLowest, 0)
		p.print(") {")
		p.indent++
		for _, c := range n.Cases {
			p.newline()
			if c.Test != nil {
				p.print("case ")
				p.expr(c.Test, lLowest, 0)
				p.print(":")
			} else {
				p.print("default:")
			}
			p.indent++
			for _, s := range c.Body {
				p.newline()
				p.stmt(s)
			}
			p.indent--
		}
		p.indent--
		p.newline()
		p.print("}")
	case *jsast.Labeled:
		p.print(n.Label + ":")
		p.body(n.Body)
	case *jsast.Empty:
		p.print(";")
	}
}

func (p *printer) importDecl(n *jsast.Import) {
	p.print("import ")
	parts := 0
	if n.Default != "" {
		p.print(n.Default)
		parts++
	}
	if n.Namespace != "" {
		if parts > 0 {
			p.print(", ")
		}
		p.print("* as " + n.Namespace)
		parts++
	}
	if len(n.Named) > 0 {
		if parts > 0 {
			p.print(", ")
		}
		p.print("{")
		for i, spec := range n.Named {
			if i > 0 {
				p.print(",")
			}
			p.print(" " + spec.Imported)
			if spec.Local != spec.Imported {
				p.print(" as " + spec.Local)
			}
		}
		p.print(" }")
		parts++
	}
	if parts > 0 {
		p.print(" from ")
	}
	p.string(n.Source)
	p.print(";")
}

func (p *printer) varDecl(n *jsast.VarDecl, f flags) {
	p.print(n.Kind)
	p.print(" ")
	for i, d := range n.Decls {
		if i > 0 {
			p.print(", ")
		}
		p.expr(d.Target, lComma, 0)
		if d.Init != nil {
			p.print(" = ")
			p.expr(d.Init, lComma, f&fForbidIn)
		}
	}
}

func (p *printer) ifStmt(n *jsast.If) {
	p.print("if (")
	p.expr(n.Test, lLowest, 0)
	p.print(")")
	p.body(n.Cons)
	if n.Alt == nil {
		return
	}
	if _, ok := n.Cons.(*jsast.Block); ok {
		p.print(" ")
	} else {
		p.newline()
	}
	p.print("else")
	if alt, ok := n.Alt.(*jsast.If); ok {
		p.print(" ")
		p.ifStmt(alt)
		return
	}
	p.body(n.Alt)
}

// body prints a nested statement: blocks follow on the same line, other
// statements are separated by a space.
func (p *printer) body(s jsast.Stmt) {
	p.print(" ")
	if b, ok := s.(*jsast.Block); ok {
		p.block(b)
		return
	}
	p.stmt(s)
}

func (p *printer) block(b *jsast.Block) {
	if len(b.Body) == 0 {
		p.print("{}")
		return
	}
	p.print("{")
	p.indent++
	for _, s := range b.Body {
		p.newline()
		p.stmt(s)
	}
	p.indent--
	p.newline()
	p.print("}")
}

// ---------------------------------------------------------------------------
// Functions and classes
// ---------------------------------------------------------------------------

func (p *printer) function(fn *jsast.Function) {
	if fn.Async {
		p.print("async ")
	}
	p.print("function")
	if fn.Generator {
		p.print("*")
	}
	p.print(" ")
	p.print(fn.Name)
	p.params(fn.Params)
	p.print(" ")
	p.fnBody(fn.Body)
}

func (p *printer) fnBody(b *jsast.Block) {
	if b == nil {
		p.print("{}")
		return
	}
	p.block(b)
}

func (p *printer) params(params []jsast.Expr) {
	p.print("(")
	for i, param := range params {
		if i > 0 {
			p.print(", ")
		}
		p.expr(param, lComma, 0)
	}
	p.print(")")
}

func (p *printer) class(c *jsast.Class) {
	p.print("class")
	if c.Name != "" {
		p.print(" " + c.Name)
	}
	if c.Super != nil {
		p.print(" extends ")
		p.expr(c.Super, lNew, 0)
	}
	p.print(" ")
	if len(c.Members) == 0 {
		p.print("{}")
		return
	}
	p.print("{")
	p.indent++
	for _, m := range c.Members {
		p.newline()
		if m.Static {
			p.print("static ")
		}
		fn, isFn := m.Value.(*jsast.Function)
		switch {
		case m.Kind == jsast.MemberField || !isFn:
			p.key(m.Key, m.Computed)
			if m.Value != nil {
				p.print(" = ")
				p.expr(m.Value, lComma, 0)
			}
			p.print(";")
		default:
			p.method(methodPrefix(m.Kind), m.Key, m.Computed, fn)
		}
	}
	p.indent--
	p.newline()
	p.print("}")
}

func methodPrefix(kind jsast.MemberKind) string {
	switch kind {
	case jsast.MemberGet:
		return "get "
	case jsast.MemberSet:
		return "set "
	}
	return ""
}

func (p *printer) method(prefix string, key jsast.Expr, computed bool, fn *jsast.Function) {
	if fn.Async {
		p.print("async ")
	}
	if fn.Generator {
		p.print("*")
	}
	p.print(prefix)
	p.key(key, computed)
	p.params(fn.Params)
	p.print(" ")
	p.fnBody(fn.Body)
}

func (p *printer) key(key jsast.Expr, computed bool) {
	if computed {
		p.print("[")
		p.expr(key, lComma, 0)
		p.print("]")
		return
	}
	if p.opts.JSON {
		switch k := key.(type) {
		case *jsast.Ident:
			p.print(Quote(k.Name))
			return
		case *jsast.Number:
			p.print(Quote(k.Raw))
			return
		}
	}
	p.expr(key, lLowest, 0)
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func (p *printer) string(s *jsast.String) {
	if s.Raw != "" && !p.opts.JSON {
		p.print(s.Raw)
		return
	}
	p.print(Quote(s.Value))
}

func (p *printer) wrap(open bool) {
	if open {
		p.print("(")
	}
}

func (p *printer) unwrap(open bool) {
	if open {
		p.print(")")
	}
}

// leftFlags keeps only the flags that apply to the leftmost child.
func leftFlags(f flags) flags {
	return f & (fStmtStart | fArrowStart | fForbidIn)
}

func (p *printer) expr(e jsast.Expr, lvl level, f flags) {
	switch n := e.(type) {
	case nil:
	case *jsast.Ident:
		p.print(n.Name)
	case *jsast.This:
		p.print("this")
	case *jsast.Super:
		p.print("super")
	case *jsast.String:
		p.string(n)
	case *jsast.Number:
		p.print(n.Raw)
	case *jsast.Bool:
		p.print(strconv.FormatBool(n.Value))
	case *jsast.Null:
		p.print("null")
	case *jsast.RegExp:
		p.print("/" + n.Pattern + "/" + n.Flags)
	case *jsast.Template:
		p.template(n)
	case *jsast.TaggedTemplate:
		p.expr(n.Tag, lPostfix, leftFlags(f))
		p.template(n.Quasi)
	case *jsast.Array:
		p.print("[")
		for i, el := range n.Elems {
			if i > 0 {
				p.print(", ")
			}
			if el != nil {
				p.expr(el, lComma, 0)
			}
		}
		if len(n.Elems) > 0 && n.Elems[len(n.Elems)-1] == nil {
			p.print(",")
		}
		p.print("]")
	case *jsast.Object:
		open := f&(fStmtStart|fArrowStart) != 0
		p.wrap(open)
		p.object(n)
		p.unwrap(open)
	case *jsast.Property:
		p.property(n)
	case *jsast.Function:
		open := f&fStmtStart != 0
		p.wrap(open)
		p.function(n)
		p.unwrap(open)
	case *jsast.Class:
		open := f&fStmtStart != 0
		p.wrap(open)
		p.class(n)
		p.unwrap(open)
	case *jsast.Arrow:
		open := lvl >= lAssign
		p.wrap(open)
		p.arrow(n)
		p.unwrap(open)
	case *jsast.Unary:
		open := lvl >= lPrefix
		p.wrap(open)
		p.print(n.Op)
		if len(n.Op) > 1 {
			p.print(" ")
		}
		operand := lPrefix - 1
		if sameSign(n.Op, n.X) {
			operand = lPrefix
		}
		p.expr(n.X, operand, 0)
		p.unwrap(open)
	case *jsast.Update:
		if n.Prefix {
			open := lvl >= lPrefix
			p.wrap(open)
			p.print(n.Op)
			p.expr(n.X, lPrefix-1, 0)
			p.unwrap(open)
			return
		}
		open := lvl >= lPostfix
		p.wrap(open)
		p.expr(n.X, lPostfix-1, leftFlags(f))
		p.print(n.Op)
		p.unwrap(open)
	case *jsast.Binary:
		p.binary(n, lvl, f)
	case *jsast.Assign:
		open := lvl >= lAssign
		inner := f
		if open {
			inner = 0
		}
		p.wrap(open)
		p.expr(n.Target, lAssign-1, leftFlags(inner))
		p.print(" " + n.Op + " ")
		p.expr(n.Value, lAssign-1, inner&fForbidIn)
		p.unwrap(open)
	case *jsast.Cond:
		open := lvl >= lConditional
		inner := f
		if open {
			inner = 0
		}
		p.wrap(open)
		p.expr(n.Test, lConditional, leftFlags(inner))
		p.print(" ? ")
		p.expr(n.Cons, lYield, 0)
		p.print(" : ")
		p.expr(n.Alt, lYield, inner&fForbidIn)
		p.unwrap(open)
	case *jsast.Call:
		open := f&fForbidCall != 0
		inner := f
		if open {
			inner = 0
		}
		p.wrap(open)
		p.expr(n.Callee, lPostfix, leftFlags(inner))
		if n.Optional {
			p.print("?.")
		}
		p.args(n.Args)
		p.unwrap(open)
	case *jsast.New:
		open := lvl >= lCall
		p.wrap(open)
		p.print("new ")
		p.expr(n.Callee, lNew, fForbidCall)
		p.args(n.Args)
		p.unwrap(open)
	case *jsast.Member:
		p.expr(n.X, lPostfix, leftFlags(f)|f&fForbidCall)
		if num, ok := n.X.(*jsast.Number); ok && isPlainInteger(num.Raw) {
			p.print(".")
		}
		if n.Optional {
			p.print("?.")
		} else {
			p.print(".")
		}
		p.print(n.Name)
	case *jsast.Index:
		p.expr(n.X, lPostfix, leftFlags(f)|f&fForbidCall)
		if n.Optional {
			p.print("?.")
		}
		p.print("[")
		p.expr(n.Index, lLowest, 0)
		p.print("]")
	case *jsast.Spread:
		p.print("...")
		p.expr(n.X, lComma, 0)
	case *jsast.Seq:
		open := lvl >= lComma
		inner := f
		if open {
			inner = 0
		}
		p.wrap(open)
		for i, x := range n.Exprs {
			if i > 0 {
				p.print(", ")
				inner = inner & fForbidIn
			}
			p.expr(x, lComma, inner)
		}
		p.unwrap(open)
	case *jsast.Await:
		open := lvl >= lPrefix
		p.wrap(open)
		p.print("await ")
		p.expr(n.X, lPrefix-1, 0)
		p.unwrap(open)
	case *jsast.Yield:
		open := lvl >= lAssign
		p.wrap(open)
		p.print("yield")
		if n.Delegate {
			p.print("*")
		}
		if n.X != nil {
			p.print(" ")
			p.expr(n.X, lYield, 0)
		}
		p.unwrap(open)
	case *jsast.JSXElement:
		p.jsx(n)
	case *jsast.JSXText:
		p.print(n.Raw)
	case *jsast.JSXExprContainer:
		p.print("{")
		p.expr(n.X, lLowest, 0)
		p.print("}")
	}
}

func sameSign(op string, x jsast.Expr) bool {
	switch n := x.(type) {
	case *jsast.Unary:
		return (op == "-" || op == "+") && n.Op == op
	case *jsast.Update:
		return n.Prefix && (op == "-" && n.Op == "--" || op == "+" && n.Op == "++")
	}
	return false
}

func isPlainInteger(raw string) bool {
	for _, c := range raw {
		if c < '0' || c > '9' {
			return false
		}
	}
	return raw != ""
}

func (p *printer) binary(n *jsast.Binary, lvl level, f flags) {
	own := binaryLevels[n.Op]
	open := lvl >= own || (n.Op == "in" && f&fForbidIn != 0)
	inner := f
	if open {
		inner = 0
	}
	p.wrap(open)

	left, right := own-1, own
	switch n.Op {
	case "**":
		left, right = own, own-1
		if _, ok := n.L.(*jsast.Unary); ok {
			left = lPrefix
		}
		if _, ok := n.L.(*jsast.Await); ok {
			left = lPrefix
		}
	case "??":
		left, right = lLogicalAnd, lLogicalAnd
	case "||", "&&":
		if isNullish(n.L) {
			left = lNullish
		}
		if isNullish(n.R) {
			right = lNullish
		}
	}

	p.expr(n.L, left, leftFlags(inner))
	p.print(" " + n.Op + " ")
	p.expr(n.R, right, inner&fForbidIn)
	p.unwrap(open)
}

func isNullish(x jsast.Expr) bool {
	b, ok := x.(*jsast.Binary)
	return ok && b.Op == "??"
}

func (p *printer) args(args []jsast.Expr) {
	p.print("(")
	for i, a := range args {
		if i > 0 {
			p.print(", ")
		}
		p.expr(a, lComma, 0)
	}
	p.print(")")
}

func (p *printer) template(t *jsast.Template) {
	p.print("`")
	for i, q := range t.Quasis {
		p.print(q)
		if i < len(t.Exprs) {
			p.print("${")
			p.expr(t.Exprs[i], lLowest, 0)
			p.print("}")
		}
	}
	p.print("`")
}

func (p *printer) object(o *jsast.Object) {
	if len(o.Props) == 0 {
		p.print("{}")
		return
	}
	if p.opts.Concise {
		p.print("{ ")
		for i, prop := range o.Props {
			if i > 0 {
				p.print(", ")
			}
			p.expr(prop, lComma, 0)
		}
		p.print(" }")
		return
	}
	p.print("{")
	p.indent++
	for i, prop := range o.Props {
		p.newline()
		p.expr(prop, lComma, 0)
		if i < len(o.Props)-1 {
			p.print(",")
		}
	}
	p.indent--
	p.newline()
	p.print("}")
}

func (p *printer) property(n *jsast.Property) {
	if fn, ok := n.Value.(*jsast.Function); ok && n.Kind != jsast.PropInit {
		prefix := ""
		switch n.Kind {
		case jsast.PropGet:
			prefix = "get "
		case jsast.PropSet:
			prefix = "set "
		}
		p.method(prefix, n.Key, n.Computed, fn)
		return
	}
	if n.Shorthand && !n.Computed && !p.opts.JSON {
		name := jsast.PropName(n.Key)
		switch v := n.Value.(type) {
		case *jsast.Ident:
			if v.Name == name {
				p.print(name)
				return
			}
		case *jsast.Assign:
			if id, ok := v.Target.(*jsast.Ident); ok && id.Name == name && v.Op == "=" {
				p.print(name + " = ")
				p.expr(v.Value, lComma, 0)
				return
			}
		}
	}
	p.key(n.Key, n.Computed)
	p.print(": ")
	p.expr(n.Value, lComma, 0)
}

func (p *printer) arrow(a *jsast.Arrow) {
	if a.Async {
		p.print("async ")
	}
	if len(a.Params) == 1 {
		if id, ok := a.Params[0].(*jsast.Ident); ok {
			p.print(id.Name)
		} else {
			p.params(a.Params)
		}
	} else {
		p.params(a.Params)
	}
	p.print(" => ")
	if a.Block != nil {
		p.block(a.Block)
		return
	}
	p.expr(a.X, lComma, fArrowStart)
}

func (p *printer) jsx(el *jsast.JSXElement) {
	p.print("<" + el.Name)
	for _, a := range el.Attrs {
		p.print(" ")
		if a.Spread != nil {
			p.print("{...")
			p.expr(a.Spread, lComma, 0)
			p.print("}")
			continue
		}
		p.print(a.Name)
		if a.Value == nil {
			continue
		}
		p.print("=")
		p.expr(a.Value, lLowest, 0)
	}
	if el.SelfClosing {
		p.print(" />")
		return
	}
	p.print(">")
	for _, c := range el.Children {
		p.expr(c, lLowest, 0)
	}
	p.print("</" + el.Name + ">")
}
