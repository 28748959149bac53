// Package jsparse turns component module source text into a jsast tree.
//
// The accepted language is ES module syntax with class fields, object
// rest/spread and JSX. It is deliberately permissive: early errors that do
// not affect the tree shape (duplicate bindings, strict-mode restrictions)
// are not reported.
package jsparse

import (
	"fmt"
	"strings"

	werrors "github.com/wncli/wn/internal/errors"
	"github.com/wncli/wn/internal/jsast"
)

// SyntaxError reports unparseable source text.
type SyntaxError struct {
	File    string
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// Unwrap returns the syntax sentinel.
func (e *SyntaxError) Unwrap() error {
	return werrors.ErrSyntax
}

// Parser turns module source text into a syntax tree.
type Parser interface {
	Parse(id string, src []byte) (*jsast.Program, error)
}

// New returns the module parser.
func New() Parser {
	return moduleParser{}
}

type moduleParser struct{}

// Parse parses one module. The id is only used in error messages.
func (moduleParser) Parse(id string, src []byte) (prog *jsast.Program, err error) {
	text := string(src)
	if strings.HasPrefix(text, "#!") {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = strings.Repeat(" ", i) + text[i:]
		} else {
			text = ""
		}
	}

	p := &parser{lex: newLexer(text)}
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			se.File = id
			prog, err = nil, se
		}
	}()

	p.next()
	body := []jsast.Stmt{}
	for p.tok.kind != tEOF {
		body = append(body, p.parseStatement())
	}
	return &jsast.Program{Body: body}, nil
}

// ParseExpression parses a single expression, mainly for tests and tools.
func ParseExpression(src string) (x jsast.Expr, err error) {
	p := &parser{lex: newLexer(src)}
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			x, err = nil, se
		}
	}()
	p.next()
	x = p.parseExpression(false)
	if p.tok.kind != tEOF {
		p.unexpected()
	}
	return x, nil
}

type parser struct {
	lex lexer
	tok token

	inAsync     bool
	inGenerator bool
}

type snapshot struct {
	lex lexer
	tok token
}

func (p *parser) save() snapshot {
	return snapshot{lex: p.lex, tok: p.tok}
}

func (p *parser) restore(s snapshot) {
	p.lex = s.lex
	p.tok = s.tok
}

func (p *parser) next() {
	p.tok = p.lex.next()
}

// peek returns the token after the current one without consuming it.
func (p *parser) peek() token {
	s := p.save()
	p.next()
	t := p.tok
	p.restore(s)
	return t
}

func (p *parser) failAt(t token, format string, args ...any) {
	p.lex.fail(t.start, format, args...)
}

func (p *parser) unexpected() {
	if p.tok.kind == tEOF {
		p.failAt(p.tok, "unexpected end of input")
	}
	p.failAt(p.tok, "unexpected token %q", p.tok.raw)
}

func (p *parser) expect(punct string) {
	if !p.tok.is(punct) {
		if p.tok.kind == tEOF {
			p.failAt(p.tok, "expected %q but reached end of input", punct)
		}
		p.failAt(p.tok, "expected %q but found %q", punct, p.tok.raw)
	}
	p.next()
}

func (p *parser) eat(punct string) bool {
	if p.tok.is(punct) {
		p.next()
		return true
	}
	return false
}

func (p *parser) eatName(name string) bool {
	if p.tok.isName(name) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectName(name string) {
	if !p.eatName(name) {
		p.failAt(p.tok, "expected %q but found %q", name, p.tok.raw)
	}
}

func (p *parser) identifier() string {
	if p.tok.kind != tName {
		p.unexpected()
	}
	name := p.tok.value
	p.next()
	return name
}

// semicolon consumes a statement terminator, applying automatic
// semicolon insertion.
func (p *parser) semicolon() {
	if p.eat(";") {
		return
	}
	if p.tok.is("}") || p.tok.kind == tEOF || p.tok.nlBefore {
		return
	}
	p.unexpected()
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (p *parser) parseStatement() jsast.Stmt {
	switch p.tok.kind {
	case tPunct:
		switch p.tok.value {
		case "{":
			return p.parseBlock()
		case ";":
			p.next()
			return &jsast.Empty{}
		}
	case tName:
		switch p.tok.value {
		case "var", "const":
			return p.parseVarStatement()
		case "let":
			if nt := p.peek(); nt.kind == tName || nt.is("[") || nt.is("{") {
				return p.parseVarStatement()
			}
		case "function":
			return &jsast.FuncDecl{Func: p.parseFunction(false)}
		case "async":
			if nt := p.peek(); nt.isName("function") && !nt.nlBefore {
				p.next()
				return &jsast.FuncDecl{Func: p.parseFunction(true)}
			}
		case "class":
			return &jsast.ClassDecl{Class: p.parseClass()}
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "while":
			p.next()
			p.expect("(")
			test := p.parseExpression(false)
			p.expect(")")
			return &jsast.While{Test: test, Body: p.parseStatement()}
		case "do":
			p.next()
			body := p.parseStatement()
			p.expectName("while")
			p.expect("(")
			test := p.parseExpression(false)
			p.expect(")")
			p.eat(";")
			return &jsast.DoWhile{Body: body, Test: test}
		case "return":
			p.next()
			var x jsast.Expr
			if !p.tok.is(";") && !p.tok.is("}") && p.tok.kind != tEOF && !p.tok.nlBefore {
				x = p.parseExpression(false)
			}
			p.semicolon()
			return &jsast.Return{X: x}
		case "break", "continue":
			keyword := p.tok.value
			p.next()
			label := ""
			if p.tok.kind == tName && !p.tok.nlBefore {
				label = p.identifier()
			}
			p.semicolon()
			if keyword == "break" {
				return &jsast.Break{Label: label}
			}
			return &jsast.Continue{Label: label}
		case "throw":
			p.next()
			x := p.parseExpression(false)
			p.semicolon()
			return &jsast.Throw{X: x}
		case "try":
			return p.parseTry()
		case "switch":
			return p.parseSwitch()
		case "import":
			if nt := p.peek(); !nt.is("(") && !nt.is(".") {
				return p.parseImport()
			}
		case "export":
			return p.parseExport()
		default:
			if nt := p.peek(); nt.is(":") {
				label := p.identifier()
				p.next()
				return &jsast.Labeled{Label: label, Body: p.parseStatement()}
			}
		}
	}

	x := p.parseExpression(false)
	p.semicolon()
	return &jsast.ExprStmt{X: x}
}

func (p *parser) parseBlock() *jsast.Block {
	p.expect("{")
	body := []jsast.Stmt{}
	for !p.tok.is("}") {
		if p.tok.kind == tEOF {
			p.unexpected()
		}
		body = append(body, p.parseStatement())
	}
	p.next()
	return &jsast.Block{Body: body}
}

func (p *parser) parseVarStatement() jsast.Stmt {
	kind := p.tok.value
	p.next()
	decl := &jsast.VarDecl{Kind: kind, Decls: p.parseDeclarators(false)}
	p.semicolon()
	return decl
}

func (p *parser) parseDeclarators(noIn bool) []*jsast.Declarator {
	var decls []*jsast.Declarator
	for {
		d := &jsast.Declarator{Target: p.parseBindingTarget()}
		if p.eat("=") {
			d.Init = p.parseAssign(noIn)
		}
		decls = append(decls, d)
		if !p.eat(",") {
			return decls
		}
	}
}

func (p *parser) parseBindingTarget() jsast.Expr {
	if p.tok.is("[") || p.tok.is("{") {
		return p.parsePrimary()
	}
	return &jsast.Ident{Name: p.identifier()}
}

func (p *parser) parseIf() jsast.Stmt {
	p.next()
	p.expect("(")
	test := p.parseExpression(false)
	p.expect(")")
	stmt := &jsast.If{Test: test, Cons: p.parseStatement()}
	if p.eatName("else") {
		stmt.Alt = p.parseStatement()
	}
	return stmt
}

func (p *parser) parseFor() jsast.Stmt {
	p.next()
	await := p.eatName("await")
	p.expect("(")

	var init jsast.Stmt
	switch {
	case p.tok.is(";"):
	case p.tok.isName("var") || p.tok.isName("const") || (p.tok.isName("let") && p.isLetDecl()):
		kind := p.tok.value
		p.next()
		decl := &jsast.VarDecl{Kind: kind, Decls: p.parseDeclarators(true)}
		if (p.tok.isName("of") || p.tok.isName("in")) && len(decl.Decls) == 1 && decl.Decls[0].Init == nil {
			return p.parseForIn(decl, await)
		}
		init = decl
	default:
		x := p.parseExpression(true)
		if p.tok.isName("of") || p.tok.isName("in") {
			return p.parseForIn(&jsast.ExprStmt{X: x}, await)
		}
		init = &jsast.ExprStmt{X: x}
	}

	p.expect(";")
	stmt := &jsast.For{Init: init}
	if !p.tok.is(";") {
		stmt.Test = p.parseExpression(false)
	}
	p.expect(";")
	if !p.tok.is(")") {
		stmt.Update = p.parseExpression(false)
	}
	p.expect(")")
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *parser) isLetDecl() bool {
	nt := p.peek()
	return nt.kind == tName || nt.is("[") || nt.is("{")
}

func (p *parser) parseForIn(left jsast.Stmt, await bool) jsast.Stmt {
	of := p.tok.value == "of"
	p.next()
	var right jsast.Expr
	if of {
		right = p.parseAssign(false)
	} else {
		right = p.parseExpression(false)
	}
	p.expect(")")
	return &jsast.ForIn{Left: left, Right: right, Body: p.parseStatement(), Of: of, Await: await}
}

func (p *parser) parseTry() jsast.Stmt {
	p.next()
	stmt := &jsast.Try{Block: p.parseBlock()}
	if p.eatName("catch") {
		if p.eat("(") {
			stmt.Param = p.parseBindingTarget()
			p.expect(")")
		}
		stmt.Handler = p.parseBlock()
	}
	if p.eatName("finally") {
		stmt.Finalizer = p.parseBlock()
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.failAt(p.tok, "missing catch or finally after try")
	}
	return stmt
}

func (p *parser) parseSwitch() jsast.Stmt {
	p.next()
	p.expect("(")
	stmt := &jsast.Switch{Disc: p.parseExpression(false)}
	p.expect(")")
	p.expect("{")
	for !p.tok.is("}") {
		c := &jsast.SwitchCase{}
		switch {
		case p.eatName("case"):
			c.Test = p.parseExpression(false)
		case p.eatName("default"):
		default:
			p.unexpected()
		}
		p.expect(":")
		for !p.tok.is("}") && !p.tok.isName("case") && !p.tok.isName("default") {
			if p.tok.kind == tEOF {
				p.unexpected()
			}
			c.Body = append(c.Body, p.parseStatement())
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	p.next()
	return stmt
}

func (p *parser) parseModuleSource() *jsast.String {
	if p.tok.kind != tString {
		p.failAt(p.tok, "expected module specifier but found %q", p.tok.raw)
	}
	s := &jsast.String{Value: p.tok.value, Raw: p.tok.raw}
	p.next()
	return s
}

func (p *parser) parseImport() jsast.Stmt {
	p.next()
	decl := &jsast.Import{}
	if p.tok.kind == tString {
		decl.Source = p.parseModuleSource()
		p.semicolon()
		return decl
	}

	if p.tok.kind == tName && !p.tok.isName("from") {
		decl.Default = p.identifier()
		if !p.eat(",") {
			p.expectName("from")
			decl.Source = p.parseModuleSource()
			p.semicolon()
			return decl
		}
	}

	switch {
	case p.eat("*"):
		p.expectName("as")
		decl.Namespace = p.identifier()
	case p.eat("{"):
		for !p.tok.is("}") {
			if p.tok.kind != tName && p.tok.kind != tString {
				p.unexpected()
			}
			spec := jsast.ImportSpec{Imported: p.tok.value, Local: p.tok.value}
			p.next()
			if p.eatName("as") {
				spec.Local = p.identifier()
			}
			decl.Named = append(decl.Named, spec)
			if !p.eat(",") {
				break
			}
		}
		p.expect("}")
	default:
		p.unexpected()
	}

	p.expectName("from")
	decl.Source = p.parseModuleSource()
	p.semicolon()
	return decl
}

func (p *parser) parseExport() jsast.Stmt {
	p.next()

	if p.eatName("default") {
		switch {
		case p.tok.isName("function"):
			return &jsast.ExportDefault{X: p.parseFunction(false)}
		case p.tok.isName("async") && p.peek().isName("function"):
			p.next()
			return &jsast.ExportDefault{X: p.parseFunction(true)}
		case p.tok.isName("class"):
			return &jsast.ExportDefault{X: p.parseClass()}
		}
		x := p.parseAssign(false)
		p.semicolon()
		return &jsast.ExportDefault{X: x}
	}

	if p.eat("*") {
		decl := &jsast.ExportAll{}
		if p.eatName("as") {
			decl.As = p.identifier()
		}
		p.expectName("from")
		decl.Source = p.parseModuleSource()
		p.semicolon()
		return decl
	}

	if p.eat("{") {
		decl := &jsast.ExportList{}
		for !p.tok.is("}") {
			if p.tok.kind != tName && p.tok.kind != tString {
				p.unexpected()
			}
			spec := jsast.ExportSpec{Local: p.tok.value, Exported: p.tok.value}
			p.next()
			if p.eatName("as") {
				if p.tok.kind != tName && p.tok.kind != tString {
					p.unexpected()
				}
				spec.Exported = p.tok.value
				p.next()
			}
			decl.Specs = append(decl.Specs, spec)
			if !p.eat(",") {
				break
			}
		}
		p.expect("}")
		if p.eatName("from") {
			decl.Source = p.parseModuleSource()
		}
		p.semicolon()
		return decl
	}

	return &jsast.ExportDecl{Decl: p.parseStatement()}
}

// ---------------------------------------------------------------------------
// Functions and classes
// ---------------------------------------------------------------------------

// parseFunction parses `function [*] [name] (params) { body }` with the
// current token on the function keyword.
func (p *parser) parseFunction(async bool) *jsast.Function {
	p.next()
	fn := &jsast.Function{Async: async, Generator: p.eat("*")}
	if p.tok.kind == tName {
		fn.Name = p.identifier()
	}
	fn.Params = p.parseParams()
	fn.Body = p.parseFunctionBody(async, fn.Generator)
	return fn
}

func (p *parser) parseParams() []jsast.Expr {
	p.expect("(")
	params := []jsast.Expr{}
	for !p.tok.is(")") {
		if p.eat("...") {
			params = append(params, &jsast.Spread{X: p.parseBindingTarget()})
		} else {
			params = append(params, p.parseAssign(false))
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	return params
}

func (p *parser) parseFunctionBody(async, generator bool) *jsast.Block {
	prevAsync, prevGen := p.inAsync, p.inGenerator
	p.inAsync, p.inGenerator = async, generator
	body := p.parseBlock()
	p.inAsync, p.inGenerator = prevAsync, prevGen
	return body
}

// parseClass parses a class with the current token on the class keyword.
func (p *parser) parseClass() *jsast.Class {
	p.next()
	class := &jsast.Class{}
	if p.tok.kind == tName && !p.tok.isName("extends") {
		class.Name = p.identifier()
	}
	if p.eatName("extends") {
		class.Super = p.parseLeftHandSide()
	}

	p.expect("{")
	for !p.tok.is("}") {
		if p.eat(";") {
			continue
		}
		if p.tok.kind == tEOF {
			p.unexpected()
		}
		class.Members = append(class.Members, p.parseClassMember())
	}
	p.next()
	return class
}

// isModifier reports whether the current name token acts as a modifier
// (static, async, get, set) rather than as a member key.
func (p *parser) isModifier(name string) bool {
	if !p.tok.isName(name) {
		return false
	}
	nt := p.peek()
	if nt.is("(") || nt.is("=") || nt.is(";") || nt.is("}") || nt.is(",") || nt.is(":") || nt.kind == tEOF {
		return false
	}
	return !(name == "async" && nt.nlBefore)
}

func (p *parser) parseClassMember() *jsast.ClassMember {
	m := &jsast.ClassMember{Kind: jsast.MemberField}
	if p.isModifier("static") {
		p.next()
		m.Static = true
	}

	async := false
	if p.isModifier("async") {
		p.next()
		async = true
	}
	generator := p.eat("*")
	kind := jsast.MemberMethod
	if p.isModifier("get") {
		p.next()
		kind = jsast.MemberGet
	} else if p.isModifier("set") {
		p.next()
		kind = jsast.MemberSet
	}

	m.Key, m.Computed = p.parsePropertyKey()

	if p.tok.is("(") {
		m.Kind = kind
		fn := &jsast.Function{Async: async, Generator: generator}
		fn.Params = p.parseParams()
		fn.Body = p.parseFunctionBody(async, generator)
		m.Value = fn
		return m
	}

	if async || generator || kind != jsast.MemberMethod {
		p.unexpected()
	}
	if p.eat("=") {
		m.Value = p.parseAssign(false)
	}
	p.semicolon()
	return m
}

func (p *parser) parsePropertyKey() (jsast.Expr, bool) {
	t := p.tok
	switch t.kind {
	case tName, tPrivateName:
		p.next()
		return &jsast.Ident{Name: t.value}, false
	case tString:
		p.next()
		return &jsast.String{Value: t.value, Raw: t.raw}, false
	case tNumber:
		p.next()
		return &jsast.Number{Raw: t.raw}, false
	}
	if p.eat("[") {
		key := p.parseAssign(false)
		p.expect("]")
		return key, true
	}
	p.unexpected()
	return nil, false
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func (p *parser) parseExpression(noIn bool) jsast.Expr {
	x := p.parseAssign(noIn)
	if !p.tok.is(",") {
		return x
	}
	seq := &jsast.Seq{Exprs: []jsast.Expr{x}}
	for p.eat(",") {
		seq.Exprs = append(seq.Exprs, p.parseAssign(noIn))
	}
	return seq
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true,
	"^=": true, "&&=": true, "||=": true, "??=": true,
}

func (p *parser) parseAssign(noIn bool) jsast.Expr {
	if p.inGenerator && p.tok.isName("yield") {
		return p.parseYield(noIn)
	}
	left := p.parseConditional(noIn)
	if p.tok.kind == tPunct && assignOps[p.tok.value] {
		op := p.tok.value
		p.next()
		return &jsast.Assign{Op: op, Target: left, Value: p.parseAssign(noIn)}
	}
	return left
}

func (p *parser) parseYield(noIn bool) jsast.Expr {
	p.next()
	y := &jsast.Yield{}
	if p.tok.nlBefore {
		return y
	}
	y.Delegate = p.eat("*")
	switch {
	case p.tok.kind == tEOF, p.tok.is(")"), p.tok.is("]"), p.tok.is("}"),
		p.tok.is(","), p.tok.is(";"), p.tok.is(":"):
		return y
	}
	y.X = p.parseAssign(noIn)
	return y
}

func (p *parser) parseConditional(noIn bool) jsast.Expr {
	test := p.parseBinary(1, noIn)
	if _, ok := test.(*jsast.Arrow); ok {
		return test
	}
	if !p.eat("?") {
		return test
	}
	cons := p.parseAssign(false)
	p.expect(":")
	return &jsast.Cond{Test: test, Cons: cons, Alt: p.parseAssign(noIn)}
}

// binaryPrec returns the binding power of a binary operator, or 0 if the
// token is not one.
func binaryPrec(t token, noIn bool) int {
	if t.kind == tName {
		switch t.value {
		case "instanceof":
			return 8
		case "in":
			if noIn {
				return 0
			}
			return 8
		}
		return 0
	}
	if t.kind != tPunct {
		return 0
	}
	switch t.value {
	case "??":
		return 1
	case "||":
		return 2
	case "&&":
		return 3
	case "|":
		return 4
	case "^":
		return 5
	case "&":
		return 6
	case "==", "!=", "===", "!==":
		return 7
	case "<", ">", "<=", ">=":
		return 8
	case "<<", ">>", ">>>":
		return 9
	case "+", "-":
		return 10
	case "*", "/", "%":
		return 11
	case "**":
		return 12
	}
	return 0
}

func (p *parser) parseBinary(minPrec int, noIn bool) jsast.Expr {
	left := p.parseUnary()
	if _, ok := left.(*jsast.Arrow); ok {
		return left
	}
	for {
		prec := binaryPrec(p.tok, noIn)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := p.tok.value
		p.next()
		nextMin := prec + 1
		if op == "**" {
			nextMin = prec
		}
		left = &jsast.Binary{Op: op, L: left, R: p.parseBinary(nextMin, noIn)}
	}
}

func (p *parser) parseUnary() jsast.Expr {
	t := p.tok
	switch {
	case t.kind == tPunct:
		switch t.value {
		case "!", "~", "+", "-":
			p.next()
			return &jsast.Unary{Op: t.value, X: p.parseUnary()}
		case "++", "--":
			p.next()
			return &jsast.Update{Op: t.value, Prefix: true, X: p.parseUnary()}
		}
	case t.kind == tName:
		switch t.value {
		case "typeof", "void", "delete":
			p.next()
			return &jsast.Unary{Op: t.value, X: p.parseUnary()}
		case "await":
			if p.inAsync {
				p.next()
				return &jsast.Await{X: p.parseUnary()}
			}
		}
	}

	x := p.parseLeftHandSide()
	if (p.tok.is("++") || p.tok.is("--")) && !p.tok.nlBefore {
		op := p.tok.value
		p.next()
		return &jsast.Update{Op: op, X: x}
	}
	return x
}

func (p *parser) parseLeftHandSide() jsast.Expr {
	var x jsast.Expr
	if p.tok.isName("new") {
		x = p.parseNew()
	} else {
		x = p.parsePrimary()
	}
	if _, ok := x.(*jsast.Arrow); ok {
		return x
	}
	return p.parseSuffixes(x, true)
}

func (p *parser) parseSuffixes(x jsast.Expr, calls bool) jsast.Expr {
	for {
		switch {
		case p.tok.is("."):
			p.next()
			x = &jsast.Member{X: x, Name: p.memberName()}
		case p.tok.is("?.") && calls:
			p.next()
			switch {
			case p.tok.is("("):
				x = &jsast.Call{Callee: x, Args: p.parseArguments(), Optional: true}
			case p.eat("["):
				idx := p.parseExpression(false)
				p.expect("]")
				x = &jsast.Index{X: x, Index: idx, Optional: true}
			default:
				x = &jsast.Member{X: x, Name: p.memberName(), Optional: true}
			}
		case p.tok.is("["):
			p.next()
			idx := p.parseExpression(false)
			p.expect("]")
			x = &jsast.Index{X: x, Index: idx}
		case p.tok.is("(") && calls:
			x = &jsast.Call{Callee: x, Args: p.parseArguments()}
		case p.tok.kind == tNoSubTemplate || p.tok.kind == tTemplateHead:
			x = &jsast.TaggedTemplate{Tag: x, Quasi: p.parseTemplate()}
		default:
			return x
		}
	}
}

func (p *parser) memberName() string {
	if p.tok.kind != tName && p.tok.kind != tPrivateName {
		p.unexpected()
	}
	name := p.tok.value
	p.next()
	return name
}

func (p *parser) parseNew() jsast.Expr {
	p.next()
	if p.eat(".") {
		return &jsast.Member{X: &jsast.Ident{Name: "new"}, Name: p.memberName()}
	}
	var callee jsast.Expr
	if p.tok.isName("new") {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	callee = p.parseSuffixes(callee, false)
	n := &jsast.New{Callee: callee}
	if p.tok.is("(") {
		n.Args = p.parseArguments()
	}
	return n
}

func (p *parser) parseArguments() []jsast.Expr {
	p.expect("(")
	args := []jsast.Expr{}
	for !p.tok.is(")") {
		if p.eat("...") {
			args = append(args, &jsast.Spread{X: p.parseAssign(false)})
		} else {
			args = append(args, p.parseAssign(false))
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	return args
}

func (p *parser) parsePrimary() jsast.Expr {
	t := p.tok
	switch t.kind {
	case tName:
		switch t.value {
		case "this":
			p.next()
			return &jsast.This{}
		case "super":
			p.next()
			return &jsast.Super{}
		case "null":
			p.next()
			return &jsast.Null{}
		case "true", "false":
			p.next()
			return &jsast.Bool{Value: t.value == "true"}
		case "function":
			return p.parseFunction(false)
		case "class":
			return p.parseClass()
		case "new":
			return p.parseNew()
		case "async":
			if x := p.parseAsync(); x != nil {
				return x
			}
		}
		p.next()
		if p.tok.is("=>") && !p.tok.nlBefore {
			return p.parseArrowBody([]jsast.Expr{&jsast.Ident{Name: t.value}}, false)
		}
		return &jsast.Ident{Name: t.value}
	case tPrivateName:
		p.next()
		return &jsast.Ident{Name: t.value}
	case tNumber:
		p.next()
		return &jsast.Number{Raw: t.raw}
	case tString:
		p.next()
		return &jsast.String{Value: t.value, Raw: t.raw}
	case tNoSubTemplate, tTemplateHead:
		return p.parseTemplate()
	case tPunct:
		switch t.value {
		case "(":
			return p.parseParenOrArrow(false)
		case "[":
			return p.parseArray()
		case "{":
			return p.parseObject()
		case "/", "/=":
			p.tok = p.lex.rescanRegExp(t)
			re := &jsast.RegExp{Pattern: p.tok.value, Flags: p.tok.raw[len(p.tok.value)+2:]}
			p.next()
			return re
		case "<":
			return p.parseJSXElement(ctxExpr)
		}
	}
	p.unexpected()
	return nil
}

// parseAsync handles `async function`, `async x => ...` and
// `async (...) => ...`. It returns nil when async is a plain identifier.
func (p *parser) parseAsync() jsast.Expr {
	nt := p.peek()
	if nt.nlBefore {
		return nil
	}
	switch {
	case nt.isName("function"):
		p.next()
		return p.parseFunction(true)
	case nt.kind == tName:
		s := p.save()
		p.next()
		param := &jsast.Ident{Name: p.identifier()}
		if p.tok.is("=>") && !p.tok.nlBefore {
			return p.parseArrowBody([]jsast.Expr{param}, true)
		}
		p.restore(s)
	case nt.is("("):
		p.next()
		return p.parseParenOrArrow(true)
	}
	return nil
}

// parseParenOrArrow parses a parenthesized expression or, when followed by
// an arrow, an arrow function parameter list. With async set the list
// becomes call arguments of `async` if no arrow follows.
func (p *parser) parseParenOrArrow(async bool) jsast.Expr {
	open := p.tok
	p.next()
	items := []jsast.Expr{}
	for !p.tok.is(")") {
		if p.eat("...") {
			items = append(items, &jsast.Spread{X: p.parseAssign(false)})
		} else {
			items = append(items, p.parseAssign(false))
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")

	if p.tok.is("=>") && !p.tok.nlBefore {
		return p.parseArrowBody(items, async)
	}
	if async {
		return p.parseSuffixes(&jsast.Call{Callee: &jsast.Ident{Name: "async"}, Args: items}, true)
	}
	switch len(items) {
	case 0:
		p.failAt(open, "empty parenthesized expression")
	case 1:
		if _, ok := items[0].(*jsast.Spread); ok {
			p.failAt(open, "unexpected spread in parenthesized expression")
		}
		return items[0]
	}
	return &jsast.Seq{Exprs: items}
}

func (p *parser) parseArrowBody(params []jsast.Expr, async bool) jsast.Expr {
	p.expect("=>")
	arrow := &jsast.Arrow{Params: params, Async: async}
	if p.tok.is("{") {
		arrow.Block = p.parseFunctionBody(async, false)
		return arrow
	}
	prevAsync, prevGen := p.inAsync, p.inGenerator
	p.inAsync, p.inGenerator = async, false
	arrow.X = p.parseAssign(false)
	p.inAsync, p.inGenerator = prevAsync, prevGen
	return arrow
}

func (p *parser) parseArray() jsast.Expr {
	p.next()
	arr := &jsast.Array{Elems: []jsast.Expr{}}
	for !p.tok.is("]") {
		if p.eat(",") {
			arr.Elems = append(arr.Elems, nil)
			continue
		}
		if p.eat("...") {
			arr.Elems = append(arr.Elems, &jsast.Spread{X: p.parseAssign(false)})
		} else {
			arr.Elems = append(arr.Elems, p.parseAssign(false))
		}
		if !p.tok.is("]") {
			p.expect(",")
		}
	}
	p.next()
	return arr
}

func (p *parser) parseObject() jsast.Expr {
	p.next()
	obj := &jsast.Object{Props: []jsast.Expr{}}
	for !p.tok.is("}") {
		if p.eat("...") {
			obj.Props = append(obj.Props, &jsast.Spread{X: p.parseAssign(false)})
		} else {
			obj.Props = append(obj.Props, p.parseProperty())
		}
		if !p.tok.is("}") {
			p.expect(",")
		}
	}
	p.next()
	return obj
}

func (p *parser) parseProperty() jsast.Expr {
	async := false
	if p.isModifier("async") {
		p.next()
		async = true
	}
	generator := p.eat("*")
	kind := jsast.PropMethod
	if p.isModifier("get") {
		p.next()
		kind = jsast.PropGet
	} else if p.isModifier("set") {
		p.next()
		kind = jsast.PropSet
	}

	keyTok := p.tok
	key, computed := p.parsePropertyKey()

	if p.tok.is("(") {
		fn := &jsast.Function{Async: async, Generator: generator}
		fn.Params = p.parseParams()
		fn.Body = p.parseFunctionBody(async, generator)
		return &jsast.Property{Kind: kind, Key: key, Computed: computed, Value: fn}
	}
	if async || generator || kind != jsast.PropMethod {
		p.unexpected()
	}
	if p.eat(":") {
		return &jsast.Property{Key: key, Computed: computed, Value: p.parseAssign(false)}
	}

	if keyTok.kind != tName || computed {
		p.unexpected()
	}
	value := jsast.Expr(&jsast.Ident{Name: keyTok.value})
	if p.eat("=") {
		value = &jsast.Assign{Op: "=", Target: value, Value: p.parseAssign(false)}
	}
	return &jsast.Property{Key: key, Value: value, Shorthand: true}
}

func (p *parser) parseTemplate() *jsast.Template {
	t := p.tok
	tpl := &jsast.Template{Quasis: []string{t.value}}
	if t.kind == tNoSubTemplate {
		p.next()
		return tpl
	}
	for {
		p.next()
		tpl.Exprs = append(tpl.Exprs, p.parseExpression(false))
		if !p.tok.is("}") {
			p.unexpected()
		}
		p.tok = p.lex.rescanTemplate(p.tok)
		tpl.Quasis = append(tpl.Quasis, p.tok.value)
		if p.tok.kind == tTemplateTail {
			p.next()
			return tpl
		}
	}
}
