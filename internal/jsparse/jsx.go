package jsparse

import "github.com/wncli/wn/internal/jsast"

// jsxContext tells a finished JSX element how to scan the token after its
// closing angle bracket.
type jsxContext int

const (
	// ctxExpr resumes regular scanning.
	ctxExpr jsxContext = iota
	// ctxChild leaves scanning to the enclosing element's content loop.
	ctxChild
	// ctxAttr resumes tag scanning after an element-valued attribute.
	ctxAttr
)

// parseJSXElement parses an element or fragment with the current token on
// its opening angle bracket.
func (p *parser) parseJSXElement(ctx jsxContext) *jsast.JSXElement {
	p.tok = p.lex.nextJSXTag()
	el := &jsast.JSXElement{}
	if p.tok.is(">") {
		el.Children = p.parseJSXChildren("", ctx)
		return el
	}
	if p.tok.kind != tName {
		p.unexpected()
	}
	el.Name = p.parseJSXName()

	for {
		switch {
		case p.tok.is("{"):
			p.next()
			p.expect("...")
			spread := p.parseAssign(false)
			if !p.tok.is("}") {
				p.unexpected()
			}
			el.Attrs = append(el.Attrs, &jsast.JSXAttr{Spread: spread})
			p.tok = p.lex.nextJSXTag()
		case p.tok.kind == tName:
			el.Attrs = append(el.Attrs, p.parseJSXAttr())
		case p.tok.is("/"):
			p.tok = p.lex.nextJSXTag()
			if !p.tok.is(">") {
				p.unexpected()
			}
			el.SelfClosing = true
			p.finishJSX(ctx)
			return el
		case p.tok.is(">"):
			el.Children = p.parseJSXChildren(el.Name, ctx)
			return el
		default:
			p.unexpected()
		}
	}
}

// parseJSXName reads a possibly namespaced or dotted tag or attribute name.
func (p *parser) parseJSXName() string {
	name := p.tok.value
	p.tok = p.lex.nextJSXTag()
	for p.tok.is(".") || p.tok.is(":") {
		sep := p.tok.value
		p.tok = p.lex.nextJSXTag()
		if p.tok.kind != tName {
			p.unexpected()
		}
		name += sep + p.tok.value
		p.tok = p.lex.nextJSXTag()
	}
	return name
}

func (p *parser) parseJSXAttr() *jsast.JSXAttr {
	attr := &jsast.JSXAttr{Name: p.parseJSXName()}
	if !p.tok.is("=") {
		return attr
	}

	p.tok = p.lex.nextJSXTag()
	switch {
	case p.tok.kind == tString:
		attr.Value = &jsast.String{Value: p.tok.value, Raw: p.tok.raw}
		p.tok = p.lex.nextJSXTag()
	case p.tok.is("{"):
		p.next()
		container := &jsast.JSXExprContainer{}
		if !p.tok.is("}") {
			container.X = p.parseAssign(false)
		}
		if !p.tok.is("}") {
			p.unexpected()
		}
		attr.Value = container
		p.tok = p.lex.nextJSXTag()
	case p.tok.is("<"):
		attr.Value = p.parseJSXElement(ctxAttr)
	default:
		p.unexpected()
	}
	return attr
}

// parseJSXChildren reads element content up to and including the closing
// tag for name. An empty name closes a fragment.
func (p *parser) parseJSXChildren(name string, ctx jsxContext) []jsast.Expr {
	children := []jsast.Expr{}
	for {
		t := p.lex.nextJSXChild()
		switch {
		case t.kind == tJSXText:
			children = append(children, &jsast.JSXText{Raw: t.value})
		case t.is("{"):
			p.next()
			container := &jsast.JSXExprContainer{}
			if !p.tok.is("}") {
				if p.eat("...") {
					container.X = &jsast.Spread{X: p.parseExpression(false)}
				} else {
					container.X = p.parseExpression(false)
				}
			}
			if !p.tok.is("}") {
				p.unexpected()
			}
			children = append(children, container)
		case t.is("<"):
			s := p.save()
			if p.lex.nextJSXTag().is("/") {
				p.tok = p.lex.nextJSXTag()
				closing := ""
				if p.tok.kind == tName {
					closing = p.parseJSXName()
				}
				if closing != name {
					p.failAt(t, "expected closing tag </%s> but found </%s>", name, closing)
				}
				if !p.tok.is(">") {
					p.unexpected()
				}
				p.finishJSX(ctx)
				return children
			}
			p.restore(s)
			p.tok = t
			children = append(children, p.parseJSXElement(ctxChild))
		}
	}
}

func (p *parser) finishJSX(ctx jsxContext) {
	switch ctx {
	case ctxExpr:
		p.next()
	case ctxAttr:
		p.tok = p.lex.nextJSXTag()
	}
}
