package jsast

// Rewriter produces a new tree from an existing one. Nodes are visited in
// post-order: children are rewritten first, then Leave is called with a
// fresh copy of the node holding the rewritten children. The input tree is
// never modified.
//
// Non-computed property keys, class member keys, member names and JSX
// names are not visited as nodes.
type Rewriter struct {
	// Enter is called before a node's children. Returning false keeps the
	// node unchanged and skips both its children and Leave.
	Enter func(Node) bool

	// Leave returns the replacement for a node whose children have already
	// been rewritten. A nil Leave keeps the copy.
	Leave func(Node) Node
}

// Program rewrites every top-level statement.
func (r *Rewriter) Program(p *Program) *Program {
	return &Program{Body: r.stmts(p.Body)}
}

// Stmt rewrites a statement. A nil statement is returned as is.
func (r *Rewriter) Stmt(s Stmt) Stmt {
	if s == nil {
		return nil
	}
	if r.Enter != nil && !r.Enter(s) {
		return s
	}
	var out Stmt
	switch n := s.(type) {
	case *Import:
		c := *n
		out = &c
	case *ExportDefault:
		out = &ExportDefault{X: r.Expr(n.X)}
	case *ExportDecl:
		out = &ExportDecl{Decl: r.Stmt(n.Decl)}
	case *ExportList:
		c := *n
		out = &c
	case *ExportAll:
		c := *n
		out = &c
	case *VarDecl:
		decls := make([]*Declarator, len(n.Decls))
		for i, d := range n.Decls {
			decls[i] = &Declarator{Target: r.Expr(d.Target), Init: r.Expr(d.Init)}
		}
		out = &VarDecl{Kind: n.Kind, Decls: decls}
	case *FuncDecl:
		out = &FuncDecl{Func: r.function(n.Func)}
	case *ClassDecl:
		out = &ClassDecl{Class: r.class(n.Class)}
	case *ExprStmt:
		out = &ExprStmt{X: r.Expr(n.X)}
	case *Return:
		out = &Return{X: r.Expr(n.X)}
	case *If:
		out = &If{Test: r.Expr(n.Test), Cons: r.Stmt(n.Cons), Alt: r.Stmt(n.Alt)}
	case *For:
		out = &For{Init: r.Stmt(n.Init), Test: r.Expr(n.Test), Update: r.Expr(n.Update), Body: r.Stmt(n.Body)}
	case *ForIn:
		out = &ForIn{Left: r.Stmt(n.Left), Right: r.Expr(n.Right), Body: r.Stmt(n.Body), Of: n.Of, Await: n.Await}
	case *While:
		out = &While{Test: r.Expr(n.Test), Body: r.Stmt(n.Body)}
	case *DoWhile:
		out = &DoWhile{Body: r.Stmt(n.Body), Test: r.Expr(n.Test)}
	case *Block:
		out = &Block{Body: r.stmts(n.Body)}
	case *Break:
		c := *n
		out = &c
	case *Continue:
		c := *n
		out = &c
	case *Throw:
		out = &Throw{X: r.Expr(n.X)}
	case *Try:
		out = &Try{
			Block:     r.block(n.Block),
			Param:     r.Expr(n.Param),
			Handler:   r.block(n.Handler),
			Finalizer: r.block(n.Finalizer),
		}
	case *Switch:
		cases := make([]*SwitchCase, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = &SwitchCase{Test: r.Expr(c.Test), Body: r.stmts(c.Body)}
		}
		out = &Switch{Disc: r.Expr(n.Disc), Cases: cases}
	case *Labeled:
		out = &Labeled{Label: n.Label, Body: r.Stmt(n.Body)}
	case *Empty:
		out = &Empty{}
	default:
		out = s
	}
	if r.Leave != nil {
		if res, ok := r.Leave(out).(Stmt); ok {
			return res
		}
	}
	return out
}

// Expr rewrites an expression. A nil expression is returned as is.
func (r *Rewriter) Expr(e Expr) Expr {
	switch n := e.(type) {
	case nil:
		return nil
	case *Function:
		return r.function(n)
	case *Class:
		return r.class(n)
	}
	if r.Enter != nil && !r.Enter(e) {
		return e
	}
	var out Expr
	switch n := e.(type) {
	case *Ident:
		c := *n
		out = &c
	case *This:
		out = &This{}
	case *Super:
		out = &Super{}
	case *String:
		c := *n
		out = &c
	case *Number:
		c := *n
		out = &c
	case *Bool:
		c := *n
		out = &c
	case *Null:
		out = &Null{}
	case *RegExp:
		c := *n
		out = &c
	case *Template:
		out = r.template(n)
	case *TaggedTemplate:
		out = &TaggedTemplate{Tag: r.Expr(n.Tag), Quasi: r.template(n.Quasi)}
	case *Array:
		out = &Array{Elems: r.exprs(n.Elems)}
	case *Property:
		p := *n
		if p.Computed {
			p.Key = r.Expr(p.Key)
		}
		p.Value = r.Expr(p.Value)
		out = &p
	case *Object:
		out = &Object{Props: r.exprs(n.Props)}
	case *Arrow:
		out = &Arrow{Params: r.exprs(n.Params), Block: r.block(n.Block), X: r.Expr(n.X), Async: n.Async}
	case *Unary:
		out = &Unary{Op: n.Op, X: r.Expr(n.X)}
	case *Update:
		out = &Update{Op: n.Op, Prefix: n.Prefix, X: r.Expr(n.X)}
	case *Binary:
		out = &Binary{Op: n.Op, L: r.Expr(n.L), R: r.Expr(n.R)}
	case *Assign:
		out = &Assign{Op: n.Op, Target: r.Expr(n.Target), Value: r.Expr(n.Value)}
	case *Cond:
		out = &Cond{Test: r.Expr(n.Test), Cons: r.Expr(n.Cons), Alt: r.Expr(n.Alt)}
	case *Call:
		out = &Call{Callee: r.Expr(n.Callee), Args: r.exprs(n.Args), Optional: n.Optional}
	case *New:
		out = &New{Callee: r.Expr(n.Callee), Args: r.exprs(n.Args)}
	case *Member:
		out = &Member{X: r.Expr(n.X), Name: n.Name, Optional: n.Optional}
	case *Index:
		out = &Index{X: r.Expr(n.X), Index: r.Expr(n.Index), Optional: n.Optional}
	case *Spread:
		out = &Spread{X: r.Expr(n.X)}
	case *Seq:
		out = &Seq{Exprs: r.exprs(n.Exprs)}
	case *Await:
		out = &Await{X: r.Expr(n.X)}
	case *Yield:
		out = &Yield{X: r.Expr(n.X), Delegate: n.Delegate}
	case *JSXElement:
		attrs := make([]*JSXAttr, len(n.Attrs))
		for i, a := range n.Attrs {
			attrs[i] = &JSXAttr{Name: a.Name, Value: r.Expr(a.Value), Spread: r.Expr(a.Spread)}
		}
		out = &JSXElement{Name: n.Name, Attrs: attrs, Children: r.exprs(n.Children), SelfClosing: n.SelfClosing}
	case *JSXText:
		c := *n
		out = &c
	case *JSXExprContainer:
		out = &JSXExprContainer{X: r.Expr(n.X)}
	default:
		out = e
	}
	if r.Leave != nil {
		if res, ok := r.Leave(out).(Expr); ok {
			return res
		}
	}
	return out
}

func (r *Rewriter) stmts(list []Stmt) []Stmt {
	if list == nil {
		return nil
	}
	out := make([]Stmt, len(list))
	for i, s := range list {
		out[i] = r.Stmt(s)
	}
	return out
}

func (r *Rewriter) exprs(list []Expr) []Expr {
	if list == nil {
		return nil
	}
	out := make([]Expr, len(list))
	for i, e := range list {
		out[i] = r.Expr(e)
	}
	return out
}

func (r *Rewriter) block(b *Block) *Block {
	if b == nil {
		return nil
	}
	if nb, ok := r.Stmt(b).(*Block); ok {
		return nb
	}
	return b
}

func (r *Rewriter) template(t *Template) *Template {
	if t == nil {
		return nil
	}
	return &Template{Quasis: append([]string(nil), t.Quasis...), Exprs: r.exprs(t.Exprs)}
}

func (r *Rewriter) function(f *Function) *Function {
	if f == nil {
		return nil
	}
	if r.Enter != nil && !r.Enter(f) {
		return f
	}
	out := &Function{
		Name:      f.Name,
		Params:    r.exprs(f.Params),
		Body:      r.block(f.Body),
		Async:     f.Async,
		Generator: f.Generator,
	}
	if r.Leave != nil {
		if res, ok := r.Leave(out).(*Function); ok {
			return res
		}
	}
	return out
}

func (r *Rewriter) class(c *Class) *Class {
	if c == nil {
		return nil
	}
	if r.Enter != nil && !r.Enter(c) {
		return c
	}
	members := make([]*ClassMember, len(c.Members))
	for i, m := range c.Members {
		nm := *m
		if nm.Computed {
			nm.Key = r.Expr(nm.Key)
		}
		nm.Value = r.Expr(nm.Value)
		members[i] = &nm
	}
	out := &Class{Name: c.Name, Super: r.Expr(c.Super), Members: members}
	if r.Leave != nil {
		if res, ok := r.Leave(out).(*Class); ok {
			return res
		}
	}
	return out
}

// Inspect calls fn for every node reachable from n in pre-order. Returning
// false from fn skips the node's children.
func Inspect(n Node, fn func(Node) bool) {
	r := &Rewriter{Enter: fn}
	switch v := n.(type) {
	case *Program:
		r.Program(v)
	case Stmt:
		r.Stmt(v)
	case Expr:
		r.Expr(v)
	}
}
