// Package jsast defines the syntax tree for component source modules.
//
// The tree covers the ES module subset used by component authors plus
// class fields, object rest/spread and JSX. Patterns reuse expression
// nodes: an object pattern is an *Object, a default value is an *Assign
// with Op "=", and a rest element is a *Spread.
package jsast

// Node is implemented by every tree node.
type Node interface {
	node()
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmt()
}

// Program is a parsed module.
type Program struct {
	Body []Stmt
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// ImportSpec is one named binding of an import declaration.
type ImportSpec struct {
	Imported string
	Local    string
}

// Import is an import declaration. A declaration with no bindings is a
// side-effect import.
type Import struct {
	Default   string
	Namespace string
	Named     []ImportSpec
	Source    *String
}

// Locals returns the local binding names in declaration order.
func (i *Import) Locals() []string {
	var names []string
	if i.Default != "" {
		names = append(names, i.Default)
	}
	if i.Namespace != "" {
		names = append(names, i.Namespace)
	}
	for _, s := range i.Named {
		names = append(names, s.Local)
	}
	return names
}

// ExportDefault is `export default <expr>`. Class and function
// declarations are stored as *Class and *Function expressions.
type ExportDefault struct {
	X Expr
}

// ExportDecl is `export <declaration>`.
type ExportDecl struct {
	Decl Stmt
}

// ExportSpec is one entry of an export list.
type ExportSpec struct {
	Local    string
	Exported string
}

// ExportList is `export { a, b as c } [from "x"]`.
type ExportList struct {
	Specs  []ExportSpec
	Source *String
}

// ExportAll is `export * [as ns] from "x"`.
type ExportAll struct {
	As     string
	Source *String
}

// Declarator is one binding of a variable declaration.
type Declarator struct {
	Target Expr
	Init   Expr
}

// VarDecl is a var, let or const declaration.
type VarDecl struct {
	Kind  string
	Decls []*Declarator
}

// FuncDecl is a function declaration statement.
type FuncDecl struct {
	Func *Function
}

// ClassDecl is a class declaration statement.
type ClassDecl struct {
	Class *Class
}

// ExprStmt is an expression statement.
type ExprStmt struct {
	X Expr
}

// Return is a return statement. X is nil for a bare return.
type Return struct {
	X Expr
}

// If is an if statement. Alt may be nil.
type If struct {
	Test Expr
	Cons Stmt
	Alt  Stmt
}

// For is a classic three-clause for loop. Init is a *VarDecl, an *ExprStmt
// or nil.
type For struct {
	Init   Stmt
	Test   Expr
	Update Expr
	Body   Stmt
}

// ForIn is a for-in or for-of loop. Left is a *VarDecl without
// initializers or an assignment target expression wrapped in *ExprStmt.
type ForIn struct {
	Left  Stmt
	Right Expr
	Body  Stmt
	Of    bool
	Await bool
}

// While is a while loop.
type While struct {
	Test Expr
	Body Stmt
}

// DoWhile is a do-while loop.
type DoWhile struct {
	Body Stmt
	Test Expr
}

// Block is a braced statement list.
type Block struct {
	Body []Stmt
}

// Break is a break statement with an optional label.
type Break struct {
	Label string
}

// Continue is a continue statement with an optional label.
type Continue struct {
	Label string
}

// Throw is a throw statement.
type Throw struct {
	X Expr
}

// Try is a try statement. Param may be nil for an optional catch binding;
// Handler or Finalizer may be nil but not both.
type Try struct {
	Block     *Block
	Param     Expr
	Handler   *Block
	Finalizer *Block
}

// SwitchCase is one case clause; Test is nil for default.
type SwitchCase struct {
	Test Expr
	Body []Stmt
}

// Switch is a switch statement.
type Switch struct {
	Disc  Expr
	Cases []*SwitchCase
}

// Labeled is a labeled statement.
type Labeled struct {
	Label string
	Body  Stmt
}

// Empty is a lone semicolon.
type Empty struct{}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// Ident is an identifier reference or binding.
type Ident struct {
	Name string
}

// This is the `this` keyword.
type This struct{}

// Super is the `super` keyword.
type Super struct{}

// String is a string literal. Raw holds the source text including quotes
// and is empty for synthesized literals.
type String struct {
	Value string
	Raw   string
}

// Number is a numeric literal kept as source text.
type Number struct {
	Raw string
}

// Bool is a boolean literal.
type Bool struct {
	Value bool
}

// Null is the null literal.
type Null struct{}

// RegExp is a regular expression literal.
type RegExp struct {
	Pattern string
	Flags   string
}

// Template is a template literal. Quasis holds the raw text segments and
// always has one more element than Exprs.
type Template struct {
	Quasis []string
	Exprs  []Expr
}

// TaggedTemplate is a tag followed by a template literal.
type TaggedTemplate struct {
	Tag   Expr
	Quasi *Template
}

// Array is an array literal or pattern; nil elements are holes.
type Array struct {
	Elems []Expr
}

// PropKind distinguishes object literal members.
type PropKind int

const (
	// PropInit is `key: value` or a shorthand property.
	PropInit PropKind = iota
	// PropMethod is `key() {}`.
	PropMethod
	// PropGet is `get key() {}`.
	PropGet
	// PropSet is `set key(v) {}`.
	PropSet
)

// Property is one member of an object literal.
type Property struct {
	Kind      PropKind
	Key       Expr
	Computed  bool
	Value     Expr
	Shorthand bool
}

// Object is an object literal or pattern. Props holds *Property and
// *Spread nodes.
type Object struct {
	Props []Expr
}

// Function is a function expression or declaration. Body is nil only for
// synthesized placeholders.
type Function struct {
	Name      string
	Params    []Expr
	Body      *Block
	Async     bool
	Generator bool
}

// Arrow is an arrow function. Exactly one of Block and X is set: Block
// for a braced body, X for an expression body.
type Arrow struct {
	Params []Expr
	Block  *Block
	X      Expr
	Async  bool
}

// MemberKind distinguishes class members.
type MemberKind int

const (
	// MemberField is a class field with an optional initializer.
	MemberField MemberKind = iota
	// MemberMethod is a class method.
	MemberMethod
	// MemberGet is a getter.
	MemberGet
	// MemberSet is a setter.
	MemberSet
)

// ClassMember is one member of a class body. For fields Value is the
// initializer (possibly nil); for methods it is a *Function.
type ClassMember struct {
	Kind     MemberKind
	Static   bool
	Key      Expr
	Computed bool
	Value    Expr
}

// KeyName returns the member key as a plain name, or "" for computed keys.
func (m *ClassMember) KeyName() string {
	if m.Computed {
		return ""
	}
	return PropName(m.Key)
}

// Class is a class expression or declaration.
type Class struct {
	Name    string
	Super   Expr
	Members []*ClassMember
}

// Unary is a prefix operator expression.
type Unary struct {
	Op string
	X  Expr
}

// Update is ++ or --.
type Update struct {
	Op     string
	Prefix bool
	X      Expr
}

// Binary is a binary or logical operator expression.
type Binary struct {
	Op string
	L  Expr
	R  Expr
}

// Assign is an assignment, or a default value inside a pattern.
type Assign struct {
	Op     string
	Target Expr
	Value  Expr
}

// Cond is the conditional operator.
type Cond struct {
	Test Expr
	Cons Expr
	Alt  Expr
}

// Call is a call expression.
type Call struct {
	Callee   Expr
	Args     []Expr
	Optional bool
}

// New is a new expression.
type New struct {
	Callee Expr
	Args   []Expr
}

// Member is a dot member access.
type Member struct {
	X        Expr
	Name     string
	Optional bool
}

// Index is a computed member access.
type Index struct {
	X        Expr
	Index    Expr
	Optional bool
}

// Spread is `...x` in calls, literals and patterns.
type Spread struct {
	X Expr
}

// Seq is the comma operator.
type Seq struct {
	Exprs []Expr
}

// Await is an await expression.
type Await struct {
	X Expr
}

// Yield is a yield expression; X may be nil.
type Yield struct {
	X        Expr
	Delegate bool
}

// JSXAttr is one attribute of a JSX element. Spread attributes set Spread
// and leave Name empty. Value is nil for a boolean shorthand, otherwise a
// *String, *JSXExprContainer or *JSXElement.
type JSXAttr struct {
	Name   string
	Value  Expr
	Spread Expr
}

// JSXElement is a JSX element; an empty Name denotes a fragment.
type JSXElement struct {
	Name        string
	Attrs       []*JSXAttr
	Children    []Expr
	SelfClosing bool
}

// JSXText is literal text between JSX tags.
type JSXText struct {
	Raw string
}

// JSXExprContainer is `{expr}` inside JSX. X is nil for `{}`.
type JSXExprContainer struct {
	X Expr
}

// PropName returns the static name of a property key: identifiers,
// strings and numbers. Other keys yield "".
func PropName(key Expr) string {
	switch k := key.(type) {
	case *Ident:
		return k.Name
	case *String:
		return k.Value
	case *Number:
		return k.Raw
	}
	return ""
}

func (*Program) node()          {}
func (*Import) node()           {}
func (*ExportDefault) node()    {}
func (*ExportDecl) node()       {}
func (*ExportList) node()       {}
func (*ExportAll) node()        {}
func (*VarDecl) node()          {}
func (*FuncDecl) node()         {}
func (*ClassDecl) node()        {}
func (*ExprStmt) node()         {}
func (*Return) node()           {}
func (*If) node()               {}
func (*For) node()              {}
func (*ForIn) node()            {}
func (*While) node()            {}
func (*DoWhile) node()          {}
func (*Block) node()            {}
func (*Break) node()            {}
func (*Continue) node()         {}
func (*Throw) node()            {}
func (*Try) node()              {}
func (*Switch) node()           {}
func (*Labeled) node()          {}
func (*Empty) node()            {}
func (*Ident) node()            {}
func (*This) node()             {}
func (*Super) node()            {}
func (*String) node()           {}
func (*Number) node()           {}
func (*Bool) node()             {}
func (*Null) node()             {}
func (*RegExp) node()           {}
func (*Template) node()         {}
func (*TaggedTemplate) node()   {}
func (*Array) node()            {}
func (*Property) node()         {}
func (*Object) node()           {}
func (*Function) node()         {}
func (*Arrow) node()            {}
func (*Class) node()            {}
func (*Unary) node()            {}
func (*Update) node()           {}
func (*Binary) node()           {}
func (*Assign) node()           {}
func (*Cond) node()             {}
func (*Call) node()             {}
func (*New) node()              {}
func (*Member) node()           {}
func (*Index) node()            {}
func (*Spread) node()           {}
func (*Seq) node()              {}
func (*Await) node()            {}
func (*Yield) node()            {}
func (*JSXElement) node()       {}
func (*JSXText) node()          {}
func (*JSXExprContainer) node() {}

func (*Import) stmt()        {}
func (*ExportDefault) stmt() {}
func (*ExportDecl) stmt()    {}
func (*ExportList) stmt()    {}
func (*ExportAll) stmt()     {}
func (*VarDecl) stmt()       {}
func (*FuncDecl) stmt()      {}
func (*ClassDecl) stmt()     {}
func (*ExprStmt) stmt()      {}
func (*Return) stmt()        {}
func (*If) stmt()            {}
func (*For) stmt()           {}
func (*ForIn) stmt()         {}
func (*While) stmt()         {}
func (*DoWhile) stmt()       {}
func (*Block) stmt()         {}
func (*Break) stmt()         {}
func (*Continue) stmt()      {}
func (*Throw) stmt()         {}
func (*Try) stmt()           {}
func (*Switch) stmt()        {}
func (*Labeled) stmt()       {}
func (*Empty) stmt()         {}

func (*Ident) expr()            {}
func (*This) expr()             {}
func (*Super) expr()            {}
func (*String) expr()           {}
func (*Number) expr()           {}
func (*Bool) expr()             {}
func (*Null) expr()             {}
func (*RegExp) expr()           {}
func (*Template) expr()         {}
func (*TaggedTemplate) expr()   {}
func (*Array) expr()            {}
func (*Property) expr()         {}
func (*Object) expr()           {}
func (*Function) expr()         {}
func (*Arrow) expr()            {}
func (*Class) expr()            {}
func (*Unary) expr()            {}
func (*Update) expr()           {}
func (*Binary) expr()           {}
func (*Assign) expr()           {}
func (*Cond) expr()             {}
func (*Call) expr()             {}
func (*New) expr()              {}
func (*Member) expr()           {}
func (*Index) expr()            {}
func (*Spread) expr()           {}
func (*Seq) expr()              {}
func (*Await) expr()            {}
func (*Yield) expr()            {}
func (*JSXElement) expr()       {}
func (*JSXText) expr()          {}
func (*JSXExprContainer) expr() {}
