package transform

import (
	"github.com/wncli/wn/internal/jsast"
)

// Role is the target construct a module compiles into.
type Role string

const (
	RoleApp         Role = "app"
	RolePage        Role = "page"
	RoleComponent   Role = "component"
	RoleGame        Role = "game"
	RoleTemplate    Role = "template"
	RoleLocalModule Role = "local_module"
)

// roleConstructors maps superclass identifiers to roles.
var roleConstructors = map[string]Role{
	"App":       RoleApp,
	"Page":      RolePage,
	"Component": RoleComponent,
	"Game":      RoleGame,
}

// Constructor returns the platform constructor called by the behavior
// script, or "" for roles without one.
func (r Role) Constructor() string {
	for name, role := range roleConstructors {
		if role == r {
			return name
		}
	}
	return ""
}

// OwnsDirectory reports whether modules of this role are written into a
// directory named after the module.
func (r Role) OwnsDirectory() bool {
	return r == RolePage || r == RoleComponent
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// exported is the default-exported construct of a module.
type exported struct {
	role Role

	// stmt is the index of the export statement in the program body.
	stmt int

	// class is set for the four class roles.
	class *jsast.Class

	// name and markup are set for templates.
	name   string
	markup *jsast.JSXElement
}

// Classify decides the role of a parsed module from its default export.
func Classify(prog *jsast.Program) Role {
	return classify(prog).role
}

func classify(prog *jsast.Program) exported {
	for i, s := range prog.Body {
		ed, ok := s.(*jsast.ExportDefault)
		if !ok {
			continue
		}
		switch x := ed.X.(type) {
		case *jsast.Class:
			if id, ok := x.Super.(*jsast.Ident); ok {
				if role, ok := roleConstructors[id.Name]; ok {
					return exported{role: role, stmt: i, class: x}
				}
			}
		case *jsast.Function:
			if el := returnedMarkup(x.Body); el != nil {
				return exported{role: RoleTemplate, stmt: i, name: x.Name, markup: el}
			}
		case *jsast.Arrow:
			el := returnedMarkup(x.Block)
			if x.Block == nil {
				el, _ = x.X.(*jsast.JSXElement)
			}
			if el != nil {
				return exported{role: RoleTemplate, stmt: i, markup: el}
			}
		}
		return exported{role: RoleLocalModule, stmt: i}
	}
	return exported{role: RoleLocalModule, stmt: -1}
}

// returnedMarkup finds the first top-level return statement of a body and
// returns its value if it is a markup tree.
func returnedMarkup(body *jsast.Block) *jsast.JSXElement {
	if body == nil {
		return nil
	}
	for _, s := range body.Body {
		if ret, ok := s.(*jsast.Return); ok {
			el, _ := ret.X.(*jsast.JSXElement)
			return el
		}
	}
	return nil
}
