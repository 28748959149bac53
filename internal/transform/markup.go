package transform

import (
	"regexp"
	"strings"

	"github.com/wncli/wn/internal/jsast"
	"github.com/wncli/wn/internal/jsprint"
)

var concise = jsprint.Options{Concise: true}

// markupWriter renders a markup tree in the platform's binding syntax.
// The input tree is only read.
type markupWriter struct {
	// templates maps local names bound to imported templates.
	templates map[string]string
	warn      *warnings
	b         strings.Builder
}

// renderMarkup renders el and pretty-prints the result.
func renderMarkup(el *jsast.JSXElement, templates map[string]string, warn *warnings) string {
	w := &markupWriter{templates: templates, warn: warn}
	w.element(el)
	return prettifyMarkup(w.b.String())
}

// renderTemplate wraps a template body in a named template block.
func renderTemplate(name string, el *jsast.JSXElement, templates map[string]string, warn *warnings) string {
	w := &markupWriter{templates: templates, warn: warn}
	w.element(el)
	return prettifyMarkup(`<template name="` + name + "\">\n " + w.b.String() + " \n</template>")
}

func (w *markupWriter) element(el *jsast.JSXElement) {
	name := el.Name
	if name == "" {
		name = "block"
	}
	if _, ok := w.templates[name]; ok {
		w.invocation(name, el)
		return
	}

	w.b.WriteString("<" + name)
	for _, a := range el.Attrs {
		if text, ok := w.attr(name, a); ok {
			w.b.WriteString(" " + text)
		}
	}
	if el.SelfClosing {
		w.b.WriteString(" />")
		return
	}
	w.b.WriteString(">")
	w.children(el.Children)
	w.b.WriteString("</" + name + ">")
}

func (w *markupWriter) children(children []jsast.Expr) {
	for _, c := range children {
		switch n := c.(type) {
		case *jsast.JSXText:
			w.b.WriteString(n.Raw)
		case *jsast.JSXElement:
			w.element(n)
		case *jsast.JSXExprContainer:
			switch x := n.X.(type) {
			case nil:
			case *jsast.JSXElement:
				w.element(x)
			default:
				w.b.WriteString("{{" + jsprint.Expr(x, concise) + "}}")
			}
		}
	}
}

// attr renders one attribute of an ordinary element. The second result is
// false when the attribute is dropped.
func (w *markupWriter) attr(element string, a *jsast.JSXAttr) (string, bool) {
	if a.Spread != nil {
		w.warn.add("<"+element+">", "spread attribute {...%s} dropped", jsprint.Expr(a.Spread, concise))
		return "", false
	}
	name := attrName(a.Name)

	switch v := a.Value.(type) {
	case nil:
		if a.Name == "else" {
			return name, true
		}
		return name + `="{{true}}"`, true
	case *jsast.String:
		if v.Raw != "" {
			return name + "=" + v.Raw, true
		}
		return name + "=" + quoteAttr(v.Value), true
	case *jsast.JSXExprContainer:
		if v.X == nil {
			w.warn.add(a.Name, "empty expression dropped")
			return "", false
		}
		return name + "=" + quoteAttr(bindingValue(name, v.X)), true
	}
	w.warn.add(a.Name, "markup is not supported as an attribute value")
	return "", false
}

// attrName applies the directive and event renames.
func attrName(name string) string {
	if attrDirectives[name] {
		return "wx:" + name
	}
	if isEventAttr(name) {
		return "bind" + strings.ToLower(name[2:])
	}
	return name
}

// isEventAttr matches `on` followed by a word.
func isEventAttr(name string) bool {
	if len(name) < 3 || !strings.HasPrefix(name, "on") {
		return false
	}
	for _, c := range name[2:] {
		if !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// bindingValue renders an attribute expression.
func bindingValue(name string, x jsast.Expr) string {
	switch v := x.(type) {
	case *jsast.Template:
		var b strings.Builder
		for i, q := range v.Quasis {
			b.WriteString(q)
			if i < len(v.Exprs) {
				if id, ok := v.Exprs[i].(*jsast.Ident); ok {
					b.WriteString("{{" + id.Name + "}}")
				} else {
					b.WriteString("{{" + jsprint.Expr(v.Exprs[i], concise) + "}}")
				}
			}
		}
		return b.String()
	case *jsast.Object:
		return "{" + jsprint.Expr(v, concise) + "}"
	}
	text := jsprint.Expr(x, concise)
	if strings.HasPrefix(name, "bind") {
		return strings.Replace(text, "this.", "", 1)
	}
	return "{{" + text + "}}"
}

// invocation renders an element bound to an imported template as a
// template element carrying a single data binding.
func (w *markupWriter) invocation(name string, el *jsast.JSXElement) {
	var data []string
	for _, a := range el.Attrs {
		if a.Spread != nil {
			data = append(data, "..."+jsprint.Expr(a.Spread, concise))
			continue
		}
		switch v := a.Value.(type) {
		case nil:
			data = append(data, a.Name+": true")
		case *jsast.String:
			data = append(data, a.Name+": '"+v.Value+"'")
		case *jsast.JSXExprContainer:
			if id, ok := v.X.(*jsast.Ident); ok {
				if id.Name != a.Name {
					w.warn.add("<"+name+"> "+a.Name, "identifier %s must be passed as %s={%s}", id.Name, id.Name, id.Name)
					continue
				}
				data = append(data, id.Name)
				continue
			}
			if v.X == nil {
				continue
			}
			data = append(data, a.Name+": "+jsprint.Expr(v.X, concise))
		default:
			w.warn.add("<"+name+"> "+a.Name, "markup is not supported as template data")
		}
	}

	w.b.WriteString(`<template is="` + name + `" data=` + quoteAttr("{{"+strings.Join(data, ", ")+"}}") + ">")
	w.children(el.Children)
	w.b.WriteString("</template>")
}

// quoteAttr quotes an attribute value, preferring double quotes.
func quoteAttr(v string) string {
	if !strings.Contains(v, `"`) {
		return `"` + v + `"`
	}
	if !strings.Contains(v, "'") {
		return "'" + v + "'"
	}
	return `"` + strings.ReplaceAll(v, `"`, "&quot;") + `"`
}

var (
	tagBoundary  = regexp.MustCompile(`(>)(<)(/*)`)
	closedLine   = regexp.MustCompile(`.+</\w[^>]*>$`)
	closingLine  = regexp.MustCompile(`^</\w`)
	openingLine  = regexp.MustCompile(`^<\w([^>]*[^/])?>.*$`)
	markupIndent = "  "
)

// prettifyMarkup puts adjacent tags on separate lines and indents nested
// elements by two spaces. Blank lines are removed.
func prettifyMarkup(markup string) string {
	markup = tagBoundary.ReplaceAllString(markup, "$1\n$2$3")

	var b strings.Builder
	pad := 0
	for _, line := range strings.Split(markup, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		indent := 0
		switch {
		case closedLine.MatchString(line):
		case closingLine.MatchString(line):
			if pad > 0 {
				pad--
			}
		case openingLine.MatchString(line):
			indent = 1
		}
		b.WriteString(strings.Repeat(markupIndent, pad))
		b.WriteString(line)
		b.WriteString("\n")
		pad += indent
	}
	return strings.TrimSpace(b.String())
}

// importLines renders one import line per template path.
func importLines(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString(`<import src="` + p + "\" />\n")
	}
	return b.String()
}
