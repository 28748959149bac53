package transform

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/wncli/wn/internal/jsast"
)

// resolution accumulates the outcome of import resolution for a module.
type resolution struct {
	// body is the program with resolved statements removed and surviving
	// sources rewritten.
	body []jsast.Stmt

	pages      []string
	components *Object
	templates  map[string]string
	// templatePaths keeps template markup paths in import order.
	templatePaths []string
	relations     *Object
}

// resolver applies the import rules of one module.
type resolver struct {
	id   string
	role Role
	deps map[string]*Output
	root string
	opts Options
}

func (r *resolver) resolve(body []jsast.Stmt) resolution {
	res := resolution{
		components: NewObject(),
		templates:  make(map[string]string),
		relations:  NewObject(),
	}
	for _, s := range body {
		switch n := s.(type) {
		case *jsast.Import:
			if keep := r.importDecl(n, &res); keep != nil {
				res.body = append(res.body, keep)
			}
			continue
		case *jsast.ExportList:
			if n.Source != nil {
				c := *n
				c.Source = r.passthrough(n.Source.Value)
				res.body = append(res.body, &c)
				continue
			}
		case *jsast.ExportAll:
			c := *n
			c.Source = r.passthrough(n.Source.Value)
			res.body = append(res.body, &c)
			continue
		}
		res.body = append(res.body, s)
	}
	return res
}

// importDecl resolves one import statement and returns the statement to
// keep, or nil when it is removed.
func (r *resolver) importDecl(n *jsast.Import, res *resolution) jsast.Stmt {
	source := n.Source.Value
	local := ""
	if names := n.Locals(); len(names) > 0 {
		local = names[0]
	}

	if depID, dep := r.lookup(source); dep != nil {
		switch dep.Role {
		case RolePage:
			res.pages = append(res.pages, outputPath(r.rootRelative(depID)))
			return nil
		case RoleComponent:
			p := r.upward(outputPath(r.fromHere(depID)))
			if local != "" {
				res.components.Set(local, p)
			}
			res.relations.Set(p, "child")
			return nil
		case RoleTemplate:
			rel := r.fromHere(depID)
			p := r.upward(path.Join(path.Dir(rel), stem(rel)+".wxml"))
			if local != "" {
				if _, seen := res.templates[local]; !seen {
					res.templatePaths = append(res.templatePaths, p)
				}
				res.templates[local] = p
			}
			return nil
		}
	}

	if isBare(source) && source == r.opts.CompatModule {
		c := *n
		c.Default, c.Named = n.Default, nil
		if roleMarkers[c.Default] {
			c.Default = ""
		}
		for _, spec := range n.Named {
			if !roleMarkers[spec.Local] {
				c.Named = append(c.Named, spec)
			}
		}
		if c.Default == "" && c.Namespace == "" && len(c.Named) == 0 && len(n.Locals()) > 0 {
			return nil
		}
		c.Source = r.passthrough(source)
		return &c
	}

	c := *n
	c.Source = r.passthrough(source)
	return &c
}

// roleMarkers are compile-time-only bindings of the compatibility module.
var roleMarkers = map[string]bool{
	"App": true, "Page": true, "Component": true, "Game": true,
	"WXSS": true, "CSS": true,
}

// passthrough rewrites the source of a surviving statement.
func (r *resolver) passthrough(source string) *jsast.String {
	if isBare(source) {
		p := path.Join(r.rootFromHere(), r.opts.ModulesDir, source+".js")
		return &jsast.String{Value: r.upward(p)}
	}
	p := withScriptExt(source)
	if r.role.OwnsDirectory() {
		p = path.Join("..", p)
	}
	return &jsast.String{Value: p}
}

// lookup finds the dependency a specifier refers to.
func (r *resolver) lookup(source string) (string, *Output) {
	if isBare(source) {
		if dep, ok := r.deps[source]; ok {
			return source, dep
		}
		return "", nil
	}
	base := path.Join(path.Dir(r.id), source)
	if path.IsAbs(source) {
		base = path.Clean(strings.TrimPrefix(source, "/"))
	}
	for _, candidate := range []string{base, base + ".jsx", base + ".js", base + "/index.jsx", base + "/index.js"} {
		if dep, ok := r.deps[candidate]; ok {
			return candidate, dep
		}
	}
	return "", nil
}

// fromHere returns id relative to the directory of the current module.
func (r *resolver) fromHere(id string) string {
	return relSlash(path.Dir(r.id), id)
}

// rootFromHere returns the source root relative to the current module.
func (r *resolver) rootFromHere() string {
	return relSlash(path.Dir(r.id), r.root)
}

// rootRelative returns id relative to the source root.
func (r *resolver) rootRelative(id string) string {
	return relSlash(r.root, id)
}

// upward prefixes a path with one `../` when the current module is written
// into its own directory.
func (r *resolver) upward(p string) string {
	if r.role.OwnsDirectory() {
		return path.Join("..", p)
	}
	return p
}

// parentRelations converts reverse references into relation keys.
func (r *resolver) parentRelations(referencedBy []string, relations *Object) {
	for _, ref := range referencedBy {
		relations.Set(path.Join("..", outputPath(r.fromHere(ref))), "parent")
	}
}

// outputPath is the extension-less path of a module written into its own
// directory: the module's directory, then the basename twice.
func outputPath(rel string) string {
	return path.Join(path.Dir(rel), stem(rel), stem(rel))
}

func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// isBare reports whether a specifier names a package.
func isBare(source string) bool {
	return !strings.HasPrefix(source, ".") && !strings.HasPrefix(source, "/")
}

// withScriptExt gives a local specifier an explicit .js extension.
func withScriptExt(source string) string {
	switch path.Ext(source) {
	case ".js", ".jsx", ".mjs":
		return strings.TrimSuffix(source, path.Ext(source)) + ".js"
	}
	return source + ".js"
}

// relSlash returns target relative to base using forward slashes. Paths
// that cannot be related are returned cleaned.
func relSlash(base, target string) string {
	if base == "" {
		base = "."
	}
	rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(target))
	if err != nil {
		return path.Clean(target)
	}
	return filepath.ToSlash(rel)
}

// hasSegment reports whether any segment of p equals name.
func hasSegment(p, name string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == name {
			return true
		}
	}
	return false
}
