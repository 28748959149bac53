// Package scan builds the dependency graph of a project by following
// import statements from an entry module.
package scan

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/wncli/wn/internal/build"
	werrors "github.com/wncli/wn/internal/errors"
	"github.com/wncli/wn/internal/jsast"
)

// candidateSuffixes are tried in order when resolving a local specifier.
var candidateSuffixes = []string{"", ".jsx", ".js", "/index.jsx", "/index.js"}

// Project is the result of a scan.
type Project struct {
	// Root is the source directory module ids are relative to.
	Root string

	// Entry is the id of the entry module.
	Entry string

	Graph *build.Graph

	// Packages lists bare package specifiers in first-seen order.
	Packages []string

	// Unresolved maps a module id to the local specifiers that matched no
	// file.
	Unresolved map[string][]string
}

// Files returns the file paths of all scanned modules.
func (p *Project) Files() []string {
	ids := p.Graph.IDs()
	files := make([]string, len(ids))
	for i, id := range ids {
		files[i] = filepath.Join(p.Root, filepath.FromSlash(id))
	}
	return files
}

// Scanner reads modules from a file system.
type Scanner struct {
	fs     afero.Fs
	parser build.Parser
	logger *log.Logger
}

// New creates a Scanner.
func New(fs afero.Fs, parser build.Parser, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{fs: fs, parser: parser, logger: logger}
}

// Scan follows imports from entry, a path relative to root.
//
// Modules that fail to parse are still part of the graph, without
// dependencies; the driver reports their syntax errors.
func (s *Scanner) Scan(root, entry string) (*Project, error) {
	entryID := path.Clean(filepath.ToSlash(entry))
	if !s.isFile(root, entryID) {
		return nil, werrors.NewNotFoundError(
			fmt.Sprintf("entry module %q does not exist", entry),
			filepath.Join(root, entry),
			"Set 'entry' in wn.yaml or pass the entry file as the build source.",
		)
	}

	p := &Project{
		Root:  root,
		Entry: entryID,
		Graph: &build.Graph{
			Modules:    make(map[string]build.Module),
			Referenced: make(map[string][]string),
		},
		Unresolved: make(map[string][]string),
	}
	queue := []string{entryID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := p.Graph.Modules[id]; seen {
			continue
		}
		deps, err := s.module(p, id)
		if err != nil {
			return nil, err
		}
		queue = append(queue, deps...)
	}
	return p, nil
}

func (s *Scanner) module(p *Project, id string) ([]string, error) {
	code, err := afero.ReadFile(s.fs, filepath.Join(p.Root, filepath.FromSlash(id)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", id, err)
	}

	mod := build.Module{Code: code}
	prog, err := s.parser.Parse(id, code)
	if err != nil {
		s.logger.Debug("module does not parse, skipping its imports", "module", id, "err", err)
		p.Graph.Modules[id] = mod
		return nil, nil
	}

	for _, source := range importSources(prog) {
		if isBare(source) {
			if !contains(p.Packages, source) {
				p.Packages = append(p.Packages, source)
			}
			continue
		}
		dep, ok := s.resolve(p.Root, id, source)
		if !ok {
			s.logger.Warn("import does not match a file", "module", id, "source", source)
			p.Unresolved[id] = append(p.Unresolved[id], source)
			continue
		}
		if contains(mod.Depended, dep) {
			continue
		}
		mod.Depended = append(mod.Depended, dep)
		if !contains(p.Graph.Referenced[dep], id) {
			p.Graph.Referenced[dep] = append(p.Graph.Referenced[dep], id)
		}
	}
	p.Graph.Modules[id] = mod
	return mod.Depended, nil
}

// resolve maps a local specifier to a module id.
func (s *Scanner) resolve(root, from, source string) (string, bool) {
	base := path.Join(path.Dir(from), source)
	if strings.HasPrefix(source, "/") {
		base = path.Clean(strings.TrimPrefix(source, "/"))
	}
	if base == ".." || strings.HasPrefix(base, "../") {
		return "", false
	}
	for _, suffix := range candidateSuffixes {
		if id := base + suffix; s.isFile(root, id) {
			return id, true
		}
	}
	return "", false
}

func (s *Scanner) isFile(root, id string) bool {
	info, err := s.fs.Stat(filepath.Join(root, filepath.FromSlash(id)))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// importSources returns the sources of import and re-export statements in
// program order.
func importSources(prog *jsast.Program) []string {
	var sources []string
	for _, s := range prog.Body {
		switch n := s.(type) {
		case *jsast.Import:
			sources = append(sources, n.Source.Value)
		case *jsast.ExportList:
			if n.Source != nil {
				sources = append(sources, n.Source.Value)
			}
		case *jsast.ExportAll:
			sources = append(sources, n.Source.Value)
		}
	}
	return sources
}

func isBare(source string) bool {
	return !strings.HasPrefix(source, ".") && !strings.HasPrefix(source, "/")
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
