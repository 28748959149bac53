package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"
)

//go:embed scaffold
var scaffoldFS embed.FS

const scaffoldRoot = "scaffold"

// Renderer handles template rendering with data substitution.
type Renderer struct {
	data TemplateData
}

// NewRenderer creates a new renderer with the given template data.
func NewRenderer(data TemplateData) *Renderer {
	return &Renderer{data: data}
}

// RenderFile renders a single template file and returns the content.
func (r *Renderer) RenderFile(name string, content []byte) ([]byte, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}

	return buf.Bytes(), nil
}

// TemplateFile represents a file to be generated from a template.
type TemplateFile struct {
	// SourcePath is the path within the embedded filesystem.
	SourcePath string

	// TargetPath is the slash-separated output path (.tmpl suffix removed).
	TargetPath string

	// Content is the rendered content.
	Content []byte
}

// RenderScaffold renders every scaffold file, in lexical order.
func (r *Renderer) RenderScaffold() ([]TemplateFile, error) {
	var files []TemplateFile

	err := fs.WalkDir(scaffoldFS, scaffoldRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		content, err := fs.ReadFile(scaffoldFS, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}
		rendered, err := r.RenderFile(p, content)
		if err != nil {
			return err
		}

		rel := strings.TrimPrefix(p, scaffoldRoot+"/")
		files = append(files, TemplateFile{
			SourcePath: p,
			TargetPath: strings.TrimSuffix(rel, ".tmpl"),
			Content:    rendered,
		})
		return nil
	})

	return files, err
}

// ListFiles returns the target paths of the scaffold.
func ListFiles() ([]string, error) {
	var files []string
	err := fs.WalkDir(scaffoldFS, scaffoldRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel := strings.TrimPrefix(p, scaffoldRoot+"/")
		files = append(files, strings.TrimSuffix(path.Clean(rel), ".tmpl"))
		return nil
	})
	return files, err
}
