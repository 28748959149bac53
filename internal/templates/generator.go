package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/wncli/wn/internal/output"
	"github.com/wncli/wn/internal/version"
)

// Generator handles project generation from the scaffold.
type Generator struct {
	fs   afero.Fs
	opts GenerateOptions
}

// NewGenerator creates a new generator writing to fs.
func NewGenerator(fs afero.Fs, opts GenerateOptions) *Generator {
	return &Generator{fs: fs, opts: opts}
}

// Generate creates a new project from the scaffold.
func (g *Generator) Generate() (*GenerateResult, error) {
	name := g.opts.Name
	if name == "" {
		abs, err := filepath.Abs(g.opts.TargetDir)
		if err != nil {
			return nil, fmt.Errorf("resolving target directory: %w", err)
		}
		name = SanitizeName(filepath.Base(abs))
	}

	if err := ValidateProjectName(name); err != nil {
		return nil, err
	}

	if err := g.checkTargetDir(); err != nil {
		return nil, err
	}

	data := TemplateData{
		Name:           name,
		Title:          Title(name),
		RuntimeVersion: version.RuntimeVersion,
	}

	output.Debug("generating project",
		"name", name,
		"target", g.opts.TargetDir)

	files, err := NewRenderer(data).RenderScaffold()
	if err != nil {
		return nil, fmt.Errorf("rendering scaffold: %w", err)
	}

	createdFiles := make([]string, 0, len(files))
	for _, f := range files {
		targetPath := filepath.Join(g.opts.TargetDir, filepath.FromSlash(f.TargetPath))

		parentDir := filepath.Dir(targetPath)
		if err := g.fs.MkdirAll(parentDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", parentDir, err)
		}

		if !g.opts.Force {
			if _, err := g.fs.Stat(targetPath); err == nil {
				return nil, fmt.Errorf("file %s already exists; use --force to overwrite", targetPath)
			}
		}

		if err := afero.WriteFile(g.fs, targetPath, f.Content, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", targetPath, err)
		}

		output.Debug("created file", "path", f.TargetPath)
		createdFiles = append(createdFiles, f.TargetPath)
	}

	return &GenerateResult{
		Files:     createdFiles,
		TargetDir: g.opts.TargetDir,
	}, nil
}

// checkTargetDir validates the target directory.
func (g *Generator) checkTargetDir() error {
	info, err := g.fs.Stat(g.opts.TargetDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking target directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", g.opts.TargetDir)
	}

	entries, err := afero.ReadDir(g.fs, g.opts.TargetDir)
	if err != nil {
		return fmt.Errorf("reading target directory: %w", err)
	}

	if len(entries) > 0 && !g.opts.Force {
		return fmt.Errorf("directory %s is not empty; use --force to overwrite existing files", g.opts.TargetDir)
	}

	return nil
}
