// Package emit writes compiled modules and vendored packages into the
// target directory.
package emit

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/wncli/wn/internal/transform"
)

// Artifact extensions.
const (
	ExtBehavior   = ".js"
	ExtConfig     = ".json"
	ExtMarkup     = ".wxml"
	ExtStylesheet = ".wxss"
)

// Options configures an Emitter.
type Options struct {
	// Target is the output directory.
	Target string

	// NodeModules is the directory packages are vendored from.
	NodeModules string

	// ModulesDir is the directory under Target that receives vendored
	// packages.
	ModulesDir string

	// CompatModule is the specifier of the runtime compatibility layer.
	CompatModule string

	// RuntimePackage is the package that ships the compatibility layer.
	RuntimePackage string
}

// Written records the files written for one module.
type Written struct {
	ID    string
	Role  transform.Role
	Files []string
}

// Emitter writes build outputs. It implements build.Sink.
type Emitter struct {
	fs   afero.Fs
	opts Options

	mu      sync.Mutex
	written []Written
}

// New creates an Emitter writing to fs.
func New(fs afero.Fs, opts Options) *Emitter {
	def := transform.DefaultOptions()
	if opts.ModulesDir == "" {
		opts.ModulesDir = def.ModulesDir
	}
	if opts.CompatModule == "" {
		opts.CompatModule = def.CompatModule
	}
	return &Emitter{fs: fs, opts: opts}
}

// BasePath returns the extension-less output path of a module, relative
// to the target directory. Pages and components are written into a
// directory of their own.
func BasePath(id string, role transform.Role) string {
	dir, file := path.Split(id)
	name := strings.TrimSuffix(file, path.Ext(file))
	if role.OwnsDirectory() {
		return path.Join(dir, name, name)
	}
	return path.Join(dir, name)
}

// Write implements build.Sink.
func (e *Emitter) Write(ctx context.Context, out *transform.Output) error {
	logger := log.FromContext(ctx)
	base := BasePath(out.ID, out.Role)

	artifacts := []struct {
		ext     string
		content string
	}{
		{ExtBehavior, out.Behavior},
		{ExtConfig, out.ConfigJSON()},
		{ExtMarkup, out.Markup},
		{ExtStylesheet, out.Stylesheet()},
	}

	rec := Written{ID: out.ID, Role: out.Role}
	for _, a := range artifacts {
		if a.content == "" {
			continue
		}
		rel := base + a.ext
		if err := e.writeFile(rel, []byte(a.content)); err != nil {
			return err
		}
		rec.Files = append(rec.Files, rel)
		logger.Debug("wrote file", "module", out.ID, "file", rel)
	}

	e.mu.Lock()
	e.written = append(e.written, rec)
	e.mu.Unlock()
	return nil
}

// Written returns the modules written so far, in write order.
func (e *Emitter) Written() []Written {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Written(nil), e.written...)
}

func (e *Emitter) writeFile(rel string, data []byte) error {
	dst := filepath.Join(e.opts.Target, filepath.FromSlash(rel))
	if err := e.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := afero.WriteFile(e.fs, dst, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
