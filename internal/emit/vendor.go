package emit

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	werrors "github.com/wncli/wn/internal/errors"
)

// PackageError reports a bare import that could not be vendored. The
// build continues; the package is simply absent from the output.
type PackageError struct {
	Package string

	// Tried lists the candidate files that were looked up.
	Tried []string
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("package %q not found (tried %s)", e.Package, strings.Join(e.Tried, ", "))
}

func (e *PackageError) Unwrap() error {
	return werrors.ErrAuthoring
}

// Vendor copies every package into the modules directory of the target.
// Packages that cannot be found are returned as *PackageError values.
func (e *Emitter) Vendor(ctx context.Context, packages []string) []error {
	logger := log.FromContext(ctx)
	var errs []error
	for _, pkg := range packages {
		candidates := e.packageSources(pkg)
		src, ok := e.firstExisting(candidates)
		if !ok {
			err := &PackageError{Package: pkg, Tried: candidates}
			logger.Warn("package not found", "package", pkg)
			errs = append(errs, err)
			continue
		}
		data, err := afero.ReadFile(e.fs, src)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading %s: %w", src, err))
			continue
		}
		rel := path.Join(e.opts.ModulesDir, pkg+ExtBehavior)
		if err := e.writeFile(rel, data); err != nil {
			errs = append(errs, err)
			continue
		}
		logger.Debug("vendored package", "package", pkg, "from", src, "file", rel)
	}
	return errs
}

// packageSources lists the files a package may be copied from, most
// specific first. The compatibility layer ships inside the runtime
// package.
func (e *Emitter) packageSources(pkg string) []string {
	nm := e.opts.NodeModules
	if pkg == e.opts.CompatModule && e.opts.RuntimePackage != "" {
		return []string{
			filepath.Join(nm, filepath.FromSlash(e.opts.RuntimePackage), "dist", pkg+ExtBehavior),
		}
	}
	name := path.Base(pkg)
	dir := filepath.Join(nm, filepath.FromSlash(pkg))
	return []string{
		filepath.Join(dir, "dist", name+ExtBehavior),
		filepath.Join(dir, name+ExtBehavior),
		filepath.Join(nm, filepath.FromSlash(pkg)+ExtBehavior),
	}
}

func (e *Emitter) firstExisting(candidates []string) (string, bool) {
	for _, c := range candidates {
		info, err := e.fs.Stat(c)
		if err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}
