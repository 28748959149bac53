package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/wncli/wn/internal/build"
	"github.com/wncli/wn/internal/config"
	"github.com/wncli/wn/internal/emit"
	"github.com/wncli/wn/internal/jsparse"
	"github.com/wncli/wn/internal/output"
	"github.com/wncli/wn/internal/scan"
	"github.com/wncli/wn/internal/transform"
)

// roleUnknown labels modules that failed before their role was known.
const roleUnknown = "unknown"

// compiler runs complete builds of one project.
type compiler struct {
	fs    afero.Fs
	cfg   *config.Config
	paths *config.Paths
}

// compile scans the project, compiles every module reachable from the
// entry, writes the outputs and vendors the packages they require.
//
// files lists the sources and stylesheet locations the build read, for
// the watcher. It is nil when the project could not be scanned.
func (c *compiler) compile(ctx context.Context) (*output.BuildReport, []string, error) {
	start := time.Now()
	ctx = output.WithLogger(ctx)
	parser := jsparse.New()

	project, err := scan.New(c.fs, parser, output.Logger()).Scan(c.paths.Root, c.paths.Entry)
	if err != nil {
		return nil, nil, err
	}
	styles := scan.Styles{Fs: c.fs, Root: project.Root}
	files := watchedFiles(project, styles)

	emitter := emit.New(c.fs, emit.Options{
		Target:         c.paths.Target,
		NodeModules:    c.paths.NodeModules,
		ModulesDir:     c.cfg.Runtime.ModulesDir,
		CompatModule:   c.cfg.Runtime.CompatModule,
		RuntimePackage: c.cfg.Runtime.Package,
	})
	transformer := transform.New(transform.Options{
		CompatModule: c.cfg.Runtime.CompatModule,
		ModulesDir:   c.cfg.Runtime.ModulesDir,
		PagesDir:     c.cfg.PagesDir,
	})
	driver := build.NewDriver(parser, transformer,
		build.WithSink(emitter),
		build.WithStyleSource(styles),
	)

	output.Debug("building project",
		"root", project.Root,
		"entry", project.Entry,
		"modules", len(project.Graph.Modules),
		"target", c.paths.Target,
	)
	result, err := driver.Run(ctx, project.Graph, project.Entry)
	if err != nil {
		return nil, files, err
	}

	report := newBuildReport(result, emitter.Written(), project.Unresolved)
	for _, err := range emitter.Vendor(ctx, project.Packages) {
		var pkgErr *emit.PackageError
		if !errors.As(err, &pkgErr) {
			return nil, files, err
		}
		report.PackageWarnings = append(report.PackageWarnings, pkgErr.Package)
	}
	for _, pkg := range project.Packages {
		if !contains(report.PackageWarnings, pkg) {
			report.Packages = append(report.Packages, pkg)
		}
	}
	report.Duration = time.Since(start)
	return report, files, nil
}

// newBuildReport lists compiled modules in compile order, then failed
// modules by id. Local imports that matched no file are reported as
// warnings of the importing module.
func newBuildReport(result *build.Result, written []emit.Written, unresolved map[string][]string) *output.BuildReport {
	files := make(map[string][]string, len(written))
	for _, w := range written {
		files[w.ID] = w.Files
		output.ModuleLogger(w.ID).Debug("module written", "role", w.Role, "files", len(w.Files))
	}

	report := &output.BuildReport{}
	for _, id := range result.Order {
		out := result.Outputs[id]
		m := output.ModuleReport{
			ID:    id,
			Role:  string(out.Role),
			Files: files[id],
		}
		for _, source := range unresolved[id] {
			m.Warnings = append(m.Warnings, fmt.Sprintf("module %q: import %q matches no file", id, source))
		}
		for _, w := range out.Warnings {
			m.Warnings = append(m.Warnings, w.Error())
		}
		report.Modules = append(report.Modules, m)
	}
	for _, err := range result.Errors() {
		id := ""
		var failure build.ModuleFailure
		if errors.As(err, &failure) {
			id = failure.Module()
		}
		report.Modules = append(report.Modules, output.ModuleReport{
			ID:    id,
			Role:  roleUnknown,
			Error: err.Error(),
		})
	}
	return report
}

// watchedFiles returns the module sources and every sibling stylesheet
// location, so creating a stylesheet triggers a rebuild.
func watchedFiles(project *scan.Project, styles scan.Styles) []string {
	files := project.Files()
	for _, id := range project.Graph.IDs() {
		files = append(files, styles.Paths(id)...)
	}
	return files
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
