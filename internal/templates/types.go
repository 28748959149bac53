// Package templates provides the embedded project scaffold for wn init.
package templates

// TemplateData holds the data passed to template rendering.
type TemplateData struct {
	// Name is the project name (from --name or the directory name).
	Name string

	// Title is the human-readable title shown in the navigation bar.
	Title string

	// RuntimeVersion is the runtime package version the project depends on.
	RuntimeVersion string
}

// GenerateOptions configures project generation behavior.
type GenerateOptions struct {
	// TargetDir is the directory to generate the project in.
	TargetDir string

	// Name overrides the project name.
	Name string

	// Force allows overwriting files in non-empty directories.
	Force bool
}

// GenerateResult contains the result of project generation.
type GenerateResult struct {
	// Files is the list of files created, relative to TargetDir.
	Files []string

	// TargetDir is the directory where files were created.
	TargetDir string
}

// descriptions annotate scaffold files in the init summary.
var descriptions = map[string]string{
	"app.jsx":                "application entry",
	"pages/index.jsx":        "first page",
	"components/counter.jsx": "example component",
	"components/counter.css": "component stylesheet",
	"wn.yaml":                "build configuration",
	"package.json":           "runtime dependency",
}

// Describe returns the summary description of a scaffold file.
func Describe(path string) string {
	return descriptions[path]
}
