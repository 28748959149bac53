package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// roleOrder is the order roles are listed in summaries.
var roleOrder = []string{"app", "page", "component", "game", "template", "local_module"}

// ModuleReport is the outcome of one module.
type ModuleReport struct {
	ID       string   `json:"id"`
	Role     string   `json:"role,omitempty"`
	Files    []string `json:"files,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Status returns the status word printed for the module.
func (m ModuleReport) Status() string {
	switch {
	case m.Error != "":
		return StatusFailed
	case len(m.Warnings) > 0:
		return StatusWarned
	default:
		return StatusCompiled
	}
}

// BuildReport summarizes one build.
type BuildReport struct {
	Modules []ModuleReport `json:"modules"`

	// Packages lists the vendored packages.
	Packages []string `json:"packages,omitempty"`

	// PackageWarnings lists packages that could not be vendored.
	PackageWarnings []string `json:"packageWarnings,omitempty"`

	Duration time.Duration `json:"-"`
}

// Failed returns the number of failed modules.
func (r *BuildReport) Failed() int {
	n := 0
	for _, m := range r.Modules {
		if m.Error != "" {
			n++
		}
	}
	return n
}

// Counts returns the number of compiled modules per role.
func (r *BuildReport) Counts() map[string]int {
	counts := make(map[string]int)
	for _, m := range r.Modules {
		if m.Error == "" {
			counts[m.Role]++
		}
	}
	return counts
}

// Summary renders the one-line summary, without styling.
func (r *BuildReport) Summary() string {
	failed := r.Failed()
	if failed > 0 {
		return fmt.Sprintf("%d of %d modules failed", failed, len(r.Modules))
	}

	counts := r.Counts()
	var parts []string
	for _, role := range roleOrder {
		if n := counts[role]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, role))
		}
	}
	msg := "compiled " + pluralize(len(r.Modules), "module")
	if len(parts) > 0 {
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	if r.Duration > 0 {
		msg += " in " + r.Duration.Round(time.Millisecond).String()
	}
	return msg
}

// WriteReport prints the report in the given format.
func WriteReport(w io.Writer, r *BuildReport, format OutputFormat) error {
	if format == FormatJSON {
		return writeReportJSON(w, r)
	}
	return writeReportText(w, r)
}

func writeReportJSON(w io.Writer, r *BuildReport) error {
	doc := struct {
		*BuildReport
		DurationMS int64 `json:"durationMs"`
		Failed     int   `json:"failed"`
	}{r, r.Duration.Milliseconds(), r.Failed()}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeReportText(w io.Writer, r *BuildReport) error {
	var sb strings.Builder
	for _, m := range r.Modules {
		sb.WriteString(FormatModuleLine(m.Role, m.ID, m.Status()))
		sb.WriteString("\n")
		if m.Error != "" {
			sb.WriteString(indent(m.Error, "    "))
			sb.WriteString("\n")
		}
	}
	for _, pkg := range r.PackageWarnings {
		sb.WriteString(render(StatusStyle(StatusWarned), "missing package"))
		sb.WriteString(" ")
		sb.WriteString(pkg)
		sb.WriteString("\n")
	}
	if r.Failed() > 0 {
		sb.WriteString(FormatCross(r.Summary()))
	} else {
		sb.WriteString(FormatCheckmark(r.Summary()))
	}
	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func pluralize(count int, label string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, label)
	}
	return fmt.Sprintf("%d %ss", count, label)
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
