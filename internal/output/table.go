package output

import (
	"slices"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableStyle defines the style for table output.
type TableStyle struct {
	Border      lipgloss.Border
	BorderColor lipgloss.Color
	HeaderStyle lipgloss.Style
	CellStyle   lipgloss.Style
}

// DefaultTableStyle returns the default table style.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Border:      lipgloss.NormalBorder(),
		BorderColor: ColorDimGray,
		HeaderStyle: lipgloss.NewStyle().Bold(true).Foreground(ColorCyan),
		CellStyle:   lipgloss.NewStyle(),
	}
}

// Table represents a styled table.
type Table struct {
	headers []string
	rows    [][]string
	style   TableStyle
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		style:   DefaultTableStyle(),
	}
}

// Row adds a row to the table.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// String renders the table as a string.
func (t *Table) String() string {
	tbl := table.New().
		Border(t.style.Border).
		BorderStyle(lipgloss.NewStyle().Foreground(t.style.BorderColor)).
		Headers(t.headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.style.HeaderStyle
			}
			return t.style.CellStyle.Padding(0, 1)
		})

	for _, row := range t.rows {
		tbl.Row(row...)
	}

	return tbl.String()
}

// RenderRoleTable renders per-role module counts of a report, including
// failures and warnings.
func RenderRoleTable(r *BuildReport) string {
	type tally struct{ compiled, warned, failed int }
	tallies := make(map[string]*tally)
	for _, m := range r.Modules {
		tl, ok := tallies[m.Role]
		if !ok {
			tl = &tally{}
			tallies[m.Role] = tl
		}
		switch m.Status() {
		case StatusFailed:
			tl.failed++
		case StatusWarned:
			tl.warned++
		default:
			tl.compiled++
		}
	}

	roles := append([]string(nil), roleOrder...)
	var extra []string
	for role := range tallies {
		if !slices.Contains(roleOrder, role) {
			extra = append(extra, role)
		}
	}
	sort.Strings(extra)
	roles = append(roles, extra...)

	t := NewTable("ROLE", "COMPILED", "WARNED", "FAILED")
	for _, role := range roles {
		tl, ok := tallies[role]
		if !ok {
			continue
		}
		name := role
		if name == "" {
			name = "-"
		}
		t.Row(name, strconv.Itoa(tl.compiled), strconv.Itoa(tl.warned), strconv.Itoa(tl.failed))
	}
	return t.String()
}
