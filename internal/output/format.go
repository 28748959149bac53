package output

// OutputFormat specifies how a build report is printed.
type OutputFormat string

const (
	// FormatText prints role-labelled lines and a summary.
	FormatText OutputFormat = "text"

	// FormatJSON prints the report as one JSON document.
	FormatJSON OutputFormat = "json"
)

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// ValidFormats returns a slice of valid output format strings.
func ValidFormats() []string {
	return []string{"text", "json"}
}
