package templates

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// projectNameRegex matches names usable as an npm package name and inside
// single-quoted script strings.
var projectNameRegex = regexp.MustCompile(`^[a-z][a-z0-9._-]*$`)

// ValidateProjectName checks if a project name is valid.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if len(name) > 214 {
		return fmt.Errorf("invalid project name %q: must be at most 214 characters", name)
	}
	if !projectNameRegex.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must start with a lowercase letter and contain only lowercase letters, digits, '.', '-' and '_'", name)
	}
	return nil
}

// SanitizeName converts a directory name to a valid project name.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('-')
		}
	}

	result := strings.TrimLeft(b.String(), "0123456789._-")
	if result == "" {
		return "app"
	}
	return result
}

// Title turns a project name into a display title: "my-app" becomes
// "My App".
func Title(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
