package scan

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// stylesheetExts are the sibling stylesheet extensions, in lookup order.
var stylesheetExts = []string{".wxss", ".css"}

// Styles reads the stylesheet that sits next to a module and shares its
// basename.
type Styles struct {
	Fs   afero.Fs
	Root string
}

// Stylesheet implements build.StyleSource.
func (s Styles) Stylesheet(id string) (string, bool) {
	for _, p := range s.Paths(id) {
		b, err := afero.ReadFile(s.Fs, p)
		if err == nil {
			return string(b), true
		}
	}
	return "", false
}

// Paths returns the stylesheet files looked up for a module, whether or
// not they exist.
func (s Styles) Paths(id string) []string {
	base := strings.TrimSuffix(id, path.Ext(id))
	paths := make([]string, len(stylesheetExts))
	for i, ext := range stylesheetExts {
		paths[i] = filepath.Join(s.Root, filepath.FromSlash(base+ext))
	}
	return paths
}
