package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	werrors "github.com/wncli/wn/internal/errors"
)

// Paths contains the resolved filesystem locations of a build.
type Paths struct {
	// Root is the source directory module ids are relative to.
	Root string

	// Entry is the entry module id.
	Entry string

	// Target is the output directory.
	Target string

	// NodeModules is where bare packages are vendored from.
	NodeModules string
}

// ResolvePaths turns the configured source and target into absolute
// paths under projectDir. Source may name the entry file directly, in
// which case its directory becomes the root.
func ResolvePaths(fsys afero.Fs, projectDir string, cfg *Config) (*Paths, error) {
	source, err := absPath(projectDir, cfg.Source)
	if err != nil {
		return nil, err
	}
	target, err := absPath(projectDir, cfg.Target)
	if err != nil {
		return nil, err
	}

	info, err := fsys.Stat(source)
	if err != nil {
		return nil, werrors.NewNotFoundError(
			"source does not exist",
			source,
			"set source in wn.yaml or pass it to wn build",
		)
	}

	p := &Paths{
		Root:        source,
		Entry:       cfg.Entry,
		Target:      target,
		NodeModules: filepath.Join(projectDir, "node_modules"),
	}
	if !info.IsDir() {
		p.Root = filepath.Dir(source)
		p.Entry = filepath.Base(source)
	}
	return p, nil
}

func absPath(base, path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	return filepath.Join(base, expanded), nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// Handle ~username (not supported, return as-is)
	return path, nil
}
