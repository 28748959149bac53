// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"time"
)

// DefaultConfigFile is the project configuration file name.
const DefaultConfigFile = "wn.yaml"

// RuntimeConfig describes the runtime the compiled program links against.
type RuntimeConfig struct {
	// CompatModule is the import specifier of the compatibility layer.
	// Env: WN_RUNTIME_COMPATMODULE, Default: "wn"
	CompatModule string `json:"compatModule,omitempty" yaml:"compatModule,omitempty" mapstructure:"compatModule"`

	// Package is the npm package that ships the compatibility layer.
	// Env: WN_RUNTIME_PACKAGE, Default: "wn-cli"
	Package string `json:"package,omitempty" yaml:"package,omitempty" mapstructure:"package"`

	// ModulesDir is the output directory for vendored packages.
	// Env: WN_RUNTIME_MODULESDIR, Default: "modules"
	ModulesDir string `json:"modulesDir,omitempty" yaml:"modulesDir,omitempty" mapstructure:"modulesDir"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" yaml:"timestamps,omitempty" mapstructure:"timestamps"`
}

// WatchConfig contains watch mode settings.
type WatchConfig struct {
	// Debounce is the quiet period after a change before rebuilding,
	// as a Go duration string.
	Debounce string `json:"debounce,omitempty" yaml:"debounce,omitempty" mapstructure:"debounce"`
}

// Interval parses Debounce. An empty value yields the default.
func (w WatchConfig) Interval() (time.Duration, error) {
	if w.Debounce == "" {
		return defaultDebounce, nil
	}
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce: %w", err)
	}
	return d, nil
}

// Config represents the wn project configuration.
// Loaded from wn.yaml, validated against the embedded CUE schema.
type Config struct {
	// Source is the source directory or the entry file.
	// Env: WN_SOURCE
	Source string `json:"source,omitempty" yaml:"source,omitempty" mapstructure:"source"`

	// Target is the output directory.
	// Env: WN_TARGET
	Target string `json:"target,omitempty" yaml:"target,omitempty" mapstructure:"target"`

	// Entry is the entry module, relative to Source.
	// Env: WN_ENTRY
	Entry string `json:"entry,omitempty" yaml:"entry,omitempty" mapstructure:"entry"`

	// PagesDir is the directory name that marks page modules.
	PagesDir string `json:"pagesDir,omitempty" yaml:"pagesDir,omitempty" mapstructure:"pagesDir"`

	Runtime RuntimeConfig `json:"runtime,omitempty" yaml:"runtime,omitempty" mapstructure:"runtime"`

	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty" mapstructure:"log"`

	Watch WatchConfig `json:"watch,omitempty" yaml:"watch,omitempty" mapstructure:"watch"`
}

const defaultDebounce = 100 * time.Millisecond

// DefaultConfig returns a Config with all default values populated.
// Used by `wn config init` to generate the initial config file.
func DefaultConfig() *Config {
	timestamps := true
	return &Config{
		Source:   ".",
		Target:   "./dist",
		Entry:    "app.jsx",
		PagesDir: "pages",
		Runtime: RuntimeConfig{
			CompatModule: "wn",
			Package:      "wn-cli",
			ModulesDir:   "modules",
		},
		Log:   LogConfig{Timestamps: &timestamps},
		Watch: WatchConfig{Debounce: defaultDebounce.String()},
	}
}

// Timestamps reports whether log lines carry timestamps.
func (c *Config) Timestamps() bool {
	return c.Log.Timestamps == nil || *c.Log.Timestamps
}
