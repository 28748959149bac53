package config

import (
	_ "embed"
)

// configSchemaCUE holds the #Config definition every loaded configuration
// is checked against.
//
//go:embed schema.cue
var configSchemaCUE []byte
