package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"

	werrors "github.com/wncli/wn/internal/errors"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap lets callers match ErrValidation.
func (e ValidationErrors) Unwrap() error {
	return werrors.ErrValidation
}

// Validator validates configuration against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(configSchemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return nil, fmt.Errorf("schema has no #Config definition")
	}

	return &Validator{
		ctx:    ctx,
		schema: def,
	}, nil
}

// Validate validates a resolved configuration.
func (v *Validator) Validate(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	val := v.ctx.CompileBytes(data, cue.Filename("config"))
	if val.Err() != nil {
		return fmt.Errorf("encoding config: %w", val.Err())
	}
	if err := v.validateKeys(cfg); err != nil {
		return err
	}
	return v.check(val)
}

// ValidateFile validates a configuration file as written, so unknown
// keys are reported as well.
func (v *Validator) ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return werrors.NewNotFoundError("config file does not exist", path, "run 'wn config init' to create one")
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return v.ValidateBytes(path, data)
}

// ValidateBytes validates YAML configuration text.
func (v *Validator) ValidateBytes(filename string, data []byte) error {
	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return ValidationErrors{{Field: filename, Message: err.Error()}}
	}
	val := v.ctx.BuildFile(file)
	if val.Err() != nil {
		return ValidationErrors{{Field: filename, Message: val.Err().Error()}}
	}
	return v.check(val)
}

func (v *Validator) check(val cue.Value) error {
	err := v.schema.Unify(val).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}
	var errs ValidationErrors
	for _, e := range cueerrors.Errors(err) {
		path := e.Path()
		if len(path) > 0 && path[0] == "#Config" {
			path = path[1:]
		}
		format, args := e.Msg()
		errs = append(errs, ValidationError{
			Field:   strings.Join(path, "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	return errs
}

// validateKeys checks constraints the schema cannot express.
func (v *Validator) validateKeys(cfg *Config) error {
	if _, err := cfg.Watch.Interval(); err != nil {
		return ValidationErrors{{Field: "watch.debounce", Message: err.Error()}}
	}
	return nil
}
