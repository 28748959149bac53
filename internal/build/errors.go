package build

import (
	"fmt"
	"strings"

	werrors "github.com/wncli/wn/internal/errors"
)

// ModuleFailure is implemented by errors that belong to one module.
type ModuleFailure interface {
	error

	// Module returns the id of the module the error belongs to.
	Module() string
}

// CycleError indicates a dependency cycle. The build is aborted.
type CycleError struct {
	// Path is the cycle, starting and ending with the same id.
	Path []string
}

func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Module() string {
	if len(e.Path) == 0 {
		return ""
	}
	return e.Path[0]
}

func (e *CycleError) Unwrap() error {
	return werrors.ErrCycle
}

// MissingModuleError indicates a dependency id that has no graph entry.
// The build is aborted.
type MissingModuleError struct {
	// ID is the missing module id.
	ID string

	// Referrer is the module that depends on ID; empty for the entry.
	Referrer string
}

func (e *MissingModuleError) Error() string {
	if e.Referrer == "" {
		return fmt.Sprintf("module %q not found in dependency graph", e.ID)
	}
	return fmt.Sprintf("module %q (imported by %q) not found in dependency graph", e.ID, e.Referrer)
}

func (e *MissingModuleError) Module() string {
	return e.ID
}

func (e *MissingModuleError) Unwrap() error {
	return werrors.ErrMissingModule
}

// ModuleError indicates a module that could not be compiled or written.
// Other modules are not affected.
type ModuleError struct {
	// ID is the module id.
	ID string

	// Cause is the underlying error.
	Cause error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.ID, e.Cause)
}

func (e *ModuleError) Module() string {
	return e.ID
}

func (e *ModuleError) Unwrap() error {
	return e.Cause
}
