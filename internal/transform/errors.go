package transform

import (
	"fmt"

	werrors "github.com/wncli/wn/internal/errors"
)

// TemplateNameError indicates a template export without a function name.
// The name is what other modules invoke the template by, so it is
// mandatory.
type TemplateNameError struct {
	// Module is the id of the template module.
	Module string
}

func (e *TemplateNameError) Error() string {
	return fmt.Sprintf("module %q: exported template function must be named", e.Module)
}

func (e *TemplateNameError) Unwrap() error {
	return werrors.ErrStructural
}

// AuthoringWarning is a non-fatal problem in a module. Compilation of the
// module continues with best-effort output.
type AuthoringWarning struct {
	// Module is the id of the module the warning belongs to.
	Module string

	// Subject names the member, attribute or import concerned.
	Subject string

	// Message describes the problem.
	Message string
}

func (w *AuthoringWarning) Error() string {
	if w.Subject == "" {
		return fmt.Sprintf("module %q: %s", w.Module, w.Message)
	}
	return fmt.Sprintf("module %q: %s: %s", w.Module, w.Subject, w.Message)
}

func (w *AuthoringWarning) Unwrap() error {
	return werrors.ErrAuthoring
}

// warnings accumulates authoring warnings for one module.
type warnings struct {
	module string
	list   []*AuthoringWarning
}

func (w *warnings) add(subject, format string, args ...any) {
	w.list = append(w.list, &AuthoringWarning{
		Module:  w.module,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	})
}
