//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	all := []error{ErrSyntax, ErrAuthoring, ErrStructural, ErrCycle, ErrMissingModule, ErrValidation, ErrNotFound}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.NotEqual(t, a, b)
			}
		}
	}
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "module cannot be compiled",
		Message:  "template function has no name",
		Location: "components/item.jsx:3",
		Field:    "default export",
		Context:  map[string]string{"Role": "template", "Entry": "app.jsx"},
		Hint:     "Name the exported function",
	}

	output := detail.Error()

	assert.Contains(t, output, "Error: module cannot be compiled")
	assert.Contains(t, output, "Location: components/item.jsx:3")
	assert.Contains(t, output, "Field: default export")
	assert.Contains(t, output, "Role: template")
	assert.Contains(t, output, "template function has no name")
	assert.Contains(t, output, "Hint: Name the exported function")
	assert.Less(t, strings.Index(output, "Entry:"), strings.Index(output, "Role:"), "context keys are sorted")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Type:    "test",
		Message: "test message",
		Cause:   ErrStructural,
	}

	assert.True(t, errors.Is(detail, ErrStructural))
	assert.Equal(t, ErrStructural, detail.Unwrap())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError(
		"incomplete value",
		"wn.yaml",
		"watch.debounce",
		"Use a duration such as 100ms",
	)

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "validation failed", detail.Type)
	assert.Equal(t, "incomplete value", detail.Message)
	assert.Equal(t, "wn.yaml", detail.Location)
	assert.Equal(t, "watch.debounce", detail.Field)
	assert.Equal(t, "Use a duration such as 100ms", detail.Hint)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("entry file does not exist", "src/app.jsx", "")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NotContains(t, err.Error(), "Hint:")
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrCycle, "compiling app.jsx")

	assert.True(t, errors.Is(wrapped, ErrCycle))
	assert.Contains(t, wrapped.Error(), "compiling app.jsx")
}
