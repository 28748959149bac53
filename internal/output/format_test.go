package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputFormatIsValid(t *testing.T) {
	for _, f := range ValidFormats() {
		assert.True(t, OutputFormat(f).IsValid(), f)
	}
	assert.False(t, OutputFormat("yaml").IsValid())
}
