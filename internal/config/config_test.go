package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, ".", cfg.Source)
	assert.Equal(t, "./dist", cfg.Target)
	assert.Equal(t, "app.jsx", cfg.Entry)
	assert.Equal(t, "pages", cfg.PagesDir)
	assert.Equal(t, "wn", cfg.Runtime.CompatModule)
	assert.Equal(t, "wn-cli", cfg.Runtime.Package)
	assert.Equal(t, "modules", cfg.Runtime.ModulesDir)
	assert.True(t, cfg.Timestamps())
	assert.Equal(t, "100ms", cfg.Watch.Debounce)
}

func TestTimestamps(t *testing.T) {
	off := false
	assert.True(t, (&Config{}).Timestamps())
	assert.False(t, (&Config{Log: LogConfig{Timestamps: &off}}).Timestamps())
}

func TestWatchInterval(t *testing.T) {
	tests := []struct {
		debounce string
		want     time.Duration
		wantErr  bool
	}{
		{"", 100 * time.Millisecond, false},
		{"250ms", 250 * time.Millisecond, false},
		{"1s", time.Second, false},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := WatchConfig{Debounce: tt.debounce}.Interval()
		if tt.wantErr {
			assert.Error(t, err, tt.debounce)
			continue
		}
		require.NoError(t, err, tt.debounce)
		assert.Equal(t, tt.want, got, tt.debounce)
	}
}
