package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigPath_FlagPrecedence(t *testing.T) {
	t.Setenv("WN_CONFIG", "/env/wn.yaml")

	result, err := ResolveConfigPath(ResolveConfigPathOptions{
		FlagValue:  "/flag/wn.yaml",
		ProjectDir: "/project",
	})
	require.NoError(t, err)

	assert.Equal(t, "/flag/wn.yaml", result.ConfigPath)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "/env/wn.yaml", result.Shadowed[SourceEnv])
	assert.Equal(t, "/project/wn.yaml", result.Shadowed[SourceDefault])
}

func TestResolveConfigPath_EnvPrecedence(t *testing.T) {
	t.Setenv("WN_CONFIG", "/env/wn.yaml")

	result, err := ResolveConfigPath(ResolveConfigPathOptions{ProjectDir: "/project"})
	require.NoError(t, err)

	assert.Equal(t, "/env/wn.yaml", result.ConfigPath)
	assert.Equal(t, SourceEnv, result.Source)
	assert.NotContains(t, result.Shadowed, SourceFlag)
}

func TestResolveConfigPath_Default(t *testing.T) {
	t.Setenv("WN_CONFIG", "")

	result, err := ResolveConfigPath(ResolveConfigPathOptions{ProjectDir: "/project"})
	require.NoError(t, err)

	assert.Equal(t, "/project/wn.yaml", result.ConfigPath)
	assert.Equal(t, SourceDefault, result.Source)
	assert.Empty(t, result.Shadowed)
}
