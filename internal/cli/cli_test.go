package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PositionalPath(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{"story.talk.hcl"}, out)
	require.NoError(t, err)
	assert.False(t, shouldExit)
	require.NotNil(t, cfg)
	assert.Equal(t, "story.talk.hcl", cfg.ScriptPath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Strict)
	assert.False(t, cfg.AllowSelfLoops)
}

func TestParse_FlagsOverrideDefaults(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{
		"-script", "story.talk.yaml",
		"-log-format", "json",
		"-log-level", "debug",
		"-strict",
		"-allow-self-loops",
	}, out)
	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, "story.talk.yaml", cfg.ScriptPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.AllowSelfLoops)
}

func TestParse_ShorthandFlag(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, _, err := Parse([]string{"-s", "story.talk.hcl"}, out)
	require.NoError(t, err)
	assert.Equal(t, "story.talk.hcl", cfg.ScriptPath)
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{}, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidValues(t *testing.T) {
	t.Run("bad log format", func(t *testing.T) {
		_, _, err := Parse([]string{"-log-format", "xml", "story.talk.hcl"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
		assert.Contains(t, exitErr.Message, "invalid log-format")
	})

	t.Run("bad log level", func(t *testing.T) {
		_, _, err := Parse([]string{"-log-level", "loud", "story.talk.hcl"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "invalid log-level")
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, _, err := Parse([]string{"--nope"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})
}
