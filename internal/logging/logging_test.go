package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joacominatel/phonebook/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phonebook.log")

	logger, err := New(config.Log{Level: "info", File: path})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("contact inserted")
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "contact inserted")
	assert.NotContains(t, string(b), "hidden")
}

func TestParseLevel(t *testing.T) {
	l, err := parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, l)

	l, err = parseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, l)

	_, err = parseLevel("loud")
	require.Error(t, err)

	_, err = New(config.Log{Level: "loud"})
	require.Error(t, err)
}
