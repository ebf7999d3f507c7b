package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	defer log.SetLevel(log.GetLevel())

	SetLevel(true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.Equal(t, log.DebugLevel, Default("x").GetLevel())

	SetLevel(false)
	assert.Equal(t, log.WarnLevel, New("x").GetLevel())
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "keymark.log")
	l, closer, err := ToFile(path, "repl")
	require.NoError(t, err)

	l.SetLevel(log.InfoLevel)
	l.Info("catalog loaded", "keys", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "keys=3")
}
