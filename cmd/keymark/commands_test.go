package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/keymark/pkg/catalog"
	"github.com/bastiangx/keymark/pkg/config"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestBuildSource(t *testing.T) {
	src := buildSource(config.CatalogConfig{URL: "http://localhost/keys", KeysFile: "ignored.txt"})
	httpSrc, ok := src.(*catalog.HTTPSource)
	require.True(t, ok)
	assert.Equal(t, "http://localhost/keys", httpSrc.URL)

	assert.Nil(t, buildSource(config.CatalogConfig{}))

	path := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\n"), 0644))
	fileSrc, ok := buildSource(config.CatalogConfig{KeysFile: path}).(catalog.FileSource)
	require.True(t, ok)
	assert.Equal(t, path, fileSrc.Path)
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Catalog.URL = "http://from-config"

	applyOverrides(cfg, &rootFlags{keysFile: "keys.yaml"})
	assert.Equal(t, "", cfg.Catalog.URL, "a key file flag replaces the configured endpoint")
	assert.Equal(t, "keys.yaml", cfg.Catalog.KeysFile)

	applyOverrides(cfg, &rootFlags{url: "http://flag"})
	assert.Equal(t, "http://flag", cfg.Catalog.URL)
}
