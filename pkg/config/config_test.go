package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[catalog]
url = "http://localhost:5000/keys"
token_env = "MY_TOKEN"

[suggest]
max_matches = 12
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/keys", cfg.Catalog.URL)
	assert.Equal(t, 12, cfg.Suggest.MaxMatches)
	assert.Equal(t, DefaultConfig().Suggest.CacheSize, cfg.Suggest.CacheSize, "unset keys keep defaults")
	assert.True(t, cfg.Server.ReadyBanner)

	t.Setenv("MY_TOKEN", "abc")
	assert.Equal(t, "abc", cfg.Catalog.Token())
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, `
[suggest]
max_matches = "twelve"
cache_size = 8

[cli]
placeholder = "say hi"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Suggest.MaxMatches, "mistyped value falls back to the default")
	assert.Equal(t, 8, cfg.Suggest.CacheSize)
	assert.Equal(t, "say hi", cfg.CLI.Placeholder)
	assert.True(t, cfg.CLI.ShowEntities)
}

func TestLoadConfigUnparsable(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[suggest\nmax_matches = "))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[server]\nready_banner = false\n")
	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.False(t, cfg.Server.ReadyBanner)
}

func TestTokenWithoutEnv(t *testing.T) {
	assert.Equal(t, "", CatalogConfig{}.Token())
}
