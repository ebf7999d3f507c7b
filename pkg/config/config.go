/*
Package config manages TOML config for keymark.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/keymark/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Suggest SuggestConfig `toml:"suggest"`
	Server  ServerConfig  `toml:"server"`
	CLI     CliConfig     `toml:"cli"`
}

// CatalogConfig says where candidate keys come from. URL wins over KeysFile.
type CatalogConfig struct {
	URL      string `toml:"url"`
	TokenEnv string `toml:"token_env"`
	KeysFile string `toml:"keys_file"`
}

// SuggestConfig holds matcher options.
type SuggestConfig struct {
	MaxMatches int `toml:"max_matches"`
	CacheSize  int `toml:"cache_size"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	ReadyBanner bool `toml:"ready_banner"`
}

// CliConfig holds interactive input options.
type CliConfig struct {
	ShowEntities bool   `toml:"show_entities"`
	Placeholder  string `toml:"placeholder"`
}

// Token returns the bearer token named by TokenEnv, or "".
func (c CatalogConfig) Token() string {
	if c.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.TokenEnv)
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	resolver, err := utils.NewPathResolver()
	if err != nil {
		log.Errorf("Failed to resolve config location: %v", err)
		return "", err
	}
	return resolver.GetConfigPath("config.toml")
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/keymark/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			TokenEnv: "KEYMARK_TOKEN",
		},
		Suggest: SuggestConfig{
			MaxMatches: 0,
			CacheSize:  256,
		},
		Server: ServerConfig{
			ReadyBanner: true,
		},
		CLI: CliConfig{
			ShowEntities: true,
			Placeholder:  "type a message, tab inserts a key",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file, recovering what it can from a broken one.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every section that still decodes and defaults the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "catalog"); ok {
		extractCatalogConfig(section, &config.Catalog)
	}
	if section, ok := utils.ExtractSection(tempConfig, "suggest"); ok {
		extractSuggestConfig(section, &config.Suggest)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractCatalogConfig(data map[string]any, catalog *CatalogConfig) {
	if val, ok := utils.ExtractString(data, "url"); ok {
		catalog.URL = val
	}
	if val, ok := utils.ExtractString(data, "token_env"); ok {
		catalog.TokenEnv = val
	}
	if val, ok := utils.ExtractString(data, "keys_file"); ok {
		catalog.KeysFile = val
	}
}

func extractSuggestConfig(data map[string]any, suggest *SuggestConfig) {
	if val, ok := utils.ExtractInt64(data, "max_matches"); ok {
		suggest.MaxMatches = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		suggest.CacheSize = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractBool(data, "ready_banner"); ok {
		server.ReadyBanner = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "show_entities"); ok {
		cli.ShowEntities = val
	}
	if val, ok := utils.ExtractString(data, "placeholder"); ok {
		cli.Placeholder = val
	}
}

// RebuildConfigFile force creates a new config.toml at the default path and returns it.
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
