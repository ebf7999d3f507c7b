package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// AppDirName is the directory keymark keeps its config and key files under.
const AppDirName = "keymark"

// PathResolver finds config and key files relative to the user config dir,
// the executable and the working directory.
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		homeDir:        homeDir,
		configDir:      getConfigDir(homeDir),
	}

	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", execPath, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", AppDirName)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppDirName)
		}
		return filepath.Join(homeDir, ".config", AppDirName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppDirName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppDirName)
	default:
		return filepath.Join(homeDir, "."+AppDirName)
	}
}

// GetConfigPath returns the full path for a config file, falling back to
// writable locations when the config dir cannot be created.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	if CheckDirStatus(pr.configDir).Writable {
		return filepath.Join(pr.configDir, filename), nil
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, "."+AppDirName),
		filepath.Join(os.TempDir(), AppDirName),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if CheckDirStatus(dir).Writable {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath, nil
}

// ResolveKeysFile locates a key catalog file. Absolute paths are used as
// given; relative ones are tried against the config dir, the executable dir
// and the working directory in that order.
func (pr *PathResolver) ResolveKeysFile(path string) (string, error) {
	if path == "" {
		return "", os.ErrNotExist
	}
	if filepath.IsAbs(path) {
		if FileExists(path) {
			return path, nil
		}
		return "", os.ErrNotExist
	}

	searchPaths := []string{pr.configDir, pr.executableDir}
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	return FindFileInPaths(path, searchPaths)
}

// FindFileInPaths searches for a file in multiple possible locations
func FindFileInPaths(filename string, searchPaths []string) (string, error) {
	for _, searchPath := range searchPaths {
		fullPath := filepath.Join(searchPath, filename)
		if _, err := os.Stat(fullPath); err == nil {
			log.Debugf("Found %s at %s", filename, fullPath)
			return fullPath, nil
		}
	}
	return "", os.ErrNotExist
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()

	info := map[string]string{
		"executable_path": pr.executablePath,
		"executable_dir":  pr.executableDir,
		"current_dir":     cwd,
		"home_dir":        pr.homeDir,
		"config_dir":      pr.configDir,
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}

	for _, envVar := range []string{"HOME", "XDG_CONFIG_HOME", "APPDATA"} {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}
	return info
}
