package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// AppDirName names the per-user config directory
const AppDirName = "dictautocomp"

// PathResolver finds where settings and word lists live for the running binary
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
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
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     UserConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

// UserConfigDir returns the platform config directory for the app
func UserConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux", "darwin":
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

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

// RuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) RuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()
	return map[string]string{
		"executable_dir": pr.executableDir,
		"current_dir":    cwd,
		"home_dir":       pr.homeDir,
		"config_dir":     pr.configDir,
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
	}
}
