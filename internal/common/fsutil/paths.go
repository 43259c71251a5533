// fsutil/paths.go
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/osutil"
)

// GetFileNameWithoutExt returns the file name without its extension
func GetFileNameWithoutExt(path string) string {
	baseName := filepath.Base(path)
	extension := filepath.Ext(baseName)
	return baseName[:len(baseName)-len(extension)]
}

// ExpandTilde expands the tilde in paths to the user's home directory
func ExpandTilde(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		if path == "~" {
			return home, nil
		}

		// Replace just the ~ prefix with home directory
		return filepath.Join(home, path[2:]), nil
	}

	return path, nil
}

// GetConfigDir returns the appropriate configuration directory for the application
func GetConfigDir(appName string) (string, error) {
	// In development mode, use a local config directory
	if osutil.IsDevEnvironment() {
		return "config", nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}

	switch osutil.GetOSType() {
	case osutil.Windows:
		// Windows: %APPDATA%\appName
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, appName), nil

	case osutil.MacOS:
		// macOS: ~/Library/Application Support/appName
		return filepath.Join(home, "Library", "Application Support", appName), nil

	default:
		// Linux/Unix: ~/.config/appName (XDG Base Directory specification)
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			configHome = filepath.Join(home, ".config")
		}
		return filepath.Join(configHome, appName), nil
	}
}

// GetSystemConfigDir returns the system-wide configuration directory
func GetSystemConfigDir(appName string) (string, error) {
	switch osutil.GetOSType() {
	case osutil.Windows:
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = filepath.Join("C:", "ProgramData")
		}
		return filepath.Join(programData, appName), nil

	case osutil.MacOS:
		return filepath.Join("/Library", "Application Support", appName), nil

	default:
		return filepath.Join("/etc", appName), nil
	}
}

// GetExecutableDir returns the directory of the current executable
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Dir(execPath), nil
}
