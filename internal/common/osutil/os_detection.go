package osutil

import (
	"os"
	"runtime"
	"strings"
)

// OS type constants
const (
	Windows = "windows"
	MacOS   = "darwin"
	Linux   = "linux"
)

// GetOSType returns the current operating system type
func GetOSType() string {
	return runtime.GOOS
}

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return GetOSType() == Windows
}

// IsDevEnvironment checks if the application is running in a development environment
// based on environment variables
func IsDevEnvironment() bool {
	return os.Getenv("NX_SUBMITTER_ENV") == "development" ||
		os.Getenv("NX_SUBMITTER_DEV") == "true"
}

// ExecutableName returns name with the platform executable suffix
func ExecutableName(name string) string {
	return executableNameFor(GetOSType(), name)
}

func executableNameFor(goos, name string) string {
	if goos == Windows && !strings.HasSuffix(strings.ToLower(name), ".exe") {
		return name + ".exe"
	}
	return name
}
