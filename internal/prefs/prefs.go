// Package prefs holds the remembered dumper and dump tool that seed a new
// submission, and persists them as a property list.
package prefs

import (
	"path/filepath"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/plistutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
)

const (
	// DefaultTool is the dump tool assumed until one is remembered
	DefaultTool = "nxdt_rw_poc v2.0.0 (rewrite-dirty)"

	appName  = "nx-cart-submitter"
	fileName = "preferences.plist"
)

// Settings is the remembered dumper and tool
type Settings struct {
	Dumper string `plist:"defaultDumper" json:"dumper"`
	Tool   string `plist:"defaultTool" json:"tool"`
}

// Default returns the settings used when nothing is stored
func Default() Settings {
	return Settings{Tool: DefaultTool}
}

// Override returns a copy with every non-blank argument replacing the
// stored value
func (s Settings) Override(dumper, tool string) Settings {
	if d := strings.TrimSpace(dumper); d != "" {
		s.Dumper = d
	}
	if t := strings.TrimSpace(tool); t != "" {
		s.Tool = t
	}
	return s
}

// Store persists Settings at Path
type Store struct {
	Path string
}

// DefaultPath is the preferences file in the user configuration directory
func DefaultPath() (string, error) {
	dir, err := fsutil.GetConfigDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// NewStore returns a store at path, or at DefaultPath when path is empty
func NewStore(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	expanded, err := fsutil.ExpandTilde(path)
	if err != nil {
		return nil, err
	}
	return &Store{Path: expanded}, nil
}

// Load reads the stored settings. A missing file yields Default, and a
// stored blank tool falls back to DefaultTool.
func (s *Store) Load() (Settings, error) {
	settings := Default()
	if !fsutil.FileExists(s.Path) {
		return settings, nil
	}

	var stored Settings
	if err := plistutil.ReadPlist(s.Path, &stored); err != nil {
		return settings, err
	}
	return settings.Override(stored.Dumper, stored.Tool), nil
}

// Save writes settings, keeping the format of an existing file
func (s *Store) Save(settings Settings) error {
	format := plistutil.FormatXML
	if fsutil.FileExists(s.Path) {
		if f, err := plistutil.DetectFormat(s.Path); err == nil {
			format = f
		}
	}

	if err := plistutil.WritePlist(s.Path, settings, format); err != nil {
		return err
	}

	logger.LogInfo("saved preferences", map[string]interface{}{
		"path":   s.Path,
		"dumper": settings.Dumper,
		"tool":   settings.Tool,
	})
	return nil
}
