package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/plistutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	store := &Store{Path: filepath.Join(t.TempDir(), "preferences.plist")}

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), settings)
	assert.Equal(t, DefaultTool, settings.Tool)
}

func TestSaveAndLoad(t *testing.T) {
	store := &Store{Path: filepath.Join(t.TempDir(), "nested", "preferences.plist")}

	want := Settings{Dumper: "rarenight", Tool: "DBI"}
	require.NoError(t, store.Save(want))

	data, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<key>defaultDumper</key>")

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveKeepsBinaryFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.plist")
	require.NoError(t, plistutil.WritePlist(path, Settings{Dumper: "a"}, plistutil.FormatBinary))

	store := &Store{Path: path}
	require.NoError(t, store.Save(Settings{Dumper: "b", Tool: "DBI"}))

	format, err := plistutil.DetectFormat(path)
	require.NoError(t, err)
	assert.Equal(t, plistutil.FormatBinary, format)
}

func TestOverride(t *testing.T) {
	base := Settings{Dumper: "alice", Tool: DefaultTool}

	assert.Equal(t, base, base.Override("", "  "))
	assert.Equal(t, Settings{Dumper: "bob", Tool: DefaultTool}, base.Override("bob", ""))
	assert.Equal(t, Settings{Dumper: "alice", Tool: "DBI"}, base.Override("", "DBI"))
}
