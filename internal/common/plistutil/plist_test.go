package plistutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settings struct {
	Dumper string `plist:"dumper"`
	Tool   string `plist:"tool"`
}

func TestWriteAndReadPlist(t *testing.T) {
	for _, format := range []Format{FormatXML, FormatBinary} {
		path := filepath.Join(t.TempDir(), "prefs.plist")
		in := settings{Dumper: "someone", Tool: "DBI"}
		require.NoError(t, WritePlist(path, in, format))

		detected, err := DetectFormat(path)
		require.NoError(t, err)
		assert.Equal(t, format, detected)

		var out settings
		require.NoError(t, ReadPlist(path, &out))
		assert.Equal(t, in, out)
	}
}

