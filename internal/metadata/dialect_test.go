package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hactoolListing = `Title ID         Version  Sdk      Type         Sys  Lang  Display  Name                                   Languages
0100000000010000 v0       1.0.0.0  Application  0    en    1.0.0    Super Mario Odyssey                    en-US,en-GB,ja,fr
0100000000010800 v393216  6.0.0.0  Patch        0    en    1.3.0    Super Mario Odyssey                    en-US,ja,fr-CA
0100000000020000 v0       1.0.0.0  Application  0    en    1.0.0    The Legend of Zelda: Skyward Sword HD  en-US,zh-CN,zh-TW
`

func cliOutput() string {
	return strings.Join([]string{
		"NX Game Info 0.7.1",
		"├ Title ID: 0100000000010000",
		"├ Base Title ID: 01000000000100aa",
		"├ Title Name: The Legend of Zelda: Breath of the Wild",
		"├ Display Version: 1.6.0",
		"├ Version: 393216 (1.6.0)",
		"├ Languages: en-US,en-GB,ja,\"fr-CA\"",
		"├ Latest version: 786432",
		"├ Version: 999",
		"├ Languages: ko",
	}, "\r\n")
}

func csvExport(rows ...string) string {
	header := "Title ID,Base Title ID,Title Name,Display Version,Version,Latest Version,System Update,System Version,Application Version,Masterkey,Title Key,Publisher,Languages,Firmware"
	return strings.Join(append([]string{
		"# publisher NX Game Info 0.7.1",
		"# updated 2024-01-01",
		header,
	}, rows...), "\n")
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"csv export", csvExport(), "csv"},
		{"hactool listing", hactoolListing, "hactool"},
		{"cli output", cliOutput(), "cli"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Detect(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}

	_, err := Detect("nothing useful here")
	assert.ErrorIs(t, err, errors.ErrUnrecognizedMetadata)
}

func TestParseCLI(t *testing.T) {
	record, err := Parse(cliOutput())
	require.NoError(t, err)

	assert.Equal(t, "cli", record.Dialect)
	require.Len(t, record.Titles, 1)
	assert.Equal(t, Title{
		ID:             "01000000000100AA",
		Name:           "Legend of Zelda, The - Breath of the Wild",
		DisplayVersion: "v1.6.0",
		Version:        "v393216",
	}, record.Titles[0])
	assert.Equal(t, []string{"en", "fr", "ja"}, record.Languages)
}

func TestParseCLIMissingFields(t *testing.T) {
	record, err := ParseAs("cli", "Title Name: Lonely Game\n")
	require.NoError(t, err)
	require.Len(t, record.Titles, 1)
	assert.Equal(t, "Lonely Game", record.Titles[0].Name)
	assert.Equal(t, "v0", record.Titles[0].Version)
	assert.Empty(t, record.Titles[0].DisplayVersion)
	assert.Empty(t, record.Languages)
}

func TestParseCSVFirstRowWins(t *testing.T) {
	input := csvExport(
		`0100000000010000,0100000000010000,Super Mario Odyssey,1.3.0,393216,,,,,,,Nintendo,"en-US,ja,fr-CA,fr",`,
		`0100000000020000,0100000000020000,Another Game,1.0.0,0,,,,,,,Nintendo,"de",`,
	)

	record, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, "csv", record.Dialect)
	require.Len(t, record.Titles, 1)
	assert.Equal(t, Title{
		ID:             "0100000000010000",
		Name:           "Super Mario Odyssey",
		DisplayVersion: "v1.3.0",
		Version:        "v393216",
	}, record.Titles[0])
	assert.Equal(t, []string{"en", "fr", "ja"}, record.Languages)
}

func TestParseCSVToleratesShortRows(t *testing.T) {
	record, err := Parse(csvExport("0100000000010000,0100000000010000,Short Row"))
	require.NoError(t, err)
	require.Len(t, record.Titles, 1)
	assert.Equal(t, "Short Row", record.Titles[0].Name)
	assert.Equal(t, "v0", record.Titles[0].Version)
	assert.Empty(t, record.Languages)
}

func TestParseHactoolPairsUpdates(t *testing.T) {
	record, err := Parse(hactoolListing)
	require.NoError(t, err)

	assert.Equal(t, "hactool", record.Dialect)
	assert.Equal(t, []Title{
		{
			ID:             "0100000000010000",
			UpdateID:       "0100000000010800",
			Name:           "Super Mario Odyssey",
			DisplayVersion: "v1.3.0",
			Version:        "v393216",
		},
		{
			ID:             "0100000000020000",
			Name:           "Legend of Zelda, The - Skyward Sword HD",
			DisplayVersion: "v1.0.0",
			Version:        "v0",
		},
	}, record.Titles)
	assert.Equal(t, []string{"0100000000010800"}, record.UpdateIDs())
	assert.Equal(t, []string{"en", "fr", "ja", "Zh-Hans", "Zh-Hant"}, record.Languages)

	summary := record.Summary()
	assert.Equal(t, "Super Mario Odyssey, Legend of Zelda, The - Skyward Sword HD", summary.GameName)
	assert.Equal(t, "0100000000010000, 0100000000020000", summary.GameID1)
	assert.Equal(t, "v1.3.0, v1.0.0", summary.Version)
	assert.Equal(t, "v393216, v0", summary.Update)
	assert.Equal(t, "0100000000010800", summary.UpdateIDs)
	assert.Equal(t, "en,fr,ja,Zh-Hans,Zh-Hant", summary.Languages)
}

func TestPairTitles(t *testing.T) {
	entries := []titleEntry{
		{ID: "0100000000030800", Patch: true, Version: "v65536", DisplayVersion: "1.1", Name: "Patched Base"},
		{ID: "0100000000030000", Version: "v0", DisplayVersion: "1.0", Name: "Base"},
		{ID: "0100000000040000", Version: "v0", DisplayVersion: "1.0", Name: "Other"},
	}

	titles := pairTitles(entries)
	require.Len(t, titles, 2)
	assert.Equal(t, "0100000000030800", titles[0].UpdateID)
	assert.Equal(t, "v65536", titles[0].Version)
	assert.Equal(t, "Patched Base", titles[0].Name)
	assert.Empty(t, titles[1].UpdateID)
	assert.Equal(t, "v1.0", titles[1].DisplayVersion)
}

func TestCorrelatedSequencesShareLength(t *testing.T) {
	record, err := Parse(hactoolListing)
	require.NoError(t, err)

	n := len(record.TitleIDs())
	assert.Len(t, record.Names(), n)
	assert.Len(t, record.Versions(), n)
	assert.Len(t, record.DisplayVersions(), n)
}

func TestParseAsUnknownDialect(t *testing.T) {
	_, err := ParseAs("xml", "whatever")
	assert.ErrorIs(t, err, errors.ErrUnknownDialect)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvExport(`A,0100000000010000,Game,1.0.0,0,,,,,,,,"ja"`)), 0644))

	record, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ja"}, record.Languages)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = ParseFile(empty)
	assert.ErrorIs(t, err, errors.ErrUnrecognizedMetadata)
}
