package submission

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/cardid"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/metadata"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/prefs"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/scene"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/xci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuilder() *Builder {
	return &Builder{
		Settings: prefs.Settings{Dumper: "rarenight", Tool: prefs.DefaultTool},
		Now:      func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) },
	}
}

func record(size uint64, seed string) digest.Record {
	return digest.Record{
		Size:   size,
		CRC32:  strings.ToUpper(seed[:1]) + "bcdef01",
		MD5:    seed + "-md5",
		SHA1:   seed + "-sha1",
		SHA256: seed + "-sha256",
	}
}

func trustedForm() Form {
	form := NewForm()
	form.GameName = "Legend of Zelda, The - Breath of the Wild"
	form.Languages = "en,fr,ja"
	form.GameID1 = "01007EF00011E000"
	form.Region = "-USA cart (USA)"
	form.Comment = "Card ID 1: A\r\nCard ID 2: B\nCard ID 3: C\nCRC32: D\nextra line"
	form.MediaSerial1 = "LA-H-AAAAA-USA"
	form.MediaSerial2 = "AAAAA00A000"
	form.PCBSerial = "▼ 10"
	form.BoxSerial = "HAC P AAAAA"
	form.BoxBarcode = "0 45496 59000 1"
	form.Version = "v1.6.0"
	form.Update = "v393216"
	form.Files = Files{
		Default:     record(4096, "a"),
		InitialArea: record(512, "b"),
		Full:        record(8192, "c"),
	}
	return form
}

func sceneForm() Form {
	form := NewForm()
	form.Scene = true
	form.GameName = "Super Mario Odyssey"
	form.Languages = "en,ja"
	form.GameID1 = "0100000000010000"
	form.Region = "-USA cart (USA)"
	form.MediaSerial1 = "LA-H-AAACA-USA"
	form.MediaSerial2 = "AAACA00A00a"
	form.LooseCart = true
	form.Version = "v1.3.0"
	form.Update = "v393216"
	form.SceneGroup = "venom"
	form.Files.Default = digest.Record{Size: 4096, CRC32: "ABCDEF01", MD5: "m", SHA1: "s1", SHA256: "s2"}
	return form
}

func sceneInfo() *scene.Info {
	return &scene.Info{
		Dir:         filepath.Join("releases", "Super.Mario.Odyssey.NSW-VENOM"),
		ArchiveName: "venom-smo.rar",
		SFVName:     "venom-smo.sfv",
		NFOName:     "venom-smo.nfo",
		NFOSize:     1234,
		NFOCRC:      "0badf00d",
		Date:        "2017-10-27",
	}
}

func TestBuildSceneRelease(t *testing.T) {
	df, err := testBuilder().Build(sceneForm(), sceneInfo())
	require.NoError(t, err)

	data, err := Marshal(df)
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<datafile>
    <game name="Super Mario Odyssey">
        <archive clone="P" name="Super Mario Odyssey" region="USA" languages="en,ja" langchecked="unk" gameid1="0100000000010000" gameid2="LA-H-AAACA" categories="Games" version1="Rev 10"/>
        <release>
            <details dirname="Super.Mario.Odyssey.NSW-VENOM" nfoname="venom-smo" archivename="venom-smo" region="USA" nfosize="1234" nfocrc="0badf00d" date="2017-10-27" group="Venom"/>
            <serials media_serial1="LA-H-AAACA-USA" media_serial2="AAACA00A00a" mediastamp="00a" pcb_serial=""/>
            <file forcename="" size="4096" crc32="abcdef01" md5="m" sha1="s1" sha256="s2" extension="xci" version="v1.3.0" update_type="v393216" format="Default"/>
        </release>
    </game>
</datafile>
`
	assert.Equal(t, want, string(data))
}

func TestBuildSceneIgnoresInitialArea(t *testing.T) {
	form := sceneForm()
	form.Files.InitialArea = record(512, "b")

	df, err := testBuilder().Build(form, sceneInfo())
	require.NoError(t, err)
	assert.Nil(t, df.Game.Source)
	require.Len(t, df.Game.Release.Files, 1)
	assert.Equal(t, "Default", df.Game.Release.Files[0].Format)
}

func TestBuildSceneErrors(t *testing.T) {
	b := testBuilder()

	_, err := b.Build(sceneForm(), nil)
	assert.ErrorIs(t, err, errors.ErrMissingSceneDirectory)

	form := sceneForm()
	form.SceneGroup = "NotAGroup"
	_, err = b.Build(form, sceneInfo())
	assert.ErrorIs(t, err, errors.ErrUnknownSceneGroup)

	form.CustomSceneGroup = "NotAGroup"
	df, err := b.Build(form, sceneInfo())
	require.NoError(t, err)
	assert.Equal(t, "NotAGroup", df.Game.Release.Details.Group)

	form = sceneForm()
	form.SceneDate = "27/10/2017"
	_, err = b.Build(form, sceneInfo())
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestBuildTrustedDump(t *testing.T) {
	df, err := testBuilder().Build(trustedForm(), nil)
	require.NoError(t, err)
	require.Nil(t, df.Game.Release)
	require.NotNil(t, df.Game.Source)

	src := df.Game.Source
	assert.Equal(t, "Trusted Dump", src.Details.Section)
	assert.Equal(t, "2024-03-09", src.Details.DumpDate)
	assert.Equal(t, "rarenight", src.Details.Dumper)
	assert.Equal(t, prefs.DefaultTool, src.Details.Tool)
	assert.Equal(t, "USA", src.Details.Region)
	assert.Equal(t, "Card ID 1: A&#10;Card ID 2: B&#10;Card ID 3: C&#10;CRC32: D", src.Details.Comment1)
	assert.Empty(t, df.Game.Archive.Version1)
	assert.Equal(t, "LA-H-AAAAA", df.Game.Archive.GameID2)

	require.Len(t, src.Files, 3)
	assert.Equal(t, "Default", src.Files[0].Format)
	assert.Equal(t, "abcdef01", src.Files[0].CRC32)
	assert.Equal(t, "Initial Area", src.Files[1].Item)
	assert.Equal(t, "bin", src.Files[1].Extension)
	assert.Equal(t, "512", src.Files[1].Size)
	assert.Equal(t, "FullXCI", src.Files[2].Format)
	assert.Equal(t, "8192", src.Files[2].Size)

	data, err := Marshal(df)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `comment1="Card ID 1: A&#10;Card ID 2: B&#10;Card ID 3: C&#10;CRC32: D"`)
	assert.Contains(t, out, `box_serial="HAC P AAAAA" box_barcode="0 45496 59000 1"/>`)
	assert.Contains(t, out, `<file forcename="" size="512" crc32="bbcdef01" md5="b-md5" sha1="b-sha1" sha256="b-sha256" extension="bin" item="Initial Area" format="Default" filter="Initial Area"/>`)
	assert.NotContains(t, out, "&amp;#10;")
}

func TestBuildTrustedDumpVariants(t *testing.T) {
	form := trustedForm()
	form.IncludeInitialArea = false
	form.LooseCart = true
	form.Dumper = "someone"
	form.DumpDate = "2023-12-31"
	form.CustomRegion = "Europe, Australia"

	df, err := testBuilder().Build(form, nil)
	require.NoError(t, err)

	src := df.Game.Source
	assert.Len(t, src.Files, 1)
	assert.Nil(t, src.Serials.BoxSerial)
	assert.Nil(t, src.Serials.BoxBarcode)
	assert.Equal(t, "someone", src.Details.Dumper)
	assert.Equal(t, "2023-12-31", src.Details.DumpDate)
	assert.Equal(t, "Europe, Australia", df.Game.Archive.Region)

	form.DumpDate = "yesterday"
	_, err = testBuilder().Build(form, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestRevision(t *testing.T) {
	tests := []struct {
		serial2 string
		stamp   string
		want    string
	}{
		{"AAAAA00A000", "000", ""},
		{"AAAAA00A00a", "00a", "Rev 10"},
		{"AAAAA00A001", "001", "Rev 1"},
		{"AAAAA00AXYZ", "XYZ", ""},
		{"AB", "", ""},
		{"AAAAA00A010 ", "010", "Rev 16"},
	}
	for _, tt := range tests {
		t.Run(tt.serial2, func(t *testing.T) {
			stamp := Mediastamp(tt.serial2)
			assert.Equal(t, tt.stamp, stamp)
			assert.Equal(t, tt.want, Revision(stamp))
		})
	}
}

func TestGameID2(t *testing.T) {
	assert.Equal(t, "LA-H-AAAAA", GameID2("LA-H-AAAAA-USA"))
	assert.Equal(t, "LA-H-AAAAA", GameID2("LA-H-AAAAA-USA1"))
	assert.Equal(t, "ABCD", GameID2("ABCD"))
	assert.Equal(t, "", GameID2(""))
}

func TestComment(t *testing.T) {
	assert.Equal(t, "", Comment("  \n "))
	assert.Equal(t, "one&#10;two", Comment("one\ntwo\n"))
}

func TestRemainingFields(t *testing.T) {
	b := &Builder{Settings: prefs.Default()}

	assert.Equal(t, 26, b.RemainingFields(NewForm()))

	form := NewForm()
	form.IncludeInitialArea = false
	form.LooseCart = true
	assert.Equal(t, 14, b.RemainingFields(form))

	form = NewForm()
	form.Scene = true
	assert.Equal(t, 12, b.RemainingFields(form))

	assert.Equal(t, 0, testBuilder().RemainingFields(trustedForm()))
	assert.Equal(t, 0, testBuilder().RemainingFields(sceneForm()))
}

func TestReady(t *testing.T) {
	b := testBuilder()
	assert.NoError(t, b.Ready(trustedForm(), nil))
	assert.NoError(t, b.Ready(sceneForm(), sceneInfo()))
	assert.ErrorIs(t, b.Ready(sceneForm(), nil), errors.ErrSubmissionNotReady)

	form := trustedForm()
	form.Files.Full = digest.Record{}
	err := b.Ready(form, nil)
	require.ErrorIs(t, err, errors.ErrSubmissionNotReady)
	assert.Contains(t, err.Error(), "5 fields left")
}

func TestApplyHelpers(t *testing.T) {
	form := NewForm()
	form.GameName = "Kept Name"

	form.ApplyMetadata(metadata.Record{
		Titles: []metadata.Title{
			{ID: "0100000000010000", Name: "Imported", DisplayVersion: "v1.3.0", Version: "v393216"},
			{ID: "0100000000020000", Name: "Second", DisplayVersion: "v1.0.0", Version: "v0"},
		},
		Languages: []string{"en", "ja"},
	})
	assert.Equal(t, "Kept Name", form.GameName)
	assert.Equal(t, "0100000000010000, 0100000000020000", form.GameID1)
	assert.Equal(t, "en,ja", form.Languages)
	assert.Equal(t, "v1.3.0, v1.0.0", form.Version)
	assert.Equal(t, "v393216, v0", form.Update)

	form.ApplyCardID(&cardid.Set{IDs: [3]string{"A", "B", "C"}, CRC32: "D"})
	assert.Equal(t, "Card ID 1: A\nCard ID 2: B\nCard ID 3: C\nCRC32: D", form.Comment)

	ia, full := record(512, "b"), record(8192, "c")
	form.ApplyDigests(&xci.DigestSet{Default: record(4096, "a"), InitialArea: &ia, Full: &full})
	assert.Equal(t, ia, form.Files.InitialArea)
	assert.Equal(t, full, form.Files.Full)
}

func TestLoadForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	content := `game_name: Super Mario Odyssey
region: "-JPN cart (Japan)"
media_serial2: AAACA00A001
files:
  default:
    size: 4096
    crc32: abcdef01
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	form, err := LoadForm(path)
	require.NoError(t, err)
	assert.Equal(t, "Super Mario Odyssey", form.GameName)
	assert.Equal(t, "Japan", form.ResolvedRegion())
	assert.True(t, form.IncludeInitialArea)
	assert.Equal(t, uint64(4096), form.Files.Default.Size)
	assert.Equal(t, "abcdef01", form.Files.Default.CRC32)

	_, err = LoadForm(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, errors.ErrConfigParseError)
}

func TestLoadFormUnquotedValues(t *testing.T) {
	write := func(t *testing.T, content string) string {
		path := filepath.Join(t.TempDir(), "form.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("dates become yyyy-MM-dd", func(t *testing.T) {
		form, err := LoadForm(write(t, "dump_date: 2024-01-02\nscene_date: 2023-11-30\n"))
		require.NoError(t, err)
		assert.Equal(t, "2024-01-02", form.DumpDate)
		assert.Equal(t, "2023-11-30", form.SceneDate)
	})

	t.Run("quoted title IDs", func(t *testing.T) {
		form, err := LoadForm(write(t, "game_id1: \"0100000000010000, 0100000000020000\"\n"))
		require.NoError(t, err)
		assert.Equal(t, "0100000000010000, 0100000000020000", form.GameID1)
	})

	t.Run("unquoted title ID", func(t *testing.T) {
		_, err := LoadForm(write(t, "game_id1: 0100000000010000\n"))
		assert.ErrorIs(t, err, errors.ErrConfigInvalid)
	})

	t.Run("unquoted serial", func(t *testing.T) {
		_, err := LoadForm(write(t, "box_barcode: 045496590000\n"))
		assert.ErrorIs(t, err, errors.ErrConfigInvalid)
	})

	t.Run("malformed title ID", func(t *testing.T) {
		_, err := LoadForm(write(t, "game_id1: \"01000000000100\"\n"))
		assert.ErrorIs(t, err, errors.ErrConfigInvalid)
	})
}

func TestWrite(t *testing.T) {
	b := testBuilder()
	form, err := b.Resolve(trustedForm())
	require.NoError(t, err)
	df, err := b.Build(form, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := Write(dir, form, df)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Legend of Zelda, The - Breath of the Wild - rarenight - 2024-03-09 Submission.xml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, df.Game.Name, loaded.Game.Name)
	assert.Equal(t, "trusted", loaded.Kind())
	assert.Equal(t, "01007EF00011E000", loaded.Game.Archive.GameID1)
	assert.Len(t, loaded.FileEntries(), len(df.FileEntries()))
}

func TestLoadRejectsNonXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml")
	require.NoError(t, os.WriteFile(path, []byte("<datafile><game"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, errors.ErrUnsupportedFile)
}

func TestFileNameDropsPathSeparators(t *testing.T) {
	form := NewForm()
	form.GameName = "Fate/Extella: The Umbral Star"
	form.Dumper = `rare\night`
	form.DumpDate = "2024-03-09"
	assert.Equal(t, "FateExtella The Umbral Star - rarenight - 2024-03-09 Submission.xml", FileName(form))

	dir := t.TempDir()
	b := testBuilder()
	resolved, err := b.Resolve(trustedForm())
	require.NoError(t, err)
	df, err := b.Build(resolved, nil)
	require.NoError(t, err)

	resolved.GameName = "Fate/Extella"
	path, err := Write(dir, resolved, df)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.FileExists(t, path)
}

func TestRegionValue(t *testing.T) {
	assert.Equal(t, "Taiwan, Hong Kong", RegionValue("-CHT cart (Taiwan, Hong Kong)"))
	assert.Equal(t, "USA", RegionValue("USA"))
	assert.Equal(t, "", RegionValue(""))
}
