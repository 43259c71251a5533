// Package submission builds the catalog submission document for a dump or a
// scene release and tracks which form fields are still missing.
package submission

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/prefs"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/scene"
)

const (
	dateLayout      = "2006-01-02"
	commentNewline  = "&#10;"
	maxCommentLines = 4
)

var mediastampPattern = regexp.MustCompile(`(?i)^[0-9a-f]{3}$`)

// Builder turns a form into a document. Settings seed the dumper and tool
// when the form leaves them blank.
type Builder struct {
	Settings prefs.Settings
	Now      func() time.Time
}

// NewBuilder returns a builder using the wall clock
func NewBuilder(settings prefs.Settings) *Builder {
	return &Builder{Settings: settings, Now: time.Now}
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// Resolve returns a copy of form with dumper, tool and dump date filled in
func (b *Builder) Resolve(form Form) (Form, error) {
	form.Dumper = strings.TrimSpace(form.Dumper)
	if form.Dumper == "" {
		form.Dumper = b.Settings.Dumper
	}
	form.Tool = strings.TrimSpace(form.Tool)
	if form.Tool == "" {
		form.Tool = b.Settings.Tool
	}

	form.DumpDate = strings.TrimSpace(form.DumpDate)
	if form.DumpDate == "" {
		form.DumpDate = b.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, form.DumpDate); err != nil {
		return form, fmt.Errorf("%w: dump date %q is not yyyy-mm-dd", errors.ErrInvalidArgument, form.DumpDate)
	}
	return form, nil
}

// Build produces the document. Scene forms need the inspected release
// directory; trusted dumps ignore it.
func (b *Builder) Build(form Form, info *scene.Info) (*Datafile, error) {
	form, err := b.Resolve(form)
	if err != nil {
		return nil, err
	}

	df := &Datafile{Game: Game{
		Name:    form.GameName,
		Archive: b.archive(form),
	}}

	if form.Scene {
		release, err := b.release(form, info)
		if err != nil {
			return nil, err
		}
		df.Game.Release = release
	} else {
		df.Game.Source = b.source(form)
	}

	logger.LogInfo("built submission", map[string]interface{}{
		"game":  form.GameName,
		"scene": form.Scene,
		"rev":   df.Game.Archive.Version1,
	})
	return df, nil
}

func (b *Builder) archive(form Form) Archive {
	return Archive{
		Clone:       "P",
		Name:        form.GameName,
		Region:      form.ResolvedRegion(),
		Languages:   form.Languages,
		LangChecked: "unk",
		GameID1:     form.GameID1,
		GameID2:     GameID2(form.MediaSerial1),
		Categories:  "Games",
		Version1:    Revision(Mediastamp(form.MediaSerial2)),
	}
}

func (b *Builder) source(form Form) *Source {
	src := &Source{
		Details: SourceDetails{
			Section:        "Trusted Dump",
			DumpDate:       form.DumpDate,
			ReleaseDate:    "",
			ReleaseInfo:    "0",
			Region:         form.ResolvedRegion(),
			Dumper:         form.Dumper,
			Project:        "No-Intro",
			Tool:           form.Tool,
			Comment1:       Comment(form.Comment),
			OriginalFormat: "Default",
		},
		Serials: serials(form),
		Files:   []File{defaultFile(form)},
	}

	if form.IncludeInitialArea {
		ia := fileFromRecord(form.Files.InitialArea, "bin")
		ia.Item = "Initial Area"
		ia.Format = "Default"
		ia.Filter = "Initial Area"

		full := fileFromRecord(form.Files.Full, "xci")
		full.Format = "FullXCI"

		src.Files = append(src.Files, ia, full)
	}
	return src
}

func (b *Builder) release(form Form, info *scene.Info) (*Release, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: scene release needs its directory", errors.ErrMissingSceneDirectory)
	}
	group, err := form.ResolvedSceneGroup()
	if err != nil {
		return nil, err
	}

	date := info.Date
	if d := strings.TrimSpace(form.SceneDate); d != "" {
		if _, err := scene.ParseDate(d); err != nil {
			return nil, err
		}
		date = d
	}

	return &Release{
		Details: ReleaseDetails{
			DirName:     info.DirName(),
			NFOName:     info.NFOBase(),
			ArchiveName: info.ArchiveBase(),
			Region:      form.ResolvedRegion(),
			NFOSize:     info.NFOSizeString(),
			NFOCRC:      info.NFOCRC,
			Date:        date,
			Group:       group,
		},
		Serials: serials(form),
		Files:   []File{defaultFile(form)},
	}, nil
}

func serials(form Form) Serials {
	s := Serials{
		MediaSerial1: form.MediaSerial1,
		MediaSerial2: strings.TrimSpace(form.MediaSerial2),
		Mediastamp:   Mediastamp(form.MediaSerial2),
		PCBSerial:    form.PCBSerial,
	}
	if !form.LooseCart {
		box, barcode := form.BoxSerial, form.BoxBarcode
		s.BoxSerial, s.BoxBarcode = &box, &barcode
	}
	return s
}

func defaultFile(form Form) File {
	f := fileFromRecord(form.Files.Default, "xci")
	version, update := form.Version, form.Update
	f.Version, f.UpdateType = &version, &update
	f.Format = "Default"
	return f
}

func fileFromRecord(rec digest.Record, ext string) File {
	size := ""
	if !rec.IsZero() {
		size = strconv.FormatUint(rec.Size, 10)
	}
	return File{
		Size:      size,
		CRC32:     strings.ToLower(rec.CRC32),
		MD5:       strings.ToLower(rec.MD5),
		SHA1:      strings.ToLower(rec.SHA1),
		SHA256:    strings.ToLower(rec.SHA256),
		Extension: ext,
	}
}

// GameID2 derives the secondary game ID from the front media serial
func GameID2(mediaSerial1 string) string {
	strip := 4
	if strings.HasSuffix(mediaSerial1, "1") {
		strip = 5
	}
	if len(mediaSerial1) <= strip {
		return mediaSerial1
	}
	return mediaSerial1[:len(mediaSerial1)-strip]
}

// Mediastamp is the last three characters of the back media serial
func Mediastamp(mediaSerial2 string) string {
	s := strings.TrimSpace(mediaSerial2)
	if len(s) < 3 {
		return ""
	}
	return s[len(s)-3:]
}

// Revision renders a nonzero hexadecimal mediastamp as "Rev N"
func Revision(mediastamp string) string {
	if !mediastampPattern.MatchString(mediastamp) {
		return ""
	}
	n, err := strconv.ParseUint(mediastamp, 16, 16)
	if err != nil || n == 0 {
		return ""
	}
	return fmt.Sprintf("Rev %d", n)
}

// Comment keeps the first four lines of a free-text comment joined by a
// newline character reference
func Comment(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > maxCommentLines {
		lines = lines[:maxCommentLines]
	}
	return strings.Join(lines, commentNewline)
}
