package submission

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/xmlutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
)

var forbiddenNameRunes = regexp.MustCompile("[\\\\/:*?\"<>|`]")

// FileName is "<GameName> - <Dumper> - <yyyy-MM-dd> Submission.xml" for a
// resolved form, with characters invalid in file names dropped
func FileName(form Form) string {
	return fmt.Sprintf("%s - %s - %s Submission.xml",
		fileNamePart(form.GameName), fileNamePart(form.Dumper), fileNamePart(form.DumpDate))
}

func fileNamePart(s string) string {
	return strings.Join(strings.Fields(forbiddenNameRunes.ReplaceAllString(s, "")), " ")
}

// Write stores the document in dir under FileName and returns its path
func Write(dir string, form Form, df *Datafile) (string, error) {
	data, err := Marshal(df)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(form))
	release, err := fsutil.ClaimPaths(path)
	if err != nil {
		return "", err
	}
	defer release()

	if err := fsutil.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	if err := checkWritten(path, df.Game.Name); err != nil {
		return "", err
	}

	logger.LogInfo("wrote submission", map[string]interface{}{
		"path":  path,
		"bytes": len(data),
	})
	return path, nil
}

// checkWritten reads the document back and confirms it names the game
func checkWritten(path, gameName string) error {
	data, err := fsutil.ReadFile(path)
	if err != nil {
		return err
	}
	name, err := xmlutil.ExtractAttr(data, "game", "name")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrFileWriteError, path, err)
	}
	if name != gameName {
		return fmt.Errorf("%w: %s: game name reads back as %q", errors.ErrFileWriteError, path, name)
	}
	return nil
}

// Load reads a submission document written earlier
func Load(path string) (*Datafile, error) {
	data, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var df Datafile
	if err := xmlutil.UnmarshalXML(data, &df); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &df, nil
}

// Kind is "scene" for a release document and "trusted" otherwise
func (df *Datafile) Kind() string {
	if df.Game.Release != nil {
		return "scene"
	}
	return "trusted"
}

// FileEntries lists the file entries of whichever section the document carries
func (df *Datafile) FileEntries() []File {
	if df.Game.Release != nil {
		return df.Game.Release.Files
	}
	if df.Game.Source != nil {
		return df.Game.Source.Files
	}
	return nil
}
