// Package hactool drives hactoolnet to list the titles inside a cartridge
// image and feeds its output to the metadata parser.
package hactool

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/osutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/metadata"
)

const (
	ExecutableName = "hactoolnet"
	KeysName       = "prod.keys"
	libHacName     = "LibHac.dll"
)

// Tool locates hactoolnet and its key file
type Tool struct {
	Executable string
	Keys       string
	// LibHac is only required next to the Windows build
	LibHac string

	Runner osutil.Runner
}

// New resolves the tool inside dir. Explicit executable or keys paths take
// precedence over dir.
func New(dir, executable, keys string) *Tool {
	t := &Tool{
		Executable: executable,
		Keys:       keys,
		Runner:     osutil.CommandRunner{},
	}
	if t.Executable == "" {
		t.Executable = filepath.Join(dir, osutil.ExecutableName(ExecutableName))
	}
	if t.Keys == "" {
		t.Keys = filepath.Join(dir, KeysName)
	}
	if osutil.IsWindows() {
		t.LibHac = filepath.Join(filepath.Dir(t.Executable), libHacName)
	}
	return t
}

// RequiredArtifacts lists every file the tool needs
func (t *Tool) RequiredArtifacts() []string {
	artifacts := []string{t.Executable, t.Keys}
	if t.LibHac != "" {
		artifacts = append(artifacts, t.LibHac)
	}
	return artifacts
}

// Check reports every missing artifact in one error
func (t *Tool) Check() error {
	var missing []string
	for _, path := range t.RequiredArtifacts() {
		if !fsutil.FileExists(path) {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errors.ErrMissingArtifact, strings.Join(missing, ", "))
	}
	return nil
}

// Args builds the hactoolnet command line for image
func (t *Tool) Args(image string) []string {
	return []string{"-k", t.Keys, "-t", "xci", "--disablekeywarns", "--listtitles", image}
}

// ListTitles runs hactoolnet against image and returns its standard output
func (t *Tool) ListTitles(ctx context.Context, image string) (string, error) {
	if err := t.Check(); err != nil {
		return "", err
	}
	if !fsutil.FileExists(image) {
		return "", fmt.Errorf("%w: %s", errors.ErrFileNotFound, image)
	}

	logger.LogDebug("running hactoolnet", map[string]interface{}{
		"executable": t.Executable,
		"image":      image,
	})

	out, err := t.Runner.Run(ctx, t.Executable, t.Args(image)...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Import lists the titles in image and parses them into a metadata record.
// Output without a single recognisable title is an error.
func (t *Tool) Import(ctx context.Context, image string) (metadata.Record, error) {
	out, err := t.ListTitles(ctx, image)
	if err != nil {
		return metadata.Record{}, err
	}

	record, err := metadata.ParseAs("hactool", out)
	if err != nil {
		return metadata.Record{}, err
	}
	if len(record.Titles) == 0 {
		return metadata.Record{}, fmt.Errorf("%w: hactoolnet listed no applications for %s", errors.ErrUnrecognizedMetadata, image)
	}

	logger.LogInfo("imported metadata", map[string]interface{}{
		"image":  image,
		"titles": strings.Join(record.TitleIDs(), ", "),
	})
	return record, nil
}
