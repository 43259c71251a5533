package scene

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/osutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
)

// volumePattern matches the numbered continuation volumes of an archive
var volumePattern = regexp.MustCompile(`.*\.r\d{2}$`)

// Extractor unpacks scene archives with an external unrar
type Extractor struct {
	Tool   string
	Runner osutil.Runner
}

// NewExtractor resolves unrar inside dir unless tool is given
func NewExtractor(dir, tool string) *Extractor {
	if tool == "" {
		tool = filepath.Join(dir, osutil.ExecutableName("unrar"))
	}
	return &Extractor{Tool: tool, Runner: osutil.CommandRunner{}}
}

// Args builds the unrar command line. An empty password is passed as "-p-"
// so unrar never prompts.
func (e *Extractor) Args(dir, archive, password string) []string {
	pw := "-p-"
	if password != "" {
		pw = "-p" + password
	}
	return []string{"x", "-o+", pw, archive, dir + string(filepath.Separator)}
}

// Extract unpacks archive into dir. Unless keep is set the archive and its
// .rNN volumes are deleted afterwards.
func (e *Extractor) Extract(ctx context.Context, dir, archive, password string, keep bool) error {
	if !fsutil.FileExists(e.Tool) {
		return fmt.Errorf("%w: %s", errors.ErrMissingArtifact, e.Tool)
	}
	if archive == "" {
		return fmt.Errorf("%w: no .rar file in %s", errors.ErrMissingArtifact, dir)
	}

	archivePath := filepath.Join(dir, archive)
	if !fsutil.FileExists(archivePath) {
		return fmt.Errorf("%w: %s", errors.ErrFileNotFound, archivePath)
	}

	logger.LogInfo("extracting scene archive", map[string]interface{}{
		"archive": archivePath,
		"keep":    keep,
	})

	if _, err := e.Runner.Run(ctx, e.Tool, e.Args(dir, archivePath, password)...); err != nil {
		return err
	}

	if keep {
		return nil
	}
	return removeVolumes(dir, archivePath)
}

func removeVolumes(dir, archivePath string) error {
	files, err := fsutil.ListFiles(dir)
	if err != nil {
		return err
	}

	for _, f := range files {
		if volumePattern.MatchString(f.Name) {
			if err := fsutil.DeleteFile(f.FullPath); err != nil {
				return fmt.Errorf("%w: %s: %v", errors.ErrFileWriteError, f.FullPath, err)
			}
		}
	}

	if err := fsutil.DeleteFile(archivePath); err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrFileWriteError, archivePath, err)
	}
	logger.LogDebug("removed scene archives", map[string]interface{}{"dir": dir})
	return nil
}
