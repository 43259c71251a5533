package xci

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
)

// AssembleResult describes a FullXCI written to disk
type AssembleResult struct {
	Path   string
	Digest digest.Record
}

// SplitResult describes the two files recovered from a FullXCI
type SplitResult struct {
	InitialAreaPath string
	DefaultPath     string
}

// ReadInitialArea loads an Initial Area file, rejecting anything that is not
// exactly 512 bytes before reading it.
func ReadInitialArea(path string) ([]byte, error) {
	info, err := fsutil.GetFileInfo(path)
	if err != nil {
		return nil, err
	}
	if info.Size != InitialAreaSize {
		return nil, errors.Mismatch(path, fmt.Sprintf("%d bytes", InitialAreaSize),
			fmt.Errorf("%w: file is %d bytes", errors.ErrInvalidInitialAreaSize, info.Size))
	}
	return fsutil.ReadFile(path)
}

// openSource opens path as a Source
func openSource(path string) (*os.File, *io.SectionReader, error) {
	file, err := fsutil.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("%w: %s: %v", errors.ErrFileReadError, path, err)
	}
	return file, io.NewSectionReader(file, 0, info.Size()), nil
}

// AssembleFile writes a FullXCI built from the Initial Area at iaPath and the
// Default image at defaultPath. An empty outPath selects FullName(defaultPath).
// The FullXCI digest is computed while writing.
func AssembleFile(ctx context.Context, iaPath, defaultPath, outPath string, opts Options) (*AssembleResult, error) {
	if outPath == "" {
		outPath = FullName(defaultPath)
	}

	release, err := fsutil.ClaimPaths(outPath)
	if err != nil {
		return nil, err
	}
	defer release()

	initialArea, err := ReadInitialArea(iaPath)
	if err != nil {
		return nil, err
	}

	file, img, err := openSource(defaultPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	out, err := fsutil.CreateAtomic(outPath, 0644)
	if err != nil {
		return nil, err
	}
	defer out.Abort()

	engine := digest.New()
	if err := Assemble(ctx, io.MultiWriter(out, engine), initialArea, img, opts); err != nil {
		return nil, annotate(err, iaPath, defaultPath)
	}
	if err := out.Commit(); err != nil {
		return nil, err
	}

	result := &AssembleResult{Path: outPath, Digest: engine.Sum()}
	logger.LogInfo("FullXCI written", map[string]interface{}{
		"path":  outPath,
		"size":  result.Digest.Size,
		"crc32": result.Digest.CRC32,
	})
	return result, nil
}

// TruncateFile splits the FullXCI at fullPath. Outputs go next to the input
// unless outDir is set.
func TruncateFile(ctx context.Context, fullPath, outDir string, opts Options) (*SplitResult, error) {
	iaPath, defaultPath := SplitNames(fullPath)
	if outDir != "" {
		iaPath = filepath.Join(outDir, filepath.Base(iaPath))
		defaultPath = filepath.Join(outDir, filepath.Base(defaultPath))
	}

	release, err := fsutil.ClaimPaths(iaPath, defaultPath)
	if err != nil {
		return nil, err
	}
	defer release()

	file, img, err := openSource(fullPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	iaOut, err := fsutil.CreateAtomic(iaPath, 0644)
	if err != nil {
		return nil, err
	}
	defer iaOut.Abort()

	defaultOut, err := fsutil.CreateAtomic(defaultPath, 0644)
	if err != nil {
		return nil, err
	}
	defer defaultOut.Abort()

	if err := Truncate(ctx, img, iaOut, defaultOut, opts); err != nil {
		if errors.Is(err, errors.ErrNotAFullImage) || errors.Is(err, errors.ErrShortImage) {
			return nil, errors.Mismatch(fullPath, KindFull.String(), err)
		}
		return nil, err
	}

	if err := iaOut.Commit(); err != nil {
		return nil, err
	}
	if err := defaultOut.Commit(); err != nil {
		return nil, err
	}

	logger.LogInfo("FullXCI truncated", map[string]interface{}{
		"initial_area": iaPath,
		"default":      defaultPath,
	})
	return &SplitResult{InitialAreaPath: iaPath, DefaultPath: defaultPath}, nil
}

// annotate attaches the offending file to structural errors from Assemble
func annotate(err error, iaPath, defaultPath string) error {
	switch {
	case errors.Is(err, errors.ErrInitialAreaNotBlank):
		return errors.Mismatch(iaPath, "zero bytes in the reserved region", err)
	case errors.Is(err, errors.ErrWrongImageKind):
		return errors.Mismatch(defaultPath, KindDefault.String(), err)
	case errors.Is(err, errors.ErrShortImage):
		return errors.Mismatch(defaultPath, fmt.Sprintf("at least %d bytes", probeOffset+probeSize), err)
	default:
		return err
	}
}
