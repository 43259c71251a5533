package errors

import (
	"errors"
	"fmt"
)

var (
	// General Errors
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrUnsupportedFile   = errors.New("unsupported file format")
	ErrPathNotAccessible = errors.New("path is not accessible")

	// Structural Mismatch Errors
	ErrWrongImageKind         = errors.New("image is a FullXCI, expected a Default XCI")
	ErrNotAFullImage          = errors.New("image is a Default XCI, expected a FullXCI")
	ErrInvalidInitialAreaSize = errors.New("initial area must be exactly 512 bytes")
	ErrInitialAreaNotBlank    = errors.New("initial area reserved region is not zero-filled")
	ErrShortImage             = errors.New("image is shorter than the required probe offset")
	ErrCardIDTooShort         = errors.New("card ID set is shorter than 12 bytes")
	ErrDestinationBusy        = errors.New("destination is already being written")

	// Missing External Artifact Errors
	ErrMissingArtifact       = errors.New("required external artifact is missing")
	ErrMissingSceneDirectory = errors.New("scene release requires a scene directory")
	ErrExternalToolFailed    = errors.New("external tool failed")

	// Metadata Errors
	ErrUnrecognizedMetadata = errors.New("metadata input does not match any known dialect")
	ErrUnknownDialect       = errors.New("unknown metadata dialect")

	// Integrity Errors
	ErrIntegrityMismatch = errors.New("checksum mismatch")

	// Submission Errors
	ErrUnknownSceneGroup  = errors.New("scene group is not in the known list")
	ErrSubmissionNotReady = errors.New("submission has unfilled fields")

	// File & Directory Errors
	ErrFileNotFound    = errors.New("file not found")
	ErrFileReadError   = errors.New("error reading file")
	ErrFileWriteError  = errors.New("error writing to file")
	ErrFileExistsError = errors.New("file already exists")
	ErrDirNotFound     = errors.New("directory not found")

	// Decompression Errors
	ErrDecompressionFailed    = errors.New("decompression failed")
	ErrUnsupportedCompression = errors.New("unsupported compression format")

	// Configuration Errors
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrConfigParseError = errors.New("error parsing configuration")
	ErrNotInitialized   = errors.New("component not initialized")
)

// MismatchError reports which file failed which structural expectation.
type MismatchError struct {
	Path     string
	Expected string
	Err      error
}

func (e *MismatchError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v (expected %s)", e.Path, e.Err, e.Expected)
}

func (e *MismatchError) Unwrap() error {
	return e.Err
}

// Mismatch wraps err with the offending path and the expectation it failed.
func Mismatch(path, expected string, err error) error {
	return &MismatchError{Path: path, Expected: expected, Err: err}
}

// Is and As are re-exported so callers importing this package under the
// name "errors" keep access to the standard helpers.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
