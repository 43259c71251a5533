// fsutil/files.go
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Path    string
	Size    int64
	Mode    os.FileMode
	IsDir   bool
	ModTime time.Time
}

// FileExists checks if a file exists and is not a directory
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// GetFileInfo retrieves file information
func GetFileInfo(path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("error getting file info: %w", err)
	}

	return &FileInfo{
		Path:    path,
		Size:    info.Size(),
		Mode:    info.Mode(),
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}, nil
}

// OpenFile opens a file for reading, mapping a missing file onto ErrFileNotFound
func OpenFile(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrFileReadError, path, err)
	}
	return file, nil
}

// ReadFile reads an entire file into memory. Only meant for small inputs such
// as text exports and Card ID sets.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrFileReadError, path, err)
	}
	return data, nil
}

// ReadFileString reads a file and returns its contents as a string
func ReadFileString(path string) (string, error) {
	data, err := ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadFileHeader reads the first n bytes of a file. Fewer bytes are returned
// when the file is shorter than n.
func ReadFileHeader(path string, n int) ([]byte, error) {
	file, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buffer := make([]byte, n)
	bytesRead, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrFileReadError, path, err)
	}

	return buffer[:bytesRead], nil
}

// WriteFile writes data to a file through a temporary sibling and a rename
func WriteFile(path string, data []byte, perm os.FileMode) error {
	af, err := CreateAtomic(path, perm)
	if err != nil {
		return err
	}

	if _, err := af.Write(data); err != nil {
		af.Abort()
		return fmt.Errorf("%w: %s: %v", errors.ErrFileWriteError, path, err)
	}

	return af.Commit()
}

// DeleteFile deletes a file if it exists
func DeleteFile(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil // File doesn't exist or is a directory, nothing to do
	}
	return os.Remove(path)
}

// AtomicFile is a file written under a temporary name in the destination
// directory and renamed into place on Commit.
type AtomicFile struct {
	*os.File
	path string
	done bool
}

// CreateAtomic creates the temporary file backing path
func CreateAtomic(path string, perm os.FileMode) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := CreateDirIfNotExists(dir); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrFileWriteError, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrPermissionDenied, dir)
		}
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrFileWriteError, path, err)
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrFileWriteError, path, err)
	}

	return &AtomicFile{File: tmp, path: path}, nil
}

// Path returns the final destination path
func (af *AtomicFile) Path() string {
	return af.path
}

// Commit flushes the temporary file and renames it over the destination
func (af *AtomicFile) Commit() error {
	if af.done {
		return nil
	}
	af.done = true

	if err := af.File.Sync(); err != nil {
		af.File.Close()
		os.Remove(af.File.Name())
		return fmt.Errorf("%w: %s: %v", errors.ErrFileWriteError, af.path, err)
	}
	if err := af.File.Close(); err != nil {
		os.Remove(af.File.Name())
		return fmt.Errorf("%w: %s: %v", errors.ErrFileWriteError, af.path, err)
	}
	if err := os.Rename(af.File.Name(), af.path); err != nil {
		os.Remove(af.File.Name())
		return fmt.Errorf("%w: %s: %v", errors.ErrFileWriteError, af.path, err)
	}
	return nil
}

// Abort discards the temporary file. Calling Abort after Commit is a no-op,
// so it can be deferred unconditionally.
func (af *AtomicFile) Abort() {
	if af.done {
		return
	}
	af.done = true
	af.File.Close()
	os.Remove(af.File.Name())
}
