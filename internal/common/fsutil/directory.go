// fsutil/directory.go
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
)

// DirEntry represents an entry in a directory (file or subdirectory)
type DirEntry struct {
	Path     string
	Name     string
	IsDir    bool
	Size     int64
	Mode     os.FileMode
	ModTime  time.Time
	FullPath string
}

// DirExists checks if a directory exists
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CreateDir creates a directory if it doesn't exist
func CreateDir(path string, perm os.FileMode) error {
	if DirExists(path) {
		return nil // Directory already exists
	}
	return os.MkdirAll(path, perm)
}

// CreateDirIfNotExists creates a directory with standard permissions if it doesn't exist
func CreateDirIfNotExists(path string) error {
	return CreateDir(path, 0755)
}

// ListDir returns all files and directories in a directory (non-recursive),
// sorted by name
func ListDir(path string) ([]DirEntry, error) {
	if !DirExists(path) {
		return nil, fmt.Errorf("%w: %s", errors.ErrDirNotFound, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	result := make([]DirEntry, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}

		result = append(result, DirEntry{
			Path:     path,
			Name:     entry.Name(),
			IsDir:    entry.IsDir(),
			Size:     info.Size(),
			Mode:     info.Mode(),
			ModTime:  info.ModTime(),
			FullPath: filepath.Join(path, entry.Name()),
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ListFiles returns the files in a directory (non-recursive, no directories)
func ListFiles(path string) ([]DirEntry, error) {
	entries, err := ListDir(path)
	if err != nil {
		return nil, err
	}

	files := make([]DirEntry, 0)
	for _, entry := range entries {
		if !entry.IsDir {
			files = append(files, entry)
		}
	}

	return files, nil
}

// FindFilesByExt returns the files in a directory with the given extension,
// compared case-insensitively
func FindFilesByExt(path, ext string) ([]DirEntry, error) {
	files, err := ListFiles(path)
	if err != nil {
		return nil, err
	}

	var matches []DirEntry
	for _, file := range files {
		if strings.EqualFold(filepath.Ext(file.Name), ext) {
			matches = append(matches, file)
		}
	}

	return matches, nil
}
