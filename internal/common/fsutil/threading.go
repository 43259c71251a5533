package fsutil

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
)

// Path mutex registry to protect operations on the same paths
var (
	pathMutexes sync.Map // Maps paths to mutexes
)

// GetPathMutex returns a mutex for the given path
func GetPathMutex(path string) *sync.Mutex {
	// Normalize the path to prevent different path representations causing issues
	normalizedPath := filepath.Clean(path)
	if abs, err := filepath.Abs(normalizedPath); err == nil {
		normalizedPath = abs
	}

	actual, _ := pathMutexes.LoadOrStore(normalizedPath, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// ClaimPaths takes the mutex of every path without blocking. If any path is
// already claimed the ones taken so far are released and ErrDestinationBusy
// is returned. The returned func releases all claims.
func ClaimPaths(paths ...string) (func(), error) {
	var held []*sync.Mutex
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}

	seen := make(map[*sync.Mutex]bool, len(paths))
	for _, path := range paths {
		mu := GetPathMutex(path)
		if seen[mu] {
			continue
		}
		if !mu.TryLock() {
			release()
			return nil, fmt.Errorf("%w: %s", errors.ErrDestinationBusy, path)
		}
		seen[mu] = true
		held = append(held, mu)
	}

	return release, nil
}
