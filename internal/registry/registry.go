// Package registry maps metadata formats to their dialect constructors.
package registry

import (
	"slices"
	"sync"

	"github.com/simonhull/tagbridge/internal/manager"
	"github.com/simonhull/tagbridge/internal/types"
)

// Constructor creates the dialect for one file.
type Constructor func(path string, opts manager.Options) manager.Dialect

var (
	mu           sync.RWMutex
	constructors = make(map[types.MetadataFormat]Constructor)
)

// Register registers the dialect constructor for a format.
// This is called by dialect packages during initialization (init functions).
func Register(format types.MetadataFormat, c Constructor) {
	mu.Lock()
	defer mu.Unlock()
	constructors[format] = c
}

// Get returns the constructor for a format, or nil if none is registered.
func Get(format types.MetadataFormat) Constructor {
	mu.RLock()
	defer mu.RUnlock()
	return constructors[format]
}

// Formats returns the registered formats in ascending order.
func Formats() []types.MetadataFormat {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]types.MetadataFormat, 0, len(constructors))
	for f := range constructors {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
