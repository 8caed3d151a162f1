package tagbridge

import (
	"fmt"
	"os"
	"reflect"

	"github.com/simonhull/tagbridge/internal/atomicfile"
	"github.com/simonhull/tagbridge/internal/manager"
	"github.com/simonhull/tagbridge/internal/registry"
	"github.com/simonhull/tagbridge/internal/types"
)

// Update writes delta to the primary metadata format, or the one chosen with
// WithTargetFormat. A nil value removes the field.
//
// Every field is validated before the file is touched: one invalid field
// aborts the whole update. The rewrite itself goes through a temporary file
// and a rename, so the original is unchanged if it fails.
//
//	err := file.Update(tagbridge.Metadata{
//	    tagbridge.KeyTitle:   "Song",
//	    tagbridge.KeyArtists: []string{"A", "B"},
//	    tagbridge.KeyRating:  nil,
//	}, tagbridge.WithBackup(".bak"))
func (f *File) Update(delta Metadata, opts ...UpdateOption) error {
	options := defaultUpdateOptions()
	for _, opt := range opts {
		opt(options)
	}

	target := options.target
	if target == FormatUnknown {
		target = f.formats[0]
	}
	m, err := f.Manager(target)
	if err != nil {
		return err
	}

	// A delta that would be rejected must not leave a backup behind.
	if err := m.Validate(delta); err != nil {
		return err
	}

	var origInfo os.FileInfo
	if options.preserveModTime {
		if info, err := os.Stat(f.Path); err == nil {
			origInfo = info
		}
	}

	if options.backupSuffix != "" {
		if err := atomicfile.Copy(f.Path, f.Path+options.backupSuffix); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	err = m.Update(delta)
	f.refresh()
	if err != nil {
		return err
	}

	if origInfo != nil {
		_ = os.Chtimes(f.Path, origInfo.ModTime(), origInfo.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	if options.validate {
		if err := f.validateWritten(target, delta); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}
	return nil
}

// validateWritten re-reads target through a fresh dialect and compares every
// written field.
func (f *File) validateWritten(target MetadataFormat, delta Metadata) error {
	opts := f.opts.manager()
	fresh := manager.New(registry.Get(target)(f.Path, opts), opts)

	for key, want := range delta {
		want = types.CleanValue(want)
		got, err := fresh.UnifiedMetadataField(key)
		if err != nil {
			return fmt.Errorf("re-read %s: %w", key, err)
		}
		if !reflect.DeepEqual(got, want) {
			return fmt.Errorf("%s mismatch: got %v, want %v", key, got, want)
		}
	}
	return nil
}

// Delete removes the whole tag of one metadata format from the file.
//
// Deletion is best-effort: failures, including a format the container
// cannot carry, are reported as false. Deleting a tag that is not there
// succeeds.
func (f *File) Delete(format MetadataFormat) bool {
	m, err := f.Manager(format)
	if err != nil {
		return false
	}
	ok := m.Delete()
	f.refresh()
	return ok
}

// refresh drops every cached tag after the file changed on disk.
func (f *File) refresh() {
	if info, err := os.Stat(f.Path); err == nil {
		f.Size = info.Size()
	}
	for _, m := range f.managers {
		m.Invalidate()
	}
}
