package tagbridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/tagbridge/internal/manager"
	"github.com/simonhull/tagbridge/internal/registry"

	// Register the metadata dialects.
	_ "github.com/simonhull/tagbridge/internal/id3v1"
	_ "github.com/simonhull/tagbridge/internal/id3v2"
	_ "github.com/simonhull/tagbridge/internal/riff"
	_ "github.com/simonhull/tagbridge/internal/vorbis"
)

// File is an audio file whose tags are read through one Manager per
// metadata format.
//
// Opening a file does not read its tags. Each Manager extracts its dialect
// on first use and caches the result until it writes. No file handle is
// held between calls.
//
// A File is not safe for concurrent use.
type File struct {
	// Path to the audio file
	Path string

	// Container selected from the file extension
	Container Container

	// File size in bytes when opened
	Size int64

	// Warnings from the last merged read (non-fatal issues)
	Warnings []Warning

	opts     *openOptions
	formats  []MetadataFormat
	managers map[MetadataFormat]*Manager
}

// Open prepares an audio file for metadata access.
//
// Supported containers: MP3, FLAC, WAV, selected by file extension.
// An unknown extension yields UnsupportedFormatError; invalid options yield
// ConfigurationError.
//
// Example:
//
//	file, err := tagbridge.Open("song.flac", tagbridge.WithNormalizedRatingMax(10))
//	if err != nil {
//		return err
//	}
//	md, err := file.UnifiedMetadata()
func Open(path string, opts ...Option) (*File, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if err := options.validate(); err != nil {
		return nil, err
	}

	container, err := ContainerFromPath(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	if stat.IsDir() {
		return nil, &UnsupportedFormatError{Path: path, Reason: "is a directory"}
	}

	return &File{
		Path:      path,
		Container: container,
		Size:      stat.Size(),
		opts:      options,
		formats:   prioritize(container.Formats(), options.priority),
		managers:  make(map[MetadataFormat]*Manager),
	}, nil
}

// prioritize moves the preferred formats the container supports to the front.
func prioritize(formats, preferred []MetadataFormat) []MetadataFormat {
	out := make([]MetadataFormat, 0, len(formats))
	for _, f := range preferred {
		if slices.Contains(formats, f) && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// OpenContext opens a file after checking ctx for cancellation.
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

// OpenMany opens multiple audio files and reads their merged metadata
// concurrently, using up to runtime.NumCPU() goroutines.
//
// Results are returned in the same order as the input paths. If any file
// fails to open or read, an error is returned and no files.
//
// Example:
//
//	files, err := tagbridge.OpenMany(ctx, paths)
//	for _, f := range files {
//		md, _ := f.UnifiedMetadata() // served from the warm cache
//		fmt.Println(f.Path, md[tagbridge.KeyTitle])
//	}
func OpenMany(ctx context.Context, paths []string, opts ...Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			file, err := Open(path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if _, err := file.UnifiedMetadata(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Formats returns the metadata formats of the container in read priority
// order. The first one is the target of Update by default.
func (f *File) Formats() []MetadataFormat {
	return slices.Clone(f.formats)
}

// Manager returns the Manager for one metadata format, creating it on first
// use. Formats the container cannot carry yield UnsupportedFormatError.
func (f *File) Manager(format MetadataFormat) (*Manager, error) {
	if m, ok := f.managers[format]; ok {
		return m, nil
	}
	if !slices.Contains(f.formats, format) {
		return nil, &UnsupportedFormatError{
			Path:   f.Path,
			Reason: fmt.Sprintf("%s files cannot carry %s metadata", f.Container, format),
		}
	}
	newDialect := registry.Get(format)
	if newDialect == nil {
		return nil, &UnsupportedFormatError{
			Path:   f.Path,
			Reason: fmt.Sprintf("no dialect registered for %s", format),
		}
	}

	m := manager.New(newDialect(f.Path, f.opts.manager()), f.opts.manager())
	f.managers[format] = m
	return m, nil
}

// Raw returns the case-preserving raw table of one metadata format.
func (f *File) Raw(format MetadataFormat) (*RawMetadata, error) {
	m, err := f.Manager(format)
	if err != nil {
		return nil, err
	}
	return m.Raw()
}

// UnifiedMetadata returns the merged metadata of all formats. For each key,
// the first format in priority order holding a value wins.
//
// A format whose tag is corrupted is skipped and reported in File.Warnings.
func (f *File) UnifiedMetadata() (Metadata, error) {
	out := make(Metadata)
	var warnings []Warning
	for _, format := range f.formats {
		m, err := f.Manager(format)
		if err != nil {
			return nil, err
		}
		md, err := m.UnifiedMetadata()
		if err != nil {
			if w, ok := skipCorrupted(format, err); ok {
				warnings = append(warnings, w)
				continue
			}
			return nil, fmt.Errorf("read %s: %w", format, err)
		}
		warnings = append(warnings, m.Warnings()...)
		for k, v := range md {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	}
	if err := f.recordWarnings(warnings); err != nil {
		return nil, err
	}
	return out, nil
}

// UnifiedMetadataField returns the value of key from the first format in
// priority order that holds one, or nil.
//
// Unknown keys yield FieldNotSupportedByLibraryError. A key none of the
// container's formats can carry yields FieldNotSupportedByFormatError.
func (f *File) UnifiedMetadataField(key Key) (any, error) {
	if !key.Known() {
		return nil, &FieldNotSupportedByLibraryError{Key: key}
	}

	var (
		warnings  []Warning
		supported bool
		value     any
	)
	for _, format := range f.formats {
		m, err := f.Manager(format)
		if err != nil {
			return nil, err
		}
		v, err := m.UnifiedMetadataField(key)
		var unsupported *FieldNotSupportedByFormatError
		switch {
		case errors.As(err, &unsupported):
			continue
		case err != nil:
			w, ok := skipCorrupted(format, err)
			if !ok {
				return nil, fmt.Errorf("read %s: %w", format, err)
			}
			warnings = append(warnings, w)
			supported = true
			continue
		}
		supported = true
		warnings = append(warnings, m.Warnings()...)
		if v != nil {
			value = v
			break
		}
	}

	if !supported {
		return nil, &FieldNotSupportedByFormatError{Key: key, Format: f.formats[0]}
	}
	if err := f.recordWarnings(warnings); err != nil {
		return nil, err
	}
	return value, nil
}

// UnifiedMetadataFieldFrom reads key from one metadata format only.
func (f *File) UnifiedMetadataFieldFrom(format MetadataFormat, key Key) (any, error) {
	m, err := f.Manager(format)
	if err != nil {
		return nil, err
	}
	return m.UnifiedMetadataField(key)
}

func skipCorrupted(format MetadataFormat, err error) (Warning, bool) {
	var corrupted *CorruptedFileError
	if !errors.As(err, &corrupted) {
		return Warning{}, false
	}
	return Warning{
		Stage:   format.String(),
		Message: fmt.Sprintf("skipped: %s", corrupted.Reason),
		Offset:  corrupted.Offset,
	}, true
}

func (f *File) recordWarnings(warnings []Warning) error {
	if f.opts.ignoreWarnings {
		f.Warnings = nil
		return nil
	}
	f.Warnings = warnings
	if f.opts.strictParsing && len(warnings) > 0 {
		return fmt.Errorf("strict parsing failed: %s", warnings[0])
	}
	return nil
}
