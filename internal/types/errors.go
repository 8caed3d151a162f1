package types

import "fmt"

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// UnsupportedFormatError is returned when a file's container cannot be handled,
// e.g. an unknown extension.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when a dialect payload cannot be parsed:
// bad magic bytes, truncated blocks, or length prefixes pointing past the data.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// Warning represents a non-fatal issue encountered while reading metadata.
//
// Warnings are collected on File.Warnings. Examples include:
//   - A secondary metadata format that failed to parse during a merged read
//   - A Vorbis comment without a '=' separator
//   - A case-variant key collision that was merged
type Warning struct {
	// Stage where the warning occurred, usually the metadata format name.
	Stage string

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

// UnsupportedWriteError indicates a metadata format that cannot be written at all.
type UnsupportedWriteError struct {
	Reason string
	Format MetadataFormat
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Format)
}

// FieldNotSupportedByLibraryError is returned for a key that is not part of the
// unified key registry at all.
type FieldNotSupportedByLibraryError struct {
	Key Key
}

func (e *FieldNotSupportedByLibraryError) Error() string {
	return fmt.Sprintf("field %q is not supported by the library", string(e.Key))
}

// FieldNotSupportedByFormatError is returned for a registered key that the
// metadata format has no mapping for.
type FieldNotSupportedByFormatError struct {
	Key    Key
	Format MetadataFormat
}

func (e *FieldNotSupportedByFormatError) Error() string {
	return fmt.Sprintf("field %s is not supported by %s", e.Key, e.Format)
}

// InvalidValueTypeError is returned when a value's Go type does not match the
// declared type of its key.
type InvalidValueTypeError struct {
	Key  Key
	Want ValueType
	Got  string
}

func (e *InvalidValueTypeError) Error() string {
	return fmt.Sprintf("invalid value type for %s: want %s, got %s", e.Key, e.Want, e.Got)
}

// InvalidValueFormatError is returned when a value has the right type but the
// wrong shape, such as a release date that is neither YYYY nor YYYY-MM-DD.
type InvalidValueFormatError struct {
	Key    Key
	Value  string
	Reason string
}

func (e *InvalidValueFormatError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Key, e.Reason)
}

// InvalidRatingValueError is returned when a rating is negative, above the
// configured maximum, not an exact tenth of that maximum, or not an integer.
type InvalidRatingValueError struct {
	Value  any
	Max    int
	Reason string
}

func (e *InvalidRatingValueError) Error() string {
	if e.Max > 0 {
		return fmt.Sprintf("invalid rating %v (max %d): %s", e.Value, e.Max, e.Reason)
	}
	return fmt.Sprintf("invalid rating %v: %s", e.Value, e.Reason)
}

// ConfigurationError is returned when an operation is missing, or was given an
// unusable, configuration parameter.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Option, e.Reason)
}
