package tagbridge

import (
	"github.com/simonhull/tagbridge/internal/types"
)

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exporting from internal/types to maintain public API.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
// Re-exporting from internal/types to maintain public API.
type CorruptedFileError = types.CorruptedFileError

// UnsupportedWriteError is an alias to types.UnsupportedWriteError.
type UnsupportedWriteError = types.UnsupportedWriteError

// FieldNotSupportedByLibraryError is returned for keys outside the registry.
type FieldNotSupportedByLibraryError = types.FieldNotSupportedByLibraryError

// FieldNotSupportedByFormatError is returned for registered keys a metadata
// format cannot carry.
type FieldNotSupportedByFormatError = types.FieldNotSupportedByFormatError

// InvalidValueTypeError is an alias to types.InvalidValueTypeError.
type InvalidValueTypeError = types.InvalidValueTypeError

// InvalidValueFormatError is an alias to types.InvalidValueFormatError.
type InvalidValueFormatError = types.InvalidValueFormatError

// InvalidRatingValueError is an alias to types.InvalidRatingValueError.
type InvalidRatingValueError = types.InvalidRatingValueError

// ConfigurationError is an alias to types.ConfigurationError.
type ConfigurationError = types.ConfigurationError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to maintain public API.
type Warning = types.Warning
