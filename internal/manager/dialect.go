package manager

import "github.com/simonhull/tagbridge/internal/types"

// Indirect marks a key whose value needs dialect-specific logic rather than a
// single raw key lookup.
const Indirect = ""

// Mapping maps unified keys to a dialect's raw keys. A key mapped to Indirect
// is supported but handled by ReadIndirect / Editor.SetIndirect.
type Mapping map[types.Key]string

// Options carries the settings a Manager and its dialect need.
type Options struct {
	// RatingMax is the normalized rating scale. Zero selects raw mode.
	RatingMax int

	// ID3v2Version selects the major version written by the ID3v2 dialect (3 or 4).
	ID3v2Version byte
}

// Dialect is the capability set one tag format provides to a Manager.
//
// Implementations read their container freshly on every Extract and hold no
// open file handles between calls.
type Dialect interface {
	// Format identifies the tag dialect.
	Format() types.MetadataFormat

	// ReadMap and WriteMap return the static key tables.
	ReadMap() Mapping
	WriteMap() Mapping

	// Extract reads the raw key/value table, preserving key casing and
	// repeated instances. A file without this tag yields an empty table.
	Extract() (*types.RawMetadata, []types.Warning, error)

	// ReadIndirect resolves an Indirect key other than RATING from the
	// uppercase-merged raw table. A nil result means absent.
	ReadIndirect(key types.Key, upper *types.RawMetadata) (any, error)

	// ReadRating returns the stored rating and whether it came from the
	// Traktor-specific tag. ok is false when no rating is stored.
	ReadRating(upper *types.RawMetadata) (raw int, fromTraktor bool, ok bool)

	// Edit loads the tag for modification.
	Edit() (Editor, error)

	// Delete removes the whole tag from the file.
	Delete() error
}

// Editor applies validated changes to a loaded tag and persists them.
//
// Values are string, int, float64, []string, or nil to remove the field.
// Ratings arrive already converted to the raw value to store.
type Editor interface {
	Set(key types.Key, rawKey string, value any) error
	SetIndirect(key types.Key, value any) error
	Save() error
	Close() error
}

// RatingLimiter is implemented by dialects whose raw rating has a fixed range,
// such as the single byte of an ID3v2 POPM frame.
type RatingLimiter interface {
	RawRatingLimit() int
}

// VendorReader is implemented by dialects that record the encoder that wrote
// the tag, such as the vendor string of a Vorbis comment block.
type VendorReader interface {
	Vendor() (string, error)
}
