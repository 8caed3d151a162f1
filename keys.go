package tagbridge

import "github.com/simonhull/tagbridge/internal/types"

// Key identifies a field in the unified metadata key space.
type Key = types.Key

// Metadata maps unified keys to values: string, int, float64 or []string.
// A nil value removes the field on update.
type Metadata = types.Metadata

// ValueType is the declared representation of a key's value.
type ValueType = types.ValueType

// Value types.
const (
	TypeString = types.TypeString
	TypeInt    = types.TypeInt
	TypeFloat  = types.TypeFloat
	TypeList   = types.TypeList
)

// Unified metadata keys.
const (
	KeyTitle                = types.KeyTitle
	KeyArtists              = types.KeyArtists
	KeyAlbum                = types.KeyAlbum
	KeyAlbumArtists         = types.KeyAlbumArtists
	KeyGenres               = types.KeyGenres
	KeyRating               = types.KeyRating
	KeyLanguage             = types.KeyLanguage
	KeyReleaseDate          = types.KeyReleaseDate
	KeyTrackNumber          = types.KeyTrackNumber
	KeyDiscNumber           = types.KeyDiscNumber
	KeyBPM                  = types.KeyBPM
	KeyComposers            = types.KeyComposers
	KeyLyricists            = types.KeyLyricists
	KeyCopyright            = types.KeyCopyright
	KeyComment              = types.KeyComment
	KeyUnsynchronizedLyrics = types.KeyUnsynchronizedLyrics
	KeyReplayGain           = types.KeyReplayGain
	KeyPublisher            = types.KeyPublisher
	KeyISRC                 = types.KeyISRC
)

// Keys returns every registered key in registry order.
func Keys() []Key {
	return types.Keys()
}

// ValueTypeOf returns the declared value type of key, or
// FieldNotSupportedByLibraryError for an unknown key.
func ValueTypeOf(key Key) (ValueType, error) {
	return types.ValueTypeOf(key)
}

// CanHaveMultipleValues reports whether key can semantically hold several
// values. Only list keys can.
func CanHaveMultipleValues(key Key) (bool, error) {
	return types.CanHaveMultipleValues(key)
}
