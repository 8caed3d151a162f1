package types

// Key identifies a field in the unified metadata key space.
//
// Keys are plain strings so callers can pass names coming from configuration or
// the command line; anything outside the registry below is rejected with
// FieldNotSupportedByLibraryError.
type Key string

// Unified metadata keys.
const (
	KeyTitle                Key = "TITLE"
	KeyArtists              Key = "ARTISTS"
	KeyAlbum                Key = "ALBUM"
	KeyAlbumArtists         Key = "ALBUM_ARTISTS"
	KeyGenres               Key = "GENRES_NAMES"
	KeyRating               Key = "RATING"
	KeyLanguage             Key = "LANGUAGE"
	KeyReleaseDate          Key = "RELEASE_DATE"
	KeyTrackNumber          Key = "TRACK_NUMBER"
	KeyDiscNumber           Key = "DISC_NUMBER"
	KeyBPM                  Key = "BPM"
	KeyComposers            Key = "COMPOSERS"
	KeyLyricists            Key = "LYRICISTS"
	KeyCopyright            Key = "COPYRIGHT"
	KeyComment              Key = "COMMENT"
	KeyUnsynchronizedLyrics Key = "UNSYNCHRONIZED_LYRICS"
	KeyReplayGain           Key = "REPLAYGAIN"
	KeyPublisher            Key = "PUBLISHER"
	KeyISRC                 Key = "ISRC"
)

// ValueType is the declared representation of a key's value.
//
// The Go types carried for each are: string, int, float64 and []string.
type ValueType int

const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
	TypeList
)

func (v ValueType) String() string {
	switch v {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float64"
	case TypeList:
		return "[]string"
	default:
		return "unknown"
	}
}

type keySpec struct {
	valueType ValueType
	multi     bool
}

// keyOrder fixes iteration order for Keys and for merged reads.
var keyOrder = []Key{
	KeyTitle,
	KeyArtists,
	KeyAlbum,
	KeyAlbumArtists,
	KeyGenres,
	KeyRating,
	KeyLanguage,
	KeyReleaseDate,
	KeyTrackNumber,
	KeyDiscNumber,
	KeyBPM,
	KeyComposers,
	KeyLyricists,
	KeyCopyright,
	KeyComment,
	KeyUnsynchronizedLyrics,
	KeyReplayGain,
	KeyPublisher,
	KeyISRC,
}

var keySpecs = map[Key]keySpec{
	KeyTitle:                {valueType: TypeString},
	KeyArtists:              {valueType: TypeList, multi: true},
	KeyAlbum:                {valueType: TypeString},
	KeyAlbumArtists:         {valueType: TypeList, multi: true},
	KeyGenres:               {valueType: TypeList, multi: true},
	KeyRating:               {valueType: TypeInt},
	KeyLanguage:             {valueType: TypeString},
	KeyReleaseDate:          {valueType: TypeString},
	KeyTrackNumber:          {valueType: TypeString},
	KeyDiscNumber:           {valueType: TypeInt},
	KeyBPM:                  {valueType: TypeInt},
	KeyComposers:            {valueType: TypeList, multi: true},
	KeyLyricists:            {valueType: TypeList, multi: true},
	KeyCopyright:            {valueType: TypeString},
	KeyComment:              {valueType: TypeString},
	KeyUnsynchronizedLyrics: {valueType: TypeString},
	KeyReplayGain:           {valueType: TypeString},
	KeyPublisher:            {valueType: TypeString},
	KeyISRC:                 {valueType: TypeString},
}

// Keys returns every registered key in registry order.
func Keys() []Key {
	out := make([]Key, len(keyOrder))
	copy(out, keyOrder)
	return out
}

// Known reports whether k is part of the registry.
func (k Key) Known() bool {
	_, ok := keySpecs[k]
	return ok
}

// ValueTypeOf returns the declared value type of k.
func ValueTypeOf(k Key) (ValueType, error) {
	spec, ok := keySpecs[k]
	if !ok {
		return 0, &FieldNotSupportedByLibraryError{Key: k}
	}
	return spec.valueType, nil
}

// CanHaveMultipleValues reports whether k can semantically hold several values.
// It drives multi-value splitting and holds exactly for the TypeList keys.
func CanHaveMultipleValues(k Key) (bool, error) {
	spec, ok := keySpecs[k]
	if !ok {
		return false, &FieldNotSupportedByLibraryError{Key: k}
	}
	return spec.multi, nil
}
