package riff

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/simonhull/tagbridge/internal/binary"
	"github.com/simonhull/tagbridge/internal/manager"
	"github.com/simonhull/tagbridge/internal/multivalue"
	"github.com/simonhull/tagbridge/internal/registry"
	"github.com/simonhull/tagbridge/internal/types"
)

// INFO subchunk IDs.
const (
	IDTitle     = "INAM"
	IDArtist    = "IART"
	IDAlbum     = "IPRD"
	IDGenre     = "IGNR"
	IDRating    = "IRTD"
	IDLanguage  = "ILNG"
	IDDate      = "ICRD"
	IDTrack     = "ITRK"
	IDPart      = "IPRT"
	IDComposer  = "IMUS"
	IDCopyright = "ICOP"
	IDComment   = "ICMT"
	IDISRC      = "ISRC"
)

var writeMap = manager.Mapping{
	types.KeyTitle:       IDTitle,
	types.KeyArtists:     IDArtist,
	types.KeyAlbum:       IDAlbum,
	types.KeyGenres:      IDGenre,
	types.KeyRating:      manager.Indirect,
	types.KeyLanguage:    IDLanguage,
	types.KeyReleaseDate: IDDate,
	types.KeyTrackNumber: IDTrack,
	types.KeyComposers:   IDComposer,
	types.KeyCopyright:   IDCopyright,
	types.KeyComment:     IDComment,
	types.KeyISRC:        IDISRC,
}

// readMap falls back to IPRT for the track number.
var readMap = func() manager.Mapping {
	m := maps.Clone(writeMap)
	m[types.KeyTrackNumber] = manager.Indirect
	return m
}()

// Dialect reads and writes the INFO list of one WAV file.
type Dialect struct {
	path string
}

// New returns the RIFF INFO dialect for the WAV file at path.
func New(path string, _ manager.Options) manager.Dialect {
	return &Dialect{path: path}
}

func (d *Dialect) Format() types.MetadataFormat { return types.FormatRIFF }
func (d *Dialect) ReadMap() manager.Mapping     { return readMap }
func (d *Dialect) WriteMap() manager.Mapping    { return writeMap }

// Extract returns the INFO entries keyed by subchunk ID.
func (d *Dialect) Extract() (*types.RawMetadata, []types.Warning, error) {
	entries, warnings, err := d.entries()
	if err != nil {
		return nil, nil, err
	}
	raw := types.NewRawMetadata()
	for _, e := range entries {
		raw.Add(e.ID, e.Value)
	}
	return raw, warnings, nil
}

func (d *Dialect) entries() ([]Entry, []types.Warning, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat file: %w", err)
	}
	return ReadInfo(binary.NewSafeReader(f, info.Size(), d.path))
}

// ReadIndirect resolves the track number from ITRK, then IPRT.
func (d *Dialect) ReadIndirect(key types.Key, upper *types.RawMetadata) (any, error) {
	if key != types.KeyTrackNumber {
		return nil, &types.FieldNotSupportedByFormatError{Key: key, Format: types.FormatRIFF}
	}
	for _, id := range []string{IDTrack, IDPart} {
		if values := upper.Get(id); len(values) > 0 {
			if v := manager.Coerce(key, values); v != nil {
				return v, nil
			}
		}
	}
	return nil, nil
}

// ReadRating reads IRTD.
func (d *Dialect) ReadRating(upper *types.RawMetadata) (int, bool, bool) {
	v, ok := upper.First(IDRating)
	if !ok {
		return 0, false, false
	}
	n, ok := manager.ParseInt(v)
	return n, false, ok
}

// Edit loads the INFO entries for modification.
func (d *Dialect) Edit() (manager.Editor, error) {
	entries, _, err := d.entries()
	if err != nil {
		return nil, err
	}
	return &editor{path: d.path, entries: entries}, nil
}

// Delete removes every LIST/INFO chunk.
func (d *Dialect) Delete() error {
	return WriteInfo(d.path, nil)
}

type editor struct {
	path    string
	entries []Entry
}

func (e *editor) Set(key types.Key, rawKey string, value any) error {
	e.entries = slices.DeleteFunc(e.entries, func(en Entry) bool { return en.ID == rawKey })

	var text string
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		text = v
	case int:
		text = strconv.Itoa(v)
	case []string:
		text = multivalue.Join(v)
	default:
		return &types.InvalidValueTypeError{Key: key, Got: fmt.Sprintf("%T", value)}
	}
	e.entries = append(e.entries, Entry{ID: rawKey, Value: text})
	return nil
}

// SetIndirect writes the rating to IRTD.
func (e *editor) SetIndirect(key types.Key, value any) error {
	if key != types.KeyRating {
		return &types.FieldNotSupportedByFormatError{Key: key, Format: types.FormatRIFF}
	}
	return e.Set(key, IDRating, value)
}

func (e *editor) Save() error {
	return WriteInfo(e.path, e.entries)
}

func (e *editor) Close() error { return nil }

func init() {
	registry.Register(types.FormatRIFF, New)
}
