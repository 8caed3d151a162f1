// Package id3v1 implements the ID3v1 dialect: the fixed 128-byte trailer at
// the end of MP3, FLAC and WAV files.
//
// ID3v1.1 is detected by a zero byte 125 followed by a non-zero track byte.
package id3v1

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/simonhull/tagbridge/internal/atomicfile"
	"github.com/simonhull/tagbridge/internal/binary"
	"github.com/simonhull/tagbridge/internal/genre"
	"github.com/simonhull/tagbridge/internal/manager"
	"github.com/simonhull/tagbridge/internal/multivalue"
	"github.com/simonhull/tagbridge/internal/registry"
	"github.com/simonhull/tagbridge/internal/types"
)

// Raw field names.
const (
	FieldTitle   = "TITLE"
	FieldArtist  = "ARTIST"
	FieldAlbum   = "ALBUM"
	FieldYear    = "YEAR"
	FieldComment = "COMMENT"
	FieldTrack   = "TRACK"
	FieldGenre   = "GENRE"
)

var readMap = manager.Mapping{
	types.KeyTitle:       FieldTitle,
	types.KeyArtists:     FieldArtist,
	types.KeyAlbum:       FieldAlbum,
	types.KeyReleaseDate: FieldYear,
	types.KeyComment:     FieldComment,
	types.KeyTrackNumber: FieldTrack,
	types.KeyGenres:      FieldGenre,
}

// writeMap stores genres as a code, which needs a name lookup.
var writeMap = manager.Mapping{
	types.KeyTitle:       FieldTitle,
	types.KeyArtists:     FieldArtist,
	types.KeyAlbum:       FieldAlbum,
	types.KeyReleaseDate: FieldYear,
	types.KeyComment:     FieldComment,
	types.KeyTrackNumber: FieldTrack,
	types.KeyGenres:      manager.Indirect,
}

// Dialect reads and writes the ID3v1 trailer of one file.
type Dialect struct {
	path string
}

// New returns the ID3v1 dialect for the file at path.
func New(path string, _ manager.Options) manager.Dialect {
	return &Dialect{path: path}
}

func (d *Dialect) Format() types.MetadataFormat { return types.FormatID3v1 }
func (d *Dialect) ReadMap() manager.Mapping     { return readMap }
func (d *Dialect) WriteMap() manager.Mapping    { return writeMap }

// Extract decodes the trailer. A file without one yields an empty table.
func (d *Dialect) Extract() (*types.RawMetadata, []types.Warning, error) {
	t, err := d.read()
	if err != nil || t == nil {
		return types.NewRawMetadata(), nil, err
	}
	return t.Raw(), nil, nil
}

// read returns the trailer, or nil when the file has none.
func (d *Dialect) read() (*Tag, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.Size() < Size {
		return nil, nil
	}

	sr := binary.NewSafeReader(f, info.Size(), d.path)
	b, err := sr.Bytes(info.Size()-Size, Size, "ID3v1 tag")
	if err != nil {
		return nil, err
	}
	if !IsTag(b) {
		return nil, nil
	}
	return Decode(b), nil
}

// ReadIndirect is never reached: only genres are indirect, and only on write.
func (d *Dialect) ReadIndirect(key types.Key, _ *types.RawMetadata) (any, error) {
	return nil, &types.FieldNotSupportedByFormatError{Key: key, Format: types.FormatID3v1}
}

// ReadRating always reports no rating; ID3v1 has no such field.
func (d *Dialect) ReadRating(*types.RawMetadata) (int, bool, bool) {
	return 0, false, false
}

// Edit loads the trailer, or a blank one, for modification.
func (d *Dialect) Edit() (manager.Editor, error) {
	t, err := d.read()
	if err != nil {
		return nil, err
	}
	if t == nil {
		t = Blank()
	}
	return &editor{path: d.path, tag: t}, nil
}

// Delete truncates the trailer off the file. A file without one is left
// untouched.
func (d *Dialect) Delete() error {
	t, err := d.read()
	if err != nil || t == nil {
		return err
	}
	return rewrite(d.path, nil)
}

// rewrite replaces any existing trailer with tag, or drops it when tag is nil.
func rewrite(path string, tag []byte) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if len(data) >= Size && IsTag(data[len(data)-Size:]) {
		data = data[:len(data)-Size]
	}
	return atomicfile.Write(path, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return err
		}
		_, err := w.Write(tag)
		return err
	})
}

type editor struct {
	path string
	tag  *Tag
}

func (e *editor) Set(key types.Key, rawKey string, value any) error {
	var s string
	switch v := value.(type) {
	case nil:
	case string:
		s = v
	case []string:
		s = multivalue.Join(v)
	case int:
		s = strconv.Itoa(v)
	default:
		return &types.InvalidValueTypeError{Key: key, Got: fmt.Sprintf("%T", value)}
	}

	switch rawKey {
	case FieldTitle:
		e.tag.Title = s
	case FieldArtist:
		e.tag.Artist = s
	case FieldAlbum:
		e.tag.Album = s
	case FieldYear:
		if len(s) > 4 {
			s = s[:4]
		}
		e.tag.Year = s
	case FieldComment:
		e.tag.Comment = s
	case FieldTrack:
		if s == "" {
			e.tag.Track = 0
			return nil
		}
		n, ok := manager.ParseInt(s)
		if !ok || n < 0 || n > 255 {
			return &types.InvalidValueFormatError{Key: key, Value: s, Reason: "ID3v1 track must be 0-255"}
		}
		e.tag.Track = n
	default:
		return &types.FieldNotSupportedByFormatError{Key: key, Format: types.FormatID3v1}
	}
	return nil
}

// SetIndirect stores the first genre name as its code. Names outside the
// table store 255.
func (e *editor) SetIndirect(key types.Key, value any) error {
	if key != types.KeyGenres {
		return &types.FieldNotSupportedByFormatError{Key: key, Format: types.FormatID3v1}
	}
	e.tag.Genre = genre.Unknown
	if names, ok := value.([]string); ok && len(names) > 0 {
		e.tag.Genre, _ = genre.Code(names[0])
	}
	return nil
}

func (e *editor) Save() error {
	return rewrite(e.path, e.tag.Encode())
}

func (e *editor) Close() error { return nil }

func init() {
	registry.Register(types.FormatID3v1, New)
}
