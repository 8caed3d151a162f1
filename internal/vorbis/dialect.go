// Package vorbis implements the Vorbis comment dialect for FLAC files.
//
// Reads go through the case-preserving block reader in internal/flac. Writes
// rebuild the VORBIS_COMMENT block with go-flac and keep the vendor string and
// every comment the update does not touch.
package vorbis

import (
	"fmt"
	"os"
	"strings"

	"github.com/simonhull/tagbridge/internal/flac"
	"github.com/simonhull/tagbridge/internal/manager"
	"github.com/simonhull/tagbridge/internal/registry"
	"github.com/simonhull/tagbridge/internal/types"
)

// Vorbis comment field names.
const (
	FieldTitle       = "TITLE"
	FieldArtist      = "ARTIST"
	FieldAlbum       = "ALBUM"
	FieldAlbumArtist = "ALBUMARTIST"
	FieldGenre       = "GENRE"
	FieldRating      = "RATING"
	FieldLanguage    = "LANGUAGE"
	FieldDate        = "DATE"
	FieldTrackNumber = "TRACKNUMBER"
	FieldDiscNumber  = "DISCNUMBER"
	FieldBPM         = "BPM"
	FieldComposer    = "COMPOSER"
	FieldLyricist    = "LYRICIST"
	FieldCopyright   = "COPYRIGHT"
	FieldComment     = "COMMENT"
	FieldLyrics      = "LYRICS"
	FieldReplayGain  = "REPLAYGAIN_TRACK_GAIN"
	FieldPublisher   = "PUBLISHER"
	FieldISRC        = "ISRC"
)

var fieldMap = manager.Mapping{
	types.KeyTitle:                FieldTitle,
	types.KeyArtists:              FieldArtist,
	types.KeyAlbum:                FieldAlbum,
	types.KeyAlbumArtists:         FieldAlbumArtist,
	types.KeyGenres:               FieldGenre,
	types.KeyRating:               manager.Indirect,
	types.KeyLanguage:             FieldLanguage,
	types.KeyReleaseDate:          FieldDate,
	types.KeyTrackNumber:          FieldTrackNumber,
	types.KeyDiscNumber:           FieldDiscNumber,
	types.KeyBPM:                  FieldBPM,
	types.KeyComposers:            FieldComposer,
	types.KeyLyricists:            FieldLyricist,
	types.KeyCopyright:            FieldCopyright,
	types.KeyComment:              FieldComment,
	types.KeyUnsynchronizedLyrics: FieldLyrics,
	types.KeyReplayGain:           FieldReplayGain,
	types.KeyPublisher:            FieldPublisher,
	types.KeyISRC:                 FieldISRC,
}

// Dialect reads and writes the Vorbis comments of one FLAC file.
type Dialect struct {
	path string
	opts manager.Options
}

// New returns the Vorbis dialect for the FLAC file at path.
func New(path string, opts manager.Options) manager.Dialect {
	return &Dialect{path: path, opts: opts}
}

func (d *Dialect) Format() types.MetadataFormat { return types.FormatVorbis }
func (d *Dialect) ReadMap() manager.Mapping     { return fieldMap }
func (d *Dialect) WriteMap() manager.Mapping    { return fieldMap }

// Extract reads the comments with their original casing.
func (d *Dialect) Extract() (*types.RawMetadata, []types.Warning, error) {
	c, err := d.comments()
	if err != nil {
		return nil, nil, err
	}
	return c.Raw, c.Warnings, nil
}

// Vendor returns the vendor string of the comment block.
func (d *Dialect) Vendor() (string, error) {
	c, err := d.comments()
	if err != nil {
		return "", err
	}
	return c.Vendor, nil
}

func (d *Dialect) comments() (*flac.Comments, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	return flac.ReadComments(f, info.Size(), d.path)
}

// ReadIndirect has nothing to resolve beyond the rating.
func (d *Dialect) ReadIndirect(types.Key, *types.RawMetadata) (any, error) {
	return nil, nil
}

// ReadRating reads the RATING comment. Vorbis has no Traktor-specific field.
func (d *Dialect) ReadRating(upper *types.RawMetadata) (int, bool, bool) {
	v, ok := upper.First(FieldRating)
	if !ok {
		return 0, false, false
	}
	n, ok := manager.ParseInt(v)
	return n, false, ok
}

// Edit loads the FLAC metadata blocks for modification.
func (d *Dialect) Edit() (manager.Editor, error) {
	return openEditor(d.path)
}

// Delete removes the VORBIS_COMMENT block.
func (d *Dialect) Delete() error {
	ed, err := openEditor(d.path)
	if err != nil {
		return err
	}
	ed.drop = true
	return ed.Save()
}

func sameField(comment, field string) bool {
	key, _, _ := strings.Cut(comment, "=")
	return strings.EqualFold(key, field)
}

func init() {
	registry.Register(types.FormatVorbis, New)
}
