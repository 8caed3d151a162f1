// Package id3v2 implements the ID3v2 dialect for MP3 files.
//
// ID3v2.3 and ID3v2.4 tags are read and written with bogem/id3v2. ID3v2.2
// tags, which that library rejects, are read through dhowden/tag and replaced
// by a current-version tag on the first write.
package id3v2

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/simonhull/tagbridge/internal/atomicfile"
	"github.com/simonhull/tagbridge/internal/manager"
	"github.com/simonhull/tagbridge/internal/registry"
	"github.com/simonhull/tagbridge/internal/types"
)

// POPM owner emails.
const (
	// TraktorEmail marks Traktor's rating frame, where 0 means unrated.
	TraktorEmail = "traktor@native-instruments.de"

	// RatingEmail owns the rating frame this package writes.
	RatingEmail = "Windows Media Player 9 Series"
)

// Raw key prefixes for frames that are qualified by a description or owner.
const (
	userTextPrefix = "TXXX:"
	ratingPrefix   = "POPM:"
)

var fieldMap = manager.Mapping{
	types.KeyTitle:                "TIT2",
	types.KeyArtists:              "TPE1",
	types.KeyAlbum:                "TALB",
	types.KeyAlbumArtists:         "TPE2",
	types.KeyGenres:               "TCON",
	types.KeyRating:               manager.Indirect,
	types.KeyLanguage:             "TLAN",
	types.KeyReleaseDate:          manager.Indirect,
	types.KeyTrackNumber:          "TRCK",
	types.KeyDiscNumber:           manager.Indirect,
	types.KeyBPM:                  "TBPM",
	types.KeyComposers:            "TCOM",
	types.KeyLyricists:            "TEXT",
	types.KeyCopyright:            "TCOP",
	types.KeyComment:              "COMM",
	types.KeyUnsynchronizedLyrics: "USLT",
	types.KeyReplayGain:           userTextPrefix + "REPLAYGAIN_TRACK_GAIN",
	types.KeyPublisher:            "TPUB",
	types.KeyISRC:                 "TSRC",
}

// Dialect reads and writes the ID3v2 tag of one file.
type Dialect struct {
	path string
	opts manager.Options
}

// New returns the ID3v2 dialect for the file at path.
func New(path string, opts manager.Options) manager.Dialect {
	return &Dialect{path: path, opts: opts}
}

func (d *Dialect) Format() types.MetadataFormat { return types.FormatID3v2 }
func (d *Dialect) ReadMap() manager.Mapping     { return fieldMap }
func (d *Dialect) WriteMap() manager.Mapping    { return fieldMap }

// RawRatingLimit is the range of the POPM rating byte.
func (d *Dialect) RawRatingLimit() int { return 255 }

// Extract returns the tag's frames keyed by frame ID. Comment and lyrics
// frames with a description, user text frames and rating frames are keyed
// "ID:description".
func (d *Dialect) Extract() (*types.RawMetadata, []types.Warning, error) {
	tag, err := id3v2.Open(d.path, id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		return readLegacy(d.path)
	}
	if err != nil {
		return nil, nil, openError(d.path, err)
	}
	defer tag.Close()

	return frameTable(tag), nil, nil
}

func frameTable(tag *id3v2.Tag) *types.RawMetadata {
	all := tag.AllFrames()
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	raw := types.NewRawMetadata()
	for _, id := range ids {
		for _, f := range all[id] {
			switch f := f.(type) {
			case id3v2.TextFrame:
				raw.Add(id, strings.TrimRight(f.Text, "\x00"))
			case id3v2.UserDefinedTextFrame:
				raw.Add(userTextPrefix+f.Description, strings.TrimRight(f.Value, "\x00"))
			case id3v2.CommentFrame:
				raw.Add(qualified(id, f.Description), f.Text)
			case id3v2.UnsynchronisedLyricsFrame:
				raw.Add(qualified(id, f.ContentDescriptor), f.Lyrics)
			case id3v2.PopularimeterFrame:
				raw.Add(ratingPrefix+f.Email, strconv.Itoa(int(f.Rating)))
			}
		}
	}
	return raw
}

func qualified(id, description string) string {
	if description == "" {
		return id
	}
	return id + ":" + description
}

// ReadRating reads the first non-Traktor POPM frame, falling back to
// Traktor's.
func (d *Dialect) ReadRating(upper *types.RawMetadata) (int, bool, bool) {
	traktorKey := strings.ToUpper(ratingPrefix + TraktorEmail)
	for key, values := range upper.All() {
		if !strings.HasPrefix(key, ratingPrefix) || key == traktorKey {
			continue
		}
		if n, ok := manager.ParseInt(values[0]); ok {
			return n, false, true
		}
	}
	if v, ok := upper.First(traktorKey); ok {
		if n, ok := manager.ParseInt(v); ok {
			return n, true, true
		}
	}
	return 0, false, false
}

// ReadIndirect resolves the release date and disc number.
func (d *Dialect) ReadIndirect(key types.Key, upper *types.RawMetadata) (any, error) {
	switch key {
	case types.KeyReleaseDate:
		return releaseDate(upper), nil
	case types.KeyDiscNumber:
		if v, ok := upper.First("TPOS"); ok {
			if n, ok := manager.ParseInt(v); ok {
				return n, nil
			}
		}
		return nil, nil
	}
	return nil, &types.FieldNotSupportedByFormatError{Key: key, Format: types.FormatID3v2}
}

// releaseDate prefers the v2.4 TDRC timestamp, then v2.3 TYER with TDAT (DDMM).
func releaseDate(upper *types.RawMetadata) any {
	if v, ok := upper.First("TDRC"); ok {
		v = strings.TrimSpace(v)
		if len(v) >= 10 && types.ValidReleaseDate(v[:10]) {
			return v[:10]
		}
		if len(v) >= 4 && types.ValidReleaseDate(v[:4]) {
			return v[:4]
		}
	}
	year, ok := upper.First("TYER")
	if year = strings.TrimSpace(year); !ok || !types.ValidReleaseDate(year) {
		return nil
	}
	if dm, ok := upper.First("TDAT"); ok {
		if dm = strings.TrimSpace(dm); len(dm) == 4 {
			if full := year + "-" + dm[2:4] + "-" + dm[0:2]; types.ValidReleaseDate(full) {
				return full
			}
		}
	}
	return year
}

// Edit opens the tag for modification. An ID3v2.2 tag is converted first.
func (d *Dialect) Edit() (manager.Editor, error) {
	tag, err := id3v2.Open(d.path, id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		return d.editLegacy()
	}
	if err != nil {
		return nil, openError(d.path, err)
	}
	return newEditor(tag, d.opts.ID3v2Version), nil
}

// editLegacy replaces an ID3v2.2 tag by an empty current-version tag holding
// the migrated frames. The original file is restored if migration fails.
func (d *Dialect) editLegacy() (manager.Editor, error) {
	legacy, _, err := readLegacy(d.path)
	if err != nil {
		return nil, err
	}
	original, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := Strip(d.path); err != nil {
		return nil, fmt.Errorf("strip unsupported ID3v2.2 tag: %w", err)
	}

	restore := func(cause error) error {
		if err := atomicfile.Write(d.path, func(w io.Writer) error {
			_, err := w.Write(original)
			return err
		}); err != nil {
			return errors.Join(cause, fmt.Errorf("restore ID3v2.2 tag: %w", err))
		}
		return cause
	}

	tag, err := id3v2.Open(d.path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, restore(openError(d.path, err))
	}
	ed := newEditor(tag, d.opts.ID3v2Version)
	if err := ed.migrate(legacy); err != nil {
		ed.Close()
		return nil, restore(fmt.Errorf("migrate ID3v2.2 tag: %w", err))
	}
	return ed, nil
}

// Delete strips the whole tag from the file.
func (d *Dialect) Delete() error {
	return Strip(d.path)
}

func openError(path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("open file: %w", err)
	}
	return &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("parse ID3v2 tag: %v", err)}
}

func init() {
	registry.Register(types.FormatID3v2, New)
}
