package id3v1

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/simonhull/tagbridge/internal/genre"
	"github.com/simonhull/tagbridge/internal/types"
)

// Size is the length of the ID3v1 trailer.
const Size = 128

// Tag is a decoded ID3v1 trailer.
type Tag struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	Track   int
	Genre   int
}

// Blank returns an empty tag with no genre.
func Blank() *Tag {
	return &Tag{Genre: genre.Unknown}
}

// IsTag reports whether b starts with the "TAG" marker.
func IsTag(b []byte) bool {
	return len(b) >= Size && string(b[:3]) == "TAG"
}

// Decode parses a 128-byte trailer. Text is Latin-1.
func Decode(b []byte) *Tag {
	t := &Tag{
		Title:  latin1(b[3:33]),
		Artist: latin1(b[33:63]),
		Album:  latin1(b[63:93]),
		Year:   latin1(b[93:97]),
		Genre:  int(b[127]),
	}
	if b[125] == 0 && b[126] != 0 {
		t.Comment = latin1(b[97:125])
		t.Track = int(b[126])
	} else {
		t.Comment = latin1(b[97:127])
	}
	return t
}

// Encode renders the trailer, truncating each field to its width.
func (t *Tag) Encode() []byte {
	b := make([]byte, Size)
	copy(b, "TAG")
	put(b[3:33], t.Title)
	put(b[33:63], t.Artist)
	put(b[63:93], t.Album)
	put(b[93:97], t.Year)
	if t.Track > 0 && t.Track <= 255 {
		put(b[97:125], t.Comment)
		b[126] = byte(t.Track)
	} else {
		put(b[97:127], t.Comment)
	}
	b[127] = byte(t.Genre)
	return b
}

// Raw returns the non-empty fields keyed by field name.
func (t *Tag) Raw() *types.RawMetadata {
	raw := types.NewRawMetadata()
	add := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			raw.Add(key, value)
		}
	}
	add(FieldTitle, t.Title)
	add(FieldArtist, t.Artist)
	add(FieldAlbum, t.Album)
	add(FieldYear, t.Year)
	add(FieldComment, t.Comment)
	if t.Track > 0 {
		raw.Add(FieldTrack, strconv.Itoa(t.Track))
	}
	if t.Genre != genre.Unknown {
		raw.Add(FieldGenre, strconv.Itoa(t.Genre))
	}
	return raw
}

func latin1(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return strings.TrimRight(string(s), " ")
}

// put writes s as Latin-1 into dst, replacing unencodable runes and cutting
// at the field width. The rest of dst stays zero.
func put(dst []byte, s string) {
	enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		b = []byte(s)
	}
	copy(dst, b)
}
