package manager

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/tagbridge/internal/types"
)

// memDialect stores raw comments in memory, Vorbis style: lists are repeated
// entries and RATING is a plain number.
type memDialect struct {
	entries  [][2]string
	extracts int
	edits    int
	saves    int
	readOnly bool
	failRead error
	failDel  error
}

var memMap = Mapping{
	types.KeyTitle:       "TITLE",
	types.KeyArtists:     "ARTIST",
	types.KeyGenres:      "GENRE",
	types.KeyTrackNumber: "TRACKNUMBER",
	types.KeyBPM:         "BPM",
	types.KeyReleaseDate: "DATE",
	types.KeyRating:      Indirect,
	types.KeyDiscNumber:  Indirect,
}

func (d *memDialect) Format() types.MetadataFormat { return types.FormatVorbis }
func (d *memDialect) ReadMap() Mapping             { return memMap }

func (d *memDialect) WriteMap() Mapping {
	if d.readOnly {
		return nil
	}
	return memMap
}

func (d *memDialect) Extract() (*types.RawMetadata, []types.Warning, error) {
	d.extracts++
	if d.failRead != nil {
		return nil, nil, d.failRead
	}
	raw := types.NewRawMetadata()
	for _, e := range d.entries {
		raw.Add(e[0], e[1])
	}
	return raw, nil, nil
}

func (d *memDialect) ReadIndirect(key types.Key, upper *types.RawMetadata) (any, error) {
	if v, ok := upper.First("DISCNUMBER"); ok {
		n, _ := ParseInt(v)
		return n, nil
	}
	return nil, nil
}

func (d *memDialect) ReadRating(upper *types.RawMetadata) (int, bool, bool) {
	if v, ok := upper.First("RATING"); ok {
		n, ok := ParseInt(v)
		return n, false, ok
	}
	if v, ok := upper.First("TRAKTOR"); ok {
		n, ok := ParseInt(v)
		return n, true, ok
	}
	return 0, false, false
}

func (d *memDialect) Edit() (Editor, error) {
	d.edits++
	return &memEditor{d: d}, nil
}
func (d *memDialect) Delete() error {
	if d.failDel != nil {
		return d.failDel
	}
	d.entries = nil
	return nil
}
func (d *memDialect) RawRatingLimit() int { return 255 }

type memEditor struct {
	d       *memDialect
	pending [][2]string
}

func (e *memEditor) remove(key string) {
	var kept [][2]string
	for _, en := range e.d.entries {
		if en[0] != key {
			kept = append(kept, en)
		}
	}
	e.d.entries = kept
}

func (e *memEditor) Set(key types.Key, rawKey string, value any) error {
	e.remove(rawKey)
	switch v := value.(type) {
	case string:
		e.d.entries = append(e.d.entries, [2]string{rawKey, v})
	case int:
		e.d.entries = append(e.d.entries, [2]string{rawKey, strconv.Itoa(v)})
	case []string:
		for _, s := range v {
			e.d.entries = append(e.d.entries, [2]string{rawKey, s})
		}
	}
	return nil
}

func (e *memEditor) SetIndirect(key types.Key, value any) error {
	rawKey := "DISCNUMBER"
	if key == types.KeyRating {
		rawKey = "RATING"
		e.remove("TRAKTOR")
	}
	return e.Set(key, rawKey, value)
}

func (e *memEditor) Save() error  { e.d.saves++; return nil }
func (e *memEditor) Close() error { return nil }

func TestUnifiedMetadata(t *testing.T) {
	d := &memDialect{entries: [][2]string{
		{"TITLE", " Song "},
		{"Artist", "A"},
		{"ARTIST", "B"},
		{"GENRE", "(17)(8)"},
		{"TRACKNUMBER", "3/12"},
		{"BPM", "120.7"},
		{"RATING", "128"},
		{"DISCNUMBER", "2/3"},
	}}
	m := New(d, Options{RatingMax: 100})

	md, err := m.UnifiedMetadata()
	require.NoError(t, err)
	assert.Equal(t, types.Metadata{
		types.KeyTitle:       "Song",
		types.KeyArtists:     []string{"A", "B"},
		types.KeyGenres:      []string{"Rock", "Jazz"},
		types.KeyTrackNumber: "3/12",
		types.KeyBPM:         120,
		types.KeyRating:      60,
		types.KeyDiscNumber:  2,
	}, md)
	assert.Equal(t, 1, d.extracts, "raw table must be cached")
	require.Len(t, m.Warnings(), 1)
	assert.Contains(t, m.Warnings()[0].Message, "ARTIST")
}

func TestUnifiedMetadataField(t *testing.T) {
	d := &memDialect{entries: [][2]string{
		{"TRACKNUMBER", "three"},
		{"ARTIST", "Rock/Blues"},
		{"TRAKTOR", "0"},
	}}
	m := New(d, Options{RatingMax: 10})

	v, err := m.UnifiedMetadataField(types.KeyTrackNumber)
	require.NoError(t, err)
	assert.Nil(t, v, "malformed track numbers read as absent")

	v, err = m.UnifiedMetadataField(types.KeyArtists)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rock", "Blues"}, v)

	v, err = m.UnifiedMetadataField(types.KeyRating)
	require.NoError(t, err)
	assert.Nil(t, v, "Traktor zero is unrated")

	v, err = m.UnifiedMetadataField(types.KeyTitle)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = m.UnifiedMetadataField(types.KeyComposers)
	var byFormat *types.FieldNotSupportedByFormatError
	assert.True(t, errors.As(err, &byFormat))

	_, err = m.UnifiedMetadataField("MOOD")
	var byLib *types.FieldNotSupportedByLibraryError
	assert.True(t, errors.As(err, &byLib))
}

func TestUnifiedMetadata_RawRatingMode(t *testing.T) {
	d := &memDialect{entries: [][2]string{{"TRAKTOR", "0"}}}
	v, err := New(d, Options{}).UnifiedMetadataField(types.KeyRating)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestUnifiedMetadata_CorruptIsLazy(t *testing.T) {
	boom := &types.CorruptedFileError{Path: "x", Reason: "bad magic"}
	d := &memDialect{failRead: boom}
	m := New(d, Options{})

	_, err := m.UnifiedMetadataField(types.KeyComposers)
	var byFormat *types.FieldNotSupportedByFormatError
	assert.True(t, errors.As(err, &byFormat), "unsupported key fails before extraction")
	assert.Zero(t, d.extracts)

	_, err = m.UnifiedMetadataField(types.KeyTitle)
	var corrupt *types.CorruptedFileError
	assert.True(t, errors.As(err, &corrupt))
}

func TestUpdate_RoundTrip(t *testing.T) {
	d := &memDialect{entries: [][2]string{{"TITLE", "Old"}, {"COMMENT", "keep"}}}
	m := New(d, Options{RatingMax: 100})

	_, err := m.UnifiedMetadata()
	require.NoError(t, err)

	delta := types.Metadata{
		types.KeyTitle:       "New",
		types.KeyArtists:     []string{"A", "", "B"},
		types.KeyGenres:      []string{"Rock"},
		types.KeyRating:      50,
		types.KeyBPM:         128,
		types.KeyReleaseDate: "2024-01-02",
		types.KeyDiscNumber:  1,
	}
	require.NoError(t, m.Update(delta))
	assert.Equal(t, 1, d.saves)
	assert.Contains(t, d.entries, [2]string{"RATING", "118"})
	assert.Contains(t, d.entries, [2]string{"COMMENT", "keep"})

	md, err := m.UnifiedMetadata()
	require.NoError(t, err)
	assert.Equal(t, types.Metadata{
		types.KeyTitle:       "New",
		types.KeyArtists:     []string{"A", "B"},
		types.KeyGenres:      []string{"Rock"},
		types.KeyRating:      50,
		types.KeyBPM:         128,
		types.KeyReleaseDate: "2024-01-02",
		types.KeyDiscNumber:  1,
	}, md)
	assert.Equal(t, 2, d.extracts, "cache must be invalidated by a write")
}

func TestUpdate_RemovesFields(t *testing.T) {
	d := &memDialect{entries: [][2]string{{"TITLE", "Old"}, {"ARTIST", "A"}}}
	m := New(d, Options{})

	require.NoError(t, m.Update(types.Metadata{
		types.KeyTitle:   nil,
		types.KeyArtists: []string{" ", ""},
	}))
	assert.Empty(t, d.entries)
}

func TestUpdate_ValidatesWholeDelta(t *testing.T) {
	tests := []struct {
		name   string
		delta  types.Metadata
		target any
	}{
		{"bad rating", types.Metadata{types.KeyTitle: "ok", types.KeyRating: 37}, new(*types.InvalidRatingValueError)},
		{"rating above max", types.Metadata{types.KeyRating: 101}, new(*types.InvalidRatingValueError)},
		{"bad type", types.Metadata{types.KeyTitle: "ok", types.KeyArtists: "A"}, new(*types.InvalidValueTypeError)},
		{"bad date", types.Metadata{types.KeyReleaseDate: "01/02/2024"}, new(*types.InvalidValueFormatError)},
		{"unsupported by format", types.Metadata{types.KeyTitle: "ok", types.KeyComposers: []string{"C"}}, new(*types.FieldNotSupportedByFormatError)},
		{"unknown key", types.Metadata{types.KeyTitle: "ok", "MOOD": "x"}, new(*types.FieldNotSupportedByLibraryError)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &memDialect{entries: [][2]string{{"TITLE", "Old"}}}
			err := New(d, Options{RatingMax: 100}).Update(tt.delta)
			require.Error(t, err)
			assert.True(t, errors.As(err, tt.target), "got %T: %v", err, err)
			assert.Zero(t, d.saves)
			assert.Equal(t, [][2]string{{"TITLE", "Old"}}, d.entries)
		})
	}
}

func TestValidate(t *testing.T) {
	d := &memDialect{entries: [][2]string{{"TITLE", "Old"}}}
	m := New(d, Options{RatingMax: 10})

	require.NoError(t, m.Validate(types.Metadata{types.KeyTitle: "New", types.KeyRating: 8}))

	var ratingErr *types.InvalidRatingValueError
	assert.ErrorAs(t, m.Validate(types.Metadata{types.KeyRating: "fifty"}), &ratingErr)

	var writeErr *types.UnsupportedWriteError
	assert.ErrorAs(t, New(&memDialect{readOnly: true}, Options{}).Validate(types.Metadata{types.KeyTitle: "x"}), &writeErr)

	assert.Zero(t, d.edits, "validation never opens an editor")
	assert.Equal(t, [][2]string{{"TITLE", "Old"}}, d.entries)
}

type vendorDialect struct{ memDialect }

func (d *vendorDialect) Vendor() (string, error) { return "encoder 1.0", nil }

func TestVendor(t *testing.T) {
	_, ok, err := New(&memDialect{}, Options{}).Vendor()
	require.NoError(t, err)
	assert.False(t, ok)

	vendor, ok, err := New(&vendorDialect{}, Options{}).Vendor()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "encoder 1.0", vendor)
}

func TestUpdate_RawRatingLimit(t *testing.T) {
	d := &memDialect{}
	err := New(d, Options{}).Update(types.Metadata{types.KeyRating: 256})
	var target *types.InvalidRatingValueError
	assert.True(t, errors.As(err, &target))

	require.NoError(t, New(d, Options{}).Update(types.Metadata{types.KeyRating: 196}))
	assert.Contains(t, d.entries, [2]string{"RATING", "196"})
}

func TestUpdate_ReadOnly(t *testing.T) {
	err := New(&memDialect{readOnly: true}, Options{}).Update(types.Metadata{types.KeyTitle: "x"})
	var target *types.UnsupportedWriteError
	assert.True(t, errors.As(err, &target))
}

func TestDelete(t *testing.T) {
	d := &memDialect{entries: [][2]string{{"TITLE", "Old"}}}
	m := New(d, Options{})
	assert.True(t, m.Delete())
	v, err := m.UnifiedMetadataField(types.KeyTitle)
	require.NoError(t, err)
	assert.Nil(t, v)

	d.failDel = errors.New("read-only file system")
	assert.False(t, m.Delete())
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"7", 7, true},
		{" 3/12 ", 3, true},
		{"120.9", 120, true},
		{"NaN", 0, false},
		{"x", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseInt(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCoerce_Lists(t *testing.T) {
	tests := []struct {
		key    types.Key
		values []string
		want   any
	}{
		{types.KeyArtists, []string{"A; B"}, []string{"A", "B"}},
		{types.KeyComposers, []string{"A", "B/C"}, []string{"A", "B/C"}},
		{types.KeyGenres, []string{"(17)"}, []string{"Rock"}},
		{types.KeyLyricists, []string{" ", ""}, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Coerce(tt.key, tt.values), "%s %q", tt.key, tt.values)
	}
}
