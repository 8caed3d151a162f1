package vorbis

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/tagbridge/internal/flac"
	"github.com/simonhull/tagbridge/internal/manager"
	"github.com/simonhull/tagbridge/internal/testfixture"
	"github.com/simonhull/tagbridge/internal/types"
)

func rawComments(t *testing.T, path string) *flac.Comments {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	c, err := flac.ReadComments(f, int64(len(data)), path)
	require.NoError(t, err)
	return c
}

func TestRead(t *testing.T) {
	path := testfixture.Write(t, "a.flac", testfixture.FLACWithComments(
		"TITLE=Song",
		"Artist=A",
		"ARTIST=B",
		"GENRE=Rock;Blues",
		"RATING=80",
		"TRACKNUMBER=03",
		"DISCNUMBER=1/2",
		"BPM=128",
		"REPLAYGAIN_TRACK_GAIN=-6.5 dB",
	))
	m := manager.New(New(path, manager.Options{}), manager.Options{RatingMax: 100})

	md, err := m.UnifiedMetadata()
	require.NoError(t, err)
	assert.Equal(t, "Song", md[types.KeyTitle])
	assert.Equal(t, []string{"A", "B"}, md[types.KeyArtists])
	assert.Equal(t, []string{"Rock", "Blues"}, md[types.KeyGenres])
	assert.Equal(t, 80, md[types.KeyRating])
	assert.Equal(t, "03", md[types.KeyTrackNumber])
	assert.Equal(t, 1, md[types.KeyDiscNumber])
	assert.Equal(t, 128, md[types.KeyBPM])
	assert.Equal(t, "-6.5 dB", md[types.KeyReplayGain])

	vendor, ok, err := m.Vendor()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "reference libFLAC 1.4.3", vendor)
}

func TestUpdate_RoundTrip(t *testing.T) {
	path := testfixture.Write(t, "a.flac", testfixture.FLACWithComments(
		"title=Old",
		"ENCODER=lame",
		"Artist=Old Artist",
	))
	opts := manager.Options{RatingMax: 10}
	m := manager.New(New(path, opts), opts)

	delta := types.Metadata{
		types.KeyTitle:       "New",
		types.KeyArtists:     []string{"A", "B"},
		types.KeyGenres:      []string{"Rock", "Jazz"},
		types.KeyRating:      7,
		types.KeyReleaseDate: "2023-05-01",
		types.KeyBPM:         90,
		types.KeyComposers:   []string{"C"},
	}
	require.NoError(t, m.Update(delta))

	md, err := m.UnifiedMetadata()
	require.NoError(t, err)
	for k, v := range delta {
		assert.Equal(t, v, md[k], "key %s", k)
	}

	c := rawComments(t, path)
	assert.Equal(t, "reference libFLAC 1.4.3", c.Vendor, "vendor string is kept")
	assert.Equal(t, []string{"lame"}, c.Raw.Get("ENCODER"), "unrelated comments are kept")
	assert.False(t, c.Raw.Has("title"), "case variants of a written key are replaced")
	assert.False(t, c.Raw.Has("Artist"))
	assert.Equal(t, []string{"A", "B"}, c.Raw.Get("ARTIST"), "lists are repeated comments")
	assert.Equal(t, []string{"186"}, c.Raw.Get("RATING"))
}

func TestUpdate_RemoveField(t *testing.T) {
	path := testfixture.Write(t, "a.flac", testfixture.FLACWithComments("TITLE=Song", "ALBUM=LP"))
	m := manager.New(New(path, manager.Options{}), manager.Options{})

	require.NoError(t, m.Update(types.Metadata{types.KeyTitle: nil}))
	c := rawComments(t, path)
	assert.Equal(t, []string{"ALBUM"}, c.Raw.Keys())
}

func TestUpdate_StripsID3Prefix(t *testing.T) {
	data := testfixture.FLAC(testfixture.ID3v2Prefix(64),
		testfixture.FLACBlock{Type: flac.BlockTypeVorbisComment, Payload: testfixture.VorbisComment("v", "TITLE=Old")},
	)
	path := testfixture.Write(t, "a.flac", data)
	m := manager.New(New(path, manager.Options{}), manager.Options{})

	require.NoError(t, m.Update(types.Metadata{types.KeyTitle: "New"}))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, flac.Magic, string(written[:4]))

	v, err := m.UnifiedMetadataField(types.KeyTitle)
	require.NoError(t, err)
	assert.Equal(t, "New", v)
}

func TestUpdate_AddsBlockWhenMissing(t *testing.T) {
	path := testfixture.Write(t, "a.flac", testfixture.FLAC(nil))
	m := manager.New(New(path, manager.Options{}), manager.Options{})

	require.NoError(t, m.Update(types.Metadata{types.KeyAlbum: "LP"}))
	v, err := m.UnifiedMetadataField(types.KeyAlbum)
	require.NoError(t, err)
	assert.Equal(t, "LP", v)
}

func TestDelete(t *testing.T) {
	path := testfixture.Write(t, "a.flac", testfixture.FLACWithComments("TITLE=Song"))
	m := manager.New(New(path, manager.Options{}), manager.Options{})

	assert.True(t, m.Delete())
	md, err := m.UnifiedMetadata()
	require.NoError(t, err)
	assert.Empty(t, md)

	missing := manager.New(New(path+".missing", manager.Options{}), manager.Options{})
	assert.False(t, missing.Delete())
}

func TestCorruptFile(t *testing.T) {
	path := testfixture.Write(t, "a.flac", []byte("not a flac file at all"))
	m := manager.New(New(path, manager.Options{}), manager.Options{})

	_, err := m.UnifiedMetadata()
	var corrupt *types.CorruptedFileError
	assert.ErrorAs(t, err, &corrupt)

	err = m.Update(types.Metadata{types.KeyTitle: "x"})
	assert.ErrorAs(t, err, &corrupt)
}
