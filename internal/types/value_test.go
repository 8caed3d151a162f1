package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckValue(t *testing.T) {
	tests := []struct {
		name    string
		key     Key
		value   any
		wantErr any
	}{
		{"string ok", KeyTitle, "Song", nil},
		{"nil removes", KeyTitle, nil, nil},
		{"string for list", KeyArtists, "A", &InvalidValueTypeError{}},
		{"list ok", KeyArtists, []string{"A", "B"}, nil},
		{"int for string", KeyTitle, 3, &InvalidValueTypeError{}},
		{"year", KeyReleaseDate, "2024", nil},
		{"full date", KeyReleaseDate, "2024-03-01", nil},
		{"bad date", KeyReleaseDate, "03/01/2024", &InvalidValueFormatError{}},
		{"track", KeyTrackNumber, "3/12", nil},
		{"bad track", KeyTrackNumber, "three", &InvalidValueFormatError{}},
		{"bpm", KeyBPM, 128, nil},
		{"negative bpm", KeyBPM, -1, &InvalidValueFormatError{}},
		{"bpm as string", KeyBPM, "128", &InvalidValueTypeError{}},
		{"rating deferred", KeyRating, "5", nil},
		{"unknown key", Key("MOOD"), "happy", &FieldNotSupportedByLibraryError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckValue(tt.key, tt.value)
			switch tt.wantErr.(type) {
			case nil:
				assert.NoError(t, err)
			case *InvalidValueTypeError:
				var target *InvalidValueTypeError
				assert.True(t, errors.As(err, &target), "got %v", err)
			case *InvalidValueFormatError:
				var target *InvalidValueFormatError
				assert.True(t, errors.As(err, &target), "got %v", err)
			case *FieldNotSupportedByLibraryError:
				var target *FieldNotSupportedByLibraryError
				assert.True(t, errors.As(err, &target), "got %v", err)
			}
		})
	}
}

func TestCleanValue(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, CleanValue([]string{"A", "", "  ", "B"}))
	assert.Nil(t, CleanValue([]string{"", " "}))
	assert.Nil(t, CleanValue([]string{}))
	assert.Equal(t, "x", CleanValue("x"))
}
