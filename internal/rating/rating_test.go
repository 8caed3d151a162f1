package rating

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/tagbridge/internal/types"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		raw     int
		traktor bool
		max     int
		want    int
		wantOK  bool
	}{
		{"raw mode", 196, false, 0, 196, true},
		{"raw mode keeps traktor zero", 0, true, 0, 0, true},
		{"wmp five stars", 255, false, 100, 100, true},
		{"wmp one star", 1, false, 100, 20, true},
		{"wmp half star", 13, false, 10, 1, true},
		{"base100", 70, false, 100, 70, true},
		{"traktor three stars", 153, true, 5, 3, true},
		{"traktor zero is unrated", 0, true, 100, 0, false},
		{"zero is zero stars", 0, false, 100, 0, true},
		{"unmatched raw", 77, false, 100, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.raw, tt.traktor, tt.max)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		max      int
		rawLimit int
		wantErr  bool
	}{
		{"tenth of 100", 50, 100, 0, false},
		{"not a tenth", 37, 100, 0, true},
		{"negative", -1, 100, 0, true},
		{"above max", 101, 100, 0, true},
		{"max itself", 10, 10, 0, false},
		{"string", "50", 100, 0, true},
		{"float", 5.0, 10, 0, true},
		{"raw mode any value", 77, 0, 0, false},
		{"raw mode over limit", 300, 0, 255, true},
		{"raw mode negative", -5, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.value, tt.max, tt.rawLimit)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var target *types.InvalidRatingValueError
			assert.True(t, errors.As(err, &target), "got %v", err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, max := range []int{5, 10, 100, 255} {
		for level := range Levels {
			value := level * max / (Levels - 1)
			if (value*(Levels-1))%max != 0 {
				continue
			}
			raw := Denormalize(value, max)
			got, ok := Resolve(raw, false, max)
			require.True(t, ok, "max=%d value=%d raw=%d", max, value, raw)
			assert.Equal(t, value, got, "max=%d raw=%d", max, raw)
		}
	}
}

func TestDenormalize(t *testing.T) {
	assert.Equal(t, 118, Denormalize(50, 100))
	assert.Equal(t, 0, Denormalize(0, 100))
	assert.Equal(t, 255, Denormalize(5, 5))
	assert.Equal(t, 42, Denormalize(42, 0))
}
