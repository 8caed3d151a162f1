// Package rating converts between raw rating encodings and a caller-chosen
// normalized scale.
//
// Ratings are compared on a 0-10 star scale (five stars in half-star steps).
// A Profile gives the raw value a convention stores for each star level.
package rating

import (
	"github.com/simonhull/tagbridge/internal/types"
)

// Levels is the number of star levels, 0 through 10.
const Levels = 11

// none marks a star level a profile cannot express exactly.
const none = -1

// Profile maps star levels to raw values.
type Profile [Levels]int

var (
	// Base255NonProportional is the Windows Media Player POPM convention.
	Base255NonProportional = Profile{0, 13, 1, 54, 64, 118, 128, 186, 196, 242, 255}

	// Base100Proportional is the common 0-100 convention.
	Base100Proportional = Profile{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	// Base255ProportionalTraktor is Traktor's whole-star POPM convention.
	Base255ProportionalTraktor = Profile{none, none, 51, none, 102, none, 153, none, 204, none, 255}

	// ReadProfiles are tried together when decoding a raw value.
	ReadProfiles = []Profile{Base255NonProportional, Base100Proportional, Base255ProportionalTraktor}

	// WriteProfile encodes normalized ratings.
	WriteProfile = Base255NonProportional
)

// StarLevel returns the first star level at which raw matches any read profile.
func StarLevel(raw int) (int, bool) {
	for level := range Levels {
		for _, p := range ReadProfiles {
			if p[level] != none && p[level] == raw {
				return level, true
			}
		}
	}
	return 0, false
}

// Resolve normalizes a raw rating to the scale 0..max.
//
// With max <= 0 the raw value is returned unchanged. A zero read from the
// Traktor-specific tag means "unrated" and resolves to absent, as does a raw
// value no profile can express.
func Resolve(raw int, fromTraktor bool, max int) (int, bool) {
	if max <= 0 {
		return raw, true
	}
	if raw == 0 && fromTraktor {
		return 0, false
	}
	level, ok := StarLevel(raw)
	if !ok {
		return 0, false
	}
	return level * max / (Levels - 1), true
}

// Validate checks a rating before any write happens.
//
// The value must be a non-negative int. With a normalization max it must not
// exceed max and must be an exact tenth of it, so the star level is whole.
// Without one, rawLimit (when positive) bounds what the dialect can store.
func Validate(value any, max, rawLimit int) (int, error) {
	v, ok := value.(int)
	if !ok {
		return 0, &types.InvalidRatingValueError{Value: value, Max: max, Reason: "must be an integer"}
	}
	if v < 0 {
		return 0, &types.InvalidRatingValueError{Value: v, Max: max, Reason: "must not be negative"}
	}
	if max <= 0 {
		if rawLimit > 0 && v > rawLimit {
			return 0, &types.InvalidRatingValueError{Value: v, Reason: "exceeds the raw range of the format"}
		}
		return v, nil
	}
	if v > max {
		return 0, &types.InvalidRatingValueError{Value: v, Max: max, Reason: "exceeds max"}
	}
	if (v*(Levels-1))%max != 0 {
		return 0, &types.InvalidRatingValueError{Value: v, Max: max, Reason: "not a multiple of max/10"}
	}
	return v, nil
}

// Denormalize converts a validated rating to the raw value to store.
func Denormalize(value, max int) int {
	if max <= 0 {
		return value
	}
	return WriteProfile[value*(Levels-1)/max]
}
