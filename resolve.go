package tagbridge

import (
	"github.com/simonhull/tagbridge/internal/genre"
	"github.com/simonhull/tagbridge/internal/multivalue"
	"github.com/simonhull/tagbridge/internal/rating"
)

// ResolveMultiValue turns the raw entries of one key into discrete values.
//
// NUL bytes split every entry. Otherwise several entries are taken as
// already discrete, and a single entry is split on the first separator it
// contains, tried in the order "//", `\\`, `\`, ";", "/", ",".
func ResolveMultiValue(entries []string) []string {
	return multivalue.Resolve(entries)
}

// FindSafeSeparator returns the first separator that occurs in none of
// values, or "," when every separator occurs somewhere.
func FindSafeSeparator(values []string) string {
	return multivalue.FindSafeSeparator(values)
}

// ResolveGenre turns raw genre entries into de-duplicated genre names.
// Numeric ID3v1 codes are looked up; in "(17)Text" the text wins.
func ResolveGenre(entries []string) []string {
	return genre.Resolve(entries)
}

// ResolveRating normalizes a raw rating to 0..max. With max <= 0 the raw
// value is returned as is. ok is false when the rating is absent: a Traktor
// zero, or a raw value no known convention produces.
func ResolveRating(raw int, fromTraktor bool, max int) (value int, ok bool) {
	return rating.Resolve(raw, fromTraktor, max)
}

// DenormalizeRating converts a rating on the scale 0..max to the raw value
// written to files.
func DenormalizeRating(value, max int) (int, error) {
	if max <= 0 {
		return 0, &ConfigurationError{Option: "max", Reason: "denormalizing a rating needs a normalization max"}
	}
	n, err := rating.Validate(value, max, 0)
	if err != nil {
		return 0, err
	}
	return rating.Denormalize(n, max), nil
}
