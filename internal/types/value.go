package types

import (
	"fmt"
	"regexp"
	"strings"
)

// Metadata maps unified keys to values.
//
// Values are string, int, float64 or []string according to the key's
// ValueType. A nil value means absent on read and "remove the field" on write.
type Metadata map[Key]any

var (
	trackNumberPattern = regexp.MustCompile(`^\d+([-/]\d*)?$`)
	releaseDatePattern = regexp.MustCompile(`^\d{4}(-\d{2}-\d{2})?$`)
)

// ValidTrackNumber reports whether s is a bare number or a number with a
// trailing sub-index, e.g. "3", "3/12" or "3-".
func ValidTrackNumber(s string) bool {
	return trackNumberPattern.MatchString(s)
}

// ValidReleaseDate reports whether s is YYYY or YYYY-MM-DD.
func ValidReleaseDate(s string) bool {
	return releaseDatePattern.MatchString(s)
}

// CleanValue drops empty and blank entries from list values and collapses an
// empty result to nil. Other values are returned unchanged.
func CleanValue(v any) any {
	list, ok := v.([]string)
	if !ok {
		return v
	}
	var out []string
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// CheckValue validates a non-nil value against the declared type of k and the
// shape rules of the key. RATING ranges are validated by the rating package.
func CheckValue(k Key, v any) error {
	want, err := ValueTypeOf(k)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}

	switch want {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return &InvalidValueTypeError{Key: k, Want: want, Got: typeName(v)}
		}
		switch k {
		case KeyReleaseDate:
			if !ValidReleaseDate(s) {
				return &InvalidValueFormatError{Key: k, Value: s, Reason: "expected YYYY or YYYY-MM-DD"}
			}
		case KeyTrackNumber:
			if !ValidTrackNumber(s) {
				return &InvalidValueFormatError{Key: k, Value: s, Reason: "expected N or N/M"}
			}
		}
	case TypeInt:
		if k == KeyRating {
			return nil
		}
		n, ok := v.(int)
		if !ok {
			return &InvalidValueTypeError{Key: k, Want: want, Got: typeName(v)}
		}
		if n < 0 {
			return &InvalidValueFormatError{Key: k, Value: fmt.Sprint(n), Reason: "must not be negative"}
		}
	case TypeFloat:
		switch v.(type) {
		case float64, int:
		default:
			return &InvalidValueTypeError{Key: k, Want: want, Got: typeName(v)}
		}
	case TypeList:
		if _, ok := v.([]string); !ok {
			return &InvalidValueTypeError{Key: k, Want: want, Got: typeName(v)}
		}
	}
	return nil
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
