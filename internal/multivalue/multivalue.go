// Package multivalue turns raw tag entries into discrete values.
//
// Tag dialects disagree on how several values for one field are stored: some
// repeat the field, ID3v2.4 packs them into one frame separated by NUL bytes,
// and older writers join them with a text separator. Resolve recovers the
// individual values from any of those encodings.
package multivalue

import "strings"

// Separators lists the text separators in the order they are tried.
// Longer and rarer separators come first so that "A//B/C" splits on "//".
var Separators = []string{"//", `\\`, `\`, ";", "/", ","}

// Resolve returns the discrete values encoded in entries, or nil if every
// entry is blank.
//
// NUL-separated values are always split, whatever the entry count. Several
// non-empty entries are taken as already discrete and never split on text
// separators. A single entry is split on the first separator it contains.
func Resolve(entries []string) []string {
	for _, e := range entries {
		if strings.ContainsRune(e, 0) {
			var out []string
			for _, e := range entries {
				out = appendSplit(out, e, "\x00")
			}
			return out
		}
	}

	values := nonEmpty(entries)
	switch len(values) {
	case 0:
		return nil
	case 1:
		return Split(values[0])
	default:
		return values
	}
}

// Split splits a single value on the first separator it contains. A value
// with no separator is returned trimmed as a one-element list.
func Split(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, sep := range Separators {
		if strings.Contains(value, sep) {
			return appendSplit(nil, value, sep)
		}
	}
	return []string{value}
}

// HasSeparator reports whether value contains any text separator.
func HasSeparator(value string) bool {
	for _, sep := range Separators {
		if strings.Contains(value, sep) {
			return true
		}
	}
	return false
}

// FindSafeSeparator returns the first separator that occurs in none of values.
// When every separator occurs somewhere, the last one (",") is returned anyway.
func FindSafeSeparator(values []string) string {
	for _, sep := range Separators {
		safe := true
		for _, v := range values {
			if strings.Contains(v, sep) {
				safe = false
				break
			}
		}
		if safe {
			return sep
		}
	}
	return Separators[len(Separators)-1]
}

// Join joins values with FindSafeSeparator.
func Join(values []string) string {
	return strings.Join(values, FindSafeSeparator(values))
}

func nonEmpty(entries []string) []string {
	var out []string
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func appendSplit(out []string, value, sep string) []string {
	for part := range strings.SplitSeq(value, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
