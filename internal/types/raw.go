package types

import (
	"iter"
	"slices"
	"strings"
)

// RawMetadata is an insertion-ordered table of dialect keys to their values.
//
// Each value in a key's list is one physical tag instance; the multi-value
// resolver depends on that distinction. A key is either absent or holds a
// non-empty list. An empty string element means "entry present but empty".
type RawMetadata struct {
	keys   []string
	values map[string][]string
}

// NewRawMetadata returns an empty table.
func NewRawMetadata() *RawMetadata {
	return &RawMetadata{values: make(map[string][]string)}
}

// Add appends values to key, creating it on first use. Adding no values is a no-op.
func (r *RawMetadata) Add(key string, values ...string) {
	if len(values) == 0 {
		return
	}
	if r.values == nil {
		r.values = make(map[string][]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = append(r.values[key], values...)
}

// Get returns a copy of the values for key, or nil if absent.
func (r *RawMetadata) Get(key string) []string {
	if r == nil || r.values == nil {
		return nil
	}
	return slices.Clone(r.values[key])
}

// First returns the first value for key.
func (r *RawMetadata) First(key string) (string, bool) {
	if r == nil || len(r.values[key]) == 0 {
		return "", false
	}
	return r.values[key][0], true
}

// Has reports whether key is present.
func (r *RawMetadata) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (r *RawMetadata) Keys() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.keys)
}

// Len returns the number of keys.
func (r *RawMetadata) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// All iterates keys in insertion order.
//
// The yielded slices must not be modified.
func (r *RawMetadata) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if r == nil {
			return
		}
		for _, key := range r.keys {
			if !yield(key, r.values[key]) {
				return
			}
		}
	}
}

// Merged builds the uppercase lookup view.
//
// The first spelling of a key contributes its values as-is. Later case variants
// only contribute values not already present, so {"Artist": [X], "ARTIST": [Y]}
// becomes {"ARTIST": [X, Y]} and identical values are not duplicated.
func (r *RawMetadata) Merged() *RawMetadata {
	out := NewRawMetadata()
	for key, values := range r.All() {
		upper := strings.ToUpper(key)
		if !out.Has(upper) {
			out.Add(upper, values...)
			continue
		}
		for _, v := range values {
			if !slices.Contains(out.values[upper], v) {
				out.Add(upper, v)
			}
		}
	}
	return out
}

// Collisions returns the uppercase keys that more than one spelling mapped to.
func (r *RawMetadata) Collisions() []string {
	seen := make(map[string]int)
	var out []string
	for key := range r.All() {
		upper := strings.ToUpper(key)
		seen[upper]++
		if seen[upper] == 2 {
			out = append(out, upper)
		}
	}
	return out
}
