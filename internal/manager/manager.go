// Package manager implements the format-independent half of reading and
// writing unified metadata.
//
// A Manager wraps one Dialect. It caches the raw table on first read, coerces
// raw strings to the declared type of each key, runs the multi-value, genre and
// rating resolvers, and validates a whole update before the dialect touches
// the file.
//
// A Manager is not safe for concurrent use.
package manager

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/simonhull/tagbridge/internal/genre"
	"github.com/simonhull/tagbridge/internal/multivalue"
	"github.com/simonhull/tagbridge/internal/rating"
	"github.com/simonhull/tagbridge/internal/types"
)

// Manager reads and writes unified metadata through a Dialect.
type Manager struct {
	dialect Dialect
	opts    Options

	raw      *types.RawMetadata
	upper    *types.RawMetadata
	warnings []types.Warning
}

// New returns a Manager for d.
func New(d Dialect, opts Options) *Manager {
	return &Manager{dialect: d, opts: opts}
}

// Format returns the dialect's metadata format.
func (m *Manager) Format() types.MetadataFormat {
	return m.dialect.Format()
}

// Options returns the options the Manager was created with.
func (m *Manager) Options() Options {
	return m.opts
}

func (m *Manager) load() error {
	if m.raw != nil {
		return nil
	}
	raw, warnings, err := m.dialect.Extract()
	if err != nil {
		return err
	}
	if raw == nil {
		raw = types.NewRawMetadata()
	}
	for _, key := range raw.Collisions() {
		warnings = append(warnings, types.Warning{
			Stage:   m.Format().String(),
			Message: "merged case variants of " + key,
		})
	}
	m.raw = raw
	m.upper = raw.Merged()
	m.warnings = warnings
	return nil
}

// Vendor returns the vendor string of the tag. ok is false when the dialect
// records none.
func (m *Manager) Vendor() (vendor string, ok bool, err error) {
	r, ok := m.dialect.(VendorReader)
	if !ok {
		return "", false, nil
	}
	vendor, err = r.Vendor()
	return vendor, true, err
}

// Invalidate drops the cached raw table so the next read re-extracts it.
func (m *Manager) Invalidate() {
	m.raw = nil
	m.upper = nil
	m.warnings = nil
}

// Raw returns the case-preserving raw table.
func (m *Manager) Raw() (*types.RawMetadata, error) {
	if err := m.load(); err != nil {
		return nil, err
	}
	return m.raw, nil
}

// Warnings returns the non-fatal issues found by the last extraction.
func (m *Manager) Warnings() []types.Warning {
	return slices.Clone(m.warnings)
}

// UnifiedMetadata returns every supported field that has a value.
func (m *Manager) UnifiedMetadata() (types.Metadata, error) {
	out := make(types.Metadata)
	for _, key := range types.Keys() {
		if _, ok := m.dialect.ReadMap()[key]; !ok {
			continue
		}
		v, err := m.UnifiedMetadataField(key)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out[key] = v
		}
	}
	return out, nil
}

// UnifiedMetadataField returns the value of one field, or nil if absent.
func (m *Manager) UnifiedMetadataField(key types.Key) (any, error) {
	if !key.Known() {
		return nil, &types.FieldNotSupportedByLibraryError{Key: key}
	}
	rawKey, ok := m.dialect.ReadMap()[key]
	if !ok {
		return nil, &types.FieldNotSupportedByFormatError{Key: key, Format: m.Format()}
	}
	if err := m.load(); err != nil {
		return nil, err
	}

	if rawKey == Indirect {
		if key == types.KeyRating {
			raw, traktor, ok := m.dialect.ReadRating(m.upper)
			if !ok {
				return nil, nil
			}
			return m.resolveRating(raw, traktor), nil
		}
		return m.dialect.ReadIndirect(key, m.upper)
	}

	values := m.upper.Get(strings.ToUpper(rawKey))
	if len(values) == 0 {
		return nil, nil
	}
	if key == types.KeyRating {
		raw, ok := ParseInt(values[0])
		if !ok {
			return nil, nil
		}
		return m.resolveRating(raw, false), nil
	}
	return Coerce(key, values), nil
}

func (m *Manager) resolveRating(raw int, traktor bool) any {
	v, ok := rating.Resolve(raw, traktor, m.opts.RatingMax)
	if !ok {
		return nil
	}
	return v
}

// Coerce converts raw values to the declared type of key. Values that cannot
// be converted yield nil.
func Coerce(key types.Key, values []string) any {
	vt, err := types.ValueTypeOf(key)
	if err != nil {
		return nil
	}
	switch vt {
	case types.TypeString:
		s := strings.TrimSpace(values[0])
		if s == "" {
			return nil
		}
		if key == types.KeyTrackNumber && !types.ValidTrackNumber(s) {
			return nil
		}
		return s
	case types.TypeInt:
		n, ok := ParseInt(values[0])
		if !ok {
			return nil
		}
		return n
	case types.TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
		if err != nil {
			return nil
		}
		return f
	case types.TypeList:
		// Every list key is multi-valued.
		resolve := multivalue.Resolve
		if key == types.KeyGenres {
			resolve = genre.Resolve
		}
		list := resolve(values)
		if len(list) == 0 {
			return nil
		}
		return list
	}
	return nil
}

// ParseInt reads an integer from a raw value. "3/12" yields 3 and "120.6"
// yields 120.
func ParseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

type change struct {
	key    types.Key
	rawKey string
	value  any
}

// Update validates every field of delta, then writes them in one save.
//
// Nothing is written when any field fails validation. The raw cache is
// dropped afterwards so later reads observe the new state.
func (m *Manager) Update(delta types.Metadata) error {
	changes, err := m.changes(delta)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}

	defer m.Invalidate()
	ed, err := m.dialect.Edit()
	if err != nil {
		return err
	}
	defer ed.Close()

	for _, c := range changes {
		if c.rawKey == Indirect {
			err = ed.SetIndirect(c.key, c.value)
		} else {
			err = ed.Set(c.key, c.rawKey, c.value)
		}
		if err != nil {
			return err
		}
	}
	return ed.Save()
}

// Validate checks delta exactly as Update does, without opening the file
// for writing.
func (m *Manager) Validate(delta types.Metadata) error {
	_, err := m.changes(delta)
	return err
}

func (m *Manager) changes(delta types.Metadata) ([]change, error) {
	writeMap := m.dialect.WriteMap()
	if len(writeMap) == 0 {
		return nil, &types.UnsupportedWriteError{Format: m.Format(), Reason: "format is read-only"}
	}
	return m.validate(delta, writeMap)
}

func (m *Manager) validate(delta types.Metadata, writeMap Mapping) ([]change, error) {
	keys := make([]types.Key, 0, len(delta))
	for k := range delta {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b types.Key) int {
		return cmp.Compare(registryIndex(a), registryIndex(b))
	})

	changes := make([]change, 0, len(keys))
	for _, key := range keys {
		if !key.Known() {
			return nil, &types.FieldNotSupportedByLibraryError{Key: key}
		}
		rawKey, ok := writeMap[key]
		if !ok {
			return nil, &types.FieldNotSupportedByFormatError{Key: key, Format: m.Format()}
		}

		value := types.CleanValue(delta[key])
		if err := types.CheckValue(key, value); err != nil {
			return nil, err
		}
		if n, ok := value.(int); ok {
			if vt, _ := types.ValueTypeOf(key); vt == types.TypeFloat {
				value = float64(n)
			}
		}
		if key == types.KeyRating && value != nil {
			limit := 0
			if l, ok := m.dialect.(RatingLimiter); ok {
				limit = l.RawRatingLimit()
			}
			n, err := rating.Validate(value, m.opts.RatingMax, limit)
			if err != nil {
				return nil, err
			}
			value = rating.Denormalize(n, m.opts.RatingMax)
		}
		changes = append(changes, change{key: key, rawKey: rawKey, value: value})
	}
	return changes, nil
}

func registryIndex(k types.Key) int {
	if i := slices.Index(types.Keys(), k); i >= 0 {
		return i
	}
	return math.MaxInt
}

// Delete removes the dialect's tag from the file. Failures are reported as
// false rather than returned.
func (m *Manager) Delete() bool {
	defer m.Invalidate()
	return m.dialect.Delete() == nil
}
