package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simonhull/tagbridge"
)

// parseDelta turns --set and --clear arguments into an update delta.
func parseDelta(sets, clears []string) (tagbridge.Metadata, error) {
	delta := make(tagbridge.Metadata, len(sets)+len(clears))
	for _, s := range sets {
		name, raw, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: expected KEY=VALUE", s)
		}
		key := tagbridge.Key(strings.ToUpper(strings.TrimSpace(name)))
		value, err := parseValue(key, raw)
		if err != nil {
			return nil, err
		}
		delta[key] = value
	}
	for _, name := range clears {
		key := tagbridge.Key(strings.ToUpper(strings.TrimSpace(name)))
		if _, err := tagbridge.ValueTypeOf(key); err != nil {
			return nil, err
		}
		delta[key] = nil
	}
	return delta, nil
}

// parseValue converts a command-line string to the Go type key declares.
// An empty string means removal.
func parseValue(key tagbridge.Key, raw string) (any, error) {
	vt, err := tagbridge.ValueTypeOf(key)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	switch vt {
	case tagbridge.TypeList:
		return tagbridge.ResolveMultiValue([]string{raw}), nil
	case tagbridge.TypeInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, &tagbridge.InvalidValueTypeError{Key: key, Want: vt, Got: fmt.Sprintf("%q", raw)}
		}
		return n, nil
	case tagbridge.TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &tagbridge.InvalidValueTypeError{Key: key, Want: vt, Got: fmt.Sprintf("%q", raw)}
		}
		return f, nil
	default:
		return raw, nil
	}
}
