// Package genre resolves raw genre tags to genre names.
//
// Genre fields in the wild mix free text with ID3v1 numeric codes: "Rock",
// "17", "(17)", "(17)Rock" and runs like "(17)(6)" all occur, sometimes joined
// with the usual multi-value separators.
package genre

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/simonhull/tagbridge/internal/multivalue"
)

var (
	codeRun      = regexp.MustCompile(`^(?:\(\d+\)[^()/\\;,]*)+$`)
	codeRunPart  = regexp.MustCompile(`\(\d+\)[^()]*`)
	codeWithText = regexp.MustCompile(`^\((\d+)\)(.+)$`)
	bareCode     = regexp.MustCompile(`^\(?(\d+)\)?$`)
)

// Resolve returns the de-duplicated genre names encoded in entries, or nil.
func Resolve(entries []string) []string {
	var parts []string
	for _, e := range entries {
		for p := range strings.SplitSeq(e, "\x00") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
	}

	var elements []string
	switch {
	case len(parts) == 0:
		return nil
	case len(parts) > 1:
		elements = parts
	case codeRun.MatchString(parts[0]):
		elements = codeRunPart.FindAllString(parts[0], -1)
	case multivalue.HasSeparator(parts[0]):
		elements = multivalue.Split(parts[0])
	default:
		elements = parts
	}

	var out []string
	for _, el := range elements {
		name, ok := resolveElement(strings.TrimSpace(el))
		if ok && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func resolveElement(el string) (string, bool) {
	if el == "" {
		return "", false
	}
	if m := codeWithText.FindStringSubmatch(el); m != nil {
		if text := strings.TrimSpace(m[2]); text != "" {
			return text, true
		}
		return lookup(m[1])
	}
	if m := bareCode.FindStringSubmatch(el); m != nil && (el[0] == '(') == strings.HasSuffix(el, ")") {
		return lookup(m[1])
	}
	return el, true
}

func lookup(digits string) (string, bool) {
	code, err := strconv.Atoi(digits)
	if err != nil {
		return "", false
	}
	return Name(code)
}
