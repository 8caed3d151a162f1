package id3v2

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"github.com/simonhull/tagbridge/internal/types"
)

// legacyIDs maps ID3v2.2 three-letter frame IDs to their ID3v2.3 equivalents.
var legacyIDs = map[string]string{
	"TT2": "TIT2",
	"TP1": "TPE1",
	"TP2": "TPE2",
	"TAL": "TALB",
	"TCO": "TCON",
	"TLA": "TLAN",
	"TRK": "TRCK",
	"TPA": "TPOS",
	"TBP": "TBPM",
	"TCM": "TCOM",
	"TXT": "TEXT",
	"TCR": "TCOP",
	"TPB": "TPUB",
	"TRC": "TSRC",
	"TYE": "TYER",
	"TDA": "TDAT",
	"COM": "COMM",
	"ULT": "USLT",
	"TXX": "TXXX",
	"POP": "POPM",
}

// readLegacy reads an ID3v2.2 tag with dhowden/tag and renames its frames
// to their ID3v2.3 IDs.
func readLegacy(path string) (*types.RawMetadata, []types.Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadID3v2Tags(f)
	if err != nil {
		return nil, nil, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("parse ID3v2.2 tag: %v", err)}
	}

	frames := m.Raw()
	names := make([]string, 0, len(frames))
	for name := range frames {
		names = append(names, name)
	}
	slices.Sort(names)

	raw := types.NewRawMetadata()
	for _, name := range names {
		// Repeated frames are stored as "ID_1", "ID_2", ...
		base, _, _ := strings.Cut(name, "_")
		id, ok := legacyIDs[base]
		if !ok {
			continue
		}
		switch v := frames[name].(type) {
		case string:
			raw.Add(id, strings.TrimRight(v, "\x00"))
		case *tag.Comm:
			if id == "TXXX" {
				raw.Add(userTextPrefix+v.Description, v.Text)
			} else {
				raw.Add(qualified(id, v.Description), v.Text)
			}
		case []byte:
			if id == "POPM" {
				if email, rating, ok := parsePopularimeter(v); ok {
					raw.Add(ratingPrefix+email, strconv.Itoa(rating))
				}
			}
		}
	}

	warnings := []types.Warning{{
		Stage:   types.FormatID3v2.String(),
		Message: "ID3v2.2 tag is read-only and will be converted on write",
	}}
	return raw, warnings, nil
}

// parsePopularimeter decodes "email\x00" + rating byte + optional counter.
func parsePopularimeter(b []byte) (string, int, bool) {
	i := slices.Index(b, 0)
	if i < 0 || i+1 >= len(b) {
		return "", 0, false
	}
	return string(b[:i]), int(b[i+1]), true
}
