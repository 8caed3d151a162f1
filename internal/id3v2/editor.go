package id3v2

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/simonhull/tagbridge/internal/multivalue"
	"github.com/simonhull/tagbridge/internal/types"
)

// editor applies changes to a bogem tag. Version 4 writes UTF-8 with lists
// NUL-separated; version 3 writes UTF-16 with lists joined by a separator
// that does not occur in any value.
type editor struct {
	tag      *id3v2.Tag
	version  byte
	encoding id3v2.Encoding
}

func newEditor(tag *id3v2.Tag, version byte) *editor {
	if version != 3 {
		version = 4
	}
	encoding := id3v2.EncodingUTF8
	if version == 3 {
		encoding = id3v2.EncodingUTF16
	}
	tag.SetVersion(version)
	tag.SetDefaultEncoding(encoding)
	return &editor{tag: tag, version: version, encoding: encoding}
}

func (e *editor) text(key types.Key, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case []string:
		if e.version == 4 {
			return strings.Join(v, "\x00"), nil
		}
		return multivalue.Join(v), nil
	}
	return "", &types.InvalidValueTypeError{Key: key, Got: fmt.Sprintf("%T", value)}
}

// keepFrames re-adds the frames of id for which drop returns false.
func (e *editor) keepFrames(id string, drop func(id3v2.Framer) bool) {
	frames := e.tag.GetFrames(id)
	e.tag.DeleteFrames(id)
	for _, f := range frames {
		if !drop(f) {
			e.tag.AddFrame(id, f)
		}
	}
}

// Set replaces one frame. A nil value only removes it.
func (e *editor) Set(key types.Key, rawKey string, value any) error {
	var text string
	if value != nil {
		var err error
		if text, err = e.text(key, value); err != nil {
			return err
		}
	}

	switch {
	case strings.HasPrefix(rawKey, userTextPrefix):
		desc := strings.TrimPrefix(rawKey, userTextPrefix)
		e.keepFrames("TXXX", func(f id3v2.Framer) bool {
			udf, ok := f.(id3v2.UserDefinedTextFrame)
			return ok && strings.EqualFold(udf.Description, desc)
		})
		if value != nil {
			e.tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
				Encoding:    e.encoding,
				Description: desc,
				Value:       text,
			})
		}

	case rawKey == "COMM":
		e.keepFrames("COMM", func(f id3v2.Framer) bool {
			cf, ok := f.(id3v2.CommentFrame)
			return ok && cf.Description == ""
		})
		if value != nil {
			e.tag.AddCommentFrame(id3v2.CommentFrame{
				Encoding: e.encoding,
				Language: "eng",
				Text:     text,
			})
		}

	case rawKey == "USLT":
		e.keepFrames("USLT", func(f id3v2.Framer) bool {
			lf, ok := f.(id3v2.UnsynchronisedLyricsFrame)
			return ok && lf.ContentDescriptor == ""
		})
		if value != nil {
			e.tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
				Encoding: e.encoding,
				Language: "eng",
				Lyrics:   text,
			})
		}

	default:
		e.tag.DeleteFrames(rawKey)
		if value != nil {
			e.tag.AddTextFrame(rawKey, e.encoding, text)
		}
	}
	return nil
}

// SetIndirect writes the rating, release date and disc number frames.
func (e *editor) SetIndirect(key types.Key, value any) error {
	switch key {
	case types.KeyRating:
		return e.setRating(value)
	case types.KeyReleaseDate:
		for _, id := range []string{"TDRC", "TYER", "TDAT"} {
			e.tag.DeleteFrames(id)
		}
		date, ok := value.(string)
		if !ok {
			return nil
		}
		if e.version == 4 {
			e.tag.AddTextFrame("TDRC", e.encoding, date)
			return nil
		}
		e.tag.AddTextFrame("TYER", e.encoding, date[:4])
		if len(date) == 10 {
			e.tag.AddTextFrame("TDAT", e.encoding, date[8:10]+date[5:7])
		}
		return nil
	case types.KeyDiscNumber:
		_, total, _ := strings.Cut(e.tag.GetTextFrame("TPOS").Text, "/")
		e.tag.DeleteFrames("TPOS")
		n, ok := value.(int)
		if !ok {
			return nil
		}
		text := strconv.Itoa(n)
		if total = strings.TrimSpace(total); total != "" {
			text += "/" + total
		}
		e.tag.AddTextFrame("TPOS", e.encoding, text)
		return nil
	}
	return &types.FieldNotSupportedByFormatError{Key: key, Format: types.FormatID3v2}
}

// setRating replaces every POPM frame except Traktor's with one owned by
// RatingEmail. Writing 0 removes Traktor's frame too.
func (e *editor) setRating(value any) error {
	if value == nil {
		e.tag.DeleteFrames("POPM")
		return nil
	}
	v, ok := value.(int)
	if !ok || v < 0 || v > 255 {
		return &types.InvalidRatingValueError{Value: value, Reason: "POPM rating must be 0-255"}
	}
	e.keepFrames("POPM", func(f id3v2.Framer) bool {
		pf, ok := f.(id3v2.PopularimeterFrame)
		return !ok || pf.Email != TraktorEmail || v == 0
	})
	e.tag.AddFrame("POPM", id3v2.PopularimeterFrame{
		Email:   RatingEmail,
		Rating:  uint8(v),
		Counter: big.NewInt(0),
	})
	return nil
}

// migrate copies the frames of a legacy tag into the new tag.
func (e *editor) migrate(legacy *types.RawMetadata) error {
	var errs []error
	for key, values := range legacy.All() {
		switch {
		case strings.HasPrefix(key, ratingPrefix):
			n, err := strconv.Atoi(values[0])
			if err != nil || n < 0 || n > 255 {
				errs = append(errs, &types.InvalidRatingValueError{Value: values[0], Reason: "POPM rating must be 0-255"})
				continue
			}
			e.tag.AddFrame("POPM", id3v2.PopularimeterFrame{
				Email:   strings.TrimPrefix(key, ratingPrefix),
				Rating:  uint8(n),
				Counter: big.NewInt(0),
			})
		case key == "COMM", key == "USLT", strings.HasPrefix(key, userTextPrefix):
			errs = append(errs, e.Set(keyFor(key), key, values[0]))
		case strings.HasPrefix(key, "T") && !strings.Contains(key, ":"):
			errs = append(errs, e.Set(keyFor(key), key, values))
		}
	}
	return errors.Join(errs...)
}

// keyFor returns the unified key written to rawKey, or rawKey itself for
// frames outside the key registry.
func keyFor(rawKey string) types.Key {
	for key, raw := range fieldMap {
		if raw == rawKey {
			return key
		}
	}
	return types.Key(rawKey)
}

func (e *editor) Save() error {
	if err := e.tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

func (e *editor) Close() error {
	return e.tag.Close()
}
