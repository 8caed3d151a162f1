package vorbis

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/tagbridge/internal/atomicfile"
	"github.com/simonhull/tagbridge/internal/binary"
	"github.com/simonhull/tagbridge/internal/flac"
	"github.com/simonhull/tagbridge/internal/types"
)

// editor holds a parsed FLAC file and its comment block until Save.
type editor struct {
	path     string
	file     *goflac.File
	comments *flacvorbis.MetaDataBlockVorbisComment
	drop     bool
}

func openEditor(path string) (*editor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	// An ID3v2 tag in front of fLaC is not valid FLAC and is dropped on save.
	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), path)
	if _, err := flac.Start(sr); err != nil {
		return nil, err
	}
	prefix, err := flac.ID3v2PrefixSize(sr)
	if err != nil {
		return nil, err
	}

	f, err := goflac.ParseBytes(bytes.NewReader(data[prefix:]))
	if err != nil {
		return nil, &types.CorruptedFileError{Path: path, Offset: prefix, Reason: err.Error()}
	}

	ed := &editor{path: path, file: f}
	for _, meta := range f.Meta {
		if meta.Type != goflac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("parse vorbis comments: %v", err)}
		}
		ed.comments = cmts
		break
	}
	if ed.comments == nil {
		ed.comments = flacvorbis.New()
	}
	return ed, nil
}

// Set replaces every case variant of rawKey with the new values.
func (e *editor) Set(key types.Key, rawKey string, value any) error {
	e.comments.Comments = slices.DeleteFunc(e.comments.Comments, func(c string) bool {
		return sameField(c, rawKey)
	})

	var values []string
	switch v := value.(type) {
	case nil:
	case string:
		values = []string{v}
	case int:
		values = []string{strconv.Itoa(v)}
	case float64:
		values = []string{strconv.FormatFloat(v, 'f', -1, 64)}
	case []string:
		values = v
	default:
		return &types.InvalidValueTypeError{Key: key, Got: fmt.Sprintf("%T", value)}
	}

	for _, v := range values {
		if err := e.comments.Add(rawKey, v); err != nil {
			return fmt.Errorf("add %s: %w", rawKey, err)
		}
	}
	return nil
}

// SetIndirect stores the raw rating in RATING.
func (e *editor) SetIndirect(key types.Key, value any) error {
	if key != types.KeyRating {
		return &types.FieldNotSupportedByFormatError{Key: key, Format: types.FormatVorbis}
	}
	return e.Set(key, FieldRating, value)
}

// Save writes the updated block chain over the original file.
func (e *editor) Save() error {
	idx := slices.IndexFunc(e.file.Meta, func(m *goflac.MetaDataBlock) bool {
		return m.Type == goflac.VorbisComment
	})
	switch {
	case e.drop && idx >= 0:
		e.file.Meta = slices.Delete(e.file.Meta, idx, idx+1)
	case e.drop:
	case idx >= 0:
		block := e.comments.Marshal()
		e.file.Meta[idx] = &block
	default:
		// STREAMINFO must stay the first block.
		block := e.comments.Marshal()
		e.file.Meta = slices.Insert(e.file.Meta, min(1, len(e.file.Meta)), &block)
	}

	return atomicfile.Write(e.path, func(w io.Writer) error {
		_, err := w.Write(e.file.Marshal())
		return err
	})
}

func (e *editor) Close() error {
	return nil
}
