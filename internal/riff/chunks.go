// Package riff implements the RIFF INFO dialect for WAV files.
//
// The tag is the LIST chunk of form type INFO: a sequence of four-letter
// subchunks holding NUL-terminated text. Rewrites keep every other chunk
// byte-for-byte and in order.
package riff

import (
	"errors"
	"fmt"
	"iter"

	"github.com/simonhull/tagbridge/internal/binary"
	"github.com/simonhull/tagbridge/internal/types"
)

const headerSize = 12

// Chunk is one top-level chunk of a RIFF file.
type Chunk struct {
	ID string

	// Form is the list type of a LIST chunk ("INFO", "adtl", ...).
	Form string

	// Offset of the chunk header.
	Offset int64

	// Size of the chunk data, excluding header and pad byte.
	Size uint32
}

// DataOffset returns the offset of the chunk data.
func (c Chunk) DataOffset() int64 { return c.Offset + 8 }

// End returns the offset after the chunk, including its pad byte.
func (c Chunk) End() int64 {
	return c.DataOffset() + int64(c.Size) + int64(c.Size&1)
}

// IsInfo reports whether c is a LIST/INFO chunk.
func (c Chunk) IsInfo() bool { return c.ID == "LIST" && c.Form == "INFO" }

// Header validates the RIFF/WAVE header and returns where the RIFF body ends,
// clamped to the file size.
func Header(sr *binary.SafeReader) (int64, error) {
	b, err := sr.Bytes(0, headerSize, "RIFF header")
	if err != nil {
		return 0, corrupt(sr.Path(), 0, "read RIFF header", err)
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return 0, &types.CorruptedFileError{Path: sr.Path(), Reason: "not a RIFF/WAVE file"}
	}
	size, err := binary.ReadLE[uint32](sr, 4, "RIFF size")
	if err != nil {
		return 0, err
	}
	return min(8+int64(size), sr.Size()), nil
}

// Chunks walks the top-level chunks between the header and end.
//
// A chunk whose data runs past the end of the file is reported as
// *types.CorruptedFileError. A missing pad byte after the last chunk is
// tolerated.
func Chunks(sr *binary.SafeReader, end int64) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		for off := int64(headerSize); off+8 <= end; {
			id, err := sr.Bytes(off, 4, "chunk ID")
			if err != nil {
				yield(Chunk{}, corrupt(sr.Path(), off, "read chunk ID", err))
				return
			}
			size, err := binary.ReadLE[uint32](sr, off+4, "chunk size")
			if err != nil {
				yield(Chunk{}, corrupt(sr.Path(), off, "read chunk size", err))
				return
			}

			c := Chunk{ID: string(id), Offset: off, Size: size}
			if c.DataOffset()+int64(size) > sr.Size() {
				yield(Chunk{}, &types.CorruptedFileError{
					Path:   sr.Path(),
					Offset: off,
					Reason: fmt.Sprintf("chunk %q size %d exceeds file size %d", c.ID, size, sr.Size()),
				})
				return
			}
			if c.ID == "LIST" && size >= 4 {
				form, err := sr.Bytes(c.DataOffset(), 4, "LIST type")
				if err != nil {
					yield(Chunk{}, corrupt(sr.Path(), off, "read LIST type", err))
					return
				}
				c.Form = string(form)
			}

			if !yield(c, nil) {
				return
			}
			off = c.End()
		}
	}
}

func corrupt(path string, offset int64, reason string, err error) error {
	var oob *types.OutOfBoundsError
	if errors.As(err, &oob) {
		return &types.CorruptedFileError{Path: path, Offset: offset, Reason: reason + ": truncated"}
	}
	return err
}
