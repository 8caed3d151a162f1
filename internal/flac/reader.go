// Package flac walks the metadata-block chain of a FLAC file and extracts its
// Vorbis comments.
//
// General-purpose tag readers lowercase comment keys or collapse repeated
// keys into one value. This reader keeps both the original casing and every
// repeated instance.
package flac

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/simonhull/tagbridge/internal/binary"
	"github.com/simonhull/tagbridge/internal/types"
)

// Magic is the FLAC stream marker.
const Magic = "fLaC"

// Metadata block types
const (
	BlockTypeStreamInfo    = 0
	BlockTypePadding       = 1
	BlockTypeVorbisComment = 4
)

const id3HeaderSize = 10

// Block is one metadata block header.
type Block struct {
	Type   uint8
	Last   bool
	Offset int64 // payload offset
	Length int64
}

// Comments is the content of a VORBIS_COMMENT block.
type Comments struct {
	Vendor   string
	Raw      *types.RawMetadata
	Warnings []types.Warning
}

// ID3v2PrefixSize returns the number of bytes an ID3v2 tag occupies before the
// FLAC magic, or 0 when the file starts with the magic.
func ID3v2PrefixSize(sr *binary.SafeReader) (int64, error) {
	head := make([]byte, 4)
	if err := sr.ReadAt(head, 0, "FLAC magic bytes"); err != nil {
		return 0, corrupt(sr.Path(), 0, "file too short for FLAC magic", err)
	}
	if string(head[:3]) != "ID3" || head[3] < 2 || head[3] > 4 {
		return 0, nil
	}

	header := make([]byte, id3HeaderSize)
	if err := sr.ReadAt(header, 0, "ID3v2 header"); err != nil {
		return 0, corrupt(sr.Path(), 0, "truncated ID3v2 header", err)
	}
	size := id3HeaderSize + int64(binary.DecodeSynchsafe(header[6:10]))
	if header[3] == 4 && header[5]&0x10 != 0 {
		size += id3HeaderSize // footer
	}
	return size, nil
}

// Start returns the offset of the first metadata block header, after the
// magic and any ID3v2 prefix.
func Start(sr *binary.SafeReader) (int64, error) {
	offset, err := ID3v2PrefixSize(sr)
	if err != nil {
		return 0, err
	}
	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, offset, "FLAC magic bytes"); err != nil {
		return 0, corrupt(sr.Path(), offset, "missing FLAC magic", err)
	}
	if string(magic) != Magic {
		return 0, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: offset,
			Reason: "invalid FLAC magic bytes",
		}
	}
	return offset + 4, nil
}

// Blocks iterates metadata blocks from offset until the block flagged last.
// Iteration stops after the first error.
func Blocks(sr *binary.SafeReader, offset int64) iter.Seq2[Block, error] {
	return func(yield func(Block, error) bool) {
		for {
			header, err := binary.Read[uint32](sr, offset, "metadata block header")
			if err != nil {
				yield(Block{}, corrupt(sr.Path(), offset, "truncated metadata block header", err))
				return
			}

			b := Block{
				Last:   header>>31 == 1,
				Type:   uint8((header >> 24) & 0x7F),
				Offset: offset + 4,
				Length: int64(header & 0x00FFFFFF),
			}
			if b.Offset+b.Length > sr.Size() {
				yield(Block{}, &types.CorruptedFileError{
					Path:   sr.Path(),
					Offset: offset,
					Reason: fmt.Sprintf("metadata block of %d bytes runs past end of file", b.Length),
				})
				return
			}
			if !yield(b, nil) || b.Last {
				return
			}
			offset = b.Offset + b.Length
		}
	}
}

// ReadComments extracts the Vorbis comments of a FLAC file.
//
// A file without a VORBIS_COMMENT block yields an empty table.
func ReadComments(r io.ReaderAt, size int64, path string) (*Comments, error) {
	sr := binary.NewSafeReader(r, size, path)

	offset, err := Start(sr)
	if err != nil {
		return nil, err
	}

	for b, err := range Blocks(sr, offset) {
		if err != nil {
			return nil, err
		}
		if b.Type != BlockTypeVorbisComment {
			continue
		}
		payload, err := sr.Bytes(b.Offset, int(b.Length), "VORBIS_COMMENT block")
		if err != nil {
			return nil, err
		}
		return ParseComments(payload, b.Offset, path)
	}

	return &Comments{Raw: types.NewRawMetadata()}, nil
}

// ParseComments decodes a VORBIS_COMMENT payload that starts at file offset base.
func ParseComments(payload []byte, base int64, path string) (*Comments, error) {
	c := binary.NewCursor(payload, base, path)

	vendorLength, err := c.Uint32LE("vendor string length")
	if err != nil {
		return nil, err
	}
	vendor, err := c.Next(int(vendorLength), "vendor string")
	if err != nil {
		return nil, err
	}
	count, err := c.Uint32LE("number of comments")
	if err != nil {
		return nil, err
	}

	out := &Comments{
		Vendor: decode(vendor),
		Raw:    types.NewRawMetadata(),
	}
	for i := range count {
		start := base + int64(len(payload)-c.Remaining())
		length, err := c.Uint32LE(fmt.Sprintf("comment %d length", i))
		if err != nil {
			return nil, err
		}
		data, err := c.Next(int(length), fmt.Sprintf("comment %d", i))
		if err != nil {
			return nil, err
		}

		key, value, ok := strings.Cut(decode(data), "=")
		if !ok {
			out.Warnings = append(out.Warnings, types.Warning{
				Stage:   "Vorbis",
				Message: fmt.Sprintf("skipped comment %d without '='", i),
				Offset:  start,
			})
			continue
		}
		out.Raw.Add(key, value)
	}
	return out, nil
}

func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

func corrupt(path string, offset int64, reason string, err error) error {
	var oob *types.OutOfBoundsError
	if errors.As(err, &oob) {
		return &types.CorruptedFileError{Path: path, Offset: offset, Reason: reason}
	}
	return err
}
