// Package binary provides bounds-checked binary reading and writing primitives
// shared by the hand-parsed dialects (FLAC/Vorbis, ID3v1, RIFF INFO).
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/simonhull/tagbridge/internal/types"
)

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the readable size in bytes.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt reads len(b) bytes at off. Reads that fall outside the file return
// *types.OutOfBoundsError.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size || off+int64(len(b)) > sr.size {
		return &types.OutOfBoundsError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Length: len(b),
			Size:   sr.size,
		}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			sr.path, what, off, n, len(b))
	}

	return nil
}

// Bytes reads n bytes at off into a new slice.
func (sr *SafeReader) Bytes(off int64, n int, what string) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if err := sr.ReadAt(buf, off, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// Read reads a big-endian value of type T from the given offset.
func Read[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// DecodeSynchsafe decodes a 4-byte ID3v2 synchsafe integer.
// Only the low 7 bits of each byte are significant.
func DecodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// Cursor reads little-endian fields sequentially from an in-memory payload.
//
// A read past the end of the payload returns *types.CorruptedFileError carrying
// the absolute file offset of the failed field.
type Cursor struct {
	data []byte
	pos  int
	base int64
	path string
}

// NewCursor returns a Cursor over data, which starts at file offset base.
func NewCursor(data []byte, base int64, path string) *Cursor {
	return &Cursor{data: data, base: base, path: path}
}

// Uint32LE reads a little-endian uint32.
func (c *Cursor) Uint32LE(what string) (uint32, error) {
	b, err := c.Next(4, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Next returns the next n bytes without copying.
func (c *Cursor) Next(n int, what string) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, &types.CorruptedFileError{
			Path:   c.path,
			Offset: c.base + int64(c.pos),
			Reason: fmt.Sprintf("%s: need %d bytes, %d remaining", what, n, len(c.data)-c.pos),
		}
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}
