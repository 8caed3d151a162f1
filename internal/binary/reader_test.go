package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/simonhull/tagbridge/internal/types"
)

func TestSafeReader_ReadAt_Success(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.flac")

	buf := make([]byte, 2)
	if err := sr.ReadAt(buf, 2, "test read"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf[0] != 0x03 || buf[1] != 0x04 {
		t.Errorf("expected [0x03, 0x04], got [0x%02x, 0x%02x]", buf[0], buf[1])
	}
}

func TestSafeReader_ReadAt_OutOfBounds(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.flac")

	tests := []struct {
		name string
		off  int64
		n    int
	}{
		{"offset past end", 10, 2},
		{"read crosses end", 3, 2},
		{"negative offset", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sr.ReadAt(make([]byte, tt.n), tt.off, "block header")
			var oob *types.OutOfBoundsError
			if !errors.As(err, &oob) {
				t.Fatalf("expected *OutOfBoundsError, got %T: %v", err, err)
			}
			if oob.What != "block header" || oob.Path != "test.flac" {
				t.Errorf("error lacks context: %+v", oob)
			}
		})
	}
}

func TestReadEndian(t *testing.T) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint32(data[0:4], 0x12345678)
	binary.LittleEndian.PutUint32(data[4:8], 0x12345678)
	sr := NewSafeReader(bytes.NewReader(data), int64(len(data)), "test")

	be, err := Read[uint32](sr, 0, "be")
	if err != nil || be != 0x12345678 {
		t.Errorf("Read[uint32] = 0x%x, %v; want 0x12345678", be, err)
	}
	le, err := ReadLE[uint32](sr, 4, "le")
	if err != nil || le != 0x12345678 {
		t.Errorf("ReadLE[uint32] = 0x%x, %v; want 0x12345678", le, err)
	}
	b, err := Read[uint8](sr, 0, "byte")
	if err != nil || b != 0x12 {
		t.Errorf("Read[uint8] = 0x%x, %v; want 0x12", b, err)
	}
	if _, err := ReadLE[uint64](sr, 4, "too long"); err == nil {
		t.Error("expected error reading uint64 past end")
	}
}

func TestSynchsafe(t *testing.T) {
	tests := []struct {
		in   []byte
		want uint32
	}{
		{[]byte{0x00, 0x00, 0x00, 0x0A}, 10},
		{[]byte{0x00, 0x00, 0x02, 0x01}, 257},
		{[]byte{0x7F, 0x7F, 0x7F, 0x7F}, 1<<28 - 1},
		// High bits are ignored.
		{[]byte{0x80, 0x80, 0x81, 0x80}, 128},
		{[]byte{0x01}, 0},
	}
	for _, tt := range tests {
		if got := DecodeSynchsafe(tt.in); got != tt.want {
			t.Errorf("DecodeSynchsafe(% x) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCursor(t *testing.T) {
	data := []byte{0x03, 0x00, 0x00, 0x00, 'a', 'b', 'c', 0xFF}
	c := NewCursor(data, 100, "test.flac")

	n, err := c.Uint32LE("length")
	if err != nil || n != 3 {
		t.Fatalf("Uint32LE = %d, %v; want 3", n, err)
	}
	b, err := c.Next(int(n), "string")
	if err != nil || string(b) != "abc" {
		t.Fatalf("Next = %q, %v; want abc", b, err)
	}
	if c.Remaining() != 1 {
		t.Errorf("Remaining = %d, want 1", c.Remaining())
	}

	_, err = c.Uint32LE("count")
	var corrupt *types.CorruptedFileError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected *CorruptedFileError, got %T: %v", err, err)
	}
	if corrupt.Offset != 107 {
		t.Errorf("Offset = %d, want 107", corrupt.Offset)
	}
}
