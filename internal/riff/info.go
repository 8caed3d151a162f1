package riff

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/simonhull/tagbridge/internal/atomicfile"
	"github.com/simonhull/tagbridge/internal/binary"
	"github.com/simonhull/tagbridge/internal/types"
)

// Entry is one INFO subchunk.
type Entry struct {
	ID    string
	Value string
}

// ParseInfo decodes the subchunks of a LIST/INFO payload. payload starts
// after the "INFO" form type; base is its file offset.
//
// Text that is not valid UTF-8 is decoded as Windows-1252.
func ParseInfo(payload []byte, base int64, path string) ([]Entry, []types.Warning, error) {
	var (
		entries  []Entry
		warnings []types.Warning
	)
	c := binary.NewCursor(payload, base, path)
	for c.Remaining() >= 8 {
		id, _ := c.Next(4, "INFO subchunk ID")
		size, _ := c.Uint32LE("INFO subchunk size")
		value, err := c.Next(int(size), fmt.Sprintf("INFO %q value", id))
		if err != nil {
			return nil, nil, err
		}
		if size&1 == 1 && c.Remaining() > 0 {
			c.Next(1, "pad byte")
		}
		entries = append(entries, Entry{ID: string(id), Value: decode(value)})
	}
	if n := c.Remaining(); n > 0 {
		warnings = append(warnings, types.Warning{
			Stage:   types.FormatRIFF.String(),
			Message: fmt.Sprintf("ignored %d trailing bytes in INFO list", n),
			Offset:  base + int64(len(payload)-n),
		})
	}
	return entries, warnings, nil
}

func decode(b []byte) string {
	b = bytes.TrimRight(b, "\x00")
	if utf8.Valid(b) {
		return string(b)
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte("�")))
	}
	return string(s)
}

// EncodeInfo renders entries as LIST chunk data, starting with "INFO".
// Values are written as NUL-terminated UTF-8 and padded to even length.
func EncodeInfo(entries []Entry) []byte {
	buf := &bytes.Buffer{}
	sw := binary.NewSafeWriter(buf)
	sw.WriteString("INFO")
	for _, e := range entries {
		value := append([]byte(e.Value), 0)
		sw.WriteString(e.ID)
		binary.WriteLE(sw, uint32(len(value)))
		sw.WriteBytes(value)
		if len(value)&1 == 1 {
			sw.WriteBytes([]byte{0})
		}
	}
	return buf.Bytes()
}

// ReadInfo returns the entries of every LIST/INFO chunk in file order.
func ReadInfo(sr *binary.SafeReader) ([]Entry, []types.Warning, error) {
	end, err := Header(sr)
	if err != nil {
		return nil, nil, err
	}

	var (
		entries  []Entry
		warnings []types.Warning
	)
	for c, err := range Chunks(sr, end) {
		if err != nil {
			return nil, nil, err
		}
		if !c.IsInfo() {
			continue
		}
		payload, err := sr.Bytes(c.DataOffset()+4, int(c.Size)-4, "INFO list")
		if err != nil {
			return nil, nil, corrupt(sr.Path(), c.Offset, "read INFO list", err)
		}
		e, w, err := ParseInfo(payload, c.DataOffset()+4, sr.Path())
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, e...)
		warnings = append(warnings, w...)
	}
	return entries, warnings, nil
}

// WriteInfo replaces the LIST/INFO chunks of the file with one holding
// entries, or removes them when entries is empty.
//
// The new list takes the place of the first existing one, or goes before the
// data chunk. Bytes after the RIFF body, such as an ID3v1 trailer, are kept.
func WriteInfo(path string, entries []Entry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), path)
	end, err := Header(sr)
	if err != nil {
		return err
	}

	var list []byte
	if len(entries) > 0 {
		list = EncodeInfo(entries)
	}

	body := &bytes.Buffer{}
	sw := binary.NewSafeWriter(body)
	sw.WriteString("WAVE")
	placed := list == nil
	place := func() {
		if !placed {
			writeChunk(sw, "LIST", list)
			placed = true
		}
	}

	tail := end
	for c, err := range Chunks(sr, end) {
		if err != nil {
			return err
		}
		tail = max(tail, min(c.End(), int64(len(data))))
		if c.IsInfo() {
			place()
			continue
		}
		if c.ID == "data" {
			place()
		}
		writeChunk(sw, c.ID, data[c.DataOffset():c.DataOffset()+int64(c.Size)])
	}
	place()
	if sw.Offset() > math.MaxUint32 {
		return fmt.Errorf("RIFF body of %d bytes exceeds the 4 GiB chunk limit", sw.Offset())
	}

	return atomicfile.Write(path, func(w io.Writer) error {
		out := binary.NewSafeWriter(w)
		if err := out.WriteString("RIFF"); err != nil {
			return err
		}
		if err := binary.WriteLE(out, uint32(sw.Offset())); err != nil {
			return err
		}
		if err := out.WriteBytes(body.Bytes()); err != nil {
			return err
		}
		return out.WriteBytes(data[tail:])
	})
}

func writeChunk(sw *binary.SafeWriter, id string, data []byte) {
	sw.WriteString(id)
	binary.WriteLE(sw, uint32(len(data)))
	sw.WriteBytes(data)
	if len(data)&1 == 1 {
		sw.WriteBytes([]byte{0})
	}
}
