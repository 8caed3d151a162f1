package id3v2

import (
	"fmt"
	"io"
	"os"

	"github.com/simonhull/tagbridge/internal/atomicfile"
	"github.com/simonhull/tagbridge/internal/binary"
)

const headerSize = 10

// TagSize returns the number of bytes the ID3v2 tag at the start of data
// occupies, including header and footer, or 0 when there is no tag.
func TagSize(data []byte) int64 {
	if len(data) < headerSize || string(data[:3]) != "ID3" {
		return 0
	}
	size := headerSize + int64(binary.DecodeSynchsafe(data[6:10]))
	if data[3] == 4 && data[5]&0x10 != 0 {
		size += headerSize // footer
	}
	return size
}

// Strip removes a leading ID3v2 tag of any version from the file.
// A file without one is left untouched.
func Strip(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	size := TagSize(data)
	if size == 0 {
		return nil
	}
	if size > int64(len(data)) {
		return fmt.Errorf("ID3v2 tag size (%d) exceeds file size (%d)", size, len(data))
	}

	return atomicfile.Write(path, func(w io.Writer) error {
		_, err := w.Write(data[size:])
		return err
	})
}
