// Package testfixture builds minimal synthetic audio files for tests.
//
// The files carry valid container structure and metadata but only a few
// bytes of placeholder audio.
package testfixture

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// VorbisComment encodes a VORBIS_COMMENT payload.
func VorbisComment(vendor string, comments ...string) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint32(len(vendor)))
	buf.WriteString(vendor)
	binary.Write(buf, binary.LittleEndian, uint32(len(comments)))
	for _, c := range comments {
		binary.Write(buf, binary.LittleEndian, uint32(len(c)))
		buf.WriteString(c)
	}
	return buf.Bytes()
}

// FLACBlock is a metadata block to embed in a FLAC fixture.
type FLACBlock struct {
	Type    byte
	Payload []byte
}

// StreamInfo returns a 34-byte STREAMINFO payload for one second of
// 44.1kHz 16-bit stereo audio.
func StreamInfo() []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint16(4096))
	binary.Write(buf, binary.BigEndian, uint16(4096))
	buf.Write(make([]byte, 6))
	packed := uint64(44100)<<44 | uint64(1)<<41 | uint64(15)<<36 | uint64(44100)
	binary.Write(buf, binary.BigEndian, packed)
	buf.Write(make([]byte, 16))
	return buf.Bytes()
}

// FLAC builds a FLAC file: prefix, magic, STREAMINFO, then blocks. The last
// block gets the is-last flag.
func FLAC(prefix []byte, blocks ...FLACBlock) []byte {
	all := append([]FLACBlock{{Type: 0, Payload: StreamInfo()}}, blocks...)

	buf := &bytes.Buffer{}
	buf.Write(prefix)
	buf.WriteString("fLaC")
	for i, b := range all {
		t := b.Type
		if i == len(all)-1 {
			t |= 0x80
		}
		n := len(b.Payload)
		buf.Write([]byte{t, byte(n >> 16), byte(n >> 8), byte(n)})
		buf.Write(b.Payload)
	}
	// A few bytes standing in for audio frames.
	buf.Write([]byte{0xFF, 0xF8, 0x69, 0x08, 0x00})
	return buf.Bytes()
}

// FLACWithComments builds a FLAC file with one VORBIS_COMMENT block and padding.
func FLACWithComments(comments ...string) []byte {
	return FLAC(nil,
		FLACBlock{Type: 4, Payload: VorbisComment("reference libFLAC 1.4.3", comments...)},
		FLACBlock{Type: 1, Payload: make([]byte, 64)},
	)
}

// ID3v2Prefix returns an empty ID3v2.3 tag whose header declares size bytes
// of body, filled with zero padding.
func ID3v2Prefix(size int) []byte {
	header := append([]byte{'I', 'D', '3', 3, 0, 0}, Synchsafe(uint32(size))...)
	return append(header, make([]byte, size)...)
}

// Synchsafe encodes v, which must be below 2^28, as an ID3v2 synchsafe integer.
func Synchsafe(v uint32) []byte {
	return []byte{
		byte(v>>21) & 0x7F,
		byte(v>>14) & 0x7F,
		byte(v>>7) & 0x7F,
		byte(v) & 0x7F,
	}
}

// MP3 returns a few MPEG-1 Layer III frame headers with silent payloads.
func MP3() []byte {
	frame := make([]byte, 417)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x64})
	return bytes.Repeat(frame, 3)
}

// RIFFChunk is a chunk to embed in a WAV fixture.
type RIFFChunk struct {
	ID   string
	Data []byte
}

// WAV builds a RIFF/WAVE file with a PCM fmt chunk, the extra chunks, and a
// short data chunk.
func WAV(extra ...RIFFChunk) []byte {
	format := &bytes.Buffer{}
	binary.Write(format, binary.LittleEndian, uint16(1))     // PCM
	binary.Write(format, binary.LittleEndian, uint16(2))     // channels
	binary.Write(format, binary.LittleEndian, uint32(44100)) // sample rate
	binary.Write(format, binary.LittleEndian, uint32(176400))
	binary.Write(format, binary.LittleEndian, uint16(4))
	binary.Write(format, binary.LittleEndian, uint16(16))

	chunks := append([]RIFFChunk{{ID: "fmt ", Data: format.Bytes()}}, extra...)
	chunks = append(chunks, RIFFChunk{ID: "data", Data: make([]byte, 16)})

	body := &bytes.Buffer{}
	body.WriteString("WAVE")
	for _, c := range chunks {
		body.WriteString(c.ID)
		binary.Write(body, binary.LittleEndian, uint32(len(c.Data)))
		body.Write(c.Data)
		if len(c.Data)%2 == 1 {
			body.WriteByte(0)
		}
	}

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(body.Len()))
	buf.Write(body.Bytes())
	return buf.Bytes()
}

// InfoList builds a LIST/INFO chunk from id/value pairs. Values are
// NUL-terminated.
func InfoList(pairs ...string) RIFFChunk {
	data := &bytes.Buffer{}
	data.WriteString("INFO")
	for i := 0; i+1 < len(pairs); i += 2 {
		value := append([]byte(pairs[i+1]), 0)
		data.WriteString(pairs[i])
		binary.Write(data, binary.LittleEndian, uint32(len(value)))
		data.Write(value)
		if len(value)%2 == 1 {
			data.WriteByte(0)
		}
	}
	return RIFFChunk{ID: "LIST", Data: data.Bytes()}
}

// Write stores data as name in a fresh temporary directory and returns the path.
func Write(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
