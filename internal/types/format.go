package types

import (
	"path/filepath"
	"slices"
	"strings"
)

// MetadataFormat identifies a tag dialect embedded in an audio container.
type MetadataFormat int

const (
	// FormatUnknown represents an unknown or unsupported metadata format.
	FormatUnknown MetadataFormat = iota
	// FormatID3v2 represents ID3v2.2/2.3/2.4 tags.
	FormatID3v2
	// FormatID3v1 represents the 128-byte ID3v1/ID3v1.1 trailer.
	FormatID3v1
	// FormatRIFF represents RIFF LIST/INFO chunks in WAV files.
	FormatRIFF
	// FormatVorbis represents Vorbis comments in FLAC files.
	FormatVorbis
)

func (f MetadataFormat) String() string {
	switch f {
	case FormatID3v2:
		return "ID3v2"
	case FormatID3v1:
		return "ID3v1"
	case FormatRIFF:
		return "RIFF"
	case FormatVorbis:
		return "Vorbis"
	default:
		return "Unknown"
	}
}

// ParseMetadataFormat parses a format name case-insensitively ("id3v2", "Vorbis", ...).
func ParseMetadataFormat(s string) (MetadataFormat, bool) {
	for _, f := range []MetadataFormat{FormatID3v2, FormatID3v1, FormatRIFF, FormatVorbis} {
		if strings.EqualFold(s, f.String()) {
			return f, true
		}
	}
	return FormatUnknown, false
}

// Container is the audio file type, selected from the file extension.
type Container int

const (
	// ContainerUnknown is an unrecognised extension.
	ContainerUnknown Container = iota
	// ContainerMP3 is an MPEG audio file.
	ContainerMP3
	// ContainerFLAC is a native FLAC file.
	ContainerFLAC
	// ContainerWAV is a RIFF/WAVE file.
	ContainerWAV
)

func (c Container) String() string {
	switch c {
	case ContainerMP3:
		return "MP3"
	case ContainerFLAC:
		return "FLAC"
	case ContainerWAV:
		return "WAV"
	default:
		return "Unknown"
	}
}

// Extensions returns the file extensions mapped to this container.
func (c Container) Extensions() []string {
	switch c {
	case ContainerMP3:
		return []string{".mp3"}
	case ContainerFLAC:
		return []string{".flac"}
	case ContainerWAV:
		return []string{".wav", ".wave"}
	default:
		return nil
	}
}

// Formats returns the metadata formats a container can carry, highest priority first.
func (c Container) Formats() []MetadataFormat {
	switch c {
	case ContainerMP3:
		return []MetadataFormat{FormatID3v2, FormatID3v1}
	case ContainerFLAC:
		return []MetadataFormat{FormatVorbis, FormatID3v1}
	case ContainerWAV:
		return []MetadataFormat{FormatRIFF, FormatID3v1}
	default:
		return nil
	}
}

// Supports reports whether the container can carry the metadata format.
func (c Container) Supports(f MetadataFormat) bool {
	return slices.Contains(c.Formats(), f)
}

// ContainerFromPath selects the container from the file extension.
//
// Content sniffing is deliberately not attempted.
func ContainerFromPath(path string) (Container, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range []Container{ContainerMP3, ContainerFLAC, ContainerWAV} {
		if slices.Contains(c.Extensions(), ext) {
			return c, nil
		}
	}
	reason := "no file extension"
	if ext != "" {
		reason = "unsupported file extension " + ext
	}
	return ContainerUnknown, &UnsupportedFormatError{Path: path, Reason: reason}
}
