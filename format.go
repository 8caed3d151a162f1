package tagbridge

import (
	"github.com/simonhull/tagbridge/internal/manager"
	"github.com/simonhull/tagbridge/internal/types"
)

// MetadataFormat is an alias to types.MetadataFormat.
type MetadataFormat = types.MetadataFormat

// Metadata formats.
const (
	FormatUnknown = types.FormatUnknown
	FormatID3v2   = types.FormatID3v2
	FormatID3v1   = types.FormatID3v1
	FormatRIFF    = types.FormatRIFF
	FormatVorbis  = types.FormatVorbis
)

// Container is an alias to types.Container.
type Container = types.Container

// Audio containers, selected by file extension.
const (
	ContainerUnknown = types.ContainerUnknown
	ContainerMP3     = types.ContainerMP3
	ContainerFLAC    = types.ContainerFLAC
	ContainerWAV     = types.ContainerWAV
)

// RawMetadata is the case-preserving key/values table of one dialect.
type RawMetadata = types.RawMetadata

// Manager reads and writes unified metadata through one dialect.
type Manager = manager.Manager

// ParseMetadataFormat parses a format name such as "id3v2" or "Vorbis".
func ParseMetadataFormat(s string) (MetadataFormat, bool) {
	return types.ParseMetadataFormat(s)
}

// ContainerFromPath selects the container from the file extension.
func ContainerFromPath(path string) (Container, error) {
	return types.ContainerFromPath(path)
}
