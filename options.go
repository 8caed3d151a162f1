package tagbridge

import (
	"fmt"

	"github.com/simonhull/tagbridge/internal/manager"
)

// Option configures behavior when opening audio files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := tagbridge.Open("song.mp3",
//	    tagbridge.WithNormalizedRatingMax(100),
//	    tagbridge.WithStrictParsing(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	ratingMax      int              // Normalized rating scale (0 = raw values)
	id3v2Version   byte             // ID3v2 major version to write
	priority       []MetadataFormat // Formats to consult first
	strictParsing  bool             // Fail on any warning
	ignoreWarnings bool             // Suppress all warnings
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		id3v2Version: 4,
	}
}

func (o *openOptions) validate() error {
	if o.ratingMax < 0 {
		return &ConfigurationError{Option: "WithNormalizedRatingMax", Reason: fmt.Sprintf("max must not be negative, got %d", o.ratingMax)}
	}
	if o.id3v2Version != 3 && o.id3v2Version != 4 {
		return &ConfigurationError{Option: "WithID3v2Version", Reason: fmt.Sprintf("version must be 3 or 4, got %d", o.id3v2Version)}
	}
	for _, f := range o.priority {
		if f == FormatUnknown {
			return &ConfigurationError{Option: "WithFormatPriority", Reason: "unknown metadata format"}
		}
	}
	return nil
}

func (o *openOptions) manager() manager.Options {
	return manager.Options{RatingMax: o.ratingMax, ID3v2Version: o.id3v2Version}
}

// WithNormalizedRatingMax reads and writes ratings on the scale 0..max.
//
// Without it, ratings are the raw values stored in the file. Written values
// must be an exact tenth of max so they map to a whole half-star.
//
// Example:
//
//	file, err := tagbridge.Open("song.mp3", tagbridge.WithNormalizedRatingMax(100))
//	// a POPM rating of 196 reads as 80
func WithNormalizedRatingMax(max int) Option {
	return func(o *openOptions) {
		o.ratingMax = max
	}
}

// WithID3v2Version selects the ID3v2 major version written on update: 4
// (default, UTF-8, NUL-separated lists) or 3 (UTF-16, lists joined with a
// separator).
func WithID3v2Version(version int) Option {
	return func(o *openOptions) {
		o.id3v2Version = byte(version)
	}
}

// WithFormatPriority moves the given metadata formats to the front of the
// container's read order. Formats the container cannot carry are ignored.
//
// Example:
//
//	// Prefer the ID3v1 trailer over the ID3v2 tag of an MP3
//	file, err := tagbridge.Open("song.mp3", tagbridge.WithFormatPriority(tagbridge.FormatID3v1))
func WithFormatPriority(formats ...MetadataFormat) Option {
	return func(o *openOptions) {
		o.priority = formats
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, reads continue past issues such as a corrupted secondary tag
// or a Vorbis comment without '=', returning warnings alongside the data.
//
// Example:
//
//	file, err := tagbridge.Open("song.flac", tagbridge.WithStrictParsing())
//	md, err := file.UnifiedMetadata()
//	// err != nil if ANY issue is encountered
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// By default, warnings about non-fatal issues are collected in
// File.Warnings. This option discards them.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}
