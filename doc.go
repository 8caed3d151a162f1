// Package tagbridge reads and writes audio metadata through one semantic key
// space, whatever tag dialect a file carries.
//
// A title, a list of artists, a rating or a set of genres is addressed by a
// Key such as KeyGenres. Each dialect (ID3v2, ID3v1, RIFF INFO, Vorbis
// comments) maps those keys to its own raw fields, and the library smooths
// over the legacy encodings found in the wild: lists packed into one string,
// numeric ID3v1 genre codes, and incompatible rating scales.
//
// # Quick Start
//
// Reading metadata from an audio file:
//
//	file, err := tagbridge.Open("song.mp3", tagbridge.WithNormalizedRatingMax(100))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	md, err := file.UnifiedMetadata()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(md[tagbridge.KeyTitle], md[tagbridge.KeyArtists], md[tagbridge.KeyRating])
//
// Writing it back:
//
//	err = file.Update(tagbridge.Metadata{
//		tagbridge.KeyGenres: []string{"Rock", "Blues"},
//		tagbridge.KeyRating: 80,
//	})
//
// # Supported Containers
//
// The container is chosen by file extension; each carries metadata formats
// in a fixed priority order:
//
//   - MP3: ID3v2 (2.2 read-only, 2.3, 2.4), then ID3v1
//   - FLAC: Vorbis comments, then ID3v1
//   - WAV: RIFF INFO, then ID3v1
//
// Merged reads take each key from the first format that has it. Updates go
// to the first format unless WithTargetFormat says otherwise.
//
// # Values
//
// Values in a Metadata map are string, int, float64 or []string, as declared
// by ValueTypeOf. A nil value removes the field on update.
//
// Ratings are raw file values unless WithNormalizedRatingMax is given. With
// a max, reads are scaled to 0..max and writes must be an exact tenth of max.
// Traktor's POPM rating of 0 means "unrated" and reads as absent.
//
// # Error Handling
//
// tagbridge distinguishes between fatal errors and warnings:
//
//   - Fatal errors stop the operation (unknown key, invalid value, file not found)
//   - Warnings indicate non-fatal issues (a corrupted secondary tag, a
//     malformed Vorbis comment)
//
// Errors are typed and matched with errors.As:
//
//	var unsupported *tagbridge.FieldNotSupportedByFormatError
//	if errors.As(err, &unsupported) {
//		// the key exists, but not in this container
//	}
//
// An update validates every field before touching the file, so a single
// invalid value leaves the file unchanged.
package tagbridge
