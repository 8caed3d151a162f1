package tagbridge_test

import (
	"context"
	"testing"

	"github.com/simonhull/tagbridge"
	"github.com/simonhull/tagbridge/internal/testfixture"
)

func benchmarkFLAC(b *testing.B) string {
	b.Helper()
	return testfixture.Write(b, "bench.flac", testfixture.FLACWithComments(
		"TITLE=Song", "ARTIST=A", "ARTIST=B", "GENRE=(17)(8)", "RATING=196", "DATE=2021",
	))
}

// BenchmarkUnifiedMetadata measures a cold merged read: open, extract, resolve.
func BenchmarkUnifiedMetadata(b *testing.B) {
	path := benchmarkFLAC(b)

	b.ReportAllocs()
	for b.Loop() {
		file, err := tagbridge.Open(path, tagbridge.WithNormalizedRatingMax(100))
		if err != nil {
			b.Fatal(err)
		}
		if _, err := file.UnifiedMetadata(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkUnifiedMetadata_Cached measures reads served from the manager cache.
func BenchmarkUnifiedMetadata_Cached(b *testing.B) {
	file, err := tagbridge.Open(benchmarkFLAC(b))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := file.UnifiedMetadata(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkOpenMany measures concurrent reads of a small batch.
func BenchmarkOpenMany(b *testing.B) {
	path := benchmarkFLAC(b)
	paths := make([]string, 32)
	for i := range paths {
		paths[i] = path
	}
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := tagbridge.OpenMany(ctx, paths); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkUpdate measures a full rewrite of the Vorbis comment block.
func BenchmarkUpdate(b *testing.B) {
	file, err := tagbridge.Open(benchmarkFLAC(b))
	if err != nil {
		b.Fatal(err)
	}
	delta := tagbridge.Metadata{tagbridge.KeyTitle: "Other", tagbridge.KeyBPM: 128}

	b.ReportAllocs()
	for b.Loop() {
		if err := file.Update(delta); err != nil {
			b.Fatal(err)
		}
	}
}
