// Command tagbridge reads and writes audio tags through the unified key space.
//
// Usage:
//
//	tagbridge read song.flac
//	tagbridge write song.mp3 --set ARTISTS="AC/DC//Queen" --set RATING=80 --rating-max 100
//	tagbridge dump song.wav
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/simonhull/tagbridge/cmd/tagbridge/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
