// Package commands implements the tagbridge command tree.
package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simonhull/tagbridge"
	"github.com/simonhull/tagbridge/internal/config"
)

var (
	colorInfo    = color.New(color.FgCyan)
	colorSuccess = color.New(color.FgGreen)
	colorWarning = color.New(color.FgYellow)
	colorError   = color.New(color.FgRed)
	colorHeader  = color.New(color.FgBlue, color.Bold)
)

// app is shared by every subcommand.
type app struct {
	configPath   string
	ratingMax    int
	id3v2Version int
	priority     []string
	strict       bool
	verbose      bool

	log zerolog.Logger
}

// NewRootCommand creates the tagbridge command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:          "tagbridge",
		Short:        "Read and write audio tags through one key space.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.log = newLogger(cmd.ErrOrStderr(), a.verbose)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: ~/.config/tagbridge/config.toml, then ./tagbridge.toml)")
	flags.IntVar(&a.ratingMax, "rating-max", 0, "Normalized rating scale, 0 for raw values")
	flags.IntVar(&a.id3v2Version, "id3v2-version", 4, "ID3v2 major version to write (3 or 4)")
	flags.StringSliceVar(&a.priority, "priority", nil, "Metadata formats to consult first, comma-separated (e.g. id3v1,id3v2)")
	flags.BoolVar(&a.strict, "strict", false, "Treat read warnings as errors")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newReadCommand(a),
		newGetCommand(a),
		newWriteCommand(a),
		newDeleteCommand(a),
		newDumpCommand(a),
		newVersionCommand(),
	)

	return cmd
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// openOptions merges the config files with the flags the user set
// explicitly; flags win.
func (a *app) openOptions(cmd *cobra.Command) ([]tagbridge.Option, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFile(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("rating-max") {
		cfg.RatingMax = a.ratingMax
	}
	if flags.Changed("id3v2-version") || cfg.ID3v2Version == 0 {
		cfg.ID3v2Version = a.id3v2Version
	}
	if flags.Changed("priority") {
		cfg.FormatPriority = a.priority
	}
	if flags.Changed("strict") {
		cfg.Strict = a.strict
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	priority, err := cfg.Formats()
	if err != nil {
		return nil, err
	}
	a.log.Debug().
		Int("rating_max", cfg.RatingMax).
		Int("id3v2_version", cfg.ID3v2Version).
		Strs("format_priority", cfg.FormatPriority).
		Bool("strict", cfg.Strict).
		Msg("resolved configuration")

	opts := []tagbridge.Option{
		tagbridge.WithID3v2Version(cfg.ID3v2Version),
		tagbridge.WithFormatPriority(priority...),
	}
	if cfg.RatingMax > 0 {
		opts = append(opts, tagbridge.WithNormalizedRatingMax(cfg.RatingMax))
	}
	if cfg.Strict {
		opts = append(opts, tagbridge.WithStrictParsing())
	}
	return opts, nil
}

func (a *app) logWarnings(file *tagbridge.File) {
	for _, w := range file.Warnings {
		ev := a.log.Warn().Str("file", file.Path).Str("stage", w.Stage)
		if w.Offset > 0 {
			ev = ev.Int64("offset", w.Offset)
		}
		ev.Msg(w.Message)
	}
}

func parseFormat(name string) (tagbridge.MetadataFormat, error) {
	f, ok := tagbridge.ParseMetadataFormat(name)
	if !ok {
		return tagbridge.FormatUnknown, &tagbridge.ConfigurationError{Option: "format", Reason: fmt.Sprintf("unknown format %q", name)}
	}
	return f, nil
}
