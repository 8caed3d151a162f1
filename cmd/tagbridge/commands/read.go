package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/tagbridge"
)

func newReadCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read [files...]",
		Short: "Print the merged metadata of one or more files.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.openOptions(cmd)
			if err != nil {
				return err
			}

			a.log.Debug().Int("files", len(args)).Msg("reading")
			files, err := tagbridge.OpenMany(cmd.Context(), args, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, file := range files {
				if i > 0 {
					fmt.Fprintln(out)
				}
				// OpenMany has already populated the cache.
				md, err := file.UnifiedMetadata()
				if err != nil {
					return err
				}
				a.logWarnings(file)
				colorHeader.Fprintln(out, file.Path)
				printMetadata(out, md)
			}
			return nil
		},
	}
}

func newGetCommand(a *app) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "get [file] [key]",
		Short: "Print a single field.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.openOptions(cmd)
			if err != nil {
				return err
			}
			file, err := tagbridge.Open(args[0], opts...)
			if err != nil {
				return err
			}

			key := tagbridge.Key(strings.ToUpper(args[1]))
			var value any
			if from != "" {
				format, err := parseFormat(from)
				if err != nil {
					return err
				}
				value, err = file.UnifiedMetadataFieldFrom(format, key)
				if err != nil {
					return err
				}
			} else {
				value, err = file.UnifiedMetadataField(key)
				if err != nil {
					return err
				}
				a.logWarnings(file)
			}

			if value != nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Read from a single metadata format instead of the merged view")
	return cmd
}

func printMetadata(w io.Writer, md tagbridge.Metadata) {
	for _, key := range tagbridge.Keys() {
		value, ok := md[key]
		if !ok {
			continue
		}
		colorInfo.Fprintf(w, "  %-22s", key)
		fmt.Fprintln(w, formatValue(value))
	}
}

func formatValue(value any) string {
	if list, ok := value.([]string); ok {
		return strings.Join(list, "; ")
	}
	return fmt.Sprint(value)
}
