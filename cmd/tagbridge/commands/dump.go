package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/simonhull/tagbridge"
)

func newDumpCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump [files...]",
		Short: "Print the raw tag table of every metadata format, keys as stored.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.openOptions(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var errs []error
			for i, path := range args {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if err := dumpFile(out, path, opts); err != nil {
					a.log.Error().Err(err).Str("file", path).Msg("dump failed")
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

func dumpFile(w io.Writer, path string, opts []tagbridge.Option) error {
	file, err := tagbridge.Open(path, opts...)
	if err != nil {
		return err
	}

	colorHeader.Fprintf(w, "%s", file.Path)
	fmt.Fprintf(w, " (%s, %s)\n", file.Container, humanize.Bytes(uint64(file.Size)))

	for _, format := range file.Formats() {
		colorInfo.Fprintf(w, "[%s]\n", format)

		m, err := file.Manager(format)
		if err != nil {
			colorError.Fprintf(w, "  %v\n", err)
			continue
		}
		raw, err := m.Raw()
		if err != nil {
			colorError.Fprintf(w, "  %v\n", err)
			continue
		}
		if vendor, ok, err := m.Vendor(); ok && err == nil && vendor != "" {
			fmt.Fprintf(w, "  vendor: %q\n", vendor)
		}
		if raw.Len() == 0 {
			colorWarning.Fprintln(w, "  (no tag)")
			continue
		}
		for key, values := range raw.All() {
			for _, v := range values {
				fmt.Fprintf(w, "  %s=%q\n", key, v)
			}
		}
	}
	return nil
}
