package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/tagbridge"
)

func newWriteCommand(a *app) *cobra.Command {
	var (
		sets          []string
		clears        []string
		target        string
		backup        string
		validate      bool
		preserveMTime bool
	)

	cmd := &cobra.Command{
		Use:   "write [file]",
		Short: "Update fields in one metadata format.",
		Long: `Update fields in one metadata format.

Values are parsed by key type: lists are split on NUL or the usual
separators ("//", ";", "/", ...), integers must be whole numbers. An empty
value removes the field, as does --clear.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := parseDelta(sets, clears)
			if err != nil {
				return err
			}
			if len(delta) == 0 {
				return fmt.Errorf("nothing to write: use --set KEY=VALUE or --clear KEY")
			}

			opts, err := a.openOptions(cmd)
			if err != nil {
				return err
			}
			file, err := tagbridge.Open(args[0], opts...)
			if err != nil {
				return err
			}

			var updateOpts []tagbridge.UpdateOption
			if target != "" {
				format, err := parseFormat(target)
				if err != nil {
					return err
				}
				updateOpts = append(updateOpts, tagbridge.WithTargetFormat(format))
			}
			if backup != "" {
				updateOpts = append(updateOpts, tagbridge.WithBackup(backup))
			}
			if validate {
				updateOpts = append(updateOpts, tagbridge.WithValidation())
			}
			if preserveMTime {
				updateOpts = append(updateOpts, tagbridge.WithPreserveModTime())
			}

			a.log.Debug().Str("file", file.Path).Int("fields", len(delta)).Msg("updating")
			if err := file.Update(delta, updateOpts...); err != nil {
				return err
			}
			colorSuccess.Fprintf(cmd.OutOrStdout(), "updated %d field(s) in %s\n", len(delta), file.Path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&sets, "set", nil, "Field to write as KEY=VALUE (repeatable)")
	flags.StringArrayVar(&clears, "clear", nil, "Field to remove (repeatable)")
	flags.StringVar(&target, "target", "", "Metadata format to write (default: the container's primary format)")
	flags.StringVar(&backup, "backup", "", "Copy the original to <file><suffix> before writing")
	flags.BoolVar(&validate, "validate", false, "Re-read the written fields and compare")
	flags.BoolVar(&preserveMTime, "preserve-mtime", false, "Keep the file's modification time")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [file] [format]",
		Short: "Remove the whole tag of one metadata format.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(args[1])
			if err != nil {
				return err
			}
			opts, err := a.openOptions(cmd)
			if err != nil {
				return err
			}
			file, err := tagbridge.Open(args[0], opts...)
			if err != nil {
				return err
			}
			if !file.Delete(format) {
				return fmt.Errorf("%s: could not delete %s tag", file.Path, format)
			}
			colorSuccess.Fprintf(cmd.OutOrStdout(), "deleted %s tag from %s\n", format, file.Path)
			return nil
		},
	}
}
