package cli

import (
	"fmt"

	"github.com/codalotl/fileedit/internal/textfile"
	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	var (
		rng      rangeFlags
		match    matchFlags
		encoding string
		noBackup bool
	)
	cmd := &cobra.Command{
		Use:   "remove PATH",
		Short: "Remove lines by range, by pattern, or both",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineRange, err := rng.parse()
			if err != nil {
				return err
			}
			if !match.given() && lineRange == (textfile.LineRange{}) {
				return fmt.Errorf("--range or a match pattern is required")
			}
			opts := textfile.RemoveOptions{
				Range:    lineRange,
				Encoding: encoding,
				Backup:   !noBackup,
			}
			if match.given() {
				spec, err := match.spec()
				if err != nil {
					return err
				}
				opts.Match = spec
			}
			res, err := textfile.RemoveLines(args[0], opts)
			if err != nil {
				return err
			}
			printEditResult(res)
			return nil
		},
	}
	rng.register(cmd)
	match.register(cmd)
	registerEncodingFlag(cmd, &encoding)
	registerBackupFlag(cmd, &noBackup)
	return cmd
}
