package cli

import (
	"fmt"

	"github.com/codalotl/fileedit/internal/textfile"
	"github.com/spf13/cobra"
)

func newReplaceCmd() *cobra.Command {
	var (
		rng      rangeFlags
		content  string
		encoding string
		noBackup bool
	)
	cmd := &cobra.Command{
		Use:   "replace PATH",
		Short: "Replace a line range with new content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineRange, err := rng.parse()
			if err != nil {
				return err
			}
			if lineRange == (textfile.LineRange{}) {
				return fmt.Errorf("--range is required")
			}
			res, err := textfile.ReplaceLines(args[0], textfile.ReplaceOptions{
				Range:    lineRange,
				Content:  contentArg(content),
				Encoding: encoding,
				Backup:   !noBackup,
			})
			if err != nil {
				return err
			}
			printEditResult(res)
			return nil
		},
	}
	rng.register(cmd)
	cmd.Flags().StringVarP(&content, "content", "c", "", "replacement lines; empty deletes the range")
	registerEncodingFlag(cmd, &encoding)
	registerBackupFlag(cmd, &noBackup)
	return cmd
}
