package cli

import (
	"os"

	"github.com/codalotl/fileedit/internal/textfile"
	"github.com/spf13/cobra"
)

func newViewCmd() *cobra.Command {
	var (
		rng      rangeFlags
		encoding string
	)
	cmd := &cobra.Command{
		Use:   "view PATH",
		Short: "Print a file (or a line range of it) with line numbers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineRange, err := rng.parse()
			if err != nil {
				return err
			}
			res, err := textfile.Show(args[0], textfile.ShowOptions{
				Range:    lineRange,
				Encoding: encoding,
			})
			if err != nil {
				return err
			}
			printDisplayLines(os.Stdout, res.Lines, false)
			printNotices(res.Notices)
			return nil
		},
	}
	rng.register(cmd)
	registerEncodingFlag(cmd, &encoding)
	return cmd
}
