package cli

import (
	"fmt"

	"github.com/codalotl/fileedit/internal/textfile"
	"github.com/spf13/cobra"
)

func newSubCmd() *cobra.Command {
	var (
		rng         rangeFlags
		match       matchFlags
		replacement string
		encoding    string
		noBackup    bool
	)
	cmd := &cobra.Command{
		Use:   "sub PATH",
		Short: "Replace every occurrence of a pattern",
		Long:  "Replace every occurrence of a literal or regex pattern. The replacement is inserted literally (no $1-style expansion); a \\n in it splits the result into multiple lines.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !match.given() {
				return fmt.Errorf("one of --match or --regex is required")
			}
			spec, err := match.spec()
			if err != nil {
				return err
			}
			lineRange, err := rng.parse()
			if err != nil {
				return err
			}
			res, err := textfile.FindAndReplace(args[0], textfile.FindReplaceOptions{
				Match:       spec,
				Replacement: replacement,
				Range:       lineRange,
				Encoding:    encoding,
				Backup:      !noBackup,
			})
			if err != nil {
				return err
			}
			printEditResult(res)
			return nil
		},
	}
	rng.register(cmd)
	match.register(cmd)
	cmd.Flags().StringVarP(&replacement, "with", "w", "", "replacement text; empty deletes the matched text")
	registerEncodingFlag(cmd, &encoding)
	registerBackupFlag(cmd, &noBackup)
	return cmd
}
