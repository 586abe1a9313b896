package cli

import (
	"fmt"
	"os"

	"github.com/codalotl/fileedit/internal/textfile"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var (
		rng        rangeFlags
		match      matchFlags
		context    int
		existsOnly bool
		encoding   string
	)
	cmd := &cobra.Command{
		Use:   "search PATH",
		Short: "Search a file for a pattern and print matching lines",
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
			opts := textfile.ShowOptions{
				Range:    lineRange,
				Match:    spec,
				Context:  context,
				Encoding: encoding,
			}
			if existsOnly {
				found, err := textfile.ContainsMatch(args[0], opts)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("no match found")
				}
				fmt.Println("match found")
				return nil
			}
			res, err := textfile.Show(args[0], opts)
			if err != nil {
				return err
			}
			if len(res.Lines) == 0 {
				return fmt.Errorf("no match found")
			}
			printDisplayLines(os.Stdout, res.Lines, stdoutIsTerminal())
			printNotices(res.Notices)
			return nil
		},
	}
	rng.register(cmd)
	match.register(cmd)
	cmd.Flags().IntVarP(&context, "context", "C", 0, "lines of context around each match (0-2)")
	cmd.Flags().BoolVar(&existsOnly, "exists-only", false, "report only whether the file contains a match")
	registerEncodingFlag(cmd, &encoding)
	return cmd
}
