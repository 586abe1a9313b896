package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/codalotl/fileedit/internal/textfile"
	"github.com/spf13/cobra"
)

func newInsertCmd() *cobra.Command {
	var (
		atLine   int
		content  string
		encoding string
		noBackup bool
	)
	cmd := &cobra.Command{
		Use:   "insert PATH",
		Short: "Insert lines before a given line, or append at the end",
		Long:  "Insert lines into a file so that the first inserted line becomes line --at (1-based); --at 0 appends. Content comes from --content, or from stdin when the flag is omitted. A missing file is created.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("content") {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				content = strings.TrimSuffix(string(data), "\n")
			}
			res, err := textfile.InsertLines(args[0], textfile.InsertOptions{
				AtLine:   atLine,
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
	cmd.Flags().IntVar(&atLine, "at", 0, "line the inserted content starts at (1-based); 0 appends")
	cmd.Flags().StringVarP(&content, "content", "c", "", "lines to insert (default: read from stdin)")
	registerEncodingFlag(cmd, &encoding)
	registerBackupFlag(cmd, &noBackup)
	return cmd
}

// contentArg converts a content flag into physical lines; empty means no
// content rather than one empty line.
func contentArg(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
