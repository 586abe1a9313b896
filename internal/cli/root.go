// Package cli implements the fileedit command line interface: one
// subcommand per file operation, sharing the range/match/encoding flag
// vocabulary of the tool layer.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func Execute() error {
	root := &cobra.Command{
		Use:           "fileedit",
		Short:         "View, search, and edit text files line by line",
		Long:          "Fileedit: Streaming line-oriented viewing, searching, and editing of text files, preserving each file's encoding and newline conventions.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newViewCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newInsertCmd())
	root.AddCommand(newReplaceCmd())
	root.AddCommand(newSubCmd())
	root.AddCommand(newRemoveCmd())

	if err := root.Execute(); err != nil {
		return fmt.Errorf("fileedit: %w", err)
	}
	return nil
}
