package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/codalotl/fileedit/internal/textfile"
	"github.com/spf13/cobra"
)

// rangeFlags holds the shared --range flag, parsed lazily so commands can
// report flag errors through RunE.
type rangeFlags struct {
	raw string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.raw, "range", "r", "", `line range: "N", "N:M", or "N:" for N through end`)
}

// parse turns the flag text into a LineRange. "" yields the zero range,
// which downstream code treats as whole-file.
func (f *rangeFlags) parse() (textfile.LineRange, error) {
	s := strings.TrimSpace(f.raw)
	if s == "" {
		return textfile.LineRange{}, nil
	}
	start, end, found := strings.Cut(s, ":")
	first, err := strconv.Atoi(start)
	if err != nil {
		return textfile.LineRange{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	if !found {
		return textfile.LineRange{Start: first, End: first}, nil
	}
	if strings.TrimSpace(end) == "" {
		return textfile.LineRange{Start: first, End: 0}, nil
	}
	last, err := strconv.Atoi(end)
	if err != nil {
		return textfile.LineRange{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	return textfile.LineRange{Start: first, End: last}, nil
}

// matchFlags holds the shared --match/--regex/--multiline flags.
type matchFlags struct {
	match     string
	regex     string
	multiline bool
}

func (f *matchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.match, "match", "m", "", "literal text to match")
	cmd.Flags().StringVarP(&f.regex, "regex", "e", "", "regular expression to match (RE2)")
	cmd.Flags().BoolVar(&f.multiline, "multiline", false, "allow a literal match to span line boundaries")
}

func (f *matchFlags) given() bool {
	return f.match != "" || f.regex != ""
}

func (f *matchFlags) spec() (textfile.MatchSpec, error) {
	if f.match != "" && f.regex != "" {
		return textfile.MatchSpec{}, fmt.Errorf("--match and --regex are mutually exclusive")
	}
	if f.regex != "" {
		return textfile.Regex(f.regex)
	}
	return textfile.Literal(f.match, f.multiline)
}

func registerEncodingFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVar(dst, "encoding", "", "pin the file encoding instead of detecting it (ascii, utf-8, utf-8-bom, utf-16le, utf-16be, windows-1252)")
}

func registerBackupFlag(cmd *cobra.Command, noBackup *bool) {
	cmd.Flags().BoolVar(noBackup, "no-backup", false, "skip the timestamped .bak copy of the original")
}
