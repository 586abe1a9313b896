package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/codalotl/fileedit/internal/textfile"
	"golang.org/x/term"
)

const (
	ansiHighlight = "\x1b[1;31m"
	ansiReset     = "\x1b[0m"
)

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// printDisplayLines writes a display stream in grep's format: ':' after
// matching line numbers, '-' after context, a bare '--' for elided spans.
// When color is on, match spans are highlighted.
func printDisplayLines(w io.Writer, lines []textfile.RenderedLine, color bool) {
	for _, l := range lines {
		switch l.Kind {
		case textfile.LineKindGap:
			fmt.Fprintln(w, "--")
		case textfile.LineKindContext:
			fmt.Fprintf(w, "%d-%s\n", l.Num, l.Text)
		case textfile.LineKindMatch:
			text := l.Text
			if color {
				text = highlightSpans(text, l.Spans)
			}
			fmt.Fprintf(w, "%d:%s\n", l.Num, text)
		default:
			fmt.Fprintf(w, "%d:%s\n", l.Num, l.Text)
		}
	}
}

// highlightSpans wraps each span of text in ANSI highlight codes. Spans are
// byte offsets, ascending and non-overlapping.
func highlightSpans(text string, spans []textfile.Span) string {
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	prev := 0
	for _, s := range spans {
		if s.Start < prev || s.End > len(text) {
			continue
		}
		b.WriteString(text[prev:s.Start])
		b.WriteString(ansiHighlight)
		b.WriteString(text[s.Start:s.End])
		b.WriteString(ansiReset)
		prev = s.End
	}
	b.WriteString(text[prev:])
	return b.String()
}

// printNotices writes recoverable warnings to stderr so stdout stays clean
// for piping.
func printNotices(notices []string) {
	for _, n := range notices {
		fmt.Fprintf(os.Stderr, "fileedit: %s\n", n)
	}
}

func printEditResult(res *textfile.EditResult) {
	fmt.Println(res.Summary)
	if res.BackupPath != "" {
		fmt.Printf("backup: %s\n", res.BackupPath)
	}
	printNotices(res.Notices)
	if res.DiffPreview != "" {
		fmt.Println()
		fmt.Println(res.DiffPreview)
	}
}
