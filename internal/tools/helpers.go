package tools

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/codalotl/fileedit/internal/simplelogger"
	"github.com/codalotl/fileedit/internal/textfile"
	"github.com/codalotl/fileedit/internal/uni"
)

// maxRenderedLineWidth caps the display width of a single rendered line.
// Longer lines are cut on a grapheme boundary with a trailing ellipsis; the
// underlying file content is never truncated, only its rendering.
const maxRenderedLineWidth = 2000

func newToolErrorResult(call ToolCall, msg string, srcErr error) ToolResult {
	simplelogger.Log("tool %s failed: %s", call.Name, msg)
	res := NewErrorToolResult(msg, call)
	res.SourceErr = srcErr
	return res
}

// logCall traces a tool invocation when FILEEDIT_LOG_FILE is set.
func logCall(call ToolCall) {
	simplelogger.Log("tool call %s: %s", call.Name, call.Input)
}

// resolvePath makes a caller-supplied path absolute against the sandbox dir.
// The sandbox dir is a resolution root, not a jail: absolute paths outside it
// are accepted, since authorization belongs to the host.
func resolvePath(path, sandboxAbsDir string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path is required")
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	if !filepath.IsAbs(sandboxAbsDir) {
		return "", fmt.Errorf("sandbox directory must be absolute")
	}
	return filepath.Join(sandboxAbsDir, path), nil
}

// rangeParams are the shared first_line/last_line tool parameters.
// last_line accepts 0 or any negative value as "through the last line".
type rangeParams struct {
	FirstLine int `json:"first_line"`
	LastLine  int `json:"last_line"`
}

func (p rangeParams) lineRange() textfile.LineRange {
	if p.FirstLine == 0 && p.LastLine == 0 {
		return textfile.LineRange{}
	}
	return textfile.LineRange{Start: p.FirstLine, End: p.LastLine}
}

var rangeParameterDocs = map[string]any{
	"first_line": map[string]any{
		"type":        "integer",
		"description": "First line of the range (1-based). Omit with last_line for the whole file",
	},
	"last_line": map[string]any{
		"type":        "integer",
		"description": "Last line of the range (inclusive). 0 or negative means through the last line",
	},
}

// matchParams are the shared match-spec tool parameters. match and regex are
// mutually exclusive.
type matchParams struct {
	Match     string `json:"match"`
	Regex     string `json:"regex"`
	Multiline bool   `json:"multiline"`
}

func (p matchParams) given() bool {
	return p.Match != "" || p.Regex != ""
}

func (p matchParams) spec() (textfile.MatchSpec, error) {
	if p.Match != "" && p.Regex != "" {
		return textfile.MatchSpec{}, fmt.Errorf("match and regex are mutually exclusive")
	}
	if p.Regex != "" {
		return textfile.Regex(p.Regex)
	}
	return textfile.Literal(p.Match, p.Multiline)
}

var matchParameterDocs = map[string]any{
	"match": map[string]any{
		"type":        "string",
		"description": "Literal text to match (plain substring, no escaping). Mutually exclusive with regex",
	},
	"regex": map[string]any{
		"type":        "string",
		"description": "Regular expression to match (RE2 syntax). Mutually exclusive with match",
	},
	"multiline": map[string]any{
		"type":        "boolean",
		"description": "Allow a literal match to span line boundaries",
	},
}

var encodingParameterDoc = map[string]any{
	"type":        "string",
	"description": "Pin the file encoding (ascii, utf-8, utf-8-bom, utf-16le, utf-16be, windows-1252) instead of detecting it",
}

// backupEnabled interprets the optional backup parameter; backups are on
// unless the caller turns them off.
func backupEnabled(p *bool) bool {
	return p == nil || *p
}

// contentLines converts a content parameter into physical lines. An empty
// string means "no content", not one empty line.
func contentLines(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

var backupParameterDoc = map[string]any{
	"type":        "boolean",
	"description": "Write a timestamped .bak sibling of the file before modifying it",
}

// renderDisplayLines formats a display stream the way grep does: ':' separates
// matching lines, '-' separates context, '--' stands in for elided lines.
func renderDisplayLines(lines []textfile.RenderedLine) string {
	var b strings.Builder
	for _, l := range lines {
		switch l.Kind {
		case textfile.LineKindGap:
			b.WriteString("--\n")
		case textfile.LineKindMatch:
			fmt.Fprintf(&b, "%d:%s\n", l.Num, renderText(l.Text))
		case textfile.LineKindContext:
			fmt.Fprintf(&b, "%d-%s\n", l.Num, renderText(l.Text))
		default:
			fmt.Fprintf(&b, "%d:%s\n", l.Num, renderText(l.Text))
		}
	}
	return b.String()
}

func renderText(text string) string {
	return uni.TruncateWidth(text, maxRenderedLineWidth, "…")
}

// renderEditResult formats a mutating call's outcome for the LLM: the summary
// sentence, notices, and the bounded diff preview.
func renderEditResult(res *textfile.EditResult) string {
	var b strings.Builder
	b.WriteString(res.Summary)
	if res.BackupPath != "" {
		fmt.Fprintf(&b, "\nBackup written to %s", res.BackupPath)
	}
	for _, n := range res.Notices {
		fmt.Fprintf(&b, "\nNote: %s", n)
	}
	if res.DiffPreview != "" {
		fmt.Fprintf(&b, "\n\n%s", res.DiffPreview)
	}
	return b.String()
}
