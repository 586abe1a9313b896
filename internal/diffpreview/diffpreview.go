// Package diffpreview renders compact line diffs for edit summaries. Inputs
// are already bounded by the caller; output is additionally capped so a
// preview never dominates a result payload.
package diffpreview

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// maxPreviewLines caps rendered preview output.
const maxPreviewLines = 80

// Render diffs oldLines against newLines and returns a -/+/space prefixed
// preview, empty when both sides are empty.
func Render(oldLines, newLines []string) string {
	if len(oldLines) == 0 && len(newLines) == 0 {
		return ""
	}

	oldText := joinLines(oldLines)
	newText := joinLines(newLines)

	dmp := diffmatchpatch.New()

	// Diff based on lines, mapping each distinct line to one rune.
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(rOld, rNew, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	decode := func(s string) []string {
		if s == "" {
			return nil
		}
		out := make([]string, 0, len(s))
		for _, r := range s {
			idx := int(r)
			if idx >= 0 && idx < len(lineArray) {
				out = append(out, strings.TrimSuffix(lineArray[idx], "\n"))
			}
		}
		return out
	}

	var b strings.Builder
	count := 0
	write := func(prefix string, lines []string) bool {
		for _, l := range lines {
			if count >= maxPreviewLines {
				b.WriteString("... (preview truncated)\n")
				return false
			}
			b.WriteString(prefix)
			b.WriteString(l)
			b.WriteByte('\n')
			count++
		}
		return true
	}

	for _, d := range diffs {
		lines := decode(d.Text)
		var ok bool
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			ok = write("-", lines)
		case diffmatchpatch.DiffInsert:
			ok = write("+", lines)
		default:
			ok = write(" ", lines)
		}
		if !ok {
			break
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
