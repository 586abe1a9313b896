package uni

import (
	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

var cond = defaultCondition()

func defaultCondition() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	c.StrictEmojiNeutral = true
	return c
}

// TextWidth returns the text width of str for monospace fonts in terminals,
// assuming a non-East-Asian locale.
func TextWidth(str string) int {
	return cond.StringWidth(str)
}

// TruncateWidth shortens str to at most maxWidth columns, cutting on grapheme
// cluster boundaries so combined characters are never split, and appends tail
// (whose width counts against maxWidth) when anything was cut.
func TruncateWidth(str string, maxWidth int, tail string) string {
	if maxWidth <= 0 {
		return ""
	}
	if cond.StringWidth(str) <= maxWidth {
		return str
	}

	budget := maxWidth - cond.StringWidth(tail)
	if budget < 0 {
		budget = 0
	}

	width := 0
	end := 0
	iter := graphemes.FromString(str)
	for iter.Next() {
		w := cond.StringWidth(iter.Value())
		if width+w > budget {
			break
		}
		width += w
		end = iter.End()
	}
	return str[:end] + tail
}
