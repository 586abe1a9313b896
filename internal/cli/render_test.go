package cli

import (
	"strings"
	"testing"

	"github.com/codalotl/fileedit/internal/textfile"
	"github.com/stretchr/testify/assert"
)

func TestHighlightSpans(t *testing.T) {
	got := highlightSpans("say hit twice: hit", []textfile.Span{{Start: 4, End: 7}, {Start: 15, End: 18}})
	want := "say " + ansiHighlight + "hit" + ansiReset + " twice: " + ansiHighlight + "hit" + ansiReset
	assert.Equal(t, want, got)

	assert.Equal(t, "plain", highlightSpans("plain", nil))
}

func TestPrintDisplayLines(t *testing.T) {
	lines := []textfile.RenderedLine{
		{Num: 2, Text: "before", Kind: textfile.LineKindContext},
		{Num: 3, Text: "the hit", Kind: textfile.LineKindMatch, Spans: []textfile.Span{{Start: 4, End: 7}}},
		{Kind: textfile.LineKindGap},
		{Num: 9, Text: "tail", Kind: textfile.LineKindText},
	}

	var b strings.Builder
	printDisplayLines(&b, lines, false)
	assert.Equal(t, "2-before\n3:the hit\n--\n9:tail\n", b.String())

	b.Reset()
	printDisplayLines(&b, lines, true)
	assert.Contains(t, b.String(), ansiHighlight+"hit"+ansiReset)
}
