package textfile

import (
	"regexp"
	"strings"
)

// Span is a half-open byte range [Start, End) into a line's decoded text,
// used for highlighting.
type Span struct {
	Start int
	End   int
}

type matchKind int

const (
	matchLiteral matchKind = iota
	matchRegex
)

// MatchSpec is the tagged match predicate: a plain literal (optionally
// spanning newlines) or a regex. Variants are mutually exclusive; each owns
// its precompiled matcher state, built once per call and reused per line.
type MatchSpec struct {
	kind      matchKind
	literal   string // newline-normalized for multiline literals
	multiline bool
	re        *regexp.Regexp
}

// Literal returns a MatchSpec matching text as a plain substring, with no
// escaping. With allowMultiline, text may span newlines; newline sequences in
// both the search text and the haystack are normalized to LF before comparing.
func Literal(text string, allowMultiline bool) (MatchSpec, error) {
	if text == "" {
		return MatchSpec{}, malformedPatternError("search text is empty")
	}
	norm := normalizeNewlines(text)
	if !allowMultiline && strings.Contains(norm, "\n") {
		return MatchSpec{}, malformedPatternError("search text spans lines; multiline matching not enabled")
	}
	return MatchSpec{kind: matchLiteral, literal: norm, multiline: allowMultiline && strings.Contains(norm, "\n")}, nil
}

// Regex returns a MatchSpec for pattern, compiled once. Patterns that match
// the empty string are rejected here; patterns that only produce zero-length
// matches at input boundaries (\b and friends) can't be caught statically and
// are rejected by Evaluate instead. A zero-length match is never applied and
// never silently skipped.
func Regex(pattern string) (MatchSpec, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return MatchSpec{}, malformedPatternError("%v", err)
	}
	if loc := re.FindStringIndex(""); loc != nil {
		return MatchSpec{}, malformedPatternError("pattern %q can match zero-length text", pattern)
	}
	return MatchSpec{kind: matchRegex, re: re}, nil
}

// IsMultiline reports whether matching operates on windows spanning physical
// lines instead of per-line.
func (m MatchSpec) IsMultiline() bool {
	return m.multiline
}

// isZero reports whether m is the zero MatchSpec (no predicate supplied).
func (m MatchSpec) isZero() bool {
	return m.kind == matchLiteral && m.literal == ""
}

// Evaluate returns the ordered, non-overlapping match spans within a single
// line, plus the interest flag. A regex producing a zero-length span is
// ErrMalformedPattern: such a match must never be applied, and skipping it
// would hide the problem. Multiline specs never match through Evaluate; they
// are driven through a multilineTracker.
func (m MatchSpec) Evaluate(line string) ([]Span, bool, error) {
	switch m.kind {
	case matchRegex:
		locs := m.re.FindAllStringIndex(line, -1)
		if len(locs) == 0 {
			return nil, false, nil
		}
		spans := make([]Span, 0, len(locs))
		for _, loc := range locs {
			if loc[0] == loc[1] {
				return nil, false, malformedPatternError("pattern %q matched zero-length text", m.re.String())
			}
			spans = append(spans, Span{Start: loc[0], End: loc[1]})
		}
		return spans, true, nil
	default:
		if m.multiline {
			return nil, false, nil
		}
		spans, ok := literalSpans(line, m.literal)
		return spans, ok, nil
	}
}

func literalSpans(haystack, needle string) ([]Span, bool) {
	if needle == "" {
		return nil, false
	}
	var spans []Span
	off := 0
	for {
		i := strings.Index(haystack[off:], needle)
		if i < 0 {
			break
		}
		start := off + i
		spans = append(spans, Span{Start: start, End: start + len(needle)})
		off = start + len(needle)
	}
	return spans, len(spans) > 0
}

// normalizeNewlines canonicalizes CRLF and lone CR to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// classifiedLine is a line annotated with its match classification.
type classifiedLine struct {
	line        Line
	spans       []Span
	interesting bool
}

// multilineTracker resolves multiline literal matches back to per-line
// classifications using a bounded window: a needle spanning K newlines can
// cover at most K+1 physical lines, so only the last K+1 lines stay buffered.
type multilineTracker struct {
	needle      string
	needleLines int // number of newlines in the needle
	window      []classifiedLine
	baseOffset  int // absolute offset of window[0] in the normalized stream
	consumed    int // absolute offset one past the last accepted match
}

func newMultilineTracker(m MatchSpec) *multilineTracker {
	return &multilineTracker{
		needle:      m.literal,
		needleLines: strings.Count(m.literal, "\n"),
	}
}

// Feed pushes the next line into the window and returns any lines whose
// classification is final (they can no longer participate in a new match).
func (t *multilineTracker) Feed(line Line) []classifiedLine {
	t.window = append(t.window, classifiedLine{line: line})
	t.mark()
	if len(t.window) <= t.needleLines {
		return nil
	}
	n := len(t.window) - t.needleLines
	out := make([]classifiedLine, n)
	copy(out, t.window[:n])
	for _, cl := range out {
		t.baseOffset += len(cl.line.Text) + 1
	}
	t.window = append(t.window[:0], t.window[n:]...)
	return out
}

// Flush returns the remaining buffered lines at end of stream.
func (t *multilineTracker) Flush() []classifiedLine {
	out := t.window
	t.window = nil
	return out
}

// mark finds needle occurrences in the joined window and stamps covered lines
// with interest and per-line highlight spans.
func (t *multilineTracker) mark() {
	texts := make([]string, len(t.window))
	starts := make([]int, len(t.window)) // byte offset of each line in the joined text
	off := 0
	for i := range t.window {
		texts[i] = t.window[i].line.Text
		starts[i] = off
		off += len(texts[i]) + 1
	}
	joined := strings.Join(texts, "\n")

	// Resume past text already claimed by an earlier match so overlapping
	// window rescans can't double-count.
	pos := 0
	if c := t.consumed - t.baseOffset; c > pos {
		pos = c
	}
	if pos > len(joined) {
		return
	}
	for {
		i := strings.Index(joined[pos:], t.needle)
		if i < 0 {
			return
		}
		start := pos + i
		end := start + len(t.needle)
		t.stampRange(starts, start, end)
		t.consumed = t.baseOffset + end
		pos = end
	}
}

// stampRange marks every window line overlapping joined-offset range
// [start, end) as interesting, clipping the highlight span to each line.
func (t *multilineTracker) stampRange(starts []int, start, end int) {
	for i := range t.window {
		lineStart := starts[i]
		lineEnd := lineStart + len(t.window[i].line.Text)
		if lineEnd < start || lineStart >= end {
			continue
		}
		s := max(start, lineStart) - lineStart
		e := min(end, lineEnd) - lineStart
		if e < s {
			continue
		}
		t.window[i].interesting = true
		t.window[i].spans = appendSpan(t.window[i].spans, Span{Start: s, End: e})
	}
}

// appendSpan adds sp keeping spans ordered and non-overlapping.
func appendSpan(spans []Span, sp Span) []Span {
	if n := len(spans); n > 0 && spans[n-1].End >= sp.Start {
		if sp.End > spans[n-1].End {
			spans[n-1].End = sp.End
		}
		return spans
	}
	return append(spans, sp)
}
