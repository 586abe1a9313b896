package textfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/codalotl/fileedit/internal/diffpreview"
)

// Preview capture limits: the old region of an edit is sampled with a bounded
// head plus fixed-size tail ring, so previews stay small for arbitrarily large
// edits.
const (
	previewHeadLines = 20
	previewTailSlots = 20
)

// EditResult is the outcome of a mutating call. Summary is a concise
// human-readable sentence; the structured fields carry the same facts for
// callers that parse outcomes programmatically.
type EditResult struct {
	// LinesAffected counts source lines visited inside the edited region. It
	// is always counted during the pass, never derived arithmetically from a
	// possibly-sentinel range end.
	LinesAffected int

	// Replacements counts find-and-replace occurrences; zero for other ops.
	Replacements int

	// NetLineDelta is output lines minus input lines.
	NetLineDelta int

	// Changed is false for zero-effect calls, where the swap was skipped
	// entirely and the original file is byte-for-byte untouched.
	Changed bool

	BackupPath  string
	Summary     string
	Notices     []string
	DiffPreview string
	Metadata    FileMetadata
}

// InsertOptions configures InsertLines. AtLine of 0 means append; a
// nonexistent target file is created.
type InsertOptions struct {
	AtLine   int
	Content  []string
	Encoding string
	Backup   bool
}

// ReplaceOptions configures ReplaceLines. A zero Range means whole-file
// replace; empty Content deletes the range.
type ReplaceOptions struct {
	Range    LineRange
	Content  []string
	Encoding string
	Backup   bool
}

// RemoveOptions configures RemoveLines. Range and Match AND together when
// both are given; at least one is required.
type RemoveOptions struct {
	Range    LineRange
	Match    MatchSpec
	Encoding string
	Backup   bool
}

// FindReplaceOptions configures FindAndReplace. An empty Replacement deletes
// the matched text.
type FindReplaceOptions struct {
	Match       MatchSpec
	Replacement string
	Range       LineRange
	Encoding    string
	Backup      bool
}

// InsertLines inserts content so that its first line becomes line AtLine,
// appending when AtLine is 0. A nonexistent path is created; combined with
// AtLine > 1 that is a recoverable warning, not an error.
func InsertLines(path string, opts InsertOptions) (*EditResult, error) {
	if opts.AtLine < 0 {
		return nil, invalidRangeError("insert line %d is below 1", opts.AtLine)
	}
	content := splitContentLines(opts.Content)
	res := &EditResult{}

	if len(content) == 0 {
		res.Summary = "Inserted 0 line(s)"
		res.Notices = append(res.Notices, "no content supplied; file unchanged")
		return res, nil
	}

	f, meta, err := openForEdit(path, opts.Encoding, false)
	if err != nil {
		return nil, err
	}
	creating := f == nil
	if f != nil {
		defer f.Close()
	}

	meta, upgradeNotice, err := applyEncodingUpgrade(meta, content)
	if err != nil {
		return nil, err
	}
	if upgradeNotice != "" {
		res.Notices = append(res.Notices, upgradeNotice)
	}
	if creating && opts.AtLine > 1 {
		res.Notices = append(res.Notices, fmt.Sprintf("%s does not exist; creating it with content from line 1", path))
	}

	w, err := newAtomicWriter(path, meta)
	if err != nil {
		return nil, err
	}
	defer w.Abort()

	inserted := false
	sourceLines := 0
	insertedAt := 1
	if !creating {
		reader := NewLineReader(f, meta)
		finalTerminated := meta.HasTrailingNewline
		for {
			line, ok := reader.Next()
			if !ok {
				break
			}
			finalTerminated = line.HasTerminator
			if !inserted && line.Num == opts.AtLine {
				for _, c := range content {
					if err := w.PushLine(c); err != nil {
						return nil, err
					}
				}
				inserted = true
				insertedAt = opts.AtLine
			}
			if err := w.PushLine(line.Text); err != nil {
				return nil, err
			}
		}
		if err := reader.Err(); err != nil {
			return nil, err
		}
		w.SetTrailingNewline(finalTerminated)
		sourceLines = reader.LinesRead()
	}
	if !inserted {
		if !creating && opts.AtLine > sourceLines+1 {
			return nil, invalidRangeError("insert line %d exceeds file length %d", opts.AtLine, sourceLines)
		}
		for _, c := range content {
			if err := w.PushLine(c); err != nil {
				return nil, err
			}
		}
		insertedAt = sourceLines + 1
	}

	backupPath, err := w.Commit(opts.Backup)
	if err != nil {
		return nil, err
	}

	res.LinesAffected = len(content)
	res.NetLineDelta = len(content)
	res.Changed = true
	res.BackupPath = backupPath
	res.Metadata = meta
	res.DiffPreview = diffpreview.Render(nil, previewSample(content))
	if opts.AtLine == 0 || insertedAt == sourceLines+1 {
		res.Summary = fmt.Sprintf("Inserted %d line(s) at end of file", len(content))
	} else {
		res.Summary = fmt.Sprintf("Inserted %d line(s) at line %d", len(content), insertedAt)
	}
	return res, nil
}

// ReplaceLines substitutes the lines of a range with content. The number of
// new lines may differ from the range length, growing or shrinking the file.
func ReplaceLines(path string, opts ReplaceOptions) (*EditResult, error) {
	rng := normRange(opts.Range)
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	content := splitContentLines(opts.Content)
	res := &EditResult{}

	f, meta, err := openForEdit(path, opts.Encoding, true)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta, upgradeNotice, err := applyEncodingUpgrade(meta, content)
	if err != nil {
		return nil, err
	}
	if upgradeNotice != "" {
		res.Notices = append(res.Notices, upgradeNotice)
	}

	w, err := newAtomicWriter(path, meta)
	if err != nil {
		return nil, err
	}
	defer w.Abort()

	old := newLineSampler(previewHeadLines, previewTailSlots)
	visited := 0
	wrote := false
	writeContent := func() error {
		for _, c := range content {
			if err := w.PushLine(c); err != nil {
				return err
			}
		}
		wrote = true
		return nil
	}

	reader := NewLineReader(f, meta)
	finalTerminated := meta.HasTrailingNewline
	for {
		line, ok := reader.Next()
		if !ok {
			break
		}
		finalTerminated = line.HasTerminator
		if rng.Contains(line.Num) {
			if !wrote {
				if err := writeContent(); err != nil {
					return nil, err
				}
			}
			visited++
			old.push(line)
			continue
		}
		if err := w.PushLine(line.Text); err != nil {
			return nil, err
		}
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	w.SetTrailingNewline(finalTerminated)
	total := reader.LinesRead()

	if visited == 0 {
		if rng.Start == 1 && rng.ToEnd() {
			// Whole-file replace of an empty file.
			if err := writeContent(); err != nil {
				return nil, err
			}
		} else {
			return nil, invalidRangeError("start %d exceeds file length %d", rng.Start, total)
		}
	}
	if !rng.ToEnd() && rng.End > total {
		res.Notices = append(res.Notices, fmt.Sprintf("range end %d exceeds file length %d; clamped", rng.End, total))
	}

	backupPath, err := w.Commit(opts.Backup)
	if err != nil {
		return nil, err
	}

	res.LinesAffected = visited
	res.NetLineDelta = len(content) - visited
	res.Changed = true
	res.BackupPath = backupPath
	res.Metadata = meta
	res.DiffPreview = diffpreview.Render(samplerTexts(old), previewSample(content))
	if len(content) == 0 {
		res.Summary = fmt.Sprintf("Deleted %d line(s)", visited)
	} else {
		res.Summary = fmt.Sprintf("Replaced %d line(s) with %d line(s) (net: %+d)", visited, len(content), res.NetLineDelta)
	}
	return res, nil
}

// RemoveLines deletes the lines selected by range and/or match spec; when both
// are given they AND together. Zero matched lines is not an error: the call
// reports zero effect and skips the swap entirely.
func RemoveLines(path string, opts RemoveOptions) (*EditResult, error) {
	hasMatch := !opts.Match.isZero()
	if opts.Range == (LineRange{}) && !hasMatch {
		return nil, conflictingOptionsError("removeLines requires a range or a match spec")
	}
	rng := normRange(opts.Range)
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	res := &EditResult{}

	f, meta, err := openForEdit(path, opts.Encoding, true)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	w, err := newAtomicWriter(path, meta)
	if err != nil {
		return nil, err
	}
	defer w.Abort()

	old := newLineSampler(previewHeadLines, previewTailSlots)
	removed := 0
	visited := 0

	var tracker *multilineTracker
	if hasMatch && opts.Match.IsMultiline() {
		tracker = newMultilineTracker(opts.Match)
	}

	handleResolved := func(cl classifiedLine) error {
		if cl.interesting {
			removed++
			old.push(cl.line)
			return nil
		}
		return w.PushLine(cl.line.Text)
	}

	reader := NewLineReader(f, meta)
	finalTerminated := meta.HasTrailingNewline
	for {
		line, ok := reader.Next()
		if !ok {
			break
		}
		finalTerminated = line.HasTerminator
		if !rng.Contains(line.Num) {
			// Leaving the range: matches can't span out of it.
			if tracker != nil {
				for _, cl := range tracker.Flush() {
					if err := handleResolved(cl); err != nil {
						return nil, err
					}
				}
			}
			if err := w.PushLine(line.Text); err != nil {
				return nil, err
			}
			continue
		}
		visited++
		switch {
		case tracker != nil:
			for _, cl := range tracker.Feed(line) {
				if err := handleResolved(cl); err != nil {
					return nil, err
				}
			}
		case hasMatch:
			_, interesting, err := opts.Match.Evaluate(line.Text)
			if err != nil {
				return nil, err
			}
			if err := handleResolved(classifiedLine{line: line, interesting: interesting}); err != nil {
				return nil, err
			}
		default:
			if err := handleResolved(classifiedLine{line: line, interesting: true}); err != nil {
				return nil, err
			}
		}
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	if tracker != nil {
		for _, cl := range tracker.Flush() {
			if err := handleResolved(cl); err != nil {
				return nil, err
			}
		}
	}
	w.SetTrailingNewline(finalTerminated)
	total := reader.LinesRead()

	if visited == 0 && !(rng.Start == 1 && rng.ToEnd()) {
		return nil, invalidRangeError("start %d exceeds file length %d", rng.Start, total)
	}
	if !rng.ToEnd() && rng.End > total {
		res.Notices = append(res.Notices, fmt.Sprintf("range end %d exceeds file length %d; clamped", rng.End, total))
	}

	res.LinesAffected = removed
	res.NetLineDelta = -removed
	res.Metadata = meta
	res.Summary = fmt.Sprintf("Removed %d line(s)", removed)

	if removed == 0 {
		res.Notices = append(res.Notices, "no lines matched; file unchanged")
		return res, nil // swap skipped; defer aborts the temp file
	}

	backupPath, err := w.Commit(opts.Backup)
	if err != nil {
		return nil, err
	}
	res.Changed = true
	res.BackupPath = backupPath
	res.DiffPreview = diffpreview.Render(samplerTexts(old), nil)
	return res, nil
}

// FindAndReplace substitutes every occurrence of the match spec inside the
// (optional) range with replacement. An empty replacement deletes the matched
// text. Zero occurrences is a zero-effect call, not an error.
func FindAndReplace(path string, opts FindReplaceOptions) (*EditResult, error) {
	if opts.Match.isZero() {
		return nil, conflictingOptionsError("findAndReplace requires a match spec")
	}
	rng := normRange(opts.Range)
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	replacement := normalizeNewlines(opts.Replacement)
	res := &EditResult{}

	f, meta, err := openForEdit(path, opts.Encoding, true)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta, upgradeNotice, err := applyEncodingUpgrade(meta, []string{replacement})
	if err != nil {
		return nil, err
	}
	if upgradeNotice != "" {
		res.Notices = append(res.Notices, upgradeNotice)
	}

	w, err := newAtomicWriter(path, meta)
	if err != nil {
		return nil, err
	}
	defer w.Abort()

	oldSample := newLineSampler(previewHeadLines, previewTailSlots)
	newSample := newLineSampler(previewHeadLines, previewTailSlots)
	replacements := 0
	linesChanged := 0
	visited := 0

	var replacer *multilineReplacer
	if opts.Match.IsMultiline() {
		replacer = newMultilineReplacer(opts.Match, replacement)
	}

	flushReplacer := func() error {
		if replacer == nil {
			return nil
		}
		for _, out := range replacer.Flush() {
			if err := w.PushLine(out); err != nil {
				return err
			}
		}
		return nil
	}

	reader := NewLineReader(f, meta)
	finalTerminated := meta.HasTrailingNewline
	for {
		line, ok := reader.Next()
		if !ok {
			break
		}
		finalTerminated = line.HasTerminator
		if !rng.Contains(line.Num) {
			if err := flushReplacer(); err != nil {
				return nil, err
			}
			if err := w.PushLine(line.Text); err != nil {
				return nil, err
			}
			continue
		}
		visited++
		if replacer != nil {
			for _, out := range replacer.Feed(line.Text) {
				if err := w.PushLine(out); err != nil {
					return nil, err
				}
			}
			continue
		}
		spans, interesting, err := opts.Match.Evaluate(line.Text)
		if err != nil {
			return nil, err
		}
		if !interesting {
			if err := w.PushLine(line.Text); err != nil {
				return nil, err
			}
			continue
		}
		replacements += len(spans)
		linesChanged++
		oldSample.push(line)
		newText := spliceSpans(line.Text, spans, replacement)
		for _, out := range strings.Split(newText, "\n") {
			newSample.push(Line{Num: line.Num, Text: out})
			if err := w.PushLine(out); err != nil {
				return nil, err
			}
		}
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	if err := flushReplacer(); err != nil {
		return nil, err
	}
	w.SetTrailingNewline(finalTerminated)
	total := reader.LinesRead()

	if replacer != nil {
		replacements = replacer.replacements
		linesChanged = replacements * (strings.Count(opts.Match.literal, "\n") + 1)
	}

	if visited == 0 && !(rng.Start == 1 && rng.ToEnd()) {
		return nil, invalidRangeError("start %d exceeds file length %d", rng.Start, total)
	}
	if !rng.ToEnd() && rng.End > total {
		res.Notices = append(res.Notices, fmt.Sprintf("range end %d exceeds file length %d; clamped", rng.End, total))
	}

	res.Replacements = replacements
	res.LinesAffected = linesChanged
	res.NetLineDelta = w.LinesWritten() - total
	res.Metadata = meta
	res.Summary = fmt.Sprintf("Replaced %d occurrence(s) (net: %+d line(s))", replacements, res.NetLineDelta)

	if replacements == 0 {
		res.Notices = append(res.Notices, "no matches found; file unchanged")
		return res, nil // swap skipped; defer aborts the temp file
	}

	backupPath, err := w.Commit(opts.Backup)
	if err != nil {
		return nil, err
	}
	res.Changed = true
	res.BackupPath = backupPath
	if replacer != nil {
		res.DiffPreview = diffpreview.Render(strings.Split(opts.Match.literal, "\n"), strings.Split(replacement, "\n"))
	} else {
		res.DiffPreview = diffpreview.Render(samplerTexts(oldSample), samplerTexts(newSample))
	}
	return res, nil
}

// spliceSpans replaces each span of text with replacement. Spans are ordered
// and non-overlapping; the replacement is taken literally (no $-expansion).
func spliceSpans(text string, spans []Span, replacement string) string {
	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		b.WriteString(text[prev:sp.Start])
		b.WriteString(replacement)
		prev = sp.End
	}
	b.WriteString(text[prev:])
	return b.String()
}

// multilineReplacer performs streaming multi-line literal substitution with a
// bounded carry: a needle spanning K newlines can only reach K lines back, so
// at most K complete lines stay buffered.
type multilineReplacer struct {
	needle       string
	replacement  string
	keep         int // newlines in the needle
	buf          string
	hasBuf       bool
	consumed     int // offset past the last replacement; never rescanned
	replacements int
}

func newMultilineReplacer(m MatchSpec, replacement string) *multilineReplacer {
	return &multilineReplacer{
		needle:      m.literal,
		replacement: replacement,
		keep:        strings.Count(m.literal, "\n"),
	}
}

// Feed appends one source line and returns output lines that are final.
func (r *multilineReplacer) Feed(text string) []string {
	if r.hasBuf {
		r.buf += "\n" + text
	} else {
		r.buf = text
		r.hasBuf = true
	}
	r.scan()

	lines := strings.Split(r.buf, "\n")
	if len(lines) <= r.keep {
		return nil
	}
	flush := lines[:len(lines)-r.keep]
	rest := lines[len(lines)-r.keep:]
	flushed := 0
	for _, l := range flush {
		flushed += len(l) + 1
	}
	r.consumed -= flushed
	if r.consumed < 0 {
		r.consumed = 0
	}
	if r.keep == 0 {
		r.buf = ""
		r.hasBuf = false
	} else {
		r.buf = strings.Join(rest, "\n")
	}
	return flush
}

// Flush returns the remaining buffered lines at the end of the region.
func (r *multilineReplacer) Flush() []string {
	if !r.hasBuf {
		return nil
	}
	out := strings.Split(r.buf, "\n")
	r.buf = ""
	r.hasBuf = false
	r.consumed = 0
	return out
}

func (r *multilineReplacer) scan() {
	pos := r.consumed
	for {
		i := strings.Index(r.buf[pos:], r.needle)
		if i < 0 {
			return
		}
		start := pos + i
		r.buf = r.buf[:start] + r.replacement + r.buf[start+len(r.needle):]
		r.consumed = start + len(r.replacement)
		pos = r.consumed
		r.replacements++
	}
}

// openForEdit opens path for a mutating call. When the file doesn't exist and
// mustExist is false, it returns a nil file with create-default metadata.
func openForEdit(path, encodingName string, mustExist bool) (*os.File, FileMetadata, error) {
	pinned, err := ParseEncoding(encodingName)
	if err != nil {
		return nil, FileMetadata{}, err
	}
	f, err := openShared(path)
	if err != nil {
		if errors.Is(err, ErrNotFound) && !mustExist {
			return nil, defaultMetadata(pinned), nil
		}
		return nil, FileMetadata{}, err
	}
	meta, err := detectMetadataFromFile(f, pinned)
	if err != nil {
		f.Close()
		return nil, FileMetadata{}, err
	}
	return f, meta, nil
}

func normRange(r LineRange) LineRange {
	if r == (LineRange{}) {
		return WholeFile()
	}
	return r
}

// splitContentLines normalizes caller-supplied content: elements containing
// newline sequences are split into physical lines.
func splitContentLines(content []string) []string {
	out := make([]string, 0, len(content))
	for _, c := range content {
		out = append(out, strings.Split(normalizeNewlines(c), "\n")...)
	}
	return out
}

// previewSample bounds a content slice for diff previews.
func previewSample(lines []string) []string {
	if len(lines) <= previewHeadLines+previewTailSlots {
		return lines
	}
	out := append([]string{}, lines[:previewHeadLines]...)
	out = append(out, fmt.Sprintf("... (%d lines elided)", len(lines)-previewHeadLines-previewTailSlots))
	return append(out, lines[len(lines)-previewTailSlots:]...)
}

// samplerTexts renders a lineSampler's retained lines, marking any elision.
func samplerTexts(s *lineSampler) []string {
	var out []string
	for _, l := range s.Head() {
		out = append(out, l.Text)
	}
	if elided := s.Elided(); elided > 0 {
		out = append(out, fmt.Sprintf("... (%d lines elided)", elided))
	}
	for _, l := range s.Tail() {
		out = append(out, l.Text)
	}
	return out
}
