package textfile

import (
	"fmt"
	"os"
)

// Show display limits. A plain range display renders at most showHeadLines
// leading lines plus a showTailSlots-deep ring of trailing lines; anything in
// between collapses to one gap marker. Both are deliberate tunables: they cap
// display output (and memory) for arbitrarily large ranges.
const (
	showHeadLines = 100
	showTailSlots = 100
)

// ShowOptions configures a Show or ContainsMatch call. The zero value of
// Range means "whole file"; the zero value of Match means "no match spec".
type ShowOptions struct {
	Range    LineRange
	Match    MatchSpec
	Context  int    // lines of context around matches, 0..2; requires Match
	Encoding string // pinned encoding name, "" = detect
}

// ShowResult is the rendered display stream plus call metadata. Notices carry
// recoverable warnings (for example a clamped range end).
type ShowResult struct {
	Lines     []RenderedLine
	Notices   []string
	Metadata  FileMetadata
	LineCount int // lines visited during the pass
}

func (o ShowOptions) rng() LineRange {
	if o.Range == (LineRange{}) {
		return WholeFile()
	}
	return o.Range
}

func (o ShowOptions) validate() error {
	if err := o.rng().Validate(); err != nil {
		return err
	}
	if o.Context > 0 && o.Match.isZero() {
		return conflictingOptionsError("context requires a match spec")
	}
	if o.Context > beforeContextSlots {
		return conflictingOptionsError("context exceeds the fixed window of %d lines", beforeContextSlots)
	}
	return nil
}

// Show streams path once and returns its display rendering: plain numbered
// lines for range-only calls, or match blocks with context, bridging, and gap
// markers when a match spec is given.
func Show(path string, opts ShowOptions) (*ShowResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	f, meta, err := openDetect(path, opts.Encoding)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res := &ShowResult{Metadata: meta}
	rng := opts.rng()

	if opts.Match.isZero() {
		if err := showPlain(f, meta, rng, res); err != nil {
			return nil, err
		}
		return res, nil
	}
	if err := showMatches(f, meta, rng, opts.Match, opts.Context, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ContainsMatch reports whether any line in the (optional) range matches,
// short-circuiting the pass at the first hit.
func ContainsMatch(path string, opts ShowOptions) (bool, error) {
	if opts.Match.isZero() {
		return false, conflictingOptionsError("containsMatch requires a match spec")
	}
	if err := opts.validate(); err != nil {
		return false, err
	}

	f, meta, err := openDetect(path, opts.Encoding)
	if err != nil {
		return false, err
	}
	defer f.Close()

	rng := opts.rng()
	reader := NewLineReader(f, meta)

	var tracker *multilineTracker
	if opts.Match.IsMultiline() {
		tracker = newMultilineTracker(opts.Match)
	}

	for {
		line, ok := reader.Next()
		if !ok {
			break
		}
		if rng.Beyond(line.Num) {
			break
		}
		if !rng.Contains(line.Num) {
			continue
		}
		if tracker != nil {
			for _, cl := range tracker.Feed(line) {
				if cl.interesting {
					return true, nil
				}
			}
			continue
		}
		_, interesting, err := opts.Match.Evaluate(line.Text)
		if err != nil {
			return false, err
		}
		if interesting {
			return true, nil
		}
	}
	if err := reader.Err(); err != nil {
		return false, err
	}
	if tracker != nil {
		for _, cl := range tracker.Flush() {
			if cl.interesting {
				return true, nil
			}
		}
	}
	if err := checkRangeAgainstEOF(rng, reader.LinesRead(), &ShowResult{}); err != nil {
		return false, err
	}
	return false, nil
}

// openDetect opens path shared-read and detects its metadata. The returned
// file's offset is at the start of the stream.
func openDetect(path string, encodingName string) (*os.File, FileMetadata, error) {
	pinned, err := ParseEncoding(encodingName)
	if err != nil {
		return nil, FileMetadata{}, err
	}
	f, err := openShared(path)
	if err != nil {
		return nil, FileMetadata{}, err
	}
	meta, err := detectMetadataFromFile(f, pinned)
	if err != nil {
		f.Close()
		return nil, FileMetadata{}, err
	}
	return f, meta, nil
}

func showPlain(f *os.File, meta FileMetadata, rng LineRange, res *ShowResult) error {
	reader := NewLineReader(f, meta)
	sampler := newLineSampler(showHeadLines, showTailSlots)

	for {
		line, ok := reader.Next()
		if !ok {
			break
		}
		if rng.Beyond(line.Num) {
			break
		}
		if rng.Contains(line.Num) {
			sampler.push(line)
		}
	}
	if err := reader.Err(); err != nil {
		return err
	}
	if err := checkRangeAgainstEOF(rng, reader.LinesRead(), res); err != nil {
		return err
	}

	for _, l := range sampler.Head() {
		res.Lines = append(res.Lines, RenderedLine{Num: l.Num, Text: l.Text, Kind: LineKindText})
	}
	if elided := sampler.Elided(); elided > 0 {
		res.Lines = append(res.Lines, RenderedLine{Kind: LineKindGap})
		res.Notices = append(res.Notices, fmt.Sprintf("%d line(s) elided; showing the first %d and last %d", elided, showHeadLines, showTailSlots))
	}
	for _, l := range sampler.Tail() {
		res.Lines = append(res.Lines, RenderedLine{Num: l.Num, Text: l.Text, Kind: LineKindText})
	}
	res.LineCount = reader.LinesRead()
	return nil
}

func showMatches(f *os.File, meta FileMetadata, rng LineRange, spec MatchSpec, context int, res *ShowResult) error {
	reader := NewLineReader(f, meta)
	asm := newContextAssembler(context, func(rl RenderedLine) {
		res.Lines = append(res.Lines, rl)
	})

	var tracker *multilineTracker
	if spec.IsMultiline() {
		tracker = newMultilineTracker(spec)
	}

	push := func(line Line) error {
		if tracker != nil {
			for _, cl := range tracker.Feed(line) {
				asm.Push(cl)
			}
			return nil
		}
		spans, interesting, err := spec.Evaluate(line.Text)
		if err != nil {
			return err
		}
		asm.Push(classifiedLine{line: line, spans: spans, interesting: interesting})
		return nil
	}

	for {
		line, ok := reader.Next()
		if !ok {
			break
		}
		if rng.Beyond(line.Num) {
			break
		}
		if rng.Contains(line.Num) {
			if err := push(line); err != nil {
				return err
			}
		}
	}
	if err := reader.Err(); err != nil {
		return err
	}
	if tracker != nil {
		for _, cl := range tracker.Flush() {
			asm.Push(cl)
		}
	}
	if err := checkRangeAgainstEOF(rng, reader.LinesRead(), res); err != nil {
		return err
	}
	res.LineCount = reader.LinesRead()
	return nil
}

// checkRangeAgainstEOF resolves range-vs-file-length outcomes after the pass:
// a start beyond end-of-file is a hard error; an end beyond end-of-file is a
// recoverable clamp recorded as a notice.
func checkRangeAgainstEOF(rng LineRange, totalLines int, res *ShowResult) error {
	if rng.Start == 1 && rng.ToEnd() {
		// The whole-file range is satisfiable even by an empty file.
		return nil
	}
	if rng.Start > totalLines {
		return invalidRangeError("start %d exceeds file length %d", rng.Start, totalLines)
	}
	if !rng.ToEnd() && rng.End > totalLines {
		res.Notices = append(res.Notices, fmt.Sprintf("range end %d exceeds file length %d; clamped", rng.End, totalLines))
	}
	return nil
}
