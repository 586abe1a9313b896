package textfile

// Classification priority for emitted lines: match > after-context >
// before-context > gap > suppressed. Each physical line is emitted at most
// once; the before-context gate (candidate line number must exceed the last
// emitted line number) is what prevents re-emission of lines already shown as
// after-context for a previous block.

// RenderedLineKind classifies a line of display output.
type RenderedLineKind int

const (
	// LineKindText is plain content shown without match classification
	// (range-only show calls).
	LineKindText RenderedLineKind = iota

	// LineKindMatch is a line that itself matched.
	LineKindMatch

	// LineKindContext is an unmatched line shown around a match, including
	// bridging lines between merged blocks.
	LineKindContext

	// LineKindGap is the marker standing in for two or more elided lines.
	// Its Num is 0 and its Text is empty.
	LineKindGap
)

// RenderedLine is one line of display output. Spans carry highlight ranges
// into Text; context lines that happen to contain a match are highlighted too.
type RenderedLine struct {
	Num   int
	Text  string
	Kind  RenderedLineKind
	Spans []Span
}

// beforeContextSlots fixes the look-behind depth: the window holds exactly the
// last 2 lines, overwritten in place.
const beforeContextSlots = 2

// afterContextLines fixes the after-match countdown armed when a match fires.
const afterContextLines = 2

// contextWindow is the fixed 2-slot rotate buffer of preceding lines. It is
// loop-local state threaded through the streaming pass, never shared.
type contextWindow struct {
	slots [beforeContextSlots]classifiedLine
	count int
}

func (w *contextWindow) push(cl classifiedLine) {
	w.slots[w.count%beforeContextSlots] = cl
	w.count++
}

// last returns up to n of the most recent lines, oldest first.
func (w *contextWindow) last(n int) []classifiedLine {
	if n > beforeContextSlots {
		n = beforeContextSlots
	}
	if n > w.count {
		n = w.count
	}
	out := make([]classifiedLine, 0, n)
	for i := w.count - n; i < w.count; i++ {
		out = append(out, w.slots[i%beforeContextSlots])
	}
	return out
}

// contextAssembler merges match/context classification with the gap-merge
// rules into a single display stream. Context is how many lines to show before
// and after each match (0 to beforeContextSlots).
type contextAssembler struct {
	context int
	emit    func(RenderedLine)

	window         contextWindow
	afterRemaining int
	started        bool
	lastEmitted    int

	// gapCandidate holds the one suppressed line immediately following the
	// last emission; it becomes the bridging line when the next block starts
	// exactly two lines after the last emitted one.
	gapCandidate    classifiedLine
	hasGapCandidate bool
}

func newContextAssembler(context int, emit func(RenderedLine)) *contextAssembler {
	if context > beforeContextSlots {
		context = beforeContextSlots
	}
	if context < 0 {
		context = 0
	}
	return &contextAssembler{context: context, emit: emit}
}

// Push feeds the next classified line in stream order.
func (a *contextAssembler) Push(cl classifiedLine) {
	switch {
	case cl.interesting:
		a.openBlock(cl)
	case a.afterRemaining > 0:
		a.emitLine(cl, LineKindContext)
		a.afterRemaining--
	default:
		if !a.hasGapCandidate && cl.line.Num == a.lastEmitted+1 {
			a.gapCandidate = cl
			a.hasGapCandidate = true
		}
		a.window.push(cl)
	}
}

// openBlock emits a matching line along with its before-context, deciding
// first whether the new block merges with the previous output (gap of exactly
// one line bridges; two or more collapse to one gap marker).
func (a *contextAssembler) openBlock(cl classifiedLine) {
	var before []classifiedLine
	for _, cand := range a.window.last(a.context) {
		if cand.line.Num > a.lastEmitted && cand.line.Num >= cl.line.Num-a.context {
			before = append(before, cand)
		}
	}

	first := cl.line.Num
	if len(before) > 0 {
		first = before[0].line.Num
	}

	if a.started {
		gap := first - a.lastEmitted - 1
		switch {
		case gap <= 0:
			// Adjacent or overlapping; blocks merge with no separator.
		case gap == 1 && a.hasGapCandidate && a.gapCandidate.line.Num == first-1:
			a.emitLine(a.gapCandidate, LineKindContext)
		default:
			a.emit(RenderedLine{Kind: LineKindGap})
		}
	}
	a.started = true

	for _, b := range before {
		a.emitLine(b, LineKindContext)
	}
	a.emitLine(cl, LineKindMatch)

	if a.context > 0 {
		a.afterRemaining = afterContextLines
		if a.afterRemaining > a.context {
			a.afterRemaining = a.context
		}
	}
}

func (a *contextAssembler) emitLine(cl classifiedLine, kind RenderedLineKind) {
	a.emit(RenderedLine{Num: cl.line.Num, Text: cl.line.Text, Kind: kind, Spans: cl.spans})
	a.lastEmitted = cl.line.Num
	a.hasGapCandidate = false
}
