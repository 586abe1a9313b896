package textfile

// lineSampler retains a bounded view of an unbounded line stream: the first
// head lines verbatim plus a fixed-size ring of the most recent tail lines.
// When the stream exceeds head+tail, the middle is elided. This replaces any
// unbounded per-line map with O(head+tail) memory.
type lineSampler struct {
	headMax int
	tailMax int

	head  []Line
	ring  []Line // fixed capacity tailMax, overwritten in place
	seen  int    // lines pushed after the head filled
	total int
}

func newLineSampler(headMax, tailMax int) *lineSampler {
	return &lineSampler{
		headMax: headMax,
		tailMax: tailMax,
		ring:    make([]Line, tailMax),
	}
}

func (s *lineSampler) push(line Line) {
	s.total++
	if len(s.head) < s.headMax {
		s.head = append(s.head, line)
		return
	}
	s.ring[s.seen%s.tailMax] = line
	s.seen++
}

// Total returns how many lines were pushed.
func (s *lineSampler) Total() int {
	return s.total
}

// Elided returns how many middle lines were dropped.
func (s *lineSampler) Elided() int {
	if s.seen <= s.tailMax {
		return 0
	}
	return s.seen - s.tailMax
}

// Head returns the retained leading lines.
func (s *lineSampler) Head() []Line {
	return s.head
}

// Tail returns the retained trailing lines, oldest first.
func (s *lineSampler) Tail() []Line {
	n := s.seen
	if n > s.tailMax {
		n = s.tailMax
	}
	out := make([]Line, 0, n)
	for i := s.seen - n; i < s.seen; i++ {
		out = append(out, s.ring[i%s.tailMax])
	}
	return out
}

// Texts returns the retained line texts in order; elided reports whether a
// middle section is missing between head and tail.
func (s *lineSampler) Texts() (texts []string, elided bool) {
	for _, l := range s.head {
		texts = append(texts, l.Text)
	}
	for _, l := range s.Tail() {
		texts = append(texts, l.Text)
	}
	return texts, s.Elided() > 0
}
