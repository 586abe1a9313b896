package textfile

import "fmt"

// LineRange selects lines [Start, End], 1-based and inclusive. An End of 0 or
// negative is the to-end sentinel meaning "through the file's last line".
//
// The sentinel is resolved by visitation during the streaming pass, never by
// arithmetic on the raw value: adding or subtracting on a sentinel End is an
// overflow hazard and a correctness bug.
type LineRange struct {
	Start int
	End   int
}

// WholeFile returns the range covering every line.
func WholeFile() LineRange {
	return LineRange{Start: 1, End: 0}
}

// ToEnd reports whether End carries the to-end sentinel.
func (r LineRange) ToEnd() bool {
	return r.End <= 0
}

// Validate rejects ranges that can never be satisfied regardless of file
// contents. Start beyond end-of-file is checked separately, during the pass.
func (r LineRange) Validate() error {
	if r.Start < 1 {
		return invalidRangeError("start %d is below 1", r.Start)
	}
	if !r.ToEnd() && r.End < r.Start {
		return invalidRangeError("start %d exceeds end %d", r.Start, r.End)
	}
	return nil
}

// Contains reports whether 1-based line n falls inside the range.
func (r LineRange) Contains(n int) bool {
	if n < r.Start {
		return false
	}
	return r.ToEnd() || n <= r.End
}

// Beyond reports whether line n lies past the range's end, i.e. the streaming
// pass may stop once n is reached. Always false for to-end ranges.
func (r LineRange) Beyond(n int) bool {
	return !r.ToEnd() && n > r.End
}

func (r LineRange) String() string {
	if r.ToEnd() {
		return fmt.Sprintf("[%d,end]", r.Start)
	}
	return fmt.Sprintf("[%d,%d]", r.Start, r.End)
}
