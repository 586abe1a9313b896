package textfile

import (
	"bufio"
	"bytes"
	"io"
)

// maxLineBytes is the largest single line the reader accepts (decoded bytes).
// Lines beyond this indicate non-text content (minified bundles, binary blobs)
// that this engine is not meant to edit.
const maxLineBytes = 16 * 1024 * 1024

// Line is one decoded physical line.
type Line struct {
	// Num is the 1-based line number.
	Num int

	// Text is the line's content, decoded to UTF-8, without its terminator.
	Text string

	// HasTerminator is false only for a final line that the source does not
	// terminate. The write path reproduces that absence verbatim.
	HasTerminator bool
}

// LineReader enumerates a file's lines in one forward pass with one-line
// lookahead. It is non-restartable and never materializes the whole file; the
// only state it holds is the current buffered line.
type LineReader struct {
	sc      *bufio.Scanner
	next    Line
	hasNext bool
	err     error
	count   int
}

// NewLineReader returns a LineReader over r, decoding according to meta.
func NewLineReader(r io.Reader, meta FileMetadata) *LineReader {
	sc := bufio.NewScanner(meta.decodeReader(r))
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	sc.Split(scanTerminatedLines)
	lr := &LineReader{sc: sc}
	lr.advance()
	return lr
}

// scanTerminatedLines is a bufio.SplitFunc yielding lines WITH their
// terminators, so the caller can distinguish a terminated final line from an
// unterminated one. It recognizes LF, CRLF, and lone CR.
func scanTerminatedLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i, b := range data {
		switch b {
		case '\n':
			return i + 1, data[:i+1], nil
		case '\r':
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i+2], nil
				}
				return i + 1, data[:i+1], nil
			}
			if atEOF {
				return i + 1, data[:i+1], nil
			}
			// Might be the first half of a CRLF; wait for more data.
			return 0, nil, nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func (lr *LineReader) advance() {
	if !lr.sc.Scan() {
		lr.hasNext = false
		lr.err = lr.sc.Err()
		return
	}
	tok := lr.sc.Bytes()
	terminated := false
	if n := len(tok); n > 0 && (tok[n-1] == '\n' || tok[n-1] == '\r') {
		terminated = true
		tok = bytes.TrimRight(tok, "\r\n")
	}
	lr.count++
	lr.next = Line{Num: lr.count, Text: string(tok), HasTerminator: terminated}
	lr.hasNext = true
}

// Next consumes and returns the buffered line.
func (lr *LineReader) Next() (Line, bool) {
	if !lr.hasNext {
		return Line{}, false
	}
	cur := lr.next
	lr.advance()
	return cur, true
}

// LinesRead returns how many lines have been produced so far (including the
// buffered lookahead line).
func (lr *LineReader) LinesRead() int {
	return lr.count
}

// Err returns the first underlying read error, if any.
func (lr *LineReader) Err() error {
	return lr.err
}
