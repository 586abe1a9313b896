package textfile

import (
	"bytes"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	// headSampleBytes bounds the prefix read used for encoding and newline
	// detection. Detection must never scan the whole file: a full read turns a
	// metadata sniff into an O(size) operation on every call.
	headSampleBytes = 64 * 1024

	// tailProbeBytes bounds the suffix read used to determine trailing-newline
	// presence without a second full pass. 4 bytes covers the widest encoded
	// terminator (CRLF in UTF-16).
	tailProbeBytes = 4
)

// FileMetadata captures the facts about a file that every operation must
// preserve byte-for-byte on write. It is detected once per call and treated as
// immutable for the call's duration.
type FileMetadata struct {
	Encoding           Encoding
	Newline            Newline
	HasTrailingNewline bool

	// ExplicitlyPinned is true when the caller supplied the encoding rather
	// than it being detected. Pinned encodings are never upgraded.
	ExplicitlyPinned bool
}

// defaultMetadata is the metadata assumed for files that don't exist yet:
// plain ASCII (upgradeable), LF, and a final terminator.
func defaultMetadata(pinned Encoding) FileMetadata {
	meta := FileMetadata{
		Encoding:           EncodingASCII,
		Newline:            NewlineLF,
		HasTrailingNewline: true,
	}
	if pinned != "" {
		meta.Encoding = pinned
		meta.ExplicitlyPinned = true
	}
	return meta
}

// openShared opens path for reading with OS-level shared-read access, so a
// file being actively written by another process remains readable.
func openShared(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}
	return f, nil
}

// DetectMetadata sniffs encoding, newline convention, and trailing-newline
// presence from bounded reads of path. pinned, when non-empty, overrides
// encoding detection (and marks the result explicitly pinned) but newline and
// trailing-newline detection still run.
func DetectMetadata(path string, pinned Encoding) (FileMetadata, error) {
	f, err := openShared(path)
	if err != nil {
		return FileMetadata{}, err
	}
	defer f.Close()
	return detectMetadataFromFile(f, pinned)
}

func detectMetadataFromFile(f *os.File, pinned Encoding) (FileMetadata, error) {
	fi, err := f.Stat()
	if err != nil {
		return FileMetadata{}, err
	}
	size := fi.Size()

	head := make([]byte, headSampleBytes)
	n, err := f.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return FileMetadata{}, err
	}
	head = head[:n]

	meta := FileMetadata{}
	if pinned != "" {
		meta.Encoding = pinned
		meta.ExplicitlyPinned = true
	} else {
		meta.Encoding = sniffEncoding(head)
	}

	decoded := decodeSample(head, meta.Encoding)
	meta.Newline = sniffNewline(decoded)

	trailing, err := probeTrailingNewline(f, size, meta.Encoding)
	if err != nil {
		return FileMetadata{}, err
	}
	meta.HasTrailingNewline = trailing

	return meta, nil
}

// sniffEncoding inspects a bounded head sample. Order: BOM sniff, then
// statistical detection, then ASCII when every sampled byte is <= 0x7F.
//
// UTF-16 is recognized by BOM only. For high-byte samples the policy is: valid
// UTF-8 wins; anything else decodes as Windows-1252. Defaulting ambiguous
// non-UTF-8 samples to a single-byte page (rather than UTF-8) avoids
// mojibake-on-write for the legacy files that actually reach this branch.
func sniffEncoding(sample []byte) Encoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return EncodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return EncodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return EncodingUTF16BE
		}
	}

	allASCII := true
	for _, b := range sample {
		if b > 0x7F {
			allASCII = false
			break
		}
	}
	if allASCII {
		return EncodingASCII
	}

	// The sample may cut a multi-byte sequence at its end; trim the partial
	// rune before validating.
	trimmed := sample
	for i := 0; i < utf8.UTFMax && len(trimmed) > 0; i++ {
		if r, _ := utf8.DecodeLastRune(trimmed); r != utf8.RuneError {
			break
		}
		trimmed = trimmed[:len(trimmed)-1]
	}
	if utf8.Valid(trimmed) {
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// decodeSample decodes a head sample to UTF-8 for newline sniffing. Decode
// errors are ignored: a partially decoded sample is still good enough to find
// the first terminator.
func decodeSample(sample []byte, enc Encoding) string {
	if len(sample) == 0 {
		return ""
	}
	r := enc.decodeReader(bytes.NewReader(sample))
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(sample)
	}
	return string(decoded)
}

// sniffNewline returns the convention of the first terminator in the sample,
// defaulting to LF when the sample holds no terminator at all.
func sniffNewline(text string) Newline {
	idx := strings.IndexAny(text, "\r\n")
	if idx < 0 {
		return NewlineLF
	}
	if text[idx] == '\n' {
		return NewlineLF
	}
	if idx+1 < len(text) {
		if text[idx+1] == '\n' {
			return NewlineCRLF
		}
		return NewlineCR
	}
	// A CR as the sample's final byte could be a split CRLF; CRLF is by far
	// the more common convention for files that contain CR at all.
	return NewlineCRLF
}

// probeTrailingNewline reads at most tailProbeBytes from the end of the file
// and reports whether the file ends with an encoded terminator. An empty file
// reports true: it takes the same policy as a fresh create, so the first
// content written into it comes out terminated.
func probeTrailingNewline(f *os.File, size int64, enc Encoding) (bool, error) {
	if size == 0 {
		return true, nil
	}
	probe := int64(tailProbeBytes)
	if probe > size {
		probe = size
	}
	tail := make([]byte, probe)
	if _, err := f.ReadAt(tail, size-probe); err != nil && err != io.EOF {
		return false, err
	}

	switch enc {
	case EncodingUTF16LE:
		return bytes.HasSuffix(tail, []byte{'\n', 0x00}) || bytes.HasSuffix(tail, []byte{'\r', 0x00}), nil
	case EncodingUTF16BE:
		return bytes.HasSuffix(tail, []byte{0x00, '\n'}) || bytes.HasSuffix(tail, []byte{0x00, '\r'}), nil
	default:
		last := tail[len(tail)-1]
		return last == '\n' || last == '\r', nil
	}
}
