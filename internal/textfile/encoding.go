package textfile

import (
	"io"
	"strings"

	gdaencoding "github.com/gdamore/encoding"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding identifies a character encoding this package can detect, decode,
// and re-encode. The set is deliberately closed: these are the encodings the
// detector can actually distinguish from a bounded sample.
type Encoding string

const (
	EncodingASCII       Encoding = "ascii"
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF8BOM     Encoding = "utf-8-bom"
	EncodingUTF16LE     Encoding = "utf-16le"
	EncodingUTF16BE     Encoding = "utf-16be"
	EncodingWindows1252 Encoding = "windows-1252"
)

// ParseEncoding resolves a caller-supplied encoding name to an Encoding.
// An empty name means "detect". Unknown names are ErrConflictingOptions since
// the caller asked for something the engine cannot honor.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", nil
	case "ascii", "us-ascii":
		return EncodingASCII, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "utf-8-bom", "utf-8-sig", "utf8-bom":
		return EncodingUTF8BOM, nil
	case "utf-16le", "utf16le":
		return EncodingUTF16LE, nil
	case "utf-16be", "utf16be":
		return EncodingUTF16BE, nil
	case "windows-1252", "cp1252", "latin1", "latin-1", "iso-8859-1":
		// Latin-1 round-trips through the Windows-1252 table; the 0x80-0x9F
		// differences only matter for bytes Latin-1 callers don't produce.
		return EncodingWindows1252, nil
	default:
		return "", conflictingOptionsError("unsupported encoding %q", name)
	}
}

// textEncoding returns the x/text codec for e, or nil when the byte stream is
// already valid UTF-8 (or a subset) and needs no transformation.
func (e Encoding) textEncoding() encoding.Encoding {
	switch e {
	case EncodingUTF8BOM:
		return unicode.UTF8BOM
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case EncodingWindows1252:
		return charmap.Windows1252
	default:
		return nil
	}
}

// decodeReader wraps r so reads yield UTF-8 text regardless of e. Detected
// ASCII decodes as the identity: the detector only sampled a bounded head, so
// a stray high byte past the sample must round-trip untouched.
func (e Encoding) decodeReader(r io.Reader) io.Reader {
	enc := e.textEncoding()
	if enc == nil {
		return r
	}
	return enc.NewDecoder().Reader(r)
}

// encodeWriter wraps w so UTF-8 writes come out encoded as e. The returned
// writer must be Closed to flush any buffered transform state.
func (e Encoding) encodeWriter(w io.Writer) io.WriteCloser {
	enc := e.textEncoding()
	if enc == nil {
		return nopWriteCloser{w}
	}
	return transform.NewWriter(w, enc.NewEncoder())
}

// decodeReader decodes per the detected encoding, except that an explicitly
// pinned ASCII stream runs through the strict 7-bit codec: bytes above 0x7F
// decode to U+FFFD instead of leaking through as raw non-UTF-8 bytes.
func (m FileMetadata) decodeReader(r io.Reader) io.Reader {
	if m.Encoding == EncodingASCII && m.ExplicitlyPinned {
		return gdaencoding.ASCII.NewDecoder().Reader(r)
	}
	return m.Encoding.decodeReader(r)
}

// encodeWriter encodes per the metadata. Pinned ASCII encodes through the
// strict codec, which substitutes any rune above 0x7F with the ASCII SUB
// character, so output pinned to ASCII contains only ASCII bytes. New content
// with non-ASCII code points never reaches this point; applyEncodingUpgrade
// rejects it first. Substitution only ever touches bytes that were already
// out of range in the source.
func (m FileMetadata) encodeWriter(w io.Writer) io.WriteCloser {
	if m.Encoding == EncodingASCII && m.ExplicitlyPinned {
		return transform.NewWriter(w, gdaencoding.ASCII.NewEncoder())
	}
	return m.Encoding.encodeWriter(w)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Newline is a newline convention: one of CRLF, LF, or CR.
type Newline string

const (
	NewlineLF   Newline = "\n"
	NewlineCRLF Newline = "\r\n"
	NewlineCR   Newline = "\r"
)

// containsNonASCII reports whether any line introduces a code point above 127.
func containsNonASCII(lines []string) bool {
	for _, line := range lines {
		for i := 0; i < len(line); i++ {
			if line[i] > 0x7F {
				return true
			}
		}
	}
	return false
}

// applyEncodingUpgrade implements the upgrade policy consulted immediately
// before a write. ASCII output upgrades to UTF-8 only when all three hold: the
// encoding was not explicitly pinned, the detected source encoding is plain
// ASCII, and the new content introduces a code point above 127. Returns the
// (possibly updated) metadata, a notice describing the upgrade (or ""), and an
// error when pinned ASCII cannot represent the new content: files are never
// silently transcoded against caller intent.
func applyEncodingUpgrade(meta FileMetadata, newContent []string) (FileMetadata, string, error) {
	if !containsNonASCII(newContent) {
		return meta, "", nil
	}
	if meta.Encoding != EncodingASCII {
		return meta, "", nil
	}
	if meta.ExplicitlyPinned {
		return meta, "", conflictingOptionsError("content contains non-ASCII characters but encoding is pinned to %q", meta.Encoding)
	}
	meta.Encoding = EncodingUTF8
	return meta, "encoding upgraded to UTF-8 to represent non-ASCII content", nil
}
