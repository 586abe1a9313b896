package textfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDetectMetadata_Encodings(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Encoding
	}{
		{name: "ascii", data: []byte("plain text\n"), want: EncodingASCII},
		{name: "empty", data: nil, want: EncodingASCII},
		{name: "utf8", data: []byte("caf\xc3\xa9\n"), want: EncodingUTF8},
		{name: "utf8 bom", data: []byte("\xEF\xBB\xBFhello\n"), want: EncodingUTF8BOM},
		{name: "utf16le bom", data: []byte{0xFF, 0xFE, 'h', 0x00, '\n', 0x00}, want: EncodingUTF16LE},
		{name: "utf16be bom", data: []byte{0xFE, 0xFF, 0x00, 'h', 0x00, '\n'}, want: EncodingUTF16BE},
		{name: "invalid utf8 falls back to windows-1252", data: []byte("caf\xe9\n"), want: EncodingWindows1252},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, tc.data)
			meta, err := DetectMetadata(path, "")
			require.NoError(t, err)
			assert.Equal(t, tc.want, meta.Encoding)
			assert.False(t, meta.ExplicitlyPinned)
		})
	}
}

func TestDetectMetadata_PinnedEncoding(t *testing.T) {
	path := writeTempFile(t, []byte("hello\n"))
	meta, err := DetectMetadata(path, EncodingWindows1252)
	require.NoError(t, err)
	assert.Equal(t, EncodingWindows1252, meta.Encoding)
	assert.True(t, meta.ExplicitlyPinned)
	// Newline detection still runs under a pinned encoding.
	assert.Equal(t, NewlineLF, meta.Newline)
}

func TestDetectMetadata_Newlines(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Newline
	}{
		{name: "lf", data: []byte("a\nb\n"), want: NewlineLF},
		{name: "crlf", data: []byte("a\r\nb\r\n"), want: NewlineCRLF},
		{name: "lone cr", data: []byte("a\rb\r"), want: NewlineCR},
		{name: "no terminator defaults to lf", data: []byte("just one line"), want: NewlineLF},
		{name: "first terminator wins", data: []byte("a\nb\r\nc\n"), want: NewlineLF},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, tc.data)
			meta, err := DetectMetadata(path, "")
			require.NoError(t, err)
			assert.Equal(t, tc.want, meta.Newline)
		})
	}
}

func TestDetectMetadata_TrailingNewline(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{name: "terminated", data: []byte("a\nb\n"), want: true},
		{name: "unterminated", data: []byte("a\nb"), want: false},
		// An empty file behaves like a fresh create: lines written into it
		// get terminated.
		{name: "empty", data: nil, want: true},
		{name: "cr terminated", data: []byte("a\r"), want: true},
		{name: "utf16le terminated", data: []byte{0xFF, 0xFE, 'a', 0x00, '\n', 0x00}, want: true},
		{name: "utf16le unterminated", data: []byte{0xFF, 0xFE, 'a', 0x00, 'b', 0x00}, want: false},
		{name: "utf16be terminated", data: []byte{0xFE, 0xFF, 0x00, 'a', 0x00, '\n'}, want: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, tc.data)
			meta, err := DetectMetadata(path, "")
			require.NoError(t, err)
			assert.Equal(t, tc.want, meta.HasTrailingNewline)
		})
	}
}

func TestDetectMetadata_MissingFile(t *testing.T) {
	_, err := DetectMetadata(filepath.Join(t.TempDir(), "nope.txt"), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in   string
		want Encoding
	}{
		{in: "", want: ""},
		{in: "ascii", want: EncodingASCII},
		{in: "US-ASCII", want: EncodingASCII},
		{in: "utf-8", want: EncodingUTF8},
		{in: "UTF8", want: EncodingUTF8},
		{in: "utf-8-sig", want: EncodingUTF8BOM},
		{in: "utf-16le", want: EncodingUTF16LE},
		{in: "UTF16BE", want: EncodingUTF16BE},
		{in: "latin-1", want: EncodingWindows1252},
		{in: "cp1252", want: EncodingWindows1252},
	}
	for _, tc := range tests {
		got, err := ParseEncoding(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseEncoding("ebcdic")
	assert.ErrorIs(t, err, ErrConflictingOptions)
}

func TestApplyEncodingUpgrade(t *testing.T) {
	ascii := FileMetadata{Encoding: EncodingASCII, Newline: NewlineLF}

	meta, notice, err := applyEncodingUpgrade(ascii, []string{"plain"})
	require.NoError(t, err)
	assert.Equal(t, EncodingASCII, meta.Encoding)
	assert.Empty(t, notice)

	meta, notice, err = applyEncodingUpgrade(ascii, []string{"café"})
	require.NoError(t, err)
	assert.Equal(t, EncodingUTF8, meta.Encoding)
	assert.NotEmpty(t, notice)

	pinned := ascii
	pinned.ExplicitlyPinned = true
	_, _, err = applyEncodingUpgrade(pinned, []string{"café"})
	assert.ErrorIs(t, err, ErrConflictingOptions)

	utf16 := FileMetadata{Encoding: EncodingUTF16LE}
	meta, notice, err = applyEncodingUpgrade(utf16, []string{"café"})
	require.NoError(t, err)
	assert.Equal(t, EncodingUTF16LE, meta.Encoding)
	assert.Empty(t, notice)
}
