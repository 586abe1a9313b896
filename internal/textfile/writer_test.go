package textfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriter_CommitBasic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	meta := FileMetadata{Encoding: EncodingUTF8, Newline: NewlineLF, HasTrailingNewline: true}

	w, err := newAtomicWriter(path, meta)
	require.NoError(t, err)
	defer w.Abort()

	require.NoError(t, w.PushLine("a"))
	require.NoError(t, w.PushLine("b"))
	assert.Equal(t, 2, w.LinesWritten())

	backup, err := w.Commit(false)
	require.NoError(t, err)
	assert.Empty(t, backup)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestAtomicWriter_NoTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	meta := FileMetadata{Encoding: EncodingUTF8, Newline: NewlineLF, HasTrailingNewline: false}

	w, err := newAtomicWriter(path, meta)
	require.NoError(t, err)
	defer w.Abort()

	require.NoError(t, w.PushLine("a"))
	require.NoError(t, w.PushLine("b"))
	_, err = w.Commit(false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", string(data))
}

func TestAtomicWriter_ObservedTerminatorWinsOverProbe(t *testing.T) {
	// The edit operations feed back what the read pass saw on the final
	// line; that observation overrides the metadata's tail probe.
	path := filepath.Join(t.TempDir(), "out.txt")
	meta := FileMetadata{Encoding: EncodingUTF8, Newline: NewlineLF, HasTrailingNewline: true}

	w, err := newAtomicWriter(path, meta)
	require.NoError(t, err)
	defer w.Abort()

	require.NoError(t, w.PushLine("a"))
	w.SetTrailingNewline(false)
	_, err = w.Commit(false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}

func TestAtomicWriter_CRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	meta := FileMetadata{Encoding: EncodingUTF8, Newline: NewlineCRLF, HasTrailingNewline: true}

	w, err := newAtomicWriter(path, meta)
	require.NoError(t, err)
	defer w.Abort()

	require.NoError(t, w.PushLine("a"))
	require.NoError(t, w.PushLine("b"))
	_, err = w.Commit(false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb\r\n", string(data))
}

func TestAtomicWriter_AbortLeavesNoTrace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("original\n"), 0o644))

	meta := FileMetadata{Encoding: EncodingUTF8, Newline: NewlineLF, HasTrailingNewline: true}
	w, err := newAtomicWriter(path, meta)
	require.NoError(t, err)
	require.NoError(t, w.PushLine("replacement"))

	w.Abort()
	w.Abort() // idempotent

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.txt", entries[0].Name())
}

func TestAtomicWriter_AbortAfterCommitIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	meta := FileMetadata{Encoding: EncodingUTF8, Newline: NewlineLF, HasTrailingNewline: true}

	w, err := newAtomicWriter(path, meta)
	require.NoError(t, err)
	require.NoError(t, w.PushLine("a"))
	_, err = w.Commit(false)
	require.NoError(t, err)

	w.Abort()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(data))
}

func TestAtomicWriter_BackupHoldsPreImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("before\n"), 0o644))

	meta := FileMetadata{Encoding: EncodingUTF8, Newline: NewlineLF, HasTrailingNewline: true}
	w, err := newAtomicWriter(path, meta)
	require.NoError(t, err)
	defer w.Abort()

	require.NoError(t, w.PushLine("after"))
	backup, err := w.Commit(true)
	require.NoError(t, err)
	require.NotEmpty(t, backup)
	assert.Regexp(t, `out\.txt\.\d{14}\.bak$`, backup)

	pre, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "before\n", string(pre))

	post, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "after\n", string(post))
}

func TestAtomicWriter_BackupSkippedForFreshCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")
	meta := FileMetadata{Encoding: EncodingUTF8, Newline: NewlineLF, HasTrailingNewline: true}

	w, err := newAtomicWriter(path, meta)
	require.NoError(t, err)
	defer w.Abort()

	require.NoError(t, w.PushLine("x"))
	backup, err := w.Commit(true)
	require.NoError(t, err)
	assert.Empty(t, backup)
}

func TestAtomicWriter_PreservesFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o600))

	meta := FileMetadata{Encoding: EncodingUTF8, Newline: NewlineLF, HasTrailingNewline: true}
	w, err := newAtomicWriter(path, meta)
	require.NoError(t, err)
	defer w.Abort()

	require.NoError(t, w.PushLine("y"))
	_, err = w.Commit(false)
	require.NoError(t, err)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestAtomicWriter_EncodesUTF16LE(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	meta := FileMetadata{Encoding: EncodingUTF16LE, Newline: NewlineLF, HasTrailingNewline: true}

	w, err := newAtomicWriter(path, meta)
	require.NoError(t, err)
	defer w.Abort()

	require.NoError(t, w.PushLine("hi"))
	_, err = w.Commit(false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00, '\n', 0x00}, data)
}
