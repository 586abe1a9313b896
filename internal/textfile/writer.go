package textfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// backupTimestampLayout names backup siblings <name>.<yyyyMMddHHmmss>.bak.
const backupTimestampLayout = "20060102150405"

// atomicWriter streams replacement output to a temp file in the target's
// directory and swaps it into place on Commit. The rename is the sole mutation
// point: any failure before it leaves the original untouched, and Abort (safe
// to call after Commit) guarantees the temp file is cleaned up on every exit
// path.
//
// Lines are pushed one at a time; the writer holds exactly one pending line so
// it can withhold the final terminator when the source had none.
type atomicWriter struct {
	target string
	meta   FileMetadata

	tmp *os.File
	enc io.WriteCloser

	pending    string
	hasPending bool
	written    int

	trailingNewline bool

	committed bool
	aborted   bool
}

func newAtomicWriter(target string, meta FileMetadata) (*atomicWriter, error) {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	// The swapped-in file keeps the temp file's mode; mirror the original's.
	if fi, err := os.Stat(target); err == nil {
		_ = tmp.Chmod(fi.Mode().Perm())
	} else {
		_ = tmp.Chmod(0o644)
	}

	return &atomicWriter{
		target:          target,
		meta:            meta,
		tmp:             tmp,
		enc:             meta.encodeWriter(tmp),
		trailingNewline: meta.HasTrailingNewline,
	}, nil
}

// SetTrailingNewline replaces the probe-derived trailing-newline policy with
// what a read pass actually observed on the source's final line.
func (w *atomicWriter) SetTrailingNewline(present bool) {
	w.trailingNewline = present
}

// PushLine appends one output line. Terminators are written lazily: a line's
// terminator is flushed only once a successor proves it isn't the final line.
func (w *atomicWriter) PushLine(text string) error {
	if w.hasPending {
		if err := w.writeRaw(w.pending + string(w.meta.Newline)); err != nil {
			return err
		}
	}
	w.pending = text
	w.hasPending = true
	w.written++
	return nil
}

func (w *atomicWriter) writeRaw(s string) error {
	_, err := io.WriteString(w.enc, s)
	return err
}

// LinesWritten returns how many lines have been pushed.
func (w *atomicWriter) LinesWritten() int {
	return w.written
}

// Commit flushes the final line (honoring the source's trailing-newline
// presence), optionally copies the pre-image to a timestamped backup sibling,
// and atomically renames the temp file over the target. It returns the backup
// path, if one was written.
func (w *atomicWriter) Commit(backup bool) (string, error) {
	if w.hasPending {
		out := w.pending
		if w.trailingNewline {
			out += string(w.meta.Newline)
		}
		if err := w.writeRaw(out); err != nil {
			return "", err
		}
		w.hasPending = false
	}
	if err := w.enc.Close(); err != nil {
		return "", fmt.Errorf("flush encoder: %w", err)
	}
	if err := w.tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	backupPath := ""
	if backup {
		path, err := writeBackup(w.target)
		if err != nil {
			return "", err
		}
		backupPath = path
	}

	if err := os.Rename(w.tmp.Name(), w.target); err != nil {
		return backupPath, fmt.Errorf("swap temp file into place: %w", err)
	}
	w.committed = true
	return backupPath, nil
}

// Abort discards the temp file. It is a no-op after Commit and idempotent.
func (w *atomicWriter) Abort() {
	if w.committed || w.aborted {
		return
	}
	w.aborted = true
	_ = w.enc.Close()
	_ = w.tmp.Close()
	_ = os.Remove(w.tmp.Name())
}

// writeBackup copies the target's current bytes to a timestamped sibling.
// A missing target (fresh create) yields no backup and no error.
func writeBackup(target string) (string, error) {
	src, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("open pre-image for backup: %w", err)
	}
	defer src.Close()

	path := fmt.Sprintf("%s.%s.bak", target, time.Now().Format(backupTimestampLayout))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy backup: %w", err)
	}
	return path, nil
}
