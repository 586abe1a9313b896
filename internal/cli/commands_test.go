package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.Execute()
}

func TestInsertCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\nthree\n"), 0o644))

	err := runCommand(t, newInsertCmd(), path, "--at", "2", "--content", "two", "--no-backup")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", string(data))
}

func TestReplaceCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0o644))

	err := runCommand(t, newReplaceCmd(), path, "--range", "2", "--content", "B", "--no-backup")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nB\nc\n", string(data))
}

func TestReplaceCmd_RequiresRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o644))

	err := runCommand(t, newReplaceCmd(), path, "--content", "x")
	assert.Error(t, err)
}

func TestSubCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo bar\n"), 0o644))

	err := runCommand(t, newSubCmd(), path, "--match", "foo", "--with", "qux", "--no-backup")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "qux bar\n", string(data))
}

func TestSubCmd_RequiresPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o644))

	err := runCommand(t, newSubCmd(), path, "--with", "x")
	assert.Error(t, err)
}

func TestRemoveCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("keep\ndrop\nkeep\n"), 0o644))

	err := runCommand(t, newRemoveCmd(), path, "--match", "drop", "--no-backup")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep\nkeep\n", string(data))
}

func TestRemoveCmd_RequiresRangeOrPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o644))

	err := runCommand(t, newRemoveCmd(), path)
	assert.Error(t, err)
}

func TestViewCmd_BadRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o644))

	err := runCommand(t, newViewCmd(), path, "--range", "abc")
	assert.Error(t, err)
}

func TestSearchCmd_NoMatchErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("nothing\n"), 0o644))

	err := runCommand(t, newSearchCmd(), path, "--match", "absent", "--exists-only")
	assert.Error(t, err)
}
