package textfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end checks pinning exact user-visible behavior.

func TestScenario_ReplaceRangeCRLF(t *testing.T) {
	path := writeTempFile(t, []byte("Line1\r\nLine2\r\nLine3\r\nLine4\r\nLine5\r\n"))

	res, err := ReplaceLines(path, ReplaceOptions{
		Range:   LineRange{Start: 2, End: 4},
		Content: []string{"X"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.LinesAffected)
	assert.Equal(t, -2, res.NetLineDelta)
	assert.Equal(t, "Line1\r\nX\r\nLine5\r\n", readBack(t, path))
}

func TestScenario_RemoveByMatchThenRepeat(t *testing.T) {
	path := writeTempFile(t, []byte("Line1\nLine2\nLine3\nLine4\nLine5\n"))
	spec := mustLiteral(t, "Line3", false)

	res, err := RemoveLines(path, RemoveOptions{Match: spec})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "Line1\nLine2\nLine4\nLine5\n", readBack(t, path))

	// The identical second call finds nothing and leaves the file untouched.
	res, err = RemoveLines(path, RemoveOptions{Match: spec})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 0, res.LinesAffected)
	assert.Equal(t, "Line1\nLine2\nLine4\nLine5\n", readBack(t, path))
}

func TestScenario_StripDigits(t *testing.T) {
	path := writeTempFile(t, []byte("abc123def456\n"))

	res, err := FindAndReplace(path, FindReplaceOptions{Match: mustRegex(t, `\d+`)})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Replacements)
	assert.Equal(t, "abcdef\n", readBack(t, path))
}

func TestScenario_MultilineLiteralCollapse(t *testing.T) {
	path := writeTempFile(t, []byte("A\nB\nC\nD\n"))

	res, err := FindAndReplace(path, FindReplaceOptions{
		Match:       mustLiteral(t, "B\nC", true),
		Replacement: "X",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Replacements)
	assert.Equal(t, "A\nX\nD\n", readBack(t, path))
}

// The to-end sentinel accepts 0 or any negative value; all behave alike.
func TestScenario_RangeSentinelEquivalence(t *testing.T) {
	for _, end := range []int{0, -1, -99} {
		path := writeTempFile(t, []byte("1\n2\n3\n4\n5\n6\n7\n"))

		res, err := RemoveLines(path, RemoveOptions{Range: LineRange{Start: 5, End: end}})
		require.NoError(t, err)
		assert.Equal(t, 3, res.LinesAffected, "end=%d", end)
		assert.Equal(t, "1\n2\n3\n4\n", readBack(t, path), "end=%d", end)
	}
}

// Writing a file's own lines back over itself reproduces it byte-for-byte,
// including newline convention and a missing final terminator.
func TestScenario_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("a\nb\nc\n"),
		[]byte("a\r\nb\r\nc"),
		[]byte("solo"),
		[]byte("caf\xe9\nplain\n"), // windows-1252
	}
	for _, input := range inputs {
		path := writeTempFile(t, input)

		shown, err := Show(path, ShowOptions{})
		require.NoError(t, err)
		var content []string
		for _, l := range shown.Lines {
			content = append(content, l.Text)
		}

		_, err = ReplaceLines(path, ReplaceOptions{Content: content})
		require.NoError(t, err)
		assert.Equal(t, string(input), readBack(t, path))
	}
}
