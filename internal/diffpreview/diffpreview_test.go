package diffpreview

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(nil, nil))
}

func TestRender_PureInsert(t *testing.T) {
	got := Render(nil, []string{"a", "b"})
	assert.Equal(t, "+a\n+b", got)
}

func TestRender_PureDelete(t *testing.T) {
	got := Render([]string{"a", "b"}, nil)
	assert.Equal(t, "-a\n-b", got)
}

func TestRender_Replace(t *testing.T) {
	got := Render([]string{"keep", "old"}, []string{"keep", "new"})
	lines := strings.Split(got, "\n")
	assert.Contains(t, lines, " keep")
	assert.Contains(t, lines, "-old")
	assert.Contains(t, lines, "+new")
}

func TestRender_CapsOutput(t *testing.T) {
	var many []string
	for i := 0; i < 200; i++ {
		many = append(many, fmt.Sprintf("line %d", i))
	}
	got := Render(nil, many)
	assert.Contains(t, got, "(preview truncated)")
	assert.LessOrEqual(t, len(strings.Split(got, "\n")), maxPreviewLines+1)
}
