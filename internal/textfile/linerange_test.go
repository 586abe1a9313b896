package textfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineRange_Validate(t *testing.T) {
	assert.NoError(t, LineRange{Start: 1, End: 1}.Validate())
	assert.NoError(t, LineRange{Start: 3, End: 10}.Validate())
	assert.NoError(t, LineRange{Start: 5, End: 0}.Validate())
	assert.NoError(t, WholeFile().Validate())

	assert.ErrorIs(t, LineRange{Start: 0, End: 5}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, LineRange{Start: -2, End: 0}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, LineRange{Start: 7, End: 3}.Validate(), ErrInvalidRange)
}

func TestLineRange_Contains(t *testing.T) {
	r := LineRange{Start: 3, End: 5}
	assert.False(t, r.Contains(2))
	assert.True(t, r.Contains(3))
	assert.True(t, r.Contains(5))
	assert.False(t, r.Contains(6))

	toEnd := LineRange{Start: 3, End: 0}
	assert.True(t, toEnd.ToEnd())
	assert.True(t, toEnd.Contains(3))
	assert.True(t, toEnd.Contains(1_000_000))
	assert.False(t, toEnd.Contains(2))
}

func TestLineRange_Beyond(t *testing.T) {
	r := LineRange{Start: 3, End: 5}
	assert.False(t, r.Beyond(5))
	assert.True(t, r.Beyond(6))

	// To-end ranges never end early.
	assert.False(t, LineRange{Start: 3}.Beyond(1_000_000))
}

func TestLineRange_String(t *testing.T) {
	assert.Equal(t, "[3,5]", LineRange{Start: 3, End: 5}.String())
	assert.Equal(t, "[3,end]", LineRange{Start: 3}.String())
}
