package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderContainsTitle(t *testing.T) {
	out, err := Render()
	require.NoError(t, err)
	assert.Contains(t, string(out), Title)
}

func TestRenderIsIdempotent(t *testing.T) {
	// The page is a pure, parameterless rendering: repeated invocations
	// must produce byte-identical output.
	first, err := Render()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Render()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestStylesheetNonEmpty(t *testing.T) {
	assert.NotEmpty(t, Stylesheet())
}
