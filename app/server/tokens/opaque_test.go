package tokens

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := New()
		require.NoError(t, err)
		assert.Len(t, tok, 43)
		assert.Equal(t, tok, url.QueryEscape(tok), "token must be url safe")
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}
