package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("requires search service", func(t *testing.T) {
		_, err := NewServer(&Ports{}, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingSearchService)
	})

	t.Run("succeeds with search service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}}, nil)

		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}
