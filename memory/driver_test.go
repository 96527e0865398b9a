package memory_test

import (
	"context"
	"testing"

	"github.com/fwojciec/contentobj/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns the wrapped bytes", func(t *testing.T) {
		t.Parallel()

		d := memory.NewStringDriver("hello", nil)

		data, err := d.Content(ctx)

		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
		assert.True(t, d.Available(ctx))
	})

	t.Run("synthesizes metadata with caller extras", func(t *testing.T) {
		t.Parallel()

		d := memory.NewDriver([]byte("abc"), map[string]any{"name": "snippet.html"})

		meta, err := d.Metadata(ctx)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"size": 3, "type": "inline", "name": "snippet.html"}, meta)
	})

	t.Run("decodes text by sniffing the encoding", func(t *testing.T) {
		t.Parallel()

		text, err := memory.NewDriver([]byte{0xFF, 0xFE, 'o', 0, 'k', 0}, nil).Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ok", text)

		text, err = memory.NewDriver([]byte("caf\xE9"), nil).Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "café", text)
	})

	t.Run("handles strings and bytes only", func(t *testing.T) {
		t.Parallel()

		assert.True(t, memory.CanHandle("x"))
		assert.True(t, memory.CanHandle([]byte("x")))
		assert.False(t, memory.CanHandle(42))
	})
}
