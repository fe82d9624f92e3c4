package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/senglish/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateBagContract runs a suite of tests to verify that a StateBag implementation
// adheres to the defined interface contract.
func RunStateBagContract(t *testing.T, bag StateBag) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		key := prefix + "-todos"
		value := map[string]any{
			"title": "write tests",
			"done":  false,
			"tags":  []any{"a", "b"},
		}

		err := bag.Set(ctx, key, value)
		require.NoError(t, err, "Set should not return error")

		got, err := bag.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")

		m, ok := got.(map[string]any)
		require.True(t, ok, "expected object, got %T", got)
		assert.Equal(t, "write tests", m["title"])
		assert.Equal(t, false, m["done"])
		assert.Equal(t, []any{"a", "b"}, m["tags"])
	})

	t.Run("Last Write Wins", func(t *testing.T) {
		key := prefix + "-counter"
		require.NoError(t, bag.Set(ctx, key, "one"))
		require.NoError(t, bag.Set(ctx, key, "two"))

		got, err := bag.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "two", got)
	})

	t.Run("Numbers Survive", func(t *testing.T) {
		key := prefix + "-number"
		require.NoError(t, bag.Set(ctx, key, 42))

		got, err := bag.Get(ctx, key)
		require.NoError(t, err)
		// JSON persistence decodes numbers as float64.
		assert.EqualValues(t, 42, got)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := bag.Get(ctx, prefix+"-missing")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		key := prefix + "-gone"
		require.NoError(t, bag.Set(ctx, key, true))

		require.NoError(t, bag.Delete(ctx, key), "Delete should not return error")
		_, err := bag.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound, "Get after Delete should return ErrKeyNotFound")

		assert.NoError(t, bag.Delete(ctx, key), "Deleting twice is not an error")
	})

	t.Run("Keys", func(t *testing.T) {
		k1 := fmt.Sprintf("%s-k%d", prefix, 1)
		k2 := fmt.Sprintf("%s-k%d", prefix, 2)
		_ = bag.Set(ctx, k1, 1)
		_ = bag.Set(ctx, k2, 2)

		defer func() {
			_ = bag.Delete(ctx, k1)
			_ = bag.Delete(ctx, k2)
		}()

		keys, err := bag.Keys(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}
