package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/senglish/pkg/adapters/memory"
	"github.com/aretw0/senglish/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	// Setup
	underlying := memory.NewBag()
	// Mask keys containing "password" or "ssn"
	secure := middleware.NewPIIMiddleware([]string{"password", "ssn"})(underlying)

	ctx := context.Background()
	profile := map[string]any{
		"username":      "jdoe",
		"user_password": "secret123",
		"details": map[string]any{
			"address":    "123 St",
			"ssn_number": "999-99-9999",
		},
	}

	// 1. Set
	require.NoError(t, secure.Set(ctx, "profile", profile))
	require.NoError(t, secure.Set(ctx, "admin_password", "hunter2"))
	require.NoError(t, secure.Set(ctx, "safe_data", "public"))

	// Caller's value is not modified
	assert.Equal(t, "secret123", profile["user_password"], "middleware modified the caller's map")

	// 2. Read from the underlying bag (Should be masked)
	stored, err := underlying.Get(ctx, "profile")
	require.NoError(t, err)
	m := stored.(map[string]any)
	assert.Equal(t, "jdoe", m["username"])
	assert.Equal(t, middleware.Mask, m["user_password"])
	assert.Equal(t, middleware.Mask, m["details"].(map[string]any)["ssn_number"])
	assert.Equal(t, "123 St", m["details"].(map[string]any)["address"])

	top, err := underlying.Get(ctx, "admin_password")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, top)

	safe, err := secure.Get(ctx, "safe_data")
	require.NoError(t, err)
	assert.Equal(t, "public", safe)
}

func TestChain_MaskThenEncrypt(t *testing.T) {
	underlying := memory.NewBag()
	bag := middleware.Chain(underlying,
		middleware.NewPIIMiddleware([]string{"token"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)

	ctx := context.Background()
	require.NoError(t, bag.Set(ctx, "api_token", "abc"))

	got, err := bag.Get(ctx, "api_token")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, got)

	raw, err := underlying.Get(ctx, "api_token")
	require.NoError(t, err)
	assert.Contains(t, raw, middleware.EnvelopeField)

	keys, err := bag.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"api_token"}, keys)
}
