package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/senglish/internal/config"
	"github.com/aretw0/senglish/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStack(t *testing.T, mutate func(*config.Config)) *Stack {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	stack, err := NewStack(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stack.Close() })
	return stack
}

func TestStack_Backends(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"memory", nil},
		{"sqlite", func(c *config.Config) {
			c.State.Backend = config.BackendSQLite
			c.State.SQLitePath = filepath.Join(t.TempDir(), "state.db")
		}},
		{"redis", func(c *config.Config) {
			c.State.Backend = config.BackendRedis
			c.State.RedisAddr = mr.Addr()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack := newStack(t, tt.mutate)
			ctx := context.Background()

			a, err := stack.Interpreter("a")
			require.NoError(t, err)
			defer a.Close()
			b, err := stack.Interpreter("b")
			require.NoError(t, err)
			defer b.Close()

			require.NoError(t, a.State().Set(ctx, "k", "from-a"))

			got, err := a.State().Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "from-a", got)

			_, err = b.State().Get(ctx, "k")
			assert.Error(t, err, "sessions must not share state")
		})
	}
}

func TestStack_RedisUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.State.Backend = config.BackendRedis
	cfg.State.RedisAddr = "127.0.0.1:1"

	_, err := NewStack(context.Background(), cfg, logging.NewNop())
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestStack_ManagerUsesLockerOnRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	stack := newStack(t, func(c *config.Config) {
		c.State.Backend = config.BackendRedis
		c.State.RedisAddr = mr.Addr()
	})

	mgr := stack.Manager()
	defer mgr.Close()

	report, err := mgr.Cmd(context.Background(), "s1", `create div named x`)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.False(t, mr.Exists("senglish:lock:s1"), "lock released after the call")
}

func TestStack_StateFilters(t *testing.T) {
	mr := miniredis.RunT(t)
	stack := newStack(t, func(c *config.Config) {
		c.State.Backend = config.BackendRedis
		c.State.RedisAddr = mr.Addr()
		c.State.EncryptionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32))
		c.State.MaskKeys = []string{"password"}
	})
	ctx := context.Background()

	in, err := stack.Interpreter("enc")
	require.NoError(t, err)
	defer in.Close()

	require.NoError(t, in.State().Set(ctx, "greeting", "hello"))
	require.NoError(t, in.State().Set(ctx, "password", "hunter2"))

	got, err := in.State().Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	masked, err := in.State().Get(ctx, "password")
	require.NoError(t, err)
	assert.Equal(t, "***", masked)

	raw := mr.HGet("senglish:enc:state", "greeting")
	assert.Contains(t, raw, "__encrypted__")
	assert.NotContains(t, raw, "hello")
}

func TestStack_InvalidKey(t *testing.T) {
	cfg := config.Default()
	cfg.State.EncryptionKey = "c2hvcnQ="

	_, err := NewStack(context.Background(), cfg, logging.NewNop())
	assert.ErrorContains(t, err, "32 bytes")
}
