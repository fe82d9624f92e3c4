package config

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "senglish.yaml",
			content: `
warnings: false
fetch_timeout: 3s
state:
  backend: redis
  redis_db: 2
`,
		},
		{
			name: "toml",
			file: "senglish.toml",
			content: `
warnings = false
fetch_timeout = "3s"
[state]
backend = "redis"
redis_db = 2
`,
		},
		{
			name:    "json",
			file:    "senglish.json",
			content: `{"warnings": false, "fetch_timeout": "3s", "state": {"backend": "redis", "redis_db": 2}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.False(t, cfg.Warnings)
			assert.True(t, cfg.Debug, "unset keys keep defaults")
			assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
			assert.Equal(t, BackendRedis, cfg.State.Backend)
			assert.Equal(t, 2, cfg.State.RedisDB)
			assert.Equal(t, "localhost:6379", cfg.State.RedisAddr)
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "senglish.yaml", "input_node: fromfile\nhttp:\n  addr: \":9000\"\n")
	t.Setenv("SENGLISH_INPUT_NODE", "fromenv")
	t.Setenv("SENGLISH_DEBUG", "false")
	t.Setenv("SENGLISH_STATE_BACKEND", "sqlite")
	t.Setenv("SENGLISH_STATE_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("SENGLISH_MAX_SCRIPT_SIZE", "2048")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fromenv", cfg.InputNode)
	assert.False(t, cfg.Debug)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, BackendSQLite, cfg.State.Backend)
	assert.Equal(t, "/tmp/x.db", cfg.State.SQLitePath)
	assert.Equal(t, 2048, cfg.MaxScriptSize)
	assert.Equal(t, 4096, cfg.MaxInputSize)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "state:\n  backend: cassandra\n"))
	assert.ErrorContains(t, err, "unknown state backend")

	_, err = Load(writeFile(t, "typo.yaml", "debgu: true\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "senglish.ini", "debug=true"))
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestLoad_StateFilters(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	old := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{9}, 32))
	t.Setenv("SENGLISH_STATE_ENCRYPTION_KEY", key)
	t.Setenv("SENGLISH_STATE_FALLBACK_KEYS", old)
	t.Setenv("SENGLISH_STATE_MASK_KEYS", "password,^ssn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"password", "^ssn"}, cfg.State.MaskKeys)

	active, fallback, err := cfg.State.Keys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	require.Len(t, fallback, 1)
	assert.Equal(t, byte(9), fallback[0][0])
}

func TestStateConfig_KeysErrors(t *testing.T) {
	tests := []struct {
		name  string
		state StateConfig
		want  string
	}{
		{"not base64", StateConfig{EncryptionKey: "%%%"}, "not valid base64"},
		{"short key", StateConfig{EncryptionKey: base64.StdEncoding.EncodeToString([]byte("short"))}, "32 bytes"},
		{"fallback alone", StateConfig{FallbackKeys: []string{"x"}}, "without encryption_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.state.Keys()
			assert.ErrorContains(t, err, tt.want)
		})
	}

	cfg := Default()
	cfg.State.MaskKeys = []string{"("}
	assert.ErrorContains(t, cfg.Validate(), "invalid mask_keys pattern")
}
