// Package config loads the CLI and server settings from a file and the environment.
package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SENGLISH_"

// Config holds the complete application configuration.
type Config struct {
	Debug        bool          `mapstructure:"debug"`
	Warnings     bool          `mapstructure:"warnings"`
	LogLevel     string        `mapstructure:"log_level"`
	InputNode    string        `mapstructure:"input_node"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	MaxInputSize int           `mapstructure:"max_input_size"`
	// MaxScriptSize caps script files given to run; MaxInputSize caps one interactive or API turn.
	MaxScriptSize int         `mapstructure:"max_script_size"`
	State         StateConfig `mapstructure:"state"`
	HTTP          HTTPConfig  `mapstructure:"http"`
}

// StateConfig selects and configures the state bag backend.
type StateConfig struct {
	Backend       string `mapstructure:"backend"` // memory, redis or sqlite
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
	SQLitePath    string `mapstructure:"sqlite_path"`

	// EncryptionKey is a base64 AES-256 key. When set, values are sealed before
	// they reach the backend. FallbackKeys still decrypt values written before a rotation.
	EncryptionKey string   `mapstructure:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys"`

	// MaskKeys are regular expressions; matching keys are stored as "***".
	MaskKeys []string `mapstructure:"mask_keys"`
}

// HTTPConfig holds server settings.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// Backends accepted by StateConfig.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Debug:         true,
		Warnings:      true,
		LogLevel:      "info",
		InputNode:     "taskinput",
		FetchTimeout:  10 * time.Second,
		MaxInputSize:  4096,
		MaxScriptSize: 1 << 20,
		State: StateConfig{
			Backend:     BackendMemory,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "senglish:",
			SQLitePath:  "senglish.db",
		},
		HTTP: HTTPConfig{Addr: ":8080"},
	}
}

// envKeys maps environment variables to config paths.
var envKeys = map[string][]string{
	"DEBUG":                {"debug"},
	"WARNINGS":             {"warnings"},
	"LOG_LEVEL":            {"log_level"},
	"INPUT_NODE":           {"input_node"},
	"FETCH_TIMEOUT":        {"fetch_timeout"},
	"MAX_INPUT_SIZE":       {"max_input_size"},
	"MAX_SCRIPT_SIZE":      {"max_script_size"},
	"STATE_BACKEND":        {"state", "backend"},
	"STATE_REDIS_ADDR":     {"state", "redis_addr"},
	"STATE_REDIS_PASSWORD": {"state", "redis_password"},
	"STATE_REDIS_DB":       {"state", "redis_db"},
	"STATE_REDIS_PREFIX":   {"state", "redis_prefix"},
	"STATE_SQLITE_PATH":    {"state", "sqlite_path"},
	"STATE_ENCRYPTION_KEY": {"state", "encryption_key"},
	"STATE_FALLBACK_KEYS":  {"state", "fallback_keys"},
	"STATE_MASK_KEYS":      {"state", "mask_keys"},
	"HTTP_ADDR":            {"http", "addr"},
}

// Load reads path (when non-empty and present), then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := readFile(os.ExpandEnv(path))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := decode(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("invalid config %s: %w", path, err)
			}
		}
	}

	if err := decode(fromEnv(os.LookupEnv), &cfg); err != nil {
		return cfg, fmt.Errorf("invalid environment override: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch c.State.Backend {
	case BackendMemory, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("unknown state backend %q", c.State.Backend)
	}
	if c.MaxInputSize <= 0 {
		return fmt.Errorf("max_input_size must be positive, got %d", c.MaxInputSize)
	}
	if c.MaxScriptSize <= 0 {
		return fmt.Errorf("max_script_size must be positive, got %d", c.MaxScriptSize)
	}
	if _, _, err := c.State.Keys(); err != nil {
		return err
	}
	for _, p := range c.State.MaskKeys {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid mask_keys pattern %q: %w", p, err)
		}
	}
	return nil
}

// Keys decodes the encryption keys. active is nil when encryption is off.
func (s StateConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if s.EncryptionKey == "" {
		if len(s.FallbackKeys) > 0 {
			return nil, nil, errors.New("fallback_keys set without encryption_key")
		}
		return nil, nil, nil
	}
	if active, err = decodeKey("encryption_key", s.EncryptionKey); err != nil {
		return nil, nil, err
	}
	for i, k := range s.FallbackKeys {
		key, err := decodeKey(fmt.Sprintf("fallback_keys[%d]", i), k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(name, encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", name, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%s must decode to 32 bytes, got %d", name, len(key))
	}
	return key, nil
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]any)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return raw, nil
}

// fromEnv builds a nested map from the variables that are set.
func fromEnv(lookup func(string) (string, bool)) map[string]any {
	raw := make(map[string]any)
	for name, path := range envKeys {
		val, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		node := raw
		for _, key := range path[:len(path)-1] {
			child, ok := node[key].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[key] = child
			}
			node = child
		}
		node[path[len(path)-1]] = val
	}
	return raw
}

// decode merges raw onto cfg; keys absent from raw keep their current value.
func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
