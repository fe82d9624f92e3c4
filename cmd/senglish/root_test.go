package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	assert.Contains(t, execute(t, "version"), "senglish version")
}

func TestVocabCommand(t *testing.T) {
	out := execute(t, "vocab", "--raw")
	assert.Contains(t, out, "| `create` |")
	assert.Contains(t, out, "| `when` |")
}

func TestRunCommand_JSON(t *testing.T) {
	script := filepath.Join(t.TempDir(), "hello.sen")
	require.NoError(t, os.WriteFile(script, []byte(`create div named hello with text "Hello"`), 0o644))

	out := execute(t, "run", script, "--json", "--tree", "--quiet")
	assert.True(t, strings.Contains(out, `"ok": true`), out)
	assert.Contains(t, out, `"Hello"`)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.sen")
	require.NoError(t, os.WriteFile(good, []byte("# greeting\ncreate div named hello\n.. when hello is click do toggleClass lit on hello end\n"), 0o644))
	assert.Contains(t, execute(t, "validate", good, "--quiet"), "good.sen")

	bad := filepath.Join(dir, "bad.sen")
	require.NoError(t, os.WriteFile(bad, []byte(`create div named a .. jump a`), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"validate", bad, "--quiet"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, out.String(), "#2 unknown command: jump")
}
