package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeLog struct {
	mu   sync.Mutex
	seen []string
}

func (c *changeLog) add(src string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, src)
}

func (c *changeLog) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.seen...)
}

func startWatch(t *testing.T, path string, log *changeLog) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, log.add)
	}()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	// The first run happens once the directory is watched.
	require.Eventually(t, func() bool { return len(log.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestWatchFile_RunsOnStartAndOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.sen")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	log := &changeLog{}
	startWatch(t, path, log)

	// 1. Rewriting identical content is not a change.
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"v1"}, log.snapshot())

	// 2. New content runs again.
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	assert.Eventually(t, func() bool { return len(log.snapshot()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"v1", "v2"}, log.snapshot())
}

func TestWatchFile_SaveByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "w.sen")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	log := &changeLog{}
	startWatch(t, path, log)

	// Editors write a temporary file and move it over the original.
	tmp := filepath.Join(dir, ".w.sen.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("v2"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool { return len(log.snapshot()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "v2", log.snapshot()[1])
}

func TestWatchFile_BurstIsDebounced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.sen")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0o644))

	log := &changeLog{}
	startWatch(t, path, log)

	for _, v := range []string{"v1", "v2", "v3"} {
		require.NoError(t, os.WriteFile(path, []byte(v), 0o644))
	}

	assert.Eventually(t, func() bool { return len(log.snapshot()) >= 2 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	got := log.snapshot()
	assert.Equal(t, "v3", got[len(got)-1])
	assert.Less(t, len(got), 4, "a burst of writes should not run once per write")
}

func TestWatchFile_MissingDirectory(t *testing.T) {
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "nope", "w.sen"), time.Millisecond, func(string) {})
	assert.ErrorContains(t, err, "failed to watch")
}
