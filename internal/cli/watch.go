package cli

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long the script must stay quiet before it is re-run.
// Editors often emit several events for one save.
var WatchDebounce = 100 * time.Millisecond

// RunWatch re-runs the script in a fresh interpreter every time its content changes.
func RunWatch(ctx context.Context, stack *Stack, opts RunOptions) error {
	stack.Logger.Info("Starting Watcher", "path", opts.Path)
	printSystemMessage(opts.Out, "Watching '%s'. Press Ctrl+C to stop.", opts.Path)

	return watchFile(ctx, opts.Path, WatchDebounce, func(src string) {
		printSystemMessage(opts.Out, "Change detected in '%s'.", opts.Path)
		if err := runOnce(ctx, stack, opts, stripComments(src)); err != nil && !isInterrupted(err) {
			stack.Logger.Error("Runtime error", "err", err)
			printSystemMessage(opts.Out, "Error: %v", err)
		}
		printSystemMessage(opts.Out, "Waiting for changes...")
	})
}

// watchFile calls onChange with the file content on start and after every burst of
// writes that changes it. The parent directory is watched so saves that replace
// the file by rename are still seen. Writes that leave the content as it was are skipped.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func(string)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	var (
		last [sha256.Size]byte
		seen bool
	)
	check := func() {
		data, err := os.ReadFile(target)
		if err != nil {
			// Mid-rename; the following Create brings it back.
			return
		}
		sum := sha256.Sum256(data)
		if seen && sum == last {
			return
		}
		last, seen = sum, true
		onChange(string(data))
	}

	check()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher failed: %w", err)

		case <-timer.C:
			check()
		}
	}
}

// DescribeWatch is shown by the CLI help.
func DescribeWatch() string {
	return fmt.Sprintf("re-run the script whenever it is saved (debounced %s)", WatchDebounce)
}
