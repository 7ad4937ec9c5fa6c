package downloads

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// mediaExtensions are the file types the sweeper is allowed to reclaim.
// Anything else in the directory is left alone.
var mediaExtensions = map[string]struct{}{
	".mp4":  {},
	".m4a":  {},
	".webm": {},
}

// Sweep scans dir once and removes regular media files whose last-modified
// time is older than maxAge. A file that fails to delete is logged and
// skipped; it does not abort the rest of the sweep. Returns the number of
// files removed.
func Sweep(dir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := mediaExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			slog.Warn("sweep: failed to stat file", "name", entry.Name(), "error", err)
			continue
		}
		if !info.Mode().IsRegular() || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			slog.Warn("sweep: failed to remove stale file", "path", path, "error", err)
			continue
		}
		slog.Info("sweep: removed stale media file", "path", path, "age", time.Since(info.ModTime()).Round(time.Minute))
		removed++
	}

	return removed, nil
}

// RunSweeper sweeps dir immediately and then on every interval tick until
// ctx is cancelled. An interval of 0 means startup-only: sweep once and
// return.
func RunSweeper(ctx context.Context, dir string, maxAge time.Duration, interval time.Duration) {
	sweep := func() {
		removed, err := Sweep(dir, maxAge)
		if err != nil {
			slog.Error("sweep: directory scan failed", "dir", dir, "error", err)
			return
		}
		if removed > 0 {
			slog.Info("sweep: finished", "dir", dir, "removed", removed)
		}
	}

	sweep()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
