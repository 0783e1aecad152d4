package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// PruneLogs removes files in dir matching pattern whose modification time is
// older than retentionDays. Zero disables pruning. It returns the number of
// files removed.
func PruneLogs(logger *slog.Logger, dir, pattern string, retentionDays int, now time.Time) int {
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if pattern != "" {
			if ok, err := filepath.Match(pattern, name); err != nil || !ok {
				continue
			}
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check file permissions on the log directory"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("log pruned", String("path", path), String(FieldEventType, "log_pruned"))
		}
	}
	return removed
}
