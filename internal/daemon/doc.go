// Package daemon runs batch preprocessing on a cron schedule.
//
// A Daemon holds a flock on its own lock file so only one scheduler runs per
// data directory, triggers the preprocess runner on batch.schedule, prunes old
// log files, and optionally hosts the HTTP API for the lifetime of the
// process. Overlapping runs are skipped rather than queued: the runner's own
// lock reports ErrRunInProgress and the tick is logged and dropped.
package daemon
