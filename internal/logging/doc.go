// Package logging assembles the structured slog loggers used across
// critique.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context helpers that tag log lines with run and review identifiers. Warnings
// go through WarnWithContext so every one carries an event type, a hint and an
// impact. A no-op logger is provided for tests and wiring code that cannot
// fail.
package logging
