// Package main hosts the critique CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, opens the SQLite store
// and the configured models on demand, and surfaces the preprocessing
// pipeline: one-off normalize/analyze calls, catalog and review imports,
// batch runs, the HTTP API and the scheduled daemon.
package main
