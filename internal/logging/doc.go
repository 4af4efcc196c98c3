// Package logging provides a simple leveled logging interface for the
// image indexer.
//
// It supports the following log levels:
//   - DEBUG: per-item failures that are swallowed by tolerant batches
//   - INFO: run progress and summaries
//   - WARN: degraded operation (unreadable roots, failed metric export)
//   - ERROR: failures surfaced to the caller
//   - FATAL: errors that terminate the command
//
// The level comes from the DEBUG or LOG_LEVEL environment variables and can
// be overridden with SetLevel, which the CLI does for -log-level.
package logging
