// Package logging assembles structured slog loggers and the attribute helpers
// used across vidscribe.
//
// It owns the console and JSON handlers, level parsing and output plumbing,
// and context-aware helpers that tag log lines with the pipeline run ID and
// stage. A no-op logger is provided for tests and for components constructed
// without one.
package logging
