// Package logging assembles structured slog loggers and formatting helpers used
// across planttracker.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so engine code can tag log lines
// with correlation IDs, the signed-in user, and submission sequence numbers.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
