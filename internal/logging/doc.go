// Package logging assembles the structured slog loggers shared by the
// daemon and CLI.
//
// It owns the console and JSON handlers, level and output plumbing, and a
// set of attribute helpers plus standardized field keys so every component
// emits log lines with the same shape. A no-op logger is provided for tests
// and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup.
package logging
