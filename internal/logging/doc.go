// Package logging assembles structured slog loggers for subforge.
//
// Console output is a compact single-line format meant for terminals; JSON
// output suits log shippers. When a log directory is configured every record
// is also appended as JSON to subforge.log there. Context helpers tag lines
// with the run ID, stage, and source file stored by the services package, and
// WarnWithContext enforces the event_type/error_hint/impact trio on warnings.
package logging
