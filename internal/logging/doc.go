// Package logging builds the slog loggers used across the pipeline.
//
// Two output formats are supported: "console" (slog text handler, the
// default) and "json" (one object per line with ts/level/msg keys). Components
// take a *slog.Logger and treat nil as "discard".
package logging
