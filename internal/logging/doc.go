// Package logging assembles the structured slog loggers used by the xlmacro
// CLI.
//
// It owns the console and JSON handlers and the level plumbing. The console
// handler promotes the "macro" attribute into the line header so interleaved
// runs stay readable; every other attribute is listed below the message.
package logging
