// Package logging provides structured logging for Bookmarkd built on
// log/slog, with output format and level driven by configuration.
package logging
