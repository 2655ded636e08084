package logger

import "log/slog"

// NewNope returns a logger that drops every record. Library packages fall
// back to it when no logger is injected, so logging stays opt-in.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
