package core

import (
	"context"
	"log/slog"
)

// nopHandler is a slog.Handler that discards all records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// NopLogger returns a logger that silently discards all output
func NopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// LoggerOrNop returns l, or a discarding logger when l is nil
func LoggerOrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return NopLogger()
	}
	return l
}
