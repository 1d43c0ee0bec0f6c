package logx

import "log/slog"

type slogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter wraps a *slog.Logger in the Logger interface.
func NewSlogAdapter(l *slog.Logger) Logger {
	return &slogAdapter{l: l}
}

func (s *slogAdapter) Debug(msg string, fields ...Field) { s.l.Debug(msg, attrs(fields)...) }

func (s *slogAdapter) Info(msg string, fields ...Field) { s.l.Info(msg, attrs(fields)...) }

func (s *slogAdapter) Warn(msg string, fields ...Field) { s.l.Warn(msg, attrs(fields)...) }

func (s *slogAdapter) Error(msg string, fields ...Field) { s.l.Error(msg, attrs(fields)...) }

// With binds fields to every subsequent entry of the returned logger.
func (s *slogAdapter) With(fields ...Field) Logger {
	return &slogAdapter{l: s.l.With(attrs(fields)...)}
}

// Sync is a no-op; slog handlers do not buffer.
func (s *slogAdapter) Sync() error { return nil }

func attrs(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}
