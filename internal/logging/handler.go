package logging

import (
	"context"
	"errors"
	"log/slog"
)

// ContextProvider returns attributes stamped onto every record, such as
// the node name.
type ContextProvider func() []slog.Attr

// fanout delivers each record to every sink enabled for its level.
type fanout struct {
	sinks   []slog.Handler
	context ContextProvider
}

// newFanout drops nil sinks. provider may be nil.
func newFanout(provider ContextProvider, sinks ...slog.Handler) *fanout {
	f := &fanout{context: provider}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range f.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle keeps going past a failing sink and reports all failures.
func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	if f.context != nil {
		r = r.Clone()
		r.AddAttrs(f.context()...)
	}

	var errs []error
	for _, s := range f.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (f *fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (f *fanout) derive(fn func(slog.Handler) slog.Handler) *fanout {
	sinks := make([]slog.Handler, len(f.sinks))
	for i, s := range f.sinks {
		sinks[i] = fn(s)
	}
	return &fanout{sinks: sinks, context: f.context}
}
