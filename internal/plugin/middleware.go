package plugin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/eventstore"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Middleware decorates a plugin with a cross-cutting concern. Middleware must
// return the wrapped plugin's error value as is.
type Middleware func(Plugin) Plugin

// Chain applies multiple middleware to a plugin in order.
func Chain(pl Plugin, middlewares ...Middleware) Plugin {
	// Apply middleware in reverse order so they execute in the correct order
	for i := len(middlewares) - 1; i >= 0; i-- {
		pl = middlewares[i](pl)
	}
	return pl
}

type wrapped struct {
	inner Plugin
	run   RunFunc
}

func (w *wrapped) Name() string { return w.inner.Name() }

func (w *wrapped) Run(ctx context.Context, s *site.Site) error { return w.run(ctx, s) }

// Wrap returns a plugin with inner's name and a replacement body.
func Wrap(inner Plugin, run RunFunc) Plugin {
	return &wrapped{inner: inner, run: run}
}

// LoggingMiddleware logs "Running plugin" before each plugin and its outcome
// after. A nil logger means slog.Default() at run time.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(pl Plugin) Plugin {
		return Wrap(pl, func(ctx context.Context, s *site.Site) error {
			log := logger
			if log == nil {
				log = slog.Default()
			}
			log.InfoContext(ctx, "Running plugin", logfields.Plugin(pl.Name()))

			start := time.Now()
			err := pl.Run(ctx, s)
			ms := float64(time.Since(start).Microseconds()) / 1000
			if err != nil {
				log.ErrorContext(ctx, "Plugin failed",
					logfields.Plugin(pl.Name()),
					logfields.DurationMS(ms),
					logfields.Error(err))
				return err
			}
			log.DebugContext(ctx, "Plugin completed",
				logfields.Plugin(pl.Name()),
				logfields.DurationMS(ms))
			return nil
		})
	}
}

// MetricsMiddleware records duration and outcome of each plugin.
func MetricsMiddleware(rec metrics.Recorder) Middleware {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return func(pl Plugin) Plugin {
		return Wrap(pl, func(ctx context.Context, s *site.Site) error {
			start := time.Now()
			err := pl.Run(ctx, s)
			rec.ObservePluginDuration(pl.Name(), time.Since(start))
			rec.IncPluginResult(pl.Name(), resultLabel(err))
			return err
		})
	}
}

func resultLabel(err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ResultCanceled
	default:
		return metrics.ResultFailed
	}
}

// JournalMiddleware appends start and finish events for each plugin. Journal
// write failures are logged and never fail the plugin.
func JournalMiddleware(j *eventstore.Journal) Middleware {
	return func(pl Plugin) Plugin {
		if j == nil {
			return pl
		}
		return Wrap(pl, func(ctx context.Context, s *site.Site) error {
			idx := IndexFromContext(ctx)
			if jerr := j.PluginStarted(ctx, pl.Name(), idx); jerr != nil {
				slog.WarnContext(ctx, "Failed to journal plugin start", logfields.Plugin(pl.Name()), logfields.Error(jerr))
			}

			start := time.Now()
			err := pl.Run(ctx, s)

			// Record even when the run context has been cancelled.
			if jerr := j.PluginFinished(context.WithoutCancel(ctx), pl.Name(), idx, time.Since(start), err); jerr != nil {
				slog.WarnContext(ctx, "Failed to journal plugin result", logfields.Plugin(pl.Name()), logfields.Error(jerr))
			}
			return err
		})
	}
}

// TimeoutMiddleware gives each plugin a context deadline of d. The deadline
// is cooperative: a plugin that ignores its context runs to completion.
// A non-positive d disables the deadline.
func TimeoutMiddleware(d time.Duration) Middleware {
	return func(pl Plugin) Plugin {
		if d <= 0 {
			return pl
		}
		return Wrap(pl, func(ctx context.Context, s *site.Site) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return pl.Run(ctx, s)
		})
	}
}

// DefaultMiddleware returns the standard middleware stack.
func DefaultMiddleware() []Middleware {
	return []Middleware{
		LoggingMiddleware(nil),
	}
}
