package plugin

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/eventstore"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

type fakeRecorder struct {
	metrics.NoopRecorder
	durations map[string]int
	results   map[string]metrics.ResultLabel
}

func (f *fakeRecorder) ObservePluginDuration(plugin string, _ time.Duration) {
	f.durations[plugin]++
}

func (f *fakeRecorder) IncPluginResult(plugin string, result metrics.ResultLabel) {
	f.results[plugin] = result
}

func TestChain_OrderOutermostFirst(t *testing.T) {
	var calls []string
	mw := func(tag string) Middleware {
		return func(pl Plugin) Plugin {
			return Wrap(pl, func(ctx context.Context, s *site.Site) error {
				calls = append(calls, tag)
				return pl.Run(ctx, s)
			})
		}
	}
	pl := Chain(New("inner", func(context.Context, *site.Site) error {
		calls = append(calls, "inner")
		return nil
	}), mw("first"), mw("second"))

	require.Equal(t, "inner", pl.Name())
	require.NoError(t, pl.Run(t.Context(), site.New(nil)))
	require.Equal(t, []string{"first", "second", "inner"}, calls)
}

func TestLoggingMiddleware_LogsRunningPlugin(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := NewPipeline(WithoutDefaultMiddleware(), WithMiddleware(LoggingMiddleware(logger)))
	p.AddPlugin(New("feed", func(context.Context, *site.Site) error { return nil }))
	p.AddPlugin(New("sitemap", func(context.Context, *site.Site) error { return errors.New("disk full") }))

	require.Error(t, p.Run(t.Context(), site.New(nil)))

	out := buf.String()
	require.Contains(t, out, `msg="Running plugin" plugin=feed`)
	require.Contains(t, out, `msg="Running plugin" plugin=sitemap`)
	require.Contains(t, out, `msg="Plugin failed" plugin=sitemap`)
	require.Contains(t, out, `error="disk full"`)
}

func TestMetricsMiddleware_RecordsOutcome(t *testing.T) {
	rec := &fakeRecorder{durations: map[string]int{}, results: map[string]metrics.ResultLabel{}}

	p := NewPipeline(WithoutDefaultMiddleware(), WithMiddleware(MetricsMiddleware(rec)))
	p.AddPlugin(New("ok", func(context.Context, *site.Site) error { return nil }))
	p.AddPlugin(New("slow", func(context.Context, *site.Site) error { return context.DeadlineExceeded }))

	require.ErrorIs(t, p.Run(t.Context(), site.New(nil)), context.DeadlineExceeded)
	require.Equal(t, 1, rec.durations["ok"])
	require.Equal(t, metrics.ResultSuccess, rec.results["ok"])
	require.Equal(t, metrics.ResultCanceled, rec.results["slow"])
}

func TestTimeoutMiddleware_SetsDeadline(t *testing.T) {
	var hadDeadline bool
	pl := TimeoutMiddleware(50*time.Millisecond)(New("x", func(ctx context.Context, _ *site.Site) error {
		_, hadDeadline = ctx.Deadline()
		<-ctx.Done()
		return ctx.Err()
	}))

	err := pl.Run(t.Context(), site.New(nil))
	require.True(t, hadDeadline)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	same := New("y", func(context.Context, *site.Site) error { return nil })
	require.True(t, TimeoutMiddleware(0)(same) == same)
}

func TestJournalMiddleware_RecordsPluginEvents(t *testing.T) {
	store, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	journal := eventstore.NewJournal(store, "b1")
	p := NewPipeline(WithoutDefaultMiddleware(), WithMiddleware(JournalMiddleware(journal)))
	p.AddPlugin(New("build", func(context.Context, *site.Site) error { return nil }))
	p.AddPlugin(New("posts", func(context.Context, *site.Site) error { return errors.New("bad") }))

	require.Error(t, p.Run(t.Context(), site.New(nil)))

	events, err := store.GetByBuildID(t.Context(), "b1")
	require.NoError(t, err)
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type())
	}
	require.Equal(t, []string{
		eventstore.TypePluginStarted, eventstore.TypePluginCompleted,
		eventstore.TypePluginStarted, eventstore.TypePluginFailed,
	}, types)

	failed, err := eventstore.DecodePayload[eventstore.PluginPayload](events[3])
	require.NoError(t, err)
	require.Equal(t, "posts", failed.Plugin)
	require.Equal(t, 1, failed.Index)
	require.Equal(t, "bad", failed.Error)
}
