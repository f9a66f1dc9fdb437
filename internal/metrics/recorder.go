package metrics

import "time"

// ResultLabel enumerates plugin result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel enumerates final build outcomes.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for build and plugin metrics. Implementations
// may forward to Prometheus or elsewhere. Components default to NoopRecorder so
// callers never nil-check.
type Recorder interface {
	ObservePluginDuration(plugin string, d time.Duration)
	IncPluginResult(plugin string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetPostsLoaded(n int)
	AddContentFailures(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePluginDuration(string, time.Duration) {}
func (NoopRecorder) IncPluginResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)          {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)           {}
func (NoopRecorder) SetPostsLoaded(int)                          {}
func (NoopRecorder) AddContentFailures(int)                      {}
