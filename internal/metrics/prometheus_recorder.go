package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitegen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	pluginDuration  *prom.HistogramVec
	pluginResults   *prom.CounterVec
	buildDuration   prom.Histogram
	buildOutcome    *prom.CounterVec
	postsLoaded     prom.Gauge
	contentFailures prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.pluginDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "plugin_duration_seconds",
			Help:      "Duration of individual pipeline plugins",
			Buckets:   prom.DefBuckets,
		}, []string{"plugin"})
		pr.pluginResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "plugin_results_total",
			Help:      "Plugin result counts by outcome",
		}, []string{"plugin", "result"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.postsLoaded = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "posts_loaded",
			Help:      "Posts published by the last build",
		})
		pr.contentFailures = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "content_failures_total",
			Help:      "Content files skipped because they failed to parse",
		})
		reg.MustRegister(pr.pluginDuration, pr.pluginResults, pr.buildDuration, pr.buildOutcome, pr.postsLoaded, pr.contentFailures)
	})
	return pr
}

func (p *PrometheusRecorder) ObservePluginDuration(plugin string, d time.Duration) {
	if p == nil || p.pluginDuration == nil {
		return
	}
	p.pluginDuration.WithLabelValues(plugin).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPluginResult(plugin string, result ResultLabel) {
	if p == nil || p.pluginResults == nil {
		return
	}
	p.pluginResults.WithLabelValues(plugin, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetPostsLoaded(n int) {
	if p == nil || p.postsLoaded == nil {
		return
	}
	p.postsLoaded.Set(float64(n))
}

func (p *PrometheusRecorder) AddContentFailures(n int) {
	if p == nil || p.contentFailures == nil || n <= 0 {
		return
	}
	p.contentFailures.Add(float64(n))
}
