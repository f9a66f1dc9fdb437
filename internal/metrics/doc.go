// Package metrics provides build and plugin metrics for sitegen.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics cost nothing unless enabled:
//
//	pipeline := plugin.NewPipeline(plugin.WithMiddleware(plugin.MetricsMiddleware(rec)))
//
// PrometheusRecorder registers its collectors on a caller-supplied registry.
// A one-shot build writes the registry to a node_exporter textfile with
// WriteTextfile; the watch server exposes it over HTTP with HTTPHandler.
package metrics
