// Package plugin sequences the build stages of a site over shared state.
//
// A Pipeline runs its plugins one at a time, in registration order, against a
// single *site.Site. The first failing plugin aborts the run and its error is
// returned to the caller unchanged.
package plugin

import (
	"context"

	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Plugin is one named build stage.
type Plugin interface {
	// Name identifies the plugin in logs, metrics and the build journal.
	Name() string

	// Run performs the stage. It may read and mutate s; it must not retain s
	// after returning.
	Run(ctx context.Context, s *site.Site) error
}

// RunFunc is the signature of a plugin body.
type RunFunc func(ctx context.Context, s *site.Site) error

type funcPlugin struct {
	name string
	run  RunFunc
}

// New returns a Plugin from a name and a function.
func New(name string, run RunFunc) Plugin {
	return &funcPlugin{name: name, run: run}
}

func (p *funcPlugin) Name() string { return p.name }

func (p *funcPlugin) Run(ctx context.Context, s *site.Site) error { return p.run(ctx, s) }

type indexKey struct{}

// IndexFromContext returns the position of the running plugin in its
// pipeline, or -1 outside a pipeline run.
func IndexFromContext(ctx context.Context) int {
	if i, ok := ctx.Value(indexKey{}).(int); ok {
		return i
	}
	return -1
}

func withIndex(ctx context.Context, i int) context.Context {
	return context.WithValue(ctx, indexKey{}, i)
}
