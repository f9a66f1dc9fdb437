package plugin

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/site"
)

// ErrAlreadyRun is returned by Run on a pipeline that has been run before.
var ErrAlreadyRun = errors.New("pipeline has already been run")

// Phase is the lifecycle state of a Pipeline.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhaseCompleted Phase = "completed"
	PhaseAborted   Phase = "aborted"
)

// Status is a snapshot of a pipeline's progress.
//
// While running, Index is the position of the current plugin. After an abort
// it is the position of the plugin that failed; after completion it equals
// the number of plugins.
type Status struct {
	Phase  Phase
	Index  int
	Plugin string
	Err    error
}

// Pipeline is an ordered list of plugins run once against a Site.
type Pipeline struct {
	mu         sync.Mutex
	plugins    []Plugin
	middleware []Middleware
	timeout    time.Duration
	status     Status
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMiddleware adds middleware around every plugin. Earlier middleware
// wraps later middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(p *Pipeline) {
		p.middleware = append(p.middleware, mw...)
	}
}

// WithoutDefaultMiddleware drops the default logging middleware.
func WithoutDefaultMiddleware() Option {
	return func(p *Pipeline) {
		p.middleware = nil
	}
}

// WithPluginTimeout gives every plugin a cooperative deadline of d. It is
// the innermost middleware so logging and metrics see the timed-out result.
func WithPluginTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.timeout = d
	}
}

// NewPipeline returns an idle pipeline with DefaultMiddleware installed.
func NewPipeline(options ...Option) *Pipeline {
	p := &Pipeline{
		middleware: DefaultMiddleware(),
		status:     Status{Phase: PhaseIdle},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// AddPlugin appends pl. Plugins added after Run has started are ignored by
// that run.
func (p *Pipeline) AddPlugin(pl Plugin) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plugins = append(p.plugins, pl)
}

// Names lists the registered plugins in execution order.
func (p *Pipeline) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.plugins))
	for _, pl := range p.plugins {
		names = append(names, pl.Name())
	}
	return names
}

// Status returns the current state of the pipeline.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Run executes every plugin in order against s, one at a time.
//
// The first plugin error stops the run: no later plugin executes, changes
// already made to s are kept, and that exact error value is returned. The
// context is checked before each plugin; once it is done Run returns
// ctx.Err(). A pipeline runs at most once.
func (p *Pipeline) Run(ctx context.Context, s *site.Site) error {
	p.mu.Lock()
	if p.status.Phase != PhaseIdle {
		p.mu.Unlock()
		return ErrAlreadyRun
	}
	plugins := slices.Clone(p.plugins)
	middleware := slices.Clone(p.middleware)
	if p.timeout > 0 {
		middleware = append(middleware, TimeoutMiddleware(p.timeout))
	}
	p.status = Status{Phase: PhaseRunning}
	p.mu.Unlock()

	for i, pl := range plugins {
		if err := ctx.Err(); err != nil {
			p.setStatus(Status{Phase: PhaseAborted, Index: i, Plugin: pl.Name(), Err: err})
			return err
		}

		p.setStatus(Status{Phase: PhaseRunning, Index: i, Plugin: pl.Name()})
		if err := Chain(pl, middleware...).Run(withIndex(ctx, i), s); err != nil {
			p.setStatus(Status{Phase: PhaseAborted, Index: i, Plugin: pl.Name(), Err: err})
			return err
		}
	}

	p.setStatus(Status{Phase: PhaseCompleted, Index: len(plugins)})
	return nil
}

func (p *Pipeline) setStatus(st Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = st
}
