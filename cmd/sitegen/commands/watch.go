package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Serve  string `help:"Serve the output directory on this address, e.g. :8000"`
	Drafts bool   `help:"Include posts marked publish: draft"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, func(c *config.Config) {
		if w.Drafts {
			c.Build.IncludeDrafts = true
		}
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// One registry for the whole session so /metrics accumulates across
	// rebuilds.
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	return watch.Run(ctx, watch.Options{
		Dirs: []string{cfg.Paths.Posts, cfg.Paths.Pages, cfg.Paths.Assets, cfg.Paths.Templates},
		Build: func(ctx context.Context) error {
			_, err := build.Run(ctx, build.Request{Config: cfg, Metrics: rec})
			return err
		},
		Addr:      w.Serve,
		OutputDir: cfg.Paths.Output,
		Registry:  reg,
	})
}
