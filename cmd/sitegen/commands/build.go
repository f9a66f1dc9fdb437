package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/eventstore"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output        string        `short:"o" help:"Output directory (overrides paths.output)" type:"path"`
	Drafts        bool          `help:"Include posts marked publish: draft"`
	Journal       string        `help:"Append build events to this SQLite database" type:"path"`
	MetricsFile   string        `name:"metrics-file" help:"Write Prometheus metrics to this file after the build" type:"path"`
	PluginTimeout time.Duration `name:"plugin-timeout" help:"Deadline for each plugin; 0 disables it"`
	Parallel      int           `help:"Number of post files parsed concurrently"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, b.apply)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return RunBuild(ctx, cfg, g.out())
}

// apply copies explicitly set flags over the configuration.
func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Output != "" {
		cfg.Paths.Output = b.Output
	}
	if b.Drafts {
		cfg.Build.IncludeDrafts = true
	}
	if b.Journal != "" {
		cfg.Build.Journal = b.Journal
	}
	if b.MetricsFile != "" {
		cfg.Build.MetricsFile = b.MetricsFile
	}
	if b.PluginTimeout != 0 {
		cfg.Build.PluginTimeout = b.PluginTimeout
	}
	if b.Parallel > 0 {
		cfg.Build.Parallelism = b.Parallel
	}
}

// RunBuild performs one build with journal and metrics as configured and
// prints a summary to out. Plugin errors come back as plugin-category
// SiteErrors naming the failed plugin.
func RunBuild(ctx context.Context, cfg *config.Config, out io.Writer) error {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	req := build.Request{Config: cfg, Metrics: rec}
	if cfg.Build.Journal != "" {
		store, err := eventstore.NewSQLiteStore(cfg.Build.Journal)
		if err != nil {
			return serrors.OutputFailed(cfg.Build.Journal, err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close journal", logfields.Path(cfg.Build.Journal), logfields.Error(err))
			}
		}()
		req.Journal = store
	}

	res, err := build.Run(ctx, req)

	if cfg.Build.MetricsFile != "" {
		if werr := metrics.WriteTextfile(cfg.Build.MetricsFile, reg); werr != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(cfg.Build.MetricsFile), logfields.Error(werr))
		}
	}

	if err != nil {
		return classify(res, err)
	}
	_, _ = fmt.Fprintf(out, "Built %d posts and %d pages into %s in %s (build %s)\n",
		res.Posts, res.Pages, cfg.Paths.Output, res.Duration.Round(time.Millisecond), res.BuildID)
	if res.Skipped > 0 {
		_, _ = fmt.Fprintf(out, "Skipped %d invalid post files; see the log for details\n", res.Skipped)
	}
	return nil
}

// classify wraps a build error once for the CLI error adapter.
func classify(res *build.Result, err error) error {
	if errors.Is(err, context.Canceled) && res != nil && res.Status == build.StatusCanceled {
		return serrors.Wrap(err, serrors.CategoryRuntime, serrors.SeverityError, "build canceled")
	}
	plugin := ""
	if res != nil {
		plugin = res.FailedPlugin
	}
	return serrors.PluginFailed(plugin, err)
}
