package build

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/eventstore"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/plugin"
	"git.home.luguber.info/inful/sitegen/internal/plugins"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Status is the outcome of a build.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Request holds everything a build needs. Only Config is required.
type Request struct {
	Config *config.Config

	// BuildID identifies the run in logs and the journal. A random UUID is
	// used when empty.
	BuildID string

	Journal eventstore.Store
	Metrics metrics.Recorder
	Logger  *slog.Logger

	// Plugins replaces the default plugin sequence.
	Plugins []plugin.Plugin
}

// Result describes a finished build.
type Result struct {
	BuildID string
	Status  Status

	Posts   int
	Pages   int
	Skipped int

	// FailedPlugin names the plugin that aborted the build.
	FailedPlugin string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Site is the state the pipeline left behind, complete or not.
	Site *site.Site
}

// Run executes a build. The returned error is the aborting plugin's error,
// unchanged; the Result is always non-nil.
func Run(ctx context.Context, req Request) (*Result, error) {
	if req.Config == nil {
		return &Result{BuildID: req.BuildID, Status: StatusFailed}, errors.New("build: config is required")
	}
	cfg := req.Config
	logger := req.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rec := req.Metrics
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	id := req.BuildID
	if id == "" {
		id = uuid.NewString()
	}
	logger = logger.With(logfields.BuildID(id))

	var journal *eventstore.Journal
	if req.Journal != nil {
		journal = eventstore.NewJournal(req.Journal, id)
	}

	s := site.New(Metadata(cfg, id))
	steps := req.Plugins
	if steps == nil {
		steps = plugins.Default(PluginOptions(cfg, journal, rec, logger))
	}

	pipeline := plugin.NewPipeline(
		plugin.WithoutDefaultMiddleware(),
		plugin.WithMiddleware(
			plugin.LoggingMiddleware(logger),
			plugin.MetricsMiddleware(rec),
			plugin.JournalMiddleware(journal),
		),
		plugin.WithPluginTimeout(cfg.Build.PluginTimeout),
	)
	for _, p := range steps {
		pipeline.AddPlugin(p)
	}

	res := &Result{BuildID: id, StartTime: time.Now(), Site: s}
	logger.InfoContext(ctx, "Starting build",
		logfields.Path(cfg.Paths.Output),
		logfields.Count(len(steps)))

	if journal != nil {
		err := journal.BuildStarted(ctx, eventstore.BuildStartedPayload{
			OutputDir:     cfg.Paths.Output,
			PostsDir:      cfg.Paths.Posts,
			IncludeDrafts: cfg.Build.IncludeDrafts,
			Plugins:       pipeline.Names(),
		})
		if err != nil {
			logger.WarnContext(ctx, "Failed to journal build start", logfields.Error(err))
		}
	}

	runErr := pipeline.Run(ctx, s)

	res.EndTime = time.Now()
	res.Duration = res.EndTime.Sub(res.StartTime)
	res.Posts = len(s.Posts)
	res.Pages = len(s.Pages)
	res.Skipped, _ = strconv.Atoi(s.Meta(site.MetaPostsSkipped))

	outcome := metrics.BuildOutcomeSuccess
	res.Status = StatusSuccess
	if runErr != nil {
		res.FailedPlugin = pipeline.Status().Plugin
		res.Status = StatusFailed
		outcome = metrics.BuildOutcomeFailed
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			res.Status = StatusCanceled
			outcome = metrics.BuildOutcomeCanceled
		}
	}
	rec.ObserveBuildDuration(res.Duration)
	rec.IncBuildOutcome(outcome)

	if journal != nil {
		p := eventstore.BuildFinishedPayload{
			Posts:      res.Posts,
			Pages:      res.Pages,
			DurationMS: res.Duration.Milliseconds(),
			Plugin:     res.FailedPlugin,
		}
		if runErr != nil {
			p.Error = runErr.Error()
		}
		if err := journal.BuildFinished(context.WithoutCancel(ctx), p); err != nil {
			logger.WarnContext(ctx, "Failed to journal build result", logfields.Error(err))
		}
	}

	if runErr != nil {
		return res, runErr
	}
	logger.InfoContext(ctx, "Build completed",
		logfields.Count(res.Posts),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

// Metadata seeds the Site from the site section of cfg.
func Metadata(cfg *config.Config, buildID string) map[string]string {
	return map[string]string{
		site.MetaHost:               cfg.Site.Host,
		site.MetaWebsiteName:        cfg.Site.Name,
		site.MetaWebsiteDescription: cfg.Site.Description,
		site.MetaWebsiteLogoURL:     cfg.Site.LogoURL,
		site.MetaAuthorName:         cfg.Site.AuthorName,
		site.MetaTwitterHandle:      cfg.Site.TwitterHandle,
		site.MetaBuildID:            buildID,
	}
}

// PluginOptions maps cfg onto the options of the default plugins.
func PluginOptions(cfg *config.Config, journal *eventstore.Journal, rec metrics.Recorder, logger *slog.Logger) plugins.Options {
	engine := markdown.New()
	return plugins.Options{
		PostsDir:      cfg.Paths.Posts,
		PagesDir:      cfg.Paths.Pages,
		AssetsDir:     cfg.Paths.Assets,
		OutputDir:     cfg.Paths.Output,
		IncludeDrafts: cfg.Build.IncludeDrafts,
		Templates:     render.NewTemplates(cfg.Paths.Templates),
		Engine:        engine,
		Repository: content.NewRepository(
			content.WithParser(content.NewParserWithEngine(engine)),
			content.WithConcurrency(cfg.Build.Parallelism),
			content.WithLogger(logger),
		),
		Journal: journal,
		Metrics: rec,
		Logger:  logger,
	}
}
