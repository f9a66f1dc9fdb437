// Package watch rebuilds the site when its inputs change and can serve the
// output directory while doing so.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// DefaultDebounce is the quiet period between the last change and a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc runs one complete build.
type BuildFunc func(ctx context.Context) error

// Options configures Run.
type Options struct {
	// Dirs are watched recursively. Directories that do not exist are
	// skipped.
	Dirs  []string
	Build BuildFunc

	Debounce time.Duration

	// Addr, when set, serves OutputDir over HTTP. Registry, when set, is
	// exposed on /metrics.
	Addr      string
	OutputDir string
	Registry  *prom.Registry

	// Ready, when set, is called once the initial build has finished and the
	// server (if any) is listening, with the server's address.
	Ready func(addr string)

	Logger *slog.Logger
}

// buildStatus tracks the outcome of the latest build.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
	builds       int
	finishedAt   time.Time
}

func (bs *buildStatus) record(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.builds++
	bs.finishedAt = time.Now()
	bs.lastError = err
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) snapshot() statusResponse {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	r := statusResponse{Builds: bs.builds, HasGoodBuild: bs.hasGoodBuild, FinishedAt: bs.finishedAt}
	if bs.lastError != nil {
		r.LastError = bs.lastError.Error()
	}
	return r
}

// Run performs an initial build, then rebuilds after every burst of changes
// under opts.Dirs until ctx is done. A failed build is logged and the loop
// keeps watching.
func Run(ctx context.Context, opts Options) error {
	if opts.Build == nil {
		return errors.New("watch: build function is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	status := &buildStatus{}
	rebuild(ctx, logger, opts.Build, status)

	var srv *server
	addr := ""
	if opts.Addr != "" {
		var err error
		srv, err = startServer(opts.Addr, opts.OutputDir, opts.Registry, status, logger)
		if err != nil {
			return err
		}
		addr = srv.Addr()
		logger.InfoContext(ctx, "Serving site", logfields.Addr(addr), logfields.Path(opts.OutputDir))
	}

	watcher, err := setupFileWatcher(opts.Dirs, logger)
	if err != nil {
		stopServer(srv, logger)
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq, trigger := setupRebuildDebouncer(opts.Debounce)
	done := startRebuildWorker(ctx, logger, opts.Build, status, rebuildReq)

	if opts.Ready != nil {
		opts.Ready(addr)
	}
	err = runLoop(ctx, logger, watcher, trigger)
	stopServer(srv, logger)
	<-done
	return err
}

// setupFileWatcher watches every existing directory below dirs.
func setupFileWatcher(dirs []string, logger *slog.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if st, statErr := os.Stat(dir); statErr != nil || !st.IsDir() {
			logger.Debug("Not watching missing directory", logfields.Path(dir))
			continue
		}
		addDirsRecursive(watcher, dir, logger)
	}
	return watcher, nil
}

// setupRebuildDebouncer returns the rebuild channel and a trigger that
// sends on it once no further trigger arrived for quiet.
func setupRebuildDebouncer(quiet time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(quiet, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	return rebuildReq, trigger
}

// startRebuildWorker runs builds one at a time. rebuildReq holds at most
// one request, so changes made during a build schedule exactly one
// follow-up. The returned channel closes when the worker exits.
func startRebuildWorker(ctx context.Context, logger *slog.Logger, build BuildFunc, status *buildStatus, rebuildReq <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				logger.InfoContext(ctx, "Change detected; rebuilding site")
				rebuild(ctx, logger, build, status)
			}
		}
	}()
	return done
}

func rebuild(ctx context.Context, logger *slog.Logger, build BuildFunc, status *buildStatus) {
	start := time.Now()
	err := build(ctx)
	status.record(err)
	if err != nil {
		logger.WarnContext(ctx, "Rebuild failed", logfields.Error(err))
		return
	}
	logger.InfoContext(ctx, "Site rebuilt", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

func runLoop(ctx context.Context, logger *slog.Logger, watcher *fsnotify.Watcher, trigger func()) error {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping watcher")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(logger, watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// handleFileEvent triggers a rebuild for relevant events and starts watching
// directories created under a watched root.
func handleFileEvent(logger *slog.Logger, watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(watcher, ev.Name, logger)
		}
	}
	logger.Debug("File change detected", logfields.Path(ev.Name), logfields.Event(ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports whether path is an editor or OS artefact that
// must not trigger a rebuild.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including .#lock files
	if strings.HasPrefix(base, ".") {
		return true
	}

	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}

	return base == "Thumbs.db"
}
