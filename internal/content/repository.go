package content

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Failure records a file that was skipped during loading.
type Failure struct {
	Path string
	Err  error
}

// LoadResult is the outcome of loading a content directory.
type LoadResult struct {
	Posts    []Post
	Failures []Failure
}

// Repository loads every post in a flat content directory.
type Repository struct {
	parser      *Parser
	concurrency int
	logger      *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithConcurrency parses up to n files at once. Values below 1 mean serial.
func WithConcurrency(n int) Option {
	return func(r *Repository) { r.concurrency = n }
}

// WithParser replaces the default parser.
func WithParser(p *Parser) Option {
	return func(r *Repository) { r.parser = p }
}

// WithLogger sets the logger for skipped files. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRepository returns a serial Repository using the default parser.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{parser: defaultParser, concurrency: 1, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadAll returns the valid posts in dir, in directory listing order. Files
// that fail to parse are logged and skipped.
func (r *Repository) LoadAll(ctx context.Context, dir string) ([]Post, error) {
	res, err := r.Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	return res.Posts, nil
}

// Load is LoadAll that also reports the skipped files.
//
// Only an unreadable directory or a cancelled context is an error. The
// directory is not walked recursively and only *.md files are considered.
func (r *Repository) Load(ctx context.Context, dir string) (LoadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return LoadResult{}, serrors.DirectoryUnreadable(dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			r.logger.Debug("Skipping non-markdown entry", logfields.Path(filepath.Join(dir, e.Name())))
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	results := runOrdered(paths, r.concurrency, func(path string) (Post, error) {
		if err := ctx.Err(); err != nil {
			return Post{}, err
		}
		return r.parser.Parse(path)
	})
	if err := ctx.Err(); err != nil {
		return LoadResult{}, err
	}

	res := LoadResult{Posts: make([]Post, 0, len(results))}
	for i, out := range results {
		if out.Err != nil {
			r.logger.Warn("Skipping invalid content file",
				logfields.File(paths[i]),
				logfields.Error(out.Err))
			res.Failures = append(res.Failures, Failure{Path: paths[i], Err: out.Err})
			continue
		}
		res.Posts = append(res.Posts, out.Value)
	}
	return res, nil
}
