package plugins

import (
	"context"
	"strconv"

	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Posts discovers the posts directory and fills Site.Posts, newest first.
// Two posts resolving to the same permalink fail the build.
//
// Posts with publish: draft are parsed but left out of the site unless
// IncludeDrafts is set (build --drafts, watch --drafts). With it, every
// parsed post is published and drafts remain detectable via Post.IsDraft.
type Posts struct {
	opts Options
}

// NewPosts returns the posts discovery plugin.
func NewPosts(opts Options) *Posts { return &Posts{opts: opts.withDefaults()} }

func (*Posts) Name() string { return "posts" }

func (p *Posts) Run(ctx context.Context, s *site.Site) error {
	res, err := p.opts.Repository.Load(ctx, p.opts.PostsDir)
	if err != nil {
		return err
	}

	for _, f := range res.Failures {
		if p.opts.Journal == nil {
			break
		}
		if jerr := p.opts.Journal.ContentSkipped(ctx, f.Path, f.Err); jerr != nil {
			p.opts.Logger.WarnContext(ctx, "Failed to journal skipped file", logfields.File(f.Path), logfields.Error(jerr))
		}
	}
	p.opts.Metrics.AddContentFailures(len(res.Failures))

	posts := make([]content.Post, 0, len(res.Posts))
	for _, post := range res.Posts {
		if post.IsDraft() && !p.opts.IncludeDrafts {
			p.opts.Logger.InfoContext(ctx, "Skipping draft", logfields.File(post.SourcePath()))
			continue
		}
		posts = append(posts, post)
	}

	if err := content.CheckUniquePermalinks(posts); err != nil {
		return err
	}
	site.SortNewestFirst(posts)

	s.Posts = posts
	s.Metadata[site.MetaPostsCount] = strconv.Itoa(len(posts))
	s.Metadata[site.MetaPostsSkipped] = strconv.Itoa(len(res.Failures))
	p.opts.Metrics.SetPostsLoaded(len(posts))

	p.opts.Logger.InfoContext(ctx, "Loaded posts",
		logfields.Count(len(posts)),
		logfields.Path(p.opts.PostsDir))
	return nil
}
