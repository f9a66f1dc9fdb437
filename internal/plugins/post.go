package plugins

import (
	"context"
	"fmt"
	"html"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/content"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// PostPages writes one <out>/<permalink>/index.html per post. A permalink
// equal to the slug of a page already rendered by the pages plugin fails the
// run with content.ErrDuplicatePermalink before any post is written.
type PostPages struct {
	opts Options
}

// NewPostPages returns the post plugin.
func NewPostPages(opts Options) *PostPages { return &PostPages{opts: opts.withDefaults()} }

func (*PostPages) Name() string { return "post" }

func (p *PostPages) Run(ctx context.Context, s *site.Site) error {
	tmpl, err := p.opts.Templates.Load(render.TemplatePost)
	if err != nil {
		return err
	}
	if err := p.checkPageCollisions(s); err != nil {
		return err
	}
	base := siteValues(s)

	for _, post := range s.Posts {
		if err := ctx.Err(); err != nil {
			return err
		}

		permalink := post.Permalink()
		if permalink == "" || !filepath.IsLocal(permalink) {
			return serrors.ContentRejected(post.SourcePath(),
				fmt.Errorf("permalink %q escapes the output directory", permalink))
		}

		fm := post.FrontMatter()
		values := render.Values{
			"post_date_timestamp":      post.Date(),
			"post_date_human_readable": humanDate(post.Date()),
			"post_title":               html.EscapeString(post.Title()),
			"post_description":         html.EscapeString(fm.Description()),
			"post_keywords":            html.EscapeString(fm.Keywords()),
			"post_content":             post.HTML(),
			"post_url":                 postURL(s, post),
			"post_image_url":           s.Meta(site.MetaWebsiteLogoURL),
			"theme_class":              fm.ThemeClass(),
		}
		for k, v := range base {
			values[k] = v
		}

		out, err := render.WriteIndex(p.opts.OutputDir, permalink, render.Fill(tmpl, values))
		if err != nil {
			return serrors.OutputFailed(out, err)
		}
		p.opts.Logger.DebugContext(ctx, "Rendered post", logfields.Permalink(permalink), logfields.Path(out))
	}
	return nil
}

func (p *PostPages) checkPageCollisions(s *site.Site) error {
	if len(s.Pages) == 0 {
		return nil
	}
	slugs := make(map[string]struct{}, len(s.Pages))
	for _, page := range s.Pages {
		slugs[page.Slug] = struct{}{}
	}
	for _, post := range s.Posts {
		link := post.Permalink()
		if _, ok := slugs[link]; ok {
			return serrors.ContentRejected(post.SourcePath(), &content.DuplicatePermalinkError{
				Permalink: link,
				First:     filepath.Join(p.opts.PagesDir, link+".md"),
				Second:    post.SourcePath(),
			})
		}
	}
	return nil
}
