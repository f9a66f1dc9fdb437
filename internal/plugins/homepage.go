package plugins

import (
	"context"
	"html"
	"path/filepath"
	"strings"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Homepage writes <out>/index.html listing every post in Site order.
type Homepage struct {
	opts Options
}

// NewHomepage returns the homepage plugin.
func NewHomepage(opts Options) *Homepage { return &Homepage{opts: opts.withDefaults()} }

func (*Homepage) Name() string { return "homepage" }

func (h *Homepage) Run(_ context.Context, s *site.Site) error {
	item, err := h.opts.Templates.Load(render.TemplateArchiveItem)
	if err != nil {
		return err
	}

	var items strings.Builder
	for _, post := range s.Posts {
		items.WriteString(render.Fill(item, render.Values{
			"post_link":                postURL(s, post),
			"post_date_timestamp":      post.Date(),
			"post_date_human_readable": humanDate(post.Date()),
			"post_title":               html.EscapeString(post.Title()),
			"post_excerpt":             html.EscapeString(excerpt(post)),
		}))
	}

	values := siteValues(s)
	values["post_items"] = items.String()
	page, err := h.opts.Templates.Render(render.TemplateHomepage, values)
	if err != nil {
		return err
	}

	out := filepath.Join(h.opts.OutputDir, "index.html")
	if err := render.WriteFile(out, []byte(page)); err != nil {
		return serrors.OutputFailed(out, err)
	}
	return nil
}
