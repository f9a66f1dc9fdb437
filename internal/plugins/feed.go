package plugins

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/content"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Feed writes an RSS 2.0 document to <out>/feed.xml.
type Feed struct {
	opts Options
}

// NewFeed returns the feed plugin.
func NewFeed(opts Options) *Feed { return &Feed{opts: opts.withDefaults()} }

func (*Feed) Name() string { return "feed" }

func (f *Feed) Run(_ context.Context, s *site.Site) error {
	item, err := f.opts.Templates.Load(render.TemplateFeedItem)
	if err != nil {
		return err
	}

	var items strings.Builder
	for _, post := range s.Posts {
		items.WriteString(render.Fill(item, render.Values{
			"post_title":       xmlText(post.Title()),
			"post_url":         xmlText(postURL(s, post)),
			"post_description": xmlText(post.FrontMatter().Description()),
			"post_pub_date":    pubDate(post.Date()),
		}))
	}

	doc, err := f.opts.Templates.Render(render.TemplateFeed, render.Values{
		"host":                xmlText(s.Meta(site.MetaHost)),
		"website_name":        xmlText(s.Meta(site.MetaWebsiteName)),
		"website_description": xmlText(s.Meta(site.MetaWebsiteDescription)),
		"last_build_date":     f.opts.Now().UTC().Format(time.RFC1123Z),
		"feed_items":          items.String(),
	})
	if err != nil {
		return err
	}

	out := filepath.Join(f.opts.OutputDir, "feed.xml")
	if err := render.WriteFile(out, []byte(doc)); err != nil {
		return serrors.OutputFailed(out, err)
	}
	return nil
}

// pubDate formats a post date as RFC 1123 at midnight UTC.
func pubDate(date string) string {
	t, err := time.Parse(content.DateLayout, date)
	if err != nil {
		return xmlText(date)
	}
	return t.Format(time.RFC1123Z)
}
