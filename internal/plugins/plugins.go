// Package plugins contains the build steps that turn a directory of posts
// into a static site. Default returns them in the order a full build runs
// them.
package plugins

import (
	"html"
	"log/slog"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/eventstore"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/plugin"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Options is shared by every plugin in this package.
type Options struct {
	PostsDir  string
	PagesDir  string
	AssetsDir string
	OutputDir string

	IncludeDrafts bool

	Templates  *render.Templates
	Repository *content.Repository
	Engine     *markdown.Engine

	// Optional.
	Journal *eventstore.Journal
	Metrics metrics.Recorder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Templates == nil {
		o.Templates = render.NewTemplates("")
	}
	if o.Engine == nil {
		o.Engine = markdown.New()
	}
	if o.Repository == nil {
		o.Repository = content.NewRepository(
			content.WithParser(content.NewParserWithEngine(o.Engine)),
			content.WithLogger(o.Logger),
		)
	}
	if o.Metrics == nil {
		o.Metrics = metrics.NoopRecorder{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Default returns the full build sequence.
func Default(opts Options) []plugin.Plugin {
	opts = opts.withDefaults()
	return []plugin.Plugin{
		NewBuild(opts),
		NewPosts(opts),
		NewPages(opts),
		NewPostPages(opts),
		NewHomepage(opts),
		NewFeed(opts),
		NewSitemap(opts),
		NewSearch(opts),
	}
}

// siteValues are the placeholders every HTML template may use.
func siteValues(s *site.Site) render.Values {
	return render.Values{
		"host":                s.Meta(site.MetaHost),
		"website_name":        html.EscapeString(s.Meta(site.MetaWebsiteName)),
		"website_description": html.EscapeString(s.Meta(site.MetaWebsiteDescription)),
		"website_logo_url":    s.Meta(site.MetaWebsiteLogoURL),
		"author_name":         html.EscapeString(s.Meta(site.MetaAuthorName)),
		"twitter_handle":      html.EscapeString(s.Meta(site.MetaTwitterHandle)),
	}
}

// postURL is the absolute URL of a post, with a trailing slash.
func postURL(s *site.Site, p content.Post) string {
	return s.URL(p.Permalink() + "/")
}

// humanDate renders 2024-01-31 as 2024/01/31.
func humanDate(date string) string {
	return strings.ReplaceAll(date, "-", "/")
}

// excerptLength bounds the generated summary of a post without description.
const excerptLength = 160

func excerpt(p content.Post) string {
	if d := p.FrontMatter().Description(); d != "" {
		return d
	}
	return render.Excerpt(p.HTML(), excerptLength)
}
