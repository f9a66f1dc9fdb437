package plugins

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

const sitemapHeader = `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`

// Sitemap writes <out>/sitemap.xml with an entry for every post, every page
// and the home page.
type Sitemap struct {
	opts Options
}

// NewSitemap returns the sitemap plugin.
func NewSitemap(opts Options) *Sitemap { return &Sitemap{opts: opts.withDefaults()} }

func (*Sitemap) Name() string { return "sitemap" }

func (m *Sitemap) Run(_ context.Context, s *site.Site) error {
	var b strings.Builder
	b.WriteString(sitemapHeader)
	for _, post := range s.Posts {
		writeSitemapURL(&b, postURL(s, post))
	}
	for _, page := range s.Pages {
		writeSitemapURL(&b, s.URL(page.Slug+"/"))
	}
	writeSitemapURL(&b, s.URL(""))
	b.WriteString("</urlset>")

	out := filepath.Join(m.opts.OutputDir, "sitemap.xml")
	if err := render.WriteFile(out, []byte(b.String())); err != nil {
		return serrors.OutputFailed(out, err)
	}
	return nil
}

func writeSitemapURL(b *strings.Builder, loc string) {
	fmt.Fprintf(b, "<url><loc>%s</loc><changefreq>weekly</changefreq><priority>0.5</priority></url>", xmlText(loc))
}
