package plugins

import (
	"bytes"
	"context"
	"errors"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// pageMeta is the front matter a standalone page may carry. Both keys are
// optional.
type pageMeta struct {
	Title       string `yaml:"title" toml:"title" json:"title"`
	Description string `yaml:"description" toml:"description" json:"description"`
}

// Pages renders every pages/*.md file to <out>/<slug>/index.html, where the
// slug is the file name without its extension. Page front matter is lenient:
// a page without a title is named after its slug. A missing pages directory
// is not an error.
type Pages struct {
	opts Options
}

// NewPages returns the pages plugin.
func NewPages(opts Options) *Pages { return &Pages{opts: opts.withDefaults()} }

func (*Pages) Name() string { return "pages" }

func (p *Pages) Run(ctx context.Context, s *site.Site) error {
	dir := p.opts.PagesDir
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		p.opts.Logger.DebugContext(ctx, "No pages directory", logfields.Path(dir))
		return nil
	}
	if err != nil {
		return serrors.DirectoryUnreadable(dir, err)
	}

	tmpl, err := p.opts.Templates.Load(render.TemplatePage)
	if err != nil {
		return err
	}
	base := siteValues(s)

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, e.Name())
		page, err := p.load(ctx, path)
		if err != nil {
			return err
		}

		values := render.Values{
			"page_title":       html.EscapeString(page.Title),
			"page_description": html.EscapeString(page.Description),
			"page_content":     page.HTML,
			"page_url":         s.URL(page.Slug + "/"),
			"page_slug":        page.Slug,
		}
		for k, v := range base {
			values[k] = v
		}

		out, err := render.WriteIndex(p.opts.OutputDir, page.Slug, render.Fill(tmpl, values))
		if err != nil {
			return serrors.OutputFailed(out, err)
		}
		s.Pages = append(s.Pages, page)
		p.opts.Logger.DebugContext(ctx, "Rendered page", logfields.Slug(page.Slug), logfields.Path(out))
	}

	s.Metadata[site.MetaPagesCount] = strconv.Itoa(len(s.Pages))
	return nil
}

func (p *Pages) load(ctx context.Context, path string) (site.Page, error) {
	src, err := os.ReadFile(path) // #nosec G304 -- file inside the configured pages dir
	if err != nil {
		return site.Page{}, serrors.DirectoryUnreadable(path, err)
	}

	var meta pageMeta
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		// Broken front matter still renders; the markdown engine drops the
		// block and the page falls back to its slug for a title.
		p.opts.Logger.WarnContext(ctx, "Ignoring unreadable page front matter", logfields.File(path), logfields.Error(err))
		meta, body = pageMeta{}, src
	}

	rendered, err := p.opts.Engine.Render(body)
	if err != nil {
		return site.Page{}, serrors.Wrap(err, serrors.CategoryContent, serrors.SeverityError, "page could not be rendered").
			WithContext("path", path)
	}

	slug := strings.TrimSuffix(filepath.Base(path), ".md")
	title := meta.Title
	if title == "" {
		title = titleFromSlug(slug)
	}
	return site.Page{
		Title:       title,
		Description: meta.Description,
		Slug:        slug,
		HTML:        string(rendered),
	}, nil
}

// titleFromSlug turns "about-me" into "About Me".
func titleFromSlug(slug string) string {
	words := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.English).String(words)
}
