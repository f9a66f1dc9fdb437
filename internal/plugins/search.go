package plugins

import (
	"context"
	"encoding/json"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// searchResource is one entry of the client-side search index.
type searchResource struct {
	Title             string `json:"title"`
	URL               string `json:"url"`
	DateTimestamp     string `json:"dateTimestamp"`
	DateHumanReadable string `json:"dateHumanReadable"`
	Excerpt           string `json:"excerpt"`
}

// Search writes <out>/search/index.html with the search index embedded as a
// JSON array.
type Search struct {
	opts Options
}

// NewSearch returns the search plugin.
func NewSearch(opts Options) *Search { return &Search{opts: opts.withDefaults()} }

func (*Search) Name() string { return "search" }

func (p *Search) Run(_ context.Context, s *site.Site) error {
	resources := make([]searchResource, 0, len(s.Posts))
	for _, post := range s.Posts {
		resources = append(resources, searchResource{
			Title:             post.Title(),
			URL:               postURL(s, post),
			DateTimestamp:     post.Date(),
			DateHumanReadable: humanDate(post.Date()),
			Excerpt:           excerpt(post),
		})
	}
	// json.Marshal escapes <, > and &, so the index is safe inside <script>.
	index, err := json.Marshal(resources)
	if err != nil {
		return serrors.InternalError("encode search index", err)
	}

	values := siteValues(s)
	values["resources"] = string(index)
	doc, err := p.opts.Templates.Render(render.TemplateSearch, values)
	if err != nil {
		return err
	}

	out, err := render.WriteIndex(p.opts.OutputDir, "search", doc)
	if err != nil {
		return serrors.OutputFailed(out, err)
	}
	return nil
}
