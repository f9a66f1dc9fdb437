// Package render loads page templates, fills their placeholders and writes
// the generated files.
package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Template names.
const (
	TemplateHomepage    = "homepage.html"
	TemplateArchiveItem = "archive-item.html"
	TemplatePost        = "post.html"
	TemplatePage        = "page.html"
	TemplateFeed        = "feed.xml"
	TemplateFeedItem    = "feed-item.xml"
	TemplateSearch      = "search.html"
)

//go:embed templates/*
var embedded embed.FS

// Templates resolves template files from an optional directory, falling back
// to the built-in defaults for any file the directory lacks.
type Templates struct {
	dir string
}

// NewTemplates returns Templates reading overrides from dir. An empty dir
// uses only the built-in templates.
func NewTemplates(dir string) *Templates {
	return &Templates{dir: dir}
}

// Load returns the contents of the named template.
func (t *Templates) Load(name string) (string, error) {
	if t != nil && t.dir != "" {
		data, err := os.ReadFile(filepath.Join(t.dir, name)) // #nosec G304 -- template dir is operator configured
		switch {
		case err == nil:
			return string(data), nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("read template %s: %w", name, err)
		}
	}

	data, err := embedded.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("unknown template %s: %w", name, err)
	}
	return string(data), nil
}

// Values maps placeholder names (without braces) to replacement text.
type Values map[string]string

// Fill replaces every {name} in tmpl with values[name] in a single pass.
// Replacement text is never rescanned, so content containing braces is
// inserted verbatim. Unknown placeholders are left as they are.
func Fill(tmpl string, values Values) string {
	if len(values) == 0 {
		return tmpl
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", values[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Render loads the named template and fills it.
func (t *Templates) Render(name string, values Values) (string, error) {
	tmpl, err := t.Load(name)
	if err != nil {
		return "", err
	}
	return Fill(tmpl, values), nil
}
