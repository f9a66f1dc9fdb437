package content

import (
	"maps"
	"strings"
)

// Front matter keys recognised by the generator.
const (
	KeyTitle       = "title"
	KeyDate        = "date"
	KeyDescription = "description"
	KeyKeywords    = "keywords"
	KeyPublish     = "publish"
	KeyLightTheme  = "lightTheme"
	KeyPermalink   = "permalink"
)

const (
	// PublishDraft is the publish value that marks a post as unpublished.
	PublishDraft = "draft"

	// LightThemeClass is the CSS class applied to posts with lightTheme: true.
	LightThemeClass = "light-theme"
)

// FrontMatter is the validated, flat metadata of a post. The zero value is an
// empty metadata set.
type FrontMatter struct {
	fields map[string]string
}

// NewFrontMatter copies fields into a FrontMatter.
func NewFrontMatter(fields map[string]string) FrontMatter {
	return FrontMatter{fields: maps.Clone(fields)}
}

func (f FrontMatter) Title() string        { return f.fields[KeyTitle] }
func (f FrontMatter) Date() string         { return f.fields[KeyDate] }
func (f FrontMatter) Description() string  { return f.fields[KeyDescription] }
func (f FrontMatter) Keywords() string     { return f.fields[KeyKeywords] }
func (f FrontMatter) PublishState() string { return f.fields[KeyPublish] }

// LightTheme reports whether lightTheme is exactly "true".
func (f FrontMatter) LightTheme() bool { return f.fields[KeyLightTheme] == "true" }

// IsDraft reports whether publish is exactly "draft".
func (f FrontMatter) IsDraft() bool { return f.PublishState() == PublishDraft }

// ThemeClass returns LightThemeClass for light-themed posts and "" otherwise.
func (f FrontMatter) ThemeClass() string {
	if f.LightTheme() {
		return LightThemeClass
	}
	return ""
}

// Field returns the raw value of any key.
func (f FrontMatter) Field(key string) (string, bool) {
	v, ok := f.fields[key]
	return v, ok
}

// Fields returns a copy of all keys.
func (f FrontMatter) Fields() map[string]string {
	out := maps.Clone(f.fields)
	if out == nil {
		out = map[string]string{}
	}
	return out
}

// Slugify lower-cases s and replaces each space with a hyphen. Nothing else
// is changed.
func Slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}
