// Package site holds the mutable state shared by the plugins of one build.
package site

import (
	"maps"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/content"
)

// Metadata keys seeded from configuration.
const (
	MetaHost               = "host"
	MetaWebsiteName        = "website_name"
	MetaWebsiteDescription = "website_description"
	MetaWebsiteLogoURL     = "website_logo_url"
	MetaAuthorName         = "author_name"
	MetaTwitterHandle      = "twitter_handle"
	MetaBuildID            = "build_id"
)

// Metadata keys written by plugins.
const (
	MetaPostsCount   = "posts.count"
	MetaPostsSkipped = "posts.skipped"
	MetaPagesCount   = "pages.count"
)

// Page is a standalone page rendered outside the post collection.
type Page struct {
	Title       string
	Description string
	Slug        string
	HTML        string
}

// Site is the shared build state. A pipeline owns it for the duration of a
// run and plugins mutate it one at a time.
type Site struct {
	Posts    []content.Post
	Pages    []Page
	Metadata map[string]string
}

// New returns an empty Site seeded with a copy of metadata.
func New(metadata map[string]string) *Site {
	md := maps.Clone(metadata)
	if md == nil {
		md = map[string]string{}
	}
	return &Site{Metadata: md}
}

// Meta returns the metadata value for key, or "".
func (s *Site) Meta(key string) string {
	return s.Metadata[key]
}

// URL joins path onto the configured host.
func (s *Site) URL(path string) string {
	host := strings.TrimRight(s.Meta(MetaHost), "/")
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return host + "/"
	}
	return host + "/" + path
}

// SortNewestFirst orders posts by date, latest first. Dates compare as
// strings; posts with equal dates keep their relative order.
func SortNewestFirst(posts []content.Post) {
	slices.SortStableFunc(posts, func(a, b content.Post) int {
		return strings.Compare(b.Date(), a.Date())
	})
}
