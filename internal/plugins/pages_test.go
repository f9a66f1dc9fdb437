package plugins

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/site"
)

func TestPages_RendersPagesWithLenientFrontMatter(t *testing.T) {
	opts := testOptions(t)
	writeFile(t, filepath.Join(opts.PagesDir, "about.md"), "---\ntitle: About Us\ndescription: Who we are\n---\n\n# Hello\n")
	writeFile(t, filepath.Join(opts.PagesDir, "contact-me.md"), "Write to *us*.\n")
	writeFile(t, filepath.Join(opts.PagesDir, "notes.txt"), "ignored")

	s := testSite()
	require.NoError(t, NewPages(opts).Run(t.Context(), s))

	require.Len(t, s.Pages, 2)
	require.Equal(t, site.Page{Title: "About Us", Description: "Who we are", Slug: "about", HTML: "<h1>Hello</h1>\n"}, s.Pages[0])
	require.Equal(t, "Contact Me", s.Pages[1].Title)
	require.Equal(t, "2", s.Meta(site.MetaPagesCount))

	about := readFile(t, filepath.Join(opts.OutputDir, "about", "index.html"))
	require.Contains(t, about, "<title>About Us | Example Blog</title>")
	require.Contains(t, about, `<link rel="canonical" href="https://blog.example.com/about/">`)
	require.Contains(t, about, "<h1>Hello</h1>")
	require.Contains(t, about, `class="page-about"`)

	contact := readFile(t, filepath.Join(opts.OutputDir, "contact-me", "index.html"))
	require.Contains(t, contact, "<em>us</em>")
	require.NoFileExists(t, filepath.Join(opts.OutputDir, "notes", "index.html"))
}

func TestPages_MissingDirIsNotAnError(t *testing.T) {
	opts := testOptions(t)
	s := testSite()
	require.NoError(t, NewPages(opts).Run(t.Context(), s))
	require.Empty(t, s.Pages)
}

func TestTitleFromSlug(t *testing.T) {
	require.Equal(t, "About Me", titleFromSlug("about-me"))
	require.Equal(t, "Privacy Policy", titleFromSlug("privacy_policy"))
}

func pageFixture(slug string) site.Page {
	return site.Page{Title: titleFromSlug(slug), Slug: slug}
}
