package plugins

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/content"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/eventstore"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

func writePost(t *testing.T, dir, name, frontMatter string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, name), "---\n"+frontMatter+"---\n\nHello.\n")
}

func TestPosts_DropsDraftsAndSortsNewestFirst(t *testing.T) {
	opts := testOptions(t)
	writePost(t, opts.PostsDir, "a.md", "title: Alpha\ndate: 2023-05-01\n")
	writePost(t, opts.PostsDir, "b.md", "title: Beta\ndate: 2024-01-10\n")
	writePost(t, opts.PostsDir, "c.md", "title: Gamma\ndate: 2024-06-30\npublish: draft\n")
	writePost(t, opts.PostsDir, "d.md", "title: Delta\n")

	s := testSite()
	require.NoError(t, NewPosts(opts).Run(t.Context(), s))

	require.Len(t, s.Posts, 2)
	require.Equal(t, "Beta", s.Posts[0].Title())
	require.Equal(t, "Alpha", s.Posts[1].Title())
	require.Equal(t, "2", s.Meta(site.MetaPostsCount))
	require.Equal(t, "1", s.Meta(site.MetaPostsSkipped))
}

func TestPosts_IncludeDrafts(t *testing.T) {
	opts := testOptions(t)
	opts.IncludeDrafts = true
	writePost(t, opts.PostsDir, "a.md", "title: Alpha\ndate: 2023-05-01\n")
	writePost(t, opts.PostsDir, "c.md", "title: Gamma\ndate: 2024-06-30\npublish: draft\n")

	s := testSite()
	require.NoError(t, NewPosts(opts).Run(t.Context(), s))
	require.Len(t, s.Posts, 2)
	require.True(t, s.Posts[0].IsDraft())
}

func TestPosts_DuplicatePermalinkFailsBuild(t *testing.T) {
	opts := testOptions(t)
	writePost(t, opts.PostsDir, "a.md", "title: Same Title\ndate: 2023-05-01\n")
	writePost(t, opts.PostsDir, "b.md", "title: Other\ndate: 2023-05-02\npermalink: Same Title\n")

	s := testSite()
	err := NewPosts(opts).Run(t.Context(), s)
	require.ErrorIs(t, err, content.ErrDuplicatePermalink)
	require.Empty(t, s.Posts)
}

func TestPosts_MissingDirIsIOError(t *testing.T) {
	opts := testOptions(t)
	err := NewPosts(opts).Run(t.Context(), testSite())
	require.True(t, serrors.IsCategory(err, serrors.CategoryIO))
}

func TestPosts_JournalsSkippedFiles(t *testing.T) {
	store, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	opts := testOptions(t)
	opts.Journal = eventstore.NewJournal(store, "build-1")
	writePost(t, opts.PostsDir, "ok.md", "title: Fine\ndate: 2023-05-01\n")
	writePost(t, opts.PostsDir, "bad.md", "title: Bad date\ndate: May 1st\n")

	require.NoError(t, NewPosts(opts).Run(t.Context(), testSite()))

	summary, err := eventstore.LoadSummary(t.Context(), store, "build-1")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(opts.PostsDir, "bad.md")}, summary.Skipped)
}
