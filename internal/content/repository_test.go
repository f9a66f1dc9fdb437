package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func TestLoad_SkipsInvalidFilesAndKeepsOrder(t *testing.T) {
	for _, workers := range []int{1, 4} {
		dir := t.TempDir()
		writeFile(t, dir, "1-first.md", "---\ntitle: First\ndate: 2023-01-01\n---\none\n")
		writeFile(t, dir, "2-broken.md", "---\ntitle: [broken\n---\ntwo\n")
		writeFile(t, dir, "3-third.md", "---\ntitle: Third\ndate: 2023-01-03\n---\nthree\n")

		res, err := NewRepository(WithConcurrency(workers)).Load(t.Context(), dir)
		require.NoError(t, err)
		require.Len(t, res.Posts, 2)
		require.Equal(t, "First", res.Posts[0].Title())
		require.Equal(t, "Third", res.Posts[1].Title())

		require.Len(t, res.Failures, 1)
		require.Equal(t, filepath.Join(dir, "2-broken.md"), res.Failures[0].Path)
		require.ErrorIs(t, res.Failures[0].Err, ErrInvalidFrontMatter)
	}
}

func TestLoadAll_IgnoresNonMarkdownAndSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "post.md", "---\ntitle: P\ndate: 2023-01-01\n---\n")
	writeFile(t, dir, "notes.txt", "not markdown")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.md"), 0o750))
	writeFile(t, filepath.Join(dir, "nested.md"), "inner.md", "---\ntitle: Inner\ndate: 2023-01-01\n---\n")

	posts, err := NewRepository().LoadAll(t.Context(), dir)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "P", posts[0].Title())
}

func TestLoadAll_EmptyDirectory(t *testing.T) {
	posts, err := NewRepository().LoadAll(t.Context(), t.TempDir())
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestLoadAll_UnreadableDirectoryIsFatal(t *testing.T) {
	_, err := NewRepository().LoadAll(t.Context(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	require.True(t, serrors.IsCategory(err, serrors.CategoryIO))
}

func TestLoadAll_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "---\ntitle: A\ndate: 2023-01-01\n---\n")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewRepository().LoadAll(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadAll_MissingFieldFileIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a-valid.md", "---\ntitle: Valid\ndate: 2023-01-01\n---\nbody\n")
	writeFile(t, dir, "b-untitled.md", "---\ndescription: only a description\n---\nbody\n")

	repo := NewRepository()
	posts, err := repo.LoadAll(t.Context(), dir)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "Valid", posts[0].Title())

	res, err := repo.Load(t.Context(), dir)
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	require.Equal(t, filepath.Join(dir, "b-untitled.md"), res.Failures[0].Path)
	require.ErrorIs(t, res.Failures[0].Err, ErrMissingField)

	var pe *ParseError
	require.ErrorAs(t, res.Failures[0].Err, &pe)
	require.Equal(t, KeyTitle, pe.Field)
}
