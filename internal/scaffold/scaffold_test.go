package scaffold

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
)

var day = time.Date(2024, 5, 9, 22, 30, 0, 0, time.UTC)

func TestNewPost_WritesParseableDraftTemplate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "posts")

	path, err := NewPost(dir, day)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "2024-05-09-post-title.md"), path)

	post, err := content.ParseFile(path)
	require.NoError(t, err)
	require.Equal(t, "New post title", post.Title())
	require.Equal(t, "2024-05-09", post.Date())
	require.False(t, post.IsDraft())
	require.Equal(t, "new-post-title", post.Permalink())
	require.Contains(t, post.HTML(), "<h2>First subtitle</h2>")
}

func TestNewPost_RefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	path, err := NewPost(dir, day)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("edited"), 0o600))

	_, err = NewPost(dir, day)
	require.ErrorIs(t, err, ErrExists)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "edited", string(data))
}

func TestConfig_WritesLoadableFile(t *testing.T) {
	t.Setenv(config.EnvHost, "")
	t.Setenv(config.EnvWebsiteName, "")
	path := filepath.Join(t.TempDir(), "sitegen.yaml")
	require.NoError(t, Config(path, false))
	require.ErrorIs(t, Config(path, false), ErrExists)
	require.NoError(t, Config(path, true))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "My Blog", cfg.Site.Name)
	require.Equal(t, 4, cfg.Build.Parallelism)
	require.NoError(t, cfg.Validate())
}
