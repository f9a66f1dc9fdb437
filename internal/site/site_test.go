package site

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/content"
)

func post(title, date string) content.Post {
	return content.NewPost(title+".md", content.NewFrontMatter(map[string]string{
		content.KeyTitle: title,
		content.KeyDate:  date,
	}), "")
}

func dates(posts []content.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Date())
	}
	return out
}

func TestSortNewestFirst(t *testing.T) {
	posts := []content.Post{post("a", "2023-01-02"), post("b", "2023-01-01"), post("c", "2023-06-01")}
	SortNewestFirst(posts)
	require.Equal(t, []string{"2023-06-01", "2023-01-02", "2023-01-01"}, dates(posts))
}

func TestSortNewestFirst_StableForEqualDates(t *testing.T) {
	posts := []content.Post{post("first", "2023-01-01"), post("second", "2023-01-01"), post("newer", "2024-01-01")}
	SortNewestFirst(posts)
	require.Equal(t, "newer", posts[0].Title())
	require.Equal(t, "first", posts[1].Title())
	require.Equal(t, "second", posts[2].Title())
}

func TestNew_CopiesMetadata(t *testing.T) {
	md := map[string]string{MetaHost: "https://example.com"}
	s := New(md)
	md[MetaHost] = "changed"
	require.Equal(t, "https://example.com", s.Meta(MetaHost))
	require.Empty(t, s.Posts)

	require.NotNil(t, New(nil).Metadata)
}

func TestURL(t *testing.T) {
	s := New(map[string]string{MetaHost: "https://example.com/"})
	require.Equal(t, "https://example.com/", s.URL(""))
	require.Equal(t, "https://example.com/hello-world/", s.URL("/hello-world/"))
	require.Equal(t, "https://example.com/feed.xml", s.URL("feed.xml"))
}
