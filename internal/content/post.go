package content

import "path/filepath"

// Post is an immutable, validated content item. Construct with the Parser or
// NewPost; the zero value is not a valid post.
type Post struct {
	sourcePath string
	fm         FrontMatter
	html       string
}

// NewPost builds a Post from already-validated parts. It does not check the
// required fields; use Parser.Parse for untrusted input.
func NewPost(sourcePath string, fm FrontMatter, html string) Post {
	return Post{sourcePath: sourcePath, fm: NewFrontMatter(fm.fields), html: html}
}

// SourcePath is the path the post was read from.
func (p Post) SourcePath() string { return p.sourcePath }

// FileName is the base name of SourcePath.
func (p Post) FileName() string { return filepath.Base(p.sourcePath) }

// FrontMatter returns the post metadata. The returned value shares no state
// with the post.
func (p Post) FrontMatter() FrontMatter { return NewFrontMatter(p.fm.fields) }

// HTML is the compiled body.
func (p Post) HTML() string { return p.html }

// Title is shorthand for FrontMatter().Title().
func (p Post) Title() string { return p.fm.Title() }

// Date is shorthand for FrontMatter().Date().
func (p Post) Date() string { return p.fm.Date() }

// IsDraft is shorthand for FrontMatter().IsDraft().
func (p Post) IsDraft() bool { return p.fm.IsDraft() }

// Permalink is the URL slug of the post: an explicit permalink key when set,
// otherwise the title, slugified. It is derived on every call.
func (p Post) Permalink() string {
	if v, ok := p.fm.Field(KeyPermalink); ok && v != "" {
		return Slugify(v)
	}
	return Slugify(p.fm.Title())
}
