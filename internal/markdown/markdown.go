package markdown

import (
	"bytes"
	"errors"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// ErrNoFrontMatter indicates the document does not start with a front matter
// block.
var ErrNoFrontMatter = errors.New("document does not start with front matter")

// ErrUnclosedFrontMatter indicates the opening `---` was never closed.
var ErrUnclosedFrontMatter = errors.New("front matter is missing its closing delimiter")

// Engine compiles markdown documents. The HTML pass and the structural pass
// use separately configured goldmark instances.
//
// An Engine is safe for concurrent use.
type Engine struct {
	html      goldmark.Markdown
	structure goldmark.Markdown
}

// New returns an Engine.
//
// The HTML pass is CommonMark with raw HTML passed through unchanged. The
// structural pass adds GitHub Flavored Markdown so tables and strikethrough
// parse as their own nodes.
func New() *Engine {
	return &Engine{
		html: goldmark.New(
			goldmark.WithExtensions(FrontMatterExtension),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		structure: goldmark.New(
			goldmark.WithExtensions(extension.GFM, FrontMatterExtension),
		),
	}
}

// Render compiles the whole document, front matter included, to HTML. The
// front matter block contributes no output.
func (e *Engine) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.html.Convert(source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse returns the structural AST of the document.
func (e *Engine) Parse(source []byte) gmast.Node {
	return e.structure.Parser().Parse(text.NewReader(source))
}

// FrontMatter returns the raw YAML of the document's front matter block.
// The block must be the first node of the document and must be closed.
func (e *Engine) FrontMatter(source []byte) ([]byte, error) {
	root := e.Parse(source)
	fm, ok := root.FirstChild().(*FrontMatter)
	if !ok {
		return nil, ErrNoFrontMatter
	}
	if !fm.Closed {
		return nil, ErrUnclosedFrontMatter
	}
	return fm.Raw(source), nil
}
