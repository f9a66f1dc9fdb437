package markdown

import (
	"bytes"
	"strconv"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindFrontMatter is the node kind of a YAML front matter block.
var KindFrontMatter = gmast.NewNodeKind("FrontMatter")

// FrontMatter is a block holding the raw YAML lines between the `---`
// delimiters at the very start of a document.
//
// A block that never sees its closing delimiter runs to the end of the
// document and has Closed == false.
type FrontMatter struct {
	gmast.BaseBlock
	Closed bool
}

// Kind implements ast.Node.
func (n *FrontMatter) Kind() gmast.NodeKind { return KindFrontMatter }

// IsRaw implements ast.Node. The content is YAML, not inline markdown.
func (n *FrontMatter) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *FrontMatter) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{
		"Closed": strconv.FormatBool(n.Closed),
	}, nil)
}

// Raw returns the YAML text between the delimiters.
func (n *FrontMatter) Raw(source []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}

func isSeparator(line []byte) bool {
	return bytes.Equal(util.TrimRightSpace(line), []byte("---"))
}

type frontMatterParser struct{}

func (p *frontMatterParser) Trigger() []byte {
	return []byte{'-'}
}

func (p *frontMatterParser) Open(_ gmast.Node, reader text.Reader, _ parser.Context) (gmast.Node, parser.State) {
	// Only the first line of the document can open front matter.
	if linenum, _ := reader.Position(); linenum != 0 {
		return nil, parser.NoChildren
	}
	line, _ := reader.PeekLine()
	if !isSeparator(line) {
		return nil, parser.NoChildren
	}
	return &FrontMatter{}, parser.NoChildren
}

func (p *frontMatterParser) Continue(node gmast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if isSeparator(line) {
		reader.Advance(segment.Len())
		node.(*FrontMatter).Closed = true
		return parser.Close
	}
	node.Lines().Append(segment)
	return parser.Continue | parser.NoChildren
}

func (p *frontMatterParser) Close(gmast.Node, text.Reader, parser.Context) {}

func (p *frontMatterParser) CanInterruptParagraph() bool { return false }

func (p *frontMatterParser) CanAcceptIndentedLine() bool { return false }

// frontMatterRenderer swallows the block so it never reaches the HTML output.
type frontMatterRenderer struct{}

func (r *frontMatterRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindFrontMatter, func(util.BufWriter, []byte, gmast.Node, bool) (gmast.WalkStatus, error) {
		return gmast.WalkSkipChildren, nil
	})
}

type frontMatterExtension struct{}

// FrontMatterExtension teaches goldmark to recognise a leading `---` fenced
// YAML block. The block appears in the AST as a *FrontMatter and renders to
// nothing.
var FrontMatterExtension goldmark.Extender = &frontMatterExtension{}

func (e *frontMatterExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		// Ahead of thematic breaks and setext headings, which also trigger on '-'.
		util.Prioritized(&frontMatterParser{}, 0),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&frontMatterRenderer{}, 500),
	))
}
