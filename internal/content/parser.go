package content

import (
	"errors"
	"fmt"
	"os"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
)

// DateLayout is the only accepted format for the date key.
const DateLayout = "2006-01-02"

// Parser turns markdown files into Posts.
type Parser struct {
	engine *markdown.Engine
}

// NewParser returns a Parser using a fresh markdown engine.
func NewParser() *Parser {
	return &Parser{engine: markdown.New()}
}

// NewParserWithEngine returns a Parser sharing engine.
func NewParserWithEngine(engine *markdown.Engine) *Parser {
	return &Parser{engine: engine}
}

var defaultParser = NewParser()

// ParseFile parses path with a shared default Parser.
func ParseFile(path string) (Post, error) {
	return defaultParser.Parse(path)
}

// Parse reads path and returns the Post it describes. All failures are
// *ParseError values.
func (p *Parser) Parse(path string) (Post, error) {
	src, err := os.ReadFile(path) // #nosec G304 -- path comes from the content directory listing
	if err != nil {
		return Post{}, &ParseError{Kind: KindIO, Path: path, Err: err}
	}
	return p.ParseBytes(path, src)
}

// ParseBytes parses src as if it had been read from path.
func (p *Parser) ParseBytes(path string, src []byte) (Post, error) {
	html, err := p.engine.Render(src)
	if err != nil {
		return Post{}, &ParseError{Kind: KindIO, Path: path, Err: fmt.Errorf("render: %w", err)}
	}

	raw, err := p.engine.FrontMatter(src)
	if err != nil {
		if errors.Is(err, markdown.ErrUnclosedFrontMatter) {
			return Post{}, &ParseError{Kind: KindMissingFrontMatter, Path: path, Err: err}
		}
		return Post{}, &ParseError{Kind: KindMissingFrontMatter, Path: path}
	}

	fields, err := frontmatter.Decode(raw)
	if err != nil {
		return Post{}, &ParseError{Kind: KindInvalidFrontMatter, Path: path, Err: err}
	}

	fm := FrontMatter{fields: fields}
	if err := validate(fm); err != nil {
		err.Path = path
		return Post{}, err
	}

	return Post{sourcePath: path, fm: fm, html: string(html)}, nil
}

func validate(fm FrontMatter) *ParseError {
	for _, key := range []string{KeyTitle, KeyDate} {
		if v, _ := fm.Field(key); v == "" {
			return &ParseError{Kind: KindMissingField, Field: key}
		}
	}
	if err := ValidateDate(fm.Date()); err != nil {
		return &ParseError{Kind: KindInvalidField, Field: KeyDate, Err: err}
	}
	return nil
}

// ValidateDate checks that s is a zero-padded YYYY-MM-DD calendar date, so
// that lexical order equals chronological order.
func ValidateDate(s string) error {
	if len(s) != len(DateLayout) {
		return fmt.Errorf("date %q must use the form YYYY-MM-DD", s)
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("date %q must use the form YYYY-MM-DD: %w", s, err)
	}
	return nil
}
