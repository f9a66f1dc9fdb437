package content

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching ParseError kinds with errors.Is.
var (
	ErrMissingFrontMatter = errors.New("missing front matter")
	ErrInvalidFrontMatter = errors.New("invalid front matter")
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidField       = errors.New("invalid field")
	ErrDuplicatePermalink = errors.New("duplicate permalink")
)

// Kind classifies why a file could not become a Post.
type Kind string

const (
	KindIO                 Kind = "io"
	KindMissingFrontMatter Kind = "missing_front_matter"
	KindInvalidFrontMatter Kind = "invalid_front_matter"
	KindMissingField       Kind = "missing_field"
	KindInvalidField       Kind = "invalid_field"
)

// ParseError describes a per-file content failure.
type ParseError struct {
	Kind  Kind
	Path  string
	Field string // set for KindMissingField and KindInvalidField
	Err   error  // underlying cause, may be nil
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Path, e.sentinel())
	if e.Field != "" {
		msg += fmt.Sprintf(" %q", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ParseError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.sentinel(); s != nil && e.Kind != KindIO {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *ParseError) sentinel() error {
	switch e.Kind {
	case KindIO:
		return errors.New("read failed")
	case KindMissingFrontMatter:
		return ErrMissingFrontMatter
	case KindInvalidFrontMatter:
		return ErrInvalidFrontMatter
	case KindMissingField:
		return ErrMissingField
	case KindInvalidField:
		return ErrInvalidField
	default:
		return errors.New(string(e.Kind))
	}
}

// DuplicatePermalinkError reports two posts that resolve to the same URL.
type DuplicatePermalinkError struct {
	Permalink string
	First     string
	Second    string
}

func (e *DuplicatePermalinkError) Error() string {
	return fmt.Sprintf("%s: %q used by %s and %s", ErrDuplicatePermalink, e.Permalink, e.First, e.Second)
}

func (e *DuplicatePermalinkError) Unwrap() error { return ErrDuplicatePermalink }

// CheckUniquePermalinks returns a *DuplicatePermalinkError for the first
// collision in posts, in order.
func CheckUniquePermalinks(posts []Post) error {
	seen := make(map[string]string, len(posts))
	for _, p := range posts {
		link := p.Permalink()
		if prev, ok := seen[link]; ok {
			return &DuplicatePermalinkError{Permalink: link, First: prev, Second: p.SourcePath()}
		}
		seen[link] = p.SourcePath()
	}
	return nil
}
