// Package document is the read-only query surface over one parsed file.
package document

import (
	"strings"

	"github.com/aidanlsb/cite/internal/model"
	"github.com/aidanlsb/cite/internal/parser"
	"github.com/aidanlsb/cite/internal/slugs"
)

// DefaultSimilarityThreshold is the minimum score for an anchor to be
// offered as a suggestion.
const DefaultSimilarityThreshold = 0.6

// Document is an immutable snapshot of a parsed markdown file. It is safe
// to share between goroutines.
type Document struct {
	res       *parser.Result
	lines     []string
	threshold float64
}

// Option configures a Document.
type Option func(*Document)

// WithSimilarityThreshold sets the FindSimilarAnchors cut-off in [0,1].
func WithSimilarityThreshold(threshold float64) Option {
	return func(d *Document) {
		if threshold > 0 && threshold <= 1 {
			d.threshold = threshold
		}
	}
}

// New wraps a parse result.
func New(res *parser.Result, opts ...Option) *Document {
	d := &Document{
		res:       res,
		lines:     strings.Split(res.Content, "\n"),
		threshold: DefaultSimilarityThreshold,
	}
	for i, l := range d.lines {
		d.lines[i] = strings.TrimSuffix(l, "\r")
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FilePath returns the absolute path the document was parsed from.
func (d *Document) FilePath() string { return d.res.FilePath }

// Frontmatter returns the decoded frontmatter, or nil.
func (d *Document) Frontmatter() *parser.Frontmatter { return d.res.Frontmatter }

// Links returns the outgoing links in source order.
func (d *Document) Links() []model.Link { return d.res.Links }

// Anchors returns every anchor in source order.
func (d *Document) Anchors() []model.Anchor { return d.res.Anchors }

// Headings returns every heading in source order.
func (d *Document) Headings() []model.Heading { return d.res.Headings }

// Tokens returns the block tokens.
func (d *Document) Tokens() []model.Token { return d.res.Tokens }

// HasAnchor reports whether id equals some anchor's raw or encoded id.
// The comparison is exact and case-sensitive.
func (d *Document) HasAnchor(id string) bool {
	for _, a := range d.res.Anchors {
		if a.Matches(id) {
			return true
		}
	}
	return false
}

// FindAnchor looks an anchor up by the fragment a link would use: exact
// raw or encoded id, or "^name" for a caret block anchor.
func (d *Document) FindAnchor(id string) (model.Anchor, bool) {
	if name, ok := strings.CutPrefix(id, "^"); ok {
		for _, a := range d.res.Anchors {
			if a.IsCaretBlock() && a.ID == name {
				return a, true
			}
		}
		return model.Anchor{}, false
	}
	for _, a := range d.res.Anchors {
		if a.Matches(id) {
			return a, true
		}
	}
	return model.Anchor{}, false
}

// Lookup resolves the fragment a link was written with. A header or
// explicit anchor wins over a caret block anchor of the same name, and a
// fragment that does not match verbatim is retried percent-decoded.
func (d *Document) Lookup(fragment string) (model.Anchor, bool) {
	if a, ok := d.lookup(fragment); ok {
		return a, true
	}
	if decoded := slugs.DecodeID(fragment); decoded != fragment {
		return d.lookup(decoded)
	}
	return model.Anchor{}, false
}

func (d *Document) lookup(fragment string) (model.Anchor, bool) {
	if strings.HasPrefix(fragment, "^") {
		return d.FindAnchor(fragment)
	}
	block := -1
	for i, a := range d.res.Anchors {
		if !a.Matches(fragment) {
			continue
		}
		if !a.IsCaretBlock() {
			return a, true
		}
		if block < 0 {
			block = i
		}
	}
	if block >= 0 {
		return d.res.Anchors[block], true
	}
	return model.Anchor{}, false
}

// HeadingForAnchor returns the heading a header anchor was built from.
func (d *Document) HeadingForAnchor(a model.Anchor) (model.Heading, bool) {
	if a.Kind != model.AnchorHeader {
		return model.Heading{}, false
	}
	for _, h := range d.res.Headings {
		if h.Line == a.Line && h.Text == a.ID {
			return h, true
		}
	}
	return model.Heading{}, false
}

// ExtractFullContent returns the file content.
func (d *Document) ExtractFullContent() string {
	return d.res.Content
}

// ExtractSection returns the source text of the top-level heading with the
// given text and level, up to the next heading of the same or a higher
// level. Trailing whitespace is trimmed.
func (d *Document) ExtractSection(headingText string, level int) (string, bool) {
	tokens := d.res.Tokens

	start := -1
	for i, tok := range tokens {
		if tok.Type == model.TokenHeading && tok.Depth == level && tok.Text == headingText {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	end := len(tokens)
	for i := start + 1; i < len(tokens); i++ {
		if tokens[i].Type == model.TokenHeading && tokens[i].Depth <= level {
			end = i
			break
		}
	}

	var b strings.Builder
	for _, tok := range tokens[start:end] {
		b.WriteString(tok.Raw)
	}
	return strings.TrimRight(b.String(), " \t\r\n"), true
}

// ExtractBlock returns the source line that carries the anchor.
func (d *Document) ExtractBlock(anchorID string) (string, bool) {
	a, ok := d.FindAnchor(anchorID)
	if !ok {
		return "", false
	}
	idx := a.Line - 1
	if idx < 0 || idx >= len(d.lines) {
		return "", false
	}
	return d.lines[idx], true
}
