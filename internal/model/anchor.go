package model

// Anchor is a named location inside a document that a link can target.
type Anchor struct {
	Kind AnchorKind `json:"anchor_kind"`

	// ID is the raw identifier: heading text for headers, the bare name
	// (without '^') for block anchors.
	ID string `json:"id"`

	// URLEncodedID is the percent-encoded heading id. Headers only.
	URLEncodedID *string `json:"url_encoded_id,omitempty"`

	// Explicit marks block anchors declared with {#id} rather than ^id.
	// Explicit anchors are referenced with a bare '#'.
	Explicit bool `json:"explicit,omitempty"`

	RawText string `json:"raw_text"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// Matches reports whether id equals the raw or encoded identifier.
func (a Anchor) Matches(id string) bool {
	if a.ID == id {
		return true
	}
	return a.URLEncodedID != nil && *a.URLEncodedID == id
}

// IsCaretBlock reports whether the anchor must be referenced as #^id.
func (a Anchor) IsCaretBlock() bool {
	return a.Kind == AnchorBlock && !a.Explicit
}

// Reference returns the fragment a link should use to reach this anchor,
// without the leading '#'.
func (a Anchor) Reference() string {
	switch {
	case a.IsCaretBlock():
		return "^" + a.ID
	case a.URLEncodedID != nil:
		return *a.URLEncodedID
	default:
		return a.ID
	}
}

// Heading is a markdown heading.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Line  int    `json:"line"` // 1-indexed

	// ID is the explicit {#id} attribute, if any.
	ID string `json:"id,omitempty"`

	// TopLevel is false for headings nested in lists or blockquotes.
	TopLevel bool `json:"top_level"`
}

// TokenType classifies a block-level token.
type TokenType string

const (
	TokenFrontmatter TokenType = "frontmatter"
	TokenHeading     TokenType = "heading"
	TokenParagraph   TokenType = "paragraph"
	TokenCode        TokenType = "code"
	TokenList        TokenType = "list"
	TokenBlockquote  TokenType = "blockquote"
	TokenTable       TokenType = "table"
	TokenRule        TokenType = "hr"
	TokenHTML        TokenType = "html"
	TokenSpace       TokenType = "space"
)

// Token is a block-level span of the source. Raw includes the trailing
// newline, so joining every token's Raw reproduces the file.
type Token struct {
	Type    TokenType `json:"type"`
	Depth   int       `json:"depth,omitempty"` // heading level
	Text    string    `json:"text,omitempty"`  // heading text
	Raw     string    `json:"raw"`
	Line    int       `json:"line"`
	EndLine int       `json:"end_line"`
	Offset  int       `json:"offset"`
}
