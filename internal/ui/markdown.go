package ui

import (
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// MarkdownRenderMargin is the left margin of rendered markdown.
const MarkdownRenderMargin = 2

const defaultCodeTheme = "monokai"

var markdownCodeTheme = defaultCodeTheme

// ConfigureMarkdownCodeTheme selects the chroma style used for fenced code
// in rendered blocks. Names are matched case-insensitively; names missing
// from the chroma registry select the default.
func ConfigureMarkdownCodeTheme(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := styles.Registry[name]; ok {
		markdownCodeTheme = name
		return
	}
	markdownCodeTheme = defaultCodeTheme
}

// RenderMarkdown renders an extracted block for the terminal, wrapped at
// width. The result ends in exactly one newline.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = fallbackWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(citeMarkdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

func citeMarkdownStyle() ansi.StyleConfig {
	muted := ptr("8")
	code := ptr("203")
	var accent *string
	if color, ok := AccentColor(); ok {
		accent = ptr(color)
	}

	cfg := ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
			Margin:         ptr[uint](MarkdownRenderMargin),
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: muted},
			Indent:         ptr[uint](1),
			IndentToken:    ptr("│ "),
		},
		List: ansi.StyleList{LevelIndent: 2},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockSuffix: "\n", Color: accent, Bold: ptr(true)},
		},
		Strikethrough:  ansi.StylePrimitive{CrossedOut: ptr(true)},
		Emph:           ansi.StylePrimitive{Italic: ptr(true)},
		Strong:         ansi.StylePrimitive{Bold: ptr(true)},
		HorizontalRule: ansi.StylePrimitive{Color: muted, Format: "\n--------\n"},
		Item:           ansi.StylePrimitive{BlockPrefix: "• "},
		Enumeration:    ansi.StylePrimitive{BlockPrefix: ". "},
		Task:           ansi.StyleTask{Ticked: "[x] ", Unticked: "[ ] "},
		Link:           ansi.StylePrimitive{Color: muted, Underline: ptr(true)},
		LinkText:       ansi.StylePrimitive{Color: muted, Bold: ptr(true)},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Prefix: "`", Suffix: "`", Color: code},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: code},
				Margin:         ptr[uint](MarkdownRenderMargin),
			},
			Theme: markdownCodeTheme,
		},
		Table: ansi.StyleTable{
			CenterSeparator: ptr("│"),
			ColumnSeparator: ptr("│"),
			RowSeparator:    ptr("─"),
		},
	}

	// Extracted sections start with their own heading, so keep the
	// markers visible and underline the two levels that open a section.
	levels := []*ansi.StyleBlock{&cfg.H1, &cfg.H2, &cfg.H3, &cfg.H4, &cfg.H5, &cfg.H6}
	for i, h := range levels {
		h.Prefix = strings.Repeat("#", i+1) + " "
		if i < 2 {
			h.Underline = ptr(true)
		}
	}
	cfg.H6.Bold = ptr(false)
	return cfg
}

func ptr[T any](v T) *T { return &v }
