package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/aidanlsb/cite/internal/model"
)

// astLink is a markdown link as goldmark sees it.
type astLink struct {
	Destination string
	Text        string
	// Offset is the byte offset of the first text segment, or -1 when the
	// link has no text.
	Offset int
}

// markdownPass is everything the goldmark walk contributes to a parse.
type markdownPass struct {
	Headings []model.Heading
	Links    []astLink
}

// walkMarkdown parses source with goldmark and collects headings and inline
// links. Frontmatter must already be blanked out of source.
func walkMarkdown(source []byte, lineStarts []int) markdownPass {
	var out markdownPass

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(gmparser.WithHeadingAttribute()),
	)
	doc := md.Parser().Parse(text.NewReader(source))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if h, ok := headingFromNode(node, source, lineStarts); ok {
				out.Headings = append(out.Headings, h)
			}
		case *ast.Link:
			out.Links = append(out.Links, astLink{
				Destination: string(node.Destination),
				Text:        inlineText(node, source),
				Offset:      firstSegmentStart(node),
			})
		}
		return ast.WalkContinue, nil
	})

	return out
}

func headingFromNode(h *ast.Heading, source []byte, lineStarts []int) (model.Heading, bool) {
	headingText := inlineText(h, source)
	if headingText == "" || h.Lines().Len() == 0 {
		return model.Heading{}, false
	}

	var id string
	if v, ok := h.AttributeString("id"); ok {
		if b, ok := v.([]byte); ok {
			id = string(b)
		}
	}

	return model.Heading{
		Level:    h.Level,
		Text:     headingText,
		Line:     offsetToLine(lineStarts, h.Lines().At(0).Start) + 1,
		ID:       id,
		TopLevel: h.Parent() != nil && h.Parent().Kind() == ast.KindDocument,
	}, true
}

// inlineText concatenates the text of n's inline descendants, so
// "## **Bold** title" yields "Bold title".
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(parent ast.Node) {
		for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
			switch v := c.(type) {
			case *ast.Text:
				b.Write(v.Segment.Value(source))
				if v.SoftLineBreak() || v.HardLineBreak() {
					b.WriteByte(' ')
				}
			case *ast.String:
				b.Write(v.Value)
			case *ast.RawHTML:
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func firstSegmentStart(n ast.Node) int {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			return t.Segment.Start
		}
		if start := firstSegmentStart(c); start >= 0 {
			return start
		}
	}
	return -1
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	lo, hi := 0, len(lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
