package parser

import (
	"regexp"
	"strings"

	"github.com/aidanlsb/cite/internal/model"
	"github.com/aidanlsb/cite/internal/slugs"
)

var (
	// blockAnchorRe matches an Obsidian block id closing a line: "text ^id".
	blockAnchorRe = regexp.MustCompile(`(?:^|[ \t])\^([A-Za-z][A-Za-z0-9_-]*)[ \t]*$`)

	// emphasisAnchorRe matches an emphasised phrase followed by {#id}:
	// **Text**{#id}, ==Text=={#id}, ==**Text**=={#id}, *Text*{#id}.
	emphasisAnchorRe = regexp.MustCompile(`(==\*\*|\*\*|==|\*|_)([^*=_{}]+?)(\*\*==|\*\*|==|\*|_)[ \t]?\{#([A-Za-z][A-Za-z0-9_-]*)\}`)
)

var emphasisClose = map[string]string{
	"==**": "**==",
	"**":   "**",
	"==":   "==",
	"*":    "*",
	"_":    "_",
}

// collectAnchors gathers header anchors from headings and block anchors
// from the scannable lines. Heading lines never carry emphasis anchors.
func collectAnchors(headings []model.Heading, lines, scan []string) []model.Anchor {
	var anchors []model.Anchor
	headingLines := make(map[int]bool, len(headings))

	for _, h := range headings {
		idx := h.Line - 1
		headingLines[idx] = true

		raw, col := "", 1
		if idx >= 0 && idx < len(lines) {
			raw = strings.TrimSpace(lines[idx])
			col = len(lines[idx]) - len(strings.TrimLeft(lines[idx], " \t")) + 1
		}

		encoded := slugs.EncodeHeadingID(h.Text)
		anchors = append(anchors, model.Anchor{
			Kind:         model.AnchorHeader,
			ID:           h.Text,
			URLEncodedID: &encoded,
			RawText:      raw,
			Line:         h.Line,
			Column:       col,
		})

		if h.ID != "" {
			anchors = append(anchors, model.Anchor{
				Kind:     model.AnchorBlock,
				ID:       h.ID,
				Explicit: true,
				RawText:  raw,
				Line:     h.Line,
				Column:   col,
			})
		}
	}

	for i, line := range scan {
		if line == "" {
			continue
		}

		if m := blockAnchorRe.FindStringSubmatchIndex(line); m != nil {
			caret := m[2] - 1
			anchors = append(anchors, model.Anchor{
				Kind:    model.AnchorBlock,
				ID:      line[m[2]:m[3]],
				RawText: strings.TrimSpace(lines[i]),
				Line:    i + 1,
				Column:  caret + 1,
			})
		}

		if headingLines[i] {
			continue
		}
		for _, m := range emphasisAnchorRe.FindAllStringSubmatchIndex(line, -1) {
			open, closing := line[m[2]:m[3]], line[m[6]:m[7]]
			if emphasisClose[open] != closing {
				continue
			}
			anchors = append(anchors, model.Anchor{
				Kind:     model.AnchorBlock,
				ID:       line[m[8]:m[9]],
				Explicit: true,
				RawText:  lines[i][m[0]:m[1]],
				Line:     i + 1,
				Column:   m[0] + 1,
			})
		}
	}

	return anchors
}
