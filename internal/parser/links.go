package parser

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/aidanlsb/cite/internal/model"
	"github.com/aidanlsb/cite/internal/slugs"
	"github.com/aidanlsb/cite/internal/wikilink"
)

var (
	// inlineLinkRe matches [text](destination) on one line. Text may hold
	// one level of nested brackets and the destination one level of parens.
	inlineLinkRe = regexp.MustCompile(`\[((?:[^\[\]]|\[[^\[\]]*\])*)\]\(([^()]*(?:\([^()]*\)[^()]*)*)\)`)

	linkTitleRe = regexp.MustCompile(`^(.*?)\s+(?:"[^"]*"|'[^']*')$`)
	schemeRe    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]+:`)
	caretRefRe  = regexp.MustCompile(`\^([A-Za-z][A-Za-z0-9_-]*)`)
)

var markerForms = []struct {
	raw  string
	kind model.MarkerKind
}{
	{"%%force-extract%%", model.MarkerForce},
	{"<!-- force-extract -->", model.MarkerForce},
	{"%%stop-extract-link%%", model.MarkerStop},
	{"<!-- stop-extract-link -->", model.MarkerStop},
}

// span is a byte range on one line.
type span struct{ start, end int }

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

// linkScanner collects links for one document.
type linkScanner struct {
	sourcePath string
	sourceDir  string
	// lines are the original lines without line endings.
	lines []string
	// scan are lines with code and frontmatter blanked; "" when skipped.
	scan  []string
	spans map[int][]span
	links []model.Link
}

func newLinkScanner(sourcePath string, lines, scan []string) *linkScanner {
	return &linkScanner{
		sourcePath: sourcePath,
		sourceDir:  filepath.Dir(sourcePath),
		lines:      lines,
		scan:       scan,
		spans:      make(map[int][]span),
	}
}

func (ls *linkScanner) claimed(line int, s span) bool {
	for _, c := range ls.spans[line] {
		if c.overlaps(s) {
			return true
		}
	}
	return false
}

func (ls *linkScanner) claim(line int, s span) {
	ls.spans[line] = append(ls.spans[line], s)
}

// scanMarkdown records inline markdown links. Links goldmark recognised are
// placed first; the line regex then picks up what goldmark rejects, such as
// destinations containing spaces. A regex match overlapping an already
// placed link is dropped.
func (ls *linkScanner) scanMarkdown(fromAST []astLink, lineStarts []int) {
	candidates := make(map[int][][]int)
	for i, line := range ls.scan {
		if line == "" {
			continue
		}
		for _, m := range inlineLinkRe.FindAllStringSubmatchIndex(line, -1) {
			if m[0] > 0 && line[m[0]-1] == '!' {
				continue
			}
			candidates[i] = append(candidates[i], m)
		}
	}

	for _, al := range fromAST {
		if al.Offset < 0 {
			continue
		}
		li := offsetToLine(lineStarts, al.Offset)
		if li >= len(ls.scan) || ls.scan[li] == "" {
			continue
		}
		col := al.Offset - lineStarts[li]

		s := span{start: col - 1, end: col + len(al.Text)}
		raw := "[" + al.Text + "]"
		for _, m := range candidates[li] {
			if m[0] < col && col < m[1] {
				s = span{start: m[0], end: m[1]}
				raw = ls.lines[li][m[0]:m[1]]
				break
			}
		}
		if s.start < 0 || ls.claimed(li, s) {
			continue
		}

		if link, ok := ls.buildLink(model.LinkKindMarkdown, al.Destination, al.Text, raw, li, s); ok {
			ls.claim(li, s)
			ls.links = append(ls.links, link)
		}
	}

	for li, ms := range candidates {
		for _, m := range ms {
			s := span{start: m[0], end: m[1]}
			if ls.claimed(li, s) {
				continue
			}
			line := ls.lines[li]
			dest := parseDestination(line[m[4]:m[5]])
			display := line[m[2]:m[3]]
			if link, ok := ls.buildLink(model.LinkKindMarkdown, dest, display, line[m[0]:m[1]], li, s); ok {
				ls.claim(li, s)
				ls.links = append(ls.links, link)
			}
		}
	}
}

func (ls *linkScanner) scanWiki() {
	for li, line := range ls.scan {
		if line == "" {
			continue
		}
		for _, m := range wikilink.FindAllInLine(line) {
			s := span{start: m.Start, end: m.End}
			if ls.claimed(li, s) {
				continue
			}

			dest := m.Path
			if m.Anchor != nil {
				dest += "#" + *m.Anchor
			}
			display := m.Target
			if m.DisplayText != nil {
				display = *m.DisplayText
			}

			raw := ls.lines[li][m.Start:m.End]
			if link, ok := ls.buildLink(model.LinkKindWiki, dest, display, raw, li, s); ok {
				ls.claim(li, s)
				ls.links = append(ls.links, link)
			}
		}
	}
}

// scanCaret records bare ^id references. A ^id that ends its line defines
// a block anchor instead. Identifiers must start with a letter and may not
// continue with ".digit", so version strings like ^14.0.1 or ^v1.2.3 are
// never references.
func (ls *linkScanner) scanCaret() {
	for li, line := range ls.scan {
		if line == "" || !strings.Contains(line, "^") {
			continue
		}
		for _, m := range caretRefRe.FindAllStringSubmatchIndex(line, -1) {
			start, end := m[0], m[1]
			if start > 0 && !strings.ContainsRune(" \t([|,;:\"'", rune(line[start-1])) {
				continue
			}
			if strings.TrimSpace(line[end:]) == "" {
				continue
			}
			if !caretTerminator(line, end) {
				continue
			}
			s := span{start: start, end: end}
			if ls.claimed(li, s) {
				continue
			}

			anchor := line[start:end]
			link := model.Link{
				Kind:         model.LinkKindCaret,
				Scope:        model.ScopeInternal,
				AnchorKind:   model.AnchorBlock,
				SourcePath:   ls.sourcePath,
				Target:       model.Target{Anchor: &anchor},
				RawMatchText: anchor,
				Line:         li + 1,
				Column:       start + 1,
			}
			link.ExtractionMarker = markerAfter(ls.lines[li], end)
			ls.claim(li, s)
			ls.links = append(ls.links, link)
		}
	}
}

func caretTerminator(line string, end int) bool {
	c := line[end]
	if c == '.' {
		return end+1 >= len(line) || !isDigit(line[end+1])
	}
	return strings.ContainsRune(" \t),;:!?]|\"'", rune(c))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// buildLink turns a destination into a Link. External URLs and empty
// destinations yield ok=false.
func (ls *linkScanner) buildLink(kind model.LinkKind, dest, display, raw string, li int, s span) (model.Link, bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || isExternal(dest) {
		return model.Link{}, false
	}

	path, anchor := dest, (*string)(nil)
	if idx := strings.Index(dest, "#"); idx >= 0 {
		path = dest[:idx]
		if a := dest[idx+1:]; a != "" {
			anchor = &a
		}
	}
	if path == "" && anchor == nil {
		return model.Link{}, false
	}

	link := model.Link{
		Kind:         kind,
		SourcePath:   ls.sourcePath,
		DisplayText:  strings.TrimSpace(display),
		RawMatchText: raw,
		Line:         li + 1,
		Column:       s.start + 1,
		AnchorKind:   anchorKind(anchor),
	}

	if path == "" {
		link.Scope = model.ScopeInternal
		link.Target = model.Target{Anchor: anchor}
	} else {
		link.Scope = model.ScopeCrossDocument
		link.Target = ls.target(path, anchor, kind == model.LinkKindWiki)
	}

	link.ExtractionMarker = markerAfter(ls.lines[li], s.end)
	return link, true
}

func (ls *linkScanner) target(rawPath string, anchor *string, wiki bool) model.Target {
	decoded := filepath.FromSlash(slugs.DecodeID(rawPath))
	if wiki && filepath.Ext(decoded) == "" {
		decoded += ".md"
	}

	abs := decoded
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(ls.sourceDir, decoded)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(ls.sourceDir, abs)
	if err != nil {
		rel = decoded
	}

	return model.Target{
		RawPath:      rawPath,
		AbsolutePath: abs,
		RelativePath: rel,
		Anchor:       anchor,
	}
}

func (ls *linkScanner) sorted() []model.Link {
	sort.SliceStable(ls.links, func(i, j int) bool {
		if ls.links[i].Line != ls.links[j].Line {
			return ls.links[i].Line < ls.links[j].Line
		}
		return ls.links[i].Column < ls.links[j].Column
	})
	return ls.links
}

func anchorKind(anchor *string) model.AnchorKind {
	switch {
	case anchor == nil || *anchor == "":
		return model.AnchorNone
	case strings.HasPrefix(*anchor, "^"):
		return model.AnchorBlock
	default:
		return model.AnchorHeader
	}
}

// parseDestination strips angle brackets and an optional link title.
func parseDestination(raw string) string {
	dest := strings.TrimSpace(raw)
	if strings.HasPrefix(dest, "<") {
		if end := strings.Index(dest, ">"); end > 0 {
			return dest[1:end]
		}
	}
	if m := linkTitleRe.FindStringSubmatch(dest); m != nil {
		return m[1]
	}
	return dest
}

func isExternal(dest string) bool {
	return strings.HasPrefix(dest, "//") || schemeRe.MatchString(dest)
}

// markerAfter returns the extraction marker that immediately follows a
// link ending at byte end, if any.
func markerAfter(line string, end int) *model.Marker {
	if end > len(line) {
		return nil
	}
	rest := strings.TrimLeft(line[end:], " \t")
	for _, form := range markerForms {
		if strings.HasPrefix(rest, form.raw) {
			return &model.Marker{Kind: form.kind, Raw: form.raw}
		}
	}
	return nil
}
