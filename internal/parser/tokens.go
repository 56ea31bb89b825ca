package parser

import (
	"regexp"
	"strings"

	"github.com/aidanlsb/cite/internal/model"
)

var (
	atxHeadingRe      = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]|$)`)
	setextUnderlineRe = regexp.MustCompile(`^ {0,3}(?:=+|-+)[ \t]*$`)
	thematicBreakRe   = regexp.MustCompile(`^ {0,3}(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)
	listItemRe        = regexp.MustCompile(`^ {0,3}(?:[-*+]|\d{1,9}[.)])(?:[ \t]|$)`)
	blockquoteRe      = regexp.MustCompile(`^ {0,3}>`)
	tableDelimiterRe  = regexp.MustCompile(`^[ \t]*\|?[ \t]*:?-+:?[ \t]*(?:\|[ \t]*:?-+:?[ \t]*)*\|?[ \t]*$`)
	htmlBlockRe       = regexp.MustCompile(`^ {0,3}<(?:[A-Za-z/]|!--)`)
)

// splitLinesKeep splits content into lines that keep their trailing "\n".
func splitLinesKeep(content string) []string {
	var lines []string
	for len(content) > 0 {
		i := strings.IndexByte(content, '\n')
		if i < 0 {
			lines = append(lines, content)
			break
		}
		lines = append(lines, content[:i+1])
		content = content[i+1:]
	}
	return lines
}

func stripEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

// blockScanner splits a document into block tokens. Top-level heading
// positions come from goldmark; everything else is recognised line by line.
type blockScanner struct {
	lines    []string
	headings map[int]model.Heading
	tokens   []model.Token
	offset   int
}

// scanTokens returns tokens covering every line of lines in order.
// fmEnd is the 0-indexed closing frontmatter line, or -1.
func scanTokens(lines []string, fmEnd int, headings []model.Heading) []model.Token {
	s := &blockScanner{
		lines:    lines,
		headings: make(map[int]model.Heading),
	}
	for _, h := range headings {
		if h.TopLevel {
			s.headings[h.Line-1] = h
		}
	}

	i := 0
	if fmEnd >= 0 {
		s.emit(model.TokenFrontmatter, 0, fmEnd+1, 0, "")
		i = fmEnd + 1
	}

	for i < len(lines) {
		i = s.next(i)
	}
	return s.tokens
}

func (s *blockScanner) bare(i int) string {
	return stripEOL(s.lines[i])
}

func (s *blockScanner) emit(typ model.TokenType, start, end, depth int, text string) {
	raw := strings.Join(s.lines[start:end], "")
	s.tokens = append(s.tokens, model.Token{
		Type:    typ,
		Depth:   depth,
		Text:    text,
		Raw:     raw,
		Line:    start + 1,
		EndLine: end,
		Offset:  s.offset,
	})
	s.offset += len(raw)
}

// next emits the token starting at line i and returns the line after it.
func (s *blockScanner) next(i int) int {
	line := s.bare(i)
	n := len(s.lines)

	if isBlank(line) {
		j := i + 1
		for j < n && isBlank(s.bare(j)) {
			j++
		}
		s.emit(model.TokenSpace, i, j, 0, "")
		return j
	}

	if h, ok := s.headings[i]; ok {
		end := i + 1
		if !atxHeadingRe.MatchString(line) {
			// Setext: the heading runs to its underline.
			for j := i + 1; j < n && !isBlank(s.bare(j)); j++ {
				if setextUnderlineRe.MatchString(s.bare(j)) {
					end = j + 1
					break
				}
			}
		}
		s.emit(model.TokenHeading, i, end, h.Level, h.Text)
		return end
	}

	if m := atxHeadingRe.FindStringSubmatch(line); m != nil {
		// Empty ATX heading; still ends sections.
		s.emit(model.TokenHeading, i, i+1, len(m[1]), "")
		return i + 1
	}

	if blockquoteRe.MatchString(line) {
		j := i + 1
		for j < n && !isBlank(s.bare(j)) && (blockquoteRe.MatchString(s.bare(j)) || !s.startsBlock(j)) {
			j++
		}
		s.emit(model.TokenBlockquote, i, j, 0, "")
		return j
	}

	if opensFence(line) {
		var fence FenceState
		fence.Update(line)
		j := i + 1
		for j < n {
			closed := fence.Update(s.bare(j)) && !fence.InFence
			j++
			if closed {
				break
			}
		}
		s.emit(model.TokenCode, i, j, 0, "")
		return j
	}

	if isIndented(line) {
		j := s.continueIndented(i + 1)
		s.emit(model.TokenCode, i, j, 0, "")
		return j
	}

	if thematicBreakRe.MatchString(line) {
		s.emit(model.TokenRule, i, i+1, 0, "")
		return i + 1
	}

	if listItemRe.MatchString(line) {
		j := s.continueList(i + 1)
		s.emit(model.TokenList, i, j, 0, "")
		return j
	}

	if strings.Contains(line, "|") && i+1 < n && tableDelimiterRe.MatchString(s.bare(i+1)) {
		j := i + 2
		for j < n && !isBlank(s.bare(j)) && strings.Contains(s.bare(j), "|") {
			j++
		}
		s.emit(model.TokenTable, i, j, 0, "")
		return j
	}

	if htmlBlockRe.MatchString(line) {
		j := i + 1
		for j < n && !isBlank(s.bare(j)) {
			j++
		}
		s.emit(model.TokenHTML, i, j, 0, "")
		return j
	}

	j := i + 1
	for j < n && !isBlank(s.bare(j)) && !s.startsBlock(j) {
		j++
	}
	s.emit(model.TokenParagraph, i, j, 0, "")
	return j
}

// startsBlock reports whether line j interrupts a paragraph-like block.
func (s *blockScanner) startsBlock(j int) bool {
	if _, ok := s.headings[j]; ok {
		return true
	}
	line := s.bare(j)
	if atxHeadingRe.MatchString(line) || thematicBreakRe.MatchString(line) || blockquoteRe.MatchString(line) {
		return true
	}
	return opensFence(line)
}

func (s *blockScanner) continueIndented(j int) int {
	n := len(s.lines)
	for j < n {
		if isIndented(s.bare(j)) && !isBlank(s.bare(j)) {
			j++
			continue
		}
		if isBlank(s.bare(j)) {
			k := j
			for k < n && isBlank(s.bare(k)) {
				k++
			}
			if k < n && isIndented(s.bare(k)) {
				j = k
				continue
			}
		}
		break
	}
	return j
}

// continueList returns the line after the list that started before j.
// Blank lines stay inside the list only when the list continues after them.
func (s *blockScanner) continueList(j int) int {
	n := len(s.lines)
	var fence FenceState
	for j < n {
		line := s.bare(j)
		if fence.InFence {
			fence.Update(line)
			j++
			continue
		}
		if isBlank(line) {
			k := j
			for k < n && isBlank(s.bare(k)) {
				k++
			}
			if k < n && s.continuesList(k) {
				j = k
				continue
			}
			break
		}
		if _, ok := s.headings[j]; ok {
			break
		}
		if !isIndented(line) && (atxHeadingRe.MatchString(line) || thematicBreakRe.MatchString(line)) {
			break
		}
		fence.Update(line)
		j++
	}
	return j
}

func (s *blockScanner) continuesList(k int) bool {
	if _, ok := s.headings[k]; ok {
		return false
	}
	line := s.bare(k)
	if thematicBreakRe.MatchString(line) {
		return false
	}
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") || listItemRe.MatchString(line)
}
