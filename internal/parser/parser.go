// Package parser turns markdown files into structural documents: block
// tokens, headings, anchors and outgoing citation links.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aidanlsb/cite/internal/model"
	"github.com/aidanlsb/cite/internal/vault"
)

// ErrInvalidEncoding is returned for files that are not valid UTF-8.
var ErrInvalidEncoding = errors.New("file is not valid UTF-8")

// Result is the parsed form of one markdown file.
type Result struct {
	// FilePath is absolute.
	FilePath string
	// Content is the file text with any byte order mark removed.
	Content string

	// Frontmatter is nil when the file has none.
	Frontmatter *Frontmatter

	Tokens   []model.Token
	Headings []model.Heading
	Links    []model.Link
	Anchors  []model.Anchor
}

// Parser reads and parses markdown files. It holds no per-file state and
// is safe for concurrent use.
type Parser struct {
	fsys vault.FS
}

// New creates a parser reading through fsys. A nil fsys reads the local
// filesystem.
func New(fsys vault.FS) *Parser {
	if fsys == nil {
		fsys = vault.OSFS{}
	}
	return &Parser{fsys: fsys}
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(path string) (*Result, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := p.fsys.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", absPath, err)
	}
	return ParseContent(absPath, data)
}

// ParseContent parses markdown already in memory. path is used for link
// targets and must be absolute for AbsolutePath values to be meaningful.
func ParseContent(path string, data []byte) (*Result, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidEncoding)
	}
	content := strings.TrimPrefix(string(data), "\ufeff")

	keep := splitLinesKeep(content)
	lines := make([]string, len(keep))
	for i, l := range keep {
		lines[i] = stripEOL(l)
	}

	// Malformed YAML still delimits a frontmatter block; Fields stays nil.
	fm, _ := ParseFrontmatter(content)
	fmEnd := -1
	if fm != nil {
		fmEnd = fm.EndLine - 1
	}

	lineStarts := computeLineStarts(content)
	pass := walkMarkdown(maskLines(keep, fmEnd), lineStarts)
	tokens := scanTokens(keep, fmEnd, pass.Headings)
	scan := scannableLines(lines, fmEnd, tokens)

	ls := newLinkScanner(path, lines, scan)
	ls.scanMarkdown(pass.Links, lineStarts)
	ls.scanWiki()
	ls.scanCaret()

	anchors := collectAnchors(pass.Headings, lines, scan)
	sort.SliceStable(anchors, func(i, j int) bool {
		if anchors[i].Line != anchors[j].Line {
			return anchors[i].Line < anchors[j].Line
		}
		return anchors[i].Column < anchors[j].Column
	})

	return &Result{
		FilePath:    path,
		Content:     content,
		Frontmatter: fm,
		Tokens:      tokens,
		Headings:    pass.Headings,
		Links:       ls.sorted(),
		Anchors:     anchors,
	}, nil
}

// maskLines blanks the frontmatter so goldmark does not read its
// delimiters as a thematic break or setext underline. Byte offsets are kept.
func maskLines(lines []string, fmEnd int) []byte {
	var b strings.Builder
	for i, l := range lines {
		if i > fmEnd {
			b.WriteString(l)
			continue
		}
		for j := 0; j < len(l); j++ {
			if l[j] == '\n' {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
	}
	return []byte(b.String())
}

// scannableLines returns lines with inline code blanked. Frontmatter,
// fenced code and indented code lines become "".
func scannableLines(lines []string, fmEnd int, tokens []model.Token) []string {
	code := make(map[int]bool)
	for _, tok := range tokens {
		if tok.Type == model.TokenCode {
			for l := tok.Line; l <= tok.EndLine; l++ {
				code[l-1] = true
			}
		}
	}

	out := make([]string, len(lines))
	var fence FenceState
	for i, line := range lines {
		if i <= fmEnd {
			continue
		}
		if code[i] {
			continue
		}
		// Fences nested in lists or quotes are not code tokens of their own.
		if fence.Update(line) || fence.InFence {
			continue
		}
		out[i] = BlankInlineCode(line)
	}
	return out
}
