package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML block at the top of a document.
type Frontmatter struct {
	// Fields is nil when the block is not valid YAML.
	Fields map[string]any

	// Raw is the text between the delimiters.
	Raw string

	// EndLine is the 1-indexed line of the closing delimiter.
	EndLine int
}

// FrontmatterBounds returns the opening and closing frontmatter line indices.
// It only detects frontmatter when the first line is '---'.
// If frontmatter is present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}

	return 0, -1, true
}

// ParseFrontmatter parses YAML frontmatter from markdown content.
// Returns nil if no closed frontmatter block is found. A block that is
// not valid YAML is still returned, with nil Fields, alongside the error.
func ParseFrontmatter(content string) (*Frontmatter, error) {
	lines := strings.Split(content, "\n")

	_, endLine, ok := FrontmatterBounds(lines)
	if !ok || endLine == -1 {
		return nil, nil
	}

	raw := strings.Join(lines[1:endLine], "\n")
	fm := &Frontmatter{
		Raw:     raw,
		EndLine: endLine + 1,
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return fm, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
	}
	// An empty block decodes to a nil map but still counts as frontmatter.
	if fields == nil {
		fields = map[string]any{}
	}
	fm.Fields = fields

	return fm, nil
}
