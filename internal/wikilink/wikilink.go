// Package wikilink provides parsing/scanning of Obsidian-style wikilinks.
//
// Wikilink grammar:
//
//	[[target]]
//	[[target|display text]]
//	[[target#Heading]]
//	[[target#^block|display text]]
//	[[#Heading]]            (same document)
//
// Notes:
//   - The target and display text are trimmed of surrounding whitespace.
//   - Embeds (![[...]]) and array-like [[[...]]] literals are not links.
//   - This package does NOT understand markdown code fences; callers decide
//     whether scanning is enabled for a given region.
package wikilink

import (
	"regexp"
	"strings"
)

// Match represents a wikilink found in a single line.
type Match struct {
	// Target is everything before '|', e.g. "specs/auth#Login Flow".
	Target string
	// Path is the file part of Target; empty for same-document links.
	Path string
	// Anchor is the part after '#', nil when absent.
	Anchor      *string
	DisplayText *string
	Start       int
	End         int
	Literal     string
}

// re matches [[target]] or [[target|display]].
// The target cannot contain [ or ] to avoid matching [[[ref]]].
var re = regexp.MustCompile(`\[\[([^\]\[|]+)(?:\|([^\]]+))?\]\]`)

// SplitTarget splits a wikilink target into its path and anchor parts.
func SplitTarget(target string) (path string, anchor *string) {
	idx := strings.Index(target, "#")
	if idx < 0 {
		return strings.TrimSpace(target), nil
	}
	a := strings.TrimSpace(target[idx+1:])
	return strings.TrimSpace(target[:idx]), &a
}

// ParseExact parses a string that is exactly a wikilink literal.
func ParseExact(s string) (target string, display *string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[[") || !strings.HasSuffix(s, "]]") {
		return "", nil, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "[["), "]]")
	parts := strings.SplitN(inner, "|", 2)
	target = strings.TrimSpace(parts[0])
	if target == "" {
		return "", nil, false
	}
	if len(parts) == 2 {
		d := strings.TrimSpace(parts[1])
		display = &d
	}
	return target, display, true
}

// FindAllInLine finds wikilinks in a single line, skipping embeds and
// triple-bracket literals.
func FindAllInLine(line string) []Match {
	var out []Match

	for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
		start, end := m[0], m[1]

		if start > 0 && (line[start-1] == '[' || line[start-1] == '!') {
			continue
		}

		target := strings.TrimSpace(line[m[2]:m[3]])
		if target == "" || target == "#" {
			continue
		}

		var display *string
		if m[4] >= 0 && m[5] >= 0 {
			d := strings.TrimSpace(line[m[4]:m[5]])
			display = &d
		}

		path, anchor := SplitTarget(target)
		if anchor != nil && *anchor == "" {
			anchor = nil
		}

		out = append(out, Match{
			Target:      target,
			Path:        path,
			Anchor:      anchor,
			DisplayText: display,
			Start:       start,
			End:         end,
			Literal:     line[start:end],
		})
	}

	return out
}
