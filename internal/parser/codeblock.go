package parser

import (
	"regexp"
	"strings"
)

var listMarkerRe = regexp.MustCompile(`^(?:[-*+]|\d{1,9}[.)])[ \t]+`)

// FenceState tracks whether a line scan is inside a fenced code block.
type FenceState struct {
	InFence  bool
	FenceCh  byte
	FenceLen int
}

// normalizeFenceLine strips indentation, blockquote prefixes and list
// markers so fences inside quotes and list items are still detected.
func normalizeFenceLine(line string) string {
	s := strings.TrimLeft(line, " \t")
	for strings.HasPrefix(s, ">") {
		s = strings.TrimPrefix(s, ">")
		s = strings.TrimLeft(s, " \t")
	}
	for {
		loc := listMarkerRe.FindStringIndex(s)
		if loc == nil {
			return s
		}
		s = s[loc[1]:]
	}
}

// opensFence reports whether line starts a fence at block level, outside
// any quote or list item.
func opensFence(line string) bool {
	if isIndented(line) {
		return false
	}
	_, _, ok := parseFenceMarker(strings.TrimLeft(line, " "))
	return ok
}

// parseFenceMarker checks if a normalized line starts a code fence.
func parseFenceMarker(line string) (ch byte, n int, ok bool) {
	if len(line) < 3 {
		return 0, 0, false
	}
	ch = line[0]
	if ch != '`' && ch != '~' {
		return 0, 0, false
	}
	for n < len(line) && line[n] == ch {
		n++
	}
	if n < 3 {
		return 0, 0, false
	}
	return ch, n, true
}

// Update advances the state by one line.
// Returns true if the line is a fence marker (opening or closing).
func (fs *FenceState) Update(line string) bool {
	ch, n, ok := parseFenceMarker(normalizeFenceLine(line))
	if !ok {
		return false
	}

	if !fs.InFence {
		fs.InFence = true
		fs.FenceCh = ch
		fs.FenceLen = n
		return true
	}

	if fs.FenceCh == ch && n >= fs.FenceLen {
		fs.InFence = false
		fs.FenceCh = 0
		fs.FenceLen = 0
		return true
	}

	return false
}

// BlankInlineCode replaces inline code spans (`code`, ``co`de``) with
// spaces. Byte offsets are preserved so columns stay valid.
func BlankInlineCode(line string) string {
	result := []byte(line)
	i := 0

	for i < len(result) {
		if result[i] != '`' {
			i++
			continue
		}

		start := i
		openLen := 0
		for i < len(result) && result[i] == '`' {
			openLen++
			i++
		}

		for j := i; j < len(result); {
			if result[j] != '`' {
				j++
				continue
			}
			closeLen := 0
			for j < len(result) && result[j] == '`' {
				closeLen++
				j++
			}
			if closeLen == openLen {
				for k := start; k < j; k++ {
					result[k] = ' '
				}
				i = j
				break
			}
		}
		// An unmatched run is left as-is and scanning resumes after it.
	}

	return string(result)
}
