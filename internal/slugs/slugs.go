// Package slugs provides the identifier transformations used for anchors.
//
// There are three forms of a heading identifier in circulation:
//   - the raw heading text, which Obsidian-style links use directly ("#Goals and Scope")
//   - the percent-encoded text, which markdown renderers require ("#Goals%20and%20Scope")
//   - the GitHub-style slug, which people paste from rendered pages ("#goals-and-scope")
//
// Only the first two are canonical. The slug form is recognised so the
// validator can suggest the canonical spelling.
package slugs

import (
	"net/url"
	"strings"
	"unicode"

	goslug "github.com/gosimple/slug"
)

// HeadingSlug converts heading text to a GitHub-style slug.
func HeadingSlug(text string) string {
	var result strings.Builder
	prevDash := false

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
			prevDash = false
		case r == ' ' || r == '-' || r == '_' || r == ':':
			if !prevDash && result.Len() > 0 {
				result.WriteRune('-')
				prevDash = true
			}
		}
	}

	return strings.TrimSuffix(result.String(), "-")
}

// EncodeHeadingID percent-encodes heading text for use as a URL fragment.
// Letters, digits and the characters - _ . ~ $ & + : = @ are kept; every
// other byte, including spaces, '/', ',', '(' and ')', becomes %XX.
func EncodeHeadingID(text string) string {
	return url.PathEscape(text)
}

// DecodeID reverses EncodeHeadingID. Invalid escapes return the input unchanged.
func DecodeID(id string) string {
	decoded, err := url.PathUnescape(id)
	if err != nil {
		return id
	}
	return decoded
}

// ComponentSlug converts a string to an ASCII slug, transliterating
// non-ASCII letters.
func ComponentSlug(s string) string {
	s = strings.TrimSuffix(s, ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}

// Tokens splits an identifier into lowercase word tokens. Percent-encoding
// is undone first, so "Goals%20and%20Scope" and "goals-and-scope" share
// the tokens [goals and scope].
func Tokens(id string) []string {
	id = strings.TrimPrefix(DecodeID(id), "^")
	var out []string
	for _, part := range strings.Split(ComponentSlug(id), "-") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
