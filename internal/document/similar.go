package document

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/aidanlsb/cite/internal/slugs"
)

type scored struct {
	ref   string
	score float64
}

// FindSimilarAnchors returns the references of anchors resembling id,
// best first. Each result is the fragment a link should use.
func (d *Document) FindSimilarAnchors(id string) []string {
	want := normalizeID(id)
	wantTokens := slugs.Tokens(id)

	var matches []scored
	seen := make(map[string]bool)
	for _, a := range d.res.Anchors {
		ref := a.Reference()
		if seen[ref] {
			continue
		}
		score := similarity(want, normalizeID(a.ID))
		if j := jaccard(wantTokens, slugs.Tokens(a.ID)); j > score {
			score = j
		}
		if score < d.threshold {
			continue
		}
		seen[ref] = true
		matches = append(matches, scored{ref: ref, score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].ref < matches[j].ref
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.ref
	}
	return out
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimPrefix(slugs.DecodeID(id), "^"))
}

// similarity is 1 minus the edit distance over the longer length.
func similarity(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	inter := 0
	union := len(set)
	counted := make(map[string]bool, len(b))
	for _, t := range b {
		if counted[t] {
			continue
		}
		counted[t] = true
		if set[t] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}
