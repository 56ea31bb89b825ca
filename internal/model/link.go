package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// LinkKind is the syntax a citation was written in.
type LinkKind string

const (
	LinkKindMarkdown LinkKind = "markdown"
	LinkKindWiki     LinkKind = "wiki"
	LinkKindCaret    LinkKind = "caret"
)

// Scope says whether a link points inside its own document or at another file.
type Scope string

const (
	ScopeInternal      Scope = "internal"
	ScopeCrossDocument Scope = "cross-document"

	// scopeExternalAlias is an older spelling of ScopeCrossDocument that is
	// accepted on input but never produced.
	scopeExternalAlias = "external"
)

// UnmarshalJSON accepts "external" as an alias for ScopeCrossDocument.
func (s *Scope) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case string(ScopeInternal):
		*s = ScopeInternal
	case string(ScopeCrossDocument), scopeExternalAlias:
		*s = ScopeCrossDocument
	default:
		return fmt.Errorf("unknown link scope %q", raw)
	}
	return nil
}

// AnchorKind classifies the anchor part of a link or an anchor definition.
type AnchorKind string

const (
	AnchorNone   AnchorKind = "none"
	AnchorHeader AnchorKind = "header"
	AnchorBlock  AnchorKind = "block"
)

// MarkerKind is an explicit extraction instruction written next to a link.
type MarkerKind string

const (
	MarkerForce MarkerKind = "force-extract"
	MarkerStop  MarkerKind = "stop-extract-link"
)

// Marker is an extraction marker found immediately after a link.
type Marker struct {
	Kind MarkerKind `json:"kind"`
	Raw  string     `json:"raw"`
}

// Target describes where a link points.
type Target struct {
	// RawPath is the path exactly as written. Empty for internal links.
	RawPath string `json:"raw_path,omitempty"`

	// AbsolutePath is RawPath decoded and joined to the source directory.
	// It is the naive interpretation; the validator may resolve elsewhere.
	AbsolutePath string `json:"absolute_path,omitempty"`

	// RelativePath is AbsolutePath relative to the source directory.
	RelativePath string `json:"relative_path,omitempty"`

	// Anchor is the fragment as written, without the leading '#'.
	// Block anchors keep their '^' sigil.
	Anchor *string `json:"anchor,omitempty"`
}

// Link is an outgoing citation found by the parser. Links are values and
// are never modified after parsing; validation produces an EnrichedLink.
type Link struct {
	Kind         LinkKind   `json:"link_kind"`
	Scope        Scope      `json:"scope"`
	AnchorKind   AnchorKind `json:"anchor_kind"`
	SourcePath   string     `json:"source_path"`
	Target       Target     `json:"target"`
	DisplayText  string     `json:"display_text,omitempty"`
	RawMatchText string     `json:"raw_match_text"`

	// Line and Column are 1-indexed; Column counts bytes.
	Line   int `json:"line"`
	Column int `json:"column"`

	ExtractionMarker *Marker `json:"extraction_marker,omitempty"`
}

// AnchorValue returns the anchor string or "" when the link has none.
func (l Link) AnchorValue() string {
	if l.Target.Anchor == nil {
		return ""
	}
	return *l.Target.Anchor
}

// HasMarker reports whether the link carries the given extraction marker.
func (l Link) HasMarker(kind MarkerKind) bool {
	return l.ExtractionMarker != nil && l.ExtractionMarker.Kind == kind
}

// IsInternal reports whether the link targets its own document.
func (l Link) IsInternal() bool { return l.Scope == ScopeInternal }

// Location returns "file:line" for display.
func (l Link) Location() string {
	return l.SourcePath + ":" + strconv.Itoa(l.Line)
}

// EnrichedLink is a Link after validation. It always carries a verdict.
type EnrichedLink struct {
	Link

	// ResolvedPath is the file the validator settled on. Empty when no
	// resolution strategy found the target.
	ResolvedPath string `json:"resolved_path,omitempty"`

	Validation Validation `json:"-"`
}

// Enrich attaches a verdict to a link. A nil verdict is a programming error.
func Enrich(link Link, resolvedPath string, verdict Validation) EnrichedLink {
	if verdict == nil {
		panic("model: Enrich called with nil validation")
	}
	return EnrichedLink{
		Link:         link,
		ResolvedPath: resolvedPath,
		Validation:   verdict,
	}
}

// Status returns the validation status of the link.
func (e EnrichedLink) Status() ValidationStatus {
	return StatusOf(e.Validation)
}

// MarshalJSON flattens the embedded link and renders the verdict.
func (e EnrichedLink) MarshalJSON() ([]byte, error) {
	type plain Link
	return json.Marshal(struct {
		plain
		ResolvedPath string         `json:"resolved_path,omitempty"`
		Validation   validationJSON `json:"validation"`
	}{
		plain:        plain(e.Link),
		ResolvedPath: e.ResolvedPath,
		Validation:   toValidationJSON(e.Validation),
	})
}
