package model

// ExtractionStatus is the outcome of processing one link for extraction.
type ExtractionStatus string

const (
	ExtractionSuccess ExtractionStatus = "success"
	ExtractionSkipped ExtractionStatus = "skipped"
	ExtractionError   ExtractionStatus = "error"
)

// EligibilityDecision is the verdict of the eligibility chain.
type EligibilityDecision struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`
	Strategy string `json:"strategy,omitempty"`
}

// FailureDetails explains an extraction that did not succeed.
type FailureDetails struct {
	Reason string `json:"reason"`
}

// ExtractionResult is the outcome for one processed link. ContentID is set
// if and only if Status is ExtractionSuccess; use the constructors below.
type ExtractionResult struct {
	SourceLink        EnrichedLink        `json:"source_link"`
	Status            ExtractionStatus    `json:"status"`
	ContentID         string              `json:"content_id,omitempty"`
	EligibilityReason EligibilityDecision `json:"eligibility"`
	FailureDetails    *FailureDetails     `json:"failure_details,omitempty"`
}

// ExtractionSucceeded builds a success result.
func ExtractionSucceeded(link EnrichedLink, decision EligibilityDecision, contentID string) ExtractionResult {
	return ExtractionResult{
		SourceLink:        link,
		Status:            ExtractionSuccess,
		ContentID:         contentID,
		EligibilityReason: decision,
	}
}

// ExtractionSkippedFor builds a skipped result.
func ExtractionSkippedFor(link EnrichedLink, decision EligibilityDecision, reason string) ExtractionResult {
	return ExtractionResult{
		SourceLink:        link,
		Status:            ExtractionSkipped,
		EligibilityReason: decision,
		FailureDetails:    &FailureDetails{Reason: reason},
	}
}

// ExtractionFailed builds an error result.
func ExtractionFailed(link EnrichedLink, decision EligibilityDecision, reason string) ExtractionResult {
	return ExtractionResult{
		SourceLink:        link,
		Status:            ExtractionError,
		EligibilityReason: decision,
		FailureDetails:    &FailureDetails{Reason: reason},
	}
}

// SourceLinkRef records one link that produced a content block.
type SourceLinkRef struct {
	RawText string `json:"raw_source_link"`
	Line    int    `json:"source_line"`
}

// ExtractedContentBlock is content stored once per content hash.
type ExtractedContentBlock struct {
	Content       string          `json:"content"`
	ContentLength int             `json:"content_length"`
	SourceLinks   []SourceLinkRef `json:"source_links"`
}

// OutgoingLinksReport lists the processed links of one source file.
type OutgoingLinksReport struct {
	SourceFilePath string             `json:"source_file_path"`
	ProcessedLinks []ExtractionResult `json:"processed_links"`
}

// ExtractionStats summarises deduplication for one run.
type ExtractionStats struct {
	TotalLinks               int     `json:"total_links"`
	UniqueContent            int     `json:"unique_content"`
	DuplicateContentDetected int     `json:"duplicate_content_detected"`
	TokensSaved              int     `json:"tokens_saved"`
	CompressionRatio         float64 `json:"compression_ratio"`
}

// ExtractionReport is the full output of content extraction.
type ExtractionReport struct {
	ExtractedContentBlocks map[string]*ExtractedContentBlock `json:"extracted_content_blocks"`
	OutgoingLinksReport    OutgoingLinksReport               `json:"outgoing_links_report"`
	Stats                  ExtractionStats                   `json:"stats"`

	// BlockOrder lists content ids in first-seen order.
	BlockOrder []string `json:"-"`
}
