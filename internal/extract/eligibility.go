package extract

import (
	"github.com/aidanlsb/cite/internal/model"
)

// Flags are the caller-supplied switches that influence eligibility.
type Flags struct {
	// FullFiles allows links without an anchor to pull in whole files.
	FullFiles bool
}

// Strategy names one rule of the eligibility chain.
type Strategy string

const (
	StrategyStopMarker  Strategy = "stop-marker"
	StrategyForceMarker Strategy = "force-marker"
	StrategySectionLink Strategy = "section-link"
	StrategyCLIFlag     Strategy = "cli-flag"
)

// ReasonNoStrategy is reported when no rule decided.
const ReasonNoStrategy = "no strategy matched"

// rule returns a decision, or false when it has no opinion.
type rule struct {
	name   Strategy
	decide func(link model.Link, flags Flags) (eligible bool, reason string, ok bool)
}

// chain is evaluated in order; the first rule with an opinion wins.
var chain = []rule{
	{StrategyStopMarker, func(link model.Link, _ Flags) (bool, string, bool) {
		if link.HasMarker(model.MarkerStop) {
			return false, "stop-extract-link marker present", true
		}
		return false, "", false
	}},
	{StrategyForceMarker, func(link model.Link, _ Flags) (bool, string, bool) {
		if link.HasMarker(model.MarkerForce) {
			return true, "force-extract marker present", true
		}
		return false, "", false
	}},
	{StrategySectionLink, func(link model.Link, _ Flags) (bool, string, bool) {
		if hasAnchor(link) {
			return true, "links to a " + string(link.AnchorKind) + " anchor", true
		}
		return false, "", false
	}},
	{StrategyCLIFlag, func(link model.Link, flags Flags) (bool, string, bool) {
		if hasAnchor(link) {
			return false, "", false
		}
		if flags.FullFiles {
			return true, "full-file link included by --full-files", true
		}
		return false, "full-file link requires --full-files", true
	}},
}

// AnalyzeEligibility decides whether link's target content should be
// extracted. A stop marker always wins, then a force marker, then anchored
// links, then the full-files flag for anchorless links.
func AnalyzeEligibility(link model.Link, flags Flags) model.EligibilityDecision {
	for _, r := range chain {
		if eligible, reason, ok := r.decide(link, flags); ok {
			return model.EligibilityDecision{
				Eligible: eligible,
				Reason:   reason,
				Strategy: string(r.name),
			}
		}
	}
	return model.EligibilityDecision{Reason: ReasonNoStrategy}
}

// hasAnchor reports whether link names a fragment. "spec.md#" does not.
func hasAnchor(link model.Link) bool {
	return link.AnchorKind != model.AnchorNone && link.Target.Anchor != nil && *link.Target.Anchor != ""
}
