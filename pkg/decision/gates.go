package decision

import "github.com/srdedupe/srdedupe/pkg/model"

// EvaluateGates checks the safety gates from SPEC_FULL.md §4.5 that force
// a pair to REVIEW unconditionally, regardless of its Fellegi-Sunter
// score: a conflicting strong identifier is evidence AGAINST a match that
// a high score must not override, and erratum/retraction/corrected/
// linked-citation records need a human in the loop no matter how the
// bibliographic fields compare. It returns the reason codes that fired, in
// fixed order, or nil if no gate fired.
func EvaluateGates(score model.PairScore, a, b *model.CanonicalRecord) []string {
	var reasons []string
	hasStrongID := false

	for _, c := range score.Comparison {
		switch {
		case c.Field == "doi" && c.Level == "exact":
			hasStrongID = true
		case c.Field == "pmid" && c.Level == "exact":
			hasStrongID = true
		case c.Field == "doi" && c.Level == "both_present_mismatch":
			reasons = append(reasons, "forced_review_conflicting_doi")
		case c.Field == "pmid" && c.Level == "both_present_mismatch":
			reasons = append(reasons, "forced_review_conflicting_pmid")
		}
	}

	if !hasStrongID {
		if a.Flags.TitleTruncated || b.Flags.TitleTruncated {
			reasons = append(reasons, "forced_review_title_truncated")
		}
		if a.Flags.PagesUnreliable || b.Flags.PagesUnreliable {
			reasons = append(reasons, "forced_review_pages_unreliable")
		}
	}

	if a.Flags.IsErratum || b.Flags.IsErratum {
		reasons = append(reasons, "forced_review_erratum_notice")
	}
	if a.Flags.IsRetraction || b.Flags.IsRetraction {
		reasons = append(reasons, "forced_review_retraction_notice")
	}
	if a.Flags.IsCorrectedRepublished || b.Flags.IsCorrectedRepublished {
		reasons = append(reasons, "forced_review_corrected_republished")
	}
	if a.Flags.HasLinkedCitation || b.Flags.HasLinkedCitation {
		reasons = append(reasons, "forced_review_linked_citation")
	}

	return reasons
}

// strengthReasons reports the closed strong-identifier-match reason codes
// (doi_exact, pmid_exact) pkg/clustering's strong-edge check looks for in
// PairDecision.Reasons per SPEC_FULL.md §4.6.
func strengthReasons(score model.PairScore) []string {
	var reasons []string
	for _, c := range score.Comparison {
		switch {
		case c.Field == "doi" && c.Level == "exact":
			reasons = append(reasons, "doi_exact")
		case c.Field == "pmid" && c.Level == "exact":
			reasons = append(reasons, "pmid_exact")
		}
	}
	return reasons
}
