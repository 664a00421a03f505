package clustering

import (
	"sort"

	"github.com/srdedupe/srdedupe/pkg/model"
)

// maxYearSpread is the default configured maximum component-wide year
// spread before year_far fires (SPEC_FULL.md §4.6).
const maxYearSpread = 2

// titleKeyDivergentTolerance is the default tolerance for distinct
// title_key_strict values within a component; title_key_divergent fires
// when the distinct count exceeds tolerance+1.
const titleKeyDivergentTolerance = 0

// strongEdgeThreshold is the p_match an edge must meet to count as strong
// when its Reasons don't carry a closed strong-identifier-match code.
const strongEdgeThreshold = 0.999

func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

// checkConsistency inspects a component and reports hard conflicts
// (evidence the component should not have reached AUTO) and soft conflicts
// (weaker disagreements that are recorded on the cluster but neither block
// AUTO status nor split the component apart), per SPEC_FULL.md §4.6 Phase 2.
func checkConsistency(members []string, recordsByRID map[string]*model.CanonicalRecord, decisionsByPair map[string]model.PairDecision) model.ClusterConsistency {
	var out model.ClusterConsistency

	if distinctDOIConflict(members, recordsByRID) {
		out.HardConflicts = append(out.HardConflicts, "doi_conflict")
	}
	if distinctPMIDConflict(members, recordsByRID) {
		out.HardConflicts = append(out.HardConflicts, "pmid_conflict")
	}
	if linkedCitationRisk(members, recordsByRID) {
		out.HardConflicts = append(out.HardConflicts, "linked_citation_risk")
	}
	if internalAutoKeepContradiction(members, decisionsByPair) {
		out.HardConflicts = append(out.HardConflicts, "internal_auto_keep_contradiction")
	}

	if yearFar(members, recordsByRID) {
		out.SoftConflicts = append(out.SoftConflicts, "year_far")
	}
	if titleKeyDivergent(members, recordsByRID) {
		out.SoftConflicts = append(out.SoftConflicts, "title_key_divergent")
	}
	if bridgedByWeakEdges(members, autoDupEdges(members, decisionsByPair)) {
		out.SoftConflicts = append(out.SoftConflicts, "bridged_by_weak_edges")
	}

	sort.Strings(out.HardConflicts)
	sort.Strings(out.SoftConflicts)
	return out
}

func distinctDOIConflict(members []string, recordsByRID map[string]*model.CanonicalRecord) bool {
	dois := map[string]bool{}
	for _, rid := range members {
		r := recordsByRID[rid]
		if r == nil || r.Canon.DOINorm == nil || *r.Canon.DOINorm == "" {
			continue
		}
		dois[*r.Canon.DOINorm] = true
	}
	return len(dois) >= 2
}

func distinctPMIDConflict(members []string, recordsByRID map[string]*model.CanonicalRecord) bool {
	pmids := map[string]bool{}
	for _, rid := range members {
		r := recordsByRID[rid]
		if r == nil || r.Canon.PMIDNorm == nil || *r.Canon.PMIDNorm == "" {
			continue
		}
		pmids[*r.Canon.PMIDNorm] = true
	}
	return len(pmids) >= 2
}

// strongIDConflict reports which strong-identifier conflict (if any) holds
// between exactly two records; used by resolveComponent to identify which
// edge directly caused a hard conflict when splitting a component.
func strongIDConflict(a, b *model.CanonicalRecord) string {
	if a.Canon.DOINorm != nil && b.Canon.DOINorm != nil &&
		*a.Canon.DOINorm != "" && *b.Canon.DOINorm != "" && *a.Canon.DOINorm != *b.Canon.DOINorm {
		return "doi_conflict"
	}
	if a.Canon.PMIDNorm != nil && b.Canon.PMIDNorm != nil &&
		*a.Canon.PMIDNorm != "" && *b.Canon.PMIDNorm != "" && *a.Canon.PMIDNorm != *b.Canon.PMIDNorm {
		return "pmid_conflict"
	}
	return ""
}

func linkedCitationRisk(members []string, recordsByRID map[string]*model.CanonicalRecord) bool {
	for _, rid := range members {
		r := recordsByRID[rid]
		if r == nil {
			continue
		}
		if r.Flags.IsErratum || r.Flags.IsRetraction || r.Flags.IsCorrectedRepublished || r.Flags.HasLinkedCitation {
			return true
		}
	}
	return false
}

// internalAutoKeepContradiction reports whether any AUTO_KEEP pair decision
// has both endpoints inside the component — a contradiction, since the
// decision engine judged that pair too dissimilar to merge while the
// clustering's AUTO_DUP edges merged them anyway.
func internalAutoKeepContradiction(members []string, decisionsByPair map[string]model.PairDecision) bool {
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			d, ok := decisionsByPair[pairKey(members[i], members[j])]
			if ok && d.Decision == model.DecisionAutoKeep {
				return true
			}
		}
	}
	return false
}

func yearFar(members []string, recordsByRID map[string]*model.CanonicalRecord) bool {
	var minY, maxY int
	has := false
	for _, rid := range members {
		r := recordsByRID[rid]
		if r == nil || r.Canon.YearNorm == nil {
			continue
		}
		y := *r.Canon.YearNorm
		if !has {
			minY, maxY, has = y, y, true
			continue
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return has && maxY-minY > maxYearSpread
}

func titleKeyDivergent(members []string, recordsByRID map[string]*model.CanonicalRecord) bool {
	keys := map[string]bool{}
	for _, rid := range members {
		r := recordsByRID[rid]
		if r == nil || r.Keys.TitleKeyStrict == nil || *r.Keys.TitleKeyStrict == "" {
			continue
		}
		keys[*r.Keys.TitleKeyStrict] = true
	}
	return len(keys) > titleKeyDivergentTolerance+1
}

// dupEdge is one AUTO_DUP decision between two component members, kept
// alongside the decision so bridgedByWeakEdges can classify its strength.
type dupEdge struct {
	a, b     string
	decision model.PairDecision
}

func autoDupEdges(members []string, decisionsByPair map[string]model.PairDecision) []dupEdge {
	var edges []dupEdge
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			d, ok := decisionsByPair[pairKey(members[i], members[j])]
			if !ok || d.Decision != model.DecisionAutoDup {
				continue
			}
			edges = append(edges, dupEdge{a: members[i], b: members[j], decision: d})
		}
	}
	return edges
}

// bridgedByWeakEdges fires per SPEC_FULL.md §4.6 when a component has ≥ 3
// nodes AND (no strong edge at all, OR any degree-1 node is attached only
// by a weak edge).
func bridgedByWeakEdges(members []string, edges []dupEdge) bool {
	if len(members) < 3 {
		return false
	}

	degree := map[string]int{}
	strongDegree := map[string]int{}
	anyStrong := false
	for _, e := range edges {
		degree[e.a]++
		degree[e.b]++
		if isStrongEdge(e.decision) {
			anyStrong = true
			strongDegree[e.a]++
			strongDegree[e.b]++
		}
	}
	if !anyStrong {
		return true
	}
	for _, m := range members {
		if degree[m] == 1 && strongDegree[m] == 0 {
			return true
		}
	}
	return false
}

// isStrongEdge reports whether a decision qualifies as a strong edge per
// SPEC_FULL.md §4.6: its Reasons carry a closed strong-identifier-match
// code (doi_exact, pmid_exact), or — when those reason codes are absent —
// its p_match meets the strong threshold.
func isStrongEdge(d model.PairDecision) bool {
	for _, r := range d.Reasons {
		if r == "doi_exact" || r == "pmid_exact" {
			return true
		}
	}
	return d.PMatch >= strongEdgeThreshold
}
