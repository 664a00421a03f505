package clustering

import (
	"sort"

	"github.com/srdedupe/srdedupe/pkg/idgen"
	"github.com/srdedupe/srdedupe/pkg/model"
)

// BuildClusters unions AUTO_DUP decisions into connected components, then
// checks each component for hard/soft conflicts. A component with a hard
// conflict is split: the union is rebuilt without the edges directly
// connecting the conflicting pair, and each resulting sub-component is
// re-checked and emitted independently.
func BuildClusters(records []*model.CanonicalRecord, decisions []model.PairDecision) []model.Cluster {
	recordsByRID := make(map[string]*model.CanonicalRecord, len(records))
	rids := make([]string, 0, len(records))
	for _, r := range records {
		recordsByRID[r.RID] = r
		rids = append(rids, r.RID)
	}

	decisionsByPair := make(map[string]model.PairDecision, len(decisions))
	for _, d := range decisions {
		decisionsByPair[pairKey(d.RIDA, d.RIDB)] = d
	}

	dsu := NewDSU(rids)
	for _, d := range decisions {
		if d.Decision == model.DecisionAutoDup {
			dsu.Union(d.RIDA, d.RIDB)
		}
	}

	var clusters []model.Cluster
	for _, members := range dsu.Components() {
		if len(members) < 2 {
			continue // singletons pass straight through to the merge stage
		}
		clusters = append(clusters, resolveComponent(members, recordsByRID, decisionsByPair)...)
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i].ClusterID < clusters[j].ClusterID })
	return clusters
}

func resolveComponent(members []string, recordsByRID map[string]*model.CanonicalRecord, decisionsByPair map[string]model.PairDecision) []model.Cluster {
	consistency := checkConsistency(members, recordsByRID, decisionsByPair)
	if len(consistency.HardConflicts) == 0 {
		return []model.Cluster{finalizeCluster(members, recordsByRID, decisionsByPair, consistency)}
	}

	memberSet := map[string]bool{}
	for _, m := range members {
		memberSet[m] = true
	}

	sub := NewDSU(members)
	for _, d := range decisionsByPair {
		if d.Decision != model.DecisionAutoDup || !memberSet[d.RIDA] || !memberSet[d.RIDB] {
			continue
		}
		a, b := recordsByRID[d.RIDA], recordsByRID[d.RIDB]
		if a == nil || b == nil || strongIDConflict(a, b) != "" {
			continue // drop the edge directly responsible for the hard conflict
		}
		sub.Union(d.RIDA, d.RIDB)
	}

	var out []model.Cluster
	for _, subMembers := range sub.Components() {
		if len(subMembers) < 2 {
			continue
		}
		subConsistency := checkConsistency(subMembers, recordsByRID, decisionsByPair)
		subConsistency.Notes = append(subConsistency.Notes, "split_from_hard_conflict")
		out = append(out, finalizeCluster(subMembers, recordsByRID, decisionsByPair, subConsistency))
	}
	return out
}

func finalizeCluster(members []string, recordsByRID map[string]*model.CanonicalRecord, decisionsByPair map[string]model.PairDecision, consistency model.ClusterConsistency) model.Cluster {
	sort.Strings(members)

	var support model.ClusterSupport
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			d, ok := decisionsByPair[pairKey(members[i], members[j])]
			if !ok {
				continue
			}
			if d.Decision == model.DecisionAutoDup {
				support.AutoDupEdges++
			}
			if isStrongEdge(d) {
				support.StrongEdges++
			}
		}
	}

	status := model.ClusterAuto
	if len(consistency.HardConflicts) > 0 {
		status = model.ClusterReview
	}

	return model.Cluster{
		ClusterID:   idgen.ClusterID(members),
		Status:      status,
		RIDs:        members,
		Support:     support,
		Consistency: consistency,
	}
}
