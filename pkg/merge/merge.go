package merge

import (
	"sort"

	"github.com/srdedupe/srdedupe/pkg/idgen"
	"github.com/srdedupe/srdedupe/pkg/model"
)

// Merge produces one MergedRecord per AUTO cluster and one per singleton
// (a record that belongs to no multi-member cluster), in deterministic
// merged_id order.
func Merge(clusters []model.Cluster, singletonRIDs []string, recordsByRID map[string]*model.CanonicalRecord) ([]model.MergedRecord, error) {
	var out []model.MergedRecord

	for _, c := range clusters {
		if c.Status != model.ClusterAuto {
			continue // REVIEW clusters are not auto-merged; they surface in review_pending.ris instead
		}
		members := make([]*model.CanonicalRecord, 0, len(c.RIDs))
		for _, rid := range c.RIDs {
			if r, ok := recordsByRID[rid]; ok {
				members = append(members, r)
			}
		}
		merged, err := mergeCluster(c.ClusterID, members)
		if err != nil {
			return nil, err
		}
		out = append(out, merged)
	}

	for _, rid := range singletonRIDs {
		r, ok := recordsByRID[rid]
		if !ok {
			continue
		}
		merged, err := mergeCluster("", []*model.CanonicalRecord{r})
		if err != nil {
			return nil, err
		}
		out = append(out, merged)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].MergedID < out[j].MergedID })
	return out, nil
}

func mergeCluster(clusterID string, members []*model.CanonicalRecord) (model.MergedRecord, error) {
	survivor := ChooseSurvivor(members)
	canon, prov, err := MergeFields(members)
	if err != nil {
		return model.MergedRecord{}, err
	}

	memberRids := memberRIDs(members)
	policy := "singleton"
	var clusterIDPtr *string
	if len(members) > 1 {
		policy = "cluster_merge"
		cid := clusterID
		clusterIDPtr = &cid
	}

	return model.MergedRecord{
		MergedID:        idgen.MergedID(memberRids),
		ClusterID:       clusterIDPtr,
		SurvivorRID:     survivor.RID,
		MemberRIDs:      memberRids,
		Canon:           canon,
		MergeProvenance: prov,
		MergePolicy:     policy,
	}, nil
}
