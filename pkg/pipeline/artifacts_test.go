package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srdedupe/srdedupe/pkg/merge"
	"github.com/srdedupe/srdedupe/pkg/model"
)

func TestWriteArtifactsProducesExpectedFiles(t *testing.T) {
	dir := t.TempDir()
	clusterID := "c:abc123abc123"
	res := &Result{
		CanonicalRecords: []model.CanonicalRecord{{RID: "r1"}},
		CandidatePairs:   []model.CandidatePair{{PairID: "r1|r2", RIDA: "r1", RIDB: "r2"}},
		PairScores:       []model.PairScore{{PairID: "r1|r2"}},
		PairDecisions:    []model.PairDecision{{PairID: "r1|r2", Decision: model.DecisionAutoDup}},
		Clusters: []model.Cluster{
			{ClusterID: clusterID, Status: model.ClusterAuto, RIDs: []string{"r1", "r2"}},
		},
		MergedRecords: []model.MergedRecord{
			{MergedID: "m:xyz", ClusterID: &clusterID, SurvivorRID: "r1", MemberRIDs: []string{"r1", "r2"}},
		},
		Summary: merge.BuildSummary(3, 1, 2, 0, 1),
	}

	require.NoError(t, WriteArtifacts(dir, res))

	for _, rel := range []string{
		"stage1/canonical_records.jsonl",
		"stage2/candidate_pairs.jsonl",
		"stage3/scored_pairs.jsonl",
		"stage4/pair_decisions.jsonl",
		"stage5/clusters.jsonl",
		"artifacts/merged_records.jsonl",
		"artifacts/clusters_enriched.jsonl",
		"artifacts/deduped_auto.ris",
		"reports/merge_summary.json",
	} {
		_, err := os.Stat(filepath.Join(dir, rel))
		assert.NoErrorf(t, err, "expected %s to exist", rel)
	}
}

func TestWriteSingletonsAndReviewWritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	records := map[string]*model.CanonicalRecord{
		"r1": {RID: "r1"},
		"r2": {RID: "r2"},
	}
	clusters := []model.Cluster{
		{ClusterID: "c:review1", Status: model.ClusterReview, RIDs: []string{"r2"}},
	}

	require.NoError(t, WriteSingletonsAndReview(dir, clusters, []string{"r1"}, records))

	for _, rel := range []string{"artifacts/singletons.ris", "artifacts/review_pending.ris"} {
		_, err := os.Stat(filepath.Join(dir, rel))
		assert.NoErrorf(t, err, "expected %s to exist", rel)
	}
}
