package pipeline

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/srdedupe/srdedupe/pkg/merge"
	"github.com/srdedupe/srdedupe/pkg/model"
)

// enrichedCluster is clusters_enriched.jsonl's shape: a Cluster plus,
// for AUTO clusters that were actually merged, the survivor_rid and
// merged_id the merge stage produced for it (§6).
type enrichedCluster struct {
	model.Cluster
	SurvivorRID *string `json:"survivor_rid,omitempty"`
	MergedID    *string `json:"merged_id,omitempty"`
}

// WriteArtifacts persists every stage artifact named in SPEC_FULL.md §6
// under outputDir: the five stage*/ JSON-Lines files, the artifacts/
// directory (merged_records.jsonl, clusters_enriched.jsonl, and
// deduped_auto.ris), and reports/merge_summary.json. The other two *.ris
// exports are written by WriteSingletonsAndReview. Each file is written
// atomically (temp file, fsync, rename), following the teacher's manifest-
// writing convention.
func WriteArtifacts(outputDir string, res *Result) error {
	writers := []struct {
		relPath string
		write   func(io.Writer) error
	}{
		{"stage1/canonical_records.jsonl", jsonlWriter(res.CanonicalRecords)},
		{"stage2/candidate_pairs.jsonl", jsonlWriter(res.CandidatePairs)},
		{"stage3/scored_pairs.jsonl", jsonlWriter(res.PairScores)},
		{"stage4/pair_decisions.jsonl", jsonlWriter(res.PairDecisions)},
		{"stage5/clusters.jsonl", jsonlWriter(res.Clusters)},
		{"artifacts/merged_records.jsonl", func(w io.Writer) error {
			return merge.WriteMergedRecordsJSONL(w, res.MergedRecords)
		}},
		{"artifacts/clusters_enriched.jsonl", func(w io.Writer) error {
			return writeClustersEnriched(w, res.Clusters, res.MergedRecords)
		}},
		{"artifacts/deduped_auto.ris", func(w io.Writer) error {
			return merge.WriteRIS(w, autoMerged(res.MergedRecords))
		}},
		{"reports/merge_summary.json", func(w io.Writer) error {
			return merge.WriteSummaryJSON(w, res.Summary)
		}},
	}

	for _, wr := range writers {
		if err := atomicWriteFile(filepath.Join(outputDir, wr.relPath), wr.write); err != nil {
			return &IOError{Path: wr.relPath, Reason: err}
		}
	}
	return nil
}

// WriteSingletonsAndReview persists singletons.ris and review_pending.ris,
// which need the original CanonicalRecords by rid rather than anything in
// Result, so they are written in a separate call from the caller that
// still has recordsByRID available.
func WriteSingletonsAndReview(outputDir string, clusters []model.Cluster, singletonRIDs []string, recordsByRID map[string]*model.CanonicalRecord) error {
	singletons := make([]*model.CanonicalRecord, 0, len(singletonRIDs))
	for _, rid := range singletonRIDs {
		if rec, ok := recordsByRID[rid]; ok {
			singletons = append(singletons, rec)
		}
	}

	var reviewRecords []*model.CanonicalRecord
	sortedClusters := append([]model.Cluster(nil), clusters...)
	sort.Slice(sortedClusters, func(i, j int) bool { return sortedClusters[i].ClusterID < sortedClusters[j].ClusterID })
	for _, c := range sortedClusters {
		if c.Status != model.ClusterReview {
			continue
		}
		rids := append([]string(nil), c.RIDs...)
		sort.Strings(rids)
		for _, rid := range rids {
			if rec, ok := recordsByRID[rid]; ok {
				reviewRecords = append(reviewRecords, rec)
			}
		}
	}

	if err := atomicWriteFile(filepath.Join(outputDir, "artifacts/singletons.ris"), func(w io.Writer) error {
		return merge.WriteRISCanonical(w, singletons)
	}); err != nil {
		return &IOError{Path: "artifacts/singletons.ris", Reason: err}
	}

	if err := atomicWriteFile(filepath.Join(outputDir, "artifacts/review_pending.ris"), func(w io.Writer) error {
		return merge.WriteRISCanonical(w, reviewRecords)
	}); err != nil {
		return &IOError{Path: "artifacts/review_pending.ris", Reason: err}
	}
	return nil
}

func autoMerged(records []model.MergedRecord) []model.MergedRecord {
	out := make([]model.MergedRecord, 0, len(records))
	for _, r := range records {
		if r.ClusterID != nil {
			out = append(out, r)
		}
	}
	return out
}

func writeClustersEnriched(w io.Writer, clusters []model.Cluster, merged []model.MergedRecord) error {
	survivorByCluster := map[string]string{}
	mergedIDByCluster := map[string]string{}
	for _, m := range merged {
		if m.ClusterID == nil {
			continue
		}
		survivorByCluster[*m.ClusterID] = m.SurvivorRID
		mergedIDByCluster[*m.ClusterID] = m.MergedID
	}

	enc := json.NewEncoder(w)
	for _, c := range clusters {
		ec := enrichedCluster{Cluster: c}
		if survivor, ok := survivorByCluster[c.ClusterID]; ok {
			ec.SurvivorRID = &survivor
		}
		if mergedID, ok := mergedIDByCluster[c.ClusterID]; ok {
			ec.MergedID = &mergedID
		}
		if err := enc.Encode(ec); err != nil {
			return err
		}
	}
	return nil
}

func jsonlWriter[T any](items []T) func(io.Writer) error {
	return func(w io.Writer) error {
		enc := json.NewEncoder(w)
		for _, item := range items {
			if err := enc.Encode(item); err != nil {
				return err
			}
		}
		return nil
	}
}

func atomicWriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
