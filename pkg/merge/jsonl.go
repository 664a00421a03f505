package merge

import (
	"encoding/json"
	"io"

	"github.com/srdedupe/srdedupe/pkg/model"
)

// WriteMergedRecordsJSONL writes merged_records.jsonl: one MergedRecord
// per line, in the order given (callers are expected to have already
// sorted by merged_id).
func WriteMergedRecordsJSONL(w io.Writer, records []model.MergedRecord) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteClustersEnrichedJSONL writes clusters_enriched.jsonl: one Cluster
// per line, including REVIEW clusters that were not auto-merged.
func WriteClustersEnrichedJSONL(w io.Writer, clusters []model.Cluster) error {
	enc := json.NewEncoder(w)
	for _, c := range clusters {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return nil
}
