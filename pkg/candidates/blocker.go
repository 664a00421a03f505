package candidates

import "github.com/srdedupe/srdedupe/pkg/model"

// Blocker maps a record to zero or more block keys. Records that share a
// key become a candidate pair. Name and MatchKey are stable identifiers
// used in candidate provenance and must not change between runs.
type Blocker interface {
	Name() string
	MatchKey() string
	BlockKeys(r *model.CanonicalRecord) []string
}

// StatefulBlocker is implemented by blockers that need to see the whole
// corpus once before they can assign keys (e.g. rare-token blockers that
// need a document-frequency table).
type StatefulBlocker interface {
	Blocker
	Initialize(records []*model.CanonicalRecord)
}

// BlockerStats are the per-blocker counters reported in the audit log.
type BlockerStats struct {
	Name                   string `json:"name"`
	RecordsSeen            int    `json:"records_seen"`
	RecordsKeyed           int    `json:"records_keyed"`
	UniqueKeys             int    `json:"unique_keys"`
	BlocksGT1              int    `json:"blocks_gt1"`
	PairsRaw               int    `json:"pairs_raw"`
	PairsUnique            int    `json:"pairs_unique"`
	MaxBlock               int    `json:"max_block"`
	OversizedBlocksSkipped int    `json:"oversized_blocks_skipped"`
}
