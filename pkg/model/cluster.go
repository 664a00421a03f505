package model

// ClusterStatus is the outcome of per-component consistency analysis.
type ClusterStatus string

const (
	ClusterAuto   ClusterStatus = "AUTO"
	ClusterReview ClusterStatus = "REVIEW"
)

// ClusterSupport summarizes the edges backing a cluster.
type ClusterSupport struct {
	AutoDupEdges int `json:"auto_dup_edges"`
	StrongEdges  int `json:"strong_edges"`
}

// ClusterConsistency records the hard/soft conflicts found for a cluster.
type ClusterConsistency struct {
	HardConflicts []string `json:"hard_conflicts,omitempty"`
	SoftConflicts []string `json:"soft_conflicts,omitempty"`
	Notes         []string `json:"notes,omitempty"`
}

// Cluster is one connected component after consistency analysis (and any
// ID-conflict splitting).
type Cluster struct {
	ClusterID   string              `json:"cluster_id"`
	Status      ClusterStatus       `json:"status"`
	RIDs        []string            `json:"rids"`
	Support     ClusterSupport      `json:"support"`
	Consistency ClusterConsistency  `json:"consistency"`
}

// FieldProvenance names which source record(s) and rule produced one merged
// field.
type FieldProvenance struct {
	SourceRIDs []string `json:"source_rids"`
	Rule       string   `json:"rule"`
}

// MergedRecord is the canonical-merge stage's output for one AUTO cluster
// (or singleton).
type MergedRecord struct {
	MergedID      string                      `json:"merged_id"`
	ClusterID     *string                     `json:"cluster_id"`
	SurvivorRID   string                      `json:"survivor_rid"`
	MemberRIDs    []string                    `json:"member_rids"`
	Canon         Canon                       `json:"canon"`
	MergeProvenance map[string]FieldProvenance `json:"merge_provenance"`
	MergePolicy   string                      `json:"merge_policy"`
}
