package pipeline

import "fmt"

// CalibrationError reports an empty calibration set (an invalid alpha or
// delta is a pipelineconfig.ConfigurationError instead). It is fatal: the
// pipeline refuses to start stage 4 without a trustworthy threshold.
type CalibrationError struct {
	Reason string
}

func (e *CalibrationError) Error() string {
	return fmt.Sprintf("calibration error: %s", e.Reason)
}

// MergeConflictError wraps a canonical-merge field conflict (distinct
// doi_norm or pmid_norm inside one AUTO cluster) with the cluster it was
// found in. Per SPEC_FULL.md §7 this indicates a bug in clustering or
// calibration, not a data problem, and is fatal.
type MergeConflictError struct {
	ClusterID string
	Reason    string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("merge conflict in cluster %s: %s", e.ClusterID, e.Reason)
}

func (e *MergeConflictError) Unwrap() error {
	return fmt.Errorf(e.Reason)
}

// IOError wraps a failure to write a pipeline artifact.
type IOError struct {
	Path   string
	Reason error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error writing %s: %v", e.Path, e.Reason)
}

func (e *IOError) Unwrap() error {
	return e.Reason
}
