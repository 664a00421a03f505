package pipeline

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// SupportedSchemaConstraint is the range of canonical_records.jsonl
// schema_version strings this build can read, checked by the CLI's doctor
// subcommand before re-processing artifacts from a prior run — mirroring
// the teacher's pkg/pack.CheckCompatibility use of semver constraints to
// gate pack-vs-kernel version compatibility.
const SupportedSchemaConstraint = ">= 1.0.0, < 2.0.0"

// CheckSchemaCompatibility reports whether artifactSchemaVersion satisfies
// SupportedSchemaConstraint.
func CheckSchemaCompatibility(artifactSchemaVersion string) error {
	constraint, err := semver.NewConstraint(SupportedSchemaConstraint)
	if err != nil {
		return fmt.Errorf("doctor: invalid schema constraint %q: %w", SupportedSchemaConstraint, err)
	}
	v, err := semver.NewVersion(artifactSchemaVersion)
	if err != nil {
		return fmt.Errorf("doctor: invalid schema_version %q: %w", artifactSchemaVersion, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("doctor: artifact schema_version %s does not satisfy %s", artifactSchemaVersion, SupportedSchemaConstraint)
	}
	return nil
}

// DoctorReport summarizes one doctor-subcommand run over a set of
// schema_version strings observed in an artifacts directory.
type DoctorReport struct {
	Checked      int      `json:"checked"`
	Incompatible []string `json:"incompatible,omitempty"`
}

// CheckSchemaVersions runs CheckSchemaCompatibility over every version in
// versions, collecting failures rather than stopping at the first one so an
// operator sees the whole picture in one pass.
func CheckSchemaVersions(versions []string) DoctorReport {
	report := DoctorReport{Checked: len(versions)}
	seen := map[string]bool{}
	for _, v := range versions {
		if seen[v] {
			continue
		}
		seen[v] = true
		if err := CheckSchemaCompatibility(v); err != nil {
			report.Incompatible = append(report.Incompatible, v)
		}
	}
	return report
}
