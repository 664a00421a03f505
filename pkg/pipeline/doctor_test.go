package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSchemaCompatibilityAcceptsSupportedVersion(t *testing.T) {
	assert.NoError(t, CheckSchemaCompatibility("1.2.0"))
}

func TestCheckSchemaCompatibilityRejectsMajorBump(t *testing.T) {
	assert.Error(t, CheckSchemaCompatibility("2.0.0"))
}

func TestCheckSchemaVersionsCollectsIncompatible(t *testing.T) {
	report := CheckSchemaVersions([]string{"1.0.0", "1.0.0", "2.0.0", "0.9.0"})
	assert.Equal(t, 4, report.Checked)
	assert.ElementsMatch(t, []string{"2.0.0", "0.9.0"}, report.Incompatible)
}
