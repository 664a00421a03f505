package celgate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srdedupe/srdedupe/pkg/model"
)

func TestGateFiresOnConflictingStrongID(t *testing.T) {
	g, err := Compile(`p_match > 0.5 && doi_level == "both_present_mismatch"`)
	require.NoError(t, err)

	score := model.PairScore{
		PMatch: 0.9,
		Comparison: []model.FieldComparison{
			{Field: "doi", Level: "both_present_mismatch"},
		},
	}
	fired, err := g.Evaluate(score)
	require.NoError(t, err)
	assert.True(t, fired)
}

func TestGateDoesNotFireWhenConditionFalse(t *testing.T) {
	g, err := Compile(`p_match > 0.99`)
	require.NoError(t, err)

	score := model.PairScore{PMatch: 0.5}
	fired, err := g.Evaluate(score)
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestCompileRejectsInvalidExpression(t *testing.T) {
	_, err := Compile(`p_match +++ nonsense`)
	assert.Error(t, err)
}
