package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srdedupe/srdedupe/pkg/model"
)

func TestCalibrateNPFindsSmallestFeasibleThreshold(t *testing.T) {
	pairs := []LabeledPair{
		{PMatch: 0.1, IsMatch: false},
		{PMatch: 0.3, IsMatch: false},
		{PMatch: 0.5, IsMatch: false},
		{PMatch: 0.7, IsMatch: true},
		{PMatch: 0.9, IsMatch: true},
	}
	tau, calib := CalibrateNP(pairs, 0.0)
	assert.Equal(t, 0.0, calib.EstimatedFPR)
	assert.True(t, tau >= 0.7, "threshold must exclude all negatives: got %v", tau)
}

func TestCalibrateNPEmptySetIsInfeasible(t *testing.T) {
	tau, calib := CalibrateNP(nil, 0.05)
	assert.Equal(t, 0, calib.CalibrationSize)
	assert.True(t, tau > 1.0)
}

func TestCalibrateConformalFeasibleWhenEnoughNegatives(t *testing.T) {
	pairs := make([]LabeledPair, 0, 200)
	for i := 0; i < 100; i++ {
		pairs = append(pairs, LabeledPair{PMatch: 0.01 * float64(i), IsMatch: false})
	}
	for i := 0; i < 100; i++ {
		pairs = append(pairs, LabeledPair{PMatch: 0.9 + 0.0005*float64(i), IsMatch: true})
	}
	tau, calib, feasible := CalibrateConformal(pairs, 0.05, 0.1)
	require.True(t, feasible)
	assert.True(t, calib.Feasible)
	assert.Greater(t, tau, 0.0)
}

func TestEngineGatesForceReviewOverHighScore(t *testing.T) {
	e := NewEngine(0.5, model.NPCalibration{}, 0.1, nil, nil)
	score := model.PairScore{
		PMatch: 0.99,
		Comparison: []model.FieldComparison{
			{Field: "doi", Level: "both_present_mismatch"},
		},
	}
	a := &model.CanonicalRecord{}
	b := &model.CanonicalRecord{}
	d := e.Decide(score, a, b)
	assert.Equal(t, model.DecisionReview, d.Decision)
	assert.Contains(t, d.Reasons, "forced_review_conflicting_doi")
}

func TestEngineAutoDupAboveThreshold(t *testing.T) {
	e := NewEngine(0.8, model.NPCalibration{}, 0.2, nil, nil)
	score := model.PairScore{PMatch: 0.95}
	a := &model.CanonicalRecord{}
	b := &model.CanonicalRecord{}
	d := e.Decide(score, a, b)
	assert.Equal(t, model.DecisionAutoDup, d.Decision)
}

func TestEngineAutoKeepBelowLow(t *testing.T) {
	e := NewEngine(0.8, model.NPCalibration{}, 0.2, nil, nil)
	score := model.PairScore{PMatch: 0.05}
	a := &model.CanonicalRecord{}
	b := &model.CanonicalRecord{}
	d := e.Decide(score, a, b)
	assert.Equal(t, model.DecisionAutoKeep, d.Decision)
}

func TestEngineConformalThresholdCanOverrideNP(t *testing.T) {
	conformalT := 0.95
	conformalCalib := &model.ConformalCalibration{Feasible: true}
	e := NewEngine(0.8, model.NPCalibration{}, 0.2, &conformalT, conformalCalib)
	assert.Equal(t, 0.95, e.Thresholds.THigh)

	score := model.PairScore{PMatch: 0.9}
	d := e.Decide(score, &model.CanonicalRecord{}, &model.CanonicalRecord{})
	assert.Equal(t, model.DecisionReview, d.Decision, "0.9 is above NP t_high but below the tighter conformal t_high")
}
