// Package decision implements the three-way decision engine described in
// SPEC_FULL.md §4.5: empirical Neyman-Pearson threshold calibration,
// optional Selective Conformal Risk Control (SCRC-I), the safety gates
// that can force a pair to REVIEW regardless of score, and the per-pair
// decision with its reason codes.
package decision

import (
	"math"
	"sort"

	"github.com/srdedupe/srdedupe/pkg/model"
)

// LabeledPair is one entry of a ground-truth calibration set: a scored
// pair together with whether it is in fact a true duplicate.
type LabeledPair struct {
	PMatch  float64
	IsMatch bool
}

// CalibrateNP computes the empirical Neyman-Pearson threshold: the
// smallest score cutoff whose induced false-positive rate on the labeled
// calibration set is at most alpha. FPR is non-increasing as the cutoff
// rises, so the feasible region is an upper interval [tau0, +inf); this
// returns tau0, the lowest observed score in that region. It returns +Inf
// (no finite threshold can ever decide AUTO_DUP) when the calibration set
// is empty or when no observed score is feasible, i.e. even a cutoff at the
// highest observed score still admits an FPR above alpha. A set with zero
// negatives has FPR 0 at every cutoff and yields its lowest score.
func CalibrateNP(pairs []LabeledPair, alpha float64) (float64, model.NPCalibration) {
	calib := model.NPCalibration{
		Alpha:          alpha,
		CalibrationSet: "labeled_calibration_set",
		Method:         "empirical_np",
	}
	if len(pairs) == 0 {
		calib.CalibrationSize = 0
		calib.EstimatedFPR = 0
		return math.Inf(1), calib
	}
	calib.CalibrationSize = len(pairs)

	sorted := make([]LabeledPair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PMatch < sorted[j].PMatch })

	thresholds := uniqueScoresAsc(sorted)
	// Appending +Inf as the most conservative candidate: no pair is ever
	// classified positive, so FPR == 0 and the loop below always finds a
	// feasible threshold when there is at least one candidate.
	thresholds = append(thresholds, math.Inf(1))

	for _, tau := range thresholds {
		conf := confusionAt(sorted, tau)
		fpr := empiricalFPR(conf)
		if fpr <= alpha {
			calib.EstimatedFPR = fpr
			calib.Confusion = conf
			return tau, calib
		}
	}
	// Unreachable: the +Inf candidate above is always feasible.
	calib.EstimatedFPR = 0
	return math.Inf(1), calib
}

func uniqueScoresAsc(sorted []LabeledPair) []float64 {
	var out []float64
	var last float64
	first := true
	for _, p := range sorted {
		if first || p.PMatch != last {
			out = append(out, p.PMatch)
			last = p.PMatch
			first = false
		}
	}
	return out
}

// confusionAt computes the confusion matrix for the rule "predict match
// iff p_match >= tau" over the labeled set.
func confusionAt(pairs []LabeledPair, tau float64) model.ConfusionMatrix {
	var c model.ConfusionMatrix
	for _, p := range pairs {
		predictedPositive := p.PMatch >= tau
		switch {
		case predictedPositive && p.IsMatch:
			c.TP++
		case predictedPositive && !p.IsMatch:
			c.FP++
		case !predictedPositive && p.IsMatch:
			c.FN++
		default:
			c.TN++
		}
	}
	return c
}

func empiricalFPR(c model.ConfusionMatrix) float64 {
	negatives := c.FP + c.TN
	if negatives == 0 {
		return 0
	}
	return float64(c.FP) / float64(negatives)
}
