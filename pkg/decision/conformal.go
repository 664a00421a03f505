package decision

import (
	"math"
	"sort"

	"github.com/srdedupe/srdedupe/pkg/model"
)

// CalibrateConformal implements Selective Conformal Risk Control (SCRC-I).
// Rather than trusting the empirical false-positive rate directly (as
// CalibrateNP does), it uses a Dvoretzky-Kiefer-Wolfowitz concentration
// bound on the empirical CDF of calibration-negative scores, so the
// resulting threshold controls the TRUE false-positive rate at level alpha
// with probability at least 1-delta, not just the observed one.
//
// xi_hat is the empirical fraction of labeled negatives scoring below a
// candidate threshold tau; xi_lcb is the DKW lower confidence bound on the
// true fraction. A threshold is feasible once xi_lcb >= 1-alpha, i.e. we
// can be confident at least a (1-alpha) fraction of negatives are rejected,
// which bounds the true FPR above tau by alpha.
func CalibrateConformal(pairs []LabeledPair, alpha, delta float64) (float64, model.ConformalCalibration, bool) {
	negatives := negativeScoresAsc(pairs)
	n := len(negatives)
	calib := model.ConformalCalibration{Delta: delta, N: n}
	if n == 0 {
		calib.Feasible = false
		return math.Inf(1), calib, false
	}

	epsilon := math.Sqrt(math.Log(2/delta) / (2 * float64(n)))
	calib.Epsilon = epsilon

	thresholds := append(uniqueAsc(negatives), math.Inf(1))
	for _, tau := range thresholds {
		xiHat := fractionBelow(negatives, tau)
		xiLCB := math.Max(0, xiHat-epsilon)
		if xiLCB >= 1-alpha {
			calib.XiLCB = xiLCB
			calib.Bound = int(math.Ceil(float64(n) * (1 - alpha)))
			calib.Feasible = true
			calib.Threshold = tau
			return tau, calib, true
		}
	}
	calib.Feasible = false
	return math.Inf(1), calib, false
}

func negativeScoresAsc(pairs []LabeledPair) []float64 {
	var out []float64
	for _, p := range pairs {
		if !p.IsMatch {
			out = append(out, p.PMatch)
		}
	}
	sort.Float64s(out)
	return out
}

func fractionBelow(sortedAsc []float64, tau float64) float64 {
	if len(sortedAsc) == 0 {
		return 0
	}
	count := 0
	for _, v := range sortedAsc {
		if v < tau {
			count++
		}
	}
	return float64(count) / float64(len(sortedAsc))
}

func uniqueAsc(sortedAsc []float64) []float64 {
	var out []float64
	var last float64
	first := true
	for _, v := range sortedAsc {
		if first || v != last {
			out = append(out, v)
			last = v
			first = false
		}
	}
	return out
}
