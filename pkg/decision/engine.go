package decision

import "github.com/srdedupe/srdedupe/pkg/model"

// Engine applies calibrated thresholds and safety gates to scored pairs.
type Engine struct {
	Thresholds model.Thresholds
	NP         model.NPCalibration
	Conformal  *model.ConformalCalibration
	CELGate    CELEvaluator
}

// CELEvaluator is satisfied by pkg/decision/celgate.Gate; kept as a small
// interface here so the core engine does not depend on cel-go directly.
type CELEvaluator interface {
	Evaluate(score model.PairScore) (bool, error)
}

// NewEngine combines the NP and (optional, feasible) conformal thresholds
// into a single t_high per SPEC_FULL.md §4.5: t_high_final is the max of
// the two, since the conformal threshold only ever tightens (never
// loosens) the NP calibration's guarantee.
func NewEngine(npThreshold float64, npCalib model.NPCalibration, tLow float64, conformalThreshold *float64, conformalCalib *model.ConformalCalibration) *Engine {
	thresholds := model.Thresholds{THighNP: npThreshold, TLow: tLow, THigh: npThreshold}
	var conf *model.ConformalCalibration
	if conformalThreshold != nil && conformalCalib != nil && conformalCalib.Feasible {
		conf = conformalCalib
		thresholds.THighConformal = conformalThreshold
		if *conformalThreshold > thresholds.THigh {
			thresholds.THigh = *conformalThreshold
		}
	}
	return &Engine{Thresholds: thresholds, NP: npCalib, Conformal: conf}
}

// Decide classifies one scored pair into AUTO_DUP / REVIEW / AUTO_KEEP.
func (e *Engine) Decide(score model.PairScore, a, b *model.CanonicalRecord) model.PairDecision {
	gateReasons := EvaluateGates(score, a, b)

	if e.CELGate != nil {
		if fired, err := e.CELGate.Evaluate(score); err == nil && fired {
			gateReasons = append(gateReasons, "cel_gate")
		}
	}

	var d model.Decision
	switch {
	case len(gateReasons) > 0:
		d = model.DecisionReview
	case score.PMatch >= e.Thresholds.THigh:
		d = model.DecisionAutoDup
	case score.PMatch < e.Thresholds.TLow:
		d = model.DecisionAutoKeep
	default:
		d = model.DecisionReview
	}

	// Strength tags (doi_exact/pmid_exact) ride along in Reasons for
	// pkg/clustering's strong-edge check, but never participate in the
	// REVIEW-forcing switch above — they describe the pair, not a gate.
	reasons := append(append([]string{}, gateReasons...), strengthReasons(score)...)

	return model.PairDecision{
		PairID:     score.PairID,
		RIDA:       score.RIDA,
		RIDB:       score.RIDB,
		PMatch:     score.PMatch,
		Decision:   d,
		Thresholds: e.Thresholds,
		NP:         e.NP,
		Conformal:  e.Conformal,
		Reasons:    reasons,
		Warnings:   score.Warnings,
	}
}
