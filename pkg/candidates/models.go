// Package candidates implements the pluggable blockers and the candidate
// generator described in SPEC_FULL.md §4.3. No Python reference for the
// individual blocker algorithms survived in original_source/ (blockers.py
// there is a docstring-only stub) — the generator/factory orchestration
// logic below is ported from candidates/generator.py and candidates/
// factory.py; the blocker bodies are implemented directly from the prose
// spec (see DESIGN.md).
package candidates

import "github.com/srdedupe/srdedupe/pkg/model"

func pairID(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

func orderedPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

func newCandidatePair(pairID, ridA, ridB string, sources []model.CandidateSource) model.CandidatePair {
	return model.CandidatePair{PairID: pairID, RIDA: ridA, RIDB: ridB, Sources: sources}
}
