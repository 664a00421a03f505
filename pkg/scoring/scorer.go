package scoring

import (
	"math"
	"sort"

	"github.com/srdedupe/srdedupe/pkg/model"
)

// topContributionsK bounds how many field comparisons are echoed back as
// the "why did this pair score the way it did" summary in PairScore.
const topContributionsK = 5

// Scorer evaluates candidate pairs against a loaded FSModel.
type Scorer struct {
	Model *FSModel
}

func NewScorer(m *FSModel) *Scorer { return &Scorer{Model: m} }

// Score computes the Fellegi-Sunter log-likelihood ratio and posterior
// match probability for one candidate pair.
func (s *Scorer) Score(pairID string, a, b *model.CanonicalRecord) model.PairScore {
	doiFC, doiWarn := compareDOI(a, b, s.Model)
	pmidFC, pmidWarn := comparePMID(a, b, s.Model)
	titleFC, titleWarn := compareTitle(a, b, s.Model)
	authorsFC, authorsWarn := compareAuthors(a, b, s.Model)
	pagesFC, pagesWarn := comparePages(a, b, s.Model)

	comparisons := []model.FieldComparison{
		doiFC,
		pmidFC,
		titleFC,
		authorsFC,
		compareYear(a, b, s.Model),
		compareJournal(a, b, s.Model),
		pagesFC,
	}

	// Warnings accumulate in the fixed field order (doi, pmid, title,
	// authors, year, journal, pages) per SPEC_FULL.md §4.4, deduplicating.
	var warnings []string
	for _, w := range []string{doiWarn, pmidWarn, titleWarn, authorsWarn, pagesWarn} {
		if w != "" {
			warnings = appendUnique(warnings, w)
		}
	}

	llr := logit(s.Model.LambdaPrior)
	for _, c := range comparisons {
		llr += c.Weight
	}
	pMatch := sigmoid(llr)

	return model.PairScore{
		PairID:           pairID,
		RIDA:             a.RID,
		RIDB:             b.RID,
		Comparison:       comparisons,
		LLR:              round(llr, s.Model.RoundDecimals),
		PMatch:           round(pMatch, s.Model.RoundDecimals),
		TopContributions: topContributions(comparisons, topContributionsK),
		Warnings:         warnings,
		Model:            s.Model.Version,
	}
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func round(v float64, decimals int) float64 {
	f := math.Pow(10, float64(decimals))
	return math.Round(v*f) / f
}

// topContributions ranks comparisons by |weight| descending, breaking ties
// by field name so the output is stable across runs.
func topContributions(comparisons []model.FieldComparison, k int) []model.FieldComparison {
	sorted := make([]model.FieldComparison, len(comparisons))
	copy(sorted, comparisons)
	sort.SliceStable(sorted, func(i, j int) bool {
		wi, wj := math.Abs(sorted[i].Weight), math.Abs(sorted[j].Weight)
		if wi != wj {
			return wi > wj
		}
		return sorted[i].Field < sorted[j].Field
	})
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
