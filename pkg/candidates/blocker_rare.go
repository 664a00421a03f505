package candidates

import (
	"sort"

	"github.com/srdedupe/srdedupe/pkg/model"
)

// BibRareTitleTokensBlocker is a stateful blocker: it computes per-corpus
// document frequency of title shingle tokens during Initialize, then keys
// each record by its k rarest tokens that appear in at most dfMaxRatio of
// the corpus.
type BibRareTitleTokensBlocker struct {
	k          int
	dfMaxRatio float64
	docFreq    map[string]int
	totalDocs  int
}

func NewBibRareTitleTokensBlocker() *BibRareTitleTokensBlocker {
	return &BibRareTitleTokensBlocker{k: 3, dfMaxRatio: 0.01}
}

func (b *BibRareTitleTokensBlocker) Name() string     { return "rare_tokens" }
func (b *BibRareTitleTokensBlocker) MatchKey() string { return "rare_title_token" }

func (b *BibRareTitleTokensBlocker) Initialize(records []*model.CanonicalRecord) {
	b.docFreq = map[string]int{}
	b.totalDocs = len(records)
	for _, r := range records {
		seen := map[string]bool{}
		for _, tok := range r.Keys.TitleShingles {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			b.docFreq[tok]++
		}
	}
}

func (b *BibRareTitleTokensBlocker) BlockKeys(r *model.CanonicalRecord) []string {
	if len(r.Keys.TitleShingles) == 0 || b.totalDocs == 0 {
		return nil
	}
	type tokFreq struct {
		tok  string
		freq int
	}
	var candidates []tokFreq
	seen := map[string]bool{}
	maxDocs := b.dfMaxRatio * float64(b.totalDocs)
	for _, tok := range r.Keys.TitleShingles {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		freq := b.docFreq[tok]
		if float64(freq) <= maxDocs {
			candidates = append(candidates, tokFreq{tok, freq})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].freq != candidates[j].freq {
			return candidates[i].freq < candidates[j].freq
		}
		return candidates[i].tok < candidates[j].tok
	})
	n := b.k
	if n > len(candidates) {
		n = len(candidates)
	}
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, candidates[i].tok)
	}
	return keys
}
