package candidates

import (
	"sort"

	"golang.org/x/time/rate"

	"github.com/srdedupe/srdedupe/pkg/audit"
	"github.com/srdedupe/srdedupe/pkg/model"
)

// DefaultOversizedBlockLogRate caps how often an oversized-block warning is
// actually written to the audit log; large corpora can produce thousands of
// oversized blocks per run, and logging every one floods events.jsonl for no
// diagnostic benefit beyond the first few.
const DefaultOversizedBlockLogRate = 5 // events per second

// DefaultMaxBlockSize is the combinatorial-explosion guard from
// SPEC_FULL.md §4.3: blocks larger than this are logged and skipped rather
// than expanded into O(n^2) pairs.
const DefaultMaxBlockSize = 1000

// Generator builds candidate pairs by running each configured blocker over
// the full record set and merging the results, following the orchestration
// in candidates/generator.py (the per-blocker algorithms themselves have no
// Python precedent and are grounded on SPEC_FULL.md §4.3 prose instead).
type Generator struct {
	Blockers       []Blocker
	MaxBlockSize   int
	Logger         *audit.Logger
	oversizedLimit *rate.Limiter
}

func NewGenerator(blockers []Blocker) *Generator {
	return &Generator{
		Blockers:       blockers,
		MaxBlockSize:   DefaultMaxBlockSize,
		oversizedLimit: rate.NewLimiter(rate.Limit(DefaultOversizedBlockLogRate), DefaultOversizedBlockLogRate),
	}
}

// Result bundles the generator's deterministic output.
type Result struct {
	Pairs []model.CandidatePair
	Stats []BlockerStats
}

// Generate runs every blocker over records and returns the deduplicated,
// pair_id-sorted set of candidate pairs plus per-blocker statistics.
func (g *Generator) Generate(records []*model.CanonicalRecord) Result {
	pairSources := map[string][]model.CandidateSource{}
	pairRIDs := map[string][2]string{}
	stats := make([]BlockerStats, 0, len(g.Blockers))

	blockers := make([]Blocker, len(g.Blockers))
	copy(blockers, g.Blockers)
	sort.Slice(blockers, func(i, j int) bool { return blockers[i].Name() < blockers[j].Name() })

	for _, b := range blockers {
		if sb, ok := b.(StatefulBlocker); ok {
			sb.Initialize(records)
		}
		st := BlockerStats{Name: b.Name()}

		index := map[string][]string{}
		for _, r := range records {
			keys := b.BlockKeys(r)
			if len(keys) == 0 {
				continue
			}
			st.RecordsKeyed++
			for _, k := range keys {
				index[k] = append(index[k], r.RID)
			}
		}
		st.RecordsSeen = len(records)
		st.UniqueKeys = len(index)

		blockKeysSorted := make([]string, 0, len(index))
		for k := range index {
			blockKeysSorted = append(blockKeysSorted, k)
		}
		sort.Strings(blockKeysSorted)

		for _, k := range blockKeysSorted {
			rids := dedupSorted(index[k])
			if len(rids) <= 1 {
				continue
			}
			st.BlocksGT1++
			if len(rids) > st.MaxBlock {
				st.MaxBlock = len(rids)
			}
			if len(rids) > g.effectiveMaxBlockSize() {
				st.OversizedBlocksSkipped++
				if g.Logger != nil && g.allowOversizedLog() {
					g.Logger.OversizedBlock(b.Name(), k, len(rids))
				}
				continue
			}
			for i := 0; i < len(rids); i++ {
				for j := i + 1; j < len(rids); j++ {
					a, c := orderedPair(rids[i], rids[j])
					pid := pairID(a, c)
					st.PairsRaw++
					if _, exists := pairSources[pid]; !exists {
						st.PairsUnique++
						pairRIDs[pid] = [2]string{a, c}
					}
					pairSources[pid] = append(pairSources[pid], model.CandidateSource{
						Blocker:  b.Name(),
						BlockKey: k,
						MatchKey: b.MatchKey(),
					})
				}
			}
		}
		stats = append(stats, st)
	}

	pairIDsSorted := make([]string, 0, len(pairSources))
	for pid := range pairSources {
		pairIDsSorted = append(pairIDsSorted, pid)
	}
	sort.Strings(pairIDsSorted)

	pairs := make([]model.CandidatePair, 0, len(pairIDsSorted))
	for _, pid := range pairIDsSorted {
		rids := pairRIDs[pid]
		pairs = append(pairs, newCandidatePair(pid, rids[0], rids[1], pairSources[pid]))
	}

	return Result{Pairs: pairs, Stats: stats}
}

func (g *Generator) effectiveMaxBlockSize() int {
	if g.MaxBlockSize <= 0 {
		return DefaultMaxBlockSize
	}
	return g.MaxBlockSize
}

// allowOversizedLog reports whether the next oversized-block event may be
// logged, per DefaultOversizedBlockLogRate. A nil limiter (zero-value
// Generator) always allows logging.
func (g *Generator) allowOversizedLog() bool {
	if g.oversizedLimit == nil {
		return true
	}
	return g.oversizedLimit.Allow()
}

func dedupSorted(rids []string) []string {
	sort.Strings(rids)
	out := rids[:0:0]
	var last string
	first := true
	for _, r := range rids {
		if first || r != last {
			out = append(out, r)
			last = r
			first = false
		}
	}
	return out
}
