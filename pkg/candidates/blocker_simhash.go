package candidates

import (
	"strconv"

	"github.com/srdedupe/srdedupe/pkg/model"
)

const (
	simHashBitWidth       = 64
	simHashChunks         = 4
	simHashMinShingleTokens = 3
)

// simHash64 computes a 64-bit SimHash fingerprint over tokens using a
// BLAKE2b-derived per-token hash (same deterministic primitive as the
// MinHash blocker) and a weighted-majority bit vote.
func simHash64(tokens []string) uint64 {
	var counts [simHashBitWidth]int
	for _, tok := range tokens {
		h := permutedHash(0, tok)
		for bit := 0; bit < simHashBitWidth; bit++ {
			if h&(1<<uint(bit)) != 0 {
				counts[bit]++
			} else {
				counts[bit]--
			}
		}
	}
	var out uint64
	for bit := 0; bit < simHashBitWidth; bit++ {
		if counts[bit] > 0 {
			out |= 1 << uint(bit)
		}
	}
	return out
}

// SimHashTitleBlocker blocks on 64-bit SimHash fingerprints of the title's
// shingle set, split into 4 chunks of 16 bits each.
type SimHashTitleBlocker struct{}

func NewSimHashTitleBlocker() *SimHashTitleBlocker { return &SimHashTitleBlocker{} }

func (b *SimHashTitleBlocker) Name() string     { return "simhash" }
func (b *SimHashTitleBlocker) MatchKey() string { return "simhash_chunk" }

func (b *SimHashTitleBlocker) BlockKeys(r *model.CanonicalRecord) []string {
	tokens := r.Keys.TitleShingles
	if len(tokens) < simHashMinShingleTokens {
		return nil
	}
	fp := simHash64(tokens)
	chunkBits := simHashBitWidth / simHashChunks
	keys := make([]string, 0, simHashChunks)
	for c := 0; c < simHashChunks; c++ {
		shift := uint(c * chunkBits)
		chunk := (fp >> shift) & ((1 << uint(chunkBits)) - 1)
		keys = append(keys, "sh:c"+strconv.Itoa(c)+":"+strconv.FormatUint(chunk, 16))
	}
	return keys
}
