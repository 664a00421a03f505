package candidates

import (
	"encoding/binary"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/srdedupe/srdedupe/pkg/model"
)

const (
	minHashDefaultPerms     = 128
	minHashDefaultBands     = 16
	minHashMinShingleTokens = 3
)

// MinHashLSHTitleBlocker blocks on banded MinHash signatures of the title's
// shingle set. Permutation seeds are fixed integers (0..nPerm-1) hashed
// through BLAKE2b, never math/rand, so the signature is identical across
// runs and processes — required by SPEC_FULL.md §9's determinism rule.
type MinHashLSHTitleBlocker struct {
	nPerm int
	bands int
}

func NewMinHashLSHTitleBlocker() *MinHashLSHTitleBlocker {
	return &MinHashLSHTitleBlocker{nPerm: minHashDefaultPerms, bands: minHashDefaultBands}
}

func (b *MinHashLSHTitleBlocker) Name() string     { return "minhash" }
func (b *MinHashLSHTitleBlocker) MatchKey() string { return "minhash_band" }

func permutedHash(seedIndex int, token string) uint64 {
	var seedBuf [8]byte
	binary.BigEndian.PutUint64(seedBuf[:], uint64(seedIndex))
	h, _ := blake2b.New256(seedBuf[:])
	h.Write([]byte(token))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

// minHashSignature computes the nPerm-length MinHash signature of tokens.
func minHashSignature(tokens []string, nPerm int) []uint64 {
	sig := make([]uint64, nPerm)
	for i := range sig {
		sig[i] = ^uint64(0)
	}
	for _, tok := range tokens {
		for i := 0; i < nPerm; i++ {
			h := permutedHash(i, tok)
			if h < sig[i] {
				sig[i] = h
			}
		}
	}
	return sig
}

func (b *MinHashLSHTitleBlocker) BlockKeys(r *model.CanonicalRecord) []string {
	tokens := r.Keys.TitleShingles
	if len(tokens) < minHashMinShingleTokens {
		return nil
	}
	sig := minHashSignature(tokens, b.nPerm)
	rowsPerBand := b.nPerm / b.bands
	keys := make([]string, 0, b.bands)
	for band := 0; band < b.bands; band++ {
		start := band * rowsPerBand
		end := start + rowsPerBand
		var parts []string
		for _, v := range sig[start:end] {
			parts = append(parts, strconv.FormatUint(v, 16))
		}
		bandHash := blake2b.Sum256([]byte(strings.Join(parts, ",")))
		keys = append(keys, "mh:b"+strconv.Itoa(band)+":"+strconv.FormatUint(binary.BigEndian.Uint64(bandHash[:8]), 16))
	}
	return keys
}
