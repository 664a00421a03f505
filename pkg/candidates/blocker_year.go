package candidates

import (
	"strconv"

	"github.com/srdedupe/srdedupe/pkg/model"
)

const titlePrefixLen = 32

// BibYearPM1FirstAuthorBlocker blocks on (year +/- 1) x first-author
// signature, per SPEC_FULL.md §4.3.
type BibYearPM1FirstAuthorBlocker struct{}

func NewBibYearPM1FirstAuthorBlocker() *BibYearPM1FirstAuthorBlocker {
	return &BibYearPM1FirstAuthorBlocker{}
}

func (b *BibYearPM1FirstAuthorBlocker) Name() string     { return "year_author" }
func (b *BibYearPM1FirstAuthorBlocker) MatchKey() string { return "year_pm1_first_author" }
func (b *BibYearPM1FirstAuthorBlocker) BlockKeys(r *model.CanonicalRecord) []string {
	if r.Canon.YearNorm == nil || r.Canon.FirstAuthorSig == nil {
		return nil
	}
	year := *r.Canon.YearNorm
	sig := *r.Canon.FirstAuthorSig
	keys := make([]string, 0, 3)
	for _, off := range []int{-1, 0, 1} {
		keys = append(keys, "y"+strconv.Itoa(year+off)+":"+sig)
	}
	return keys
}

// BibYearPM1TitlePrefixBlocker blocks on (year +/- 1) x the first 32
// characters of the strict title key.
type BibYearPM1TitlePrefixBlocker struct{}

func NewBibYearPM1TitlePrefixBlocker() *BibYearPM1TitlePrefixBlocker {
	return &BibYearPM1TitlePrefixBlocker{}
}

func (b *BibYearPM1TitlePrefixBlocker) Name() string     { return "year_title" }
func (b *BibYearPM1TitlePrefixBlocker) MatchKey() string { return "year_pm1_title_prefix" }
func (b *BibYearPM1TitlePrefixBlocker) BlockKeys(r *model.CanonicalRecord) []string {
	if r.Canon.YearNorm == nil || r.Keys.TitleKeyStrict == nil {
		return nil
	}
	year := *r.Canon.YearNorm
	prefix := *r.Keys.TitleKeyStrict
	runes := []rune(prefix)
	if len(runes) > titlePrefixLen {
		prefix = string(runes[:titlePrefixLen])
	}
	keys := make([]string, 0, 3)
	for _, off := range []int{-1, 0, 1} {
		keys = append(keys, "y"+strconv.Itoa(year+off)+":"+prefix)
	}
	return keys
}
