// Package merge implements the canonical-merge stage described in
// SPEC_FULL.md §4.7: survivor selection, field-merge rules, per-field
// merge provenance, and the output writers (RIS/JSONL/summary reports).
package merge

import "github.com/srdedupe/srdedupe/pkg/model"

// survivorKey is the seven-field priority tuple SPEC_FULL.md §4.7 mandates
// for survivor ranking, richest-first, with the smallest rid as the final
// deterministic tie-break.
type survivorKey struct {
	hasDOI       bool
	hasPMID      bool
	hasTitle     bool
	hasAbstract  bool
	authorCount  int
	completeness int
	rid          string
}

func keyFor(r *model.CanonicalRecord) survivorKey {
	k := survivorKey{rid: r.RID}
	k.hasDOI = r.Canon.DOINorm != nil && *r.Canon.DOINorm != ""
	k.hasPMID = r.Canon.PMIDNorm != nil && *r.Canon.PMIDNorm != ""
	k.hasTitle = r.Canon.TitleNormBasic != nil && *r.Canon.TitleNormBasic != ""
	k.hasAbstract = r.Canon.AbstractNorm != nil && *r.Canon.AbstractNorm != ""
	k.authorCount = len(r.Canon.AuthorsParsed)
	k.completeness = completenessScore(r)
	return k
}

// completenessScore counts the non-null fields among the eight metadata
// fields SPEC_FULL.md §4.7 names: year_norm, journal_norm, volume, issue,
// pages_norm_long, language, publication_type, article_number.
func completenessScore(r *model.CanonicalRecord) int {
	n := 0
	if r.Canon.YearNorm != nil {
		n++
	}
	if r.Canon.JournalNorm != nil && *r.Canon.JournalNorm != "" {
		n++
	}
	if r.Canon.Volume != nil && *r.Canon.Volume != "" {
		n++
	}
	if r.Canon.Issue != nil && *r.Canon.Issue != "" {
		n++
	}
	if r.Canon.PagesNormLong != nil && *r.Canon.PagesNormLong != "" {
		n++
	}
	if r.Canon.Language != nil {
		n++
	}
	if len(r.Canon.PublicationType) > 0 {
		n++
	}
	if r.Canon.ArticleNumber != nil && *r.Canon.ArticleNumber != "" {
		n++
	}
	return n
}

// outranks reports whether a should be preferred over b as the survivor,
// per the SPEC_FULL.md §4.7 tuple in its literal priority order.
func (a survivorKey) outranks(b survivorKey) bool {
	if a.hasDOI != b.hasDOI {
		return a.hasDOI
	}
	if a.hasPMID != b.hasPMID {
		return a.hasPMID
	}
	if a.hasTitle != b.hasTitle {
		return a.hasTitle
	}
	if a.hasAbstract != b.hasAbstract {
		return a.hasAbstract
	}
	if a.authorCount != b.authorCount {
		return a.authorCount > b.authorCount
	}
	if a.completeness != b.completeness {
		return a.completeness > b.completeness
	}
	return a.rid < b.rid
}

// ChooseSurvivor picks the canonical survivor record among a cluster's
// members.
func ChooseSurvivor(members []*model.CanonicalRecord) *model.CanonicalRecord {
	if len(members) == 0 {
		return nil
	}
	best := members[0]
	bestKey := keyFor(best)
	for _, m := range members[1:] {
		k := keyFor(m)
		if k.outranks(bestKey) {
			best = m
			bestKey = k
		}
	}
	return best
}
