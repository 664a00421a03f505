package merge

import (
	"fmt"
	"sort"

	"github.com/srdedupe/srdedupe/pkg/model"
)

// MergeFields combines member canonical fields into one merged Canon,
// recording per-field provenance. Strong identifiers (DOI, PMID) must be
// unique across members post-clustering; a mismatch here is a fatal
// configuration error, since pkg/clustering's hard-conflict gate should
// already have prevented it from reaching merge.
func MergeFields(members []*model.CanonicalRecord) (model.Canon, map[string]model.FieldProvenance, error) {
	var out model.Canon
	prov := map[string]model.FieldProvenance{}

	doi, doiRID, err := uniqueStrongID(members, "doi_norm", func(r *model.CanonicalRecord) *string { return r.Canon.DOINorm })
	if err != nil {
		return out, prov, err
	}
	out.DOINorm = doi
	if doi != nil {
		prov["doi_norm"] = model.FieldProvenance{SourceRIDs: []string{doiRID}, Rule: "strong_id_unique"}
	}

	pmid, pmidRID, err := uniqueStrongID(members, "pmid_norm", func(r *model.CanonicalRecord) *string { return r.Canon.PMIDNorm })
	if err != nil {
		return out, prov, err
	}
	out.PMIDNorm = pmid
	if pmid != nil {
		prov["pmid_norm"] = model.FieldProvenance{SourceRIDs: []string{pmidRID}, Rule: "strong_id_unique"}
	}

	if rid, raw, norm := longestText(members,
		func(r *model.CanonicalRecord) *string { return r.Canon.TitleRaw },
		func(r *model.CanonicalRecord) *string { return r.Canon.TitleNormBasic }); rid != "" {
		out.TitleRaw, out.TitleNormBasic = raw, norm
		prov["title"] = model.FieldProvenance{SourceRIDs: []string{rid}, Rule: "longest_text"}
	}

	if rid, bundle := mostAuthors(members); rid != "" {
		out.AuthorsParsed = bundle.AuthorsParsed
		out.AuthorsRaw = bundle.AuthorsRaw
		out.FirstAuthorSig = bundle.FirstAuthorSig
		out.AuthorSigStrict = bundle.AuthorSigStrict
		out.AuthorSigLoose = bundle.AuthorSigLoose
		prov["authors"] = model.FieldProvenance{SourceRIDs: []string{rid}, Rule: "most_authors"}
	}

	if rid, year, source := modeYear(members); rid != "" {
		out.YearNorm = year
		out.YearSource = source
		prov["year_norm"] = model.FieldProvenance{SourceRIDs: []string{rid}, Rule: "mode"}
	}

	if rid, full, abbrev, norm := richestJournal(members); rid != "" {
		out.JournalFull, out.JournalAbbrev, out.JournalNorm = full, abbrev, norm
		prov["journal"] = model.FieldProvenance{SourceRIDs: []string{rid}, Rule: "most_complete"}
	}

	if rid, raw, normLong, first, last, article := reliablePages(members); rid != "" {
		out.PagesRaw, out.PagesNormLong, out.PageFirst, out.PageLast, out.ArticleNumber = raw, normLong, first, last, article
		prov["pages"] = model.FieldProvenance{SourceRIDs: []string{rid}, Rule: "prefer_reliable"}
	}

	out.Volume = firstNonEmpty(members, func(r *model.CanonicalRecord) *string { return r.Canon.Volume })
	out.Issue = firstNonEmpty(members, func(r *model.CanonicalRecord) *string { return r.Canon.Issue })

	if rid, raw, norm := longestText(members,
		func(r *model.CanonicalRecord) *string { return r.Canon.AbstractRaw },
		func(r *model.CanonicalRecord) *string { return r.Canon.AbstractNorm }); rid != "" {
		out.AbstractRaw, out.AbstractNorm = raw, norm
	}

	if pubTypes := sortedDistinctUnion(pluck(members, func(r *model.CanonicalRecord) []string { return r.Canon.PublicationType })); len(pubTypes) > 0 {
		out.PublicationType = pubTypes
		prov["publication_type"] = model.FieldProvenance{SourceRIDs: memberRIDs(members), Rule: "sorted_distinct_union"}
	}

	if languages := sortedDistinctUnion(pluck(members, languageValues)); len(languages) > 0 {
		if len(languages) == 1 {
			out.Language = languages[0]
		} else {
			out.Language = languages
		}
		prov["language"] = model.FieldProvenance{SourceRIDs: memberRIDs(members), Rule: "sorted_distinct_union"}
	}

	return out, prov, nil
}

func memberRIDs(members []*model.CanonicalRecord) []string {
	rids := make([]string, 0, len(members))
	for _, m := range members {
		rids = append(rids, m.RID)
	}
	sort.Strings(rids)
	return rids
}

// uniqueStrongID returns the single distinct non-empty value of a strong
// identifier across members, or an error if two members disagree — which
// should never happen downstream of clustering's hard-conflict gate.
func uniqueStrongID(members []*model.CanonicalRecord, field string, get func(*model.CanonicalRecord) *string) (*string, string, error) {
	var value *string
	var rid string
	for _, m := range members {
		v := get(m)
		if v == nil || *v == "" {
			continue
		}
		if value == nil {
			value, rid = v, m.RID
			continue
		}
		if *value != *v {
			return nil, "", fmt.Errorf("merge: conflicting %s across cluster members (%s vs %s on %s)", field, *value, *v, m.RID)
		}
	}
	return value, rid, nil
}

func longestText(members []*model.CanonicalRecord, getRaw, getNorm func(*model.CanonicalRecord) *string) (string, *string, *string) {
	var bestRID string
	var bestRaw, bestNorm *string
	bestLen := -1
	for _, m := range members {
		norm := getNorm(m)
		if norm == nil || *norm == "" {
			continue
		}
		if len(*norm) > bestLen {
			bestLen = len(*norm)
			bestRID = m.RID
			bestNorm = norm
			bestRaw = getRaw(m)
		}
	}
	return bestRID, bestRaw, bestNorm
}

type authorsBundle struct {
	AuthorsParsed   []model.Author
	AuthorsRaw      []string
	FirstAuthorSig  *string
	AuthorSigStrict []string
	AuthorSigLoose  []string
}

func mostAuthors(members []*model.CanonicalRecord) (string, authorsBundle) {
	var bestRID string
	var best authorsBundle
	bestCount := -1
	for _, m := range members {
		n := len(m.Canon.AuthorsParsed)
		if n > bestCount {
			bestCount = n
			bestRID = m.RID
			best = authorsBundle{
				AuthorsParsed:   m.Canon.AuthorsParsed,
				AuthorsRaw:      m.Canon.AuthorsRaw,
				FirstAuthorSig:  m.Canon.FirstAuthorSig,
				AuthorSigStrict: m.Canon.AuthorSigStrict,
				AuthorSigLoose:  m.Canon.AuthorSigLoose,
			}
		}
	}
	if bestCount <= 0 {
		return "", authorsBundle{}
	}
	return bestRID, best
}

// modeYear picks the most frequently occurring year among members,
// breaking ties by the smallest RID among the tied years' earliest-seen
// member for determinism.
func modeYear(members []*model.CanonicalRecord) (string, *int, *string) {
	counts := map[int]int{}
	firstSeenRID := map[int]string{}
	firstSeenSource := map[int]*string{}
	var order []int
	for _, m := range members {
		if m.Canon.YearNorm == nil {
			continue
		}
		y := *m.Canon.YearNorm
		if counts[y] == 0 {
			order = append(order, y)
			firstSeenRID[y] = m.RID
			firstSeenSource[y] = m.Canon.YearSource
		}
		counts[y]++
	}
	if len(order) == 0 {
		return "", nil, nil
	}
	sort.Slice(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeenRID[order[i]] < firstSeenRID[order[j]]
	})
	best := order[0]
	return firstSeenRID[best], &best, firstSeenSource[best]
}

func richestJournal(members []*model.CanonicalRecord) (string, *string, *string, *string) {
	var bestRID string
	var bestFull, bestAbbrev, bestNorm *string
	bestScore := -1
	for _, m := range members {
		score := 0
		if m.Canon.JournalFull != nil && *m.Canon.JournalFull != "" {
			score++
		}
		if m.Canon.JournalAbbrev != nil && *m.Canon.JournalAbbrev != "" {
			score++
		}
		if score > bestScore {
			bestScore = score
			bestRID = m.RID
			bestFull, bestAbbrev, bestNorm = m.Canon.JournalFull, m.Canon.JournalAbbrev, m.Canon.JournalNorm
		}
	}
	if bestScore <= 0 {
		return "", nil, nil, nil
	}
	return bestRID, bestFull, bestAbbrev, bestNorm
}

// reliablePages prefers the first member whose pages are not flagged
// unreliable; if none are reliable, falls back to the first member with
// any page data at all.
func reliablePages(members []*model.CanonicalRecord) (string, *string, *string, *string, *string, *string) {
	var fallbackRID string
	var fallbackRaw, fallbackNormLong, fallbackFirst, fallbackLast, fallbackArticle *string

	for _, m := range members {
		hasPages := (m.Canon.PageFirst != nil && *m.Canon.PageFirst != "") ||
			(m.Canon.ArticleNumber != nil && *m.Canon.ArticleNumber != "")
		if !hasPages {
			continue
		}
		if fallbackRID == "" {
			fallbackRID = m.RID
			fallbackRaw, fallbackNormLong = m.Canon.PagesRaw, m.Canon.PagesNormLong
			fallbackFirst, fallbackLast, fallbackArticle = m.Canon.PageFirst, m.Canon.PageLast, m.Canon.ArticleNumber
		}
		if !m.Flags.PagesUnreliable {
			return m.RID, m.Canon.PagesRaw, m.Canon.PagesNormLong, m.Canon.PageFirst, m.Canon.PageLast, m.Canon.ArticleNumber
		}
	}
	return fallbackRID, fallbackRaw, fallbackNormLong, fallbackFirst, fallbackLast, fallbackArticle
}

func firstNonEmpty(members []*model.CanonicalRecord, get func(*model.CanonicalRecord) *string) *string {
	for _, m := range members {
		v := get(m)
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}

// languageValues normalizes one member's pre-merge Canon.Language — which
// is always a bare string or nil before a merge has run — into a slice so
// it can feed the same sortedDistinctUnion pluck as publication_type.
func languageValues(r *model.CanonicalRecord) []string {
	switch v := r.Canon.Language.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	default:
		return nil
	}
}

func pluck(members []*model.CanonicalRecord, get func(*model.CanonicalRecord) []string) []string {
	var out []string
	for _, m := range members {
		out = append(out, get(m)...)
	}
	return out
}

func sortedDistinctUnion(items []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}
