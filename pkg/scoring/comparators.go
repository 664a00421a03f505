package scoring

import "github.com/srdedupe/srdedupe/pkg/model"

const (
	titleStrongThreshold = 0.92
	titleMediumThreshold = 0.85
	titleWeakThreshold   = 0.75

	authorsStrongThreshold = 0.5
	authorsWeakThreshold   = 0.3
)

func levelScore(m *FSModel, field, level string) model.FieldComparison {
	w, _ := m.Weight(field, level)
	return model.FieldComparison{Field: field, Level: level, Weight: w}
}

func ptrEqNonEmpty(a, b *string) bool {
	if a == nil || b == nil || *a == "" || *b == "" {
		return false
	}
	return *a == *b
}

func compareDOI(a, b *model.CanonicalRecord, m *FSModel) (model.FieldComparison, string) {
	if a.Canon.DOINorm == nil || b.Canon.DOINorm == nil || *a.Canon.DOINorm == "" || *b.Canon.DOINorm == "" {
		return levelScore(m, "doi", "missing"), ""
	}
	if *a.Canon.DOINorm == *b.Canon.DOINorm {
		return levelScore(m, "doi", "exact"), ""
	}
	return levelScore(m, "doi", "both_present_mismatch"), "both_present_id_conflicts"
}

func comparePMID(a, b *model.CanonicalRecord, m *FSModel) (model.FieldComparison, string) {
	if a.Canon.PMIDNorm == nil || b.Canon.PMIDNorm == nil || *a.Canon.PMIDNorm == "" || *b.Canon.PMIDNorm == "" {
		return levelScore(m, "pmid", "missing"), ""
	}
	if *a.Canon.PMIDNorm == *b.Canon.PMIDNorm {
		return levelScore(m, "pmid", "exact"), ""
	}
	return levelScore(m, "pmid", "both_present_mismatch"), "both_present_id_conflicts"
}

func titleLevelFor(sim float64) string {
	switch {
	case sim >= titleStrongThreshold:
		return "strong"
	case sim >= titleMediumThreshold:
		return "medium"
	case sim >= titleWeakThreshold:
		return "weak"
	default:
		return "mismatch"
	}
}

// downgradeTitleLevel drops a title level by one rung when either side's
// title is flagged truncated — a truncated title can inflate shingle
// similarity past where it would otherwise land.
func downgradeTitleLevel(level string) string {
	order := []string{"strong", "medium", "weak", "mismatch"}
	for i, l := range order {
		if l == level && i+1 < len(order) {
			return order[i+1]
		}
	}
	return level
}

func compareTitle(a, b *model.CanonicalRecord, m *FSModel) (model.FieldComparison, string) {
	if a.Canon.TitleNormBasic == nil || b.Canon.TitleNormBasic == nil ||
		*a.Canon.TitleNormBasic == "" || *b.Canon.TitleNormBasic == "" {
		return levelScore(m, "title", "missing"), ""
	}

	var sim float64
	if *a.Canon.TitleNormBasic == *b.Canon.TitleNormBasic {
		sim = 1.0
	} else {
		sim = jaccard(a.Keys.TitleShingles, b.Keys.TitleShingles)
	}

	level := titleLevelFor(sim)
	warning := ""
	if a.Flags.TitleTruncated || b.Flags.TitleTruncated {
		level = downgradeTitleLevel(level)
		warning = "title_truncated"
	}

	fc := levelScore(m, "title", level)
	fc.Similarity = &sim
	return fc, warning
}

func compareAuthors(a, b *model.CanonicalRecord, m *FSModel) (model.FieldComparison, string) {
	aEmpty := a.Canon.FirstAuthorSig == nil && len(a.Canon.AuthorSigStrict) == 0 && len(a.Canon.AuthorSigLoose) == 0
	bEmpty := b.Canon.FirstAuthorSig == nil && len(b.Canon.AuthorSigStrict) == 0 && len(b.Canon.AuthorSigLoose) == 0
	if aEmpty || bEmpty {
		return levelScore(m, "authors", "missing"), ""
	}

	if ptrEqNonEmpty(a.Canon.FirstAuthorSig, b.Canon.FirstAuthorSig) {
		fc := levelScore(m, "authors", "strong")
		sim := 1.0
		fc.Similarity = &sim
		return fc, authorsWarning(a, b)
	}

	sim := jaccard(a.Canon.AuthorSigStrict, b.Canon.AuthorSigStrict)
	if len(a.Canon.AuthorSigStrict) == 0 || len(b.Canon.AuthorSigStrict) == 0 {
		sim = jaccard(a.Canon.AuthorSigLoose, b.Canon.AuthorSigLoose)
	}

	var level string
	switch {
	case sim >= authorsStrongThreshold:
		level = "strong"
	case sim >= authorsWeakThreshold:
		level = "weak"
	default:
		level = "mismatch"
	}

	fc := levelScore(m, "authors", level)
	fc.Similarity = &sim
	return fc, authorsWarning(a, b)
}

func authorsWarning(a, b *model.CanonicalRecord) string {
	if a.Flags.AuthorsIncomplete || b.Flags.AuthorsIncomplete {
		return "authors_incomplete"
	}
	return ""
}

func compareYear(a, b *model.CanonicalRecord, m *FSModel) model.FieldComparison {
	if a.Canon.YearNorm == nil || b.Canon.YearNorm == nil {
		return levelScore(m, "year", "missing")
	}
	diff := *a.Canon.YearNorm - *b.Canon.YearNorm
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return levelScore(m, "year", "exact")
	case diff == 1:
		return levelScore(m, "year", "pm1")
	case diff == 2:
		return levelScore(m, "year", "pm2")
	default:
		return levelScore(m, "year", "far")
	}
}

func compareJournal(a, b *model.CanonicalRecord, m *FSModel) model.FieldComparison {
	if a.Canon.JournalNorm == nil || b.Canon.JournalNorm == nil ||
		*a.Canon.JournalNorm == "" || *b.Canon.JournalNorm == "" {
		return levelScore(m, "journal", "missing")
	}
	if *a.Canon.JournalNorm == *b.Canon.JournalNorm {
		return levelScore(m, "journal", "high")
	}
	return levelScore(m, "journal", "low")
}

func comparePages(a, b *model.CanonicalRecord, m *FSModel) (model.FieldComparison, string) {
	if a.Flags.PagesUnreliable || b.Flags.PagesUnreliable {
		return levelScore(m, "pages", "unreliable"), "pages_unreliable"
	}

	aHas := (a.Canon.PageFirst != nil && *a.Canon.PageFirst != "") ||
		(a.Canon.ArticleNumber != nil && *a.Canon.ArticleNumber != "")
	bHas := (b.Canon.PageFirst != nil && *b.Canon.PageFirst != "") ||
		(b.Canon.ArticleNumber != nil && *b.Canon.ArticleNumber != "")
	if !aHas || !bHas {
		return levelScore(m, "pages", "missing"), ""
	}

	if a.Canon.ArticleNumber != nil && *a.Canon.ArticleNumber != "" &&
		b.Canon.ArticleNumber != nil && *b.Canon.ArticleNumber != "" {
		if *a.Canon.ArticleNumber == *b.Canon.ArticleNumber {
			return levelScore(m, "pages", "exact"), ""
		}
		return levelScore(m, "pages", "mismatch"), ""
	}

	if ptrEqNonEmpty(a.Canon.PageFirst, b.Canon.PageFirst) {
		if ptrEqNonEmpty(a.Canon.PageLast, b.Canon.PageLast) {
			return levelScore(m, "pages", "exact"), ""
		}
		return levelScore(m, "pages", "compatible"), ""
	}
	return levelScore(m, "pages", "mismatch"), ""
}
