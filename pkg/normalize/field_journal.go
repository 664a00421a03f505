package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/srdedupe/srdedupe/pkg/model"
)

type journalResult struct {
	full   *string
	abbrev *string
	norm   *string
}

func normalizeJournalString(s string) string {
	t := norm.NFKC.String(s)
	t = caseFolder.String(t)
	t = stripAccents(t)
	t = strings.Join(strings.Fields(t), " ")
	return strings.Trim(t, ". ")
}

// normalizeJournal ports normalize/_fields/journal.py: full and abbrev are
// looked up independently; whichever is present (full preferred) is
// normalized into journal_norm.
func normalizeJournal(rawTags []RawTagView, sourceFormat string) (journalResult, *model.ProvenanceEntry) {
	var res journalResult
	var provTag RawTagView
	haveProv := false

	if rt, ok := findTagValue(rawTags, getTags(sourceFormat, "journal_full"), nil); ok {
		full := rt.Value
		res.full = &full
		provTag = rt
		haveProv = true
	}
	if rt, ok := findTagValue(rawTags, getTags(sourceFormat, "journal_abbrev"), nil); ok {
		abbrev := rt.Value
		res.abbrev = &abbrev
		if !haveProv {
			provTag = rt
			haveProv = true
		}
	}

	toNormalize := res.full
	if toNormalize == nil {
		toNormalize = res.abbrev
	}
	if toNormalize == nil {
		return res, nil
	}
	normalized := normalizeJournalString(*toNormalize)
	res.norm = &normalized
	if !haveProv {
		return res, nil
	}
	entry := buildProvenanceEntry(rawTags, []int{provTag.Index}, sourceFormat,
		[]model.Transform{addTransform("normalize_journal_string", "")}, "high")
	return res, &entry
}
