package normalize

import "github.com/srdedupe/srdedupe/pkg/model"

type titleResult struct {
	raw       *string
	normBasic *string
}

func normalizeTitle(rawTags []RawTagView, sourceFormat string) (titleResult, *model.ProvenanceEntry) {
	titleTags := getTags(sourceFormat, "title")
	rt, ok := findTagValue(rawTags, titleTags, nil)
	if !ok {
		return titleResult{}, nil
	}
	raw := rt.Value
	normBasic := normalizeTextForMatching(raw)
	entry := buildProvenanceEntry(rawTags, []int{rt.Index}, sourceFormat,
		[]model.Transform{addTransform("normalize_text_for_matching", "")}, "high")
	return titleResult{raw: &raw, normBasic: &normBasic}, &entry
}
