package normalize

import (
	"strconv"
	"strings"

	"github.com/srdedupe/srdedupe/pkg/model"
)

type yearResult struct {
	raw    *string
	norm   *int
	source *string
}

// extractYear ports normalize/_fields/year.py: unlike most other fields,
// this scans raw tags in plain document order (not priority-then-search),
// taking the first tag whose name is in year_tags.
func extractYear(rawTags []RawTagView, sourceFormat string) (yearResult, *model.ProvenanceEntry) {
	yearTags := getTags(sourceFormat, "year")
	set := map[string]bool{}
	for _, t := range yearTags {
		set[t] = true
	}
	for _, rt := range rawTags {
		if !set[rt.Tag] {
			continue
		}
		m := yearRE.FindString(strings.TrimSpace(rt.Value))
		if m == "" {
			continue
		}
		yr, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		raw := rt.Value
		source := strings.ToUpper(sourceFormat) + "." + rt.Tag
		entry := buildProvenanceEntry(rawTags, []int{rt.Index}, sourceFormat,
			[]model.Transform{addTransform("extract_year", "")}, "high")
		return yearResult{raw: &raw, norm: &yr, source: &source}, &entry
	}
	return yearResult{}, nil
}
