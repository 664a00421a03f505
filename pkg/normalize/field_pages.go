package normalize

import (
	"strings"

	"github.com/srdedupe/srdedupe/pkg/model"
)

type pagesResult struct {
	raw           *string
	normLong      *string
	first         *string
	last          *string
	articleNumber *string
	unreliable    bool
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalizePages ports normalize/_fields/pages.py.
func normalizePages(rawTags []RawTagView, sourceFormat string) (pagesResult, *model.ProvenanceEntry) {
	var res pagesResult
	var provIdx []int

	startTags := getTags(sourceFormat, "pages_start")
	endTags := getTags(sourceFormat, "pages_end")
	if len(startTags) > 0 || len(endTags) > 0 {
		startRT, startOK := findTagValue(rawTags, startTags, nil)
		endRT, endOK := findTagValue(rawTags, endTags, nil)
		switch {
		case startOK && endOK:
			raw := startRT.Value + "-" + endRT.Value
			res.raw = &raw
			res.first, res.last = &startRT.Value, &endRT.Value
			provIdx = []int{startRT.Index, endRT.Index}
		case startOK:
			raw := startRT.Value
			res.raw = &raw
			res.first = &startRT.Value
			provIdx = []int{startRT.Index}
		}
	} else if rt, ok := findTagValue(rawTags, getTags(sourceFormat, "pages"), nil); ok {
		raw := rt.Value
		res.raw = &raw
		provIdx = []int{rt.Index}
		if m := pageRangeRE.FindStringSubmatch(raw); m != nil {
			res.first, res.last = &m[1], &m[2]
		} else if isAllDigits(raw) {
			res.first = &raw
		} else {
			res.unreliable = true
		}
	}

	if res.raw == nil {
		return res, nil
	}

	if elocatorRE.MatchString(*res.raw) {
		res.articleNumber = res.raw
		res.unreliable = true
		res.first, res.last = nil, nil
	}

	if !res.unreliable {
		normLong := dashNormRE.ReplaceAllString(*res.raw, "-")
		normLong = strings.ReplaceAll(normLong, " ", "")
		res.normLong = &normLong
	}

	confidence := "high"
	if res.unreliable {
		confidence = "medium"
	}
	entry := buildProvenanceEntry(rawTags, provIdx, sourceFormat,
		[]model.Transform{addTransform("normalize_pages", "")}, confidence)
	return res, &entry
}
