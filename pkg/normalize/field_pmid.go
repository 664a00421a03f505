package normalize

import (
	"strings"

	"github.com/srdedupe/srdedupe/pkg/model"
)

type pmidResult struct {
	pmidRaw  *string
	pmidNorm *string
	pmcid    *string
}

func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizePMIDPMCID ports normalize/_fields/pmid.py.
func normalizePMIDPMCID(rawTags []RawTagView, sourceFormat string) (pmidResult, map[string]model.ProvenanceEntry) {
	prov := map[string]model.ProvenanceEntry{}
	var res pmidResult

	pmidTags := getTags(sourceFormat, "pmid")
	if rt, ok := findTagValue(rawTags, pmidTags, nil); ok {
		raw := rt.Value
		res.pmidRaw = &raw
		digits := extractDigits(raw)
		if digits != "" {
			res.pmidNorm = &digits
			prov["canon.pmid_norm"] = buildProvenanceEntry(rawTags, []int{rt.Index}, sourceFormat,
				[]model.Transform{addTransform("extract_digits", "")}, "high")
		}
	}
	if res.pmidNorm == nil && nbibLikeFormats[sourceFormat] {
		aidTags := getTags(sourceFormat, "pmid_aid")
		for _, rt := range findAllTagValues(rawTags, aidTags, nil) {
			if m := pmidAidRE.FindStringSubmatch(rt.Value); m != nil {
				digits := m[1]
				res.pmidNorm = &digits
				prov["canon.pmid_norm"] = buildProvenanceEntry(rawTags, []int{rt.Index}, sourceFormat,
					[]model.Transform{addTransform("extract_from_aid", "")}, "medium")
				break
			}
		}
	}

	pmcidTags := getTags(sourceFormat, "pmcid")
	if rt, ok := findTagValue(rawTags, pmcidTags, nil); ok {
		raw := rt.Value
		pmcid := raw
		if !strings.HasPrefix(pmcid, "PMC") {
			pmcid = "PMC" + pmcid
		}
		res.pmcid = &pmcid
		prov["canon.pmcid"] = buildProvenanceEntry(rawTags, []int{rt.Index}, sourceFormat,
			[]model.Transform{addTransform("prepend_pmc", "")}, "high")
	}
	if res.pmcid == nil && nbibLikeFormats[sourceFormat] {
		aidTags := getTags(sourceFormat, "pmcid_aid")
		for _, rt := range findAllTagValues(rawTags, aidTags, nil) {
			if m := pmcidAidRE.FindStringSubmatch(rt.Value); m != nil {
				pmcid := strings.ToUpper(m[1])
				res.pmcid = &pmcid
				prov["canon.pmcid"] = buildProvenanceEntry(rawTags, []int{rt.Index}, sourceFormat,
					[]model.Transform{addTransform("extract_from_aid", "")}, "medium")
				break
			}
		}
	}
	return res, prov
}
