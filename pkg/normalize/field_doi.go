package normalize

import (
	"net/url"
	"strings"

	"github.com/srdedupe/srdedupe/pkg/model"
)

type doiResult struct {
	raw  *string
	norm *string
	url  *string
}

func isDOICandidate(sourceFormat string) func(string) bool {
	return func(value string) bool {
		if sourceFormat == "nbib" || sourceFormat == "pubmed" {
			lower := strings.ToLower(value)
			return strings.Contains(lower, "[doi]") || strings.HasPrefix(value, "10.")
		}
		return true
	}
}

func normalizeDOIString(doi string) (string, []model.Transform) {
	var transforms []model.Transform
	s := doi
	if stripped := doiSuffixRE.ReplaceAllString(s, ""); stripped != s {
		s = stripped
		transforms = append(transforms, addTransform("strip_doi_suffix", ""))
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if u, err := url.Parse(s); err == nil {
			s = strings.TrimPrefix(u.Path, "/")
			transforms = append(transforms, addTransform("extract_from_url", ""))
		}
	}
	for _, prefix := range []string{"doi:", "DOI:", "doi.org/", "dx.doi.org/"} {
		if strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix)) {
			s = s[len(prefix):]
			transforms = append(transforms, addTransform("strip_prefix", prefix))
			break
		}
	}
	if strings.Contains(s, "%") {
		if decoded, err := url.QueryUnescape(s); err == nil {
			s = decoded
			transforms = append(transforms, addTransform("url_decode", ""))
		}
	}
	trimmed := strings.TrimRight(s, ".,;")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed != s {
		transforms = append(transforms, addTransform("trim_punct", ""))
	}
	s = trimmed
	s = caseFolder.String(s)
	transforms = append(transforms, addTransform("casefold", ""))
	return s, transforms
}

// normalizeDOI finds a DOI tag (or a DOI embedded in a URL tag) and
// normalizes it. Returns the result plus a provenance entry when a DOI was
// found.
func normalizeDOI(rawTags []RawTagView, sourceFormat string) (doiResult, *model.ProvenanceEntry) {
	doiTags := getTags(sourceFormat, "doi")
	rt, ok := findTagValue(rawTags, doiTags, isDOICandidate(sourceFormat))
	if !ok {
		urlTags := getTags(sourceFormat, "doi_url")
		rt, ok = findTagValue(rawTags, urlTags, func(v string) bool { return doiURLRE.MatchString(v) })
	}
	if !ok {
		return doiResult{}, nil
	}
	raw := rt.Value
	normStr, transforms := normalizeDOIString(raw)
	if !strings.HasPrefix(normStr, "10.") {
		return doiResult{raw: &raw}, nil
	}
	doiURL := "https://doi.org/" + normStr
	confidence := "medium"
	for i, t := range doiTags {
		if i >= 2 {
			break
		}
		if t == rt.Tag {
			confidence = "high"
		}
	}
	entry := buildProvenanceEntry(rawTags, []int{rt.Index}, sourceFormat, transforms, confidence)
	return doiResult{raw: &raw, norm: &normStr, url: &doiURL}, &entry
}
