package normalize

type otherFieldsResult struct {
	volume          *string
	issue           *string
	abstractRaw     *string
	abstractNorm    *string
	language        *string
	publicationType []string
}

// extractOtherFields ports normalize/_fields/other.py. None of these fields
// carry provenance entries in the reference implementation.
func extractOtherFields(rawTags []RawTagView, sourceFormat string) otherFieldsResult {
	var res otherFieldsResult
	if rt, ok := findTagValue(rawTags, getTags(sourceFormat, "volume"), nil); ok {
		res.volume = &rt.Value
	}
	if rt, ok := findTagValue(rawTags, getTags(sourceFormat, "issue"), nil); ok {
		res.issue = &rt.Value
	}
	if rt, ok := findTagValue(rawTags, getTags(sourceFormat, "abstract"), nil); ok {
		res.abstractRaw = &rt.Value
		normed := normalizeTextLight(rt.Value)
		res.abstractNorm = &normed
	}
	if rt, ok := findTagValue(rawTags, getTags(sourceFormat, "language"), nil); ok {
		res.language = &rt.Value
	}
	if all := findAllTagValues(rawTags, getTags(sourceFormat, "publication_type"), nil); len(all) > 0 {
		for _, rt := range all {
			res.publicationType = append(res.publicationType, rt.Value)
		}
	}
	return res
}
