package normalize

import (
	"sort"
	"strings"

	"github.com/srdedupe/srdedupe/pkg/model"
)

type authorsResult struct {
	raw           []string
	parsed        []model.Author
	firstSig      *string
	sigStrict     []string
	sigLoose      []string
}

func isEtAl(s string) bool {
	return caseFolder.String(strings.TrimSpace(s)) == "et al."
}

func splitAndSeparated(value string) []string {
	parts := strings.Split(value, " and ")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || isEtAl(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// parseAuthor ports normalize/_fields/authors.py::_parse_author.
func parseAuthor(authorStr, sourceFormat string) model.Author {
	a := model.Author{Raw: authorStr}
	if idx := strings.Index(authorStr, ","); idx >= 0 {
		family := strings.TrimSpace(authorStr[:idx])
		rest := strings.TrimSpace(authorStr[idx+1:])
		// Detect a trailing suffix token on the family side ("Smith Jr", ...)
		familyParts := strings.Fields(family)
		if len(familyParts) > 1 && suffixRE.MatchString(familyParts[len(familyParts)-1]) {
			a.Suffix = familyParts[len(familyParts)-1]
			family = strings.Join(familyParts[:len(familyParts)-1], " ")
		}
		a.Family = family
		if initialsRE.MatchString(rest) {
			a.Initials = initialsFromString(rest)
		} else {
			a.Given = rest
			a.Initials = initialsFromGiven(rest)
		}
		return a
	}

	words := strings.Fields(authorStr)
	if len(words) <= 1 {
		a.Family = authorStr
		return a
	}
	if givenFamilyFormats[sourceFormat] {
		a.Family = words[len(words)-1]
		a.Given = strings.Join(words[:len(words)-1], " ")
	} else {
		a.Family = words[0]
		a.Given = strings.Join(words[1:], " ")
	}
	a.Initials = initialsFromGiven(a.Given)
	return a
}

func initialsFromString(rest string) string {
	var b strings.Builder
	for _, r := range rest {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func initialsFromGiven(given string) string {
	var b strings.Builder
	for _, w := range strings.Fields(given) {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		b.WriteRune(unicodeToUpper(r[0]))
	}
	return b.String()
}

func unicodeToUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 32
	}
	return r
}

func authorSigForm(a model.Author, looseFirstInitialOnly bool) string {
	family := caseFolder.String(stripAccents(a.Family))
	initials := a.Initials
	if looseFirstInitialOnly && len(initials) > 0 {
		initials = initials[:1]
	}
	return family + "|" + initials
}

// normalizeAuthors ports normalize/_fields/authors.py::normalize_authors.
func normalizeAuthors(rawTags []RawTagView, sourceFormat string) (authorsResult, map[string]model.ProvenanceEntry) {
	prov := map[string]model.ProvenanceEntry{}
	authorTags := getTags(sourceFormat, "author")
	tagViews := findAllTagValues(rawTags, authorTags, nil)

	var rawValues []string
	var indices []int
	for _, rt := range tagViews {
		if isEtAl(rt.Value) {
			continue
		}
		if andSeparatedFormats[sourceFormat] && strings.Contains(rt.Value, " and ") {
			for _, part := range splitAndSeparated(rt.Value) {
				rawValues = append(rawValues, part)
				indices = append(indices, rt.Index)
			}
			continue
		}
		rawValues = append(rawValues, rt.Value)
		indices = append(indices, rt.Index)
	}

	if len(rawValues) == 0 {
		return authorsResult{}, prov
	}

	res := authorsResult{raw: rawValues}
	looseSet := map[string]bool{}
	for i, raw := range rawValues {
		a := parseAuthor(raw, sourceFormat)
		res.parsed = append(res.parsed, a)
		// A signature only exists when both family and initials are
		// non-empty; an author missing either contributes no strict/loose
		// signature and can never become first_author_sig.
		if a.Family == "" || a.Initials == "" {
			continue
		}
		strictForm := authorSigForm(a, false)
		res.sigStrict = append(res.sigStrict, strictForm)
		looseSet[authorSigForm(a, true)] = true
		if i == 0 {
			sig := strictForm
			res.firstSig = &sig
		}
	}
	for k := range looseSet {
		res.sigLoose = append(res.sigLoose, k)
	}
	sort.Strings(res.sigLoose)

	prov["canon.authors_parsed"] = buildProvenanceEntry(rawTags, indices, sourceFormat,
		[]model.Transform{addTransform("parse_authors", "")}, "high")
	if res.firstSig != nil {
		prov["canon.first_author_sig"] = buildProvenanceEntry(rawTags, indices[:1], sourceFormat,
			[]model.Transform{addTransform("first_author_sig", "")}, "high")
	}
	if len(res.sigStrict) > 0 {
		prov["canon.author_sig_strict"] = buildProvenanceEntry(rawTags, indices, sourceFormat,
			[]model.Transform{addTransform("author_sig_strict", "")}, "high")
	}
	if len(res.sigLoose) > 0 {
		prov["canon.author_sig_loose"] = buildProvenanceEntry(rawTags, indices, sourceFormat,
			[]model.Transform{addTransform("author_sig_loose", "")}, "medium")
	}
	return res, prov
}
