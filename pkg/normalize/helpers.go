// Package normalize implements the pure CanonicalRecord -> CanonicalRecord
// transform described in SPEC_FULL.md §4.2: it reads raw tags and the
// source format, and populates canon, keys, flags, and provenance. Ported
// field-by-field from the Python reference's normalize/_fields/* modules
// (see DESIGN.md), using golang.org/x/text for the Unicode work the
// standard library does not provide (NFKC, case folding).
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	doiSuffixRE   = regexp.MustCompile(`(?i)\s*\[doi\]\s*$`)
	doiURLRE      = regexp.MustCompile(`(?i)(?:doi\.org|dx\.doi\.org)/([^\s?#]+)`)
	yearRE        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	elocatorRE    = regexp.MustCompile(`(?i)^e\d+`)
	pageRangeRE   = regexp.MustCompile(`(\d+)\s*[-\x{2013}\x{2014}]\s*(\d+)`)
	dashNormRE    = regexp.MustCompile(`\s*[\x{2013}\x{2014}]\s*`)
	punctRE       = regexp.MustCompile(`[.,:;!?'"()\[\]{}]+`)
	suffixRE      = regexp.MustCompile(`(?i)^(Jr\.?|Sr\.?|II|III|IV|V)$`)
	initialsRE    = regexp.MustCompile(`^[A-Z]\.?(\s*[A-Z]\.?)*$`)
	pmidAidRE     = regexp.MustCompile(`(?i)(\d+)\s*\[pmid\]`)
	pmcidAidRE    = regexp.MustCompile(`(?i)(PMC\d+)\s*\[pmc\]`)
	erratumTitleRE    = regexp.MustCompile(`(?i)\b(erratum|corrigendum|correction|errata|addendum)\b`)
	retractionTitleRE = regexp.MustCompile(`(?i)\b(retraction|retracted|withdrawal)\b`)
)

var (
	erratumPubTypes = map[string]bool{
		"erratum": true, "published erratum": true, "correction": true,
		"corrigendum": true, "addendum": true,
	}
	retractionPubTypes = map[string]bool{
		"retraction of publication": true, "retraction": true,
		"retracted publication": true, "withdrawal": true,
	}
	correctedRepublishedPubTypes = map[string]bool{
		"corrected and republished article": true, "corrected and republished": true,
	}
)

const normalizationVersion = "1.0.0"

var caseFolder = cases.Fold()

// stripAccents removes Unicode combining marks (NFD decompose, drop Mn,
// NFC recompose) — the Go equivalent of Python's unicodedata category
// filter.
func stripAccents(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeTextForMatching: NFKC, casefold, strip accents, remove cosmetic
// punctuation, collapse whitespace, trim. Used for titles.
func normalizeTextForMatching(s string) string {
	t := norm.NFKC.String(s)
	t = caseFolder.String(t)
	t = stripAccents(t)
	t = punctRE.ReplaceAllString(t, " ")
	t = collapseWhitespace(t)
	return strings.TrimSpace(t)
}

// normalizeTextLight: NFKC, casefold, collapse whitespace, trim. No accent
// strip, no punctuation removal — used for abstracts.
func normalizeTextLight(s string) string {
	t := norm.NFKC.String(s)
	t = caseFolder.String(t)
	t = collapseWhitespace(t)
	return strings.TrimSpace(t)
}

var _ = language.Und // keep golang.org/x/text/language linked for cases.Fold's table dependency

// RawTagView is the minimal view of a source tag the normalizer needs.
type RawTagView struct {
	Tag   string
	Value string
	Index int // position in document order
}

// findTagValue walks tagNames in priority order, and within each name walks
// rawTags in document order; the first value for which predicate (if non
// nil) returns true wins. Returns the tag and its index, or ok=false.
func findTagValue(rawTags []RawTagView, tagNames []string, predicate func(value string) bool) (RawTagView, bool) {
	for _, name := range tagNames {
		for _, rt := range rawTags {
			if rt.Tag != name {
				continue
			}
			if predicate != nil && !predicate(rt.Value) {
				continue
			}
			return rt, true
		}
	}
	return RawTagView{}, false
}

// findAllTagValues collects every tag whose name is in tagNames, in
// document order (not tagNames priority order).
func findAllTagValues(rawTags []RawTagView, tagNames []string, predicate func(value string) bool) []RawTagView {
	set := map[string]bool{}
	for _, n := range tagNames {
		set[n] = true
	}
	var out []RawTagView
	for _, rt := range rawTags {
		if !set[rt.Tag] {
			continue
		}
		if predicate != nil && !predicate(rt.Value) {
			continue
		}
		out = append(out, rt)
	}
	return out
}
