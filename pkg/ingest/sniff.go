package ingest

import (
	"regexp"
	"strings"
)

// sniffWindowLines is the number of leading lines inspected when sniffing
// format, per SPEC_FULL.md §6.
const sniffWindowLines = 100

var (
	bibtexEntryRe = regexp.MustCompile(`(?m)^\s*@[A-Za-z]+\s*\{`)
	wosHeaderRe   = regexp.MustCompile(`(?m)^(FN Clarivate Analytics Web of Science|VR 1\.0|PT [JBS])\s*$`)
	risTagRe      = regexp.MustCompile(`(?m)^TY {2}-\s`)
	pubmedTagRe   = regexp.MustCompile(`(?m)^PMID-\s*\d`)
	endnoteTagRe  = regexp.MustCompile(`(?m)^%[0AT]\s`)
)

// extensionFormats is the file-extension fallback mapping from §6, used
// only when the content window does not sniff cleanly.
var extensionFormats = map[string]string{
	"ris":  "ris",
	"nbib": "pubmed",
	"txt":  "pubmed",
	"bib":  "bibtex",
	"ciw":  "wos",
	"enw":  "endnote_tagged",
}

// SniffFormat detects a file's reference format from its leading window of
// lines, in priority order BibTeX -> WoS -> RIS -> PubMed -> EndNote,
// falling back to path's file extension.
func SniffFormat(body string, path string) string {
	window := firstLines(body, sniffWindowLines)

	switch {
	case bibtexEntryRe.MatchString(window):
		return "bibtex"
	case wosHeaderRe.MatchString(window):
		return "wos"
	case risTagRe.MatchString(window):
		return "ris"
	case pubmedTagRe.MatchString(window):
		return "pubmed"
	case endnoteTagRe.MatchString(window):
		return "endnote_tagged"
	}

	if format, ok := extensionFormats[extOf(path)]; ok {
		return format
	}
	return "unknown"
}

func firstLines(body string, n int) string {
	lines := strings.SplitN(body, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
