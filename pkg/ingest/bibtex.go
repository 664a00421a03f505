package ingest

import (
	"regexp"
	"strings"

	"github.com/srdedupe/srdedupe/pkg/model"
)

var bibtexEntryStartRe = regexp.MustCompile(`@([A-Za-z]+)\s*\{`)

// parseBibTeX extracts "@type{citekey, field = {value}, ...}" entries,
// tracking brace depth so a braced field value may itself contain braces
// or commas. The entry type is recorded under the synthetic tag
// "__bibtex_entrytype" (see pkg/normalize/tag_mappings.go).
func parseBibTeX(body string) []parsedRecord {
	var records []parsedRecord
	i := 0
	for i < len(body) {
		loc := bibtexEntryStartRe.FindStringSubmatchIndex(body[i:])
		if loc == nil {
			break
		}
		entryType := body[i+loc[2] : i+loc[3]]
		braceOpen := i + loc[1] - 1 // index of the opening '{'

		depth := 1
		j := braceOpen + 1
		for j < len(body) && depth > 0 {
			switch body[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			j++
		}
		if depth != 0 {
			// unterminated entry; nothing more to recover from this file
			break
		}

		entryBody := body[braceOpen+1 : j-1]
		entryLines := strings.Split(body[i+loc[0]:j], "\n")
		records = append(records, parseBibTeXEntry(entryType, entryBody, entryLines))
		i = j
	}
	return records
}

func parseBibTeXEntry(entryType, body string, lines []string) parsedRecord {
	pr := parsedRecord{Lines: lines}
	fields := splitDepth0(body, ',')
	if len(fields) == 0 {
		return pr
	}

	occurrence := map[string]int{}
	occurrence["__bibtex_entrytype"]++
	pr.Tags = append(pr.Tags, model.RawTag{
		Tag:             "__bibtex_entrytype",
		ValueRawJoined:  strings.ToLower(strings.TrimSpace(entryType)),
		OccurrenceIndex: 0,
	})

	// fields[0] is the citekey, not a semantic field.
	for _, raw := range fields[1:] {
		part := strings.TrimSpace(raw)
		if part == "" {
			continue
		}
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			pr.Unattributed = append(pr.Unattributed, part)
			continue
		}
		field := strings.ToLower(strings.TrimSpace(part[:eq]))
		value := stripBibTeXDelims(strings.TrimSpace(part[eq+1:]))
		occurrence[field]++
		pr.Tags = append(pr.Tags, model.RawTag{
			Tag:             field,
			ValueRawJoined:  value,
			OccurrenceIndex: occurrence[field] - 1,
		})
	}
	return pr
}

// stripBibTeXDelims removes one layer of {...} or "..." wrapping a field
// value, BibTeX's two quoting conventions.
func stripBibTeXDelims(v string) string {
	if len(v) >= 2 {
		if v[0] == '{' && v[len(v)-1] == '}' {
			return strings.TrimSpace(v[1 : len(v)-1])
		}
		if v[0] == '"' && v[len(v)-1] == '"' {
			return strings.TrimSpace(v[1 : len(v)-1])
		}
	}
	return v
}

// splitDepth0 splits s on sep, ignoring occurrences nested inside {...} or
// "..." so a braced field value may safely contain the separator.
func splitDepth0(s string, sep byte) []string {
	var out []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '"':
			if depth == 0 {
				inQuote = !inQuote
			}
		case sep:
			if depth == 0 && !inQuote {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}
