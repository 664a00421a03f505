package normalize

// tagMappings maps source_format -> field -> ordered (priority) list of tag
// names. Recovered verbatim from the Python reference's
// normalize/tag_mappings.py.
var tagMappings = map[string]map[string][]string{
	"ris": {
		"doi": {"DO", "DI", "M3"}, "doi_url": {"UR", "L1", "L2", "L3", "L4"},
		"pmid": {"PM"}, "pmcid": {"PMC"},
		"title": {"TI", "T1"}, "author": {"AU", "A1"},
		"year": {"PY", "Y1", "DA"},
		"journal_full": {"JF", "JO", "T2"}, "journal_abbrev": {"JA", "J1", "J2"},
		"volume": {"VL"}, "issue": {"IS"},
		"pages_start": {"SP"}, "pages_end": {"EP"},
		"abstract": {"AB", "N2"}, "language": {"LA"}, "publication_type": {"TY"},
	},
	"nbib": {
		"doi": {"AID", "LID"}, "doi_url": {"UR"},
		"pmid": {"PMID"}, "pmid_aid": {"AID", "LID"},
		"pmcid": {"PMC"}, "pmcid_aid": {"AID", "LID"},
		"title": {"TI"}, "author": {"AU", "FAU"},
		"year": {"DP", "DEP", "DA"},
		"journal_full": {"JT"}, "journal_abbrev": {"TA"},
		"volume": {"VI"}, "issue": {"IP"}, "pages": {"PG"},
		"abstract": {"AB"}, "language": {"LA"}, "publication_type": {"PT"},
	},
	"wos": {
		"doi": {"DI", "D2"}, "doi_url": {},
		"pmid": {"PM"}, "pmcid": {},
		"title": {"TI"}, "author": {"AU", "AF"},
		"year": {"PY"},
		"journal_full": {"SO"}, "journal_abbrev": {"J9", "JI"},
		"volume": {"VL"}, "issue": {"IS"},
		"pages_start": {"BP"}, "pages_end": {"EP"},
		"abstract": {"AB"}, "language": {"LA"}, "publication_type": {"DT", "PT"},
	},
	"bibtex": {
		"doi": {"doi"}, "doi_url": {"url"},
		"pmid": {}, "pmcid": {},
		"title": {"title"}, "author": {"author"},
		"year": {"year"},
		"journal_full": {"journal"}, "journal_abbrev": {"journaltitle", "shortjournal"},
		"volume": {"volume"}, "issue": {"number"}, "pages": {"pages"},
		"abstract": {"abstract"}, "language": {"language"},
		"publication_type": {"__bibtex_entrytype"},
	},
	"endnote_tagged": {
		"doi": {"R"}, "doi_url": {"U"},
		"pmid": {"M"}, "pmcid": {},
		"title": {"T"}, "author": {"A"},
		"year": {"D"},
		"journal_full": {"J", "B"}, "journal_abbrev": {},
		"volume": {"V"}, "issue": {"N"}, "pages": {"P"},
		"abstract": {"X"}, "language": {"G"}, "publication_type": {"0"},
	},
}

func init() {
	tagMappings["pubmed"] = tagMappings["nbib"]
}

// givenFamilyFormats are formats whose no-comma author values are
// "Given Family" (family is the LAST token).
var givenFamilyFormats = map[string]bool{"bibtex": true, "wos": true, "endnote_tagged": true}

// andSeparatedFormats are formats that may join multiple authors with
// " and " inside a single tag value.
var andSeparatedFormats = map[string]bool{"bibtex": true}

// nbibLikeFormats get the AID/LID PMID/PMCID fallback search.
var nbibLikeFormats = map[string]bool{"nbib": true, "pubmed": true}

func getTags(sourceFormat, field string) []string {
	fields, ok := tagMappings[sourceFormat]
	if !ok {
		return nil
	}
	return fields[field]
}
