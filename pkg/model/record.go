// Package model defines the data structures that flow between pipeline
// stages. Every type here is treated as immutable once produced by its
// owning stage; stages communicate exclusively by value or by writing and
// re-reading the JSON-Lines artifacts described in SPEC_FULL.md.
package model

// RawTag is one attributed tag occurrence recovered from a source file.
type RawTag struct {
	Tag             string `json:"tag"`
	ValueRawJoined  string `json:"value_raw_joined"`
	OccurrenceIndex int    `json:"occurrence_index"`
	LineStart       int    `json:"line_start"`
	LineEnd         int    `json:"line_end"`
}

// Meta captures where a record came from.
type Meta struct {
	SourceFile      string `json:"source_file"`
	SourceFormat    string `json:"source_format"`
	RecordIndex     int    `json:"record_index"`
	IngestedAt      string `json:"ingested_at"`
	FileMtime       string `json:"file_mtime,omitempty"`
	FileSizeBytes   int64  `json:"file_size_bytes"`
}

// Raw is the lossless capture of the source record.
type Raw struct {
	Lines          []string `json:"lines"`
	Tags           []RawTag `json:"tags"`
	UnattributedLines []string `json:"unattributed_lines,omitempty"`
}

// Canon holds every normalized field. All fields are nullable (pointer or
// zero-value-as-absent) since any tag may be missing from a given source.
type Canon struct {
	DOINorm   *string `json:"doi_norm,omitempty"`
	DOIURL    *string `json:"doi_url,omitempty"`
	PMIDNorm  *string `json:"pmid_norm,omitempty"`
	PMCID     *string `json:"pmcid,omitempty"`

	TitleRaw        *string `json:"title_raw,omitempty"`
	TitleNormBasic  *string `json:"title_norm_basic,omitempty"`

	AuthorsRaw    []string      `json:"authors_raw,omitempty"`
	AuthorsParsed []Author      `json:"authors_parsed,omitempty"`
	FirstAuthorSig *string      `json:"first_author_sig,omitempty"`
	AuthorSigStrict []string    `json:"author_sig_strict,omitempty"`
	AuthorSigLoose  []string    `json:"author_sig_loose,omitempty"`

	YearNorm   *int    `json:"year_norm,omitempty"`
	YearSource *string `json:"year_source,omitempty"`

	JournalFull  *string `json:"journal_full,omitempty"`
	JournalAbbrev *string `json:"journal_abbrev,omitempty"`
	JournalNorm  *string `json:"journal_norm,omitempty"`

	PagesRaw      *string `json:"pages_raw,omitempty"`
	PagesNormLong *string `json:"pages_norm_long,omitempty"`
	PageFirst     *string `json:"page_first,omitempty"`
	PageLast      *string `json:"page_last,omitempty"`
	ArticleNumber *string `json:"article_number,omitempty"`

	Volume          *string  `json:"volume,omitempty"`
	Issue           *string  `json:"issue,omitempty"`
	AbstractRaw     *string  `json:"abstract_raw,omitempty"`
	AbstractNorm    *string  `json:"abstract_norm,omitempty"`
	Language        interface{} `json:"language,omitempty"` // string or []string after merge
	PublicationType []string `json:"publication_type,omitempty"`
}

// Author is a single parsed author name.
type Author struct {
	Family   string `json:"family,omitempty"`
	Given    string `json:"given,omitempty"`
	Initials string `json:"initials,omitempty"`
	Suffix   string `json:"suffix,omitempty"`
	Raw      string `json:"raw"`
}

// Keys holds derived matching keys built on top of Canon.
type Keys struct {
	TitleKeyStrict     *string  `json:"title_key_strict,omitempty"`
	TitleKeyFuzzy      *string  `json:"title_key_fuzzy,omitempty"`
	TitleShingles      []string `json:"title_shingles,omitempty"`
	TitleYearKey       *string  `json:"title_year_key,omitempty"`
	TitleFirstAuthorKey *string `json:"title_first_author_key,omitempty"`
	TitleJournalKey    *string  `json:"title_journal_key,omitempty"`
	TitleMinhash       []uint64 `json:"title_minhash,omitempty"`
	TitleSimhash       *uint64  `json:"title_simhash,omitempty"`
}

// Flags are booleans that gate downstream behavior.
type Flags struct {
	DOIPresent            bool `json:"doi_present"`
	PMIDPresent           bool `json:"pmid_present"`
	TitleMissing          bool `json:"title_missing"`
	TitleTruncated        bool `json:"title_truncated"`
	AuthorsMissing        bool `json:"authors_missing"`
	AuthorsIncomplete     bool `json:"authors_incomplete"`
	YearMissing           bool `json:"year_missing"`
	PagesUnreliable       bool `json:"pages_unreliable"`
	IsErratum             bool `json:"is_erratum"`
	IsRetraction          bool `json:"is_retraction"`
	IsCorrectedRepublished bool `json:"is_corrected_republished"`
	HasLinkedCitation     bool `json:"has_linked_citation"`
}

// ProvenanceSource points back into Raw.Tags.
type ProvenanceSource struct {
	Path         string `json:"path"`
	Tag          string `json:"tag"`
	ValueSnippet string `json:"value_snippet"`
	SourceFormat string `json:"source_format"`
}

// Transform describes one normalization step applied to a field.
type Transform struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Notes   string `json:"notes,omitempty"`
}

// ProvenanceEntry documents where one canonical field's value came from.
type ProvenanceEntry struct {
	Sources    []ProvenanceSource `json:"sources"`
	Transforms []Transform        `json:"transforms"`
	Confidence string             `json:"confidence"`
}

// CanonicalRecord is the atomic unit flowing between stages 1-6.
type CanonicalRecord struct {
	SchemaVersion string                     `json:"schema_version"`
	RID           string                     `json:"rid"`
	RecordDigest  string                     `json:"record_digest"`
	SourceDigest  string                     `json:"source_digest"`
	Meta          Meta                       `json:"meta"`
	Raw           Raw                        `json:"raw"`
	Canon         Canon                      `json:"canon"`
	Keys          Keys                       `json:"keys"`
	Flags         Flags                      `json:"flags"`
	Provenance    map[string]ProvenanceEntry `json:"provenance"`
}
