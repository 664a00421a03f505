// Package ingest takes the bytes of bibliographic reference files, sniffs
// their format, and extracts raw tags into CanonicalRecords ready for
// pkg/normalize. The caller reads the files and supplies their bytes,
// modification times and the ingestion time; this package reads neither
// the filesystem nor the clock.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/srdedupe/srdedupe/pkg/idgen"
	"github.com/srdedupe/srdedupe/pkg/model"
)

// SchemaVersion is stamped onto every CanonicalRecord this package emits.
const SchemaVersion = "1.0.0"

// parsedRecord is the format-agnostic shape every per-format parser
// produces: the record's own source lines (for raw.lines), its attributed
// tags, and any line it could not attribute to a tag.
type parsedRecord struct {
	Lines        []string
	Tags         []model.RawTag
	Unattributed []string
}

// parseFunc extracts zero or more records from a decoded, LF-normalized
// file body.
type parseFunc func(body string) []parsedRecord

var parsers = map[string]parseFunc{
	"ris":            parseRIS,
	"nbib":           parseNBIB,
	"pubmed":         parseNBIB,
	"bibtex":         parseBibTeX,
	"wos":            parseWOS,
	"endnote_tagged": parseEndNoteTagged,
}

// FileResult is one source file's ingestion outcome: the records it
// produced (possibly fewer than attempted, on a ParseError) plus enough
// metadata for reports/ingestion_report.json.
type FileResult struct {
	Path            string
	Format          string
	SHA256          string
	Bytes           int
	RecordsExtracted int
	Warnings        []string
	Err             error
	Records         []model.CanonicalRecord
}

// IngestFile takes the contents of the file at path (rawBytes, read by the
// caller), sniffs its format, decodes it (§6: UTF-8 with BOM strip, Latin-1
// fallback, LF-normalized line endings), parses it into raw tag records,
// and assigns each one its digests and rid. now is injected so callers
// control the ingested_at timestamp.
func IngestFile(path string, rawBytes []byte, mtime time.Time, now time.Time) FileResult {
	res := FileResult{Path: path, Bytes: len(rawBytes), SHA256: idgen.SourceDigest(rawBytes)}

	body, err := Decode(rawBytes)
	if err != nil {
		res.Err = &IngestionError{Path: path, Reason: fmt.Sprintf("decoding: %v", err)}
		return res
	}

	format := SniffFormat(body, path)
	res.Format = format

	parse, ok := parsers[format]
	if !ok {
		res.Err = &IngestionError{Path: path, Reason: fmt.Sprintf("unsniffable or unsupported format %q", format)}
		return res
	}

	parsedRecords := parse(body)
	records := make([]model.CanonicalRecord, 0, len(parsedRecords))
	for i, pr := range parsedRecords {
		rec, warn, err := buildRecord(path, format, i, pr, rawBytes, mtime, now)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		if warn != "" {
			res.Warnings = append(res.Warnings, warn)
		}
		records = append(records, rec)
	}
	res.Records = records
	res.RecordsExtracted = len(records)
	return res
}

func buildRecord(path, format string, index int, pr parsedRecord, rawBytes []byte, mtime, now time.Time) (model.CanonicalRecord, string, error) {
	tagsForDigest := make([]idgen.TagForDigest, 0, len(pr.Tags))
	for _, t := range pr.Tags {
		tagsForDigest = append(tagsForDigest, idgen.TagForDigest{Tag: t.Tag, Value: t.ValueRawJoined})
	}
	recordDigest, err := idgen.RecordDigest(tagsForDigest, format)
	if err != nil {
		return model.CanonicalRecord{}, "", fmt.Errorf("record_digest: %w", err)
	}
	sourceDigest := idgen.SourceDigest(rawBytes)
	rid := idgen.RID(sourceDigest, recordDigest)

	var warn string
	if len(pr.Tags) == 0 {
		warn = fmt.Sprintf("record %d: no tags extracted", index)
	}

	return model.CanonicalRecord{
		SchemaVersion: SchemaVersion,
		RID:           rid,
		RecordDigest:  recordDigest,
		SourceDigest:  sourceDigest,
		Meta: model.Meta{
			SourceFile:    path,
			SourceFormat:  format,
			RecordIndex:   index,
			IngestedAt:    now.UTC().Format("2006-01-02T15:04:05.000000Z"),
			FileMtime:     mtime.UTC().Format("2006-01-02T15:04:05.000000Z"),
			FileSizeBytes: int64(len(rawBytes)),
		},
		Raw: model.Raw{
			Lines:             pr.Lines,
			Tags:              pr.Tags,
			UnattributedLines: pr.Unattributed,
		},
		Provenance: map[string]model.ProvenanceEntry{},
	}, warn, nil
}

// extOf lowercases a path's file extension, without the leading dot.
func extOf(path string) string {
	ext := filepath.Ext(path)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
