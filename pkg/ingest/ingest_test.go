package ingest

import (
	"testing"
	"time"
)

func TestIngestFileProducesOneCanonicalRecordPerRISEntry(t *testing.T) {
	raw := []byte("TY  - JOUR\nAU  - Smith, John\nTI  - A Study\nPY  - 2020\nDO  - 10.1/x\nER  - \n")
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	mtime := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	res := IngestFile("refs.ris", raw, mtime, now)

	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Format != "ris" {
		t.Fatalf("format = %q, want ris", res.Format)
	}
	if res.RecordsExtracted != 1 {
		t.Fatalf("records_extracted = %d, want 1", res.RecordsExtracted)
	}

	rec := res.Records[0]
	if rec.SchemaVersion != SchemaVersion {
		t.Errorf("schema_version = %q", rec.SchemaVersion)
	}
	if rec.RID == "" {
		t.Error("rid is empty")
	}
	if rec.SourceDigest == "" || rec.RecordDigest == "" {
		t.Error("digests are empty")
	}
	if rec.Meta.SourceFormat != "ris" || rec.Meta.SourceFile != "refs.ris" {
		t.Errorf("meta = %+v", rec.Meta)
	}
	if len(rec.Raw.Tags) == 0 {
		t.Error("no tags attributed")
	}
}

func TestIngestFileSameBytesProduceSameRID(t *testing.T) {
	raw := []byte("TY  - JOUR\nTI  - A Study\nER  - \n")
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	mtime := now

	first := IngestFile("a.ris", raw, mtime, now)
	second := IngestFile("a.ris", raw, mtime, now)

	if first.Records[0].RID != second.Records[0].RID {
		t.Errorf("rid not deterministic: %q vs %q", first.Records[0].RID, second.Records[0].RID)
	}
}

func TestIngestFileUnknownFormatReportsIngestionError(t *testing.T) {
	raw := []byte("this is not a reference file\n")
	now := time.Now()
	res := IngestFile("notes.dat", raw, now, now)

	if res.Err == nil {
		t.Fatal("expected an error for an unsniffable format")
	}
	var ierr *IngestionError
	if !asIngestionError(res.Err, &ierr) {
		t.Errorf("error is not *IngestionError: %v", res.Err)
	}
}

func asIngestionError(err error, target **IngestionError) bool {
	if ie, ok := err.(*IngestionError); ok {
		*target = ie
		return true
	}
	return false
}
