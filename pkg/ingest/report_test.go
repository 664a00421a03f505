package ingest

import "testing"

func TestBuildReportSortsFilesAndSumsRecords(t *testing.T) {
	results := []FileResult{
		{Path: "z.ris", Format: "ris", Bytes: 10, SHA256: "sha256:aa", RecordsExtracted: 2},
		{Path: "a.bib", Format: "bibtex", Bytes: 20, SHA256: "sha256:bb", RecordsExtracted: 3},
	}

	report := BuildReport(results)

	if len(report.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(report.Files))
	}
	if report.Files[0].Path != "a.bib" || report.Files[1].Path != "z.ris" {
		t.Errorf("files not sorted by path: %+v", report.Files)
	}
	if report.TotalRecordsExtracted != 5 {
		t.Errorf("total_records_extracted = %d, want 5", report.TotalRecordsExtracted)
	}
}

func TestBuildReportCarriesFileError(t *testing.T) {
	results := []FileResult{
		{Path: "bad.dat", Err: &IngestionError{Path: "bad.dat", Reason: "unsniffable"}},
	}
	report := BuildReport(results)
	if report.Files[0].Error == "" {
		t.Error("expected a non-empty error string")
	}
}
