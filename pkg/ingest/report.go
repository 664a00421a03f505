package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/srdedupe/srdedupe/pkg/pipeline"
)

// FileReport is one file's entry in reports/ingestion_report.json, mirroring
// the original implementation's audit.models.FileInfo (path, format, bytes,
// sha256, records_extracted) plus the warnings/errors this build surfaces
// per SPEC_FULL.md §7's IngestionError/ParseError propagation policy.
type FileReport struct {
	Path             string   `json:"path"`
	Format           string   `json:"format"`
	Bytes            int      `json:"bytes"`
	SHA256           string   `json:"sha256"`
	RecordsExtracted int      `json:"records_extracted"`
	Warnings         []string `json:"warnings,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// Report is reports/ingestion_report.json: one entry per input file plus
// the aggregate record count, mirroring the original's InputsInfo.
type Report struct {
	Files                 []FileReport `json:"files"`
	TotalRecordsExtracted int          `json:"total_records_extracted"`
}

// BuildReport turns a batch of FileResults into the sorted, JSON-ready
// Report. Files are sorted by path for determinism.
func BuildReport(results []FileResult) Report {
	files := make([]FileReport, 0, len(results))
	total := 0
	for _, r := range results {
		fr := FileReport{
			Path:             r.Path,
			Format:           r.Format,
			Bytes:            r.Bytes,
			SHA256:           r.SHA256,
			RecordsExtracted: r.RecordsExtracted,
			Warnings:         r.Warnings,
		}
		if r.Err != nil {
			fr.Error = r.Err.Error()
		}
		files = append(files, fr)
		total += r.RecordsExtracted
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return Report{Files: files, TotalRecordsExtracted: total}
}

// WriteReportJSON writes report to path/reports/ingestion_report.json,
// following the teacher's atomic-write-then-rename manifest convention
// (write temp file, fsync, rename) so a crash mid-write never leaves a
// half-written report.
func WriteReportJSON(outputDir string, report Report) error {
	reportsDir := filepath.Join(outputDir, "reports")
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return &pipeline.IOError{Path: reportsDir, Reason: err}
	}

	target := filepath.Join(reportsDir, "ingestion_report.json")
	tmp := target + ".tmp"

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return &pipeline.IOError{Path: target, Reason: err}
	}

	f, err := os.Create(tmp)
	if err != nil {
		return &pipeline.IOError{Path: target, Reason: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return &pipeline.IOError{Path: target, Reason: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &pipeline.IOError{Path: target, Reason: err}
	}
	if err := f.Close(); err != nil {
		return &pipeline.IOError{Path: target, Reason: err}
	}
	if err := os.Rename(tmp, target); err != nil {
		return &pipeline.IOError{Path: target, Reason: err}
	}
	return nil
}
