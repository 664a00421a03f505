// Command srdedupe runs the deterministic bibliographic-reference
// deduplication pipeline described in SPEC_FULL.md: ingest one or more
// reference files, score and cluster candidate duplicates, and emit the
// merged, singleton, and review-pending RIS exports plus their JSON-Lines
// and report artifacts.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/srdedupe/srdedupe/pkg/decision"
	"github.com/srdedupe/srdedupe/pkg/decision/calibstore"
	"github.com/srdedupe/srdedupe/pkg/ingest"
	"github.com/srdedupe/srdedupe/pkg/model"
	"github.com/srdedupe/srdedupe/pkg/pipeline"
	"github.com/srdedupe/srdedupe/pkg/pipelineconfig"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the testable entrypoint: args includes the program name at
// index 0, matching the teacher's cmd/helm dispatch convention. Exit
// codes follow SPEC_FULL.md §6: 0 success, 1 stage failure, 2
// configuration/usage error.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}

	switch args[1] {
	case "run":
		return runRunCmd(args[2:], stdout, stderr)
	case "doctor":
		return runDoctorCmd(args[2:], stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, ingest.SchemaVersion)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "srdedupe - deterministic bibliographic reference deduplication")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  srdedupe run --calib-db <path> [--config <path>] <input-file>...")
	fmt.Fprintln(w, "  srdedupe doctor <stage1/canonical_records.jsonl>...")
	fmt.Fprintln(w, "  srdedupe version")
}

func runRunCmd(args []string, stdout, stderr io.Writer) int {
	logger := slog.New(slog.NewJSONHandler(stderr, nil))

	// The YAML base must be loaded before the flag.FlagSet is built, since
	// BindFlags uses the config's current field values as flag defaults —
	// the "YAML base, CLI layered on top" ordering of SPEC_FULL.md §10.2.
	configPath := scanFlagValue(args, "config")
	cfg := pipelineconfig.Default()
	if configPath != "" {
		loaded, err := pipelineconfig.Load(configPath)
		if err != nil {
			logger.Error("loading config", "path", configPath, "error", err)
			return 2
		}
		cfg = loaded
	}

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var configFlag, calibDBPath string
	fs.StringVar(&configFlag, "config", configPath, "path to a YAML config overlay")
	fs.StringVar(&calibDBPath, "calib-db", "", "path to the calibration-labels sqlite database (required)")
	pipelineconfig.BindFlags(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	inputPaths := fs.Args()
	if len(inputPaths) == 0 {
		fmt.Fprintln(stderr, "error: at least one input file is required")
		return 2
	}
	if calibDBPath == "" {
		fmt.Fprintln(stderr, "error: --calib-db is required")
		return 2
	}

	ctx := context.Background()

	store, err := calibstore.Open(ctx, calibDBPath)
	if err != nil {
		logger.Error("opening calibration store", "error", err)
		return 1
	}
	defer store.Close()

	labeled, err := store.LoadAll(ctx)
	if err != nil {
		logger.Error("loading calibration labels", "error", err)
		return 1
	}
	calibPairs := make([]decision.LabeledPair, 0, len(labeled))
	for _, l := range labeled {
		calibPairs = append(calibPairs, decision.LabeledPair{PMatch: l.PMatch, IsMatch: l.IsMatch})
	}

	tel, err := pipeline.NewTelemetry("srdedupe")
	if err != nil {
		logger.Error("starting telemetry", "error", err)
		return 1
	}
	defer tel.Shutdown(ctx)

	run, err := pipeline.NewRun(cfg, calibPairs, tel)
	if err != nil {
		logger.Error("constructing pipeline run", "error", err)
		if isUsageError(err) {
			return 2
		}
		return 1
	}

	now := time.Now()
	var rawRecords []model.CanonicalRecord
	var fileResults []ingest.FileResult
	for _, path := range inputPaths {
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("reading input file", "path", path, "error", err)
			fileResults = append(fileResults, ingest.FileResult{Path: path, Err: &ingest.IngestionError{Path: path, Reason: err.Error()}})
			continue
		}
		mtime := now
		if info, statErr := os.Stat(path); statErr == nil {
			mtime = info.ModTime()
		}
		fr := ingest.IngestFile(path, raw, mtime, now)
		fileResults = append(fileResults, fr)
		rawRecords = append(rawRecords, fr.Records...)
	}

	report := ingest.BuildReport(fileResults)
	if err := ingest.WriteReportJSON(cfg.OutputDir, report); err != nil {
		logger.Error("writing ingestion report", "error", err)
		return 1
	}
	logger.Info("ingestion complete", "files", len(inputPaths), "records", report.TotalRecordsExtracted)

	result, err := run.Execute(ctx, rawRecords)
	if err != nil {
		logger.Error("pipeline execution failed", "error", err)
		return 1
	}

	if err := pipeline.WriteArtifacts(cfg.OutputDir, result); err != nil {
		logger.Error("writing artifacts", "error", err)
		return 1
	}

	recordsByRID := make(map[string]*model.CanonicalRecord, len(result.CanonicalRecords))
	for i := range result.CanonicalRecords {
		recordsByRID[result.CanonicalRecords[i].RID] = &result.CanonicalRecords[i]
	}
	singletonRIDs := pipeline.SingletonsFrom(result.CanonicalRecords, result.PairDecisions, result.Clusters)
	if err := pipeline.WriteSingletonsAndReview(cfg.OutputDir, result.Clusters, singletonRIDs, recordsByRID); err != nil {
		logger.Error("writing singleton/review exports", "error", err)
		return 1
	}

	logger.Info("pipeline run complete",
		"total_records", result.Summary.TotalRecords,
		"dedup_rate", result.Summary.DedupRate,
	)
	fmt.Fprintf(stdout, "dedup_rate=%.4f total_records=%d total_unique=%d\n",
		result.Summary.DedupRate, result.Summary.TotalRecords, result.Summary.TotalUniqueRecords)
	return 0
}

func runDoctorCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: srdedupe doctor <canonical_records.jsonl path>...")
		return 2
	}

	var versions []string
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "reading %s: %v\n", path, err)
			return 1
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			var rec struct {
				SchemaVersion string `json:"schema_version"`
			}
			if err := json.Unmarshal([]byte(line), &rec); err != nil {
				fmt.Fprintf(stderr, "parsing %s: %v\n", path, err)
				return 1
			}
			versions = append(versions, rec.SchemaVersion)
		}
	}

	report := pipeline.CheckSchemaVersions(versions)
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(stderr, "encoding report: %v\n", err)
		return 1
	}

	if len(report.Incompatible) > 0 {
		return 1
	}
	return 0
}

// isUsageError reports whether err is a configuration or calibration
// problem, the two kinds that are fatal before the pipeline starts and
// map to exit code 2 rather than 1.
func isUsageError(err error) bool {
	var cfgErr *pipelineconfig.ConfigurationError
	var calErr *pipeline.CalibrationError
	return errors.As(err, &cfgErr) || errors.As(err, &calErr)
}

// scanFlagValue pre-scans args for -name/--name (space or "=" form) so a
// YAML config path can be resolved before the full flag.FlagSet (whose
// flags need the loaded config as their defaults) is constructed.
func scanFlagValue(args []string, name string) string {
	short, long := "-"+name, "--"+name
	for i, a := range args {
		switch {
		case a == short || a == long:
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, short+"="):
			return strings.TrimPrefix(a, short+"=")
		case strings.HasPrefix(a, long+"="):
			return strings.TrimPrefix(a, long+"=")
		}
	}
	return ""
}
