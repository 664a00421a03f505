package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srdedupe/srdedupe/pkg/decision/calibstore"
)

const risFixture = `TY  - JOUR
AU  - Smith, John
TI  - A Study of Things
PY  - 2019
DO  - 10.1/x
ER  -

TY  - JOUR
AU  - Smith, John
TI  - A Totally Different Title
PY  - 2020
DO  - 10.1/x
ER  -

TY  - JOUR
AU  - Jones, Alice
TI  - An Unrelated Paper
PY  - 2018
DO  - 10.1/y
ER  -
`

func seedCalibrationDB(t *testing.T, path string) {
	t.Helper()
	store, err := calibstore.Open(context.Background(), path)
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Upsert(context.Background(), calibstore.LabeledPair{
			PairID: "neg" + string(rune('a'+i)), PMatch: 0.01 + float64(i)*0.01, IsMatch: false,
		}))
		require.NoError(t, store.Upsert(context.Background(), calibstore.LabeledPair{
			PairID: "pos" + string(rune('a'+i)), PMatch: 0.9 + float64(i)*0.01, IsMatch: true,
		}))
	}
}

func TestRunCmdEndToEndProducesArtifacts(t *testing.T) {
	dir := t.TempDir()
	risPath := filepath.Join(dir, "refs.ris")
	require.NoError(t, os.WriteFile(risPath, []byte(risFixture), 0o644))

	calibPath := filepath.Join(dir, "calib.sqlite")
	seedCalibrationDB(t, calibPath)

	outDir := filepath.Join(dir, "out")
	configPath := filepath.Join(dir, "srdedupe.yaml")
	configYAML := "fs_model_path: ../../models/fs_v1.json\n" +
		"fs_schema_path: ../../models/fs_schema.json\n" +
		"output_dir: " + outDir + "\n" +
		"fpr_alpha: 0.2\n"
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o644))

	var stdout, stderr bytes.Buffer
	code := Run([]string{"srdedupe", "run",
		"--calib-db", calibPath,
		"--config", configPath,
		risPath,
	}, &stdout, &stderr)

	require.Equalf(t, 0, code, "stderr: %s", stderr.String())

	for _, rel := range []string{
		"stage1/canonical_records.jsonl",
		"artifacts/merged_records.jsonl",
		"artifacts/deduped_auto.ris",
		"artifacts/singletons.ris",
		"reports/merge_summary.json",
		"reports/ingestion_report.json",
	} {
		_, err := os.Stat(filepath.Join(outDir, rel))
		assert.NoErrorf(t, err, "expected %s to exist", rel)
	}
}

func TestRunCmdRejectsMissingCalibDB(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"srdedupe", "run", "somefile.ris"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
}

func TestRunCmdRejectsNoInputFiles(t *testing.T) {
	dir := t.TempDir()
	calibPath := filepath.Join(dir, "calib.sqlite")
	seedCalibrationDB(t, calibPath)

	var stdout, stderr bytes.Buffer
	code := Run([]string{"srdedupe", "run", "--calib-db", calibPath}, &stdout, &stderr)
	assert.Equal(t, 2, code)
}

func TestHelpCommandPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"srdedupe", "help"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "srdedupe run")
}

func TestUnknownCommandReturnsExitCode2(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"srdedupe", "frobnicate"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
}

func TestDoctorCommandAcceptsSupportedSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "canonical_records.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version":"1.0.0"}`+"\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := Run([]string{"srdedupe", "doctor", path}, &stdout, &stderr)
	assert.Equalf(t, 0, code, "stderr: %s", stderr.String())
}

func TestDoctorCommandFlagsIncompatibleSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "canonical_records.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version":"2.0.0"}`+"\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := Run([]string{"srdedupe", "doctor", path}, &stdout, &stderr)
	assert.Equal(t, 1, code)
}
