package pipelineconfig

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverlaysYAMLOnDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	yamlBody := "fpr_alpha: 0.01\noutput_dir: /tmp/run1\nconformal_enabled: true\nconformal_delta: 0.05\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.01, cfg.FPRAlpha)
	assert.Equal(t, "/tmp/run1", cfg.OutputDir)
	assert.True(t, cfg.ConformalEnabled)
	assert.Equal(t, 0.05, cfg.ConformalDelta)
	// Fields absent from the YAML keep their Default() values.
	assert.Equal(t, "models/fs_v1.json", cfg.FSModelPath)
	assert.NotEmpty(t, cfg.CandidateBlockers)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBindFlagsOverridesDefaults(t *testing.T) {
	cfg := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	BindFlags(fs, &cfg)
	require.NoError(t, fs.Parse([]string{"-fpr-alpha=0.1", "-conformal=true"}))
	assert.Equal(t, 0.1, cfg.FPRAlpha)
	assert.True(t, cfg.ConformalEnabled)
}

func TestValidateRejectsOutOfRangeAlpha(t *testing.T) {
	cfg := Default()
	cfg.FPRAlpha = 1.5
	err := cfg.Validate()
	require.Error(t, err)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "fpr_alpha", cerr.Field)
}

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	cfg := Default()
	low, high := 0.9, 0.2
	cfg.TLow = &low
	cfg.THigh = &high
	err := cfg.Validate()
	require.Error(t, err)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "t_low/t_high", cerr.Field)
}

func TestValidateRejectsNoEnabledBlockers(t *testing.T) {
	cfg := Default()
	for i := range cfg.CandidateBlockers {
		cfg.CandidateBlockers[i].Enabled = false
	}
	err := cfg.Validate()
	require.Error(t, err)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "candidate_blockers", cerr.Field)
}

func TestValidateRejectsConformalDeltaOutOfRangeOnlyWhenEnabled(t *testing.T) {
	cfg := Default()
	cfg.ConformalDelta = 2.0
	assert.NoError(t, cfg.Validate(), "delta is unchecked while conformal is disabled")

	cfg.ConformalEnabled = true
	err := cfg.Validate()
	require.Error(t, err)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "conformal_delta", cerr.Field)
}
