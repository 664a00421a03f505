// Package pipelineconfig loads and validates the pipeline's run
// configuration: the defaults built by Default(), overlaid by an optional
// YAML file (Load) and by CLI flag overrides, per SPEC_FULL.md §10.2.
package pipelineconfig

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/srdedupe/srdedupe/pkg/candidates"
)

// ConfigurationError reports the first configuration rule a given
// PipelineConfig violates.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("pipelineconfig: %s: %s", e.Field, e.Reason)
}

// PipelineConfig is the full set of tunables for one pipeline run.
type PipelineConfig struct {
	FPRAlpha          float64                    `yaml:"fpr_alpha"`
	TLow              *float64                   `yaml:"t_low"`
	THigh             *float64                   `yaml:"t_high"`
	CandidateBlockers []candidates.BlockerConfig `yaml:"candidate_blockers"`
	FSModelPath       string                     `yaml:"fs_model_path"`
	FSSchemaPath      string                     `yaml:"fs_schema_path"`
	OutputDir         string                     `yaml:"output_dir"`
	ConformalEnabled  bool                       `yaml:"conformal_enabled"`
	ConformalDelta    float64                    `yaml:"conformal_delta"`
	CELGateExpr       string                     `yaml:"cel_gate_expr,omitempty"`
	RedisAddr         string                     `yaml:"redis_addr,omitempty"`
	WorkerPoolSize    int                        `yaml:"worker_pool_size,omitempty"`
}

// Default returns the bundled default configuration.
func Default() PipelineConfig {
	return PipelineConfig{
		FPRAlpha:          0.01,
		CandidateBlockers: candidates.DefaultBlockerConfigs(),
		FSModelPath:       "models/fs_v1.json",
		FSSchemaPath:      "models/fs_schema.json",
		OutputDir:         "./out",
		ConformalEnabled:  false,
		ConformalDelta:    0.1,
	}
}

// Load reads a YAML file on top of Default(), overwriting only the
// fields present in the file.
func Load(path string) (PipelineConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("pipelineconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("pipelineconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}

// BindFlags registers CLI flags that override cfg's fields. Call after
// Load (or Default) and before fs.Parse.
func BindFlags(fs *flag.FlagSet, cfg *PipelineConfig) {
	fs.Float64Var(&cfg.FPRAlpha, "fpr-alpha", cfg.FPRAlpha, "target false-positive rate for NP calibration")
	fs.StringVar(&cfg.FSModelPath, "fs-model", cfg.FSModelPath, "path to the Fellegi-Sunter model JSON")
	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "directory for pipeline artifacts")
	fs.BoolVar(&cfg.ConformalEnabled, "conformal", cfg.ConformalEnabled, "enable SCRC-I conformal threshold tightening")
	fs.Float64Var(&cfg.ConformalDelta, "conformal-delta", cfg.ConformalDelta, "SCRC-I confidence parameter delta")
}

// Validate checks cfg against the rules in SPEC_FULL.md §10.2, returning
// the first violation found.
func (c PipelineConfig) Validate() error {
	if c.FPRAlpha < 0 || c.FPRAlpha > 1 {
		return &ConfigurationError{Field: "fpr_alpha", Reason: "must be in [0, 1]"}
	}
	if c.TLow != nil && (*c.TLow < 0 || *c.TLow > 1) {
		return &ConfigurationError{Field: "t_low", Reason: "must be in [0, 1]"}
	}
	if c.TLow != nil && c.THigh != nil && *c.TLow >= *c.THigh {
		return &ConfigurationError{Field: "t_low/t_high", Reason: "t_low must be strictly less than t_high"}
	}
	if len(c.CandidateBlockers) == 0 {
		return &ConfigurationError{Field: "candidate_blockers", Reason: "at least one blocker must be configured"}
	}
	hasEnabled := false
	for _, b := range c.CandidateBlockers {
		if b.Enabled {
			hasEnabled = true
		}
	}
	if !hasEnabled {
		return &ConfigurationError{Field: "candidate_blockers", Reason: "at least one blocker must be enabled"}
	}
	if c.FSModelPath == "" {
		return &ConfigurationError{Field: "fs_model_path", Reason: "must not be empty"}
	}
	if c.OutputDir == "" {
		return &ConfigurationError{Field: "output_dir", Reason: "must not be empty"}
	}
	if c.ConformalEnabled && (c.ConformalDelta <= 0 || c.ConformalDelta >= 1) {
		return &ConfigurationError{Field: "conformal_delta", Reason: "must be in (0, 1) when conformal_enabled is true"}
	}
	return nil
}
