package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CommandInfo records how the run was invoked.
type CommandInfo struct {
	Argv []string `json:"argv"`
	Cwd  string   `json:"cwd,omitempty"`
}

// EnvironmentInfo records the runtime environment of the run.
type EnvironmentInfo struct {
	GoVersion      string            `json:"go_version"`
	Platform       string            `json:"platform"`
	PackageVersion string            `json:"package_version"`
	Dependencies   map[string]string `json:"dependencies,omitempty"`
}

// FileInfo records one ingested input file's stats.
type FileInfo struct {
	Name             string `json:"name"`
	Format           string `json:"format"`
	Bytes            int64  `json:"bytes"`
	SHA256           string `json:"sha256"`
	RecordsExtracted int    `json:"records_extracted"`
	Mtime            string `json:"mtime,omitempty"`
}

// InputsInfo records every input file consumed by the run.
type InputsInfo struct {
	Root                  string     `json:"root"`
	Files                 []FileInfo `json:"files"`
	TotalRecordsExtracted int        `json:"total_records_extracted"`
}

// ArtifactInfo records one output artifact's identity.
type ArtifactInfo struct {
	Path        string `json:"path"`
	SHA256      string `json:"sha256"`
	Bytes       *int64 `json:"bytes,omitempty"`
	RecordCount *int   `json:"record_count,omitempty"`
}

// StageInfo records one pipeline stage's timing and counters.
type StageInfo struct {
	Name            string                 `json:"name"`
	StartedAt       string                 `json:"started_at"`
	Counters        map[string]interface{} `json:"counters,omitempty"`
	FinishedAt      string                 `json:"finished_at,omitempty"`
	DurationSeconds *float64               `json:"duration_seconds,omitempty"`
	Artifacts       []ArtifactInfo         `json:"artifacts,omitempty"`
}

// ErrorInfo records one error surfaced during the run.
type ErrorInfo struct {
	Timestamp      string `json:"timestamp"`
	ExceptionClass string `json:"exception_class"`
	Message        string `json:"message"`
	Stage          string `json:"stage,omitempty"`
	Traceback      string `json:"traceback,omitempty"`
	RID            string `json:"rid,omitempty"`
}

// OutputsInfo records every artifact the run produced.
type OutputsInfo struct {
	Artifacts []ArtifactInfo `json:"artifacts,omitempty"`
}

// ManifestData is the full run.json shape.
type ManifestData struct {
	ManifestVersion string          `json:"manifest_version"`
	RunID           string          `json:"run_id"`
	CreatedAt       string          `json:"created_at"`
	Status          string          `json:"status"`
	TransformVersion string         `json:"transform_version"`
	Command         CommandInfo     `json:"command"`
	Environment     EnvironmentInfo `json:"environment"`
	Inputs          InputsInfo      `json:"inputs"`
	Parameters      map[string]interface{} `json:"parameters"`
	Stages          []StageInfo     `json:"stages"`
	Outputs         OutputsInfo     `json:"outputs"`
	FinishedAt      string          `json:"finished_at,omitempty"`
	DurationSeconds *float64        `json:"duration_seconds,omitempty"`
	Errors          []ErrorInfo     `json:"errors,omitempty"`
}

// ManifestWriter accumulates a ManifestData and persists it atomically.
type ManifestWriter struct {
	mu           sync.Mutex
	manifest     ManifestData
	manifestPath string
	stageIndex   map[string]int
}

// NewManifestWriter starts a manifest for runID, to be written at path.
func NewManifestWriter(path string, runID, createdAt string, command CommandInfo, env EnvironmentInfo, params map[string]interface{}) *ManifestWriter {
	return &ManifestWriter{
		manifest: ManifestData{
			ManifestVersion:  "1.0.0",
			RunID:            runID,
			CreatedAt:        createdAt,
			Status:           "running",
			TransformVersion: "1.0.0",
			Command:          command,
			Environment:      env,
			Parameters:       params,
		},
		manifestPath: path,
		stageIndex:   map[string]int{},
	}
}

// SetInputs records the ingested-file inventory.
func (m *ManifestWriter) SetInputs(inputs InputsInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manifest.Inputs = inputs
}

// AddStage registers a new stage.
func (m *ManifestWriter) AddStage(stage StageInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manifest.Stages = append(m.manifest.Stages, stage)
	m.stageIndex[stage.Name] = len(m.manifest.Stages) - 1
}

func (m *ManifestWriter) getStageLocked(name string) (*StageInfo, error) {
	idx, ok := m.stageIndex[name]
	if !ok {
		return nil, fmt.Errorf("audit: unknown stage %q", name)
	}
	return &m.manifest.Stages[idx], nil
}

// UpdateStageCounters merges counters into an existing stage.
func (m *ManifestWriter) UpdateStageCounters(stageName string, counters map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.getStageLocked(stageName)
	if err != nil {
		return err
	}
	if s.Counters == nil {
		s.Counters = map[string]interface{}{}
	}
	for k, v := range counters {
		s.Counters[k] = v
	}
	return nil
}

// FinishStage marks a stage complete.
func (m *ManifestWriter) FinishStage(stageName, finishedAt string, durationSeconds float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.getStageLocked(stageName)
	if err != nil {
		return err
	}
	s.FinishedAt = finishedAt
	d := durationSeconds
	s.DurationSeconds = &d
	return nil
}

// AddStageArtifact attaches an output artifact to a stage's record.
func (m *ManifestWriter) AddStageArtifact(stageName string, artifact ArtifactInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.getStageLocked(stageName)
	if err != nil {
		return err
	}
	s.Artifacts = append(s.Artifacts, artifact)
	return nil
}

// AddOutputArtifact registers a final output artifact for the run.
func (m *ManifestWriter) AddOutputArtifact(artifact ArtifactInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manifest.Outputs.Artifacts = append(m.manifest.Outputs.Artifacts, artifact)
}

// AddError appends an error record.
func (m *ManifestWriter) AddError(e ErrorInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manifest.Errors = append(m.manifest.Errors, e)
}

// Finish sets the terminal status/timing and atomically writes run.json.
func (m *ManifestWriter) Finish(status, finishedAt string, durationSeconds float64) error {
	m.mu.Lock()
	m.manifest.Status = status
	m.manifest.FinishedAt = finishedAt
	d := durationSeconds
	m.manifest.DurationSeconds = &d
	snapshot := m.manifest
	m.mu.Unlock()
	return writeManifestAtomic(m.manifestPath, snapshot)
}

// ToDict returns the manifest's current JSON-marshalable snapshot.
func (m *ManifestWriter) ToDict() ManifestData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.manifest
}

// writeManifestAtomic writes data to a temp file in the same directory,
// fsyncs it, then renames it over path. This is the same write-temp,
// fsync, rename sequence the teacher uses for its own durable writes.
func writeManifestAtomic(path string, data ManifestData) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
