// Package audit provides the run's structured event stream (events.jsonl)
// and the atomic run manifest (run.json). The event logger keeps the
// teacher's mutex-guarded io.Writer JSON-line pattern; the event schema
// itself is generalized from a run/stage/rid-shaped log event rather than
// the teacher's tenant/actor-centric Event.
package audit

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// LogEvent is one line of events.jsonl.
type LogEvent struct {
	TS    string                 `json:"ts"`
	RunID string                 `json:"run_id"`
	Level string                 `json:"level"`
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data,omitempty"`
	Stage string                 `json:"stage,omitempty"`
	RID   string                 `json:"rid,omitempty"`
}

// Logger appends structured events to an append-only JSONL sink. Every
// event is flushed immediately so a crash mid-run leaves a readable partial
// log.
type Logger struct {
	mu           sync.Mutex
	w            io.WriteCloser
	runID        string
	currentStage string
	now          func() time.Time
}

// NewLogger wraps w (already opened in append mode by the caller) as an
// audit sink for runID.
func NewLogger(runID string, w io.WriteCloser) *Logger {
	return &Logger{w: w, runID: runID, now: time.Now}
}

// Close flushes and closes the underlying writer.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Close()
}

// SetStage sets the stage attached to subsequent events that don't specify
// their own.
func (l *Logger) SetStage(stage string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.currentStage = stage
}

func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}

// Event appends one structured event at INFO level, tagged with the
// logger's current stage and no rid.
func (l *Logger) Event(event string, data map[string]interface{}) error {
	return l.EventAt("", "", "INFO", event, data)
}

// EventAt appends an event with an explicit stage and rid (either may be
// empty to fall back to the logger's current stage / no rid).
func (l *Logger) EventAt(stage, rid, level, event string, data map[string]interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level == "" {
		level = "INFO"
	}
	if stage == "" {
		stage = l.currentStage
	}
	le := LogEvent{
		TS:    isoTimestamp(l.now()),
		RunID: l.runID,
		Level: level,
		Event: event,
		Data:  data,
		Stage: stage,
		RID:   rid,
	}
	b, err := json.Marshal(le)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = l.w.Write(b)
	return err
}

// RunStarted records the beginning of a pipeline run.
func (l *Logger) RunStarted(command []string, parameters map[string]interface{}) error {
	return l.Event("run_started", map[string]interface{}{"command": command, "parameters": parameters})
}

// RunFinished records the end of a pipeline run.
func (l *Logger) RunFinished(status string, durationSeconds float64) error {
	return l.Event("run_finished", map[string]interface{}{"status": status, "duration_seconds": durationSeconds})
}

// StageStarted records a stage beginning and sets it as current.
func (l *Logger) StageStarted(stage string) error {
	l.SetStage(stage)
	return l.EventAt(stage, "", "INFO", "stage_started", nil)
}

// StageFinished records a stage's completion with its counters.
func (l *Logger) StageFinished(stage string, durationSeconds float64, counters map[string]interface{}) error {
	data := map[string]interface{}{"duration_seconds": durationSeconds}
	for k, v := range counters {
		data[k] = v
	}
	return l.EventAt(stage, "", "INFO", "stage_finished", data)
}

// ArtifactWritten records one output artifact's digest and size.
func (l *Logger) ArtifactWritten(stage, path, sha256Hex string, size int64) error {
	return l.EventAt(stage, "", "INFO", "artifact_written", map[string]interface{}{
		"path": path, "sha256": sha256Hex, "bytes": size,
	})
}

// OversizedBlock records a blocker emitting a block over the configured size
// ceiling. The candidate generator skips such a block: none of its pairs
// are emitted.
func (l *Logger) OversizedBlock(blocker, blockKey string, size int) error {
	return l.EventAt("candidate_generation", "", "WARN", "oversized_block", map[string]interface{}{
		"blocker": blocker, "block_key": blockKey, "size": size,
	})
}

// RecordFlagged records a per-record warning or skip.
func (l *Logger) RecordFlagged(stage, rid, flagName, reasonCode string) error {
	return l.EventAt(stage, rid, "WARN", "record_flagged", map[string]interface{}{
		"flag": flagName, "reason": reasonCode,
	})
}

// StageError records a fatal, stage-aborting error.
func (l *Logger) StageError(stage string, err error) error {
	return l.EventAt(stage, "", "ERROR", "pipeline_error", map[string]interface{}{
		"message": err.Error(),
	})
}
