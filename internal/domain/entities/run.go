package entities

import (
	"time"

	"github.com/google/uuid"
)

// Run lifecycle states
const (
	RunStatusQueued       = "queued"
	RunStatusTranscribing = "transcribing"
	RunStatusAnalyzing    = "analyzing"
	RunStatusCompleted    = "completed"
	RunStatusFailed       = "failed"
)

// RunMetadata carries the recording-platform fields submitted with a run
type RunMetadata struct {
	Topic           string    `json:"topic,omitempty"`
	Host            string    `json:"host,omitempty"`
	MeetingID       string    `json:"meeting_id,omitempty"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	StartTime       string    `json:"start_time,omitempty"`
	ShareURL        string    `json:"share_url,omitempty"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// RunArtifacts points at the rendered report files of a completed run
type RunArtifacts struct {
	MarkdownURL     string `json:"markdown_url,omitempty"`
	JSONURL         string `json:"json_url,omitempty"`
	DocumentURL     string `json:"document_url,omitempty"`
	DocumentSkipped bool   `json:"document_skipped,omitempty"`
	Warning         string `json:"warning,omitempty"`
}

// AnalysisRun tracks one pipeline invocation through its lifecycle
type AnalysisRun struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	MediaURL  string          `json:"media_url,omitempty"`
	Metadata  RunMetadata     `json:"metadata"`
	Error     string          `json:"error,omitempty"`
	Result    *AnalysisResult `json:"result,omitempty"`
	Artifacts *RunArtifacts   `json:"artifacts,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewAnalysisRun creates a queued run
func NewAnalysisRun(mediaURL string, meta RunMetadata) *AnalysisRun {
	now := time.Now().UTC()
	return &AnalysisRun{
		ID:        uuid.New().String(),
		Status:    RunStatusQueued,
		MediaURL:  mediaURL,
		Metadata:  meta,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus advances the run lifecycle
func (r *AnalysisRun) SetStatus(status string) {
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
}

// Fail marks the run failed with a reason
func (r *AnalysisRun) Fail(err error) {
	r.Status = RunStatusFailed
	if err != nil {
		r.Error = err.Error()
	}
	r.UpdatedAt = time.Now().UTC()
}

// Complete attaches the final result and artifact locations
func (r *AnalysisRun) Complete(result *AnalysisResult, artifacts *RunArtifacts) {
	r.Status = RunStatusCompleted
	r.Result = result
	r.Artifacts = artifacts
	r.UpdatedAt = time.Now().UTC()
}
