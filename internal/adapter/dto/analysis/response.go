package analysis

import (
	"time"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
)

// RunQueuedResponse acknowledges an accepted recording webhook
type RunQueuedResponse struct {
	Success   bool   `json:"success"`
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
	StatusURL string `json:"status_url"`
}

// RunStatusResponse represents an analysis run in responses
type RunStatusResponse struct {
	RunID     string                   `json:"run_id"`
	Status    string                   `json:"status"`
	Metadata  entities.RunMetadata     `json:"metadata"`
	Error     string                   `json:"error,omitempty"`
	Result    *entities.AnalysisResult `json:"result,omitempty"`
	Artifacts *entities.RunArtifacts   `json:"artifacts,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// NewRunStatusResponse maps a run entity into its response shape
func NewRunStatusResponse(run *entities.AnalysisRun) *RunStatusResponse {
	return &RunStatusResponse{
		RunID:     run.ID,
		Status:    run.Status,
		Metadata:  run.Metadata,
		Error:     run.Error,
		Result:    run.Result,
		Artifacts: run.Artifacts,
		CreatedAt: run.CreatedAt,
		UpdatedAt: run.UpdatedAt,
	}
}
