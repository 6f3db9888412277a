package repositories

import (
	"context"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
)

// RunRepository defines the interface for analysis run state access.
// Run records are short-lived status documents: every save refreshes the
// TTL, and an expired record behaves exactly like a missing one.
type RunRepository interface {
	// Save persists the run record and refreshes its TTL
	Save(ctx context.Context, run *entities.AnalysisRun) error

	// FindByID retrieves a run by ID; returns entities.ErrRunNotFound
	// when no live record exists
	FindByID(ctx context.Context, id string) (*entities.AnalysisRun, error)

	// Delete removes a run record
	Delete(ctx context.Context, id string) error
}
