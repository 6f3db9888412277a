package repositories

import "context"

// ArtifactRepository defines the interface for rendered report storage
type ArtifactRepository interface {
	// Upload stores one rendered artifact under the run's prefix and
	// returns a download URL for it
	Upload(ctx context.Context, runID, filename string, data []byte, contentType string) (string, error)
}
