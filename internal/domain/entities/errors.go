package entities

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrEmptyTranscript  = errors.New("transcript contains no segments")
	ErrNoBlocksAnalyzed = errors.New("no blocks were analyzed successfully")
	ErrRunNotFound      = errors.New("analysis run not found")
	ErrRunNotReady      = errors.New("analysis run has not completed")
)

// ScoringValidationError reports a malformed scoring response. It names the
// offending criterion; a bad payload must never degrade into a default score.
type ScoringValidationError struct {
	BlockIndex int
	Criterion  string
	Reason     string
}

func (e *ScoringValidationError) Error() string {
	if e.Criterion == "" {
		return fmt.Sprintf("block %d: invalid scoring response: %s", e.BlockIndex, e.Reason)
	}
	return fmt.Sprintf("block %d: invalid scoring response for criterion %q: %s", e.BlockIndex, e.Criterion, e.Reason)
}

// ScoringServiceError reports a block whose scoring calls exhausted the
// retry budget.
type ScoringServiceError struct {
	BlockIndex int
	Attempts   int
	Err        error
}

func (e *ScoringServiceError) Error() string {
	return fmt.Sprintf("block %d: scoring service failed after %d attempts: %v", e.BlockIndex, e.Attempts, e.Err)
}

func (e *ScoringServiceError) Unwrap() error {
	return e.Err
}

// RenderError reports a document-rendering failure. Non-fatal: the run
// degrades to markdown-only artifacts.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s artifact: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
