package entities

import "fmt"

// BlockResult holds the validated scoring output for one block.
// Produced once per block by the analyzer; never mutated afterwards.
type BlockResult struct {
	BlockIndex      int                `json:"block_index"`
	Start           float64            `json:"start"`
	End             float64            `json:"end"`
	CriterionScores map[string]float64 `json:"criterion_scores"`
	Notes           map[string]string  `json:"notes,omitempty"`
	Strengths       []string           `json:"strengths,omitempty"`
	Improvements    []string           `json:"improvements,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
}

// TimeRange formats the block span as HH:MM:SS-HH:MM:SS
func (r BlockResult) TimeRange() string {
	return fmt.Sprintf("%s-%s", FormatClock(r.Start), FormatClock(r.End))
}

// BlockFailure records a block omitted from aggregation after its scoring
// calls exhausted the retry budget (lenient mode only).
type BlockFailure struct {
	BlockIndex int    `json:"block_index"`
	Reason     string `json:"reason"`
}

// AnalysisResult is the aggregate assessment of one run, produced exactly
// once by the aggregator.
type AnalysisResult struct {
	OverallScore    float64            `json:"overall_score"`
	CriterionScores map[string]float64 `json:"criterion_scores"`
	BlocksAnalyzed  int                `json:"blocks_analyzed"`
	OmittedBlocks   []BlockFailure     `json:"omitted_blocks,omitempty"`
	Summary         string             `json:"summary"`
	Strengths       []string           `json:"strengths"`
	Improvements    []string           `json:"improvements"`
	Recommendations []string           `json:"recommendations"`
	BlockResults    []BlockResult      `json:"block_results,omitempty"`
}
