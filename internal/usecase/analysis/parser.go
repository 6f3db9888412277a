package analysis

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
)

// blockAssessment is the JSON payload the scoring service returns per block
type blockAssessment struct {
	Scores          map[string]criterionAssessment `json:"scores"`
	Strengths       []string                       `json:"strengths"`
	Improvements    []string                       `json:"improvements"`
	Recommendations []string                       `json:"recommendations"`
}

// criterionAssessment keeps the score raw so validation can tell a missing
// value from a non-numeric one and name the criterion either way.
type criterionAssessment struct {
	Score json.RawMessage `json:"score"`
	Note  string          `json:"note"`
}

// parseBlockAssessment parses and validates one scoring response. Every
// rubric criterion must carry a numeric score; scores are clamped into the
// scale and rounded to one decimal. There are no silent defaults: a missing
// or malformed criterion fails the block.
func parseBlockAssessment(blockIndex int, content string, rubric entities.Rubric) (*entities.BlockResult, error) {
	payload := extractJSON(content)

	var assessment blockAssessment
	if err := json.Unmarshal([]byte(payload), &assessment); err != nil {
		return nil, &entities.ScoringValidationError{
			BlockIndex: blockIndex,
			Reason:     "response is not a valid JSON object: " + err.Error(),
		}
	}
	if assessment.Scores == nil {
		return nil, &entities.ScoringValidationError{
			BlockIndex: blockIndex,
			Reason:     `response has no "scores" object`,
		}
	}

	scores := make(map[string]float64, len(rubric))
	notes := make(map[string]string)
	for _, criterion := range rubric {
		ca, ok := assessment.Scores[criterion.ID]
		// JSON null unmarshals into a float64 as a no-op, so it has to be
		// rejected here or it would silently become the scale minimum.
		if !ok || len(ca.Score) == 0 || string(ca.Score) == "null" {
			return nil, &entities.ScoringValidationError{
				BlockIndex: blockIndex,
				Criterion:  criterion.ID,
				Reason:     "missing score",
			}
		}

		var score float64
		if err := json.Unmarshal(ca.Score, &score); err != nil {
			return nil, &entities.ScoringValidationError{
				BlockIndex: blockIndex,
				Criterion:  criterion.ID,
				Reason:     "score is not numeric",
			}
		}

		scores[criterion.ID] = roundScore(clampScore(score))
		if note := strings.TrimSpace(ca.Note); note != "" {
			notes[criterion.ID] = note
		}
	}

	return &entities.BlockResult{
		BlockIndex:      blockIndex,
		CriterionScores: scores,
		Notes:           notes,
		Strengths:       cleanList(assessment.Strengths),
		Improvements:    cleanList(assessment.Improvements),
		Recommendations: cleanList(assessment.Recommendations),
	}, nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

func clampScore(score float64) float64 {
	if score < entities.ScoreMin {
		return entities.ScoreMin
	}
	if score > entities.ScoreMax {
		return entities.ScoreMax
	}
	return score
}

func roundScore(score float64) float64 {
	return math.Round(score*10) / 10
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
