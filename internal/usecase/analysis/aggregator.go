package analysis

import (
	"fmt"
	"strings"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
)

// Aggregate combines per-block results into the run-level assessment.
// Per-criterion overall = unweighted arithmetic mean across analyzed blocks,
// rounded to one decimal; every analyzed block counts equally no matter how
// long it ran. Overall = mean of the per-criterion means, rounded to one
// decimal. Qualitative lists are unioned in block order with case-insensitive
// dedup keeping the first occurrence. Pure function.
func Aggregate(results []entities.BlockResult, rubric entities.Rubric, failures []entities.BlockFailure) (*entities.AnalysisResult, error) {
	if len(results) == 0 {
		return nil, entities.ErrNoBlocksAnalyzed
	}

	criterionScores := make(map[string]float64, len(rubric))
	for _, criterion := range rubric {
		var sum float64
		var n int
		for _, res := range results {
			if score, ok := res.CriterionScores[criterion.ID]; ok {
				sum += score
				n++
			}
		}
		if n == 0 {
			return nil, fmt.Errorf("criterion %q missing from every block result", criterion.ID)
		}
		criterionScores[criterion.ID] = roundScore(sum / float64(n))
	}

	var total float64
	for _, criterion := range rubric {
		total += criterionScores[criterion.ID]
	}
	overall := roundScore(total / float64(len(rubric)))

	return &entities.AnalysisResult{
		OverallScore:    overall,
		CriterionScores: criterionScores,
		BlocksAnalyzed:  len(results),
		OmittedBlocks:   failures,
		Summary:         buildSummary(overall, criterionScores, rubric, len(results), len(failures)),
		Strengths:       unionInOrder(results, func(r entities.BlockResult) []string { return r.Strengths }),
		Improvements:    unionInOrder(results, func(r entities.BlockResult) []string { return r.Improvements }),
		Recommendations: unionInOrder(results, func(r entities.BlockResult) []string { return r.Recommendations }),
		BlockResults:    results,
	}, nil
}

// unionInOrder collects list entries across blocks in block order,
// dropping case-insensitive duplicates but keeping the first spelling.
func unionInOrder(results []entities.BlockResult, pick func(entities.BlockResult) []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, res := range results {
		for _, item := range pick(res) {
			key := strings.ToLower(strings.TrimSpace(item))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

// buildSummary renders a deterministic narrative from the computed scores.
func buildSummary(overall float64, scores map[string]float64, rubric entities.Rubric, analyzed, omitted int) string {
	best, worst := rubric[0], rubric[0]
	for _, criterion := range rubric[1:] {
		if scores[criterion.ID] > scores[best.ID] {
			best = criterion
		}
		if scores[criterion.ID] < scores[worst.ID] {
			worst = criterion
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Overall pedagogical quality %.1f/5 across %s.", overall, countNoun(analyzed, "analyzed block"))
	fmt.Fprintf(&b, " Strongest dimension: %s (%.1f).", best.DisplayName, scores[best.ID])
	fmt.Fprintf(&b, " Weakest dimension: %s (%.1f).", worst.DisplayName, scores[worst.ID])
	if omitted > 0 {
		fmt.Fprintf(&b, " Omitted after scoring failures: %s.", countNoun(omitted, "block"))
	}
	return b.String()
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
