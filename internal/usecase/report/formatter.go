package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
)

// Artifacts bundles the rendered forms of one report. Markdown is the
// canonical form; JSON and the DOCX document are derived from the same
// aggregate result.
type Artifacts struct {
	Markdown        string
	JSON            []byte
	Document        []byte
	DocumentSkipped bool
	Warning         string
}

// Formatter renders an aggregate result into report artifacts. Rendering is
// deterministic: criteria follow rubric order, blocks follow index order,
// and timestamps come from run metadata, never from the wall clock.
type Formatter struct {
	logger *zap.Logger

	// renderDoc turns the markdown form into DOCX bytes
	renderDoc func(markdown string) ([]byte, error)
}

func NewFormatter(logger *zap.Logger) *Formatter {
	return &Formatter{
		logger:    logger,
		renderDoc: markdownToDocx,
	}
}

// Render produces all artifact forms. A document failure degrades the
// bundle to markdown and JSON with a recorded warning; it never fails the
// run.
func (f *Formatter) Render(result *entities.AnalysisResult, rubric entities.Rubric, meta entities.RunMetadata) (*Artifacts, error) {
	raw, err := f.ToJSON(result, rubric, meta)
	if err != nil {
		return nil, err
	}

	artifacts := &Artifacts{
		Markdown: f.ToMarkdown(result, rubric, meta),
		JSON:     raw,
	}

	doc, err := f.ToDocument(result, rubric, meta)
	if err != nil {
		renderErr := &entities.RenderError{Format: "docx", Err: err}
		artifacts.DocumentSkipped = true
		artifacts.Warning = renderErr.Error()
		if f.logger != nil {
			f.logger.Warn("⚠️ Document rendering failed, degrading to markdown and JSON",
				zap.Error(renderErr),
			)
		}
		return artifacts, nil
	}
	artifacts.Document = doc

	return artifacts, nil
}

// ToMarkdown renders the canonical human-readable report.
func (f *Formatter) ToMarkdown(result *entities.AnalysisResult, rubric entities.Rubric, meta entities.RunMetadata) string {
	var b strings.Builder

	title := "Lecture Feedback"
	if meta.Topic != "" {
		title += ": " + meta.Topic
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	fmt.Fprintf(&b, "**Overall score: %.1f / 5** %s\n\n", result.OverallScore, trafficLight(result.OverallScore))

	if result.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", result.Summary)
	}

	for _, omitted := range result.OmittedBlocks {
		fmt.Fprintf(&b, "> ⚠️ Block %d was omitted after scoring failures: %s\n",
			omitted.BlockIndex+1, sanitizeCell(omitted.Reason))
	}
	if len(result.OmittedBlocks) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Scorecard\n\n")
	b.WriteString("| Criterion | Score | Rating |\n")
	b.WriteString("|-----------|-------|--------|\n")
	for _, c := range rubric {
		score := result.CriterionScores[c.ID]
		fmt.Fprintf(&b, "| %s | %.1f | %s |\n", c.DisplayName, score, trafficLight(score))
	}
	b.WriteString("\n")

	writeList(&b, "Strengths", result.Strengths)
	writeList(&b, "Areas for Improvement", result.Improvements)
	writeList(&b, "Recommendations", result.Recommendations)

	if len(result.BlockResults) > 0 {
		b.WriteString("## Block Details\n\n")
		for _, block := range result.BlockResults {
			fmt.Fprintf(&b, "### Block %d (%s)\n\n", block.BlockIndex+1, block.TimeRange())
			b.WriteString("| Criterion | Score | Note |\n")
			b.WriteString("|-----------|-------|------|\n")
			for _, c := range rubric {
				fmt.Fprintf(&b, "| %s | %.1f | %s |\n",
					c.DisplayName, block.CriterionScores[c.ID], sanitizeCell(block.Notes[c.ID]))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("---\n\n")
	writeMetaLine(&b, "Host", meta.Host)
	writeMetaLine(&b, "Meeting ID", meta.MeetingID)
	if meta.DurationMinutes > 0 {
		writeMetaLine(&b, "Duration", fmt.Sprintf("%d minutes", meta.DurationMinutes))
	}
	writeMetaLine(&b, "Started", meta.StartTime)
	writeMetaLine(&b, "Recording", meta.ShareURL)
	if !meta.GeneratedAt.IsZero() {
		writeMetaLine(&b, "Generated", meta.GeneratedAt.UTC().Format(time.RFC3339))
	}

	return b.String()
}

// reportJSON is the JSON artifact payload: the aggregate result verbatim,
// the rubric catalog, and the run metadata.
type reportJSON struct {
	entities.AnalysisResult
	Criteria entities.Rubric      `json:"criteria"`
	Metadata entities.RunMetadata `json:"metadata"`
}

// ToJSON renders the machine-readable report with stable keys.
func (f *Formatter) ToJSON(result *entities.AnalysisResult, rubric entities.Rubric, meta entities.RunMetadata) ([]byte, error) {
	return json.MarshalIndent(reportJSON{
		AnalysisResult: *result,
		Criteria:       rubric,
		Metadata:       meta,
	}, "", "  ")
}

// ToDocument renders the DOCX form, derived from the markdown form.
func (f *Formatter) ToDocument(result *entities.AnalysisResult, rubric entities.Rubric, meta entities.RunMetadata) ([]byte, error) {
	return f.renderDoc(f.ToMarkdown(result, rubric, meta))
}

// trafficLight maps a score to its rating symbol: green at 3.5 and above,
// yellow at 2.5 and above, red below.
func trafficLight(score float64) string {
	switch {
	case score >= 3.5:
		return "🟢"
	case score >= 2.5:
		return "🟡"
	default:
		return "🔴"
	}
}

func writeList(b *strings.Builder, heading string, items []string) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	if len(items) == 0 {
		b.WriteString("_None recorded._\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", sanitizeCell(item))
	}
	b.WriteString("\n")
}

func writeMetaLine(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}

// sanitizeCell flattens free text for table cells and single-line contexts:
// newlines become spaces and pipes become slashes so rows cannot break.
func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "/")
	return strings.TrimSpace(s)
}
