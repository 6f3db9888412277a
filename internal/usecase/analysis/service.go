package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
	"github.com/lecture-insight-team/lecture-insight/internal/domain/repositories"
	"github.com/lecture-insight-team/lecture-insight/internal/usecase/report"
	"github.com/lecture-insight-team/lecture-insight/pkg/config"
	"github.com/lecture-insight-team/lecture-insight/pkg/jobcontext"
)

// Artifact content types
const (
	contentTypeMarkdown = "text/markdown"
	contentTypeJSON     = "application/json"
	contentTypeDocx     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Transcriber turns a recording URL into a transcript
type Transcriber interface {
	TranscribeURL(ctx context.Context, mediaURL string) (*entities.Transcript, error)
}

// Service orchestrates analysis runs end to end
type Service interface {
	// StartRun registers a queued run for a recording URL and launches
	// the pipeline in the background
	StartRun(ctx context.Context, mediaURL string, meta entities.RunMetadata) (*entities.AnalysisRun, error)

	// StartTranscriptRun registers a queued run for an already-transcribed
	// recording, skipping the transcription stage
	StartTranscriptRun(ctx context.Context, transcript *entities.Transcript, meta entities.RunMetadata) (*entities.AnalysisRun, error)

	// AnalyzeTranscript runs the pipeline synchronously on an in-memory
	// transcript; no run record, no artifact upload
	AnalyzeTranscript(ctx context.Context, transcript *entities.Transcript, meta entities.RunMetadata) (*report.Artifacts, error)

	// GetRun returns the current state of a run
	GetRun(ctx context.Context, id string) (*entities.AnalysisRun, error)

	// GetRunReport re-renders the report artifacts of a completed run
	GetRunReport(ctx context.Context, id string) (*report.Artifacts, error)
}

type analysisService struct {
	transcriber  Transcriber
	analyzer     *Analyzer
	formatter    *report.Formatter
	runRepo      repositories.RunRepository
	artifactRepo repositories.ArtifactRepository // nil disables uploads
	rubric       entities.Rubric
	cfg          *config.Config
	logger       *zap.Logger
}

// NewAnalysisService constructs the run orchestrator. rubric may be nil for
// the default catalog; artifactRepo may be nil when storage is not wired.
func NewAnalysisService(
	transcriber Transcriber,
	analyzer *Analyzer,
	formatter *report.Formatter,
	runRepo repositories.RunRepository,
	artifactRepo repositories.ArtifactRepository,
	rubric entities.Rubric,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	if rubric == nil {
		rubric = entities.DefaultRubric()
	}
	return &analysisService{
		transcriber:  transcriber,
		analyzer:     analyzer,
		formatter:    formatter,
		runRepo:      runRepo,
		artifactRepo: artifactRepo,
		rubric:       rubric,
		cfg:          cfg,
		logger:       logger,
	}
}

// StartRun persists a queued run and hands the pipeline to a background
// job bounded by the run timeout.
func (s *analysisService) StartRun(ctx context.Context, mediaURL string, meta entities.RunMetadata) (*entities.AnalysisRun, error) {
	if s.transcriber == nil {
		return nil, fmt.Errorf("transcription provider not configured")
	}
	if mediaURL == "" {
		return nil, fmt.Errorf("recording URL is required")
	}

	return s.queueRun(ctx, entities.NewAnalysisRun(mediaURL, meta), nil)
}

// StartTranscriptRun registers a queued run for a transcript the caller
// already has, so the pipeline starts at the analysis stage.
func (s *analysisService) StartTranscriptRun(ctx context.Context, transcript *entities.Transcript, meta entities.RunMetadata) (*entities.AnalysisRun, error) {
	if transcript == nil || transcript.Empty() {
		return nil, entities.ErrEmptyTranscript
	}
	return s.queueRun(ctx, entities.NewAnalysisRun("", meta), transcript)
}

// queueRun persists the queued record and launches the background pipeline.
// transcript is nil for recording runs that still need transcription.
func (s *analysisService) queueRun(ctx context.Context, run *entities.AnalysisRun, transcript *entities.Transcript) (*entities.AnalysisRun, error) {
	if err := s.runRepo.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Analysis run queued",
			zap.String("run_id", run.ID),
			zap.String("topic", run.Metadata.Topic),
		)
	}

	// The caller gets a snapshot: the background goroutine keeps mutating
	// the original as the run advances.
	snapshot := *run

	go func() {
		jobCtx, cancel := jobcontext.JobBegin(context.Background(), run.ID, "analysis_run", s.cfg.Server.RunTimeout)
		defer cancel()

		err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
			return s.processRun(ctx, run, transcript)
		})
		if err != nil {
			s.failRun(run, err)
		}
	}()

	return &snapshot, nil
}

// AnalyzeTranscript runs chunk → analyze → aggregate → render on an
// already-available transcript and returns the rendered artifacts.
func (s *analysisService) AnalyzeTranscript(ctx context.Context, transcript *entities.Transcript, meta entities.RunMetadata) (*report.Artifacts, error) {
	result, err := s.analyze(ctx, transcript)
	if err != nil {
		return nil, err
	}

	meta.GeneratedAt = time.Now().UTC()
	return s.formatter.Render(result, s.rubric, meta)
}

// GetRun returns the current state of a run
func (s *analysisService) GetRun(ctx context.Context, id string) (*entities.AnalysisRun, error) {
	return s.runRepo.FindByID(ctx, id)
}

// GetRunReport re-renders the artifacts of a completed run from its persisted
// result. The render is reproducible: GeneratedAt was fixed when the run
// completed and travels with the stored metadata.
func (s *analysisService) GetRunReport(ctx context.Context, id string) (*report.Artifacts, error) {
	run, err := s.runRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Status != entities.RunStatusCompleted || run.Result == nil {
		return nil, entities.ErrRunNotReady
	}
	return s.formatter.Render(run.Result, s.rubric, run.Metadata)
}

// processRun drives one background run through its lifecycle. Run state is
// saved after every transition; a state-save failure degrades visibility
// but never stops the pipeline.
func (s *analysisService) processRun(ctx context.Context, run *entities.AnalysisRun, transcript *entities.Transcript) error {
	if transcript == nil {
		run.SetStatus(entities.RunStatusTranscribing)
		s.saveRun(ctx, run)

		var err error
		transcript, err = s.transcriber.TranscribeURL(ctx, run.MediaURL)
		if err != nil {
			return fmt.Errorf("transcription failed: %w", err)
		}
		if s.logger != nil {
			s.logger.Info("✅ Transcript ready",
				zap.String("run_id", run.ID),
				zap.Int("segments", len(transcript.Segments)),
				zap.Float64("duration_seconds", transcript.Duration),
			)
		}
	}

	run.SetStatus(entities.RunStatusAnalyzing)
	s.saveRun(ctx, run)

	result, err := s.analyze(ctx, transcript)
	if err != nil {
		return err
	}

	run.Metadata.GeneratedAt = time.Now().UTC()
	artifacts, err := s.formatter.Render(result, s.rubric, run.Metadata)
	if err != nil {
		return fmt.Errorf("report rendering failed: %w", err)
	}

	run.Complete(result, s.uploadArtifacts(ctx, run, artifacts))
	s.saveRun(ctx, run)

	if s.logger != nil {
		s.logger.Info("✅ Analysis run completed",
			zap.String("run_id", run.ID),
			zap.Float64("overall_score", result.OverallScore),
			zap.Int("blocks_analyzed", result.BlocksAnalyzed),
			zap.Int("blocks_omitted", len(result.OmittedBlocks)),
		)
	}
	return nil
}

// analyze is the shared chunk → score → aggregate core of both entry points
func (s *analysisService) analyze(ctx context.Context, transcript *entities.Transcript) (*entities.AnalysisResult, error) {
	blocks, err := Chunk(transcript, s.cfg.Chunking.TargetBlockDuration, s.cfg.Chunking.MinLastBlockDuration)
	if err != nil {
		return nil, fmt.Errorf("chunking failed: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("✅ Transcript chunked",
			zap.Int("blocks", len(blocks)),
		)
	}

	results, failures, err := s.analyzer.AnalyzeAll(ctx, blocks, s.rubric)
	if err != nil {
		return nil, fmt.Errorf("block analysis failed: %w", err)
	}

	result, err := Aggregate(results, s.rubric, failures)
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}
	return result, nil
}

// uploadArtifacts pushes rendered artifacts to storage and collects their
// URLs. Upload failures degrade the run to inline results with a warning;
// the analysis itself already succeeded.
func (s *analysisService) uploadArtifacts(ctx context.Context, run *entities.AnalysisRun, artifacts *report.Artifacts) *entities.RunArtifacts {
	out := &entities.RunArtifacts{
		DocumentSkipped: artifacts.DocumentSkipped,
		Warning:         artifacts.Warning,
	}
	if s.artifactRepo == nil {
		return out
	}

	files := []struct {
		name        string
		data        []byte
		contentType string
		target      *string
	}{
		{"report.md", []byte(artifacts.Markdown), contentTypeMarkdown, &out.MarkdownURL},
		{"report.json", artifacts.JSON, contentTypeJSON, &out.JSONURL},
		{"report.docx", artifacts.Document, contentTypeDocx, &out.DocumentURL},
	}
	for _, f := range files {
		if len(f.data) == 0 {
			continue
		}
		url, err := s.artifactRepo.Upload(ctx, run.ID, f.name, f.data, f.contentType)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("⚠️ Artifact upload failed",
					zap.String("run_id", run.ID),
					zap.String("artifact", f.name),
					zap.Error(err),
				)
			}
			if out.Warning == "" {
				out.Warning = fmt.Sprintf("artifact upload failed: %s", f.name)
			}
			continue
		}
		*f.target = url
	}
	return out
}

// failRun records a terminal failure. It runs on a fresh context: the job
// context is usually already cancelled or expired by the time it fails.
func (s *analysisService) failRun(run *entities.AnalysisRun, cause error) {
	run.Fail(cause)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.saveRun(ctx, run)

	if s.logger != nil {
		s.logger.Error("❌ Analysis run failed",
			zap.String("run_id", run.ID),
			zap.Error(cause),
		)
	}
}

func (s *analysisService) saveRun(ctx context.Context, run *entities.AnalysisRun) {
	if err := s.runRepo.Save(ctx, run); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to persist run state",
			zap.String("run_id", run.ID),
			zap.String("status", run.Status),
			zap.Error(err),
		)
	}
}
