package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
	"github.com/lecture-insight-team/lecture-insight/internal/domain/repositories"
	"github.com/lecture-insight-team/lecture-insight/internal/usecase/report"
	"github.com/lecture-insight-team/lecture-insight/pkg/config"
)

type transcriberFunc func(ctx context.Context, mediaURL string) (*entities.Transcript, error)

func (f transcriberFunc) TranscribeURL(ctx context.Context, mediaURL string) (*entities.Transcript, error) {
	return f(ctx, mediaURL)
}

// fakeRunStore records every saved status so tests can assert lifecycle order
type fakeRunStore struct {
	mu       sync.Mutex
	runs     map[string]*entities.AnalysisRun
	statuses []string
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{runs: make(map[string]*entities.AnalysisRun)}
}

func (s *fakeRunStore) Save(_ context.Context, run *entities.AnalysisRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, run.Status)
	snapshot := *run
	s.runs[run.ID] = &snapshot
	return nil
}

func (s *fakeRunStore) FindByID(_ context.Context, id string) (*entities.AnalysisRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, entities.ErrRunNotFound
	}
	return run, nil
}

func (s *fakeRunStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
	return nil
}

func (s *fakeRunStore) statusLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.statuses...)
}

type fakeArtifactStore struct {
	mu          sync.Mutex
	contentType map[string]string
	err         error
}

func (s *fakeArtifactStore) Upload(_ context.Context, runID, filename string, _ []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if s.contentType == nil {
		s.contentType = make(map[string]string)
	}
	s.contentType[filename] = contentType
	return fmt.Sprintf("https://store.test/runs/%s/%s", runID, filename), nil
}

func (s *fakeArtifactStore) uploaded(filename string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ct, ok := s.contentType[filename]
	return ct, ok
}

func testTranscript(durationSeconds float64) *entities.Transcript {
	texts := []string{
		"welcome and agenda",
		"first concept introduced",
		"worked example on the board",
		"second concept with demo",
		"student questions",
		"recap and homework",
	}
	sixth := durationSeconds / 6
	segments := make([]entities.Segment, len(texts))
	for i, text := range texts {
		speaker := "A"
		if i >= 4 {
			speaker = "B"
		}
		segments[i] = entities.Segment{
			Start:   float64(i) * sixth,
			End:     float64(i+1) * sixth,
			Text:    text,
			Speaker: speaker,
		}
	}
	return entities.NewTranscript(segments)
}

func testServiceConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RunTimeout: 10 * time.Second},
		Chunking: config.ChunkingConfig{
			TargetBlockDuration:  30 * time.Minute,
			MinLastBlockDuration: 10 * time.Minute,
		},
	}
}

func newTestService(transcriber Transcriber, client ScoringClient, runs repositories.RunRepository, artifacts repositories.ArtifactRepository) Service {
	logger := zap.NewNop()
	analyzer := NewAnalyzer(client, 2, 0, false, logger)
	return NewAnalysisService(transcriber, analyzer, report.NewFormatter(logger), runs, artifacts, nil, testServiceConfig(), logger)
}

func waitForTerminal(t *testing.T, svc Service, id string) *entities.AnalysisRun {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		run, err := svc.GetRun(context.Background(), id)
		if err != nil {
			t.Fatalf("GetRun(%s): %v", id, err)
		}
		if run.Status == entities.RunStatusCompleted || run.Status == entities.RunStatusFailed {
			return run
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("run %s never reached a terminal status", id)
	return nil
}

func TestStartRun_CompletesAndUploadsArtifacts(t *testing.T) {
	transcriber := transcriberFunc(func(_ context.Context, mediaURL string) (*entities.Transcript, error) {
		if mediaURL != "https://recordings.test/lecture.mp4" {
			return nil, fmt.Errorf("unexpected media URL %q", mediaURL)
		}
		return testTranscript(3600), nil
	})
	payload := assessmentWith(t, 4.0, "clear agenda")
	client := scoringClientFunc(func(context.Context, string, string) (string, error) {
		return payload, nil
	})
	runs := newFakeRunStore()
	artifacts := &fakeArtifactStore{}
	svc := newTestService(transcriber, client, runs, artifacts)

	meta := entities.RunMetadata{Topic: "Operating Systems", Host: "Prof. Varga", DurationMinutes: 60}
	run, err := svc.StartRun(context.Background(), "https://recordings.test/lecture.mp4", meta)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected a run ID")
	}
	if run.Status != entities.RunStatusQueued {
		t.Fatalf("initial status = %q, want %q", run.Status, entities.RunStatusQueued)
	}

	final := waitForTerminal(t, svc, run.ID)
	if final.Status != entities.RunStatusCompleted {
		t.Fatalf("final status = %q (error: %s)", final.Status, final.Error)
	}
	if final.Result == nil {
		t.Fatal("completed run has no result")
	}
	if final.Result.OverallScore != 4.0 {
		t.Errorf("overall score = %v, want 4.0", final.Result.OverallScore)
	}
	if final.Result.BlocksAnalyzed != 2 {
		t.Errorf("blocks analyzed = %d, want 2", final.Result.BlocksAnalyzed)
	}
	if final.Metadata.GeneratedAt.IsZero() {
		t.Error("metadata GeneratedAt was never set")
	}

	if final.Artifacts == nil {
		t.Fatal("completed run has no artifacts")
	}
	for name, url := range map[string]string{
		"report.md":   final.Artifacts.MarkdownURL,
		"report.json": final.Artifacts.JSONURL,
		"report.docx": final.Artifacts.DocumentURL,
	} {
		if !strings.HasSuffix(url, name) {
			t.Errorf("%s URL = %q", name, url)
		}
	}
	if final.Artifacts.DocumentSkipped || final.Artifacts.Warning != "" {
		t.Errorf("unexpected degradation: skipped=%v warning=%q", final.Artifacts.DocumentSkipped, final.Artifacts.Warning)
	}

	wantTypes := map[string]string{
		"report.md":   "text/markdown",
		"report.json": "application/json",
		"report.docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	for name, want := range wantTypes {
		got, ok := artifacts.uploaded(name)
		if !ok {
			t.Errorf("%s was never uploaded", name)
			continue
		}
		if got != want {
			t.Errorf("%s content type = %q, want %q", name, got, want)
		}
	}

	wantStatuses := []string{
		entities.RunStatusQueued,
		entities.RunStatusTranscribing,
		entities.RunStatusAnalyzing,
		entities.RunStatusCompleted,
	}
	got := runs.statusLog()
	if len(got) != len(wantStatuses) {
		t.Fatalf("status log = %v, want %v", got, wantStatuses)
	}
	for i := range wantStatuses {
		if got[i] != wantStatuses[i] {
			t.Fatalf("status log = %v, want %v", got, wantStatuses)
		}
	}
}

func TestStartRun_TranscriptionFailureMarksRunFailed(t *testing.T) {
	transcriber := transcriberFunc(func(context.Context, string) (*entities.Transcript, error) {
		return nil, errors.New("recording unavailable")
	})
	client := scoringClientFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("should not be called")
	})
	runs := newFakeRunStore()
	svc := newTestService(transcriber, client, runs, nil)

	run, err := svc.StartRun(context.Background(), "https://recordings.test/gone.mp4", entities.RunMetadata{})
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	final := waitForTerminal(t, svc, run.ID)
	if final.Status != entities.RunStatusFailed {
		t.Fatalf("final status = %q, want failed", final.Status)
	}
	if !strings.Contains(final.Error, "transcription failed") {
		t.Errorf("run error = %q, want transcription failure", final.Error)
	}
	if final.Result != nil {
		t.Error("failed run carries a result")
	}
}

func TestStartRun_UploadFailureDegradesToInlineResult(t *testing.T) {
	transcriber := transcriberFunc(func(context.Context, string) (*entities.Transcript, error) {
		return testTranscript(1800), nil
	})
	payload := assessmentWith(t, 3.5)
	client := scoringClientFunc(func(context.Context, string, string) (string, error) {
		return payload, nil
	})
	runs := newFakeRunStore()
	artifacts := &fakeArtifactStore{err: errors.New("bucket offline")}
	svc := newTestService(transcriber, client, runs, artifacts)

	run, err := svc.StartRun(context.Background(), "https://recordings.test/short.mp4", entities.RunMetadata{})
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	final := waitForTerminal(t, svc, run.ID)
	if final.Status != entities.RunStatusCompleted {
		t.Fatalf("final status = %q (error: %s)", final.Status, final.Error)
	}
	if final.Result == nil {
		t.Fatal("run should keep the inline result when uploads fail")
	}
	if final.Artifacts.MarkdownURL != "" || final.Artifacts.JSONURL != "" || final.Artifacts.DocumentURL != "" {
		t.Errorf("artifact URLs should be empty, got %+v", final.Artifacts)
	}
	if !strings.Contains(final.Artifacts.Warning, "upload failed") {
		t.Errorf("warning = %q, want upload failure", final.Artifacts.Warning)
	}
}

func TestStartTranscriptRun_SkipsTranscription(t *testing.T) {
	transcriber := transcriberFunc(func(context.Context, string) (*entities.Transcript, error) {
		return nil, errors.New("transcriber should not be called")
	})
	payload := assessmentWith(t, 4.0)
	client := scoringClientFunc(func(context.Context, string, string) (string, error) {
		return payload, nil
	})
	runs := newFakeRunStore()
	svc := newTestService(transcriber, client, runs, nil)

	run, err := svc.StartTranscriptRun(context.Background(), testTranscript(1800), entities.RunMetadata{Topic: "Networks"})
	if err != nil {
		t.Fatalf("StartTranscriptRun: %v", err)
	}

	final := waitForTerminal(t, svc, run.ID)
	if final.Status != entities.RunStatusCompleted {
		t.Fatalf("final status = %q (error: %s)", final.Status, final.Error)
	}

	wantStatuses := []string{
		entities.RunStatusQueued,
		entities.RunStatusAnalyzing,
		entities.RunStatusCompleted,
	}
	got := runs.statusLog()
	if len(got) != len(wantStatuses) {
		t.Fatalf("status log = %v, want %v", got, wantStatuses)
	}
	for i := range wantStatuses {
		if got[i] != wantStatuses[i] {
			t.Fatalf("status log = %v, want %v", got, wantStatuses)
		}
	}
}

func TestStartTranscriptRun_EmptyTranscript(t *testing.T) {
	client := scoringClientFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("should not be called")
	})
	svc := newTestService(nil, client, newFakeRunStore(), nil)

	_, err := svc.StartTranscriptRun(context.Background(), entities.NewTranscript(nil), entities.RunMetadata{})
	if !errors.Is(err, entities.ErrEmptyTranscript) {
		t.Fatalf("err = %v, want ErrEmptyTranscript", err)
	}
}

func TestStartRun_RequiresRecordingURL(t *testing.T) {
	transcriber := transcriberFunc(func(context.Context, string) (*entities.Transcript, error) {
		return testTranscript(600), nil
	})
	client := scoringClientFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("should not be called")
	})
	svc := newTestService(transcriber, client, newFakeRunStore(), nil)

	if _, err := svc.StartRun(context.Background(), "", entities.RunMetadata{}); err == nil {
		t.Fatal("expected an error for a blank recording URL")
	}
}

func TestStartRun_WithoutTranscriber(t *testing.T) {
	client := scoringClientFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("should not be called")
	})
	svc := newTestService(nil, client, newFakeRunStore(), nil)

	_, err := svc.StartRun(context.Background(), "https://recordings.test/lecture.mp4", entities.RunMetadata{})
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("err = %v, want missing-provider error", err)
	}
}

func TestAnalyzeTranscript_ReturnsRenderedArtifacts(t *testing.T) {
	payload := assessmentWith(t, 4.2, "vivid examples")
	client := scoringClientFunc(func(context.Context, string, string) (string, error) {
		return payload, nil
	})
	runs := newFakeRunStore()
	svc := newTestService(nil, client, runs, nil)

	meta := entities.RunMetadata{Topic: "Databases"}
	artifacts, err := svc.AnalyzeTranscript(context.Background(), testTranscript(3600), meta)
	if err != nil {
		t.Fatalf("AnalyzeTranscript: %v", err)
	}

	if !strings.Contains(artifacts.Markdown, "# Lecture Feedback: Databases") {
		t.Error("markdown is missing the report title")
	}
	var payload2 struct {
		OverallScore float64 `json:"overall_score"`
	}
	if err := json.Unmarshal(artifacts.JSON, &payload2); err != nil {
		t.Fatalf("report JSON does not parse: %v", err)
	}
	if payload2.OverallScore != 4.2 {
		t.Errorf("overall score in JSON = %v, want 4.2", payload2.OverallScore)
	}
	if len(artifacts.Document) == 0 {
		t.Error("document artifact is empty")
	}
	if n := len(runs.statusLog()); n != 0 {
		t.Errorf("synchronous analysis persisted %d run states", n)
	}
}

func TestAnalyzeTranscript_EmptyTranscript(t *testing.T) {
	client := scoringClientFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("should not be called")
	})
	svc := newTestService(nil, client, newFakeRunStore(), nil)

	_, err := svc.AnalyzeTranscript(context.Background(), entities.NewTranscript(nil), entities.RunMetadata{})
	if !errors.Is(err, entities.ErrEmptyTranscript) {
		t.Fatalf("err = %v, want ErrEmptyTranscript", err)
	}
}

func TestGetRun_Unknown(t *testing.T) {
	client := scoringClientFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("should not be called")
	})
	svc := newTestService(nil, client, newFakeRunStore(), nil)

	_, err := svc.GetRun(context.Background(), "missing")
	if !errors.Is(err, entities.ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestGetRunReport_RendersCompletedRun(t *testing.T) {
	payload := assessmentWith(t, 4.0, "clear agenda")
	client := scoringClientFunc(func(context.Context, string, string) (string, error) {
		return payload, nil
	})
	runs := newFakeRunStore()
	svc := newTestService(nil, client, runs, nil)

	run, err := svc.StartTranscriptRun(context.Background(), testTranscript(1800), entities.RunMetadata{Topic: "Networks"})
	if err != nil {
		t.Fatalf("StartTranscriptRun: %v", err)
	}
	waitForTerminal(t, svc, run.ID)

	artifacts, err := svc.GetRunReport(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("GetRunReport: %v", err)
	}
	if !strings.Contains(artifacts.Markdown, "# Lecture Feedback: Networks") {
		t.Error("markdown is missing the report title")
	}
	var decoded struct {
		OverallScore float64 `json:"overall_score"`
	}
	if err := json.Unmarshal(artifacts.JSON, &decoded); err != nil {
		t.Fatalf("report JSON does not parse: %v", err)
	}
	if decoded.OverallScore != 4.0 {
		t.Errorf("overall score in JSON = %v, want 4.0", decoded.OverallScore)
	}
}

func TestGetRunReport_NotReady(t *testing.T) {
	client := scoringClientFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("should not be called")
	})
	runs := newFakeRunStore()
	svc := newTestService(nil, client, runs, nil)

	queued := entities.NewAnalysisRun("https://recordings.test/pending.mp4", entities.RunMetadata{})
	if err := runs.Save(context.Background(), queued); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	_, err := svc.GetRunReport(context.Background(), queued.ID)
	if !errors.Is(err, entities.ErrRunNotReady) {
		t.Fatalf("err = %v, want ErrRunNotReady", err)
	}
}
