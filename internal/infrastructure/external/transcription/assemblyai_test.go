package transcription

import (
	"errors"
	"testing"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
)

func strPtr(s string) *string { return &s }
func msPtr(v int64) *int64    { return &v }

func TestToTranscript(t *testing.T) {
	raw := &aai.Transcript{
		LanguageCode: aai.TranscriptLanguageCode("en"),
		Utterances: []aai.TranscriptUtterance{
			// Out of order on purpose; segment order must come out ascending
			{Speaker: strPtr("B"), Text: strPtr("second part"), Start: msPtr(600000), End: msPtr(1200000)},
			{Speaker: strPtr("A"), Text: strPtr("first part"), Start: msPtr(0), End: msPtr(600000)},
			{Speaker: strPtr("A"), Text: strPtr("   "), Start: msPtr(1200000), End: msPtr(1260000)},
		},
	}

	tr, err := toTranscript(raw)
	if err != nil {
		t.Fatalf("toTranscript failed: %v", err)
	}

	if len(tr.Segments) != 2 {
		t.Fatalf("got %d segments, want 2 (blank utterances dropped)", len(tr.Segments))
	}
	first := tr.Segments[0]
	if first.Speaker != "A" || first.Text != "first part" {
		t.Errorf("segments not sorted by start: %+v", first)
	}
	if first.Start != 0 || first.End != 600 {
		t.Errorf("millisecond offsets not converted: start=%f end=%f", first.Start, first.End)
	}
	if tr.Duration != 1200 {
		t.Errorf("duration = %f, want 1200", tr.Duration)
	}
	if tr.Language != "en" {
		t.Errorf("language = %q, want en", tr.Language)
	}
}

func TestToTranscript_NoSpeech(t *testing.T) {
	_, err := toTranscript(&aai.Transcript{})
	if !errors.Is(err, entities.ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
}
