package transcription

import (
	"context"
	"fmt"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
	"github.com/lecture-insight-team/lecture-insight/pkg/config"
	"github.com/lecture-insight-team/lecture-insight/pkg/jobcontext"
)

// Consecutive poll failures tolerated before the run gives up. A single
// flaky status call must not kill a transcription that is still running.
const maxPollErrors = 5

const defaultPollInterval = 5 * time.Second

// AssemblyAIProvider submits recording URLs to AssemblyAI and polls until
// the transcript is ready.
type AssemblyAIProvider struct {
	client       *aai.Client
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewAssemblyAIProvider creates the provider from configuration
func NewAssemblyAIProvider(cfg *config.AssemblyAIConfig, logger *zap.Logger) *AssemblyAIProvider {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &AssemblyAIProvider{
		client:       aai.NewClient(cfg.APIKey),
		pollInterval: interval,
		logger:       logger,
	}
}

// TranscribeURL submits the recording and blocks until the transcript is
// ready, the service reports an error, or ctx expires. Speaker labels are
// requested so segments carry speakers for the block text.
func (p *AssemblyAIProvider) TranscribeURL(ctx context.Context, mediaURL string) (*entities.Transcript, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels:     aai.Bool(true),
		LanguageDetection: aai.Bool(true),
	}

	submitted, err := p.client.Transcripts.SubmitFromURL(ctx, mediaURL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to submit recording for transcription: %w", err)
	}
	if submitted.ID == nil {
		return nil, fmt.Errorf("transcription service returned no transcript id")
	}
	transcriptID := *submitted.ID

	if p.logger != nil {
		p.logger.Info("🎙️ Transcription submitted",
			zap.String("transcript_id", transcriptID),
		)
	}

	return p.poll(ctx, transcriptID)
}

// poll checks the transcript status until it settles. Transient status-call
// failures are tolerated with growing spacing up to maxPollErrors in a row.
func (p *AssemblyAIProvider) poll(ctx context.Context, transcriptID string) (*entities.Transcript, error) {
	pollErrors := 0
	for {
		wait := p.pollInterval

		transcript, err := p.client.Transcripts.Get(ctx, transcriptID)
		switch {
		case err != nil:
			pollErrors++
			if pollErrors > maxPollErrors {
				return nil, fmt.Errorf("failed to poll transcription status: %w", err)
			}
			wait = jobcontext.CalculateBackoff(pollErrors, p.pollInterval)
			if p.logger != nil {
				p.logger.Warn("⚠️ Transcription status poll failed, will retry",
					zap.String("transcript_id", transcriptID),
					zap.Int("consecutive_errors", pollErrors),
					zap.Error(err),
				)
			}

		case transcript.Status == aai.TranscriptStatusCompleted:
			if p.logger != nil {
				p.logger.Info("✅ Transcription completed",
					zap.String("transcript_id", transcriptID),
				)
			}
			return toTranscript(&transcript)

		case transcript.Status == aai.TranscriptStatusError:
			msg := "transcription failed"
			if transcript.Error != nil {
				msg = *transcript.Error
			}
			return nil, fmt.Errorf("transcription failed: %s", msg)

		default:
			pollErrors = 0
			if p.logger != nil {
				p.logger.Debug("⏳ Transcription still processing",
					zap.String("transcript_id", transcriptID),
					zap.String("status", string(transcript.Status)),
				)
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// toTranscript maps the provider's utterances (millisecond offsets) onto
// transcript segments (second offsets).
func toTranscript(t *aai.Transcript) (*entities.Transcript, error) {
	segments := make([]entities.Segment, 0, len(t.Utterances))
	for _, utt := range t.Utterances {
		var seg entities.Segment
		if utt.Text != nil {
			seg.Text = *utt.Text
		}
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		if utt.Speaker != nil {
			seg.Speaker = *utt.Speaker
		}
		if utt.Start != nil {
			seg.Start = float64(*utt.Start) / 1000.0
		}
		if utt.End != nil {
			seg.End = float64(*utt.End) / 1000.0
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return nil, entities.ErrEmptyTranscript
	}

	tr := entities.NewTranscript(segments)
	if t.LanguageCode != "" {
		tr.Language = string(t.LanguageCode)
	}
	return tr, nil
}
