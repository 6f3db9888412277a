package analysis

import (
	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
)

// SegmentRequest represents one timestamped transcript segment
type SegmentRequest struct {
	Start   float64 `json:"start" validate:"gte=0"`
	End     float64 `json:"end" validate:"gtfield=Start"`
	Text    string  `json:"text" validate:"required"`
	Speaker string  `json:"speaker,omitempty"`
}

// RecordingWebhookRequest represents the recording-ready payload posted by
// the meeting platform. It carries either a downloadable recording URL or
// the transcript segments themselves.
type RecordingWebhookRequest struct {
	VideoURL  string           `json:"video_url" validate:"required_without=Segments,omitempty,url"`
	Segments  []SegmentRequest `json:"segments,omitempty" validate:"required_without=VideoURL,omitempty,min=1,dive"`
	Topic     string           `json:"topic"`
	HostEmail string           `json:"host_email" validate:"omitempty,email"`
	MeetingID string           `json:"meeting_id"`
	Duration  int              `json:"duration" validate:"omitempty,gte=0"`
	StartTime string           `json:"start_time"`
	ShareURL  string           `json:"share_url" validate:"omitempty,url"`
}

// Metadata maps the webhook fields onto run metadata
func (r *RecordingWebhookRequest) Metadata() entities.RunMetadata {
	return entities.RunMetadata{
		Topic:           r.Topic,
		Host:            r.HostEmail,
		MeetingID:       r.MeetingID,
		DurationMinutes: r.Duration,
		StartTime:       r.StartTime,
		ShareURL:        r.ShareURL,
	}
}

// InlineAnalysisRequest represents the request for a synchronous analysis
// of transcript segments supplied in the body
type InlineAnalysisRequest struct {
	Topic    string           `json:"topic"`
	Host     string           `json:"host"`
	Segments []SegmentRequest `json:"segments" validate:"required,min=1,dive"`
}

// Metadata maps the request fields onto run metadata
func (r *InlineAnalysisRequest) Metadata() entities.RunMetadata {
	return entities.RunMetadata{
		Topic: r.Topic,
		Host:  r.Host,
	}
}

// ToSegments converts payload segments into domain segments
func ToSegments(in []SegmentRequest) []entities.Segment {
	segments := make([]entities.Segment, len(in))
	for i, seg := range in {
		segments[i] = entities.Segment{
			Start:   seg.Start,
			End:     seg.End,
			Text:    seg.Text,
			Speaker: seg.Speaker,
		}
	}
	return segments
}
