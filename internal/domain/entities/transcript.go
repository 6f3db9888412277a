package entities

import "sort"

// Segment represents a contiguous speech segment with second-precision timestamps
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Duration returns the segment span in seconds
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Transcript is the normalized timestamped transcript of one recording.
// Segments are ordered by start time; consumers treat it as read-only.
type Transcript struct {
	Segments []Segment `json:"segments"`
	Duration float64   `json:"duration"`
	Language string    `json:"language,omitempty"`
}

// NewTranscript normalizes provider output into a Transcript. Segments are
// copied and ordered by start time; the total duration is the largest end
// offset (segments may leave gaps, so the last segment is not authoritative).
func NewTranscript(segments []Segment) *Transcript {
	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	var duration float64
	for _, seg := range ordered {
		if seg.End > duration {
			duration = seg.End
		}
	}

	return &Transcript{Segments: ordered, Duration: duration}
}

// Empty reports whether the transcript has no segments
func (t *Transcript) Empty() bool {
	return len(t.Segments) == 0
}
