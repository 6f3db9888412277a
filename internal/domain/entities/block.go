package entities

import "fmt"

// Block is a bounded-duration contiguous slice of the transcript timeline,
// submitted to the scoring service as one unit. Blocks partition the
// transcript: contiguous, non-overlapping, ascending index order.
type Block struct {
	Index        int     `json:"index"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Text         string  `json:"text"`
	SegmentCount int     `json:"segment_count"`
}

// Duration returns the block span in seconds
func (b Block) Duration() float64 {
	return b.End - b.Start
}

// TimeRange formats the block span as HH:MM:SS-HH:MM:SS
func (b Block) TimeRange() string {
	return fmt.Sprintf("%s-%s", FormatClock(b.Start), FormatClock(b.End))
}

// FormatClock renders a second offset as HH:MM:SS
func FormatClock(seconds float64) string {
	s := int(seconds + 0.5)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
