package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
)

// Chunk partitions a transcript into bounded-duration blocks aligned to
// segment boundaries. Segments accumulate into the current block until the
// next one would push the block span strictly above target; a single segment
// longer than target is placed alone in its own block, never split mid-text.
// If the trailing block is shorter than minLast and more than one block
// exists, it merges into the previous block. Pure function.
func Chunk(t *entities.Transcript, target, minLast time.Duration) ([]entities.Block, error) {
	if t == nil || t.Empty() {
		return nil, entities.ErrEmptyTranscript
	}
	if target <= 0 {
		return nil, fmt.Errorf("target block duration must be positive, got %v", target)
	}

	targetSec := target.Seconds()

	var groups [][]entities.Segment
	var current []entities.Segment
	for _, seg := range t.Segments {
		if len(current) > 0 && seg.End-current[0].Start > targetSec {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, seg)
	}
	groups = append(groups, current)

	// A near-empty trailing block would weigh as much as a full one during
	// aggregation, so fold it into its predecessor.
	if n := len(groups); n > 1 && minLast > 0 {
		last := groups[n-1]
		if last[len(last)-1].End-last[0].Start < minLast.Seconds() {
			groups[n-2] = append(groups[n-2], last...)
			groups = groups[:n-1]
		}
	}

	blocks := make([]entities.Block, len(groups))
	for i, group := range groups {
		end := group[len(group)-1].End
		if i < len(groups)-1 {
			// Blocks tile the timeline: silence before the next block's
			// first segment belongs to the current block.
			end = groups[i+1][0].Start
		}
		blocks[i] = entities.Block{
			Index:        i,
			Start:        group[0].Start,
			End:          end,
			Text:         joinSegments(group),
			SegmentCount: len(group),
		}
	}

	return blocks, nil
}

func joinSegments(segs []entities.Segment) string {
	var b strings.Builder
	for i, seg := range segs {
		if i > 0 {
			b.WriteString("\n")
		}
		if seg.Speaker != "" {
			b.WriteString(seg.Speaker)
			b.WriteString(": ")
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
