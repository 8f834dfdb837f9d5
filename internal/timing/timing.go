package timing

import (
	"math"
	"strings"

	"github.com/nguyentantai21042004/courseflow/internal/domain"
)

// wordsPerMinute is the narration reading rate used for playback estimates.
const wordsPerMinute = 150

// EstimateSeconds converts a narration script into an estimated playback
// duration. Non-empty scripts never estimate to zero.
func EstimateSeconds(script string) int {
	words := len(strings.Fields(script))
	if words == 0 {
		return 0
	}

	seconds := int(math.Round(float64(words) / wordsPerMinute * 60))
	if seconds < 1 {
		return 1
	}
	return seconds
}

// TotalSeconds sums the per-segment estimates for a whole course.
func TotalSeconds(segments []domain.Segment) int {
	total := 0
	for _, seg := range segments {
		total += EstimateSeconds(seg.Script)
	}
	return total
}

// DisplayMinutes rounds a seconds total to whole minutes for reporting only;
// persisted values stay in seconds.
func DisplayMinutes(totalSeconds int) int {
	return int(math.Round(float64(totalSeconds) / 60))
}
