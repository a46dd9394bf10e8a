package subtitles

import (
	"fmt"
	"math"
)

// Timecode converts a fractional-second timestamp into the HH:MM:SS.CC form
// used by ASS dialogue lines. Centiseconds are derived by rounding the
// millisecond component, then rounding again to centiseconds; when that
// lands on a full second the carry propagates upward instead of emitting an
// out-of-range component. Input must be finite and non-negative.
func Timecode(seconds float64) string {
	whole := math.Floor(seconds)
	millis := math.Round((seconds - whole) * 1000)
	centis := int(math.Round(millis / 10))

	total := int(whole)
	if centis >= 100 {
		centis -= 100
		total++
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	return fmt.Sprintf("%02d:%02d:%02d.%02d", hours, minutes, secs, centis)
}
