package subtitles

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the per-track failure taxonomy. None of these are
// job-fatal; the orchestrator decides whether a missing track aborts or
// degrades the job.
var (
	// ErrFetch marks network or HTTP status failures.
	ErrFetch = errors.New("subtitle fetch failed")
	// ErrFormat marks subtitle documents that cannot be parsed.
	ErrFormat = errors.New("subtitle format invalid")
	// ErrDecryption marks cipher, key or text-decoding failures.
	ErrDecryption = errors.New("subtitle decryption failed")
	// ErrPayload marks malformed intermediate JSON payloads.
	ErrPayload = errors.New("subtitle payload invalid")
)

// wrap tags an error with a taxonomy marker and track context so operator
// logs can name the language and URL that failed.
func wrap(marker error, track, url string, err error) error {
	parts := make([]string, 0, 2)
	if track = strings.TrimSpace(track); track != "" {
		parts = append(parts, track)
	}
	if url = strings.TrimSpace(url); url != "" {
		parts = append(parts, url)
	}
	detail := strings.Join(parts, ": ")
	if err != nil {
		if detail != "" {
			return fmt.Errorf("%w: %s: %w", marker, detail, err)
		}
		return fmt.Errorf("%w: %w", marker, err)
	}
	if detail != "" {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return marker
}
