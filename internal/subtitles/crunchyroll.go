package subtitles

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"crd/internal/ass"
	"crd/internal/fileutil"
)

// originalScriptTag is stamped into every rewritten script's info block.
const originalScriptTag = "crd"

// TrackRequest identifies one subtitle language/purpose variant on the
// plaintext path.
type TrackRequest struct {
	// Format is the file extension of the source script, normally "ass".
	Format   string
	Language string
	URL      string
	// IsDub marks forced subtitles that accompany a dubbed audio track; the
	// output file name carries a -FORCED suffix for them.
	IsDub bool
}

// DownloadCrunchyroll fetches a plaintext subtitle script, rescales its
// positioning to the target canvas, normalizes recognized styles and writes
// the result to {dir}/{language}[-FORCED].{format}. The returned path points
// at the written file. Failures are per-track and wrap ErrFetch or
// ErrFormat.
func (s *Service) DownloadCrunchyroll(ctx context.Context, req TrackRequest, dir string) (string, error) {
	logger := s.logger.With(
		"request_id", uuid.NewString(),
		"language", req.Language,
		"format", req.Format,
	)

	body, err := s.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		logger.Warn("subtitle fetch failed", "url", req.URL, "error", err)
		return "", wrap(ErrFetch, req.Language, req.URL, err)
	}

	resampled := s.resampler.Resample(body)

	doc, err := ass.Parse(resampled)
	if err != nil {
		logger.Warn("subtitle parse failed", "url", req.URL, "error", err)
		return "", wrap(ErrFormat, req.Language, req.URL, err)
	}

	doc.Info.Set("Original Script", originalScriptTag)
	doc.Info.Set("PlayResX", strconv.Itoa(s.render.TargetWidth))
	doc.Info.Set("PlayResY", strconv.Itoa(s.render.TargetHeight))

	NormalizeStyles(doc, s.rules)

	path := filepath.Join(dir, trackFileName(req))
	if err := fileutil.WriteFileAtomic(path, []byte(ass.Stringify(doc)), 0o644); err != nil {
		return "", fmt.Errorf("write subtitle %s: %w", path, err)
	}

	logger.Info("subtitle downloaded", "path", path)
	return path, nil
}

func trackFileName(req TrackRequest) string {
	name := req.Language
	if req.IsDub {
		name += "-FORCED"
	}
	return name + "." + req.Format
}
