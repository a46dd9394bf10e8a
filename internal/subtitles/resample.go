package subtitles

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"crd/internal/config"
)

// RenderConfig describes the coordinate spaces a resample maps between.
type RenderConfig struct {
	SourceWidth  int
	SourceHeight int
	TargetWidth  int
	TargetHeight int
}

func renderConfigFrom(cfg config.Render) RenderConfig {
	return RenderConfig{
		SourceWidth:  cfg.SourceWidth,
		SourceHeight: cfg.SourceHeight,
		TargetWidth:  cfg.TargetWidth,
		TargetHeight: cfg.TargetHeight,
	}
}

var posDirective = regexp.MustCompile(`\\pos\((\d+),(\d+)\)`)

// Resampler rewrites inline \pos(X,Y) directives from the source canvas to
// the target canvas.
type Resampler struct {
	cfg RenderConfig
}

// NewResampler builds a resampler for the given coordinate spaces.
func NewResampler(cfg RenderConfig) *Resampler {
	return &Resampler{cfg: cfg}
}

// Resample rewrites positioning directives line by line. Only the first
// directive on each line is rewritten, matching the output of the legacy
// pipeline; lines without a directive, and directives that do not match the
// numeric pattern, pass through untouched.
func (r *Resampler) Resample(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		loc := posDirective.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		x, errX := strconv.Atoi(line[loc[2]:loc[3]])
		y, errY := strconv.Atoi(line[loc[4]:loc[5]])
		if errX != nil || errY != nil {
			continue
		}
		newX := int(math.Round(float64(x) / float64(r.cfg.SourceWidth) * float64(r.cfg.TargetWidth)))
		newY := int(math.Round(float64(y) / float64(r.cfg.SourceHeight) * float64(r.cfg.TargetHeight)))
		lines[i] = line[:loc[0]] + fmt.Sprintf(`\pos(%d,%d)`, newX, newY) + line[loc[1]:]
	}
	return strings.Join(lines, "\n")
}
