package subtitles

import (
	"log/slog"
	"time"

	"crd/internal/config"
	"crd/internal/logging"
)

// Service runs subtitle downloads for both source services.
type Service struct {
	logger    *slog.Logger
	fetcher   Fetcher
	resampler *Resampler
	rules     StyleRules
	render    RenderConfig
	locale    string
}

// Option customizes a Service.
type Option func(*Service)

// WithFetcher overrides the HTTP fetcher, mainly for tests.
func WithFetcher(fetcher Fetcher) Option {
	return func(s *Service) {
		if fetcher != nil {
			s.fetcher = fetcher
		}
	}
}

// NewService builds a subtitle service from configuration.
func NewService(cfg *config.Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	render := renderConfigFrom(cfg.Subtitles.Render)
	svc := &Service{
		logger:    logger,
		fetcher:   NewHTTPFetcher(time.Duration(cfg.Subtitles.RequestTimeout) * time.Second),
		resampler: NewResampler(render),
		rules:     styleRulesFrom(cfg.Subtitles.Styles),
		render:    render,
		locale:    cfg.Subtitles.DefaultLocale,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}
