package config

const (
	defaultDownloadDir = "~/Downloads/crd"
	defaultLogDir      = "~/.local/share/crd/logs"
	defaultDataDir     = "~/.local/share/crd"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"

	defaultQuality      = 1080
	defaultAudioQuality = 2
	defaultFormat       = "mkv"

	// Authoring resolution observed in upstream subtitle scripts and the
	// canvas every normalized document is rendered against.
	defaultSourceWidth  = 640
	defaultSourceHeight = 360
	defaultTargetWidth  = 1920
	defaultTargetHeight = 1080

	defaultLegacyFont          = "Arial"
	defaultPlaceholderStyle    = "TypePlaceholder"
	defaultLegacyFontSize      = 54
	defaultPlaceholderFontSize = 57
	defaultOutline             = 4
	defaultMarginV             = 60
	defaultMarginHorizontal    = 30

	defaultSubtitleLocale = "de-DE"
	defaultRequestTimeout = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
			DataDir:     defaultDataDir,
		},
		Downloads: Downloads{
			Quality:      defaultQuality,
			AudioQuality: defaultAudioQuality,
			Format:       defaultFormat,
		},
		Subtitles: Subtitles{
			Render: Render{
				SourceWidth:  defaultSourceWidth,
				SourceHeight: defaultSourceHeight,
				TargetWidth:  defaultTargetWidth,
				TargetHeight: defaultTargetHeight,
			},
			Styles: Styles{
				LegacyFont:          defaultLegacyFont,
				PlaceholderStyle:    defaultPlaceholderStyle,
				LegacyFontSize:      defaultLegacyFontSize,
				PlaceholderFontSize: defaultPlaceholderFontSize,
				Outline:             defaultOutline,
				MarginV:             defaultMarginV,
				MarginHorizontal:    defaultMarginHorizontal,
			},
			DefaultLocale:  defaultSubtitleLocale,
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
