package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DownloadDir string `toml:"download_dir"`
	InstallDir  string `toml:"install_dir"`
	LogDir      string `toml:"log_dir"`
	DataDir     string `toml:"data_dir"`
}

// Downloads contains defaults applied when enqueueing episodes.
type Downloads struct {
	Quality      int    `toml:"quality"`
	AudioQuality int    `toml:"audio_quality"`
	Format       string `toml:"format"`
}

// Render describes the source and target canvas resolutions used when
// resampling positioned subtitle lines.
type Render struct {
	SourceWidth  int `toml:"source_width"`
	SourceHeight int `toml:"source_height"`
	TargetWidth  int `toml:"target_width"`
	TargetHeight int `toml:"target_height"`
}

// Styles describes the house style applied to recognized subtitle styles.
type Styles struct {
	LegacyFont          string `toml:"legacy_font"`
	PlaceholderStyle    string `toml:"placeholder_style"`
	LegacyFontSize      int    `toml:"legacy_font_size"`
	PlaceholderFontSize int    `toml:"placeholder_font_size"`
	Outline             int    `toml:"outline"`
	MarginV             int    `toml:"margin_v"`
	MarginHorizontal    int    `toml:"margin_horizontal"`
}

// Subtitles contains configuration for the subtitle pipeline.
type Subtitles struct {
	Render         Render `toml:"render"`
	Styles         Styles `toml:"styles"`
	DefaultLocale  string `toml:"default_locale"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for crd.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Downloads Downloads `toml:"downloads"`
	Subtitles Subtitles `toml:"subtitles"`
	Logging   Logging   `toml:"logging"`
}

// envOverrides mirrors the subset of settings that may be overridden from the
// environment (CRD_DOWNLOAD_DIR, CRD_DATA_DIR, CRD_LOG_LEVEL, CRD_LOG_FORMAT).
type envOverrides struct {
	DownloadDir string `envconfig:"DOWNLOAD_DIR"`
	DataDir     string `envconfig:"DATA_DIR"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	LogFormat   string `envconfig:"LOG_FORMAT"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/crd/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and environment overrides applied.
// The second return value is the resolved path, the third reports whether a
// file was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func (c *Config) applyEnv() error {
	var overrides envOverrides
	if err := envconfig.Process("crd", &overrides); err != nil {
		return fmt.Errorf("read env overrides: %w", err)
	}
	if overrides.DownloadDir != "" {
		c.Paths.DownloadDir = overrides.DownloadDir
	}
	if overrides.DataDir != "" {
		c.Paths.DataDir = overrides.DataDir
	}
	if overrides.LogLevel != "" {
		c.Logging.Level = overrides.LogLevel
	}
	if overrides.LogFormat != "" {
		c.Logging.Format = overrides.LogFormat
	}
	return nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.DownloadDir,
		&c.Paths.InstallDir,
		&c.Paths.LogDir,
		&c.Paths.DataDir,
	} {
		if strings.TrimSpace(*field) == "" {
			continue
		}
		expanded, err := ExpandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	c.Downloads.Format = strings.ToLower(strings.TrimSpace(c.Downloads.Format))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	if c.Paths.DownloadDir == "" {
		return errors.New("paths.download_dir must be set")
	}
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	switch c.Downloads.Format {
	case "mp4", "mkv":
	default:
		return fmt.Errorf("downloads.format: unsupported container %q", c.Downloads.Format)
	}
	switch c.Downloads.Quality {
	case 1080, 720, 480, 360, 240:
	default:
		return fmt.Errorf("downloads.quality: unsupported value %d", c.Downloads.Quality)
	}
	render := c.Subtitles.Render
	if render.SourceWidth <= 0 || render.SourceHeight <= 0 || render.TargetWidth <= 0 || render.TargetHeight <= 0 {
		return errors.New("subtitles.render: all dimensions must be positive")
	}
	if c.Subtitles.Styles.LegacyFont == "" {
		return errors.New("subtitles.styles.legacy_font must be set")
	}
	return nil
}

// EnsureDirectories creates the directories crd needs at runtime.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DownloadDir, c.Paths.LogDir, c.Paths.DataDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("crd.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ExpandPath resolves ~ and relative segments into an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
