package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input and output locations.
type Paths struct {
	VideosDir  string `toml:"videos_dir"`
	FramesDir  string `toml:"frames_dir"`
	OutputFile string `toml:"output_file"`
}

// Extract contains frame extraction settings.
type Extract struct {
	VideoExt            string  `toml:"video_ext"`
	FPS                 float64 `toml:"fps"`
	StartNumber         int     `toml:"start_number"`
	ImageExt            string  `toml:"image_ext"`
	FilterMode          string  `toml:"filter_mode"`
	Contrast            float64 `toml:"contrast"`
	Threshold           int     `toml:"threshold"`
	Profile             string  `toml:"profile"`
	TimeoutSeconds      int     `toml:"timeout_seconds"`
	FFmpegBinary        string  `toml:"ffmpeg_binary"`
	FFprobeBinary       string  `toml:"ffprobe_binary"`
	KeepFrames          bool    `toml:"keep_frames"`
	ValidateRegionColor bool    `toml:"validate_region_color"`
}

// OCR contains Tesseract and worker pool settings.
type OCR struct {
	Language       string            `toml:"language"`
	PageSegMode    int               `toml:"page_seg_mode"`
	Whitelist      string            `toml:"whitelist"`
	TessdataPrefix string            `toml:"tessdata_prefix"`
	Workers        int               `toml:"workers"` // 0 = one per CPU
	TimeoutSeconds int               `toml:"timeout_seconds"`
	Variables      map[string]string `toml:"variables"`
}

// Output contains dataset serialization settings.
type Output struct {
	Indent int `toml:"indent"`
}

// Export contains optional database sinks. Empty values disable a sink.
type Export struct {
	SQLitePath  string `toml:"sqlite_path"`
	PostgresURL string `toml:"postgres_url"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File appends a copy of the log to this path. Empty disables it.
	File string `toml:"file"`
}

// Config encapsulates all configuration values for score-ocr.
type Config struct {
	Paths    Paths                        `toml:"paths"`
	Extract  Extract                      `toml:"extract"`
	Profiles map[string]scoreboard.Layout `toml:"profiles"`
	OCR      OCR                          `toml:"ocr"`
	Output   Output                       `toml:"output"`
	Export   Export                       `toml:"export"`
	Logging  Logging                      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/score-ocr/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded. It also reports the resolved path and
// whether a file was found there.
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
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	} else if path != "" {
		return nil, "", false, fmt.Errorf("config file %s not found", resolvedPath)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// Finalize normalizes and validates the config. Callers that modify a loaded
// config, for example from command-line flags, run it again.
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
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

	projectPath, err := filepath.Abs("score-ocr.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Layout returns the scoreboard geometry of the selected profile.
func (c *Config) Layout() (scoreboard.Layout, error) {
	layout, ok := c.Profiles[c.Extract.Profile]
	if !ok {
		return scoreboard.Layout{}, fmt.Errorf("extract.profile %q is not defined under [profiles]", c.Extract.Profile)
	}
	return layout, nil
}

// ExtractTimeout bounds each ffmpeg and ffprobe call.
func (c *Config) ExtractTimeout() time.Duration {
	return time.Duration(c.Extract.TimeoutSeconds) * time.Second
}

// RecognizeTimeout bounds each OCR call.
func (c *Config) RecognizeTimeout() time.Duration {
	return time.Duration(c.OCR.TimeoutSeconds) * time.Second
}

// LockPath returns the lock file guarding the output dataset.
func (c *Config) LockPath() string {
	return c.Paths.OutputFile + ".lock"
}

// Encode renders the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
// An existing file is never overwritten.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("config file %s already exists", path)
		}
		return fmt.Errorf("write sample config: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(sampleConfig); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
