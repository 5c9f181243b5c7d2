package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtract()
	if err := c.normalizeOCR(); err != nil {
		return err
	}
	if err := c.normalizeExport(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.VideosDir) == "" {
		c.Paths.VideosDir = defaultVideosDir
	}
	if c.Paths.VideosDir, err = expandPath(c.Paths.VideosDir); err != nil {
		return fmt.Errorf("paths.videos_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.FramesDir) == "" {
		c.Paths.FramesDir = defaultFramesDir
	}
	if c.Paths.FramesDir, err = expandPath(c.Paths.FramesDir); err != nil {
		return fmt.Errorf("paths.frames_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputFile) == "" {
		c.Paths.OutputFile = defaultOutputFile
	}
	if c.Paths.OutputFile, err = expandPath(c.Paths.OutputFile); err != nil {
		return fmt.Errorf("paths.output_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeExtract() {
	c.Extract.VideoExt = strings.ToLower(strings.TrimSpace(c.Extract.VideoExt))
	if c.Extract.VideoExt == "" {
		c.Extract.VideoExt = defaultVideoExt
	}
	if !strings.HasPrefix(c.Extract.VideoExt, ".") {
		c.Extract.VideoExt = "." + c.Extract.VideoExt
	}
	c.Extract.ImageExt = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Extract.ImageExt)), ".")
	if c.Extract.ImageExt == "" {
		c.Extract.ImageExt = defaultImageExt
	}
	c.Extract.FilterMode = strings.ToLower(strings.TrimSpace(c.Extract.FilterMode))
	if c.Extract.FilterMode == "" {
		c.Extract.FilterMode = defaultFilterMode
	}
	c.Extract.Profile = strings.TrimSpace(c.Extract.Profile)
	if c.Extract.Profile == "" {
		c.Extract.Profile = defaultProfile
	}
	c.Extract.FFmpegBinary = strings.TrimSpace(c.Extract.FFmpegBinary)
	if c.Extract.FFmpegBinary == "" {
		c.Extract.FFmpegBinary = defaultFFmpegBinary
	}
	c.Extract.FFprobeBinary = strings.TrimSpace(c.Extract.FFprobeBinary)
	if c.Extract.FFprobeBinary == "" {
		c.Extract.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeOCR() error {
	c.OCR.Language = strings.TrimSpace(c.OCR.Language)
	if c.OCR.Language == "" {
		c.OCR.Language = defaultOCRLanguage
	}
	if c.OCR.Whitelist == "" {
		c.OCR.Whitelist = defaultWhitelist
	}
	if c.OCR.TessdataPrefix != "" {
		var err error
		if c.OCR.TessdataPrefix, err = expandPath(c.OCR.TessdataPrefix); err != nil {
			return fmt.Errorf("ocr.tessdata_prefix: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeExport() error {
	if c.Export.SQLitePath != "" {
		var err error
		if c.Export.SQLitePath, err = expandPath(c.Export.SQLitePath); err != nil {
			return fmt.Errorf("export.sqlite_path: %w", err)
		}
	}
	c.Export.PostgresURL = strings.TrimSpace(c.Export.PostgresURL)
	if c.Export.PostgresURL == "" {
		if value, ok := os.LookupEnv("SCORE_OCR_POSTGRES_URL"); ok {
			c.Export.PostgresURL = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File != "" {
		var err error
		if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
