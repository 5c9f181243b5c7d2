package config

import (
	"errors"
	"fmt"
	"slices"
)

var supportedImageExts = []string{"png", "jpg", "jpeg", "bmp", "tif", "tiff"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExtract(); err != nil {
		return err
	}
	if err := c.validateProfiles(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExtract() error {
	if c.Extract.FPS <= 0 {
		return errors.New("extract.fps must be positive")
	}
	if c.Extract.StartNumber < 0 {
		return errors.New("extract.start_number must not be negative")
	}
	if !slices.Contains(supportedImageExts, c.Extract.ImageExt) {
		return fmt.Errorf("extract.image_ext %q is not supported (use one of %v)", c.Extract.ImageExt, supportedImageExts)
	}
	switch c.Extract.FilterMode {
	case "ffmpeg", "native":
	default:
		return fmt.Errorf("extract.filter_mode must be \"ffmpeg\" or \"native\", got %q", c.Extract.FilterMode)
	}
	if c.Extract.Contrast < -100 || c.Extract.Contrast > 100 {
		return errors.New("extract.contrast must be between -100 and 100")
	}
	if c.Extract.Threshold < 0 || c.Extract.Threshold > 255 {
		return errors.New("extract.threshold must be between 0 and 255")
	}
	if c.Extract.TimeoutSeconds < 0 {
		return errors.New("extract.timeout_seconds must not be negative")
	}
	if c.Extract.ValidateRegionColor && c.Extract.FilterMode != "native" {
		return errors.New("extract.validate_region_color requires extract.filter_mode = \"native\"")
	}
	return nil
}

func (c *Config) validateProfiles() error {
	if len(c.Profiles) == 0 {
		return errors.New("at least one [profiles.<name>] table is required")
	}
	for name, layout := range c.Profiles {
		if err := layout.Validate(0, 0); err != nil {
			return fmt.Errorf("profiles.%s: %w", name, err)
		}
	}
	if _, err := c.Layout(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOCR() error {
	if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
		return errors.New("ocr.page_seg_mode must be between 0 and 13")
	}
	if c.OCR.Workers < 0 {
		return errors.New("ocr.workers must not be negative")
	}
	if c.OCR.TimeoutSeconds < 0 {
		return errors.New("ocr.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.Indent != 2 && c.Output.Indent != 4 {
		return fmt.Errorf("output.indent must be 2 or 4, got %d", c.Output.Indent)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}
