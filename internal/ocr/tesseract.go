package ocr

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine runs Tesseract through gosseract.
type TesseractEngine struct {
	opts Options
}

// NewTesseractEngine creates an engine with the given options. Zero-valued
// fields fall back to DefaultOptions.
func NewTesseractEngine(opts Options) *TesseractEngine {
	return &TesseractEngine{opts: opts.normalized()}
}

// Options returns the effective engine configuration.
func (e *TesseractEngine) Options() Options {
	return e.opts
}

// Text performs OCR on an image file and returns the raw recognized text.
//
// Parameters:
//   - ctx: checked before the engine starts. A running Tesseract call cannot
//     be interrupted; callers bound it with their own timeout.
//   - imagePath: path to a PNG, JPEG, TIFF or BMP file.
//
// Returns:
//   - string: recognized text, possibly empty or containing whitespace.
//   - error: non-nil if the client cannot be configured or recognition fails.
//
// A new gosseract client is created and closed per call so concurrent callers
// share no engine state.
func (e *TesseractEngine) Text(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if e.opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.opts.TessdataPrefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(e.opts.Language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetPageSegMode(gosseract.PageSegMode(e.opts.PageSegMode)); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if err := client.SetWhitelist(e.opts.Whitelist); err != nil {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}

	// Apply variables in a stable order so failures are reproducible.
	keys := make([]string, 0, len(e.opts.Variables))
	for k := range e.opts.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := client.SetVariable(gosseract.SettableVariable(k), e.opts.Variables[k]); err != nil {
			return "", fmt.Errorf("failed to set variable %s: %w", k, err)
		}
	}

	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// TesseractVersion returns the linked Tesseract library version.
func TesseractVersion() string {
	client := gosseract.NewClient()
	defer client.Close()
	return strings.TrimSpace(client.Version())
}

// Info describes the OCR subsystem for diagnostics.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Language  string `json:"language"`
	Backend   string `json:"backend"`
}

// GetInfo reports the Tesseract version and the engine's language.
func (e *TesseractEngine) GetInfo() Info {
	version := TesseractVersion()
	return Info{
		Available: version != "",
		Version:   version,
		Language:  e.opts.Language,
		Backend:   "gosseract",
	}
}
