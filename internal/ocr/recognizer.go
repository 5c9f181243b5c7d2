package ocr

import (
	"context"
	"fmt"

	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

// Engine is an OCR backend that returns raw text for an image file.
type Engine interface {
	Text(ctx context.Context, imagePath string) (string, error)
}

// Recognizer turns one normalized frame image into a score reading.
//
// A Recognizer holds no mutable state and may be used from many goroutines as
// long as its Engine allows it.
type Recognizer struct {
	engine Engine
}

// NewRecognizer wraps an engine.
func NewRecognizer(engine Engine) *Recognizer {
	return &Recognizer{engine: engine}
}

// Recognize runs a single best-effort OCR pass over imagePath.
//
// It returns scoreboard.Unreadable with a nil error when the engine found no
// usable digits, and scoreboard.Unreadable with a non-nil error when the
// engine itself failed.
func (r *Recognizer) Recognize(ctx context.Context, imagePath string) (scoreboard.Reading, error) {
	text, err := r.engine.Text(ctx, imagePath)
	if err != nil {
		return scoreboard.Unreadable, fmt.Errorf("recognize %s: %w", imagePath, err)
	}
	return ParseDigits(text), nil
}
