package ocr

import "strings"

// DigitWhitelist restricts recognition to score digits.
const DigitWhitelist = "0123456789"

// Page segmentation mode 6: assume a single uniform block of text.
const DefaultPageSegMode = 6

// Options configures a TesseractEngine explicitly instead of through
// process-wide environment variables.
type Options struct {
	// Language is the Tesseract language code, e.g. "eng".
	Language string
	// PageSegMode is the Tesseract --psm value (0-13).
	PageSegMode int
	// Whitelist limits the characters the engine may emit.
	Whitelist string
	// TessdataPrefix overrides the directory holding *.traineddata files.
	TessdataPrefix string
	// Variables are passed to Tesseract via SetVariable before each call.
	Variables map[string]string
}

// DefaultOptions returns the digit-only configuration.
func DefaultOptions() Options {
	return Options{
		Language:    "eng",
		PageSegMode: DefaultPageSegMode,
		Whitelist:   DigitWhitelist,
	}
}

func (o Options) normalized() Options {
	if strings.TrimSpace(o.Language) == "" {
		o.Language = "eng"
	}
	if o.PageSegMode < 0 || o.PageSegMode > 13 {
		o.PageSegMode = DefaultPageSegMode
	}
	if o.Whitelist == "" {
		o.Whitelist = DigitWhitelist
	}
	return o
}
