package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// NormalizeOptions tunes the normalization chain.
type NormalizeOptions struct {
	// Contrast is the contrast adjustment in percent, from -100 to 100.
	// 100 already pushes every pixel to black or white.
	Contrast float64

	// Threshold is the luminance midpoint (0-255). Pixels at or above it
	// become white, pixels below it become black.
	Threshold uint8
}

// DefaultNormalizeOptions returns the settings used for seven-segment displays.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{Contrast: 60, Threshold: 128}
}

// Filter is one named step of a normalization chain.
type Filter struct {
	Name  string
	Apply func(image.Image) image.Image
}

// Chain is an ordered list of filters.
type Chain []Filter

// DefaultChain builds grayscale, invert, contrast, desaturate, threshold.
func DefaultChain(opts NormalizeOptions) Chain {
	return Chain{
		{Name: "grayscale", Apply: func(img image.Image) image.Image { return imaging.Grayscale(img) }},
		{Name: "invert", Apply: func(img image.Image) image.Image { return imaging.Invert(img) }},
		{Name: "contrast", Apply: func(img image.Image) image.Image { return imaging.AdjustContrast(img, opts.Contrast) }},
		{Name: "desaturate", Apply: func(img image.Image) image.Image { return imaging.AdjustSaturation(img, -100) }},
		{Name: "threshold", Apply: func(img image.Image) image.Image { return segment.Threshold(img, opts.Threshold) }},
	}
}

// Names lists the filter names in order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, f := range c {
		names[i] = f.Name
	}
	return names
}

// Apply runs every filter in order.
func (c Chain) Apply(img image.Image) image.Image {
	for _, f := range c {
		img = f.Apply(img)
	}
	return img
}

// Normalize applies the default chain to a crop.
func Normalize(img image.Image, opts NormalizeOptions) image.Image {
	return DefaultChain(opts).Apply(img)
}

// NormalizeFile rewrites an image file in place with the default chain.
//
// The file extension decides the output encoding. Lossy formats such as JPEG
// reintroduce gray pixels around glyph edges, so PNG frames are preferred.
func NormalizeFile(path string, opts NormalizeOptions) error {
	img, err := Load(path)
	if err != nil {
		return err
	}
	if err := Save(path, Normalize(img, opts)); err != nil {
		return fmt.Errorf("normalize %s: %w", path, err)
	}
	return nil
}
