package scoreboard

import (
	"errors"
	"fmt"
	"image"
)

// Region is a rectangular crop of the source frame in pixel coordinates.
type Region struct {
	X      int `toml:"x" json:"x"`
	Y      int `toml:"y" json:"y"`
	Width  int `toml:"width" json:"width"`
	Height int `toml:"height" json:"height"`
}

// Rect converts the region to an image.Rectangle (max corner exclusive).
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Validate checks the region is well-formed. When sourceWidth and sourceHeight
// are positive the region must also lie inside a frame of that size.
func (r Region) Validate(sourceWidth, sourceHeight int) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("region size %dx%d must be positive", r.Width, r.Height)
	}
	if r.X < 0 || r.Y < 0 {
		return fmt.Errorf("region origin (%d,%d) must not be negative", r.X, r.Y)
	}
	if sourceWidth > 0 && sourceHeight > 0 {
		if r.X+r.Width > sourceWidth || r.Y+r.Height > sourceHeight {
			return fmt.Errorf("region (%d,%d)-(%d,%d) outside source frame %dx%d",
				r.X, r.Y, r.X+r.Width, r.Y+r.Height, sourceWidth, sourceHeight)
		}
	}
	return nil
}

// Layout is the pair of scoreboard regions for one broadcast framing.
type Layout struct {
	Red  Region `toml:"red" json:"red"`
	Blue Region `toml:"blue" json:"blue"`
	// SourceWidth and SourceHeight record the resolution the geometry was
	// measured on. Zero means unknown.
	SourceWidth  int `toml:"source_width" json:"source_width"`
	SourceHeight int `toml:"source_height" json:"source_height"`
}

// Region returns the crop for the given alliance.
func (l Layout) Region(a Alliance) Region {
	if a == Blue {
		return l.Blue
	}
	return l.Red
}

// Validate checks both regions against the provided source dimensions. When
// the dimensions are unknown (zero) the layout's own recorded resolution is used.
func (l Layout) Validate(sourceWidth, sourceHeight int) error {
	if sourceWidth <= 0 || sourceHeight <= 0 {
		sourceWidth, sourceHeight = l.SourceWidth, l.SourceHeight
	}
	var errs []error
	for _, a := range Alliances {
		if err := l.Region(a).Validate(sourceWidth, sourceHeight); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a, err))
		}
	}
	return errors.Join(errs...)
}
