package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

// Pixels below these HSV levels carry no reliable hue.
const (
	minSaturation = 0.35
	minValue      = 0.25
)

// ColorEstimate summarizes the chromatic content of a crop.
type ColorEstimate struct {
	// Hue is the circular mean hue of saturated pixels in degrees (0-360).
	Hue float64 `json:"hue"`

	// Coverage is the fraction (0-1) of pixels that were saturated enough
	// to contribute to Hue.
	Coverage float64 `json:"coverage"`

	// Alliance is the side whose color matches Hue, or empty when the hue
	// matches neither or Coverage is zero.
	Alliance scoreboard.Alliance `json:"alliance,omitempty"`
}

// EstimateColor computes the dominant hue of the saturated pixels in img.
//
// Hue is averaged on the unit circle so that reds on both sides of 0 degrees
// (e.g. 350 and 10) average to 0 rather than 180.
func EstimateColor(img image.Image) ColorEstimate {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return ColorEstimate{}
	}

	var sumSin, sumCos float64
	counted := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			h, s, v := c.Hsv()
			if s < minSaturation || v < minValue {
				continue
			}
			rad := h * math.Pi / 180
			sumSin += math.Sin(rad)
			sumCos += math.Cos(rad)
			counted++
		}
	}

	if counted == 0 {
		return ColorEstimate{}
	}

	hue := math.Atan2(sumSin, sumCos) * 180 / math.Pi
	if hue < 0 {
		hue += 360
	}
	return ColorEstimate{
		Hue:      hue,
		Coverage: float64(counted) / float64(total),
		Alliance: classifyHue(hue),
	}
}

// classifyHue maps a hue to the alliance whose scoreboard color it matches.
func classifyHue(hue float64) scoreboard.Alliance {
	switch {
	case hue >= 330 || hue < 30:
		return scoreboard.Red
	case hue >= 180 && hue <= 260:
		return scoreboard.Blue
	default:
		return ""
	}
}

// AllianceAt classifies a single pixel by alliance color. Pixels that are
// too gray or too dark, or whose hue matches neither side, return "".
func AllianceAt(c color.Color) scoreboard.Alliance {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	h, s, v := cf.Hsv()
	if s < minSaturation || v < minValue {
		return ""
	}
	return classifyHue(h)
}

// CheckAllianceColor verifies that a raw crop shows the expected alliance color.
//
// Parameters:
//   - img: A raw, colored crop of the scoreboard region.
//   - want: The alliance the region is configured for.
//   - minCoverage: Minimum fraction (0-1) of saturated pixels required for a
//     confident estimate.
//
// Returns the estimate and a non-nil error when the crop is too gray to judge
// or its hue belongs to a different alliance.
func CheckAllianceColor(img image.Image, want scoreboard.Alliance, minCoverage float64) (ColorEstimate, error) {
	est := EstimateColor(img)
	if est.Coverage < minCoverage {
		return est, fmt.Errorf("region shows too little color (coverage %.2f < %.2f)", est.Coverage, minCoverage)
	}
	if est.Alliance != want {
		return est, fmt.Errorf("region hue %.0f does not look %s", est.Hue, want)
	}
	return est, nil
}
