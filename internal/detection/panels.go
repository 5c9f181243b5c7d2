package detection

import (
	"fmt"
	"image"
	"sort"

	"github.com/vibescout/scoreboard-ocr/internal/imaging"
	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

// Options tunes panel detection.
type Options struct {
	// MinArea is the minimum bounding box area in square pixels.
	MinArea int

	// MinFill is the minimum fraction (0-1) of the bounding box that the
	// component's pixels must cover.
	MinFill float64
}

// DefaultOptions suit 720p and 1080p broadcast overlays.
func DefaultOptions() Options {
	return Options{MinArea: 2000, MinFill: 0.5}
}

// Panel is one solid alliance-colored area.
type Panel struct {
	Alliance scoreboard.Alliance `json:"alliance"`
	Bounds   image.Rectangle     `json:"bounds"`
	Pixels   int                 `json:"pixels"`
	Fill     float64             `json:"fill"`
}

// Area returns the bounding box area.
func (p Panel) Area() int {
	return p.Bounds.Dx() * p.Bounds.Dy()
}

// Region converts the panel bounds to a scoreboard region.
func (p Panel) Region() scoreboard.Region {
	return scoreboard.Region{
		X:      p.Bounds.Min.X,
		Y:      p.Bounds.Min.Y,
		Width:  p.Bounds.Dx(),
		Height: p.Bounds.Dy(),
	}
}

// FindPanels returns all candidate panels in img, largest first.
func FindPanels(img image.Image, opts Options) []Panel {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	mask := allianceMask(img, width, height)
	visited := make([]bool, width*height)
	panels := make([]Panel, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if visited[i] || mask[i] == 0 {
				continue
			}
			rect, pixels := fillComponent(mask, visited, x, y, width, height)
			area := rect.Dx() * rect.Dy()
			if area < opts.MinArea {
				continue
			}
			fill := float64(pixels) / float64(area)
			if fill < opts.MinFill {
				continue
			}
			panels = append(panels, Panel{
				Alliance: allianceFromCode(mask[i]),
				Bounds:   rect.Add(bounds.Min),
				Pixels:   pixels,
				Fill:     fill,
			})
		}
	}

	sort.SliceStable(panels, func(i, j int) bool {
		return panels[i].Area() > panels[j].Area()
	})
	return panels
}

// Suggest picks the largest panel of each alliance and returns a layout
// sized to img.
func Suggest(img image.Image, opts Options) (scoreboard.Layout, error) {
	panels := FindPanels(img, opts)
	best := make(map[scoreboard.Alliance]Panel, len(scoreboard.Alliances))
	for _, p := range panels {
		if _, ok := best[p.Alliance]; !ok {
			best[p.Alliance] = p
		}
	}

	for _, a := range scoreboard.Alliances {
		if _, ok := best[a]; !ok {
			return scoreboard.Layout{}, fmt.Errorf("no %s panel found (%d candidates)", a, len(panels))
		}
	}

	bounds := img.Bounds()
	layout := scoreboard.Layout{
		Red:          best[scoreboard.Red].Region(),
		Blue:         best[scoreboard.Blue].Region(),
		SourceWidth:  bounds.Dx(),
		SourceHeight: bounds.Dy(),
	}
	if err := layout.Validate(bounds.Dx(), bounds.Dy()); err != nil {
		return scoreboard.Layout{}, err
	}
	return layout, nil
}

const (
	codeNone uint8 = iota
	codeRed
	codeBlue
)

func allianceMask(img image.Image, width, height int) []uint8 {
	bounds := img.Bounds()
	mask := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch imaging.AllianceAt(img.At(x+bounds.Min.X, y+bounds.Min.Y)) {
			case scoreboard.Red:
				mask[y*width+x] = codeRed
			case scoreboard.Blue:
				mask[y*width+x] = codeBlue
			}
		}
	}
	return mask
}

func allianceFromCode(code uint8) scoreboard.Alliance {
	switch code {
	case codeRed:
		return scoreboard.Red
	case codeBlue:
		return scoreboard.Blue
	default:
		return ""
	}
}

// fillComponent marks the 4-connected component containing (startX, startY)
// and returns its bounding box (in mask coordinates) and pixel count. It uses
// an explicit stack so large panels cannot overflow the goroutine stack.
func fillComponent(mask []uint8, visited []bool, startX, startY, width, height int) (image.Rectangle, int) {
	code := mask[startY*width+startX]
	minX, minY, maxX, maxY := startX, startY, startX, startY
	pixels := 0

	stack := []image.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		i := p.Y*width + p.X
		if visited[i] || mask[i] != code {
			continue
		}
		visited[i] = true
		pixels++

		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)

		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}

	return image.Rect(minX, minY, maxX+1, maxY+1), pixels
}
