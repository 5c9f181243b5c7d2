package detection

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

var (
	panelRed  = color.RGBA{200, 30, 30, 255}
	panelBlue = color.RGBA{30, 60, 200, 255}
	gray      = color.RGBA{90, 90, 90, 255}
)

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// createOverlayImage draws a red and a blue panel, each with a white
// digit-like bar, on a gray background.
func createOverlayImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	fillRect(img, img.Bounds(), gray)
	fillRect(img, image.Rect(40, 120, 120, 170), panelRed)
	fillRect(img, image.Rect(60, 135, 70, 155), color.White)
	fillRect(img, image.Rect(260, 120, 340, 170), panelBlue)
	fillRect(img, image.Rect(290, 135, 300, 155), color.White)
	return img
}

func TestFindPanels(t *testing.T) {
	img := createOverlayImage()
	// Too small to be a panel.
	fillRect(img, image.Rect(5, 5, 15, 15), panelRed)

	panels := FindPanels(img, DefaultOptions())
	if len(panels) != 2 {
		t.Fatalf("expected 2 panels, got %d: %+v", len(panels), panels)
	}

	byAlliance := map[scoreboard.Alliance]Panel{}
	for _, p := range panels {
		byAlliance[p.Alliance] = p
	}

	red, ok := byAlliance[scoreboard.Red]
	if !ok {
		t.Fatal("red panel not found")
	}
	if red.Bounds != image.Rect(40, 120, 120, 170) {
		t.Errorf("red bounds = %v", red.Bounds)
	}
	if red.Pixels != 80*50-10*20 {
		t.Errorf("red pixels = %d", red.Pixels)
	}
	if red.Fill < 0.9 || red.Fill > 1 {
		t.Errorf("red fill = %.2f", red.Fill)
	}

	blue, ok := byAlliance[scoreboard.Blue]
	if !ok {
		t.Fatal("blue panel not found")
	}
	if blue.Bounds != image.Rect(260, 120, 340, 170) {
		t.Errorf("blue bounds = %v", blue.Bounds)
	}
}

func TestFindPanels_SortedByArea(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))
	fillRect(img, img.Bounds(), gray)
	fillRect(img, image.Rect(10, 10, 60, 60), panelBlue)
	fillRect(img, image.Rect(100, 10, 200, 110), panelRed)

	panels := FindPanels(img, DefaultOptions())
	if len(panels) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(panels))
	}
	if panels[0].Alliance != scoreboard.Red || panels[0].Area() != 100*100 {
		t.Errorf("expected the larger red panel first, got %+v", panels[0])
	}
}

func TestFindPanels_RejectsSparseShapes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	fillRect(img, img.Bounds(), gray)
	// An L shape spans a 100x100 box but covers under a tenth of it.
	fillRect(img, image.Rect(50, 50, 55, 150), panelRed)
	fillRect(img, image.Rect(50, 145, 150, 150), panelRed)

	if panels := FindPanels(img, DefaultOptions()); len(panels) != 0 {
		t.Fatalf("expected no panels, got %+v", panels)
	}

	loose := Options{MinArea: 2000, MinFill: 0.05}
	if panels := FindPanels(img, loose); len(panels) != 1 {
		t.Fatalf("expected the L shape with a low fill threshold, got %d", len(panels))
	}
}

func TestFindPanels_Empty(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if panels := FindPanels(img, DefaultOptions()); panels != nil {
		t.Fatalf("expected nil for empty image, got %v", panels)
	}
}

func TestSuggest(t *testing.T) {
	layout, err := Suggest(createOverlayImage(), DefaultOptions())
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	wantRed := scoreboard.Region{X: 40, Y: 120, Width: 80, Height: 50}
	wantBlue := scoreboard.Region{X: 260, Y: 120, Width: 80, Height: 50}
	if layout.Red != wantRed {
		t.Errorf("red region = %+v, want %+v", layout.Red, wantRed)
	}
	if layout.Blue != wantBlue {
		t.Errorf("blue region = %+v, want %+v", layout.Blue, wantBlue)
	}
	if layout.SourceWidth != 400 || layout.SourceHeight != 200 {
		t.Errorf("source size = %dx%d", layout.SourceWidth, layout.SourceHeight)
	}
}

func TestSuggest_MissingAlliance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))
	fillRect(img, img.Bounds(), gray)
	fillRect(img, image.Rect(10, 10, 110, 60), panelRed)

	if _, err := Suggest(img, DefaultOptions()); err == nil {
		t.Fatal("expected error when no blue panel is present")
	}
}

func TestPanelRegion(t *testing.T) {
	p := Panel{Bounds: image.Rect(5, 6, 25, 16)}
	want := scoreboard.Region{X: 5, Y: 6, Width: 20, Height: 10}
	if got := p.Region(); got != want {
		t.Errorf("Region() = %+v, want %+v", got, want)
	}
	if p.Area() != 200 {
		t.Errorf("Area() = %d", p.Area())
	}
}
