package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createScoreboardImage draws a bright "digit" bar on a colored panel.
func createScoreboardImage(width, height int, panel, digit color.Color) *image.RGBA {
	img := createInMemoryImage(width, height, panel)
	for y := height / 4; y < height*3/4; y++ {
		for x := width / 3; x < width*2/3; x++ {
			img.Set(x, y, digit)
		}
	}
	return img
}

// writePNG saves img into dir and returns its path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// grayAt returns the 8-bit luminance at (x, y).
func grayAt(img image.Image, x, y int) uint8 {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
}
