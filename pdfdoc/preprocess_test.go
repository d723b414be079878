package pdfdoc

import (
	"image"
	"image/color"
	"testing"
)

// checkered builds an image with a black top half and white bottom half.
func checkered(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := color.RGBA{A: 255} // black
		if y >= h/2 {
			c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCropTop(t *testing.T) {
	src := checkered(100, 200)

	got := CropTop(src, 0.20)
	if got.Bounds().Dx() != 100 || got.Bounds().Dy() != 40 {
		t.Errorf("bounds = %v, want 100x40", got.Bounds())
	}

	// The top 20% of this image is entirely black.
	r, g, b, _ := got.At(50, 20).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("pixel at (50,20) = (%d,%d,%d), want black", r, g, b)
	}
}

func TestCropTop_FullRatio(t *testing.T) {
	src := checkered(60, 80)
	got := CropTop(src, 1.0)
	if got.Bounds().Dy() != 80 {
		t.Errorf("height = %d, want 80", got.Bounds().Dy())
	}
}

func TestCropTop_TinyRatioKeepsOneRow(t *testing.T) {
	src := checkered(60, 80)
	got := CropTop(src, 0.001)
	if got.Bounds().Dy() != 1 {
		t.Errorf("height = %d, want 1", got.Bounds().Dy())
	}
}

func TestGrayscale(t *testing.T) {
	src := checkered(10, 10)
	got := Grayscale(src)

	if got.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Errorf("bounds = %v, want 10x10 at origin", got.Bounds())
	}
	if y := got.GrayAt(5, 1).Y; y != 0 {
		t.Errorf("top pixel = %d, want 0", y)
	}
	if y := got.GrayAt(5, 8).Y; y != 255 {
		t.Errorf("bottom pixel = %d, want 255", y)
	}
}

func TestScale(t *testing.T) {
	src := checkered(50, 40)
	got := Scale(src, 2.0)
	if got.Bounds().Dx() != 100 || got.Bounds().Dy() != 80 {
		t.Errorf("bounds = %v, want 100x80", got.Bounds())
	}

	down := Scale(src, 0.001)
	if down.Bounds().Dx() != 1 || down.Bounds().Dy() != 1 {
		t.Errorf("bounds = %v, want 1x1", down.Bounds())
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open("/nonexistent/instrument.pdf"); err == nil {
		t.Fatal("expected an error for a missing source file")
	}
}
