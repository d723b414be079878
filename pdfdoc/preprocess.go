package pdfdoc

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// CropTop returns the top ratio of an image, the strip where page headers
// and exhibit labels sit. A ratio at or above 1 copies the whole image.
func CropTop(src image.Image, ratio float64) *image.RGBA {
	b := src.Bounds()
	h := b.Dy()
	if ratio > 0 && ratio < 1 {
		h = int(float64(h) * ratio)
		if h < 1 {
			h = 1
		}
	}

	sr := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+h)
	dst := image.NewRGBA(image.Rect(0, 0, sr.Dx(), sr.Dy()))
	xdraw.Copy(dst, image.Point{}, src, sr, xdraw.Src, nil)
	return dst
}

// Grayscale converts an image for OCR; Tesseract does markedly better on
// single-channel input than on color scans.
func Grayscale(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}

// Scale resizes an image by factor using bilinear interpolation. Used to
// upsample low-resolution scans before recognition.
func Scale(src image.Image, factor float64) *image.RGBA {
	b := src.Bounds()
	w := int(float64(b.Dx()) * factor)
	h := int(float64(b.Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
