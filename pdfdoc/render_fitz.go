//go:build ocr

package pdfdoc

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"

	"github.com/tsawler/titula/ocr"
)

// baseDPI is the PDF point resolution; zoom multiplies it.
const baseDPI = 72

// fitzRasterizer renders header strips with MuPDF and recognizes them
// with Tesseract.
type fitzRasterizer struct {
	doc *fitz.Document
	ocr *ocr.Client
}

func newRasterizer(path string) (headerRasterizer, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s for rendering: %w", path, err)
	}

	client, err := ocr.NewHeaderReader()
	if err != nil {
		doc.Close()
		return nil, err
	}

	return &fitzRasterizer{doc: doc, ocr: client}, nil
}

func (f *fitzRasterizer) headerText(page int, ratio, zoom float64) (string, error) {
	img, err := f.doc.ImageDPI(page, baseDPI*zoom)
	if err != nil {
		return "", fmt.Errorf("rendering page %d: %w", page+1, err)
	}

	header := Grayscale(CropTop(img, ratio))

	var buf bytes.Buffer
	if err := png.Encode(&buf, header); err != nil {
		return "", fmt.Errorf("encoding page %d header: %w", page+1, err)
	}

	return f.ocr.RecognizeImage(buf.Bytes())
}

func (f *fitzRasterizer) close() error {
	ocrErr := f.ocr.Close()
	if err := f.doc.Close(); err != nil {
		return err
	}
	return ocrErr
}
