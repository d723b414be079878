// Package pdfdoc adapts PDF files to the page source the splitter works
// against.
//
// Header text comes from the PDF text layer when the document has one
// (born-digital instruments); scanned documents fall back to rendering the
// header strip and running OCR on it. The fallback requires the "ocr"
// build tag, since rasterization and Tesseract both need CGO. Page-range
// materialization is delegated to pdfcpu and never needs the tag.
package pdfdoc

import (
	"fmt"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/tsawler/titula/splitter"
)

// Document is a readable PDF file. It satisfies the splitter's page
// source contract.
type Document struct {
	path      string
	file      *os.File
	reader    *pdf.Reader
	pageCount int

	rasterOnce sync.Once
	raster     headerRasterizer
	rasterErr  error
}

var _ splitter.Document = (*Document)(nil)

// headerRasterizer renders a page's header strip and recognizes its text.
type headerRasterizer interface {
	headerText(page int, ratio, zoom float64) (string, error)
	close() error
}

// Open opens a PDF for splitting. A missing or unreadable file fails here,
// before any scanning work starts.
func Open(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("source document: %w", err)
	}

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	return &Document{
		path:      path,
		file:      file,
		reader:    reader,
		pageCount: reader.NumPage(),
	}, nil
}

// Close releases the file handle and any rasterization resources.
func (d *Document) Close() error {
	var rasterErr error
	if d.raster != nil {
		rasterErr = d.raster.close()
	}
	if err := d.file.Close(); err != nil {
		return err
	}
	return rasterErr
}

// Source returns the path the document was opened from.
func (d *Document) Source() string { return d.path }

// PageCount reports the number of pages.
func (d *Document) PageCount() int { return d.pageCount }

// HeaderText reads the text in the top ratio of the given 0-indexed page.
// The text layer is tried first; when it yields nothing the page is
// rendered at the given zoom and OCR'd. Errors are per-page: the caller
// skips the page and keeps scanning.
func (d *Document) HeaderText(page int, ratio, zoom float64) (string, error) {
	if page < 0 || page >= d.pageCount {
		return "", fmt.Errorf("page %d out of range (document has %d pages)", page, d.pageCount)
	}

	text, err := d.textLayerHeader(page, ratio)
	if err == nil && text != "" {
		return text, nil
	}

	d.rasterOnce.Do(func() {
		d.raster, d.rasterErr = newRasterizer(d.path)
	})
	if d.rasterErr != nil {
		if err != nil {
			return "", fmt.Errorf("text layer failed (%v) and rasterization unavailable: %w", err, d.rasterErr)
		}
		return "", d.rasterErr
	}

	return d.raster.headerText(page, ratio, zoom)
}

// CopyRange writes pages start through end (inclusive, 0-indexed) to a new
// PDF at path. I/O errors propagate to the caller undecorated; retry or
// abort policy belongs there.
func (d *Document) CopyRange(start, end int, path string) error {
	selection := []string{fmt.Sprintf("%d-%d", start+1, end+1)}
	return api.TrimFile(d.path, path, selection, nil)
}
