package titula

import (
	"fmt"
	"log/slog"

	"github.com/tsawler/titula/pdfdoc"
	"github.com/tsawler/titula/splitter"
)

// splitOptions holds the configuration a Document chain accumulates.
type splitOptions struct {
	scanPages   int
	headerRatio float64
	zoom        float64
	workers     int
	outputDir   string
	logger      *slog.Logger
}

// defaultOptions returns the zero configuration; zero fields defer to
// splitter.DefaultConfig at execution time.
func defaultOptions() splitOptions {
	return splitOptions{}
}

// clone creates a copy of splitOptions.
func (o splitOptions) clone() splitOptions {
	return o
}

// Document provides a fluent interface over one PDF instrument. Each
// configuration method returns a new Document instance, making chains
// safe to share and reuse.
type Document struct {
	// Source
	filename string

	// Underlying reader, opened lazily
	doc    *pdfdoc.Document
	opened bool

	// Configuration
	options splitOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy with copied options, so configuration
// methods never mutate the receiver.
func (d *Document) clone() *Document {
	return &Document{
		filename: d.filename,
		doc:      d.doc,
		opened:   d.opened,
		options:  d.options.clone(),
		err:      d.err,
	}
}

// ensureOpen opens the underlying PDF if it is not open yet.
func (d *Document) ensureOpen() error {
	if d.err != nil {
		return d.err
	}
	if d.opened {
		return nil
	}
	if d.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	doc, err := pdfdoc.Open(d.filename)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	d.doc = doc
	d.opened = true
	return nil
}

// Close releases the underlying PDF. Safe to call multiple times.
func (d *Document) Close() error {
	if d.doc != nil {
		err := d.doc.Close()
		d.doc = nil
		d.opened = false
		return err
	}
	return nil
}

// ScanPages bounds how many leading pages are scanned for exhibit
// markers.
func (d *Document) ScanPages(n int) *Document {
	nd := d.clone()
	if n <= 0 {
		nd.err = fmt.Errorf("scan pages must be positive, got %d", n)
		return nd
	}
	nd.options.scanPages = n
	return nd
}

// HeaderRatio sets the fraction of page height read per page, in (0, 1].
func (d *Document) HeaderRatio(ratio float64) *Document {
	nd := d.clone()
	if ratio <= 0 || ratio > 1 {
		nd.err = fmt.Errorf("header ratio must be in (0, 1], got %v", ratio)
		return nd
	}
	nd.options.headerRatio = ratio
	return nd
}

// Zoom sets the render scale used when a page must be rasterized.
func (d *Document) Zoom(zoom float64) *Document {
	nd := d.clone()
	if zoom <= 0 {
		nd.err = fmt.Errorf("zoom must be positive, got %v", zoom)
		return nd
	}
	nd.options.zoom = zoom
	return nd
}

// Workers bounds the parallel page scans.
func (d *Document) Workers(n int) *Document {
	nd := d.clone()
	if n <= 0 {
		nd.err = fmt.Errorf("workers must be positive, got %d", n)
		return nd
	}
	nd.options.workers = n
	return nd
}

// OutputDir sets where Split writes the sub-documents.
func (d *Document) OutputDir(dir string) *Document {
	nd := d.clone()
	nd.options.outputDir = dir
	return nd
}

// Logger sets the logger used during scanning and materialization.
func (d *Document) Logger(logger *slog.Logger) *Document {
	nd := d.clone()
	nd.options.logger = logger
	return nd
}

// splitterConfig maps accumulated options onto a splitter.Config,
// leaving zero fields for the splitter's own defaulting.
func (d *Document) splitterConfig() splitter.Config {
	return splitter.Config{
		ScanPages:   d.options.scanPages,
		HeaderRatio: d.options.headerRatio,
		Zoom:        d.options.zoom,
		Workers:     d.options.workers,
		OutputDir:   d.options.outputDir,
		Logger:      d.options.logger,
	}
}

// ============================================================================
// Terminal Operations
// ============================================================================

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() (int, error) {
	if err := d.ensureOpen(); err != nil {
		return 0, err
	}
	defer d.Close()
	return d.doc.PageCount(), nil
}

// Plan scans the document and returns the split plan without writing any
// files.
func (d *Document) Plan() (*splitter.SplitPlan, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	defer d.Close()

	s := splitter.New(d.splitterConfig())
	return s.FindSplitPoints(d.doc), nil
}

// Split scans the document and materializes the body and each exhibit as
// separate PDFs. The caller owns the files; SplitResult.Cleanup removes
// them.
func (d *Document) Split() (*splitter.SplitResult, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	defer d.Close()

	s := splitter.New(d.splitterConfig())
	return s.Process(d.doc)
}
