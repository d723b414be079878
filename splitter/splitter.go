package splitter

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Document is the page source the splitter works against. Implementations
// wrap a real PDF (see the pdfdoc package); tests supply fakes.
type Document interface {
	// Source identifies the underlying file; used for output naming.
	Source() string

	// PageCount reports the number of pages.
	PageCount() int

	// HeaderText OCRs the top portion of a page. ratio is the fraction of
	// page height to read, zoom the render scale. Errors are per-page and
	// recoverable.
	HeaderText(page int, ratio, zoom float64) (string, error)

	// CopyRange writes pages start through end (inclusive, 0-indexed) to
	// a new document at path.
	CopyRange(start, end int, path string) error
}

// ExhibitRegion is a contiguous page range identified as non-body content.
// StartPage and EndPage are 0-indexed and inclusive; EndPage is assigned
// once all regions for the document are known.
type ExhibitRegion struct {
	Marker    string
	StartPage int
	EndPage   int
	Type      ContentType
	PageCount int
	Path      string // set after materialization
}

// SplitPlan is the document-level partition: where the body ends and the
// ordered exhibit regions that follow it.
type SplitPlan struct {
	TotalPages int
	// BodyEnd is the exclusive body boundary: the start page of the first
	// exhibit, or TotalPages when no exhibit was detected.
	BodyEnd  int
	Exhibits []ExhibitRegion
}

// SplitResult holds the materialized sub-documents. The caller owns the
// files; Cleanup removes them.
type SplitResult struct {
	BodyPath   string // empty when the body range is empty
	BodyPages  int
	Exhibits   []ExhibitRegion
	SourcePath string
	TotalPages int
}

// Config controls the scan window and output placement.
type Config struct {
	// ScanPages bounds the marker scan; exhibits start early in practice,
	// so scanning the whole of a 400-page document buys nothing.
	ScanPages int

	// HeaderRatio is the fraction of page height OCR'd per page. Headers
	// sit in the top of the page; reading more costs OCR time for no
	// additional signal.
	HeaderRatio float64

	// Zoom is the render scale passed to the page rasterizer.
	Zoom float64

	// OutputDir receives the materialized sub-documents.
	OutputDir string

	// Workers bounds the parallel page scans.
	Workers int

	Logger *slog.Logger
}

// DefaultConfig returns the settings used in production.
func DefaultConfig() Config {
	return Config{
		ScanPages:   25,
		HeaderRatio: 0.20,
		Zoom:        2.0,
		OutputDir:   os.TempDir(),
		Workers:     4,
	}
}

// Splitter locates the structural boundary between a document's narrative
// body and its appended exhibits, then materializes each region as an
// independent sub-document.
type Splitter struct {
	cfg Config
	log *slog.Logger
}

// New creates a Splitter. Zero-valued Config fields fall back to defaults.
func New(cfg Config) *Splitter {
	def := DefaultConfig()
	if cfg.ScanPages <= 0 {
		cfg.ScanPages = def.ScanPages
	}
	if cfg.HeaderRatio <= 0 {
		cfg.HeaderRatio = def.HeaderRatio
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = def.Zoom
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = def.OutputDir
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Splitter{cfg: cfg, log: log}
}

// markerHit is one per-page marker detection, before consolidation.
type markerHit struct {
	page   int
	marker string
	typ    ContentType
}

// FindSplitPoints scans the header region of the first ScanPages pages for
// exhibit markers and builds the partition plan. Page scans run in
// parallel, but hits are assembled in page order so the resulting plan is
// deterministic. A page whose render or OCR fails is logged and skipped;
// it degrades detection recall, never the whole scan.
func (s *Splitter) FindSplitPoints(doc Document) *SplitPlan {
	totalPages := doc.PageCount()
	plan := &SplitPlan{TotalPages: totalPages, BodyEnd: totalPages}

	pagesToScan := min(s.cfg.ScanPages, totalPages)
	s.log.Debug("scanning for exhibit markers",
		"source", doc.Source(), "pages", pagesToScan, "total", totalPages)

	headers := make([]string, pagesToScan)
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.Workers)

	for page := 0; page < pagesToScan; page++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(page int) {
			defer wg.Done()
			defer func() { <-sem }()

			text, err := doc.HeaderText(page, s.cfg.HeaderRatio, s.cfg.Zoom)
			if err != nil {
				s.log.Warn("header scan failed, skipping page", "page", page, "error", err)
				return
			}
			headers[page] = strings.ToUpper(text)
		}(page)
	}
	wg.Wait()

	var hits []markerHit
	for page, text := range headers {
		if text == "" {
			continue
		}
		for _, marker := range ExhibitMarkers {
			if !strings.Contains(text, marker) {
				continue
			}
			s.log.Info("found exhibit marker", "marker", marker, "page", page+1)
			hits = append(hits, markerHit{
				page:   page,
				marker: marker,
				typ:    Classify(marker, text),
			})
			break // one marker per page, first in list order wins
		}
	}

	plan.Exhibits = consolidateRegions(hits)
	assignEndPages(plan.Exhibits, totalPages)

	if len(plan.Exhibits) == 0 {
		s.log.Info("no exhibits found, entire document is body")
		return plan
	}

	plan.BodyEnd = plan.Exhibits[0].StartPage
	s.log.Info("split points found",
		"body_end", plan.BodyEnd, "exhibits", len(plan.Exhibits))
	return plan
}

// consolidateRegions merges per-page marker hits into logical exhibits:
// a run of hits sharing a base marker (continuation suffix stripped) is one
// region; a differing base marker closes the current region and opens a new
// one. Without this a 40-page lease schedule headed "EXHIBIT A" on every
// page would be read as 40 exhibits.
func consolidateRegions(hits []markerHit) []ExhibitRegion {
	var regions []ExhibitRegion

	for _, hit := range hits {
		base := baseMarker(hit.marker)
		if n := len(regions); n > 0 && regions[n-1].Marker == base {
			continue
		}
		regions = append(regions, ExhibitRegion{
			Marker:    base,
			StartPage: hit.page,
			Type:      hit.typ,
		})
	}

	return regions
}

// assignEndPages finalizes each region: end is the next region's start - 1,
// or the document's last page for the final region.
func assignEndPages(regions []ExhibitRegion, totalPages int) {
	for i := range regions {
		if i+1 < len(regions) {
			regions[i].EndPage = regions[i+1].StartPage - 1
		} else {
			regions[i].EndPage = totalPages - 1
		}
		regions[i].PageCount = regions[i].EndPage - regions[i].StartPage + 1
	}
}

// fileHash names output files after a short digest of the source path, so
// concurrent runs over different documents never collide.
func fileHash(path string) string {
	sum := md5.Sum([]byte(path))
	return hex.EncodeToString(sum[:])[:12]
}

// Split materializes the plan: the body page range and each exhibit range
// are written as separate documents under OutputDir. An empty body range
// (an exhibit starts on page 0) is logged as unusual but is not an error.
// On a write failure mid-way, files written earlier in the same call are
// removed before the error is returned; a failed split never leaves
// orphaned partial output behind.
func (s *Splitter) Split(doc Document, plan *SplitPlan) (*SplitResult, error) {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	hash := fileHash(doc.Source())
	result := &SplitResult{
		SourcePath: doc.Source(),
		TotalPages: plan.TotalPages,
	}

	var written []string
	fail := func(err error) (*SplitResult, error) {
		for _, p := range written {
			if rmErr := os.Remove(p); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				s.log.Warn("could not remove partial output", "path", p, "error", rmErr)
			}
		}
		return nil, err
	}

	if plan.BodyEnd > 0 {
		bodyPath := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("body_%s.pdf", hash))
		if err := doc.CopyRange(0, plan.BodyEnd-1, bodyPath); err != nil {
			return fail(fmt.Errorf("writing body: %w", err))
		}
		written = append(written, bodyPath)
		result.BodyPath = bodyPath
		result.BodyPages = plan.BodyEnd
		s.log.Info("extracted body", "pages", result.BodyPages, "path", bodyPath)
	} else {
		s.log.Warn("no body content found in document", "source", doc.Source())
	}

	for i, region := range plan.Exhibits {
		path := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("exhibit_%d_%s.pdf", i, hash))
		if err := doc.CopyRange(region.StartPage, region.EndPage, path); err != nil {
			return fail(fmt.Errorf("writing exhibit %q: %w", region.Marker, err))
		}
		written = append(written, path)

		region.Path = path
		result.Exhibits = append(result.Exhibits, region)
		s.log.Info("extracted exhibit",
			"marker", region.Marker, "type", region.Type,
			"pages", region.PageCount, "path", path)
	}

	return result, nil
}

// Process finds split points and materializes them in one call.
func (s *Splitter) Process(doc Document) (*SplitResult, error) {
	return s.Split(doc, s.FindSplitPoints(doc))
}

// Cleanup removes every file the split produced. All removals are
// attempted; the errors, if any, are joined.
func (r *SplitResult) Cleanup() error {
	var errs []error

	remove := func(path string) {
		if path == "" {
			return
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	remove(r.BodyPath)
	for _, ex := range r.Exhibits {
		remove(ex.Path)
	}

	return errors.Join(errs...)
}
