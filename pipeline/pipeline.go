// Package pipeline runs the full document workflow: split the source PDF
// into body and exhibits, extract structured data from the body, pull
// lease schedules out of tabular exhibits, and persist the result to the
// title graph. Results are cached by content hash so re-ingesting the
// same file skips the expensive stages.
package pipeline

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tsawler/titula/extract"
	"github.com/tsawler/titula/graph"
	"github.com/tsawler/titula/normalizer"
	"github.com/tsawler/titula/pdfdoc"
	"github.com/tsawler/titula/splitter"
	"github.com/tsawler/titula/tables"
)

// TableExtractor pulls tables out of an exhibit PDF.
type TableExtractor interface {
	Extract(ctx context.Context, pdfPath string) (*tables.ExtractionResult, error)
}

// GraphWriter persists one document's results to the title graph.
type GraphWriter interface {
	Persist(ctx context.Context, extraction *extract.DocumentExtraction, leases []tables.LeaseRecord, pdfURL string) (*graph.BuildResult, error)
}

// GraphPersister adapts a graph.Builder to the GraphWriter interface.
func GraphPersister(b *graph.Builder) GraphWriter {
	return graphWriter{b}
}

type graphWriter struct {
	b *graph.Builder
}

func (g graphWriter) Persist(ctx context.Context, extraction *extract.DocumentExtraction, leases []tables.LeaseRecord, pdfURL string) (*graph.BuildResult, error) {
	return graph.BuildFromExtraction(ctx, g.b, extraction, leases, pdfURL)
}

// Config controls the pipeline.
type Config struct {
	// Splitter settings for the boundary scan and materialization.
	Splitter splitter.Config

	// MaxRetries for the body-extraction call.
	MaxRetries int

	// CacheTTL bounds how long a document's result stays cached. Zero
	// disables expiry.
	CacheTTL time.Duration

	// KeepArtifacts leaves the split sub-documents on disk after
	// processing instead of removing them.
	KeepArtifacts bool

	Logger *slog.Logger
}

// DefaultConfig returns production settings.
func DefaultConfig() Config {
	return Config{
		Splitter:   splitter.DefaultConfig(),
		MaxRetries: 2,
		CacheTTL:   time.Hour,
	}
}

// Result is everything the pipeline produced for one document.
type Result struct {
	SourcePath string
	Split      *splitter.SplitResult
	Extraction *extract.DocumentExtraction
	Grantors   []normalizer.NormalizedParty
	Grantees   []normalizer.NormalizedParty
	Leases     []tables.LeaseRecord
	Graph      *graph.BuildResult
}

// Pipeline wires the splitter, extraction provider, table extractor, and
// graph writer together. Provider, tables, and graph are each optional;
// a nil component skips its stage.
type Pipeline struct {
	config   Config
	splitter *splitter.Splitter
	provider extract.Provider
	tables   TableExtractor
	graph    GraphWriter
	cache    *gocache.Cache
	log      *slog.Logger

	// openDoc and bodyText are swapped out in tests.
	openDoc  func(path string) (splitter.Document, io.Closer, error)
	bodyText func(path string) (string, error)
}

// New creates a Pipeline. Any of provider, tableExtractor, and
// graphWriter may be nil to disable that stage.
func New(config Config, provider extract.Provider, tableExtractor TableExtractor, gw GraphWriter) *Pipeline {
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 2
	}

	ttl := config.CacheTTL
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}

	return &Pipeline{
		config:   config,
		splitter: splitter.New(config.Splitter),
		provider: provider,
		tables:   tableExtractor,
		graph:    gw,
		cache:    gocache.New(ttl, 10*time.Minute),
		log:      log,
		openDoc:  openPDF,
		bodyText: pdfdoc.ExtractText,
	}
}

func openPDF(path string) (splitter.Document, io.Closer, error) {
	doc, err := pdfdoc.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return doc, doc, nil
}

// Process runs the full workflow on one PDF. A document whose content
// hash is already cached returns the cached result without reprocessing.
func (p *Pipeline) Process(ctx context.Context, path string) (*Result, error) {
	hash, err := contentHash(path)
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", path, err)
	}
	if cached, ok := p.cache.Get(hash); ok {
		p.log.Info("returning cached result", "path", path, "hash", hash)
		return cached.(*Result), nil
	}

	doc, closer, err := p.openDoc(path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	split, err := p.splitter.Process(doc)
	if err != nil {
		return nil, fmt.Errorf("splitting %s: %w", path, err)
	}

	result := &Result{SourcePath: path, Split: split}
	if !p.config.KeepArtifacts {
		defer func() {
			if err := split.Cleanup(); err != nil {
				p.log.Warn("removing split artifacts", "error", err)
			}
			// The files are gone; a cached result must not hand out
			// their paths.
			split.BodyPath = ""
			for i := range split.Exhibits {
				split.Exhibits[i].Path = ""
			}
		}()
	}

	if err := p.extractBody(ctx, result); err != nil {
		return nil, err
	}
	p.extractTables(ctx, result)

	if p.graph != nil && result.Extraction != nil {
		built, err := p.graph.Persist(ctx, result.Extraction, result.Leases, path)
		if err != nil {
			return nil, fmt.Errorf("persisting %s to graph: %w", path, err)
		}
		result.Graph = built
	}

	p.cache.Set(hash, result, gocache.DefaultExpiration)
	p.log.Info("document processed",
		"path", path,
		"body_pages", split.BodyPages,
		"exhibits", len(split.Exhibits),
		"leases", len(result.Leases))
	return result, nil
}

// extractBody runs the extraction provider on the body sub-document and
// normalizes the returned party names.
func (p *Pipeline) extractBody(ctx context.Context, result *Result) error {
	if p.provider == nil || result.Split.BodyPath == "" {
		return nil
	}

	pdf, err := os.ReadFile(result.Split.BodyPath)
	if err != nil {
		return fmt.Errorf("reading body sub-document: %w", err)
	}

	// Text-only providers work from the body's text layer; born-digital
	// instruments have one, scanned ones leave it empty.
	text, err := p.bodyText(result.Split.BodyPath)
	if err != nil {
		p.log.Debug("no text layer for body sub-document", "error", err)
		text = ""
	}

	extraction, err := extract.ExtractWithRetry(ctx, p.provider, extract.Request{PDF: pdf, Text: text}, p.config.MaxRetries, p.log)
	if err != nil {
		return fmt.Errorf("extracting body of %s: %w", result.SourcePath, err)
	}
	result.Extraction = extraction

	for _, party := range extraction.Parties.Grantors {
		result.Grantors = append(result.Grantors, normalizer.NormalizeParty(party.Name))
	}
	for _, party := range extraction.Parties.Grantees {
		result.Grantees = append(result.Grantees, normalizer.NormalizeParty(party.Name))
	}
	return nil
}

// extractTables runs Textract over each table-classified exhibit. A
// failing exhibit is logged and skipped; the others still contribute.
func (p *Pipeline) extractTables(ctx context.Context, result *Result) {
	if p.tables == nil {
		return
	}

	for _, exhibit := range result.Split.Exhibits {
		if exhibit.Type != splitter.ContentTable || exhibit.Path == "" {
			continue
		}

		extracted, err := p.tables.Extract(ctx, exhibit.Path)
		if err != nil {
			p.log.Warn("table extraction failed for exhibit",
				"marker", exhibit.Marker, "path", exhibit.Path, "error", err)
			continue
		}
		result.Leases = append(result.Leases, extracted.LeaseRecords...)
	}
}

// contentHash returns the hex MD5 of the file's contents.
func contentHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
