package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/titula/extract"
	"github.com/tsawler/titula/graph"
	"github.com/tsawler/titula/pipeline"
	"github.com/tsawler/titula/tables"
)

var (
	ingestProvider string
	ingestModel    string
	ingestBucket   string
	ingestOut      string
	ingestTimeout  time.Duration
	keepArtifacts  bool
	noGraph        bool
	noTables       bool
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <pdf>...",
	Short: "Run the full pipeline on one or more instruments",
	Long: `Ingest splits each document, extracts structured conveyance data
from the body, parses lease schedules out of tabular exhibits, and
persists parties, instruments, and tracts to the title graph.

Credentials come from the environment:
  ANTHROPIC_API_KEY / OPENAI_API_KEY   extraction provider
  AWS_* and TEXTRACT_S3_BUCKET         exhibit table extraction
  NEO4J_URI / NEO4J_USER / NEO4J_PASSWORD   graph persistence

Example:
  titula ingest deed.pdf
  titula ingest --provider openai --no-graph *.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestProvider, "provider", "anthropic", "extraction provider (anthropic, openai, or empty to skip)")
	ingestCmd.Flags().StringVar(&ingestModel, "model", "", "extraction model override")
	ingestCmd.Flags().StringVar(&ingestBucket, "textract-bucket", "", "S3 bucket for Textract staging (default: TEXTRACT_S3_BUCKET)")
	ingestCmd.Flags().StringVar(&ingestOut, "out", os.TempDir(), "directory for split artifacts")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 10*time.Minute, "per-document timeout")
	ingestCmd.Flags().BoolVar(&keepArtifacts, "keep-artifacts", false, "leave split sub-documents on disk")
	ingestCmd.Flags().BoolVar(&noGraph, "no-graph", false, "skip graph persistence")
	ingestCmd.Flags().BoolVar(&noTables, "no-tables", false, "skip exhibit table extraction")
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx := context.Background()

	provider, err := buildProvider()
	if err != nil {
		return err
	}

	var tableExtractor pipeline.TableExtractor
	if !noTables {
		te, err := tables.New(ctx, tables.Config{
			Bucket:       ingestBucket,
			PollInterval: 5 * time.Second,
			MaxWait:      5 * time.Minute,
			Logger:       log,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Table extraction disabled: %v\n", err)
		} else {
			tableExtractor = te
		}
	}

	var graphWriter pipeline.GraphWriter
	if !noGraph {
		cfg := graph.FromEnv()
		cfg.Logger = log
		builder, err := graph.New(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Graph persistence disabled: %v\n", err)
		} else {
			defer builder.Close(ctx)
			if err := builder.CreateSchema(ctx); err != nil {
				return err
			}
			graphWriter = pipeline.GraphPersister(builder)
		}
	}

	cfg := pipeline.DefaultConfig()
	cfg.Splitter.OutputDir = ingestOut
	cfg.KeepArtifacts = keepArtifacts
	cfg.Logger = log

	p := pipeline.New(cfg, provider, tableExtractor, graphWriter)

	for _, path := range args {
		docCtx, cancel := context.WithTimeout(ctx, ingestTimeout)
		result, err := p.Process(docCtx, path)
		cancel()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		printIngestResult(result)
	}
	return nil
}

func buildProvider() (extract.Provider, error) {
	cfg := extract.DefaultConfig()
	cfg.Provider = ingestProvider
	cfg.Model = ingestModel

	switch ingestProvider {
	case "anthropic", "claude":
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "openai":
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	return extract.NewProvider(cfg)
}

func printIngestResult(result *pipeline.Result) {
	fmt.Printf("%s\n", result.SourcePath)
	fmt.Printf("  body pages: %d, exhibits: %d\n", result.Split.BodyPages, len(result.Split.Exhibits))
	if result.Extraction != nil {
		fmt.Printf("  document type: %s\n", result.Extraction.DocumentType)
		fmt.Printf("  grantors: %d, grantees: %d\n", len(result.Grantors), len(result.Grantees))
	}
	if len(result.Leases) > 0 {
		fmt.Printf("  lease records: %d\n", len(result.Leases))
	}
	if result.Graph != nil {
		fmt.Printf("  instrument: %s (%d parties, %d tracts)\n",
			result.Graph.InstrumentID, len(result.Graph.PartyIDs), len(result.Graph.TractIDs))
	}
}
