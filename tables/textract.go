package tables

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/google/uuid"
)

// s3API is the slice of the S3 client the extractor uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// textractAPI is the slice of the Textract client the extractor uses.
type textractAPI interface {
	StartDocumentAnalysis(ctx context.Context, params *textract.StartDocumentAnalysisInput, optFns ...func(*textract.Options)) (*textract.StartDocumentAnalysisOutput, error)
	GetDocumentAnalysis(ctx context.Context, params *textract.GetDocumentAnalysisInput, optFns ...func(*textract.Options)) (*textract.GetDocumentAnalysisOutput, error)
}

// Config holds table extraction settings.
type Config struct {
	// Bucket stages PDFs for Textract. Falls back to the
	// TEXTRACT_S3_BUCKET environment variable.
	Bucket string

	// Region for the AWS clients. Empty uses the default chain.
	Region string

	// PollInterval between job status checks.
	PollInterval time.Duration

	// MaxWait bounds how long one job may run.
	MaxWait time.Duration

	// KeepStaged leaves the temporary S3 object in place after the job,
	// for debugging.
	KeepStaged bool

	// Logger receives progress events. Defaults to slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns settings suitable for exhibit-sized documents.
func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		MaxWait:      5 * time.Minute,
	}
}

// Extractor runs Textract table analysis on exhibit PDFs.
type Extractor struct {
	s3       s3API
	textract textractAPI
	config   Config
	log      *slog.Logger
}

// New creates an Extractor with AWS clients from the default credential
// chain. The staging bucket must be configured or present in the
// environment.
func New(ctx context.Context, config Config) (*Extractor, error) {
	if config.Bucket == "" {
		config.Bucket = os.Getenv("TEXTRACT_S3_BUCKET")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("no S3 bucket configured: set Config.Bucket or TEXTRACT_S3_BUCKET")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	return newExtractor(s3.NewFromConfig(awsCfg), textract.NewFromConfig(awsCfg), config), nil
}

func newExtractor(s3Client s3API, textractClient textractAPI, config Config) *Extractor {
	if config.PollInterval == 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.MaxWait == 0 {
		config.MaxWait = 5 * time.Minute
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{s3: s3Client, textract: textractClient, config: config, log: log}
}

// Extract stages the PDF in S3, runs a Textract table analysis job, and
// returns the reconstructed tables plus any lease records they parse
// into. The staged object is removed when the job ends, whether it
// succeeded or not.
func (e *Extractor) Extract(ctx context.Context, pdfPath string) (*ExtractionResult, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", pdfPath, err)
	}
	defer f.Close()

	key := fmt.Sprintf("textract-temp/%s.pdf", uuid.New())
	e.log.Info("staging document for table analysis",
		"path", pdfPath, "bucket", e.config.Bucket, "key", key)

	_, err = e.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(e.config.Bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return nil, fmt.Errorf("uploading to S3: %w", err)
	}

	if !e.config.KeepStaged {
		defer e.deleteStaged(key)
	}

	blocks, pageCount, err := e.runJob(ctx, key)
	if err != nil {
		return nil, err
	}

	tables := parseTables(blocks)
	records := ParseLeaseSchedule(tables)
	e.log.Info("table analysis complete",
		"tables", len(tables), "lease_records", len(records), "pages", pageCount)

	return &ExtractionResult{
		Tables:       tables,
		LeaseRecords: records,
		PageCount:    pageCount,
		SourcePath:   pdfPath,
	}, nil
}

func (e *Extractor) deleteStaged(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := e.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(e.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		e.log.Warn("failed to delete staged object",
			"bucket", e.config.Bucket, "key", key, "error", err)
	}
}

// runJob starts an analysis job, polls it to completion, and gathers the
// blocks across every result page.
func (e *Extractor) runJob(ctx context.Context, key string) ([]types.Block, int, error) {
	start, err := e.textract.StartDocumentAnalysis(ctx, &textract.StartDocumentAnalysisInput{
		DocumentLocation: &types.DocumentLocation{
			S3Object: &types.S3Object{
				Bucket: aws.String(e.config.Bucket),
				Name:   aws.String(key),
			},
		},
		FeatureTypes: []types.FeatureType{types.FeatureTypeTables},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("starting Textract job: %w", err)
	}

	jobID := aws.ToString(start.JobId)
	e.log.Info("started Textract job", "job_id", jobID)

	deadline := time.Now().Add(e.config.MaxWait)
	var result *textract.GetDocumentAnalysisOutput

	for {
		if time.Now().After(deadline) {
			return nil, 0, fmt.Errorf("Textract job %s timed out after %s", jobID, e.config.MaxWait)
		}

		result, err = e.textract.GetDocumentAnalysis(ctx, &textract.GetDocumentAnalysisInput{
			JobId: aws.String(jobID),
		})
		if err != nil {
			return nil, 0, fmt.Errorf("polling Textract job %s: %w", jobID, err)
		}

		if result.JobStatus == types.JobStatusSucceeded {
			break
		}
		if result.JobStatus == types.JobStatusFailed {
			return nil, 0, fmt.Errorf("Textract job %s failed: %s", jobID, aws.ToString(result.StatusMessage))
		}

		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case <-time.After(e.config.PollInterval):
		}
	}

	// Multi-page exhibits return blocks across several result pages.
	blocks := result.Blocks
	nextToken := result.NextToken
	for nextToken != nil {
		page, err := e.textract.GetDocumentAnalysis(ctx, &textract.GetDocumentAnalysisInput{
			JobId:     aws.String(jobID),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("fetching Textract result page: %w", err)
		}
		blocks = append(blocks, page.Blocks...)
		nextToken = page.NextToken
	}

	pageCount := 0
	if result.DocumentMetadata != nil {
		pageCount = int(aws.ToInt32(result.DocumentMetadata.Pages))
	}

	e.log.Debug("retrieved Textract blocks", "count", len(blocks))
	return blocks, pageCount, nil
}
