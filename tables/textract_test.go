package tables

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

type fakeS3 struct {
	puts    []string
	deletes []string
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, aws.ToString(params.Key))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

type fakeTextract struct {
	// statuses are returned in order on successive polls; the last one
	// repeats.
	statuses []types.JobStatus
	pages    []*textract.GetDocumentAnalysisOutput
	polls    int
	fetches  int
}

func (f *fakeTextract) StartDocumentAnalysis(ctx context.Context, params *textract.StartDocumentAnalysisInput, optFns ...func(*textract.Options)) (*textract.StartDocumentAnalysisOutput, error) {
	return &textract.StartDocumentAnalysisOutput{JobId: aws.String("job-1")}, nil
}

func (f *fakeTextract) GetDocumentAnalysis(ctx context.Context, params *textract.GetDocumentAnalysisInput, optFns ...func(*textract.Options)) (*textract.GetDocumentAnalysisOutput, error) {
	if params.NextToken != nil {
		f.fetches++
		return f.pages[f.fetches], nil
	}

	i := f.polls
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	f.polls++

	status := f.statuses[i]
	if status != types.JobStatusSucceeded && status != types.JobStatusFailed {
		return &textract.GetDocumentAnalysisOutput{JobStatus: status}, nil
	}

	out := f.pages[0]
	out.JobStatus = status
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exhibit.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract_EndToEnd(t *testing.T) {
	blocks := buildTableBlocks(1, [][]string{
		{"Lessor", "Lands", "Recording"},
		{"SMITH, JOHN", "NW/4 Sec 15", "Bk 12/Pg 34"},
	})

	s3c := &fakeS3{}
	txc := &fakeTextract{
		statuses: []types.JobStatus{types.JobStatusInProgress, types.JobStatusSucceeded},
		pages: []*textract.GetDocumentAnalysisOutput{
			{
				Blocks:           blocks,
				DocumentMetadata: &types.DocumentMetadata{Pages: aws.Int32(2)},
			},
		},
	}

	e := newExtractor(s3c, txc, Config{
		Bucket:       "test-bucket",
		PollInterval: time.Millisecond,
		Logger:       testLogger(),
	})

	result, err := e.Extract(context.Background(), writeTempPDF(t))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(result.Tables) != 1 {
		t.Fatalf("got %d tables; want 1", len(result.Tables))
	}
	if len(result.LeaseRecords) != 1 {
		t.Fatalf("got %d lease records; want 1", len(result.LeaseRecords))
	}
	if result.LeaseRecords[0].Lessor != "SMITH, JOHN" {
		t.Errorf("lessor = %q", result.LeaseRecords[0].Lessor)
	}
	if result.PageCount != 2 {
		t.Errorf("page count = %d; want 2", result.PageCount)
	}

	if len(s3c.puts) != 1 {
		t.Fatalf("got %d uploads; want 1", len(s3c.puts))
	}
	if !strings.HasPrefix(s3c.puts[0], "textract-temp/") {
		t.Errorf("staged key = %q; want textract-temp/ prefix", s3c.puts[0])
	}
	if len(s3c.deletes) != 1 || s3c.deletes[0] != s3c.puts[0] {
		t.Errorf("staged object not cleaned up: puts %v deletes %v", s3c.puts, s3c.deletes)
	}
}

func TestExtract_PaginatedResults(t *testing.T) {
	blocks := buildTableBlocks(1, [][]string{
		{"Lessor", "Lands"},
		{"SMITH, JOHN", "NW/4 Sec 15"},
	})
	split := len(blocks) / 2

	txc := &fakeTextract{
		statuses: []types.JobStatus{types.JobStatusSucceeded},
		pages: []*textract.GetDocumentAnalysisOutput{
			{
				Blocks:           blocks[:split],
				NextToken:        aws.String("more"),
				DocumentMetadata: &types.DocumentMetadata{Pages: aws.Int32(1)},
			},
			{Blocks: blocks[split:]},
		},
	}

	e := newExtractor(&fakeS3{}, txc, Config{
		Bucket:       "test-bucket",
		PollInterval: time.Millisecond,
		Logger:       testLogger(),
	})

	result, err := e.Extract(context.Background(), writeTempPDF(t))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if txc.fetches != 1 {
		t.Errorf("result page fetches = %d; want 1", txc.fetches)
	}
	if len(result.Tables) != 1 || len(result.Tables[0].Rows) != 1 {
		t.Errorf("blocks from both result pages should rebuild the full table: %+v", result.Tables)
	}
}

func TestExtract_JobFailureStillCleansUp(t *testing.T) {
	s3c := &fakeS3{}
	txc := &fakeTextract{
		statuses: []types.JobStatus{types.JobStatusFailed},
		pages: []*textract.GetDocumentAnalysisOutput{
			{StatusMessage: aws.String("unreadable document")},
		},
	}

	e := newExtractor(s3c, txc, Config{
		Bucket:       "test-bucket",
		PollInterval: time.Millisecond,
		Logger:       testLogger(),
	})

	_, err := e.Extract(context.Background(), writeTempPDF(t))
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !strings.Contains(err.Error(), "unreadable document") {
		t.Errorf("error = %v; want the job status message surfaced", err)
	}
	if len(s3c.deletes) != 1 {
		t.Errorf("staged object not removed after failure: %v", s3c.deletes)
	}
}

func TestExtract_Timeout(t *testing.T) {
	txc := &fakeTextract{
		statuses: []types.JobStatus{types.JobStatusInProgress},
	}

	e := newExtractor(&fakeS3{}, txc, Config{
		Bucket:       "test-bucket",
		PollInterval: time.Millisecond,
		MaxWait:      5 * time.Millisecond,
		Logger:       testLogger(),
	})

	_, err := e.Extract(context.Background(), writeTempPDF(t))
	if err == nil {
		t.Fatal("expected a timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %v; want a timeout", err)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	e := newExtractor(&fakeS3{}, &fakeTextract{}, Config{
		Bucket: "test-bucket",
		Logger: testLogger(),
	})
	if _, err := e.Extract(context.Background(), "/nonexistent/file.pdf"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	t.Setenv("TEXTRACT_S3_BUCKET", "")
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Error("expected an error when no bucket is configured")
	}
}
