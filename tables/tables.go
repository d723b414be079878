// Package tables extracts tabular data from exhibit PDFs through AWS
// Textract. Lease schedules, tract lists, and similar typed tables come
// back as grids which are then mapped to structured lease records by
// header-name matching.
//
// Textract's asynchronous analysis API only reads from S3, so the exhibit
// is staged in a temporary bucket object for the duration of the job and
// removed afterward.
package tables

// TableCell is a single cell position in an extracted table.
type TableCell struct {
	Text        string
	RowIndex    int
	ColumnIndex int
	Confidence  float64
}

// ExtractedTable is one table found in a document, as a header row plus
// data rows.
type ExtractedTable struct {
	PageNumber int
	Headers    []string
	Rows       [][]string
	Confidence float64
}

// LeaseRecord is a structured row from a lease schedule. Fields the
// schedule did not carry are empty strings.
type LeaseRecord struct {
	Lessor        string
	Lessee        string
	RecordingInfo string
	Lands         string
	Date          string
	County        string
	State         string
	Acres         string
	Interest      string

	// RawRow preserves the original cells for auditing.
	RawRow []string
}

// ExtractionResult holds everything table extraction produced for one
// document.
type ExtractionResult struct {
	Tables       []ExtractedTable
	LeaseRecords []LeaseRecord
	PageCount    int
	SourcePath   string
}
