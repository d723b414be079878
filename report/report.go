// Package report produces XLSX workbooks from chain-of-title queries and
// parsed lease schedules, for examiners who work in spreadsheets.
package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/titula/graph"
	"github.com/tsawler/titula/tables"
)

// Writer builds export workbooks.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a report writer.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// ChainOfTitleXLSX returns a workbook listing a tract's conveyances,
// oldest first, one row per CONVEYED edge.
func (w *Writer) ChainOfTitleXLSX(spatialKey string, links []graph.ChainLink) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Chain of Title"
	if err := setupSheet(f, sheet); err != nil {
		return nil, err
	}

	writeHeaders(f, sheet, []string{
		"Grantor",
		"Grantee",
		"Document Type",
		"Interest Type",
		"Interest Fraction",
		"Recording Date",
		"Recording Info",
	})

	row := 2
	for _, link := range links {
		write := cellWriter(f, sheet, row)
		write(1, link.Grantor)
		write(2, link.Grantee)
		write(3, link.DocumentType)
		write(4, link.InterestType)
		if link.InterestFraction > 0 {
			write(5, link.InterestFraction)
		} else {
			write(5, "")
		}
		write(6, link.RecordingDate)
		write(7, link.RecordingInfo)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "B", 36)
	_ = f.SetColWidth(sheet, "C", "D", 20)
	_ = f.SetColWidth(sheet, "E", "F", 16)
	_ = f.SetColWidth(sheet, "G", "G", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	w.logger.Info("report.chain.ok",
		"spatial_key", spatialKey,
		"rows", len(links),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// LeaseScheduleXLSX returns a workbook listing lease-schedule records,
// one row per lease.
func (w *Writer) LeaseScheduleXLSX(source string, records []tables.LeaseRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Lease Schedule"
	if err := setupSheet(f, sheet); err != nil {
		return nil, err
	}

	writeHeaders(f, sheet, []string{
		"Lessor",
		"Lessee",
		"Recording",
		"Lands",
		"Date",
		"County",
		"State",
		"Acres",
		"Interest",
	})

	row := 2
	for _, r := range records {
		write := cellWriter(f, sheet, row)
		write(1, r.Lessor)
		write(2, r.Lessee)
		write(3, r.RecordingInfo)
		write(4, r.Lands)
		write(5, r.Date)
		write(6, r.County)
		write(7, r.State)
		write(8, r.Acres)
		write(9, r.Interest)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "B", 32)
	_ = f.SetColWidth(sheet, "C", "C", 22)
	_ = f.SetColWidth(sheet, "D", "D", 48)
	_ = f.SetColWidth(sheet, "E", "I", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	w.logger.Info("report.leases.ok",
		"source", source,
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// OwnershipXLSX returns a workbook listing computed current ownership
// interests for a tract.
func (w *Writer) OwnershipXLSX(spatialKey string, interests []graph.OwnershipInterest) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Current Ownership"
	if err := setupSheet(f, sheet); err != nil {
		return nil, err
	}

	writeHeaders(f, sheet, []string{"Owner", "Normalized Name", "Interest"})

	row := 2
	for _, oi := range interests {
		write := cellWriter(f, sheet, row)
		write(1, oi.Owner)
		write(2, oi.NormalizedName)
		write(3, oi.Interest)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "B", 36)
	_ = f.SetColWidth(sheet, "C", "C", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	w.logger.Info("report.ownership.ok", "spatial_key", spatialKey, "rows", len(interests))
	return buf.Bytes(), nil
}

func setupSheet(f *excelize.File, sheet string) error {
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	// Drop the default sheet so the workbook opens on ours.
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}
	return nil
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func cellWriter(f *excelize.File, sheet string, row int) func(col int, v any) {
	return func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
