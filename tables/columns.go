package tables

import "strings"

// columnMappings pairs each lease-record field with the header spellings
// that identify its column. Matching is substring, case-insensitive, and
// takes the first header that hits.
var columnMappings = []struct {
	field      string
	variations []string
}{
	{"lessor", []string{"lessor", "grantor", "owner", "mineral owner", "landowner"}},
	{"lessee", []string{"lessee", "grantee", "operator", "oil company"}},
	{"recording", []string{"recording", "book/page", "bk/pg", "doc no", "instrument", "recorded", "filing", "book", "page"}},
	{"lands", []string{"lands", "legal", "description", "property", "tract", "location", "land description"}},
	{"date", []string{"date", "effective", "execution", "dated", "lease date"}},
	{"county", []string{"county", "parish"}},
	{"state", []string{"state", "st"}},
	{"acres", []string{"acres", "acreage", "gross acres", "net acres"}},
	{"interest", []string{"interest", "wi", "working interest", "nri", "net revenue"}},
}

// MapColumns matches table headers to lease-record fields and returns
// field name to column index. Unrecognized headers are left out.
func MapColumns(headers []string) map[string]int {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	columnMap := make(map[string]int)
	for _, m := range columnMappings {
		for i, header := range lower {
			if containsAny(header, m.variations) {
				columnMap[m.field] = i
				break
			}
		}
	}
	return columnMap
}

func containsAny(header string, variations []string) bool {
	for _, v := range variations {
		if strings.Contains(header, v) {
			return true
		}
	}
	return false
}

// ParseLeaseSchedule turns extracted tables into lease records. Tables
// without headers or without any recognized column are skipped, as are
// rows too short or too empty to mean anything. A row must yield at least
// a lessor, a land description, or a recording reference to count.
func ParseLeaseSchedule(tables []ExtractedTable) []LeaseRecord {
	var records []LeaseRecord

	for _, table := range tables {
		if len(table.Headers) == 0 {
			continue
		}

		columnMap := MapColumns(table.Headers)
		if len(columnMap) == 0 {
			continue
		}

		for _, row := range table.Rows {
			if len(row) < 2 || allBlank(row) {
				continue
			}

			record := LeaseRecord{
				RawRow:        row,
				Lessor:        cellAt(row, columnMap, "lessor"),
				Lessee:        cellAt(row, columnMap, "lessee"),
				RecordingInfo: cellAt(row, columnMap, "recording"),
				Lands:         cellAt(row, columnMap, "lands"),
				Date:          cellAt(row, columnMap, "date"),
				County:        cellAt(row, columnMap, "county"),
				State:         cellAt(row, columnMap, "state"),
				Acres:         cellAt(row, columnMap, "acres"),
				Interest:      cellAt(row, columnMap, "interest"),
			}

			if record.Lessor != "" || record.Lands != "" || record.RecordingInfo != "" {
				records = append(records, record)
			}
		}
	}

	return records
}

func cellAt(row []string, columnMap map[string]int, field string) string {
	i, ok := columnMap[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func allBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
