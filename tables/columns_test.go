package tables

import "testing"

func TestMapColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    map[string]int
	}{
		{
			name:    "standard lease schedule",
			headers: []string{"Lessor", "Lessee", "Recording", "Description", "Date"},
			want:    map[string]int{"lessor": 0, "lessee": 1, "recording": 2, "lands": 3, "date": 4},
		},
		{
			name:    "variant spellings",
			headers: []string{"Mineral Owner", "Operator", "Bk/Pg", "Tract", "Gross Acres"},
			want:    map[string]int{"lessor": 0, "lessee": 1, "recording": 2, "lands": 3, "acres": 4},
		},
		{
			name:    "county and state",
			headers: []string{"County", "St", "Net Revenue"},
			want:    map[string]int{"county": 0, "state": 1, "interest": 2},
		},
		{
			name:    "first match wins",
			headers: []string{"Grantor", "Owner"},
			want:    map[string]int{"lessor": 0},
		},
		{
			name:    "nothing recognized",
			headers: []string{"Notes", "Remarks"},
			want:    map[string]int{},
		},
		{
			// Substring matching means short synonyms hit inside longer
			// words: "wi" claims "Widget" for the interest column.
			name:    "short synonym matches inside a word",
			headers: []string{"Widget", "Gadget"},
			want:    map[string]int{"interest": 0},
		},
		{
			name:    "case and whitespace insensitive",
			headers: []string{"  LESSOR  ", "lease date"},
			want:    map[string]int{"lessor": 0, "date": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapColumns(tt.headers)
			if len(got) != len(tt.want) {
				t.Fatalf("MapColumns(%v) = %v; want %v", tt.headers, got, tt.want)
			}
			for field, idx := range tt.want {
				if got[field] != idx {
					t.Errorf("field %q mapped to column %d; want %d", field, got[field], idx)
				}
			}
		})
	}
}

func TestParseLeaseSchedule(t *testing.T) {
	tables := []ExtractedTable{
		{
			PageNumber: 1,
			Headers:    []string{"Lessor", "Lessee", "Recording", "Lands", "Acres"},
			Rows: [][]string{
				{"SMITH, JOHN", "ACME ENERGY LLC", "Bk 123/Pg 45", "NW/4 Sec 15", "160"},
				{"JONES FAMILY TRUST", "ACME ENERGY LLC", "Bk 124/Pg 90", "SE/4 Sec 22", "160"},
			},
		},
	}

	records := ParseLeaseSchedule(tables)
	if len(records) != 2 {
		t.Fatalf("got %d records; want 2", len(records))
	}

	first := records[0]
	if first.Lessor != "SMITH, JOHN" {
		t.Errorf("lessor = %q", first.Lessor)
	}
	if first.Lessee != "ACME ENERGY LLC" {
		t.Errorf("lessee = %q", first.Lessee)
	}
	if first.RecordingInfo != "Bk 123/Pg 45" {
		t.Errorf("recording = %q", first.RecordingInfo)
	}
	if first.Lands != "NW/4 Sec 15" {
		t.Errorf("lands = %q", first.Lands)
	}
	if first.Acres != "160" {
		t.Errorf("acres = %q", first.Acres)
	}
	if len(first.RawRow) != 5 {
		t.Errorf("raw row length = %d; want 5", len(first.RawRow))
	}
}

func TestParseLeaseSchedule_SkipsUnusableTables(t *testing.T) {
	tables := []ExtractedTable{
		{PageNumber: 1, Rows: [][]string{{"a", "b"}}},
		{PageNumber: 2, Headers: []string{"Widget", "Gadget"}, Rows: [][]string{{"a", "b"}}},
	}
	if records := ParseLeaseSchedule(tables); len(records) != 0 {
		t.Errorf("got %d records from headerless/unrecognized tables; want 0", len(records))
	}
}

func TestParseLeaseSchedule_SkipsEmptyRows(t *testing.T) {
	tables := []ExtractedTable{
		{
			PageNumber: 1,
			Headers:    []string{"Lessor", "Lands"},
			Rows: [][]string{
				{"", "  "},
				{"short"},
				{"SMITH, JOHN", "NW/4 Sec 15"},
			},
		},
	}
	records := ParseLeaseSchedule(tables)
	if len(records) != 1 {
		t.Fatalf("got %d records; want 1", len(records))
	}
	if records[0].Lessor != "SMITH, JOHN" {
		t.Errorf("lessor = %q", records[0].Lessor)
	}
}

func TestParseLeaseSchedule_RequiresMeaningfulData(t *testing.T) {
	tables := []ExtractedTable{
		{
			PageNumber: 1,
			Headers:    []string{"Lessor", "Acres", "Date"},
			Rows: [][]string{
				{"", "160", "01/01/2020"},
			},
		},
	}
	if records := ParseLeaseSchedule(tables); len(records) != 0 {
		t.Errorf("row with no lessor, lands, or recording produced %d records; want 0", len(records))
	}
}
