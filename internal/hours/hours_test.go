package hours

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"facturatie/internal/workbook"
)

func TestParseHours(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"2,5", 2.5},
		{"2.5", 2.5},
		{"1,0", 1},
		{" 3 ", 3},
		{"1.234,5", 1234.5},
		{"1,234.5", 1234.5},
		{"4 uur", 4},
		{"1,5 uur", 1.5},
		{"", 0},
		{"n.v.t.", 0},
		{"NaN", 0},
		{"Inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := ParseHours(tt.text); got != tt.want {
				t.Errorf("ParseHours(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFormatHours(t *testing.T) {
	if got := FormatHours(12.25); got != "12,2" && got != "12,3" {
		t.Errorf("FormatHours(12.25) = %q", got)
	}
	if got := FormatHours(8); got != "8,0" {
		t.Errorf("FormatHours(8) = %q, want 8,0", got)
	}
}

type fakeSource struct {
	entries []workbook.TimeEntry
	record  workbook.ClientRecord
	panics  bool
}

func (f fakeSource) GetTimeEntries(string, string) []workbook.TimeEntry {
	if f.panics {
		panic("sheet exploded")
	}
	return f.entries
}

func (f fakeSource) GetClientAddress(string) workbook.ClientRecord { return f.record }

func entry(hours string) workbook.TimeEntry {
	d := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	return workbook.TimeEntry{Date: &d, Activity: "werk", Hours: hours}
}

func TestTotalHours(t *testing.T) {
	tests := []struct {
		name   string
		source EntrySource
		want   float64
	}{
		{"mixed notation", fakeSource{entries: []workbook.TimeEntry{entry("2,5"), entry("1.5"), entry("x")}}, 4},
		{"fallback entry", fakeSource{entries: []workbook.TimeEntry{entry("1,0")}}, 1},
		{"no source", nil, 0},
		{"source panics", fakeSource{panics: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewAggregator(tt.source).TotalHours("Jansen", "Mei"); got != tt.want {
				t.Errorf("TotalHours = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	record := workbook.DefaultClientRecord("Jansen")
	record.HourlyRate = decimal.RequireFromString("107.5")
	src := fakeSource{
		entries: []workbook.TimeEntry{entry("2,5"), entry("3")},
		record:  record,
	}

	s := NewAggregator(src).Summarize("Jansen", "Mei")
	if s.TotalHours != 5.5 {
		t.Errorf("TotalHours = %v, want 5.5", s.TotalHours)
	}
	if want := decimal.RequireFromString("591.25"); !s.Amount.Equal(want) {
		t.Errorf("Amount = %s, want %s", s.Amount, want)
	}
	if len(s.Entries) != 2 {
		t.Errorf("Entries = %d, want 2", len(s.Entries))
	}
}
