package workbook

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"facturatie/internal/fiscal"
)

type sheetSpec struct {
	name  string
	cells map[string]interface{}
}

// writeWorkbook saves the sheets, in order, to a temporary xlsx file.
func writeWorkbook(t *testing.T, sheets ...sheetSpec) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				t.Fatalf("SetSheetName: %v", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			t.Fatalf("NewSheet(%q): %v", s.name, err)
		}
		for ref, v := range s.cells {
			if err := f.SetCellValue(s.name, ref, v); err != nil {
				t.Fatalf("SetCellValue(%s!%s): %v", s.name, ref, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "Uren 2025.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func serial(d time.Time) int {
	return int(d.Sub(time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)).Hours() / 24)
}

func june2025() fiscal.Calendar {
	return fiscal.Fixed(time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC))
}

func TestFindClientTabSubstringTier(t *testing.T) {
	path := writeWorkbook(t,
		sheetSpec{name: "Realisatie 2025"},
		sheetSpec{name: "ABC Bouw Projecten"},
		sheetSpec{name: "XYZ Vastgoed"},
	)

	matcher := MatcherFunc(func(query, candidate string) int {
		t.Errorf("matcher called with %q, %q", query, candidate)
		return 0
	})
	repo := NewRepository(path, Options{Matcher: matcher, Calendar: june2025()})

	tab, ok, err := repo.FindClientTab("ABC Bouw")
	if err != nil {
		t.Fatalf("FindClientTab: %v", err)
	}
	if !ok || tab != "ABC Bouw Projecten" {
		t.Errorf("FindClientTab = %q, %v, want %q", tab, ok, "ABC Bouw Projecten")
	}
}

func TestMatchSheet(t *testing.T) {
	sheets := []string{"Realisatie Vastgoed", "Noord Bouw", "Zuid Bouw", "ABC_Bouw_Projecten", "Jansen"}

	tests := []struct {
		name   string
		query  string
		want   string
		wantOK bool
	}{
		{"exact ignores case", "jansen", "Jansen", true},
		{"query contains sheet", "Jansen Installatietechniek", "Jansen", true},
		{"fuzzy tokens", "Bouw ABC", "ABC_Bouw_Projecten", true},
		{"tie goes to first", "Bouw Centrum", "Noord Bouw", true},
		{"reserved sheets are skipped", "Vastgoed Zeeland", "", false},
		{"short tokens ignored", "Zo", "", false},
		{"blank query", "  ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchSheet(sheets, tt.query, TokenMatcher{})
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("matchSheet(%q) = %q, %v, want %q, %v", tt.query, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTokenMatcher(t *testing.T) {
	tests := []struct {
		query, candidate string
		want             int
	}{
		{"ABC Bouw", "abc-bouw.projecten", 2},
		{"Van der Berg", "Berg", 1},
		{"QHR Weert Laarveld", "QHR_Weert_Laarveld 10 woningen", 3},
		{"XY", "XY Bouw", 0},
	}
	for _, tt := range tests {
		if got := (TokenMatcher{}).MatchScore(tt.query, tt.candidate); got != tt.want {
			t.Errorf("MatchScore(%q, %q) = %d, want %d", tt.query, tt.candidate, got, tt.want)
		}
	}
}

func TestGetClientAddress(t *testing.T) {
	path := writeWorkbook(t,
		sheetSpec{name: "Realisatie 2025"},
		sheetSpec{name: "De Vries Bouw", cells: map[string]interface{}{
			"B1": "Naam Project", "C1": "De Vries Bouw BV",
			"C2": "T.a.v. mevrouw De Vries",
			"C3": "Markt 12",
			"C4": "1234 AB",
			"C5": "Roermond",
			"C6": 95.0,
		}},
		sheetSpec{name: "Pietersen", cells: map[string]interface{}{
			"C1": "Pietersen Advies",
			"C3": "Kerkstraat 1",
			"C6": "€ 120,50",
		}},
		sheetSpec{name: "Blanco", cells: map[string]interface{}{
			"C6": "n.v.t.",
		}},
	)
	repo := NewRepository(path, Options{Calendar: june2025()})
	if repo.Path() != path {
		t.Errorf("Path() = %q, want %q", repo.Path(), path)
	}

	t.Run("full block", func(t *testing.T) {
		got := repo.GetClientAddress("De Vries Bouw")
		want := ClientRecord{
			Name: "De Vries Bouw BV", Attention: "T.a.v. mevrouw De Vries", Street: "Markt 12",
			PostalCode: "1234 AB", City: "Roermond",
		}
		if got.Name != want.Name || got.Attention != want.Attention || got.Street != want.Street ||
			got.PostalCode != want.PostalCode || got.City != want.City {
			t.Errorf("GetClientAddress = %+v, want %+v", got, want)
		}
		if got.HourlyRate.String() != "95" {
			t.Errorf("HourlyRate = %s, want 95", got.HourlyRate)
		}
	})

	t.Run("partial block with text rate", func(t *testing.T) {
		got := repo.GetClientAddress("Pietersen")
		def := DefaultClientRecord("Pietersen")
		if got.Name != "Pietersen Advies" || got.Street != "Kerkstraat 1" {
			t.Errorf("GetClientAddress = %+v", got)
		}
		if got.Attention != def.Attention || got.PostalCode != def.PostalCode || got.City != def.City {
			t.Errorf("blank fields not defaulted: %+v", got)
		}
		if got.HourlyRate.StringFixed(2) != "120.50" {
			t.Errorf("HourlyRate = %s, want 120.50", got.HourlyRate)
		}
	})

	t.Run("unparsable rate", func(t *testing.T) {
		got := repo.GetClientAddress("Blanco")
		if got.Name != "Blanco" || !got.HourlyRate.Equal(DefaultHourlyRate) {
			t.Errorf("GetClientAddress = %+v, want defaults", got)
		}
	})

	t.Run("missing tab", func(t *testing.T) {
		got := repo.GetClientAddress("Onbekend")
		if got.Name != "Onbekend" || got.Street != "Willinkhof 3" || got.City != "Weert" ||
			!got.HourlyRate.Equal(DefaultHourlyRate) {
			t.Errorf("GetClientAddress = %+v, want defaults", got)
		}
	})
}

func TestGetTimeEntries(t *testing.T) {
	may20 := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)
	path := writeWorkbook(t,
		sheetSpec{name: "Realisatie 2025"},
		sheetSpec{name: "Jansen", cells: map[string]interface{}{
			"B10": serial(may20), "C10": "Bouwvergadering", "D10": "2,5", "E10": "op locatie",
			"B11": "05-05-2025", "C11": "Offerte beoordelen", "D11": "1.5",
			"B12": "12-05-2025", "D12": "3",
			"B13": "28/05/2025", "C13": "Telefonisch overleg",
			"B14": "14-04-2025", "C14": "April werk", "D14": "4",
			"B16": "15-mei-2025", "C16": "Na een lege regel", "D16": "2",
			"B30": "21-05-2025", "C30": "Na het einde", "D30": "8",
		}},
	)
	repo := NewRepository(path, Options{Calendar: june2025()})

	got := repo.GetTimeEntries("Jansen", "Mei")

	wantActivities := []string{"Offerte beoordelen", "Na een lege regel", "Bouwvergadering", "Telefonisch overleg"}
	if len(got) != len(wantActivities) {
		t.Fatalf("GetTimeEntries returned %d entries, want %d: %+v", len(got), len(wantActivities), got)
	}
	for i, want := range wantActivities {
		if got[i].Activity != want {
			t.Errorf("entry %d activity = %q, want %q", i, got[i].Activity, want)
		}
	}
	if got[2].Hours != "2,5" || got[2].Remarks != "op locatie" {
		t.Errorf("entry 2 = %+v", got[2])
	}
	if got[3].Hours != "1,0" {
		t.Errorf("empty hours = %q, want 1,0", got[3].Hours)
	}
	if !got[2].Date.Equal(may20) {
		t.Errorf("serial date = %s, want %s", got[2].Date, may20)
	}
}

func TestGetTimeEntriesFallback(t *testing.T) {
	path := writeWorkbook(t,
		sheetSpec{name: "Realisatie 2025"},
		sheetSpec{name: "Jansen", cells: map[string]interface{}{
			"B10": "14-04-2025", "C10": "April werk", "D10": "4",
		}},
	)

	tests := []struct {
		name   string
		path   string
		client string
	}{
		{"absent tab", path, "Onbekende Klant"},
		{"no entries in month", path, "Jansen"},
		{"missing workbook", filepath.Join(t.TempDir(), "missing.xlsx"), "Jansen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewRepository(tt.path, Options{Calendar: june2025()})
			got := repo.GetTimeEntries(tt.client, "Mei")
			if len(got) != 1 {
				t.Fatalf("GetTimeEntries returned %d entries, want 1", len(got))
			}
			e := got[0]
			if e.Hours != "1,0" || e.Remarks != "" || e.Activity != "Advieswerkzaamheden voor "+tt.client {
				t.Errorf("fallback entry = %+v", e)
			}
			if e.Date == nil || e.Date.Day() != 10 || e.Date.Month() != time.June {
				t.Errorf("fallback date = %v, want today", e.Date)
			}
		})
	}
}

func TestParseWorkDate(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"45658", "2025-01-01", true},
		{"45658.75", "2025-01-01", true},
		{"15-01-2025", "2025-01-15", true},
		{"15/01/2025", "2025-01-15", true},
		{"15-01-25", "2025-01-15", true},
		{"5-3-2025", "2025-03-05", true},
		{"15-Jan-2025", "2025-01-15", true},
		{"15-mrt-25", "2025-03-15", true},
		{"3 oktober 2025", "2025-10-03", true},
		{"2025-07-01", "2025-07-01", true},
		{"", "", false},
		{"gisteren", "", false},
		{"0", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseWorkDate(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseWorkDate(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseWorkDate(%q) = %s, want %s", tt.raw, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		name           string
		raw, formatted string
		want           string
		wantOK         bool
	}{
		{"numeric cell", "107.5", "€ 107,50", "107.50", true},
		{"comma text", "95,00", "95,00", "95.00", true},
		{"dutch grouping", "€ 1.250,75", "€ 1.250,75", "1250.75", true},
		{"english grouping", "1,250.75", "1,250.75", "1250.75", true},
		{"zero", "0", "0", "", false},
		{"negative", "-10", "-10", "", false},
		{"text", "op aanvraag", "op aanvraag", "", false},
		{"blank", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRate(tt.raw, tt.formatted)
			if ok != tt.wantOK {
				t.Fatalf("ParseRate(%q, %q) ok = %v, want %v", tt.raw, tt.formatted, ok, tt.wantOK)
			}
			if ok && got.StringFixed(2) != tt.want {
				t.Errorf("ParseRate(%q, %q) = %s, want %s", tt.raw, tt.formatted, got.StringFixed(2), tt.want)
			}
		})
	}
}
