package workbook

import (
	"errors"
	"testing"
)

func TestListClients(t *testing.T) {
	path := writeWorkbook(t,
		sheetSpec{name: "Realisatie 2025", cells: map[string]interface{}{
			"A1": "Realisatie 2025",
			"B3": "Januari", "C3": "Februari", "D3": "Maart",
			"A4": "Factuurgegevens:",
			"A5": "ABC Bouw", "B5": 1200.0, "C5": 0,
			"A6": "Kostenbeheer BV", "C6": 500.5,
			"A8": "XYZ Vastgoed", "B8": 300, "D8": "n.v.t.",
			"A9": "Totaal", "B9": 1500,
			"A10": "Na totaal", "B10": 100,
		}},
		sheetSpec{name: "ABC Bouw"},
	)
	repo := NewRepository(path, Options{Calendar: june2025()})

	clients, err := repo.ListClients()
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}

	wantNames := []string{"ABC Bouw", "Kostenbeheer BV", "XYZ Vastgoed"}
	if len(clients) != len(wantNames) {
		t.Fatalf("ListClients returned %d clients, want %d: %+v", len(clients), len(wantNames), clients)
	}
	for i, want := range wantNames {
		if clients[i].Name != want {
			t.Errorf("client %d = %q, want %q", i, clients[i].Name, want)
		}
	}
	if _, ok := clients[0].Amounts["Februari"]; ok {
		t.Error("zero amount counted for ABC Bouw in Februari")
	}
	if len(clients[2].Amounts) != 1 {
		t.Errorf("XYZ Vastgoed amounts = %v, want only Januari", clients[2].Amounts)
	}

	jan := FilterMonth(clients, "januari")
	if len(jan) != 2 || jan[0].Name != "ABC Bouw" || jan[0].Amount != 1200 || jan[1].Name != "XYZ Vastgoed" {
		t.Errorf("FilterMonth(januari) = %+v", jan)
	}

	feb, err := repo.ClientsForMonth("Februari")
	if err != nil {
		t.Fatalf("ClientsForMonth: %v", err)
	}
	if len(feb) != 1 || feb[0].Name != "Kostenbeheer BV" || feb[0].Amount != 500.5 {
		t.Errorf("ClientsForMonth(Februari) = %+v", feb)
	}
}

func TestListClientsWithoutHeader(t *testing.T) {
	path := writeWorkbook(t, sheetSpec{name: "Realisatie 2025", cells: map[string]interface{}{
		"B3": "April",
		"A5": "Eerste", "B5": 10,
		"A31": "Laatste", "B31": 20,
		"A32": "Buiten bereik", "B32": 30,
	}})
	repo := NewRepository(path, Options{Calendar: june2025()})

	clients, err := repo.ListClients()
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(clients) != 2 || clients[0].Name != "Eerste" || clients[1].Name != "Laatste" {
		t.Errorf("ListClients = %+v", clients)
	}
}

func TestListClientsStopsAtBlankRun(t *testing.T) {
	path := writeWorkbook(t, sheetSpec{name: "Realisatie 2025", cells: map[string]interface{}{
		"B3": "Mei",
		"A4": "factuurgegevens",
		"A5": "Alpha", "B5": 10,
		"A9": "Beta", "B9": 20,
	}})
	repo := NewRepository(path, Options{Calendar: june2025()})

	clients, err := repo.ListClients()
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(clients) != 1 || clients[0].Name != "Alpha" {
		t.Errorf("ListClients = %+v, want only Alpha", clients)
	}
}

func TestListClientsMissingSheet(t *testing.T) {
	path := writeWorkbook(t, sheetSpec{name: "Realisatie 2024"})
	repo := NewRepository(path, Options{Calendar: june2025()})

	if _, err := repo.ListClients(); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("ListClients error = %v, want ErrSheetNotFound", err)
	}
}

func TestIsEndMarker(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"Totaal", true},
		{"BTW 21%", true},
		{"Subtotaal excl.", true},
		{"Kosten derden", true},
		{"Budget:", true},
		{"Kostenbeheer BV", false},
		{"Totaalbouw Limburg", false},
		{"ABC Bouw", false},
	}
	for _, tt := range tests {
		if got := isEndMarker(tt.value); got != tt.want {
			t.Errorf("isEndMarker(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
