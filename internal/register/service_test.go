package register

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
)

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit#gid=0", "1AbC-dEf_123", false},
		{"https://docs.google.com/spreadsheets/d/xyz", "xyz", false},
		{"https://example.com/sheet", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := extractSpreadsheetID(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractSpreadsheetID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("extractSpreadsheetID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRowValues(t *testing.T) {
	row := rowValues(Entry{
		Number:      "factuur 2025_010",
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Client:      "Bouwbedrijf Jansen",
		Month:       "Juni",
		Hours:       5.5,
		Rate:        decimal.RequireFromString("107.50"),
		Net:         decimal.RequireFromString("591.25"),
		VAT:         decimal.RequireFromString("124.16"),
		Gross:       decimal.RequireFromString("715.41"),
		PaymentKind: "online",
		PaymentID:   "tr_1",
		File:        "factuur_2025_010_Bouwbedrijf_Jansen.pdf",
	})

	if len(row) != len(headers) {
		t.Fatalf("row has %d columns, headers have %d", len(row), len(headers))
	}
	if row[1] != "01-06-2025" {
		t.Errorf("date = %v, want 01-06-2025", row[1])
	}
	if row[8] != 715.41 {
		t.Errorf("gross = %v, want 715.41", row[8])
	}
}

type fakeSheets struct {
	mu       sync.Mutex
	calls    []string
	appended [][]interface{}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(path, ":append"):
		f.calls = append(f.calls, "append")
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.appended = append(f.appended, body.Values...)
		_, _ = w.Write([]byte(`{"spreadsheetId":"abc"}`))
	case strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "addSheet")
		_, _ = w.Write([]byte(`{"spreadsheetId":"abc","replies":[{"addSheet":{"properties":{"sheetId":7,"title":"Facturen"}}}]}`))
	case strings.Contains(path, "/values/") && r.Method == http.MethodPut:
		f.calls = append(f.calls, "headers")
		_, _ = w.Write([]byte(`{"spreadsheetId":"abc"}`))
	case strings.Contains(path, "/values/"):
		f.calls = append(f.calls, "readHeaders")
		_, _ = w.Write([]byte(`{"range":"Facturen!A1:L1","majorDimension":"ROWS"}`))
	default:
		f.calls = append(f.calls, "get")
		_, _ = w.Write([]byte(`{"spreadsheetId":"abc","sheets":[{"properties":{"sheetId":0,"title":"Blad1"}}]}`))
	}
}

func TestAppendCreatesSheetAndHeaders(t *testing.T) {
	fake := &fakeSheets{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	svc, err := NewServiceWithOptions(ctx, "https://docs.google.com/spreadsheets/d/abc/edit", "",
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewServiceWithOptions() error = %v", err)
	}

	err = svc.Append(ctx, []Entry{
		{Number: "factuur 2025_010", Client: "Jansen", Net: decimal.NewFromInt(100)},
		{Number: "factuur 2025_011", Client: "De Vries", Net: decimal.NewFromInt(200)},
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	want := "get,addSheet,readHeaders,headers,append"
	if got := strings.Join(fake.calls, ","); got != want {
		t.Errorf("calls = %s, want %s", got, want)
	}
	if len(fake.appended) != 2 || fake.appended[1][0] != "factuur 2025_011" {
		t.Errorf("appended = %v", fake.appended)
	}
}

func TestAppendNothing(t *testing.T) {
	fake := &fakeSheets{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	svc, err := NewServiceWithOptions(context.Background(), "https://docs.google.com/spreadsheets/d/abc", "Facturen",
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewServiceWithOptions() error = %v", err)
	}
	if err := svc.Append(context.Background(), nil); err != nil {
		t.Errorf("Append(nil) error = %v", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("calls = %v, want none", fake.calls)
	}
}
