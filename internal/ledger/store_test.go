package ledger

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"facturatie/internal/numbering"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := openTestStore(t)

	rec := &Record{
		Number:      "factuur 2025_010",
		Client:      "Bouwbedrijf Jansen",
		Month:       "Juni",
		Hours:       5.5,
		Net:         decimal.RequireFromString("591.25"),
		Gross:       decimal.RequireFromString("715.41"),
		PaymentKind: "online",
		PaymentID:   "tr_1",
		Status:      "open",
	}
	if err := s.Put(rec); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get("factuur 2025_010")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Year != 2025 || got.Sequence != 10 {
		t.Errorf("Year, Sequence = %d, %d, want 2025, 10", got.Year, got.Sequence)
	}
	if !got.Gross.Equal(rec.Gross) || got.Client != rec.Client {
		t.Errorf("Get() = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Errorf("CreatedAt not set")
	}

	if err := s.Put(&Record{Number: "factuur 2025_010"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second Put() error = %v, want ErrDuplicate", err)
	}
	if err := s.Put(&Record{Number: "2025-10"}); !errors.Is(err, numbering.ErrInvalidNumber) {
		t.Errorf("Put(bad number) error = %v, want ErrInvalidNumber", err)
	}
	if _, err := s.Get("factuur 2025_011"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestReplaceKeepsCreatedAt(t *testing.T) {
	s := openTestStore(t)
	first := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	s.now = func() time.Time { return first }
	if err := s.Put(&Record{Number: "factuur 2025_004", Client: "Oud"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	s.now = func() time.Time { return later }
	if err := s.Replace(&Record{Number: "factuur 2025_004", Client: "Nieuw"}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	got, err := s.Get("factuur 2025_004")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Client != "Nieuw" {
		t.Errorf("Client = %q, want Nieuw", got.Client)
	}
	if !got.CreatedAt.Equal(first) || !got.UpdatedAt.Equal(later) {
		t.Errorf("CreatedAt, UpdatedAt = %v, %v, want %v, %v", got.CreatedAt, got.UpdatedAt, first, later)
	}

	if err := s.Replace(&Record{Number: "factuur 2025_005"}); err != nil {
		t.Errorf("Replace(new) error = %v", err)
	}
}

func TestSequencesAndList(t *testing.T) {
	s := openTestStore(t)
	for _, n := range []string{"factuur 2025_003", "factuur 2024_020", "factuur 2025_001", "factuur 2026_001"} {
		if err := s.Put(&Record{Number: n}); err != nil {
			t.Fatalf("Put(%s) error = %v", n, err)
		}
	}

	seqs, err := s.Sequences(2025)
	if err != nil {
		t.Fatalf("Sequences() error = %v", err)
	}
	if len(seqs) != 2 || seqs[0] != 1 || seqs[1] != 3 {
		t.Errorf("Sequences(2025) = %v, want [1 3]", seqs)
	}

	all, err := s.List(0)
	if err != nil {
		t.Fatalf("List(0) error = %v", err)
	}
	if len(all) != 4 {
		t.Errorf("List(0) returned %d records, want 4", len(all))
	}

	recs, err := s.List(2024)
	if err != nil {
		t.Fatalf("List(2024) error = %v", err)
	}
	if len(recs) != 1 || recs[0].Number != "factuur 2024_020" {
		t.Errorf("List(2024) = %v", recs)
	}
}

func TestLedgerFeedsCounter(t *testing.T) {
	s := openTestStore(t)
	if err := s.Put(&Record{Number: "factuur 2025_041"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	c := numbering.NewCounter(s)
	seq, err := c.Reserve(2025)
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if seq != 42 {
		t.Errorf("Reserve() = %d, want 42", seq)
	}
}

func TestUpdateStatusAndPending(t *testing.T) {
	s := openTestStore(t)
	for _, rec := range []*Record{
		{Number: "factuur 2025_001", PaymentID: "tr_1", Status: "open"},
		{Number: "factuur 2025_002", PaymentID: "tr_2", Status: "open"},
		{Number: "factuur 2025_003", PaymentKind: "offline"},
	} {
		if err := s.Put(rec); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	paidAt := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	if err := s.UpdateStatus("factuur 2025_001", "paid", &paidAt); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, _ := s.Get("factuur 2025_001")
	if got.Status != "paid" || got.PaidAt == nil || !got.PaidAt.Equal(paidAt) {
		t.Errorf("after UpdateStatus = %+v", got)
	}

	pending, err := s.Pending()
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	if len(pending) != 1 || pending[0].Number != "factuur 2025_002" {
		t.Errorf("Pending() = %v", pending)
	}

	if err := s.UpdateStatus("factuur 2025_099", "paid", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus(missing) error = %v, want ErrNotFound", err)
	}
}
