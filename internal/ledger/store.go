package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"

	"facturatie/internal/numbering"
)

var (
	// ErrNotFound is returned when no record exists for an invoice number.
	ErrNotFound = errors.New("invoice not found in ledger")

	// ErrDuplicate is returned when an invoice number is recorded twice.
	ErrDuplicate = errors.New("invoice number already recorded")
)

const bucketInvoices = "invoices"

// Record is one generated invoice.
type Record struct {
	Number      string          `json:"number"`
	Year        int             `json:"year"`
	Sequence    int             `json:"sequence"`
	Client      string          `json:"client"`
	Month       string          `json:"month"`
	Hours       float64         `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
	Net         decimal.Decimal `json:"net"`
	VAT         decimal.Decimal `json:"vat"`
	Gross       decimal.Decimal `json:"gross"`
	Path        string          `json:"path"`
	PaymentKind string          `json:"payment_kind"`
	PaymentID   string          `json:"payment_id,omitempty"`
	CheckoutURL string          `json:"checkout_url,omitempty"`
	Status      string          `json:"status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Online reports whether the invoice has a gateway payment to track.
func (r *Record) Online() bool { return r.PaymentID != "" }

// Store is a bbolt database of generated invoices keyed by invoice number.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens or creates the ledger at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketInvoices)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketInvoices, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put records a new invoice. The number must be well formed and not yet recorded.
func (s *Store) Put(rec *Record) error {
	return s.write("Put", rec, false)
}

// Replace records an invoice, overwriting an existing record with the same number.
// The original creation time is kept.
func (s *Store) Replace(rec *Record) error {
	return s.write("Replace", rec, true)
}

func (s *Store) write(op string, rec *Record, overwrite bool) error {
	rec.Number = strings.TrimSpace(rec.Number)
	year, seq, err := numbering.ParseNumber(rec.Number)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rec.Year, rec.Sequence = year, seq
	now := s.now()
	rec.UpdatedAt = now

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketInvoices))
		if existing := b.Get([]byte(rec.Number)); existing != nil {
			if !overwrite {
				return fmt.Errorf("%s: %w: %s", op, ErrDuplicate, rec.Number)
			}
			var prev Record
			if err := json.Unmarshal(existing, &prev); err == nil && rec.CreatedAt.IsZero() {
				rec.CreatedAt = prev.CreatedAt
			}
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal record: %w", op, err)
		}
		return b.Put([]byte(rec.Number), data)
	})
}

// Get returns the record for an invoice number.
func (s *Store) Get(number string) (*Record, error) {
	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketInvoices)).Get([]byte(number))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, fmt.Errorf("Get %q: %w", number, err)
	}
	return &rec, nil
}

// List returns the records of a year in number order. A year of 0 lists all.
func (s *Store) List(year int) ([]*Record, error) {
	var out []*Record
	err := s.scan(year, func(_ []byte, v []byte) error {
		var rec Record
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}
		out = append(out, &rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return out, nil
}

// UpdateStatus sets the payment status of an invoice.
func (s *Store) UpdateStatus(number, status string, paidAt *time.Time) error {
	const op = "UpdateStatus"

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketInvoices))
		data := b.Get([]byte(number))
		if data == nil {
			return fmt.Errorf("%s %q: %w", op, number, ErrNotFound)
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("%s: failed to unmarshal record: %w", op, err)
		}
		rec.Status = status
		rec.PaidAt = paidAt
		rec.UpdatedAt = s.now()

		updated, err := json.Marshal(&rec)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal record: %w", op, err)
		}
		return b.Put([]byte(number), updated)
	})
}

// Pending returns the online invoices whose payment is not yet complete.
func (s *Store) Pending() ([]*Record, error) {
	all, err := s.List(0)
	if err != nil {
		return nil, err
	}
	var out []*Record
	for _, rec := range all {
		if rec.Online() && rec.Status != "paid" {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Sequences returns the sequence numbers recorded for a year.
func (s *Store) Sequences(year int) ([]int, error) {
	var seqs []int
	err := s.scan(year, func(k, _ []byte) error {
		if _, seq, err := numbering.ParseNumber(string(k)); err == nil {
			seqs = append(seqs, seq)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Sequences: %w", err)
	}
	sort.Ints(seqs)
	return seqs, nil
}

// scan visits the keys of a year with a prefix seek; year 0 visits everything.
func (s *Store) scan(year int, fn func(k, v []byte) error) error {
	var prefix []byte
	if year != 0 {
		prefix = []byte(fmt.Sprintf("factuur %d_", year))
	}

	return s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketInvoices)).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if err := fn(k, v); err != nil {
				return err
			}
		}
		return nil
	})
}
