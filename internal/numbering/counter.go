package numbering

import (
	"fmt"
	"sync"
)

// Counter hands out invoice sequence numbers per fiscal year. The highest used
// number is read from the store once per year; later reservations increment in
// memory, so a Counter must be the only writer of its years while it is in use.
type Counter struct {
	mu    sync.Mutex
	store Store
	next  map[int]int
}

// NewCounter returns a Counter backed by store.
func NewCounter(store Store) *Counter {
	return &Counter{store: store, next: make(map[int]int)}
}

// Highest returns the highest sequence number in use for year, or 0 when none is.
// It always consults the store.
func (c *Counter) Highest(year int) (int, error) {
	seqs, err := c.store.Sequences(year)
	if err != nil {
		return 0, fmt.Errorf("Highest: %w", err)
	}
	highest := 0
	for _, n := range seqs {
		if n > highest {
			highest = n
		}
	}
	return highest, nil
}

// Reserve returns the next free sequence of year and marks it used.
func (c *Counter) Reserve(year int) (int, error) {
	const op = "Reserve"

	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := c.next[year]
	if !ok {
		highest, err := c.Highest(year)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		next = highest + 1
	}
	if next > MaxSequence {
		return 0, fmt.Errorf("%s: %w %d", op, ErrSequenceExhausted, year)
	}
	c.next[year] = next + 1
	return next, nil
}

// Release gives seq of year back when it is the most recent reservation, so a
// failed invoice does not leave a gap. It reports whether the number was released.
func (c *Counter) Release(year, seq int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := c.next[year]
	if !ok || seq != next-1 {
		return false
	}
	c.next[year] = seq
	return true
}

// Reset forgets the reservations held in memory so the next Reserve rescans the store.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = make(map[int]int)
}
