package numbering

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Store reports the sequence numbers already used in a year.
type Store interface {
	Sequences(year int) ([]int, error)
}

// DirectoryStore finds used numbers by scanning the invoice files of the month
// folders under a base path.
type DirectoryStore struct {
	Base string
}

// Sequences returns the sequence numbers of all "factuur {year}_NNN" files in the
// month folders of year.
func (s DirectoryStore) Sequences(year int) ([]int, error) {
	re := regexp.MustCompile(fmt.Sprintf(`^factuur %d_(\d{3})`, year))

	var seqs []int
	err := s.walk(year, func(stem string) bool {
		if m := re.FindStringSubmatch(stem); m != nil {
			n, _ := strconv.Atoi(m[1])
			seqs = append(seqs, n)
		}
		return false
	})
	return seqs, err
}

// HasPrefix reports whether a file in the month folders of year starts with prefix.
func (s DirectoryStore) HasPrefix(year int, prefix string) (bool, error) {
	found := false
	err := s.walk(year, func(stem string) bool {
		found = strings.HasPrefix(stem, prefix)
		return found
	})
	return found, err
}

// walk calls fn with the extension-less name of every file in the "{year}_" folders
// below the year folder. It stops early when fn returns true.
func (s DirectoryStore) walk(year int, fn func(stem string) bool) error {
	const op = "DirectoryStore.walk"

	yearDir := YearFolder(s.Base, year)
	months, err := os.ReadDir(yearDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: failed to read %s: %w", op, yearDir, err)
	}

	prefix := fmt.Sprintf("%d_", year)
	for _, month := range months {
		if !month.IsDir() || !strings.HasPrefix(month.Name(), prefix) {
			continue
		}
		dir := filepath.Join(yearDir, month.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("%s: failed to read %s: %w", op, dir, err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			name := f.Name()
			if fn(strings.TrimSuffix(name, filepath.Ext(name))) {
				return nil
			}
		}
	}
	return nil
}

// MultiStore merges the sequences of several stores.
type MultiStore []Store

func (m MultiStore) Sequences(year int) ([]int, error) {
	var all []int
	for _, s := range m {
		if s == nil {
			continue
		}
		seqs, err := s.Sequences(year)
		if err != nil {
			return nil, err
		}
		all = append(all, seqs...)
	}
	return all, nil
}

// distinctSorted returns the unique values of seqs in ascending order.
func distinctSorted(seqs []int) []int {
	if len(seqs) == 0 {
		return []int{}
	}
	sorted := append([]int(nil), seqs...)
	sort.Ints(sorted)
	out := sorted[:1]
	for _, n := range sorted[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out
}
