package testfixtures

import (
	"context"
	"sync"

	"github.com/example/timeclock/internal/persistence"
)

// RowStore is an in-memory persistence.RowStore with error injection and
// call tracking, the stand-in for the remote spreadsheet in service tests.
type RowStore struct {
	mu         sync.Mutex
	partitions map[string][][]string

	// Injected failures. When set, the corresponding operation returns the
	// error without touching state.
	OpenErr   error
	AppendErr error
	ReadErr   error

	// BeforeAppend, when set, runs just before a row is stored. Race tests
	// use it to interleave a second writer inside the check-then-append gap.
	BeforeAppend func(partition string, cells []string)

	OpenCalls   int
	AppendCalls int
	ReadCalls   int
}

// NewRowStore returns an empty in-memory row store.
func NewRowStore() *RowStore {
	return &RowStore{partitions: make(map[string][][]string)}
}

// OpenOrCreatePartition implements persistence.RowStore.
func (s *RowStore) OpenOrCreatePartition(ctx context.Context, name string) (persistence.Partition, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.OpenCalls++
	if s.OpenErr != nil {
		return persistence.Partition{}, false, s.OpenErr
	}

	if _, ok := s.partitions[name]; ok {
		return persistence.Partition{Name: name}, false, nil
	}
	s.partitions[name] = nil
	return persistence.Partition{Name: name}, true, nil
}

// AppendRow implements persistence.RowStore.
func (s *RowStore) AppendRow(ctx context.Context, partition persistence.Partition, cells []string) error {
	s.mu.Lock()
	hook := s.BeforeAppend
	s.mu.Unlock()

	if hook != nil {
		hook(partition.Name, cells)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.AppendCalls++
	if s.AppendErr != nil {
		return s.AppendErr
	}
	if _, ok := s.partitions[partition.Name]; !ok {
		return persistence.ErrNotFound
	}
	s.partitions[partition.Name] = append(s.partitions[partition.Name], append([]string(nil), cells...))
	return nil
}

// ReadAllRows implements persistence.RowStore.
func (s *RowStore) ReadAllRows(ctx context.Context, partition persistence.Partition) ([]persistence.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ReadCalls++
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}

	rows, ok := s.partitions[partition.Name]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]persistence.Record, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		record := make(persistence.Record, len(header))
		for i, field := range header {
			if i < len(cells) {
				record[field] = cells[i]
			} else {
				record[field] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// RowCount returns the number of stored rows (header included) for the
// partition, the quantity the duplicate-guard tests assert on.
func (s *RowStore) RowCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.partitions[name])
}

// Rows returns a copy of the partition's raw rows in append order.
func (s *RowStore) Rows(name string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([][]string, 0, len(s.partitions[name]))
	for _, cells := range s.partitions[name] {
		rows = append(rows, append([]string(nil), cells...))
	}
	return rows
}

// HasPartition reports whether the named partition exists.
func (s *RowStore) HasPartition(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.partitions[name]
	return ok
}
