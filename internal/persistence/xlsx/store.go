// Package xlsx persists the attendance row store in an Excel workbook with
// one sheet per partition, the local-file analogue of a hosted spreadsheet
// service.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/example/timeclock/internal/persistence"
)

// Store implements persistence.RowStore backed by a single .xlsx workbook.
// Every mutation is written back to disk before returning, so the workbook on
// disk is always the source of truth.
type Store struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

// Open loads the workbook at path, creating an empty one when absent.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: stat workbook: %v", persistence.ErrUnavailable, err)
		}
		file := excelize.NewFile()
		if err := file.SaveAs(path); err != nil {
			return nil, fmt.Errorf("%w: create workbook: %v", persistence.ErrUnavailable, err)
		}
		return &Store{path: path, file: file}, nil
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", persistence.ErrUnavailable, err)
	}
	return &Store{path: path, file: file}, nil
}

// Close releases the workbook handle without writing.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// OpenOrCreatePartition locates or creates the sheet named after the
// partition and reports whether this call created it.
func (s *Store) OpenOrCreatePartition(ctx context.Context, name string) (persistence.Partition, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.file.GetSheetIndex(name)
	if err != nil {
		return persistence.Partition{}, false, fmt.Errorf("%w: locate sheet: %v", persistence.ErrUnavailable, err)
	}
	if index >= 0 {
		return persistence.Partition{Name: name}, false, nil
	}

	if _, err := s.file.NewSheet(name); err != nil {
		return persistence.Partition{}, false, fmt.Errorf("%w: create sheet: %v", persistence.ErrUnavailable, err)
	}
	if err := s.file.SaveAs(s.path); err != nil {
		return persistence.Partition{}, false, fmt.Errorf("%w: save workbook: %v", persistence.ErrUnavailable, err)
	}
	return persistence.Partition{Name: name}, true, nil
}

// AppendRow writes the cells into the first free row of the partition sheet
// and saves the workbook.
func (s *Store) AppendRow(ctx context.Context, partition persistence.Partition, cells []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSheetLocked(partition.Name); err != nil {
		return err
	}

	rows, err := s.file.GetRows(partition.Name)
	if err != nil {
		return fmt.Errorf("%w: read sheet: %v", persistence.ErrUnavailable, err)
	}

	anchor, err := excelize.JoinCellName("A", len(rows)+1)
	if err != nil {
		return fmt.Errorf("%w: resolve cell: %v", persistence.ErrUnavailable, err)
	}
	row := append([]string(nil), cells...)
	if err := s.file.SetSheetRow(partition.Name, anchor, &row); err != nil {
		return fmt.Errorf("%w: write row: %v", persistence.ErrUnavailable, err)
	}
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("%w: save workbook: %v", persistence.ErrUnavailable, err)
	}
	return nil
}

// ReadAllRows returns the sheet's rows in stored order as records keyed by
// the header row.
func (s *Store) ReadAllRows(ctx context.Context, partition persistence.Partition) ([]persistence.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSheetLocked(partition.Name); err != nil {
		return nil, err
	}

	rows, err := s.file.GetRows(partition.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet: %v", persistence.ErrUnavailable, err)
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

func (s *Store) requireSheetLocked(name string) error {
	index, err := s.file.GetSheetIndex(name)
	if err != nil {
		return fmt.Errorf("%w: locate sheet: %v", persistence.ErrUnavailable, err)
	}
	if index < 0 {
		return persistence.ErrNotFound
	}
	return nil
}
