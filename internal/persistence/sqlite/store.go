package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/timeclock/internal/persistence"
	_ "modernc.org/sqlite"
)

// Store implements persistence.RowStore on top of a SQLite database. Rows are
// stored as JSON-encoded cell arrays with a monotonically increasing sequence
// number per partition, so reads reproduce append order exactly.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given DSN.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
	}
	// modernc.org/sqlite serializes access through a single connection.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
	}
	return nil
}

// Migrate creates the partition and row tables when they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS partitions (
			name       TEXT PRIMARY KEY,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS rows (
			id        TEXT PRIMARY KEY,
			partition TEXT NOT NULL REFERENCES partitions(name),
			seq       INTEGER NOT NULL,
			cells     TEXT NOT NULL,
			UNIQUE (partition, seq)
		);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: apply schema: %v", persistence.ErrUnavailable, err)
	}
	return nil
}

// OpenOrCreatePartition inserts the partition row when absent and reports
// whether this call created it.
func (s *Store) OpenOrCreatePartition(ctx context.Context, name string) (persistence.Partition, bool, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO partitions (name, created_at) VALUES (?, ?)`,
		name, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return persistence.Partition{}, false, fmt.Errorf("%w: create partition: %v", persistence.ErrUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.Partition{}, false, fmt.Errorf("%w: create partition: %v", persistence.ErrUnavailable, err)
	}

	return persistence.Partition{Name: name}, affected > 0, nil
}

// AppendRow appends one row to the partition, assigning the next sequence
// number in the same statement so interleaved writers never reuse one.
func (s *Store) AppendRow(ctx context.Context, partition persistence.Partition, cells []string) error {
	if err := s.requirePartition(ctx, partition.Name); err != nil {
		return err
	}

	encoded, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("encode row cells: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rows (id, partition, seq, cells)
		 VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM rows WHERE partition = ?), ?)`,
		uuid.NewString(), partition.Name, partition.Name, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("%w: append row: %v", persistence.ErrUnavailable, err)
	}
	return nil
}

// ReadAllRows returns the partition's rows in append order as records keyed
// by the first (header) row.
func (s *Store) ReadAllRows(ctx context.Context, partition persistence.Partition) ([]persistence.Record, error) {
	if err := s.requirePartition(ctx, partition.Name); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM rows WHERE partition = ? ORDER BY seq`, partition.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: read rows: %v", persistence.ErrUnavailable, err)
	}
	defer rows.Close()

	var raw [][]string
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("%w: read rows: %v", persistence.ErrUnavailable, err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(encoded), &cells); err != nil {
			return nil, fmt.Errorf("decode row cells: %w", err)
		}
		raw = append(raw, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read rows: %v", persistence.ErrUnavailable, err)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	header := raw[0]
	records := make([]persistence.Record, 0, len(raw)-1)
	for _, cells := range raw[1:] {
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

func (s *Store) requirePartition(ctx context.Context, name string) error {
	var found string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM partitions WHERE name = ?`, name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: locate partition: %v", persistence.ErrUnavailable, err)
	}
	return nil
}
