package persistence

import "context"

// Partition identifies the per-principal subsection of the row store: one
// worksheet per employee. Both backends key their storage off the partition
// name.
type Partition struct {
	Name string
}

// Record is a single stored row keyed by the header row of its partition,
// mirroring how spreadsheet clients expose named-field records.
type Record map[string]string

// RowStore exposes the append/read operations the attendance ledger requires
// from its backing store. Implementations preserve append order on reads and
// treat the first row of a partition as the header that names record fields.
type RowStore interface {
	// OpenOrCreatePartition locates or creates the named partition. The
	// second return reports whether the partition was created by this call,
	// letting callers write a header row exactly once.
	OpenOrCreatePartition(ctx context.Context, name string) (Partition, bool, error)

	// AppendRow appends one row of ordered cells to the partition.
	AppendRow(ctx context.Context, partition Partition, cells []string) error

	// ReadAllRows returns every non-header row of the partition as records
	// keyed by the header row, in append order. A partition holding only a
	// header (or nothing) yields an empty slice.
	ReadAllRows(ctx context.Context, partition Partition) ([]Record, error)
}
