package adapters

import "context"

// DBAdapter is what the store needs from a database handle.
type DBAdapter interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
	BeginTx(ctx context.Context) (DBTx, error)
}

// DBTx is an open transaction on the primary.
type DBTx interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows iterates a result set.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult reports the effect of a statement.
type DBResult interface {
	RowsAffected() (int64, error)
}
