package postgresstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresstore/internal/adapters"
)

//go:embed schema.sql
var schemaSQL string

const (
	dialectPostgres = "postgres"

	tableBooks            = "books"
	tableMembers          = "members"
	tableLoans            = "loans"
	tableTransactions     = "transactions"
	tableTransactionItems = "transaction_items"
	tableOverrideAudits   = "override_audits"
	tableLibrarySettings  = "library_settings"

	colID        = "id"
	colOwnerID   = "owner_id"
	colVersion   = "version"
	colDeletedAt = "deleted_at"
	colStatus    = "status"

	exprVersionIncrement = "version + 1"
	pingQuery            = "SELECT 1"

	logMsgBuildQueryFailed      = "failed to build sql query"
	logMsgDBQueryFailed         = "database query execution failed"
	logMsgScanRowFailed         = "failed to scan database row"
	logMsgCloseRowsFailed       = "failed to close database rows"
	logMsgBeginTxFailed         = "failed to begin database transaction"
	logMsgDBExecFailed          = "database execution failed during commit"
	logMsgRowsAffectedFailed    = "failed to get rows affected count"
	logMsgCommitFailed          = "failed to commit database transaction"
	logMsgRollbackFailed        = "failed to roll back database transaction"
	logMsgApplySchemaFailed     = "failed to apply database schema"
	logMsgChangesetCommitted    = "changeset committed"
	logMsgConcurrencyConflict   = "concurrency conflict detected"
	logMsgSchemaApplied         = "database schema applied"
	logMsgSQLExecuted           = "executed sql for: "
	logMsgOperation             = "circulationstore operation: "
	logAttrError                = "error"
	logAttrQuery                = "query"
	logAttrDurationMS           = "duration_ms"
	logAttrOwnerID              = "owner_id"
	logAttrTable                = "table"
	logAttrStatementCount       = "statement_count"
	logAttrRowCount             = "row_count"
	logAttrExpectedRowsAffected = "expected_rows_affected"
	logAttrRowsAffected         = "rows_affected"
	logAttrConsistency          = "consistency"
)

// Store is the Postgres persistence of the circulation workflows.
type Store struct {
	db               adapters.DBAdapter
	logger           circulation.Logger
	metricsCollector circulation.MetricsCollector
	tracingCollector circulation.TracingCollector
	contextualLogger circulation.ContextualLogger
}

// querier is satisfied by both the pool adapter and an open transaction.
type querier interface {
	Query(ctx context.Context, query string, args ...any) (adapters.DBRows, error)
}

// execer is satisfied by both the pool adapter and an open transaction.
type execer interface {
	Exec(ctx context.Context, query string, args ...any) (adapters.DBResult, error)
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, circulation.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options)
}

// NewStoreFromPGXPoolAndReplica creates a new Store that sends eventually consistent reads to replica.
func NewStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil || replica == nil {
		return Store{}, circulation.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapterWithReplica(db, replica), options)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, circulation.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options)
}

// NewStoreFromSQLDBAndReplica creates a new Store on sql.DB handles that sends eventually consistent reads to replica.
func NewStoreFromSQLDBAndReplica(db *sql.DB, replica *sql.DB, options ...Option) (Store, error) {
	if db == nil || replica == nil {
		return Store{}, circulation.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapterWithReplica(db, replica), options)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, circulation.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options)
}

// NewStoreFromSQLXAndReplica creates a new Store on sqlx.DB handles that sends eventually consistent reads to replica.
func NewStoreFromSQLXAndReplica(db *sqlx.DB, replica *sqlx.DB, options ...Option) (Store, error) {
	if db == nil || replica == nil {
		return Store{}, circulation.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapterWithReplica(db, replica), options)
}

func newStore(db adapters.DBAdapter, options []Option) (Store, error) {
	s := Store{db: db}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// Migrate creates the tables and indexes if they do not exist yet.
func (s Store) Migrate(ctx context.Context) error {
	start := time.Now()

	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		s.logError(ctx, logMsgApplySchemaFailed, err)
		return errors.Join(circulation.ErrApplyingSchemaFailed, err)
	}

	s.logOperation(ctx, logMsgSchemaApplied, logAttrDurationMS, toMilliseconds(time.Since(start)))

	return nil
}

// Ping runs a trivial query on the node the context's consistency level selects.
func (s Store) Ping(ctx context.Context) error {
	rows, err := s.db.Query(ctx, pingQuery)
	if err != nil {
		return errors.Join(circulation.ErrQueryingFailed, err)
	}

	return rows.Close()
}

func dialect() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

// query runs a select built by goqu and hands every row to scan.
func (s Store) query(
	ctx context.Context,
	q querier,
	table string,
	selectStmt *goqu.SelectDataset,
	scan func(rows adapters.DBRows) error,
) (int, error) {
	sqlQuery, args, err := selectStmt.Prepared(true).ToSQL()
	if err != nil {
		s.logError(ctx, logMsgBuildQueryFailed, err, logAttrTable, table)
		return 0, errors.Join(circulation.ErrBuildingQueryFailed, err)
	}

	start := time.Now()

	rows, err := q.Query(ctx, sqlQuery, args...)
	if err != nil {
		s.logError(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		return 0, errors.Join(circulation.ErrQueryingFailed, err)
	}
	defer s.closeRows(ctx, rows)

	count := 0
	for rows.Next() {
		if err := scan(rows); err != nil {
			s.logError(ctx, logMsgScanRowFailed, err, logAttrTable, table)
			return 0, errors.Join(circulation.ErrScanningDBRowFailed, err)
		}
		count++
	}

	if err := rows.Err(); err != nil {
		s.logError(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		return 0, errors.Join(circulation.ErrQueryingFailed, err)
	}

	s.logQueryWithDuration(ctx, sqlQuery, table, time.Since(start))

	return count, nil
}

func (s Store) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		s.logError(ctx, logMsgCloseRowsFailed, err)
	}
}
