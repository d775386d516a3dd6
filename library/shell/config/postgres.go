package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresstore"
)

const sqlDriverName = "postgres"

// ErrUnknownDriver is returned for a POSTGRES_DRIVER other than pgx, sql or sqlx.
var ErrUnknownDriver = errors.New("unknown postgres driver")

// PGXPoolConfig parses dsn and applies the pool settings.
func PGXPoolConfig(dsn string, cfg PostgresConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns) //nolint:gosec
	poolConfig.MinConns = int32(cfg.MinConns) //nolint:gosec
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	return poolConfig, nil
}

// NewPGXPool opens and pings a pgx pool.
func NewPGXPool(ctx context.Context, dsn string, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := PGXPoolConfig(dsn, cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return pool, nil
}

// NewSQLDB opens and pings a database/sql handle on lib/pq.
func NewSQLDB(ctx context.Context, dsn string, cfg PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open(sqlDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	applyPoolSettings(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return db, nil
}

// NewSQLXDB opens and pings a sqlx handle on lib/pq.
func NewSQLXDB(ctx context.Context, dsn string, cfg PostgresConfig) (*sqlx.DB, error) {
	db, err := NewSQLDB(ctx, dsn, cfg)
	if err != nil {
		return nil, err
	}

	return sqlx.NewDb(db, sqlDriverName), nil
}

func applyPoolSettings(db *sql.DB, cfg PostgresConfig) {
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// NewStore connects with the configured driver and builds the store on it, with the
// replica when POSTGRES_REPLICA_DSN is set. The returned close function releases all handles.
func NewStore(
	ctx context.Context,
	cfg PostgresConfig,
	options ...postgresstore.Option,
) (postgresstore.Store, func(), error) {
	switch cfg.Driver {
	case DriverPGX:
		return newPGXStore(ctx, cfg, options)
	case DriverSQL:
		return newSQLStore(ctx, cfg, options)
	case DriverSQLX:
		return newSQLXStore(ctx, cfg, options)
	default:
		return postgresstore.Store{}, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func newPGXStore(ctx context.Context, cfg PostgresConfig, options []postgresstore.Option) (postgresstore.Store, func(), error) {
	primary, err := NewPGXPool(ctx, cfg.DSN, cfg)
	if err != nil {
		return postgresstore.Store{}, nil, err
	}

	if cfg.ReplicaDSN == "" {
		store, err := postgresstore.NewStoreFromPGXPool(primary, options...)
		return store, primary.Close, err
	}

	replica, err := NewPGXPool(ctx, cfg.ReplicaDSN, cfg)
	if err != nil {
		primary.Close()
		return postgresstore.Store{}, nil, err
	}

	closeAll := func() {
		replica.Close()
		primary.Close()
	}

	store, err := postgresstore.NewStoreFromPGXPoolAndReplica(primary, replica, options...)

	return store, closeAll, err
}

func newSQLStore(ctx context.Context, cfg PostgresConfig, options []postgresstore.Option) (postgresstore.Store, func(), error) {
	primary, err := NewSQLDB(ctx, cfg.DSN, cfg)
	if err != nil {
		return postgresstore.Store{}, nil, err
	}

	if cfg.ReplicaDSN == "" {
		store, err := postgresstore.NewStoreFromSQLDB(primary, options...)
		return store, func() { _ = primary.Close() }, err
	}

	replica, err := NewSQLDB(ctx, cfg.ReplicaDSN, cfg)
	if err != nil {
		_ = primary.Close()
		return postgresstore.Store{}, nil, err
	}

	store, err := postgresstore.NewStoreFromSQLDBAndReplica(primary, replica, options...)

	return store, func() { _ = replica.Close(); _ = primary.Close() }, err
}

func newSQLXStore(ctx context.Context, cfg PostgresConfig, options []postgresstore.Option) (postgresstore.Store, func(), error) {
	primary, err := NewSQLXDB(ctx, cfg.DSN, cfg)
	if err != nil {
		return postgresstore.Store{}, nil, err
	}

	if cfg.ReplicaDSN == "" {
		store, err := postgresstore.NewStoreFromSQLX(primary, options...)
		return store, func() { _ = primary.Close() }, err
	}

	replica, err := NewSQLXDB(ctx, cfg.ReplicaDSN, cfg)
	if err != nil {
		_ = primary.Close()
		return postgresstore.Store{}, nil, err
	}

	store, err := postgresstore.NewStoreFromSQLXAndReplica(primary, replica, options...)

	return store, func() { _ = replica.Close(); _ = primary.Close() }, err
}
