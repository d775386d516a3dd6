// Package postgresstore persists books, members, loans, transactions, override audits and
// library settings in Postgres.
//
// Every read and every write is scoped by owner id. Commit applies a core.Changeset in one
// database transaction: inserts, then updates guarded by the version that was loaded. An update
// that matches no row, or a unique violation, rolls the transaction back and returns
// circulation.ErrConcurrencyConflict so that the command handler can reload and decide again.
//
// The store runs on pgxpool.Pool, *sql.DB (lib/pq) or *sqlx.DB:
//
//	store, err := postgresstore.NewStoreFromPGXPool(pool, postgresstore.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	if err := store.Migrate(ctx); err != nil {
//		return err
//	}
//
// Reads on a context marked with circulation.WithEventualConsistency go to the replica when
// one was given to the constructor.
package postgresstore
