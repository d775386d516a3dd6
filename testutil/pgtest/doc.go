// Package pgtest connects tests to a live PostgreSQL instance.
//
// NewStore skips the calling test unless TEST_POSTGRES_DSN is set. ADAPTER_TYPE selects the
// driver the store runs on (pgx, sql or sqlx, default pgx), so the same tests cover all three.
// Rows are not cleaned up between tests: every test works under its own owner id.
package pgtest
