// Package adapters lets the Postgres store run on pgxpool.Pool, *sql.DB or *sqlx.DB.
//
// All three expose the same DBAdapter: parameterized Query and Exec, and BeginTx for
// the single transaction a changeset is committed in. Reads marked with eventual
// consistency go to the replica when one is configured.
package adapters
