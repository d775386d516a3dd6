package circulation

import (
	"errors"
)

var ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")
var ErrNotFound = errors.New("record not found")

var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrEmptyChangeset = errors.New("changeset contains nothing to commit")
var ErrBuildingQueryFailed = errors.New("building the sql query failed")
var ErrQueryingFailed = errors.New("querying the database failed")
var ErrScanningDBRowFailed = errors.New("scanning the database row failed")
var ErrBeginningTransactionFailed = errors.New("beginning the database transaction failed")
var ErrExecutingStatementFailed = errors.New("executing the sql statement failed")
var ErrCommittingTransactionFailed = errors.New("committing the database transaction failed")
var ErrGettingRowsAffectedFailed = errors.New("getting the rows affected count failed")
var ErrApplyingSchemaFailed = errors.New("applying the database schema failed")
