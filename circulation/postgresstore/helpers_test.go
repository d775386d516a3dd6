package postgresstore_test

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresstore"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

var bookColumnNames = []string{
	"id", "owner_id", "title", "author", "isbn", "category", "stock", "status", "price",
	"version", "created_at", "updated_at", "deleted_at",
}

var memberColumnNames = []string{
	"id", "owner_id", "name", "email", "status", "version", "created_at", "deleted_at",
}

var loanColumnNames = []string{
	"id", "owner_id", "book_id", "member_id", "checkout_date", "due_date", "return_date", "status",
	"renewal_count", "return_condition", "condition_notes", "flagged_for_review",
	"late_fee_amount", "fee_paid", "fee_waived", "version",
}

func givenStoreWithMock(t *testing.T, options ...postgresstore.Option) (postgresstore.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := postgresstore.NewStoreFromSQLDB(db, options...)
	require.NoError(t, err)

	return store, mock
}

func givenBookRow(rows *sqlmock.Rows, id, ownerID uuid.UUID, stock int, status string, at time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id.String(), ownerID.String(), "Dune", "Frank Herbert", "9780441013593", "Fiction",
		int64(stock), status, "12.99", int64(3), at, at, nil,
	)
}

func givenBorrowedLoanRow(rows *sqlmock.Rows, id, ownerID, bookID, memberID uuid.UUID, checkout, due time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id.String(), ownerID.String(), bookID.String(), memberID.String(), checkout, due, nil, "Borrowed",
		int64(1), "", "", false, "0", false, false, int64(2),
	)
}

func sqlmockNew() (*sql.DB, sqlmock.Sqlmock, error) {
	return sqlmock.New()
}

func sqlmockRows(columns []string) *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

func sqlmockNoRows() driver.Result {
	return sqlmock.NewResult(0, 0)
}

func sqlmockOneRow() driver.Result {
	return sqlmock.NewResult(0, 1)
}

func givenIDs(t *testing.T) (uuid.UUID, uuid.UUID) {
	t.Helper()

	return GivenUniqueID(t), GivenUniqueID(t)
}
