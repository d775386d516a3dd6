package postgresstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresstore"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func Test_Observability_Store_WithMetrics_RecordsLoadMetrics(t *testing.T) {
	// setup
	metrics := NewMetricsCollectorSpy()
	store, mock := givenStoreWithMock(t, postgresstore.WithMetrics(metrics))
	ownerID, memberID := givenIDs(t)
	mock.ExpectQuery(`SELECT .+ FROM "loans"`).WillReturnRows(sqlmockRows(loanColumnNames))

	// act
	_, err := store.LoadLoansByMember(context.Background(), ownerID, memberID)

	// assert
	assert.NoError(t, err)
	assert.True(t, metrics.HasDurationRecordForMetric("circulationstore_operation_duration_seconds").
		WithOperation("load_loans_by_member").
		WithStatus("success").
		Assert())
	assert.True(t, metrics.HasValueRecordForMetric("circulationstore_rows_loaded").
		WithOperation("load_loans_by_member").
		Assert())
}

func Test_Observability_Store_WithMetrics_RecordsConcurrencyConflicts(t *testing.T) {
	// setup
	metrics := NewMetricsCollectorSpy()
	store, mock := givenStoreWithMock(t, postgresstore.WithMetrics(metrics))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "books"`).WillReturnResult(sqlmockNoRows())
	mock.ExpectRollback()

	// act
	_ = store.Commit(context.Background(), givenCheckoutChangeset(t))

	// assert
	assert.Equal(t, 1, metrics.CountCounterRecordsForMetric("circulationstore_concurrency_conflicts_total"))
	assert.Equal(t, 0, metrics.CountCounterRecordsForMetric("circulationstore_database_errors_total"))
	assert.True(t, metrics.HasDurationRecordForMetric("circulationstore_operation_duration_seconds").
		WithOperation("commit").
		WithStatus("concurrency_conflict").
		Assert())
}

func Test_Observability_Store_WithMetrics_RecordsDatabaseErrors(t *testing.T) {
	// setup
	metrics := NewMetricsCollectorSpy()
	store, mock := givenStoreWithMock(t, postgresstore.WithMetrics(metrics))
	ownerID, bookID := givenIDs(t)
	mock.ExpectQuery(`SELECT .+ FROM "books"`).WillReturnError(errors.New("too many connections"))

	// act
	_, _ = store.LoadBook(context.Background(), ownerID, bookID)

	// assert
	assert.True(t, metrics.HasCounterRecordForMetric("circulationstore_database_errors_total").
		WithOperation("load_book").
		WithErrorType("query").
		Assert())
}

func Test_Observability_Store_WithMetrics_NotFoundIsNoDatabaseError(t *testing.T) {
	// setup
	metrics := NewMetricsCollectorSpy()
	store, mock := givenStoreWithMock(t, postgresstore.WithMetrics(metrics))
	ownerID, bookID := givenIDs(t)
	mock.ExpectQuery(`SELECT .+ FROM "books"`).WillReturnRows(sqlmockRows(bookColumnNames))

	// act
	_, _ = store.LoadBook(context.Background(), ownerID, bookID)

	// assert
	assert.Equal(t, 0, metrics.CountCounterRecordsForMetric("circulationstore_database_errors_total"))
	assert.True(t, metrics.HasDurationRecordForMetric("circulationstore_operation_duration_seconds").
		WithStatus("not_found").
		Assert())
}

func Test_Observability_Store_WithTracing_RecordsSpans(t *testing.T) {
	// setup
	tracing := NewTracingCollectorSpy()
	store, mock := givenStoreWithMock(t, postgresstore.WithTracing(tracing))
	ownerID, memberID := givenIDs(t)

	mock.ExpectQuery(`SELECT .+ FROM "loans"`).WillReturnRows(sqlmockRows(loanColumnNames))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "books"`).WillReturnResult(sqlmockNoRows())
	mock.ExpectRollback()

	// act
	_, _ = store.LoadOpenLoansByMember(context.Background(), ownerID, memberID)
	_ = store.Commit(context.Background(), givenCheckoutChangeset(t))

	// assert
	assert.True(t, tracing.HasFinishedSpan("circulationstore.load", "success"))
	assert.True(t, tracing.HasFinishedSpan("circulationstore.commit", "concurrency_conflict"))
}

func Test_Observability_Store_WithContextualLogger_LogsConflicts(t *testing.T) {
	// setup
	logger := NewContextualLoggerSpy()
	store, mock := givenStoreWithMock(t, postgresstore.WithContextualLogger(logger))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "books"`).WillReturnResult(sqlmockNoRows())
	mock.ExpectRollback()

	// act
	_ = store.Commit(context.Background(), givenCheckoutChangeset(t))

	// assert
	assert.True(t, logger.HasRecordWithArg("info", "circulationstore operation: concurrency conflict detected", "table", "books"))
}
